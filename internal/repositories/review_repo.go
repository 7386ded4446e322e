package repositories

import (
	"context"

	"rentalcv/internal/models"

	"github.com/google/uuid"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Review, error)
	// GetByTriple enforces the at-most-one-review-per-triple invariant.
	// Returns pgx.ErrNoRows when no review exists for the triple.
	GetByTriple(ctx context.Context, tenancyID, reviewerID uuid.UUID, revieweeType models.RevieweeType) (*models.Review, error)
	// CountByReviewer counts reviews authored by a user across all tenancies,
	// which drives the first-review-ever free trial.
	CountByReviewer(ctx context.Context, reviewerID uuid.UUID) (int, error)
	ListByTenancy(ctx context.Context, tenancyID uuid.UUID) ([]*models.Review, error)
	ListByReviewer(ctx context.Context, reviewerID uuid.UUID, limit, offset int) ([]*models.Review, error)
}

type reviewRepo struct {
	db Database
}

func NewReviewRepo(db Database) ReviewRepository {
	return &reviewRepo{db: db}
}

const reviewColumns = `
	id, tenancy_id, reviewer_id, reviewee_type,
	communication_rating, payment_rating, property_care_rating, conduct_rating,
	overall_rating, comment, verified, created_at`

func (r *reviewRepo) Create(ctx context.Context, review *models.Review) error {
	query := `
		INSERT INTO reviews (id, tenancy_id, reviewer_id, reviewee_type,
			communication_rating, payment_rating, property_care_rating, conduct_rating,
			overall_rating, comment, verified, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
	`
	_, err := r.db.Exec(ctx, query,
		review.ID, review.TenancyID, review.ReviewerID, review.RevieweeType,
		review.CommunicationRating, review.PaymentRating, review.PropertyCareRating, review.ConductRating,
		review.OverallRating, review.Comment, review.Verified,
	)
	return err
}

func scanReview(row interface {
	Scan(dest ...interface{}) error
}) (*models.Review, error) {
	review := &models.Review{}
	err := row.Scan(
		&review.ID, &review.TenancyID, &review.ReviewerID, &review.RevieweeType,
		&review.CommunicationRating, &review.PaymentRating, &review.PropertyCareRating, &review.ConductRating,
		&review.OverallRating, &review.Comment, &review.Verified, &review.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return review, nil
}

func (r *reviewRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	query := `SELECT` + reviewColumns + ` FROM reviews WHERE id = $1`
	return scanReview(r.db.QueryRow(ctx, query, id))
}

func (r *reviewRepo) GetByTriple(ctx context.Context, tenancyID, reviewerID uuid.UUID, revieweeType models.RevieweeType) (*models.Review, error) {
	query := `SELECT` + reviewColumns + ` FROM reviews
		WHERE tenancy_id = $1 AND reviewer_id = $2 AND reviewee_type = $3`
	return scanReview(r.db.QueryRow(ctx, query, tenancyID, reviewerID, revieweeType))
}

func (r *reviewRepo) CountByReviewer(ctx context.Context, reviewerID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM reviews WHERE reviewer_id = $1`
	err := r.db.QueryRow(ctx, query, reviewerID).Scan(&count)
	return count, err
}

func (r *reviewRepo) ListByTenancy(ctx context.Context, tenancyID uuid.UUID) ([]*models.Review, error) {
	query := `SELECT` + reviewColumns + ` FROM reviews WHERE tenancy_id = $1 ORDER BY created_at ASC`
	rows, err := r.db.Query(ctx, query, tenancyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []*models.Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}

func (r *reviewRepo) ListByReviewer(ctx context.Context, reviewerID uuid.UUID, limit, offset int) ([]*models.Review, error) {
	query := `SELECT` + reviewColumns + ` FROM reviews WHERE reviewer_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, reviewerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []*models.Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}
