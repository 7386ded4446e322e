package repositories

import (
	"context"

	"rentalcv/internal/models"
)

type DisclaimerRepository interface {
	Create(ctx context.Context, disclaimer *models.Disclaimer) error
	// GetActive returns the active disclaimer version for a country.
	GetActive(ctx context.Context, country string) (*models.Disclaimer, error)
	ListByCountry(ctx context.Context, country string) ([]*models.Disclaimer, error)
	Update(ctx context.Context, disclaimer *models.Disclaimer) error
}

type disclaimerRepo struct {
	db Database
}

func NewDisclaimerRepo(db Database) DisclaimerRepository {
	return &disclaimerRepo{db: db}
}

const disclaimerColumns = `id, version, country, content, active, created_at, updated_at`

func (r *disclaimerRepo) Create(ctx context.Context, d *models.Disclaimer) error {
	query := `
		INSERT INTO disclaimers (id, version, country, content, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, d.ID, d.Version, d.Country, d.Content, d.Active)
	return err
}

func (r *disclaimerRepo) GetActive(ctx context.Context, country string) (*models.Disclaimer, error) {
	d := &models.Disclaimer{}
	query := `SELECT ` + disclaimerColumns + ` FROM disclaimers
		WHERE country = $1 AND active = TRUE
		ORDER BY created_at DESC
		LIMIT 1`
	err := r.db.QueryRow(ctx, query, country).Scan(
		&d.ID, &d.Version, &d.Country, &d.Content, &d.Active, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *disclaimerRepo) ListByCountry(ctx context.Context, country string) ([]*models.Disclaimer, error) {
	query := `SELECT ` + disclaimerColumns + ` FROM disclaimers WHERE country = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, country)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var disclaimers []*models.Disclaimer
	for rows.Next() {
		d := &models.Disclaimer{}
		if err := rows.Scan(&d.ID, &d.Version, &d.Country, &d.Content, &d.Active, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		disclaimers = append(disclaimers, d)
	}
	return disclaimers, rows.Err()
}

func (r *disclaimerRepo) Update(ctx context.Context, d *models.Disclaimer) error {
	query := `
		UPDATE disclaimers
		SET version = $2, country = $3, content = $4, active = $5, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.db.Exec(ctx, query, d.ID, d.Version, d.Country, d.Content, d.Active)
	return err
}
