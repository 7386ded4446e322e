package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"rentalcv/internal/models"
	"rentalcv/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type SubmitReviewRequest struct {
	TenancyID  uuid.UUID `json:"tenancy_id" validate:"required"`
	ReviewerID uuid.UUID `json:"-"`

	CommunicationRating int `json:"communication_rating" validate:"required,min=1,max=5"`
	PaymentRating       int `json:"payment_rating" validate:"required,min=1,max=5"`
	PropertyCareRating  int `json:"property_care_rating" validate:"required,min=1,max=5"`
	ConductRating       int `json:"conduct_rating" validate:"required,min=1,max=5"`

	Comment string `json:"comment" validate:"required"`
}

type SubmitReviewResult struct {
	WorkflowResult
	ReviewID      uuid.UUID `json:"review_id,omitempty"`
	OverallRating float64   `json:"overall_rating,omitempty"`
}

// ReviewService handles review submission in both directions. Reviews are
// immutable once created and unique per (tenancy, reviewer, reviewee type).
type ReviewService interface {
	// SubmitLandlordReview is the landlord reviewing the tenant.
	SubmitLandlordReview(ctx context.Context, req *SubmitReviewRequest) (*SubmitReviewResult, error)
	// SubmitTenantReview is the tenant reviewing the landlord; only allowed
	// when the landlord opted in to being reviewed.
	SubmitTenantReview(ctx context.Context, req *SubmitReviewRequest) (*SubmitReviewResult, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Review, error)
	ListByTenancy(ctx context.Context, callerID, tenancyID uuid.UUID) ([]*models.Review, error)
}

type reviewService struct {
	reviewRepo  repositories.ReviewRepository
	tenancyRepo repositories.TenancyRepository
}

func NewReviewService(reviewRepo repositories.ReviewRepository, tenancyRepo repositories.TenancyRepository) ReviewService {
	return &reviewService{reviewRepo: reviewRepo, tenancyRepo: tenancyRepo}
}

func validateRatings(req *SubmitReviewRequest) string {
	for _, rating := range []int{req.CommunicationRating, req.PaymentRating, req.PropertyCareRating, req.ConductRating} {
		if rating < 1 || rating > 5 {
			return "ratings must be between 1 and 5"
		}
	}
	if strings.TrimSpace(req.Comment) == "" {
		return "comment is required"
	}
	return ""
}

func (s *reviewService) SubmitLandlordReview(ctx context.Context, req *SubmitReviewRequest) (*SubmitReviewResult, error) {
	tenancy, err := s.tenancyRepo.GetByID(ctx, req.TenancyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Same message whether the tenancy is missing or not theirs.
			return &SubmitReviewResult{WorkflowResult: fail("Unauthorized")}, nil
		}
		return nil, err
	}
	if tenancy.LandlordID == nil || *tenancy.LandlordID != req.ReviewerID {
		return &SubmitReviewResult{WorkflowResult: fail("Unauthorized")}, nil
	}
	return s.submit(ctx, req, tenancy, models.RevieweeTenant)
}

func (s *reviewService) SubmitTenantReview(ctx context.Context, req *SubmitReviewRequest) (*SubmitReviewResult, error) {
	tenancy, err := s.tenancyRepo.GetByID(ctx, req.TenancyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &SubmitReviewResult{WorkflowResult: fail("Unauthorized")}, nil
		}
		return nil, err
	}
	if tenancy.TenantID == nil || *tenancy.TenantID != req.ReviewerID {
		return &SubmitReviewResult{WorkflowResult: fail("Unauthorized")}, nil
	}
	if !tenancy.LandlordReviewable {
		return &SubmitReviewResult{WorkflowResult: fail("the landlord has not opted in to being reviewed")}, nil
	}
	return s.submit(ctx, req, tenancy, models.RevieweeLandlord)
}

func (s *reviewService) submit(ctx context.Context, req *SubmitReviewRequest, tenancy *models.Tenancy, revieweeType models.RevieweeType) (*SubmitReviewResult, error) {
	if reason := validateRatings(req); reason != "" {
		return &SubmitReviewResult{WorkflowResult: fail(reason)}, nil
	}

	switch tenancy.Status {
	case models.TenancyStatusActive, models.TenancyStatusEnded:
	default:
		return &SubmitReviewResult{WorkflowResult: fail(fmt.Sprintf("reviews are only accepted for verified tenancies (status %s)", tenancy.Status))}, nil
	}

	_, err := s.reviewRepo.GetByTriple(ctx, tenancy.ID, req.ReviewerID, revieweeType)
	if err == nil {
		return &SubmitReviewResult{WorkflowResult: fail("a review has already been submitted for this tenancy")}, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	review := &models.Review{
		ID:                  uuid.New(),
		TenancyID:           tenancy.ID,
		ReviewerID:          req.ReviewerID,
		RevieweeType:        revieweeType,
		CommunicationRating: req.CommunicationRating,
		PaymentRating:       req.PaymentRating,
		PropertyCareRating:  req.PropertyCareRating,
		ConductRating:       req.ConductRating,
		Comment:             strings.TrimSpace(req.Comment),
		Verified:            tenancy.TenantVerified && tenancy.LandlordVerified,
	}
	review.OverallRating = review.ComputeOverall()

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to create review: %v", err)
	}

	// Best-effort back-reference; the review row itself is the source of truth.
	if revieweeType == models.RevieweeTenant {
		tenancy.LandlordReviewID = &review.ID
	} else {
		tenancy.TenantReviewID = &review.ID
	}
	if err := s.tenancyRepo.Update(ctx, tenancy); err != nil {
		log.Printf("WARN: failed to link review %s to tenancy %s: %v", review.ID, tenancy.ID, err)
	}

	return &SubmitReviewResult{
		WorkflowResult: ok(),
		ReviewID:       review.ID,
		OverallRating:  review.OverallRating,
	}, nil
}

func (s *reviewService) GetByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	return s.reviewRepo.GetByID(ctx, id)
}

func (s *reviewService) ListByTenancy(ctx context.Context, callerID, tenancyID uuid.UUID) ([]*models.Review, error) {
	tenancy, err := s.tenancyRepo.GetByID(ctx, tenancyID)
	if err != nil {
		return nil, err
	}
	authorized := (tenancy.TenantID != nil && *tenancy.TenantID == callerID) ||
		(tenancy.LandlordID != nil && *tenancy.LandlordID == callerID)
	if !authorized {
		return nil, errors.New("Unauthorized")
	}
	return s.reviewRepo.ListByTenancy(ctx, tenancyID)
}
