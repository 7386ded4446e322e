package services

import (
	"context"
	"errors"

	"rentalcv/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// EligibilityResult tells the caller whether the next review is free and why.
// Exactly one reason applies; the checks below are ordered and the first
// match wins.
type EligibilityResult struct {
	IsFreeEligible  bool     `json:"is_free_eligible"`
	Reason          string   `json:"reason"`
	RequiresPayment bool     `json:"requires_payment"`
	Amount          *float64 `json:"amount,omitempty"`
}

// EligibilityService computes whether a landlord's review of a tenancy is
// free or paid. Read-only: nothing here mutates billing or tenancy state.
type EligibilityService interface {
	CheckReviewEligibility(ctx context.Context, landlordID, tenancyID uuid.UUID) (*EligibilityResult, error)
}

type eligibilityService struct {
	tenancyRepo repositories.TenancyRepository
	reviewRepo  repositories.ReviewRepository
	paymentRepo repositories.PaymentRepository
}

func NewEligibilityService(
	tenancyRepo repositories.TenancyRepository,
	reviewRepo repositories.ReviewRepository,
	paymentRepo repositories.PaymentRepository,
) EligibilityService {
	return &eligibilityService{
		tenancyRepo: tenancyRepo,
		reviewRepo:  reviewRepo,
		paymentRepo: paymentRepo,
	}
}

func freeResult(reason string) *EligibilityResult {
	return &EligibilityResult{IsFreeEligible: true, Reason: reason}
}

func paidResult(reason string) *EligibilityResult {
	amount := PerReviewFee
	return &EligibilityResult{
		IsFreeEligible:  false,
		Reason:          reason,
		RequiresPayment: true,
		Amount:          &amount,
	}
}

func (s *eligibilityService) CheckReviewEligibility(ctx context.Context, landlordID, tenancyID uuid.UUID) (*EligibilityResult, error) {
	tenancy, err := s.tenancyRepo.GetByID(ctx, tenancyID)
	if err != nil {
		return nil, err
	}

	// Per-tenancy grant wins over everything, including an exhausted trial.
	if tenancy.FreeReviewEligible {
		return freeResult("first review for a tenant-initiated tenancy is free"), nil
	}

	count, err := s.reviewRepo.CountByReviewer(ctx, landlordID)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return freeResult("first review is free"), nil
	}

	account, err := s.paymentRepo.GetAccountByUserID(ctx, landlordID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return paidResult("free trial used, payment required"), nil
		}
		return nil, err
	}

	switch account.Plan {
	case "premium", "business":
		return freeResult("reviews are included in the " + account.Plan + " plan"), nil
	}

	return paidResult("pay-per-review on the " + account.Plan + " plan"), nil
}
