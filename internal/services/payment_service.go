package services

import (
	"context"
	"fmt"

	"rentalcv/internal/models"
	"rentalcv/internal/repositories"

	"github.com/google/uuid"
)

// PerReviewFee is the amount charged for a single review when no free
// eligibility applies.
const PerReviewFee = 4.99

// PlanConfig represents a billing plan.
type PlanConfig struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	MonthlyAmount float64  `json:"monthly_amount"`
	Currency      string   `json:"currency"`
	ReviewsFree   bool     `json:"reviews_free"`
	Features      []string `json:"features"`
}

var availablePlans = map[string]PlanConfig{
	"free": {
		ID:            "free",
		Name:          "Free Plan",
		Description:   "Pay per review after the first",
		MonthlyAmount: 0,
		Currency:      "GBP",
		ReviewsFree:   false,
		Features: []string{
			"First review free",
			"Pay-per-review afterwards",
			"Email support",
		},
	},
	"premium": {
		ID:            "premium",
		Name:          "Premium Plan",
		Description:   "Unlimited reviews for active landlords",
		MonthlyAmount: 9.99,
		Currency:      "GBP",
		ReviewsFree:   true,
		Features: []string{
			"Unlimited reviews",
			"Verified badge",
			"Priority support",
		},
	},
	"business": {
		ID:            "business",
		Name:          "Business Plan",
		Description:   "For letting agencies and portfolio landlords",
		MonthlyAmount: 29.99,
		Currency:      "GBP",
		ReviewsFree:   true,
		Features: []string{
			"Unlimited reviews",
			"Multiple properties",
			"API access",
			"Dedicated support",
		},
	},
}

// PaymentIntent is the stubbed gateway object returned when a paid review is
// initialized. No real capture happens; intent IDs are placeholders.
type PaymentIntent struct {
	ID       string  `json:"id"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Status   string  `json:"status"`
}

type PaymentService interface {
	GetAccount(ctx context.Context, userID uuid.UUID) (*models.PaymentAccount, error)
	EnsureAccount(ctx context.Context, userID uuid.UUID, plan string) (*models.PaymentAccount, error)
	// CreateReviewPaymentIntent records a stubbed per-review charge.
	CreateReviewPaymentIntent(ctx context.Context, userID, tenancyID uuid.UUID, amount float64) (*PaymentIntent, error)
	ConfirmPayment(ctx context.Context, paymentID uuid.UUID) error
	GetAvailablePlans() map[string]PlanConfig
}

type paymentService struct {
	paymentRepo repositories.PaymentRepository
}

func NewPaymentService(paymentRepo repositories.PaymentRepository) PaymentService {
	return &paymentService{paymentRepo: paymentRepo}
}

func (s *paymentService) GetAccount(ctx context.Context, userID uuid.UUID) (*models.PaymentAccount, error) {
	return s.paymentRepo.GetAccountByUserID(ctx, userID)
}

func (s *paymentService) EnsureAccount(ctx context.Context, userID uuid.UUID, plan string) (*models.PaymentAccount, error) {
	if _, exists := availablePlans[plan]; !exists {
		return nil, fmt.Errorf("invalid plan: %s", plan)
	}

	existing, err := s.paymentRepo.GetAccountByUserID(ctx, userID)
	if err == nil {
		if existing.Plan != plan {
			existing.Plan = plan
			if err := s.paymentRepo.UpdateAccount(ctx, existing); err != nil {
				return nil, err
			}
		}
		return existing, nil
	}

	account := &models.PaymentAccount{
		ID:     uuid.New(),
		UserID: userID,
		Plan:   plan,
	}
	if err := s.paymentRepo.CreateAccount(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *paymentService) CreateReviewPaymentIntent(ctx context.Context, userID, tenancyID uuid.UUID, amount float64) (*PaymentIntent, error) {
	// TODO: Integrate a real payment gateway; intent IDs are mocked for now.
	lastFour := userID.String()[len(userID.String())-4:]
	intentID := fmt.Sprintf("pi_mock%s", lastFour)

	payment := &models.Payment{
		ID:              uuid.New(),
		UserID:          userID,
		TenancyID:       &tenancyID,
		PaymentIntentID: &intentID,
		Amount:          amount,
		Currency:        "GBP",
		Status:          "pending",
	}
	if err := s.paymentRepo.CreatePayment(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to record payment: %v", err)
	}

	return &PaymentIntent{
		ID:       intentID,
		Amount:   amount,
		Currency: "GBP",
		Status:   "requires_confirmation",
	}, nil
}

func (s *paymentService) ConfirmPayment(ctx context.Context, paymentID uuid.UUID) error {
	payment, err := s.paymentRepo.GetPaymentByID(ctx, paymentID)
	if err != nil {
		return err
	}
	if payment.Status == "succeeded" {
		return nil
	}
	return s.paymentRepo.UpdatePaymentStatus(ctx, paymentID, "succeeded")
}

func (s *paymentService) GetAvailablePlans() map[string]PlanConfig {
	// Return a copy to prevent external modification
	result := make(map[string]PlanConfig, len(availablePlans))
	for k, v := range availablePlans {
		result[k] = v
	}
	return result
}
