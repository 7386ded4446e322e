package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"rentalcv/internal/models"
	"rentalcv/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	verificationCodeLength = 6
	verificationCodeTTL    = 10 * time.Minute
)

// VerificationService issues and checks short-lived numeric codes delivered
// by email or SMS. A matched code is consumed and cannot be replayed.
type VerificationService interface {
	SendCode(ctx context.Context, userID uuid.UUID, channel, recipient, purpose string) error
	VerifyCode(ctx context.Context, userID uuid.UUID, purpose, code string) error
}

type verificationService struct {
	codeRepo        repositories.VerificationCodeRepository
	notificationSvc NotificationService
	now             func() time.Time
}

func NewVerificationService(codeRepo repositories.VerificationCodeRepository, notificationSvc NotificationService) VerificationService {
	return &verificationService{
		codeRepo:        codeRepo,
		notificationSvc: notificationSvc,
		now:             time.Now,
	}
}

func generateNumericCode(length int) (string, error) {
	code := make([]byte, length)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		code[i] = byte('0' + n.Int64())
	}
	return string(code), nil
}

func (s *verificationService) SendCode(ctx context.Context, userID uuid.UUID, channel, recipient, purpose string) error {
	if channel != "email" && channel != "sms" {
		return fmt.Errorf("invalid channel: %s", channel)
	}
	if recipient == "" {
		return errors.New("recipient is required")
	}

	code, err := generateNumericCode(verificationCodeLength)
	if err != nil {
		return fmt.Errorf("failed to generate code: %v", err)
	}

	record := &models.VerificationCode{
		ID:        uuid.New(),
		UserID:    userID,
		Channel:   channel,
		Code:      code,
		Purpose:   purpose,
		ExpiresAt: s.now().Add(verificationCodeTTL),
	}
	if err := s.codeRepo.Create(ctx, record); err != nil {
		return fmt.Errorf("failed to store verification code: %v", err)
	}

	message := fmt.Sprintf("Your RentalCV verification code is %s. It expires in 10 minutes.", code)
	if channel == "sms" {
		return s.notificationSvc.EnqueueSMS(ctx, recipient, message)
	}
	return s.notificationSvc.EnqueueEmail(ctx, recipient, "Your RentalCV verification code", message)
}

func (s *verificationService) VerifyCode(ctx context.Context, userID uuid.UUID, purpose, code string) error {
	record, err := s.codeRepo.GetLatest(ctx, userID, purpose)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return errors.New("no verification code found")
		}
		return err
	}
	if record.IsExpired(s.now()) {
		return errors.New("verification code has expired")
	}
	if record.Code != code {
		return errors.New("incorrect verification code")
	}
	return s.codeRepo.MarkConsumed(ctx, record.ID)
}
