package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"rentalcv/internal/models"
	"rentalcv/internal/repositories"

	"github.com/google/uuid"
)

type LogDisclaimerAcceptanceRequest struct {
	UserID            uuid.UUID                `json:"-"`
	TenancyID         *uuid.UUID               `json:"tenancy_id"`
	Country           string                   `json:"country" validate:"required"`
	DisclaimerVersion string                   `json:"disclaimer_version" validate:"required"`
	Context           models.ComplianceContext `json:"context" validate:"required"`
	IPAddress         string                   `json:"-"`
	DeviceType        string                   `json:"device_type"`
	UserAgent         string                   `json:"-"`
}

// ComplianceService owns the append-only disclaimer acceptance log and the
// retention sweep that archives entries past the 7-year window.
type ComplianceService interface {
	LogDisclaimerAcceptance(ctx context.Context, req *LogDisclaimerAcceptanceRequest) (*models.ComplianceLog, error)
	ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.ComplianceLog, error)
	// ArchiveExpired runs the retention sweep and returns the rows archived.
	ArchiveExpired(ctx context.Context) (int64, error)
}

type complianceService struct {
	complianceRepo repositories.ComplianceRepository
	now            func() time.Time
}

func NewComplianceService(complianceRepo repositories.ComplianceRepository) ComplianceService {
	return &complianceService{complianceRepo: complianceRepo, now: time.Now}
}

func (s *complianceService) LogDisclaimerAcceptance(ctx context.Context, req *LogDisclaimerAcceptanceRequest) (*models.ComplianceLog, error) {
	if req.Country == "" {
		return nil, fmt.Errorf("country is required")
	}
	if req.DisclaimerVersion == "" {
		return nil, fmt.Errorf("disclaimer version is required")
	}

	switch req.Context {
	case models.ComplianceContextTenantRequest,
		models.ComplianceContextTenantAcceptance,
		models.ComplianceContextLandlordVerification,
		models.ComplianceContextReviewSubmission:
	default:
		return nil, fmt.Errorf("invalid compliance context: %s", req.Context)
	}

	entry := &models.ComplianceLog{
		ID:                 uuid.New(),
		UserID:             req.UserID,
		TenancyID:          req.TenancyID,
		Country:            req.Country,
		DisclaimerVersion:  req.DisclaimerVersion,
		Context:            req.Context,
		IPAddress:          req.IPAddress,
		DeviceType:         req.DeviceType,
		UserAgent:          req.UserAgent,
		RetentionExpiresAt: s.now().AddDate(models.ComplianceRetentionYears, 0, 0),
	}
	if err := s.complianceRepo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to record disclaimer acceptance: %v", err)
	}
	return entry, nil
}

func (s *complianceService) ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.ComplianceLog, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.complianceRepo.ListByUser(ctx, userID, limit, offset)
}

func (s *complianceService) ArchiveExpired(ctx context.Context) (int64, error) {
	archived, err := s.complianceRepo.ArchiveExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if archived > 0 {
		log.Printf("Archived %d compliance log entries past retention", archived)
	}
	return archived, nil
}
