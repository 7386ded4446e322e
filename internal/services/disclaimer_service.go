package services

import (
	"context"
	"errors"
	"fmt"

	"rentalcv/internal/models"
	"rentalcv/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// DisclaimerService manages versioned legal texts per country. Publishing a
// new version deactivates the previous one; the active version is what
// acceptance gets logged against.
type DisclaimerService interface {
	GetActive(ctx context.Context, country string) (*models.Disclaimer, error)
	Publish(ctx context.Context, country, version, content string) (*models.Disclaimer, error)
	ListByCountry(ctx context.Context, country string) ([]*models.Disclaimer, error)
}

type disclaimerService struct {
	disclaimerRepo repositories.DisclaimerRepository
}

func NewDisclaimerService(disclaimerRepo repositories.DisclaimerRepository) DisclaimerService {
	return &disclaimerService{disclaimerRepo: disclaimerRepo}
}

func (s *disclaimerService) GetActive(ctx context.Context, country string) (*models.Disclaimer, error) {
	if country == "" {
		return nil, errors.New("country is required")
	}
	return s.disclaimerRepo.GetActive(ctx, country)
}

func (s *disclaimerService) Publish(ctx context.Context, country, version, content string) (*models.Disclaimer, error) {
	if country == "" || version == "" || content == "" {
		return nil, errors.New("country, version and content are required")
	}

	current, err := s.disclaimerRepo.GetActive(ctx, country)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if err == nil {
		if current.Version == version {
			return nil, fmt.Errorf("version %s is already active for %s", version, country)
		}
		current.Active = false
		if err := s.disclaimerRepo.Update(ctx, current); err != nil {
			return nil, fmt.Errorf("failed to deactivate previous disclaimer: %v", err)
		}
	}

	disclaimer := &models.Disclaimer{
		ID:      uuid.New(),
		Version: version,
		Country: country,
		Content: content,
		Active:  true,
	}
	if err := s.disclaimerRepo.Create(ctx, disclaimer); err != nil {
		return nil, fmt.Errorf("failed to create disclaimer: %v", err)
	}
	return disclaimer, nil
}

func (s *disclaimerService) ListByCountry(ctx context.Context, country string) ([]*models.Disclaimer, error) {
	return s.disclaimerRepo.ListByCountry(ctx, country)
}
