package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"rentalcv/internal/models"
	"rentalcv/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type AddPropertyRequest struct {
	LandlordID   uuid.UUID `json:"-"`
	AddressLine1 string    `json:"address_line1" validate:"required"`
	AddressLine2 *string   `json:"address_line2"`
	City         string    `json:"city" validate:"required"`
	Region       *string   `json:"region"`
	Postcode     string    `json:"postcode" validate:"required"`
	Country      string    `json:"country" validate:"required"`
	PropertyType *string   `json:"property_type"`
	Bedrooms     *int      `json:"bedrooms"`
}

// PropertyService manages the landlord's property portfolio and placeholder
// claiming for tenant-initiated tenancies.
type PropertyService interface {
	AddProperty(ctx context.Context, req *AddPropertyRequest) (*models.Property, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error)
	UpdateProperty(ctx context.Context, callerID uuid.UUID, property *models.Property) error
	ListByLandlord(ctx context.Context, landlordID uuid.UUID, limit, offset int) ([]*models.Property, error)
	// ClaimPlaceholder assigns an unowned placeholder property to a landlord
	// and activates it.
	ClaimPlaceholder(ctx context.Context, landlordID, propertyID uuid.UUID) (*models.Property, error)
}

type propertyService struct {
	propertyRepo repositories.PropertyRepository
}

func NewPropertyService(propertyRepo repositories.PropertyRepository) PropertyService {
	return &propertyService{propertyRepo: propertyRepo}
}

func (s *propertyService) AddProperty(ctx context.Context, req *AddPropertyRequest) (*models.Property, error) {
	if strings.TrimSpace(req.AddressLine1) == "" || strings.TrimSpace(req.Postcode) == "" {
		return nil, errors.New("address line 1 and postcode are required")
	}
	if strings.TrimSpace(req.City) == "" || strings.TrimSpace(req.Country) == "" {
		return nil, errors.New("city and country are required")
	}

	// One property record per (postcode, address line 1).
	existing, err := s.propertyRepo.GetByAddress(ctx, req.Postcode, req.AddressLine1)
	if err == nil && existing != nil {
		return nil, fmt.Errorf("a property already exists at %s, %s", req.AddressLine1, req.Postcode)
	}
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	landlordID := req.LandlordID
	property := &models.Property{
		ID:           uuid.New(),
		LandlordID:   &landlordID,
		AddressLine1: strings.TrimSpace(req.AddressLine1),
		AddressLine2: req.AddressLine2,
		City:         strings.TrimSpace(req.City),
		Region:       req.Region,
		Postcode:     strings.TrimSpace(req.Postcode),
		Country:      strings.TrimSpace(req.Country),
		PropertyType: req.PropertyType,
		Bedrooms:     req.Bedrooms,
		IsActive:     true,
		CreatedBy:    landlordID,
	}
	if err := s.propertyRepo.Create(ctx, property); err != nil {
		return nil, fmt.Errorf("failed to create property: %v", err)
	}
	return property, nil
}

func (s *propertyService) GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	return s.propertyRepo.GetByID(ctx, id)
}

func (s *propertyService) UpdateProperty(ctx context.Context, callerID uuid.UUID, property *models.Property) error {
	current, err := s.propertyRepo.GetByID(ctx, property.ID)
	if err != nil {
		return err
	}
	if current.LandlordID == nil || *current.LandlordID != callerID {
		return errors.New("Unauthorized")
	}
	// Ownership fields are not updatable through this path.
	property.LandlordID = current.LandlordID
	property.CreatedBy = current.CreatedBy
	property.Placeholder = current.Placeholder
	return s.propertyRepo.Update(ctx, property)
}

func (s *propertyService) ListByLandlord(ctx context.Context, landlordID uuid.UUID, limit, offset int) ([]*models.Property, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.propertyRepo.ListByLandlord(ctx, landlordID, limit, offset)
}

func (s *propertyService) ClaimPlaceholder(ctx context.Context, landlordID, propertyID uuid.UUID) (*models.Property, error) {
	property, err := s.propertyRepo.GetByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if !property.Placeholder {
		return nil, errors.New("property is not a placeholder")
	}
	if property.LandlordID != nil {
		if *property.LandlordID == landlordID {
			return property, nil
		}
		return nil, errors.New("property has already been claimed")
	}

	property.LandlordID = &landlordID
	property.IsActive = true
	property.Placeholder = false
	if err := s.propertyRepo.Update(ctx, property); err != nil {
		return nil, fmt.Errorf("failed to claim property: %v", err)
	}
	return property, nil
}
