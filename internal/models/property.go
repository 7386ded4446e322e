package models

import (
	"time"

	"github.com/google/uuid"
)

// Property represents a rental property. A placeholder property is created by
// a tenant-initiated request with best-effort address fields; the landlord
// claims and corrects it during verification.
type Property struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	LandlordID   *uuid.UUID `json:"landlord_id" db:"landlord_id"` // nil for unclaimed placeholders
	AddressLine1 string     `json:"address_line1" db:"address_line1"`
	AddressLine2 *string    `json:"address_line2" db:"address_line2"`
	City         string     `json:"city" db:"city"`
	Region       *string    `json:"region" db:"region"`
	Postcode     string     `json:"postcode" db:"postcode"`
	Country      string     `json:"country" db:"country"`
	PropertyType *string    `json:"property_type" db:"property_type"` // house, flat, room
	Bedrooms     *int       `json:"bedrooms" db:"bedrooms"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	Placeholder  bool       `json:"placeholder" db:"placeholder"`
	CreatedBy    uuid.UUID  `json:"created_by" db:"created_by"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}
