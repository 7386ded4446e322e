package models

import (
	"time"

	"github.com/google/uuid"
)

// Disclaimer is a versioned legal text shown during onboarding. The active
// version per country is what acceptance is logged against.
type Disclaimer struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Version   string    `json:"version" db:"version"`
	Country   string    `json:"country" db:"country"`
	Content   string    `json:"content" db:"content"`
	Active    bool      `json:"active" db:"active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
