package models

import (
	"time"

	"github.com/google/uuid"
)

// UserRole determines which side of a tenancy a user may act on.
type UserRole string

const (
	RoleTenant   UserRole = "tenant"
	RoleLandlord UserRole = "landlord"
	RoleAdmin    UserRole = "admin"
)

type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"` // Never serialize in JSON
	FirstName    string    `json:"first_name" db:"first_name"`
	LastName     string    `json:"last_name" db:"last_name"`
	Phone        *string   `json:"phone" db:"phone"`
	Role         UserRole  `json:"role" db:"role"`

	EmailVerified     bool       `json:"email_verified" db:"email_verified"`
	EmailVerifyToken  *string    `json:"-" db:"email_verify_token"`
	EmailVerifyExpiry *time.Time `json:"-" db:"email_verify_expiry"`

	// MinIO object key of the identity document uploaded during onboarding.
	DocumentObject *string `json:"document_object" db:"document_object"`

	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
