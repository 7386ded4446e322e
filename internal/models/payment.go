package models

import (
	"time"

	"github.com/google/uuid"
)

// PaymentAccount is the per-user billing metadata consulted by the review
// eligibility computation. A landlord with no account row is treated as
// trial-expired once their first free review is used.
type PaymentAccount struct {
	ID                uuid.UUID `json:"id" db:"id"`
	UserID            uuid.UUID `json:"user_id" db:"user_id"`
	Plan              string    `json:"plan" db:"plan"` // free, premium, business
	GatewayCustomerID *string   `json:"gateway_customer_id" db:"gateway_customer_id"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

// Payment records a per-review charge. The gateway integration is stubbed:
// intent IDs are placeholders and no real capture happens.
type Payment struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	UserID          uuid.UUID  `json:"user_id" db:"user_id"`
	TenancyID       *uuid.UUID `json:"tenancy_id" db:"tenancy_id"`
	ReviewID        *uuid.UUID `json:"review_id" db:"review_id"`
	PaymentIntentID *string    `json:"payment_intent_id" db:"payment_intent_id"`
	Amount          float64    `json:"amount" db:"amount"`
	Currency        string     `json:"currency" db:"currency"`
	Status          string     `json:"status" db:"status"` // pending, succeeded, failed
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}
