package models

import (
	"time"

	"github.com/google/uuid"
)

// RevieweeType identifies which party a review is about.
type RevieweeType string

const (
	RevieweeTenant   RevieweeType = "tenant"
	RevieweeLandlord RevieweeType = "landlord"
)

// Review is immutable once created. At most one review exists per
// (tenancy, reviewer, reviewee type) triple.
type Review struct {
	ID           uuid.UUID    `json:"id" db:"id"`
	TenancyID    uuid.UUID    `json:"tenancy_id" db:"tenancy_id"`
	ReviewerID   uuid.UUID    `json:"reviewer_id" db:"reviewer_id"`
	RevieweeType RevieweeType `json:"reviewee_type" db:"reviewee_type"`

	// Category ratings, integers 1..5.
	CommunicationRating int `json:"communication_rating" db:"communication_rating"`
	PaymentRating       int `json:"payment_rating" db:"payment_rating"`
	PropertyCareRating  int `json:"property_care_rating" db:"property_care_rating"`
	ConductRating       int `json:"conduct_rating" db:"conduct_rating"`

	// OverallRating is the mean of the four category ratings.
	OverallRating float64 `json:"overall_rating" db:"overall_rating"`

	Comment   string    `json:"comment" db:"comment"`
	Verified  bool      `json:"verified" db:"verified"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ComputeOverall derives the overall rating from the four category ratings.
func (r *Review) ComputeOverall() float64 {
	return float64(r.CommunicationRating+r.PaymentRating+r.PropertyCareRating+r.ConductRating) / 4.0
}
