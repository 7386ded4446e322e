package models

import (
	"time"

	"github.com/google/uuid"
)

// VerificationCode is a short-lived generate/match/expire code delivered by
// email or SMS. Matching consumes the code.
type VerificationCode struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Channel   string    `json:"channel" db:"channel"` // email, sms
	Code      string    `json:"-" db:"code"`
	Purpose   string    `json:"purpose" db:"purpose"` // login, phone_verify, email_verify
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	Consumed  bool      `json:"consumed" db:"consumed"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// IsExpired reports whether the code is past its expiry.
func (v *VerificationCode) IsExpired(now time.Time) bool {
	return now.After(v.ExpiresAt)
}
