package models

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType identifies the delivery channel.
type NotificationType string

const (
	NotificationTypeEmail NotificationType = "email"
	NotificationTypeSMS   NotificationType = "sms"
)

// NotificationStatus tracks outbox delivery state.
type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "pending"
	NotificationStatusSent    NotificationStatus = "sent"
	NotificationStatusFailed  NotificationStatus = "failed"
)

// MaxNotificationAttempts is how many times the outbox worker retries a
// message before marking it failed.
const MaxNotificationAttempts = 5

// Notification is an outbox row. Workflow mutations commit first and enqueue
// one of these; the background worker delivers it best-effort so a provider
// outage never rolls back a committed tenancy mutation.
type Notification struct {
	ID        uuid.UUID          `json:"id" db:"id"`
	Type      NotificationType   `json:"type" db:"type"`
	Recipient string             `json:"recipient" db:"recipient"`
	Subject   *string            `json:"subject" db:"subject"` // nil for SMS
	Body      string             `json:"body" db:"body"`
	Status    NotificationStatus `json:"status" db:"status"`
	Attempts  int                `json:"attempts" db:"attempts"`
	LastError *string            `json:"last_error" db:"last_error"`
	CreatedAt time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" db:"updated_at"`
}
