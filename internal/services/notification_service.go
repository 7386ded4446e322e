package services

import (
	"context"
	"fmt"
	"log"

	"rentalcv/internal/models"
	"rentalcv/internal/repositories"

	"github.com/google/uuid"
)

// NotificationService is the outbound messaging collaborator. Workflow
// mutations commit first and call Enqueue; delivery happens out of band via
// the outbox worker, so a provider failure never aborts a committed mutation.
type NotificationService interface {
	EnqueueEmail(ctx context.Context, recipient, subject, body string) error
	EnqueueSMS(ctx context.Context, recipient, message string) error
	// Deliver performs one delivery attempt for an outbox row.
	Deliver(ctx context.Context, notification *models.Notification) error
	// ProcessPending drains up to batchSize pending rows, retrying failures.
	ProcessPending(ctx context.Context, batchSize int) error
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
}

func NewNotificationService(notificationRepo repositories.NotificationRepository) NotificationService {
	return &notificationService{notificationRepo: notificationRepo}
}

func (s *notificationService) EnqueueEmail(ctx context.Context, recipient, subject, body string) error {
	if recipient == "" {
		return fmt.Errorf("recipient is required")
	}
	notification := &models.Notification{
		ID:        uuid.New(),
		Type:      models.NotificationTypeEmail,
		Recipient: recipient,
		Subject:   &subject,
		Body:      body,
		Status:    models.NotificationStatusPending,
	}
	return s.notificationRepo.Create(ctx, notification)
}

func (s *notificationService) EnqueueSMS(ctx context.Context, recipient, message string) error {
	if recipient == "" {
		return fmt.Errorf("recipient is required")
	}
	notification := &models.Notification{
		ID:        uuid.New(),
		Type:      models.NotificationTypeSMS,
		Recipient: recipient,
		Body:      message,
		Status:    models.NotificationStatusPending,
	}
	return s.notificationRepo.Create(ctx, notification)
}

// Deliver sends a single message (placeholder implementation).
func (s *notificationService) Deliver(ctx context.Context, n *models.Notification) error {
	// TODO: Integration with email/SMS provider (SendGrid, Twilio, etc.)
	switch n.Type {
	case models.NotificationTypeEmail:
		subject := ""
		if n.Subject != nil {
			subject = *n.Subject
		}
		log.Printf("[EMAIL] To=%s, Subject=%s, Body=%s", n.Recipient, subject, n.Body)
	case models.NotificationTypeSMS:
		log.Printf("[SMS] To=%s, Message=%s", n.Recipient, n.Body)
	default:
		return fmt.Errorf("unsupported notification type: %s", n.Type)
	}
	return nil
}

func (s *notificationService) ProcessPending(ctx context.Context, batchSize int) error {
	pending, err := s.notificationRepo.ListPending(ctx, batchSize)
	if err != nil {
		return fmt.Errorf("failed to list pending notifications: %v", err)
	}

	for _, n := range pending {
		if err := s.Deliver(ctx, n); err != nil {
			log.Printf("WARN: delivery attempt %d failed for notification %s: %v", n.Attempts+1, n.ID, err)
			if markErr := s.notificationRepo.MarkAttemptFailed(ctx, n.ID, err.Error(), models.MaxNotificationAttempts); markErr != nil {
				return markErr
			}
			continue
		}
		if err := s.notificationRepo.MarkSent(ctx, n.ID); err != nil {
			return err
		}
	}
	return nil
}
