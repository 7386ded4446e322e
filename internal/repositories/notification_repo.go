package repositories

import (
	"context"

	"rentalcv/internal/models"

	"github.com/google/uuid"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Notification, error)
	// ListPending returns undelivered outbox rows that have not exhausted
	// their retry budget, oldest first.
	ListPending(ctx context.Context, limit int) ([]*models.Notification, error)
	MarkSent(ctx context.Context, id uuid.UUID) error
	// MarkAttemptFailed bumps the attempt counter and records the error; the
	// row flips to failed once attempts reach the maximum.
	MarkAttemptFailed(ctx context.Context, id uuid.UUID, lastError string, maxAttempts int) error
}

type notificationRepo struct {
	db Database
}

func NewNotificationRepo(db Database) NotificationRepository {
	return &notificationRepo{db: db}
}

const notificationColumns = `
	id, type, recipient, subject, body, status, attempts, last_error, created_at, updated_at`

func (r *notificationRepo) Create(ctx context.Context, n *models.Notification) error {
	query := `
		INSERT INTO notifications (id, type, recipient, subject, body, status, attempts, last_error, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query,
		n.ID, n.Type, n.Recipient, n.Subject, n.Body, n.Status, n.Attempts, n.LastError,
	)
	return err
}

func (r *notificationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	n := &models.Notification{}
	query := `SELECT` + notificationColumns + ` FROM notifications WHERE id = $1`
	err := r.db.QueryRow(ctx, query, id).Scan(
		&n.ID, &n.Type, &n.Recipient, &n.Subject, &n.Body, &n.Status, &n.Attempts, &n.LastError, &n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (r *notificationRepo) ListPending(ctx context.Context, limit int) ([]*models.Notification, error) {
	query := `SELECT` + notificationColumns + ` FROM notifications
		WHERE status = 'pending'
		ORDER BY created_at ASC
		LIMIT $1`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		n := &models.Notification{}
		if err := rows.Scan(
			&n.ID, &n.Type, &n.Recipient, &n.Subject, &n.Body, &n.Status, &n.Attempts, &n.LastError, &n.CreatedAt, &n.UpdatedAt,
		); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (r *notificationRepo) MarkSent(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE notifications SET status = 'sent', updated_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *notificationRepo) MarkAttemptFailed(ctx context.Context, id uuid.UUID, lastError string, maxAttempts int) error {
	query := `
		UPDATE notifications
		SET attempts = attempts + 1,
			last_error = $2,
			status = CASE WHEN attempts + 1 >= $3 THEN 'failed' ELSE 'pending' END,
			updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.db.Exec(ctx, query, id, lastError, maxAttempts)
	return err
}
