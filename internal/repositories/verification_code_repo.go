package repositories

import (
	"context"

	"rentalcv/internal/models"

	"github.com/google/uuid"
)

type VerificationCodeRepository interface {
	Create(ctx context.Context, code *models.VerificationCode) error
	// GetLatest returns the most recent unconsumed code for the user and
	// purpose. Returns pgx.ErrNoRows when none exists.
	GetLatest(ctx context.Context, userID uuid.UUID, purpose string) (*models.VerificationCode, error)
	MarkConsumed(ctx context.Context, id uuid.UUID) error
}

type verificationCodeRepo struct {
	db Database
}

func NewVerificationCodeRepo(db Database) VerificationCodeRepository {
	return &verificationCodeRepo{db: db}
}

func (r *verificationCodeRepo) Create(ctx context.Context, code *models.VerificationCode) error {
	query := `
		INSERT INTO verification_codes (id, user_id, channel, code, purpose, expires_at, consumed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	`
	_, err := r.db.Exec(ctx, query,
		code.ID, code.UserID, code.Channel, code.Code, code.Purpose, code.ExpiresAt, code.Consumed,
	)
	return err
}

func (r *verificationCodeRepo) GetLatest(ctx context.Context, userID uuid.UUID, purpose string) (*models.VerificationCode, error) {
	code := &models.VerificationCode{}
	query := `
		SELECT id, user_id, channel, code, purpose, expires_at, consumed, created_at
		FROM verification_codes
		WHERE user_id = $1 AND purpose = $2 AND consumed = FALSE
		ORDER BY created_at DESC
		LIMIT 1
	`
	err := r.db.QueryRow(ctx, query, userID, purpose).Scan(
		&code.ID, &code.UserID, &code.Channel, &code.Code, &code.Purpose,
		&code.ExpiresAt, &code.Consumed, &code.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return code, nil
}

func (r *verificationCodeRepo) MarkConsumed(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE verification_codes SET consumed = TRUE WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}
