package repositories

import (
	"context"

	"rentalcv/internal/models"

	"github.com/google/uuid"
)

type PaymentRepository interface {
	CreateAccount(ctx context.Context, account *models.PaymentAccount) error
	// GetAccountByUserID returns pgx.ErrNoRows for users with no billing
	// metadata, which the eligibility computation maps to "trial expired".
	GetAccountByUserID(ctx context.Context, userID uuid.UUID) (*models.PaymentAccount, error)
	UpdateAccount(ctx context.Context, account *models.PaymentAccount) error

	CreatePayment(ctx context.Context, payment *models.Payment) error
	GetPaymentByID(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status string) error
	ListPaymentsByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Payment, error)
}

type paymentRepo struct {
	db Database
}

func NewPaymentRepo(db Database) PaymentRepository {
	return &paymentRepo{db: db}
}

func (r *paymentRepo) CreateAccount(ctx context.Context, account *models.PaymentAccount) error {
	query := `
		INSERT INTO payment_accounts (id, user_id, plan, gateway_customer_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, account.ID, account.UserID, account.Plan, account.GatewayCustomerID)
	return err
}

func (r *paymentRepo) GetAccountByUserID(ctx context.Context, userID uuid.UUID) (*models.PaymentAccount, error) {
	account := &models.PaymentAccount{}
	query := `
		SELECT id, user_id, plan, gateway_customer_id, created_at, updated_at
		FROM payment_accounts
		WHERE user_id = $1
	`
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&account.ID, &account.UserID, &account.Plan, &account.GatewayCustomerID, &account.CreatedAt, &account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (r *paymentRepo) UpdateAccount(ctx context.Context, account *models.PaymentAccount) error {
	query := `
		UPDATE payment_accounts
		SET plan = $2, gateway_customer_id = $3, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.db.Exec(ctx, query, account.ID, account.Plan, account.GatewayCustomerID)
	return err
}

const paymentColumns = `
	id, user_id, tenancy_id, review_id, payment_intent_id, amount, currency, status, created_at, updated_at`

func (r *paymentRepo) CreatePayment(ctx context.Context, payment *models.Payment) error {
	query := `
		INSERT INTO payments (id, user_id, tenancy_id, review_id, payment_intent_id, amount, currency, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query,
		payment.ID, payment.UserID, payment.TenancyID, payment.ReviewID,
		payment.PaymentIntentID, payment.Amount, payment.Currency, payment.Status,
	)
	return err
}

func (r *paymentRepo) GetPaymentByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	payment := &models.Payment{}
	query := `SELECT` + paymentColumns + ` FROM payments WHERE id = $1`
	err := r.db.QueryRow(ctx, query, id).Scan(
		&payment.ID, &payment.UserID, &payment.TenancyID, &payment.ReviewID,
		&payment.PaymentIntentID, &payment.Amount, &payment.Currency, &payment.Status,
		&payment.CreatedAt, &payment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return payment, nil
}

func (r *paymentRepo) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `UPDATE payments SET status = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id, status)
	return err
}

func (r *paymentRepo) ListPaymentsByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Payment, error) {
	query := `SELECT` + paymentColumns + ` FROM payments WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		payment := &models.Payment{}
		if err := rows.Scan(
			&payment.ID, &payment.UserID, &payment.TenancyID, &payment.ReviewID,
			&payment.PaymentIntentID, &payment.Amount, &payment.Currency, &payment.Status,
			&payment.CreatedAt, &payment.UpdatedAt,
		); err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}
	return payments, rows.Err()
}
