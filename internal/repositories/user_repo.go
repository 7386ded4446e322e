package repositories

import (
	"context"

	"rentalcv/internal/models"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetByVerifyToken resolves a pending email-verification token. Returns
	// pgx.ErrNoRows for unknown or already-consumed tokens.
	GetByVerifyToken(ctx context.Context, token string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	List(ctx context.Context, limit, offset int) ([]*models.User, error)
}

type userRepo struct {
	db Database
}

func NewUserRepo(db Database) UserRepository {
	return &userRepo{db: db}
}

const userColumns = `
	id, email, password_hash, first_name, last_name, phone, role,
	email_verified, email_verify_token, email_verify_expiry,
	document_object, status, created_at, updated_at`

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, first_name, last_name, phone, role,
			email_verified, email_verify_token, email_verify_expiry, document_object, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.FirstName, user.LastName, user.Phone, user.Role,
		user.EmailVerified, user.EmailVerifyToken, user.EmailVerifyExpiry, user.DocumentObject, user.Status,
	)
	return err
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user := &models.User{}
	query := `SELECT` + userColumns + ` FROM users WHERE id = $1`
	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.FirstName, &user.LastName, &user.Phone, &user.Role,
		&user.EmailVerified, &user.EmailVerifyToken, &user.EmailVerifyExpiry,
		&user.DocumentObject, &user.Status, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	query := `SELECT` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	err := r.db.QueryRow(ctx, query, email).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.FirstName, &user.LastName, &user.Phone, &user.Role,
		&user.EmailVerified, &user.EmailVerifyToken, &user.EmailVerifyExpiry,
		&user.DocumentObject, &user.Status, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepo) GetByVerifyToken(ctx context.Context, token string) (*models.User, error) {
	user := &models.User{}
	query := `SELECT` + userColumns + ` FROM users WHERE email_verify_token = $1`
	err := r.db.QueryRow(ctx, query, token).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.FirstName, &user.LastName, &user.Phone, &user.Role,
		&user.EmailVerified, &user.EmailVerifyToken, &user.EmailVerifyExpiry,
		&user.DocumentObject, &user.Status, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepo) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET email = $2, password_hash = $3, first_name = $4, last_name = $5, phone = $6, role = $7,
			email_verified = $8, email_verify_token = $9, email_verify_expiry = $10,
			document_object = $11, status = $12, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.db.Exec(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.FirstName, user.LastName, user.Phone, user.Role,
		user.EmailVerified, user.EmailVerifyToken, user.EmailVerifyExpiry, user.DocumentObject, user.Status,
	)
	return err
}

func (r *userRepo) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	query := `SELECT` + userColumns + ` FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(
			&user.ID, &user.Email, &user.PasswordHash, &user.FirstName, &user.LastName, &user.Phone, &user.Role,
			&user.EmailVerified, &user.EmailVerifyToken, &user.EmailVerifyExpiry,
			&user.DocumentObject, &user.Status, &user.CreatedAt, &user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}
