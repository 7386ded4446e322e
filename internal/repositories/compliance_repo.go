package repositories

import (
	"context"
	"time"

	"rentalcv/internal/models"

	"github.com/google/uuid"
)

type ComplianceRepository interface {
	Create(ctx context.Context, entry *models.ComplianceLog) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ComplianceLog, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.ComplianceLog, error)
	// ArchiveExpired flips the archived flag on entries past their retention
	// window. Returns the number of rows archived.
	ArchiveExpired(ctx context.Context, now time.Time) (int64, error)
}

type complianceRepo struct {
	db Database
}

func NewComplianceRepo(db Database) ComplianceRepository {
	return &complianceRepo{db: db}
}

const complianceColumns = `
	id, user_id, tenancy_id, country, disclaimer_version, context,
	ip_address, device_type, user_agent, retention_expires_at, archived, created_at`

func (r *complianceRepo) Create(ctx context.Context, entry *models.ComplianceLog) error {
	query := `
		INSERT INTO compliance_logs (id, user_id, tenancy_id, country, disclaimer_version, context,
			ip_address, device_type, user_agent, retention_expires_at, archived, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
	`
	_, err := r.db.Exec(ctx, query,
		entry.ID, entry.UserID, entry.TenancyID, entry.Country, entry.DisclaimerVersion, entry.Context,
		entry.IPAddress, entry.DeviceType, entry.UserAgent, entry.RetentionExpiresAt, entry.Archived,
	)
	return err
}

func (r *complianceRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ComplianceLog, error) {
	entry := &models.ComplianceLog{}
	query := `SELECT` + complianceColumns + ` FROM compliance_logs WHERE id = $1`
	err := r.db.QueryRow(ctx, query, id).Scan(
		&entry.ID, &entry.UserID, &entry.TenancyID, &entry.Country, &entry.DisclaimerVersion, &entry.Context,
		&entry.IPAddress, &entry.DeviceType, &entry.UserAgent, &entry.RetentionExpiresAt, &entry.Archived, &entry.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *complianceRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.ComplianceLog, error) {
	query := `SELECT` + complianceColumns + ` FROM compliance_logs WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.ComplianceLog
	for rows.Next() {
		entry := &models.ComplianceLog{}
		if err := rows.Scan(
			&entry.ID, &entry.UserID, &entry.TenancyID, &entry.Country, &entry.DisclaimerVersion, &entry.Context,
			&entry.IPAddress, &entry.DeviceType, &entry.UserAgent, &entry.RetentionExpiresAt, &entry.Archived, &entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *complianceRepo) ArchiveExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `UPDATE compliance_logs SET archived = TRUE WHERE retention_expires_at < $1 AND archived = FALSE`
	tag, err := r.db.Exec(ctx, query, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
