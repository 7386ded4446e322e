package repositories

import (
	"context"
	"time"

	"rentalcv/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type TenancyRepository interface {
	Create(ctx context.Context, tenancy *models.Tenancy) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Tenancy, error)
	GetByToken(ctx context.Context, token string) (*models.Tenancy, error)
	Update(ctx context.Context, tenancy *models.Tenancy) error
	// UpdateIfStatus applies the update only when the stored row is still in
	// the expected status. Returns false when another writer got there first.
	// This is the guard for concurrent acceptance attempts on the same token.
	UpdateIfStatus(ctx context.Context, tenancy *models.Tenancy, expected models.TenancyStatus) (bool, error)
	// ExistsActiveInvitation reports whether a non-terminal tenancy already
	// exists for the (property, invitee email) pair.
	ExistsActiveInvitation(ctx context.Context, propertyID uuid.UUID, inviteeEmail string) (bool, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Tenancy, error)
	ListByLandlord(ctx context.Context, landlordID uuid.UUID, limit, offset int) ([]*models.Tenancy, error)
	// ListExpiredInvitations returns tenancies whose invitation expired before
	// the cutoff and whose status still implies an outstanding invitation.
	ListExpiredInvitations(ctx context.Context, before time.Time, limit int) ([]*models.Tenancy, error)
}

type tenancyRepo struct {
	db Database
}

func NewTenancyRepo(db Database) TenancyRepository {
	return &tenancyRepo{db: db}
}

const tenancyColumns = `
	id, property_id, tenant_id, landlord_id, status, origin,
	start_date, end_date, monthly_rent, deposit,
	invite_token, invite_expires_at, invitee_email, invitee_name, invitee_phone, resend_count, last_resend_at,
	tenant_country, tenant_region, tenant_ip, landlord_country, landlord_region, landlord_ip,
	tenant_compliance_log_id, landlord_compliance_log_id,
	dispute_raised, dispute_reason, dispute_raised_by, dispute_raised_at,
	landlord_review_id, tenant_review_id, free_review_eligible, landlord_reviewable, mutual_review_agreed,
	tenant_verified, landlord_verified, address_verified, documents_verified,
	created_at, updated_at, tenant_accepted_at, confirmed_at, ended_at`

func scanTenancy(row pgx.Row) (*models.Tenancy, error) {
	t := &models.Tenancy{}
	var (
		inviteToken  *string
		inviteExpiry *time.Time
		inviteeEmail *string
		inviteeName  *string
		inviteePhone *string
		resendCount  *int
		lastResendAt *time.Time
	)
	err := row.Scan(
		&t.ID, &t.PropertyID, &t.TenantID, &t.LandlordID, &t.Status, &t.Origin,
		&t.StartDate, &t.EndDate, &t.MonthlyRent, &t.Deposit,
		&inviteToken, &inviteExpiry, &inviteeEmail, &inviteeName, &inviteePhone, &resendCount, &lastResendAt,
		&t.Compliance.TenantCountry, &t.Compliance.TenantRegion, &t.Compliance.TenantIP,
		&t.Compliance.LandlordCountry, &t.Compliance.LandlordRegion, &t.Compliance.LandlordIP,
		&t.Compliance.TenantComplianceLogID, &t.Compliance.LandlordComplianceLogID,
		&t.Dispute.Raised, &t.Dispute.Reason, &t.Dispute.RaisedBy, &t.Dispute.RaisedAt,
		&t.LandlordReviewID, &t.TenantReviewID, &t.FreeReviewEligible, &t.LandlordReviewable, &t.MutualReviewAgreed,
		&t.TenantVerified, &t.LandlordVerified, &t.AddressVerified, &t.DocumentsVerified,
		&t.CreatedAt, &t.UpdatedAt, &t.TenantAcceptedAt, &t.ConfirmedAt, &t.EndedAt,
	)
	if err != nil {
		return nil, err
	}
	if inviteToken != nil && *inviteToken != "" {
		inv := &models.Invitation{Token: *inviteToken, ExpiresAt: inviteExpiry}
		if inviteeEmail != nil {
			inv.InviteeEmail = *inviteeEmail
		}
		if inviteeName != nil {
			inv.InviteeName = *inviteeName
		}
		inv.InviteePhone = inviteePhone
		if resendCount != nil {
			inv.ResendCount = *resendCount
		}
		inv.LastResendAt = lastResendAt
		t.Invitation = inv
	}
	return t, nil
}

// invitationFields flattens the optional invitation sub-record into the
// column values used by Create and Update.
func invitationFields(t *models.Tenancy) (token *string, expiry *time.Time, email, name, phone *string, resends int, lastResend *time.Time) {
	if t.Invitation == nil {
		return nil, nil, nil, nil, nil, 0, nil
	}
	inv := t.Invitation
	return &inv.Token, inv.ExpiresAt, &inv.InviteeEmail, &inv.InviteeName, inv.InviteePhone, inv.ResendCount, inv.LastResendAt
}

func (r *tenancyRepo) Create(ctx context.Context, t *models.Tenancy) error {
	token, expiry, email, name, phone, resends, lastResend := invitationFields(t)
	query := `
		INSERT INTO tenancies (
			id, property_id, tenant_id, landlord_id, status, origin,
			start_date, end_date, monthly_rent, deposit,
			invite_token, invite_expires_at, invitee_email, invitee_name, invitee_phone, resend_count, last_resend_at,
			free_review_eligible, landlord_reviewable, mutual_review_agreed,
			tenant_verified, landlord_verified, address_verified, documents_verified,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query,
		t.ID, t.PropertyID, t.TenantID, t.LandlordID, t.Status, t.Origin,
		t.StartDate, t.EndDate, t.MonthlyRent, t.Deposit,
		token, expiry, email, name, phone, resends, lastResend,
		t.FreeReviewEligible, t.LandlordReviewable, t.MutualReviewAgreed,
		t.TenantVerified, t.LandlordVerified, t.AddressVerified, t.DocumentsVerified,
	)
	return err
}

func (r *tenancyRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenancy, error) {
	query := `SELECT` + tenancyColumns + ` FROM tenancies WHERE id = $1`
	return scanTenancy(r.db.QueryRow(ctx, query, id))
}

func (r *tenancyRepo) GetByToken(ctx context.Context, token string) (*models.Tenancy, error) {
	query := `SELECT` + tenancyColumns + ` FROM tenancies WHERE invite_token = $1`
	return scanTenancy(r.db.QueryRow(ctx, query, token))
}

const tenancyUpdateSet = `
	SET tenant_id = $2, landlord_id = $3, status = $4,
		start_date = $5, end_date = $6, monthly_rent = $7, deposit = $8,
		invite_token = $9, invite_expires_at = $10, invitee_email = $11, invitee_name = $12, invitee_phone = $13,
		resend_count = $14, last_resend_at = $15,
		tenant_country = $16, tenant_region = $17, tenant_ip = $18,
		landlord_country = $19, landlord_region = $20, landlord_ip = $21,
		tenant_compliance_log_id = $22, landlord_compliance_log_id = $23,
		dispute_raised = $24, dispute_reason = $25, dispute_raised_by = $26, dispute_raised_at = $27,
		landlord_review_id = $28, tenant_review_id = $29,
		free_review_eligible = $30, landlord_reviewable = $31, mutual_review_agreed = $32,
		tenant_verified = $33, landlord_verified = $34, address_verified = $35, documents_verified = $36,
		tenant_accepted_at = $37, confirmed_at = $38, ended_at = $39,
		updated_at = NOW()`

func (r *tenancyRepo) updateArgs(t *models.Tenancy) []interface{} {
	token, expiry, email, name, phone, resends, lastResend := invitationFields(t)
	return []interface{}{
		t.ID, t.TenantID, t.LandlordID, t.Status,
		t.StartDate, t.EndDate, t.MonthlyRent, t.Deposit,
		token, expiry, email, name, phone, resends, lastResend,
		t.Compliance.TenantCountry, t.Compliance.TenantRegion, t.Compliance.TenantIP,
		t.Compliance.LandlordCountry, t.Compliance.LandlordRegion, t.Compliance.LandlordIP,
		t.Compliance.TenantComplianceLogID, t.Compliance.LandlordComplianceLogID,
		t.Dispute.Raised, t.Dispute.Reason, t.Dispute.RaisedBy, t.Dispute.RaisedAt,
		t.LandlordReviewID, t.TenantReviewID,
		t.FreeReviewEligible, t.LandlordReviewable, t.MutualReviewAgreed,
		t.TenantVerified, t.LandlordVerified, t.AddressVerified, t.DocumentsVerified,
		t.TenantAcceptedAt, t.ConfirmedAt, t.EndedAt,
	}
}

func (r *tenancyRepo) Update(ctx context.Context, t *models.Tenancy) error {
	query := `UPDATE tenancies` + tenancyUpdateSet + ` WHERE id = $1`
	_, err := r.db.Exec(ctx, query, r.updateArgs(t)...)
	return err
}

func (r *tenancyRepo) UpdateIfStatus(ctx context.Context, t *models.Tenancy, expected models.TenancyStatus) (bool, error) {
	query := `UPDATE tenancies` + tenancyUpdateSet + ` WHERE id = $1 AND status = $40`
	tag, err := r.db.Exec(ctx, query, append(r.updateArgs(t), expected)...)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *tenancyRepo) ExistsActiveInvitation(ctx context.Context, propertyID uuid.UUID, inviteeEmail string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM tenancies
			WHERE property_id = $1
			  AND LOWER(invitee_email) = LOWER($2)
			  AND status NOT IN ('ended', 'declined', 'disputed')
		)
	`
	var exists bool
	err := r.db.QueryRow(ctx, query, propertyID, inviteeEmail).Scan(&exists)
	return exists, err
}

func (r *tenancyRepo) listByColumn(ctx context.Context, column string, id uuid.UUID, limit, offset int) ([]*models.Tenancy, error) {
	query := `SELECT` + tenancyColumns + ` FROM tenancies WHERE ` + column + ` = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, id, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tenancies []*models.Tenancy
	for rows.Next() {
		t, err := scanTenancy(rows)
		if err != nil {
			return nil, err
		}
		tenancies = append(tenancies, t)
	}
	return tenancies, rows.Err()
}

func (r *tenancyRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Tenancy, error) {
	return r.listByColumn(ctx, "tenant_id", tenantID, limit, offset)
}

func (r *tenancyRepo) ListByLandlord(ctx context.Context, landlordID uuid.UUID, limit, offset int) ([]*models.Tenancy, error) {
	return r.listByColumn(ctx, "landlord_id", landlordID, limit, offset)
}

func (r *tenancyRepo) ListExpiredInvitations(ctx context.Context, before time.Time, limit int) ([]*models.Tenancy, error) {
	query := `SELECT` + tenancyColumns + ` FROM tenancies
		WHERE invite_token IS NOT NULL
		  AND invite_expires_at IS NOT NULL
		  AND invite_expires_at < $1
		  AND status IN ('invited', 'tenant_initiated', 'landlord_reviewing', 'pending_tenant_response')
		ORDER BY invite_expires_at ASC
		LIMIT $2`
	rows, err := r.db.Query(ctx, query, before, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tenancies []*models.Tenancy
	for rows.Next() {
		t, err := scanTenancy(rows)
		if err != nil {
			return nil, err
		}
		tenancies = append(tenancies, t)
	}
	return tenancies, rows.Err()
}
