package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"rentalcv/internal/caching"
	"rentalcv/internal/models"
	"rentalcv/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Token validation error codes. These three are stable identifiers the
// presentation layer keys off; every other failure is a plain reason string.
const (
	ErrCodeInvalidToken         = "INVALID_TOKEN"
	ErrCodeTokenExpired         = "TOKEN_EXPIRED"
	ErrCodeAlreadyAcceptedOther = "ALREADY_ACCEPTED_BY_OTHER"
)

const (
	// DefaultInviteTokenTTL is the invitation expiry window.
	DefaultInviteTokenTTL = 14 * 24 * time.Hour

	// Resend limits per tenancy per day.
	resendRateLimit  = 5
	resendRateWindow = 24 * time.Hour
)

// NewInviteToken mints an opaque invitation token. Minting policy lives with
// the caller; the workflow only stores tokens and enforces
// uniqueness-of-active-invitation.
func NewInviteToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// WorkflowResult is the structured outcome every tenancy operation returns.
// Expected business-rule failures land in Error; the Go error return is
// reserved for infrastructure problems.
type WorkflowResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Warning string `json:"warning,omitempty"`
}

type AddTenancyRequest struct {
	PropertyID  uuid.UUID  `json:"property_id" validate:"required"`
	LandlordID  uuid.UUID  `json:"-"` // caller identity, never taken from the payload
	TenantName  string     `json:"tenant_name" validate:"required"`
	TenantEmail string     `json:"tenant_email" validate:"required,email"`
	TenantPhone *string    `json:"tenant_phone"`
	StartDate   time.Time  `json:"start_date" validate:"required"`
	EndDate     *time.Time `json:"end_date"`
	MonthlyRent *float64   `json:"monthly_rent"`
	Deposit     *float64   `json:"deposit"`
	InviteToken string     `json:"-"` // supplied by the caller, see NewInviteToken
}

type AddTenancyResult struct {
	WorkflowResult
	TenancyID uuid.UUID `json:"tenancy_id,omitempty"`
}

type CreateTenantRequestInput struct {
	TenantID      uuid.UUID  `json:"-"`
	LandlordName  string     `json:"landlord_name" validate:"required"`
	LandlordEmail string     `json:"landlord_email" validate:"required,email"`
	LandlordPhone *string    `json:"landlord_phone"`
	AddressLine1  string     `json:"address_line1" validate:"required"`
	AddressLine2  *string    `json:"address_line2"`
	City          string     `json:"city" validate:"required"`
	Region        *string    `json:"region"`
	Postcode      string     `json:"postcode" validate:"required"`
	Country       string     `json:"country" validate:"required"`
	StartDate     time.Time  `json:"start_date" validate:"required"`
	EndDate       *time.Time `json:"end_date"`
	MonthlyRent   *float64   `json:"monthly_rent"`
	Deposit       *float64   `json:"deposit"`
}

type CreateTenantRequestResult struct {
	WorkflowResult
	TenancyID   uuid.UUID `json:"tenancy_id,omitempty"`
	InviteToken string    `json:"invite_token,omitempty"`
}

type AcceptInviteRequest struct {
	Token      string    `json:"token" validate:"required"`
	TenantID   uuid.UUID `json:"-"`
	IPAddress  string    `json:"-"`
	DeviceType string    `json:"device_type"`
	UserAgent  string    `json:"-"`
}

type AcceptInviteResult struct {
	WorkflowResult
	TenancyID            uuid.UUID `json:"tenancy_id,omitempty"`
	RequiresConfirmation bool      `json:"requires_confirmation"`
}

type ConfirmDetailsRequest struct {
	TenancyID uuid.UUID `json:"tenancy_id" validate:"required"`
	CallerID  uuid.UUID `json:"-"`
	Confirmed bool      `json:"confirmed"`
	Issues    *string   `json:"issues"`
}

type ConfirmDetailsResult struct {
	WorkflowResult
	Status models.TenancyStatus `json:"status,omitempty"`
}

type VerifyTenantRequestInput struct {
	Token             string    `json:"token" validate:"required"`
	LandlordID        uuid.UUID `json:"-"`
	AgreeToReview     bool      `json:"agree_to_review"`
	AgreeToBeReviewed bool      `json:"agree_to_be_reviewed"`
	IPAddress         string    `json:"-"`
	DeviceType        string    `json:"device_type"`
	UserAgent         string    `json:"-"`
}

type VerifyTenantRequestResult struct {
	WorkflowResult
	TenancyID          uuid.UUID `json:"tenancy_id,omitempty"`
	RequiresReview     bool      `json:"requires_review"`
	FreeReviewEligible bool      `json:"free_review_eligible"`
}

type DeclineInviteRequest struct {
	Token      string              `json:"token" validate:"required"`
	DeclinedBy models.DisputeParty `json:"-"`
	Reason     *string             `json:"reason"`
}

// TenancyService is the tenancy workflow engine: creation, invitation
// issuance in both directions, token validation, acceptance, decline,
// dispute, and the terminal end transition.
type TenancyService interface {
	AddTenancy(ctx context.Context, req *AddTenancyRequest) (*AddTenancyResult, error)
	CreateTenantRequest(ctx context.Context, req *CreateTenantRequestInput) (*CreateTenantRequestResult, error)
	SendLandlordInvite(ctx context.Context, callerID, tenancyID uuid.UUID) (*WorkflowResult, error)
	ResendInvite(ctx context.Context, callerID, tenancyID uuid.UUID) (*WorkflowResult, error)
	AcceptLandlordInvite(ctx context.Context, req *AcceptInviteRequest) (*AcceptInviteResult, error)
	ConfirmTenancyDetails(ctx context.Context, req *ConfirmDetailsRequest) (*ConfirmDetailsResult, error)
	VerifyTenantRequest(ctx context.Context, req *VerifyTenantRequestInput) (*VerifyTenantRequestResult, error)
	DeclineInvite(ctx context.Context, req *DeclineInviteRequest) (*WorkflowResult, error)
	EndTenancy(ctx context.Context, callerID, tenancyID uuid.UUID) (*WorkflowResult, error)
	VerifyDocuments(ctx context.Context, tenancyID uuid.UUID) (*WorkflowResult, error)
	GetByID(ctx context.Context, callerID, tenancyID uuid.UUID) (*models.Tenancy, error)
	ListForUser(ctx context.Context, userID uuid.UUID, role models.UserRole, limit, offset int) ([]*models.Tenancy, error)
}

type tenancyService struct {
	tenancyRepo     repositories.TenancyRepository
	propertyRepo    repositories.PropertyRepository
	complianceRepo  repositories.ComplianceRepository
	disclaimerRepo  repositories.DisclaimerRepository
	geoSvc          GeolocationService
	notificationSvc NotificationService
	cacheSvc        caching.CacheService
	tokenTTL        time.Duration
	now             func() time.Time
}

func NewTenancyService(
	tenancyRepo repositories.TenancyRepository,
	propertyRepo repositories.PropertyRepository,
	complianceRepo repositories.ComplianceRepository,
	disclaimerRepo repositories.DisclaimerRepository,
	geoSvc GeolocationService,
	notificationSvc NotificationService,
	cacheSvc caching.CacheService,
	tokenTTL time.Duration,
) TenancyService {
	if tokenTTL <= 0 {
		tokenTTL = DefaultInviteTokenTTL
	}
	return &tenancyService{
		tenancyRepo:     tenancyRepo,
		propertyRepo:    propertyRepo,
		complianceRepo:  complianceRepo,
		disclaimerRepo:  disclaimerRepo,
		geoSvc:          geoSvc,
		notificationSvc: notificationSvc,
		cacheSvc:        cacheSvc,
		tokenTTL:        tokenTTL,
		now:             time.Now,
	}
}

func fail(reason string) WorkflowResult {
	return WorkflowResult{Success: false, Error: reason}
}

func ok() WorkflowResult {
	return WorkflowResult{Success: true}
}

// AddTenancy is the landlord-initiated entry point. The caller supplies the
// invitation token; the workflow enforces that at most one active invitation
// exists per (property, invitee email) pair.
func (s *tenancyService) AddTenancy(ctx context.Context, req *AddTenancyRequest) (*AddTenancyResult, error) {
	if req.TenantName == "" || req.TenantEmail == "" {
		return &AddTenancyResult{WorkflowResult: fail("tenant name and email are required")}, nil
	}
	if req.InviteToken == "" {
		return &AddTenancyResult{WorkflowResult: fail("invitation token is required")}, nil
	}
	if req.StartDate.IsZero() {
		return &AddTenancyResult{WorkflowResult: fail("start date is required")}, nil
	}
	if req.EndDate != nil && req.EndDate.Before(req.StartDate) {
		return &AddTenancyResult{WorkflowResult: fail("end date cannot be before start date")}, nil
	}

	property, err := s.propertyRepo.GetByID(ctx, req.PropertyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &AddTenancyResult{WorkflowResult: fail("Unauthorized")}, nil
		}
		return nil, err
	}
	if property.LandlordID == nil || *property.LandlordID != req.LandlordID {
		// Generic message; never distinguish "not found" from "not yours".
		return &AddTenancyResult{WorkflowResult: fail("Unauthorized")}, nil
	}

	exists, err := s.tenancyRepo.ExistsActiveInvitation(ctx, req.PropertyID, req.TenantEmail)
	if err != nil {
		return nil, err
	}
	if exists {
		return &AddTenancyResult{WorkflowResult: fail("duplicate invitation: a pending or active tenancy already exists for this tenant at this property")}, nil
	}

	expiry := s.now().Add(s.tokenTTL)
	tenancy := &models.Tenancy{
		ID:         uuid.New(),
		PropertyID: req.PropertyID,
		LandlordID: &req.LandlordID,
		Status:     models.TenancyStatusInvited,
		Origin:     models.OriginLandlordInitiated,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		MonthlyRent: req.MonthlyRent,
		Deposit:     req.Deposit,
		Invitation: &models.Invitation{
			Token:        req.InviteToken,
			ExpiresAt:    &expiry,
			InviteeEmail: req.TenantEmail,
			InviteeName:  req.TenantName,
			InviteePhone: req.TenantPhone,
		},
		LandlordVerified: true,
	}

	if err := s.tenancyRepo.Create(ctx, tenancy); err != nil {
		return nil, fmt.Errorf("failed to create tenancy: %v", err)
	}

	result := &AddTenancyResult{WorkflowResult: ok(), TenancyID: tenancy.ID}

	// Mutation is committed; email delivery is best-effort follow-up.
	subject := "You've been invited to verify your tenancy"
	body := fmt.Sprintf("Hi %s, your landlord invited you to verify your tenancy at %s. Use the link in this email within 14 days.", req.TenantName, property.AddressLine1)
	if err := s.notificationSvc.EnqueueEmail(ctx, req.TenantEmail, subject, body); err != nil {
		log.Printf("WARN: failed to enqueue invitation email for tenancy %s: %v", tenancy.ID, err)
		result.Warning = "tenancy created but the invitation email could not be queued"
	}

	return result, nil
}

// CreateTenantRequest is the tenant-initiated entry point. It fabricates a
// placeholder property for the landlord to claim later and guarantees a free
// review for this tenancy.
func (s *tenancyService) CreateTenantRequest(ctx context.Context, req *CreateTenantRequestInput) (*CreateTenantRequestResult, error) {
	if req.LandlordName == "" || req.LandlordEmail == "" {
		return &CreateTenantRequestResult{WorkflowResult: fail("landlord name and email are required")}, nil
	}
	if req.AddressLine1 == "" || req.Postcode == "" || req.City == "" {
		return &CreateTenantRequestResult{WorkflowResult: fail("property address is required")}, nil
	}
	if req.StartDate.IsZero() {
		return &CreateTenantRequestResult{WorkflowResult: fail("start date is required")}, nil
	}

	token, err := NewInviteToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate invitation token: %v", err)
	}

	// Placeholder property: owned by nobody, inactive, address best-effort.
	property := &models.Property{
		ID:           uuid.New(),
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		Region:       req.Region,
		Postcode:     req.Postcode,
		Country:      req.Country,
		IsActive:     false,
		Placeholder:  true,
		CreatedBy:    req.TenantID,
	}
	if err := s.propertyRepo.Create(ctx, property); err != nil {
		return nil, fmt.Errorf("failed to create placeholder property: %v", err)
	}

	expiry := s.now().Add(s.tokenTTL)
	tenantID := req.TenantID
	tenancy := &models.Tenancy{
		ID:         uuid.New(),
		PropertyID: property.ID,
		TenantID:   &tenantID,
		Status:     models.TenancyStatusTenantInitiated,
		Origin:     models.OriginTenantInitiated,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		MonthlyRent: req.MonthlyRent,
		Deposit:     req.Deposit,
		Invitation: &models.Invitation{
			Token:        token,
			ExpiresAt:    &expiry,
			InviteeEmail: req.LandlordEmail,
			InviteeName:  req.LandlordName,
			InviteePhone: req.LandlordPhone,
		},
		FreeReviewEligible: true,  // growth incentive for tenant-initiated tenancies
		LandlordReviewable: false, // landlord opts in at verification time
	}

	if err := s.tenancyRepo.Create(ctx, tenancy); err != nil {
		return nil, fmt.Errorf("failed to create tenancy: %v", err)
	}

	return &CreateTenantRequestResult{
		WorkflowResult: ok(),
		TenancyID:      tenancy.ID,
		InviteToken:    token,
	}, nil
}

// SendLandlordInvite transitions a tenant-initiated tenancy to
// landlord_reviewing and queues the invitation email.
func (s *tenancyService) SendLandlordInvite(ctx context.Context, callerID, tenancyID uuid.UUID) (*WorkflowResult, error) {
	tenancy, err := s.tenancyRepo.GetByID(ctx, tenancyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r := fail("Unauthorized")
			return &r, nil
		}
		return nil, err
	}
	if tenancy.TenantID == nil || *tenancy.TenantID != callerID {
		r := fail("Unauthorized")
		return &r, nil
	}
	if tenancy.Status == models.TenancyStatusLandlordReviewing {
		// Already sent; treat as retryable no-op.
		r := ok()
		return &r, nil
	}
	if tenancy.Status != models.TenancyStatusTenantInitiated {
		r := fail(fmt.Sprintf("invitation cannot be sent while the tenancy is %s", tenancy.Status))
		return &r, nil
	}
	if !tenancy.HasOutstandingInvitation() {
		r := fail("tenancy has no invitation to send")
		return &r, nil
	}

	now := s.now()
	tenancy.Status = models.TenancyStatusLandlordReviewing
	tenancy.Invitation.LastResendAt = &now

	applied, err := s.tenancyRepo.UpdateIfStatus(ctx, tenancy, models.TenancyStatusTenantInitiated)
	if err != nil {
		return nil, err
	}
	if !applied {
		r := fail("tenancy state changed, please retry")
		return &r, nil
	}

	result := ok()
	subject := "A tenant has asked you to verify their tenancy"
	body := fmt.Sprintf("Hi %s, one of your tenants asked you to verify their rental history on RentalCV. The link in this email expires in 14 days.", tenancy.Invitation.InviteeName)
	if err := s.notificationSvc.EnqueueEmail(ctx, tenancy.Invitation.InviteeEmail, subject, body); err != nil {
		log.Printf("WARN: failed to enqueue landlord invite email for tenancy %s: %v", tenancy.ID, err)
		result.Warning = "invitation recorded but the email could not be queued"
	}
	return &result, nil
}

// ResendInvite replaces the outstanding token with a fresh one, extends
// expiry, and re-queues the email. Rate-limited per tenancy.
func (s *tenancyService) ResendInvite(ctx context.Context, callerID, tenancyID uuid.UUID) (*WorkflowResult, error) {
	tenancy, err := s.tenancyRepo.GetByID(ctx, tenancyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r := fail("Unauthorized")
			return &r, nil
		}
		return nil, err
	}

	authorized := (tenancy.TenantID != nil && *tenancy.TenantID == callerID) ||
		(tenancy.LandlordID != nil && *tenancy.LandlordID == callerID)
	if !authorized {
		r := fail("Unauthorized")
		return &r, nil
	}
	if tenancy.IsTerminal() {
		r := fail(fmt.Sprintf("invitation cannot be resent for a %s tenancy", tenancy.Status))
		return &r, nil
	}
	if !tenancy.HasOutstandingInvitation() {
		r := fail("tenancy has no invitation to resend")
		return &r, nil
	}

	rateKey := "invite_resend:" + tenancyID.String()
	limited, err := s.cacheSvc.IsRateLimited(ctx, rateKey, resendRateLimit, resendRateWindow)
	if err != nil {
		log.Printf("WARN: resend rate-limit check failed for tenancy %s: %v", tenancyID, err)
	}
	if limited {
		r := fail("too many resend attempts, please try again tomorrow")
		return &r, nil
	}

	token, err := NewInviteToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate invitation token: %v", err)
	}

	now := s.now()
	expiry := now.Add(s.tokenTTL)
	prior := tenancy.Status
	tenancy.Invitation.Token = token
	tenancy.Invitation.ExpiresAt = &expiry
	tenancy.Invitation.ResendCount++
	tenancy.Invitation.LastResendAt = &now

	applied, err := s.tenancyRepo.UpdateIfStatus(ctx, tenancy, prior)
	if err != nil {
		return nil, err
	}
	if !applied {
		r := fail("tenancy state changed, please retry")
		return &r, nil
	}

	if err := s.cacheSvc.IncrementRateLimit(ctx, rateKey, resendRateWindow); err != nil {
		log.Printf("WARN: failed to bump resend counter for tenancy %s: %v", tenancyID, err)
	}

	result := ok()
	subject := "Reminder: verify your tenancy on RentalCV"
	body := fmt.Sprintf("Hi %s, this is a reminder to verify the tenancy you were invited to. The new link expires in 14 days.", tenancy.Invitation.InviteeName)
	if err := s.notificationSvc.EnqueueEmail(ctx, tenancy.Invitation.InviteeEmail, subject, body); err != nil {
		log.Printf("WARN: failed to enqueue resend email for tenancy %s: %v", tenancy.ID, err)
		result.Warning = "invitation updated but the email could not be queued"
	}
	return &result, nil
}

// lookupByToken applies the shared token validation contract: unknown token,
// lazy expiry check, nothing mutated on failure.
func (s *tenancyService) lookupByToken(ctx context.Context, token string) (*models.Tenancy, string, error) {
	if token == "" {
		return nil, ErrCodeInvalidToken, nil
	}
	tenancy, err := s.tenancyRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCodeInvalidToken, nil
		}
		return nil, "", err
	}
	if tenancy.Invitation != nil && tenancy.Invitation.IsExpired(s.now()) {
		return nil, ErrCodeTokenExpired, nil
	}
	return tenancy, "", nil
}

// recordCompliance writes the append-only disclaimer acceptance entry for a
// workflow step. The disclaimer version is resolved from the active
// disclaimer for the party's country.
func (s *tenancyService) recordCompliance(ctx context.Context, userID uuid.UUID, tenancyID uuid.UUID, country, ip, device, userAgent string, context_ models.ComplianceContext) (*uuid.UUID, error) {
	version := "1.0"
	if disclaimer, err := s.disclaimerRepo.GetActive(ctx, country); err == nil {
		version = disclaimer.Version
	}

	entry := &models.ComplianceLog{
		ID:                 uuid.New(),
		UserID:             userID,
		TenancyID:          &tenancyID,
		Country:            country,
		DisclaimerVersion:  version,
		Context:            context_,
		IPAddress:          ip,
		DeviceType:         device,
		UserAgent:          userAgent,
		RetentionExpiresAt: s.now().AddDate(models.ComplianceRetentionYears, 0, 0),
	}
	if err := s.complianceRepo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return &entry.ID, nil
}

// AcceptLandlordInvite moves a landlord-initiated invitation to
// pending_confirmation. Re-acceptance by the same tenant is an idempotent
// no-op so clients can safely retry.
func (s *tenancyService) AcceptLandlordInvite(ctx context.Context, req *AcceptInviteRequest) (*AcceptInviteResult, error) {
	tenancy, errCode, err := s.lookupByToken(ctx, req.Token)
	if err != nil {
		return nil, err
	}
	if errCode != "" {
		return &AcceptInviteResult{WorkflowResult: fail(errCode)}, nil
	}

	if tenancy.TenantID != nil && *tenancy.TenantID != req.TenantID {
		return &AcceptInviteResult{WorkflowResult: fail(ErrCodeAlreadyAcceptedOther)}, nil
	}
	if tenancy.TenantID != nil && *tenancy.TenantID == req.TenantID && tenancy.TenantVerified {
		// Same tenant retrying; no duplicate side effects.
		return &AcceptInviteResult{
			WorkflowResult:       ok(),
			TenancyID:            tenancy.ID,
			RequiresConfirmation: tenancy.Status == models.TenancyStatusPendingConfirmation,
		}, nil
	}
	if tenancy.IsTerminal() {
		return &AcceptInviteResult{WorkflowResult: fail(fmt.Sprintf("invitation is no longer open: tenancy is %s", tenancy.Status))}, nil
	}
	// Only landlord-initiated invitations are acceptable here. A tenant
	// holding the token of their own tenant-initiated request must not be
	// able to walk it to active without a landlord.
	if tenancy.Origin != models.OriginLandlordInitiated ||
		(tenancy.Status != models.TenancyStatusInvited && tenancy.Status != models.TenancyStatusPendingTenantResponse) {
		return &AcceptInviteResult{WorkflowResult: fail(fmt.Sprintf("invitation cannot be accepted in its current state (status %s)", tenancy.Status))}, nil
	}

	location := s.geoSvc.LookupOrDefault(ctx, req.IPAddress)

	now := s.now()
	prior := tenancy.Status
	tenantID := req.TenantID
	tenancy.TenantID = &tenantID
	tenancy.Status = models.TenancyStatusPendingConfirmation
	tenancy.TenantVerified = true
	tenancy.TenantAcceptedAt = &now
	tenancy.Compliance.TenantCountry = &location.Country
	tenancy.Compliance.TenantRegion = &location.Region
	if req.IPAddress != "" {
		ip := req.IPAddress
		tenancy.Compliance.TenantIP = &ip
	}

	applied, err := s.tenancyRepo.UpdateIfStatus(ctx, tenancy, prior)
	if err != nil {
		return nil, err
	}
	if !applied {
		// Lost a race; re-read and fall back to the idempotence contract.
		// Nothing has been written for the loser, so no audit entry exists
		// for an acceptance that never took effect.
		current, err := s.tenancyRepo.GetByID(ctx, tenancy.ID)
		if err != nil {
			return nil, err
		}
		if current.TenantID != nil && *current.TenantID == req.TenantID {
			return &AcceptInviteResult{
				WorkflowResult:       ok(),
				TenancyID:            current.ID,
				RequiresConfirmation: current.Status == models.TenancyStatusPendingConfirmation,
			}, nil
		}
		return &AcceptInviteResult{WorkflowResult: fail(ErrCodeAlreadyAcceptedOther)}, nil
	}

	// The acceptance is committed; the audit entry follows and is linked in
	// a second patch keyed to the committed row.
	logID, err := s.recordCompliance(ctx, req.TenantID, tenancy.ID, location.Country, req.IPAddress, req.DeviceType, req.UserAgent, models.ComplianceContextTenantAcceptance)
	if err != nil {
		return nil, fmt.Errorf("failed to record compliance log: %v", err)
	}
	tenancy.Compliance.TenantComplianceLogID = logID
	if err := s.tenancyRepo.Update(ctx, tenancy); err != nil {
		return nil, err
	}

	return &AcceptInviteResult{
		WorkflowResult:       ok(),
		TenancyID:            tenancy.ID,
		RequiresConfirmation: true,
	}, nil
}

// ConfirmTenancyDetails finishes tenant acceptance: confirmation activates
// the tenancy, rejection raises a dispute.
func (s *tenancyService) ConfirmTenancyDetails(ctx context.Context, req *ConfirmDetailsRequest) (*ConfirmDetailsResult, error) {
	tenancy, err := s.tenancyRepo.GetByID(ctx, req.TenancyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &ConfirmDetailsResult{WorkflowResult: fail("Unauthorized")}, nil
		}
		return nil, err
	}
	if tenancy.TenantID == nil || *tenancy.TenantID != req.CallerID {
		return &ConfirmDetailsResult{WorkflowResult: fail("Unauthorized")}, nil
	}
	if tenancy.Status != models.TenancyStatusPendingConfirmation {
		// Retried confirmation of an already-active tenancy is a no-op.
		if req.Confirmed && tenancy.Status == models.TenancyStatusActive {
			return &ConfirmDetailsResult{WorkflowResult: ok(), Status: tenancy.Status}, nil
		}
		return &ConfirmDetailsResult{WorkflowResult: fail(fmt.Sprintf("tenancy is not awaiting confirmation (status %s)", tenancy.Status))}, nil
	}

	now := s.now()
	if req.Confirmed {
		tenancy.Status = models.TenancyStatusActive
		tenancy.AddressVerified = true
		tenancy.ConfirmedAt = &now
	} else {
		tenancy.Status = models.TenancyStatusDisputed
		raisedBy := models.DisputePartyTenant
		tenancy.Dispute = models.Dispute{
			Raised:   true,
			Reason:   req.Issues,
			RaisedBy: &raisedBy,
			RaisedAt: &now,
		}
	}

	applied, err := s.tenancyRepo.UpdateIfStatus(ctx, tenancy, models.TenancyStatusPendingConfirmation)
	if err != nil {
		return nil, err
	}
	if !applied {
		return &ConfirmDetailsResult{WorkflowResult: fail("tenancy state changed, please retry")}, nil
	}

	return &ConfirmDetailsResult{WorkflowResult: ok(), Status: tenancy.Status}, nil
}

// VerifyTenantRequest completes a tenant-initiated flow from the landlord
// side. Refusing to ever review the tenant is a hard failure; agreeing to be
// reviewed is optional and only affects the mutual-review flags.
func (s *tenancyService) VerifyTenantRequest(ctx context.Context, req *VerifyTenantRequestInput) (*VerifyTenantRequestResult, error) {
	tenancy, errCode, err := s.lookupByToken(ctx, req.Token)
	if err != nil {
		return nil, err
	}
	if errCode != "" {
		return &VerifyTenantRequestResult{WorkflowResult: fail(errCode)}, nil
	}

	if tenancy.LandlordID != nil && *tenancy.LandlordID != req.LandlordID {
		return &VerifyTenantRequestResult{WorkflowResult: fail(ErrCodeAlreadyAcceptedOther)}, nil
	}
	if tenancy.LandlordID != nil && *tenancy.LandlordID == req.LandlordID && tenancy.LandlordVerified {
		// Network-retry re-entry by the same landlord: confirm, no side effects.
		return &VerifyTenantRequestResult{
			WorkflowResult:     ok(),
			TenancyID:          tenancy.ID,
			RequiresReview:     true,
			FreeReviewEligible: tenancy.FreeReviewEligible,
		}, nil
	}
	if tenancy.IsTerminal() {
		return &VerifyTenantRequestResult{WorkflowResult: fail(fmt.Sprintf("invitation is no longer open: tenancy is %s", tenancy.Status))}, nil
	}
	if !req.AgreeToReview {
		// Hard business rule, checked before any mutation.
		return &VerifyTenantRequestResult{WorkflowResult: fail("must agree to provide a review")}, nil
	}

	location := s.geoSvc.LookupOrDefault(ctx, req.IPAddress)

	now := s.now()
	prior := tenancy.Status
	landlordID := req.LandlordID
	tenancy.LandlordID = &landlordID
	tenancy.Status = models.TenancyStatusActive
	tenancy.LandlordVerified = true
	tenancy.LandlordReviewable = req.AgreeToBeReviewed
	tenancy.MutualReviewAgreed = req.AgreeToReview && req.AgreeToBeReviewed
	tenancy.ConfirmedAt = &now
	tenancy.Compliance.LandlordCountry = &location.Country
	tenancy.Compliance.LandlordRegion = &location.Region
	if req.IPAddress != "" {
		ip := req.IPAddress
		tenancy.Compliance.LandlordIP = &ip
	}

	applied, err := s.tenancyRepo.UpdateIfStatus(ctx, tenancy, prior)
	if err != nil {
		return nil, err
	}
	if !applied {
		// Lost a race; no audit entry has been written for the loser.
		current, err := s.tenancyRepo.GetByID(ctx, tenancy.ID)
		if err != nil {
			return nil, err
		}
		if current.LandlordID != nil && *current.LandlordID == req.LandlordID {
			return &VerifyTenantRequestResult{
				WorkflowResult:     ok(),
				TenancyID:          current.ID,
				RequiresReview:     true,
				FreeReviewEligible: current.FreeReviewEligible,
			}, nil
		}
		return &VerifyTenantRequestResult{WorkflowResult: fail(ErrCodeAlreadyAcceptedOther)}, nil
	}

	// Verification is committed; write the audit entry and link it.
	logID, err := s.recordCompliance(ctx, req.LandlordID, tenancy.ID, location.Country, req.IPAddress, req.DeviceType, req.UserAgent, models.ComplianceContextLandlordVerification)
	if err != nil {
		return nil, fmt.Errorf("failed to record compliance log: %v", err)
	}
	tenancy.Compliance.LandlordComplianceLogID = logID
	if err := s.tenancyRepo.Update(ctx, tenancy); err != nil {
		return nil, err
	}

	result := &VerifyTenantRequestResult{
		WorkflowResult:     ok(),
		TenancyID:          tenancy.ID,
		RequiresReview:     true,
		FreeReviewEligible: tenancy.FreeReviewEligible,
	}

	// Back-fill the placeholder property in a second, non-atomic call. A
	// failure here leaves a claimed tenancy with an unclaimed property; the
	// landlord can re-claim from their dashboard.
	property, err := s.propertyRepo.GetByID(ctx, tenancy.PropertyID)
	if err == nil && property.Placeholder && property.LandlordID == nil {
		property.LandlordID = &landlordID
		property.IsActive = true
		property.Placeholder = false
		if err := s.propertyRepo.Update(ctx, property); err != nil {
			log.Printf("WARN: failed to back-fill placeholder property %s for tenancy %s: %v", property.ID, tenancy.ID, err)
			result.Warning = "tenancy verified but the property record could not be claimed"
		}
	} else if err != nil {
		log.Printf("WARN: failed to load property %s for tenancy %s: %v", tenancy.PropertyID, tenancy.ID, err)
	}

	return result, nil
}

// DeclineInvite declines an outstanding invitation from either direction.
// A supplied reason doubles as a raised dispute.
func (s *tenancyService) DeclineInvite(ctx context.Context, req *DeclineInviteRequest) (*WorkflowResult, error) {
	tenancy, errCode, err := s.lookupByToken(ctx, req.Token)
	if err != nil {
		return nil, err
	}
	if errCode != "" {
		r := fail(errCode)
		return &r, nil
	}

	if tenancy.Status == models.TenancyStatusDeclined {
		r := ok()
		return &r, nil
	}
	if tenancy.IsTerminal() {
		r := fail(fmt.Sprintf("invitation is no longer open: tenancy is %s", tenancy.Status))
		return &r, nil
	}

	now := s.now()
	prior := tenancy.Status
	tenancy.Status = models.TenancyStatusDeclined
	if req.Reason != nil && *req.Reason != "" {
		declinedBy := req.DeclinedBy
		tenancy.Dispute = models.Dispute{
			Raised:   true,
			Reason:   req.Reason,
			RaisedBy: &declinedBy,
			RaisedAt: &now,
		}
	}

	applied, err := s.tenancyRepo.UpdateIfStatus(ctx, tenancy, prior)
	if err != nil {
		return nil, err
	}
	if !applied {
		r := fail("tenancy state changed, please retry")
		return &r, nil
	}

	r := ok()
	return &r, nil
}

// EndTenancy marks an active tenancy ended. Terminal; retained for audit.
func (s *tenancyService) EndTenancy(ctx context.Context, callerID, tenancyID uuid.UUID) (*WorkflowResult, error) {
	tenancy, err := s.tenancyRepo.GetByID(ctx, tenancyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r := fail("Unauthorized")
			return &r, nil
		}
		return nil, err
	}

	authorized := (tenancy.TenantID != nil && *tenancy.TenantID == callerID) ||
		(tenancy.LandlordID != nil && *tenancy.LandlordID == callerID)
	if !authorized {
		r := fail("Unauthorized")
		return &r, nil
	}
	if tenancy.Status == models.TenancyStatusEnded {
		r := ok()
		return &r, nil
	}
	if tenancy.Status != models.TenancyStatusActive {
		r := fail(fmt.Sprintf("only an active tenancy can be ended (status %s)", tenancy.Status))
		return &r, nil
	}

	now := s.now()
	tenancy.Status = models.TenancyStatusEnded
	tenancy.EndedAt = &now

	applied, err := s.tenancyRepo.UpdateIfStatus(ctx, tenancy, models.TenancyStatusActive)
	if err != nil {
		return nil, err
	}
	if !applied {
		r := fail("tenancy state changed, please retry")
		return &r, nil
	}

	r := ok()
	return &r, nil
}

// VerifyDocuments marks the tenancy's supporting documents as checked. Admin
// only; authorization is enforced at the route.
func (s *tenancyService) VerifyDocuments(ctx context.Context, tenancyID uuid.UUID) (*WorkflowResult, error) {
	tenancy, err := s.tenancyRepo.GetByID(ctx, tenancyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r := fail("tenancy not found")
			return &r, nil
		}
		return nil, err
	}

	if tenancy.DocumentsVerified {
		r := ok()
		return &r, nil
	}

	tenancy.DocumentsVerified = true
	if err := s.tenancyRepo.Update(ctx, tenancy); err != nil {
		return nil, err
	}

	r := ok()
	return &r, nil
}

func (s *tenancyService) GetByID(ctx context.Context, callerID, tenancyID uuid.UUID) (*models.Tenancy, error) {
	tenancy, err := s.tenancyRepo.GetByID(ctx, tenancyID)
	if err != nil {
		return nil, err
	}
	authorized := (tenancy.TenantID != nil && *tenancy.TenantID == callerID) ||
		(tenancy.LandlordID != nil && *tenancy.LandlordID == callerID)
	if !authorized {
		return nil, errors.New("Unauthorized")
	}
	return tenancy, nil
}

func (s *tenancyService) ListForUser(ctx context.Context, userID uuid.UUID, role models.UserRole, limit, offset int) ([]*models.Tenancy, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	if role == models.RoleLandlord {
		return s.tenancyRepo.ListByLandlord(ctx, userID, limit, offset)
	}
	return s.tenancyRepo.ListByTenant(ctx, userID, limit, offset)
}
