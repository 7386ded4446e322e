package models

import (
	"time"

	"github.com/google/uuid"
)

// TenancyStatus is the state-machine discriminator for a tenancy. Exactly one
// value holds at any time and drives which workflow operations are legal.
type TenancyStatus string

const (
	TenancyStatusInvited               TenancyStatus = "invited"
	TenancyStatusPendingTenantResponse TenancyStatus = "pending_tenant_response"
	TenancyStatusPendingConfirmation   TenancyStatus = "pending_confirmation"
	TenancyStatusActive                TenancyStatus = "active"
	TenancyStatusEnded                 TenancyStatus = "ended"
	TenancyStatusDeclined              TenancyStatus = "declined"
	TenancyStatusTenantInitiated       TenancyStatus = "tenant_initiated"
	TenancyStatusLandlordReviewing     TenancyStatus = "landlord_reviewing"
	TenancyStatusDisputed              TenancyStatus = "disputed"
)

// ValidTenancyStatuses enumerates every status a tenancy may hold.
var ValidTenancyStatuses = map[TenancyStatus]bool{
	TenancyStatusInvited:               true,
	TenancyStatusPendingTenantResponse: true,
	TenancyStatusPendingConfirmation:   true,
	TenancyStatusActive:                true,
	TenancyStatusEnded:                 true,
	TenancyStatusDeclined:              true,
	TenancyStatusTenantInitiated:       true,
	TenancyStatusLandlordReviewing:     true,
	TenancyStatusDisputed:              true,
}

// TenancyOrigin records which party created the tenancy. It never changes for
// the lifetime of the record and distinguishes the eligibility rules.
type TenancyOrigin string

const (
	OriginLandlordInitiated TenancyOrigin = "landlord_initiated"
	OriginTenantInitiated   TenancyOrigin = "tenant_initiated"
)

// DisputeParty identifies who raised a dispute.
type DisputeParty string

const (
	DisputePartyTenant   DisputeParty = "tenant"
	DisputePartyLandlord DisputeParty = "landlord"
)

// Invitation is the token sub-record attached to a tenancy while an
// invitation is outstanding. A tenancy has at most one non-expired token.
type Invitation struct {
	Token        string     `json:"-" db:"invite_token"` // never serialized; delivered by email only
	ExpiresAt    *time.Time `json:"expires_at" db:"invite_expires_at"`
	InviteeEmail string     `json:"invitee_email" db:"invitee_email"`
	InviteeName  string     `json:"invitee_name" db:"invitee_name"`
	InviteePhone *string    `json:"invitee_phone" db:"invitee_phone"`
	ResendCount  int        `json:"resend_count" db:"resend_count"`
	LastResendAt *time.Time `json:"last_resend_at" db:"last_resend_at"`
}

// IsExpired reports whether the invitation token is past its expiry. Expiry
// is checked lazily at use time; expired tokens are never proactively deleted.
func (i *Invitation) IsExpired(now time.Time) bool {
	return i.ExpiresAt != nil && now.After(*i.ExpiresAt)
}

// Compliance holds the per-party jurisdiction data captured at acceptance
// time, linked to the append-only compliance log entries.
type Compliance struct {
	TenantCountry           *string    `json:"tenant_country" db:"tenant_country"`
	TenantRegion            *string    `json:"tenant_region" db:"tenant_region"`
	TenantIP                *string    `json:"-" db:"tenant_ip"`
	LandlordCountry         *string    `json:"landlord_country" db:"landlord_country"`
	LandlordRegion          *string    `json:"landlord_region" db:"landlord_region"`
	LandlordIP              *string    `json:"-" db:"landlord_ip"`
	TenantComplianceLogID   *uuid.UUID `json:"tenant_compliance_log_id" db:"tenant_compliance_log_id"`
	LandlordComplianceLogID *uuid.UUID `json:"landlord_compliance_log_id" db:"landlord_compliance_log_id"`
}

// Dispute is set only via the decline/dispute transitions.
type Dispute struct {
	Raised   bool          `json:"raised" db:"dispute_raised"`
	Reason   *string       `json:"reason" db:"dispute_reason"`
	RaisedBy *DisputeParty `json:"raised_by" db:"dispute_raised_by"`
	RaisedAt *time.Time    `json:"raised_at" db:"dispute_raised_at"`
}

// Tenancy is the central entity: one rental relationship between a property,
// a tenant, and a landlord. Tenancies are never physically deleted; terminal
// statuses (ended, declined, disputed) are retained for audit.
type Tenancy struct {
	ID         uuid.UUID     `json:"id" db:"id"`
	PropertyID uuid.UUID     `json:"property_id" db:"property_id"`
	TenantID   *uuid.UUID    `json:"tenant_id" db:"tenant_id"`     // set on acceptance
	LandlordID *uuid.UUID    `json:"landlord_id" db:"landlord_id"` // set on verification
	Status     TenancyStatus `json:"status" db:"status"`
	Origin     TenancyOrigin `json:"origin" db:"origin"`

	StartDate   time.Time  `json:"start_date" db:"start_date"`
	EndDate     *time.Time `json:"end_date" db:"end_date"`
	MonthlyRent *float64   `json:"monthly_rent" db:"monthly_rent"`
	Deposit     *float64   `json:"deposit" db:"deposit"`

	Invitation *Invitation `json:"invitation,omitempty"`
	Compliance Compliance  `json:"compliance"`
	Dispute    Dispute     `json:"dispute"`

	LandlordReviewID   *uuid.UUID `json:"landlord_review_id" db:"landlord_review_id"`
	TenantReviewID     *uuid.UUID `json:"tenant_review_id" db:"tenant_review_id"`
	FreeReviewEligible bool       `json:"free_review_eligible" db:"free_review_eligible"`
	LandlordReviewable bool       `json:"landlord_reviewable" db:"landlord_reviewable"`
	MutualReviewAgreed bool       `json:"mutual_review_agreed" db:"mutual_review_agreed"`

	TenantVerified    bool `json:"tenant_verified" db:"tenant_verified"`
	LandlordVerified  bool `json:"landlord_verified" db:"landlord_verified"`
	AddressVerified   bool `json:"address_verified" db:"address_verified"`
	DocumentsVerified bool `json:"documents_verified" db:"documents_verified"`

	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
	TenantAcceptedAt *time.Time `json:"tenant_accepted_at" db:"tenant_accepted_at"`
	ConfirmedAt      *time.Time `json:"confirmed_at" db:"confirmed_at"`
	EndedAt          *time.Time `json:"ended_at" db:"ended_at"`
}

// IsTerminal reports whether no workflow operation may transition the tenancy
// out of its current status.
func (t *Tenancy) IsTerminal() bool {
	switch t.Status {
	case TenancyStatusEnded, TenancyStatusDeclined, TenancyStatusDisputed:
		return true
	}
	return false
}

// HasOutstandingInvitation reports whether an invitation token is attached,
// regardless of expiry.
func (t *Tenancy) HasOutstandingInvitation() bool {
	return t.Invitation != nil && t.Invitation.Token != ""
}
