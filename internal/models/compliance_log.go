package models

import (
	"time"

	"github.com/google/uuid"
)

// ComplianceContext matches the tenancy-flow step during which a disclaimer
// was accepted.
type ComplianceContext string

const (
	ComplianceContextTenantRequest        ComplianceContext = "tenant_request"
	ComplianceContextTenantAcceptance     ComplianceContext = "tenant_acceptance"
	ComplianceContextLandlordVerification ComplianceContext = "landlord_verification"
	ComplianceContextReviewSubmission     ComplianceContext = "review_submission"
)

// ComplianceRetention is how long a compliance log entry is kept before the
// archival sweep flips it to archived.
const ComplianceRetentionYears = 7

// ComplianceLog is an append-only audit record of disclaimer acceptance.
// Nothing mutates an entry after creation except the archived flag, which is
// set by the periodic retention sweep.
type ComplianceLog struct {
	ID                 uuid.UUID         `json:"id" db:"id"`
	UserID             uuid.UUID         `json:"user_id" db:"user_id"`
	TenancyID          *uuid.UUID        `json:"tenancy_id" db:"tenancy_id"`
	Country            string            `json:"country" db:"country"`
	DisclaimerVersion  string            `json:"disclaimer_version" db:"disclaimer_version"`
	Context            ComplianceContext `json:"context" db:"context"`
	IPAddress          string            `json:"-" db:"ip_address"`
	DeviceType         string            `json:"device_type" db:"device_type"`
	UserAgent          string            `json:"-" db:"user_agent"`
	RetentionExpiresAt time.Time         `json:"retention_expires_at" db:"retention_expires_at"`
	Archived           bool              `json:"archived" db:"archived"`
	CreatedAt          time.Time         `json:"created_at" db:"created_at"`
}
