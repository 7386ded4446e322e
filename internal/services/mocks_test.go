package services

import (
	"context"
	"time"

	"rentalcv/internal/caching"
	"rentalcv/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockTenancyRepository struct {
	mock.Mock
}

func (m *MockTenancyRepository) Create(ctx context.Context, tenancy *models.Tenancy) error {
	args := m.Called(ctx, tenancy)
	return args.Error(0)
}

func (m *MockTenancyRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenancy, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenancy), args.Error(1)
}

func (m *MockTenancyRepository) GetByToken(ctx context.Context, token string) (*models.Tenancy, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenancy), args.Error(1)
}

func (m *MockTenancyRepository) Update(ctx context.Context, tenancy *models.Tenancy) error {
	args := m.Called(ctx, tenancy)
	return args.Error(0)
}

func (m *MockTenancyRepository) UpdateIfStatus(ctx context.Context, tenancy *models.Tenancy, expected models.TenancyStatus) (bool, error) {
	args := m.Called(ctx, tenancy, expected)
	return args.Bool(0), args.Error(1)
}

func (m *MockTenancyRepository) ExistsActiveInvitation(ctx context.Context, propertyID uuid.UUID, inviteeEmail string) (bool, error) {
	args := m.Called(ctx, propertyID, inviteeEmail)
	return args.Bool(0), args.Error(1)
}

func (m *MockTenancyRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Tenancy, error) {
	args := m.Called(ctx, tenantID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Tenancy), args.Error(1)
}

func (m *MockTenancyRepository) ListByLandlord(ctx context.Context, landlordID uuid.UUID, limit, offset int) ([]*models.Tenancy, error) {
	args := m.Called(ctx, landlordID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Tenancy), args.Error(1)
}

func (m *MockTenancyRepository) ListExpiredInvitations(ctx context.Context, before time.Time, limit int) ([]*models.Tenancy, error) {
	args := m.Called(ctx, before, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Tenancy), args.Error(1)
}

type MockPropertyRepository struct {
	mock.Mock
}

func (m *MockPropertyRepository) Create(ctx context.Context, property *models.Property) error {
	args := m.Called(ctx, property)
	return args.Error(0)
}

func (m *MockPropertyRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockPropertyRepository) GetByAddress(ctx context.Context, postcode, addressLine1 string) (*models.Property, error) {
	args := m.Called(ctx, postcode, addressLine1)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockPropertyRepository) Update(ctx context.Context, property *models.Property) error {
	args := m.Called(ctx, property)
	return args.Error(0)
}

func (m *MockPropertyRepository) ListByLandlord(ctx context.Context, landlordID uuid.UUID, limit, offset int) ([]*models.Property, error) {
	args := m.Called(ctx, landlordID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Property), args.Error(1)
}

type MockComplianceRepository struct {
	mock.Mock
}

func (m *MockComplianceRepository) Create(ctx context.Context, entry *models.ComplianceLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockComplianceRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ComplianceLog, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ComplianceLog), args.Error(1)
}

func (m *MockComplianceRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.ComplianceLog, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ComplianceLog), args.Error(1)
}

func (m *MockComplianceRepository) ArchiveExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type MockDisclaimerRepository struct {
	mock.Mock
}

func (m *MockDisclaimerRepository) Create(ctx context.Context, disclaimer *models.Disclaimer) error {
	args := m.Called(ctx, disclaimer)
	return args.Error(0)
}

func (m *MockDisclaimerRepository) GetActive(ctx context.Context, country string) (*models.Disclaimer, error) {
	args := m.Called(ctx, country)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Disclaimer), args.Error(1)
}

func (m *MockDisclaimerRepository) ListByCountry(ctx context.Context, country string) ([]*models.Disclaimer, error) {
	args := m.Called(ctx, country)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Disclaimer), args.Error(1)
}

func (m *MockDisclaimerRepository) Update(ctx context.Context, disclaimer *models.Disclaimer) error {
	args := m.Called(ctx, disclaimer)
	return args.Error(0)
}

type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(ctx context.Context, review *models.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewRepository) GetByTriple(ctx context.Context, tenancyID, reviewerID uuid.UUID, revieweeType models.RevieweeType) (*models.Review, error) {
	args := m.Called(ctx, tenancyID, reviewerID, revieweeType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewRepository) CountByReviewer(ctx context.Context, reviewerID uuid.UUID) (int, error) {
	args := m.Called(ctx, reviewerID)
	return args.Int(0), args.Error(1)
}

func (m *MockReviewRepository) ListByTenancy(ctx context.Context, tenancyID uuid.UUID) ([]*models.Review, error) {
	args := m.Called(ctx, tenancyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Review), args.Error(1)
}

func (m *MockReviewRepository) ListByReviewer(ctx context.Context, reviewerID uuid.UUID, limit, offset int) ([]*models.Review, error) {
	args := m.Called(ctx, reviewerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Review), args.Error(1)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) CreateAccount(ctx context.Context, account *models.PaymentAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockPaymentRepository) GetAccountByUserID(ctx context.Context, userID uuid.UUID) (*models.PaymentAccount, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PaymentAccount), args.Error(1)
}

func (m *MockPaymentRepository) UpdateAccount(ctx context.Context, account *models.PaymentAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockPaymentRepository) CreatePayment(ctx context.Context, payment *models.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) GetPaymentByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockPaymentRepository) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockPaymentRepository) ListPaymentsByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Payment, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Payment), args.Error(1)
}

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) EnqueueEmail(ctx context.Context, recipient, subject, body string) error {
	args := m.Called(ctx, recipient, subject, body)
	return args.Error(0)
}

func (m *MockNotificationService) EnqueueSMS(ctx context.Context, recipient, message string) error {
	args := m.Called(ctx, recipient, message)
	return args.Error(0)
}

func (m *MockNotificationService) Deliver(ctx context.Context, notification *models.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockNotificationService) ProcessPending(ctx context.Context, batchSize int) error {
	args := m.Called(ctx, batchSize)
	return args.Error(0)
}

type MockGeolocationService struct {
	mock.Mock
}

func (m *MockGeolocationService) Lookup(ctx context.Context, ip string) (*caching.GeoLocation, error) {
	args := m.Called(ctx, ip)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*caching.GeoLocation), args.Error(1)
}

func (m *MockGeolocationService) LookupOrDefault(ctx context.Context, ip string) *caching.GeoLocation {
	args := m.Called(ctx, ip)
	return args.Get(0).(*caching.GeoLocation)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetGeoLocation(ctx context.Context, ip string) (*caching.GeoLocation, error) {
	args := m.Called(ctx, ip)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*caching.GeoLocation), args.Error(1)
}

func (m *MockCacheService) SetGeoLocation(ctx context.Context, ip string, location *caching.GeoLocation, ttl time.Duration) error {
	args := m.Called(ctx, ip, location, ttl)
	return args.Error(0)
}

func (m *MockCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheService) IncrementRateLimit(ctx context.Context, key string, window time.Duration) error {
	args := m.Called(ctx, key, window)
	return args.Error(0)
}

func (m *MockCacheService) SetSession(ctx context.Context, sessionID, userID string, ttl time.Duration) error {
	args := m.Called(ctx, sessionID, userID, ttl)
	return args.Error(0)
}

func (m *MockCacheService) GetSession(ctx context.Context, sessionID string) (string, error) {
	args := m.Called(ctx, sessionID)
	return args.String(0), args.Error(1)
}

func (m *MockCacheService) DeleteSession(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *MockCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheService) GetString(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCacheService) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
