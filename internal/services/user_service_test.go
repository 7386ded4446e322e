package services

import (
	"context"
	"testing"
	"time"

	"rentalcv/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByVerifyToken(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) GenerateTokens(ctx context.Context, userID uuid.UUID, role models.UserRole) (*models.TokenResponse, error) {
	args := m.Called(ctx, userID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TokenResponse), args.Error(1)
}

func (m *MockAuthService) RefreshToken(ctx context.Context, refreshToken string) (*models.TokenResponse, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TokenResponse), args.Error(1)
}

func (m *MockAuthService) ValidateToken(ctx context.Context, token string) (*TokenClaims, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*TokenClaims), args.Error(1)
}

func (m *MockAuthService) RevokeToken(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

type UserServiceTestSuite struct {
	suite.Suite
	mockUserRepo  *MockUserRepository
	mockAuthSvc   *MockAuthService
	mockNotifySvc *MockNotificationService
	service       *userService
	ctx           context.Context
	now           time.Time
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockAuthSvc = new(MockAuthService)
	suite.mockNotifySvc = new(MockNotificationService)

	suite.mockUserRepo.Test(suite.T())
	suite.mockAuthSvc.Test(suite.T())
	suite.mockNotifySvc.Test(suite.T())

	svc := NewUserService(suite.mockUserRepo, suite.mockAuthSvc, suite.mockNotifySvc)
	suite.service = svc.(*userService)
	suite.now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	suite.service.now = func() time.Time { return suite.now }
	suite.ctx = context.Background()
}

func (suite *UserServiceTestSuite) TearDownTest() {
	suite.mockUserRepo.AssertExpectations(suite.T())
	suite.mockAuthSvc.AssertExpectations(suite.T())
	suite.mockNotifySvc.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestRegisterSuccess() {
	req := &RegisterRequest{
		Email:     "New.Tenant@Example.COM",
		Password:  "s3cret-pass",
		FirstName: "Jane",
		LastName:  "Tenant",
		Role:      models.RoleTenant,
	}

	suite.mockUserRepo.On("GetByEmail", suite.ctx, "new.tenant@example.com").Return(nil, pgx.ErrNoRows)
	suite.mockUserRepo.On("Create", suite.ctx, mock.AnythingOfType("*models.User")).Return(nil).Run(func(args mock.Arguments) {
		user := args.Get(1).(*models.User)
		suite.Equal("new.tenant@example.com", user.Email)
		suite.NotEqual("s3cret-pass", user.PasswordHash)
		suite.NotNil(user.EmailVerifyToken)
		suite.Equal(suite.now.Add(emailVerifyTTL), *user.EmailVerifyExpiry)
		suite.Equal("active", user.Status)
	})
	suite.mockNotifySvc.On("EnqueueEmail", suite.ctx, "new.tenant@example.com", mock.AnythingOfType("string"), mock.AnythingOfType("string")).Return(nil)

	user, err := suite.service.Register(suite.ctx, req)

	suite.NoError(err)
	suite.Equal(models.RoleTenant, user.Role)
	suite.NoError(bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret-pass")))
}

func (suite *UserServiceTestSuite) TestRegisterDuplicateEmail() {
	req := &RegisterRequest{
		Email:     "taken@example.com",
		Password:  "s3cret-pass",
		FirstName: "Jane",
		LastName:  "Tenant",
		Role:      models.RoleTenant,
	}

	suite.mockUserRepo.On("GetByEmail", suite.ctx, "taken@example.com").Return(&models.User{ID: uuid.New()}, nil)

	user, err := suite.service.Register(suite.ctx, req)

	suite.Error(err)
	suite.Nil(user)
	suite.Contains(err.Error(), "already exists")
}

func (suite *UserServiceTestSuite) TestRegisterRejectsAdminRole() {
	req := &RegisterRequest{
		Email:     "admin@example.com",
		Password:  "s3cret-pass",
		FirstName: "Eve",
		LastName:  "Admin",
		Role:      models.RoleAdmin,
	}

	user, err := suite.service.Register(suite.ctx, req)

	suite.Error(err)
	suite.Nil(user)
}

func (suite *UserServiceTestSuite) TestRegisterShortPassword() {
	req := &RegisterRequest{
		Email:     "short@example.com",
		Password:  "short",
		FirstName: "Jane",
		LastName:  "Tenant",
		Role:      models.RoleTenant,
	}

	user, err := suite.service.Register(suite.ctx, req)

	suite.Error(err)
	suite.Nil(user)
}

func (suite *UserServiceTestSuite) TestLoginSuccess() {
	hash, _ := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.DefaultCost)
	user := &models.User{
		ID:           uuid.New(),
		Email:        "tenant@example.com",
		PasswordHash: string(hash),
		Role:         models.RoleTenant,
		Status:       "active",
	}
	tokens := &models.TokenResponse{AccessToken: "access", RefreshToken: "refresh"}

	suite.mockUserRepo.On("GetByEmail", suite.ctx, "tenant@example.com").Return(user, nil)
	suite.mockAuthSvc.On("GenerateTokens", suite.ctx, user.ID, models.RoleTenant).Return(tokens, nil)

	got, err := suite.service.Login(suite.ctx, &LoginRequest{Email: "tenant@example.com", Password: "s3cret-pass"})

	suite.NoError(err)
	suite.Equal("access", got.AccessToken)
}

func (suite *UserServiceTestSuite) TestLoginWrongPasswordAndUnknownEmailLookAlike() {
	hash, _ := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.DefaultCost)
	user := &models.User{
		ID:           uuid.New(),
		Email:        "tenant@example.com",
		PasswordHash: string(hash),
		Status:       "active",
	}

	suite.mockUserRepo.On("GetByEmail", suite.ctx, "tenant@example.com").Return(user, nil)
	suite.mockUserRepo.On("GetByEmail", suite.ctx, "nobody@example.com").Return(nil, pgx.ErrNoRows)

	_, errWrongPassword := suite.service.Login(suite.ctx, &LoginRequest{Email: "tenant@example.com", Password: "wrong"})
	_, errUnknownEmail := suite.service.Login(suite.ctx, &LoginRequest{Email: "nobody@example.com", Password: "whatever"})

	suite.Error(errWrongPassword)
	suite.Error(errUnknownEmail)
	suite.Equal(errWrongPassword.Error(), errUnknownEmail.Error())
}

func (suite *UserServiceTestSuite) TestLoginDisabledAccount() {
	user := &models.User{
		ID:     uuid.New(),
		Email:  "banned@example.com",
		Status: "suspended",
	}

	suite.mockUserRepo.On("GetByEmail", suite.ctx, "banned@example.com").Return(user, nil)

	_, err := suite.service.Login(suite.ctx, &LoginRequest{Email: "banned@example.com", Password: "s3cret-pass"})

	suite.Error(err)
	suite.Contains(err.Error(), "disabled")
}

func (suite *UserServiceTestSuite) TestVerifyEmailSuccess() {
	expiry := suite.now.Add(time.Hour)
	token := "verify-token"
	user := &models.User{
		ID:                uuid.New(),
		EmailVerifyToken:  &token,
		EmailVerifyExpiry: &expiry,
	}

	suite.mockUserRepo.On("GetByVerifyToken", suite.ctx, token).Return(user, nil)
	suite.mockUserRepo.On("Update", suite.ctx, mock.AnythingOfType("*models.User")).Return(nil).Run(func(args mock.Arguments) {
		updated := args.Get(1).(*models.User)
		suite.True(updated.EmailVerified)
		suite.Nil(updated.EmailVerifyToken)
		suite.Nil(updated.EmailVerifyExpiry)
	})

	err := suite.service.VerifyEmail(suite.ctx, token)

	suite.NoError(err)
}

func (suite *UserServiceTestSuite) TestVerifyEmailExpiredToken() {
	expiry := suite.now.Add(-time.Hour)
	token := "stale-token"
	user := &models.User{
		ID:                uuid.New(),
		EmailVerifyToken:  &token,
		EmailVerifyExpiry: &expiry,
	}

	suite.mockUserRepo.On("GetByVerifyToken", suite.ctx, token).Return(user, nil)

	err := suite.service.VerifyEmail(suite.ctx, token)

	suite.Error(err)
	suite.Contains(err.Error(), "expired")
}

func (suite *UserServiceTestSuite) TestVerifyEmailUnknownToken() {
	suite.mockUserRepo.On("GetByVerifyToken", suite.ctx, "bogus").Return(nil, pgx.ErrNoRows)

	err := suite.service.VerifyEmail(suite.ctx, "bogus")

	suite.Error(err)
	suite.Contains(err.Error(), "invalid")
}

func (suite *UserServiceTestSuite) TestUpdateProfileLocksIdentityFields() {
	userID := uuid.New()
	current := &models.User{
		ID:            userID,
		Email:         "tenant@example.com",
		PasswordHash:  "hash",
		Role:          models.RoleTenant,
		EmailVerified: true,
		Status:        "active",
	}
	update := &models.User{
		ID:        userID,
		Email:     "evil@example.com", // attempted identity change
		Role:      models.RoleAdmin,
		FirstName: "Jane",
	}

	suite.mockUserRepo.On("GetByID", suite.ctx, userID).Return(current, nil)
	suite.mockUserRepo.On("Update", suite.ctx, mock.AnythingOfType("*models.User")).Return(nil).Run(func(args mock.Arguments) {
		saved := args.Get(1).(*models.User)
		suite.Equal("tenant@example.com", saved.Email)
		suite.Equal(models.RoleTenant, saved.Role)
		suite.Equal("hash", saved.PasswordHash)
		suite.Equal("Jane", saved.FirstName)
	})

	err := suite.service.UpdateProfile(suite.ctx, update)

	suite.NoError(err)
}

func (suite *UserServiceTestSuite) TestAttachDocument() {
	userID := uuid.New()
	user := &models.User{ID: userID}

	suite.mockUserRepo.On("GetByID", suite.ctx, userID).Return(user, nil)
	suite.mockUserRepo.On("Update", suite.ctx, mock.AnythingOfType("*models.User")).Return(nil).Run(func(args mock.Arguments) {
		suite.Equal("users/abc/doc.pdf", *args.Get(1).(*models.User).DocumentObject)
	})

	err := suite.service.AttachDocument(suite.ctx, userID, "users/abc/doc.pdf")

	suite.NoError(err)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
