package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"rentalcv/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type AuthServiceTestSuite struct {
	suite.Suite
	mockCacheSvc *MockCacheService
	service      AuthService
	ctx          context.Context
	userID       uuid.UUID
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.mockCacheSvc = new(MockCacheService)
	suite.mockCacheSvc.Test(suite.T())
	suite.service = NewAuthService(suite.mockCacheSvc, "test-secret-key", 3600, 604800)
	suite.ctx = context.Background()
	suite.userID = uuid.New()
}

func (suite *AuthServiceTestSuite) TearDownTest() {
	suite.mockCacheSvc.AssertExpectations(suite.T())
}

func (suite *AuthServiceTestSuite) TestGenerateTokens() {
	suite.mockCacheSvc.On("SetString", suite.ctx, mock.MatchedBy(func(key string) bool {
		return len(key) > len("refresh_token:")
	}), mock.AnythingOfType("string"), 604800*time.Second).Return(nil)

	tokens, err := suite.service.GenerateTokens(suite.ctx, suite.userID, models.RoleLandlord)

	suite.NoError(err)
	suite.NotEmpty(tokens.AccessToken)
	suite.NotEmpty(tokens.RefreshToken)
	suite.Equal("Bearer", tokens.TokenType)
	suite.Equal(3600, tokens.ExpiresIn)
	suite.Equal(suite.userID.String(), tokens.UserID)
	suite.Equal("landlord", tokens.Role)
}

func (suite *AuthServiceTestSuite) TestValidateTokenRoundTrip() {
	suite.mockCacheSvc.On("SetString", suite.ctx, mock.AnythingOfType("string"), mock.AnythingOfType("string"), mock.AnythingOfType("time.Duration")).Return(nil)
	// Blacklist miss means the token is still good.
	suite.mockCacheSvc.On("GetString", suite.ctx, mock.AnythingOfType("string")).Return("", errors.New("cache miss"))

	tokens, err := suite.service.GenerateTokens(suite.ctx, suite.userID, models.RoleTenant)
	suite.NoError(err)

	claims, err := suite.service.ValidateToken(suite.ctx, tokens.AccessToken)

	suite.NoError(err)
	suite.Equal(suite.userID.String(), claims.UserID)
	suite.Equal("tenant", claims.Role)
	suite.Equal("rentalcv-auth", claims.Issuer)
}

func (suite *AuthServiceTestSuite) TestValidateTokenRejectsGarbage() {
	_, err := suite.service.ValidateToken(suite.ctx, "not-a-jwt")

	suite.Error(err)
}

func (suite *AuthServiceTestSuite) TestValidateTokenRejectsWrongSecret() {
	other := NewAuthService(suite.mockCacheSvc, "a-different-secret", 3600, 604800)
	suite.mockCacheSvc.On("SetString", suite.ctx, mock.AnythingOfType("string"), mock.AnythingOfType("string"), mock.AnythingOfType("time.Duration")).Return(nil)

	tokens, err := other.GenerateTokens(suite.ctx, suite.userID, models.RoleTenant)
	suite.NoError(err)

	_, err = suite.service.ValidateToken(suite.ctx, tokens.AccessToken)

	suite.Error(err)
}

func (suite *AuthServiceTestSuite) TestValidateTokenRejectsRevoked() {
	suite.mockCacheSvc.On("SetString", suite.ctx, mock.AnythingOfType("string"), mock.AnythingOfType("string"), mock.AnythingOfType("time.Duration")).Return(nil)
	// Blacklist hit.
	suite.mockCacheSvc.On("GetString", suite.ctx, mock.AnythingOfType("string")).Return("revoked", nil)

	tokens, err := suite.service.GenerateTokens(suite.ctx, suite.userID, models.RoleTenant)
	suite.NoError(err)

	_, err = suite.service.ValidateToken(suite.ctx, tokens.AccessToken)

	suite.Error(err)
	suite.Contains(err.Error(), "revoked")
}

func (suite *AuthServiceTestSuite) TestRefreshTokenRotates() {
	role := models.RoleTenant
	expiry := time.Now().Unix() + 604800
	stored := fmt.Sprintf("%s:%s:%d", suite.userID.String(), role, expiry)

	var refreshKey string
	suite.mockCacheSvc.On("GetString", suite.ctx, mock.AnythingOfType("string")).Return(stored, nil).Once().Run(func(args mock.Arguments) {
		refreshKey = args.String(1)
	})
	suite.mockCacheSvc.On("Delete", suite.ctx, mock.AnythingOfType("string")).Return(nil).Once().Run(func(args mock.Arguments) {
		// The presented token must be invalidated, not some other key.
		suite.Equal(refreshKey, args.String(1))
	})
	suite.mockCacheSvc.On("SetString", suite.ctx, mock.AnythingOfType("string"), mock.AnythingOfType("string"), mock.AnythingOfType("time.Duration")).Return(nil)

	tokens, err := suite.service.RefreshToken(suite.ctx, "some-refresh-token")

	suite.NoError(err)
	suite.NotEmpty(tokens.AccessToken)
	suite.NotEqual("some-refresh-token", tokens.RefreshToken)
}

func (suite *AuthServiceTestSuite) TestRefreshTokenUnknown() {
	suite.mockCacheSvc.On("GetString", suite.ctx, mock.AnythingOfType("string")).Return("", errors.New("cache miss"))

	_, err := suite.service.RefreshToken(suite.ctx, "unknown-token")

	suite.Error(err)
	suite.Contains(err.Error(), "invalid refresh token")
}

func (suite *AuthServiceTestSuite) TestRefreshTokenExpired() {
	role := models.RoleTenant
	expiry := time.Now().Unix() - 60
	stored := fmt.Sprintf("%s:%s:%d", suite.userID.String(), role, expiry)

	suite.mockCacheSvc.On("GetString", suite.ctx, mock.AnythingOfType("string")).Return(stored, nil)
	suite.mockCacheSvc.On("Delete", suite.ctx, mock.AnythingOfType("string")).Return(nil)

	_, err := suite.service.RefreshToken(suite.ctx, "stale-token")

	suite.Error(err)
	suite.Contains(err.Error(), "expired")
}

func (suite *AuthServiceTestSuite) TestRevokeTokenBlacklistsUntilExpiry() {
	suite.mockCacheSvc.On("SetString", suite.ctx, mock.AnythingOfType("string"), mock.AnythingOfType("string"), mock.AnythingOfType("time.Duration")).Return(nil)
	suite.mockCacheSvc.On("GetString", suite.ctx, mock.AnythingOfType("string")).Return("", errors.New("cache miss"))

	tokens, err := suite.service.GenerateTokens(suite.ctx, suite.userID, models.RoleTenant)
	suite.NoError(err)

	err = suite.service.RevokeToken(suite.ctx, tokens.AccessToken)

	suite.NoError(err)
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
