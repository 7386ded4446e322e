package services

import (
	"context"
	"testing"

	"rentalcv/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/suite"
)

type EligibilityServiceTestSuite struct {
	suite.Suite
	mockTenancyRepo *MockTenancyRepository
	mockReviewRepo  *MockReviewRepository
	mockPaymentRepo *MockPaymentRepository
	service         EligibilityService
	ctx             context.Context
	landlordID      uuid.UUID
	tenancyID       uuid.UUID
}

func (suite *EligibilityServiceTestSuite) SetupTest() {
	suite.mockTenancyRepo = new(MockTenancyRepository)
	suite.mockReviewRepo = new(MockReviewRepository)
	suite.mockPaymentRepo = new(MockPaymentRepository)

	suite.mockTenancyRepo.Test(suite.T())
	suite.mockReviewRepo.Test(suite.T())
	suite.mockPaymentRepo.Test(suite.T())

	suite.service = NewEligibilityService(suite.mockTenancyRepo, suite.mockReviewRepo, suite.mockPaymentRepo)
	suite.ctx = context.Background()
	suite.landlordID = uuid.New()
	suite.tenancyID = uuid.New()
}

func (suite *EligibilityServiceTestSuite) TearDownTest() {
	suite.mockTenancyRepo.AssertExpectations(suite.T())
	suite.mockReviewRepo.AssertExpectations(suite.T())
	suite.mockPaymentRepo.AssertExpectations(suite.T())
}

func (suite *EligibilityServiceTestSuite) tenancy(freeEligible bool) *models.Tenancy {
	return &models.Tenancy{
		ID:                 suite.tenancyID,
		Status:             models.TenancyStatusActive,
		FreeReviewEligible: freeEligible,
	}
}

func (suite *EligibilityServiceTestSuite) TestTenancyGrantWinsOverEverything() {
	suite.mockTenancyRepo.On("GetByID", suite.ctx, suite.tenancyID).Return(suite.tenancy(true), nil)

	result, err := suite.service.CheckReviewEligibility(suite.ctx, suite.landlordID, suite.tenancyID)

	suite.NoError(err)
	suite.True(result.IsFreeEligible)
	suite.False(result.RequiresPayment)
	suite.Contains(result.Reason, "tenant-initiated")
	// The grant short-circuits: no trial or plan lookups happen.
	suite.mockReviewRepo.AssertNotCalled(suite.T(), "CountByReviewer", suite.ctx, suite.landlordID)
	suite.mockPaymentRepo.AssertNotCalled(suite.T(), "GetAccountByUserID", suite.ctx, suite.landlordID)
}

func (suite *EligibilityServiceTestSuite) TestFirstReviewIsFree() {
	suite.mockTenancyRepo.On("GetByID", suite.ctx, suite.tenancyID).Return(suite.tenancy(false), nil)
	suite.mockReviewRepo.On("CountByReviewer", suite.ctx, suite.landlordID).Return(0, nil)

	result, err := suite.service.CheckReviewEligibility(suite.ctx, suite.landlordID, suite.tenancyID)

	suite.NoError(err)
	suite.True(result.IsFreeEligible)
	suite.Equal("first review is free", result.Reason)
	suite.mockPaymentRepo.AssertNotCalled(suite.T(), "GetAccountByUserID", suite.ctx, suite.landlordID)
}

func (suite *EligibilityServiceTestSuite) TestNoPaymentAccountRequiresPayment() {
	suite.mockTenancyRepo.On("GetByID", suite.ctx, suite.tenancyID).Return(suite.tenancy(false), nil)
	suite.mockReviewRepo.On("CountByReviewer", suite.ctx, suite.landlordID).Return(3, nil)
	suite.mockPaymentRepo.On("GetAccountByUserID", suite.ctx, suite.landlordID).Return(nil, pgx.ErrNoRows)

	result, err := suite.service.CheckReviewEligibility(suite.ctx, suite.landlordID, suite.tenancyID)

	suite.NoError(err)
	suite.False(result.IsFreeEligible)
	suite.True(result.RequiresPayment)
	suite.Equal(PerReviewFee, *result.Amount)
}

func (suite *EligibilityServiceTestSuite) TestPremiumPlanIncludesReviews() {
	suite.mockTenancyRepo.On("GetByID", suite.ctx, suite.tenancyID).Return(suite.tenancy(false), nil)
	suite.mockReviewRepo.On("CountByReviewer", suite.ctx, suite.landlordID).Return(3, nil)
	suite.mockPaymentRepo.On("GetAccountByUserID", suite.ctx, suite.landlordID).Return(&models.PaymentAccount{
		UserID: suite.landlordID,
		Plan:   "premium",
	}, nil)

	result, err := suite.service.CheckReviewEligibility(suite.ctx, suite.landlordID, suite.tenancyID)

	suite.NoError(err)
	suite.True(result.IsFreeEligible)
	suite.False(result.RequiresPayment)
	suite.Contains(result.Reason, "premium")
}

func (suite *EligibilityServiceTestSuite) TestFreePlanPaysPerReview() {
	suite.mockTenancyRepo.On("GetByID", suite.ctx, suite.tenancyID).Return(suite.tenancy(false), nil)
	suite.mockReviewRepo.On("CountByReviewer", suite.ctx, suite.landlordID).Return(1, nil)
	suite.mockPaymentRepo.On("GetAccountByUserID", suite.ctx, suite.landlordID).Return(&models.PaymentAccount{
		UserID: suite.landlordID,
		Plan:   "free",
	}, nil)

	result, err := suite.service.CheckReviewEligibility(suite.ctx, suite.landlordID, suite.tenancyID)

	suite.NoError(err)
	suite.False(result.IsFreeEligible)
	suite.True(result.RequiresPayment)
	suite.Equal(PerReviewFee, *result.Amount)
}

func TestEligibilityServiceTestSuite(t *testing.T) {
	suite.Run(t, new(EligibilityServiceTestSuite))
}
