package services

import (
	"context"
	"testing"

	"rentalcv/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockNotificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Notification), args.Error(1)
}

func (m *MockNotificationRepository) ListPending(ctx context.Context, limit int) ([]*models.Notification, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Notification), args.Error(1)
}

func (m *MockNotificationRepository) MarkSent(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkAttemptFailed(ctx context.Context, id uuid.UUID, lastError string, maxAttempts int) error {
	args := m.Called(ctx, id, lastError, maxAttempts)
	return args.Error(0)
}

type NotificationServiceTestSuite struct {
	suite.Suite
	mockNotificationRepo *MockNotificationRepository
	service              NotificationService
	ctx                  context.Context
}

func (suite *NotificationServiceTestSuite) SetupTest() {
	suite.mockNotificationRepo = new(MockNotificationRepository)
	suite.mockNotificationRepo.Test(suite.T())
	suite.service = NewNotificationService(suite.mockNotificationRepo)
	suite.ctx = context.Background()
}

func (suite *NotificationServiceTestSuite) TearDownTest() {
	suite.mockNotificationRepo.AssertExpectations(suite.T())
}

func (suite *NotificationServiceTestSuite) TestEnqueueEmailCreatesPendingRow() {
	suite.mockNotificationRepo.On("Create", suite.ctx, mock.AnythingOfType("*models.Notification")).Return(nil).Run(func(args mock.Arguments) {
		notification := args.Get(1).(*models.Notification)
		suite.Equal(models.NotificationTypeEmail, notification.Type)
		suite.Equal(models.NotificationStatusPending, notification.Status)
		suite.Equal("tenant@example.com", notification.Recipient)
		suite.Equal("Hello", *notification.Subject)
	})

	err := suite.service.EnqueueEmail(suite.ctx, "tenant@example.com", "Hello", "Body text")

	suite.NoError(err)
}

func (suite *NotificationServiceTestSuite) TestEnqueueEmailRequiresRecipient() {
	err := suite.service.EnqueueEmail(suite.ctx, "", "Hello", "Body text")

	suite.Error(err)
}

func (suite *NotificationServiceTestSuite) TestEnqueueSMSCreatesPendingRow() {
	suite.mockNotificationRepo.On("Create", suite.ctx, mock.AnythingOfType("*models.Notification")).Return(nil).Run(func(args mock.Arguments) {
		notification := args.Get(1).(*models.Notification)
		suite.Equal(models.NotificationTypeSMS, notification.Type)
		suite.Nil(notification.Subject)
	})

	err := suite.service.EnqueueSMS(suite.ctx, "+447700900123", "Your code is 482913")

	suite.NoError(err)
}

func (suite *NotificationServiceTestSuite) TestProcessPendingMarksDeliveredRowsSent() {
	subject := "Hello"
	pending := []*models.Notification{
		{ID: uuid.New(), Type: models.NotificationTypeEmail, Recipient: "a@example.com", Subject: &subject, Body: "one", Status: models.NotificationStatusPending},
		{ID: uuid.New(), Type: models.NotificationTypeSMS, Recipient: "+447700900123", Body: "two", Status: models.NotificationStatusPending},
	}

	suite.mockNotificationRepo.On("ListPending", suite.ctx, 50).Return(pending, nil)
	suite.mockNotificationRepo.On("MarkSent", suite.ctx, pending[0].ID).Return(nil)
	suite.mockNotificationRepo.On("MarkSent", suite.ctx, pending[1].ID).Return(nil)

	err := suite.service.ProcessPending(suite.ctx, 50)

	suite.NoError(err)
}

func (suite *NotificationServiceTestSuite) TestProcessPendingRecordsFailedAttempt() {
	pending := []*models.Notification{
		{ID: uuid.New(), Type: models.NotificationType("fax"), Recipient: "a@example.com", Body: "one", Status: models.NotificationStatusPending},
	}

	suite.mockNotificationRepo.On("ListPending", suite.ctx, 50).Return(pending, nil)
	suite.mockNotificationRepo.On("MarkAttemptFailed", suite.ctx, pending[0].ID, mock.AnythingOfType("string"), models.MaxNotificationAttempts).Return(nil)

	err := suite.service.ProcessPending(suite.ctx, 50)

	suite.NoError(err)
	suite.mockNotificationRepo.AssertNotCalled(suite.T(), "MarkSent", mock.Anything, mock.Anything)
}

func TestNotificationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(NotificationServiceTestSuite))
}
