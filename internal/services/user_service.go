package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"rentalcv/internal/models"
	"rentalcv/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

const emailVerifyTTL = 48 * time.Hour

type RegisterRequest struct {
	Email     string          `json:"email" validate:"required,email"`
	Password  string          `json:"password" validate:"required,min=8"`
	FirstName string          `json:"first_name" validate:"required"`
	LastName  string          `json:"last_name" validate:"required"`
	Phone     *string         `json:"phone"`
	Role      models.UserRole `json:"role" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserService covers account lifecycle: registration, login, email
// verification, and profile reads/updates.
type UserService interface {
	Register(ctx context.Context, req *RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *LoginRequest) (*models.TokenResponse, error)
	VerifyEmail(ctx context.Context, token string) error
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, user *models.User) error
	// AttachDocument records the object key of an uploaded identity document.
	AttachDocument(ctx context.Context, userID uuid.UUID, objectKey string) error
}

type userService struct {
	userRepo        repositories.UserRepository
	authSvc         AuthService
	notificationSvc NotificationService
	now             func() time.Time
}

func NewUserService(userRepo repositories.UserRepository, authSvc AuthService, notificationSvc NotificationService) UserService {
	return &userService{
		userRepo:        userRepo,
		authSvc:         authSvc,
		notificationSvc: notificationSvc,
		now:             time.Now,
	}
}

func (s *userService) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, errors.New("email and password are required")
	}
	if len(req.Password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}
	if req.Role != models.RoleTenant && req.Role != models.RoleLandlord {
		return nil, fmt.Errorf("invalid role: %s", req.Role)
	}

	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, errors.New("an account with this email already exists")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %v", err)
	}

	verifyToken, err := NewInviteToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate verification token: %v", err)
	}
	verifyExpiry := s.now().Add(emailVerifyTTL)

	user := &models.User{
		ID:                uuid.New(),
		Email:             email,
		PasswordHash:      string(hash),
		FirstName:         strings.TrimSpace(req.FirstName),
		LastName:          strings.TrimSpace(req.LastName),
		Phone:             req.Phone,
		Role:              req.Role,
		EmailVerifyToken:  &verifyToken,
		EmailVerifyExpiry: &verifyExpiry,
		Status:            "active",
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %v", err)
	}

	subject := "Verify your RentalCV email address"
	body := fmt.Sprintf("Hi %s, welcome to RentalCV. Verify your email within 48 hours using the link in this message.", user.FirstName)
	if err := s.notificationSvc.EnqueueEmail(ctx, user.Email, subject, body); err != nil {
		log.Printf("WARN: failed to enqueue verification email for user %s: %v", user.ID, err)
	}

	return user, nil
}

func (s *userService) Login(ctx context.Context, req *LoginRequest) (*models.TokenResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Same error for unknown email and wrong password.
			return nil, errors.New("invalid credentials")
		}
		return nil, err
	}
	if user.Status != "active" {
		return nil, errors.New("account is disabled")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.New("invalid credentials")
	}

	return s.authSvc.GenerateTokens(ctx, user.ID, user.Role)
}

func (s *userService) VerifyEmail(ctx context.Context, token string) error {
	if token == "" {
		return errors.New("verification token is required")
	}

	user, err := s.userRepo.GetByVerifyToken(ctx, token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return errors.New("invalid verification token")
		}
		return err
	}
	if user.EmailVerifyExpiry != nil && s.now().After(*user.EmailVerifyExpiry) {
		return errors.New("verification token has expired")
	}

	user.EmailVerified = true
	user.EmailVerifyToken = nil
	user.EmailVerifyExpiry = nil
	return s.userRepo.Update(ctx, user)
}

func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *userService) UpdateProfile(ctx context.Context, user *models.User) error {
	current, err := s.userRepo.GetByID(ctx, user.ID)
	if err != nil {
		return err
	}
	// Identity and security fields are not updatable through this path.
	user.Email = current.Email
	user.PasswordHash = current.PasswordHash
	user.Role = current.Role
	user.EmailVerified = current.EmailVerified
	user.EmailVerifyToken = current.EmailVerifyToken
	user.EmailVerifyExpiry = current.EmailVerifyExpiry
	user.Status = current.Status
	return s.userRepo.Update(ctx, user)
}

func (s *userService) AttachDocument(ctx context.Context, userID uuid.UUID, objectKey string) error {
	if objectKey == "" {
		return errors.New("object key is required")
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	user.DocumentObject = &objectKey
	return s.userRepo.Update(ctx, user)
}
