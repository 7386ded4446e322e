package handlers

import (
	"net/http"
	"strings"

	"rentalcv/internal/common"
	"rentalcv/internal/models"
	"rentalcv/internal/services"

	"github.com/labstack/echo/v4"
)

// UserHandlers handles HTTP requests for accounts and sessions
type UserHandlers struct {
	userService services.UserService
	authService services.AuthService
}

// NewUserHandlers creates a new user handlers instance
func NewUserHandlers(userService services.UserService, authService services.AuthService) *UserHandlers {
	return &UserHandlers{userService: userService, authService: authService}
}

// Register handles POST /auth/register
func (h *UserHandlers) Register(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Email     string  `json:"email"`
		Password  string  `json:"password"`
		FirstName string  `json:"first_name"`
		LastName  string  `json:"last_name"`
		Phone     *string `json:"phone"`
		Role      string  `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := common.ValidateRequiredString(req.Email, "email"); err != nil {
		return common.SendValidationError(c, "email", err.Error())
	}
	if err := common.ValidateRequiredString(req.Password, "password"); err != nil {
		return common.SendValidationError(c, "password", err.Error())
	}
	if err := common.ValidateUserRole(req.Role); err != nil {
		return common.SendValidationError(c, "role", err.Error())
	}

	user, err := h.userService.Register(ctx, &services.RegisterRequest{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: common.SanitizeHTMLElement(req.FirstName),
		LastName:  common.SanitizeHTMLElement(req.LastName),
		Phone:     req.Phone,
		Role:      models.UserRole(req.Role),
	})
	if err != nil {
		if strings.Contains(err.Error(), "already exists") {
			return common.SendConflictError(c, err.Error())
		}
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusCreated, user)
}

// Login handles POST /auth/login
func (h *UserHandlers) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	tokens, err := h.userService.Login(ctx, &services.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return c.JSON(http.StatusUnauthorized, common.CreateErrorResponse("UNAUTHORIZED", "Invalid credentials", nil))
	}
	return c.JSON(http.StatusOK, tokens)
}

// Refresh handles POST /auth/refresh
func (h *UserHandlers) Refresh(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := common.ValidateRequiredString(req.RefreshToken, "refresh_token"); err != nil {
		return common.SendValidationError(c, "refresh_token", err.Error())
	}

	tokens, err := h.authService.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, common.CreateErrorResponse("UNAUTHORIZED", "Invalid refresh token", nil))
	}
	return c.JSON(http.StatusOK, tokens)
}

// Logout handles POST /auth/logout
func (h *UserHandlers) Logout(c echo.Context) error {
	ctx := c.Request().Context()

	authHeader := c.Request().Header.Get("Authorization")
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == "" || tokenString == authHeader {
		return common.SendUnauthorizedError(c)
	}

	if err := h.authService.RevokeToken(ctx, tokenString); err != nil {
		return common.SendServerError(c, "Failed to revoke token")
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "logged_out"})
}

// VerifyEmail handles GET /auth/verify-email?token=...
func (h *UserHandlers) VerifyEmail(c echo.Context) error {
	ctx := c.Request().Context()

	token := c.QueryParam("token")
	if err := common.ValidateRequiredString(token, "token"); err != nil {
		return common.SendValidationError(c, "token", err.Error())
	}

	if err := h.userService.VerifyEmail(ctx, token); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "email_verified"})
}

// GetProfile handles GET /users/me
func (h *UserHandlers) GetProfile(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	user, err := h.userService.GetProfile(ctx, userID)
	if err != nil {
		return common.SendNotFoundError(c, "User")
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile handles PUT /users/me
func (h *UserHandlers) UpdateProfile(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		FirstName string  `json:"first_name"`
		LastName  string  `json:"last_name"`
		Phone     *string `json:"phone"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := common.ValidateRequiredString(req.FirstName, "first_name"); err != nil {
		return common.SendValidationError(c, "first_name", err.Error())
	}
	if err := common.ValidateRequiredString(req.LastName, "last_name"); err != nil {
		return common.SendValidationError(c, "last_name", err.Error())
	}

	user := &models.User{
		ID:        userID,
		FirstName: common.SanitizeHTMLElement(req.FirstName),
		LastName:  common.SanitizeHTMLElement(req.LastName),
		Phone:     req.Phone,
	}
	if err := h.userService.UpdateProfile(ctx, user); err != nil {
		return common.SendServerError(c, "Failed to update profile")
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "updated"})
}
