package handlers

import (
	"net/http"

	"rentalcv/internal/common"
	"rentalcv/internal/services"

	"github.com/labstack/echo/v4"
)

// VerificationHandlers handles HTTP requests for short-lived verification
// codes
type VerificationHandlers struct {
	verificationService services.VerificationService
}

// NewVerificationHandlers creates a new verification handlers instance
func NewVerificationHandlers(verificationService services.VerificationService) *VerificationHandlers {
	return &VerificationHandlers{verificationService: verificationService}
}

// SendCode handles POST /verification/send
func (h *VerificationHandlers) SendCode(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		Channel   string `json:"channel"`
		Recipient string `json:"recipient"`
		Purpose   string `json:"purpose"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := common.ValidateRequiredString(req.Recipient, "recipient"); err != nil {
		return common.SendValidationError(c, "recipient", err.Error())
	}
	if err := common.ValidateRequiredString(req.Purpose, "purpose"); err != nil {
		return common.SendValidationError(c, "purpose", err.Error())
	}

	if err := h.verificationService.SendCode(ctx, userID, req.Channel, req.Recipient, req.Purpose); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "sent"})
}

// VerifyCode handles POST /verification/verify
func (h *VerificationHandlers) VerifyCode(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		Purpose string `json:"purpose"`
		Code    string `json:"code"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := common.ValidateRequiredString(req.Code, "code"); err != nil {
		return common.SendValidationError(c, "code", err.Error())
	}

	if err := h.verificationService.VerifyCode(ctx, userID, req.Purpose, req.Code); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "verified"})
}
