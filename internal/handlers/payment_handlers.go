package handlers

import (
	"net/http"

	"rentalcv/internal/common"
	"rentalcv/internal/services"

	"github.com/labstack/echo/v4"
)

// PaymentHandlers handles HTTP requests for billing
type PaymentHandlers struct {
	paymentService services.PaymentService
}

// NewPaymentHandlers creates a new payment handlers instance
func NewPaymentHandlers(paymentService services.PaymentService) *PaymentHandlers {
	return &PaymentHandlers{paymentService: paymentService}
}

// GetPlans handles GET /payments/plans
func (h *PaymentHandlers) GetPlans(c echo.Context) error {
	return c.JSON(http.StatusOK, h.paymentService.GetAvailablePlans())
}

// GetAccount handles GET /payments/account
func (h *PaymentHandlers) GetAccount(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	account, err := h.paymentService.GetAccount(ctx, userID)
	if err != nil {
		return common.SendNotFoundError(c, "Payment account")
	}
	return c.JSON(http.StatusOK, account)
}

// SelectPlan handles POST /payments/account
func (h *PaymentHandlers) SelectPlan(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		Plan string `json:"plan"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := common.ValidateRequiredString(req.Plan, "plan"); err != nil {
		return common.SendValidationError(c, "plan", err.Error())
	}

	account, err := h.paymentService.EnsureAccount(ctx, userID, req.Plan)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, account)
}

// ConfirmPayment handles POST /payments/:id/confirm
func (h *PaymentHandlers) ConfirmPayment(c echo.Context) error {
	ctx := c.Request().Context()

	if _, ok := common.GetUserIDFromContext(ctx); !ok {
		return common.SendUnauthorizedError(c)
	}

	paymentID, err := common.ValidateUUID(c.Param("id"), "payment id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.paymentService.ConfirmPayment(ctx, paymentID); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "succeeded"})
}
