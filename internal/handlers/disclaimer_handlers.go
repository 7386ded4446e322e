package handlers

import (
	"net/http"

	"rentalcv/internal/common"
	"rentalcv/internal/models"
	"rentalcv/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// DisclaimerHandlers handles HTTP requests for disclaimers and the
// compliance log
type DisclaimerHandlers struct {
	disclaimerService services.DisclaimerService
	complianceService services.ComplianceService
}

// NewDisclaimerHandlers creates a new disclaimer handlers instance
func NewDisclaimerHandlers(disclaimerService services.DisclaimerService, complianceService services.ComplianceService) *DisclaimerHandlers {
	return &DisclaimerHandlers{
		disclaimerService: disclaimerService,
		complianceService: complianceService,
	}
}

// GetActiveDisclaimer handles GET /disclaimers/:country
func (h *DisclaimerHandlers) GetActiveDisclaimer(c echo.Context) error {
	ctx := c.Request().Context()

	country := c.Param("country")
	if err := common.ValidateRequiredString(country, "country"); err != nil {
		return common.SendValidationError(c, "country", err.Error())
	}

	disclaimer, err := h.disclaimerService.GetActive(ctx, country)
	if err != nil {
		return common.SendNotFoundError(c, "Disclaimer")
	}
	return c.JSON(http.StatusOK, disclaimer)
}

// PublishDisclaimer handles POST /admin/disclaimers
func (h *DisclaimerHandlers) PublishDisclaimer(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Country string `json:"country"`
		Version string `json:"version"`
		Content string `json:"content"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := common.ValidateRequiredString(req.Country, "country"); err != nil {
		return common.SendValidationError(c, "country", err.Error())
	}
	if err := common.ValidateRequiredString(req.Version, "version"); err != nil {
		return common.SendValidationError(c, "version", err.Error())
	}
	if err := common.ValidateRequiredString(req.Content, "content"); err != nil {
		return common.SendValidationError(c, "content", err.Error())
	}

	disclaimer, err := h.disclaimerService.Publish(ctx, req.Country, req.Version, req.Content)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusCreated, disclaimer)
}

// LogAcceptance handles POST /compliance/acceptances
func (h *DisclaimerHandlers) LogAcceptance(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		TenancyID         *string `json:"tenancy_id"`
		Country           string  `json:"country"`
		DisclaimerVersion string  `json:"disclaimer_version"`
		Context           string  `json:"context"`
		DeviceType        string  `json:"device_type"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := common.ValidateRequiredString(req.Country, "country"); err != nil {
		return common.SendValidationError(c, "country", err.Error())
	}
	if err := common.ValidateRequiredString(req.DisclaimerVersion, "disclaimer_version"); err != nil {
		return common.SendValidationError(c, "disclaimer_version", err.Error())
	}

	var tenancyID *uuid.UUID
	if req.TenancyID != nil && *req.TenancyID != "" {
		parsed, err := common.ValidateUUID(*req.TenancyID, "tenancy_id")
		if err != nil {
			return common.SendValidationError(c, "tenancy_id", err.Error())
		}
		tenancyID = &parsed
	}

	entry, err := h.complianceService.LogDisclaimerAcceptance(ctx, &services.LogDisclaimerAcceptanceRequest{
		UserID:            userID,
		TenancyID:         tenancyID,
		Country:           req.Country,
		DisclaimerVersion: req.DisclaimerVersion,
		Context:           models.ComplianceContext(req.Context),
		IPAddress:         common.ClientIP(c),
		DeviceType:        req.DeviceType,
		UserAgent:         c.Request().UserAgent(),
	})
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusCreated, entry)
}

// ListMyAcceptances handles GET /compliance/acceptances
func (h *DisclaimerHandlers) ListMyAcceptances(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	limit, offset := parsePagination(c)
	entries, err := h.complianceService.ListForUser(ctx, userID, limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list compliance entries")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"acceptances": entries,
		"limit":       limit,
		"offset":      offset,
	})
}
