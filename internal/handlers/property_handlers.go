package handlers

import (
	"net/http"
	"strings"

	"rentalcv/internal/common"
	"rentalcv/internal/models"
	"rentalcv/internal/services"

	"github.com/labstack/echo/v4"
)

// PropertyHandlers handles HTTP requests for properties
type PropertyHandlers struct {
	propertyService services.PropertyService
}

// NewPropertyHandlers creates a new property handlers instance
func NewPropertyHandlers(propertyService services.PropertyService) *PropertyHandlers {
	return &PropertyHandlers{propertyService: propertyService}
}

// AddProperty handles POST /properties
func (h *PropertyHandlers) AddProperty(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		AddressLine1 string  `json:"address_line1"`
		AddressLine2 *string `json:"address_line2"`
		City         string  `json:"city"`
		Region       *string `json:"region"`
		Postcode     string  `json:"postcode"`
		Country      string  `json:"country"`
		PropertyType *string `json:"property_type"`
		Bedrooms     *int    `json:"bedrooms"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := common.ValidateRequiredString(req.AddressLine1, "address_line1"); err != nil {
		return common.SendValidationError(c, "address_line1", err.Error())
	}
	if err := common.ValidateRequiredString(req.Postcode, "postcode"); err != nil {
		return common.SendValidationError(c, "postcode", err.Error())
	}
	if strings.EqualFold(req.Country, "United Kingdom") || strings.EqualFold(req.Country, "GB") {
		if err := common.ValidateUKPostcode(req.Postcode, "postcode"); err != nil {
			return common.SendValidationError(c, "postcode", err.Error())
		}
	}
	if req.Bedrooms != nil && (*req.Bedrooms < 0 || *req.Bedrooms > 50) {
		return common.SendValidationError(c, "bedrooms", "bedrooms must be between 0 and 50")
	}

	property, err := h.propertyService.AddProperty(ctx, &services.AddPropertyRequest{
		LandlordID:   userID,
		AddressLine1: common.SanitizeHTMLElement(req.AddressLine1),
		AddressLine2: req.AddressLine2,
		City:         common.SanitizeHTMLElement(req.City),
		Region:       req.Region,
		Postcode:     req.Postcode,
		Country:      req.Country,
		PropertyType: req.PropertyType,
		Bedrooms:     req.Bedrooms,
	})
	if err != nil {
		if strings.Contains(err.Error(), "already exists") {
			return common.SendConflictError(c, err.Error())
		}
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusCreated, property)
}

// GetProperty handles GET /properties/:id
func (h *PropertyHandlers) GetProperty(c echo.Context) error {
	ctx := c.Request().Context()

	propertyID, err := common.ValidateUUID(c.Param("id"), "property id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	property, err := h.propertyService.GetByID(ctx, propertyID)
	if err != nil {
		return common.SendNotFoundError(c, "Property")
	}
	return c.JSON(http.StatusOK, property)
}

// UpdateProperty handles PUT /properties/:id
func (h *PropertyHandlers) UpdateProperty(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	propertyID, err := common.ValidateUUID(c.Param("id"), "property id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req struct {
		AddressLine1 string  `json:"address_line1"`
		AddressLine2 *string `json:"address_line2"`
		City         string  `json:"city"`
		Region       *string `json:"region"`
		Postcode     string  `json:"postcode"`
		Country      string  `json:"country"`
		PropertyType *string `json:"property_type"`
		Bedrooms     *int    `json:"bedrooms"`
		IsActive     bool    `json:"is_active"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := common.ValidateRequiredString(req.AddressLine1, "address_line1"); err != nil {
		return common.SendValidationError(c, "address_line1", err.Error())
	}
	if err := common.ValidateRequiredString(req.Postcode, "postcode"); err != nil {
		return common.SendValidationError(c, "postcode", err.Error())
	}

	property := &models.Property{
		ID:           propertyID,
		AddressLine1: common.SanitizeHTMLElement(req.AddressLine1),
		AddressLine2: req.AddressLine2,
		City:         common.SanitizeHTMLElement(req.City),
		Region:       req.Region,
		Postcode:     req.Postcode,
		Country:      req.Country,
		PropertyType: req.PropertyType,
		Bedrooms:     req.Bedrooms,
		IsActive:     req.IsActive,
	}
	if err := h.propertyService.UpdateProperty(ctx, userID, property); err != nil {
		if err.Error() == "Unauthorized" {
			return common.SendUnauthorizedError(c)
		}
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "updated"})
}

// ListProperties handles GET /properties
func (h *PropertyHandlers) ListProperties(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	limit, offset := parsePagination(c)
	properties, err := h.propertyService.ListByLandlord(ctx, userID, limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list properties")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"properties": properties,
		"limit":      limit,
		"offset":     offset,
	})
}

// ClaimProperty handles POST /properties/:id/claim
func (h *PropertyHandlers) ClaimProperty(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	propertyID, err := common.ValidateUUID(c.Param("id"), "property id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	property, err := h.propertyService.ClaimPlaceholder(ctx, userID, propertyID)
	if err != nil {
		if strings.Contains(err.Error(), "already been claimed") {
			return common.SendConflictError(c, err.Error())
		}
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, property)
}
