package handlers

import (
	"net/http"
	"time"

	"rentalcv/internal/common"
	"rentalcv/internal/models"
	"rentalcv/internal/services"

	"github.com/labstack/echo/v4"
)

// TenancyHandlers handles HTTP requests for the tenancy workflow
type TenancyHandlers struct {
	tenancyService services.TenancyService
}

// NewTenancyHandlers creates a new tenancy handlers instance
func NewTenancyHandlers(tenancyService services.TenancyService) *TenancyHandlers {
	return &TenancyHandlers{tenancyService: tenancyService}
}

func parseDate(dateStr string) (time.Time, error) {
	return time.Parse("2006-01-02", dateStr)
}

// workflowStatus maps a structured workflow failure to an HTTP status code.
func workflowStatus(result *services.WorkflowResult) int {
	if result.Success {
		return http.StatusOK
	}
	switch result.Error {
	case services.ErrCodeInvalidToken, services.ErrCodeTokenExpired:
		return http.StatusUnauthorized
	case services.ErrCodeAlreadyAcceptedOther:
		return http.StatusConflict
	case "Unauthorized":
		return http.StatusUnauthorized
	}
	return http.StatusUnprocessableEntity
}

// AddTenancy handles POST /tenancies
func (h *TenancyHandlers) AddTenancy(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		PropertyID  string   `json:"property_id"`
		TenantName  string   `json:"tenant_name"`
		TenantEmail string   `json:"tenant_email"`
		TenantPhone *string  `json:"tenant_phone"`
		StartDate   string   `json:"start_date"`
		EndDate     *string  `json:"end_date"`
		MonthlyRent *float64 `json:"monthly_rent"`
		Deposit     *float64 `json:"deposit"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	propertyID, err := common.ValidateUUID(req.PropertyID, "property_id")
	if err != nil {
		return common.SendValidationError(c, "property_id", err.Error())
	}
	if err := common.ValidateRequiredString(req.TenantName, "tenant_name"); err != nil {
		return common.SendValidationError(c, "tenant_name", err.Error())
	}
	if err := common.ValidateRequiredString(req.TenantEmail, "tenant_email"); err != nil {
		return common.SendValidationError(c, "tenant_email", err.Error())
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return common.SendValidationError(c, "start_date", "start_date must be in YYYY-MM-DD format")
	}
	var endDate *time.Time
	if req.EndDate != nil && *req.EndDate != "" {
		parsed, err := parseDate(*req.EndDate)
		if err != nil {
			return common.SendValidationError(c, "end_date", "end_date must be in YYYY-MM-DD format")
		}
		endDate = &parsed
	}

	token, err := services.NewInviteToken()
	if err != nil {
		return common.SendServerError(c, "Failed to generate invitation token")
	}

	result, err := h.tenancyService.AddTenancy(ctx, &services.AddTenancyRequest{
		PropertyID:  propertyID,
		LandlordID:  userID,
		TenantName:  common.SanitizeHTMLElement(req.TenantName),
		TenantEmail: req.TenantEmail,
		TenantPhone: req.TenantPhone,
		StartDate:   startDate,
		EndDate:     endDate,
		MonthlyRent: req.MonthlyRent,
		Deposit:     req.Deposit,
		InviteToken: token,
	})
	if err != nil {
		return common.SendServerError(c, "Failed to create tenancy")
	}
	if !result.Success {
		return c.JSON(workflowStatus(&result.WorkflowResult), result)
	}
	return c.JSON(http.StatusCreated, result)
}

// CreateTenantRequest handles POST /tenancies/requests
func (h *TenancyHandlers) CreateTenantRequest(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		LandlordName  string   `json:"landlord_name"`
		LandlordEmail string   `json:"landlord_email"`
		LandlordPhone *string  `json:"landlord_phone"`
		AddressLine1  string   `json:"address_line1"`
		AddressLine2  *string  `json:"address_line2"`
		City          string   `json:"city"`
		Region        *string  `json:"region"`
		Postcode      string   `json:"postcode"`
		Country       string   `json:"country"`
		StartDate     string   `json:"start_date"`
		EndDate       *string  `json:"end_date"`
		MonthlyRent   *float64 `json:"monthly_rent"`
		Deposit       *float64 `json:"deposit"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := common.ValidateRequiredString(req.LandlordName, "landlord_name"); err != nil {
		return common.SendValidationError(c, "landlord_name", err.Error())
	}
	if err := common.ValidateRequiredString(req.LandlordEmail, "landlord_email"); err != nil {
		return common.SendValidationError(c, "landlord_email", err.Error())
	}
	if err := common.ValidateRequiredString(req.AddressLine1, "address_line1"); err != nil {
		return common.SendValidationError(c, "address_line1", err.Error())
	}
	if err := common.ValidateRequiredString(req.Postcode, "postcode"); err != nil {
		return common.SendValidationError(c, "postcode", err.Error())
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return common.SendValidationError(c, "start_date", "start_date must be in YYYY-MM-DD format")
	}
	var endDate *time.Time
	if req.EndDate != nil && *req.EndDate != "" {
		parsed, err := parseDate(*req.EndDate)
		if err != nil {
			return common.SendValidationError(c, "end_date", "end_date must be in YYYY-MM-DD format")
		}
		endDate = &parsed
	}

	result, err := h.tenancyService.CreateTenantRequest(ctx, &services.CreateTenantRequestInput{
		TenantID:      userID,
		LandlordName:  common.SanitizeHTMLElement(req.LandlordName),
		LandlordEmail: req.LandlordEmail,
		LandlordPhone: req.LandlordPhone,
		AddressLine1:  common.SanitizeHTMLElement(req.AddressLine1),
		AddressLine2:  req.AddressLine2,
		City:          common.SanitizeHTMLElement(req.City),
		Region:        req.Region,
		Postcode:      req.Postcode,
		Country:       req.Country,
		StartDate:     startDate,
		EndDate:       endDate,
		MonthlyRent:   req.MonthlyRent,
		Deposit:       req.Deposit,
	})
	if err != nil {
		return common.SendServerError(c, "Failed to create tenancy request")
	}
	if !result.Success {
		return c.JSON(workflowStatus(&result.WorkflowResult), result)
	}
	return c.JSON(http.StatusCreated, result)
}

// SendLandlordInvite handles POST /tenancies/:id/send-invite
func (h *TenancyHandlers) SendLandlordInvite(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	tenancyID, err := common.ValidateUUID(c.Param("id"), "tenancy id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	result, err := h.tenancyService.SendLandlordInvite(ctx, userID, tenancyID)
	if err != nil {
		return common.SendServerError(c, "Failed to send invitation")
	}
	return c.JSON(workflowStatus(result), result)
}

// ResendInvite handles POST /tenancies/:id/resend-invite
func (h *TenancyHandlers) ResendInvite(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	tenancyID, err := common.ValidateUUID(c.Param("id"), "tenancy id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	result, err := h.tenancyService.ResendInvite(ctx, userID, tenancyID)
	if err != nil {
		return common.SendServerError(c, "Failed to resend invitation")
	}
	return c.JSON(workflowStatus(result), result)
}

// AcceptInvite handles POST /tenancies/accept
func (h *TenancyHandlers) AcceptInvite(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		Token      string `json:"token"`
		DeviceType string `json:"device_type"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := common.ValidateRequiredString(req.Token, "token"); err != nil {
		return common.SendValidationError(c, "token", err.Error())
	}

	result, err := h.tenancyService.AcceptLandlordInvite(ctx, &services.AcceptInviteRequest{
		Token:      req.Token,
		TenantID:   userID,
		IPAddress:  common.ClientIP(c),
		DeviceType: req.DeviceType,
		UserAgent:  c.Request().UserAgent(),
	})
	if err != nil {
		return common.SendServerError(c, "Failed to accept invitation")
	}
	return c.JSON(workflowStatus(&result.WorkflowResult), result)
}

// ConfirmDetails handles POST /tenancies/:id/confirm
func (h *TenancyHandlers) ConfirmDetails(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	tenancyID, err := common.ValidateUUID(c.Param("id"), "tenancy id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req struct {
		Confirmed bool    `json:"confirmed"`
		Issues    *string `json:"issues"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := common.ValidateOptionalString(req.Issues, "issues", 2000); err != nil {
		return common.SendValidationError(c, "issues", err.Error())
	}

	result, err := h.tenancyService.ConfirmTenancyDetails(ctx, &services.ConfirmDetailsRequest{
		TenancyID: tenancyID,
		CallerID:  userID,
		Confirmed: req.Confirmed,
		Issues:    req.Issues,
	})
	if err != nil {
		return common.SendServerError(c, "Failed to confirm tenancy details")
	}
	return c.JSON(workflowStatus(&result.WorkflowResult), result)
}

// VerifyTenantRequest handles POST /tenancies/verify
func (h *TenancyHandlers) VerifyTenantRequest(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		Token             string `json:"token"`
		AgreeToReview     bool   `json:"agree_to_review"`
		AgreeToBeReviewed bool   `json:"agree_to_be_reviewed"`
		DeviceType        string `json:"device_type"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := common.ValidateRequiredString(req.Token, "token"); err != nil {
		return common.SendValidationError(c, "token", err.Error())
	}

	result, err := h.tenancyService.VerifyTenantRequest(ctx, &services.VerifyTenantRequestInput{
		Token:             req.Token,
		LandlordID:        userID,
		AgreeToReview:     req.AgreeToReview,
		AgreeToBeReviewed: req.AgreeToBeReviewed,
		IPAddress:         common.ClientIP(c),
		DeviceType:        req.DeviceType,
		UserAgent:         c.Request().UserAgent(),
	})
	if err != nil {
		return common.SendServerError(c, "Failed to verify tenancy request")
	}
	return c.JSON(workflowStatus(&result.WorkflowResult), result)
}

// DeclineInvite handles POST /tenancies/decline
func (h *TenancyHandlers) DeclineInvite(c echo.Context) error {
	ctx := c.Request().Context()

	role, _ := common.GetUserRoleFromContext(ctx)

	var req struct {
		Token  string  `json:"token"`
		Reason *string `json:"reason"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := common.ValidateRequiredString(req.Token, "token"); err != nil {
		return common.SendValidationError(c, "token", err.Error())
	}
	if err := common.ValidateOptionalString(req.Reason, "reason", 2000); err != nil {
		return common.SendValidationError(c, "reason", err.Error())
	}

	declinedBy := models.DisputePartyTenant
	if role == models.RoleLandlord {
		declinedBy = models.DisputePartyLandlord
	}

	result, err := h.tenancyService.DeclineInvite(ctx, &services.DeclineInviteRequest{
		Token:      req.Token,
		Reason:     req.Reason,
		DeclinedBy: declinedBy,
	})
	if err != nil {
		return common.SendServerError(c, "Failed to decline invitation")
	}
	return c.JSON(workflowStatus(result), result)
}

// EndTenancy handles POST /tenancies/:id/end
func (h *TenancyHandlers) EndTenancy(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	tenancyID, err := common.ValidateUUID(c.Param("id"), "tenancy id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	result, err := h.tenancyService.EndTenancy(ctx, userID, tenancyID)
	if err != nil {
		return common.SendServerError(c, "Failed to end tenancy")
	}
	return c.JSON(workflowStatus(result), result)
}

// VerifyDocuments handles POST /admin/tenancies/:id/verify-documents
func (h *TenancyHandlers) VerifyDocuments(c echo.Context) error {
	ctx := c.Request().Context()

	tenancyID, err := common.ValidateUUID(c.Param("id"), "tenancy id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	result, err := h.tenancyService.VerifyDocuments(ctx, tenancyID)
	if err != nil {
		return common.SendServerError(c, "Failed to verify tenancy documents")
	}
	return c.JSON(workflowStatus(result), result)
}

// GetTenancy handles GET /tenancies/:id
func (h *TenancyHandlers) GetTenancy(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	tenancyID, err := common.ValidateUUID(c.Param("id"), "tenancy id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	tenancy, err := h.tenancyService.GetByID(ctx, userID, tenancyID)
	if err != nil {
		if err.Error() == "Unauthorized" {
			return common.SendUnauthorizedError(c)
		}
		return common.SendNotFoundError(c, "Tenancy")
	}
	return c.JSON(http.StatusOK, tenancy)
}

// ListTenancies handles GET /tenancies
func (h *TenancyHandlers) ListTenancies(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	role, _ := common.GetUserRoleFromContext(ctx)

	limit, offset := parsePagination(c)
	tenancies, err := h.tenancyService.ListForUser(ctx, userID, role, limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list tenancies")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"tenancies": tenancies,
		"limit":     limit,
		"offset":    offset,
	})
}
