package handlers

import (
	"net/http"

	"rentalcv/internal/common"
	"rentalcv/internal/services"

	"github.com/labstack/echo/v4"
)

// ReviewHandlers handles HTTP requests for reviews and review eligibility
type ReviewHandlers struct {
	reviewService      services.ReviewService
	eligibilityService services.EligibilityService
	paymentService     services.PaymentService
}

// NewReviewHandlers creates a new review handlers instance
func NewReviewHandlers(
	reviewService services.ReviewService,
	eligibilityService services.EligibilityService,
	paymentService services.PaymentService,
) *ReviewHandlers {
	return &ReviewHandlers{
		reviewService:      reviewService,
		eligibilityService: eligibilityService,
		paymentService:     paymentService,
	}
}

type reviewRequest struct {
	CommunicationRating int    `json:"communication_rating"`
	PaymentRating       int    `json:"payment_rating"`
	PropertyCareRating  int    `json:"property_care_rating"`
	ConductRating       int    `json:"conduct_rating"`
	Comment             string `json:"comment"`
}

func (h *ReviewHandlers) validateReview(c echo.Context, req *reviewRequest) error {
	for field, value := range map[string]int{
		"communication_rating": req.CommunicationRating,
		"payment_rating":       req.PaymentRating,
		"property_care_rating": req.PropertyCareRating,
		"conduct_rating":       req.ConductRating,
	} {
		if err := common.ValidateRating(value, field); err != nil {
			return common.SendValidationError(c, field, err.Error())
		}
	}
	if err := common.ValidateRequiredString(req.Comment, "comment"); err != nil {
		return common.SendValidationError(c, "comment", err.Error())
	}
	return nil
}

// CheckEligibility handles GET /tenancies/:id/review-eligibility
func (h *ReviewHandlers) CheckEligibility(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	tenancyID, err := common.ValidateUUID(c.Param("id"), "tenancy id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	result, err := h.eligibilityService.CheckReviewEligibility(ctx, userID, tenancyID)
	if err != nil {
		return common.SendServerError(c, "Failed to check review eligibility")
	}
	return c.JSON(http.StatusOK, result)
}

// SubmitLandlordReview handles POST /tenancies/:id/reviews/tenant
func (h *ReviewHandlers) SubmitLandlordReview(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	tenancyID, err := common.ValidateUUID(c.Param("id"), "tenancy id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req reviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := h.validateReview(c, &req); err != nil {
		return err
	}

	// Paid reviews must settle before submission is accepted.
	eligibility, err := h.eligibilityService.CheckReviewEligibility(ctx, userID, tenancyID)
	if err != nil {
		return common.SendServerError(c, "Failed to check review eligibility")
	}
	if eligibility.RequiresPayment {
		intent, err := h.paymentService.CreateReviewPaymentIntent(ctx, userID, tenancyID, *eligibility.Amount)
		if err != nil {
			return common.SendServerError(c, "Failed to initialize review payment")
		}
		return c.JSON(http.StatusPaymentRequired, map[string]interface{}{
			"eligibility":    eligibility,
			"payment_intent": intent,
		})
	}

	result, err := h.reviewService.SubmitLandlordReview(ctx, &services.SubmitReviewRequest{
		TenancyID:           tenancyID,
		ReviewerID:          userID,
		CommunicationRating: req.CommunicationRating,
		PaymentRating:       req.PaymentRating,
		PropertyCareRating:  req.PropertyCareRating,
		ConductRating:       req.ConductRating,
		Comment:             common.SanitizeHTMLElement(req.Comment),
	})
	if err != nil {
		return common.SendServerError(c, "Failed to submit review")
	}
	if !result.Success {
		return c.JSON(workflowStatus(&result.WorkflowResult), result)
	}
	return c.JSON(http.StatusCreated, result)
}

// SubmitTenantReview handles POST /tenancies/:id/reviews/landlord
func (h *ReviewHandlers) SubmitTenantReview(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	tenancyID, err := common.ValidateUUID(c.Param("id"), "tenancy id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req reviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := h.validateReview(c, &req); err != nil {
		return err
	}

	result, err := h.reviewService.SubmitTenantReview(ctx, &services.SubmitReviewRequest{
		TenancyID:           tenancyID,
		ReviewerID:          userID,
		CommunicationRating: req.CommunicationRating,
		PaymentRating:       req.PaymentRating,
		PropertyCareRating:  req.PropertyCareRating,
		ConductRating:       req.ConductRating,
		Comment:             common.SanitizeHTMLElement(req.Comment),
	})
	if err != nil {
		return common.SendServerError(c, "Failed to submit review")
	}
	if !result.Success {
		return c.JSON(workflowStatus(&result.WorkflowResult), result)
	}
	return c.JSON(http.StatusCreated, result)
}

// ListTenancyReviews handles GET /tenancies/:id/reviews
func (h *ReviewHandlers) ListTenancyReviews(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	tenancyID, err := common.ValidateUUID(c.Param("id"), "tenancy id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	reviews, err := h.reviewService.ListByTenancy(ctx, userID, tenancyID)
	if err != nil {
		if err.Error() == "Unauthorized" {
			return common.SendUnauthorizedError(c)
		}
		return common.SendServerError(c, "Failed to list reviews")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"reviews": reviews})
}
