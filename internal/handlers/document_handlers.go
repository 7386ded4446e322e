package handlers

import (
	"fmt"
	"log"
	"net/http"
	"path"
	"time"

	"rentalcv/internal/common"
	"rentalcv/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const presignedURLExpiry = 15 * time.Minute

var allowedDocumentTypes = map[string]bool{
	".pdf":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// DocumentHandlers handles identity and tenancy document uploads. Files live
// in object storage; the API deals only in object keys and presigned URLs.
type DocumentHandlers struct {
	minioService services.MinioService
	userService  services.UserService
	bucket       string
}

// NewDocumentHandlers creates a new document handlers instance
func NewDocumentHandlers(minioService services.MinioService, userService services.UserService, bucket string) *DocumentHandlers {
	return &DocumentHandlers{
		minioService: minioService,
		userService:  userService,
		bucket:       bucket,
	}
}

// CreateUploadURL handles POST /documents/upload-url
func (h *DocumentHandlers) CreateUploadURL(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		Filename string `json:"filename"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := common.ValidateRequiredString(req.Filename, "filename"); err != nil {
		return common.SendValidationError(c, "filename", err.Error())
	}

	ext := path.Ext(req.Filename)
	if !allowedDocumentTypes[ext] {
		return common.SendValidationError(c, "filename", "file type must be one of: pdf, png, jpg, jpeg")
	}

	objectKey := fmt.Sprintf("users/%s/%s%s", userID, uuid.NewString(), ext)
	uploadURL, err := h.minioService.GeneratePresignedUploadURL(ctx, h.bucket, objectKey, presignedURLExpiry)
	if err != nil {
		return common.SendServerError(c, "Failed to create upload URL")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"upload_url": uploadURL,
		"object_key": objectKey,
	})
}

// AttachDocument handles POST /documents/attach
func (h *DocumentHandlers) AttachDocument(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		ObjectKey string `json:"object_key"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := common.ValidateRequiredString(req.ObjectKey, "object_key"); err != nil {
		return common.SendValidationError(c, "object_key", err.Error())
	}

	// Users may only attach objects under their own prefix.
	expectedPrefix := fmt.Sprintf("users/%s/", userID)
	if len(req.ObjectKey) < len(expectedPrefix) || req.ObjectKey[:len(expectedPrefix)] != expectedPrefix {
		return common.SendUnauthorizedError(c)
	}

	var previousObject *string
	if user, err := h.userService.GetProfile(ctx, userID); err == nil {
		previousObject = user.DocumentObject
	}

	if err := h.userService.AttachDocument(ctx, userID, req.ObjectKey); err != nil {
		return common.SendServerError(c, "Failed to attach document")
	}

	// Replacement cleanup is best effort; orphaned objects are harmless.
	if previousObject != nil && *previousObject != req.ObjectKey {
		if err := h.minioService.DeleteDocument(ctx, h.bucket, *previousObject); err != nil {
			log.Printf("WARN: failed to delete replaced document %s for user %s: %v", *previousObject, userID, err)
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "attached"})
}

// GetDocumentURL handles GET /documents/url
func (h *DocumentHandlers) GetDocumentURL(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	user, err := h.userService.GetProfile(ctx, userID)
	if err != nil {
		return common.SendNotFoundError(c, "User")
	}
	if user.DocumentObject == nil {
		return common.SendNotFoundError(c, "Document")
	}

	url, err := h.minioService.GetPresignedURL(h.bucket, *user.DocumentObject, presignedURLExpiry)
	if err != nil {
		return common.SendServerError(c, "Failed to create download URL")
	}
	return c.JSON(http.StatusOK, map[string]string{"download_url": url})
}
