package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/api/dto"
	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/auth"
	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/domain"
	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/service"
	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/validation"
	apperrors "github.com/aryansharma1305/road-eye-anomaly-detect/pkg/util/errorutil"
)

// MediaHandler serves upload and detection endpoints.
type MediaHandler struct {
	media     *service.MediaService
	detection *service.DetectionService
	validator *validation.Validator
}

// NewMediaHandler constructs handler.
func NewMediaHandler(media *service.MediaService, detection *service.DetectionService, validator *validation.Validator) *MediaHandler {
	return &MediaHandler{media: media, detection: detection, validator: validator}
}

// Upload POST /api/upload (multipart: file, type).
func (h *MediaHandler) Upload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return apperrors.NewValidationError("invalid upload", map[string]any{"file": "this field is required"})
	}
	kind := domain.MediaKind(c.FormValue("type"))

	src, err := fileHeader.Open()
	if err != nil {
		return apperrors.NewValidationError("invalid upload", map[string]any{"file": "unreadable file"})
	}
	defer src.Close()

	media, err := h.media.Upload(c.UserContext(), auth.ActorFromContext(c), service.UploadInput{
		Kind:        kind,
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get(fiber.HeaderContentType),
		Size:        fileHeader.Size,
		Body:        src,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.UploadResponse{
		FileID: media.ID,
		URL:    media.URL,
		Type:   string(media.Kind),
	})
}

// Detect POST /api/detect.
func (h *MediaHandler) Detect(c *fiber.Ctx) error {
	var req dto.DetectRequest
	if err := parseBody(c, h.validator, &req); err != nil {
		return err
	}
	detections, err := h.detection.Detect(c.UserContext(), auth.ActorFromContext(c), req.FileID, req.Location)
	if err != nil {
		return err
	}
	return c.JSON(dto.DetectResponse{
		FileID:     req.FileID,
		Detections: dto.NewDetectionsPayload(*detections),
	})
}
