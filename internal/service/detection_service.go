package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/cache"
	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/domain"
	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/repository"
	apperrors "github.com/aryansharma1305/road-eye-anomaly-detect/pkg/util/errorutil"
)

// Detector produces anomaly detections for a stored media file.
type Detector interface {
	Detect(ctx context.Context, media domain.MediaFile) (domain.Detections, error)
}

// MockDetector returns a fixed result.
type MockDetector struct{}

func (MockDetector) Detect(_ context.Context, media domain.MediaFile) (domain.Detections, error) {
	return domain.Detections{
		Potholes:          3,
		Cracks:            2,
		SeverityScore:     7.2,
		ProcessedImageURL: media.URL,
	}, nil
}

// DetectionService runs the detector with a per-file result cache.
type DetectionService struct {
	media    repository.MediaRepository
	detector Detector
	cache    cache.DetectionCache
	logger   *zap.Logger
}

// DetectionDependencies bundles collaborators for the detection service.
type DetectionDependencies struct {
	MediaRepo repository.MediaRepository
	Detector  Detector
	Cache     cache.DetectionCache
	Logger    *zap.Logger
}

// NewDetectionService constructs the service. A nil detector uses MockDetector.
func NewDetectionService(deps DetectionDependencies) *DetectionService {
	detector := deps.Detector
	if detector == nil {
		detector = MockDetector{}
	}
	return &DetectionService{
		media:    deps.MediaRepo,
		detector: detector,
		cache:    deps.Cache,
		logger:   loggerOrNop(deps.Logger),
	}
}

// Detect returns detections for fileID. Cache failures degrade to a fresh run.
func (s *DetectionService) Detect(ctx context.Context, actor *domain.Actor, fileID, location string) (*domain.Detections, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthenticated("authentication required")
	}
	fileID = strings.TrimSpace(fileID)
	details := map[string]any{}
	if fileID == "" {
		details["fileId"] = "this field is required"
	}
	if strings.TrimSpace(location) == "" {
		details["location"] = "this field is required"
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid detection request", details)
	}
	if !isUUID(fileID) {
		return nil, apperrors.NewNotFound("media file", nil)
	}

	media, err := s.media.GetByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("media file", nil)
		}
		return nil, apperrors.NewPersistenceError("load media", err)
	}
	if !actor.IsAdmin && media.OwnerID != actor.UserID {
		return nil, apperrors.NewForbidden("media file belongs to another user")
	}

	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, fileID)
		if err != nil {
			s.logger.Warn("detection cache read failed", zap.String("file_id", fileID), zap.Error(err))
		} else if ok {
			return &cached, nil
		}
	}

	detections, err := s.detector.Detect(ctx, *media)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, fileID, detections); err != nil {
			s.logger.Warn("detection cache write failed", zap.String("file_id", fileID), zap.Error(err))
		}
	}
	s.logger.Info("detection completed",
		zap.String("file_id", fileID),
		zap.Int("anomalies", detections.TotalAnomalies()),
		zap.Float64("severity", detections.SeverityScore))
	return &detections, nil
}
