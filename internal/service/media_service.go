package service

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/domain"
	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/repository"
	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/storage"
	apperrors "github.com/aryansharma1305/road-eye-anomaly-detect/pkg/util/errorutil"
)

// MediaService accepts image and video uploads.
type MediaService struct {
	media    repository.MediaRepository
	store    storage.Store
	maxBytes int64
	now      func() time.Time
	logger   *zap.Logger
}

// MediaDependencies bundles collaborators for the media service.
type MediaDependencies struct {
	MediaRepo repository.MediaRepository
	Store     storage.Store
	MaxBytes  int64
	Logger    *zap.Logger
	Now       func() time.Time
}

// UploadInput describes an incoming upload.
type UploadInput struct {
	Kind        domain.MediaKind
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// NewMediaService constructs the service.
func NewMediaService(deps MediaDependencies) *MediaService {
	return &MediaService{
		media:    deps.MediaRepo,
		store:    deps.Store,
		maxBytes: deps.MaxBytes,
		now:      clockOrDefault(deps.Now),
		logger:   loggerOrNop(deps.Logger),
	}
}

// Upload validates, stores and records a media file owned by actor.
func (s *MediaService) Upload(ctx context.Context, actor *domain.Actor, input UploadInput) (*domain.MediaFile, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthenticated("authentication required")
	}

	details := map[string]any{}
	if !input.Kind.Valid() {
		details["type"] = "must be one of image, video"
	} else if !input.Kind.Accepts(input.ContentType) {
		details["file"] = "content type " + input.ContentType + " does not match " + string(input.Kind)
	}
	if input.Size <= 0 {
		details["file"] = "file is empty"
	} else if s.maxBytes > 0 && input.Size > s.maxBytes {
		details["file"] = "file exceeds the upload limit"
	}
	if input.Body == nil {
		details["file"] = "this field is required"
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid upload", details)
	}

	id := uuid.NewString()
	fileName := filepath.Base(strings.TrimSpace(input.FileName))
	stored, err := s.store.Save(ctx, storage.Object{
		ID:          id,
		FileName:    fileName,
		ContentType: input.ContentType,
		Size:        input.Size,
		Body:        input.Body,
	})
	if err != nil {
		return nil, apperrors.NewPersistenceError("store media", err)
	}

	media := &domain.MediaFile{
		ID:          id,
		OwnerID:     actor.UserID,
		Kind:        input.Kind,
		FileName:    fileName,
		ContentType: input.ContentType,
		SizeBytes:   input.Size,
		StorageKey:  stored.Key,
		URL:         stored.URL,
		CreatedAt:   s.now(),
	}
	if err := s.media.Create(ctx, media); err != nil {
		return nil, apperrors.NewPersistenceError("insert media", err)
	}

	s.logger.Info("media uploaded",
		zap.String("file_id", id),
		zap.String("kind", string(input.Kind)),
		zap.Int64("size", input.Size),
		zap.String("store", s.store.Name()))
	return media, nil
}
