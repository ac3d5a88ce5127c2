package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/config"
)

const cloudinaryUploadTimeout = 2 * time.Minute

// CloudinaryStore uploads media to Cloudinary.
type CloudinaryStore struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewCloudinaryStore builds a client from the media credentials.
func NewCloudinaryStore(cfg config.MediaConfig) (*CloudinaryStore, error) {
	if !cfg.CloudinaryEnabled() {
		return nil, errors.New("cloudinary credentials not configured")
	}
	cld, err := cloudinary.NewFromParams(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}
	return &CloudinaryStore{cld: cld, folder: cfg.CloudinaryFolder}, nil
}

func (s *CloudinaryStore) Name() string { return "cloudinary" }

// Enabled reports whether the store was configured.
func (s *CloudinaryStore) Enabled() bool { return s != nil && s.cld != nil }

// Ping checks the Cloudinary admin API.
func (s *CloudinaryStore) Ping(ctx context.Context) error {
	_, err := s.cld.Admin.Ping(ctx)
	return err
}

func (s *CloudinaryStore) Save(ctx context.Context, obj Object) (Stored, error) {
	ctx, cancel := context.WithTimeout(ctx, cloudinaryUploadTimeout)
	defer cancel()

	params := uploader.UploadParams{
		Folder:         s.folder,
		PublicID:       obj.ID,
		UniqueFilename: boolPointer(false),
		Overwrite:      boolPointer(false),
		ResourceType:   "auto",
	}

	result, err := s.cld.Upload.Upload(ctx, obj.Body, params)
	if err != nil {
		return Stored{}, fmt.Errorf("cloudinary upload: %w", err)
	}
	if result.Error.Message != "" {
		return Stored{}, fmt.Errorf("cloudinary upload: %s", result.Error.Message)
	}
	if result.SecureURL == "" {
		return Stored{}, errors.New("cloudinary upload: empty secure url")
	}
	return Stored{Key: result.PublicID, URL: result.SecureURL}, nil
}

func boolPointer(b bool) *bool {
	return &b
}
