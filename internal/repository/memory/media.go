package memory

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/domain"
	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/repository"
)

// MediaRepository stores media metadata keyed by id.
type MediaRepository struct {
	mu    sync.RWMutex
	files map[string]domain.MediaFile
}

func NewMediaRepository() *MediaRepository {
	return &MediaRepository{files: make(map[string]domain.MediaFile)}
}

var _ repository.MediaRepository = (*MediaRepository)(nil)

func (r *MediaRepository) Create(_ context.Context, media *domain.MediaFile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files[media.ID] = *media
	return nil
}

func (r *MediaRepository) GetByID(_ context.Context, id string) (*domain.MediaFile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	media, ok := r.files[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &media, nil
}
