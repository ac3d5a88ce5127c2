package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/domain"
)

// MediaRepository persists uploaded media metadata.
type MediaRepository interface {
	Create(ctx context.Context, media *domain.MediaFile) error
	GetByID(ctx context.Context, id string) (*domain.MediaFile, error)
}

type mediaRepository struct {
	pool *pgxpool.Pool
}

// NewMediaRepository builds a pgx-backed media repository.
func NewMediaRepository(pool *pgxpool.Pool) MediaRepository {
	return &mediaRepository{pool: pool}
}

func (r *mediaRepository) Create(ctx context.Context, media *domain.MediaFile) error {
	const query = `
        INSERT INTO media_files (id, owner_id, kind, file_name, content_type, size_bytes, storage_key, url, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`
	_, err := r.pool.Exec(ctx, query,
		media.ID,
		media.OwnerID,
		media.Kind,
		media.FileName,
		media.ContentType,
		media.SizeBytes,
		media.StorageKey,
		media.URL,
		media.CreatedAt,
	)
	return err
}

func (r *mediaRepository) GetByID(ctx context.Context, id string) (*domain.MediaFile, error) {
	const query = `
        SELECT id, owner_id, kind, file_name, content_type, size_bytes, storage_key, url, created_at
        FROM media_files WHERE id=$1`

	var media domain.MediaFile
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&media.ID,
		&media.OwnerID,
		&media.Kind,
		&media.FileName,
		&media.ContentType,
		&media.SizeBytes,
		&media.StorageKey,
		&media.URL,
		&media.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &media, nil
}
