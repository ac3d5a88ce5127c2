package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/domain"
)

// ProfileRepository handles persistence for user profiles.
type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.Profile) error
	GetByID(ctx context.Context, id string) (*domain.Profile, error)
	List(ctx context.Context, role domain.RoleFilter) ([]domain.Profile, error)
	SetAdmin(ctx context.Context, id string, isAdmin bool) error
}

type profileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository instantiates the repository.
func NewProfileRepository(pool *pgxpool.Pool) ProfileRepository {
	return &profileRepository{pool: pool}
}

func (r *profileRepository) Create(ctx context.Context, profile *domain.Profile) error {
	return insertProfile(ctx, r.pool, profile)
}

func insertProfile(ctx context.Context, db execer, profile *domain.Profile) error {
	const query = `
        INSERT INTO profiles (id, full_name, is_admin, avatar_url, created_at)
        VALUES ($1,$2,$3,$4,$5)`

	_, err := db.Exec(ctx, query,
		profile.ID,
		profile.FullName,
		profile.IsAdmin,
		profile.AvatarURL,
		profile.CreatedAt,
	)
	return err
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	const query = `
        SELECT id, full_name, is_admin, avatar_url, created_at
        FROM profiles WHERE id=$1`
	return scanProfile(r.pool.QueryRow(ctx, query, id))
}

func (r *profileRepository) List(ctx context.Context, role domain.RoleFilter) ([]domain.Profile, error) {
	query := `
        SELECT id, full_name, is_admin, avatar_url, created_at
        FROM profiles`
	args := []any{}

	switch role {
	case domain.RoleFilterAdmin:
		args = append(args, true)
		query += " WHERE is_admin=$1"
	case domain.RoleFilterUser:
		args = append(args, false)
		query += " WHERE is_admin=$1"
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Profile{}
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *profile)
	}
	return result, rows.Err()
}

func (r *profileRepository) SetAdmin(ctx context.Context, id string, isAdmin bool) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE profiles SET is_admin=$1 WHERE id=$2`, isAdmin, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanProfile(row pgx.Row) (*domain.Profile, error) {
	var profile domain.Profile
	if err := row.Scan(
		&profile.ID,
		&profile.FullName,
		&profile.IsAdmin,
		&profile.AvatarURL,
		&profile.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &profile, nil
}
