package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/domain"
)

// ReportHistoryRepository stores status audit entries.
type ReportHistoryRepository interface {
	Create(ctx context.Context, change *domain.ReportStatusChange) error
	ListByReport(ctx context.Context, reportID string) ([]domain.ReportStatusChange, error)
}

type reportHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewReportHistoryRepository builds repository.
func NewReportHistoryRepository(pool *pgxpool.Pool) ReportHistoryRepository {
	return &reportHistoryRepository{pool: pool}
}

func (r *reportHistoryRepository) Create(ctx context.Context, change *domain.ReportStatusChange) error {
	return insertStatusChange(ctx, r.pool, change)
}

func insertStatusChange(ctx context.Context, db execer, change *domain.ReportStatusChange) error {
	const query = `
        INSERT INTO report_status_history (id, report_id, changed_by, old_status, new_status, notes, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7)`
	_, err := db.Exec(ctx, query,
		change.ID,
		change.ReportID,
		change.ChangedBy,
		change.OldStatus,
		change.NewStatus,
		change.Notes,
		change.CreatedAt,
	)
	return err
}

func (r *reportHistoryRepository) ListByReport(ctx context.Context, reportID string) ([]domain.ReportStatusChange, error) {
	const query = `
        SELECT id, report_id, changed_by, old_status, new_status, notes, created_at
        FROM report_status_history WHERE report_id=$1 ORDER BY created_at ASC, id ASC`
	rows, err := r.pool.Query(ctx, query, reportID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.ReportStatusChange{}
	for rows.Next() {
		var change domain.ReportStatusChange
		if err := rows.Scan(
			&change.ID,
			&change.ReportID,
			&change.ChangedBy,
			&change.OldStatus,
			&change.NewStatus,
			&change.Notes,
			&change.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, change)
	}
	return result, rows.Err()
}
