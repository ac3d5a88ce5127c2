package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/domain"
)

// ReportFilter captures store-level listing parameters.
type ReportFilter struct {
	Status  *domain.ReportStatus
	OwnerID *string
}

// StatusUpdate describes a single-row status/notes mutation. When Change is
// set it is appended to the status history in the same transaction, with
// OldStatus filled from the locked row.
type StatusUpdate struct {
	ReportID  string
	Status    domain.ReportStatus
	Notes     *string
	UpdatedAt time.Time
	Change    *domain.ReportStatusChange
}

// ReportRepository encapsulates road report persistence.
type ReportRepository interface {
	Create(ctx context.Context, report *domain.Report) error
	GetByID(ctx context.Context, id string) (*domain.Report, error)
	List(ctx context.Context, filter ReportFilter) ([]domain.Report, error)
	UpdateStatus(ctx context.Context, update StatusUpdate) (*domain.Report, error)
}

type reportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository instantiates repository.
func NewReportRepository(pool *pgxpool.Pool) ReportRepository {
	return &reportRepository{pool: pool}
}

const reportColumns = `r.id, r.file_id, r.location, r.potholes, r.cracks, r.severity_score, r.status,
               r.admin_notes, r.user_id, COALESCE(p.full_name, ''), r.created_at, r.updated_at`

func (r *reportRepository) Create(ctx context.Context, report *domain.Report) error {
	const query = `
        INSERT INTO road_reports (id, user_id, file_id, location, potholes, cracks, severity_score, status, admin_notes, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`
	_, err := r.pool.Exec(ctx, query,
		report.ID,
		report.OwnerID,
		report.FileID,
		report.Location,
		report.Potholes,
		report.Cracks,
		report.SeverityScore,
		report.Status,
		report.AdminNotes,
		report.CreatedAt,
	)
	return err
}

func (r *reportRepository) GetByID(ctx context.Context, id string) (*domain.Report, error) {
	query := `SELECT ` + reportColumns + `
        FROM road_reports r LEFT JOIN profiles p ON p.id = r.user_id
        WHERE r.id=$1`
	return scanReport(r.pool.QueryRow(ctx, query, id))
}

func (r *reportRepository) List(ctx context.Context, filter ReportFilter) ([]domain.Report, error) {
	base := `SELECT ` + reportColumns + `
             FROM road_reports r LEFT JOIN profiles p ON p.id = r.user_id`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("r.status=$%d", len(args)))
	}
	if filter.OwnerID != nil {
		args = append(args, *filter.OwnerID)
		clauses = append(clauses, fmt.Sprintf("r.user_id=$%d", len(args)))
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY r.created_at DESC, r.id DESC`, base, strings.Join(clauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Report{}
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *report)
	}
	return result, rows.Err()
}

func (r *reportRepository) UpdateStatus(ctx context.Context, update StatusUpdate) (*domain.Report, error) {
	query := `
        WITH r AS (
            UPDATE road_reports
            SET status=$1, admin_notes=COALESCE($2, admin_notes), updated_at=$3
            WHERE id=$4
            RETURNING *
        )
        SELECT ` + reportColumns + ` FROM r LEFT JOIN profiles p ON p.id = r.user_id`

	var report *domain.Report
	err := inTx(ctx, r.pool, func(tx pgx.Tx) error {
		var oldStatus domain.ReportStatus
		if err := tx.QueryRow(ctx, `SELECT status FROM road_reports WHERE id=$1 FOR UPDATE`, update.ReportID).Scan(&oldStatus); err != nil {
			return err
		}

		var err error
		report, err = scanReport(tx.QueryRow(ctx, query, update.Status, update.Notes, update.UpdatedAt, update.ReportID))
		if err != nil {
			return err
		}

		if update.Change == nil {
			return nil
		}
		update.Change.OldStatus = oldStatus
		return insertStatusChange(ctx, tx, update.Change)
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

func scanReport(row pgx.Row) (*domain.Report, error) {
	var report domain.Report
	if err := row.Scan(
		&report.ID,
		&report.FileID,
		&report.Location,
		&report.Potholes,
		&report.Cracks,
		&report.SeverityScore,
		&report.Status,
		&report.AdminNotes,
		&report.OwnerID,
		&report.OwnerName,
		&report.CreatedAt,
		&report.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &report, nil
}
