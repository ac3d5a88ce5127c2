// Package memory provides in-process repository implementations used when no
// PostgreSQL DSN is configured and in tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/domain"
	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/repository"
)

// ReportRepository is a mutex-guarded map of reports. Owner names are resolved
// against the supplied profile store on read, mirroring the SQL join. Status
// changes are appended to history while the report lock is held.
type ReportRepository struct {
	mu       sync.RWMutex
	reports  map[string]domain.Report
	profiles *ProfileRepository
	history  repository.ReportHistoryRepository
}

// NewReportRepository builds an empty store. profiles and history may be nil.
func NewReportRepository(profiles *ProfileRepository, history repository.ReportHistoryRepository) *ReportRepository {
	return &ReportRepository{
		reports:  make(map[string]domain.Report),
		profiles: profiles,
		history:  history,
	}
}

var _ repository.ReportRepository = (*ReportRepository)(nil)

func (r *ReportRepository) Create(_ context.Context, report *domain.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports[report.ID] = *report
	return nil
}

func (r *ReportRepository) GetByID(_ context.Context, id string) (*domain.Report, error) {
	r.mu.RLock()
	report, ok := r.reports[id]
	r.mu.RUnlock()
	if !ok {
		return nil, pgx.ErrNoRows
	}
	r.withOwnerName(&report)
	return &report, nil
}

func (r *ReportRepository) List(_ context.Context, filter repository.ReportFilter) ([]domain.Report, error) {
	r.mu.RLock()
	result := make([]domain.Report, 0, len(r.reports))
	for _, report := range r.reports {
		if filter.Status != nil && report.Status != *filter.Status {
			continue
		}
		if filter.OwnerID != nil && report.OwnerID != *filter.OwnerID {
			continue
		}
		result = append(result, report)
	}
	r.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	for i := range result {
		r.withOwnerName(&result[i])
	}
	return result, nil
}

func (r *ReportRepository) UpdateStatus(ctx context.Context, update repository.StatusUpdate) (*domain.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	report, ok := r.reports[update.ReportID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if update.Change != nil && r.history != nil {
		update.Change.OldStatus = report.Status
		if err := r.history.Create(ctx, update.Change); err != nil {
			return nil, err
		}
	}

	report.Status = update.Status
	if update.Notes != nil {
		notes := *update.Notes
		report.AdminNotes = &notes
	}
	updatedAt := update.UpdatedAt
	report.UpdatedAt = &updatedAt
	r.reports[report.ID] = report

	r.withOwnerName(&report)
	return &report, nil
}

func (r *ReportRepository) withOwnerName(report *domain.Report) {
	report.OwnerName = ""
	if r.profiles == nil {
		return
	}
	if profile, ok := r.profiles.lookup(report.OwnerID); ok {
		report.OwnerName = profile.FullName
	}
}
