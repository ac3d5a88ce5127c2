package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/domain"
	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/repository"
)

// ReportHistoryRepository keeps status changes per report in insertion order.
type ReportHistoryRepository struct {
	mu      sync.RWMutex
	changes map[string][]domain.ReportStatusChange
}

func NewReportHistoryRepository() *ReportHistoryRepository {
	return &ReportHistoryRepository{changes: make(map[string][]domain.ReportStatusChange)}
}

var _ repository.ReportHistoryRepository = (*ReportHistoryRepository)(nil)

func (r *ReportHistoryRepository) Create(_ context.Context, change *domain.ReportStatusChange) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes[change.ReportID] = append(r.changes[change.ReportID], *change)
	return nil
}

func (r *ReportHistoryRepository) ListByReport(_ context.Context, reportID string) ([]domain.ReportStatusChange, error) {
	r.mu.RLock()
	result := append([]domain.ReportStatusChange{}, r.changes[reportID]...)
	r.mu.RUnlock()

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}
