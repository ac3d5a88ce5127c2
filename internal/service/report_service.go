package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/domain"
	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/events"
	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/repository"
	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/view"
	apperrors "github.com/aryansharma1305/road-eye-anomaly-detect/pkg/util/errorutil"
)

// ReportService coordinates report submission, listing and triage.
type ReportService struct {
	reports repository.ReportRepository
	history repository.ReportHistoryRepository
	media   repository.MediaRepository
	events  eventEmitter
	now     func() time.Time
	logger  *zap.Logger
}

// ReportDependencies bundles collaborators for the report service.
type ReportDependencies struct {
	ReportRepo  repository.ReportRepository
	HistoryRepo repository.ReportHistoryRepository
	MediaRepo   repository.MediaRepository
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
	Now         func() time.Time
}

// SubmitReportInput describes a new report.
type SubmitReportInput struct {
	FileID     string
	Location   string
	Detections domain.Detections
}

// ReportListFilter describes listing filters. Search is applied after the
// store query.
type ReportListFilter struct {
	Status  *domain.ReportStatus
	OwnerID *string
	Search  string
}

// NewReportService constructs the service.
func NewReportService(deps ReportDependencies) *ReportService {
	logger := loggerOrNop(deps.Logger)
	now := clockOrDefault(deps.Now)
	return &ReportService{
		reports: deps.ReportRepo,
		history: deps.HistoryRepo,
		media:   deps.MediaRepo,
		events:  eventEmitter{dispatcher: deps.Dispatcher, logger: logger, now: now},
		now:     now,
		logger:  logger,
	}
}

// Submit validates input and stores a new pending report owned by actor.
func (s *ReportService) Submit(ctx context.Context, actor *domain.Actor, input SubmitReportInput) (*domain.Report, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthenticated("authentication required")
	}

	fileID := strings.TrimSpace(input.FileID)
	location := strings.TrimSpace(input.Location)
	if details := validateSubmission(fileID, location, input.Detections); len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid report", details)
	}

	if !isUUID(fileID) {
		return nil, apperrors.NewValidationError("invalid report", map[string]any{
			"fileId": "file does not exist",
		})
	}
	if s.media != nil {
		if _, err := s.media.GetByID(ctx, fileID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewValidationError("invalid report", map[string]any{
					"fileId": "file does not exist",
				})
			}
			return nil, apperrors.NewPersistenceError("load media", err)
		}
	}

	report := &domain.Report{
		ID:            uuid.NewString(),
		FileID:        fileID,
		Location:      location,
		Potholes:      input.Detections.Potholes,
		Cracks:        input.Detections.Cracks,
		SeverityScore: input.Detections.SeverityScore,
		Status:        domain.ReportStatusPending,
		OwnerID:       actor.UserID,
		CreatedAt:     s.now(),
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, apperrors.NewPersistenceError("insert report", err)
	}
	stored, err := s.reports.GetByID(ctx, report.ID)
	if err != nil {
		return nil, apperrors.FromStore("report", "load report", err)
	}
	report = stored

	s.logger.Info("report submitted",
		zap.String("report_id", report.ID),
		zap.String("owner_id", report.OwnerID),
		zap.Float64("severity", report.SeverityScore))
	s.events.publish(ctx, events.Event{
		Type:      events.EventReportSubmitted,
		SubjectID: report.ID,
		ActorID:   actor.UserID,
		Payload: events.ReportSubmittedPayload{
			FileID:        report.FileID,
			Location:      report.Location,
			Potholes:      report.Potholes,
			Cracks:        report.Cracks,
			SeverityScore: report.SeverityScore,
		},
	})
	return report, nil
}

func validateSubmission(fileID, location string, d domain.Detections) map[string]any {
	details := map[string]any{}
	if fileID == "" {
		details["fileId"] = "this field is required"
	}
	if location == "" {
		details["location"] = "this field is required"
	}
	if d.Potholes < 0 {
		details["potholes"] = "must be zero or greater"
	}
	if d.Cracks < 0 {
		details["cracks"] = "must be zero or greater"
	}
	if math.IsNaN(d.SeverityScore) || d.SeverityScore < domain.MinSeverityScore || d.SeverityScore > domain.MaxSeverityScore {
		details["severityScore"] = "must be between 0 and 10"
	}
	return details
}

// List returns reports newest first. Non-admin callers only ever see their
// own reports.
func (s *ReportService) List(ctx context.Context, actor *domain.Actor, filter ReportListFilter) ([]domain.Report, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthenticated("authentication required")
	}
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{
			"status": "must be one of pending, under_review, repaired",
		})
	}

	repoFilter := repository.ReportFilter{Status: filter.Status, OwnerID: filter.OwnerID}
	if !actor.IsAdmin {
		ownerID := actor.UserID
		repoFilter.OwnerID = &ownerID
	}

	reports, err := s.reports.List(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.NewPersistenceError("list reports", err)
	}
	return view.ReportView{Search: filter.Search, Status: filter.Status}.Apply(reports), nil
}

// Get returns a single report visible to actor.
func (s *ReportService) Get(ctx context.Context, actor *domain.Actor, id string) (*domain.Report, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthenticated("authentication required")
	}
	if !isUUID(id) {
		return nil, apperrors.NewNotFound("report", nil)
	}
	report, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.FromStore("report", "load report", err)
	}
	if !actor.IsAdmin && report.OwnerID != actor.UserID {
		return nil, apperrors.NewForbidden("report belongs to another user")
	}
	return report, nil
}

// History returns the status changes of a report, oldest first.
func (s *ReportService) History(ctx context.Context, actor *domain.Actor, id string) ([]domain.ReportStatusChange, error) {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return nil, err
	}
	changes, err := s.history.ListByReport(ctx, id)
	if err != nil {
		return nil, apperrors.NewPersistenceError("list report history", err)
	}
	return changes, nil
}

// UpdateStatus moves a report to newStatus, optionally overwriting admin
// notes. Any status may move to any other. The history row is written
// atomically with the update.
func (s *ReportService) UpdateStatus(ctx context.Context, actor *domain.Actor, id string, newStatus domain.ReportStatus, notes *string) (*domain.Report, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthenticated("authentication required")
	}
	if !actor.IsAdmin {
		return nil, apperrors.NewForbidden("administrator privileges required")
	}
	if !newStatus.Valid() {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{
			"status": "must be one of pending, under_review, repaired",
		})
	}

	if !isUUID(id) {
		return nil, apperrors.NewNotFound("report", nil)
	}

	now := s.now()
	change := &domain.ReportStatusChange{
		ID:        uuid.NewString(),
		ReportID:  id,
		ChangedBy: actor.UserID,
		NewStatus: newStatus,
		Notes:     notes,
		CreatedAt: now,
	}
	updated, err := s.reports.UpdateStatus(ctx, repository.StatusUpdate{
		ReportID:  id,
		Status:    newStatus,
		Notes:     notes,
		UpdatedAt: now,
		Change:    change,
	})
	if err != nil {
		return nil, apperrors.FromStore("report", "update report status", err)
	}

	s.logger.Info("report status updated",
		zap.String("report_id", id),
		zap.String("old_status", string(change.OldStatus)),
		zap.String("new_status", string(newStatus)),
		zap.String("admin_id", actor.UserID))
	s.events.publish(ctx, events.Event{
		Type:      events.EventReportStatusChanged,
		SubjectID: id,
		ActorID:   actor.UserID,
		Payload: events.ReportStatusChangedPayload{
			OwnerID:   updated.OwnerID,
			OldStatus: change.OldStatus,
			NewStatus: newStatus,
			Notes:     notes,
		},
	})
	return updated, nil
}
