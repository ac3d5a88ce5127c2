package dto

import (
	"time"

	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/domain"
)

// DetectionsPayload is the anomaly summary returned to clients.
type DetectionsPayload struct {
	Potholes          int     `json:"potholes"`
	Cracks            int     `json:"cracks"`
	SeverityScore     float64 `json:"severityScore"`
	ProcessedImageURL string  `json:"processedImageUrl,omitempty"`
}

// DetectionsInput is the client-supplied anomaly summary. Every count is
// required; zero is a valid value.
type DetectionsInput struct {
	Potholes          *int     `json:"potholes" validate:"required,gte=0"`
	Cracks            *int     `json:"cracks" validate:"required,gte=0"`
	SeverityScore     *float64 `json:"severityScore" validate:"required,gte=0,lte=10"`
	ProcessedImageURL string   `json:"processedImageUrl,omitempty"`
}

// CreateReportRequest payload.
type CreateReportRequest struct {
	FileID     string           `json:"fileId" validate:"required"`
	Location   string           `json:"location" validate:"required,notblank"`
	Detections *DetectionsInput `json:"detections" validate:"required"`
}

// UpdateReportRequest payload for admin triage.
type UpdateReportRequest struct {
	Status     domain.ReportStatus `json:"status" validate:"required,oneof=pending under_review repaired"`
	AdminNotes *string             `json:"adminNotes"`
}

// ReportListQuery captures listing filters.
type ReportListQuery struct {
	Status  string `query:"status" validate:"omitempty,oneof=pending under_review repaired"`
	OwnerID string `query:"ownerId"`
	Search  string `query:"search"`
}

// DetectRequest payload.
type DetectRequest struct {
	FileID   string `json:"fileId" validate:"required"`
	Location string `json:"location" validate:"required,notblank"`
}

// DetectResponse wraps detection output.
type DetectResponse struct {
	FileID     string            `json:"fileId"`
	Detections DetectionsPayload `json:"detections"`
}

// UploadResponse returns the stored file id.
type UploadResponse struct {
	FileID string `json:"fileId"`
	URL    string `json:"url"`
	Type   string `json:"type"`
}

// ReportResponse represents a report.
type ReportResponse struct {
	ID            string              `json:"id"`
	FileID        string              `json:"fileId"`
	Location      string              `json:"location"`
	Potholes      int                 `json:"potholes"`
	Cracks        int                 `json:"cracks"`
	SeverityScore float64             `json:"severityScore"`
	Status        domain.ReportStatus `json:"status"`
	AdminNotes    *string             `json:"adminNotes"`
	OwnerID       string              `json:"ownerId"`
	OwnerName     string              `json:"ownerName"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     *time.Time          `json:"updatedAt"`
}

// CreateReportResponse is returned on submission.
type CreateReportResponse struct {
	ReportID string         `json:"reportId"`
	Report   ReportResponse `json:"report"`
}

// StatusChangeResponse is one history entry.
type StatusChangeResponse struct {
	ID        string              `json:"id"`
	ReportID  string              `json:"reportId"`
	ChangedBy string              `json:"changedBy"`
	OldStatus domain.ReportStatus `json:"oldStatus"`
	NewStatus domain.ReportStatus `json:"newStatus"`
	Notes     *string             `json:"notes"`
	CreatedAt time.Time           `json:"createdAt"`
}

// NewReportResponse maps a report.
func NewReportResponse(report *domain.Report) ReportResponse {
	return ReportResponse{
		ID:            report.ID,
		FileID:        report.FileID,
		Location:      report.Location,
		Potholes:      report.Potholes,
		Cracks:        report.Cracks,
		SeverityScore: report.SeverityScore,
		Status:        report.Status,
		AdminNotes:    report.AdminNotes,
		OwnerID:       report.OwnerID,
		OwnerName:     report.OwnerName,
		CreatedAt:     report.CreatedAt,
		UpdatedAt:     report.UpdatedAt,
	}
}

// NewStatusChangeResponse maps a history entry.
func NewStatusChangeResponse(change domain.ReportStatusChange) StatusChangeResponse {
	return StatusChangeResponse{
		ID:        change.ID,
		ReportID:  change.ReportID,
		ChangedBy: change.ChangedBy,
		OldStatus: change.OldStatus,
		NewStatus: change.NewStatus,
		Notes:     change.Notes,
		CreatedAt: change.CreatedAt,
	}
}

// NewDetectionsPayload maps domain detections.
func NewDetectionsPayload(d domain.Detections) DetectionsPayload {
	return DetectionsPayload{
		Potholes:          d.Potholes,
		Cracks:            d.Cracks,
		SeverityScore:     d.SeverityScore,
		ProcessedImageURL: d.ProcessedImageURL,
	}
}

// Domain converts validated input to domain detections.
func (in DetectionsInput) Domain() domain.Detections {
	d := domain.Detections{ProcessedImageURL: in.ProcessedImageURL}
	if in.Potholes != nil {
		d.Potholes = *in.Potholes
	}
	if in.Cracks != nil {
		d.Cracks = *in.Cracks
	}
	if in.SeverityScore != nil {
		d.SeverityScore = *in.SeverityScore
	}
	return d
}
