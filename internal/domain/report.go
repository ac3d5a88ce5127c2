package domain

import "time"

// ReportStatus enumerates lifecycle states for road reports.
type ReportStatus string

const (
	ReportStatusPending     ReportStatus = "pending"
	ReportStatusUnderReview ReportStatus = "under_review"
	ReportStatusRepaired    ReportStatus = "repaired"
)

// ReportStatuses lists every valid status.
var ReportStatuses = []ReportStatus{
	ReportStatusPending,
	ReportStatusUnderReview,
	ReportStatusRepaired,
}

// Valid reports whether s belongs to the status enumeration.
func (s ReportStatus) Valid() bool {
	for _, candidate := range ReportStatuses {
		if s == candidate {
			return true
		}
	}
	return false
}

// Severity bounds for a report.
const (
	MinSeverityScore = 0.0
	MaxSeverityScore = 10.0
)

// Detections is the anomaly summary attached to a report.
type Detections struct {
	Potholes          int
	Cracks            int
	SeverityScore     float64
	ProcessedImageURL string
}

// TotalAnomalies returns the number of detected anomalies of all classes.
func (d Detections) TotalAnomalies() int {
	return d.Potholes + d.Cracks
}

// Report is a single submitted road-anomaly record.
type Report struct {
	ID            string
	FileID        string
	Location      string
	Potholes      int
	Cracks        int
	SeverityScore float64
	Status        ReportStatus
	AdminNotes    *string
	OwnerID       string
	OwnerName     string
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}
