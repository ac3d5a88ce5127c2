package domain

import "time"

// ReportStatusChange is an immutable audit entry appended on every status update.
type ReportStatusChange struct {
	ID        string
	ReportID  string
	ChangedBy string
	OldStatus ReportStatus
	NewStatus ReportStatus
	Notes     *string
	CreatedAt time.Time
}
