package events

import (
	"time"

	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventReportSubmitted     EventType = "report_submitted"
	EventReportStatusChanged EventType = "report_status_changed"
	EventUserRoleChanged     EventType = "user_role_changed"
)

// RoutingKey returns the broker routing key for the event type.
func (t EventType) RoutingKey() string {
	switch t {
	case EventUserRoleChanged:
		return "user." + string(t)
	default:
		return "report." + string(t)
	}
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	SubjectID string    `json:"subject_id"`
	ActorID   string    `json:"actor_id"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// ReportSubmittedPayload payload.
type ReportSubmittedPayload struct {
	FileID        string  `json:"file_id"`
	Location      string  `json:"location"`
	Potholes      int     `json:"potholes"`
	Cracks        int     `json:"cracks"`
	SeverityScore float64 `json:"severity_score"`
}

// ReportStatusChangedPayload payload.
type ReportStatusChangedPayload struct {
	OwnerID   string              `json:"owner_id"`
	OldStatus domain.ReportStatus `json:"old_status"`
	NewStatus domain.ReportStatus `json:"new_status"`
	Notes     *string             `json:"notes,omitempty"`
}

// UserRoleChangedPayload payload.
type UserRoleChangedPayload struct {
	IsAdmin bool `json:"is_admin"`
}
