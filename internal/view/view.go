// Package view holds immutable list view-state and the pure filters that
// apply it to fetched records.
package view

import (
	"strings"

	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/domain"
)

// ReportView is the search/status state of a report list.
type ReportView struct {
	Search string
	Status *domain.ReportStatus
}

// WithSearch returns a copy with the search term replaced.
func (v ReportView) WithSearch(search string) ReportView {
	v.Search = search
	return v
}

// WithStatus returns a copy with the status predicate replaced; nil clears it.
func (v ReportView) WithStatus(status *domain.ReportStatus) ReportView {
	if status != nil {
		s := *status
		status = &s
	}
	v.Status = status
	return v
}

// Matches reports whether report passes the view: owner name or location
// contains the search term case-insensitively, and the status matches.
func (v ReportView) Matches(report domain.Report) bool {
	if v.Status != nil && report.Status != *v.Status {
		return false
	}
	term := normalize(v.Search)
	if term == "" {
		return true
	}
	return contains(report.OwnerName, term) || contains(report.Location, term)
}

// Apply returns the reports matching the view, preserving order.
func (v ReportView) Apply(reports []domain.Report) []domain.Report {
	result := make([]domain.Report, 0, len(reports))
	for _, report := range reports {
		if v.Matches(report) {
			result = append(result, report)
		}
	}
	return result
}

// UserView is the search/role state of a user list.
type UserView struct {
	Search string
	Role   domain.RoleFilter
}

// Matches reports whether user passes the role filter and the name or email
// search.
func (v UserView) Matches(user domain.UserProfile) bool {
	if !v.Role.Matches(user.IsAdmin) {
		return false
	}
	term := normalize(v.Search)
	if term == "" {
		return true
	}
	return contains(user.FullName, term) || contains(user.Email, term)
}

// Apply returns the users matching the view, preserving order.
func (v UserView) Apply(users []domain.UserProfile) []domain.UserProfile {
	result := make([]domain.UserProfile, 0, len(users))
	for _, user := range users {
		if v.Matches(user) {
			result = append(result, user)
		}
	}
	return result
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func contains(field, term string) bool {
	return strings.Contains(strings.ToLower(field), term)
}
