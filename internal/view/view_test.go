package view

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/domain"
)

func statusPtr(s domain.ReportStatus) *domain.ReportStatus { return &s }

func TestReportViewApply(t *testing.T) {
	reports := []domain.Report{
		{ID: "1", OwnerName: "Asha Rao", Location: "MG Road", Status: domain.ReportStatusPending},
		{ID: "2", OwnerName: "Ben", Location: "Ring road junction", Status: domain.ReportStatusRepaired},
		{ID: "3", OwnerName: "Chen", Location: "Airport", Status: domain.ReportStatusPending},
	}

	cases := []struct {
		name string
		view ReportView
		want []string
	}{
		{"empty view keeps all", ReportView{}, []string{"1", "2", "3"}},
		{"search matches location case-insensitively", ReportView{Search: "ROAD"}, []string{"1", "2"}},
		{"search matches owner name", ReportView{Search: "chen"}, []string{"3"}},
		{"status narrows", ReportView{Status: statusPtr(domain.ReportStatusPending)}, []string{"1", "3"}},
		{"search and status are and-ed", ReportView{Search: "road", Status: statusPtr(domain.ReportStatusRepaired)}, []string{"2"}},
		{"whitespace search is ignored", ReportView{Search: "   "}, []string{"1", "2", "3"}},
		{"no match", ReportView{Search: "zzz"}, []string{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := []string{}
			for _, r := range tc.view.Apply(reports) {
				got = append(got, r.ID)
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestReportViewIsImmutable(t *testing.T) {
	base := ReportView{Search: "a"}
	status := domain.ReportStatusPending
	next := base.WithSearch("b").WithStatus(&status)
	status = domain.ReportStatusRepaired

	assert.Equal(t, "a", base.Search)
	assert.Nil(t, base.Status)
	assert.Equal(t, "b", next.Search)
	assert.Equal(t, domain.ReportStatusPending, *next.Status)
}

func TestUserViewApply(t *testing.T) {
	users := []domain.UserProfile{
		{ID: "a", FullName: "Admin One", Email: "root@example.com", IsAdmin: true},
		{ID: "b", FullName: "Regular", Email: "reg@EXAMPLE.com"},
	}

	got := UserView{Role: domain.RoleFilterAdmin}.Apply(users)
	assert.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)

	got = UserView{Role: domain.RoleFilterAll, Search: "example.com"}.Apply(users)
	assert.Len(t, got, 2)

	got = UserView{Role: domain.RoleFilterUser, Search: "admin"}.Apply(users)
	assert.Empty(t, got)
}
