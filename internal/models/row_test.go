package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestEndDate_DueDateWins(t *testing.T) {
	due := date(2024, time.March, 15)
	r := Row{
		Created: date(2024, time.March, 1),
		Updated: date(2024, time.March, 10),
		DueDate: &due,
	}
	assert.Equal(t, due, r.EndDate())
}

func TestEndDate_FallsBackToUpdated(t *testing.T) {
	r := Row{
		Created: date(2024, time.March, 1),
		Updated: date(2024, time.March, 10),
	}
	assert.Equal(t, r.Updated, r.EndDate())
}

func TestEndDate_FallsBackToCreated(t *testing.T) {
	// No due date and no updated date degrades to a zero-length segment.
	r := Row{Created: date(2024, time.March, 1)}
	assert.Equal(t, r.Created, r.EndDate())
}

func TestOverdue(t *testing.T) {
	now := date(2024, time.June, 15)
	yesterday := date(2024, time.June, 14)
	today := now
	tomorrow := date(2024, time.June, 16)

	tests := []struct {
		name    string
		due     *time.Time
		overdue bool
	}{
		{"yesterday", &yesterday, true},
		{"exactly now", &today, false},
		{"tomorrow", &tomorrow, false},
		{"no due date", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Row{DueDate: tt.due}
			assert.Equal(t, tt.overdue, r.Overdue(now))
		})
	}
}

func TestVersionList(t *testing.T) {
	assert.Nil(t, Row{}.VersionList())
	assert.Equal(t, []string{"v1"}, Row{FixVersions: "v1"}.VersionList())
	assert.Equal(t, []string{"v1", "v2"}, Row{FixVersions: "v1, v2"}.VersionList())
}
