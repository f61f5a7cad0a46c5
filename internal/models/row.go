package models

import (
	"strings"
	"time"
)

// Row is one issue flattened to the shape the report and chart consume.
// Dates are truncated to calendar days; DueDate is nil when the issue has
// no due date, and FixVersions is "" when the issue targets no versions.
type Row struct {
	ProjectKey  string     `json:"project_key"`
	IssueType   string     `json:"issue_type"`
	Summary     string     `json:"summary"`
	Created     time.Time  `json:"created"`
	Updated     time.Time  `json:"updated"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	FixVersions string     `json:"fix_versions,omitempty"`
}

// Table is the combined set of rows across all fetched boards.
// Row order is the order issues were encountered; the chart stacks rows
// vertically in that order.
type Table []Row

// EndDate returns the date a row's timeline segment ends at: the due date
// when set, otherwise the last update. A row with neither falls back to
// Created, giving a zero-length segment rather than an unplottable point.
func (r Row) EndDate() time.Time {
	if r.DueDate != nil {
		return *r.DueDate
	}
	if !r.Updated.IsZero() {
		return r.Updated
	}
	return r.Created
}

// Overdue reports whether the row's due date is strictly before now.
// Rows without a due date are never overdue.
func (r Row) Overdue(now time.Time) bool {
	return r.DueDate != nil && r.DueDate.Before(now)
}

// VersionList splits the joined FixVersions field back into individual
// version names. Returns nil for rows with no fix versions.
func (r Row) VersionList() []string {
	if r.FixVersions == "" {
		return nil
	}
	parts := strings.Split(r.FixVersions, ",")
	versions := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			versions = append(versions, v)
		}
	}
	return versions
}
