// Package transform flattens raw Jira issues into report rows.
package transform

import (
	"fmt"
	"strings"
	"time"

	"github.com/joescharf/boardline/internal/jira"
	"github.com/joescharf/boardline/internal/models"
)

const (
	// Jira timestamps carry time-of-day and zone; due dates are bare days.
	timestampLayout = "2006-01-02T15:04:05.000-0700"
	dueDateLayout   = "2006-01-02"
)

// Flatten converts raw issues to rows, in input order. It is a pure
// function: same input, same output, no I/O.
//
// Optional fields default (nil due date, empty fix versions); a missing or
// unparseable required field is an error that aborts the whole run —
// malformed records are not silently dropped.
func Flatten(issues []jira.Issue) (models.Table, error) {
	table := make(models.Table, 0, len(issues))

	for _, issue := range issues {
		row, err := flattenOne(issue)
		if err != nil {
			return nil, fmt.Errorf("issue %s: %w", issue.Key, err)
		}
		table = append(table, row)
	}

	return table, nil
}

func flattenOne(issue jira.Issue) (models.Row, error) {
	f := issue.Fields

	if f.Project.Key == "" {
		return models.Row{}, fmt.Errorf("missing project key")
	}
	if f.IssueType.Name == "" {
		return models.Row{}, fmt.Errorf("missing issue type")
	}

	created, err := parseDay(f.Created, timestampLayout)
	if err != nil {
		return models.Row{}, fmt.Errorf("created date: %w", err)
	}

	// Updated is optional in practice; a zero value falls back at chart time.
	var updated time.Time
	if f.Updated != "" {
		updated, err = parseDay(f.Updated, timestampLayout)
		if err != nil {
			return models.Row{}, fmt.Errorf("updated date: %w", err)
		}
	}

	var due *time.Time
	if f.DueDate != "" {
		d, err := parseDay(f.DueDate, dueDateLayout)
		if err != nil {
			return models.Row{}, fmt.Errorf("due date: %w", err)
		}
		due = &d
	}

	return models.Row{
		ProjectKey:  f.Project.Key,
		IssueType:   f.IssueType.Name,
		Summary:     f.Summary,
		Created:     created,
		Updated:     updated,
		DueDate:     due,
		FixVersions: joinVersions(f.FixVersions),
	}, nil
}

// parseDay parses a Jira date string and truncates it to calendar-day
// granularity in UTC.
func parseDay(s, layout string) (time.Time, error) {
	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

func joinVersions(versions []jira.FixVersion) string {
	if len(versions) == 0 {
		return ""
	}
	names := make([]string, len(versions))
	for i, v := range versions {
		names[i] = v.Name
	}
	return strings.Join(names, ", ")
}
