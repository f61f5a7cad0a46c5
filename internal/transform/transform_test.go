package transform

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joescharf/boardline/internal/jira"
)

func sampleIssue() jira.Issue {
	return jira.Issue{
		Key: "PROJ-1",
		Fields: jira.Fields{
			Project:   jira.Project{Key: "PROJ"},
			IssueType: jira.IssueType{Name: "Story"},
			Summary:   "Implement the widget",
			Created:   "2024-01-05T14:30:00.000+0200",
			Updated:   "2024-01-10T09:00:00.000+0200",
			DueDate:   "2024-01-15",
			FixVersions: []jira.FixVersion{
				{Name: "v1.0"},
				{Name: "v1.1"},
			},
		},
	}
}

func TestFlatten_FullIssue(t *testing.T) {
	table, err := Flatten([]jira.Issue{sampleIssue()})
	require.NoError(t, err)
	require.Len(t, table, 1)

	row := table[0]
	assert.Equal(t, "PROJ", row.ProjectKey)
	assert.Equal(t, "Story", row.IssueType)
	assert.Equal(t, "Implement the widget", row.Summary)
	assert.Equal(t, time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC), row.Created,
		"created should be truncated to the calendar day")
	assert.Equal(t, time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC), row.Updated)
	require.NotNil(t, row.DueDate)
	assert.Equal(t, time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), *row.DueDate)
	assert.Equal(t, "v1.0, v1.1", row.FixVersions)
}

func TestFlatten_Pure(t *testing.T) {
	in := []jira.Issue{sampleIssue()}
	a, err := Flatten(in)
	require.NoError(t, err)
	b, err := Flatten(in)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestFlatten_OptionalFieldsDefault(t *testing.T) {
	issue := sampleIssue()
	issue.Fields.DueDate = ""
	issue.Fields.FixVersions = nil

	table, err := Flatten([]jira.Issue{issue})
	require.NoError(t, err)

	row := table[0]
	assert.Nil(t, row.DueDate, "absent duedate should yield a nil due date")
	assert.Empty(t, row.FixVersions, "empty fixVersions should yield an empty field, not a joined string")
}

func TestFlatten_MissingRequiredFieldFails(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*jira.Issue)
	}{
		{"no project key", func(i *jira.Issue) { i.Fields.Project.Key = "" }},
		{"no issue type", func(i *jira.Issue) { i.Fields.IssueType.Name = "" }},
		{"bad created date", func(i *jira.Issue) { i.Fields.Created = "not-a-date" }},
		{"bad due date", func(i *jira.Issue) { i.Fields.DueDate = "15/01/2024" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issue := sampleIssue()
			tt.mutate(&issue)

			_, err := Flatten([]jira.Issue{issue})
			assert.Error(t, err)
			assert.Contains(t, err.Error(), "PROJ-1")
		})
	}
}

func TestFlatten_PreservesOrder(t *testing.T) {
	first := sampleIssue()
	second := sampleIssue()
	second.Key = "OTHER-9"
	second.Fields.Project.Key = "OTHER"

	table, err := Flatten([]jira.Issue{first, second})
	require.NoError(t, err)
	require.Len(t, table, 2)
	assert.Equal(t, "PROJ", table[0].ProjectKey)
	assert.Equal(t, "OTHER", table[1].ProjectKey)
}

func TestFlatten_Empty(t *testing.T) {
	table, err := Flatten(nil)
	require.NoError(t, err)
	assert.Empty(t, table)
}
