package report

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joescharf/boardline/internal/jira"
	"github.com/joescharf/boardline/internal/models"
	"github.com/joescharf/boardline/internal/output"
)

// stubFetcher returns canned issues (or errors) per board ID.
type stubFetcher struct {
	issues map[string][]jira.Issue
	errs   map[string]error
	calls  []string
}

func (s *stubFetcher) BoardIssues(_ context.Context, boardID string) ([]jira.Issue, error) {
	s.calls = append(s.calls, boardID)
	if err := s.errs[boardID]; err != nil {
		return nil, err
	}
	return s.issues[boardID], nil
}

func testUI() (*output.UI, *bytes.Buffer, *bytes.Buffer) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &output.UI{Out: out, ErrOut: errOut}, out, errOut
}

func rawIssue(key, project, issueType string) jira.Issue {
	return jira.Issue{
		Key: key,
		Fields: jira.Fields{
			Project:   jira.Project{Key: project},
			IssueType: jira.IssueType{Name: issueType},
			Summary:   "summary of " + key,
			Created:   "2024-01-01T09:00:00.000+0000",
			Updated:   "2024-01-02T09:00:00.000+0000",
		},
	}
}

func TestCombine_ConcatenatesBoardsInOrder(t *testing.T) {
	fetcher := &stubFetcher{
		issues: map[string][]jira.Issue{
			"1": {rawIssue("A-1", "A", "Story"), rawIssue("A-2", "A", "Bug")},
			"2": {rawIssue("B-1", "B", "Task")},
		},
	}
	ui, _, _ := testUI()

	agg := NewAggregator(fetcher, []string{"1", "2"}, ui)
	table, err := agg.Combine(context.Background())
	require.NoError(t, err)

	require.Len(t, table, 3)
	assert.Equal(t, []string{"1", "2"}, fetcher.calls, "boards are fetched strictly in order")
	assert.Equal(t, "A", table[0].ProjectKey)
	assert.Equal(t, "B", table[2].ProjectKey)
}

func TestCombine_FailedBoardIsSkipped(t *testing.T) {
	fetcher := &stubFetcher{
		issues: map[string][]jira.Issue{
			"2": {rawIssue("B-1", "B", "Task")},
		},
		errs: map[string]error{"1": errors.New("connection refused")},
	}
	ui, _, errOut := testUI()

	agg := NewAggregator(fetcher, []string{"1", "2"}, ui)
	table, err := agg.Combine(context.Background())
	require.NoError(t, err, "a board failure must not fail the run")

	assert.Len(t, table, 1)
	assert.Contains(t, errOut.String(), "Board 1")
	assert.Contains(t, errOut.String(), "connection refused")
}

func TestCombine_AllEmpty(t *testing.T) {
	fetcher := &stubFetcher{errs: map[string]error{"1": errors.New("boom")}}
	ui, _, _ := testUI()

	agg := NewAggregator(fetcher, []string{"1"}, ui)
	table, err := agg.Combine(context.Background())
	require.NoError(t, err)
	assert.Empty(t, table)
}

func TestCombine_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ui, _, _ := testUI()
	agg := NewAggregator(&stubFetcher{}, []string{"1"}, ui)
	_, err := agg.Combine(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCompute_Groupings(t *testing.T) {
	table := models.Table{
		{ProjectKey: "A", IssueType: "Story"},
		{ProjectKey: "A", IssueType: "Bug"},
		{ProjectKey: "B", IssueType: "Story"},
		{ProjectKey: "A", IssueType: "Story"},
	}

	stats := Compute(table, day(2024, time.June, 1))

	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, []Count{{"A", 3}, {"B", 1}}, stats.ByProject,
		"projects sorted descending by count")
	assert.Equal(t, []Count{{"Story", 3}, {"Bug", 1}}, stats.ByType)
	assert.Empty(t, stats.Overdue)
	assert.Empty(t, stats.ByFixVersion)
}

func TestCompute_TiesBrokenByKey(t *testing.T) {
	table := models.Table{
		{ProjectKey: "ZED", IssueType: "Story"},
		{ProjectKey: "ALPHA", IssueType: "Story"},
	}

	stats := Compute(table, day(2024, time.June, 1))
	assert.Equal(t, []Count{{"ALPHA", 1}, {"ZED", 1}}, stats.ByProject)
}

func TestCompute_Overdue(t *testing.T) {
	now := day(2024, time.June, 15)
	yesterday := day(2024, time.June, 14)
	tomorrow := day(2024, time.June, 16)

	table := models.Table{
		{ProjectKey: "A", Summary: "late", DueDate: &yesterday},
		{ProjectKey: "A", Summary: "on track", DueDate: &tomorrow},
		{ProjectKey: "A", Summary: "no deadline"},
	}

	stats := Compute(table, now)
	require.Len(t, stats.Overdue, 1)
	assert.Equal(t, "late", stats.Overdue[0].Summary)
}

func TestCompute_FixVersionsExploded(t *testing.T) {
	table := models.Table{
		{ProjectKey: "A", FixVersions: "v1, v2"},
		{ProjectKey: "A", FixVersions: "v1"},
		{ProjectKey: "A"}, // no versions — contributes to nothing
	}

	stats := Compute(table, day(2024, time.June, 1))
	assert.Equal(t, []Count{{"v1", 2}, {"v2", 1}}, stats.ByFixVersion)
}

func TestPrint_EmptyTable(t *testing.T) {
	ui, out, _ := testUI()

	assert.NotPanics(t, func() {
		Print(ui, nil, Compute(nil, time.Now()))
	})
	assert.Contains(t, out.String(), "nothing to report")
}

func TestPrint_FullReport(t *testing.T) {
	now := day(2024, time.June, 15)
	yesterday := day(2024, time.June, 14)

	table := models.Table{
		{ProjectKey: "PROJ", IssueType: "Story", Summary: "ship it", DueDate: &yesterday, FixVersions: "v1"},
		{ProjectKey: "OTHER", IssueType: "Bug", Summary: "fix it"},
	}

	ui, out, _ := testUI()
	Print(ui, table, Compute(table, now))

	result := out.String()
	assert.Contains(t, result, "PROJ")
	assert.Contains(t, result, "OTHER")
	assert.Contains(t, result, "Overdue issues: 1")
	assert.Contains(t, result, "ship it")
	assert.Contains(t, result, "v1")
}
