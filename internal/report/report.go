// Package report combines per-board fetches into one table and computes
// the summary statistics printed by the CLI.
package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/joescharf/boardline/internal/jira"
	"github.com/joescharf/boardline/internal/models"
	"github.com/joescharf/boardline/internal/output"
	"github.com/joescharf/boardline/internal/transform"
)

// BoardFetcher fetches the raw issues for one board.
type BoardFetcher interface {
	BoardIssues(ctx context.Context, boardID string) ([]jira.Issue, error)
}

// Aggregator fetches boards sequentially and flattens the results into a
// single table. A failed board is logged and contributes zero issues; the
// run continues with the remaining boards.
type Aggregator struct {
	fetcher BoardFetcher
	boards  []string
	ui      *output.UI
}

// NewAggregator creates an Aggregator over the given boards.
func NewAggregator(fetcher BoardFetcher, boards []string, ui *output.UI) *Aggregator {
	return &Aggregator{fetcher: fetcher, boards: boards, ui: ui}
}

// Combine fetches every board, concatenates the raw issues in board order,
// and flattens them once. An empty result is not an error.
func (a *Aggregator) Combine(ctx context.Context) (models.Table, error) {
	var raw []jira.Issue

	for _, board := range a.boards {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		issues, err := a.fetcher.BoardIssues(ctx, board)
		if err != nil {
			a.ui.Warning("Board %s: fetch failed, continuing without it: %v", board, err)
			continue
		}

		a.ui.VerboseLog("Board %s: fetched %d issues", board, len(issues))
		raw = append(raw, issues...)
	}

	if len(raw) == 0 {
		return nil, nil
	}

	return transform.Flatten(raw)
}

// Count is one entry of a grouped statistic.
type Count struct {
	Key string
	N   int
}

// Stats holds the four statistics the report prints.
type Stats struct {
	Total        int
	ByProject    []Count
	ByType       []Count
	Overdue      models.Table
	ByFixVersion []Count
}

// Compute derives the report statistics from a table. Overdue is evaluated
// against the supplied reference time, strictly: a due date equal to now is
// not overdue.
func Compute(table models.Table, now time.Time) Stats {
	byProject := make(map[string]int)
	byType := make(map[string]int)
	byVersion := make(map[string]int)
	var overdue models.Table

	for _, row := range table {
		byProject[row.ProjectKey]++
		byType[row.IssueType]++
		for _, v := range row.VersionList() {
			byVersion[v]++
		}
		if row.Overdue(now) {
			overdue = append(overdue, row)
		}
	}

	return Stats{
		Total:        len(table),
		ByProject:    sortedCounts(byProject),
		ByType:       sortedCounts(byType),
		Overdue:      overdue,
		ByFixVersion: sortedCounts(byVersion),
	}
}

// sortedCounts orders a grouping descending by count, ties broken by key so
// the output is stable between runs.
func sortedCounts(m map[string]int) []Count {
	counts := make([]Count, 0, len(m))
	for k, n := range m {
		counts = append(counts, Count{Key: k, N: n})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].N != counts[j].N {
			return counts[i].N > counts[j].N
		}
		return counts[i].Key < counts[j].Key
	})
	return counts
}

// Print writes the report to the UI. An empty table prints a notice and
// nothing else.
func Print(ui *output.UI, table models.Table, stats Stats) {
	if len(table) == 0 {
		ui.Info("No issues fetched from any board — nothing to report.")
		return
	}

	ui.Info("%d issues across %d projects", stats.Total, len(stats.ByProject))
	fmt.Fprintln(ui.Out)

	fmt.Fprintln(ui.Out, "Issues by project:")
	projectTable := ui.Table([]string{"Project", "Issues"})
	for _, c := range stats.ByProject {
		_ = projectTable.Append([]string{output.Cyan(c.Key), fmt.Sprintf("%d", c.N)})
	}
	_ = projectTable.Render()
	fmt.Fprintln(ui.Out)

	fmt.Fprintln(ui.Out, "Issues by type:")
	typeTable := ui.Table([]string{"Type", "Issues"})
	for _, c := range stats.ByType {
		_ = typeTable.Append([]string{output.TypeColor(c.Key), fmt.Sprintf("%d", c.N)})
	}
	_ = typeTable.Render()
	fmt.Fprintln(ui.Out)

	if len(stats.Overdue) == 0 {
		fmt.Fprintln(ui.Out, "Overdue issues: none")
	} else {
		fmt.Fprintf(ui.Out, "Overdue issues: %d\n", len(stats.Overdue))
		overdueTable := ui.Table([]string{"Project", "Summary", "Due"})
		for _, row := range stats.Overdue {
			_ = overdueTable.Append([]string{
				output.Cyan(row.ProjectKey),
				row.Summary,
				output.Red(row.DueDate.Format("2006-01-02")),
			})
		}
		_ = overdueTable.Render()
	}
	fmt.Fprintln(ui.Out)

	if len(stats.ByFixVersion) == 0 {
		fmt.Fprintln(ui.Out, "Fix versions: none assigned")
		return
	}
	fmt.Fprintln(ui.Out, "Issues by fix version:")
	versionTable := ui.Table([]string{"Version", "Issues"})
	for _, c := range stats.ByFixVersion {
		_ = versionTable.Append([]string{c.Key, fmt.Sprintf("%d", c.N)})
	}
	_ = versionTable.Render()
}
