package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joescharf/boardline/internal/models"
)

var reportFormat string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Fetch boards and print the issue report",
	Long: `Fetch all configured boards and print summary statistics.

With --format json, csv, or markdown, the combined issue table itself is
written to stdout instead of the statistics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return reportRun(cmd)
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportFormat, "format", "table", "Output format: table, json, csv, markdown")
	rootCmd.AddCommand(reportCmd)
}

func reportRun(cmd *cobra.Command) error {
	table, err := fetchCombined(cmd)
	if err != nil {
		return err
	}

	switch reportFormat {
	case "table":
		printReport(table)
		return nil
	case "json":
		enc := json.NewEncoder(ui.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(table)
	case "csv":
		w := csv.NewWriter(ui.Out)
		_ = w.Write([]string{"Project", "Type", "Summary", "Created", "Due", "Fix Versions"})
		for _, row := range table {
			_ = w.Write([]string{row.ProjectKey, row.IssueType, row.Summary,
				row.Created.Format("2006-01-02"), formatDue(row), row.FixVersions})
		}
		w.Flush()
		return w.Error()
	case "markdown":
		fmt.Fprintln(ui.Out, "# Issues")
		fmt.Fprintln(ui.Out)
		fmt.Fprintln(ui.Out, "| Project | Type | Summary | Created | Due |")
		fmt.Fprintln(ui.Out, "|---------|------|---------|---------|-----|")
		for _, row := range table {
			fmt.Fprintf(ui.Out, "| %s | %s | %s | %s | %s |\n",
				row.ProjectKey, row.IssueType, row.Summary,
				row.Created.Format("2006-01-02"), formatDue(row))
		}
		return nil
	default:
		return fmt.Errorf("unknown format: %s (use: table, json, csv, markdown)", reportFormat)
	}
}

func formatDue(row models.Row) string {
	if row.DueDate == nil {
		return ""
	}
	return row.DueDate.Format("2006-01-02")
}
