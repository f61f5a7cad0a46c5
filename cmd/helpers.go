package cmd

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/joescharf/boardline/internal/chart"
	"github.com/joescharf/boardline/internal/jira"
	"github.com/joescharf/boardline/internal/models"
	"github.com/joescharf/boardline/internal/report"
)

// newJiraClient builds a client from the effective configuration.
func newJiraClient() (*jira.Client, error) {
	baseURL := viper.GetString("jira.base_url")
	token := viper.GetString("jira.token")
	if baseURL == "" || token == "" {
		return nil, fmt.Errorf("jira.base_url and jira.token must be configured (run 'boardline config init')")
	}

	return jira.NewClient(jira.Config{
		BaseURL:   baseURL,
		Token:     token,
		PageSize:  viper.GetInt("jira.page_size"),
		Timeout:   viper.GetDuration("jira.timeout"),
		RateLimit: viper.GetFloat64("jira.rate_limit"),
	}), nil
}

// cmdContext returns the command's context. Cobra only sets one during
// Execute, so a command invoked any other way reports nil.
func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// boardIDs resolves the boards to fetch: the --board flag when given,
// otherwise the configured list.
func boardIDs() ([]string, error) {
	if len(boardsFlag) > 0 {
		return boardsFlag, nil
	}
	boards := viper.GetStringSlice("boards")
	if len(boards) == 0 {
		return nil, fmt.Errorf("no boards configured (set 'boards' in config or pass --board)")
	}
	return boards, nil
}

// fetchCombined runs the fetch+flatten stage shared by every data command.
func fetchCombined(cmd *cobra.Command) (models.Table, error) {
	client, err := newJiraClient()
	if err != nil {
		return nil, err
	}
	boards, err := boardIDs()
	if err != nil {
		return nil, err
	}

	bar := newSpinner("Fetching boards")
	agg := report.NewAggregator(client, boards, ui)
	table, err := agg.Combine(cmdContext(cmd))
	finishBar(bar)
	if err != nil {
		return nil, err
	}

	ui.VerboseLog("Combined %d issues from %d boards", len(table), len(boards))
	return table, nil
}

// printReport computes and prints the statistics for the combined table,
// with overdue evaluated against the current time.
func printReport(table models.Table) {
	report.Print(ui, table, report.Compute(table, time.Now()))
}

// renderChart draws the timeline and optionally opens it in the OS viewer.
func renderChart(table models.Table, outPath string, open bool) error {
	if len(table) == 0 {
		ui.Info("No issues fetched from any board — skipping chart.")
		return nil
	}

	segments, err := chart.Timeline(table, outPath)
	if err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	if segments == 0 {
		ui.Info("No Epic/Story/Task issues to chart.")
		return nil
	}

	ui.Success("Chart written: %s (%d issues)", outPath, segments)

	if open {
		if err := openFile(outPath); err != nil {
			ui.Warning("Could not open chart: %v", err)
		}
	}
	return nil
}

// openFile asks the OS to display a file.
func openFile(path string) error {
	var c *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		c = exec.Command("open", path)
	case "windows":
		c = exec.Command("cmd", "/c", "start", "", path)
	default:
		c = exec.Command("xdg-open", path)
	}
	return c.Start()
}

func newSpinner(description string) *progressbar.ProgressBar {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWidth(15),
		progressbar.OptionThrottle(100*time.Millisecond),
	)
	_ = bar.RenderBlank()
	return bar
}

func finishBar(bar *progressbar.ProgressBar) {
	if bar != nil {
		_ = bar.Finish()
	}
}
