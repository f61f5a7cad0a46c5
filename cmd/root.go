package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/joescharf/boardline/internal/output"
)

// Package-level shared dependencies, initialized in cobra.OnInitialize.
var (
	ui *output.UI

	verbose    bool
	boardsFlag []string
)

var rootCmd = &cobra.Command{
	Use:   "boardline",
	Short: "Board reporting - fetch Jira board issues, summarize, and chart",
	Long: `boardline pulls the non-closed issues from one or more Jira agile
boards, prints summary statistics (per project, per type, overdue, per fix
version), and renders a per-issue timeline chart.

Running bare 'boardline' performs the whole pipeline: fetch, report, chart.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return pipelineRun(cmd)
	},
}

// Execute is the main entry point called from main.go.
func Execute(version, commit, date string) {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initDeps)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.config/boardline/config.yaml)")
	rootCmd.PersistentFlags().StringSliceVar(&boardsFlag, "board", nil, "Board ID to fetch (repeatable; overrides configured boards)")
}

func initConfig() {
	// Local .env is picked up before the environment is consulted.
	_ = godotenv.Load()

	// If --config is explicitly set, use that file
	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot find home directory: %v\n", err)
			os.Exit(1)
		}

		configDir := filepath.Join(home, ".config", "boardline")
		viper.AddConfigPath(configDir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("BOARDLINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Defaults via viper.SetDefault()
	viper.SetDefault("jira.base_url", "")
	viper.SetDefault("jira.token", "")
	viper.SetDefault("jira.page_size", 50)
	viper.SetDefault("jira.timeout", "30s")
	viper.SetDefault("jira.rate_limit", 4.0)
	viper.SetDefault("boards", []string{})
	viper.SetDefault("chart.output", "timeline.png")
	viper.SetDefault("chart.open", false)
	viper.SetDefault("export.dir", "reports")

	// Read config file if it exists (optional)
	_ = viper.ReadInConfig()
}

func initDeps() {
	ui = output.New()
	ui.Verbose = verbose
}

// pipelineRun handles `boardline` with no subcommand: fetch every configured
// board, print the report, and render the chart.
func pipelineRun(cmd *cobra.Command) error {
	table, err := fetchCombined(cmd)
	if err != nil {
		return err
	}

	printReport(table)

	return renderChart(table, viper.GetString("chart.output"), viper.GetBool("chart.open"))
}
