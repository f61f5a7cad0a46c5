package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	chartOutput string
	chartOpen   bool
)

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Fetch boards and render the timeline chart",
	Long: `Fetch all configured boards and render the per-issue timeline as a
PNG image. Only Epic, Story, and Task issues are charted; other types stay
in the report statistics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return chartRun(cmd)
	},
}

func init() {
	chartCmd.Flags().StringVarP(&chartOutput, "output", "o", "", "Output image path (default from chart.output config)")
	chartCmd.Flags().BoolVar(&chartOpen, "open", false, "Open the chart in the OS image viewer after writing")
	rootCmd.AddCommand(chartCmd)
}

func chartRun(cmd *cobra.Command) error {
	table, err := fetchCombined(cmd)
	if err != nil {
		return err
	}

	out := chartOutput
	if out == "" {
		out = viper.GetString("chart.output")
	}
	open := chartOpen || viper.GetBool("chart.open")

	return renderChart(table, out, open)
}
