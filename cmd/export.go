package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/joescharf/boardline/internal/export"
)

var (
	exportFormat string
	exportDir    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Fetch boards and write the issue table to a report file",
	Long:  "Export the combined issue table as an Excel workbook, CSV, or JSON file.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return exportRun(cmd)
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "xlsx", "Export format: xlsx, csv, json")
	exportCmd.Flags().StringVar(&exportDir, "dir", "", "Output directory (default from export.dir config)")
	rootCmd.AddCommand(exportCmd)
}

func exportRun(cmd *cobra.Command) error {
	table, err := fetchCombined(cmd)
	if err != nil {
		return err
	}
	if len(table) == 0 {
		ui.Info("No issues fetched from any board — nothing to export.")
		return nil
	}

	dir := exportDir
	if dir == "" {
		dir = viper.GetString("export.dir")
	}
	e := export.New(dir)

	var path string
	switch exportFormat {
	case "xlsx":
		path, err = e.Excel(table)
	case "csv":
		path, err = e.CSV(table)
	case "json":
		path, err = e.JSON(table)
	default:
		return fmt.Errorf("unknown format: %s (use: xlsx, csv, json)", exportFormat)
	}
	if err != nil {
		return err
	}

	ui.Success("Export written: %s (%d issues)", path, len(table))
	return nil
}
