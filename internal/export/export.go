// Package export writes the combined issue table to report files.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/oklog/ulid/v2"
	"github.com/xuri/excelize/v2"

	"github.com/joescharf/boardline/internal/models"
)

var columns = []string{"Project", "Type", "Summary", "Created", "Updated", "Due", "Fix Versions"}

// Exporter writes report files into a directory. Each run gets a ULID-based
// filename so successive runs sort chronologically and never collide.
type Exporter struct {
	Dir string

	// newRunID is replaceable in tests for deterministic filenames.
	newRunID func() string
}

// New creates an Exporter targeting dir.
func New(dir string) *Exporter {
	return &Exporter{
		Dir:      dir,
		newRunID: func() string { return ulid.Make().String() },
	}
}

func (e *Exporter) path(ext string) (string, error) {
	if err := os.MkdirAll(e.Dir, 0755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}
	return filepath.Join(e.Dir, fmt.Sprintf("boardline_%s.%s", strings.ToLower(e.newRunID()), ext)), nil
}

// JSON writes the table as indented JSON and returns the file path.
func (e *Exporter) JSON(table models.Table) (string, error) {
	path, err := e.path("json")
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(table, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write JSON export: %w", err)
	}
	return path, nil
}

// CSV writes the table as a headered CSV file and returns the file path.
func (e *Exporter) CSV(table models.Table) (string, error) {
	path, err := e.path("csv")
	if err != nil {
		return "", err
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create CSV export: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		return "", err
	}
	for _, row := range table {
		if err := w.Write(record(row)); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return path, nil
}

// Excel writes the table as a styled xlsx workbook and returns the file path.
func (e *Exporter) Excel(table models.Table) (string, error) {
	path, err := e.path("xlsx")
	if err != nil {
		return "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Issues"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return "", err
	}
	f.SetActiveSheet(index)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	for col, name := range columns {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return "", err
		}
		_ = f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for i, row := range table {
		for col, value := range record(row) {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return "", err
			}
		}
	}

	_ = f.SetColWidth(sheet, "A", "B", 12)
	_ = f.SetColWidth(sheet, "C", "C", 48)
	_ = f.SetColWidth(sheet, "D", "G", 14)

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return "", err
	}
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save excel export: %w", err)
	}
	return path, nil
}

// record flattens a row to the column order used by CSV and Excel exports.
func record(row models.Row) []string {
	due := ""
	if row.DueDate != nil {
		due = row.DueDate.Format("2006-01-02")
	}
	updated := ""
	if !row.Updated.IsZero() {
		updated = row.Updated.Format("2006-01-02")
	}
	return []string{
		row.ProjectKey,
		row.IssueType,
		row.Summary,
		row.Created.Format("2006-01-02"),
		updated,
		due,
		row.FixVersions,
	}
}
