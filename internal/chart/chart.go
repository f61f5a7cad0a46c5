// Package chart renders the combined issue table as a timeline image.
package chart

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/joescharf/boardline/internal/models"
)

// Only planning-level issue types are charted. Bugs, sub-tasks and the rest
// stay in the report statistics but would drown the timeline.
var allowedTypes = map[string]struct{}{
	"Epic":  {},
	"Story": {},
	"Task":  {},
}

// titleCaser normalizes issue type names so "story" and "STORY" match the
// allow-list.
var titleCaser = cases.Title(language.English)

const summaryMaxLen = 20

const rowHeight = 24 // vertical points per issue row

var typeColors = map[string]color.RGBA{
	"Epic":  {R: 0x8e, G: 0x44, B: 0xad, A: 0xff},
	"Story": {R: 0x27, G: 0xae, B: 0x60, A: 0xff},
	"Task":  {R: 0x29, G: 0x80, B: 0xb9, A: 0xff},
}

// Timeline draws one horizontal segment per charted row, from the created
// date to the row's end date, stacked in table order with the first row on
// top, and saves the result as a PNG at outPath.
//
// Returns the number of segments drawn. When the table is empty or no row
// survives the type filter, nothing is written and (0, nil) is returned;
// the caller decides how to announce the no-op.
func Timeline(table models.Table, outPath string) (int, error) {
	rows := chartable(table)
	if len(rows) == 0 {
		return 0, nil
	}

	p := plot.New()
	p.Title.Text = "Issue timeline"
	p.X.Tick.Marker = plot.TimeTicks{Format: "Jan 2006"}
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter

	ticks := make([]plot.Tick, len(rows))
	for i, row := range rows {
		y := yPos(i, len(rows))
		start := float64(row.Created.Unix())
		end := float64(row.EndDate().Unix())

		seg := plotter.XYs{{X: start, Y: y}, {X: end, Y: y}}
		line, err := plotter.NewLine(seg)
		if err != nil {
			return 0, fmt.Errorf("segment for %s: %w", row.Summary, err)
		}
		line.LineStyle.Width = vg.Points(3)
		line.LineStyle.Color = segmentColor(row.IssueType)
		p.Add(line)

		startMark, err := plotter.NewScatter(plotter.XYs{{X: start, Y: y}})
		if err != nil {
			return 0, err
		}
		startMark.GlyphStyle = draw.GlyphStyle{
			Shape:  draw.CircleGlyph{},
			Radius: vg.Points(3),
			Color:  segmentColor(row.IssueType),
		}
		p.Add(startMark)

		// A distinct marker flags a real deadline, as opposed to segments
		// that merely end at the last update.
		if row.DueDate != nil {
			dueMark, err := plotter.NewScatter(plotter.XYs{{X: end, Y: y}})
			if err != nil {
				return 0, err
			}
			dueMark.GlyphStyle = draw.GlyphStyle{
				Shape:  draw.PyramidGlyph{},
				Radius: vg.Points(4),
				Color:  color.RGBA{R: 0xc0, G: 0x39, B: 0x2b, A: 0xff},
			}
			p.Add(dueMark)
		}

		ticks[i] = plot.Tick{Value: y, Label: rowLabel(row)}
	}

	p.Y.Tick.Marker = plot.ConstantTicks(ticks)
	p.Y.Min = -0.5
	p.Y.Max = float64(len(rows)) - 0.5

	height := vg.Points(float64(rowHeight*len(rows) + 120))
	if err := p.Save(10*vg.Inch, height, outPath); err != nil {
		return 0, fmt.Errorf("save chart: %w", err)
	}

	return len(rows), nil
}

// chartable filters the table down to the allow-listed issue types,
// preserving order.
func chartable(table models.Table) models.Table {
	var rows models.Table
	for _, row := range table {
		name := titleCaser.String(strings.ToLower(row.IssueType))
		if _, ok := allowedTypes[name]; ok {
			rows = append(rows, row)
		}
	}
	return rows
}

// yPos stacks row i of n with the first row at the top of the chart.
func yPos(i, n int) float64 {
	return float64(n - 1 - i)
}

// rowLabel builds the Y axis label for a row: project key plus a truncated
// summary.
func rowLabel(row models.Row) string {
	summary := row.Summary
	if runes := []rune(summary); len(runes) > summaryMaxLen {
		summary = string(runes[:summaryMaxLen])
	}
	return fmt.Sprintf("%s: %s", row.ProjectKey, summary)
}

func segmentColor(issueType string) color.RGBA {
	name := titleCaser.String(strings.ToLower(issueType))
	if c, ok := typeColors[name]; ok {
		return c
	}
	return color.RGBA{R: 0x7f, G: 0x8c, B: 0x8d, A: 0xff}
}
