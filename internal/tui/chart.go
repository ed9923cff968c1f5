package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

const (
	cellEmpty = -1 // Outside the ring
	cellBlank = -2 // Ring with no votes yet

	innerRadius = 0.5 // Hole size as a fraction of the outer radius
)

// donutGrid maps each terminal cell to the index of the slice covering it.
// Slices start at twelve o'clock and run clockwise in option order.
func donutGrid(values []float64, cols, rows int) [][]int {
	total := 0.0
	for _, v := range values {
		if v > 0 {
			total += v
		}
	}

	cx, cy := float64(cols-1)/2, float64(rows-1)/2
	rx, ry := float64(cols)/2, float64(rows)/2

	grid := make([][]int, rows)
	for y := range grid {
		grid[y] = make([]int, cols)
		for x := range grid[y] {
			dx, dy := (float64(x)-cx)/rx, (float64(y)-cy)/ry
			r := math.Hypot(dx, dy)
			if r > 1 || r < innerRadius {
				grid[y][x] = cellEmpty
				continue
			}
			if total == 0 {
				grid[y][x] = cellBlank
				continue
			}

			angle := math.Atan2(dx, -dy)
			if angle < 0 {
				angle += 2 * math.Pi
			}
			grid[y][x] = sliceAt(values, total, angle/(2*math.Pi))
		}
	}
	return grid
}

// sliceAt returns the slice index at fraction f of the full turn.
func sliceAt(values []float64, total, f float64) int {
	acc := 0.0
	last := 0
	for i, v := range values {
		if v <= 0 {
			continue
		}
		acc += v / total
		last = i
		if f < acc {
			return i
		}
	}
	return last
}

// renderDonut draws the donut with each slice in its option color.
func renderDonut(values []float64, colors []string, cols, rows int) string {
	grid := donutGrid(values, cols, rows)
	lines := make([]string, rows)
	for y, row := range grid {
		var sb strings.Builder
		// Style runs of equal cells together to keep escape codes short.
		for x := 0; x < len(row); {
			end := x
			for end < len(row) && row[end] == row[x] {
				end++
			}
			sb.WriteString(renderRun(row[x], end-x, colors))
			x = end
		}
		lines[y] = sb.String()
	}
	return strings.Join(lines, "\n")
}

func renderRun(cell, n int, colors []string) string {
	switch {
	case cell == cellEmpty:
		return strings.Repeat(" ", n)
	case cell == cellBlank:
		return EmptySliceStyle.Render(strings.Repeat("░", n))
	case cell < len(colors):
		return sliceStyle(colors[cell]).Render(strings.Repeat("█", n))
	default:
		return strings.Repeat("█", n)
	}
}

// barRow is one line of the bar chart.
type barRow struct {
	Label   string
	Color   string
	Value   float64
	Percent int
	Leader  bool
}

// renderBars draws one horizontal bar per option, scaled to the share.
func renderBars(rows []barRow, width int) string {
	labelWidth := 0
	for _, r := range rows {
		labelWidth = max(labelWidth, runewidth.StringWidth(r.Label))
	}
	barWidth := max(width-labelWidth-16, 10)

	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		filled := int(math.Round(float64(r.Percent) / 100 * float64(barWidth)))
		filled = min(max(filled, 0), barWidth)

		label := runewidth.FillRight(r.Label, labelWidth)
		labelStyle := LabelStyle
		if r.Leader {
			labelStyle = LeaderStyle
		}

		bar := sliceStyle(r.Color).Render(strings.Repeat("█", filled)) +
			EmptySliceStyle.Render(strings.Repeat("░", barWidth-filled))
		stats := CountStyle.Render(fmt.Sprintf("%7.0f %3d%%", r.Value, r.Percent))

		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), " ", bar, " ", stats))
	}
	return strings.Join(lines, "\n\n")
}
