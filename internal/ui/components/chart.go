// Package components provides reusable UI components for the TUI.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/guptarohit/asciigraph"

	"github.com/j-veylop/revenue-dashboard-tui/internal/ui/styles"
)

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// IntsToFloats converts whole-unit amounts for the chart renderers.
func IntsToFloats(values []int) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}

// RenderLineChart creates a single-series ASCII line chart. Amounts never go
// below zero, so the y axis starts at 0.
func RenderLineChart(data []float64, width, height int, caption string) string {
	if len(data) == 0 {
		return styles.HelpStyle.Render("No data available")
	}

	if width < 20 {
		width = 20
	}
	if height < 3 {
		height = 3
	}

	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.LowerBound(0),
		asciigraph.Precision(0),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(asciigraph.Green),
	)
}

// RenderBarChart creates a horizontal bar chart. format renders the value
// printed after each bar; nil prints it with one decimal.
func RenderBarChart(values []float64, labels []string, width int, format func(float64) string) string {
	if len(values) == 0 {
		return ""
	}
	if format == nil {
		format = func(v float64) string { return fmt.Sprintf("%.1f", v) }
	}

	maxVal := 0.0
	for _, v := range values {
		maxVal = max(maxVal, v)
	}
	if maxVal == 0 {
		maxVal = 1
	}

	maxLabelLen := 0
	for _, l := range labels {
		maxLabelLen = max(maxLabelLen, ansi.StringWidth(l))
	}

	barWidth := max(width-maxLabelLen-14, 10)
	barStyle := lipgloss.NewStyle().Foreground(styles.Primary)

	lines := make([]string, 0, len(values))
	for i, v := range values {
		label := ""
		if i < len(labels) {
			label = labels[i]
		}
		pad := strings.Repeat(" ", maxLabelLen-ansi.StringWidth(label))

		barLen := max(int(v/maxVal*float64(barWidth)), 0)
		bar := barStyle.Render(strings.Repeat("█", barLen))

		lines = append(lines, pad+label+" │"+bar+" "+format(v))
	}

	return strings.Join(lines, "\n")
}

// RenderSparkline creates a compact inline sparkline, sampling values down
// to width characters.
func RenderSparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}

	maxVal := 0.0
	for _, v := range values {
		maxVal = max(maxVal, v)
	}
	if maxVal == 0 {
		maxVal = 1
	}

	step := max(float64(len(values))/float64(width), 1)

	var b strings.Builder
	for i := 0; i < width && int(float64(i)*step) < len(values); i++ {
		v := values[int(float64(i)*step)]
		idx := int(v / maxVal * float64(len(sparkChars)-1))
		idx = min(max(idx, 0), len(sparkChars)-1)
		b.WriteRune(sparkChars[idx])
	}
	return b.String()
}

// LegendItem represents a single legend entry.
type LegendItem struct {
	Label string
	Color lipgloss.Color
}

// RenderLegend creates a chart legend.
func RenderLegend(items []LegendItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		box := lipgloss.NewStyle().Foreground(item.Color).Render("■")
		parts = append(parts, box+" "+item.Label)
	}
	return strings.Join(parts, "  ")
}
