package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// overlay draws top over base with its top-left corner at column x and row
// y. Lines of base that are shorter than x are padded with spaces; rows past
// the end of base are dropped.
func overlay(base, top string, x, y int) string {
	x = max(x, 0)
	y = max(y, 0)

	baseLines := strings.Split(base, "\n")
	topLines := strings.Split(top, "\n")
	topWidth := lipgloss.Width(top)

	for i, line := range topLines {
		row := y + i
		if row >= len(baseLines) {
			break
		}

		under := baseLines[row]
		left := ansi.Truncate(under, x, "")
		if w := lipgloss.Width(left); w < x {
			left += strings.Repeat(" ", x-w)
		}
		right := ansi.TruncateLeft(under, x+topWidth, "")

		baseLines[row] = left + line + right
	}

	return strings.Join(baseLines, "\n")
}

// overlayCentered draws top in the middle of a width x height area.
func overlayCentered(base, top string, width, height int) string {
	x := (width - lipgloss.Width(top)) / 2
	y := (height - lipgloss.Height(top)) / 2
	return overlay(base, top, x, y)
}
