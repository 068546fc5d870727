package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/revenue-dashboard-tui/internal/ui/styles"
)

// ShareBar renders a project's share of portfolio revenue.
type ShareBar struct {
	progress progress.Model
}

// NewShareBar creates a share bar with the dashboard gradient.
func NewShareBar() ShareBar {
	return ShareBar{
		progress: progress.New(
			progress.WithScaledGradient("#7D56F4", "#51cf66"),
			progress.WithWidth(30),
			progress.WithoutPercentage(),
		),
	}
}

// Share returns part as a fraction of total, clamped to [0, 1].
func Share(part, total int) float64 {
	if total <= 0 || part <= 0 {
		return 0
	}
	return min(float64(part)/float64(total), 1)
}

// View renders the bar with its percentage. width covers both.
func (s ShareBar) View(share float64, width int) string {
	s.progress.Width = max(width-6, 5)
	bar := s.progress.ViewAs(min(max(share, 0), 1))

	pct := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Width(5).
		Align(lipgloss.Right).
		Render(fmt.Sprintf("%.0f%%", share*100))

	return bar + " " + pct
}
