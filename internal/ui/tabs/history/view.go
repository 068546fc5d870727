package history

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/revenue-dashboard-tui/internal/models"
	"github.com/j-veylop/revenue-dashboard-tui/internal/services/currency"
	"github.com/j-veylop/revenue-dashboard-tui/internal/ui/components"
	"github.com/j-veylop/revenue-dashboard-tui/internal/ui/styles"
)

func columns(width int) []table.Column {
	// Fixed columns plus one cell of padding on each side of every column.
	const fixed = 12 + 8 + 10 + 8 + 6 + 12
	return []table.Column{
		{Title: "Captured", Width: max(width-fixed, 14)},
		{Title: "Revenue", Width: 12},
		{Title: "Orders", Width: 8},
		{Title: "Today", Width: 10},
		{Title: "Growth", Width: 8},
		{Title: "Errors", Width: 6},
	}
}

func snapshotRows(h *models.ProjectHistory) []table.Row {
	if h == nil {
		return nil
	}
	snaps := h.Snapshots[:min(len(h.Snapshots), maxTableRows)]
	rows := make([]table.Row, 0, len(snaps))
	for _, s := range snaps {
		rows = append(rows, table.Row{
			humanize.Time(s.CapturedAt),
			currency.FormatAmount(float64(s.Revenue), s.Currency),
			humanize.Comma(int64(s.Orders)),
			currency.FormatAmount(float64(s.TodayRevenue), s.Currency),
			s.GrowthPercent + "%",
			fmt.Sprintf("%d", s.ErrorCount),
		})
	}
	return rows
}

// View renders the history tab.
func (m *Model) View() string {
	var content string
	switch {
	case m.source == nil:
		content = m.renderNotice("History is unavailable", "The history database could not be opened.")
	case m.projectID == "":
		content = m.renderNotice("History", "No project selected. Pick one on the Projects tab.")
	case m.err != nil:
		content = lipgloss.JoinVertical(lipgloss.Left,
			m.renderHeader(),
			styles.ErrorTextStyle.Render("Error: ")+m.err.Error(),
		)
	case m.history == nil:
		content = lipgloss.JoinVertical(lipgloss.Left,
			m.renderHeader(),
			styles.HelpStyle.Render("Loading history data..."),
		)
	case len(m.history.Daily) == 0 && len(m.history.Snapshots) == 0:
		content = lipgloss.JoinVertical(lipgloss.Left,
			m.renderHeader(),
			styles.HelpStyle.Render("No history recorded yet."),
			styles.HelpStyle.Render("Every completed refresh adds a snapshot."),
		)
	default:
		content = lipgloss.JoinVertical(lipgloss.Left,
			m.renderHeader(),
			m.renderTotals(),
			m.renderChart(),
			m.renderSnapshots(),
		)
	}

	m.viewport.SetContent(content)
	return styles.DocStyle.Render(m.viewport.View())
}

func (m *Model) cardWidth() int {
	return max(m.width-8, 40)
}

func (m *Model) renderNotice(title, text string) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render(title),
		styles.HelpStyle.Render(text),
	)
}

func (m *Model) projectName() string {
	for _, p := range m.state.GetProjects() {
		if p.ID == m.projectID {
			return p.Name
		}
	}
	return m.projectID
}

func (m *Model) renderHeader() string {
	title := styles.TitleStyle.Render("History: " + components.Truncate(m.projectName(), 40))

	rangeStyle := lipgloss.NewStyle().
		Foreground(styles.Primary).
		Bold(true).
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Primary)
	indicator := rangeStyle.Render("[t] " + m.timeRange.String())

	header := lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", indicator)

	subtitle := "n/p switch project"
	if m.loading {
		subtitle = "Updating... · " + subtitle
	}
	if m.history != nil && len(m.history.Daily) > 0 {
		first := m.history.Daily[0].Day
		last := m.history.Daily[len(m.history.Daily)-1].Day
		subtitle = fmt.Sprintf("Data: %s → %s (%d days) · %s",
			first.Format("Jan 2, 2006"), last.Format("Jan 2, 2006"), len(m.history.Daily), subtitle)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, styles.HelpStyle.Render(subtitle), "")
}

func (m *Model) renderTotals() string {
	h := m.history
	code := h.Currency

	rows := []string{styles.CardTitleStyle.Render("Summary"), ""}
	rows = append(rows, components.KeyValue("Revenue", styles.BigNumberStyle.Render(
		currency.FormatAmount(float64(h.TotalRevenue()), code)), 14))

	if best, ok := h.BestDay(); ok && best.Revenue > 0 {
		rows = append(rows, components.KeyValue("Best day", fmt.Sprintf("%s (%s)",
			currency.FormatAmount(float64(best.Revenue), code), best.Day.Format("Mon Jan 2")), 14))
	}

	active := 0
	for _, d := range h.Daily {
		if d.Revenue > 0 {
			active++
		}
	}
	rows = append(rows,
		components.KeyValue("Days with sales", fmt.Sprintf("%d of %d", active, len(h.Daily)), 14),
		components.KeyValue("Snapshots", humanize.Comma(int64(len(h.Snapshots))), 14),
	)

	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderChart() string {
	width := m.cardWidth()
	rows := []string{styles.CardTitleStyle.Render("Daily Revenue"), ""}

	if len(m.history.Daily) == 0 {
		rows = append(rows, styles.HelpStyle.Render("  No daily data in this range"))
	} else {
		values := make([]float64, len(m.history.Daily))
		for i, d := range m.history.Daily {
			values[i] = float64(d.Revenue)
		}
		chart := components.RenderLineChart(values, max(width-16, 30), 8,
			fmt.Sprintf("%s, %s", m.timeRange, m.history.Currency))
		for line := range strings.SplitSeq(chart, "\n") {
			rows = append(rows, "  "+line)
		}
	}

	return styles.CardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderSnapshots() string {
	rows := []string{styles.CardTitleStyle.Render("Recent Refreshes"), ""}
	if len(m.history.Snapshots) == 0 {
		rows = append(rows, styles.HelpStyle.Render("  No snapshots recorded"))
	} else {
		rows = append(rows, m.table.View())
	}
	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
