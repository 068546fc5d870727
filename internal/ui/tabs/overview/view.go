package overview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/revenue-dashboard-tui/internal/models"
	"github.com/j-veylop/revenue-dashboard-tui/internal/services/currency"
	"github.com/j-veylop/revenue-dashboard-tui/internal/services/projection"
	"github.com/j-veylop/revenue-dashboard-tui/internal/services/sales"
	"github.com/j-veylop/revenue-dashboard-tui/internal/ui/components"
	"github.com/j-veylop/revenue-dashboard-tui/internal/ui/styles"
)

const labelWidth = 16

// View renders the overview tab.
func (m *Model) View() string {
	if m.state.IsInitialLoading() && m.state.GetProjectCount() == 0 {
		return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
	}

	sections := []string{m.renderTitle()}

	if m.state.GetProjectCount() == 0 {
		sections = append(sections, m.renderEmpty())
	} else {
		sections = append(sections,
			m.renderTotals(),
			m.renderTrend(),
			m.renderProjectBars(),
		)
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))
	return styles.DocStyle.Render(m.viewport.View())
}

func (m *Model) cardWidth() int {
	return max(m.width-8, 40)
}

func (m *Model) amount(v int) string {
	return currency.FormatAmount(float64(v), m.state.Currency())
}

func (m *Model) renderTitle() string {
	p := m.state.GetPortfolio()
	title := styles.TitleStyle.Render("Revenue Overview")
	subtitle := styles.HelpStyle.Render(fmt.Sprintf("%d projects · %d reporting · amounts in %s",
		p.ProjectCount, p.ReportingCount, m.state.Currency()))
	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) renderEmpty() string {
	rows := []string{
		styles.CardTitleStyle.Render("No projects configured"),
		"",
		styles.HelpStyle.Render("Add projects to projects.json and restart."),
		styles.HelpStyle.Render("See the Info tab for the file location."),
	}
	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderTotals() string {
	p := m.state.GetPortfolio()

	today := m.amount(p.TodayRevenue)
	if change, ok := sales.TodayChange(p.TodayRevenue, p.YesterdayRevenue); ok {
		today += "  " + components.GrowthLabel(fmt.Sprintf("%.1f", change)) + styles.HelpStyle.Render(" vs yesterday")
	}

	left := []string{
		styles.CardTitleStyle.Render("Portfolio"),
		"",
		components.KeyValue("Last 30 days", styles.BigNumberStyle.Render(m.amount(p.TotalRevenue)), labelWidth),
		components.KeyValue("Month to date", m.amount(p.MonthToDateRevenue), labelWidth),
		components.KeyValue("Today", today, labelWidth),
		components.KeyValue("Yesterday", m.amount(p.YesterdayRevenue), labelWidth),
	}
	if updated := m.state.GetLastUpdated(); !updated.IsZero() {
		est := projection.MonthEnd(p.DailyRevenue, updated)
		left = append(left, components.KeyValue("Projected month",
			m.amount(est.Projected)+styles.HelpStyle.Render(fmt.Sprintf(" est. · %s confidence", est.Confidence)), labelWidth))
	}

	right := []string{
		styles.CardTitleStyle.Render("Providers"),
		"",
		components.KeyValue("Stripe", fmt.Sprintf("%d active", p.ActiveStripeCount), 10),
		components.KeyValue("PayPal", fmt.Sprintf("%d active", p.ActivePaypalCount), 10),
		"",
		components.KeyValue("Top", performer(p.Top, m.amount), 10),
		components.KeyValue("Bottom", performer(p.Bottom, m.amount), 10),
	}

	half := (m.cardWidth() - 5) / 2
	if half < 40 {
		return lipgloss.JoinVertical(lipgloss.Left,
			styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, left...)),
			styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, right...)),
		)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		styles.CardStyle.Width(half).Render(lipgloss.JoinVertical(lipgloss.Left, left...)),
		" ",
		styles.CardStyle.Width(half).Render(lipgloss.JoinVertical(lipgloss.Left, right...)),
	)
}

func performer(p *models.Performer, format func(int) string) string {
	if p == nil {
		return styles.HelpStyle.Render("n/a")
	}
	return components.Truncate(p.Name, 24) + " " + styles.HelpStyle.Render(format(p.Revenue))
}

func (m *Model) renderTrend() string {
	p := m.state.GetPortfolio()
	width := m.cardWidth()

	rows := []string{styles.CardTitleStyle.Render("Daily Revenue"), ""}

	chart := components.RenderLineChart(
		components.IntsToFloats(p.DailyRevenue[:]),
		max(width-16, 30), 8,
		fmt.Sprintf("Last %d days, all projects (%s)", models.WindowDays, m.state.Currency()),
	)
	for line := range strings.SplitSeq(chart, "\n") {
		rows = append(rows, "  "+line)
	}

	return styles.CardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderProjectBars() string {
	width := m.cardWidth()
	rows := []string{styles.CardTitleStyle.Render("Revenue by Project"), ""}

	var values []float64
	var labels []string
	var failed []string
	for _, p := range m.state.GetProjects() {
		s := m.state.GetSummary(p.ID)
		if s == nil {
			if e, ok := m.state.GetEntry(p.ID); ok && e.Err != nil {
				failed = append(failed, p.Name)
			}
			continue
		}
		values = append(values, float64(s.Revenue))
		labels = append(labels, components.Truncate(p.Name, 20))
	}

	if len(values) == 0 {
		rows = append(rows, styles.HelpStyle.Render("  No project data yet"))
	} else {
		bars := components.RenderBarChart(values, labels, width-8, func(v float64) string {
			return currency.FormatAmount(v, m.state.Currency())
		})
		for line := range strings.SplitSeq(bars, "\n") {
			rows = append(rows, "  "+line)
		}
	}

	if len(failed) > 0 {
		rows = append(rows, "", styles.ErrorTextStyle.Render("  Failed: "+strings.Join(failed, ", ")))
	}

	return styles.CardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

