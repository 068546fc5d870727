package projects

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/revenue-dashboard-tui/internal/models"
	"github.com/j-veylop/revenue-dashboard-tui/internal/services/currency"
	"github.com/j-veylop/revenue-dashboard-tui/internal/services/sales"
	"github.com/j-veylop/revenue-dashboard-tui/internal/services/store"
	"github.com/j-veylop/revenue-dashboard-tui/internal/ui/components"
	"github.com/j-veylop/revenue-dashboard-tui/internal/ui/styles"
)

const labelWidth = 14

// View renders the projects tab.
func (m *Model) View() string {
	projects := m.state.GetProjects()
	prefs := m.state.GetPreferences()

	sections := []string{m.renderTitle(prefs, len(projects))}
	top, bottom := 0, 0

	switch {
	case len(projects) == 0 && m.state.IsInitialLoading():
		sections = append(sections, styles.HelpStyle.Render("Waiting for the first refresh..."))
	case len(projects) == 0:
		sections = append(sections, m.renderEmpty(prefs))
	default:
		selected := m.state.GetSelectedIndex()
		line := lipgloss.Height(sections[0])
		for i, p := range projects {
			card := m.renderCard(p, prefs.ViewMode, i == selected)
			h := lipgloss.Height(card)
			if i == selected {
				top, bottom = line, line+h
				if i == 0 {
					top = 0
				}
			}
			line += h
			sections = append(sections, card)
		}
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))
	if bottom > top {
		m.followSelection(top, bottom)
	}
	return styles.DocStyle.Render(m.viewport.View())
}

// followSelection scrolls so that lines [top, bottom) are visible.
func (m *Model) followSelection(top, bottom int) {
	if m.viewport.Height <= 0 {
		return
	}
	switch {
	case top < m.viewport.YOffset, bottom-top > m.viewport.Height:
		m.viewport.SetYOffset(top)
	case bottom > m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(bottom - m.viewport.Height)
	}
}

func (m *Model) cardWidth() int {
	return max(m.width-8, 40)
}

func (m *Model) amount(v int) string {
	return currency.FormatAmount(float64(v), m.state.Currency())
}

func (m *Model) renderTitle(prefs models.Preferences, count int) string {
	title := styles.TitleStyle.Render("Projects")
	subtitle := styles.HelpStyle.Render(fmt.Sprintf("%d shown · %s view · sort %s · filter %s",
		count, prefs.ViewMode, prefs.SortBy, prefs.FilterBy))
	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) renderEmpty(prefs models.Preferences) string {
	msg := "No projects configured"
	if prefs.FilterBy != models.FilterAll {
		msg = fmt.Sprintf("No projects match the %q filter (press f to change)", prefs.FilterBy)
	}
	return styles.CardStyle.Width(m.cardWidth()).Render(styles.HelpStyle.Render(msg))
}

func (m *Model) renderCard(p models.Project, mode models.ViewMode, selected bool) string {
	entry, ok := m.state.GetEntry(p.ID)
	if mode == models.ViewCompact {
		return m.renderCompactCard(p, entry, ok, selected)
	}
	return m.renderDetailedCard(p, entry, ok, selected)
}

func (m *Model) renderHeading(p models.Project, selected bool) string {
	marker := "  "
	if selected {
		marker = styles.FocusedStyle.Render("▶ ")
	}
	return marker + styles.CardTitleStyle.Render(components.Truncate(p.Name, 32)) + "  " + components.ProviderBadges(p)
}

func (m *Model) renderCompactCard(p models.Project, entry store.Entry, ok, selected bool) string {
	var status string
	switch {
	case !ok:
		status = styles.HelpStyle.Render("waiting for data")
	case entry.Summary == nil:
		status = styles.ErrorTextStyle.Render(components.Truncate(errorText(entry), m.cardWidth()/2))
	default:
		s := entry.Summary
		status = strings.Join([]string{
			styles.BigNumberStyle.Render(m.amount(s.Revenue)),
			components.GrowthLabel(s.GrowthPercent),
			components.HealthBadge(sales.Health(s)),
			components.RenderSparkline(components.IntsToFloats(s.DailyRevenue[:]), 15),
		}, "  ")
	}

	style := styles.CompactCardStyle
	if selected {
		style = style.BorderForeground(styles.Primary)
	}
	return style.Width(m.cardWidth()).Render(m.renderHeading(p, selected) + "\n  " + status)
}

func (m *Model) renderDetailedCard(p models.Project, entry store.Entry, ok, selected bool) string {
	rows := []string{m.renderHeading(p, selected), ""}

	switch {
	case !ok:
		rows = append(rows, styles.HelpStyle.Render("Waiting for data..."))
	case entry.Summary == nil:
		rows = append(rows, styles.ErrorTextStyle.Render("Error: "+errorText(entry)))
	default:
		rows = append(rows, m.renderStats(entry.Summary)...)
	}

	style := styles.CardStyle
	if selected {
		style = styles.SelectedCardStyle
	}
	return style.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderStats(s *models.SalesSummary) []string {
	conversion := s.ConversionRate.Value + "%"
	if s.ConversionRate.Synthetic {
		conversion += styles.HelpStyle.Render(" est.")
	}

	today := m.amount(s.TodayRevenue)
	if change, ok := sales.TodayChange(s.TodayRevenue, s.YesterdayRevenue); ok {
		today += "  " + components.GrowthLabel(fmt.Sprintf("%.1f", change))
	}

	portfolio := m.state.GetPortfolio()
	contentWidth := m.cardWidth() - 6

	rows := []string{
		components.KeyValue("Revenue (30d)", styles.BigNumberStyle.Render(m.amount(s.Revenue))+"  "+components.GrowthLabel(s.GrowthPercent), labelWidth),
		components.KeyValue("Orders", fmt.Sprintf("%d · avg %s", s.Orders, m.amount(s.AvgOrderValue)), labelWidth),
		components.KeyValue("Conversion", conversion, labelWidth),
		components.KeyValue("Health", components.HealthBadge(sales.Health(s)), labelWidth),
		components.KeyValue("Today", today, labelWidth),
		components.KeyValue("Yesterday", m.amount(s.YesterdayRevenue), labelWidth),
		components.KeyValue("Balances", m.renderBalances(s), labelWidth),
		components.KeyValue("Share", m.shareBar.View(components.Share(s.Revenue, portfolio.TotalRevenue), max(contentWidth-labelWidth, 20)), labelWidth),
		components.KeyValue("30 days", components.RenderSparkline(components.IntsToFloats(s.DailyRevenue[:]), models.WindowDays), labelWidth),
	}

	if len(s.RecentActivity) > 0 {
		rows = append(rows, "", styles.SubTitleStyle.Render("Recent activity"))
		for _, a := range s.RecentActivity[:min(len(s.RecentActivity), maxActivity)] {
			desc := a.Description
			if desc == "" {
				desc = "Payment"
			}
			rows = append(rows, fmt.Sprintf("  %-8s %8s  %s  %s",
				a.Age,
				currency.FormatAmount(a.Amount, a.Currency),
				components.ProviderLabel(a.Provider),
				components.Truncate(desc, max(contentWidth-30, 10)),
			))
		}
	}

	if len(s.Errors) > 0 {
		rows = append(rows, "")
		for _, e := range s.Errors {
			rows = append(rows, styles.WarningTextStyle.Render("⚠ "+e))
		}
	}

	return rows
}

func (m *Model) renderBalances(s *models.SalesSummary) string {
	return fmt.Sprintf("%s %s  %s %s",
		styles.StripeBadgeStyle.Render("Stripe"), m.amount(s.StripeBalance),
		styles.PayPalBadgeStyle.Render("PayPal"), m.amount(s.PayPalBalance))
}

func errorText(e store.Entry) string {
	if e.Err == nil {
		return "no data"
	}
	return sales.ErrorMessage(e.Err)
}
