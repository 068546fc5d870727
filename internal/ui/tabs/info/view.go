package info

import (
	"fmt"
	"runtime"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/revenue-dashboard-tui/internal/services/currency"
	"github.com/j-veylop/revenue-dashboard-tui/internal/ui/components"
	"github.com/j-veylop/revenue-dashboard-tui/internal/ui/styles"
	"github.com/j-veylop/revenue-dashboard-tui/internal/version"
)

const labelWidth = 20

// View renders the info tab.
func (m *Model) View() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		m.renderTitle(),
		m.renderConfigCard(),
		m.renderRefreshCard(),
		m.renderRatesCard(),
		m.renderAboutCard(),
	)

	m.viewport.SetContent(content)
	return styles.DocStyle.Render(m.viewport.View())
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Info")
	subtitle := styles.HelpStyle.Render("Configuration and application information")
	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) cardWidth() int {
	return min(max(m.width-8, 50), 90)
}

func (m *Model) card(title string, rows ...string) string {
	body := append([]string{styles.CardTitleStyle.Render(title), ""}, rows...)
	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, body...))
}

func row(label, value string) string {
	return components.KeyValue(label+":", value, labelWidth)
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func (m *Model) renderConfigCard() string {
	cfg := m.config
	if cfg == nil {
		return m.card("Configuration", styles.HelpStyle.Render("Configuration not loaded"))
	}

	pathWidth := m.cardWidth() - labelWidth - 6
	return m.card("Configuration",
		row("Projects File", components.Truncate(cfg.ProjectsPath, pathWidth)),
		row("View File", components.Truncate(cfg.ViewPath, pathWidth)),
		row("Database", components.Truncate(cfg.DatabasePath, pathWidth)),
		row("Log File", components.Truncate(cfg.LogPath, pathWidth)),
		row("Log Level", cfg.LogLevel),
		"",
		row("Refresh Interval", cfg.RefreshInterval.String()),
		row("HTTP Timeout", cfg.HTTPTimeout.String()),
		row("Concurrent Fetches", strconv.Itoa(cfg.MaxConcurrentFetches)),
		row("History Retention", cfg.HistoryRetention.String()),
		row("Notifications", onOff(cfg.Notifications)),
	)
}

func (m *Model) renderRefreshCard() string {
	st := m.state.GetStats()

	last := "never"
	if !st.LastCompleted.IsZero() {
		last = fmt.Sprintf("%s (%s)", st.LastCompleted.Local().Format("15:04:05"), humanize.Time(st.LastCompleted))
	}

	status := styles.SuccessTextStyle.Render("idle")
	if st.Refreshing {
		status = styles.InfoTextStyle.Render("refreshing")
	}

	failed := strconv.Itoa(st.Failed)
	if st.Failed > 0 {
		failed = styles.ErrorTextStyle.Render(failed)
	}

	return m.card("Refresh",
		row("Status", status),
		row("Last Completed", last),
		row("Cycle", strconv.FormatUint(st.Generation, 10)),
		row("Projects", fmt.Sprintf("%d (%d healthy, %s failed)", st.Projects, st.Healthy, failed)),
	)
}

func (m *Model) renderRatesCard() string {
	rs := m.state.GetRatesStatus()

	var source string
	switch rs.Source {
	case currency.SourceLive:
		source = styles.SuccessTextStyle.Render("live")
	case currency.SourceFallback:
		source = styles.WarningTextStyle.Render("fallback table")
	default:
		source = styles.HelpStyle.Render("not fetched yet")
	}

	rows := []string{
		row("Display Currency", m.state.Currency()),
		row("Rate Source", source),
	}
	if m.config != nil {
		rows = append(rows, row("Rates URL", components.Truncate(m.config.ExchangeRatesURL, m.cardWidth()-labelWidth-6)))
	}
	if !rs.FetchedAt.IsZero() {
		rows = append(rows, row("Fetched", humanize.Time(rs.FetchedAt)))
	}
	rows = append(rows, row("Currencies", strconv.Itoa(rs.Count)))
	if rs.LastError != "" {
		rows = append(rows, row("Last Error", styles.ErrorTextStyle.Render(components.Truncate(rs.LastError, m.cardWidth()-labelWidth-6))))
	}

	return m.card("Exchange Rates", rows...)
}

func (m *Model) renderAboutCard() string {
	return m.card("About Revenue Dashboard TUI",
		row("Version", version.GetVersion()),
		row("Build Date", version.GetDate()),
		row("Git Commit", version.GetCommit()),
		row("Go Version", runtime.Version()),
		row("Platform", runtime.GOOS+"/"+runtime.GOARCH),
		"",
		fmt.Sprintf("Projects: %s", styles.InfoTextStyle.Render(strconv.Itoa(m.state.GetProjectCount()))),
	)
}
