package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/j-veylop/revenue-dashboard-tui/internal/models"
	"github.com/j-veylop/revenue-dashboard-tui/internal/services/sales"
	"github.com/j-veylop/revenue-dashboard-tui/internal/ui/styles"
)

// Truncate shortens s to width cells, marking the cut with an ellipsis.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}

// HealthBadge renders the health label of a summary.
func HealthBadge(h models.HealthStatus) string {
	return styles.GetHealthStyle(h).Render("● " + string(h))
}

// ProviderBadges lists the enabled providers of a project. A provider that
// is enabled without credentials is struck through.
func ProviderBadges(p models.Project) string {
	var parts []string
	if p.HasStripe() {
		if p.Stripe.Configured() {
			parts = append(parts, styles.StripeBadgeStyle.Render("Stripe"))
		} else {
			parts = append(parts, styles.MutedBadgeStyle.Render("Stripe"))
		}
	}
	if p.HasPayPal() {
		if p.PayPal.Configured() {
			parts = append(parts, styles.PayPalBadgeStyle.Render("PayPal"))
		} else {
			parts = append(parts, styles.MutedBadgeStyle.Render("PayPal"))
		}
	}
	if len(parts) == 0 {
		return styles.HelpStyle.Render("no providers")
	}
	return strings.Join(parts, " ")
}

// ProviderLabel renders a provider name in its brand color.
func ProviderLabel(p models.Provider) string {
	switch p {
	case models.ProviderStripe:
		return styles.StripeBadgeStyle.Render(p.Label())
	case models.ProviderPayPal:
		return styles.PayPalBadgeStyle.Render(p.Label())
	default:
		return p.Label()
	}
}

// GrowthLabel renders a growth percentage with its trend arrow.
func GrowthLabel(growth string) string {
	if growth == "" {
		growth = "0.0"
	}
	v, err := strconv.ParseFloat(growth, 64)
	if err != nil {
		return styles.HelpStyle.Render("→ " + growth)
	}
	sign := ""
	if v > 0 {
		sign = "+"
	}
	return styles.GetGrowthStyle(v).Render(sales.TrendArrow(v) + " " + sign + growth + "%")
}

// KeyValue renders an aligned label/value row.
func KeyValue(label, value string, labelWidth int) string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		styles.LabelStyle.Width(labelWidth).Render(label),
		styles.ValueStyle.Render(value),
	)
}
