// Package styles defines the visual styling for the application.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/revenue-dashboard-tui/internal/models"
)

// Color palette.
var (
	Primary   = lipgloss.Color("205") // Pink
	Secondary = lipgloss.Color("63")  // Purple
	Subtle    = lipgloss.Color("240") // Gray

	// Provider brand colors
	Stripe = lipgloss.Color("#635bff")
	PayPal = lipgloss.Color("#009cde")

	Success = lipgloss.Color("42")  // Green
	Error   = lipgloss.Color("196") // Red
	Warning = lipgloss.Color("220") // Yellow
	Info    = lipgloss.Color("39")  // Blue

	BgDark   = lipgloss.Color("235")
	BgLight  = lipgloss.Color("237")
	BgAccent = lipgloss.Color("236")

	TextPrimary   = lipgloss.Color("252")
	TextSecondary = lipgloss.Color("245")
	TextMuted     = lipgloss.Color("240")

	// ToastStyle for floating notifications.
	ToastStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(0, 1).
			MarginBottom(1)
)

// TitleStyle is used for main headings.
var TitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Primary).
	MarginBottom(1)

// SubTitleStyle is used for section headings.
var SubTitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Secondary)

// DocStyle provides consistent document margins.
var DocStyle = lipgloss.NewStyle().
	Margin(1, 2).
	Padding(0, 1)

// CardStyle creates a bordered card container.
var CardStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Subtle).
	Padding(1, 2).
	MarginBottom(1)

// SelectedCardStyle highlights the selected project card.
var SelectedCardStyle = CardStyle.
	BorderForeground(Primary)

// CompactCardStyle is a card without vertical padding.
var CompactCardStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Subtle).
	Padding(0, 1)

// CardTitleStyle styles card headers.
var CardTitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Primary)

// FocusedStyle is used for the selection marker.
var FocusedStyle = lipgloss.NewStyle().
	Foreground(Primary).
	Bold(true)

// LabelStyle styles the label of a key/value row.
var LabelStyle = lipgloss.NewStyle().
	Foreground(TextMuted)

// ValueStyle styles the value of a key/value row.
var ValueStyle = lipgloss.NewStyle().
	Foreground(TextPrimary)

// BigNumberStyle styles headline amounts.
var BigNumberStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(TextPrimary)

// HelpStyle is the base style for help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(TextMuted)

// HelpPanelStyle creates the help overlay panel.
var HelpPanelStyle = lipgloss.NewStyle().
	Border(lipgloss.DoubleBorder()).
	BorderForeground(Primary).
	Padding(1, 3).
	Background(BgDark)

// TableHeaderStyle styles table headers.
var TableHeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Primary)

// StripeBadgeStyle marks Stripe in provider badges.
var StripeBadgeStyle = lipgloss.NewStyle().
	Foreground(Stripe).
	Bold(true)

// PayPalBadgeStyle marks PayPal in provider badges.
var PayPalBadgeStyle = lipgloss.NewStyle().
	Foreground(PayPal).
	Bold(true)

// MutedBadgeStyle marks a provider that is enabled but not configured.
var MutedBadgeStyle = lipgloss.NewStyle().
	Foreground(Subtle).
	Strikethrough(true)

var (
	HealthExcellentStyle = lipgloss.NewStyle().Foreground(Success).Bold(true)
	HealthGoodStyle      = lipgloss.NewStyle().Foreground(Success)
	HealthAverageStyle   = lipgloss.NewStyle().Foreground(Warning)
	HealthPoorStyle      = lipgloss.NewStyle().Foreground(Error)
)

// ErrorTextStyle for error messages.
var ErrorTextStyle = lipgloss.NewStyle().
	Foreground(Error)

// SuccessTextStyle for success messages.
var SuccessTextStyle = lipgloss.NewStyle().
	Foreground(Success)

// WarningTextStyle for warning messages.
var WarningTextStyle = lipgloss.NewStyle().
	Foreground(Warning)

// InfoTextStyle for info messages.
var InfoTextStyle = lipgloss.NewStyle().
	Foreground(Info)

// GetHealthStyle returns the style for a health label.
func GetHealthStyle(h models.HealthStatus) lipgloss.Style {
	switch h {
	case models.HealthExcellent:
		return HealthExcellentStyle
	case models.HealthGood:
		return HealthGoodStyle
	case models.HealthAverage:
		return HealthAverageStyle
	default:
		return HealthPoorStyle
	}
}

// GetGrowthStyle colors a growth percentage by its sign.
func GetGrowthStyle(growth float64) lipgloss.Style {
	switch {
	case growth > 0:
		return SuccessTextStyle
	case growth < 0:
		return ErrorTextStyle
	default:
		return HelpStyle
	}
}

// CenterHorizontal centers content horizontally within a given width.
func CenterHorizontal(content string, width int) string {
	return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(content)
}

// CenterBoth centers content both horizontally and vertically.
func CenterBoth(content string, width, height int) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center).
		AlignVertical(lipgloss.Center).
		Render(content)
}
