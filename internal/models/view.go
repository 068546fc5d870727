package models

// ViewMode controls how much detail a project card shows.
type ViewMode string

const (
	ViewCompact  ViewMode = "compact"
	ViewDetailed ViewMode = "detailed"
)

// SortMode orders project cards.
type SortMode string

const (
	SortDefault     SortMode = "default"
	SortRevenueDesc SortMode = "revenue-desc"
	SortRevenueAsc  SortMode = "revenue-asc"
	SortGrowthDesc  SortMode = "growth-desc"
	SortNameAsc     SortMode = "name-asc"
)

// SortModes lists sort modes in cycling order.
var SortModes = []SortMode{SortDefault, SortRevenueDesc, SortRevenueAsc, SortGrowthDesc, SortNameAsc}

// FilterMode selects which project cards are shown.
type FilterMode string

const (
	FilterAll    FilterMode = "all"
	FilterStripe FilterMode = "stripe"
	FilterPayPal FilterMode = "paypal"
	FilterBoth   FilterMode = "both"
)

// FilterModes lists filter modes in cycling order.
var FilterModes = []FilterMode{FilterAll, FilterStripe, FilterPayPal, FilterBoth}

// DefaultPreferredCurrency is the display currency when none is saved.
const DefaultPreferredCurrency = "NZD"

// WidgetPosition is the saved position of one project card.
type WidgetPosition struct {
	ProjectID string `json:"projectId"`
	Position  int    `json:"position"`
}

// Layout is the saved card order.
type Layout struct {
	Widgets []WidgetPosition `json:"widgets"`
}

// Preferences are the persisted display settings.
type Preferences struct {
	ViewMode          ViewMode   `json:"viewMode"`
	SortBy            SortMode   `json:"sortBy"`
	FilterBy          FilterMode `json:"filterBy"`
	PreferredCurrency string     `json:"preferredCurrency"`
	ThemeMode         string     `json:"themeMode,omitempty"`
	ThemeColor        string     `json:"themeColor,omitempty"`
}

// ViewState is the content of view.json.
type ViewState struct {
	Layout      Layout      `json:"layout"`
	Preferences Preferences `json:"preferences"`
}

// DefaultPreferences returns the preferences used when nothing is saved.
func DefaultPreferences() Preferences {
	return Preferences{
		ViewMode:          ViewDetailed,
		SortBy:            SortDefault,
		FilterBy:          FilterAll,
		PreferredCurrency: DefaultPreferredCurrency,
		ThemeMode:         "dark",
	}
}

// DefaultViewState returns an empty layout with default preferences.
func DefaultViewState() ViewState {
	return ViewState{
		Layout:      Layout{Widgets: []WidgetPosition{}},
		Preferences: DefaultPreferences(),
	}
}

// Normalize replaces unknown or empty values with their defaults.
func (p Preferences) Normalize() Preferences {
	def := DefaultPreferences()

	switch p.ViewMode {
	case ViewCompact, ViewDetailed:
	default:
		p.ViewMode = def.ViewMode
	}

	valid := false
	for _, m := range SortModes {
		if p.SortBy == m {
			valid = true
			break
		}
	}
	if !valid {
		p.SortBy = def.SortBy
	}

	valid = false
	for _, m := range FilterModes {
		if p.FilterBy == m {
			valid = true
			break
		}
	}
	if !valid {
		p.FilterBy = def.FilterBy
	}

	if p.PreferredCurrency == "" {
		p.PreferredCurrency = def.PreferredCurrency
	}
	if p.ThemeMode == "" {
		p.ThemeMode = def.ThemeMode
	}
	return p
}

// NextSort returns the sort mode after m in cycling order.
func NextSort(m SortMode) SortMode {
	for i, s := range SortModes {
		if s == m {
			return SortModes[(i+1)%len(SortModes)]
		}
	}
	return SortDefault
}

// NextFilter returns the filter mode after m in cycling order.
func NextFilter(m FilterMode) FilterMode {
	for i, f := range FilterModes {
		if f == m {
			return FilterModes[(i+1)%len(FilterModes)]
		}
	}
	return FilterAll
}

// Toggle returns the other view mode.
func (m ViewMode) Toggle() ViewMode {
	if m == ViewCompact {
		return ViewDetailed
	}
	return ViewCompact
}
