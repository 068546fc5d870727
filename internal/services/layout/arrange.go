package layout

import (
	"slices"
	"strings"

	"github.com/j-veylop/revenue-dashboard-tui/internal/models"
)

// unplacedPosition sorts projects without a saved position after placed ones.
const unplacedPosition = 999

// Arrange returns the projects in display order: saved order (only for the
// default sort), then the selected sort, then the selected filter. The input
// slice is not modified.
func Arrange(projects []models.Project, summaries map[string]*models.SalesSummary, view models.ViewState) []models.Project {
	out := slices.Clone(projects)
	prefs := view.Preferences.Normalize()

	switch prefs.SortBy {
	case models.SortDefault:
		positions := positionIndex(view.Layout.Widgets)
		slices.SortStableFunc(out, func(a, b models.Project) int {
			return position(positions, a.ID) - position(positions, b.ID)
		})
	case models.SortRevenueDesc:
		slices.SortStableFunc(out, func(a, b models.Project) int {
			return revenue(summaries, b.ID) - revenue(summaries, a.ID)
		})
	case models.SortRevenueAsc:
		slices.SortStableFunc(out, func(a, b models.Project) int {
			return revenue(summaries, a.ID) - revenue(summaries, b.ID)
		})
	case models.SortGrowthDesc:
		slices.SortStableFunc(out, func(a, b models.Project) int {
			ga, gb := growth(summaries, a.ID), growth(summaries, b.ID)
			switch {
			case ga > gb:
				return -1
			case ga < gb:
				return 1
			default:
				return 0
			}
		})
	case models.SortNameAsc:
		slices.SortStableFunc(out, func(a, b models.Project) int {
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		})
	}

	return slices.DeleteFunc(out, func(p models.Project) bool {
		return !matchesFilter(p, prefs.FilterBy)
	})
}

func matchesFilter(p models.Project, filter models.FilterMode) bool {
	switch filter {
	case models.FilterStripe:
		return p.HasStripe() && !p.HasPayPal()
	case models.FilterPayPal:
		return p.HasPayPal() && !p.HasStripe()
	case models.FilterBoth:
		return p.HasStripe() && p.HasPayPal()
	default:
		return true
	}
}

func positionIndex(widgets []models.WidgetPosition) map[string]int {
	idx := make(map[string]int, len(widgets))
	for _, w := range widgets {
		idx[w.ProjectID] = w.Position
	}
	return idx
}

func position(idx map[string]int, id string) int {
	if p, ok := idx[id]; ok {
		return p
	}
	return unplacedPosition
}

func revenue(summaries map[string]*models.SalesSummary, id string) int {
	if s := summaries[id]; s != nil {
		return s.Revenue
	}
	return 0
}

func growth(summaries map[string]*models.SalesSummary, id string) float64 {
	if s := summaries[id]; s != nil {
		return s.Growth()
	}
	return 0
}

// Ordered returns every project in saved layout order, ignoring sort and
// filter preferences.
func Ordered(projects []models.Project, widgets []models.WidgetPosition) []models.Project {
	return Arrange(projects, nil, models.ViewState{
		Layout:      models.Layout{Widgets: widgets},
		Preferences: models.Preferences{SortBy: models.SortDefault, FilterBy: models.FilterAll},
	})
}

// MoveProject moves id by delta places within order and returns the new
// layout with positions 0..n-1. It reports false when id is unknown or the
// move would leave the list.
func MoveProject(order []models.Project, id string, delta int) ([]models.WidgetPosition, bool) {
	from := slices.IndexFunc(order, func(p models.Project) bool { return p.ID == id })
	to := from + delta
	if from < 0 || delta == 0 || to < 0 || to >= len(order) {
		return nil, false
	}

	ids := make([]string, len(order))
	for i, p := range order {
		ids[i] = p.ID
	}
	moved := ids[from]
	ids = slices.Delete(ids, from, from+1)
	ids = slices.Insert(ids, to, moved)

	widgets := make([]models.WidgetPosition, len(ids))
	for i, pid := range ids {
		widgets[i] = models.WidgetPosition{ProjectID: pid, Position: i}
	}
	return widgets, true
}
