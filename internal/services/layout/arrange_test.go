package layout

import (
	"slices"
	"testing"

	"github.com/j-veylop/revenue-dashboard-tui/internal/models"
)

func project(id, name string, stripe, paypal bool) models.Project {
	return models.Project{
		ID:     id,
		Name:   name,
		Stripe: models.StripeConfig{Enabled: stripe},
		PayPal: models.PayPalConfig{Enabled: paypal},
	}
}

func ids(projects []models.Project) []string {
	out := make([]string, len(projects))
	for i, p := range projects {
		out[i] = p.ID
	}
	return out
}

func viewWith(sort models.SortMode, filter models.FilterMode, widgets ...models.WidgetPosition) models.ViewState {
	v := models.DefaultViewState()
	v.Preferences.SortBy = sort
	v.Preferences.FilterBy = filter
	v.Layout.Widgets = widgets
	return v
}

func TestArrange(t *testing.T) {
	projects := []models.Project{
		project("alpha", "Alpha", true, false),
		project("beta", "beta", false, true),
		project("gamma", "Gamma", true, true),
		project("delta", "Delta", true, false),
	}
	summaries := map[string]*models.SalesSummary{
		"alpha": {Revenue: 300, GrowthPercent: "5.0"},
		"beta":  {Revenue: 100, GrowthPercent: "25.5"},
		"gamma": {Revenue: 300, GrowthPercent: "-3.0"},
	}
	saved := []models.WidgetPosition{
		{ProjectID: "gamma", Position: 0},
		{ProjectID: "alpha", Position: 1},
		{ProjectID: "ghost", Position: 2},
	}

	tests := []struct {
		name string
		view models.ViewState
		want []string
	}{
		{"DefaultNoLayout", viewWith(models.SortDefault, models.FilterAll), []string{"alpha", "beta", "gamma", "delta"}},
		{"DefaultSavedOrderUnplacedLast", viewWith(models.SortDefault, models.FilterAll, saved...), []string{"gamma", "alpha", "beta", "delta"}},
		{"RevenueDescStableTiesMissingZero", viewWith(models.SortRevenueDesc, models.FilterAll, saved...), []string{"alpha", "gamma", "beta", "delta"}},
		{"RevenueAsc", viewWith(models.SortRevenueAsc, models.FilterAll), []string{"delta", "beta", "alpha", "gamma"}},
		{"GrowthDesc", viewWith(models.SortGrowthDesc, models.FilterAll), []string{"beta", "alpha", "delta", "gamma"}},
		{"NameAscCaseInsensitive", viewWith(models.SortNameAsc, models.FilterAll), []string{"alpha", "beta", "delta", "gamma"}},
		{"FilterStripeOnly", viewWith(models.SortDefault, models.FilterStripe), []string{"alpha", "delta"}},
		{"FilterPayPalOnly", viewWith(models.SortDefault, models.FilterPayPal), []string{"beta"}},
		{"FilterBoth", viewWith(models.SortDefault, models.FilterBoth), []string{"gamma"}},
		{"SortThenFilter", viewWith(models.SortRevenueAsc, models.FilterStripe), []string{"delta", "alpha"}},
		{"UnknownSortIsDefault", viewWith("bogus", models.FilterAll, saved...), []string{"gamma", "alpha", "beta", "delta"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Arrange(projects, summaries, tt.view))
			if !slices.Equal(got, tt.want) {
				t.Errorf("Arrange() = %v, want %v", got, tt.want)
			}
		})
	}

	if got := ids(projects); !slices.Equal(got, []string{"alpha", "beta", "gamma", "delta"}) {
		t.Errorf("Arrange() modified its input: %v", got)
	}
}

func TestOrdered_IgnoresPreferences(t *testing.T) {
	projects := []models.Project{project("a", "A", true, false), project("b", "B", false, true)}
	got := ids(Ordered(projects, []models.WidgetPosition{{ProjectID: "b", Position: 0}}))
	if !slices.Equal(got, []string{"b", "a"}) {
		t.Errorf("Ordered() = %v, want [b a]", got)
	}
}

func TestMoveProject(t *testing.T) {
	order := []models.Project{
		project("a", "A", true, false),
		project("b", "B", true, false),
		project("c", "C", true, false),
	}

	tests := []struct {
		name  string
		id    string
		delta int
		want  []string
		ok    bool
	}{
		{"Down", "a", 1, []string{"b", "a", "c"}, true},
		{"Up", "c", -1, []string{"a", "c", "b"}, true},
		{"ToTop", "c", -2, []string{"c", "a", "b"}, true},
		{"PastTop", "a", -1, nil, false},
		{"PastBottom", "c", 1, nil, false},
		{"Unknown", "zzz", 1, nil, false},
		{"NoMove", "b", 0, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			widgets, ok := MoveProject(order, tt.id, tt.delta)
			if ok != tt.ok {
				t.Fatalf("MoveProject() ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			got := make([]string, len(widgets))
			for i, w := range widgets {
				got[i] = w.ProjectID
				if w.Position != i {
					t.Errorf("widget %s position = %d, want %d", w.ProjectID, w.Position, i)
				}
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("MoveProject() = %v, want %v", got, tt.want)
			}
		})
	}
}
