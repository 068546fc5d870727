package history

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/revenue-dashboard-tui/internal/app"
	"github.com/j-veylop/revenue-dashboard-tui/internal/models"
)

type fakeSource struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (f *fakeSource) ProjectHistory(projectID string, tr models.TimeRange) (*models.ProjectHistory, error) {
	f.mu.Lock()
	f.calls = append(f.calls, projectID+":"+tr.String())
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}

	day := time.Date(2024, 2, 8, 0, 0, 0, 0, time.UTC)
	return &models.ProjectHistory{
		ProjectID: projectID,
		Currency:  "NZD",
		TimeRange: tr,
		Daily: []models.DailyRevenuePoint{
			{Day: day, Revenue: 100, Orders: 1},
			{Day: day.AddDate(0, 0, 1), Revenue: 0},
			{Day: day.AddDate(0, 0, 2), Revenue: 250, Orders: 2},
		},
		Snapshots: []models.SalesSnapshot{
			{ProjectID: projectID, Currency: "NZD", Revenue: 1350, Orders: 3, GrowthPercent: "4.5", CapturedAt: time.Now().Add(-time.Hour)},
		},
	}, nil
}

func testState() *app.State {
	s := app.NewState()
	s.SetLoading(app.ResourceInitial, false)
	s.SetSnapshot(app.Snapshot{
		Projects: []models.Project{{ID: "shop", Name: "Shop"}, {ID: "blog", Name: "Blog"}},
		View:     models.DefaultViewState(),
	})
	return s
}

// deliver runs cmd and feeds its message back into the model.
func deliver(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a load command")
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			if c != nil {
				deliver(t, m, c)
			}
		}
		return
	}
	m.Update(msg)
}

func TestModel_Init(t *testing.T) {
	m := New(testState(), &fakeSource{})
	if m.Init() != nil {
		t.Error("Init should not load until the tab is shown")
	}
}

func TestModel_LoadOnTabSwitch(t *testing.T) {
	src := &fakeSource{}
	m := New(testState(), src)
	m.SetSize(120, 80)

	if _, cmd := m.Update(app.TabSwitchMsg{Tab: app.TabOverview}); cmd != nil {
		t.Error("switching to another tab should not load history")
	}

	_, cmd := m.Update(app.TabSwitchMsg{Tab: app.TabHistory})
	if !strings.Contains(m.View(), "Loading history data...") {
		t.Error("View should show loading before the first result")
	}
	deliver(t, m, cmd)

	view := m.View()
	for _, want := range []string{
		"History: Shop",
		"[t] 30 Days",
		"Feb 8, 2024 → Feb 10, 2024 (3 days)",
		"$350",
		"Best day",
		"$250 (Sat Feb 10)",
		"2 of 3",
		"Recent Refreshes",
		"$1,350",
		"1 hour ago",
		"4.5%",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestModel_ToggleRange(t *testing.T) {
	src := &fakeSource{}
	m := New(testState(), src)
	m.SetSize(120, 80)

	_, cmd := m.Update(app.TabSwitchMsg{Tab: app.TabHistory})
	deliver(t, m, cmd)

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("t")})
	deliver(t, m, cmd)

	if m.timeRange != models.TimeRange90Days {
		t.Errorf("timeRange = %v, want 90 days", m.timeRange)
	}
	if got := src.calls[len(src.calls)-1]; got != "shop:90 Days" {
		t.Errorf("last call = %q, want shop:90 Days", got)
	}
	if !strings.Contains(m.View(), "[t] 90 Days") {
		t.Error("View should show the new range")
	}
}

func TestModel_StaleResultsIgnored(t *testing.T) {
	m := New(testState(), &fakeSource{})
	m.SetSize(120, 80)

	_, first := m.Update(app.TabSwitchMsg{Tab: app.TabHistory})
	stale := first()

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("t")})
	m.Update(stale)

	if m.history != nil {
		t.Error("a result for the previous range should be dropped")
	}
}

func TestModel_SwitchProject(t *testing.T) {
	src := &fakeSource{}
	s := testState()
	m := New(s, src)
	m.SetSize(120, 80)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	if cmd == nil {
		t.Fatal("n should load the next project")
	}
	msgs := cmd().(tea.BatchMsg)
	var changed bool
	for _, c := range msgs {
		switch msg := c().(type) {
		case app.SelectedProjectChangedMsg:
			changed = msg.ProjectID == "blog" && msg.Index == 1
		default:
			m.Update(msg)
		}
	}
	if !changed {
		t.Error("n should announce the new selection")
	}
	if p, _ := s.SelectedProject(); p.ID != "blog" {
		t.Errorf("selected = %q, want blog", p.ID)
	}
	if !strings.Contains(m.View(), "History: Blog") {
		t.Error("View should show the new project")
	}

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	if cmd == nil {
		t.Error("p should load the previous project")
	}
}

func TestModel_ReloadTriggers(t *testing.T) {
	src := &fakeSource{}
	m := New(testState(), src)

	for _, msg := range []tea.Msg{
		app.SelectedProjectChangedMsg{Index: 0, ProjectID: "shop"},
		app.CycleCompletedMsg{Generation: 2},
	} {
		_, cmd := m.Update(msg)
		deliver(t, m, cmd)
	}
	if len(src.calls) != 2 {
		t.Errorf("calls = %v, want 2 loads", src.calls)
	}
}

func TestModel_Error(t *testing.T) {
	m := New(testState(), &fakeSource{err: errors.New("database is locked")})
	m.SetSize(120, 40)

	_, cmd := m.Update(app.TabSwitchMsg{Tab: app.TabHistory})
	_, notify := m.Update(cmd())
	if notify == nil {
		t.Fatal("a load error should raise a notification")
	}
	if n, ok := notify().(app.AddNotificationMsg); !ok || n.Type != app.NotificationError {
		t.Errorf("notification = %+v", n)
	}
	if !strings.Contains(m.View(), "database is locked") {
		t.Error("View should show the error")
	}
}

func TestModel_Notices(t *testing.T) {
	m := New(testState(), nil)
	m.SetSize(100, 30)
	if _, cmd := m.Update(app.TabSwitchMsg{Tab: app.TabHistory}); cmd != nil {
		t.Error("no source means nothing to load")
	}
	if !strings.Contains(m.View(), "History is unavailable") {
		t.Error("View should explain missing history")
	}

	empty := app.NewState()
	m = New(empty, &fakeSource{})
	m.SetSize(100, 30)
	m.Update(app.TabSwitchMsg{Tab: app.TabHistory})
	if !strings.Contains(m.View(), "No project selected") {
		t.Error("View should ask for a project")
	}
}

func TestModel_Help(t *testing.T) {
	m := New(testState(), nil)
	if len(m.ShortHelp()) != 3 {
		t.Errorf("ShortHelp() = %d bindings, want 3", len(m.ShortHelp()))
	}
	if len(m.FullHelp()) != 3 {
		t.Errorf("FullHelp() = %d groups, want 3", len(m.FullHelp()))
	}
}
