// Package history provides the history tab for a project's stored refresh
// snapshots and daily revenue.
package history

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/revenue-dashboard-tui/internal/app"
	"github.com/j-veylop/revenue-dashboard-tui/internal/models"
	"github.com/j-veylop/revenue-dashboard-tui/internal/ui/styles"
)

// Source loads the stored history of a project.
type Source interface {
	ProjectHistory(projectID string, timeRange models.TimeRange) (*models.ProjectHistory, error)
}

// maxTableRows caps the snapshot table.
const maxTableRows = 10

type keyMap struct {
	ToggleRange key.Binding
	NextProject key.Binding
	PrevProject key.Binding
	Up          key.Binding
	Down        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		ToggleRange: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "toggle time range"),
		),
		NextProject: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next project"),
		),
		PrevProject: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "prev project"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
	}
}

type historyLoadedMsg struct {
	projectID string
	timeRange models.TimeRange
	history   *models.ProjectHistory
}

type historyErrorMsg struct {
	projectID string
	err       error
}

// Model represents the history tab state.
type Model struct {
	state    *app.State
	source   Source
	keys     keyMap
	viewport viewport.Model
	table    table.Model
	width    int
	height   int

	timeRange models.TimeRange
	projectID string
	history   *models.ProjectHistory
	loading   bool
	err       error
}

// New creates a new history model. A nil source renders a notice instead of
// history.
func New(state *app.State, source Source) *Model {
	t := table.New(
		table.WithColumns(columns(80)),
		table.WithFocused(false),
		table.WithHeight(maxTableRows),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Subtle).
		BorderBottom(true).
		Bold(true).
		Foreground(styles.Primary)
	s.Selected = s.Cell
	t.SetStyles(s)

	return &Model{
		state:     state,
		source:    source,
		keys:      defaultKeyMap(),
		viewport:  viewport.New(0, 0),
		table:     t,
		timeRange: models.TimeRange30Days,
	}
}

// Init initializes the history tab. History loads when the tab is shown.
func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) load() tea.Cmd {
	p, ok := m.state.SelectedProject()
	if !ok || m.source == nil {
		m.projectID = ""
		m.history = nil
		m.loading = false
		return nil
	}

	if p.ID != m.projectID {
		m.history = nil
	}
	m.projectID = p.ID
	m.loading = true
	m.err = nil

	source, id, tr := m.source, p.ID, m.timeRange
	return func() tea.Msg {
		h, err := source.ProjectHistory(id, tr)
		if err != nil {
			return historyErrorMsg{projectID: id, err: err}
		}
		return historyLoadedMsg{projectID: id, timeRange: tr, history: h}
	}
}

// Update handles messages for the history tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.projectID != m.projectID || msg.timeRange != m.timeRange {
			return m, nil
		}
		m.loading = false
		m.history = msg.history
		rows := snapshotRows(msg.history)
		m.table.SetRows(rows)
		m.table.SetHeight(min(len(rows), maxTableRows) + 2)

	case historyErrorMsg:
		if msg.projectID != m.projectID {
			return m, nil
		}
		m.loading = false
		m.err = msg.err
		return m, func() tea.Msg {
			return app.AddNotificationMsg{
				Type:     app.NotificationError,
				Message:  "History error: " + msg.err.Error(),
				Duration: app.LongNotificationDuration,
			}
		}

	case app.TabSwitchMsg:
		if msg.Tab == app.TabHistory {
			return m, m.load()
		}

	case app.SelectedProjectChangedMsg, app.CycleCompletedMsg:
		return m, m.load()

	case tea.KeyMsg:
		return m, m.handleKeyMsg(msg)
	}

	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.ToggleRange):
		m.timeRange = m.timeRange.Next()
		return m.load()

	case key.Matches(msg, m.keys.NextProject), key.Matches(msg, m.keys.PrevProject):
		delta := 1
		if key.Matches(msg, m.keys.PrevProject) {
			delta = -1
		}
		id := m.state.MoveSelection(delta)
		if id == "" || id == m.projectID {
			return nil
		}
		idx := m.state.GetSelectedIndex()
		return tea.Batch(m.load(), func() tea.Msg {
			return app.SelectedProjectChangedMsg{Index: idx, ProjectID: id}
		})

	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}
}

// SetSize sets the available size for the history tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = max(width-6, 0)
	m.viewport.Height = max(height-2, 0)
	m.table.SetColumns(columns(max(width-14, 60)))
	m.table.SetWidth(max(width-14, 60))
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.ToggleRange,
		m.keys.NextProject,
		m.keys.PrevProject,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.ToggleRange},
		{m.keys.NextProject, m.keys.PrevProject},
		{m.keys.Up, m.keys.Down},
	}
}
