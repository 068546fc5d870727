// Package projects provides the project cards tab.
package projects

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/revenue-dashboard-tui/internal/app"
	"github.com/j-veylop/revenue-dashboard-tui/internal/ui/components"
)

// maxActivity is how many recent transactions a detailed card lists.
const maxActivity = 5

type keyMap struct {
	Next  key.Binding
	Prev  key.Binding
	First key.Binding
	Last  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "next project"),
		),
		Prev: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "prev project"),
		),
		First: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "first project"),
		),
		Last: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "last project"),
		),
	}
}

// Model represents the projects tab state.
type Model struct {
	state    *app.State
	keys     keyMap
	viewport viewport.Model
	shareBar components.ShareBar
	width    int
	height   int
}

// New creates a new projects model.
func New(state *app.State) *Model {
	return &Model{
		state:    state,
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
		shareBar: components.NewShareBar(),
	}
}

// Init initializes the projects tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the projects tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	before := m.state.GetSelectedIndex()
	count := m.state.GetProjectCount()

	switch {
	case key.Matches(keyMsg, m.keys.Next):
		m.state.MoveSelection(1)
	case key.Matches(keyMsg, m.keys.Prev):
		m.state.MoveSelection(-1)
	case key.Matches(keyMsg, m.keys.First):
		m.state.SetSelectedIndex(0)
	case key.Matches(keyMsg, m.keys.Last):
		m.state.SetSelectedIndex(count - 1)
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(keyMsg)
		return m, cmd
	}

	after := m.state.GetSelectedIndex()
	if after == before || after < 0 {
		return m, nil
	}
	p, _ := m.state.SelectedProject()
	return m, func() tea.Msg {
		return app.SelectedProjectChangedMsg{Index: after, ProjectID: p.ID}
	}
}

// SetSize sets the available size for the projects tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = max(width-6, 0)
	m.viewport.Height = max(height-2, 0)
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Next, m.keys.Prev, m.keys.First, m.keys.Last}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Next, m.keys.Prev},
		{m.keys.First, m.keys.Last},
	}
}
