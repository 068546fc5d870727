// Package app implements the main Bubble Tea application with tab-based navigation.
package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/revenue-dashboard-tui/internal/models"
	"github.com/j-veylop/revenue-dashboard-tui/internal/services"
	"github.com/j-veylop/revenue-dashboard-tui/internal/services/currency"
	"github.com/j-veylop/revenue-dashboard-tui/internal/ui/styles"
)

// TabID represents the identifier for a tab in the application.
type TabID int

const (
	// TabOverview is the ID for the portfolio overview tab.
	TabOverview TabID = iota
	// TabProjects is the ID for the project cards tab.
	TabProjects
	// TabHistory is the ID for the history tab.
	TabHistory
	// TabInfo is the ID for the info tab.
	TabInfo
)

var tabNames = []string{"Overview", "Projects", "History", "Info"}

// String returns the string representation of the TabID.
func (t TabID) String() string {
	if t < 0 || int(t) >= len(tabNames) {
		return "Unknown"
	}
	return tabNames[t]
}

// Tab defines the interface that all tabs must implement.
type Tab interface {
	// Init initializes the tab and returns any initial commands.
	Init() tea.Cmd

	// Update handles messages and returns the updated tab and any commands.
	Update(msg tea.Msg) (Tab, tea.Cmd)

	// View renders the tab content.
	View() string

	// SetSize sets the available size for the tab.
	SetSize(width, height int)

	// ShortHelp returns key bindings for the short help view.
	ShortHelp() []key.Binding

	// FullHelp returns key bindings for the full help view.
	FullHelp() [][]key.Binding
}

// KeyMap defines the global keybindings of the application.
type KeyMap struct {
	Tab1     key.Binding
	Tab2     key.Binding
	Tab3     key.Binding
	Tab4     key.Binding
	NextTab  key.Binding
	PrevTab  key.Binding
	Refresh  key.Binding
	ViewMode key.Binding
	Sort     key.Binding
	Filter   key.Binding
	Currency key.Binding
	MoveUp   key.Binding
	MoveDown key.Binding
	Help     key.Binding
	Quit     key.Binding
	Escape   key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Tab1:     key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "overview")),
		Tab2:     key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "projects")),
		Tab3:     key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "history")),
		Tab4:     key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "info")),
		NextTab:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		PrevTab:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev tab")),
		Refresh:  key.NewBinding(key.WithKeys("r", "ctrl+r"), key.WithHelp("r", "refresh")),
		ViewMode: key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "compact/detailed")),
		Sort:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
		Filter:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter")),
		Currency: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "currency")),
		MoveUp:   key.NewBinding(key.WithKeys("K"), key.WithHelp("K", "move up")),
		MoveDown: key.NewBinding(key.WithKeys("J"), key.WithHelp("J", "move down")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Escape:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Refresh, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab1, k.Tab2, k.Tab3, k.Tab4},
		{k.NextTab, k.PrevTab},
		{k.Refresh, k.ViewMode, k.Sort, k.Filter, k.Currency},
		{k.MoveUp, k.MoveDown},
		{k.Help, k.Quit},
	}
}

// Styles defines the application styles.
type Styles struct {
	// Tab bar styles
	TabBar      lipgloss.Style
	ActiveTab   lipgloss.Style
	InactiveTab lipgloss.Style
	StatusBar   lipgloss.Style

	// Notification styles
	NotificationSuccess lipgloss.Style
	NotificationError   lipgloss.Style
	NotificationWarning lipgloss.Style
	NotificationInfo    lipgloss.Style

	Content   lipgloss.Style
	Toast     lipgloss.Style
	Title     lipgloss.Style
	Subtle    lipgloss.Style
	Highlight lipgloss.Style
}

// DefaultStyles returns the default application styles.
func DefaultStyles() Styles {
	subtle := lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"}
	highlight := lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}

	return Styles{
		TabBar: lipgloss.NewStyle().Padding(0, 1).BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).BorderForeground(subtle),
		ActiveTab:   lipgloss.NewStyle().Bold(true).Foreground(highlight).Padding(0, 2),
		InactiveTab: lipgloss.NewStyle().Foreground(subtle).Padding(0, 2),
		StatusBar:   lipgloss.NewStyle().Foreground(subtle).Padding(0, 1),

		NotificationSuccess: lipgloss.NewStyle().Foreground(styles.Success).Padding(0, 1),
		NotificationError:   lipgloss.NewStyle().Foreground(styles.Error).Bold(true).Padding(0, 1),
		NotificationWarning: lipgloss.NewStyle().Foreground(styles.Warning).Padding(0, 1),
		NotificationInfo:    lipgloss.NewStyle().Foreground(styles.Info).Padding(0, 1),

		Content:   lipgloss.NewStyle().Padding(1, 2),
		Toast:     styles.ToastStyle,
		Title:     lipgloss.NewStyle().Bold(true).Foreground(highlight),
		Subtle:    lipgloss.NewStyle().Foreground(subtle),
		Highlight: lipgloss.NewStyle().Foreground(highlight),
	}
}

// Model is the main application model.
type Model struct {
	activeTab TabID
	tabs      []Tab

	state    *State
	services *services.Manager
	commands *Commands
	keymap   KeyMap
	styles   Styles

	spinner spinner.Model

	width  int
	height int

	showHelp bool
	ready    bool

	eventChannel chan services.ServiceEvent
}

// NewModel initializes a new application model. A nil manager gives a model
// that renders but never loads data.
func NewModel(mgr *services.Manager) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	return &Model{
		activeTab: TabOverview,
		tabs:      make([]Tab, len(tabNames)),
		state:     NewState(),
		services:  mgr,
		commands:  NewCommands(mgr),
		keymap:    DefaultKeyMap(),
		styles:    DefaultStyles(),
		spinner:   s,
	}
}

// SetTabs sets the tabs for the model.
func (m *Model) SetTabs(tabs []Tab) {
	m.tabs = tabs
	if m.width > 0 && m.height > 0 {
		m.updateTabSizes()
	}
}

// GetState returns the application state.
func (m *Model) GetState() *State {
	return m.state
}

// GetCommands returns the commands helper.
func (m *Model) GetCommands() *Commands {
	return m.commands
}

// GetActiveTab returns the currently active tab ID.
func (m *Model) GetActiveTab() TabID {
	return m.activeTab
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	m.state.SetLoadingNotification("Loading projects...")

	cmds := []tea.Cmd{
		m.spinner.Tick,
		defaultTickCmd(),
	}

	if m.services != nil {
		cmds = append(cmds, subscribeToServicesCmd(m.services), loadDataCmd(m.services))
	}

	for _, tab := range m.tabs {
		if tab != nil {
			cmds = append(cmds, tab.Init())
		}
	}

	return tea.Batch(cmds...)
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.updateTabSizes()

	case tea.KeyMsg:
		if cmd := m.handleKeyMsg(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
		if m.showHelp || isGlobalKey(msg, m.keymap) {
			return m, tea.Batch(cmds...)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	default:
		cmds = append(cmds, m.handleAppMsg(msg)...)
	}

	if cmd := m.updateActiveTab(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleAppMsg(msg tea.Msg) []tea.Cmd {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case TickMsg:
		m.state.ClearExpiredNotifications()
		cmds = append(cmds, defaultTickCmd())
		// Covers a first cycle that finished before the subscription existed.
		if m.state.IsInitialLoading() && m.services != nil {
			cmds = append(cmds, loadDataCmd(m.services))
		}
	case SubscriptionEventMsg:
		m.eventChannel = msg.Channel
		cmds = append(cmds, waitForServiceEventCmd(m.eventChannel))
	case ServiceEventMsg:
		cmds = append(cmds, m.handleServiceEvent(msg.Event)...)
		if m.eventChannel != nil {
			cmds = append(cmds, waitForServiceEventCmd(m.eventChannel))
		}
	case DataLoadedMsg:
		m.handleDataLoaded(msg)
	case RefreshDoneMsg:
		cmds = append(cmds, m.handleRefreshDone(msg)...)
	case CurrencyChangedMsg:
		cmds = append(cmds, m.handleCurrencyChanged(msg)...)
	case PreferencesSavedMsg:
		if msg.Error != nil {
			cmds = append(cmds, notifyErrorCmd(fmt.Sprintf("Failed to save view: %v", msg.Error)))
		}
		cmds = append(cmds, m.commands.LoadData())
	case ProjectMovedMsg:
		if msg.Error != nil {
			cmds = append(cmds, notifyErrorCmd(fmt.Sprintf("Failed to move project: %v", msg.Error)))
		}
		cmds = append(cmds, m.commands.LoadData())
	case AddNotificationMsg:
		id := m.state.AddNotification(msg.Type, msg.Message, msg.Duration)
		if msg.Duration > 0 {
			cmds = append(cmds, clearNotificationCmd(id, msg.Duration))
		}
	case RemoveNotificationMsg:
		m.state.RemoveNotification(msg.ID)
	case ClearExpiredNotificationsMsg:
		m.state.ClearExpiredNotifications()
	case StartLoadingMsg:
		m.state.SetLoading(msg.Resource, true)
	case StopLoadingMsg:
		m.stopLoading(msg.Resource)
	case ErrorMsg:
		cmds = append(cmds, notifyErrorCmd(msg.Error.Error()))
	case TabSwitchMsg:
		m.activeTab = msg.Tab
		m.updateTabSizes()
	case ToggleHelpMsg:
		m.showHelp = !m.showHelp
	}
	return cmds
}

func (m *Model) stopLoading(resource string) {
	m.state.SetLoading(resource, false)
	if !m.state.AnyLoading() {
		m.state.ClearLoadingNotification()
	}
}

func (m *Model) handleDataLoaded(msg DataLoadedMsg) {
	m.state.SetSnapshot(msg.Snapshot)
	if m.state.IsInitialLoading() && !msg.Snapshot.Stats.LastCompleted.IsZero() {
		m.stopLoading(ResourceInitial)
	}
}

func (m *Model) handleRefreshDone(msg RefreshDoneMsg) []tea.Cmd {
	m.stopLoading(ResourceRefresh)

	cmds := []tea.Cmd{m.commands.LoadData()}
	if msg.Failed > 0 {
		cmds = append(cmds, notifyWarningCmd(fmt.Sprintf("Refreshed %d projects, %d failed", msg.Total, msg.Failed)))
	} else {
		cmds = append(cmds, notifySuccessCmd(fmt.Sprintf("Refreshed %d projects", msg.Total)))
	}
	return cmds
}

func (m *Model) handleCurrencyChanged(msg CurrencyChangedMsg) []tea.Cmd {
	m.stopLoading(ResourceCurrency)

	if msg.Error != nil {
		return []tea.Cmd{notifyErrorCmd(fmt.Sprintf("Failed to switch currency: %v", msg.Error))}
	}
	return []tea.Cmd{
		m.commands.LoadData(),
		notifySuccessCmd("Showing amounts in " + msg.Currency),
	}
}

func (m *Model) handleServiceEvent(event services.ServiceEvent) []tea.Cmd {
	cmds := []tea.Cmd{m.commands.LoadData()}

	switch e := event.(type) {
	case services.RefreshStartedEvent:
		if !m.state.IsInitialLoading() {
			m.state.SetLoadingNotification("Refreshing...")
		}

	case services.CycleCompletedEvent:
		m.stopLoading(ResourceInitial)
		cmds = append(cmds, func() tea.Msg { return CycleCompletedMsg{Generation: e.Generation} })

	case services.NewSalesEvent:
		noun := "New sale"
		if len(e.Names) > 1 {
			noun = "New sales"
		}
		cmds = append(cmds, notifySuccessCmd(fmt.Sprintf("%s: %s", noun, strings.Join(e.Names, ", "))))

	case services.ErrorEvent:
		err := e.Error
		if err == nil {
			err = errors.New("unknown error")
		}
		cmds = append(cmds, notifyErrorCmd(fmt.Sprintf("[%s] %v", e.Service, err)))
	}

	return cmds
}

func (m *Model) updateActiveTab(msg tea.Msg) tea.Cmd {
	if int(m.activeTab) < len(m.tabs) && m.tabs[m.activeTab] != nil {
		var cmd tea.Cmd
		m.tabs[m.activeTab], cmd = m.tabs[m.activeTab].Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) updateTabSizes() {
	// Tab bar, its border and the status line.
	contentHeight := max(m.height-4, 0)

	for _, tab := range m.tabs {
		if tab != nil {
			tab.SetSize(m.width, contentHeight)
		}
	}
}

func (m *Model) switchTab(tab TabID) tea.Cmd {
	return func() tea.Msg { return TabSwitchMsg{Tab: tab} }
}

func isGlobalKey(msg tea.KeyMsg, k KeyMap) bool {
	return key.Matches(msg,
		k.Quit, k.Help, k.Tab1, k.Tab2, k.Tab3, k.Tab4, k.NextTab, k.PrevTab,
		k.Refresh, k.ViewMode, k.Sort, k.Filter, k.Currency, k.MoveUp, k.MoveDown)
}

// handleKeyMsg handles keyboard input that works regardless of tab.
func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	if m.showHelp {
		if key.Matches(msg, m.keymap.Help, m.keymap.Escape) {
			m.showHelp = false
			return nil
		}
		if key.Matches(msg, m.keymap.Quit) {
			return tea.Quit
		}
		return nil
	}

	n := len(m.tabs)
	switch {
	case key.Matches(msg, m.keymap.Quit):
		return tea.Quit
	case key.Matches(msg, m.keymap.Help):
		m.showHelp = true
	case key.Matches(msg, m.keymap.Tab1):
		return m.switchTab(TabOverview)
	case key.Matches(msg, m.keymap.Tab2):
		return m.switchTab(TabProjects)
	case key.Matches(msg, m.keymap.Tab3):
		return m.switchTab(TabHistory)
	case key.Matches(msg, m.keymap.Tab4):
		return m.switchTab(TabInfo)
	case key.Matches(msg, m.keymap.NextTab):
		return m.switchTab(TabID((int(m.activeTab) + 1) % n))
	case key.Matches(msg, m.keymap.PrevTab):
		return m.switchTab(TabID((int(m.activeTab) - 1 + n) % n))
	case key.Matches(msg, m.keymap.Refresh):
		return m.startRefresh()
	case key.Matches(msg, m.keymap.ViewMode):
		prefs := m.state.GetPreferences()
		prefs.ViewMode = prefs.ViewMode.Toggle()
		return m.applyPreferences(prefs)
	case key.Matches(msg, m.keymap.Sort):
		prefs := m.state.GetPreferences()
		prefs.SortBy = models.NextSort(prefs.SortBy)
		return m.applyPreferences(prefs)
	case key.Matches(msg, m.keymap.Filter):
		prefs := m.state.GetPreferences()
		prefs.FilterBy = models.NextFilter(prefs.FilterBy)
		return m.applyPreferences(prefs)
	case key.Matches(msg, m.keymap.Currency):
		return m.startCurrencyCycle()
	case key.Matches(msg, m.keymap.MoveUp):
		return m.moveSelected(-1)
	case key.Matches(msg, m.keymap.MoveDown):
		return m.moveSelected(1)
	}
	return nil
}

func (m *Model) startRefresh() tea.Cmd {
	if m.services == nil || m.state.Loading.Refresh {
		return nil
	}
	m.state.SetLoading(ResourceRefresh, true)
	m.state.SetLoadingNotification("Refreshing all projects...")
	return m.commands.Refresh()
}

func (m *Model) startCurrencyCycle() tea.Cmd {
	if m.services == nil || m.state.Loading.Currency {
		return nil
	}
	next := currency.NextDisplayCurrency(m.state.Currency())
	m.state.SetLoading(ResourceCurrency, true)
	m.state.SetLoadingNotification("Converting to " + next + "...")
	return m.commands.CycleCurrency()
}

func (m *Model) applyPreferences(prefs models.Preferences) tea.Cmd {
	m.state.SetPreferences(prefs)
	return m.commands.SavePreferences(prefs)
}

func (m *Model) moveSelected(delta int) tea.Cmd {
	p, ok := m.state.SelectedProject()
	if !ok {
		return nil
	}
	var cmds []tea.Cmd
	if m.state.GetPreferences().SortBy != models.SortDefault {
		cmds = append(cmds, notifyInfoCmd("Card order is used by the default sort"))
	}
	cmds = append(cmds, m.commands.MoveProject(p.ID, delta))
	return tea.Batch(cmds...)
}

// View renders the application UI.
func (m *Model) View() string {
	var b strings.Builder

	if m.width > 0 {
		b.WriteString(m.renderNavbar())
		b.WriteString("\n")
	}

	if !m.ready {
		b.WriteString(m.styles.Content.Render(fmt.Sprintf("%s Loading...", m.spinner.View())))
		return b.String()
	}

	if int(m.activeTab) < len(m.tabs) && m.tabs[m.activeTab] != nil {
		b.WriteString(m.tabs[m.activeTab].View())
	} else {
		b.WriteString(m.renderPlaceholder())
	}
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())

	mainView := b.String()
	if missing := m.height - lipgloss.Height(mainView); missing > 0 {
		mainView += strings.Repeat("\n", missing)
	}

	if m.showHelp {
		mainView = overlayCentered(mainView, m.renderHelp(), m.width, m.height)
	}

	if toasts := m.renderNotifications(); len(toasts) > 0 {
		stack := lipgloss.JoinVertical(lipgloss.Right, toasts...)
		mainView = overlay(mainView, stack, m.width-lipgloss.Width(stack)-2, 2)
	}

	return mainView
}

func (m *Model) renderNavbar() string {
	tabs := make([]string, 0, len(tabNames))
	for i, name := range tabNames {
		if TabID(i) == m.activeTab {
			tabs = append(tabs, m.styles.ActiveTab.Render(fmt.Sprintf("[%d] %s", i+1, name)))
		} else {
			tabs = append(tabs, m.styles.InactiveTab.Render(fmt.Sprintf(" %d  %s", i+1, name)))
		}
	}

	tabBar := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	return m.styles.TabBar.Width(m.width).Render(tabBar)
}

func (m *Model) renderStatusBar() string {
	prefs := m.state.GetPreferences()
	parts := []string{
		"currency " + prefs.PreferredCurrency,
		"view " + string(prefs.ViewMode),
		"sort " + string(prefs.SortBy),
		"filter " + string(prefs.FilterBy),
	}
	if stats := m.state.GetStats(); !stats.LastCompleted.IsZero() {
		parts = append(parts, "updated "+stats.LastCompleted.Local().Format("15:04:05"))
	}
	parts = append(parts, "? help")
	return m.styles.StatusBar.Render(strings.Join(parts, " · "))
}

func (m *Model) renderNotifications() []string {
	notifications := m.state.GetNotifications()
	if len(notifications) == 0 {
		return nil
	}

	toasts := make([]string, 0, len(notifications))
	for _, n := range notifications {
		var style lipgloss.Style
		var prefix string

		switch n.Type {
		case NotificationSuccess:
			style, prefix = m.styles.NotificationSuccess, "[OK]"
		case NotificationError:
			style, prefix = m.styles.NotificationError, "[ERR]"
		case NotificationWarning:
			style, prefix = m.styles.NotificationWarning, "[WARN]"
		case NotificationInfo:
			style, prefix = m.styles.NotificationInfo, "[INFO]"
		case NotificationLoading:
			style, prefix = m.styles.NotificationInfo, m.spinner.View()
		}

		content := style.Render(fmt.Sprintf("%s %s", prefix, n.Message))
		toasts = append(toasts, m.styles.Toast.Render(content))
	}

	return toasts
}

func (m *Model) renderHelp() string {
	lines := []string{m.styles.Title.Render("Keyboard Shortcuts"), ""}

	section := func(title string, rows ...string) {
		lines = append(lines, m.styles.Highlight.Render(title))
		for _, r := range rows {
			lines = append(lines, "  "+r)
		}
		lines = append(lines, "")
	}

	section("Navigation",
		"1-4        Switch tabs",
		"Tab        Next tab",
		"Shift+Tab  Previous tab",
	)
	section("Dashboard",
		"r          Refresh all projects",
		"v          Compact / detailed cards",
		"s          Cycle sort order",
		"f          Cycle provider filter",
		"c          Cycle display currency",
		"K / J      Move selected project up / down",
	)
	section("General",
		"?          Toggle help",
		"q/Ctrl+C   Quit",
	)

	if int(m.activeTab) < len(m.tabs) && m.tabs[m.activeTab] != nil {
		if tabHelp := m.tabs[m.activeTab].ShortHelp(); len(tabHelp) > 0 {
			lines = append(lines, m.styles.Highlight.Render(fmt.Sprintf("%s Tab", m.activeTab)))
			for _, binding := range tabHelp {
				lines = append(lines, fmt.Sprintf("  %-10s %s", binding.Help().Key, binding.Help().Desc))
			}
			lines = append(lines, "")
		}
	}

	lines = append(lines, m.styles.Subtle.Render("Press ? or Esc to close"))

	return styles.HelpPanelStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderPlaceholder() string {
	content := fmt.Sprintf(
		"Tab %d: %s\n\n%s",
		m.activeTab+1,
		m.activeTab,
		m.styles.Subtle.Render("This tab is not yet implemented."),
	)
	return m.styles.Content.Render(content)
}
