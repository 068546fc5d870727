package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/revenue-dashboard-tui/internal/models"
	"github.com/j-veylop/revenue-dashboard-tui/internal/services"
)

const (
	// DefaultTickInterval is the default interval between ticks.
	DefaultTickInterval = 2 * time.Second

	// DefaultNotificationDuration is the default duration for notifications.
	DefaultNotificationDuration = 5 * time.Second

	// QuickNotificationDuration is for brief notifications.
	QuickNotificationDuration = 3 * time.Second

	// LongNotificationDuration is for important notifications.
	LongNotificationDuration = 10 * time.Second
)

func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

func defaultTickCmd() tea.Cmd {
	return tickCmd(DefaultTickInterval)
}

// takeSnapshot copies the current dashboard data out of the manager.
func takeSnapshot(mgr *services.Manager) Snapshot {
	return Snapshot{
		Projects:  mgr.ArrangedProjects(),
		Entries:   mgr.Entries(),
		Portfolio: mgr.Portfolio(),
		View:      mgr.View(),
		Stats:     mgr.RefreshStats(),
		Rates:     mgr.RatesStatus(),
	}
}

// loadDataCmd returns a command that loads the dashboard data.
func loadDataCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		return DataLoadedMsg{Snapshot: takeSnapshot(mgr)}
	}
}

// refreshCmd clears the cached summaries and refetches every project.
func refreshCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		mgr.Refresh()
		stats := mgr.RefreshStats()
		return RefreshDoneMsg{Failed: stats.Failed, Total: stats.Projects}
	}
}

// cycleCurrencyCmd switches to the next display currency.
func cycleCurrencyCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		code, err := mgr.CyclePreferredCurrency()
		return CurrencyChangedMsg{Currency: code, Error: err}
	}
}

// savePreferencesCmd persists view preferences.
func savePreferencesCmd(mgr *services.Manager, prefs models.Preferences) tea.Cmd {
	return func() tea.Msg {
		err := mgr.SetPreferences(prefs)
		return PreferencesSavedMsg{Preferences: prefs, Error: err}
	}
}

// moveProjectCmd moves a project card within the saved layout.
func moveProjectCmd(mgr *services.Manager, id string, delta int) tea.Cmd {
	return func() tea.Msg {
		err := mgr.MoveProject(id, delta)
		return ProjectMovedMsg{ProjectID: id, Delta: delta, Error: err}
	}
}

// subscribeToServicesCmd returns a command that subscribes to service events.
func subscribeToServicesCmd(mgr *services.Manager) tea.Cmd {
	ch, _ := mgr.Subscribe()
	return func() tea.Msg {
		return SubscriptionEventMsg{Channel: ch}
	}
}

// waitForServiceEventCmd returns a command that waits for the next service event.
func waitForServiceEventCmd(ch <-chan services.ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return ServiceEventMsg{Event: event}
	}
}

// clearNotificationCmd returns a command that removes a notification after a delay.
func clearNotificationCmd(id string, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(_ time.Time) tea.Msg {
		return RemoveNotificationMsg{ID: id}
	})
}

func notifyCmd(t NotificationType, message string, d time.Duration) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{Type: t, Message: message, Duration: d}
	}
}

func notifySuccessCmd(message string) tea.Cmd {
	return notifyCmd(NotificationSuccess, message, DefaultNotificationDuration)
}

func notifyErrorCmd(message string) tea.Cmd {
	return notifyCmd(NotificationError, message, LongNotificationDuration)
}

func notifyWarningCmd(message string) tea.Cmd {
	return notifyCmd(NotificationWarning, message, DefaultNotificationDuration)
}

func notifyInfoCmd(message string) tea.Cmd {
	return notifyCmd(NotificationInfo, message, QuickNotificationDuration)
}

// Commands exposes the command constructors to the tabs.
type Commands struct {
	manager *services.Manager
}

// NewCommands creates a new Commands instance.
func NewCommands(mgr *services.Manager) *Commands {
	return &Commands{manager: mgr}
}

// Tick returns a tick command with the specified interval.
func (c *Commands) Tick(interval time.Duration) tea.Cmd {
	return tickCmd(interval)
}

// DefaultTick returns a tick command with the default interval.
func (c *Commands) DefaultTick() tea.Cmd {
	return defaultTickCmd()
}

// LoadData returns a command that loads the dashboard data. It returns nil
// without a manager.
func (c *Commands) LoadData() tea.Cmd {
	if c.manager == nil {
		return nil
	}
	return loadDataCmd(c.manager)
}

// Refresh returns a command that refetches every project.
func (c *Commands) Refresh() tea.Cmd {
	if c.manager == nil {
		return nil
	}
	return refreshCmd(c.manager)
}

// CycleCurrency returns a command that switches the display currency.
func (c *Commands) CycleCurrency() tea.Cmd {
	if c.manager == nil {
		return nil
	}
	return cycleCurrencyCmd(c.manager)
}

// SavePreferences returns a command that persists prefs.
func (c *Commands) SavePreferences(prefs models.Preferences) tea.Cmd {
	if c.manager == nil {
		return nil
	}
	return savePreferencesCmd(c.manager, prefs)
}

// MoveProject returns a command that moves a project card.
func (c *Commands) MoveProject(id string, delta int) tea.Cmd {
	if c.manager == nil {
		return nil
	}
	return moveProjectCmd(c.manager, id, delta)
}

// NotifySuccess returns a command that adds a success notification.
func (c *Commands) NotifySuccess(message string) tea.Cmd {
	return notifySuccessCmd(message)
}

// NotifyError returns a command that adds an error notification.
func (c *Commands) NotifyError(message string) tea.Cmd {
	return notifyErrorCmd(message)
}

// NotifyWarning returns a command that adds a warning notification.
func (c *Commands) NotifyWarning(message string) tea.Cmd {
	return notifyWarningCmd(message)
}

// NotifyInfo returns a command that adds an info notification.
func (c *Commands) NotifyInfo(message string) tea.Cmd {
	return notifyInfoCmd(message)
}

// ClearNotification returns a command that removes a notification after a delay.
func (c *Commands) ClearNotification(id string, delay time.Duration) tea.Cmd {
	return clearNotificationCmd(id, delay)
}

// Quit returns a command that quits the application.
func (c *Commands) Quit() tea.Cmd {
	return tea.Quit
}
