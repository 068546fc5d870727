package app

import (
	"time"

	"github.com/j-veylop/revenue-dashboard-tui/internal/models"
	"github.com/j-veylop/revenue-dashboard-tui/internal/services"
)

// TickMsg is sent periodically to trigger state refresh.
type TickMsg struct {
	Time time.Time
}

// StartLoadingMsg signals that a resource is starting to load.
type StartLoadingMsg struct {
	Resource string
}

// StopLoadingMsg signals that a resource has finished loading.
type StopLoadingMsg struct {
	Resource string
}

// DataLoadedMsg carries a fresh copy of the dashboard data.
type DataLoadedMsg struct {
	Snapshot Snapshot
}

// RefreshDoneMsg is sent when a manual refresh finished.
type RefreshDoneMsg struct {
	Failed int
	Total  int
}

// CurrencyChangedMsg contains the result of switching the display currency.
type CurrencyChangedMsg struct {
	Currency string
	Error    error
}

// PreferencesSavedMsg contains the result of saving view preferences.
type PreferencesSavedMsg struct {
	Preferences models.Preferences
	Error       error
}

// ProjectMovedMsg contains the result of moving a project card.
type ProjectMovedMsg struct {
	ProjectID string
	Delta     int
	Error     error
}

// AddNotificationMsg requests adding a new notification.
type AddNotificationMsg struct {
	Type     NotificationType
	Message  string
	Duration time.Duration
}

// RemoveNotificationMsg requests removal of a notification.
type RemoveNotificationMsg struct {
	ID string
}

// ClearExpiredNotificationsMsg triggers clearing of expired notifications.
type ClearExpiredNotificationsMsg struct{}

// ServiceEventMsg wraps a service event from the service manager.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

// SubscriptionEventMsg is the callback wrapper for service subscription.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}

// CycleCompletedMsg is forwarded to tabs after a refresh cycle finished.
type CycleCompletedMsg struct {
	Generation uint64
}

// ErrorMsg represents a general error.
type ErrorMsg struct {
	Error   error
	Context string
}

// TabSwitchMsg requests switching to a specific tab.
type TabSwitchMsg struct {
	Tab TabID
}

// ToggleHelpMsg toggles the help display.
type ToggleHelpMsg struct{}

// SelectedProjectChangedMsg signals that the selected project changed.
type SelectedProjectChangedMsg struct {
	Index     int
	ProjectID string
}
