// Package app provides the main Bubble Tea application model and state management.
package app

import (
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/j-veylop/revenue-dashboard-tui/internal/models"
	"github.com/j-veylop/revenue-dashboard-tui/internal/services/currency"
	"github.com/j-veylop/revenue-dashboard-tui/internal/services/refresh"
	"github.com/j-veylop/revenue-dashboard-tui/internal/services/store"
)

// NotificationType defines the type of notification.
type NotificationType int

const (
	// NotificationSuccess represents a success notification.
	NotificationSuccess NotificationType = iota
	// NotificationError represents an error notification.
	NotificationError
	// NotificationWarning represents a warning notification.
	NotificationWarning
	// NotificationInfo represents an informational notification.
	NotificationInfo
	// NotificationLoading represents a loading notification with spinner.
	NotificationLoading
)

const (
	// LoadingNotificationID is the fixed ID for loading notifications.
	LoadingNotificationID = "__loading__"

	maxNotifications = 10
)

// String returns the string representation of a NotificationType.
func (n NotificationType) String() string {
	switch n {
	case NotificationSuccess:
		return "success"
	case NotificationError:
		return "error"
	case NotificationWarning:
		return "warning"
	case NotificationInfo:
		return "info"
	case NotificationLoading:
		return "loading"
	default:
		return "unknown"
	}
}

// Notification represents a user-facing notification message.
type Notification struct {
	ID        string
	Type      NotificationType
	Message   string
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired returns true if the notification has expired.
func (n *Notification) IsExpired() bool {
	if n.Duration <= 0 {
		return false
	}
	return time.Since(n.CreatedAt) > n.Duration
}

// Resource names accepted by SetLoading.
const (
	ResourceInitial  = "initial"
	ResourceRefresh  = "refresh"
	ResourceCurrency = "currency"
	ResourceHistory  = "history"
)

// LoadingState tracks loading states for different resources.
type LoadingState struct {
	Initial  bool
	Refresh  bool
	Currency bool
	History  bool
}

// Snapshot is a consistent copy of the dashboard data taken from the
// service manager.
type Snapshot struct {
	// Projects are ordered, sorted and filtered by the view preferences.
	Projects  []models.Project
	Entries   map[string]store.Entry
	Portfolio models.PortfolioSummary
	View      models.ViewState
	Stats     refresh.Stats
	Rates     currency.Status
}

// State is the data shared by the root model and all tabs.
type State struct {
	mu sync.RWMutex

	projects   []models.Project
	entries    map[string]store.Entry
	portfolio  models.PortfolioSummary
	view       models.ViewState
	stats      refresh.Stats
	rates      currency.Status
	selectedID string

	Loading LoadingState

	LastUpdated time.Time

	notifications   []Notification
	notificationSeq int
}

// NewState creates an empty state that is waiting for its first load.
func NewState() *State {
	return &State{
		entries:       make(map[string]store.Entry),
		view:          models.DefaultViewState(),
		notifications: make([]Notification, 0),
		Loading: LoadingState{
			Initial: true,
		},
	}
}

// SetLoading sets the loading state for a specific resource.
func (s *State) SetLoading(resource string, loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch resource {
	case ResourceInitial:
		s.Loading.Initial = loading
	case ResourceRefresh:
		s.Loading.Refresh = loading
	case ResourceCurrency:
		s.Loading.Currency = loading
	case ResourceHistory:
		s.Loading.History = loading
	}
}

// AnyLoading returns true if any resource is currently loading.
func (s *State) AnyLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.Loading.Initial ||
		s.Loading.Refresh ||
		s.Loading.Currency ||
		s.Loading.History
}

// IsInitialLoading returns true if initial data is still loading.
func (s *State) IsInitialLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Loading.Initial
}

// GetLoadingResources returns a list of currently loading resources.
func (s *State) GetLoadingResources() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var resources []string
	if s.Loading.Initial {
		resources = append(resources, ResourceInitial)
	}
	if s.Loading.Refresh {
		resources = append(resources, ResourceRefresh)
	}
	if s.Loading.Currency {
		resources = append(resources, ResourceCurrency)
	}
	if s.Loading.History {
		resources = append(resources, ResourceHistory)
	}
	return resources
}

// SetSnapshot replaces the dashboard data. The selected project is kept
// when it is still visible, otherwise the first visible project is selected.
func (s *State) SetSnapshot(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.projects = slices.Clone(snap.Projects)
	s.entries = maps.Clone(snap.Entries)
	if s.entries == nil {
		s.entries = make(map[string]store.Entry)
	}
	s.portfolio = snap.Portfolio
	s.view = snap.View
	s.stats = snap.Stats
	s.rates = snap.Rates
	s.LastUpdated = time.Now()

	if s.indexOfLocked(s.selectedID) < 0 {
		s.selectedID = ""
		if len(s.projects) > 0 {
			s.selectedID = s.projects[0].ID
		}
	}
}

// GetProjects returns the visible projects in display order.
func (s *State) GetProjects() []models.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.projects)
}

// GetProjectCount returns the number of visible projects.
func (s *State) GetProjectCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.projects)
}

// GetEntry returns the stored result of a project.
func (s *State) GetEntry(projectID string) (store.Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[projectID]
	return e, ok
}

// GetSummary returns the current summary of a project, or nil.
func (s *State) GetSummary(projectID string) *models.SalesSummary {
	e, ok := s.GetEntry(projectID)
	if !ok {
		return nil
	}
	return e.Summary
}

// GetPortfolio returns the combined summary.
func (s *State) GetPortfolio() models.PortfolioSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.portfolio
}

// GetView returns the view state.
func (s *State) GetView() models.ViewState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

// GetPreferences returns the view preferences.
func (s *State) GetPreferences() models.Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view.Preferences
}

// SetPreferences updates the preferences ahead of the next snapshot so the
// change shows immediately.
func (s *State) SetPreferences(prefs models.Preferences) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.Preferences = prefs.Normalize()
}

// Currency returns the display currency.
func (s *State) Currency() string {
	return s.GetPreferences().PreferredCurrency
}

// GetStats returns the refresh statistics.
func (s *State) GetStats() refresh.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

// GetRatesStatus returns the exchange rate status.
func (s *State) GetRatesStatus() currency.Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rates
}

func (s *State) indexOfLocked(id string) int {
	if id == "" {
		return -1
	}
	return slices.IndexFunc(s.projects, func(p models.Project) bool { return p.ID == id })
}

// GetSelectedIndex returns the position of the selected project, or -1.
func (s *State) GetSelectedIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexOfLocked(s.selectedID)
}

// SelectedProject returns the selected project.
func (s *State) SelectedProject() (models.Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOfLocked(s.selectedID)
	if i < 0 {
		return models.Project{}, false
	}
	return s.projects[i], true
}

// SetSelectedIndex selects the project at idx. Out of range values are
// clamped.
func (s *State) SetSelectedIndex(idx int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.projects) == 0 {
		s.selectedID = ""
		return
	}
	idx = min(max(idx, 0), len(s.projects)-1)
	s.selectedID = s.projects[idx].ID
}

// MoveSelection moves the selection by delta, wrapping around both ends.
// It returns the newly selected project id.
func (s *State) MoveSelection(delta int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.projects)
	if n == 0 {
		return ""
	}
	i := max(s.indexOfLocked(s.selectedID), 0)
	i = ((i+delta)%n + n) % n
	s.selectedID = s.projects[i].ID
	return s.selectedID
}

// AddNotification adds a new notification and returns its ID.
func (s *State) AddNotification(notifType NotificationType, message string, duration time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notificationSeq++
	now := time.Now()
	id := fmt.Sprintf("%s-%d", now.Format("20060102150405"), s.notificationSeq)

	s.notifications = append(s.notifications, Notification{
		ID:        id,
		Type:      notifType,
		Message:   message,
		CreatedAt: now,
		Duration:  duration,
	})

	if len(s.notifications) > maxNotifications {
		s.notifications = s.notifications[len(s.notifications)-maxNotifications:]
	}

	return id
}

// RemoveNotification removes a notification by ID.
func (s *State) RemoveNotification(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notifications = slices.DeleteFunc(s.notifications, func(n Notification) bool {
		return n.ID == id
	})
}

// ClearExpiredNotifications removes all expired notifications.
func (s *State) ClearExpiredNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notifications = slices.DeleteFunc(s.notifications, func(n Notification) bool {
		return n.IsExpired()
	})
}

// GetNotifications returns a copy of all active notifications.
func (s *State) GetNotifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}
	return active
}

// ClearAllNotifications removes all notifications.
func (s *State) ClearAllNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = make([]Notification, 0)
}

// SetLoadingNotification sets a loading notification message.
func (s *State) SetLoadingNotification(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications[i].Message = message
			return
		}
	}

	s.notifications = append(s.notifications, Notification{
		ID:        LoadingNotificationID,
		Type:      NotificationLoading,
		Message:   message,
		CreatedAt: time.Now(),
	})
}

// ClearLoadingNotification removes the loading notification.
func (s *State) ClearLoadingNotification() {
	s.RemoveNotification(LoadingNotificationID)
}

// GetLastUpdated returns the last time the state was updated.
func (s *State) GetLastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.LastUpdated
}

// TimeSinceUpdate returns the duration since the last update.
func (s *State) TimeSinceUpdate() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.LastUpdated.IsZero() {
		return 0
	}
	return time.Since(s.LastUpdated)
}
