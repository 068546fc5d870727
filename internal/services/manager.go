// Package services provides service orchestration for the TUI.
package services

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"

	"github.com/j-veylop/revenue-dashboard-tui/internal/config"
	"github.com/j-veylop/revenue-dashboard-tui/internal/db"
	"github.com/j-veylop/revenue-dashboard-tui/internal/logger"
	"github.com/j-veylop/revenue-dashboard-tui/internal/models"
	"github.com/j-veylop/revenue-dashboard-tui/internal/services/currency"
	"github.com/j-veylop/revenue-dashboard-tui/internal/services/layout"
	"github.com/j-veylop/revenue-dashboard-tui/internal/services/providers"
	"github.com/j-veylop/revenue-dashboard-tui/internal/services/refresh"
	"github.com/j-veylop/revenue-dashboard-tui/internal/services/sales"
	"github.com/j-veylop/revenue-dashboard-tui/internal/services/store"
)

const snapshotHistoryLimit = 50

type (
	// RefreshStartedEvent is emitted when a refresh cycle begins.
	RefreshStartedEvent struct {
		Generation uint64
	}

	// ProjectUpdatedEvent is emitted when a project summary is stored.
	ProjectUpdatedEvent struct {
		ProjectID string
		Summary   *models.SalesSummary
	}

	// ProjectErrorEvent is emitted when a project fetch fails.
	ProjectErrorEvent struct {
		ProjectID string
		Error     error
	}

	// CycleCompletedEvent is emitted after every project of a cycle finished
	// and the results were persisted.
	CycleCompletedEvent struct {
		Generation uint64
		Portfolio  models.PortfolioSummary
	}

	// NewSalesEvent is emitted when a cycle saw more orders than the last one.
	NewSalesEvent struct {
		ProjectIDs []string
		Names      []string
	}

	// ViewChangedEvent is emitted when the view state changes.
	ViewChangedEvent struct {
		View models.ViewState
	}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Service string
		Error   error
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (RefreshStartedEvent) isServiceEvent() {}
func (ProjectUpdatedEvent) isServiceEvent() {}
func (ProjectErrorEvent) isServiceEvent()   {}
func (CycleCompletedEvent) isServiceEvent() {}
func (NewSalesEvent) isServiceEvent()       {}
func (ViewChangedEvent) isServiceEvent()    {}
func (ErrorEvent) isServiceEvent()          {}

// RateService supplies exchange rates and can drop its cached table.
type RateService interface {
	Rates(ctx context.Context) currency.RateTable
	Invalidate()
	Status() currency.Status
}

// Options override collaborators of the manager. Zero values select the
// production implementations.
type Options struct {
	Source   sales.DataSource
	Rates    RateService
	Notifier Notifier
	Now      func() time.Time
}

// Manager orchestrates services and event routing.
type Manager struct {
	mu          sync.RWMutex
	cfg         *config.Config
	projects    []models.Project
	rates       RateService
	refresh     *refresh.Service
	layout      *layout.Service
	database    *db.DB
	notifier    Notifier
	now         func() time.Time
	eventChan   chan ServiceEvent
	stopChan    chan struct{}
	closeOnce   sync.Once
	subscribers []chan<- ServiceEvent
	currency    string
}

// NewManager creates a new service manager.
func NewManager(cfg *config.Config) (*Manager, error) {
	return NewManagerWithOptions(cfg, Options{})
}

// NewManagerWithOptions creates a manager with some collaborators replaced.
func NewManagerWithOptions(cfg *config.Config, opts Options) (*Manager, error) {
	m := &Manager{
		cfg:       cfg,
		projects:  slices.Clone(cfg.Projects),
		rates:     opts.Rates,
		notifier:  opts.Notifier,
		now:       opts.Now,
		eventChan: make(chan ServiceEvent, 100),
		stopChan:  make(chan struct{}),
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.notifier == nil {
		if cfg.Notifications {
			m.notifier = DesktopNotifier{}
		} else {
			m.notifier = noopNotifier{}
		}
	}
	if m.rates == nil {
		client := &http.Client{Timeout: cfg.HTTPTimeout}
		m.rates = currency.NewService(cfg.ExchangeRatesURL, client, 0)
	}

	source := opts.Source
	if source == nil {
		pcfg := providers.DefaultConfig()
		if cfg.HTTPTimeout > 0 {
			pcfg.Timeout = cfg.HTTPTimeout
		}
		source = providers.New(pcfg)
	}

	var err error
	m.layout, err = layout.New(cfg.ViewPath)
	if err != nil {
		return nil, err
	}
	m.currency = m.layout.Preferences().PreferredCurrency

	m.database, err = db.New(cfg.DatabasePath)
	if err != nil {
		_ = m.layout.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	engine := sales.NewEngine()
	engine.Now = m.now

	refreshConfig := refresh.DefaultConfig()
	refreshConfig.PollInterval = cfg.RefreshInterval
	refreshConfig.MaxConcurrent = cfg.MaxConcurrentFetches

	m.refresh = refresh.New(refresh.Deps{
		Projects: m.projects,
		Source:   source,
		Rates:    m.rates,
		Currency: m.preferredCurrency,
		Store:    store.New(),
		Engine:   engine,
	}, refreshConfig)

	go m.routeEvents()

	return m, nil
}

// Start begins periodic refreshing, starting with an immediate cycle.
func (m *Manager) Start() {
	m.refresh.Start()
}

func (m *Manager) preferredCurrency() string {
	return m.layout.Preferences().PreferredCurrency
}

// routeEvents routes events from individual services to subscribers.
func (m *Manager) routeEvents() {
	for {
		select {
		case event := <-m.refresh.Events():
			m.handleRefreshEvent(event)

		case event := <-m.layout.Events():
			m.handleLayoutEvent(event)

		case <-m.stopChan:
			return
		}
	}
}

func (m *Manager) handleRefreshEvent(event refresh.Event) {
	switch event.Type {
	case refresh.EventRefreshStarted:
		m.broadcast(RefreshStartedEvent{Generation: event.Generation})

	case refresh.EventProjectUpdated:
		m.broadcast(ProjectUpdatedEvent{ProjectID: event.ProjectID, Summary: event.Summary})

	case refresh.EventProjectError:
		m.broadcast(ProjectErrorEvent{ProjectID: event.ProjectID, Error: event.Error})

	case refresh.EventCycleCompleted:
		m.checkNewSales(event.Previous, event.Current)
		m.persistCycle(event.Current)
		m.broadcast(CycleCompletedEvent{
			Generation: event.Generation,
			Portfolio:  sales.Summarize(m.projects, event.Current, m.now()),
		})
	}
}

func (m *Manager) handleLayoutEvent(event layout.Event) {
	switch event.Type {
	case layout.EventViewLoaded, layout.EventViewChanged:
		m.broadcast(ViewChangedEvent{View: event.View})

		code := event.View.Preferences.PreferredCurrency
		m.mu.Lock()
		changed := !strings.EqualFold(code, m.currency)
		m.currency = code
		m.mu.Unlock()

		if changed {
			logger.Info("display currency changed externally", "currency", code)
			m.rates.Invalidate()
			go m.refresh.RefreshAll(true)
		}

	case layout.EventError:
		m.broadcast(ErrorEvent{Service: "layout", Error: event.Error})
	}
}

func (m *Manager) checkNewSales(previous, current map[string]*models.SalesSummary) {
	ids := sales.ProjectsWithNewSales(previous, current)
	if len(ids) == 0 {
		return
	}
	slices.Sort(ids)

	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, m.projectName(id))
	}

	m.broadcast(NewSalesEvent{ProjectIDs: ids, Names: names})

	title := "New sale"
	if len(names) > 1 {
		title = "New sales"
	}
	if err := m.notifier.Notify(title, strings.Join(names, ", ")); err != nil {
		logger.Warn("failed to send new sales notification", "error", err)
	}
}

func (m *Manager) projectName(id string) string {
	for _, p := range m.projects {
		if p.ID == id {
			return p.Name
		}
	}
	return id
}

// persistCycle stores one snapshot and the daily series of every
// successful project, then prunes old snapshots.
func (m *Manager) persistCycle(current map[string]*models.SalesSummary) {
	if m.database == nil || len(current) == 0 {
		return
	}

	ctx := context.Background()
	cycleID := uuid.NewString()

	for id, summary := range current {
		snapshot := models.SnapshotFromSummary(cycleID, summary)
		if err := m.database.InsertSnapshot(ctx, &snapshot); err != nil {
			logger.Error("failed to store sales snapshot", "project", id, "error", err)
			continue
		}
		if err := m.database.UpsertDailyRevenue(ctx, id, summary.Currency, dailyPoints(summary)); err != nil {
			logger.Error("failed to store daily revenue", "project", id, "error", err)
		}
	}

	if m.cfg.HistoryRetention > 0 {
		removed, err := m.database.PruneSnapshots(ctx, m.now().Add(-m.cfg.HistoryRetention))
		if err != nil {
			logger.Error("failed to prune sales snapshots", "error", err)
		} else if removed > 0 {
			logger.Debug("pruned sales snapshots", "count", removed)
			if err := m.database.Compact(ctx); err != nil {
				logger.Warn("failed to compact database", "error", err)
			}
		}
	}
}

// dailyPoints pairs the summary's buckets with their calendar days.
func dailyPoints(s *models.SalesSummary) []models.DailyRevenuePoint {
	window := sales.MakeWindow(s.GeneratedAt)
	points := make([]models.DailyRevenuePoint, models.WindowDays)
	for i, day := range window.Days {
		points[i] = models.DailyRevenuePoint{
			Day:     day,
			Revenue: s.DailyRevenue[i],
			Orders:  s.DailyOrders[i],
		}
	}
	return points
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	select {
	case m.eventChan <- event:
	default:
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch, WaitForEvent(ch)
}

// WaitForEvent returns a tea.Cmd for the next event on a channel.
func WaitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// Projects returns the configured projects in configuration order.
func (m *Manager) Projects() []models.Project {
	return slices.Clone(m.projects)
}

// Summaries returns the successful project summaries of the current cycle.
func (m *Manager) Summaries() map[string]*models.SalesSummary {
	return m.refresh.Store().Summaries()
}

// Entries returns every stored project result, including failures.
func (m *Manager) Entries() map[string]store.Entry {
	return m.refresh.Store().Snapshot()
}

// Portfolio combines the current summaries.
func (m *Manager) Portfolio() models.PortfolioSummary {
	return sales.Summarize(m.projects, m.Summaries(), m.now())
}

// ArrangedProjects returns the projects ordered, sorted and filtered by the
// current view preferences.
func (m *Manager) ArrangedProjects() []models.Project {
	return layout.Arrange(m.projects, m.Summaries(), m.layout.View())
}

// View returns the current view state.
func (m *Manager) View() models.ViewState {
	return m.layout.View()
}

// SetPreferences saves prefs. A changed display currency invalidates the
// rate cache and refreshes every project.
func (m *Manager) SetPreferences(prefs models.Preferences) error {
	prefs = prefs.Normalize()

	m.mu.Lock()
	changed := !strings.EqualFold(prefs.PreferredCurrency, m.currency)
	m.currency = prefs.PreferredCurrency
	m.mu.Unlock()

	if err := m.layout.SetPreferences(prefs); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}

	if changed {
		m.rates.Invalidate()
		m.refresh.RefreshAll(true)
	}
	return nil
}

// CyclePreferredCurrency switches to the next display currency and returns
// it. It blocks until the resulting refresh finishes.
func (m *Manager) CyclePreferredCurrency() (string, error) {
	prefs := m.layout.Preferences()
	prefs.PreferredCurrency = currency.NextDisplayCurrency(prefs.PreferredCurrency)
	if err := m.SetPreferences(prefs); err != nil {
		return "", err
	}
	return prefs.PreferredCurrency, nil
}

// MoveProject moves a project within the saved layout order. Moves past
// either end are ignored.
func (m *Manager) MoveProject(id string, delta int) error {
	view := m.layout.View()
	order := layout.Ordered(m.projects, view.Layout.Widgets)

	widgets, ok := layout.MoveProject(order, id, delta)
	if !ok {
		return nil
	}
	if err := m.layout.SetLayout(widgets); err != nil {
		return fmt.Errorf("failed to save layout: %w", err)
	}
	return nil
}

// Refresh clears all summaries and refetches every project. It blocks until
// the cycle finishes or is superseded.
func (m *Manager) Refresh() {
	m.refresh.RefreshAll(true)
}

// RefreshStats returns the refresh cycle state.
func (m *Manager) RefreshStats() refresh.Stats {
	return m.refresh.Stats()
}

// RatesStatus reports where the exchange rates came from.
func (m *Manager) RatesStatus() currency.Status {
	return m.rates.Status()
}

// ProjectHistory loads the stored history of a project in the current
// display currency.
func (m *Manager) ProjectHistory(projectID string, timeRange models.TimeRange) (*models.ProjectHistory, error) {
	if m.database == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	ctx := context.Background()
	code := m.preferredCurrency()

	snapshots, err := m.database.GetSnapshots(ctx, projectID, snapshotHistoryLimit)
	if err != nil {
		return nil, err
	}
	daily, err := m.database.GetDailyRevenue(ctx, projectID, code, timeRange.Since(m.now()))
	if err != nil {
		return nil, err
	}

	return &models.ProjectHistory{
		ProjectID: projectID,
		Currency:  code,
		TimeRange: timeRange,
		Snapshots: snapshots,
		Daily:     daily,
	}, nil
}

// Config returns the configuration the manager was built from.
func (m *Manager) Config() *config.Config {
	return m.cfg
}

// Database returns the database instance for direct access.
func (m *Manager) Database() *db.DB {
	return m.database
}

// Close closes the manager and all its services.
func (m *Manager) Close() error {
	var result *multierror.Error

	m.closeOnce.Do(func() {
		close(m.stopChan)

		if err := m.refresh.Close(); err != nil {
			result = multierror.Append(result, err)
		}
		if err := m.layout.Close(); err != nil {
			result = multierror.Append(result, err)
		}
		if m.database != nil {
			if err := m.database.Close(); err != nil {
				result = multierror.Append(result, err)
			}
		}

		m.mu.Lock()
		for _, sub := range m.subscribers {
			close(sub)
		}
		m.subscribers = nil
		m.mu.Unlock()
	})

	return result.ErrorOrNil()
}
