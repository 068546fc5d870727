// Package refresh runs the periodic fetch-and-aggregate cycle over all
// configured projects.
package refresh

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/j-veylop/revenue-dashboard-tui/internal/logger"
	"github.com/j-veylop/revenue-dashboard-tui/internal/models"
	"github.com/j-veylop/revenue-dashboard-tui/internal/services/currency"
	"github.com/j-veylop/revenue-dashboard-tui/internal/services/sales"
	"github.com/j-veylop/revenue-dashboard-tui/internal/services/store"
)

// RateProvider supplies the exchange rate table for a cycle.
type RateProvider interface {
	Rates(ctx context.Context) currency.RateTable
}

// Event represents a refresh service event.
type Event struct {
	Error      error
	Summary    *models.SalesSummary
	Previous   map[string]*models.SalesSummary
	Current    map[string]*models.SalesSummary
	ProjectID  string
	Generation uint64
	Type       EventType
}

// EventType defines the type of refresh event.
type EventType int

const (
	// EventRefreshStarted indicates that a new cycle began.
	EventRefreshStarted EventType = iota
	// EventProjectUpdated indicates that a project summary was stored.
	EventProjectUpdated
	// EventProjectError indicates that a project fetch failed.
	EventProjectError
	// EventCycleCompleted indicates that every project of a cycle finished.
	// Superseded cycles never complete.
	EventCycleCompleted
)

// Config holds configuration for the refresh service.
type Config struct {
	PollInterval  time.Duration
	MaxConcurrent int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		PollInterval:  60 * time.Second,
		MaxConcurrent: 4,
	}
}

// Deps are the collaborators of the service.
type Deps struct {
	Projects []models.Project
	Source   sales.DataSource
	Rates    RateProvider
	// Currency returns the display currency at the start of each cycle.
	Currency func() string
	Store    *store.Store
	Engine   *sales.Engine
}

// Stats describes the refresh state for display.
type Stats struct {
	LastCompleted time.Time
	Generation    uint64
	Projects      int
	Healthy       int
	Failed        int
	Refreshing    bool
}

// Service refreshes every project on a ticker and on demand.
type Service struct {
	deps      Deps
	config    Config
	eventChan chan Event
	stopChan  chan struct{}
	closeOnce sync.Once
	inFlight  atomic.Int32

	mu            sync.Mutex
	cancel        context.CancelFunc
	cycleGen      uint64
	lastCompleted time.Time
}

// New creates a refresh service. Call Start to begin polling.
func New(deps Deps, config Config) *Service {
	def := DefaultConfig()
	if config.PollInterval <= 0 {
		config.PollInterval = def.PollInterval
	}
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = def.MaxConcurrent
	}
	if deps.Store == nil {
		deps.Store = store.New()
	}
	if deps.Engine == nil {
		deps.Engine = sales.NewEngine()
	}
	if deps.Currency == nil {
		deps.Currency = func() string { return models.DefaultPreferredCurrency }
	}

	return &Service{
		deps:      deps,
		config:    config,
		eventChan: make(chan Event, 100),
		stopChan:  make(chan struct{}),
	}
}

// Start runs an initial cycle and then polls in the background.
func (s *Service) Start() {
	go s.poll()
}

// Events returns the event channel.
func (s *Service) Events() <-chan Event {
	return s.eventChan
}

// Store returns the summary store the service writes to.
func (s *Service) Store() *store.Store {
	return s.deps.Store
}

// Projects returns the configured projects.
func (s *Service) Projects() []models.Project {
	return s.deps.Projects
}

// RefreshAll runs one cycle and blocks until it finishes or is superseded.
// Any in-flight cycle is cancelled first. When clear is set the store is
// emptied before fetching. It returns the generation of the cycle.
func (s *Service) RefreshAll(clear bool) uint64 {
	ctx, gen, previous := s.beginCycle(clear)
	s.inFlight.Add(1)
	defer s.inFlight.Add(-1)

	s.sendEvent(Event{Type: EventRefreshStarted, Generation: gen})

	var rates currency.RateTable
	if s.deps.Rates != nil {
		rates = s.deps.Rates.Rates(ctx)
	}
	preferred := s.deps.Currency()

	var g errgroup.Group
	g.SetLimit(s.config.MaxConcurrent)
	for _, p := range s.deps.Projects {
		g.Go(func() error {
			s.refreshProject(ctx, gen, p, rates, preferred)
			return nil
		})
	}
	_ = g.Wait()

	if ctx.Err() != nil || !s.finishCycle(gen) {
		logger.Debug("refresh cycle superseded", "generation", gen)
		return gen
	}

	s.sendEvent(Event{
		Type:       EventCycleCompleted,
		Generation: gen,
		Previous:   previous,
		Current:    s.deps.Store.Summaries(),
	})
	return gen
}

func (s *Service) beginCycle(clear bool) (context.Context, uint64, map[string]*models.SalesSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	previous := s.deps.Store.Summaries()
	gen := s.deps.Store.Begin(clear)

	s.cancel = cancel
	s.cycleGen = gen
	return ctx, gen, previous
}

// finishCycle reports false when a newer cycle has started.
func (s *Service) finishCycle(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cycleGen != gen || s.deps.Store.Generation() != gen {
		return false
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.lastCompleted = time.Now()
	return true
}

func (s *Service) refreshProject(ctx context.Context, gen uint64, p models.Project, rates currency.RateTable, preferred string) {
	summary, err := s.deps.Engine.Fetch(ctx, s.deps.Source, p, rates, preferred)
	if ctx.Err() != nil {
		return
	}

	if !s.deps.Store.Put(gen, p.ID, summary, err) {
		logger.Debug("dropping stale project result", "project", p.ID, "generation", gen)
		return
	}

	if err != nil {
		logger.Warn("project refresh failed", "project", p.ID, "error", err)
		s.sendEvent(Event{Type: EventProjectError, ProjectID: p.ID, Generation: gen, Error: err})
		return
	}
	s.sendEvent(Event{Type: EventProjectUpdated, ProjectID: p.ID, Generation: gen, Summary: summary})
}

// poll runs the background polling goroutine.
func (s *Service) poll() {
	s.RefreshAll(false)

	ticker := time.NewTicker(s.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.RefreshAll(false)
		case <-s.stopChan:
			return
		}
	}
}

// sendEvent sends an event to the event channel non-blocking.
func (s *Service) sendEvent(event Event) {
	select {
	case s.eventChan <- event:
	default:
		// Channel full, drop oldest
		select {
		case <-s.eventChan:
		default:
		}
		select {
		case s.eventChan <- event:
		default:
		}
	}
}

// Stats returns current statistics.
func (s *Service) Stats() Stats {
	s.mu.Lock()
	last := s.lastCompleted
	s.mu.Unlock()

	stats := Stats{
		LastCompleted: last,
		Generation:    s.deps.Store.Generation(),
		Projects:      len(s.deps.Projects),
		Refreshing:    s.inFlight.Load() > 0,
	}
	for _, e := range s.deps.Store.Snapshot() {
		if e.Err != nil {
			stats.Failed++
		} else {
			stats.Healthy++
		}
	}
	return stats
}

// Close stops polling and cancels the in-flight cycle.
func (s *Service) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.mu.Lock()
		if s.cancel != nil {
			s.cancel()
			s.cancel = nil
		}
		s.mu.Unlock()
	})
	return nil
}
