// Package layout persists the dashboard view state and arranges project cards.
package layout

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/j-veylop/revenue-dashboard-tui/internal/logger"
	"github.com/j-veylop/revenue-dashboard-tui/internal/models"
)

// Event represents a view state event.
type Event struct {
	Type  EventType
	Error error
	View  models.ViewState
}

// EventType defines the type of view state event.
type EventType int

const (
	EventViewLoaded EventType = iota
	EventViewChanged
	EventError
)

// Service holds the view state, saves it to disk and reloads it when the
// file is edited externally.
type Service struct {
	mu            sync.RWMutex
	view          models.ViewState
	filePath      string
	watcher       *fsnotify.Watcher
	eventChan     chan Event
	stopChan      chan struct{}
	closeOnce     sync.Once
	timerMu       sync.Mutex
	debounceTimer *time.Timer
}

// DefaultPath returns ~/.config/revenue-dashboard/view.json.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "view.json"
	}
	return filepath.Join(home, ".config", "revenue-dashboard", "view.json")
}

// New loads the view state from filePath and starts watching it. A missing
// file is created with defaults; a malformed one is logged and replaced by
// defaults in memory only.
func New(filePath string) (*Service, error) {
	if filePath == "" {
		filePath = DefaultPath()
	}

	s := &Service{
		view:      models.DefaultViewState(),
		filePath:  filePath,
		eventChan: make(chan Event, 100),
		stopChan:  make(chan struct{}),
	}

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create view state directory: %w", err)
	}

	view, err := readView(filePath)
	switch {
	case err == nil:
		s.view = view
	case os.IsNotExist(err):
		if err := s.save(); err != nil {
			return nil, fmt.Errorf("failed to create view state file: %w", err)
		}
	default:
		logger.Warn("invalid view state file, using defaults", "path", filePath, "error", err)
	}

	if err := s.startWatcher(); err != nil {
		return nil, fmt.Errorf("failed to start file watcher: %w", err)
	}

	s.sendEvent(Event{Type: EventViewLoaded, View: s.View()})

	return s, nil
}

// Events returns the event channel for view state changes.
func (s *Service) Events() <-chan Event {
	return s.eventChan
}

// Path returns the view state file path.
func (s *Service) Path() string {
	return s.filePath
}

// View returns a copy of the current view state.
func (s *Service) View() models.ViewState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneView(s.view)
}

// Preferences returns the current preferences.
func (s *Service) Preferences() models.Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view.Preferences
}

// SetPreferences normalizes and saves prefs.
func (s *Service) SetPreferences(prefs models.Preferences) error {
	s.mu.Lock()
	s.view.Preferences = prefs.Normalize()
	err := s.saveLocked()
	s.mu.Unlock()

	if err != nil {
		return err
	}
	s.sendEvent(Event{Type: EventViewChanged, View: s.View()})
	return nil
}

// SetLayout replaces the saved card order.
func (s *Service) SetLayout(widgets []models.WidgetPosition) error {
	s.mu.Lock()
	s.view.Layout.Widgets = append([]models.WidgetPosition{}, widgets...)
	err := s.saveLocked()
	s.mu.Unlock()

	if err != nil {
		return err
	}
	s.sendEvent(Event{Type: EventViewChanged, View: s.View()})
	return nil
}

func cloneView(v models.ViewState) models.ViewState {
	out := v
	out.Layout.Widgets = append([]models.WidgetPosition{}, v.Layout.Widgets...)
	return out
}

func readView(path string) (models.ViewState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.ViewState{}, err
	}
	return parseView(data)
}

func parseView(data []byte) (models.ViewState, error) {
	view := models.DefaultViewState()
	if err := json.Unmarshal(data, &view); err != nil {
		return models.DefaultViewState(), fmt.Errorf("failed to parse view state: %w", err)
	}
	view.Preferences = view.Preferences.Normalize()
	if view.Layout.Widgets == nil {
		view.Layout.Widgets = []models.WidgetPosition{}
	}
	return view, nil
}

func (s *Service) save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

// saveLocked writes the view state (must hold lock).
func (s *Service) saveLocked() error {
	data, err := json.MarshalIndent(s.view, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal view state: %w", err)
	}

	tmpFile := s.filePath + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0600); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Rename(tmpFile, s.filePath); err != nil {
		if removeErr := os.Remove(tmpFile); removeErr != nil {
			logger.Error("failed to remove temp file", "error", removeErr)
		}
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

func (s *Service) startWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	s.watcher = watcher

	// The directory is watched so the rename from the tmp file is seen.
	if err := watcher.Add(filepath.Dir(s.filePath)); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
		return err
	}

	go s.watchLoop()
	return nil
}

func (s *Service) watchLoop() {
	const debounceInterval = 100 * time.Millisecond

	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(s.filePath) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			s.timerMu.Lock()
			if s.debounceTimer != nil {
				s.debounceTimer.Stop()
			}
			s.debounceTimer = time.AfterFunc(debounceInterval, s.handleFileChange)
			s.timerMu.Unlock()

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.sendEvent(Event{Type: EventError, Error: err})

		case <-s.stopChan:
			return
		}
	}
}

// handleFileChange reloads the file. Content equal to the in-memory state
// (our own writes) produces no event.
func (s *Service) handleFileChange() {
	view, err := readView(s.filePath)
	if err != nil {
		logger.Warn("failed to reload view state", "path", s.filePath, "error", err)
		s.sendEvent(Event{Type: EventError, Error: err})
		return
	}

	s.mu.Lock()
	unchanged := sameView(s.view, view)
	if !unchanged {
		s.view = view
	}
	s.mu.Unlock()

	if unchanged {
		return
	}
	s.sendEvent(Event{Type: EventViewChanged, View: cloneView(view)})
}

func sameView(a, b models.ViewState) bool {
	if a.Preferences != b.Preferences || len(a.Layout.Widgets) != len(b.Layout.Widgets) {
		return false
	}
	for i := range a.Layout.Widgets {
		if a.Layout.Widgets[i] != b.Layout.Widgets[i] {
			return false
		}
	}
	return true
}

// sendEvent sends an event without blocking, dropping the oldest when full.
func (s *Service) sendEvent(event Event) {
	select {
	case s.eventChan <- event:
	default:
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

// Close stops the file watcher.
func (s *Service) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.stopChan)

		s.timerMu.Lock()
		if s.debounceTimer != nil {
			s.debounceTimer.Stop()
		}
		s.timerMu.Unlock()

		if s.watcher != nil {
			err = s.watcher.Close()
		}
	})
	return err
}
