// Package main is the entry point for the Revenue Dashboard TUI application.
// It loads configuration, starts the background services and runs the Bubble
// Tea program.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/revenue-dashboard-tui/internal/app"
	"github.com/j-veylop/revenue-dashboard-tui/internal/config"
	"github.com/j-veylop/revenue-dashboard-tui/internal/logger"
	"github.com/j-veylop/revenue-dashboard-tui/internal/services"
	"github.com/j-veylop/revenue-dashboard-tui/internal/ui/tabs/history"
	"github.com/j-veylop/revenue-dashboard-tui/internal/ui/tabs/info"
	"github.com/j-veylop/revenue-dashboard-tui/internal/ui/tabs/overview"
	"github.com/j-veylop/revenue-dashboard-tui/internal/ui/tabs/projects"
	"github.com/j-veylop/revenue-dashboard-tui/internal/version"
)

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "-v" || os.Args[1] == "--version") {
		fmt.Println(version.Info())
		os.Exit(0)
	}

	if len(os.Args) > 1 && (os.Args[1] == "-h" || os.Args[1] == "--help") {
		printUsage()
		os.Exit(0)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logFile, err := logger.Init(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()

	logger.Info("starting", "version", version.GetVersion(), "projects", len(cfg.Projects),
		"interval", cfg.RefreshInterval)

	svcManager, err := services.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer func() {
		if closeErr := svcManager.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: error closing services: %v\n", closeErr)
		}
	}()

	model := app.NewModel(svcManager)

	state := model.GetState()
	model.SetTabs([]app.Tab{
		overview.New(state),
		projects.New(state),
		history.New(state, svcManager),
		info.New(state, cfg),
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	p := tea.NewProgram(model, tea.WithAltScreen())

	go func() {
		if _, ok := <-sigChan; ok {
			p.Send(tea.Quit())
		}
	}()

	svcManager.Start()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	logger.Info("stopped")
	return nil
}

func printUsage() {
	fmt.Println(`Revenue Dashboard TUI - Stripe and PayPal sales across your projects

Usage:
  rdt [flags]

Flags:
  -h, --help      Show this help message
  -v, --version   Show version information

Keyboard Shortcuts:
  1-4             Switch tabs (Overview, Projects, History, Info)
  Tab/Shift+Tab   Navigate between tabs
  j/k, Up/Down    Select project / scroll
  K/J             Move the selected project up/down
  r               Refresh all projects
  v               Toggle compact/detailed cards
  s               Cycle sort order
  f               Cycle provider filter
  c               Cycle display currency
  t               Toggle history time range
  ?               Toggle help
  q, Ctrl+C       Quit

Environment Variables:
  PROJECTS_CONFIG_PATH    Projects file (default: ./config.json)
  VIEW_PATH               Saved view state (default: next to the projects file)
  DATABASE_PATH           SQLite history database
  LOG_PATH, LOG_LEVEL     Log file and level (debug, info, warn, error)
  REFRESH_INTERVAL        Overrides pollingIntervalSeconds (e.g. 90s)
  EXCHANGE_RATES_URL      USD-based exchange rate endpoint
  HTTP_TIMEOUT            Provider request timeout (default: 30s)
  MAX_CONCURRENT_FETCHES  Projects fetched in parallel (default: 4)
  NOTIFICATIONS           Desktop notification on new sales (default: true)
  HISTORY_RETENTION       How long snapshots are kept (default: 2160h)

Configuration:
  The application looks for .env files in the following locations:
  - Current directory
  - ~/.config/revenue-dashboard/.env
  - Parent directories of the current directory`)
}
