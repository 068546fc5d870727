package services

import (
	"github.com/gen2brain/beeep"

	"github.com/j-veylop/revenue-dashboard-tui/internal/logger"
)

// Notifier signals new sales to the user.
type Notifier interface {
	Notify(title, message string) error
}

// DesktopNotifier plays a beep and shows a desktop notification.
type DesktopNotifier struct{}

// Notify implements Notifier. A failed beep is logged and does not stop
// the notification.
func (DesktopNotifier) Notify(title, message string) error {
	if err := beeep.Beep(beeep.DefaultFreq, beeep.DefaultDuration); err != nil {
		logger.Debug("beep failed", "error", err)
	}
	return beeep.Notify(title, message, "")
}

type noopNotifier struct{}

func (noopNotifier) Notify(string, string) error { return nil }
