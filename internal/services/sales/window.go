package sales

import (
	"time"

	"github.com/j-veylop/revenue-dashboard-tui/internal/models"
)

const (
	dayKeyLayout   = "2006-01-02"
	dayLabelLayout = "Jan 2"
)

// Window is the fixed run of UTC calendar days a summary covers. Days[0] is
// 29 days before the reference date and Days[29] is the reference date.
type Window struct {
	Days [models.WindowDays]time.Time
}

// MakeWindow builds the window ending on the UTC calendar day of ref.
func MakeWindow(ref time.Time) Window {
	today := StartOfDay(ref)
	var w Window
	for i := range w.Days {
		w.Days[i] = today.AddDate(0, 0, i-(models.WindowDays-1))
	}
	return w
}

// StartOfDay truncates t to midnight of its UTC calendar day.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DayKey formats the UTC calendar day of t as YYYY-MM-DD.
func DayKey(t time.Time) string {
	return t.UTC().Format(dayKeyLayout)
}

// Index returns the slot t falls into, or false when t is outside the window.
func (w Window) Index(t time.Time) (int, bool) {
	day := StartOfDay(t)
	if day.Before(w.Days[0]) {
		return 0, false
	}
	// UTC days are always 24h long.
	idx := int(day.Sub(w.Days[0]) / (24 * time.Hour))
	if idx >= models.WindowDays {
		return 0, false
	}
	return idx, true
}

// Keys returns the YYYY-MM-DD key of every day in the window.
func (w Window) Keys() [models.WindowDays]string {
	var keys [models.WindowDays]string
	for i, d := range w.Days {
		keys[i] = d.Format(dayKeyLayout)
	}
	return keys
}

// Labels returns short chart labels such as "Jan 2".
func (w Window) Labels() [models.WindowDays]string {
	var labels [models.WindowDays]string
	for i, d := range w.Days {
		labels[i] = d.Format(dayLabelLayout)
	}
	return labels
}

// Start returns midnight of the oldest day.
func (w Window) Start() time.Time { return w.Days[0] }

// End returns midnight of the newest day.
func (w Window) End() time.Time { return w.Days[models.WindowDays-1] }
