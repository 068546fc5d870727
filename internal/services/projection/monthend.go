// Package projection estimates month-end revenue from the daily run rate of
// the current month.
package projection

import (
	"math"
	"time"

	"github.com/j-veylop/revenue-dashboard-tui/internal/models"
)

const (
	lowConfDays = 7
	medConfDays = 15
)

// Confidence grades an estimate by how much of the month it is based on.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Estimate is a month-end revenue projection. Amounts are whole units of the
// summary currency.
type Estimate struct {
	MonthToDate   int
	DailyRate     float64
	Projected     int
	DaysElapsed   int
	DaysRemaining int
	Confidence    Confidence
}

// MonthEnd projects revenue for the calendar month of now. daily holds one
// value per UTC day with the last entry being the day of now.
func MonthEnd(daily [models.WindowDays]int, now time.Time) Estimate {
	now = now.UTC()
	elapsed := now.Day()
	inMonth := daysIn(now.Year(), now.Month())

	// Day 31 reaches one day past the start of the window.
	covered := min(elapsed, models.WindowDays)
	mtd := 0
	for _, v := range daily[models.WindowDays-covered:] {
		mtd += v
	}

	rate := float64(mtd) / float64(covered)
	remaining := inMonth - elapsed

	return Estimate{
		MonthToDate:   mtd,
		DailyRate:     rate,
		Projected:     mtd + int(math.Round(rate*float64(remaining))),
		DaysElapsed:   elapsed,
		DaysRemaining: remaining,
		Confidence:    confidence(elapsed),
	}
}

func confidence(days int) Confidence {
	switch {
	case days < lowConfDays:
		return ConfidenceLow
	case days < medConfDays:
		return ConfidenceMedium
	default:
		return ConfidenceHigh
	}
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
