package models

import "time"

// TimeRange represents the selected history time range.
type TimeRange int

const (
	// TimeRange7Days shows the last 7 days.
	TimeRange7Days TimeRange = iota
	// TimeRange30Days shows the last 30 days.
	TimeRange30Days
	// TimeRange90Days shows the last 90 days.
	TimeRange90Days
	// TimeRangeAllTime shows everything stored.
	TimeRangeAllTime
)

// String returns the display name for a time range.
func (t TimeRange) String() string {
	switch t {
	case TimeRange7Days:
		return "7 Days"
	case TimeRange30Days:
		return "30 Days"
	case TimeRange90Days:
		return "90 Days"
	case TimeRangeAllTime:
		return "All Time"
	default:
		return "Unknown"
	}
}

// Days returns the number of days for the time range (0 = unlimited).
func (t TimeRange) Days() int {
	switch t {
	case TimeRange7Days:
		return 7
	case TimeRange30Days:
		return 30
	case TimeRange90Days:
		return 90
	case TimeRangeAllTime:
		return 0
	default:
		return 30
	}
}

// Since returns the earliest day included in the range, relative to now.
// It returns the zero time for TimeRangeAllTime.
func (t TimeRange) Since(now time.Time) time.Time {
	days := t.Days()
	if days == 0 {
		return time.Time{}
	}
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -(days - 1))
}

// Next cycles to the next time range.
func (t TimeRange) Next() TimeRange {
	return (t + 1) % 4
}

// SalesSnapshot is the persisted outcome of one refresh cycle for a project.
type SalesSnapshot struct {
	ID               int64
	CycleID          string
	ProjectID        string
	Currency         string
	Revenue          int
	Orders           int
	TodayRevenue     int
	YesterdayRevenue int
	GrowthPercent    string
	StripeBalance    int
	PayPalBalance    int
	ErrorCount       int
	CapturedAt       time.Time
}

// SnapshotFromSummary builds the persisted form of a summary.
func SnapshotFromSummary(cycleID string, s *SalesSummary) SalesSnapshot {
	captured := s.GeneratedAt
	if captured.IsZero() {
		captured = time.Now()
	}
	return SalesSnapshot{
		CycleID:          cycleID,
		ProjectID:        s.ProjectID,
		Currency:         s.Currency,
		Revenue:          s.Revenue,
		Orders:           s.Orders,
		TodayRevenue:     s.TodayRevenue,
		YesterdayRevenue: s.YesterdayRevenue,
		GrowthPercent:    s.GrowthPercent,
		StripeBalance:    s.StripeBalance,
		PayPalBalance:    s.PayPalBalance,
		ErrorCount:       len(s.Errors),
		CapturedAt:       captured.UTC(),
	}
}

// DailyRevenuePoint is one stored day of revenue for a project.
type DailyRevenuePoint struct {
	Day     time.Time
	Revenue int
	Orders  int
}

// ProjectHistory is what the history tab shows for one project.
type ProjectHistory struct {
	ProjectID string
	Currency  string
	TimeRange TimeRange
	Snapshots []SalesSnapshot
	Daily     []DailyRevenuePoint
}

// TotalRevenue sums the stored daily revenue.
func (h *ProjectHistory) TotalRevenue() int {
	total := 0
	for _, p := range h.Daily {
		total += p.Revenue
	}
	return total
}

// BestDay returns the day with the highest revenue, or false when empty.
func (h *ProjectHistory) BestDay() (DailyRevenuePoint, bool) {
	if len(h.Daily) == 0 {
		return DailyRevenuePoint{}, false
	}
	best := h.Daily[0]
	for _, p := range h.Daily[1:] {
		if p.Revenue > best.Revenue {
			best = p
		}
	}
	return best, true
}
