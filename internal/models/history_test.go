package models

import (
	"testing"
	"time"
)

func TestTimeRange_String(t *testing.T) {
	tests := []struct {
		name string
		tr   TimeRange
		want string
	}{
		{"7Days", TimeRange7Days, "7 Days"},
		{"30Days", TimeRange30Days, "30 Days"},
		{"90Days", TimeRange90Days, "90 Days"},
		{"AllTime", TimeRangeAllTime, "All Time"},
		{"Unknown", TimeRange(999), "Unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tr.String(); got != tt.want {
				t.Errorf("TimeRange.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTimeRange_Days(t *testing.T) {
	tests := []struct {
		name string
		tr   TimeRange
		want int
	}{
		{"7Days", TimeRange7Days, 7},
		{"30Days", TimeRange30Days, 30},
		{"90Days", TimeRange90Days, 90},
		{"AllTime", TimeRangeAllTime, 0},
		{"Unknown", TimeRange(999), 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tr.Days(); got != tt.want {
				t.Errorf("TimeRange.Days() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTimeRange_Next(t *testing.T) {
	tests := []struct {
		name string
		tr   TimeRange
		want TimeRange
	}{
		{"7Days -> 30Days", TimeRange7Days, TimeRange30Days},
		{"30Days -> 90Days", TimeRange30Days, TimeRange90Days},
		{"90Days -> AllTime", TimeRange90Days, TimeRangeAllTime},
		{"AllTime -> 7Days", TimeRangeAllTime, TimeRange7Days},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tr.Next(); got != tt.want {
				t.Errorf("TimeRange.Next() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTimeRange_Since(t *testing.T) {
	now := time.Date(2026, 3, 2, 15, 4, 5, 0, time.UTC)

	if got := TimeRange7Days.Since(now); !got.Equal(time.Date(2026, 2, 24, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Since(7 days) = %v", got)
	}
	if got := TimeRangeAllTime.Since(now); !got.IsZero() {
		t.Errorf("Since(all time) = %v, want zero", got)
	}
}

func TestSnapshotFromSummary(t *testing.T) {
	generated := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	s := &SalesSummary{
		ProjectID:     "p1",
		Currency:      "NZD",
		Revenue:       1200,
		Orders:        12,
		TodayRevenue:  100,
		GrowthPercent: "12.5",
		Errors:        []string{"PayPal: boom"},
		GeneratedAt:   generated,
	}

	snap := SnapshotFromSummary("cycle-1", s)
	if snap.CycleID != "cycle-1" || snap.ProjectID != "p1" || snap.Currency != "NZD" {
		t.Errorf("unexpected identity fields: %+v", snap)
	}
	if snap.Revenue != 1200 || snap.Orders != 12 || snap.TodayRevenue != 100 {
		t.Errorf("unexpected totals: %+v", snap)
	}
	if snap.ErrorCount != 1 {
		t.Errorf("ErrorCount = %d, want 1", snap.ErrorCount)
	}
	if !snap.CapturedAt.Equal(generated) {
		t.Errorf("CapturedAt = %v, want %v", snap.CapturedAt, generated)
	}
}

func TestProjectHistory_Totals(t *testing.T) {
	day := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	h := &ProjectHistory{
		Daily: []DailyRevenuePoint{
			{Day: day, Revenue: 10},
			{Day: day.AddDate(0, 0, 1), Revenue: 40},
			{Day: day.AddDate(0, 0, 2), Revenue: 40},
		},
	}

	if got := h.TotalRevenue(); got != 90 {
		t.Errorf("TotalRevenue() = %d, want 90", got)
	}

	best, ok := h.BestDay()
	if !ok {
		t.Fatal("BestDay() returned false")
	}
	if !best.Day.Equal(day.AddDate(0, 0, 1)) {
		t.Errorf("BestDay() = %v, want first of the tied days", best.Day)
	}

	empty := &ProjectHistory{}
	if _, ok := empty.BestDay(); ok {
		t.Error("BestDay() on empty history should return false")
	}
}
