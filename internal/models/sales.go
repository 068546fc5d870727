package models

import (
	"strconv"
	"time"
)

// WindowDays is the number of daily buckets in a sales summary.
const WindowDays = 30

// MaxRecentActivity caps SalesSummary.RecentActivity.
const MaxRecentActivity = 20

// HealthStatus is the qualitative label derived from growth and conversion.
type HealthStatus string

const (
	HealthExcellent HealthStatus = "excellent"
	HealthGood      HealthStatus = "good"
	HealthAverage   HealthStatus = "average"
	HealthPoor      HealthStatus = "poor"
)

// Metric is a formatted value. Synthetic marks values that are not derived
// from provider data and must not be presented as measurements.
type Metric struct {
	Value     string
	Synthetic bool
}

// Float parses Value, returning 0 when it is not a number.
func (m Metric) Float() float64 {
	f, err := strconv.ParseFloat(m.Value, 64)
	if err != nil {
		return 0
	}
	return f
}

// ActivityEntry is one recent successful transaction, converted to the
// display currency.
type ActivityEntry struct {
	Provider    Provider
	Description string
	Amount      float64
	Currency    string
	Timestamp   time.Time
	Age         string
}

// SalesSummary is the aggregated 30-day view of one project. All monetary
// fields are whole units of Currency.
type SalesSummary struct {
	ProjectID        string
	Currency         string
	Revenue          int
	Orders           int
	AvgOrderValue    int
	GrowthPercent    string
	ConversionRate   Metric
	TodayRevenue     int
	YesterdayRevenue int
	DailyLabels      [WindowDays]string
	DailyRevenue     [WindowDays]int
	DailyOrders      [WindowDays]int
	StripeBalance    int
	PayPalBalance    int
	RecentActivity   []ActivityEntry
	Errors           []string
	GeneratedAt      time.Time
}

// Growth parses GrowthPercent, returning 0 when it is not a number.
func (s *SalesSummary) Growth() float64 {
	f, err := strconv.ParseFloat(s.GrowthPercent, 64)
	if err != nil {
		return 0
	}
	return f
}

// Performer names a project and its revenue.
type Performer struct {
	ProjectID string
	Name      string
	Revenue   int
}

// PortfolioSummary combines the summaries of all projects.
type PortfolioSummary struct {
	TotalRevenue       int
	TodayRevenue       int
	YesterdayRevenue   int
	MonthToDateRevenue int
	ActiveStripeCount  int
	ActivePaypalCount  int
	ProjectCount       int
	ReportingCount     int
	DailyRevenue       [WindowDays]int
	Top                *Performer
	Bottom             *Performer
}
