package sales

import "github.com/j-veylop/revenue-dashboard-tui/internal/models"

// Classify derives the health label. All thresholds are exclusive.
func Classify(growth, conversion float64) models.HealthStatus {
	switch {
	case growth > 15 && conversion > 3:
		return models.HealthExcellent
	case growth > 8 && conversion > 2:
		return models.HealthGood
	case growth > 0:
		return models.HealthAverage
	default:
		return models.HealthPoor
	}
}

// Health classifies a summary.
func Health(s *models.SalesSummary) models.HealthStatus {
	if s == nil {
		return models.HealthPoor
	}
	return Classify(s.Growth(), s.ConversionRate.Float())
}

// TodayChange returns today's revenue change versus yesterday in percent.
// It reports false when yesterday had no revenue.
func TodayChange(today, yesterday int) (float64, bool) {
	if yesterday <= 0 {
		return 0, false
	}
	return float64(today-yesterday) / float64(yesterday) * 100, true
}

// TrendArrow returns ↗, ↘ or → for the sign of growth.
func TrendArrow(growth float64) string {
	switch {
	case growth > 0:
		return "↗"
	case growth < 0:
		return "↘"
	default:
		return "→"
	}
}
