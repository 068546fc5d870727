package sales

import (
	"time"

	"github.com/j-veylop/revenue-dashboard-tui/internal/models"
)

// Summarize combines the summaries of projects. Projects without a summary
// still count toward the provider totals.
func Summarize(projects []models.Project, summaries map[string]*models.SalesSummary, now time.Time) models.PortfolioSummary {
	out := models.PortfolioSummary{ProjectCount: len(projects)}

	today := StartOfDay(now)
	firstOfMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)

	for _, p := range projects {
		if p.HasStripe() {
			out.ActiveStripeCount++
		}
		if p.HasPayPal() {
			out.ActivePaypalCount++
		}

		s := summaries[p.ID]
		if s == nil {
			continue
		}
		out.ReportingCount++
		out.TotalRevenue += s.Revenue
		out.TodayRevenue += s.TodayRevenue
		out.YesterdayRevenue += s.YesterdayRevenue

		for i, v := range s.DailyRevenue {
			out.DailyRevenue[i] += v
			date := today.AddDate(0, 0, i-(models.WindowDays-1))
			if !date.Before(firstOfMonth) && !date.After(today) {
				out.MonthToDateRevenue += v
			}
		}

		if out.Top == nil || s.Revenue > out.Top.Revenue {
			out.Top = &models.Performer{ProjectID: p.ID, Name: p.Name, Revenue: s.Revenue}
		}
		if out.Bottom == nil || s.Revenue < out.Bottom.Revenue {
			out.Bottom = &models.Performer{ProjectID: p.ID, Name: p.Name, Revenue: s.Revenue}
		}
	}

	return out
}
