// Package sales reduces raw Stripe and PayPal records into per-project
// 30-day sales summaries and cross-project portfolio figures.
package sales

import (
	"math"
	"math/big"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/j-veylop/revenue-dashboard-tui/internal/models"
	"github.com/j-veylop/revenue-dashboard-tui/internal/services/currency"
)

// growthSplit is the first slot of the recent half of the window.
const growthSplit = models.WindowDays / 2

// ProviderData is what one fetch cycle gathered for a project. A nil
// provider was either not attempted or failed; Errors explains failures.
type ProviderData struct {
	Stripe *models.StripeData
	PayPal *models.PayPalData
	Errors []string
}

type amountEntry struct {
	amount   float64
	currency string
}

// Engine builds sales summaries. The zero value uses the wall clock and a
// random placeholder conversion rate.
type Engine struct {
	Now            func() time.Time
	ConversionRate func() float64
}

// NewEngine returns an engine using the wall clock.
func NewEngine() *Engine {
	return &Engine{}
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// No traffic data exists for a real conversion rate, so the value is a
// placeholder in [1.5, 3.5] and marked as synthetic.
func (e *Engine) conversionRate() models.Metric {
	var v float64
	if e.ConversionRate != nil {
		v = e.ConversionRate()
	} else {
		v = 1.5 + rand.Float64()*2
	}
	return models.Metric{Value: strconv.FormatFloat(v, 'f', 2, 64), Synthetic: true}
}

// Aggregate builds the summary of one project from data. It fails with
// ErrNoProviders when nothing was attempted and with *ProvidersFailedError
// when every attempted provider failed.
func (e *Engine) Aggregate(data ProviderData, project models.Project, rates currency.RateTable, preferred string) (*models.SalesSummary, error) {
	if data.Stripe == nil && data.PayPal == nil {
		if len(data.Errors) > 0 {
			return nil, &ProvidersFailedError{Errors: append([]string(nil), data.Errors...)}
		}
		return nil, ErrNoProviders
	}

	preferred = strings.ToUpper(preferred)
	now := e.now()
	window := MakeWindow(now)

	var buckets [models.WindowDays][]amountEntry
	summary := &models.SalesSummary{
		ProjectID:   project.ID,
		Currency:    preferred,
		DailyLabels: window.Labels(),
		GeneratedAt: now,
	}

	for _, tx := range Normalize(data) {
		if !tx.Succeeded {
			continue
		}
		idx, ok := window.Index(time.UnixMilli(tx.TimestampMillis))
		if !ok {
			continue
		}
		buckets[idx] = append(buckets[idx], amountEntry{amount: tx.Amount, currency: tx.Currency})
		summary.DailyOrders[idx]++
		summary.Orders++
	}

	// Conversion happens once per entry at summation time and rounding only
	// on the reported values.
	var sums [models.WindowDays]float64
	var total float64
	for i, entries := range buckets {
		for _, entry := range entries {
			sums[i] += currency.Convert(entry.amount, entry.currency, preferred, rates)
		}
		total += sums[i]
		summary.DailyRevenue[i] = roundInt(sums[i])
	}

	summary.Revenue = roundInt(total)
	if summary.Orders > 0 {
		summary.AvgOrderValue = int(math.Floor(total / float64(summary.Orders)))
	}
	summary.GrowthPercent = growthPercent(sums)
	summary.TodayRevenue = summary.DailyRevenue[models.WindowDays-1]
	summary.YesterdayRevenue = summary.DailyRevenue[models.WindowDays-2]
	summary.StripeBalance = roundInt(stripeBalance(data.Stripe, rates, preferred))
	summary.PayPalBalance = roundInt(paypalBalance(data.PayPal, rates, preferred))
	summary.RecentActivity = RecentActivity(data, now, rates, preferred)
	summary.ConversionRate = e.conversionRate()
	if len(data.Errors) > 0 {
		summary.Errors = append([]string(nil), data.Errors...)
	}

	return summary, nil
}

func growthPercent(sums [models.WindowDays]float64) string {
	var previous, recent float64
	for i, v := range sums {
		if i < growthSplit {
			previous += v
		} else {
			recent += v
		}
	}
	if previous <= 0 {
		return "0.0"
	}
	return toFixed1((recent - previous) / previous * 100)
}

// toFixed1 formats v with one decimal like Number.prototype.toFixed(1): the
// exact binary value is rounded half away from zero, and a negative value
// that rounds to zero keeps its sign.
func toFixed1(v float64) string {
	exact, err := decimal.NewFromString(new(big.Float).SetFloat64(v).Text('f', 60))
	if err != nil {
		return "0.0"
	}
	out := exact.StringFixed(1)
	if v < 0 && out == "0.0" {
		return "-0.0"
	}
	return out
}

func stripeBalance(data *models.StripeData, rates currency.RateTable, preferred string) float64 {
	if data == nil || data.Balance == nil {
		return 0
	}
	var sum float64
	for _, b := range data.Balance.Available {
		sum += currency.Convert(float64(b.Amount)/100, currencyCode(b.Currency), preferred, rates)
	}
	return sum
}

func paypalBalance(data *models.PayPalData, rates currency.RateTable, preferred string) float64 {
	if data == nil || data.Balance == nil {
		return 0
	}
	var sum float64
	for _, b := range data.Balance.Balances {
		code := b.TotalBalance.CurrencyCode
		if code == "" {
			code = b.Currency
		}
		amount := parseAmount(b.TotalBalance.Value).InexactFloat64()
		sum += currency.Convert(amount, currencyCode(code), preferred, rates)
	}
	return sum
}

func roundInt(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int(math.Round(v))
}
