package sales

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/j-veylop/revenue-dashboard-tui/internal/models"
	"github.com/j-veylop/revenue-dashboard-tui/internal/services/currency"
)

var testNow = time.Date(2024, 2, 10, 15, 0, 0, 0, time.UTC)

func testEngine() *Engine {
	return &Engine{
		Now:            func() time.Time { return testNow },
		ConversionRate: func() float64 { return 2.5 },
	}
}

func daysAgo(n int) time.Time {
	return testNow.AddDate(0, 0, -n)
}

func charge(at time.Time, cents int64, cur string) models.StripeCharge {
	return models.StripeCharge{Amount: cents, Currency: cur, Created: at.Unix(), Paid: true}
}

func paypalAt(at time.Time, value, cur string) models.PayPalTransaction {
	return paypalTx(at.Format("2006-01-02T15:04:05-0700"), value, cur, "S")
}

var testProject = models.Project{ID: "p1", Name: "Project One"}

func TestAggregate_NoTransactions(t *testing.T) {
	data := ProviderData{Stripe: &models.StripeData{}, PayPal: &models.PayPalData{}}

	s, err := testEngine().Aggregate(data, testProject, currency.FallbackRates(), "USD")
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	if s.Orders != 0 || s.Revenue != 0 || s.AvgOrderValue != 0 {
		t.Errorf("expected zero totals, got orders=%d revenue=%d aov=%d", s.Orders, s.Revenue, s.AvgOrderValue)
	}
	if s.GrowthPercent != "0.0" {
		t.Errorf("GrowthPercent = %q, want 0.0", s.GrowthPercent)
	}
	if len(s.DailyRevenue) != models.WindowDays {
		t.Fatalf("DailyRevenue has %d buckets", len(s.DailyRevenue))
	}
	for i, v := range s.DailyRevenue {
		if v != 0 {
			t.Errorf("DailyRevenue[%d] = %d, want 0", i, v)
		}
	}
	if s.DailyLabels[models.WindowDays-1] != "Feb 10" {
		t.Errorf("last label = %s, want Feb 10", s.DailyLabels[models.WindowDays-1])
	}
	if s.ProjectID != "p1" || s.Currency != "USD" || !s.GeneratedAt.Equal(testNow) {
		t.Errorf("unexpected header fields: %+v", s)
	}
}

func TestAggregate_FailureKinds(t *testing.T) {
	engine := testEngine()

	_, err := engine.Aggregate(ProviderData{}, testProject, nil, "USD")
	if !errors.Is(err, ErrNoProviders) {
		t.Fatalf("expected ErrNoProviders, got %v", err)
	}
	var failed *ProvidersFailedError
	if errors.As(err, &failed) {
		t.Error("no-providers error must not be a ProvidersFailedError")
	}

	_, err = engine.Aggregate(ProviderData{Errors: []string{"Stripe: boom", "PayPal: nope"}}, testProject, nil, "USD")
	if errors.Is(err, ErrNoProviders) {
		t.Error("all-failed error must not match ErrNoProviders")
	}
	if !errors.As(err, &failed) {
		t.Fatalf("expected ProvidersFailedError, got %T", err)
	}
	if err.Error() != "Stripe: boom | PayPal: nope" {
		t.Errorf("Error() = %q", err.Error())
	}
	if len(failed.Errors) != 2 {
		t.Errorf("Errors = %v, want 2 entries", failed.Errors)
	}
}

func TestAggregate_StripeChargeToday(t *testing.T) {
	data := ProviderData{Stripe: &models.StripeData{
		Charges: []models.StripeCharge{charge(testNow, 10000, "usd")},
	}}

	s, err := testEngine().Aggregate(data, testProject, currency.FallbackRates(), "USD")
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	if s.TodayRevenue != 100 {
		t.Errorf("TodayRevenue = %d, want 100", s.TodayRevenue)
	}
	if s.Orders != 1 {
		t.Errorf("Orders = %d, want 1", s.Orders)
	}
	if s.Revenue != 100 || s.AvgOrderValue != 100 {
		t.Errorf("Revenue = %d, AvgOrderValue = %d, want 100 and 100", s.Revenue, s.AvgOrderValue)
	}
	if s.DailyOrders[models.WindowDays-1] != 1 {
		t.Errorf("DailyOrders[today] = %d, want 1", s.DailyOrders[models.WindowDays-1])
	}
}

func TestAggregate_FiltersAndWindow(t *testing.T) {
	refunded := charge(testNow, 5000, "usd")
	refunded.Refunded = true
	unpaid := charge(testNow, 5000, "usd")
	unpaid.Paid = false

	data := ProviderData{
		Stripe: &models.StripeData{Charges: []models.StripeCharge{
			refunded,
			unpaid,
			charge(daysAgo(30), 5000, "usd"),
			charge(daysAgo(29), 1000, "usd"),
		}},
		PayPal: &models.PayPalData{Transactions: []models.PayPalTransaction{
			paypalTx(testNow.Format(time.RFC3339), "50", "USD", "D"),
		}},
	}

	s, err := testEngine().Aggregate(data, testProject, nil, "USD")
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	if s.Orders != 1 || s.Revenue != 10 {
		t.Errorf("Orders = %d, Revenue = %d, want 1 and 10", s.Orders, s.Revenue)
	}
	if s.DailyRevenue[0] != 10 {
		t.Errorf("DailyRevenue[0] = %d, want 10", s.DailyRevenue[0])
	}
}

func TestAggregate_MultiCurrency(t *testing.T) {
	rates := currency.RateTable{"USD": 1, "NZD": 2, "EUR": 0.5}
	data := ProviderData{
		Stripe: &models.StripeData{Charges: []models.StripeCharge{charge(testNow, 1000, "usd")}},
		PayPal: &models.PayPalData{Transactions: []models.PayPalTransaction{
			paypalAt(testNow, "5.00", "NZD"),
			paypalAt(daysAgo(1), "10.00", "EUR"),
		}},
	}

	s, err := testEngine().Aggregate(data, testProject, rates, "nzd")
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	if s.Currency != "NZD" {
		t.Errorf("Currency = %s, want NZD", s.Currency)
	}
	if s.TodayRevenue != 25 {
		t.Errorf("TodayRevenue = %d, want 25", s.TodayRevenue)
	}
	if s.YesterdayRevenue != 40 {
		t.Errorf("YesterdayRevenue = %d, want 40", s.YesterdayRevenue)
	}
	if s.Revenue != 65 || s.Orders != 3 || s.AvgOrderValue != 21 {
		t.Errorf("Revenue = %d, Orders = %d, AOV = %d, want 65, 3, 21", s.Revenue, s.Orders, s.AvgOrderValue)
	}
}

func TestAggregate_RoundsTotalsNotBuckets(t *testing.T) {
	data := ProviderData{Stripe: &models.StripeData{Charges: []models.StripeCharge{
		charge(daysAgo(2), 40, "usd"),
		charge(daysAgo(1), 40, "usd"),
		charge(testNow, 40, "usd"),
	}}}

	s, err := testEngine().Aggregate(data, testProject, nil, "USD")
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	for i := models.WindowDays - 3; i < models.WindowDays; i++ {
		if s.DailyRevenue[i] != 0 {
			t.Errorf("DailyRevenue[%d] = %d, want 0", i, s.DailyRevenue[i])
		}
	}
	if s.Revenue != 1 {
		t.Errorf("Revenue = %d, want 1", s.Revenue)
	}
	if s.AvgOrderValue != 0 {
		t.Errorf("AvgOrderValue = %d, want 0", s.AvgOrderValue)
	}
}

func TestAggregate_Growth(t *testing.T) {
	tests := []struct {
		name     string
		previous int64
		recent   int64
		want     string
	}{
		{"NoPrevious", 0, 50000, "0.0"},
		{"Up", 10000, 15000, "50.0"},
		{"Down", 20000, 15000, "-25.0"},
		{"Flat", 10000, 10000, "0.0"},
		{"OneDecimal", 30000, 10000, "-66.7"},
		{"BelowHalf", 200000, 200300, "0.1"},
		{"ExactHalfUp", 400000, 401000, "0.3"},
		{"ExactHalfDown", 400000, 397000, "-0.8"},
		{"AboveHalfNegative", 200000, 199900, "-0.1"},
		{"NegativeZero", 1000000, 999900, "-0.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var charges []models.StripeCharge
			if tt.previous > 0 {
				charges = append(charges, charge(daysAgo(20), tt.previous, "usd"))
			}
			if tt.recent > 0 {
				charges = append(charges, charge(daysAgo(3), tt.recent, "usd"))
			}
			data := ProviderData{Stripe: &models.StripeData{Charges: charges}}

			s, err := testEngine().Aggregate(data, testProject, nil, "USD")
			if err != nil {
				t.Fatalf("Aggregate() error = %v", err)
			}
			if s.GrowthPercent != tt.want {
				t.Errorf("GrowthPercent = %q, want %q", s.GrowthPercent, tt.want)
			}
		})
	}
}

func TestAggregate_Balances(t *testing.T) {
	rates := currency.RateTable{"USD": 1, "NZD": 2, "EUR": 0.92}
	data := ProviderData{
		Stripe: &models.StripeData{Balance: &models.StripeBalance{Available: []models.StripeBalanceEntry{
			{Amount: 1000, Currency: "usd"},
			{Amount: 500, Currency: "nzd"},
		}}},
		PayPal: &models.PayPalData{Balance: &models.PayPalBalance{Balances: []models.PayPalBalanceEntry{
			{Currency: "EUR", TotalBalance: models.PayPalMoney{Value: "9.20", CurrencyCode: "EUR"}},
			{Currency: "USD", TotalBalance: models.PayPalMoney{Value: "4.40"}},
		}}},
	}

	s, err := testEngine().Aggregate(data, testProject, rates, "USD")
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	if s.StripeBalance != 13 {
		t.Errorf("StripeBalance = %d, want 13", s.StripeBalance)
	}
	if s.PayPalBalance != 14 {
		t.Errorf("PayPalBalance = %d, want 14", s.PayPalBalance)
	}
}

func TestAggregate_ConversionRateIsSynthetic(t *testing.T) {
	data := ProviderData{Stripe: &models.StripeData{}}

	s, err := testEngine().Aggregate(data, testProject, nil, "USD")
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	if s.ConversionRate.Value != "2.50" || !s.ConversionRate.Synthetic {
		t.Errorf("ConversionRate = %+v, want synthetic 2.50", s.ConversionRate)
	}

	for range 50 {
		s, _ = NewEngine().Aggregate(data, testProject, nil, "USD")
		if v := s.ConversionRate.Float(); v < 1.5 || v > 3.5 {
			t.Fatalf("placeholder conversion rate %v outside [1.5, 3.5]", v)
		}
	}
}

func TestAggregate_CarriesProviderErrors(t *testing.T) {
	data := ProviderData{
		PayPal: &models.PayPalData{Transactions: []models.PayPalTransaction{paypalAt(testNow, "10", "USD")}},
		Errors: []string{"Stripe: Invalid API Key"},
	}

	s, err := testEngine().Aggregate(data, testProject, nil, "USD")
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	if len(s.Errors) != 1 || !strings.HasPrefix(s.Errors[0], "Stripe: ") {
		t.Errorf("Errors = %v", s.Errors)
	}
	data.Errors[0] = "mutated"
	if s.Errors[0] == "mutated" {
		t.Error("summary errors share backing array with input")
	}
}
