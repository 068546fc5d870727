package sales

import (
	"testing"
	"time"

	"github.com/j-veylop/revenue-dashboard-tui/internal/models"
)

func TestNormalizeStripe(t *testing.T) {
	tests := []struct {
		name          string
		charge        models.StripeCharge
		wantAmount    float64
		wantCurrency  string
		wantSucceeded bool
		wantDesc      string
	}{
		{
			name:          "Paid",
			charge:        models.StripeCharge{Amount: 1999, Currency: "usd", Paid: true, Description: "Pro plan"},
			wantAmount:    19.99,
			wantCurrency:  "USD",
			wantSucceeded: true,
			wantDesc:      "Pro plan",
		},
		{
			name:          "Refunded",
			charge:        models.StripeCharge{Amount: 500, Currency: "eur", Paid: true, Refunded: true},
			wantAmount:    5,
			wantCurrency:  "EUR",
			wantSucceeded: false,
			wantDesc:      "Payment",
		},
		{
			name:          "Unpaid",
			charge:        models.StripeCharge{Amount: 100, Currency: "nzd"},
			wantAmount:    1,
			wantCurrency:  "NZD",
			wantSucceeded: false,
			wantDesc:      "Payment",
		},
		{
			name:          "MissingCurrency",
			charge:        models.StripeCharge{Amount: 250, Paid: true},
			wantAmount:    2.5,
			wantCurrency:  "USD",
			wantSucceeded: true,
			wantDesc:      "Payment",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.charge.Created = 1707577200
			got := NormalizeStripe(tt.charge)
			if got.Amount != tt.wantAmount {
				t.Errorf("Amount = %v, want %v", got.Amount, tt.wantAmount)
			}
			if got.Currency != tt.wantCurrency {
				t.Errorf("Currency = %s, want %s", got.Currency, tt.wantCurrency)
			}
			if got.Succeeded != tt.wantSucceeded {
				t.Errorf("Succeeded = %v, want %v", got.Succeeded, tt.wantSucceeded)
			}
			if got.Description != tt.wantDesc {
				t.Errorf("Description = %q, want %q", got.Description, tt.wantDesc)
			}
			if got.TimestampMillis != 1707577200000 {
				t.Errorf("TimestampMillis = %d, want 1707577200000", got.TimestampMillis)
			}
			if got.Provider != models.ProviderStripe {
				t.Errorf("Provider = %s, want stripe", got.Provider)
			}
		})
	}
}

func paypalTx(date, value, code, status string) models.PayPalTransaction {
	return models.PayPalTransaction{TransactionInfo: models.PayPalTransactionInfo{
		TransactionAmount:         models.PayPalMoney{Value: value, CurrencyCode: code},
		TransactionInitiationDate: date,
		TransactionStatus:         status,
	}}
}

func TestNormalizePayPal(t *testing.T) {
	want := time.Date(2024, 2, 10, 10, 0, 0, 0, time.UTC).UnixMilli()

	tests := []struct {
		name          string
		tx            models.PayPalTransaction
		wantOK        bool
		wantAmount    float64
		wantCurrency  string
		wantSucceeded bool
	}{
		{"Success", paypalTx("2024-02-10T10:00:00+0000", "25.50", "nzd", "S"), true, 25.5, "NZD", true},
		{"RFC3339", paypalTx("2024-02-10T10:00:00Z", "1.00", "USD", "S"), true, 1, "USD", true},
		{"OffsetConverted", paypalTx("2024-02-10T23:00:00+1300", "3", "AUD", "S"), true, 3, "AUD", true},
		{"Pending", paypalTx("2024-02-10T10:00:00+0000", "10", "USD", "P"), true, 10, "USD", false},
		{"NegativeIsAbsolute", paypalTx("2024-02-10T10:00:00+0000", "-12.25", "EUR", "S"), true, 12.25, "EUR", true},
		{"MissingCurrency", paypalTx("2024-02-10T10:00:00+0000", "7", "", "S"), true, 7, "USD", true},
		{"BadValue", paypalTx("2024-02-10T10:00:00+0000", "abc", "USD", "S"), true, 0, "USD", true},
		{"BadDate", paypalTx("yesterday", "7", "USD", "S"), false, 0, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizePayPal(tt.tx)
			if ok != tt.wantOK {
				t.Fatalf("NormalizePayPal() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if got.TimestampMillis != want {
				t.Errorf("TimestampMillis = %d, want %d", got.TimestampMillis, want)
			}
			if got.Amount != tt.wantAmount {
				t.Errorf("Amount = %v, want %v", got.Amount, tt.wantAmount)
			}
			if got.Currency != tt.wantCurrency {
				t.Errorf("Currency = %s, want %s", got.Currency, tt.wantCurrency)
			}
			if got.Succeeded != tt.wantSucceeded {
				t.Errorf("Succeeded = %v, want %v", got.Succeeded, tt.wantSucceeded)
			}
			if got.Description != "Payment" {
				t.Errorf("Description = %q, want Payment", got.Description)
			}
		})
	}
}

func TestNormalize_SkipsUnparseable(t *testing.T) {
	data := ProviderData{
		Stripe: &models.StripeData{Charges: []models.StripeCharge{{Amount: 100, Paid: true}}},
		PayPal: &models.PayPalData{Transactions: []models.PayPalTransaction{
			paypalTx("2024-02-10T10:00:00Z", "1", "USD", "S"),
			paypalTx("", "1", "USD", "S"),
		}},
	}
	if got := Normalize(data); len(got) != 2 {
		t.Errorf("Normalize() returned %d records, want 2", len(got))
	}
}
