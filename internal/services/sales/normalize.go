package sales

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/j-veylop/revenue-dashboard-tui/internal/logger"
	"github.com/j-veylop/revenue-dashboard-tui/internal/models"
)

const (
	defaultCurrency    = "USD"
	defaultDescription = "Payment"
	paypalSuccess      = "S"
)

// PayPal reports initiation dates with a numeric offset and no colon.
var paypalTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05.000-0700",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02",
}

// NormalizeStripe maps a Stripe charge. Amounts are assumed to have two
// minor-unit digits, including for zero-decimal currencies.
func NormalizeStripe(c models.StripeCharge) models.NormalizedTransaction {
	desc := c.Description
	if desc == "" {
		desc = defaultDescription
	}
	return models.NormalizedTransaction{
		TimestampMillis: c.Created * 1000,
		Amount:          float64(c.Amount) / 100,
		Currency:        currencyCode(c.Currency),
		Succeeded:       c.Paid && !c.Refunded,
		Provider:        models.ProviderStripe,
		Description:     desc,
	}
}

// NormalizePayPal maps a PayPal transaction. The amount is taken as an
// absolute value, so refunds count the same as sales. It returns false when
// the initiation date cannot be parsed.
func NormalizePayPal(tx models.PayPalTransaction) (models.NormalizedTransaction, bool) {
	info := tx.TransactionInfo
	ts, err := parsePayPalTime(info.TransactionInitiationDate)
	if err != nil {
		logger.Debug("skipping paypal transaction with bad date",
			"transaction", info.TransactionID, "date", info.TransactionInitiationDate)
		return models.NormalizedTransaction{}, false
	}

	desc := info.TransactionType
	if desc == "" {
		desc = defaultDescription
	}
	return models.NormalizedTransaction{
		TimestampMillis: ts.UnixMilli(),
		Amount:          parseAmount(info.TransactionAmount.Value).Abs().InexactFloat64(),
		Currency:        currencyCode(info.TransactionAmount.CurrencyCode),
		Succeeded:       info.TransactionStatus == paypalSuccess,
		Provider:        models.ProviderPayPal,
		Description:     desc,
	}, true
}

// Normalize maps every record in data. Failed and refunded records are kept
// with Succeeded false.
func Normalize(data ProviderData) []models.NormalizedTransaction {
	var out []models.NormalizedTransaction
	if data.Stripe != nil {
		for _, c := range data.Stripe.Charges {
			out = append(out, NormalizeStripe(c))
		}
	}
	if data.PayPal != nil {
		for _, tx := range data.PayPal.Transactions {
			if n, ok := NormalizePayPal(tx); ok {
				out = append(out, n)
			}
		}
	}
	return out
}

func currencyCode(code string) string {
	if code == "" {
		return defaultCurrency
	}
	return strings.ToUpper(code)
}

func parseAmount(value string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func parsePayPalTime(value string) (time.Time, error) {
	var err error
	for _, layout := range paypalTimeLayouts {
		var t time.Time
		if t, err = time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}
