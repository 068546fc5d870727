package sales

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/j-veylop/revenue-dashboard-tui/internal/models"
	"github.com/j-veylop/revenue-dashboard-tui/internal/services/currency"
)

const recentWindow = 24 * time.Hour

// RecentActivity returns successful transactions newest first, converted to
// preferred and capped at models.MaxRecentActivity. Provider-supplied recent
// subsets are used as is; otherwise the last 24 hours of the full lists are.
func RecentActivity(data ProviderData, now time.Time, rates currency.RateTable, preferred string) []models.ActivityEntry {
	cutoff := now.Add(-recentWindow).UnixMilli()
	var txs []models.NormalizedTransaction

	if data.Stripe != nil {
		charges, filter := data.Stripe.RecentCharges, false
		if charges == nil {
			charges, filter = data.Stripe.Charges, true
		}
		for _, c := range charges {
			n := NormalizeStripe(c)
			if n.Succeeded && (!filter || n.TimestampMillis >= cutoff) {
				txs = append(txs, n)
			}
		}
	}

	if data.PayPal != nil {
		list, filter := data.PayPal.RecentTransactions, false
		if list == nil {
			list, filter = data.PayPal.Transactions, true
		}
		for _, tx := range list {
			n, ok := NormalizePayPal(tx)
			if ok && n.Succeeded && (!filter || n.TimestampMillis >= cutoff) {
				txs = append(txs, n)
			}
		}
	}

	slices.SortStableFunc(txs, func(a, b models.NormalizedTransaction) int {
		return cmp.Compare(b.TimestampMillis, a.TimestampMillis)
	})
	if len(txs) > models.MaxRecentActivity {
		txs = txs[:models.MaxRecentActivity]
	}

	entries := make([]models.ActivityEntry, 0, len(txs))
	for _, tx := range txs {
		ts := time.UnixMilli(tx.TimestampMillis)
		entries = append(entries, models.ActivityEntry{
			Provider:    tx.Provider,
			Description: tx.Description,
			Amount:      currency.Convert(tx.Amount, tx.Currency, preferred, rates),
			Currency:    preferred,
			Timestamp:   ts,
			Age:         AgeLabel(now.Sub(ts)),
		})
	}
	return entries
}

// AgeLabel renders elapsed time as "Nm ago", "Nh ago" or "Nd ago".
func AgeLabel(elapsed time.Duration) string {
	minutes := int64(elapsed / time.Minute)
	if minutes < 0 {
		minutes = 0
	}
	switch {
	case minutes < 60:
		return fmt.Sprintf("%dm ago", minutes)
	case minutes < 1440:
		return fmt.Sprintf("%dh ago", minutes/60)
	default:
		return fmt.Sprintf("%dd ago", minutes/1440)
	}
}
