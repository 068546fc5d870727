package sales

import (
	"context"
	"time"

	"github.com/j-veylop/revenue-dashboard-tui/internal/logger"
	"github.com/j-veylop/revenue-dashboard-tui/internal/models"
	"github.com/j-veylop/revenue-dashboard-tui/internal/services/currency"
)

// PayPalRestrictedMessage is recorded when PayPal answers with no
// transactions, which usually means the account lacks reporting access.
const PayPalRestrictedMessage = "PayPal: Account lacks Transaction API access - showing Stripe data only. Contact PayPal to enable API access or use Sandbox credentials."

// DataSource fetches raw provider records for a project.
type DataSource interface {
	FetchStripe(ctx context.Context, cfg models.StripeConfig, since time.Time) (*models.StripeData, error)
	FetchPayPal(ctx context.Context, cfg models.PayPalConfig, since, until time.Time) (*models.PayPalData, error)
}

// Collect queries every configured provider of project. Failures become
// "Stripe: ..." or "PayPal: ..." entries and never stop the other provider.
func Collect(ctx context.Context, src DataSource, project models.Project, since, until time.Time) ProviderData {
	var data ProviderData

	if project.Stripe.Configured() {
		stripe, err := src.FetchStripe(ctx, project.Stripe, since)
		if err != nil {
			logger.Warn("stripe fetch failed", "project", project.ID, "error", err)
			data.Errors = append(data.Errors, models.ProviderStripe.Label()+": "+err.Error())
		} else {
			if stripe == nil {
				stripe = &models.StripeData{}
			}
			data.Stripe = stripe
		}
	}

	if project.PayPal.Configured() {
		paypal, err := src.FetchPayPal(ctx, project.PayPal, since, until)
		if err != nil {
			logger.Warn("paypal fetch failed", "project", project.ID,
				"variant", project.PayPal.Credentials.Variant().String(), "error", err)
			data.Errors = append(data.Errors, models.ProviderPayPal.Label()+": "+err.Error())
		} else {
			if paypal == nil {
				paypal = &models.PayPalData{}
			}
			if len(paypal.Transactions) == 0 {
				data.Errors = append(data.Errors, PayPalRestrictedMessage)
			}
			data.PayPal = paypal
		}
	}

	return data
}

// Fetch collects provider data for the window ending now and aggregates it.
func (e *Engine) Fetch(ctx context.Context, src DataSource, project models.Project, rates currency.RateTable, preferred string) (*models.SalesSummary, error) {
	now := e.now()
	data := Collect(ctx, src, project, now.AddDate(0, 0, -models.WindowDays), now)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return e.Aggregate(data, project, rates, preferred)
}
