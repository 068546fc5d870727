// Package providers combines the Stripe and PayPal clients into the data
// source used by the sales engine.
package providers

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/j-veylop/revenue-dashboard-tui/internal/models"
	"github.com/j-veylop/revenue-dashboard-tui/internal/services/providers/paypal"
	"github.com/j-veylop/revenue-dashboard-tui/internal/services/providers/stripe"
	"github.com/j-veylop/revenue-dashboard-tui/internal/services/sales"
)

// Config holds configuration for the provider source.
type Config struct {
	Timeout time.Duration
	Stripe  stripe.Config
	PayPal  paypal.Config
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{Timeout: 30 * time.Second}
}

// Source fetches raw provider records over HTTP.
type Source struct {
	stripe *stripe.Client
	paypal *paypal.Client
}

var _ sales.DataSource = (*Source)(nil)

// New creates a source. Clients without an explicit HTTP client share one
// with the configured timeout, and each provider gets its own limiter.
func New(cfg Config) *Source {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	shared := &http.Client{Timeout: cfg.Timeout}

	if cfg.Stripe.HTTPClient == nil {
		cfg.Stripe.HTTPClient = shared
	}
	if cfg.Stripe.Limiter == nil {
		cfg.Stripe.Limiter = rate.NewLimiter(rate.Every(50*time.Millisecond), 20)
	}
	if cfg.PayPal.HTTPClient == nil {
		cfg.PayPal.HTTPClient = shared
	}
	if cfg.PayPal.Limiter == nil {
		cfg.PayPal.Limiter = rate.NewLimiter(rate.Every(200*time.Millisecond), 10)
	}

	return &Source{
		stripe: stripe.New(cfg.Stripe),
		paypal: paypal.New(cfg.PayPal),
	}
}

// FetchStripe implements sales.DataSource.
func (s *Source) FetchStripe(ctx context.Context, cfg models.StripeConfig, since time.Time) (*models.StripeData, error) {
	return s.stripe.Fetch(ctx, cfg, since)
}

// FetchPayPal implements sales.DataSource.
func (s *Source) FetchPayPal(ctx context.Context, cfg models.PayPalConfig, since, until time.Time) (*models.PayPalData, error) {
	return s.paypal.Fetch(ctx, cfg, since, until)
}
