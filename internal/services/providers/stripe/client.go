// Package stripe reads charges and balances through the Stripe Go SDK.
package stripe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	stripeapi "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"golang.org/x/time/rate"

	"github.com/j-veylop/revenue-dashboard-tui/internal/logger"
	"github.com/j-veylop/revenue-dashboard-tui/internal/models"
)

// DefaultBaseURL is the Stripe API host.
const DefaultBaseURL = stripeapi.APIURL

const (
	pageLimit = 100
	maxPages  = 10
)

const restrictedKeyHelp = "\n\nRestricted key permissions:\n" +
	"1. Open Stripe Dashboard > Developers > API keys\n" +
	"2. Edit the restricted key (rk_live_...)\n" +
	"3. Enable Charges: Read and Balance: Read\n" +
	"4. Save, or check the key was copied correctly."

const authHelp = "\n\nAuthentication failed. Check your API key permissions."

// ErrMissingKey is returned when a project enables Stripe without a key.
var ErrMissingKey = errors.New("api key required")

// Config holds configuration for the Stripe client.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	Limiter    *rate.Limiter
}

// Client calls the Stripe API. It is safe for concurrent use; each call
// binds the project's key to the shared SDK backend.
type Client struct {
	backends *stripeapi.Backends
	limiter  *rate.Limiter
}

// APIError is a non-2xx answer from Stripe.
type APIError struct {
	StatusCode int
	Type       string
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = fmt.Sprintf("Stripe request failed (status %d)", e.StatusCode)
	}
	if e.StatusCode == http.StatusUnauthorized {
		if strings.Contains(msg, "Invalid API Key") {
			return msg + restrictedKeyHelp
		}
		return msg + authHelp
	}
	return msg
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// New creates a Stripe client.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if cfg.Limiter == nil {
		cfg.Limiter = rate.NewLimiter(rate.Every(50*time.Millisecond), 20)
	}

	backend := stripeapi.GetBackendWithConfig(stripeapi.APIBackend, &stripeapi.BackendConfig{
		URL:               stripeapi.String(strings.TrimRight(cfg.BaseURL, "/")),
		HTTPClient:        cfg.HTTPClient,
		MaxNetworkRetries: stripeapi.Int64(0),
		LeveledLogger:     sdkLogger{},
	})

	return &Client{
		backends: &stripeapi.Backends{API: backend, Connect: backend, Uploads: backend},
		limiter:  cfg.Limiter,
	}
}

func (c *Client) api(apiKey string) *client.API {
	sc := &client.API{}
	sc.Init(apiKey, c.backends)
	return sc
}

// Fetch returns the charges created since the given time and the account
// balance. A balance failure is logged and leaves Balance nil.
func (c *Client) Fetch(ctx context.Context, cfg models.StripeConfig, since time.Time) (*models.StripeData, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingKey
	}

	logger.Debug("stripe request", "key", MaskKey(cfg.APIKey))

	charges, err := c.Charges(ctx, cfg.APIKey, since)
	if err != nil {
		return nil, err
	}

	balance, err := c.Balance(ctx, cfg.APIKey)
	if err != nil {
		logger.Warn("could not fetch stripe balance", "key", MaskKey(cfg.APIKey), "error", err)
	}

	return &models.StripeData{Charges: charges, Balance: balance}, nil
}

// Charges lists charges created at or after since, one page per request, up
// to maxPages pages.
func (c *Client) Charges(ctx context.Context, apiKey string, since time.Time) ([]models.StripeCharge, error) {
	sc := c.api(apiKey)
	var all []models.StripeCharge
	var startingAfter *string

	for page := 0; page < maxPages; page++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("failed to wait for rate limiter: %w", err)
		}

		params := &stripeapi.ChargeListParams{
			CreatedRange: &stripeapi.RangeQueryParams{GreaterThanOrEqual: since.Unix()},
		}
		params.Context = ctx
		params.Limit = stripeapi.Int64(pageLimit)
		params.StartingAfter = startingAfter
		params.Single = true

		iter := sc.Charges.List(params)
		n := 0
		for iter.Next() {
			all = append(all, toCharge(iter.Charge()))
			n++
		}
		if err := iter.Err(); err != nil {
			return nil, apiError(err)
		}

		if n == 0 || iter.Meta() == nil || !iter.Meta().HasMore {
			return all, nil
		}
		startingAfter = stripeapi.String(all[len(all)-1].ID)
	}

	logger.Warn("stripe charge listing truncated", "pages", maxPages, "charges", len(all))
	return all, nil
}

// Balance returns the account balance.
func (c *Client) Balance(ctx context.Context, apiKey string) (*models.StripeBalance, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for rate limiter: %w", err)
	}

	params := &stripeapi.BalanceParams{}
	params.Context = ctx

	b, err := c.api(apiKey).Balance.Get(params)
	if err != nil {
		return nil, apiError(err)
	}

	return &models.StripeBalance{
		Available: toEntries(b.Available),
		Pending:   toEntries(b.Pending),
	}, nil
}

func toCharge(ch *stripeapi.Charge) models.StripeCharge {
	return models.StripeCharge{
		ID:          ch.ID,
		Amount:      ch.Amount,
		Currency:    string(ch.Currency),
		Created:     ch.Created,
		Paid:        ch.Paid,
		Refunded:    ch.Refunded,
		Description: ch.Description,
	}
}

func toEntries(amounts []*stripeapi.BalanceAmount) []models.StripeBalanceEntry {
	out := make([]models.StripeBalanceEntry, 0, len(amounts))
	for _, a := range amounts {
		if a == nil {
			continue
		}
		out = append(out, models.StripeBalanceEntry{Amount: a.Amount, Currency: string(a.Currency)})
	}
	return out
}

// apiError converts SDK errors that carry an HTTP answer into *APIError.
func apiError(err error) error {
	var se *stripeapi.Error
	if !errors.As(err, &se) {
		return fmt.Errorf("stripe request failed: %w", err)
	}
	return &APIError{
		StatusCode: se.HTTPStatusCode,
		Type:       string(se.Type),
		Message:    se.Msg,
		Err:        se,
	}
}

// MaskKey shortens an API key to its first 8 and last 4 characters.
func MaskKey(key string) string {
	if len(key) <= 12 {
		return "***"
	}
	return key[:8] + "..." + key[len(key)-4:]
}
