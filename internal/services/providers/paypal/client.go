// Package paypal reads transactions and balances from PayPal, through either
// the REST reporting API or the Classic NVP API.
package paypal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/j-veylop/revenue-dashboard-tui/internal/models"
)

const (
	// LiveRESTURL is the production REST API host.
	LiveRESTURL = "https://api-m.paypal.com"
	// SandboxRESTURL is the sandbox REST API host.
	SandboxRESTURL = "https://api-m.sandbox.paypal.com"
	// LiveClassicURL is the production NVP endpoint.
	LiveClassicURL = "https://api-3t.paypal.com/nvp"
	// SandboxClassicURL is the sandbox NVP endpoint.
	SandboxClassicURL = "https://api-3t.sandbox.paypal.com/nvp"
)

// PayPal expects second precision UTC timestamps.
const timeLayout = "2006-01-02T15:04:05Z"

// Config holds configuration for the PayPal clients. Empty URLs use the
// public PayPal hosts.
type Config struct {
	RESTURL           string
	SandboxRESTURL    string
	ClassicURL        string
	SandboxClassicURL string
	HTTPClient        *http.Client
	Limiter           *rate.Limiter
}

// Client fetches PayPal data for any supported credential variant.
type Client struct {
	rest    *RESTClient
	classic *ClassicClient
}

// APIError is a failed PayPal call.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
	}
	return e.Message
}

// New creates a PayPal client.
func New(cfg Config) *Client {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if cfg.Limiter == nil {
		cfg.Limiter = rate.NewLimiter(rate.Every(200*time.Millisecond), 10)
	}
	return &Client{
		rest: newRESTClient(
			orDefault(cfg.RESTURL, LiveRESTURL),
			orDefault(cfg.SandboxRESTURL, SandboxRESTURL),
			cfg.HTTPClient, cfg.Limiter,
		),
		classic: newClassicClient(
			orDefault(cfg.ClassicURL, LiveClassicURL),
			orDefault(cfg.SandboxClassicURL, SandboxClassicURL),
			cfg.HTTPClient, cfg.Limiter,
		),
	}
}

// Fetch returns the transactions between since and until and the balance,
// using the API matching the configured credentials.
func (c *Client) Fetch(ctx context.Context, cfg models.PayPalConfig, since, until time.Time) (*models.PayPalData, error) {
	switch creds := cfg.Credentials.(type) {
	case models.ClassicCredentials:
		return c.classic.Fetch(ctx, creds, cfg.Sandbox, since, until)
	case models.RESTCredentials:
		return c.rest.Fetch(ctx, creds, cfg.Sandbox, since, until)
	case nil:
		return nil, errors.New("credentials missing: need either username/password/signature or clientId/secret")
	default:
		return nil, fmt.Errorf("unsupported PayPal credentials %T", creds)
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return strings.TrimRight(v, "/")
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
