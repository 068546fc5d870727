package paypal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"

	"github.com/j-veylop/revenue-dashboard-tui/internal/logger"
	"github.com/j-veylop/revenue-dashboard-tui/internal/models"
)

const (
	reportingPageSize = 500
	maxReportingPages = 10
)

const classicHint = "\n\nTry using Classic API credentials instead (username/password/signature)"

type transactionsResponse struct {
	TransactionDetails []models.PayPalTransaction `json:"transaction_details"`
	Page               int                        `json:"page"`
	TotalPages         int                        `json:"total_pages"`
}

// RESTClient talks to the PayPal REST API with OAuth client credentials.
type RESTClient struct {
	transport
	liveURL    string
	sandboxURL string

	mu     sync.Mutex
	tokens map[string]oauth2.TokenSource
}

func newRESTClient(liveURL, sandboxURL string, client *http.Client, limiter *rate.Limiter) *RESTClient {
	return &RESTClient{
		transport:  transport{http: client, limiter: limiter},
		liveURL:    liveURL,
		sandboxURL: sandboxURL,
		tokens:     make(map[string]oauth2.TokenSource),
	}
}

// Fetch returns transactions and the balance. Accounts without reporting
// access get an empty transaction list rather than an error.
func (c *RESTClient) Fetch(ctx context.Context, creds models.RESTCredentials, sandbox bool, since, until time.Time) (*models.PayPalData, error) {
	base := c.liveURL
	if sandbox {
		base = c.sandboxURL
	}

	token, err := c.token(ctx, base, creds)
	if err != nil {
		return nil, err
	}

	txs, err := c.transactions(ctx, base, token, since, until)
	if err != nil {
		return nil, err
	}

	balance, err := c.balance(ctx, base, token)
	if err != nil {
		logger.Warn("could not fetch paypal balance", "error", err)
	}

	return &models.PayPalData{Transactions: txs, Balance: balance}, nil
}

func (c *RESTClient) token(ctx context.Context, base string, creds models.RESTCredentials) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key := base + "|" + creds.ClientID
	c.mu.Lock()
	ts, ok := c.tokens[key]
	if !ok {
		conf := &clientcredentials.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.Secret,
			TokenURL:     base + "/v1/oauth2/token",
			AuthStyle:    oauth2.AuthStyleInHeader,
		}
		// Cached across fetches, so not bound to ctx.
		tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, c.http)
		ts = conf.TokenSource(tokenCtx)
		c.tokens[key] = ts
	}
	c.mu.Unlock()

	tok, err := ts.Token()
	if err != nil {
		c.mu.Lock()
		delete(c.tokens, key)
		c.mu.Unlock()
		return "", authError(err)
	}
	return tok.AccessToken, nil
}

func authError(err error) error {
	msg := "PayPal REST authentication failed"
	status := 0
	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		if re.Response != nil {
			status = re.Response.StatusCode
			msg += " (" + strconv.Itoa(status) + ")"
		}
		if re.ErrorDescription != "" {
			msg += ": " + re.ErrorDescription
		}
	} else {
		msg += ": " + err.Error()
	}
	return &APIError{Message: msg + classicHint}
}

func (c *RESTClient) transactions(ctx context.Context, base, token string, since, until time.Time) ([]models.PayPalTransaction, error) {
	all := make([]models.PayPalTransaction, 0)

	for page := 1; page <= maxReportingPages; page++ {
		q := url.Values{}
		q.Set("start_date", formatTime(since))
		q.Set("end_date", formatTime(until))
		q.Set("fields", "transaction_info")
		q.Set("page_size", strconv.Itoa(reportingPageSize))
		q.Set("page", strconv.Itoa(page))

		status, body, err := c.get(ctx, base+"/v1/reporting/transactions?"+q.Encode(), token)
		if err != nil {
			return nil, err
		}
		if status == http.StatusForbidden {
			logger.Warn("paypal transaction search not enabled for account", "status", status)
			return all, nil
		}
		if status != http.StatusOK {
			return nil, &APIError{StatusCode: status, Message: "PayPal transaction search failed"}
		}

		var resp transactionsResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("failed to parse paypal transactions: %w", err)
		}
		all = append(all, resp.TransactionDetails...)

		if page >= resp.TotalPages {
			break
		}
	}
	return all, nil
}

func (c *RESTClient) balance(ctx context.Context, base, token string) (*models.PayPalBalance, error) {
	var lastErr error
	for _, path := range []string{"/v1/reporting/balances", "/v1/wallet/balance"} {
		status, body, err := c.get(ctx, base+path, token)
		if err != nil {
			return nil, err
		}
		if status != http.StatusOK {
			lastErr = &APIError{StatusCode: status, Message: "PayPal balance request failed: " + path}
			continue
		}
		var balance models.PayPalBalance
		if err := json.Unmarshal(body, &balance); err != nil {
			lastErr = fmt.Errorf("failed to parse paypal balance: %w", err)
			continue
		}
		return &balance, nil
	}
	return nil, lastErr
}

func (c *RESTClient) get(ctx context.Context, rawURL, token string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create paypal request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}
