package paypal

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/j-veylop/revenue-dashboard-tui/internal/logger"
	"github.com/j-veylop/revenue-dashboard-tui/internal/models"
)

const nvpVersion = "204.0"

// ClassicClient talks to the PayPal NVP API.
type ClassicClient struct {
	transport
	liveURL    string
	sandboxURL string
}

func newClassicClient(liveURL, sandboxURL string, client *http.Client, limiter *rate.Limiter) *ClassicClient {
	return &ClassicClient{
		transport:  transport{http: client, limiter: limiter},
		liveURL:    liveURL,
		sandboxURL: sandboxURL,
	}
}

// Fetch runs TransactionSearch and GetBalance. A GetBalance failure is
// logged and leaves Balance nil.
func (c *ClassicClient) Fetch(ctx context.Context, creds models.ClassicCredentials, sandbox bool, since, until time.Time) (*models.PayPalData, error) {
	endpoint := c.liveURL
	if sandbox {
		endpoint = c.sandboxURL
	}

	values, err := c.call(ctx, endpoint, creds, "TransactionSearch", url.Values{
		"STARTDATE": {formatTime(since)},
		"ENDDATE":   {formatTime(until)},
		"STATUS":    {"Success"},
	})
	if err != nil {
		return nil, err
	}
	if err := ackError(values); err != nil {
		return nil, err
	}

	txs := parseTransactions(values)
	logger.Debug("paypal classic transactions", "count", len(txs))

	data := &models.PayPalData{Transactions: txs}

	balanceValues, err := c.call(ctx, endpoint, creds, "GetBalance", nil)
	switch {
	case err != nil:
		logger.Warn("could not fetch paypal balance", "error", err)
	case balanceValues.Get("ACK") != "Success":
		logger.Warn("could not fetch paypal balance", "error", ackError(balanceValues))
	default:
		code := orDefault(balanceValues.Get("L_CURRENCYCODE0"), "USD")
		data.Balance = &models.PayPalBalance{Balances: []models.PayPalBalanceEntry{{
			Currency: code,
			TotalBalance: models.PayPalMoney{
				Value:        orDefault(balanceValues.Get("L_AMT0"), "0"),
				CurrencyCode: code,
			},
		}}}
	}

	return data, nil
}

func (c *ClassicClient) call(ctx context.Context, endpoint string, creds models.ClassicCredentials, method string, extra url.Values) (url.Values, error) {
	form := url.Values{}
	form.Set("USER", creds.Username)
	form.Set("PWD", creds.Password)
	form.Set("SIGNATURE", creds.Signature)
	form.Set("METHOD", method)
	form.Set("VERSION", nvpVersion)
	for k, v := range extra {
		form[k] = v
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create paypal classic request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	status, body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	values, err := url.ParseQuery(string(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse paypal classic response (status %d): %w", status, err)
	}
	return values, nil
}

// ackError returns nil for Success and SuccessWithWarning answers.
func ackError(values url.Values) error {
	ack := values.Get("ACK")
	if ack == "Success" || ack == "SuccessWithWarning" {
		return nil
	}
	short := values.Get("L_SHORTMESSAGE0")
	if short == "" {
		short = ack
	}
	msg := "PayPal Classic API error: " + short
	if long := values.Get("L_LONGMESSAGE0"); long != "" {
		msg += " - " + long
	}
	return &APIError{Message: msg}
}

// parseTransactions reads the numbered L_* rows until L_TIMESTAMPn is absent.
func parseTransactions(values url.Values) []models.PayPalTransaction {
	txs := make([]models.PayPalTransaction, 0)
	for i := 0; ; i++ {
		n := strconv.Itoa(i)
		ts := values.Get("L_TIMESTAMP" + n)
		if ts == "" {
			return txs
		}
		txs = append(txs, models.PayPalTransaction{TransactionInfo: models.PayPalTransactionInfo{
			TransactionID: values.Get("L_TRANSACTIONID" + n),
			TransactionAmount: models.PayPalMoney{
				Value:        orDefault(values.Get("L_AMT"+n), "0"),
				CurrencyCode: orDefault(values.Get("L_CURRENCYCODE"+n), "USD"),
			},
			TransactionInitiationDate: ts,
			TransactionStatus:         classicStatus(values.Get("L_STATUS" + n)),
			PayerEmail:                values.Get("L_EMAIL" + n),
			TransactionType:           values.Get("L_TYPE" + n),
		}})
	}
}

// classicStatus maps NVP statuses onto REST status codes.
func classicStatus(status string) string {
	switch strings.ToLower(status) {
	case "completed", "success":
		return "S"
	case "pending":
		return "P"
	case "denied", "failed":
		return "D"
	case "reversed", "refunded":
		return "V"
	default:
		return status
	}
}
