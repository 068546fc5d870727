package paypal

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/j-veylop/revenue-dashboard-tui/internal/models"
)

type MockRoundTripper struct {
	RoundTripFunc func(req *http.Request) (*http.Response, error)
}

func (m *MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.RoundTripFunc(req)
}

func respond(status int, contentType, body string) *http.Response {
	h := make(http.Header)
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     h,
	}
}

func newTestClient(fn func(req *http.Request) (*http.Response, error)) *Client {
	return New(Config{
		RESTURL:           "https://live.test",
		SandboxRESTURL:    "https://sandbox.test",
		ClassicURL:        "https://nvp.test/nvp",
		SandboxClassicURL: "https://nvp-sandbox.test/nvp",
		HTTPClient:        &http.Client{Transport: &MockRoundTripper{RoundTripFunc: fn}},
		Limiter:           rate.NewLimiter(rate.Inf, 1),
	})
}

var (
	since = time.Date(2024, 1, 11, 15, 0, 0, 0, time.UTC)
	until = time.Date(2024, 2, 10, 15, 0, 0, 0, time.UTC)
)

const tokenBody = `{"access_token":"tok-123","token_type":"Bearer","expires_in":3600}`

func restConfig(sandbox bool) models.PayPalConfig {
	return models.PayPalConfig{
		Enabled:     true,
		Sandbox:     sandbox,
		Credentials: models.RESTCredentials{ClientID: "client", Secret: "secret"},
	}
}

func TestREST_FetchPagesAndBalanceFallback(t *testing.T) {
	var tokenCalls atomic.Int32
	var pages []string

	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		if req.URL.Host != "sandbox.test" {
			t.Errorf("request to %s, want sandbox host", req.URL.Host)
		}
		switch req.URL.Path {
		case "/v1/oauth2/token":
			tokenCalls.Add(1)
			id, secret, ok := req.BasicAuth()
			if !ok || id != "client" || secret != "secret" {
				t.Errorf("token request basic auth = %q/%q/%v", id, secret, ok)
			}
			return respond(200, "application/json", tokenBody), nil
		case "/v1/reporting/transactions":
			if got := req.Header.Get("Authorization"); got != "Bearer tok-123" {
				t.Errorf("Authorization = %q", got)
			}
			q := req.URL.Query()
			if q.Get("start_date") != "2024-01-11T15:00:00Z" || q.Get("end_date") != "2024-02-10T15:00:00Z" {
				t.Errorf("date range = %s..%s", q.Get("start_date"), q.Get("end_date"))
			}
			if q.Get("fields") != "transaction_info" || q.Get("page_size") != "500" {
				t.Errorf("unexpected query %s", req.URL.RawQuery)
			}
			pages = append(pages, q.Get("page"))
			return respond(200, "application/json", `{"transaction_details":[{"transaction_info":{"transaction_id":"T`+q.Get("page")+`","transaction_amount":{"value":"10.00","currency_code":"USD"},"transaction_initiation_date":"2024-02-10T10:00:00+0000","transaction_status":"S"}}],"page":`+q.Get("page")+`,"total_pages":2}`), nil
		case "/v1/reporting/balances":
			return respond(404, "application/json", `{}`), nil
		case "/v1/wallet/balance":
			return respond(200, "application/json", `{"balances":[{"currency":"USD","total_balance":{"value":"55.10","currency_code":"USD"}}]}`), nil
		}
		t.Errorf("unexpected path %s", req.URL.Path)
		return respond(404, "", ""), nil
	})

	data, err := client.Fetch(context.Background(), restConfig(true), since, until)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(data.Transactions) != 2 || data.Transactions[1].TransactionInfo.TransactionID != "T2" {
		t.Errorf("Transactions = %+v", data.Transactions)
	}
	if strings.Join(pages, ",") != "1,2" {
		t.Errorf("pages = %v, want 1,2", pages)
	}
	if data.Balance == nil || data.Balance.Balances[0].TotalBalance.Value != "55.10" {
		t.Errorf("Balance = %+v", data.Balance)
	}

	if _, err := client.Fetch(context.Background(), restConfig(true), since, until); err != nil {
		t.Fatalf("second Fetch() error = %v", err)
	}
	if tokenCalls.Load() != 1 {
		t.Errorf("token requested %d times, want 1", tokenCalls.Load())
	}
}

func TestREST_ForbiddenReportingIsEmpty(t *testing.T) {
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		if req.URL.Host != "live.test" {
			t.Errorf("request to %s, want live host", req.URL.Host)
		}
		switch req.URL.Path {
		case "/v1/oauth2/token":
			return respond(200, "application/json", tokenBody), nil
		case "/v1/reporting/transactions":
			return respond(403, "application/json", `{"name":"NOT_AUTHORIZED"}`), nil
		default:
			return respond(403, "application/json", `{}`), nil
		}
	})

	data, err := client.Fetch(context.Background(), restConfig(false), since, until)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if data.Transactions == nil || len(data.Transactions) != 0 {
		t.Errorf("Transactions = %v, want empty non-nil list", data.Transactions)
	}
	if data.Balance != nil {
		t.Errorf("Balance = %+v, want nil", data.Balance)
	}
}

func TestREST_AuthFailure(t *testing.T) {
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		return respond(401, "application/json", `{"error":"invalid_client","error_description":"Client Authentication failed"}`), nil
	})

	_, err := client.Fetch(context.Background(), restConfig(false), since, until)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "PayPal REST authentication failed (401): Client Authentication failed") {
		t.Errorf("Error() = %q", err.Error())
	}
	if !strings.Contains(err.Error(), "Classic API credentials") {
		t.Errorf("Error() = %q, want classic hint", err.Error())
	}
}

func TestREST_TransactionSearchError(t *testing.T) {
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		if req.URL.Path == "/v1/oauth2/token" {
			return respond(200, "application/json", tokenBody), nil
		}
		return respond(500, "application/json", `{}`), nil
	})

	_, err := client.Fetch(context.Background(), restConfig(false), since, until)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != 500 {
		t.Fatalf("expected 500 APIError, got %v", err)
	}
}

func classicConfig(sandbox bool) models.PayPalConfig {
	return models.PayPalConfig{
		Enabled: true,
		Sandbox: sandbox,
		Credentials: models.ClassicCredentials{
			Username:  "user_api1.example.com",
			Password:  "pw",
			Signature: "sig",
		},
	}
}

func TestClassic_Fetch(t *testing.T) {
	var methods []string

	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		if req.Method != http.MethodPost || req.URL.Host != "nvp.test" {
			t.Errorf("unexpected request %s %s", req.Method, req.URL)
		}
		body, _ := io.ReadAll(req.Body)
		form, _ := url.ParseQuery(string(body))
		methods = append(methods, form.Get("METHOD"))

		if form.Get("USER") != "user_api1.example.com" || form.Get("PWD") != "pw" ||
			form.Get("SIGNATURE") != "sig" || form.Get("VERSION") != "204.0" {
			t.Errorf("unexpected credentials form %v", form)
		}

		switch form.Get("METHOD") {
		case "TransactionSearch":
			if form.Get("STARTDATE") != "2024-01-11T15:00:00Z" || form.Get("STATUS") != "Success" {
				t.Errorf("unexpected search form %v", form)
			}
			resp := url.Values{
				"ACK":              {"Success"},
				"L_TIMESTAMP0":     {"2024-02-10T10:00:00Z"},
				"L_TRANSACTIONID0": {"T1"},
				"L_AMT0":           {"25.00"},
				"L_CURRENCYCODE0":  {"EUR"},
				"L_STATUS0":        {"Completed"},
				"L_EMAIL0":         {"buyer@example.com"},
				"L_TYPE0":          {"Payment"},
				"L_TIMESTAMP1":     {"2024-02-09T10:00:00Z"},
				"L_AMT1":           {"5.00"},
				"L_STATUS1":        {"Pending"},
			}
			return respond(200, "text/plain", resp.Encode()), nil
		case "GetBalance":
			return respond(200, "text/plain", "ACK=Success&L_AMT0=100.50&L_CURRENCYCODE0=NZD"), nil
		}
		return respond(200, "text/plain", "ACK=Failure"), nil
	})

	data, err := client.Fetch(context.Background(), classicConfig(false), since, until)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if strings.Join(methods, ",") != "TransactionSearch,GetBalance" {
		t.Errorf("methods = %v", methods)
	}
	if len(data.Transactions) != 2 {
		t.Fatalf("Transactions = %+v", data.Transactions)
	}

	first := data.Transactions[0].TransactionInfo
	if first.TransactionStatus != "S" || first.TransactionAmount.CurrencyCode != "EUR" ||
		first.TransactionAmount.Value != "25.00" || first.PayerEmail != "buyer@example.com" {
		t.Errorf("first transaction = %+v", first)
	}
	second := data.Transactions[1].TransactionInfo
	if second.TransactionStatus != "P" || second.TransactionAmount.CurrencyCode != "USD" {
		t.Errorf("second transaction = %+v", second)
	}

	if data.Balance == nil || data.Balance.Balances[0].TotalBalance.Value != "100.50" ||
		data.Balance.Balances[0].Currency != "NZD" {
		t.Errorf("Balance = %+v", data.Balance)
	}
}

func TestClassic_AckFailure(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"WithMessages", "ACK=Failure&L_SHORTMESSAGE0=Security%20error&L_LONGMESSAGE0=Security%20header%20is%20not%20valid", "PayPal Classic API error: Security error - Security header is not valid"},
		{"AckOnly", "ACK=Failure", "PayPal Classic API error: Failure"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(func(req *http.Request) (*http.Response, error) {
				if req.URL.Host != "nvp-sandbox.test" {
					t.Errorf("request to %s, want sandbox host", req.URL.Host)
				}
				return respond(200, "text/plain", tt.body), nil
			})

			_, err := client.Fetch(context.Background(), classicConfig(true), since, until)
			if err == nil || err.Error() != tt.want {
				t.Errorf("Fetch() error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestClassic_BalanceFailureIsNotFatal(t *testing.T) {
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		body, _ := io.ReadAll(req.Body)
		form, _ := url.ParseQuery(string(body))
		if form.Get("METHOD") == "GetBalance" {
			return respond(200, "text/plain", "ACK=Failure&L_SHORTMESSAGE0=Denied"), nil
		}
		return respond(200, "text/plain", "ACK=SuccessWithWarning"), nil
	})

	data, err := client.Fetch(context.Background(), classicConfig(false), since, until)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(data.Transactions) != 0 || data.Balance != nil {
		t.Errorf("data = %+v, want empty transactions and nil balance", data)
	}
}

func TestFetch_MissingCredentials(t *testing.T) {
	client := newTestClient(func(*http.Request) (*http.Response, error) {
		t.Error("no request expected")
		return nil, errors.New("unreachable")
	})

	_, err := client.Fetch(context.Background(), models.PayPalConfig{Enabled: true}, since, until)
	if err == nil || !strings.Contains(err.Error(), "credentials missing") {
		t.Errorf("Fetch() error = %v", err)
	}
}

func TestClassicStatus(t *testing.T) {
	tests := map[string]string{
		"Completed": "S",
		"Pending":   "P",
		"Denied":    "D",
		"Reversed":  "V",
		"Other":     "Other",
	}
	for in, want := range tests {
		if got := classicStatus(in); got != want {
			t.Errorf("classicStatus(%s) = %s, want %s", in, got, want)
		}
	}
}
