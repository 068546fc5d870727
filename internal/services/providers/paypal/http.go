package paypal

import (
	"fmt"
	"io"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/j-veylop/revenue-dashboard-tui/internal/logger"
)

type transport struct {
	http    *http.Client
	limiter *rate.Limiter
}

// do sends req after waiting for the limiter and returns the status and body.
func (t *transport) do(req *http.Request) (int, []byte, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return 0, nil, fmt.Errorf("failed to wait for rate limiter: %w", err)
	}

	resp, err := t.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("paypal request failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Error("failed to close response body", "error", err)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read paypal response: %w", err)
	}
	return resp.StatusCode, body, nil
}
