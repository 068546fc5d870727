package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/j-veylop/revenue-dashboard-tui/internal/logger"
)

// DefaultRatesURL serves USD-based rates as {"rates": {"EUR": 0.92, ...}}.
const DefaultRatesURL = "https://api.exchangerate-api.com/v4/latest/USD"

const (
	ratesCacheKey = "rates:USD"
	fallbackTTL   = 5 * time.Minute
)

// Source describes where the current rate table came from.
type Source string

const (
	SourceNone     Source = "none"
	SourceLive     Source = "live"
	SourceFallback Source = "fallback"
)

// Status reports the state of the rate table for display.
type Status struct {
	Source    Source
	FetchedAt time.Time
	Count     int
	LastError string
}

type ratesResponse struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

// Service fetches and caches exchange rate tables.
type Service struct {
	client *http.Client
	url    string
	cache  *cache.Cache
	ttl    time.Duration

	mu     sync.RWMutex
	status Status
}

// NewService creates a rate service. A nil client gets a 10 second timeout.
func NewService(url string, client *http.Client, ttl time.Duration) *Service {
	if url == "" {
		url = DefaultRatesURL
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Service{
		client: client,
		url:    url,
		cache:  cache.New(ttl, 2*ttl),
		ttl:    ttl,
		status: Status{Source: SourceNone},
	}
}

// Rates returns the cached rate table, fetching it when missing. When the
// fetch fails the fallback table is returned and cached briefly.
func (s *Service) Rates(ctx context.Context) RateTable {
	if cached, found := s.cache.Get(ratesCacheKey); found {
		return cached.(RateTable).Clone()
	}

	rates, err := s.fetch(ctx)
	if err != nil {
		logger.Warn("exchange rate fetch failed, using fallback rates", "url", s.url, "error", err)
		fallback := FallbackRates()
		s.cache.Set(ratesCacheKey, fallback, fallbackTTL)
		s.setStatus(Status{Source: SourceFallback, FetchedAt: time.Now(), Count: len(fallback), LastError: err.Error()})
		return fallback.Clone()
	}

	s.cache.Set(ratesCacheKey, rates, cache.DefaultExpiration)
	s.setStatus(Status{Source: SourceLive, FetchedAt: time.Now(), Count: len(rates)})
	return rates.Clone()
}

// Invalidate drops the cached table so the next Rates call fetches again.
func (s *Service) Invalidate() {
	s.cache.Delete(ratesCacheKey)
}

// Status returns where the current table came from.
func (s *Service) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *Service) setStatus(st Status) {
	s.mu.Lock()
	s.status = st
	s.mu.Unlock()
}

func (s *Service) fetch(ctx context.Context) (RateTable, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create rates request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rates request failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Error("failed to close response body", "error", err)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read rates response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rates request failed (status %d)", resp.StatusCode)
	}

	var parsed ratesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse rates response: %w", err)
	}
	if len(parsed.Rates) == 0 {
		return nil, fmt.Errorf("rates response contained no rates")
	}

	rates := make(RateTable, len(parsed.Rates)+1)
	for code, rate := range parsed.Rates {
		rates[strings.ToUpper(code)] = rate
	}
	if _, ok := rates["USD"]; !ok {
		rates["USD"] = 1
	}
	return rates, nil
}
