// Package salesapi is the HTTP client for the remote sales-data OData feed.
package salesapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/tilemart/tilequery/internal/domain"
)

const maxAttempts = 3

// Client fetches recent sales records from the OData endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	username   string
	password   string
	windowDays int
	limiter    *rate.Limiter
	logger     *zap.Logger
	now        func() time.Time
}

// Config holds the sales API settings.
type Config struct {
	BaseURL        string
	Username       string
	Password       string
	WindowDays     int
	Timeout        time.Duration
	RequestsPerMin int
	Logger         *zap.Logger
}

// NewClient creates a sales API client.
func NewClient(cfg *Config) *Client {
	rpm := cfg.RequestsPerMin
	if rpm <= 0 {
		rpm = 6
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	windowDays := cfg.WindowDays
	if windowDays <= 0 {
		windowDays = 25
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    cfg.BaseURL,
		username:   cfg.Username,
		password:   cfg.Password,
		windowDays: windowDays,
		limiter:    rate.NewLimiter(rate.Limit(float64(rpm)/60.0), 1),
		logger:     cfg.Logger,
		now:        time.Now,
	}
}

// envelope mirrors the OData response body.
type envelope struct {
	Value []json.RawMessage `json:"value"`
}

// FetchSales retrieves sales records posted within the configured window.
// Transient failures are retried with a linear backoff.
func (c *Client) FetchSales(ctx context.Context) ([]json.RawMessage, error) {
	since := c.now().AddDate(0, 0, -c.windowDays).Format("2006-01-02")

	params := url.Values{}
	params.Set("$filter", fmt.Sprintf("Posting_Date gt %s", since))
	reqURL := c.baseURL + "?" + params.Encode()

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		records, err := c.fetch(ctx, reqURL)
		if err == nil {
			c.logger.Info("Fetched sales data", zap.Int("records", len(records)))
			return records, nil
		}
		lastErr = err
		c.logger.Warn("Sales API request failed",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
		}
	}

	return nil, fmt.Errorf("%w: %w", domain.ErrSalesDataUnavailable, lastErr)
}

func (c *Client) fetch(ctx context.Context, reqURL string) ([]json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Accept", "*/*")
	req.Header.Set("User-Agent", "tilequery/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return env.Value, nil
}
