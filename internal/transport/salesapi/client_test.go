package salesapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/tilemart/tilequery/internal/domain"
)

// testClient builds a client against the given server without the production
// rate limit, so retry paths finish quickly.
func testClient(server *httptest.Server) *Client {
	c := NewClient(&Config{
		BaseURL:    server.URL,
		Username:   "svc-user",
		Password:   "svc-pass",
		WindowDays: 25,
		Logger:     zap.NewNop(),
	})
	c.limiter = rate.NewLimiter(rate.Inf, 1)
	c.now = func() time.Time {
		return time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	}
	return c
}

func TestFetchSales(t *testing.T) {
	var gotReq *http.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReq = r.Clone(context.Background())
		w.Write([]byte(`{"value":[{"Document_No":"SI-1001"},{"Document_No":"SI-1002"}]}`))
	}))
	defer server.Close()

	records, err := testClient(server).FetchSales(context.Background())
	if err != nil {
		t.Fatalf("FetchSales: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	user, pass, ok := gotReq.BasicAuth()
	if !ok || user != "svc-user" || pass != "svc-pass" {
		t.Errorf("basic auth = %q/%q/%v", user, pass, ok)
	}
	// 25 days before the pinned clock.
	wantFilter := "Posting_Date gt 2026-08-06"
	if got := gotReq.URL.Query().Get("$filter"); got != wantFilter {
		t.Errorf("$filter = %q, want %q", got, wantFilter)
	}
	if got := gotReq.Header.Get("User-Agent"); got != "tilequery/1.0" {
		t.Errorf("User-Agent = %q", got)
	}
}

func TestFetchSales_RetriesTransientFailure(t *testing.T) {
	var attempts int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"value":[{"Document_No":"SI-1001"}]}`))
	}))
	defer server.Close()

	records, err := testClient(server).FetchSales(context.Background())
	if err != nil {
		t.Fatalf("FetchSales: %v", err)
	}
	if attempts != 3 {
		t.Errorf("server saw %d attempts, want 3", attempts)
	}
	if len(records) != 1 {
		t.Errorf("got %d records, want 1", len(records))
	}
}

func TestFetchSales_ExhaustsRetries(t *testing.T) {
	var attempts int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := testClient(server).FetchSales(context.Background())
	if !errors.Is(err, domain.ErrSalesDataUnavailable) {
		t.Fatalf("expected ErrSalesDataUnavailable, got %v", err)
	}
	if attempts != maxAttempts {
		t.Errorf("server saw %d attempts, want %d", attempts, maxAttempts)
	}
}

func TestFetchSales_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>login</html>"))
	}))
	defer server.Close()

	if _, err := testClient(server).FetchSales(context.Background()); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(&Config{BaseURL: "http://example.test", Logger: zap.NewNop()})
	if c.windowDays != 25 {
		t.Errorf("windowDays = %d, want 25", c.windowDays)
	}
	if c.httpClient.Timeout != 5*time.Minute {
		t.Errorf("timeout = %v, want 5m", c.httpClient.Timeout)
	}
}
