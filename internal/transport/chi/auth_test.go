package chi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func authProtected(keys []string) http.Handler {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return BearerAuthMiddleware(keys)(next)
}

func TestBearerAuth_Disabled(t *testing.T) {
	h := authProtected(nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/chat", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 with auth disabled", rec.Code)
	}
}

func TestBearerAuth(t *testing.T) {
	h := authProtected([]string{"secret-key"})

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"valid key", "/chat", "Bearer secret-key", http.StatusOK},
		{"missing header", "/chat", "", http.StatusUnauthorized},
		{"wrong scheme", "/chat", "Basic secret-key", http.StatusUnauthorized},
		{"invalid key", "/chat", "Bearer wrong", http.StatusUnauthorized},
		{"health exempt", "/health", "", http.StatusOK},
		{"metrics exempt", "/metrics", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
