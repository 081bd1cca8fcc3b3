package config

import "testing"

func validConfig() Config {
	return Config{
		HTTP:  HTTPConfig{Port: 8080},
		Cache: CacheConfig{Addrs: []string{"localhost:6379"}},
	}
}

func TestValidate_Valid(t *testing.T) {
	cfg := validConfig()
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingCacheAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Cache.Addrs = nil

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing cache addrs")
	}
}

func TestValidate_MinScoreOutOfRange(t *testing.T) {
	for _, score := range []float64{-0.1, 1.5} {
		cfg := validConfig()
		cfg.Search.MinScore = score

		if err := cfg.Validate(); err == nil {
			t.Errorf("expected error for min_score %g", score)
		}
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := validConfig()
	cfg.ApplyDefaults()

	if cfg.Search.MinCandidates != 10 {
		t.Errorf("expected min_candidates 10, got %d", cfg.Search.MinCandidates)
	}
	if cfg.Search.MaxResults != 50 {
		t.Errorf("expected max_results 50, got %d", cfg.Search.MaxResults)
	}
	if cfg.Search.MinScore != 0.05 {
		t.Errorf("expected min_score 0.05, got %g", cfg.Search.MinScore)
	}
	if cfg.Sales.WindowDays != 25 {
		t.Errorf("expected window_days 25, got %d", cfg.Sales.WindowDays)
	}
	if cfg.Sales.CacheTTLSec != 86400 {
		t.Errorf("expected cache_ttl_sec 86400, got %d", cfg.Sales.CacheTTLSec)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TILEQUERY_TEST_VAR", "redis:6379")

	got := string(expandEnvVars([]byte("addr: ${TILEQUERY_TEST_VAR}")))
	if got != "addr: redis:6379" {
		t.Errorf("unexpected expansion: %q", got)
	}

	got = string(expandEnvVars([]byte("path: ${TILEQUERY_UNSET_VAR:-fallback.csv}")))
	if got != "path: fallback.csv" {
		t.Errorf("unexpected default expansion: %q", got)
	}
}
