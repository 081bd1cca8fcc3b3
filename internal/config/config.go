package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the tilequery API configuration.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Catalog CatalogConfig `yaml:"catalog"`
	Cache   CacheConfig   `yaml:"cache"`
	Sales   SalesConfig   `yaml:"sales"`
	Oracle  OracleConfig  `yaml:"oracle"`
	Search  SearchConfig  `yaml:"search"`
	Auth    AuthConfig    `yaml:"auth"`
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// CatalogConfig holds catalog source settings.
type CatalogConfig struct {
	CSVPath string `yaml:"csv_path"`
}

// CacheConfig holds the Redis cache connection settings.
type CacheConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// SalesConfig holds the remote sales-data API and cache policy settings.
type SalesConfig struct {
	BaseURL        string `yaml:"base_url"`
	Username       string `yaml:"username"`
	Password       string `yaml:"password"`
	WindowDays     int    `yaml:"window_days"`
	TimeoutSec     int    `yaml:"timeout_sec"`
	CacheTTLSec    int    `yaml:"cache_ttl_sec"`
	RefreshHours   int    `yaml:"refresh_hours"`
	RequestsPerMin int    `yaml:"requests_per_min"`
}

// OracleConfig holds the external language-model settings.
type OracleConfig struct {
	APIKey         string  `yaml:"api_key"`
	BaseURL        string  `yaml:"base_url"`
	Model          string  `yaml:"model"`
	Temperature    float64 `yaml:"temperature"`
	RequestsPerMin int     `yaml:"requests_per_min"`
}

// SearchConfig exposes the ranking heuristics as tunable constants.
type SearchConfig struct {
	MinCandidates     int     `yaml:"min_candidates"`
	MaxResults        int     `yaml:"max_results"`
	MinScore          float64 `yaml:"min_score"`
	FallbackCount     int     `yaml:"fallback_count"`
	DescriptionWeight int     `yaml:"description_weight"`
	VocabLimit        int     `yaml:"vocab_limit"`
	NGramMax          int     `yaml:"ngram_max"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Catalog.CSVPath == "" {
		c.Catalog.CSVPath = "tiles_catalog.csv"
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
	if c.Sales.WindowDays <= 0 {
		c.Sales.WindowDays = 25
	}
	if c.Sales.TimeoutSec <= 0 {
		c.Sales.TimeoutSec = 300
	}
	if c.Sales.CacheTTLSec <= 0 {
		c.Sales.CacheTTLSec = 24 * 60 * 60
	}
	if c.Sales.RefreshHours <= 0 {
		c.Sales.RefreshHours = 24
	}
	if c.Sales.RequestsPerMin <= 0 {
		c.Sales.RequestsPerMin = 6
	}
	if c.Oracle.Model == "" {
		c.Oracle.Model = "gpt-4o-mini"
	}
	if c.Oracle.RequestsPerMin <= 0 {
		c.Oracle.RequestsPerMin = 60
	}
	if c.Search.MinCandidates <= 0 {
		c.Search.MinCandidates = 10
	}
	if c.Search.MaxResults <= 0 {
		c.Search.MaxResults = 50
	}
	if c.Search.MinScore <= 0 {
		c.Search.MinScore = 0.05
	}
	if c.Search.FallbackCount <= 0 {
		c.Search.FallbackCount = 10
	}
	if c.Search.DescriptionWeight <= 0 {
		c.Search.DescriptionWeight = 3
	}
	if c.Search.VocabLimit <= 0 {
		c.Search.VocabLimit = 5000
	}
	if c.Search.NGramMax <= 0 {
		c.Search.NGramMax = 3
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Cache.Addrs) == 0 {
		return fmt.Errorf("cache.addrs is required")
	}
	if c.Search.MinScore < 0 || c.Search.MinScore > 1 {
		return fmt.Errorf("search.min_score must be within [0,1], got %g", c.Search.MinScore)
	}
	if c.Search.NGramMax > 5 {
		return fmt.Errorf("search.ngram_max must be at most 5, got %d", c.Search.NGramMax)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
