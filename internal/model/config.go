package model

import (
	"os"
	"path/filepath"
	"time"
)

// Config is the complete Verinex configuration.
// yaml and mapstructure tags must stay identical so viper can merge
// the marshalled defaults with the config file and VERINEX_* env vars.
type Config struct {
	Validation   ValidationConfig   `yaml:"validation" mapstructure:"validation"`
	Analysis     AnalysisConfig     `yaml:"analysis" mapstructure:"analysis"`
	HTTP         HTTPConfig         `yaml:"http" mapstructure:"http"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	Store        StoreConfig        `yaml:"store" mapstructure:"store"`
	Server       ServerConfig       `yaml:"server" mapstructure:"server"`
	Telemetry    TelemetryConfig    `yaml:"telemetry" mapstructure:"telemetry"`
	Share        ShareConfig        `yaml:"share" mapstructure:"share"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Logging      LoggingConfig      `yaml:"logging" mapstructure:"logging"`
}

// ValidationConfig bounds the accepted input length in characters
type ValidationConfig struct {
	MinChars int `yaml:"min_chars" mapstructure:"min_chars"`
	MaxChars int `yaml:"max_chars" mapstructure:"max_chars"`
}

// AnalysisConfig controls the staged analysis presentation
type AnalysisConfig struct {
	// Paced=false swaps in the zero-delay scheduler
	Paced bool `yaml:"paced" mapstructure:"paced"`
	// Drafts at or below this length are not saved
	DraftMinChars int           `yaml:"draft_min_chars" mapstructure:"draft_min_chars"`
	DraftDebounce time.Duration `yaml:"draft_debounce" mapstructure:"draft_debounce"`
}

// HTTPConfig configures outbound fetching of article URLs
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	InsecureTLS   bool          `yaml:"insecure_tls" mapstructure:"insecure_tls"`
	HTTPProxy     string        `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy" mapstructure:"https_proxy"`
}

// CacheConfig configures the fetch cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// StoreConfig configures the key-value store for preferences and drafts
type StoreConfig struct {
	Dir          string `yaml:"dir" mapstructure:"dir"`
	DefaultTheme string `yaml:"default_theme" mapstructure:"default_theme"`
}

// ServerConfig configures `verinex serve`
type ServerConfig struct {
	Addr            string        `yaml:"addr" mapstructure:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
	SessionIdle     time.Duration `yaml:"session_idle" mapstructure:"session_idle"`
	SlowRequest     time.Duration `yaml:"slow_request" mapstructure:"slow_request"`
}

// TelemetryConfig configures the optional analytics collector
type TelemetryConfig struct {
	// Empty disables telemetry
	CollectorURL string        `yaml:"collector_url" mapstructure:"collector_url"`
	AppName      string        `yaml:"app_name" mapstructure:"app_name"`
	AppVersion   string        `yaml:"app_version" mapstructure:"app_version"`
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// ShareConfig configures the share target
type ShareConfig struct {
	// Empty means clipboard only
	WebhookURL string `yaml:"webhook_url" mapstructure:"webhook_url"`
	PageURL    string `yaml:"page_url" mapstructure:"page_url"`
}

// ConcurrencyConfig bounds batch parallelism
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// RateLimitingConfig configures per-domain and per-client limits
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// LoggingConfig configures the structured logger
type LoggingConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
	// console or json
	Format string `yaml:"format" mapstructure:"format"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	base := defaultBaseDir()

	return &Config{
		Validation: ValidationConfig{
			MinChars: 50,
			MaxChars: 10000,
		},
		Analysis: AnalysisConfig{
			Paced:         true,
			DraftMinChars: 100,
			DraftDebounce: 2 * time.Second,
		},
		HTTP: HTTPConfig{
			Timeout:       30 * time.Second,
			UserAgent:     "Verinex/1.0 (+https://github.com/ppiankov/verinex)",
			MaxBodyBytes:  2_000_000,
			RespectRobots: true,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       filepath.Join(base, "cache"),
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Store: StoreConfig{
			Dir:          filepath.Join(base, "store"),
			DefaultTheme: "light",
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			SessionIdle:     30 * time.Minute,
			SlowRequest:     2 * time.Second,
		},
		Telemetry: TelemetryConfig{
			AppName:    "VERINEX",
			AppVersion: "1.0.0",
			Timeout:    3 * time.Second,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 2,
			BurstSize:         5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// defaultBaseDir returns ~/.verinex, or ./.verinex when no home is available
func defaultBaseDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".verinex"
	}
	return filepath.Join(home, ".verinex")
}
