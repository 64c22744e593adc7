package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
// Feedback store API key precedence order:
// 1. Vault (if configured) - Highest priority
// 2. Config file values
// 3. Environment variables (TALENTRANK_FEEDBACK_APIKEY, etc.)
// 4. Default values - Lowest priority
type Config struct {
	Feedback      FeedbackConfig      `mapstructure:"feedback"`
	Ranking       RankingConfig       `mapstructure:"ranking"`
	Match         MatchConfig         `mapstructure:"match"`
	App           AppConfig           `mapstructure:"app"`
	Server        ServerConfig        `mapstructure:"server"`
	Vault         VaultConfig         `mapstructure:"vault"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// ServerConfig holds HTTP API server configuration
type ServerConfig struct {
	Host         string                `mapstructure:"host"`
	Port         string                `mapstructure:"port"`
	ReadTimeout  time.Duration         `mapstructure:"readTimeout"`
	WriteTimeout time.Duration         `mapstructure:"writeTimeout"`
	IdleTimeout  time.Duration         `mapstructure:"idleTimeout"`
	APIKeys      []string              `mapstructure:"apiKeys"` // Empty disables authentication
	RateLimit    ServerRateLimitConfig `mapstructure:"rateLimit"`
}

// ServerRateLimitConfig holds per-client rate limiting for API endpoints
type ServerRateLimitConfig struct {
	Enabled        bool `mapstructure:"enabled"`
	RequestsPerMin int  `mapstructure:"requestsPerMin"`
	BurstCapacity  int  `mapstructure:"burstCapacity"`
	ByIP           bool `mapstructure:"byIP"`
	ByAPIKey       bool `mapstructure:"byAPIKey"`
}

// FeedbackConfig holds feedback store client configuration
type FeedbackConfig struct {
	Endpoint   string        `mapstructure:"endpoint"`  // Base URL of the feedback search index
	IndexName  string        `mapstructure:"indexName"` // Index holding interview feedback documents
	APIKey     string        `mapstructure:"apiKey"`
	APIVersion string        `mapstructure:"apiVersion"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"maxRetries"`
	CacheTTL   time.Duration `mapstructure:"cacheTTL"` // Zero or negative disables caching

	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuitBreaker"`
	RateLimit      RateLimitConfig      `mapstructure:"rateLimit"`
}

// CircuitBreakerConfig represents circuit breaker configuration
type CircuitBreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`          // Whether circuit breaker is enabled
	MaxRequests      uint32        `mapstructure:"maxRequests"`      // Max requests allowed when half-open
	Interval         time.Duration `mapstructure:"interval"`         // Interval to clear counts
	Timeout          time.Duration `mapstructure:"timeout"`          // Timeout for half-open to open
	MinRequests      uint32        `mapstructure:"minRequests"`      // Minimum requests before tripping
	FailureThreshold float64       `mapstructure:"failureThreshold"` // Failure ratio threshold (0.0-1.0)
}

// RateLimitConfig holds client-side rate limiting for store calls
type RateLimitConfig struct {
	Enabled        bool `mapstructure:"enabled"`
	RequestsPerSec int  `mapstructure:"requestsPerSec"` // Steady-state request rate
	BurstCapacity  int  `mapstructure:"burstCapacity"`  // Burst capacity for token bucket
}

// RankingConfig holds ranking service configuration
type RankingConfig struct {
	MaxConcurrency int           `mapstructure:"maxConcurrency"` // Parallel feedback lookups per batch
	Timeout        time.Duration `mapstructure:"timeout"`        // Deadline for one ranking request
}

// MatchConfig holds match engine configuration
type MatchConfig struct {
	TablesFile  string            `mapstructure:"tablesFile"` // Optional YAML override for lookup tables
	AutoReload  bool              `mapstructure:"autoReload"` // Reload tables when the file changes
	FileWatcher FileWatcherConfig `mapstructure:"fileWatcher"`
}

// FileWatcherConfig holds configuration for file-based tables watching
type FileWatcherConfig struct {
	DebounceDelay time.Duration `mapstructure:"debounceDelay"` // Debounce delay for file change events
}

// AppConfig holds general application configuration
type AppConfig struct {
	LogLevel         string   `mapstructure:"logLevel"`
	DefaultFormat    string   `mapstructure:"defaultFormat"`
	SupportedFormats []string `mapstructure:"supportedFormats"`
	MaxFileSize      int64    `mapstructure:"maxFileSize"`
}

// ObservabilityConfig holds observability configuration
type ObservabilityConfig struct {
	Enabled         bool             `mapstructure:"enabled"`
	ServiceName     string           `mapstructure:"serviceName"`
	ServiceVersion  string           `mapstructure:"serviceVersion"`
	ServiceInstance string           `mapstructure:"serviceInstance"`
	Prometheus      PrometheusConfig `mapstructure:"prometheus"`
}

// PrometheusConfig holds Prometheus configuration
type PrometheusConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
	Port     string `mapstructure:"port"`
}

// LoadConfig loads configuration from environment variables and a config file
func LoadConfig() (*Config, error) {
	log.Println("[CONFIG] Starting configuration loading process")

	v := viper.New()

	// Set default values
	setDefaults(v)
	log.Println("[CONFIG] Applied default configuration values")

	// Set up environment variable handling
	v.SetEnvPrefix("TALENTRANK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	log.Println("[CONFIG] Configured environment variable handling with prefix 'TALENTRANK'")

	// Set up config file handling
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/talentrank/")
	v.AddConfigPath("$HOME/.talentrank")
	v.AddConfigPath(".")
	log.Println("[CONFIG] Configured config file search paths: /etc/talentrank/, $HOME/.talentrank, .")

	// Read the config file
	configFileUsed := ""
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		log.Println("[CONFIG] No config file found, using defaults and environment variables")
	} else {
		configFileUsed = v.ConfigFileUsed()
		log.Printf("[CONFIG] Successfully loaded config file: %s", configFileUsed)
	}

	// Unmarshal the configuration into the Config struct
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	log.Println("[CONFIG] Successfully unmarshaled configuration")

	// Apply fallback logic
	config.applyFallbacks()
	log.Println("[CONFIG] Applied configuration fallbacks and environment variable overrides")

	// Log configuration sources summary
	config.logConfigurationSources(configFileUsed)

	// Validate the configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// Resolve Vault-backed secrets last so they take precedence over file
	// and environment values
	if config.Vault.Enabled {
		if err := ApplyVaultSecrets(&config, nil); err != nil {
			return nil, fmt.Errorf("failed to apply vault secrets: %w", err)
		}
		log.Println("[CONFIG] Applied secrets from Vault")
	}

	log.Println("[CONFIG] Configuration loading completed successfully")
	return &config, nil
}

// Validate checks if the configuration is valid. Feedback store settings are
// validated separately at client construction since pure scoring commands run
// without a store.
func (c *Config) Validate() error {
	if c.Feedback.Timeout <= 0 {
		return fmt.Errorf("feedback timeout must be positive")
	}

	if c.Feedback.MaxRetries < 0 {
		return fmt.Errorf("feedback maxRetries cannot be negative")
	}

	if c.Feedback.RateLimit.Enabled {
		if c.Feedback.RateLimit.RequestsPerSec <= 0 {
			return fmt.Errorf("feedback rate limit requestsPerSec must be positive when enabled")
		}
		if c.Feedback.RateLimit.BurstCapacity <= 0 {
			return fmt.Errorf("feedback rate limit burstCapacity must be positive when enabled")
		}
	}

	if c.Ranking.MaxConcurrency <= 0 {
		return fmt.Errorf("ranking maxConcurrency must be positive")
	}

	if c.Ranking.Timeout <= 0 {
		return fmt.Errorf("ranking timeout must be positive")
	}

	if c.Server.RateLimit.Enabled {
		if c.Server.RateLimit.RequestsPerMin <= 0 {
			return fmt.Errorf("server rate limit requestsPerMin must be positive when enabled")
		}
		if c.Server.RateLimit.BurstCapacity <= 0 {
			return fmt.Errorf("server rate limit burstCapacity must be positive when enabled")
		}
	}

	validFormats := make(map[string]bool)
	for _, format := range c.App.SupportedFormats {
		validFormats[format] = true
	}
	if !validFormats[c.App.DefaultFormat] {
		return fmt.Errorf("invalid default format: %s", c.App.DefaultFormat)
	}

	return nil
}

// Global configuration instance
var GlobalConfig *Config

// InitConfig initializes the global configuration
func InitConfig() error {
	config, err := LoadConfig()
	if err != nil {
		return err
	}
	GlobalConfig = config
	return nil
}
