package config

import (
	"time"

	"github.com/spf13/viper"
)

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// Feedback store configuration
	v.SetDefault("feedback.endpoint", "")
	v.SetDefault("feedback.indexName", "interview-feedback")
	v.SetDefault("feedback.apiKey", "")
	v.SetDefault("feedback.apiVersion", "2023-11-01")
	v.SetDefault("feedback.timeout", 10*time.Second)
	v.SetDefault("feedback.maxRetries", 3)
	v.SetDefault("feedback.cacheTTL", 300*time.Second)

	// Circuit breaker defaults for the feedback store
	v.SetDefault("feedback.circuitBreaker.enabled", true)
	v.SetDefault("feedback.circuitBreaker.maxRequests", 3)
	v.SetDefault("feedback.circuitBreaker.interval", 60*time.Second)
	v.SetDefault("feedback.circuitBreaker.timeout", 60*time.Second)
	v.SetDefault("feedback.circuitBreaker.minRequests", 3)
	v.SetDefault("feedback.circuitBreaker.failureThreshold", 0.6)

	// Client-side rate limiting defaults
	v.SetDefault("feedback.rateLimit.enabled", false)
	v.SetDefault("feedback.rateLimit.requestsPerSec", 20)
	v.SetDefault("feedback.rateLimit.burstCapacity", 10)

	// Ranking configuration
	v.SetDefault("ranking.maxConcurrency", 8)
	v.SetDefault("ranking.timeout", 30*time.Second)

	// Match engine configuration
	v.SetDefault("match.tablesFile", "")
	v.SetDefault("match.autoReload", false)
	v.SetDefault("match.fileWatcher.debounceDelay", time.Second)

	// Server Configuration
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.readTimeout", 30*time.Second)
	v.SetDefault("server.writeTimeout", 30*time.Second)
	v.SetDefault("server.idleTimeout", 60*time.Second)
	v.SetDefault("server.apiKeys", []string{})
	v.SetDefault("server.rateLimit.enabled", false)
	v.SetDefault("server.rateLimit.requestsPerMin", 60)
	v.SetDefault("server.rateLimit.burstCapacity", 10)
	v.SetDefault("server.rateLimit.byIP", true)
	v.SetDefault("server.rateLimit.byAPIKey", false)

	// App Configuration
	v.SetDefault("app.logLevel", "info")
	v.SetDefault("app.defaultFormat", "json")
	v.SetDefault("app.supportedFormats", []string{"json", "text", "markdown"})
	v.SetDefault("app.maxFileSize", 1024*1024) // 1MB

	// Vault Configuration
	v.SetDefault("vault.enabled", false)
	v.SetDefault("vault.address", "")
	v.SetDefault("vault.token", "")
	v.SetDefault("vault.tokenFile", "")
	v.SetDefault("vault.namespace", "")
	v.SetDefault("vault.secrets.feedbackKey", "")

	// Observability Configuration
	v.SetDefault("observability.enabled", true)
	v.SetDefault("observability.serviceName", "talentrank")
	v.SetDefault("observability.serviceVersion", "")  // Will use app version if empty
	v.SetDefault("observability.serviceInstance", "") // Will be auto-generated if empty

	// Prometheus Configuration
	v.SetDefault("observability.prometheus.enabled", false)
	v.SetDefault("observability.prometheus.endpoint", "/metrics")
	v.SetDefault("observability.prometheus.port", "9090")
}
