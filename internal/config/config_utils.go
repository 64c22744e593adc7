package config

import (
	"fmt"
	"log"
	"os"
	"strings"
)

// applyFallbacks applies environment variable fallbacks
func (c *Config) applyFallbacks() {
	c.applyFeedbackKeyFallbacks()
	c.applyObservabilityDefaults()
}

// applyFeedbackKeyFallbacks applies feedback store key fallbacks from
// environment variables
func (c *Config) applyFeedbackKeyFallbacks() {
	if c.Feedback.APIKey == "" {
		// Legacy variable name kept for operators migrating from the old agent
		if key := os.Getenv("FEEDBACK_SEARCH_KEY"); key != "" {
			c.Feedback.APIKey = strings.TrimSpace(key)
		}
	}
	if c.Feedback.Endpoint == "" {
		if endpoint := os.Getenv("FEEDBACK_SEARCH_ENDPOINT"); endpoint != "" {
			c.Feedback.Endpoint = strings.TrimSpace(endpoint)
		}
	}
}

// applyObservabilityDefaults applies default observability configuration values
func (c *Config) applyObservabilityDefaults() {
	if c.Observability.ServiceInstance == "" {
		c.Observability.ServiceInstance = generateServiceInstanceID(c.Observability.ServiceName)
	}
}

// generateServiceInstanceID generates a unique service instance ID
func generateServiceInstanceID(serviceName string) string {
	// Try to get hostname, fallback to default
	if hostname, err := os.Hostname(); err == nil {
		return fmt.Sprintf("%s-%s", serviceName, hostname)
	}
	return fmt.Sprintf("%s-1", serviceName)
}

// logConfigurationSources logs a summary of configuration sources being used
func (c *Config) logConfigurationSources(configFileUsed string) {
	log.Println("[CONFIG] === Configuration Sources Summary ===")

	// Log config file source
	if configFileUsed != "" {
		log.Printf("[CONFIG] Config file: %s", configFileUsed)
	} else {
		log.Println("[CONFIG] Config file: None (using defaults)")
	}

	// Log environment variables that are set
	envVars := []string{
		"TALENTRANK_FEEDBACK_APIKEY",
		"TALENTRANK_FEEDBACK_ENDPOINT",
		"TALENTRANK_FEEDBACK_INDEXNAME",
		"TALENTRANK_FEEDBACK_CACHETTL",
		"TALENTRANK_RANKING_MAXCONCURRENCY",
		"TALENTRANK_APP_LOGLEVEL",
		"TALENTRANK_VAULT_ENABLED",
		"FEEDBACK_SEARCH_ENDPOINT", // Legacy support
		"FEEDBACK_SEARCH_KEY",      // Legacy support
	}

	log.Println("[CONFIG] Environment variables:")
	hasEnvVars := false
	for _, envVar := range envVars {
		if value := os.Getenv(envVar); value != "" {
			// Mask sensitive values
			if strings.Contains(strings.ToLower(envVar), "apikey") || strings.Contains(strings.ToLower(envVar), "key") {
				log.Printf("[CONFIG]   %s=***MASKED***", envVar)
			} else {
				log.Printf("[CONFIG]   %s=%s", envVar, value)
			}
			hasEnvVars = true
		}
	}
	if !hasEnvVars {
		log.Println("[CONFIG]   None set")
	}

	// Log key configuration values (with sensitive data masked)
	log.Println("[CONFIG] === Key Configuration Values ===")
	log.Printf("[CONFIG] Feedback Endpoint: %s", c.Feedback.Endpoint)
	log.Printf("[CONFIG] Feedback Index: %s", c.Feedback.IndexName)
	if c.Feedback.APIKey != "" {
		log.Println("[CONFIG] Feedback API Key: ***CONFIGURED***")
	} else {
		log.Println("[CONFIG] Feedback API Key: ***NOT SET***")
	}
	log.Printf("[CONFIG] Feedback Cache TTL: %s", c.Feedback.CacheTTL)
	log.Printf("[CONFIG] Ranking Max Concurrency: %d", c.Ranking.MaxConcurrency)
	log.Printf("[CONFIG] Match Tables File: %s", c.Match.TablesFile)
	log.Printf("[CONFIG] Log Level: %s", c.App.LogLevel)
	log.Printf("[CONFIG] Vault Enabled: %t", c.Vault.Enabled)
	log.Printf("[CONFIG] Observability Enabled: %t", c.Observability.Enabled)

	log.Println("[CONFIG] =====================================")
}
