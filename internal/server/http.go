package server

import (
	"sync/atomic"
	"time"

	"talentrank/internal/config"
	talentrankErrors "talentrank/internal/errors"
	"talentrank/internal/feedback"
	"talentrank/internal/ranking"
	"talentrank/internal/types"
)

// ScoreRequest represents the request body for the score endpoint
type ScoreRequest struct {
	Profile   types.RequirementProfile `json:"profile"`
	Candidate types.CandidateRecord    `json:"candidate"`
}

// RankRequest represents the request body for the rank endpoint
type RankRequest struct {
	Profile      types.RequirementProfile `json:"profile"`
	Candidates   []types.CandidateRecord  `json:"candidates"`
	WithFeedback bool                     `json:"withFeedback"`
}

// RankResponse wraps the ranked results
type RankResponse struct {
	Results []types.RankedResult `json:"results"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Server holds configuration for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	// Full application configuration
	AppConfig *config.Config

	// API Authentication
	APIKeys map[string]bool

	// Timeout configurations
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Request size limit
	MaxRequestSize int64

	// Rate limiting
	RateLimit   *config.ServerRateLimitConfig
	RateLimiter *RateLimiter

	// Logger
	Logger *talentrankErrors.Logger

	// Ranking service, swapped atomically when the tables file reloads
	rankingService atomic.Pointer[ranking.Service]
	feedbackClient *feedback.Client
	tablesWatcher  *config.TablesWatcher
}

// ServerConfig holds configuration for creating a Server instance
type ServerConfig struct {
	Host           string
	Port           string
	Version        string
	APIKeys        []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxRequestSize int64
	RateLimit      *config.ServerRateLimitConfig
}

// NewServer creates a new Server instance from a ServerConfig struct
func NewServer(appCfg *config.Config, cfg ServerConfig, logger *talentrankErrors.Logger) *Server {
	// Convert API keys slice to map for O(1) lookup
	apiKeyMap := make(map[string]bool)
	for _, key := range cfg.APIKeys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}

	var rateLimiter *RateLimiter
	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		rateLimiter = NewRateLimiter(
			cfg.RateLimit.RequestsPerMin,
			cfg.RateLimit.BurstCapacity,
			logger,
		)
	}

	return &Server{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Version:        cfg.Version,
		AppConfig:      appCfg,
		APIKeys:        apiKeyMap,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxRequestSize: cfg.MaxRequestSize,
		RateLimit:      cfg.RateLimit,
		RateLimiter:    rateLimiter,
		Logger:         logger,
	}
}

// currentRanking returns the ranking service in use right now
func (s *Server) currentRanking() *ranking.Service {
	return s.rankingService.Load()
}
