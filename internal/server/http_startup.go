package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"talentrank/internal/config"
	"talentrank/internal/feedback"
	"talentrank/internal/match"
	"talentrank/internal/observability"
	"talentrank/internal/ranking"
)

// Start starts the HTTP server with all configured components
func (s *Server) Start() error {
	if err := s.initializeRanking(); err != nil {
		return err
	}

	if err := s.startTablesWatcher(); err != nil {
		return err
	}

	if err := s.startMetricsServer(); err != nil {
		return err
	}

	httpServer := s.setupHTTPServer()

	s.displayServerInfo()

	return s.startWithGracefulShutdown(httpServer)
}

// initializeRanking builds the match engine, the optional feedback client and
// the ranking service that the score and rank endpoints share.
func (s *Server) initializeRanking() error {
	svc, err := s.buildRankingService()
	if err != nil {
		return err
	}
	s.rankingService.Store(svc)
	return nil
}

// buildRankingService loads the current tables and assembles a ranking service.
// Called again by the tables watcher on every reload.
func (s *Server) buildRankingService() (*ranking.Service, error) {
	tables, err := s.AppConfig.LoadTables(s.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load match tables: %w", err)
	}

	engine, err := match.NewEngine(tables)
	if err != nil {
		return nil, fmt.Errorf("failed to create match engine: %w", err)
	}

	var provider ranking.HistoryProvider
	if s.feedbackClient == nil && s.AppConfig.Feedback.Endpoint != "" && s.AppConfig.Feedback.APIKey != "" {
		client, err := feedback.NewClient(s.AppConfig.Feedback, s.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create feedback client: %w", err)
		}
		s.feedbackClient = client
	}
	if s.feedbackClient != nil {
		provider = s.feedbackClient
	}

	return ranking.NewService(engine, provider, s.AppConfig.Ranking, s.Logger)
}

// startTablesWatcher watches the tables file and hot-swaps the ranking service
// when it changes. Reload failures keep the previous tables in place.
func (s *Server) startTablesWatcher() error {
	if !s.AppConfig.Match.AutoReload || s.AppConfig.Match.TablesFile == "" {
		return nil
	}

	watcher, err := config.NewTablesWatcher(
		s.AppConfig.Match.TablesFile,
		s.AppConfig.Match.FileWatcher.DebounceDelay,
		func() {
			svc, err := s.buildRankingService()
			if err != nil {
				s.Logger.LogError(err, "Tables reload failed, keeping previous tables",
					"tables_file", s.AppConfig.Match.TablesFile)
				return
			}
			s.rankingService.Store(svc)
			s.Logger.Info("Match tables reloaded",
				"tables_file", s.AppConfig.Match.TablesFile)
		},
		s.Logger,
	)
	if err != nil {
		return fmt.Errorf("failed to create tables watcher: %w", err)
	}

	if err := watcher.Start(); err != nil {
		return fmt.Errorf("failed to start tables watcher: %w", err)
	}

	s.tablesWatcher = watcher
	s.Logger.Info("Tables watcher started",
		"tables_file", s.AppConfig.Match.TablesFile)
	return nil
}

// startMetricsServer starts the dedicated Prometheus server when enabled
func (s *Server) startMetricsServer() error {
	promConfig := observability.GetPrometheusConfig(s.AppConfig)
	mux := observability.SetupPrometheusHandler(promConfig)
	return observability.StartPrometheusServer(mux, promConfig.Port)
}

// setupHTTPServer creates and configures the HTTP server
func (s *Server) setupHTTPServer() *http.Server {
	mux := s.setupRoutes()
	handler := observability.HTTPMiddleware(mux)
	addr := fmt.Sprintf("%s:%s", s.Host, s.Port)

	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  s.ReadTimeout,
		WriteTimeout: s.WriteTimeout,
		IdleTimeout:  s.IdleTimeout,
	}
}

// startWithGracefulShutdown starts the HTTP server and handles graceful shutdown
func (s *Server) startWithGracefulShutdown(server *http.Server) error {
	// Channel to receive OS signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Channel to receive server errors
	serverErrors := make(chan error, 1)

	// Start the server in a goroutine
	go func() {
		s.Logger.Info("Starting HTTP server", "address", server.Addr)

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	// Wait for either a signal or server error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server failed to start: %w", err)
	case sig := <-quit:
		s.Logger.Info("Received shutdown signal, starting graceful shutdown",
			"signal", sig.String())

		return s.performGracefulShutdown(server)
	}
}

// performGracefulShutdown handles the graceful shutdown process
func (s *Server) performGracefulShutdown(server *http.Server) error {
	// Create a context with timeout for graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Stop the tables watcher if running
	if err := s.stopTablesWatcher(); err != nil {
		s.Logger.LogError(err, "Failed to stop tables watcher")
	}

	// Clean up rate limiter if enabled
	s.cleanupRateLimiter()

	// Attempt graceful shutdown of HTTP server
	s.Logger.Info("Shutting down HTTP server...")
	if err := server.Shutdown(shutdownCtx); err != nil {
		s.Logger.LogError(err, "Failed to shutdown server gracefully, forcing close")
		return server.Close()
	}

	s.Logger.Info("Server shutdown completed successfully")
	return nil
}

// stopTablesWatcher stops the tables watcher if it's running
func (s *Server) stopTablesWatcher() error {
	if s.tablesWatcher != nil {
		return s.tablesWatcher.Stop()
	}
	return nil
}

// cleanupRateLimiter cleans up the rate limiter resources
func (s *Server) cleanupRateLimiter() {
	if s.RateLimiter != nil {
		s.RateLimiter.Close()
		s.Logger.Info("Rate limiter cleaned up")
	}
}
