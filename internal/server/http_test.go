package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"talentrank/internal/config"
	"talentrank/internal/errors"
	"talentrank/internal/match"
	"talentrank/internal/ranking"
	"talentrank/internal/types"
)

func newTestServer(t *testing.T, apiKeys []string, rateLimit *config.ServerRateLimitConfig) *Server {
	t.Helper()

	logger, err := errors.New("error")
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	appCfg := &config.Config{}
	srv := NewServer(appCfg, ServerConfig{
		Host:           "localhost",
		Port:           "0",
		Version:        "test",
		APIKeys:        apiKeys,
		MaxRequestSize: 1 << 20,
		RateLimit:      rateLimit,
	}, logger)
	if srv.RateLimiter != nil {
		t.Cleanup(srv.RateLimiter.Close)
	}

	engine, err := match.NewEngine(nil)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	svc, err := ranking.NewService(engine, nil, config.RankingConfig{}, logger)
	if err != nil {
		t.Fatalf("Failed to create ranking service: %v", err)
	}
	srv.rankingService.Store(svc)

	return srv
}

func postJSON(t *testing.T, mux *http.ServeMux, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

const scoreBody = `{
	"profile": {"skills": ["go"], "minExperience": 3},
	"candidate": {"id": "c-1", "name": "Ana", "skills": ["go"], "experienceYears": 5}
}`

func TestScoreHandler(t *testing.T) {
	srv := newTestServer(t, nil, nil)
	mux := srv.setupRoutes()

	t.Run("valid request", func(t *testing.T) {
		rec := postJSON(t, mux, "/score", scoreBody, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var breakdown types.MatchBreakdown
		if err := json.Unmarshal(rec.Body.Bytes(), &breakdown); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if breakdown.Overall != 100 {
			t.Errorf("Expected overall score 100, got %d", breakdown.Overall)
		}
	})

	t.Run("invalid json", func(t *testing.T) {
		rec := postJSON(t, mux, "/score", "{not json", nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", rec.Code)
		}
	})

	t.Run("missing content type", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/score", strings.NewReader(scoreBody))
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", rec.Code)
		}
	})

	t.Run("invalid candidate", func(t *testing.T) {
		body := `{"profile": {"skills": ["go"]}, "candidate": {"name": "no id"}}`
		rec := postJSON(t, mux, "/score", body, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", rec.Code)
		}
	})

	t.Run("wrong method", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/score", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("Expected status 405, got %d", rec.Code)
		}
	})
}

func TestRankHandler(t *testing.T) {
	srv := newTestServer(t, nil, nil)
	mux := srv.setupRoutes()

	t.Run("orders by score", func(t *testing.T) {
		body := `{
			"profile": {"skills": ["go"], "minExperience": 3},
			"candidates": [
				{"id": "c-low", "name": "Ben", "skills": ["java"], "experienceYears": 1},
				{"id": "c-high", "name": "Ana", "skills": ["go"], "experienceYears": 5}
			]
		}`
		rec := postJSON(t, mux, "/rank", body, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var resp RankResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if len(resp.Results) != 2 {
			t.Fatalf("Expected 2 results, got %d", len(resp.Results))
		}
		if resp.Results[0].Candidate.ID != "c-high" {
			t.Errorf("Expected c-high first, got %s", resp.Results[0].Candidate.ID)
		}
	})

	t.Run("empty candidates", func(t *testing.T) {
		body := `{"profile": {"skills": ["go"]}, "candidates": []}`
		rec := postJSON(t, mux, "/rank", body, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", rec.Code)
		}
	})

	t.Run("invalid profile", func(t *testing.T) {
		body := `{"profile": {"skills": ["go"], "minExperience": -1}, "candidates": [{"id": "c-1"}]}`
		rec := postJSON(t, mux, "/rank", body, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", rec.Code)
		}
	})
}

func TestFeedbackHandlerNotConfigured(t *testing.T) {
	srv := newTestServer(t, nil, nil)
	mux := srv.setupRoutes()

	rec := postJSON(t, mux, "/feedback", `{"candidateEmail": "a@b.com", "recommendation": "hire", "score": 80}`, nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503 without a feedback store, got %d", rec.Code)
	}
}

func TestAuthMiddleware(t *testing.T) {
	srv := newTestServer(t, []string{"secret-key-12345"}, nil)
	mux := srv.setupRoutes()

	t.Run("missing key", func(t *testing.T) {
		rec := postJSON(t, mux, "/score", scoreBody, nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("Expected status 401, got %d", rec.Code)
		}
	})

	t.Run("invalid key", func(t *testing.T) {
		rec := postJSON(t, mux, "/score", scoreBody, map[string]string{"X-API-Key": "wrong"})
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("Expected status 401, got %d", rec.Code)
		}
	})

	t.Run("valid header key", func(t *testing.T) {
		rec := postJSON(t, mux, "/score", scoreBody, map[string]string{"X-API-Key": "secret-key-12345"})
		if rec.Code != http.StatusOK {
			t.Errorf("Expected status 200, got %d", rec.Code)
		}
	})

	t.Run("valid bearer token", func(t *testing.T) {
		rec := postJSON(t, mux, "/score", scoreBody, map[string]string{"Authorization": "Bearer secret-key-12345"})
		if rec.Code != http.StatusOK {
			t.Errorf("Expected status 200, got %d", rec.Code)
		}
	})

	t.Run("health is open", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("Expected status 200, got %d", rec.Code)
		}
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	rateLimit := &config.ServerRateLimitConfig{
		Enabled:        true,
		RequestsPerMin: 1,
		BurstCapacity:  1,
		ByIP:           true,
	}
	srv := newTestServer(t, nil, rateLimit)
	mux := srv.setupRoutes()

	first := postJSON(t, mux, "/score", scoreBody, nil)
	if first.Code != http.StatusOK {
		t.Fatalf("Expected first request to pass, got %d", first.Code)
	}

	second := postJSON(t, mux, "/score", scoreBody, nil)
	if second.Code != http.StatusTooManyRequests {
		t.Errorf("Expected status 429 after burst exhausted, got %d", second.Code)
	}
}

func TestHealthHandler(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		srv := newTestServer(t, nil, nil)
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		srv.healthHandler(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", rec.Code)
		}
		var resp map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if resp["status"] != "healthy" {
			t.Errorf("Expected status healthy, got %v", resp["status"])
		}
	})

	t.Run("degraded without ranking service", func(t *testing.T) {
		logger, _ := errors.New("error")
		srv := NewServer(&config.Config{}, ServerConfig{Version: "test"}, logger)
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		srv.healthHandler(rec, req)

		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("Expected status 503, got %d", rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("Expected JSON content type on a degraded response, got %q", ct)
		}
		var resp map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if resp["status"] != "degraded" {
			t.Errorf("Expected status degraded, got %v", resp["status"])
		}
	})
}

func TestStatsHandler(t *testing.T) {
	srv := newTestServer(t, nil, nil)
	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	rec := httptest.NewRecorder()
	srv.statsHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp["service"] != "talentrank" {
		t.Errorf("Expected service talentrank, got %v", resp["service"])
	}
	if _, ok := resp["rate_limiting"]; !ok {
		t.Error("Expected rate_limiting section in stats")
	}
}

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"short", "****"},
		{"12345678", "****"},
		{"123456789abcdef", "12345678****"},
	}

	for _, tt := range tests {
		if got := maskAPIKey(tt.input); got != tt.expected {
			t.Errorf("maskAPIKey(%q): expected %q, got %q", tt.input, tt.expected, got)
		}
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name     string
		remote   string
		headers  map[string]string
		expected string
	}{
		{
			name:     "remote addr",
			remote:   "10.0.0.1:1234",
			expected: "10.0.0.1",
		},
		{
			name:     "x-forwarded-for",
			remote:   "10.0.0.1:1234",
			headers:  map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.2"},
			expected: "203.0.113.7",
		},
		{
			name:     "x-real-ip",
			remote:   "10.0.0.1:1234",
			headers:  map[string]string{"X-Real-IP": "203.0.113.9"},
			expected: "203.0.113.9",
		},
		{
			name:     "invalid forwarded entries fall through",
			remote:   "10.0.0.1:1234",
			headers:  map[string]string{"X-Forwarded-For": "not-an-ip"},
			expected: "10.0.0.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := getClientIP(req); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}
