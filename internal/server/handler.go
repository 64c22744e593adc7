package server

import (
	"encoding/json"
	"errors"
	"net/http"

	talentrankErrors "talentrank/internal/errors"
	"talentrank/internal/types"
)

// scoreHandler scores a single candidate against a requirement profile
func (s *Server) scoreHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ScoreRequest
	if err := parseJSONRequest(r, &req); err != nil {
		writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	if err := req.Profile.Validate(); err != nil {
		writeErrorResponse(w, "Invalid profile", err.Error(), http.StatusBadRequest)
		return
	}
	if err := req.Candidate.Validate(); err != nil {
		writeErrorResponse(w, "Invalid candidate", err.Error(), http.StatusBadRequest)
		return
	}

	svc := s.currentRanking()
	if svc == nil {
		writeErrorResponse(w, "Service unavailable", "Ranking service is not initialized", http.StatusServiceUnavailable)
		return
	}

	breakdown, err := svc.Score(req.Profile, req.Candidate)
	if err != nil {
		writeErrorResponse(w, "Failed to score candidate", err.Error(), errorStatusCode(err))
		return
	}

	s.Logger.Debug("Candidate scored",
		"candidate_id", req.Candidate.ID,
		"overall", breakdown.Overall)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(breakdown); err != nil {
		s.Logger.LogError(err, "Failed to encode score response")
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// rankHandler ranks a batch of candidates against a requirement profile
func (s *Server) rankHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req RankRequest
	if err := parseJSONRequest(r, &req); err != nil {
		writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	if len(req.Candidates) == 0 {
		writeErrorResponse(w, "Missing candidates", "candidates field must contain at least one candidate", http.StatusBadRequest)
		return
	}

	svc := s.currentRanking()
	if svc == nil {
		writeErrorResponse(w, "Service unavailable", "Ranking service is not initialized", http.StatusServiceUnavailable)
		return
	}

	withFeedback := req.WithFeedback && s.feedbackClient != nil
	if req.WithFeedback && s.feedbackClient == nil {
		s.Logger.Warn("Feedback enrichment requested but no feedback store is configured")
	}

	results, err := svc.Rank(r.Context(), req.Profile, req.Candidates, withFeedback)
	if err != nil {
		writeErrorResponse(w, "Failed to rank candidates", err.Error(), errorStatusCode(err))
		return
	}

	s.Logger.Info("Candidates ranked",
		"candidates", len(req.Candidates),
		"ranked", len(results),
		"with_feedback", withFeedback)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(RankResponse{Results: results}); err != nil {
		s.Logger.LogError(err, "Failed to encode rank response")
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// feedbackHandler records a new interview feedback entry
func (s *Server) feedbackHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if s.feedbackClient == nil {
		writeErrorResponse(w, "Feedback store not configured", "Set feedback.endpoint and feedback.apiKey to enable feedback recording", http.StatusServiceUnavailable)
		return
	}

	var record types.FeedbackRecord
	if err := parseJSONRequest(r, &record); err != nil {
		writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	stored, err := s.feedbackClient.Record(r.Context(), record)
	if err != nil {
		writeErrorResponse(w, "Failed to record feedback", err.Error(), errorStatusCode(err))
		return
	}

	s.Logger.Info("Feedback recorded",
		"record_id", stored.ID,
		"candidate_email", stored.CandidateEmail,
		"recommendation", stored.Recommendation)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(stored); err != nil {
		s.Logger.LogError(err, "Failed to encode feedback response")
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// errorStatusCode maps application errors to HTTP status codes
func errorStatusCode(err error) int {
	var appErr *talentrankErrors.AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case talentrankErrors.ErrorTypeValidation:
			return http.StatusBadRequest
		case talentrankErrors.ErrorTypeQuery, talentrankErrors.ErrorTypeNetwork:
			return http.StatusBadGateway
		case talentrankErrors.ErrorTypeConfig:
			return http.StatusServiceUnavailable
		}
	}
	return http.StatusInternalServerError
}
