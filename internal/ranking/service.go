package ranking

import (
	"context"
	"sort"
	"time"

	"talentrank/internal/config"
	"talentrank/internal/errors"
	"talentrank/internal/match"
	"talentrank/internal/types"

	"golang.org/x/sync/errgroup"
)

// HistoryProvider supplies interview history for candidates. The feedback
// client satisfies it; tests swap in fakes.
type HistoryProvider interface {
	HistoryByEmail(ctx context.Context, email string) (*types.FeedbackHistory, error)
	HistoryByID(ctx context.Context, id string) (*types.FeedbackHistory, error)
}

// FeedbackRecorder is the write side of the feedback store. The feedback
// client satisfies this too.
type FeedbackRecorder interface {
	Record(ctx context.Context, record types.FeedbackRecord) (types.FeedbackRecord, error)
}

// Service ranks candidate batches against a requirement profile. Matching is
// pure and always succeeds for valid input; feedback enrichment is best
// effort and degrades per candidate when the store is unreachable.
type Service struct {
	engine         *match.Engine
	feedback       HistoryProvider
	maxConcurrency int
	timeout        time.Duration
	logger         *errors.Logger
}

// NewService creates a ranking service. The feedback provider may be nil,
// which turns every ranking into a pure match-score ranking.
func NewService(engine *match.Engine, provider HistoryProvider, cfg config.RankingConfig, logger *errors.Logger) (*Service, error) {
	if engine == nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, "ranking service requires a match engine", nil)
	}

	maxConcurrency := cfg.MaxConcurrency
	if maxConcurrency <= 0 {
		maxConcurrency = 8
	}

	return &Service{
		engine:         engine,
		feedback:       provider,
		maxConcurrency: maxConcurrency,
		timeout:        cfg.Timeout,
		logger:         logger,
	}, nil
}

// Score computes the match breakdown for a single candidate.
func (s *Service) Score(profile types.RequirementProfile, candidate types.CandidateRecord) (types.MatchBreakdown, error) {
	return s.engine.Score(profile, candidate)
}

// RecordFeedback writes one interview record through the feedback client.
func (s *Service) RecordFeedback(ctx context.Context, record types.FeedbackRecord) (types.FeedbackRecord, error) {
	recorder, ok := s.feedback.(FeedbackRecorder)
	if !ok {
		return types.FeedbackRecord{}, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			"no writable feedback store configured", nil)
	}
	return recorder.Record(ctx, record)
}

// Rank scores every candidate against the profile and returns them sorted
// best first. With feedback enabled, each candidate's history adjusts the
// score; a lookup failure marks that one result unavailable instead of
// failing the batch. Invalid candidates are dropped with a warning.
func (s *Service) Rank(ctx context.Context, profile types.RequirementProfile, candidates []types.CandidateRecord, withFeedback bool) ([]types.RankedResult, error) {
	if err := profile.Validate(); err != nil {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest, "invalid requirement profile", err)
	}

	start := time.Now()
	defer func() {
		rankDuration.Observe(time.Since(start).Seconds())
	}()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	results := make([]types.RankedResult, 0, len(candidates))
	for _, candidate := range candidates {
		breakdown, err := s.engine.Score(profile, candidate)
		if err != nil {
			if s.logger != nil {
				s.logger.Warn("Dropping candidate from ranking",
					"candidate_id", candidate.ID,
					"error", err.Error())
			}
			rankedCandidatesTotal.WithLabelValues("dropped").Inc()
			continue
		}
		rankedCandidatesTotal.WithLabelValues("ranked").Inc()
		results = append(results, types.RankedResult{
			Candidate:     candidate,
			Breakdown:     breakdown,
			AdjustedScore: breakdown.Overall,
		})
	}

	if withFeedback && s.feedback != nil {
		s.enrich(ctx, results)
	}

	sortResults(results)
	return results, nil
}

// enrich fans out feedback lookups over the result set with bounded
// concurrency. Each slot is written by exactly one goroutine. Any failure,
// deadline expiry included, marks that one result unavailable with its base
// score preserved; enrichment never fails the batch.
func (s *Service) enrich(ctx context.Context, results []types.RankedResult) {
	g := new(errgroup.Group)
	g.SetLimit(s.maxConcurrency)

	for i := range results {
		g.Go(func() error {
			if ctx.Err() != nil {
				results[i].FeedbackUnavailable = true
				return nil
			}

			history, err := s.lookupHistory(ctx, results[i].Candidate)
			if err != nil {
				if s.logger != nil {
					s.logger.Warn("Feedback unavailable for candidate",
						"candidate_id", results[i].Candidate.ID,
						"error", err.Error())
				}
				results[i].FeedbackUnavailable = true
				return nil
			}

			if history != nil {
				results[i].Feedback = history
				results[i].RedFlag = history.HasRedFlag
				results[i].AdjustedScore = match.ClampScore(results[i].Breakdown.Overall + history.ScoreAdjustment)
			}
			return nil
		})
	}

	_ = g.Wait()
}

// lookupHistory prefers the email lookup and falls back to the candidate ID.
func (s *Service) lookupHistory(ctx context.Context, candidate types.CandidateRecord) (*types.FeedbackHistory, error) {
	if candidate.Email != "" {
		return s.feedback.HistoryByEmail(ctx, candidate.Email)
	}
	return s.feedback.HistoryByID(ctx, candidate.ID)
}

// sortResults orders by adjusted score, then base score, then candidate ID
// so equal candidates always come back in the same order.
func sortResults(results []types.RankedResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].AdjustedScore != results[j].AdjustedScore {
			return results[i].AdjustedScore > results[j].AdjustedScore
		}
		if results[i].Breakdown.Overall != results[j].Breakdown.Overall {
			return results[i].Breakdown.Overall > results[j].Breakdown.Overall
		}
		return results[i].Candidate.ID < results[j].Candidate.ID
	})
}
