package feedback

import (
	"context"

	"talentrank/internal/types"
)

// Store is the transport-level view of the feedback index. Queries return
// records ordered newest first; an empty slice with a nil error means the
// candidate simply has no history.
type Store interface {
	QueryByEmail(ctx context.Context, email string) ([]types.FeedbackRecord, error)
	QueryByID(ctx context.Context, id string) ([]types.FeedbackRecord, error)
	Upload(ctx context.Context, record types.FeedbackRecord) error
}

// Score adjustments applied based on the latest recommendation.
const (
	adjustStrongHire = 15
	adjustHire       = 5
	adjustMaybe      = 0
	adjustNoHire     = -15
)

// RecommendationAdjustment maps a recommendation to its score adjustment.
// Unknown values adjust by zero.
func RecommendationAdjustment(recommendation string) int {
	switch recommendation {
	case types.RecommendationStrongHire:
		return adjustStrongHire
	case types.RecommendationHire:
		return adjustHire
	case types.RecommendationMaybe:
		return adjustMaybe
	case types.RecommendationNoHire:
		return adjustNoHire
	}
	return 0
}

// buildHistory folds ordered records into a history summary. The latest
// record alone decides the red flag and the adjustment; older interviews are
// context only.
func buildHistory(records []types.FeedbackRecord, defaultEmail, defaultID string) *types.FeedbackHistory {
	if len(records) == 0 {
		return nil
	}

	latest := records[0]

	email := defaultEmail
	if email == "" {
		email = latest.CandidateEmail
	}
	id := defaultID
	if id == "" {
		id = latest.CandidateID
	}
	name := latest.CandidateName
	if name == "" {
		name = "Unknown"
	}

	return &types.FeedbackHistory{
		CandidateID:     id,
		CandidateEmail:  email,
		CandidateName:   name,
		TotalInterviews: len(records),
		Latest:          latest,
		AllInterviews:   records,
		HasRedFlag:      latest.Recommendation == types.RecommendationNoHire,
		ScoreAdjustment: RecommendationAdjustment(latest.Recommendation),
	}
}
