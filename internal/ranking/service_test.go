package ranking

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"talentrank/internal/config"
	"talentrank/internal/errors"
	"talentrank/internal/match"
	"talentrank/internal/types"
)

// fakeProvider serves canned histories keyed by email or candidate ID
type fakeProvider struct {
	mu         sync.Mutex
	emailCalls int
	idCalls    int
	histories  map[string]*types.FeedbackHistory
	errs       map[string]error
	block      bool
}

func (f *fakeProvider) HistoryByEmail(ctx context.Context, email string) (*types.FeedbackHistory, error) {
	f.mu.Lock()
	f.emailCalls++
	f.mu.Unlock()
	return f.resolve(ctx, email)
}

func (f *fakeProvider) HistoryByID(ctx context.Context, id string) (*types.FeedbackHistory, error) {
	f.mu.Lock()
	f.idCalls++
	f.mu.Unlock()
	return f.resolve(ctx, id)
}

func (f *fakeProvider) resolve(ctx context.Context, key string) (*types.FeedbackHistory, error) {
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if err, ok := f.errs[key]; ok {
		return nil, err
	}
	return f.histories[key], nil
}

func newTestService(t testing.TB, provider HistoryProvider) *Service {
	t.Helper()

	engine, err := match.NewEngine(nil)
	if err != nil {
		t.Fatalf("Failed to create match engine: %v", err)
	}
	logger, err := errors.New("error")
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	service, err := NewService(engine, provider, config.RankingConfig{MaxConcurrency: 4}, logger)
	if err != nil {
		t.Fatalf("Failed to create ranking service: %v", err)
	}
	return service
}

func testProfile() types.RequirementProfile {
	return types.RequirementProfile{
		Skills:        []string{"go"},
		MinExperience: 5,
	}
}

func testCandidates() []types.CandidateRecord {
	return []types.CandidateRecord{
		{ID: "c-ana", Name: "Ana", Email: "ana@example.com", Skills: []string{"go"}, ExperienceYears: 5},
		{ID: "c-ben", Name: "Ben", Email: "ben@example.com", Skills: []string{"go"}, ExperienceYears: 3},
		{ID: "c-cid", Name: "Cid", Email: "cid@example.com", Skills: []string{"java"}, ExperienceYears: 5},
	}
}

func TestServiceScore(t *testing.T) {
	service := newTestService(t, nil)

	breakdown, err := service.Score(testProfile(), testCandidates()[0])
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if breakdown.Overall != 100 {
		t.Errorf("Expected overall 100, got %d", breakdown.Overall)
	}

	if _, err := service.Score(types.RequirementProfile{MinExperience: -1}, testCandidates()[0]); err == nil {
		t.Error("Expected error for invalid profile")
	}
}

func TestRankPureOrdering(t *testing.T) {
	service := newTestService(t, nil)

	results, err := service.Rank(context.Background(), testProfile(), testCandidates(), false)
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}

	expected := []struct {
		id    string
		score int
	}{
		{"c-ana", 100},
		{"c-ben", 93},
		{"c-cid", 61},
	}
	for i, exp := range expected {
		if results[i].Candidate.ID != exp.id {
			t.Errorf("Expected %s at position %d, got %s", exp.id, i, results[i].Candidate.ID)
		}
		if results[i].AdjustedScore != exp.score {
			t.Errorf("Expected score %d for %s, got %d", exp.score, exp.id, results[i].AdjustedScore)
		}
		if results[i].AdjustedScore != results[i].Breakdown.Overall {
			t.Errorf("Expected adjusted score to equal base score without feedback for %s", exp.id)
		}
	}
}

func TestRankWithFeedbackAdjustments(t *testing.T) {
	provider := &fakeProvider{
		histories: map[string]*types.FeedbackHistory{
			"ana@example.com": {
				TotalInterviews: 1,
				HasRedFlag:      true,
				ScoreAdjustment: -15,
			},
			"cid@example.com": {
				TotalInterviews: 2,
				ScoreAdjustment: 15,
			},
		},
	}
	service := newTestService(t, provider)

	results, err := service.Rank(context.Background(), testProfile(), testCandidates(), true)
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}

	// Ana 100-15=85, Ben stays 93, Cid 61+15=76
	expected := []struct {
		id    string
		score int
	}{
		{"c-ben", 93},
		{"c-ana", 85},
		{"c-cid", 76},
	}
	for i, exp := range expected {
		if results[i].Candidate.ID != exp.id || results[i].AdjustedScore != exp.score {
			t.Errorf("Expected %s with score %d at position %d, got %s with %d",
				exp.id, exp.score, i, results[i].Candidate.ID, results[i].AdjustedScore)
		}
	}

	for _, result := range results {
		switch result.Candidate.ID {
		case "c-ana":
			if !result.RedFlag {
				t.Error("Expected red flag on Ana")
			}
		case "c-ben":
			if result.Feedback != nil || result.RedFlag || result.FeedbackUnavailable {
				t.Error("Expected Ben to have no feedback and no flags")
			}
		case "c-cid":
			if result.RedFlag {
				t.Error("Expected no red flag on Cid")
			}
		}
	}
}

func TestRankFeedbackFailureDegrades(t *testing.T) {
	provider := &fakeProvider{
		errs: map[string]error{
			"ana@example.com": stderrors.New("store down"),
		},
	}
	service := newTestService(t, provider)

	results, err := service.Rank(context.Background(), testProfile(), testCandidates(), true)
	if err != nil {
		t.Fatalf("Expected store failure to degrade, not fail the batch: %v", err)
	}

	for _, result := range results {
		if result.Candidate.ID == "c-ana" {
			if !result.FeedbackUnavailable {
				t.Error("Expected feedback unavailable flag on Ana")
			}
			if result.AdjustedScore != result.Breakdown.Overall {
				t.Errorf("Expected base score when feedback is unavailable, got %d", result.AdjustedScore)
			}
		} else if result.FeedbackUnavailable {
			t.Errorf("Expected %s to be unaffected by Ana's lookup failure", result.Candidate.ID)
		}
	}
}

func TestRankFallsBackToIDLookup(t *testing.T) {
	provider := &fakeProvider{histories: map[string]*types.FeedbackHistory{}}
	service := newTestService(t, provider)

	candidates := []types.CandidateRecord{
		{ID: "c-no-email", Name: "Nim", Skills: []string{"go"}, ExperienceYears: 5},
	}
	if _, err := service.Rank(context.Background(), testProfile(), candidates, true); err != nil {
		t.Fatalf("Rank failed: %v", err)
	}
	if provider.idCalls != 1 || provider.emailCalls != 0 {
		t.Errorf("Expected 1 ID lookup and 0 email lookups, got %d and %d", provider.idCalls, provider.emailCalls)
	}
}

func TestRankDropsInvalidCandidates(t *testing.T) {
	service := newTestService(t, nil)

	candidates := append(testCandidates(), types.CandidateRecord{Name: "No ID", Skills: []string{"go"}})
	results, err := service.Rank(context.Background(), testProfile(), candidates, false)
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}
	if len(results) != 3 {
		t.Errorf("Expected invalid candidate to be dropped, got %d results", len(results))
	}
}

func TestRankInvalidProfile(t *testing.T) {
	service := newTestService(t, nil)

	profile := types.RequirementProfile{MinExperience: -1}
	if _, err := service.Rank(context.Background(), profile, testCandidates(), false); err == nil {
		t.Error("Expected error for invalid profile")
	}
}

func TestRankTieBreaksOnCandidateID(t *testing.T) {
	service := newTestService(t, nil)

	candidates := []types.CandidateRecord{
		{ID: "c-zoe", Skills: []string{"go"}, ExperienceYears: 5},
		{ID: "c-abe", Skills: []string{"go"}, ExperienceYears: 5},
	}
	results, err := service.Rank(context.Background(), testProfile(), candidates, false)
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}
	if results[0].Candidate.ID != "c-abe" || results[1].Candidate.ID != "c-zoe" {
		t.Errorf("Expected tied candidates ordered by ID, got %s then %s",
			results[0].Candidate.ID, results[1].Candidate.ID)
	}
}

func TestRankHonorsTimeout(t *testing.T) {
	engine, err := match.NewEngine(nil)
	if err != nil {
		t.Fatalf("Failed to create match engine: %v", err)
	}
	logger, err := errors.New("error")
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	provider := &fakeProvider{block: true}
	service, err := NewService(engine, provider, config.RankingConfig{
		MaxConcurrency: 2,
		Timeout:        20 * time.Millisecond,
	}, logger)
	if err != nil {
		t.Fatalf("Failed to create ranking service: %v", err)
	}

	results, err := service.Rank(context.Background(), testProfile(), testCandidates(), true)
	if err != nil {
		t.Fatalf("Expected deadline expiry to degrade, not fail the batch: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}
	for _, result := range results {
		if !result.FeedbackUnavailable {
			t.Errorf("Expected feedback unavailable flag on %s after deadline expiry", result.Candidate.ID)
		}
		if result.AdjustedScore != result.Breakdown.Overall {
			t.Errorf("Expected base score preserved for %s, got %d", result.Candidate.ID, result.AdjustedScore)
		}
	}
}

func TestRankEmptyBatch(t *testing.T) {
	service := newTestService(t, nil)

	results, err := service.Rank(context.Background(), testProfile(), nil, false)
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Expected empty result set, got %d", len(results))
	}
}

func BenchmarkRank(b *testing.B) {
	service := newTestService(b, nil)
	profile := testProfile()
	candidates := testCandidates()

	for b.Loop() {
		if _, err := service.Rank(context.Background(), profile, candidates, false); err != nil {
			b.Fatalf("Rank failed: %v", err)
		}
	}
}
