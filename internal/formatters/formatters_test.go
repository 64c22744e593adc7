package formatters

import (
	"strings"
	"testing"
	"time"

	"talentrank/internal/types"
)

func sampleBreakdown() types.MatchBreakdown {
	return types.MatchBreakdown{
		Overall: 84,
		Skills: types.SkillScore{
			Score:   71,
			Matched: []string{"go", "kubernetes"},
			Missing: []string{"terraform"},
		},
		Experience: types.ExperienceScore{Score: 100, Candidate: 6, Required: 5, Fit: "ideal"},
		Location:   types.LocationScore{Score: 100, MatchType: "exact"},
		Title:      types.TitleScore{Score: 70, Relevance: "partial", RoleMatch: "partial", SeniorityMatch: "exact"},
	}
}

func TestRegistryDispatch(t *testing.T) {
	registry := NewFormatterRegistry()

	tests := []struct {
		name     string
		data     any
		format   string
		expected string
	}{
		{"breakdown text", sampleBreakdown(), "text", "=== MATCH BREAKDOWN ==="},
		{"breakdown markdown", sampleBreakdown(), "markdown", "# Match Breakdown"},
		{"breakdown json", sampleBreakdown(), "json", `"overall": 84`},
		{"ranking text", []types.RankedResult{}, "text", "No candidates ranked."},
		{"history text nil", (*types.FeedbackHistory)(nil), "text", "No interview history on record."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := registry.Format(tt.data, tt.format)
			if err != nil {
				t.Fatalf("Format failed: %v", err)
			}
			if !strings.Contains(output, tt.expected) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.expected, output)
			}
		})
	}
}

func TestRegistryUnknownFormat(t *testing.T) {
	registry := NewFormatterRegistry()
	if _, err := registry.Format(sampleBreakdown(), "xml"); err == nil {
		t.Error("Expected error for unsupported format")
	}
}

func TestRankingTextFormatter(t *testing.T) {
	results := []types.RankedResult{
		{
			Candidate:     types.CandidateRecord{ID: "c1", Name: "Jane Doe"},
			Breakdown:     sampleBreakdown(),
			AdjustedScore: 69,
			RedFlag:       true,
			Feedback: &types.FeedbackHistory{
				TotalInterviews: 2,
				Latest: types.FeedbackRecord{
					Recommendation: types.RecommendationNoHire,
					InterviewDate:  time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
				},
			},
		},
	}

	output, err := NewFormatterRegistry().Format(results, "text")
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	for _, want := range []string{"1. Jane Doe - 69/100", "(base 84)", "[RED FLAG]", "Missing skills: terraform", "latest recommendation: no_hire"} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, output)
		}
	}
}
