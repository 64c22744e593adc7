package common

import (
	"testing"
)

func TestParseProfile(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		expectError bool
	}{
		{
			name:    "valid profile",
			content: `{"skills": ["go", "kubernetes"], "title": "backend engineer", "minExperience": 5, "preferredLocation": "dubai"}`,
		},
		{
			name:    "minimal profile",
			content: `{"skills": ["go"]}`,
		},
		{
			name:        "negative experience",
			content:     `{"skills": ["go"], "minExperience": -2}`,
			expectError: true,
		},
		{
			name:        "blank skill entry",
			content:     `{"skills": ["go", "  "]}`,
			expectError: true,
		},
		{
			name:        "not JSON",
			content:     `skills: [go]`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseProfile(tt.content)
			if tt.expectError && err == nil {
				t.Error("Expected error but got none")
			}
			if !tt.expectError && err != nil {
				t.Errorf("Expected no error but got: %v", err)
			}
		})
	}
}

func TestParseCandidates(t *testing.T) {
	t.Run("bare array", func(t *testing.T) {
		candidates, err := ParseCandidates(`[{"id": "c1", "name": "Jane"}, {"id": "c2"}]`)
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if len(candidates) != 2 {
			t.Errorf("Expected 2 candidates, got %d", len(candidates))
		}
	})

	t.Run("wrapped object", func(t *testing.T) {
		candidates, err := ParseCandidates(`{"candidates": [{"id": "c1"}]}`)
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if len(candidates) != 1 || candidates[0].ID != "c1" {
			t.Errorf("Expected single candidate c1, got %+v", candidates)
		}
	})

	t.Run("object without candidates field", func(t *testing.T) {
		if _, err := ParseCandidates(`{"people": []}`); err == nil {
			t.Error("Expected error for object without candidates field")
		}
	})

	t.Run("invalid JSON", func(t *testing.T) {
		if _, err := ParseCandidates(`not json`); err == nil {
			t.Error("Expected error for invalid JSON")
		}
	})
}

func TestParseFeedbackRecord(t *testing.T) {
	record, err := ParseFeedbackRecord(`{"candidateEmail": "jane@example.com", "recommendation": "hire", "score": 80}`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if record.CandidateEmail != "jane@example.com" || record.Score != 80 {
		t.Errorf("Unexpected record: %+v", record)
	}
}
