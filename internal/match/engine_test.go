package match

import (
	"reflect"
	"testing"

	"talentrank/internal/types"
)

func newTestEngine(t testing.TB) *Engine {
	t.Helper()
	engine, err := NewEngine(nil)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	return engine
}

func TestScoreSkills(t *testing.T) {
	engine := newTestEngine(t)

	tests := []struct {
		name            string
		candidateSkills []string
		requiredSkills  []string
		expectedScore   int
		expectedMatched []string
		expectedMissing []string
		expectedBonus   []string
	}{
		{
			name:            "no required skills scores full",
			candidateSkills: []string{"Python"},
			requiredSkills:  []string{},
			expectedScore:   100,
			expectedMatched: []string{},
			expectedMissing: []string{},
			expectedBonus:   []string{},
		},
		{
			name:            "all required skills matched",
			candidateSkills: []string{"Python", "AWS"},
			requiredSkills:  []string{"Python", "AWS"},
			expectedScore:   100,
			expectedMatched: []string{"Python", "AWS"},
			expectedMissing: []string{},
			expectedBonus:   []string{},
		},
		{
			name:            "synonym matches required skill",
			candidateSkills: []string{"k8s"},
			requiredSkills:  []string{"Kubernetes"},
			expectedScore:   100,
			expectedMatched: []string{"Kubernetes"},
			expectedMissing: []string{},
			expectedBonus:   []string{},
		},
		{
			name:            "earlier skills weigh more",
			candidateSkills: []string{"python"},
			requiredSkills:  []string{"Python", "React", "SQL"},
			expectedScore:   36, // 1.5 of 4.2 total weight
			expectedMatched: []string{"Python"},
			expectedMissing: []string{"React", "SQL"},
			expectedBonus:   []string{},
		},
		{
			name:            "same-domain extras add bonus points",
			candidateSkills: []string{"python", "django", "flask"},
			requiredSkills:  []string{"Python", "Rust"},
			expectedScore:   56, // base 51.7 plus 2 bonus skills
			expectedMatched: []string{"Python"},
			expectedMissing: []string{"Rust"},
			expectedBonus:   []string{"django", "flask"},
		},
		{
			name:            "nothing matched",
			candidateSkills: []string{"cooking"},
			requiredSkills:  []string{"Python"},
			expectedScore:   0,
			expectedMatched: []string{},
			expectedMissing: []string{"Python"},
			expectedBonus:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := engine.scoreSkills(tt.candidateSkills, tt.requiredSkills)

			if result.Score != tt.expectedScore {
				t.Errorf("Expected score %d, got %d", tt.expectedScore, result.Score)
			}
			if !reflect.DeepEqual(result.Matched, tt.expectedMatched) {
				t.Errorf("Expected matched %v, got %v", tt.expectedMatched, result.Matched)
			}
			if !reflect.DeepEqual(result.Missing, tt.expectedMissing) {
				t.Errorf("Expected missing %v, got %v", tt.expectedMissing, result.Missing)
			}
			if !reflect.DeepEqual(result.BonusSkills, tt.expectedBonus) {
				t.Errorf("Expected bonus %v, got %v", tt.expectedBonus, result.BonusSkills)
			}
		})
	}
}

func TestScoreSkillsBonusCap(t *testing.T) {
	engine := newTestEngine(t)

	// Seven in-domain extras, but the bonus stops at 10 points and the
	// reported list stops at three.
	result := engine.scoreSkills(
		[]string{"python", "django", "flask", "fastapi", "express", "java", "rust", "c++"},
		[]string{"Python", "Scala"},
	)

	// base 51.7 + 10 capped bonus
	if result.Score != 62 {
		t.Errorf("Expected score 62, got %d", result.Score)
	}
	if len(result.BonusSkills) != 3 {
		t.Errorf("Expected 3 reported bonus skills, got %d", len(result.BonusSkills))
	}
}

func TestScoreExperience(t *testing.T) {
	engine := newTestEngine(t)

	tests := []struct {
		name          string
		candidate     int
		required      int
		expectedScore int
		expectedFit   string
	}{
		{"no requirement", 5, 0, 100, "any"},
		{"exact match", 5, 5, 100, "ideal"},
		{"sweet spot upper bound", 8, 5, 100, "ideal"},
		{"slightly over-qualified", 9, 5, 90, "experienced"},
		{"significantly over-qualified", 11, 5, 75, "over_qualified"},
		{"one year short", 4, 5, 85, "slightly_under"},
		{"two years short", 3, 5, 70, "stretch"},
		{"three years short hits floor", 2, 5, 40, "under_qualified"},
		{"large gap stays at floor", 0, 10, 40, "under_qualified"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := engine.scoreExperience(tt.candidate, tt.required)

			if result.Score != tt.expectedScore {
				t.Errorf("Expected score %d, got %d", tt.expectedScore, result.Score)
			}
			if result.Fit != tt.expectedFit {
				t.Errorf("Expected fit '%s', got '%s'", tt.expectedFit, result.Fit)
			}
		})
	}
}

func TestScoreLocation(t *testing.T) {
	engine := newTestEngine(t)

	tests := []struct {
		name          string
		candidate     string
		preferred     string
		expectedScore int
		expectedType  string
	}{
		{"no preference", "Berlin", "", 100, "any"},
		{"substring match", "Dubai, UAE", "Dubai", 100, "exact"},
		{"remote preference accepts anyone", "Berlin", "Remote", 100, "remote_ok"},
		{"same local-region cities", "Abu Dhabi", "Dubai", 100, "same_country"},
		{"same region elsewhere", "Qatar", "Saudi Arabia", 75, "regional"},
		{"us west coast cities", "Seattle", "San Francisco", 75, "regional"},
		{"different regions", "London", "New York", 40, "relocation_needed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := engine.scoreLocation(tt.candidate, tt.preferred)

			if result.Score != tt.expectedScore {
				t.Errorf("Expected score %d, got %d", tt.expectedScore, result.Score)
			}
			if result.MatchType != tt.expectedType {
				t.Errorf("Expected match type '%s', got '%s'", tt.expectedType, result.MatchType)
			}
		})
	}
}

func TestScoreTitle(t *testing.T) {
	engine := newTestEngine(t)

	tests := []struct {
		name              string
		candidateTitle    string
		targetTitle       string
		expectedScore     int
		expectedRelevance string
		expectedRole      string
		expectedSeniority string
	}{
		{
			name:              "no target title",
			candidateTitle:    "Senior Backend Engineer",
			targetTitle:       "",
			expectedScore:     100,
			expectedRelevance: "any",
			expectedSeniority: "exact",
		},
		{
			name:              "identical titles",
			candidateTitle:    "Senior Backend Engineer",
			targetTitle:       "Senior Backend Engineer",
			expectedScore:     100,
			expectedRelevance: "excellent",
			expectedRole:      "exact",
			expectedSeniority: "exact",
		},
		{
			name:              "same role one level apart",
			candidateTitle:    "Backend Engineer",
			targetTitle:       "Senior Backend Engineer",
			expectedScore:     94,
			expectedRelevance: "excellent",
			expectedRole:      "exact",
			expectedSeniority: "close",
		},
		{
			name:              "partial term overlap",
			candidateTitle:    "Senior Software Engineer",
			targetTitle:       "Senior Backend Engineer",
			expectedScore:     70,
			expectedRelevance: "partial",
			expectedRole:      "partial",
			expectedSeniority: "exact",
		},
		{
			name:              "related role group",
			candidateTitle:    "Software Developer",
			targetTitle:       "QA Engineer",
			expectedScore:     76,
			expectedRelevance: "good",
			expectedRole:      "related",
			expectedSeniority: "exact",
		},
		{
			name:              "unrelated role",
			candidateTitle:    "Accountant",
			targetTitle:       "Backend Engineer",
			expectedScore:     55,
			expectedRelevance: "partial",
			expectedRole:      "different",
			expectedSeniority: "exact",
		},
		{
			name:              "seniority mismatch",
			candidateTitle:    "Intern Developer",
			targetTitle:       "Director of Engineering",
			expectedScore:     52,
			expectedRelevance: "weak",
			expectedRole:      "related",
			expectedSeniority: "mismatch",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := engine.scoreTitle(tt.candidateTitle, tt.targetTitle)

			if result.Score != tt.expectedScore {
				t.Errorf("Expected score %d, got %d", tt.expectedScore, result.Score)
			}
			if result.Relevance != tt.expectedRelevance {
				t.Errorf("Expected relevance '%s', got '%s'", tt.expectedRelevance, result.Relevance)
			}
			if result.RoleMatch != tt.expectedRole {
				t.Errorf("Expected role match '%s', got '%s'", tt.expectedRole, result.RoleMatch)
			}
			if result.SeniorityMatch != tt.expectedSeniority {
				t.Errorf("Expected seniority match '%s', got '%s'", tt.expectedSeniority, result.SeniorityMatch)
			}
		})
	}
}

func TestEngineScore(t *testing.T) {
	engine := newTestEngine(t)

	profile := types.RequirementProfile{
		Skills:            []string{"Python", "AWS", "Kubernetes"},
		Title:             "Senior Backend Engineer",
		MinExperience:     5,
		PreferredLocation: "Dubai",
	}
	candidate := types.CandidateRecord{
		ID:              "cand-001",
		Name:            "Test Candidate",
		Skills:          []string{"Python", "AWS", "Docker"},
		ExperienceYears: 6,
		Location:        "Dubai, UAE",
		CurrentTitle:    "Senior Software Engineer",
	}

	breakdown, err := engine.Score(profile, candidate)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}

	// skills 71, experience 100, location 100, title 70
	// 71*0.40 + 100*0.25 + 100*0.20 + 70*0.15 = 83.9
	if breakdown.Overall != 84 {
		t.Errorf("Expected overall 84, got %d", breakdown.Overall)
	}
	if breakdown.Skills.Score != 71 {
		t.Errorf("Expected skills score 71, got %d", breakdown.Skills.Score)
	}
	if breakdown.Experience.Score != 100 {
		t.Errorf("Expected experience score 100, got %d", breakdown.Experience.Score)
	}
	if breakdown.Location.Score != 100 {
		t.Errorf("Expected location score 100, got %d", breakdown.Location.Score)
	}
	if breakdown.Title.Score != 70 {
		t.Errorf("Expected title score 70, got %d", breakdown.Title.Score)
	}
}

func TestEngineScoreDeterministic(t *testing.T) {
	engine := newTestEngine(t)

	profile := types.RequirementProfile{
		Skills:            []string{"Go", "PostgreSQL"},
		Title:             "Backend Engineer",
		MinExperience:     3,
		PreferredLocation: "Remote",
	}
	candidate := types.CandidateRecord{
		ID:              "cand-002",
		Skills:          []string{"go", "postgres", "docker"},
		ExperienceYears: 4,
		Location:        "Lisbon",
		CurrentTitle:    "Software Engineer",
	}

	first, err := engine.Score(profile, candidate)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := engine.Score(profile, candidate)
		if err != nil {
			t.Fatalf("Score failed on run %d: %v", i, err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("Run %d differs: %+v vs %+v", i, first, again)
		}
	}
}

func TestEngineScoreValidation(t *testing.T) {
	engine := newTestEngine(t)

	tests := []struct {
		name      string
		profile   types.RequirementProfile
		candidate types.CandidateRecord
	}{
		{
			name:      "negative minimum experience",
			profile:   types.RequirementProfile{MinExperience: -1},
			candidate: types.CandidateRecord{ID: "c1"},
		},
		{
			name:      "blank required skill",
			profile:   types.RequirementProfile{Skills: []string{"Python", "  "}},
			candidate: types.CandidateRecord{ID: "c1"},
		},
		{
			name:      "missing candidate id",
			profile:   types.RequirementProfile{},
			candidate: types.CandidateRecord{},
		},
		{
			name:      "negative candidate experience",
			profile:   types.RequirementProfile{},
			candidate: types.CandidateRecord{ID: "c1", ExperienceYears: -2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := engine.Score(tt.profile, tt.candidate); err == nil {
				t.Errorf("Expected error but got none")
			}
		})
	}
}

func TestClampScore(t *testing.T) {
	tests := []struct {
		input    int
		expected int
	}{
		{-10, 0},
		{0, 0},
		{55, 55},
		{100, 100},
		{140, 100},
	}

	for _, tt := range tests {
		if got := ClampScore(tt.input); got != tt.expected {
			t.Errorf("ClampScore(%d) = %d, expected %d", tt.input, got, tt.expected)
		}
	}
}

func BenchmarkEngineScore(b *testing.B) {
	engine := newTestEngine(b)

	profile := types.RequirementProfile{
		Skills:            []string{"Python", "AWS", "Kubernetes", "Terraform"},
		Title:             "Senior Platform Engineer",
		MinExperience:     5,
		PreferredLocation: "Dubai",
	}
	candidate := types.CandidateRecord{
		ID:              "bench-1",
		Skills:          []string{"python", "aws", "docker", "terraform", "ansible"},
		ExperienceYears: 7,
		Location:        "Abu Dhabi",
		CurrentTitle:    "DevOps Engineer",
	}

	for b.Loop() {
		_, _ = engine.Score(profile, candidate)
	}
}
