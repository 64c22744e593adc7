package types

import (
	"fmt"
	"strings"
	"time"
)

// RequirementProfile describes the target role a batch of candidates is
// ranked against. Skill order encodes importance: earlier entries weigh more.
type RequirementProfile struct {
	Skills            []string `json:"skills"`
	Title             string   `json:"title,omitempty"`
	MinExperience     int      `json:"minExperience,omitempty"`
	PreferredLocation string   `json:"preferredLocation,omitempty"`
}

// Validate rejects malformed profiles before scoring begins.
func (p *RequirementProfile) Validate() error {
	if p == nil {
		return fmt.Errorf("requirement profile is required")
	}
	if p.MinExperience < 0 {
		return fmt.Errorf("minimum experience years cannot be negative: %d", p.MinExperience)
	}
	for i, s := range p.Skills {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("required skill at position %d is empty", i)
		}
	}
	return nil
}

// CandidateRecord is one candidate as supplied by the external search
// collaborator. Read-only to this module.
type CandidateRecord struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Skills          []string `json:"skills"`
	ExperienceYears int      `json:"experienceYears"`
	Location        string   `json:"location"`
	CurrentTitle    string   `json:"currentTitle"`
}

// Validate rejects malformed candidate records before scoring begins.
func (c *CandidateRecord) Validate() error {
	if c == nil {
		return fmt.Errorf("candidate record is required")
	}
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("candidate id is required")
	}
	if c.ExperienceYears < 0 {
		return fmt.Errorf("candidate %s: experience years cannot be negative: %d", c.ID, c.ExperienceYears)
	}
	return nil
}

// SkillScore is the skills component of a match breakdown.
type SkillScore struct {
	Score       int      `json:"score"`
	Matched     []string `json:"matched"`
	Missing     []string `json:"missing"`
	BonusSkills []string `json:"bonusSkills"`
}

// ExperienceScore is the years-of-experience component of a match breakdown.
type ExperienceScore struct {
	Score     int    `json:"score"`
	Candidate int    `json:"candidate"`
	Required  int    `json:"required"`
	Fit       string `json:"fit"` // any, ideal, experienced, over_qualified, slightly_under, stretch, under_qualified
}

// LocationScore is the geographic component of a match breakdown.
type LocationScore struct {
	Score     int    `json:"score"`
	MatchType string `json:"matchType"` // any, exact, remote_ok, same_country, regional, relocation_needed
}

// TitleScore is the role/seniority component of a match breakdown.
type TitleScore struct {
	Score          int    `json:"score"`
	Relevance      string `json:"relevance"` // any, excellent, good, partial, weak
	RoleMatch      string `json:"roleMatch,omitempty"`
	SeniorityMatch string `json:"seniorityMatch,omitempty"`
}

// MatchBreakdown is the structured result of scoring one candidate against
// a requirement profile. Overall is always the rounded weighted sum of the
// four sub-scores, clamped to [0,100].
type MatchBreakdown struct {
	Overall    int             `json:"overall"`
	Skills     SkillScore      `json:"skills"`
	Experience ExperienceScore `json:"experience"`
	Location   LocationScore   `json:"location"`
	Title      TitleScore      `json:"title"`
}

// Recommendation values a feedback record can carry.
const (
	RecommendationStrongHire = "strong_hire"
	RecommendationHire       = "hire"
	RecommendationMaybe      = "maybe"
	RecommendationNoHire     = "no_hire"
)

// ValidRecommendation reports whether s is one of the four known
// recommendation values.
func ValidRecommendation(s string) bool {
	switch s {
	case RecommendationStrongHire, RecommendationHire, RecommendationMaybe, RecommendationNoHire:
		return true
	}
	return false
}

// Recommendations lists the known recommendation values, strongest first.
func Recommendations() []string {
	return []string{RecommendationStrongHire, RecommendationHire, RecommendationMaybe, RecommendationNoHire}
}

// FeedbackRecord is one concluded interview. Immutable once written.
type FeedbackRecord struct {
	ID             string    `json:"id"`
	CandidateID    string    `json:"candidateId"`
	CandidateEmail string    `json:"candidateEmail"`
	CandidateName  string    `json:"candidateName"`
	InterviewDate  time.Time `json:"interviewDate"`
	Interviewer    string    `json:"interviewer"`
	Role           string    `json:"role"`
	Strengths      string    `json:"strengths"`
	Concerns       string    `json:"concerns"`
	Recommendation string    `json:"recommendation"`
	Score          int       `json:"score"`
	Notes          string    `json:"notes,omitempty"`
}

// FeedbackHistory is the full interview history for one candidate, newest
// first. Only the latest record drives the red flag and the adjustment.
type FeedbackHistory struct {
	CandidateID     string           `json:"candidateId,omitempty"`
	CandidateEmail  string           `json:"candidateEmail,omitempty"`
	CandidateName   string           `json:"candidateName"`
	TotalInterviews int              `json:"totalInterviews"`
	Latest          FeedbackRecord   `json:"latestInterview"`
	AllInterviews   []FeedbackRecord `json:"allInterviews"`
	HasRedFlag      bool             `json:"hasRedFlag"`
	ScoreAdjustment int              `json:"scoreAdjustment"`
}

// RankedResult is one candidate's position in a ranking response.
type RankedResult struct {
	Candidate           CandidateRecord  `json:"candidate"`
	Breakdown           MatchBreakdown   `json:"breakdown"`
	AdjustedScore       int              `json:"adjustedScore"`
	Feedback            *FeedbackHistory `json:"feedback,omitempty"`
	RedFlag             bool             `json:"redFlag"`
	FeedbackUnavailable bool             `json:"feedbackUnavailable"`
}
