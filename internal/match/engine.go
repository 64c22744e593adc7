package match

import (
	"math"

	"talentrank/internal/errors"
	"talentrank/internal/types"
)

// Component weights for the overall match score.
const (
	weightSkills     = 0.40
	weightExperience = 0.25
	weightLocation   = 0.20
	weightTitle      = 0.15
)

// Engine scores candidates against requirement profiles. It is pure and
// safe for concurrent use once constructed.
type Engine struct {
	tables *Tables
}

// NewEngine builds an engine over the given tables, falling back to the
// built-in defaults when tables is nil.
func NewEngine(tables *Tables) (*Engine, error) {
	if tables == nil {
		tables = DefaultTables()
	}
	tables.Normalize()
	if err := tables.Validate(); err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, "invalid match tables", err)
	}
	return &Engine{tables: tables}, nil
}

// Score computes the weighted match breakdown for one candidate. Identical
// inputs always produce identical output.
func (e *Engine) Score(profile types.RequirementProfile, candidate types.CandidateRecord) (types.MatchBreakdown, error) {
	if err := profile.Validate(); err != nil {
		return types.MatchBreakdown{}, errors.NewValidationError(errors.ErrCodeInvalidRequest, "invalid requirement profile", err)
	}
	if err := candidate.Validate(); err != nil {
		return types.MatchBreakdown{}, errors.NewValidationError(errors.ErrCodeInvalidRequest, "invalid candidate record", err)
	}

	skills := e.scoreSkills(candidate.Skills, profile.Skills)
	experience := e.scoreExperience(candidate.ExperienceYears, profile.MinExperience)
	location := e.scoreLocation(candidate.Location, profile.PreferredLocation)
	title := e.scoreTitle(candidate.CurrentTitle, profile.Title)

	overall := float64(skills.Score)*weightSkills +
		float64(experience.Score)*weightExperience +
		float64(location.Score)*weightLocation +
		float64(title.Score)*weightTitle

	return types.MatchBreakdown{
		Overall:    ClampScore(int(math.Round(overall))),
		Skills:     skills,
		Experience: experience,
		Location:   location,
		Title:      title,
	}, nil
}

// ClampScore bounds a score to [0,100].
func ClampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
