package match

import "talentrank/internal/types"

// scoreExperience compares candidate years against the requirement. The
// sweet spot is required to required+3 years; over-qualification and gaps
// both lose points, gaps faster.
func (e *Engine) scoreExperience(candidateYears, requiredYears int) types.ExperienceScore {
	if requiredYears <= 0 {
		return types.ExperienceScore{Score: 100, Candidate: candidateYears, Required: requiredYears, Fit: "any"}
	}

	diff := candidateYears - requiredYears

	var score int
	var fit string
	switch {
	case diff >= 0 && diff <= 3:
		score, fit = 100, "ideal"
	case diff > 3 && diff <= 5:
		score, fit = 90, "experienced"
	case diff > 5:
		score, fit = 75, "over_qualified"
	case diff >= -1:
		score, fit = 85, "slightly_under"
	case diff >= -2:
		score, fit = 70, "stretch"
	default:
		score, fit = 50+diff*5, "under_qualified"
		if score < 40 {
			score = 40
		}
	}

	return types.ExperienceScore{Score: score, Candidate: candidateYears, Required: requiredYears, Fit: fit}
}
