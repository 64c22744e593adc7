package match

import (
	"math"
	"strings"

	"talentrank/internal/types"
)

// maxSkillBonus caps the points extra in-domain skills can add.
const maxSkillBonus = 10

// scoreSkills weighs required skills by position (earlier entries matter
// more), matches them against the candidate by substring or synonym, and
// grants a small bonus for unmatched candidate skills in a required domain.
func (e *Engine) scoreSkills(candidateSkills, requiredSkills []string) types.SkillScore {
	if len(requiredSkills) == 0 {
		return types.SkillScore{Score: 100, Matched: []string{}, Missing: []string{}, BonusSkills: []string{}}
	}

	candidateLower := make([]string, 0, len(candidateSkills))
	for _, s := range candidateSkills {
		candidateLower = append(candidateLower, lower(s))
	}

	matched := []string{}
	missing := []string{}
	matchedLower := make(map[string]bool)

	weightedScore := 0.0
	totalWeight := 0.0
	for idx, skill := range requiredSkills {
		skillLower := lower(skill)
		// First skill carries 1.5x weight, decreasing to 1.0x.
		weight := math.Max(1.0, 1.5-float64(idx)*0.1)
		totalWeight += weight

		found := false
		for _, cs := range candidateLower {
			if strings.Contains(cs, skillLower) || strings.Contains(skillLower, cs) || e.tables.synonyms(skillLower, cs) {
				found = true
				break
			}
		}
		if found {
			matched = append(matched, skill)
			matchedLower[skillLower] = true
			weightedScore += weight
		} else {
			missing = append(missing, skill)
		}
	}

	baseScore := weightedScore / totalWeight * 100

	// Unmatched candidate skills that sit in a domain the role requires.
	bonusSkills := []string{}
	relevantDomains := e.tables.domainsOf(requiredSkills)
	for _, cs := range candidateLower {
		if matchedLower[cs] {
			continue
		}
		for _, domain := range relevantDomains {
			if e.tables.skillInDomain(cs, domain) {
				bonusSkills = append(bonusSkills, cs)
				break
			}
		}
	}
	bonus := len(bonusSkills) * 2
	if bonus > maxSkillBonus {
		bonus = maxSkillBonus
	}

	finalScore := math.Min(100, baseScore+float64(bonus))

	shown := bonusSkills
	if len(shown) > 3 {
		shown = shown[:3]
	}

	return types.SkillScore{
		Score:       int(math.Round(finalScore)),
		Matched:     matched,
		Missing:     missing,
		BonusSkills: shown,
	}
}
