package match

import (
	"math"
	"strings"

	"talentrank/internal/types"
)

// Role and seniority weights inside the title score.
const (
	titleRoleWeight      = 0.6
	titleSeniorityWeight = 0.4
)

// scoreTitle combines role-term overlap with seniority distance. Seniority
// words are stopwords for the role comparison so "Senior Backend Engineer"
// and "Backend Engineer" compare on role alone.
func (e *Engine) scoreTitle(candidateTitle, targetTitle string) types.TitleScore {
	if strings.TrimSpace(targetTitle) == "" {
		return types.TitleScore{Score: 100, Relevance: "any", SeniorityMatch: "exact"}
	}

	candLower := strings.ToLower(candidateTitle)
	targetLower := strings.ToLower(targetTitle)

	candSeniority := e.extractSeniority(candLower)
	targetSeniority := e.extractSeniority(targetLower)

	seniorityDiff := candSeniority - targetSeniority
	if seniorityDiff < 0 {
		seniorityDiff = -seniorityDiff
	}

	var seniorityScore int
	var seniorityMatch string
	switch seniorityDiff {
	case 0:
		seniorityScore, seniorityMatch = 100, "exact"
	case 1:
		seniorityScore, seniorityMatch = 85, "close"
	case 2:
		seniorityScore, seniorityMatch = 65, "stretch"
	default:
		seniorityScore, seniorityMatch = 40, "mismatch"
	}

	targetTerms := e.roleTerms(targetLower)
	candTerms := e.roleTerms(candLower)

	if len(targetTerms) == 0 {
		return types.TitleScore{Score: seniorityScore, Relevance: "any", SeniorityMatch: seniorityMatch}
	}

	overlap := 0
	for term := range targetTerms {
		if candTerms[term] {
			overlap++
		}
	}
	total := len(targetTerms)

	var roleScore float64
	var roleMatch string
	switch {
	case overlap == total:
		roleScore, roleMatch = 100, "exact"
	case overlap > 0:
		roleScore, roleMatch = float64(overlap)/float64(total)*100, "partial"
	case e.titlesRelated(candLower, targetLower):
		roleScore, roleMatch = 60, "related"
	default:
		roleScore, roleMatch = 25, "different"
	}

	finalScore := roleScore*titleRoleWeight + float64(seniorityScore)*titleSeniorityWeight

	var relevance string
	switch {
	case finalScore >= 90:
		relevance = "excellent"
	case finalScore >= 75:
		relevance = "good"
	case finalScore >= 55:
		relevance = "partial"
	default:
		relevance = "weak"
	}

	return types.TitleScore{
		Score:          int(math.Round(finalScore)),
		Relevance:      relevance,
		RoleMatch:      roleMatch,
		SeniorityMatch: seniorityMatch,
	}
}

// extractSeniority returns the level of the first seniority keyword found
// in the lowercased title, or the default when none appears.
func (e *Engine) extractSeniority(title string) int {
	for _, sk := range e.tables.SeniorityKeywords {
		if strings.Contains(title, sk.Keyword) {
			return sk.Level
		}
	}
	return e.tables.DefaultSeniority
}

// roleTerms tokenizes a lowercased title and drops stopwords.
func (e *Engine) roleTerms(title string) map[string]bool {
	terms := make(map[string]bool)
	for _, tok := range strings.Fields(strings.ReplaceAll(title, "-", " ")) {
		if !containsString(e.tables.TitleStopwords, tok) {
			terms[tok] = true
		}
	}
	return terms
}

// titlesRelated reports whether both titles hit the same related-role group.
func (e *Engine) titlesRelated(title1, title2 string) bool {
	for _, group := range e.tables.RelatedTitleGroups {
		in1, in2 := false, false
		for _, term := range group {
			if strings.Contains(title1, term) {
				in1 = true
			}
			if strings.Contains(title2, term) {
				in2 = true
			}
		}
		if in1 && in2 {
			return true
		}
	}
	return false
}
