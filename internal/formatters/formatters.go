package formatters

import (
	"encoding/json"
	"fmt"
	"strings"

	"talentrank/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	// Register default formatters
	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "MatchBreakdown", &BreakdownTextFormatter{})
	registry.RegisterFormatter("markdown", "MatchBreakdown", &BreakdownMarkdownFormatter{})
	registry.RegisterFormatter("text", "RankedResults", &RankingTextFormatter{})
	registry.RegisterFormatter("markdown", "RankedResults", &RankingMarkdownFormatter{})
	registry.RegisterFormatter("text", "FeedbackHistory", &FeedbackTextFormatter{})
	registry.RegisterFormatter("markdown", "FeedbackHistory", &FeedbackMarkdownFormatter{})
	registry.RegisterFormatter("text", "FeedbackRecord", &RecordTextFormatter{})
	registry.RegisterFormatter("markdown", "FeedbackRecord", &RecordMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	// Try specific formatter first
	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.MatchBreakdown:
		return "MatchBreakdown"
	case []types.RankedResult:
		return "RankedResults"
	case types.FeedbackHistory, *types.FeedbackHistory:
		return "FeedbackHistory"
	case types.FeedbackRecord:
		return "FeedbackRecord"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// BreakdownTextFormatter handles text formatting for a single match breakdown
type BreakdownTextFormatter struct{}

func (btf *BreakdownTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.MatchBreakdown)
	if !ok {
		return "", fmt.Errorf("expected MatchBreakdown, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== MATCH BREAKDOWN ===\n\n")
	output.WriteString(fmt.Sprintf("Overall Score: %d/100\n\n", result.Overall))

	output.WriteString("=== SKILLS ===\n")
	output.WriteString(fmt.Sprintf("Score: %d/100\n", result.Skills.Score))
	if len(result.Skills.Matched) > 0 {
		output.WriteString(fmt.Sprintf("Matched: %s\n", strings.Join(result.Skills.Matched, ", ")))
	}
	if len(result.Skills.Missing) > 0 {
		output.WriteString(fmt.Sprintf("Missing: %s\n", strings.Join(result.Skills.Missing, ", ")))
	}
	if len(result.Skills.BonusSkills) > 0 {
		output.WriteString(fmt.Sprintf("Bonus: %s\n", strings.Join(result.Skills.BonusSkills, ", ")))
	}
	output.WriteString("\n")

	output.WriteString("=== EXPERIENCE ===\n")
	output.WriteString(fmt.Sprintf("Score: %d/100\n", result.Experience.Score))
	output.WriteString(fmt.Sprintf("Candidate: %d years (required: %d)\n", result.Experience.Candidate, result.Experience.Required))
	output.WriteString(fmt.Sprintf("Fit: %s\n\n", result.Experience.Fit))

	output.WriteString("=== LOCATION ===\n")
	output.WriteString(fmt.Sprintf("Score: %d/100\n", result.Location.Score))
	output.WriteString(fmt.Sprintf("Match: %s\n\n", result.Location.MatchType))

	output.WriteString("=== TITLE ===\n")
	output.WriteString(fmt.Sprintf("Score: %d/100\n", result.Title.Score))
	output.WriteString(fmt.Sprintf("Relevance: %s\n", result.Title.Relevance))
	output.WriteString(fmt.Sprintf("Role Match: %s\n", result.Title.RoleMatch))
	output.WriteString(fmt.Sprintf("Seniority Match: %s\n", result.Title.SeniorityMatch))

	return output.String(), nil
}

func (btf *BreakdownTextFormatter) SupportedType() string {
	return "MatchBreakdown"
}

// BreakdownMarkdownFormatter handles markdown formatting for a single match breakdown
type BreakdownMarkdownFormatter struct{}

func (bmf *BreakdownMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.MatchBreakdown)
	if !ok {
		return "", fmt.Errorf("expected MatchBreakdown, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Match Breakdown\n\n")
	output.WriteString(fmt.Sprintf("**Overall Score:** %d/100\n\n", result.Overall))

	output.WriteString("## Skills\n\n")
	output.WriteString(fmt.Sprintf("**Score:** %d/100\n\n", result.Skills.Score))
	if len(result.Skills.Matched) > 0 {
		output.WriteString(fmt.Sprintf("**Matched:** %s\n\n", strings.Join(result.Skills.Matched, ", ")))
	}
	if len(result.Skills.Missing) > 0 {
		output.WriteString(fmt.Sprintf("**Missing:** %s\n\n", strings.Join(result.Skills.Missing, ", ")))
	}
	if len(result.Skills.BonusSkills) > 0 {
		output.WriteString(fmt.Sprintf("**Bonus:** %s\n\n", strings.Join(result.Skills.BonusSkills, ", ")))
	}

	output.WriteString("## Experience\n\n")
	output.WriteString(fmt.Sprintf("**Score:** %d/100\n\n", result.Experience.Score))
	output.WriteString(fmt.Sprintf("%d years against a %d year requirement (%s)\n\n",
		result.Experience.Candidate, result.Experience.Required, result.Experience.Fit))

	output.WriteString("## Location\n\n")
	output.WriteString(fmt.Sprintf("**Score:** %d/100 (%s)\n\n", result.Location.Score, result.Location.MatchType))

	output.WriteString("## Title\n\n")
	output.WriteString(fmt.Sprintf("**Score:** %d/100\n\n", result.Title.Score))
	output.WriteString(fmt.Sprintf("**Relevance:** %s\n\n", result.Title.Relevance))
	output.WriteString(fmt.Sprintf("**Role Match:** %s\n\n", result.Title.RoleMatch))
	output.WriteString(fmt.Sprintf("**Seniority Match:** %s\n", result.Title.SeniorityMatch))

	return output.String(), nil
}

func (bmf *BreakdownMarkdownFormatter) SupportedType() string {
	return "MatchBreakdown"
}

// RankingTextFormatter handles text formatting for ranked candidate lists
type RankingTextFormatter struct{}

func (rtf *RankingTextFormatter) Format(data any) (string, error) {
	results, ok := data.([]types.RankedResult)
	if !ok {
		return "", fmt.Errorf("expected []RankedResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== CANDIDATE RANKING ===\n\n")
	if len(results) == 0 {
		output.WriteString("No candidates ranked.\n")
		return output.String(), nil
	}

	for i, result := range results {
		name := result.Candidate.Name
		if name == "" {
			name = result.Candidate.ID
		}
		output.WriteString(fmt.Sprintf("%d. %s - %d/100", i+1, name, result.AdjustedScore))
		if result.AdjustedScore != result.Breakdown.Overall {
			output.WriteString(fmt.Sprintf(" (base %d)", result.Breakdown.Overall))
		}
		if result.RedFlag {
			output.WriteString(" [RED FLAG]")
		}
		if result.FeedbackUnavailable {
			output.WriteString(" [feedback unavailable]")
		}
		output.WriteString("\n")

		output.WriteString(fmt.Sprintf("   Skills: %d  Experience: %d  Location: %d  Title: %d\n",
			result.Breakdown.Skills.Score,
			result.Breakdown.Experience.Score,
			result.Breakdown.Location.Score,
			result.Breakdown.Title.Score))
		if len(result.Breakdown.Skills.Missing) > 0 {
			output.WriteString(fmt.Sprintf("   Missing skills: %s\n", strings.Join(result.Breakdown.Skills.Missing, ", ")))
		}
		if result.Feedback != nil {
			output.WriteString(fmt.Sprintf("   Interviews: %d, latest recommendation: %s\n",
				result.Feedback.TotalInterviews, result.Feedback.Latest.Recommendation))
		}
		output.WriteString("\n")
	}

	return output.String(), nil
}

func (rtf *RankingTextFormatter) SupportedType() string {
	return "RankedResults"
}

// RankingMarkdownFormatter handles markdown formatting for ranked candidate lists
type RankingMarkdownFormatter struct{}

func (rmf *RankingMarkdownFormatter) Format(data any) (string, error) {
	results, ok := data.([]types.RankedResult)
	if !ok {
		return "", fmt.Errorf("expected []RankedResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Candidate Ranking\n\n")
	if len(results) == 0 {
		output.WriteString("No candidates ranked.\n")
		return output.String(), nil
	}

	output.WriteString("| # | Candidate | Score | Skills | Experience | Location | Title | Notes |\n")
	output.WriteString("|---|-----------|-------|--------|------------|----------|-------|-------|\n")
	for i, result := range results {
		name := result.Candidate.Name
		if name == "" {
			name = result.Candidate.ID
		}

		var notes []string
		if result.AdjustedScore != result.Breakdown.Overall {
			notes = append(notes, fmt.Sprintf("base %d", result.Breakdown.Overall))
		}
		if result.RedFlag {
			notes = append(notes, "red flag")
		}
		if result.FeedbackUnavailable {
			notes = append(notes, "feedback unavailable")
		}

		output.WriteString(fmt.Sprintf("| %d | %s | %d | %d | %d | %d | %d | %s |\n",
			i+1, name, result.AdjustedScore,
			result.Breakdown.Skills.Score,
			result.Breakdown.Experience.Score,
			result.Breakdown.Location.Score,
			result.Breakdown.Title.Score,
			strings.Join(notes, ", ")))
	}

	return output.String(), nil
}

func (rmf *RankingMarkdownFormatter) SupportedType() string {
	return "RankedResults"
}

// FeedbackTextFormatter handles text formatting for interview history
type FeedbackTextFormatter struct{}

func (ftf *FeedbackTextFormatter) Format(data any) (string, error) {
	history, err := asHistory(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder

	output.WriteString("=== INTERVIEW HISTORY ===\n\n")
	if history == nil {
		output.WriteString("No interview history on record.\n")
		return output.String(), nil
	}

	output.WriteString(fmt.Sprintf("Candidate: %s\n", history.CandidateName))
	if history.CandidateEmail != "" {
		output.WriteString(fmt.Sprintf("Email: %s\n", history.CandidateEmail))
	}
	output.WriteString(fmt.Sprintf("Total Interviews: %d\n", history.TotalInterviews))
	output.WriteString(fmt.Sprintf("Score Adjustment: %+d\n", history.ScoreAdjustment))
	if history.HasRedFlag {
		output.WriteString("RED FLAG: latest interview recommended no hire\n")
	}
	output.WriteString("\n")

	for i, record := range history.AllInterviews {
		output.WriteString(fmt.Sprintf("%d. %s - %s (%d/100)\n",
			i+1, record.InterviewDate.Format("2006-01-02"), record.Recommendation, record.Score))
		if record.Interviewer != "" {
			output.WriteString(fmt.Sprintf("   Interviewer: %s\n", record.Interviewer))
		}
		if record.Role != "" {
			output.WriteString(fmt.Sprintf("   Role: %s\n", record.Role))
		}
		if record.Strengths != "" {
			output.WriteString(fmt.Sprintf("   Strengths: %s\n", record.Strengths))
		}
		if record.Concerns != "" {
			output.WriteString(fmt.Sprintf("   Concerns: %s\n", record.Concerns))
		}
		output.WriteString("\n")
	}

	return output.String(), nil
}

func (ftf *FeedbackTextFormatter) SupportedType() string {
	return "FeedbackHistory"
}

// FeedbackMarkdownFormatter handles markdown formatting for interview history
type FeedbackMarkdownFormatter struct{}

func (fmf *FeedbackMarkdownFormatter) Format(data any) (string, error) {
	history, err := asHistory(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder

	output.WriteString("# Interview History\n\n")
	if history == nil {
		output.WriteString("No interview history on record.\n")
		return output.String(), nil
	}

	output.WriteString(fmt.Sprintf("**Candidate:** %s\n\n", history.CandidateName))
	if history.CandidateEmail != "" {
		output.WriteString(fmt.Sprintf("**Email:** %s\n\n", history.CandidateEmail))
	}
	output.WriteString(fmt.Sprintf("**Total Interviews:** %d\n\n", history.TotalInterviews))
	output.WriteString(fmt.Sprintf("**Score Adjustment:** %+d\n\n", history.ScoreAdjustment))
	if history.HasRedFlag {
		output.WriteString("**RED FLAG:** latest interview recommended no hire\n\n")
	}

	for i, record := range history.AllInterviews {
		output.WriteString(fmt.Sprintf("## %d. %s\n\n", i+1, record.InterviewDate.Format("2006-01-02")))
		output.WriteString(fmt.Sprintf("**Recommendation:** %s (%d/100)\n\n", record.Recommendation, record.Score))
		if record.Interviewer != "" {
			output.WriteString(fmt.Sprintf("**Interviewer:** %s\n\n", record.Interviewer))
		}
		if record.Role != "" {
			output.WriteString(fmt.Sprintf("**Role:** %s\n\n", record.Role))
		}
		if record.Strengths != "" {
			output.WriteString(fmt.Sprintf("**Strengths:** %s\n\n", record.Strengths))
		}
		if record.Concerns != "" {
			output.WriteString(fmt.Sprintf("**Concerns:** %s\n\n", record.Concerns))
		}
	}

	return output.String(), nil
}

func (fmf *FeedbackMarkdownFormatter) SupportedType() string {
	return "FeedbackHistory"
}

// RecordTextFormatter handles text formatting for a single stored record
type RecordTextFormatter struct{}

func (rtf *RecordTextFormatter) Format(data any) (string, error) {
	record, ok := data.(types.FeedbackRecord)
	if !ok {
		return "", fmt.Errorf("expected FeedbackRecord, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== FEEDBACK RECORDED ===\n\n")
	output.WriteString(fmt.Sprintf("ID: %s\n", record.ID))
	output.WriteString(fmt.Sprintf("Candidate: %s\n", record.CandidateName))
	if record.CandidateEmail != "" {
		output.WriteString(fmt.Sprintf("Email: %s\n", record.CandidateEmail))
	}
	output.WriteString(fmt.Sprintf("Date: %s\n", record.InterviewDate.Format("2006-01-02")))
	output.WriteString(fmt.Sprintf("Recommendation: %s (%d/100)\n", record.Recommendation, record.Score))
	if record.Interviewer != "" {
		output.WriteString(fmt.Sprintf("Interviewer: %s\n", record.Interviewer))
	}
	if record.Role != "" {
		output.WriteString(fmt.Sprintf("Role: %s\n", record.Role))
	}

	return output.String(), nil
}

func (rtf *RecordTextFormatter) SupportedType() string {
	return "FeedbackRecord"
}

// RecordMarkdownFormatter handles markdown formatting for a single stored record
type RecordMarkdownFormatter struct{}

func (rmf *RecordMarkdownFormatter) Format(data any) (string, error) {
	record, ok := data.(types.FeedbackRecord)
	if !ok {
		return "", fmt.Errorf("expected FeedbackRecord, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Feedback Recorded\n\n")
	output.WriteString(fmt.Sprintf("**ID:** %s\n\n", record.ID))
	output.WriteString(fmt.Sprintf("**Candidate:** %s\n\n", record.CandidateName))
	if record.CandidateEmail != "" {
		output.WriteString(fmt.Sprintf("**Email:** %s\n\n", record.CandidateEmail))
	}
	output.WriteString(fmt.Sprintf("**Date:** %s\n\n", record.InterviewDate.Format("2006-01-02")))
	output.WriteString(fmt.Sprintf("**Recommendation:** %s (%d/100)\n\n", record.Recommendation, record.Score))
	if record.Interviewer != "" {
		output.WriteString(fmt.Sprintf("**Interviewer:** %s\n\n", record.Interviewer))
	}
	if record.Role != "" {
		output.WriteString(fmt.Sprintf("**Role:** %s\n\n", record.Role))
	}

	return output.String(), nil
}

func (rmf *RecordMarkdownFormatter) SupportedType() string {
	return "FeedbackRecord"
}

func asHistory(data any) (*types.FeedbackHistory, error) {
	switch v := data.(type) {
	case *types.FeedbackHistory:
		return v, nil
	case types.FeedbackHistory:
		return &v, nil
	default:
		return nil, fmt.Errorf("expected FeedbackHistory, got %T", data)
	}
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
