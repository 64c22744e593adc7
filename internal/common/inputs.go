package common

import (
	"encoding/json"
	"fmt"

	"talentrank/internal/errors"
	"talentrank/internal/types"
)

// ParseProfile decodes a requirement profile from JSON
func ParseProfile(content string) (types.RequirementProfile, error) {
	var profile types.RequirementProfile
	if err := json.Unmarshal([]byte(content), &profile); err != nil {
		return profile, errors.NewValidationError(errors.ErrCodeInvalidFormat,
			"Failed to parse requirement profile JSON", err)
	}
	if err := profile.Validate(); err != nil {
		return profile, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			"Invalid requirement profile", err)
	}
	return profile, nil
}

// ParseCandidates decodes a candidate batch from JSON. Both a bare array and
// an object with a "candidates" field are accepted.
func ParseCandidates(content string) ([]types.CandidateRecord, error) {
	var candidates []types.CandidateRecord
	if err := json.Unmarshal([]byte(content), &candidates); err == nil {
		return candidates, nil
	}

	var wrapped struct {
		Candidates []types.CandidateRecord `json:"candidates"`
	}
	if err := json.Unmarshal([]byte(content), &wrapped); err != nil {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidFormat,
			"Failed to parse candidates JSON", err)
	}
	if wrapped.Candidates == nil {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidFormat,
			"Candidates JSON must be an array or an object with a \"candidates\" field", nil)
	}
	return wrapped.Candidates, nil
}

// ParseCandidate decodes a single candidate record from JSON
func ParseCandidate(content string) (types.CandidateRecord, error) {
	var candidate types.CandidateRecord
	if err := json.Unmarshal([]byte(content), &candidate); err != nil {
		return candidate, errors.NewValidationError(errors.ErrCodeInvalidFormat,
			"Failed to parse candidate JSON", err)
	}
	if err := candidate.Validate(); err != nil {
		return candidate, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("Invalid candidate %s", candidate.ID), err)
	}
	return candidate, nil
}

// ParseFeedbackRecord decodes a feedback record from JSON. Validation of the
// recommendation and score happens in the feedback client.
func ParseFeedbackRecord(content string) (types.FeedbackRecord, error) {
	var record types.FeedbackRecord
	if err := json.Unmarshal([]byte(content), &record); err != nil {
		return record, errors.NewValidationError(errors.ErrCodeInvalidFormat,
			"Failed to parse feedback record JSON", err)
	}
	return record, nil
}
