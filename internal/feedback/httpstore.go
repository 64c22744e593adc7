package feedback

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"talentrank/internal/config"
	"talentrank/internal/errors"
	"talentrank/internal/types"
)

// HTTPStore talks to the feedback search index over its REST API. Documents
// live in a filterable index keyed by id, with candidate_email and
// candidate_id as the lookup fields.
type HTTPStore struct {
	endpoint   string
	indexName  string
	apiKey     string
	apiVersion string
	httpClient *http.Client
	logger     *errors.Logger
}

// Ensure HTTPStore implements Store
var _ Store = (*HTTPStore)(nil)

// NewHTTPStore creates a store client. Missing endpoint or API key is a
// configuration error and fails construction.
func NewHTTPStore(cfg config.FeedbackConfig, logger *errors.Logger) (*HTTPStore, error) {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, errors.NewConfigError(errors.ErrCodeMissingEndpoint,
			"feedback store endpoint is required (set TALENTRANK_FEEDBACK_ENDPOINT)", nil)
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.NewConfigError(errors.ErrCodeMissingAPIKey,
			"feedback store API key is required (set TALENTRANK_FEEDBACK_APIKEY)", nil)
	}
	if strings.TrimSpace(cfg.IndexName) == "" {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			"feedback index name is required", nil)
	}

	return &HTTPStore{
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
		indexName:  cfg.IndexName,
		apiKey:     cfg.APIKey,
		apiVersion: cfg.APIVersion,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}, nil
}

// feedbackDocument is the wire form of one feedback record.
type feedbackDocument struct {
	SearchAction   string `json:"@search.action,omitempty"`
	ID             string `json:"id"`
	CandidateID    string `json:"candidate_id"`
	CandidateEmail string `json:"candidate_email"`
	CandidateName  string `json:"candidate_name"`
	InterviewDate  string `json:"interview_date"`
	Interviewer    string `json:"interviewer"`
	Role           string `json:"role"`
	Strengths      string `json:"strengths"`
	Concerns       string `json:"concerns"`
	Recommendation string `json:"recommendation"`
	Score          int    `json:"score"`
	Notes          string `json:"notes"`
}

// searchRequest is the query body for the docs/search endpoint.
type searchRequest struct {
	Search  string `json:"search"`
	Filter  string `json:"filter"`
	OrderBy string `json:"orderby"`
	Select  string `json:"select"`
}

// searchResponse is the docs/search response envelope.
type searchResponse struct {
	Value []feedbackDocument `json:"value"`
}

// uploadRequest is the body for the docs/index endpoint.
type uploadRequest struct {
	Value []feedbackDocument `json:"value"`
}

const selectFields = "id,candidate_id,candidate_email,candidate_name,interview_date,interviewer,role,strengths,concerns,recommendation,score,notes"

// QueryByEmail returns all feedback records for an email, newest first.
func (s *HTTPStore) QueryByEmail(ctx context.Context, email string) ([]types.FeedbackRecord, error) {
	filter := fmt.Sprintf("candidate_email eq '%s'", escapeFilterValue(email))
	return s.search(ctx, filter)
}

// QueryByID returns all feedback records for a candidate ID, newest first.
func (s *HTTPStore) QueryByID(ctx context.Context, id string) ([]types.FeedbackRecord, error) {
	filter := fmt.Sprintf("candidate_id eq '%s'", escapeFilterValue(id))
	return s.search(ctx, filter)
}

// Upload writes one feedback record into the index.
func (s *HTTPStore) Upload(ctx context.Context, record types.FeedbackRecord) error {
	doc := toDocument(record)
	doc.SearchAction = "upload"

	body := uploadRequest{Value: []feedbackDocument{doc}}
	endpoint := fmt.Sprintf("%s/indexes/%s/docs/index?api-version=%s",
		s.endpoint, url.PathEscape(s.indexName), url.QueryEscape(s.apiVersion))

	var resp json.RawMessage
	if err := s.post(ctx, endpoint, body, &resp); err != nil {
		return err
	}

	if s.logger != nil {
		s.logger.Debug("Feedback record uploaded",
			"record_id", record.ID,
			"candidate_id", record.CandidateID)
	}
	return nil
}

// search runs one filtered query against the index.
func (s *HTTPStore) search(ctx context.Context, filter string) ([]types.FeedbackRecord, error) {
	body := searchRequest{
		Search:  "*",
		Filter:  filter,
		OrderBy: "interview_date desc",
		Select:  selectFields,
	}
	endpoint := fmt.Sprintf("%s/indexes/%s/docs/search?api-version=%s",
		s.endpoint, url.PathEscape(s.indexName), url.QueryEscape(s.apiVersion))

	var resp searchResponse
	if err := s.post(ctx, endpoint, body, &resp); err != nil {
		return nil, err
	}

	records := make([]types.FeedbackRecord, 0, len(resp.Value))
	for _, doc := range resp.Value {
		records = append(records, fromDocument(doc))
	}
	return records, nil
}

// post sends a JSON request and decodes the JSON response into out.
func (s *HTTPStore) post(ctx context.Context, endpoint string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return errors.NewInternalError(errors.ErrCodeInvalidFormat, "failed to encode store request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return errors.NewInternalError(errors.ErrCodeInvalidRequest, "failed to build store request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return errors.NewQueryError(errors.ErrCodeStoreUnavailable, "feedback store request failed", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil && s.logger != nil {
			s.logger.Warn("Failed to close store response body", "error", closeErr)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Bounded read keeps error payloads out of memory trouble
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return errors.NewQueryError(errors.ErrCodeStoreUnavailable,
			fmt.Sprintf("feedback store returned status %d", resp.StatusCode),
			&statusError{StatusCode: resp.StatusCode, Body: string(detail)})
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.NewQueryError(errors.ErrCodeInvalidFormat, "failed to decode store response", err)
	}
	return nil
}

// statusError carries the HTTP status for retry classification.
type statusError struct {
	StatusCode int
	Body       string
}

func (e *statusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("status %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("status %d", e.StatusCode)
}

// escapeFilterValue escapes single quotes for use inside a filter literal.
func escapeFilterValue(value string) string {
	return strings.ReplaceAll(value, "'", "''")
}

func toDocument(record types.FeedbackRecord) feedbackDocument {
	return feedbackDocument{
		ID:             record.ID,
		CandidateID:    record.CandidateID,
		CandidateEmail: record.CandidateEmail,
		CandidateName:  record.CandidateName,
		InterviewDate:  record.InterviewDate.UTC().Format(time.RFC3339),
		Interviewer:    record.Interviewer,
		Role:           record.Role,
		Strengths:      record.Strengths,
		Concerns:       record.Concerns,
		Recommendation: record.Recommendation,
		Score:          record.Score,
		Notes:          record.Notes,
	}
}

func fromDocument(doc feedbackDocument) types.FeedbackRecord {
	// Tolerate malformed dates rather than dropping the record; the zero
	// time sorts last which matches "unknown when".
	interviewDate, err := time.Parse(time.RFC3339, doc.InterviewDate)
	if err != nil {
		interviewDate = time.Time{}
	}

	return types.FeedbackRecord{
		ID:             doc.ID,
		CandidateID:    doc.CandidateID,
		CandidateEmail: doc.CandidateEmail,
		CandidateName:  doc.CandidateName,
		InterviewDate:  interviewDate,
		Interviewer:    doc.Interviewer,
		Role:           doc.Role,
		Strengths:      doc.Strengths,
		Concerns:       doc.Concerns,
		Recommendation: doc.Recommendation,
		Score:          doc.Score,
		Notes:          doc.Notes,
	}
}
