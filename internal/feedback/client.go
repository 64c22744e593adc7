package feedback

import (
	"context"
	"crypto/rand"
	stderrors "errors"
	"fmt"
	"math"
	"math/big"
	"net"
	"net/http"
	"strings"
	"time"

	"talentrank/internal/config"
	"talentrank/internal/errors"
	"talentrank/internal/types"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

// Client is the resilient front door to the feedback store. Lookups go
// through a TTL cache, a rate limiter, a circuit breaker and retry with
// exponential backoff, in that order. Uploads skip the cache and breaker.
type Client struct {
	store      Store
	cache      *historyCache
	breaker    *StoreCircuitBreaker
	limiter    *rate.Limiter
	maxRetries int
	logger     *errors.Logger
}

// NewClient creates a feedback client backed by the HTTP store.
func NewClient(cfg config.FeedbackConfig, logger *errors.Logger) (*Client, error) {
	store, err := NewHTTPStore(cfg, logger)
	if err != nil {
		return nil, err
	}
	return NewClientWithStore(store, cfg, logger), nil
}

// NewClientWithStore creates a client over an existing store implementation.
func NewClientWithStore(store Store, cfg config.FeedbackConfig, logger *errors.Logger) *Client {
	var limiter *rate.Limiter
	if cfg.RateLimit.Enabled {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit.RequestsPerSec), cfg.RateLimit.BurstCapacity)
	}

	return &Client{
		store:      store,
		cache:      newHistoryCache(cfg.CacheTTL),
		breaker:    NewStoreCircuitBreaker("queries", &cfg.CircuitBreaker, logger),
		limiter:    limiter,
		maxRetries: cfg.MaxRetries,
		logger:     logger,
	}
}

// HistoryByEmail returns the aggregated interview history for an email, or
// nil when the candidate has never interviewed. Store failures come back as
// query errors so callers can degrade instead of treating them as "no
// history".
func (c *Client) HistoryByEmail(ctx context.Context, email string) (*types.FeedbackHistory, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest, "email must not be empty", nil)
	}

	return c.lookup(ctx, "email:"+email, func(ctx context.Context) ([]types.FeedbackRecord, error) {
		return c.store.QueryByEmail(ctx, email)
	}, email, "")
}

// HistoryByID returns the aggregated interview history for a candidate ID.
// When the ID lookup finds nothing and the ID looks like an email, the
// lookup is retried by email, which covers callers that only know one
// identifier.
func (c *Client) HistoryByID(ctx context.Context, id string) (*types.FeedbackHistory, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest, "candidate ID must not be empty", nil)
	}

	history, err := c.lookup(ctx, "id:"+id, func(ctx context.Context) ([]types.FeedbackRecord, error) {
		return c.store.QueryByID(ctx, id)
	}, "", id)
	if err != nil {
		return nil, err
	}
	if history == nil && strings.Contains(id, "@") {
		return c.HistoryByEmail(ctx, id)
	}
	return history, nil
}

// BatchHistories looks up several candidates by email. Individual failures
// don't abort the batch; they come back in the errors map keyed by email.
func (c *Client) BatchHistories(ctx context.Context, emails []string) (map[string]*types.FeedbackHistory, map[string]error) {
	histories := make(map[string]*types.FeedbackHistory, len(emails))
	errs := make(map[string]error)

	for _, email := range emails {
		history, err := c.HistoryByEmail(ctx, email)
		if err != nil {
			errs[email] = err
			if c.logger != nil {
				c.logger.Warn("Feedback lookup failed in batch", "email", email, "error", err.Error())
			}
			continue
		}
		histories[email] = history
	}

	return histories, errs
}

// Record validates and stores a new feedback record. A missing ID gets a
// generated UUID and a zero interview date defaults to now. The stored
// record is returned and both cache entries for the candidate are dropped.
func (c *Client) Record(ctx context.Context, record types.FeedbackRecord) (types.FeedbackRecord, error) {
	if !types.ValidRecommendation(record.Recommendation) {
		return types.FeedbackRecord{}, errors.NewValidationError(errors.ErrCodeInvalidRecommendation,
			fmt.Sprintf("invalid recommendation %q, must be one of: %s",
				record.Recommendation, strings.Join(types.Recommendations(), ", ")), nil)
	}
	if record.Score < 0 || record.Score > 100 {
		return types.FeedbackRecord{}, errors.NewValidationError(errors.ErrCodeInvalidScore,
			fmt.Sprintf("score %d is out of range, must be between 0 and 100", record.Score), nil)
	}
	if strings.TrimSpace(record.CandidateEmail) == "" && strings.TrimSpace(record.CandidateID) == "" {
		return types.FeedbackRecord{}, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			"record needs a candidate email or candidate ID", nil)
	}

	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.InterviewDate.IsZero() {
		record.InterviewDate = time.Now().UTC()
	}

	start := time.Now()
	err := c.uploadWithRetry(ctx, record)
	storeRequestDuration.WithLabelValues("upload").Observe(time.Since(start).Seconds())
	if err != nil {
		uploadsTotal.WithLabelValues("error").Inc()
		return types.FeedbackRecord{}, err
	}
	uploadsTotal.WithLabelValues("success").Inc()

	// The candidate's cached history is stale now
	c.cache.invalidate("email:"+strings.TrimSpace(record.CandidateEmail), "id:"+strings.TrimSpace(record.CandidateID))

	if c.logger != nil {
		c.logger.Info("Feedback recorded",
			"record_id", record.ID,
			"candidate_id", record.CandidateID,
			"recommendation", record.Recommendation)
	}
	return record, nil
}

// GetStats returns client health details for diagnostics output
func (c *Client) GetStats() map[string]any {
	return map[string]any{
		"circuit_breaker": c.breaker.GetStats(),
		"cache_enabled":   c.cache.enabled(),
		"cache_entries":   c.cache.len(),
	}
}

// IsHealthy reports whether the query path is accepting requests
func (c *Client) IsHealthy() bool {
	return c.breaker.IsHealthy()
}

// lookup is the shared cache-aside read path.
func (c *Client) lookup(ctx context.Context, cacheKey string, query func(context.Context) ([]types.FeedbackRecord, error), defaultEmail, defaultID string) (*types.FeedbackHistory, error) {
	if history, found := c.cache.get(cacheKey); found {
		if history == nil {
			lookupsTotal.WithLabelValues("negative_hit").Inc()
		} else {
			lookupsTotal.WithLabelValues("hit").Inc()
		}
		return history, nil
	}

	start := time.Now()
	records, err := c.queryWithResilience(ctx, cacheKey, query)
	storeRequestDuration.WithLabelValues("query").Observe(time.Since(start).Seconds())
	if err != nil {
		lookupsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	lookupsTotal.WithLabelValues("miss").Inc()
	history := buildHistory(records, defaultEmail, defaultID)
	c.cache.set(cacheKey, history)
	return history, nil
}

// queryWithResilience runs one store query through the limiter, the circuit
// breaker and the retry loop.
func (c *Client) queryWithResilience(ctx context.Context, operation string, query func(context.Context) ([]types.FeedbackRecord, error)) ([]types.FeedbackRecord, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, errors.NewQueryError(errors.ErrCodeStoreTimeout, "rate limiter wait cancelled", err)
		}
	}

	records, err := c.breaker.Execute(func() ([]types.FeedbackRecord, error) {
		return c.executeWithRetry(ctx, operation, func() ([]types.FeedbackRecord, error) {
			return query(ctx)
		})
	})
	if err != nil {
		if stderrors.Is(err, gobreaker.ErrOpenState) || stderrors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, errors.NewQueryError(errors.ErrCodeStoreUnavailable, "feedback store circuit breaker is open", err)
		}
		return nil, err
	}
	return records, nil
}

// executeWithRetry executes a store query with retry logic and exponential backoff
func (c *Client) executeWithRetry(ctx context.Context, operation string, fn func() ([]types.FeedbackRecord, error)) ([]types.FeedbackRecord, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			storeRetriesTotal.Inc()
			if c.logger != nil {
				c.logger.Warn("Retrying feedback store query",
					"operation", operation,
					"attempt", attempt,
					"max_retries", c.maxRetries,
					"error", lastErr.Error())
			}

			// Exponential backoff with jitter to prevent thundering herd
			baseDelay := time.Duration(math.Pow(2, float64(attempt-1))) * time.Second
			jitterMax := big.NewInt(int64(float64(baseDelay) * 0.1))
			jitterBig, _ := rand.Int(rand.Reader, jitterMax)
			jitter := time.Duration(jitterBig.Int64())
			// Cap maximum backoff at 30 seconds
			backoff := min(baseDelay+jitter, 30*time.Second)

			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		result, err := fn()
		if err == nil {
			if attempt > 0 && c.logger != nil {
				c.logger.Info("Feedback store query succeeded after retry",
					"operation", operation,
					"total_attempts", attempt+1)
			}
			return result, nil
		}

		lastErr = err

		// Don't retry on validation or auth failures
		if !isRetryableError(err) {
			if c.logger != nil {
				c.logger.Debug("Error is not retryable, stopping retry attempts",
					"operation", operation,
					"error", err.Error())
			}
			break
		}
	}

	if c.logger != nil {
		c.logger.LogError(lastErr, "Feedback store query failed after all retry attempts",
			"operation", operation,
			"total_attempts", c.maxRetries+1)
	}

	return nil, errors.NewQueryError(errors.ErrCodeStoreUnavailable,
		fmt.Sprintf("operation '%s' failed after %d retries", operation, c.maxRetries), lastErr)
}

// uploadWithRetry reuses the retry loop for the write path.
func (c *Client) uploadWithRetry(ctx context.Context, record types.FeedbackRecord) error {
	_, err := c.executeWithRetry(ctx, "upload", func() ([]types.FeedbackRecord, error) {
		return nil, c.store.Upload(ctx, record)
	})
	return err
}

// isRetryableError determines if a store error should trigger a retry
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	// Check for network errors (timeouts, connection issues)
	var netErr net.Error
	if stderrors.As(err, &netErr) {
		return true
	}

	// Check for retryable HTTP status codes from the store
	var statusErr *statusError
	if stderrors.As(err, &statusErr) {
		switch statusErr.StatusCode {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}

	return false
}
