// Package scoring is the gateway's client for the external scoring engine.
// The engine is an opaque collaborator: one POST /submit per submission, no
// retries, no partial success. Only the request/response shape is a contract.
package scoring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"
	"go.opentelemetry.io/otel/trace"

	stderrors "credx-gateway/internal/common/errors"
	commonhttp "credx-gateway/internal/common/http"
	"credx-gateway/internal/common/logger"
	"credx-gateway/internal/common/metrics"
	"credx-gateway/internal/common/observability"
	"credx-gateway/internal/models"
)

// Submitter is what the intake controller depends on.
type Submitter interface {
	Submit(ctx context.Context, input models.ApplicantInput) (*models.ScoringDecision, error)
}

type Client struct {
	baseURL string
	timeout time.Duration
	http    *commonhttp.Client
	logger  logger.Logger
	obs     *observability.Observability
	schema  *gojsonschema.Schema
}

func NewClient(baseURL string, timeout time.Duration, log logger.Logger, obs *observability.Observability) (*Client, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(decisionSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to compile decision schema: %w", err)
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		http:    commonhttp.NewClient(timeout),
		logger:  log.WithFields(map[string]interface{}{"component": "scoring-client"}),
		obs:     obs,
		schema:  schema,
	}, nil
}

// Submit sends one applicant record and returns the decision. The request
// carries an explicit deadline; a hung engine surfaces as SCORING_TIMEOUT
// rather than leaving the caller pending forever.
func (c *Client) Submit(ctx context.Context, input models.ApplicantInput) (*models.ScoringDecision, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if c.obs != nil {
		var span trace.Span
		ctx, span = c.obs.StartSubmissionSpan(ctx)
		defer span.End()
	}

	start := time.Now()
	resp, err := c.http.PostJSON(ctx, c.baseURL+"/submit", input)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			c.record(ctx, start, "timeout")
			return nil, stderrors.NewScoringTimeoutError(err)
		}
		c.record(ctx, start, "unreachable")
		return nil, stderrors.NewScoringUnreachableError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.record(ctx, start, "unreachable")
		return nil, stderrors.NewScoringUnreachableError(err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.logger.Warn("scoring engine returned non-success status", map[string]interface{}{
			"status": resp.StatusCode,
		})
		c.record(ctx, start, "bad_status")
		return nil, stderrors.NewScoringBadStatusError(resp.StatusCode, truncate(string(body), 512))
	}

	decision, err := c.decode(body)
	if err != nil {
		c.logger.Warn("scoring engine response failed shape validation", map[string]interface{}{
			"error": err.Error(),
		})
		c.record(ctx, start, "bad_response")
		return nil, err
	}

	c.record(ctx, start, "ok")
	return decision, nil
}

// decode gates the body through the JSON schema before unmarshalling, so a
// decision is only ever constructed from a fully well-formed response.
func (c *Client) decode(body []byte) (*models.ScoringDecision, error) {
	result, err := c.schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return nil, stderrors.NewScoringBadResponseError(err.Error())
	}
	if !result.Valid() {
		descs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			descs = append(descs, e.String())
		}
		return nil, stderrors.NewScoringBadResponseError(strings.Join(descs, "; "))
	}

	var decision models.ScoringDecision
	if err := json.Unmarshal(body, &decision); err != nil {
		return nil, stderrors.NewScoringBadResponseError(err.Error())
	}
	return &decision, nil
}

func (c *Client) record(ctx context.Context, start time.Time, status string) {
	elapsed := time.Since(start)
	metrics.SubmissionDuration.WithLabelValues(status).Observe(elapsed.Seconds())
	if c.obs != nil {
		c.obs.RecordSubmissionProcessed(ctx, status)
		c.obs.RecordSubmissionDuration(ctx, elapsed, status)
	}
}

func isTimeout(err error) bool {
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
