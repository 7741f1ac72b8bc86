package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dermalytics/dermalytics-go/auth"
	"github.com/dermalytics/dermalytics-go/observe"
)

// Timeouts applied to outgoing requests. Predict calls upload an image
// and wait on model inference, so they get a longer budget.
const (
	DefaultTimeout = 45 * time.Second
	PredictTimeout = 60 * time.Second
)

// maxErrorBody caps how much of a failure response body is captured
// into the normalized error.
const maxErrorBody = 64 << 10

// Config configures a Client. Zero values take defaults.
type Config struct {
	// HTTPClient performs the actual exchanges. Defaults to a client
	// with DefaultTimeout.
	HTTPClient *http.Client

	// Tokens supplies the bearer token. Nil sends unauthenticated.
	Tokens auth.TokenSource

	// Observer provides logging, tracing and metrics. Nil means noop.
	Observer observe.Observer
}

// Client executes requests with tagging, timing and bounded retry.
//
// Do returns the response only for successful statuses; any failure -
// network error, 4xx, or 5xx after retries - comes back as *APIError.
type Client struct {
	base    *http.Client
	tokens  auth.TokenSource
	log     observe.Logger
	metrics observe.Metrics
	tracer  observe.Tracer
	now     func() time.Time
	sleep   func(ctx context.Context, d time.Duration) error
}

// NewClient creates a Client from cfg.
func NewClient(cfg Config) *Client {
	base := cfg.HTTPClient
	if base == nil {
		base = &http.Client{Timeout: DefaultTimeout}
	}

	obs := cfg.Observer
	if obs == nil {
		obs = observe.NewNoop()
	}
	metrics, err := observe.NewMetrics(obs.Meter())
	if err != nil {
		metrics = observe.NewNoopMetrics()
	}

	return &Client{
		base:    base,
		tokens:  cfg.Tokens,
		log:     obs.Logger(),
		metrics: metrics,
		tracer:  observe.NewTracer(obs.Tracer()),
		now:     time.Now,
		sleep:   sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// Do executes req with retry. The request body must have GetBody set
// for retries to replay it; http.NewRequestWithContext does this for
// the common reader types.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	reqID := uuid.NewString()
	meta := observe.RequestMeta{ID: reqID, Method: req.Method, Endpoint: req.URL.Path}
	log := c.log.WithRequest(meta)

	ctx, span := c.tracer.StartSpan(req.Context(), meta)
	req = req.WithContext(ctx)
	start := c.now()

	resp, err := c.doWithRetry(req, meta, log)

	elapsed := c.now().Sub(start)
	status := 0
	if resp != nil {
		status = resp.StatusCode
	} else if apiErr, ok := AsAPIError(err); ok {
		status = apiErr.Status
	}
	c.metrics.RecordRequest(ctx, meta, elapsed, status, err)
	c.tracer.EndSpan(span, err)

	if err != nil {
		log.Warn(ctx, "request failed",
			observe.Field{Key: "elapsed_ms", Value: elapsed.Milliseconds()},
			observe.Field{Key: "status", Value: status})
		return nil, err
	}

	log.Debug(ctx, "request complete",
		observe.Field{Key: "elapsed_ms", Value: elapsed.Milliseconds()},
		observe.Field{Key: "status", Value: status})
	return resp, nil
}

func (c *Client) doWithRetry(req *http.Request, meta observe.RequestMeta, log observe.Logger) (*http.Response, error) {
	ctx := req.Context()

	for attempt := 0; ; attempt++ {
		attemptReq, err := c.prepareAttempt(req, meta.ID, attempt)
		if err != nil {
			return nil, c.shapeError(meta.ID, nil, err)
		}

		resp, err := c.base.Do(attemptReq)

		if err == nil && resp.StatusCode < 400 {
			return resp, nil
		}

		if !shouldRetry(resp, err) {
			// 4xx: surfaced immediately, never retried.
			return nil, c.shapeError(meta.ID, resp, err)
		}

		canReplay := req.Body == nil || req.GetBody != nil
		if attempt >= MaxRetries || !canReplay {
			return nil, c.shapeError(meta.ID, resp, err)
		}

		// The failed response body is done with; drain so the
		// connection can be reused.
		if resp != nil {
			io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody)) //nolint:errcheck
			resp.Body.Close()
		}

		delay := backoffDelay(attempt + 1)
		c.metrics.RecordRetry(ctx, meta)
		log.Warn(ctx, "retrying request",
			observe.Field{Key: "attempt", Value: attempt + 1},
			observe.Field{Key: "delay_ms", Value: delay.Milliseconds()})

		if err := c.sleep(ctx, delay); err != nil {
			return nil, c.shapeError(meta.ID, nil, err)
		}
	}
}

// prepareAttempt produces the request for one attempt: the original on
// the first try, a clone with a replayed body on retries, with the
// request id and bearer token attached either way.
func (c *Client) prepareAttempt(req *http.Request, reqID string, attempt int) (*http.Request, error) {
	out := req
	if attempt > 0 {
		out = req.Clone(req.Context())
		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, fmt.Errorf("replaying request body: %w", err)
			}
			out.Body = body
		}
	}

	out.Header.Set("X-Request-ID", reqID)
	if c.tokens != nil {
		if tok, err := c.tokens.Token(); err == nil {
			out.Header.Set("Authorization", "Bearer "+tok)
		}
	}
	return out, nil
}

// shapeError converts a failed exchange into the normalized *APIError.
// Exactly one of resp/err may be nil.
func (c *Client) shapeError(reqID string, resp *http.Response, err error) *APIError {
	apiErr := &APIError{
		RequestID: reqID,
		Timestamp: c.now(),
		cause:     err,
	}

	if resp == nil {
		apiErr.Code = CodeNetwork
		apiErr.Message = "no response received from server"
		if err != nil {
			apiErr.Message = err.Error()
			if errors.Is(err, context.DeadlineExceeded) {
				apiErr.Code = CodeTimeout
			}
		}
		return apiErr
	}

	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	apiErr.Status = resp.StatusCode
	apiErr.Body = string(body)
	apiErr.Message = fmt.Sprintf("server returned %s", resp.Status)
	if resp.StatusCode >= 500 {
		apiErr.Code = CodeServer
	} else {
		apiErr.Code = CodeClient
	}
	return apiErr
}
