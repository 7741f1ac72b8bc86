package api

import (
	"context"
	"time"

	"github.com/dermalytics/dermalytics-go/cache"
	"github.com/dermalytics/dermalytics-go/observe"
	"github.com/dermalytics/dermalytics-go/poll"
)

// RetrainingStatus reports the model retraining pipeline's progress.
// On failure the demo fixture is returned instead; the fixture is not
// cached, so the next call retries the network.
func (c *Client) RetrainingStatus(ctx context.Context) (RetrainingStatus, error) {
	p := cache.Policy{Namespace: nsModel}
	key := cache.Key("/api/retraining-status", nil)

	status, err := cache.Fetch(ctx, c.fetch, p, key, func(ctx context.Context) (RetrainingStatus, error) {
		var out RetrainingStatus
		err := c.getJSON(ctx, "/api/retraining-status", nil, &out)
		return out, err
	})
	if err != nil {
		c.logFallback(ctx, "/api/retraining-status", err)
		return mockRetrainingStatus(c.now()), nil
	}
	return status, nil
}

// RetrainingMetrics returns the model accuracy trend, with the same
// fallback contract as RetrainingStatus.
func (c *Client) RetrainingMetrics(ctx context.Context) (RetrainingMetrics, error) {
	p := cache.Policy{Namespace: nsModel}
	key := cache.Key("/api/retraining-metrics", nil)

	metrics, err := cache.Fetch(ctx, c.fetch, p, key, func(ctx context.Context) (RetrainingMetrics, error) {
		var out RetrainingMetrics
		err := c.getJSON(ctx, "/api/retraining-metrics", nil, &out)
		return out, err
	})
	if err != nil {
		c.logFallback(ctx, "/api/retraining-metrics", err)
		return mockRetrainingMetrics(c.now()), nil
	}
	return metrics, nil
}

// ModelPerformance returns the admin dashboard summary, with demo
// fallback.
func (c *Client) ModelPerformance(ctx context.Context) (ModelPerformance, error) {
	p := cache.Policy{Namespace: nsModel}
	key := cache.Key("/api/model-performance", nil)

	perf, err := cache.Fetch(ctx, c.fetch, p, key, func(ctx context.Context) (ModelPerformance, error) {
		var out ModelPerformance
		err := c.getJSON(ctx, "/api/model-performance", nil, &out)
		return out, err
	})
	if err != nil {
		c.logFallback(ctx, "/api/model-performance", err)
		return mockModelPerformance(), nil
	}
	return perf, nil
}

// WatchRetrainingStatus polls RetrainingStatus on the given interval
// (non-positive means poll.DefaultInterval) and delivers each
// observation to fn. It returns the running poller; callers stop it
// with Stop or by cancelling ctx.
//
// The model namespace is cleared before each tick so the poll observes
// the backend rather than its own cached answer.
func (c *Client) WatchRetrainingStatus(ctx context.Context, interval time.Duration, fn func(RetrainingStatus)) *poll.Poller {
	p := poll.New(poll.WithImmediate(), poll.WithInterval(interval))
	p.Start(ctx, func(ctx context.Context) error {
		c.fetch.Cache().Clear(nsModel)
		status, err := c.RetrainingStatus(ctx)
		if err != nil {
			return err
		}
		fn(status)
		return nil
	})
	return p
}

func (c *Client) logFallback(ctx context.Context, endpoint string, err error) {
	c.log.Warn(ctx, "falling back to demo data",
		observe.Field{Key: "endpoint", Value: endpoint},
		observe.Field{Key: "error", Value: err.Error()})
}
