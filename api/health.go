package api

import "context"

// Health probes the backend liveness endpoint. Failures propagate so
// callers can distinguish a live backend from demo mode.
func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	var out HealthStatus
	if err := c.getJSON(ctx, "/health", nil, &out); err != nil {
		return HealthStatus{}, err
	}
	return out, nil
}
