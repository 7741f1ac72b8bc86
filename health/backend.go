package health

import (
	"context"
	"fmt"

	"github.com/dermalytics/dermalytics-go/api"
	"github.com/dermalytics/dermalytics-go/transport"
)

// BackendPinger is the slice of the API client the backend checker
// needs.
type BackendPinger interface {
	Health(ctx context.Context) (api.HealthStatus, error)
}

// BackendChecker probes the backend liveness endpoint. An unreachable
// backend is unhealthy; a reachable one reporting anything but "ok" is
// degraded.
type BackendChecker struct {
	client BackendPinger
}

// NewBackendChecker creates a checker over client.
func NewBackendChecker(client BackendPinger) *BackendChecker {
	return &BackendChecker{client: client}
}

func (c *BackendChecker) Name() string { return "backend" }

func (c *BackendChecker) Check(ctx context.Context) Result {
	status, err := c.client.Health(ctx)
	if err != nil {
		msg := "backend unreachable"
		if apiErr, ok := transport.AsAPIError(err); ok {
			msg = fmt.Sprintf("backend unreachable (%s)", apiErr.Code)
		}
		return Unhealthy(msg, err)
	}

	if status.Status != "ok" {
		return Degraded(fmt.Sprintf("backend reports %q", status.Status)).
			WithDetails(map[string]any{"version": status.Version})
	}
	return Healthy("backend reachable").
		WithDetails(map[string]any{"version": status.Version})
}

var _ Checker = (*BackendChecker)(nil)
