package health

import (
	"context"
	"fmt"

	"github.com/dermalytics/dermalytics-go/history"
)

// StorageChecker watches the history store's estimated usage against
// its assumed quota. Crossing the pressure threshold means writes will
// start capping history, so the status drops to degraded before data
// is actually lost.
type StorageChecker struct {
	store     *history.Store
	threshold float64
}

// NewStorageChecker creates a checker over store. A non-positive
// threshold takes history.PressureThreshold.
func NewStorageChecker(store *history.Store, threshold float64) *StorageChecker {
	if threshold <= 0 || threshold > 1 {
		threshold = history.PressureThreshold
	}
	return &StorageChecker{store: store, threshold: threshold}
}

func (c *StorageChecker) Name() string { return "storage" }

func (c *StorageChecker) Check(ctx context.Context) Result {
	usage := c.store.EstimatedUsage()
	quota := c.store.QuotaBytes()
	frac := float64(usage) / float64(quota)

	details := map[string]any{
		"usage_bytes": usage,
		"quota_bytes": quota,
	}

	if frac > c.threshold {
		return Degraded(fmt.Sprintf("storage at %.0f%% of quota, history will be capped", frac*100)).
			WithDetails(details)
	}
	return Healthy(fmt.Sprintf("storage at %.0f%% of quota", frac*100)).
		WithDetails(details)
}

var _ Checker = (*StorageChecker)(nil)
