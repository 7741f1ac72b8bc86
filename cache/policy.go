package cache

import "time"

// Freshness windows used across the product. The general cache runs on
// DefaultTTL; the slower-moving informational panels define their own.
const (
	// DefaultTTL is the freshness window for general API reads.
	DefaultTTL = 5 * time.Minute

	// CommunityInsightTTL covers the aggregate community statistics.
	CommunityInsightTTL = 30 * time.Minute

	// PreventiveCareTTL covers the static-ish prevention advice.
	PreventiveCareTTL = 24 * time.Hour
)

// Policy configures caching behavior for a call site.
type Policy struct {
	// TTL is the freshness window. If zero, DefaultTTL applies.
	TTL time.Duration

	// Namespace partitions the entry for targeted clears. Empty means
	// the "default" namespace.
	Namespace string
}

// EffectiveTTL returns the TTL to use, applying the default.
func (p Policy) EffectiveTTL() time.Duration {
	if p.TTL <= 0 {
		return DefaultTTL
	}
	return p.TTL
}

// EffectiveNamespace returns the namespace, applying the default.
func (p Policy) EffectiveNamespace() string {
	if p.Namespace == "" {
		return DefaultNamespace
	}
	return p.Namespace
}
