package api

import (
	"context"
	"fmt"
	"strings"

	"github.com/dermalytics/dermalytics-go/cache"
)

// CommunityInsights returns aggregate analysis statistics for a period
// ("week", "month", "year"). Cached for CommunityInsightTTL; on failure
// the demo fixture is returned uncached.
func (c *Client) CommunityInsights(ctx context.Context, period string) (CommunityInsights, error) {
	if period == "" {
		period = "month"
	}
	params := map[string]string{"period": period}

	p := cache.Policy{Namespace: nsCommunity, TTL: c.insightTTL}
	key := cache.Key("/api/community-insights", params)

	insights, err := cache.Fetch(ctx, c.fetch, p, key, func(ctx context.Context) (CommunityInsights, error) {
		var out CommunityInsights
		err := c.getJSON(ctx, "/api/community-insights", params, &out)
		return out, err
	})
	if err != nil {
		c.logFallback(ctx, "/api/community-insights", err)
		return mockCommunityInsights(period), nil
	}
	return insights, nil
}

// PreventiveCare returns prevention advice for a skin type and concern
// list. Cached for PreventiveCareTTL; demo fallback on failure.
func (c *Client) PreventiveCare(ctx context.Context, skinType string, concerns []string) (PreventiveCare, error) {
	params := map[string]string{"skin_type": skinType}
	if len(concerns) > 0 {
		params["concerns"] = strings.Join(concerns, ",")
	}

	p := cache.Policy{Namespace: nsPrevention, TTL: c.preventionTTL}
	key := cache.Key("/api/preventive-care", params)

	care, err := cache.Fetch(ctx, c.fetch, p, key, func(ctx context.Context) (PreventiveCare, error) {
		var out PreventiveCare
		err := c.getJSON(ctx, "/api/preventive-care", params, &out)
		return out, err
	})
	if err != nil {
		c.logFallback(ctx, "/api/preventive-care", err)
		return mockPreventiveCare(skinType), nil
	}
	return care, nil
}

// Dermatologists looks up nearby dermatologists. Cached under the
// doctors namespace with the default TTL; demo fallback on failure.
func (c *Client) Dermatologists(ctx context.Context, lat, lng float64, radiusKM int) (DermatologistDirectory, error) {
	if radiusKM <= 0 {
		radiusKM = 10
	}
	params := map[string]string{
		"lat":    fmt.Sprintf("%.4f", lat),
		"lng":    fmt.Sprintf("%.4f", lng),
		"radius": fmt.Sprintf("%d", radiusKM),
	}

	p := cache.Policy{Namespace: nsDoctors}
	key := cache.Key("/api/dermatologists", params)

	dir, err := cache.Fetch(ctx, c.fetch, p, key, func(ctx context.Context) (DermatologistDirectory, error) {
		var out DermatologistDirectory
		err := c.getJSON(ctx, "/api/dermatologists", params, &out)
		return out, err
	})
	if err != nil {
		c.logFallback(ctx, "/api/dermatologists", err)
		return mockDermatologists(lat, lng), nil
	}
	return dir, nil
}
