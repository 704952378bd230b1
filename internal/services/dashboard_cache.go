package services

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

const dashboardCacheKey = "dashboard"

type cachedDashboard struct {
	inner DashboardService
	cache *cache.Cache
}

// NewCachedDashboard serves repeated dashboard reads from memory for ttl.
// Failures are not cached. A non-positive ttl returns inner unchanged.
func NewCachedDashboard(inner DashboardService, ttl time.Duration) DashboardService {
	if ttl <= 0 {
		return inner
	}
	return &cachedDashboard{inner: inner, cache: cache.New(ttl, 2*ttl)}
}

func (d *cachedDashboard) Metrics(ctx context.Context) (*DashboardMetrics, error) {
	if v, ok := d.cache.Get(dashboardCacheKey); ok {
		return v.(*DashboardMetrics), nil
	}
	out, err := d.inner.Metrics(ctx)
	if err != nil {
		return nil, err
	}
	d.cache.Set(dashboardCacheKey, out, cache.DefaultExpiration)
	return out, nil
}
