package persistence

import (
	"context"
	"time"
)

// TenantStatus is the probe result for one branch
type TenantStatus struct {
	Status   string `json:"status"`
	Database string `json:"database,omitempty"`
	Error    string `json:"error,omitempty"`
}

const (
	// StatusConnected marks a branch whose pool answered a ping
	StatusConnected = "connected"
	// StatusError marks a branch whose pool could not be reached
	StatusError = "error"
)

// HealthProbe checks connectivity to every known branch database
type HealthProbe struct {
	registry *Registry
	pools    *PoolManager
}

// NewHealthProbe creates a probe over the registry and pool manager
func NewHealthProbe(registry *Registry, pools *PoolManager) *HealthProbe {
	return &HealthProbe{registry: registry, pools: pools}
}

// Check probes every branch independently. One branch failing never aborts
// probing the others and never surfaces as an error to the caller; every
// failure is captured in the returned map.
func (h *HealthProbe) Check(ctx context.Context) (map[string]TenantStatus, time.Time) {
	statuses := make(map[string]TenantStatus, len(h.registry.Keys()))
	for _, key := range h.registry.Keys() {
		statuses[key] = h.checkOne(ctx, key)
	}
	return statuses, time.Now()
}

func (h *HealthProbe) checkOne(ctx context.Context, key string) TenantStatus {
	pool, err := h.pools.Acquire(ctx, key)
	if err != nil {
		return TenantStatus{Status: StatusError, Error: err.Error()}
	}
	pingCtx, cancel := context.WithTimeout(ctx, pool.Descriptor().ConnectTimeout)
	defer cancel()
	if err := pool.DB().PingContext(pingCtx); err != nil {
		pool.MarkUnhealthy()
		return TenantStatus{Status: StatusError, Error: err.Error()}
	}
	return TenantStatus{Status: StatusConnected, Database: pool.Descriptor().Database}
}
