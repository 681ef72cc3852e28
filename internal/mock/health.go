package mock

import (
	"net/http"
	"runtime"
	"sync"
	"time"
)

type HealthStatus string

const (
	HealthHealthy   HealthStatus = "healthy"
	HealthDegraded  HealthStatus = "degraded"
	HealthUnhealthy HealthStatus = "unhealthy"
)

// HealthState tracks simulated dependency liveness for the health surface.
// All dependencies up means healthy; at least half up means degraded;
// fewer means unhealthy. Only healthy answers 200.
type HealthState struct {
	mu           sync.RWMutex
	service      string
	version      string
	startedAt    time.Time
	dependencies map[string]bool
	now          func() time.Time
}

func NewHealthState(service, version string, dependencies []string) *HealthState {
	deps := make(map[string]bool, len(dependencies))
	for _, d := range dependencies {
		deps[d] = true
	}
	return &HealthState{
		service:      service,
		version:      version,
		startedAt:    time.Now(),
		dependencies: deps,
		now:          time.Now,
	}
}

// SetDependency flips one dependency up or down.
func (h *HealthState) SetDependency(name string, up bool) {
	h.mu.Lock()
	h.dependencies[name] = up
	h.mu.Unlock()
}

// Status derives the overall state from dependency liveness.
func (h *HealthState) Status() HealthStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.statusLocked()
}

func (h *HealthState) statusLocked() HealthStatus {
	up := 0
	for _, ok := range h.dependencies {
		if ok {
			up++
		}
	}
	total := len(h.dependencies)
	switch {
	case up == total:
		return HealthHealthy
	case up*2 >= total:
		return HealthDegraded
	default:
		return HealthUnhealthy
	}
}

type healthSystem struct {
	MemoryAllocBytes uint64 `json:"memory_alloc_bytes"`
	Goroutines       int    `json:"goroutines"`
}

type healthResponse struct {
	Status       HealthStatus    `json:"status"`
	Service      string          `json:"service"`
	Version      string          `json:"version"`
	Uptime       int64           `json:"uptime"`
	Timestamp    time.Time       `json:"timestamp"`
	Dependencies map[string]bool `json:"dependencies"`
	System       healthSystem    `json:"system"`
	QueueDepth   int             `json:"queue_depth"`
}

// Handler serves the health document: 200 when healthy, 503 otherwise.
func (h *HealthState) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		h.mu.RLock()
		status := h.statusLocked()
		deps := make(map[string]bool, len(h.dependencies))
		for k, v := range h.dependencies {
			deps[k] = v
		}
		h.mu.RUnlock()

		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)

		now := h.now()
		body := healthResponse{
			Status:       status,
			Service:      h.service,
			Version:      h.version,
			Uptime:       int64(now.Sub(h.startedAt).Seconds()),
			Timestamp:    now.UTC(),
			Dependencies: deps,
			System: healthSystem{
				MemoryAllocBytes: ms.Alloc,
				Goroutines:       runtime.NumGoroutine(),
			},
		}

		code := http.StatusOK
		if status != HealthHealthy {
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, body)
	}
}
