package monitoring

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

var startTime = time.Now()

// maxRecentErrors bounds the error list reported by the health endpoint.
const maxRecentErrors = 10

type HealthChecker struct {
	mu          sync.RWMutex
	lastSuccess time.Time
	lastFailure time.Time
	clockSynced bool
	errors      []string
}

type HealthStatus struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	LastSuccess time.Time `json:"last_success"`
	LastFailure time.Time `json:"last_failure,omitempty"`
	ClockSynced bool      `json:"clock_synced"`
	Uptime      string    `json:"uptime"`
	Errors      []string  `json:"errors,omitempty"`
}

var defaultHealth = NewHealthChecker()

// Health returns the process-wide checker fed by RecordRequest and SetClockOffset.
func Health() *HealthChecker {
	return defaultHealth
}

func NewHealthChecker() *HealthChecker {
	return &HealthChecker{
		errors: make([]string, 0),
	}
}

// RecordSuccess marks a request that got a 200 response
func (h *HealthChecker) RecordSuccess() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastSuccess = time.Now()
}

// RecordFailure keeps the most recent failures, oldest first
func (h *HealthChecker) RecordFailure(msg string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastFailure = time.Now()
	h.errors = append(h.errors, msg)
	if len(h.errors) > maxRecentErrors {
		h.errors = h.errors[len(h.errors)-maxRecentErrors:]
	}
}

func (h *HealthChecker) SetClockSynced(synced bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clockSynced = synced
}

// Status reports "healthy" when the clock is synced and the last request
// succeeded, "degraded" before the first sync, and "unhealthy" when the most
// recent request failed.
func (h *HealthChecker) Status() HealthStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()

	status := "healthy"
	if !h.clockSynced {
		status = "degraded"
	}
	if !h.lastFailure.IsZero() && h.lastFailure.After(h.lastSuccess) {
		status = "unhealthy"
	}

	return HealthStatus{
		Status:      status,
		Timestamp:   time.Now(),
		LastSuccess: h.lastSuccess,
		LastFailure: h.lastFailure,
		ClockSynced: h.clockSynced,
		Uptime:      time.Since(startTime).String(),
		Errors:      append([]string(nil), h.errors...),
	}
}

func (h *HealthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	health := h.Status()

	w.Header().Set("Content-Type", "application/json")
	switch health.Status {
	case "degraded":
		w.WriteHeader(http.StatusServiceUnavailable)
	case "unhealthy":
		w.WriteHeader(http.StatusInternalServerError)
	}
	json.NewEncoder(w).Encode(health)
}
