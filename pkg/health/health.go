// Package health exposes liveness and readiness endpoints. Readiness runs
// every registered dependency probe; a failing critical dependency makes
// the process unready (503), a failing non-critical one only degrades it.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// Checker probes one dependency (a database ping, a broker dial).
type Checker func(ctx context.Context) error

// Status of the process or one of its dependencies.
type Status string

const (
	StatusUp       Status = "up"
	StatusDegraded Status = "degraded"
	StatusDown     Status = "down"
)

// Response is the JSON body of both health endpoints.
type Response struct {
	Status    Status                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
}

// CheckResult is the outcome of one dependency probe.
type CheckResult struct {
	Status   Status `json:"status"`
	Critical bool   `json:"critical"`
	Error    string `json:"error,omitempty"`
}

const readinessTimeout = 5 * time.Second

type probe struct {
	check    Checker
	critical bool
}

// Handler serves the health endpoints over a set of registered probes.
type Handler struct {
	mu     sync.RWMutex
	probes map[string]probe
}

func NewHandler() *Handler {
	return &Handler{probes: make(map[string]probe)}
}

// Register adds a critical dependency probe. Safe for concurrent use.
func (h *Handler) Register(name string, checker Checker) {
	h.RegisterCritical(name, checker)
}

// RegisterCritical adds a probe whose failure makes the process unready.
func (h *Handler) RegisterCritical(name string, checker Checker) {
	h.register(name, checker, true)
}

// RegisterNonCritical adds a probe whose failure only degrades the process;
// readiness still answers 200 so traffic keeps flowing.
func (h *Handler) RegisterNonCritical(name string, checker Checker) {
	h.register(name, checker, false)
}

func (h *Handler) register(name string, checker Checker, critical bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.probes[name] = probe{check: checker, critical: critical}
}

// LivenessHandler answers 200 whenever the process can serve requests at all.
func (h *Handler) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeResponse(w, http.StatusOK, Response{
			Status:    StatusUp,
			Timestamp: time.Now().UTC(),
		})
	}
}

// ReadinessHandler probes every registered dependency and aggregates.
func (h *Handler) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		h.mu.RLock()
		probes := make(map[string]probe, len(h.probes))
		for name, p := range h.probes {
			probes[name] = p
		}
		h.mu.RUnlock()

		overall := StatusUp
		checks := make(map[string]CheckResult, len(probes))
		for name, p := range probes {
			result := CheckResult{Status: StatusUp, Critical: p.critical}
			if err := p.check(ctx); err != nil {
				result.Status = StatusDown
				result.Error = err.Error()
				if p.critical {
					overall = StatusDown
				} else if overall == StatusUp {
					overall = StatusDegraded
				}
			}
			checks[name] = result
		}

		code := http.StatusOK
		if overall == StatusDown {
			code = http.StatusServiceUnavailable
		}
		writeResponse(w, code, Response{
			Status:    overall,
			Timestamp: time.Now().UTC(),
			Checks:    checks,
		})
	}
}

func writeResponse(w http.ResponseWriter, code int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}
