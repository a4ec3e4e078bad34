package http

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Login attempt limits per client IP.
const (
	loginRatePerMinute = 5
	loginBurst         = 5
	visitorTTL         = 10 * time.Minute
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// visitorStore tracks a rate limiter per client IP with eviction of stale
// entries.
type visitorStore struct {
	mu       sync.Mutex
	visitors map[string]*visitor
}

func newVisitorStore() *visitorStore {
	s := &visitorStore{visitors: make(map[string]*visitor)}
	go s.cleanupLoop()
	return s
}

func (s *visitorStore) getVisitor(ip string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, exists := s.visitors[ip]
	if !exists {
		limiter := rate.NewLimiter(rate.Limit(float64(loginRatePerMinute)/60.0), loginBurst)
		s.visitors[ip] = &visitor{limiter: limiter, lastSeen: time.Now()}
		return limiter
	}
	v.lastSeen = time.Now()
	return v.limiter
}

func (s *visitorStore) cleanupLoop() {
	ticker := time.NewTicker(visitorTTL)
	defer ticker.Stop()
	for range ticker.C {
		s.mu.Lock()
		now := time.Now()
		for ip, v := range s.visitors {
			if now.Sub(v.lastSeen) > visitorTTL {
				delete(s.visitors, ip)
			}
		}
		s.mu.Unlock()
	}
}

// LoginRateLimit returns middleware that throttles login attempts per
// client IP. Returns HTTP 429 when the bucket is empty.
func LoginRateLimit(logger *slog.Logger) func(http.Handler) http.Handler {
	store := newVisitorStore()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			if !store.getVisitor(ip).Allow() {
				logger.Warn("login rate limit exceeded",
					slog.String("ip", ip),
					slog.String("path", r.URL.Path),
				)
				writeJSON(w, http.StatusTooManyRequests, response{
					Error: &errorResponse{Code: "RATE_LIMITED", Message: "too many login attempts, try again later"},
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP extracts the client IP, preferring proxy headers over
// RemoteAddr.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.Split(xff, ",")[0])
		if net.ParseIP(first) != nil {
			return first
		}
	}
	if rip := r.Header.Get("X-Real-IP"); rip != "" {
		if net.ParseIP(rip) != nil {
			return rip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
