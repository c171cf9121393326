package middleware

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// client tracks a rate limiter per caller key.
type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientStore manages per-key rate limiters with periodic eviction of
// stale entries.
type clientStore struct {
	mu      sync.Mutex
	clients map[string]*client
	rps     int
	burst   int
	ttl     time.Duration
}

func newClientStore(rps, burst int, ttl time.Duration) *clientStore {
	s := &clientStore{
		clients: make(map[string]*client),
		rps:     rps,
		burst:   burst,
		ttl:     ttl,
	}
	go s.cleanupLoop()
	return s
}

// get returns (or creates) the rate limiter for the given key and refreshes
// its lastSeen timestamp.
func (s *clientStore) get(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.clients[key]
	if !ok {
		c = &client{limiter: rate.NewLimiter(rate.Limit(s.rps), s.burst)}
		s.clients[key] = c
	}
	c.lastSeen = time.Now()
	return c.limiter
}

func (s *clientStore) cleanupLoop() {
	ticker := time.NewTicker(s.ttl)
	defer ticker.Stop()
	for range ticker.C {
		s.mu.Lock()
		now := time.Now()
		for key, c := range s.clients {
			if now.Sub(c.lastSeen) > s.ttl {
				delete(s.clients, key)
			}
		}
		s.mu.Unlock()
	}
}

// RateLimit returns middleware enforcing a per-caller token bucket. Callers
// are keyed by the X-Session-ID header when present, falling back to client
// IP. Returns HTTP 429 when the limit is exceeded.
func RateLimit(rps, burst int, logger *slog.Logger) func(http.Handler) http.Handler {
	const evictionTTL = 3 * time.Minute
	store := newClientStore(rps, burst, evictionTTL)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get("X-Session-ID")
			if key == "" {
				key = clientIP(r)
			}

			if !store.get(key).Allow() {
				logger.Warn("rate limit exceeded",
					slog.String("caller", key),
					slog.String("path", r.URL.Path),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"code":    "RATE_LIMITED",
					"message": "too many requests",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP extracts the caller IP, preferring X-Real-IP over RemoteAddr.
func clientIP(r *http.Request) string {
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		if ip := net.ParseIP(xri); ip != nil {
			return ip.String()
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
