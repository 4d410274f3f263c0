package http

import (
	"net/http"
	"sync"

	"golang.org/x/time/rate"
)

// RateLimiter enforces a global and a per-client request budget using token
// buckets. Clients are keyed by ReadUserIP.
type RateLimiter struct {
	mu        sync.Mutex
	global    *rate.Limiter
	clients   map[string]*rate.Limiter
	perClient rate.Limit
	burst     int
}

// NewRateLimiter creates a limiter allowing globalRPS requests/second in
// total and perClientRPS requests/second per client. A value <= 0 leaves the
// respective limit open.
func NewRateLimiter(globalRPS, perClientRPS int) *RateLimiter {
	globalRate := rate.Limit(globalRPS)
	globalBurst := globalRPS
	if globalRPS <= 0 {
		globalRate = rate.Inf
		globalBurst = 0
	}
	clientRate := rate.Limit(perClientRPS)
	clientBurst := perClientRPS
	if perClientRPS <= 0 {
		clientRate = rate.Inf
		clientBurst = 0
	}
	return &RateLimiter{
		global:    rate.NewLimiter(globalRate, globalBurst),
		clients:   make(map[string]*rate.Limiter),
		perClient: clientRate,
		burst:     clientBurst,
	}
}

// Allow reports whether a request from the given client fits the budgets.
func (rl *RateLimiter) Allow(client string) bool {
	if !rl.global.Allow() {
		return false
	}
	rl.mu.Lock()
	limiter, ok := rl.clients[client]
	if !ok {
		limiter = rate.NewLimiter(rl.perClient, rl.burst)
		rl.clients[client] = limiter
	}
	rl.mu.Unlock()
	return limiter.Allow()
}

// Limit is a middleware rejecting requests over budget with 429.
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(ReadUserIP(r)) {
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
