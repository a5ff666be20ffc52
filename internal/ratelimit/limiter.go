package ratelimit

import (
	"sync"

	"golang.org/x/time/rate"
)

// Limiter enforces a per-owner request budget. Owners are lazily given
// their own token bucket; requests without an owner are not limited here.
type Limiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
}

// NewLimiter allows requestsPerHour sustained requests per owner with the
// given burst.
func NewLimiter(requestsPerHour, burst int) *Limiter {
	return &Limiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(float64(requestsPerHour) / 3600.0),
		burst:    burst,
	}
}

func (l *Limiter) get(ownerID string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.limiters[ownerID]
	if !ok {
		limiter = rate.NewLimiter(l.rate, l.burst)
		l.limiters[ownerID] = limiter
	}
	return limiter
}

// Allow reports whether the owner may issue a request now
func (l *Limiter) Allow(ownerID string) bool {
	return l.get(ownerID).Allow()
}

// Tokens returns the owner's currently available budget
func (l *Limiter) Tokens(ownerID string) float64 {
	return l.get(ownerID).Tokens()
}
