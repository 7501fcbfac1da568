package worker

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter paces work per label. Batch runs share one label; feed analysis
// uses the item's source, so a chatty stream cannot starve the rest.
type Limiter struct {
	limiters     map[string]*rate.Limiter
	mu           sync.RWMutex
	defaultRate  rate.Limit
	defaultBurst int
}

func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 5
	}

	return &Limiter{
		limiters:     make(map[string]*rate.Limiter),
		defaultRate:  rate.Limit(requestsPerSecond),
		defaultBurst: burst,
	}
}

// Wait blocks until the label's limiter clears or ctx ends.
func (l *Limiter) Wait(ctx context.Context, label string) error {
	return l.get(label).Wait(ctx)
}

// Allow reports whether the label has a token right now.
func (l *Limiter) Allow(label string) bool {
	return l.get(label).Allow()
}

func (l *Limiter) get(label string) *rate.Limiter {
	l.mu.RLock()
	limiter, ok := l.limiters[label]
	l.mu.RUnlock()

	if ok {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Re-check after acquiring the write lock.
	if limiter, ok := l.limiters[label]; ok {
		return limiter
	}

	limiter = rate.NewLimiter(l.defaultRate, l.defaultBurst)
	l.limiters[label] = limiter
	return limiter
}

// SetLabelRate overrides the pace for one label.
func (l *Limiter) SetLabelRate(label string, requestsPerSecond float64, burst int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if burst <= 0 {
		burst = l.defaultBurst
	}
	l.limiters[label] = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
}
