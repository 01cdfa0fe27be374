package ratelimit

import (
	"context"
	"sync"
	"time"
)

type window struct {
	count   int
	resetAt time.Time
}

// MemoryLimiter is the single-process fallback used when REDIS_ADDR is unset.
type MemoryLimiter struct {
	mu      sync.Mutex
	rule    Rule
	windows map[string]*window
	sweepAt time.Time
	now     func() time.Time
}

func NewMemoryLimiter(rule Rule) *MemoryLimiter {
	return &MemoryLimiter{rule: rule, windows: make(map[string]*window), now: time.Now}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok || !now.Before(w.resetAt) {
		l.sweep(now)
		w = &window{resetAt: now.Add(l.rule.Window)}
		l.windows[key] = w
	}
	w.count++
	if w.count > l.rule.Limit {
		return ErrRateLimited
	}
	return nil
}

// sweep drops expired windows, at most once per window length.
func (l *MemoryLimiter) sweep(now time.Time) {
	if now.Before(l.sweepAt) {
		return
	}
	for key, w := range l.windows {
		if !now.Before(w.resetAt) {
			delete(l.windows, key)
		}
	}
	l.sweepAt = now.Add(l.rule.Window)
}

func (l *MemoryLimiter) Reset(_ context.Context, key string) error {
	l.mu.Lock()
	delete(l.windows, key)
	l.mu.Unlock()
	return nil
}
