// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package auth

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// LoginLimiter throttles login attempts per client key (usually the IP).
// Each key gets a token bucket of burst attempts refilled one per refill.
// Idle buckets are pruned lazily.
type LoginLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*limiterEntry
	limit     rate.Limit
	burst     int
	idle      time.Duration
	lastPrune time.Time
	now       func() time.Time
}

type limiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// NewLoginLimiter allows burst attempts per key, refilling one per refill.
func NewLoginLimiter(burst int, refill time.Duration) *LoginLimiter {
	if burst < 1 {
		burst = 1
	}
	if refill <= 0 {
		refill = time.Minute
	}
	return &LoginLimiter{
		limiters: make(map[string]*limiterEntry),
		limit:    rate.Every(refill),
		burst:    burst,
		idle:     refill * time.Duration(burst) * 2,
		now:      time.Now,
	}
}

// Allow reports whether key may attempt a login now, consuming a token.
func (l *LoginLimiter) Allow(key string) bool {
	l.mu.Lock()
	now := l.now()
	if now.Sub(l.lastPrune) > l.idle {
		l.prune(now)
	}
	entry, ok := l.limiters[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[key] = entry
	}
	entry.lastAccess = now
	limiter := entry.limiter
	l.mu.Unlock()

	return limiter.AllowN(now, 1)
}

// Len returns the number of tracked keys.
func (l *LoginLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

// prune drops buckets idle for longer than l.idle.
// Callers hold l.mu.
func (l *LoginLimiter) prune(now time.Time) {
	for key, e := range l.limiters {
		if now.Sub(e.lastAccess) > l.idle {
			delete(l.limiters, key)
		}
	}
	l.lastPrune = now
}
