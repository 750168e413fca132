// Package ratelimit provides a keyed token-bucket limiter used to throttle
// self-service registration per client address.
package ratelimit

import (
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultIdleTTL is how long an unused key keeps its bucket.
const DefaultIdleTTL = 10 * time.Minute

// sweepEvery is the number of Allow calls between idle sweeps.
const sweepEvery = 512

// Config configures a Limiter. A zero RPS or Burst disables limiting.
type Config struct {
	// RPS is the sustained number of requests per second per key.
	RPS float64 `mapstructure:"rps" yaml:"rps" json:"rps" validate:"gte=0"`

	// Burst is the bucket size per key.
	Burst int `mapstructure:"burst" yaml:"burst" json:"burst" validate:"gte=0"`

	// IdleTTL evicts buckets unused for this long. Default: 10m.
	IdleTTL time.Duration `mapstructure:"idle_ttl" yaml:"idle_ttl" json:"idle_ttl"`
}

// Enabled reports whether the config limits anything.
func (c Config) Enabled() bool {
	return c.RPS > 0 && c.Burst > 0
}

// Limiter applies one token bucket per key. A nil *Limiter allows
// everything.
type Limiter struct {
	limit   rate.Limit
	burst   int
	idleTTL time.Duration

	mu    sync.Mutex
	byKey map[string]*entry
	hits  uint64
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// New creates a limiter, or returns nil when cfg is disabled.
func New(cfg Config) *Limiter {
	if !cfg.Enabled() {
		return nil
	}
	ttl := cfg.IdleTTL
	if ttl <= 0 {
		ttl = DefaultIdleTTL
	}
	return &Limiter{
		limit:   rate.Limit(cfg.RPS),
		burst:   cfg.Burst,
		idleTTL: ttl,
		byKey:   make(map[string]*entry),
	}
}

// Allow reports whether one token can be taken for key at now. Blank keys
// are never limited.
func (l *Limiter) Allow(key string, now time.Time) bool {
	if l == nil {
		return true
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.byKey[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.byKey[key] = e
	}
	e.lastSeen = now
	allowed := e.limiter.AllowN(now, 1)

	l.hits++
	if l.hits%sweepEvery == 0 {
		l.sweepLocked(now)
	}
	return allowed
}

// Len returns the number of tracked keys.
func (l *Limiter) Len() int {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.byKey)
}

func (l *Limiter) sweepLocked(now time.Time) {
	cutoff := now.Add(-l.idleTTL)
	for k, e := range l.byKey {
		if e.lastSeen.Before(cutoff) {
			delete(l.byKey, k)
		}
	}
}
