// Package ratelimit hands out one token bucket per key.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type Limiter[K comparable] interface {
	Allow(key K) bool
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Keyed keeps a bucket per key and forgets keys idle for longer than ttl.
type Keyed[K comparable] struct {
	mu      sync.Mutex
	buckets map[K]*entry
	every   rate.Limit
	burst   int
	ttl     time.Duration
	now     func() time.Time
}

var _ Limiter[int64] = (*Keyed[int64])(nil)

// NewKeyed allows requests per period for each key, with bursts up to burst.
// NewKeyed(1, 5*time.Second, 3) allows one request every five seconds after
// an initial burst of three.
func NewKeyed[K comparable](requests int, per time.Duration, burst int) *Keyed[K] {
	return &Keyed[K]{
		buckets: make(map[K]*entry),
		every:   rate.Every(per / time.Duration(requests)),
		burst:   burst,
		ttl:     30 * time.Minute,
		now:     time.Now,
	}
}

func (l *Keyed[K]) Allow(key K) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.buckets[key]
	if !ok {
		l.prune(now)
		e = &entry{limiter: rate.NewLimiter(l.every, l.burst)}
		l.buckets[key] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

func (l *Keyed[K]) prune(now time.Time) {
	for k, e := range l.buckets {
		if now.Sub(e.lastSeen) > l.ttl {
			delete(l.buckets, k)
		}
	}
}

func (l *Keyed[K]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}
