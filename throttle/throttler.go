// Package throttle provides a per-host minimum-interval gate for
// outbound fetch requests.
package throttle

import (
	"context"
	"sync"
	"time"

	"github.com/fwojciec/bogrep"
	"golang.org/x/time/rate"
)

var _ bogrep.Throttler = (*Throttler)(nil)

// Throttler enforces a minimum interval between consecutive requests to
// the same host using one token-bucket limiter per host. Concurrent
// waiters for the same host are serialized by the limiter itself;
// waiters for different hosts never block each other.
type Throttler struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	interval time.Duration
}

// New creates a Throttler enforcing at most one request per interval to
// any single host. An interval of zero disables throttling.
func New(interval time.Duration) *Throttler {
	return &Throttler{
		limiters: make(map[string]*rate.Limiter),
		interval: interval,
	}
}

// Wait blocks until it is safe to issue the next request to host, or
// returns ctx.Err() if cancelled first.
func (t *Throttler) Wait(ctx context.Context, host string) error {
	t.mu.Lock()
	limiter, ok := t.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(t.interval), 1)
		t.limiters[host] = limiter
	}
	t.mu.Unlock()

	return limiter.Wait(ctx)
}
