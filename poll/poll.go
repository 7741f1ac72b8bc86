package poll

import (
	"context"
	"sync"
	"time"
)

// DefaultInterval matches the product's retraining-status poll cadence.
const DefaultInterval = 15 * time.Second

// Func is one poll tick. A returned error does not stop the poller;
// transient failures are the normal case while a backend retrains.
type Func func(ctx context.Context) error

// Poller invokes a Func on a fixed interval.
//
// Contract:
// - Lifetime: ticking stops when the context given to Start is done or
//   Stop is called, whichever comes first. Stop is idempotent and safe
//   from any goroutine.
// - Concurrency: ticks never overlap; a slow tick delays the next one.
type Poller struct {
	interval  time.Duration
	immediate bool

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	started bool
}

// Option configures a Poller.
type Option func(*Poller)

// WithInterval overrides DefaultInterval.
func WithInterval(d time.Duration) Option {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithImmediate runs the first tick at Start instead of waiting one
// interval.
func WithImmediate() Option {
	return func(p *Poller) {
		p.immediate = true
	}
}

// New creates a Poller.
func New(opts ...Option) *Poller {
	p := &Poller{interval: DefaultInterval}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start begins ticking fn until ctx ends or Stop is called. Calling
// Start on a running poller is a no-op.
func (p *Poller) Start(ctx context.Context, fn Func) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.started = true

	go p.run(ctx, fn)
}

func (p *Poller) run(ctx context.Context, fn Func) {
	defer close(p.done)

	if p.immediate {
		if ctx.Err() != nil {
			return
		}
		_ = fn(ctx)
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = fn(ctx)
		}
	}
}

// Stop cancels the poller and waits for the in-flight tick, if any,
// to return. Safe to call multiple times and before Start.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	done := p.done
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}
