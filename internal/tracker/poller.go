package tracker

import (
	"context"
	"sync"
	"time"
)

// Poller is the refresh timer. It emits one tick as soon as it starts and one
// per interval afterwards, until Stop is called or its context ends.
//
// Ticks are not queued: if the reader falls behind, missed ticks are dropped
// the same way time.Ticker drops them.
type Poller struct {
	interval time.Duration

	mu      sync.Mutex
	ticks   chan time.Time
	cancel  context.CancelFunc
	done    chan struct{}
	started bool
	stopped bool
}

// NewPoller creates a stopped poller. interval must be positive.
func NewPoller(interval time.Duration) *Poller {
	if interval <= 0 {
		panic("tracker: non-positive poll interval")
	}
	return &Poller{
		interval: interval,
		ticks:    make(chan time.Time),
		done:     make(chan struct{}),
	}
}

// Interval returns the time between ticks
func (p *Poller) Interval() time.Duration {
	return p.interval
}

// Start launches the timer goroutine and returns the tick channel. The
// channel is closed once the poller stops. Calling Start again returns the
// same channel; calling it after Stop returns the closed channel.
func (p *Poller) Start(ctx context.Context) <-chan time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started || p.stopped {
		return p.ticks
	}
	p.started = true

	ctx, p.cancel = context.WithCancel(ctx)
	go p.run(ctx)
	return p.ticks
}

// Stop cancels the timer and waits for its goroutine to exit. It is safe to
// call more than once and before Start.
func (p *Poller) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	started := p.started
	cancel := p.cancel
	p.mu.Unlock()

	if !started {
		close(p.ticks)
		close(p.done)
		return
	}
	cancel()
	<-p.done
}

// Done is closed after the timer goroutine has exited
func (p *Poller) Done() <-chan struct{} {
	return p.done
}

func (p *Poller) run(ctx context.Context) {
	defer close(p.done)
	defer close(p.ticks)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	// First fetch happens immediately
	if !p.emit(ctx, time.Now()) {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case t := <-ticker.C:
			if !p.emit(ctx, t) {
				return
			}
		}
	}
}

func (p *Poller) emit(ctx context.Context, t time.Time) bool {
	select {
	case p.ticks <- t:
		return true
	case <-ctx.Done():
		return false
	}
}
