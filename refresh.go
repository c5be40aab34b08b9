package folio

import (
	"context"
	"sync"
	"time"

	"github.com/etnz/folio/logger"
)

// DefaultRefreshInterval is the polling period of the holdings.
const DefaultRefreshInterval = 10 * time.Second

// Refresher calls a fetch function immediately and then on a fixed interval,
// until stopped.
//
// At most one fetch is in flight at any time: ticks that fire during a fetch
// are dropped, and refresh requests made with Trigger coalesce into a single
// pending fetch. Since fetches never overlap, their results cannot arrive out
// of order.
type Refresher struct {
	interval time.Duration
	fetch    func(context.Context)

	trigger chan struct{}
	done    chan struct{}

	mu      sync.Mutex
	cancel  context.CancelFunc
	stopped bool
}

// NewRefresher returns a refresher that is not started yet.
func NewRefresher(interval time.Duration, fetch func(context.Context)) *Refresher {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return &Refresher{
		interval: interval,
		fetch:    fetch,
		trigger:  make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
}

// Start runs the loop in a new goroutine until ctx is done or Stop is called.
// A Refresher runs at most once: Start after Start or Stop does nothing.
func (r *Refresher) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil || r.stopped {
		return
	}
	ctx, r.cancel = context.WithCancel(ctx)
	go r.run(ctx)
}

// Trigger requests a fetch as soon as the current one, if any, is over.
func (r *Refresher) Trigger() {
	select {
	case r.trigger <- struct{}{}:
	default: // one is already pending
	}
}

// Stop cancels the in-flight fetch, if any, and waits for the loop to exit.
// No fetch is started after Stop returns.
func (r *Refresher) Stop() {
	r.mu.Lock()
	r.stopped = true
	cancel := r.cancel
	r.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-r.done
}

func (r *Refresher) run(ctx context.Context) {
	defer close(r.done)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.fetchAndDrop(ctx, ticker)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-r.trigger:
		}
		// select picks randomly among ready cases.
		if ctx.Err() != nil {
			return
		}
		r.fetchAndDrop(ctx, ticker)
	}
}

// fetchAndDrop fetches, then drops the tick that fired meanwhile, if any.
func (r *Refresher) fetchAndDrop(ctx context.Context, ticker *time.Ticker) {
	r.fetch(ctx)
	select {
	case <-ticker.C:
		logger.FromContext(ctx).Debug("refresh tick dropped: previous fetch still running")
	default:
	}
}
