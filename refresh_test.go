package folio

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRefresherFetchesImmediately(t *testing.T) {
	var calls atomic.Int32
	r := NewRefresher(time.Hour, func(context.Context) { calls.Add(1) })
	r.Start(context.Background())
	defer r.Stop()

	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond,
		"first fetch must not wait for the interval")
}

func TestRefresherFetchesPeriodically(t *testing.T) {
	var calls atomic.Int32
	r := NewRefresher(20*time.Millisecond, func(context.Context) { calls.Add(1) })
	r.Start(context.Background())
	defer r.Stop()

	require.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
}

func TestRefresherDropsTickDuringFirstFetch(t *testing.T) {
	var mu sync.Mutex
	var starts, ends []time.Time
	r := NewRefresher(100*time.Millisecond, func(context.Context) {
		mu.Lock()
		first := len(starts) == 0
		starts = append(starts, time.Now())
		mu.Unlock()
		if first {
			time.Sleep(150 * time.Millisecond) // spans the tick at +100ms
		}
		mu.Lock()
		ends = append(ends, time.Now())
		mu.Unlock()
	})
	r.Start(context.Background())
	defer r.Stop()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(starts) >= 2
	}, time.Second, time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	// The second fetch waits for the tick at +200ms instead of running right
	// after the first one.
	require.GreaterOrEqual(t, starts[1].Sub(ends[0]), 20*time.Millisecond)
}

func TestRefresherStop(t *testing.T) {
	var calls atomic.Int32
	r := NewRefresher(5*time.Millisecond, func(context.Context) { calls.Add(1) })
	r.Start(context.Background())
	require.Eventually(t, func() bool { return calls.Load() >= 2 }, time.Second, time.Millisecond)

	r.Stop()
	stopped := calls.Load()
	time.Sleep(30 * time.Millisecond)
	require.Equal(t, stopped, calls.Load(), "no fetch after Stop")

	r.Start(context.Background()) // a stopped refresher does not restart
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, stopped, calls.Load())
}

func TestRefresherStopCancelsFetch(t *testing.T) {
	cancelled := make(chan struct{})
	r := NewRefresher(time.Hour, func(ctx context.Context) {
		<-ctx.Done()
		close(cancelled)
	})
	r.Start(context.Background())
	r.Stop()

	select {
	case <-cancelled:
	default:
		t.Fatal("Stop() returned before the in-flight fetch was cancelled")
	}
}

func TestRefresherNeverOverlaps(t *testing.T) {
	var inFlight, peak, calls atomic.Int32
	r := NewRefresher(time.Millisecond, func(context.Context) {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		if n > peak.Load() {
			peak.Store(n)
		}
		calls.Add(1)
		time.Sleep(10 * time.Millisecond) // much slower than the interval
	})
	r.Start(context.Background())
	for i := 0; i < 20; i++ {
		r.Trigger()
		time.Sleep(time.Millisecond)
	}
	require.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, time.Millisecond)
	r.Stop()

	require.EqualValues(t, 1, peak.Load(), "fetches must not overlap")
}

func TestRefresherTrigger(t *testing.T) {
	var calls atomic.Int32
	r := NewRefresher(time.Hour, func(context.Context) { calls.Add(1) })
	r.Start(context.Background())
	defer r.Stop()
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)

	r.Trigger()
	require.Eventually(t, func() bool { return calls.Load() == 2 }, time.Second, time.Millisecond)
}

func TestRefresherStopBeforeStart(t *testing.T) {
	r := NewRefresher(time.Millisecond, func(context.Context) { t.Error("unexpected fetch") })
	r.Stop()
	r.Start(context.Background())
	time.Sleep(5 * time.Millisecond)
}
