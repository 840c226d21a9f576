package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type countClientFunc func(ctx context.Context) (int, error)

func (f countClientFunc) UnreadCount(ctx context.Context) (int, error) {
	return f(ctx)
}

func TestPollerAppliesCount(t *testing.T) {
	store := NewStore()
	counts := make(chan int, 4)
	client := countClientFunc(func(context.Context) (int, error) {
		return 6, nil
	})
	p := NewPoller(client, store, &flights{}, time.Hour, time.Second, func(n int) {
		counts <- n
	})

	p.Poll()

	select {
	case n := <-counts:
		require.Equal(t, 6, n)
	case <-time.After(time.Second):
		t.Fatal("poll result never applied")
	}
	require.Equal(t, 6, store.UnreadCount())
}

func TestPollerLastDispatchedWins(t *testing.T) {
	store := NewStore()

	var mu sync.Mutex
	calls := 0
	entered := make(chan struct{})
	release := make(chan struct{})
	client := countClientFunc(func(context.Context) (int, error) {
		mu.Lock()
		call := calls
		calls++
		mu.Unlock()

		if call == 0 {
			close(entered)
			<-release
			return 9, nil
		}
		return 3, nil
	})

	p := NewPoller(client, store, &flights{}, time.Hour, time.Second, nil)

	// The first tick's request stalls; a second tick is dispatched while
	// it is still in flight.
	p.Poll()
	<-entered
	p.Poll()

	require.Eventually(t, func() bool {
		return store.UnreadCount() == 3
	}, time.Second, 5*time.Millisecond)

	// The stalled response arrives late and must be discarded.
	close(release)
	require.Never(t, func() bool {
		return store.UnreadCount() == 9
	}, 100*time.Millisecond, 10*time.Millisecond)
}

func TestPollerFailureRetainsCount(t *testing.T) {
	store := NewStore()
	store.SetUnreadCount(4)

	called := make(chan struct{}, 1)
	client := countClientFunc(func(context.Context) (int, error) {
		called <- struct{}{}
		return 0, errors.New("boom")
	})
	p := NewPoller(client, store, &flights{}, time.Hour, time.Second, nil)

	p.Poll()
	<-called

	require.Never(t, func() bool {
		return store.UnreadCount() != 4
	}, 100*time.Millisecond, 10*time.Millisecond)
}

func TestPollerSuppressedWhileMutationInFlight(t *testing.T) {
	store := NewStore()
	store.SetUnreadCount(2)

	fl := &flights{}
	fl.begin()

	called := make(chan struct{}, 1)
	client := countClientFunc(func(context.Context) (int, error) {
		called <- struct{}{}
		return 9, nil
	})
	p := NewPoller(client, store, fl, time.Hour, time.Second, nil)

	p.Poll()
	<-called

	// Optimistic mutation state stays authoritative.
	require.Never(t, func() bool {
		return store.UnreadCount() == 9
	}, 100*time.Millisecond, 10*time.Millisecond)

	fl.end()
}

func TestPollerStartPollsOnSchedule(t *testing.T) {
	store := NewStore()

	var mu sync.Mutex
	calls := 0
	client := countClientFunc(func(context.Context) (int, error) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		return n, nil
	})
	p := NewPoller(client, store, &flights{}, 10*time.Millisecond, time.Second, nil)

	p.Start()
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls >= 3
	}, time.Second, 5*time.Millisecond)

	p.Stop()
	time.Sleep(30 * time.Millisecond)
	mu.Lock()
	after := calls
	mu.Unlock()

	// No ticks fire after Stop.
	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	final := calls
	mu.Unlock()
	require.Equal(t, after, final)
}

func TestPollerStartTwiceIsNoop(t *testing.T) {
	store := NewStore()

	var mu sync.Mutex
	calls := 0
	client := countClientFunc(func(context.Context) (int, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		return 1, nil
	})
	p := NewPoller(client, store, &flights{}, time.Hour, time.Second, nil)
	defer p.Stop()

	p.Start()
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls == 1
	}, time.Second, 5*time.Millisecond)

	// Only the first Start fires an immediate fetch and owns the loop.
	p.Start()
	require.Never(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls > 1
	}, 100*time.Millisecond, 10*time.Millisecond)
}
