package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeMutationClient records mutation calls and returns configured errors.
type fakeMutationClient struct {
	mu            sync.Mutex
	markReadErr   error
	markAllErr    error
	markReadCalls []string
	markAllCalls  int
}

func (c *fakeMutationClient) MarkRead(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.markReadCalls = append(c.markReadCalls, id)
	return c.markReadErr
}

func (c *fakeMutationClient) MarkAllRead(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.markAllCalls++
	return c.markAllErr
}

func (c *fakeMutationClient) readCalls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.markReadCalls...)
}

func (c *fakeMutationClient) allCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.markAllCalls
}

func newMutatorHarness(client MutationClient) (*Mutator, *Store) {
	store := NewStore()
	store.SetItems(testPage())
	store.SetUnreadCount(2)
	return NewMutator(client, store, &flights{}, time.Second), store
}

func TestMutatorMarkRead(t *testing.T) {
	client := &fakeMutationClient{}
	m, store := newMutatorHarness(client)

	require.NoError(t, m.MarkRead(context.Background(), "n1"))

	require.Equal(t, []string{"n1"}, client.readCalls())
	require.True(t, store.Items()[0].Read)
	require.Equal(t, 1, store.UnreadCount())
}

func TestMutatorMarkReadRollsBackOnServerFailure(t *testing.T) {
	client := &fakeMutationClient{markReadErr: errors.New("boom")}
	m, store := newMutatorHarness(client)

	err := m.MarkRead(context.Background(), "n1")
	require.Error(t, err)

	// Flag and count revert to their pre-optimistic values.
	require.False(t, store.Items()[0].Read)
	require.Equal(t, 2, store.UnreadCount())
}

func TestMutatorMarkReadAlreadyReadSkipsServer(t *testing.T) {
	client := &fakeMutationClient{}
	m, store := newMutatorHarness(client)

	// n3 is already read.
	require.NoError(t, m.MarkRead(context.Background(), "n3"))
	require.Empty(t, client.readCalls())
	require.Equal(t, 2, store.UnreadCount())

	require.NoError(t, m.MarkRead(context.Background(), "missing"))
	require.Empty(t, client.readCalls())
}

func TestMutatorMarkAllRead(t *testing.T) {
	client := &fakeMutationClient{}
	m, store := newMutatorHarness(client)

	// Unread notifications exist beyond the loaded page.
	store.SetUnreadCount(7)

	require.NoError(t, m.MarkAllRead(context.Background()))

	require.Equal(t, 1, client.allCalls())
	require.Equal(t, 0, store.UnreadCount())
	for _, n := range store.Items() {
		require.True(t, n.Read)
	}
}

func TestMutatorMarkAllReadRestoresSnapshotOnFailure(t *testing.T) {
	client := &fakeMutationClient{markAllErr: errors.New("boom")}
	m, store := newMutatorHarness(client)
	store.SetUnreadCount(7)

	err := m.MarkAllRead(context.Background())
	require.Error(t, err)

	require.Equal(t, 7, store.UnreadCount())
	items := store.Items()
	require.False(t, items[0].Read)
	require.False(t, items[1].Read)
	require.True(t, items[2].Read)
}

func TestMutatorMarkAllReadIdempotent(t *testing.T) {
	client := &fakeMutationClient{}
	m, store := newMutatorHarness(client)

	require.NoError(t, m.MarkAllRead(context.Background()))
	require.NoError(t, m.MarkAllRead(context.Background()))

	// The second call found nothing to change and issued no request.
	require.Equal(t, 1, client.allCalls())
	require.Equal(t, 0, store.UnreadCount())
}

// gatedMutationClient blocks MarkRead until released so a failure can be
// made to resolve after a later mutation.
type gatedMutationClient struct {
	fakeMutationClient
	entered chan struct{}
	release chan struct{}
}

func (c *gatedMutationClient) MarkRead(_ context.Context, id string) error {
	close(c.entered)
	<-c.release
	return errors.New("boom")
}

func TestMutatorSuppressesPollResponseWhileInFlight(t *testing.T) {
	store := NewStore()
	store.SetItems(testPage())
	store.SetUnreadCount(2)
	fl := &flights{}

	countEntered := make(chan struct{})
	countRelease := make(chan struct{})
	counts := countClientFunc(func(context.Context) (int, error) {
		close(countEntered)
		<-countRelease
		return 9, nil
	})
	p := NewPoller(counts, store, fl, time.Hour, time.Second, nil)

	client := &gatedMutationClient{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	m := NewMutator(client, store, fl, time.Second)

	// A count request dispatched before the mutation stalls in flight.
	p.Poll()
	<-countEntered

	done := make(chan error, 1)
	go func() {
		done <- m.MarkRead(context.Background(), "n1")
	}()
	<-client.entered
	require.Equal(t, 1, store.UnreadCount())

	// The pre-mutation response resolves now; the optimistic count must
	// win over it.
	close(countRelease)
	require.Never(t, func() bool {
		return store.UnreadCount() == 9
	}, 100*time.Millisecond, 10*time.Millisecond)

	close(client.release)
	require.Error(t, <-done)

	// The failed mutation rolled back to the pre-optimistic state, not
	// to the stale poll value.
	require.Equal(t, 2, store.UnreadCount())
	require.False(t, store.Items()[0].Read)
}

func TestMutatorNoopDoesNotBlockOlderRollback(t *testing.T) {
	client := &gatedMutationClient{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	store := NewStore()
	store.SetItems(testPage())
	store.SetUnreadCount(2)
	m := NewMutator(client, store, &flights{}, time.Second)

	done := make(chan error, 1)
	go func() {
		done <- m.MarkRead(context.Background(), "n1")
	}()
	<-client.entered

	// n3 is already read, so this changes nothing and must not count as
	// a newer mutation.
	require.NoError(t, m.MarkRead(context.Background(), "n3"))

	close(client.release)
	require.Error(t, <-done)

	// The in-flight mutation was still the newest real one; its failure
	// rolls the store back.
	require.False(t, store.Items()[0].Read)
	require.Equal(t, 2, store.UnreadCount())
}

func TestMutatorStaleFailureDoesNotUnwindNewerMutation(t *testing.T) {
	client := &gatedMutationClient{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	store := NewStore()
	store.SetItems(testPage())
	store.SetUnreadCount(2)
	m := NewMutator(client, store, &flights{}, time.Second)

	done := make(chan error, 1)
	go func() {
		done <- m.MarkRead(context.Background(), "n1")
	}()
	<-client.entered

	// A bulk mark starts while the single mark is still in flight.
	require.NoError(t, m.MarkAllRead(context.Background()))
	require.Equal(t, 0, store.UnreadCount())

	// The older mutation now fails; it must not roll anything back.
	close(client.release)
	require.Error(t, <-done)

	require.Equal(t, 0, store.UnreadCount())
	for _, n := range store.Items() {
		require.True(t, n.Read)
	}
}
