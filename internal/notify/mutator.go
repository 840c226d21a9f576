package notify

import (
	"context"
	"time"
)

// MutationClient issues read-state mutations to the server.
type MutationClient interface {
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context) error
}

// Mutator transitions notifications to read, optimistically in the
// store first and then on the server, rolling the store back when the
// server rejects the change. These are best-effort convenience writes;
// callers surface failures as transient inline notices at most.
type Mutator struct {
	client  MutationClient
	store   *Store
	flights *flights
	timeout time.Duration
}

// NewMutator creates a mutator over the given client and store.
func NewMutator(client MutationClient, store *Store, fl *flights, timeout time.Duration) *Mutator {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if fl == nil {
		fl = &flights{}
	}
	return &Mutator{
		client:  client,
		store:   store,
		flights: fl,
		timeout: timeout,
	}
}

// MarkRead marks one notification read. Marking an item that is already
// read (or not loaded) is a no-op and issues no server call. On server
// failure the item's flag and the unread count revert to their exact
// pre-optimistic values, unless a newer mutation has started since.
func (m *Mutator) MarkRead(ctx context.Context, id string) error {
	// Register before the optimistic write so no poll or fetch response
	// can land between the store change and the in-flight guard.
	gen := m.flights.begin()

	if !m.store.MarkItem(id, true) {
		m.flights.cancel(gen)
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	err := m.client.MarkRead(ctx, id)
	cancel()

	m.flights.end()

	if err != nil {
		if m.flights.newest(gen) {
			m.store.MarkItem(id, false)
		}
		return err
	}
	return nil
}

// MarkAllRead marks every notification read: all loaded items flip and
// the unread count drops to zero, covering notifications beyond the
// loaded page. On server failure the snapshot is restored, unless a
// newer mutation has started since. Calling it twice in a row ends in
// the same state as calling it once.
func (m *Mutator) MarkAllRead(ctx context.Context) error {
	gen := m.flights.begin()

	snap := m.store.Snapshot()
	changed := m.store.MarkAll(true)
	m.store.SetUnreadCount(0)

	if changed == 0 && snap.UnreadCount == 0 {
		m.flights.cancel(gen)
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	err := m.client.MarkAllRead(ctx)
	cancel()

	m.flights.end()

	if err != nil {
		if m.flights.newest(gen) {
			m.store.Restore(snap)
		}
		return err
	}
	return nil
}
