package notify

import (
	"context"
	"sync"
	"time"

	"github.com/nhle/community-notify/internal/model"
)

// Client is the API surface the center consumes: the notification list,
// the unread count, and the two read-state mutations.
type Client interface {
	CountClient
	ListClient
	MutationClient
}

// Options configures a Center.
type Options struct {
	// PollInterval is the unread-count refresh period.
	PollInterval time.Duration

	// Timeout bounds every network call the center makes.
	Timeout time.Duration
}

// EventKind discriminates events on the center's stream.
type EventKind int

const (
	// EventCount is emitted after a poll tick updates the unread count.
	EventCount EventKind = iota
)

// Event is a background update from the center. User-initiated
// operations report their outcome through return values instead.
type Event struct {
	Kind        EventKind
	UnreadCount int
}

// Center is the session-scoped notification client: it owns the store,
// the count poller, the page fetcher, and the read-state mutator, and
// is the only path between the rest of the application and the
// notification API. Create one when a session starts and Close it on
// logout so no timer outlives the session.
type Center struct {
	store   *Store
	fetcher *Fetcher
	mutator *Mutator
	poller  *Poller

	events    chan Event
	closeOnce sync.Once
}

// NewCenter wires a center over the given API client.
func NewCenter(client Client, opts Options) *Center {
	c := &Center{
		store:  NewStore(),
		events: make(chan Event, 16),
	}

	fl := &flights{}
	c.fetcher = NewFetcher(client, c.store, fl, opts.Timeout)
	c.mutator = NewMutator(client, c.store, fl, opts.Timeout)
	c.poller = NewPoller(
		client, c.store, fl,
		opts.PollInterval, opts.Timeout,
		func(n int) {
			c.emit(Event{Kind: EventCount, UnreadCount: n})
		},
	)

	return c
}

// Store exposes the read side consumed by the badge and list renderers.
func (c *Center) Store() *Store {
	return c.store
}

// Start begins background polling of the unread count.
func (c *Center) Start() {
	c.poller.Start()
}

// Close cancels polling and drops all session state. Safe to call more
// than once.
func (c *Center) Close() {
	c.closeOnce.Do(func() {
		c.poller.Stop()
		c.store.Clear()
	})
}

// Events is the stream of background updates. Renderers consume it to
// stay in sync with the poller.
func (c *Center) Events() <-chan Event {
	return c.events
}

// Poll triggers an immediate unread-count refresh outside the schedule.
func (c *Center) Poll() {
	c.poller.Poll()
}

// Load fetches a notification page through the cache (see Fetcher.Load).
func (c *Center) Load(ctx context.Context, opts FetchOptions) error {
	return c.fetcher.Load(ctx, opts)
}

// Reload fetches a notification page bypassing the cache.
func (c *Center) Reload(ctx context.Context, opts FetchOptions) error {
	return c.fetcher.Reload(ctx, opts)
}

// Invalidate discards the cached page.
func (c *Center) Invalidate() {
	c.fetcher.Invalidate()
}

// MarkRead marks one notification read (optimistic, rolled back on
// server failure).
func (c *Center) MarkRead(ctx context.Context, id string) error {
	return c.mutator.MarkRead(ctx, id)
}

// MarkAllRead marks everything read (optimistic, rolled back on server
// failure).
func (c *Center) MarkAllRead(ctx context.Context) error {
	return c.mutator.MarkAllRead(ctx)
}

// Open marks a notification read and navigates to its destination via
// the router's fallback policy.
func (c *Center) Open(ctx context.Context, n model.Notification, nav Navigator) error {
	r := NewRouter(c.mutator, nav)
	return r.Open(ctx, n)
}

// emit sends without blocking; a full channel drops the event, matching
// the poller's fire-and-forget contract.
func (c *Center) emit(e Event) {
	select {
	case c.events <- e:
	default:
	}
}
