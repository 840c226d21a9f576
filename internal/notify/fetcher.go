package notify

import (
	"context"
	"sync"
	"time"

	"github.com/nhle/community-notify/internal/api"
	"github.com/nhle/community-notify/internal/model"
)

// ListClient fetches a page of notifications.
type ListClient interface {
	List(ctx context.Context, opts api.ListOptions) ([]model.Notification, error)
}

// FetchOptions selects the page to load. Limit and UnreadOnly are
// forwarded to the server; Type is narrowed client-side after the
// authoritative fetch because the server has no type filter.
type FetchOptions struct {
	Limit      int
	UnreadOnly bool
	Type       model.NotificationType
}

// Fetcher loads a bounded page of notifications into the store. The
// first Load for a given option set fetches; subsequent Loads with the
// same options reuse the cached page until Invalidate is called or the
// options change.
type Fetcher struct {
	client  ListClient
	store   *Store
	flights *flights
	timeout time.Duration

	mu     sync.Mutex
	loaded bool
	last   FetchOptions
}

// NewFetcher creates a fetcher over the given client and store.
func NewFetcher(client ListClient, store *Store, fl *flights, timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if fl == nil {
		fl = &flights{}
	}
	return &Fetcher{
		client:  client,
		store:   store,
		flights: fl,
		timeout: timeout,
	}
}

// Load fetches the page described by opts unless it is already the
// cached page. On failure the store is left untouched so the previous
// items keep rendering behind a load-failure notice.
func (f *Fetcher) Load(ctx context.Context, opts FetchOptions) error {
	f.mu.Lock()
	if f.loaded && opts == f.last {
		f.mu.Unlock()
		return nil
	}
	f.mu.Unlock()

	return f.Reload(ctx, opts)
}

// Reload fetches unconditionally, bypassing the cache.
func (f *Fetcher) Reload(ctx context.Context, opts FetchOptions) error {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	items, err := f.client.List(ctx, api.ListOptions{
		Limit:      opts.Limit,
		UnreadOnly: opts.UnreadOnly,
	})
	if err != nil {
		return err
	}

	if opts.Type != "" {
		narrowed := make([]model.Notification, 0, len(items))
		for _, n := range items {
			if n.Type == opts.Type {
				narrowed = append(narrowed, n)
			}
		}
		items = narrowed
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.flights.busy() {
		// A mutation's optimistic state is authoritative; drop this
		// page and refetch on the next open.
		f.loaded = false
		return nil
	}

	f.store.SetItems(items)
	f.loaded = true
	f.last = opts
	return nil
}

// Invalidate discards the cached page so the next Load refetches.
func (f *Fetcher) Invalidate() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loaded = false
}
