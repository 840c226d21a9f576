package notify

import (
	"context"
	"sync"
	"time"
)

// CountClient fetches the server-computed unread count.
type CountClient interface {
	UnreadCount(ctx context.Context) (int, error)
}

// DefaultPollInterval is how often the unread count is refreshed when
// the configuration does not say otherwise.
const DefaultPollInterval = 30 * time.Second

// Poller keeps the unread badge approximately fresh while a session
// exists. Every tick dispatches exactly one request carrying a sequence
// number; a response is applied only if no later tick has been
// dispatched since, so a straggler from an earlier tick can never
// overwrite a later tick's result. Failures are swallowed: the previous
// count is retained and the next tick still fires on schedule.
type Poller struct {
	client   CountClient
	store    *Store
	flights  *flights
	interval time.Duration
	timeout  time.Duration
	onCount  func(int)

	mu      sync.Mutex
	seq     uint64
	stopCh  chan struct{}
	running bool
}

// NewPoller creates a poller. onCount is invoked after each applied
// update and may be nil.
func NewPoller(
	client CountClient,
	store *Store,
	fl *flights,
	interval time.Duration,
	timeout time.Duration,
	onCount func(int),
) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if fl == nil {
		fl = &flights{}
	}
	return &Poller{
		client:   client,
		store:    store,
		flights:  fl,
		interval: interval,
		timeout:  timeout,
		onCount:  onCount,
	}
}

// Start fires an immediate fetch and then polls at the configured
// interval until Stop is called. Calling Start on a running poller is
// a no-op.
func (p *Poller) Start() {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return
	}
	p.running = true
	p.stopCh = make(chan struct{})
	stopCh := p.stopCh
	p.mu.Unlock()

	p.Poll()

	go func() {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-stopCh:
				return
			case <-ticker.C:
				p.Poll()
			}
		}
	}()
}

// Stop halts the polling loop and releases its timer. Requests already
// in flight resolve but their results are discarded as stale once a
// newer tick is dispatched; none will fire after the session ends.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}
	close(p.stopCh)
	p.running = false
}

// Poll dispatches a single count fetch. Each call supersedes all earlier
// ones: last dispatched wins, by request identity rather than arrival
// order.
func (p *Poller) Poll() {
	p.mu.Lock()
	p.seq++
	seq := p.seq
	p.mu.Unlock()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		defer cancel()

		n, err := p.client.UnreadCount(ctx)
		if err != nil {
			// Retain the previous count; the next scheduled tick
			// retries on time.
			return
		}
		p.apply(seq, n)
	}()
}

// apply installs a tick's result unless it has been superseded or a
// read-state mutation is in flight.
func (p *Poller) apply(seq uint64, n int) {
	p.mu.Lock()
	stale := seq != p.seq
	p.mu.Unlock()

	if stale || p.flights.busy() {
		return
	}

	p.store.SetUnreadCount(n)
	if p.onCount != nil {
		p.onCount(n)
	}
}
