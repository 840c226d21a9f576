package notify

import "sync"

// flights tracks in-flight read-state mutations. While any mutation is
// outstanding, poll and fetch responses are discarded so the optimistic
// state stays authoritative until the mutation's own round-trip
// resolves. Each mutation also takes a generation number; a failed
// mutation rolls back only while it is still the newest one, so a
// straggling single-item failure can never unwind a later bulk mark.
type flights struct {
	mu   sync.Mutex
	gen  uint64
	open int
}

// begin registers a new mutation and returns its generation.
func (f *flights) begin() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.gen++
	f.open++
	return f.gen
}

// cancel retires a registration whose mutation turned out to be a
// no-op, restoring the previous generation when no newer mutation has
// started since.
func (f *flights) cancel(gen uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.open > 0 {
		f.open--
	}
	if f.gen == gen {
		f.gen--
	}
}

// end retires a mutation registered with begin.
func (f *flights) end() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.open > 0 {
		f.open--
	}
}

// busy reports whether any mutation is in flight.
func (f *flights) busy() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.open > 0
}

// newest reports whether gen is still the most recently started mutation.
func (f *flights) newest(gen uint64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gen == gen
}
