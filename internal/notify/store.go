package notify

import (
	"sync"

	"github.com/nhle/community-notify/internal/model"
)

// Store is the in-memory source of truth for the unread count and the
// currently loaded notification page, scoped to the active session. It
// holds no network logic and is cleared on logout. Every mutation goes
// through its methods so the count and the items can never be observed
// disagreeing mid-update.
type Store struct {
	mu     sync.Mutex
	unread int
	items  []model.Notification
}

// Snapshot captures per-item read flags and the unread count so a failed
// bulk mutation can restore the exact pre-optimistic state.
type Snapshot struct {
	UnreadCount int
	Read        map[string]bool
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// SetUnreadCount replaces the unread count, clamped to zero. The count
// always comes from the dedicated endpoint; it is never derived from the
// loaded page, which may be a strict subset of all notifications.
func (s *Store) SetUnreadCount(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n < 0 {
		n = 0
	}
	s.unread = n
}

// UnreadCount returns the current unread count.
func (s *Store) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unread
}

// SetItems replaces the loaded page, preserving server order.
func (s *Store) SetItems(list []model.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make([]model.Notification, len(list))
	copy(s.items, list)
}

// Items returns a copy of the loaded page in server order.
func (s *Store) Items() []model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Notification, len(s.items))
	copy(out, s.items)
	return out
}

// MarkItem sets the read flag on a single loaded item and moves the
// unread count with it in the same critical section. It reports whether
// a change occurred; marking an already-read item read is a no-op.
func (s *Store) MarkItem(id string, read bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID != id {
			continue
		}
		if s.items[i].Read == read {
			return false
		}
		s.items[i].Read = read
		if read {
			if s.unread > 0 {
				s.unread--
			}
		} else {
			s.unread++
		}
		return true
	}
	return false
}

// MarkAll sets the read flag on every loaded item and moves the unread
// count by the number of items actually changed, which it returns.
func (s *Store) MarkAll(read bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := 0
	for i := range s.items {
		if s.items[i].Read == read {
			continue
		}
		s.items[i].Read = read
		changed++
	}

	if read {
		s.unread -= changed
		if s.unread < 0 {
			s.unread = 0
		}
	} else {
		s.unread += changed
	}
	return changed
}

// Snapshot captures the current read flags and unread count.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	read := make(map[string]bool, len(s.items))
	for i := range s.items {
		read[s.items[i].ID] = s.items[i].Read
	}
	return Snapshot{UnreadCount: s.unread, Read: read}
}

// Restore applies a snapshot taken earlier, resetting read flags and the
// unread count in one critical section.
func (s *Store) Restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if prev, ok := snap.Read[s.items[i].ID]; ok {
			s.items[i].Read = prev
		}
	}
	n := snap.UnreadCount
	if n < 0 {
		n = 0
	}
	s.unread = n
}

// Clear drops all state on logout or session loss.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.unread = 0
	s.items = nil
}
