package notify

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nhle/community-notify/internal/model"
)

func testPage() []model.Notification {
	return []model.Notification{
		{ID: "n1", Type: model.TypeSystem, Title: "Maintenance window", Read: false},
		{ID: "n2", Type: model.TypeGroupEvent, Title: "Invited to Builders", Read: false},
		{ID: "n3", Type: model.TypeBusiness, Title: "Profile approved", Read: true},
	}
}

func TestStoreSetUnreadCountClampsNegative(t *testing.T) {
	s := NewStore()

	s.SetUnreadCount(7)
	require.Equal(t, 7, s.UnreadCount())

	s.SetUnreadCount(-3)
	require.Equal(t, 0, s.UnreadCount())
}

func TestStoreSetItemsPreservesServerOrder(t *testing.T) {
	s := NewStore()
	page := testPage()
	s.SetItems(page)

	got := s.Items()
	require.Len(t, got, 3)
	require.Equal(t, "n1", got[0].ID)
	require.Equal(t, "n2", got[1].ID)
	require.Equal(t, "n3", got[2].ID)

	// Mutating the caller's slice or the returned copy must not reach
	// the store.
	page[0].Read = true
	got[1].Read = true
	fresh := s.Items()
	require.False(t, fresh[0].Read)
	require.False(t, fresh[1].Read)
}

func TestStoreMarkItemMovesUnreadCount(t *testing.T) {
	s := NewStore()
	s.SetItems(testPage())
	s.SetUnreadCount(2)

	require.True(t, s.MarkItem("n1", true))
	require.Equal(t, 1, s.UnreadCount())
	require.True(t, s.Items()[0].Read)

	// Already read: no change reported, count untouched.
	require.False(t, s.MarkItem("n1", true))
	require.Equal(t, 1, s.UnreadCount())

	// Flipping back to unread moves the count the other way.
	require.True(t, s.MarkItem("n1", false))
	require.Equal(t, 2, s.UnreadCount())
}

func TestStoreMarkItemUnknownID(t *testing.T) {
	s := NewStore()
	s.SetItems(testPage())
	s.SetUnreadCount(2)

	require.False(t, s.MarkItem("missing", true))
	require.Equal(t, 2, s.UnreadCount())
}

func TestStoreMarkAllReturnsChanged(t *testing.T) {
	s := NewStore()
	s.SetItems(testPage())

	// The count may exceed the loaded page; only the delta from the
	// page's own flips is applied here.
	s.SetUnreadCount(5)

	changed := s.MarkAll(true)
	require.Equal(t, 2, changed)
	require.Equal(t, 3, s.UnreadCount())

	for _, n := range s.Items() {
		require.True(t, n.Read)
	}

	require.Equal(t, 0, s.MarkAll(true))
}

func TestStoreMarkAllClampsCount(t *testing.T) {
	s := NewStore()
	s.SetItems(testPage())
	s.SetUnreadCount(1)

	s.MarkAll(true)
	require.Equal(t, 0, s.UnreadCount())
}

func TestStoreSnapshotRestore(t *testing.T) {
	s := NewStore()
	s.SetItems(testPage())
	s.SetUnreadCount(4)

	snap := s.Snapshot()

	s.MarkAll(true)
	s.SetUnreadCount(0)
	require.Equal(t, 0, s.UnreadCount())

	s.Restore(snap)
	require.Equal(t, 4, s.UnreadCount())
	items := s.Items()
	require.False(t, items[0].Read)
	require.False(t, items[1].Read)
	require.True(t, items[2].Read)
}

func TestStoreClear(t *testing.T) {
	s := NewStore()
	s.SetItems(testPage())
	s.SetUnreadCount(2)

	s.Clear()
	require.Equal(t, 0, s.UnreadCount())
	require.Empty(t, s.Items())
}
