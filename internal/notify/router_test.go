package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nhle/community-notify/internal/model"
)

// recordingNav records every navigation and fails for configured paths.
type recordingNav struct {
	paths []string
	fail  map[string]bool
}

func (n *recordingNav) Navigate(path string) error {
	n.paths = append(n.paths, path)
	if n.fail[path] {
		return errors.New("unknown route")
	}
	return nil
}

func newRouterHarness(client MutationClient, nav Navigator) (*Router, *Store) {
	store := NewStore()
	store.SetItems(testPage())
	store.SetUnreadCount(2)
	m := NewMutator(client, store, &flights{}, time.Second)
	return NewRouter(m, nav), store
}

func TestRouterOpenFollowsLink(t *testing.T) {
	nav := &recordingNav{}
	r, store := newRouterHarness(&fakeMutationClient{}, nav)

	n := model.Notification{ID: "n2", Type: model.TypeGroupEvent, Link: "/groups/42"}
	require.NoError(t, r.Open(context.Background(), n))

	require.Equal(t, []string{"/groups/42"}, nav.paths)
	require.True(t, store.Items()[1].Read)
	require.Equal(t, 1, store.UnreadCount())
}

func TestRouterFallsBackWhenNavigationFails(t *testing.T) {
	nav := &recordingNav{fail: map[string]bool{"/groups/42": true}}
	r, _ := newRouterHarness(&fakeMutationClient{}, nav)

	n := model.Notification{ID: "n2", Type: model.TypeGroupEvent, Link: "/groups/42"}
	require.NoError(t, r.Open(context.Background(), n))

	require.Equal(t, []string{"/groups/42", "/groups"}, nav.paths)
}

func TestRouterFallsBackOnMalformedLink(t *testing.T) {
	tests := []struct {
		name string
		link string
	}{
		{name: "absent", link: ""},
		{name: "relative", link: "groups/42"},
		{name: "absolute URL", link: "https://evil.example.com/groups"},
		{name: "scheme relative", link: "//evil.example.com/groups"},
		{name: "whitespace", link: "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nav := &recordingNav{}
			r, _ := newRouterHarness(&fakeMutationClient{}, nav)

			n := model.Notification{
				ID:   "n2",
				Type: model.TypeRelationshipEvent,
				Link: tt.link,
			}
			require.NoError(t, r.Open(context.Background(), n))
			require.Equal(t, []string{"/connections"}, nav.paths)
		})
	}
}

func TestRouterNavigatesEvenWhenMarkReadFails(t *testing.T) {
	nav := &recordingNav{}
	client := &fakeMutationClient{markReadErr: errors.New("boom")}
	r, store := newRouterHarness(client, nav)

	n := model.Notification{ID: "n1", Type: model.TypeSystem, Link: "/notifications/n1"}
	err := r.Open(context.Background(), n)
	require.Error(t, err)

	// Navigation still happened; the optimistic mark was rolled back.
	require.Equal(t, []string{"/notifications/n1"}, nav.paths)
	require.False(t, store.Items()[0].Read)
}

func TestFallbackRoute(t *testing.T) {
	tests := []struct {
		notifType model.NotificationType
		want      string
	}{
		{model.TypeGroupEvent, "/groups"},
		{model.TypeRelationshipEvent, "/connections"},
		{model.TypeBusiness, "/businesses"},
		{model.TypeOpportunity, "/opportunities"},
		{model.TypeEvent, "/events"},
		{model.TypeSystem, "/"},
		{"promo", "/"},
		{"", "/"},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, FallbackRoute(tt.notifType), "type %q", tt.notifType)
	}
}
