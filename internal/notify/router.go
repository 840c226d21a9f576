package notify

import (
	"context"
	"net/url"
	"strings"

	"github.com/nhle/community-notify/internal/model"
)

// Navigator is the application's page-transition mechanism. Navigate
// returns an error when the destination cannot be resolved (e.g., the
// route no longer exists).
type Navigator interface {
	Navigate(path string) error
}

// Router translates a click on a notification into navigation, tolerant
// of malformed or stale links.
type Router struct {
	mutator *Mutator
	nav     Navigator
}

// NewRouter creates a router that marks opened notifications read via
// the given mutator.
func NewRouter(m *Mutator, nav Navigator) *Router {
	return &Router{mutator: m, nav: nav}
}

// Open marks the notification read and then navigates: to its own link
// when present and well-formed, otherwise (or when that navigation
// fails) to the type-keyed fallback route. The mark-read fires first so
// the unread signal is never lost even if navigation fails; its error,
// if any, is returned for an inline notice and never blocks navigation.
func (r *Router) Open(ctx context.Context, n model.Notification) error {
	err := r.mutator.MarkRead(ctx, n.ID)
	r.route(n)
	return err
}

func (r *Router) route(n model.Notification) {
	if path, ok := normalizeLink(n.Link); ok {
		if r.nav.Navigate(path) == nil {
			return
		}
	}
	// Fallback routes are assumed to always exist; if even the generic
	// landing surface is gone there is nowhere left to send the user.
	_ = r.nav.Navigate(FallbackRoute(n.Type))
}

// FallbackRoute returns the default destination for a notification type,
// used when its own link is absent or fails to resolve.
func FallbackRoute(t model.NotificationType) string {
	switch t {
	case model.TypeGroupEvent:
		return "/groups"
	case model.TypeRelationshipEvent:
		return "/connections"
	case model.TypeBusiness:
		return "/businesses"
	case model.TypeOpportunity:
		return "/opportunities"
	case model.TypeEvent:
		return "/events"
	default:
		return "/"
	}
}

// normalizeLink validates that a link is a usable in-app path: rooted,
// with no scheme or host smuggled in.
func normalizeLink(link string) (string, bool) {
	link = strings.TrimSpace(link)
	if link == "" || !strings.HasPrefix(link, "/") {
		return "", false
	}
	u, err := url.Parse(link)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "", false
	}
	return link, true
}
