package model

import "time"

// NotificationType identifies the broad category of a notification.
// The set is server-owned and may grow; unknown values must still render.
type NotificationType string

const (
	TypeSystem            NotificationType = "system"
	TypeBusiness          NotificationType = "business"
	TypeOpportunity       NotificationType = "opportunity"
	TypeEvent             NotificationType = "event"
	TypeGroupEvent        NotificationType = "group_event"
	TypeRelationshipEvent NotificationType = "relationship_event"
)

// EventType is the fine-grained subtype carried by group and relationship
// notifications. It is empty for every other notification type.
type EventType string

const (
	EventGroupInvite          EventType = "GROUP_INVITE"
	EventGroupJoinRequest     EventType = "GROUP_JOIN_REQUEST"
	EventGroupRequestAccepted EventType = "GROUP_REQUEST_ACCEPTED"
	EventGroupEventCreated    EventType = "GROUP_EVENT_CREATED"

	EventRelationshipRequest  EventType = "RELATIONSHIP_REQUEST"
	EventRelationshipAccepted EventType = "RELATIONSHIP_ACCEPTED"
	EventRelationshipDeclined EventType = "RELATIONSHIP_DECLINED"
)

// Notification is a single server-issued notification. Everything except
// Read is read-only on the client; Read changes only through explicit
// mark-read actions, never as a side effect of fetching or viewing.
type Notification struct {
	// ID is the opaque server-assigned identifier.
	ID string `json:"id"`

	// Type is the broad category (system, business, group_event, ...).
	Type NotificationType `json:"type"`

	// EventType is the optional subtype for group and relationship events.
	EventType EventType `json:"event_type,omitempty"`

	// Title is the short display heading.
	Title string `json:"title"`

	// Message is the full display text.
	Message string `json:"message"`

	// Link is an optional in-app path to open when the user clicks.
	Link string `json:"link,omitempty"`

	// Read reports whether the user has marked this notification read.
	Read bool `json:"read"`

	// CreatedAt feeds relative-time display. The server's list ordering
	// is authoritative; the client never re-sorts.
	CreatedAt time.Time `json:"created_at"`
}
