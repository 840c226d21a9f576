package notify

import "github.com/nhle/community-notify/internal/model"

// Badge is a semantic style token for a notification category. The
// theme maps tokens to concrete styles; the classifier stays pure.
type Badge string

const (
	BadgeNeutral Badge = "neutral"
	BadgeInfo    Badge = "info"
	BadgeSuccess Badge = "success"
	BadgeWarning Badge = "warning"
)

// Class is the display mapping for a notification category.
type Class struct {
	Icon  string
	Label string
	Badge Badge
}

// genericClass renders server-introduced kinds this client has no
// specific styling for yet.
var genericClass = Class{Icon: "[*]", Label: "Notification", Badge: BadgeNeutral}

// Classify maps a notification's type and subtype to its icon, label,
// and badge token. It is total: every input resolves to something
// renderable, falling back to the parent type's generic label when the
// subtype is absent or unrecognized, and to a generic class when the
// type itself is unknown.
func Classify(t model.NotificationType, et model.EventType) Class {
	switch t {
	case model.TypeSystem:
		return Class{Icon: "[S]", Label: "System", Badge: BadgeNeutral}
	case model.TypeBusiness:
		return Class{Icon: "[B]", Label: "Business", Badge: BadgeInfo}
	case model.TypeOpportunity:
		return Class{Icon: "[O]", Label: "Opportunity", Badge: BadgeSuccess}
	case model.TypeEvent:
		return Class{Icon: "[E]", Label: "Event", Badge: BadgeInfo}
	case model.TypeGroupEvent:
		return Class{Icon: "[G]", Label: groupLabel(et), Badge: BadgeInfo}
	case model.TypeRelationshipEvent:
		return Class{Icon: "[C]", Label: relationshipLabel(et), Badge: BadgeSuccess}
	default:
		return genericClass
	}
}

func groupLabel(et model.EventType) string {
	switch et {
	case model.EventGroupInvite:
		return "Group Invite"
	case model.EventGroupJoinRequest:
		return "Group Join Request"
	case model.EventGroupRequestAccepted:
		return "Group Request Accepted"
	case model.EventGroupEventCreated:
		return "Group Event"
	default:
		return "Group"
	}
}

func relationshipLabel(et model.EventType) string {
	switch et {
	case model.EventRelationshipRequest:
		return "Connection Request"
	case model.EventRelationshipAccepted:
		return "Connection Accepted"
	case model.EventRelationshipDeclined:
		return "Connection Declined"
	default:
		return "Connection"
	}
}
