package inbox

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/community-notify/internal/model"
	"github.com/nhle/community-notify/internal/notify"
	"github.com/nhle/community-notify/internal/theme"
	"github.com/nhle/community-notify/internal/ui"
)

// Item wraps a model.Notification so it can be used in a bubbles/list.
type Item struct {
	Notification model.Notification
}

// FilterValue returns the string used for fuzzy filtering.
func (i Item) FilterValue() string { return i.Notification.Title }

// Title returns the notification title for the list.
func (i Item) Title() string { return i.Notification.Title }

// Description returns a short summary line for the list.
func (i Item) Description() string {
	class := notify.Classify(i.Notification.Type, i.Notification.EventType)
	parts := []string{
		class.Label,
		ui.RelativeTime(i.Notification.CreatedAt),
	}
	return strings.Join(parts, " | ")
}

// Delegate implements list.ItemDelegate for rendering notification rows.
type Delegate struct{}

// Height returns the number of lines each item takes.
func (d Delegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d Delegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d Delegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single notification line: icon, title, category badge,
// and relative time. Unread rows lead with a dot and render bold.
func (d Delegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(Item)
	if !ok {
		return
	}

	n := it.Notification
	class := notify.Classify(n.Type, n.EventType)

	marker := " "
	if !n.Read {
		marker = "●"
	}

	line := fmt.Sprintf("%s %s %s  %s  %s",
		marker,
		class.Icon,
		n.Title,
		theme.BadgeStyle(string(class.Badge)).Render(class.Label),
		ui.RelativeTime(n.CreatedAt),
	)

	if !n.Read {
		line = theme.UnreadItemStyle.Render(line)
	} else {
		line = theme.ReadItemStyle.Render(line)
	}

	if index == m.Index() {
		fmt.Fprint(w, theme.SelectedItemStyle.Render(line))
		return
	}
	fmt.Fprint(w, theme.ListItemStyle.Render(line))
}
