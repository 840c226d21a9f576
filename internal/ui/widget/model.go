package widget

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/community-notify/internal/keys"
	"github.com/nhle/community-notify/internal/model"
	"github.com/nhle/community-notify/internal/notify"
	"github.com/nhle/community-notify/internal/theme"
	"github.com/nhle/community-notify/internal/ui"
)

// LoadedMsg is sent when the widget page load completed.
type LoadedMsg struct {
	Err error
}

// OpenRequestMsg asks the root model to open a notification.
type OpenRequestMsg struct {
	Notification model.Notification
}

// MarkedAllMsg is sent after mark-all-read completed from the widget.
type MarkedAllMsg struct {
	Err error
}

// CloseMsg asks the root model to close the dropdown.
type CloseMsg struct{}

// Model is the compact header dropdown. It fetches its page once per
// session on first open and reuses the cached page on later opens until
// a mutation invalidates it.
type Model struct {
	center   *notify.Center
	keys     *keys.KeyMap
	pageSize int

	items       []model.Notification
	selectedIdx int
	loading     bool
	loadFailed  bool

	width  int
	height int
}

// New creates the dropdown widget over the given center.
func New(center *notify.Center, k *keys.KeyMap, pageSize, width, height int) Model {
	if pageSize <= 0 {
		pageSize = 5
	}
	return Model{
		center:   center,
		keys:     k,
		pageSize: pageSize,
		width:    width,
		height:   height,
	}
}

// OpenCmd loads the widget page; the fetcher's cache makes repeat opens
// free until something invalidates it.
func (m *Model) OpenCmd() tea.Cmd {
	m.loading = true
	m.selectedIdx = 0
	center := m.center
	opts := notify.FetchOptions{Limit: m.pageSize}
	return func() tea.Msg {
		err := center.Load(context.Background(), opts)
		return LoadedMsg{Err: err}
	}
}

// Update handles messages for the dropdown.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.loadFailed = true
			return m, nil
		}
		m.loadFailed = false
		m.items = m.center.Store().Items()
		if m.selectedIdx >= len(m.items) {
			m.selectedIdx = 0
		}
		return m, nil

	case MarkedAllMsg:
		m.items = m.center.Store().Items()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}

	return m, nil
}

func (m Model) handleKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Widget):
		return m, func() tea.Msg { return CloseMsg{} }

	case key.Matches(msg, m.keys.Down):
		if len(m.items) > 0 {
			m.selectedIdx = (m.selectedIdx + 1) % len(m.items)
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if len(m.items) > 0 {
			m.selectedIdx--
			if m.selectedIdx < 0 {
				m.selectedIdx = len(m.items) - 1
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Open):
		if m.selectedIdx < len(m.items) {
			n := m.items[m.selectedIdx]
			return m, func() tea.Msg { return OpenRequestMsg{Notification: n} }
		}
		return m, nil

	case key.Matches(msg, m.keys.MarkAllRead):
		center := m.center
		return m, func() tea.Msg {
			err := center.MarkAllRead(context.Background())
			if err == nil {
				center.Invalidate()
			}
			return MarkedAllMsg{Err: err}
		}
	}

	return m, nil
}

// View renders the dropdown panel.
func (m Model) View() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)
	b.WriteString(titleStyle.Render("Notifications"))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(theme.HelpStyle.Render("Loading..."))
	case m.loadFailed:
		b.WriteString(theme.NoticeStyle.Render("Couldn't load notifications."))
	case len(m.items) == 0:
		b.WriteString(theme.HelpStyle.Render("No notifications yet."))
	default:
		for i, n := range m.items {
			b.WriteString(m.renderItem(i, n))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(theme.HelpStyle.Render(
		"enter open | a mark all read | esc close",
	))

	width := m.width / 2
	if width < 40 {
		width = 40
	}
	return theme.PanelStyle.Width(width).Render(b.String())
}

func (m Model) renderItem(idx int, n model.Notification) string {
	class := notify.Classify(n.Type, n.EventType)

	marker := " "
	if !n.Read {
		marker = "●"
	}

	line := fmt.Sprintf("%s %s %s  %s",
		marker, class.Icon, n.Title, ui.RelativeTime(n.CreatedAt),
	)
	if !n.Read {
		line = theme.UnreadItemStyle.Render(line)
	} else {
		line = theme.ReadItemStyle.Render(line)
	}

	if idx == m.selectedIdx {
		return theme.SelectedItemStyle.Render(line)
	}
	return theme.ListItemStyle.Render(line)
}

// SetSize updates the widget dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
