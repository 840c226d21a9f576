package inbox

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/community-notify/internal/keys"
	"github.com/nhle/community-notify/internal/model"
	"github.com/nhle/community-notify/internal/notify"
	"github.com/nhle/community-notify/internal/theme"
)

// ItemsLoadedMsg is sent when a page load completed (possibly failing).
type ItemsLoadedMsg struct {
	Err error
}

// OpenRequestMsg asks the root model to open a notification (mark it
// read and navigate). The root owns the navigator.
type OpenRequestMsg struct {
	Notification model.Notification
}

// MutationDoneMsg is sent after a mark-read or mark-all-read completed.
type MutationDoneMsg struct {
	Err error
}

// typeFilters is the cycle order for the client-side type filter; the
// empty value means no filter.
var typeFilters = []model.NotificationType{
	"",
	model.TypeSystem,
	model.TypeBusiness,
	model.TypeOpportunity,
	model.TypeEvent,
	model.TypeGroupEvent,
	model.TypeRelationshipEvent,
}

// Model is the full-page notification view.
type Model struct {
	center *notify.Center
	keys   *keys.KeyMap
	list   list.Model

	pageSize   int
	unreadOnly bool
	typeIdx    int

	loadFailed bool
	width      int
	height     int
}

// New creates the inbox view over the given center.
func New(center *notify.Center, k *keys.KeyMap, pageSize, width, height int) Model {
	l := list.New([]list.Item{}, Delegate{}, width, height-2)
	l.Title = "Notifications"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	if pageSize <= 0 {
		pageSize = 50
	}

	return Model{
		center:   center,
		keys:     k,
		list:     l,
		pageSize: pageSize,
		width:    width,
		height:   height,
	}
}

// Init loads the first page.
func (m Model) Init() tea.Cmd {
	return m.load(false)
}

// Update handles messages for the inbox view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ItemsLoadedMsg:
		if msg.Err != nil {
			// Keep whatever was rendered before; the view shows a
			// load-failure affordance instead of an empty state.
			m.loadFailed = true
			return m, nil
		}
		m.loadFailed = false
		return m, m.syncFromStore()

	case MutationDoneMsg:
		// Optimistic state (or its rollback) is already in the store.
		return m, m.syncFromStore()

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) handleKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Open):
		item, ok := m.list.SelectedItem().(Item)
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return OpenRequestMsg{Notification: item.Notification}
		}

	case key.Matches(msg, m.keys.MarkRead):
		item, ok := m.list.SelectedItem().(Item)
		if !ok {
			return m, nil
		}
		return m, m.markRead(item.Notification.ID)

	case key.Matches(msg, m.keys.MarkAllRead):
		return m, m.markAllRead()

	case key.Matches(msg, m.keys.ToggleUnread):
		m.unreadOnly = !m.unreadOnly
		return m, m.load(true)

	case key.Matches(msg, m.keys.CycleType):
		m.typeIdx = (m.typeIdx + 1) % len(typeFilters)
		return m, m.load(true)

	case key.Matches(msg, m.keys.Refresh):
		return m, m.load(true)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the list, a load-failure affordance, or the empty state.
func (m Model) View() string {
	if m.loadFailed {
		return lipgloss.NewStyle().Padding(1, 2).Render(
			theme.NoticeStyle.Render("Couldn't load notifications.") +
				"\n\n" +
				theme.HelpStyle.Render("r retry | esc back"),
		)
	}

	if len(m.list.Items()) == 0 {
		return lipgloss.NewStyle().Padding(1, 2).Render(
			theme.HelpStyle.Render("No notifications yet."),
		)
	}

	return m.list.View()
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
}

// FilterSummary describes the active filters for the status bar.
func (m Model) FilterSummary() string {
	summary := ""
	if m.unreadOnly {
		summary = "unread only"
	}
	if t := typeFilters[m.typeIdx]; t != "" {
		class := notify.Classify(t, "")
		if summary != "" {
			summary += " · "
		}
		summary += class.Label
	}
	return summary
}

// options builds the fetch options for the current filter selection.
func (m Model) options() notify.FetchOptions {
	return notify.FetchOptions{
		Limit:      m.pageSize,
		UnreadOnly: m.unreadOnly,
		Type:       typeFilters[m.typeIdx],
	}
}

// load fetches the current page. A filter change forces a refetch; the
// initial load may reuse the cached page.
func (m Model) load(force bool) tea.Cmd {
	center := m.center
	opts := m.options()
	return func() tea.Msg {
		ctx := context.Background()
		var err error
		if force {
			err = center.Reload(ctx, opts)
		} else {
			err = center.Load(ctx, opts)
		}
		return ItemsLoadedMsg{Err: err}
	}
}

// syncFromStore replaces the list rows with the store's current page.
func (m *Model) syncFromStore() tea.Cmd {
	stored := m.center.Store().Items()
	items := make([]list.Item, len(stored))
	for i, n := range stored {
		items[i] = Item{Notification: n}
	}
	return m.list.SetItems(items)
}

func (m Model) markRead(id string) tea.Cmd {
	center := m.center
	return func() tea.Msg {
		err := center.MarkRead(context.Background(), id)
		if err == nil {
			center.Invalidate()
		}
		return MutationDoneMsg{Err: err}
	}
}

func (m Model) markAllRead() tea.Cmd {
	center := m.center
	return func() tea.Msg {
		err := center.MarkAllRead(context.Background())
		if err == nil {
			center.Invalidate()
		}
		return MutationDoneMsg{Err: err}
	}
}
