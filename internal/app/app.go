package app

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/community-notify/internal/api"
	"github.com/nhle/community-notify/internal/keys"
	"github.com/nhle/community-notify/internal/model"
	"github.com/nhle/community-notify/internal/notify"
	"github.com/nhle/community-notify/internal/session"
	"github.com/nhle/community-notify/internal/ui"
	"github.com/nhle/community-notify/internal/ui/help"
	"github.com/nhle/community-notify/internal/ui/inbox"
	"github.com/nhle/community-notify/internal/ui/settings"
	"github.com/nhle/community-notify/internal/ui/widget"
)

// View identifies the active full-page view.
type View int

const (
	ViewInbox View = iota
	ViewSettings
	ViewHelp
)

// centerEventMsg carries a background update from the notification
// center into the event loop.
type centerEventMsg struct {
	event notify.Event
}

// openedMsg is sent after a notification was opened: marked read and
// routed to its destination.
type openedMsg struct {
	err  error
	dest string
}

// Model is the root application model. It owns the notification center
// lifecycle, routes messages to the active view, and composes the frame
// with the unread badge.
type Model struct {
	cfg        *model.AppConfig
	configPath string

	keys   *keys.KeyMap
	layout ui.Layout

	center *notify.Center
	nav    *shellNavigator

	inbox        inbox.Model
	widget       widget.Model
	settingsView settings.Model
	helpView     help.Model

	currentView  View
	previousView View
	widgetOpen   bool

	unread int
	notice string

	initCmd tea.Cmd
	ready   bool
}

// New creates the root model. Without a stored session it starts on the
// settings view so the user can finish setup first.
func New(cfg *model.AppConfig, configPath string) Model {
	k := keys.DefaultKeyMap()

	m := Model{
		cfg:        cfg,
		configPath: configPath,
		keys:       k,
		nav:        &shellNavigator{},
		layout:     ui.NewLayout(80, 24),
	}

	if session.Exists() && cfg.API.BaseURL != "" {
		m.center = buildCenter(cfg)
	}

	m.inbox = inbox.New(m.center, k, cfg.Notifications.PageSize, 80, 22)
	m.widget = widget.New(m.center, k, cfg.Notifications.WidgetPageSize, 80, 22)
	m.helpView = help.New(k, 80, 22)
	m.settingsView = settings.New(cfg, configPath, m.center == nil, 80, 22)

	if m.center == nil {
		m.currentView = ViewSettings
		m.initCmd = m.settingsView.Init()
	}

	return m
}

func buildCenter(cfg *model.AppConfig) *notify.Center {
	timeout := time.Duration(cfg.API.TimeoutSec) * time.Second
	client := api.NewClient(cfg.API.BaseURL, session.Source{}, timeout)
	return notify.NewCenter(client, notify.Options{
		PollInterval: time.Duration(cfg.Notifications.PollIntervalSec) * time.Second,
		Timeout:      timeout,
	})
}

// Init starts polling and loads the first inbox page, or hands control
// to the first-run settings form.
func (m Model) Init() tea.Cmd {
	if m.center == nil {
		return m.initCmd
	}
	m.center.Start()
	return tea.Batch(m.inbox.Init(), m.waitForEvent())
}

// waitForEvent blocks on the center's event stream and re-arms after
// each delivery.
func (m Model) waitForEvent() tea.Cmd {
	center := m.center
	return func() tea.Msg {
		e, ok := <-center.Events()
		if !ok {
			return nil
		}
		return centerEventMsg{event: e}
	}
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true

		ch := m.layout.ContentHeight()
		m.inbox.SetSize(msg.Width, ch)
		m.widget.SetSize(msg.Width, ch)
		m.helpView.SetSize(msg.Width, ch)
		m.settingsView.SetSize(msg.Width, ch)

		if m.currentView == ViewSettings {
			var cmd tea.Cmd
			m.settingsView, cmd = m.settingsView.Update(msg)
			return m, cmd
		}
		return m, nil

	case centerEventMsg:
		m.unread = msg.event.UnreadCount
		return m, m.waitForEvent()

	case inbox.OpenRequestMsg:
		return m, m.openNotification(msg.Notification)

	case widget.OpenRequestMsg:
		m.widgetOpen = false
		return m, m.openNotification(msg.Notification)

	case openedMsg:
		if msg.err != nil {
			m.notice = "Couldn't mark notification as read."
		} else {
			m.notice = ""
		}
		var cmd tea.Cmd
		m.inbox, cmd = m.inbox.Update(inbox.MutationDoneMsg{Err: msg.err})
		return m, cmd

	case inbox.ItemsLoadedMsg, inbox.MutationDoneMsg:
		var cmd tea.Cmd
		m.inbox, cmd = m.inbox.Update(msg)
		return m, cmd

	case widget.LoadedMsg, widget.MarkedAllMsg:
		var cmd tea.Cmd
		m.widget, cmd = m.widget.Update(msg)
		return m, cmd

	case widget.CloseMsg:
		m.widgetOpen = false
		return m, nil

	case settings.SavedMsg:
		return m.applySettings(msg.Config)

	case settings.CancelMsg:
		m.currentView = m.previousView
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}

	return m.updateActiveView(msg)
}

func (m Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	// The settings form owns the keyboard while it is up.
	if m.currentView == ViewSettings {
		var cmd tea.Cmd
		m.settingsView, cmd = m.settingsView.Update(msg)
		return m, cmd
	}

	// The dropdown is modal over the inbox.
	if m.widgetOpen {
		var cmd tea.Cmd
		m.widget, cmd = m.widget.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Help):
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
		} else {
			m.previousView = m.currentView
			m.currentView = ViewHelp
		}
		return m, nil

	case key.Matches(msg, m.keys.Back):
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return m, nil
		}

	case key.Matches(msg, m.keys.Widget):
		if m.center == nil {
			return m, nil
		}
		m.widgetOpen = true
		return m, m.widget.OpenCmd()

	case key.Matches(msg, m.keys.Settings):
		m.previousView = m.currentView
		m.currentView = ViewSettings
		m.settingsView = settings.New(
			m.cfg, m.configPath, false,
			m.layout.Width, m.layout.ContentHeight(),
		)
		return m, m.settingsView.Init()

	case key.Matches(msg, m.keys.SignOut):
		return m.signOut()

	case key.Matches(msg, m.keys.Refresh):
		if m.center != nil {
			m.center.Poll()
		}
	}

	return m.updateActiveView(msg)
}

func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.currentView {
	case ViewInbox:
		m.inbox, cmd = m.inbox.Update(msg)
	case ViewSettings:
		m.settingsView, cmd = m.settingsView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	}
	return m, cmd
}

// openNotification marks the notification read and navigates, then
// refreshes the inbox from the store.
func (m Model) openNotification(n model.Notification) tea.Cmd {
	center := m.center
	nav := m.nav
	return func() tea.Msg {
		err := center.Open(context.Background(), n, nav)
		if err == nil {
			center.Invalidate()
		}
		return openedMsg{err: err, dest: nav.Current()}
	}
}

// applySettings rebuilds the center and the session-scoped views after
// the settings form saved a new configuration.
func (m Model) applySettings(cfg *model.AppConfig) (tea.Model, tea.Cmd) {
	if m.center != nil {
		m.center.Close()
	}

	m.cfg = cfg
	m.center = buildCenter(cfg)

	w, ch := m.layout.Width, m.layout.ContentHeight()
	m.inbox = inbox.New(m.center, m.keys, cfg.Notifications.PageSize, w, ch)
	m.widget = widget.New(m.center, m.keys, cfg.Notifications.WidgetPageSize, w, ch)

	m.unread = 0
	m.notice = ""
	m.widgetOpen = false
	m.currentView = ViewInbox

	m.center.Start()
	return m, tea.Batch(m.inbox.Init(), m.waitForEvent())
}

// signOut closes the center, clears the stored token, and returns to
// the first-run settings view.
func (m Model) signOut() (tea.Model, tea.Cmd) {
	if m.center != nil {
		m.center.Close()
		m.center = nil
	}
	_ = session.Clear()

	m.unread = 0
	m.notice = ""
	m.widgetOpen = false
	m.previousView = ViewInbox
	m.currentView = ViewSettings
	m.settingsView = settings.New(
		m.cfg, m.configPath, true,
		m.layout.Width, m.layout.ContentHeight(),
	)
	return m, m.settingsView.Init()
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.center != nil {
		m.center.Close()
	}
	return m, tea.Quit
}

// View renders the full frame.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.currentView == ViewSettings {
		return m.settingsView.View()
	}

	header := m.layout.RenderHeader("Community Notify", m.unread, m.headerStatus())

	var content string
	switch {
	case m.widgetOpen:
		content = lipgloss.NewStyle().Padding(1, 2).Render(m.widget.View())
	case m.currentView == ViewHelp:
		content = m.helpView.View()
	default:
		content = m.inbox.View()
	}
	content = lipgloss.NewStyle().
		Height(m.layout.ContentHeight()).
		Render(content)

	statusBar := m.layout.RenderStatusBar(m.statusLine())
	return m.layout.RenderWithFrame(header, content, statusBar)
}

func (m Model) headerStatus() string {
	if dest := m.nav.Current(); dest != "" {
		return "at " + dest
	}
	return ""
}

func (m Model) statusLine() string {
	if m.notice != "" {
		return m.notice
	}

	var parts []string
	if m.currentView == ViewInbox {
		if f := m.inbox.FilterSummary(); f != "" {
			parts = append(parts, "filter: "+f)
		}
	}
	parts = append(parts, "? help", "q quit")
	return strings.Join(parts, " | ")
}
