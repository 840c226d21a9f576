package settings

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/community-notify/internal/model"
	"github.com/nhle/community-notify/internal/session"
	"github.com/nhle/community-notify/internal/theme"
)

// SavedMsg signals that the settings were persisted; the root model
// rebuilds the notification center with the new session.
type SavedMsg struct {
	Config *model.AppConfig
}

// CancelMsg signals the settings view was dismissed without saving.
type CancelMsg struct{}

// Model is the settings form: platform URL, access token, and poll
// interval. It doubles as the first-run screen when no session exists.
type Model struct {
	cfg        *model.AppConfig
	configPath string
	firstRun   bool

	form *huh.Form

	formBaseURL  string
	formToken    string
	formInterval string

	statusMsg     string
	width, height int
}

// New creates the settings view. firstRun suppresses the cancel path so
// the user finishes initial setup.
func New(cfg *model.AppConfig, configPath string, firstRun bool, width, height int) Model {
	return Model{
		cfg:        cfg,
		configPath: configPath,
		firstRun:   firstRun,
		width:      width,
		height:     height,
	}
}

// Init builds and starts the form.
func (m *Model) Init() tea.Cmd {
	m.formBaseURL = m.cfg.API.BaseURL
	m.formToken = ""
	m.formInterval = strconv.Itoa(m.cfg.Notifications.PollIntervalSec)
	m.form = m.buildForm()
	return m.form.Init()
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Platform URL").
				Description("Root URL of the community platform API").
				Placeholder("https://api.community.example.com").
				Value(&m.formBaseURL).
				Validate(validateURL),
			huh.NewInput().
				Title("Access Token").
				Description("Your personal access token (stored in the system keyring)").
				EchoMode(huh.EchoModePassword).
				Value(&m.formToken).
				Validate(m.validateToken),
			huh.NewInput().
				Title("Poll Interval (seconds)").
				Description("How often the unread badge refreshes").
				Value(&m.formInterval).
				Validate(validateInterval),
		),
	).WithWidth(m.formWidth())
}

// Update handles messages for the settings view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if wsz, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = wsz.Width
		m.height = wsz.Height
	}

	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m.save()
	}
	if m.form.State == huh.StateAborted {
		if m.firstRun {
			// No session yet; restart the form instead of dropping
			// into an unusable main view.
			return m, m.Init()
		}
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

func (m Model) save() (Model, tea.Cmd) {
	m.cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(m.formBaseURL), "/")
	if secs, err := strconv.Atoi(strings.TrimSpace(m.formInterval)); err == nil && secs > 0 {
		m.cfg.Notifications.PollIntervalSec = secs
	}

	if tok := strings.TrimSpace(m.formToken); tok != "" {
		if err := session.Save(tok); err != nil {
			m.statusMsg = fmt.Sprintf("Error saving token: %v", err)
			return m, m.Init()
		}
	}

	if err := model.SaveConfig(m.configPath, m.cfg); err != nil {
		m.statusMsg = fmt.Sprintf("Error saving config: %v", err)
		return m, m.Init()
	}

	cfg := m.cfg
	return m, func() tea.Msg { return SavedMsg{Config: cfg} }
}

// View renders the form with any status message.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	content := m.form.View()
	if m.statusMsg != "" {
		content += "\n" + theme.NoticeStyle.Render(m.statusMsg)
	}

	return lipgloss.NewStyle().
		Padding(1, 2).
		Width(m.width).
		Height(m.height).
		Render(content)
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

// validateToken requires a token on first run; afterwards an empty
// field keeps the stored one.
func (m *Model) validateToken(s string) error {
	if strings.TrimSpace(s) == "" && !session.Exists() {
		return fmt.Errorf("access token is required")
	}
	return nil
}

func validateURL(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("URL is required")
	}
	parsed, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("URL must include scheme and host (e.g., https://example.com)")
	}
	return nil
}

func validateInterval(s string) error {
	secs, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("interval must be a number of seconds")
	}
	if secs < 5 {
		return fmt.Errorf("interval must be at least 5 seconds")
	}
	return nil
}
