package settings

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todo-client/internal/model"
	"github.com/nhle/todo-client/internal/theme"
	"github.com/nhle/todo-client/internal/validate"
)

// SavedMsg is sent after the configuration file has been written.
type SavedMsg struct {
	Config *model.AppConfig
	Err    error
}

// DoneMsg signals the settings view should close without saving.
type DoneMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	baseURL string
	timeout string
	theme   string
}

// Model edits the API endpoint, timeout, and theme and writes them to the
// configuration file.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	path   string
	cfg    *model.AppConfig
	width  int
	height int
}

// New creates a settings view that persists cfg to path.
func New(path string, cfg *model.AppConfig, width, height int) Model {
	return Model{
		fb:     &formBindings{},
		path:   path,
		cfg:    cfg,
		width:  width,
		height: height,
	}
}

// Start fills the form from the current configuration.
func (m *Model) Start() tea.Cmd {
	m.fb.baseURL = m.cfg.API.BaseURL
	m.fb.timeout = strconv.Itoa(m.cfg.API.TimeoutSec)
	m.fb.theme = m.cfg.Display.Theme
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the settings form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		return m, m.save()
	case huh.StateAborted:
		return m, func() tea.Msg { return DoneMsg{} }
	}
	return m, cmd
}

// View renders the settings form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}
	title := theme.TitleStyle.Render("Pengaturan")
	note := theme.HelpStyle.Render("Alamat server berlaku setelah aplikasi dijalankan ulang.")
	content := lipgloss.JoinVertical(lipgloss.Left, title, m.form.View(), "", note)
	return theme.PanelStyle.Width(m.formWidth()).Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	if m.form != nil {
		m.form = m.form.WithWidth(m.formWidth() - 4)
	}
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Alamat API").
				Description("Contoh: " + model.DefaultBaseURL).
				Value(&m.fb.baseURL).
				Validate(validate.URL),
			huh.NewInput().
				Title("Batas waktu (detik)").
				Value(&m.fb.timeout).
				Validate(validate.Seconds),
			huh.NewSelect[string]().
				Title("Tema").
				Options(
					huh.NewOption("Ikuti terminal", "default"),
					huh.NewOption("Gelap", "dark"),
					huh.NewOption("Terang", "light"),
				).
				Value(&m.fb.theme),
		),
	).WithWidth(m.formWidth() - 4).WithShowHelp(false)
}

// save writes a copy of the configuration so a failed write leaves the
// running settings untouched.
func (m Model) save() tea.Cmd {
	next := *m.cfg
	next.API.BaseURL = strings.TrimRight(strings.TrimSpace(m.fb.baseURL), "/")
	next.API.TimeoutSec, _ = strconv.Atoi(strings.TrimSpace(m.fb.timeout))
	next.Display.Theme = m.fb.theme
	path := m.path

	return func() tea.Msg {
		if err := model.SaveConfig(path, &next); err != nil {
			return SavedMsg{Err: err}
		}
		return SavedMsg{Config: &next}
	}
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 72 {
		w = 72
	}
	return w
}
