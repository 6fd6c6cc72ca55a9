package register

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todo-client/internal/model"
	"github.com/nhle/todo-client/internal/theme"
	"github.com/nhle/todo-client/internal/validate"
)

// SubmitMsg is dispatched when the registration form passes validation.
type SubmitMsg struct {
	Registration validate.Registration
}

// CancelMsg is dispatched when the user leaves the form without
// submitting.
type CancelMsg struct{}

// Model is the Bubble Tea model for the registration screen.
type Model struct {
	form    *huh.Form
	fb      *validate.Registration
	pending bool
	width   int
	height  int
}

// New creates a new registration form model.
func New(width, height int) Model {
	return Model{
		fb:     &validate.Registration{Country: model.DefaultCountry},
		width:  width,
		height: height,
	}
}

// Start clears the form and focuses the first field.
func (m *Model) Start() tea.Cmd {
	*m.fb = validate.Registration{Country: model.DefaultCountry}
	m.pending = false
	m.form = m.buildForm()
	return m.form.Init()
}

// Retry reopens the form with the previous entries after a failed
// submission.
func (m *Model) Retry() tea.Cmd {
	m.pending = false
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the registration form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil || m.pending {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		submit := m.handleSubmit()
		return m, submit
	case huh.StateAborted:
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the registration form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	title := theme.TitleStyle.Render("Daftar Akun")
	subtitle := theme.SubtitleStyle.Render("Buat akun baru untuk mulai mencatat todo.")

	body := m.form.View()
	if m.pending {
		body = theme.HelpStyle.Render("Memproses...")
	}

	hint := theme.HelpStyle.Render("esc: kembali ke login")
	content := lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "", body, "", hint)

	return theme.PanelStyle.Width(m.formWidth()).Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	if m.form != nil {
		m.form = m.form.WithWidth(m.formWidth() - 4).WithHeight(m.formHeight())
	}
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Nama depan").
				Value(&m.fb.FirstName).
				Validate(validate.FirstName),
			huh.NewInput().
				Title("Nama belakang").
				Value(&m.fb.LastName).
				Validate(validate.LastName),
			huh.NewInput().
				Title("Email").
				Placeholder("nama@email.com").
				Value(&m.fb.Email).
				Validate(validate.Email),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Negara").
				Options(countryOptions()...).
				Value(&m.fb.Country).
				Validate(validate.Country),
			huh.NewInput().
				TitleFunc(func() string {
					return fmt.Sprintf("Nomor telepon (%s)", model.DialCode(m.fb.Country))
				}, &m.fb.Country).
				Placeholder("81234567890").
				Value(&m.fb.Phone).
				Validate(validate.Phone),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.Password).
				Validate(validate.Password),
			huh.NewInput().
				Title("Konfirmasi password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.ConfirmPassword).
				Validate(validate.Confirmation(func() string { return m.fb.Password })),
		),
	).WithWidth(m.formWidth() - 4).WithHeight(m.formHeight()).WithShowHelp(false)
}

// handleSubmit re-runs the whole rule set because huh validates fields
// one at a time.
func (m *Model) handleSubmit() tea.Cmd {
	reg := *m.fb
	if err := reg.Validate(); err != nil {
		m.form = m.buildForm()
		cmd := m.form.Init()
		return tea.Batch(cmd, func() tea.Msg { return InvalidMsg{Err: err} })
	}
	m.pending = true
	return func() tea.Msg { return SubmitMsg{Registration: reg} }
}

// InvalidMsg reports a form that completed but failed cross-field
// validation.
type InvalidMsg struct {
	Err error
}

func countryOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], len(model.Countries))
	for i, c := range model.Countries {
		opts[i] = huh.NewOption(fmt.Sprintf("%s (%s)", c.Name, c.DialCode), c.Name)
	}
	return opts
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

func (m Model) formHeight() int {
	h := m.height - 10
	if h < 10 {
		h = 10
	}
	return h
}
