package app

import (
	"fmt"
	"log"
	"slices"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todo-client/internal/api"
	"github.com/nhle/todo-client/internal/keys"
	"github.com/nhle/todo-client/internal/model"
	"github.com/nhle/todo-client/internal/session"
	"github.com/nhle/todo-client/internal/store"
	appsync "github.com/nhle/todo-client/internal/sync"
	"github.com/nhle/todo-client/internal/theme"
	"github.com/nhle/todo-client/internal/todo"
	"github.com/nhle/todo-client/internal/ui"
	"github.com/nhle/todo-client/internal/ui/command"
	helpview "github.com/nhle/todo-client/internal/ui/help"
	"github.com/nhle/todo-client/internal/ui/history"
	"github.com/nhle/todo-client/internal/ui/login"
	"github.com/nhle/todo-client/internal/ui/register"
	"github.com/nhle/todo-client/internal/ui/settings"
	"github.com/nhle/todo-client/internal/ui/todolist"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewLogin ViewState = iota
	ViewRegister
	ViewTodos
	ViewHistory
	ViewHelp
	ViewCommand
	ViewSettings
)

// Deps are the long-lived services the UI drives.
type Deps struct {
	Session *session.Store
	API     *api.Client
	Todos   *todo.Store
	Sync    *appsync.Controller
	History store.Store

	// Config and ConfigPath enable the settings screen when set.
	Config     *model.AppConfig
	ConfigPath string
}

// Model is the root Bubble Tea model that manages view routing,
// layout, toasts, and the session lifecycle.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	deps         Deps
	keys         *keys.KeyMap
	loginView    login.Model
	registerView register.Model
	todoList     todolist.Model
	historyView  history.Model
	helpView     helpview.Model
	commandView  command.Model
	settingsView settings.Model
	toast        *model.Notification
	toastSeq     int
	unreadCount  int
	ready        bool

	// initCmd is prepared by New because Init cannot keep state changes.
	initCmd tea.Cmd
}

// New creates a new root application model. If the session store already
// holds a restored session the todo list is shown first.
func New(d Deps) Model {
	k := keys.DefaultKeyMap()

	m := Model{
		currentView:  ViewLogin,
		deps:         d,
		keys:         k,
		loginView:    login.New(80, 24),
		registerView: register.New(80, 24),
		todoList:     todolist.New(d.Todos, d.Sync, k, 80, 24),
		historyView:  history.New(d.History, k, 80, 24),
		helpView:     helpview.New(k, 80, 24),
		commandView:  command.New(80, 24),
		settingsView: settings.New(d.ConfigPath, d.Config, 80, 24),
	}
	if d.Session.LoggedIn() {
		m.currentView = ViewTodos
		m.initCmd = tea.Batch(m.todoList.Init(), m.fetchUnreadCount())
	} else {
		m.initCmd = m.loginView.Start("")
	}
	return m
}

// CurrentView returns the active view.
func (m Model) CurrentView() ViewState {
	return m.currentView
}

// Init starts either the login form or the first todo fetch.
func (m Model) Init() tea.Cmd {
	return m.initCmd
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.loginView.SetSize(contentWidth, contentHeight)
		m.registerView.SetSize(contentWidth, contentHeight)
		m.todoList.SetSize(contentWidth, contentHeight)
		m.historyView.SetSize(contentWidth, contentHeight)
		m.helpView.SetSize(contentWidth, contentHeight)
		m.commandView.SetSize(contentWidth, contentHeight)
		m.settingsView.SetSize(contentWidth, contentHeight)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case login.SubmitMsg:
		return m, m.loginCmd(msg)

	case login.CancelMsg:
		return m, tea.Quit

	case login.InvalidMsg:
		cmd := m.notify(model.NotificationError, firstLine(msg.Err))
		return m, cmd

	case loginResultMsg:
		return m.handleLoginResult(msg)

	case register.SubmitMsg:
		return m, m.registerCmd(msg.Registration)

	case register.InvalidMsg:
		cmd := m.notify(model.NotificationError, firstLine(msg.Err))
		return m, cmd

	case register.CancelMsg:
		m.currentView = ViewLogin
		cmd := m.loginView.Start("")
		return m, cmd

	case registerResultMsg:
		return m.handleRegisterResult(msg)

	case appsync.ResultMsg:
		if msg.Stale {
			return m, nil
		}
		var cmd tea.Cmd
		m.todoList, cmd = m.todoList.Update(msg)
		if api.IsUnauthorized(msg.Err) {
			return m.logout("Sesi berakhir, silakan login kembali.", model.NotificationError)
		}
		text := msg.Message()
		if text == "" {
			return m, cmd
		}
		kind := model.NotificationSuccess
		if msg.Err != nil {
			kind = model.NotificationError
		}
		toast := m.notify(kind, text)
		return m, tea.Batch(cmd, toast)

	case history.BackMsg:
		m.currentView = ViewTodos
		return m, m.fetchUnreadCount()

	case history.LoadedMsg:
		m.unreadCount = 0
		var cmd tea.Cmd
		m.historyView, cmd = m.historyView.Update(msg)
		return m, cmd

	case command.Msg:
		m.currentView = m.previousView
		return m.executeCommand(string(msg))

	case settings.SavedMsg:
		m.currentView = m.previousView
		if msg.Err != nil {
			log.Printf("saving settings: %v", msg.Err)
			cmd := m.notify(model.NotificationError, "Gagal menyimpan pengaturan.")
			return m, cmd
		}
		*m.deps.Config = *msg.Config
		theme.Apply(msg.Config.Display.Theme)
		cmd := m.notify(model.NotificationSuccess, "Pengaturan tersimpan.")
		return m, cmd

	case settings.DoneMsg:
		m.currentView = m.previousView
		return m, nil

	case toastExpiredMsg:
		if msg.seq == m.toastSeq {
			m.toast = nil
		}
		return m, nil

	case unreadCountMsg:
		m.unreadCount = msg.count
		return m, nil

	case tea.KeyMsg:
		if updated, cmd, handled := m.handleGlobalKeys(msg); handled {
			return updated, cmd
		}
	}

	return m.updateActiveView(msg)
}

// handleGlobalKeys processes keys that work regardless of the child view.
// Forms and text inputs own the keyboard while they are focused.
func (m Model) handleGlobalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit, true
	}

	switch m.currentView {
	case ViewLogin:
		if msg.Type == tea.KeyCtrlR && !m.loginView.Pending() {
			m.currentView = ViewRegister
			cmd := m.registerView.Start()
			return m, cmd, true
		}
		if msg.Type == tea.KeyCtrlS && !m.loginView.Pending() {
			updated, cmd := m.openSettings()
			return updated, cmd, true
		}
		return m, nil, false

	case ViewRegister:
		if key.Matches(msg, m.keys.Back) {
			m.currentView = ViewLogin
			cmd := m.loginView.Start("")
			return m, cmd, true
		}
		return m, nil, false

	case ViewSettings:
		if key.Matches(msg, m.keys.Back) {
			m.currentView = m.previousView
			return m, nil, true
		}
		return m, nil, false

	case ViewCommand:
		if key.Matches(msg, m.keys.Back) {
			m.currentView = m.previousView
			return m, nil, true
		}
		return m, nil, false

	case ViewHelp:
		if key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Back) {
			m.currentView = m.previousView
			return m, nil, true
		}
	}

	if m.currentView == ViewTodos && m.todoList.InputActive() {
		return m, nil, false
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit, true

	case key.Matches(msg, m.keys.Help):
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil, true

	case key.Matches(msg, m.keys.Command):
		m.previousView = m.currentView
		m.currentView = ViewCommand
		cmd := m.commandView.Open()
		return m, cmd, true
	}

	if m.currentView != ViewTodos {
		return m, nil, false
	}

	switch {
	case key.Matches(msg, m.keys.Logout):
		updated, cmd := m.logout("Berhasil keluar.", model.NotificationSuccess)
		return updated, cmd, true

	case key.Matches(msg, m.keys.History):
		updated, cmd := m.openHistory()
		return updated, cmd, true
	}
	return m, nil, false
}

// updateActiveView delegates a message to the currently active child view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewLogin:
		m.loginView, cmd = m.loginView.Update(msg)
	case ViewRegister:
		m.registerView, cmd = m.registerView.Update(msg)
	case ViewTodos:
		m.todoList, cmd = m.todoList.Update(msg)
	case ViewHistory:
		m.historyView, cmd = m.historyView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	case ViewSettings:
		m.settingsView, cmd = m.settingsView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Memuat..."
	}

	header := m.layout.RenderHeader(m.userLabel())
	content := m.renderContent()

	var statusBar string
	if m.toast != nil {
		statusBar = m.layout.RenderToast(m.toast.Message, m.toast.IsError())
	} else {
		statusBar = m.layout.RenderStatusBar(m.keyHints())
	}

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewLogin:
		return m.center(m.loginView.View())
	case ViewRegister:
		return m.center(m.registerView.View())
	case ViewTodos:
		return m.todoList.View()
	case ViewHistory:
		return m.historyView.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	case ViewSettings:
		return m.center(m.settingsView.View())
	default:
		return ""
	}
}

func (m Model) center(s string) string {
	return lipgloss.Place(
		m.layout.ContentWidth(), max(m.layout.ContentHeight(), 0),
		lipgloss.Center, lipgloss.Center, s,
	)
}

// userLabel renders the avatar initial, display name, and unread badge.
func (m Model) userLabel() string {
	if !m.deps.Session.LoggedIn() {
		return ""
	}
	label := fmt.Sprintf("(%s) %s", m.deps.Session.Initial(), m.deps.Session.DisplayName())
	if m.unreadCount > 0 {
		label = fmt.Sprintf("%s [%d baru]", label, m.unreadCount)
	}
	return label
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewLogin:
		return "enter lanjut | ctrl+r daftar | ctrl+s pengaturan | ctrl+c keluar"
	case ViewRegister:
		return "enter lanjut | shift+tab kembali | esc batal"
	case ViewHelp:
		return "? tutup bantuan | esc kembali"
	case ViewCommand:
		return "enter jalankan | tab lengkapi | esc kembali"
	case ViewHistory:
		return "esc kembali | C hapus riwayat | j/k gulir"
	case ViewSettings:
		return "enter simpan | esc batal"
	default:
		if m.todoList.InputActive() {
			return "enter simpan | esc batal"
		}
		return "n tambah | x selesai | space pilih | D hapus | f filter | r muat ulang | h riwayat | L keluar | ? bantuan"
	}
}

// executeCommand handles a command string from the command palette.
func (m Model) executeCommand(cmd string) (tea.Model, tea.Cmd) {
	if !slices.Contains(command.Commands, cmd) && cmd != "q" {
		toast := m.notify(model.NotificationError, fmt.Sprintf("Perintah tidak dikenal: %s", cmd))
		return m, toast
	}

	switch cmd {
	case "quit", "q":
		return m, tea.Quit
	case "help":
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil
	case "settings":
		return m.openSettings()
	}

	if !m.deps.Session.LoggedIn() {
		return m, nil
	}

	switch cmd {
	case "refresh":
		m.currentView = ViewTodos
		refresh := m.todoList.Refresh()
		return m, refresh
	case "filter all", "filter done", "filter undone":
		f, err := todo.ParseFilter(cmd[len("filter "):])
		if err != nil {
			return m, nil
		}
		_ = m.deps.Todos.SetFilter(f)
		m.currentView = ViewTodos
		reload := m.todoList.Reload()
		return m, reload
	case "history":
		return m.openHistory()
	case "clear history":
		m.currentView = ViewHistory
		clearCmd := m.historyView.Clear(m.userEmail())
		return m, clearCmd
	case "logout":
		return m.logout("Berhasil keluar.", model.NotificationSuccess)
	}
	return m, nil
}

func (m Model) openSettings() (tea.Model, tea.Cmd) {
	if m.deps.Config == nil {
		return m, nil
	}
	m.previousView = m.currentView
	m.currentView = ViewSettings
	cmd := m.settingsView.Start()
	return m, cmd
}

func (m Model) openHistory() (tea.Model, tea.Cmd) {
	m.currentView = ViewHistory
	cmd := m.historyView.Load(m.userEmail())
	return m, cmd
}
