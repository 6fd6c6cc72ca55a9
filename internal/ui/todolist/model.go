package todolist

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todo-client/internal/keys"
	appsync "github.com/nhle/todo-client/internal/sync"
	"github.com/nhle/todo-client/internal/theme"
	"github.com/nhle/todo-client/internal/todo"
	"github.com/nhle/todo-client/internal/validate"
)

// Model is the main todo list view component. It renders the filtered
// projection of the cache and turns key presses into controller commands.
type Model struct {
	list     list.Model
	cache    *todo.Store
	ctrl     *appsync.Controller
	keys     *keys.KeyMap
	selected map[string]bool
	spinner  spinner.Model
	inflight int
	deleting bool
	adding   bool
	input    textinput.Model
	inputErr string
	width    int
	height   int
}

// New creates a new todo list model over cache, mutated through ctrl.
func New(cache *todo.Store, ctrl *appsync.Controller, k *keys.KeyMap, width, height int) Model {
	selected := make(map[string]bool)
	l := list.New([]list.Item{}, ItemDelegate{selected: selected}, width, listHeight(height))
	l.Title = "Todo"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)

	ti := textinput.New()
	ti.Placeholder = "Tambahkan todo baru..."
	ti.Prompt = "+ "
	ti.CharLimit = 256
	ti.Width = width - 4

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.ColorBlue)

	return Model{
		list:     l,
		cache:    cache,
		ctrl:     ctrl,
		keys:     k,
		selected: selected,
		spinner:  sp,
		input:    ti,
		width:    width,
		height:   height,
	}
}

// Init starts the first fetch.
func (m *Model) Init() tea.Cmd {
	return m.Refresh()
}

// Refresh re-fetches the collection from the server.
func (m *Model) Refresh() tea.Cmd {
	return m.start(m.ctrl.RefreshCmd())
}

// start counts cmd as in flight and keeps the spinner going until its
// result arrives.
func (m *Model) start(cmd tea.Cmd) tea.Cmd {
	m.inflight++
	if m.inflight == 1 {
		return tea.Batch(m.spinner.Tick, cmd)
	}
	return cmd
}

// Reload rebuilds the visible rows from the cache and drops selections
// for todos that no longer exist.
func (m *Model) Reload() tea.Cmd {
	present := make(map[string]bool)
	for _, t := range m.cache.All() {
		present[t.ID] = true
	}
	for id := range m.selected {
		if !present[id] {
			delete(m.selected, id)
		}
	}

	rows := m.cache.SelectFiltered()
	items := make([]list.Item, len(rows))
	for i, t := range rows {
		items[i] = Item{Todo: t}
	}
	return m.list.SetItems(items)
}

// Reset clears the selection, the input, and the visible rows.
func (m *Model) Reset() {
	m.clearSelection()
	m.adding = false
	m.inflight = 0
	m.deleting = false
	m.inputErr = ""
	m.input.Reset()
	m.input.Blur()
	m.list.SetItems(nil)
}

// InputActive reports whether the new-todo input has focus, in which case
// the caller should not interpret keys as global shortcuts.
func (m Model) InputActive() bool {
	return m.adding
}

// Loading reports whether any operation is in flight.
func (m Model) Loading() bool {
	return m.inflight > 0
}

// Selected returns the ids marked for deletion, in cache order.
func (m Model) Selected() []string {
	var ids []string
	for _, t := range m.cache.All() {
		if m.selected[t.ID] {
			ids = append(ids, t.ID)
		}
	}
	return ids
}

// Update handles messages for the todo list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case appsync.ResultMsg:
		if m.inflight > 0 {
			m.inflight--
		}
		if msg.Op == appsync.OpDelete {
			m.deleting = false
			if msg.Err == nil {
				m.clearSelection()
			}
		}
		cmd := m.Reload()
		return m, cmd

	case spinner.TickMsg:
		if !m.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.adding {
			return m.handleInputKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleInputKeys processes key input while the new-todo input is focused.
func (m Model) handleInputKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		text := m.input.Value()
		if err := validate.Required("Todo")(text); err != nil {
			m.inputErr = err.Error()
			return m, nil
		}
		m.adding = false
		m.inputErr = ""
		m.input.Reset()
		m.input.Blur()
		cmd := m.start(m.ctrl.CreateCmd(text))
		return m, cmd

	case tea.KeyEsc:
		m.adding = false
		m.inputErr = ""
		m.input.Reset()
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleNormalKeys processes key input when the list has focus.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Add):
		m.adding = true
		m.inputErr = ""
		cmd := m.input.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Toggle):
		it, ok := m.list.SelectedItem().(Item)
		if !ok {
			return m, nil
		}
		cmd := m.start(m.ctrl.ToggleCmd(it.Todo))
		return m, cmd

	case key.Matches(msg, m.keys.Mark):
		it, ok := m.list.SelectedItem().(Item)
		if !ok {
			return m, nil
		}
		if m.selected[it.Todo.ID] {
			delete(m.selected, it.Todo.ID)
		} else {
			m.selected[it.Todo.ID] = true
		}
		return m, nil

	case key.Matches(msg, m.keys.DeleteMark):
		ids := m.Selected()
		if len(ids) == 0 || m.deleting {
			return m, nil
		}
		m.deleting = true
		cmd := m.start(m.ctrl.DeleteCmd(ids))
		return m, cmd

	case key.Matches(msg, m.keys.Filter):
		_ = m.cache.SetFilter(m.cache.Filter().Next())
		cmd := m.Reload()
		return m, cmd

	case key.Matches(msg, m.keys.Refresh):
		cmd := m.Refresh()
		return m, cmd
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the filter bar, the input, and the list.
func (m Model) View() string {
	sections := []string{m.renderFilterBar()}

	if m.adding {
		input := lipgloss.NewStyle().Padding(0, 1).Render(m.input.View())
		sections = append(sections, input)
		if m.inputErr != "" {
			sections = append(sections,
				lipgloss.NewStyle().Foreground(theme.ColorRed).Padding(0, 1).Render(m.inputErr))
		}
	}

	if len(m.list.Items()) == 0 {
		sections = append(sections, m.renderEmptyState())
	} else {
		sections = append(sections, m.list.View())
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderFilterBar() string {
	counts := map[todo.Filter]int{}
	for _, t := range m.cache.All() {
		counts[todo.FilterAll]++
		if t.IsDone {
			counts[todo.FilterDone]++
		} else {
			counts[todo.FilterUndone]++
		}
	}

	current := m.cache.Filter()
	buttons := make([]string, 0, 3)
	for _, f := range []todo.Filter{todo.FilterAll, todo.FilterDone, todo.FilterUndone} {
		label := fmt.Sprintf("%s (%d)", f.Label(), counts[f])
		buttons = append(buttons, theme.FilterStyle(f == current).Render(label))
	}

	bar := lipgloss.JoinHorizontal(lipgloss.Bottom, buttons...)

	var status []string
	if n := len(m.selected); n > 0 {
		status = append(status, theme.MarkedStyle.Render(fmt.Sprintf("%d terpilih", n)))
	}
	if m.Loading() {
		status = append(status, m.spinner.View()+" memuat")
	}
	if len(status) > 0 {
		bar = lipgloss.JoinHorizontal(lipgloss.Bottom, bar, "  ", strings.Join(status, "  "))
	}
	return bar
}

// renderEmptyState shows guidance text when no todos are visible.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(listHeight(m.height)).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if m.Loading() {
		return style.Render(m.spinner.View() + " Memuat todo...")
	}
	if m.cache.Len() > 0 {
		return style.Render("Tidak ada todo untuk filter ini.")
	}
	return style.Render("Belum ada todo.\n\nTekan n untuk menambahkan.")
}

func (m *Model) clearSelection() {
	for id := range m.selected {
		delete(m.selected, id)
	}
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, listHeight(height))
	m.input.Width = width - 4
}

func listHeight(height int) int {
	return max(height-4, 1)
}
