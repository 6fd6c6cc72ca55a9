package todolist

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todo-client/internal/model"
	"github.com/nhle/todo-client/internal/theme"
)

// Item wraps a model.Todo so it can be used in a bubbles/list.
type Item struct {
	Todo model.Todo
}

// FilterValue returns the string used for fuzzy filtering.
func (i Item) FilterValue() string { return i.Todo.Item }

// Title returns the todo text.
func (i Item) Title() string { return i.Todo.Item }

// Description returns the status and age of the todo.
func (i Item) Description() string {
	status := "belum selesai"
	if i.Todo.IsDone {
		status = "selesai"
	}
	if age := relativeTime(i.Todo.CreatedAt); age != "" {
		return status + " | " + age
	}
	return status
}

// ItemDelegate implements list.ItemDelegate for rendering todos.
type ItemDelegate struct {
	// selected is shared by reference with the list Model so marks are
	// visible without rebuilding the delegate.
	selected map[string]bool
}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single todo line: delete mark, done mark, text, age.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(Item)
	if !ok {
		return
	}
	t := it.Todo

	mark := "[ ]"
	if d.selected[t.ID] {
		mark = theme.MarkedStyle.Render("[x]")
	}

	prefix := "○"
	if t.IsDone {
		prefix = lipgloss.NewStyle().Foreground(theme.ColorGreen).Render("✓")
	}

	text := t.Item
	if t.IsDone {
		text = theme.DoneItemStyle.Render(text)
	}

	age := ""
	if rel := relativeTime(t.CreatedAt); rel != "" {
		age = "  " + lipgloss.NewStyle().Foreground(theme.ColorGray).Render(rel)
	}

	line := fmt.Sprintf("%s %s %s%s", mark, prefix, text, age)

	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// relativeTime returns a human-friendly relative time string.
func relativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "baru saja"
	case d < time.Hour:
		return fmt.Sprintf("%d menit lalu", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%d jam lalu", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%d hari lalu", int(d.Hours()/24))
	default:
		return t.Local().Format("02 Jan 2006")
	}
}
