package sync

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/todo-client/internal/model"
)

// Op identifies which controller operation produced a ResultMsg.
type Op int

const (
	OpRefresh Op = iota
	OpCreate
	OpToggle
	OpDelete
)

// ResultMsg is a tea.Msg sent when a controller operation settles. Stale
// results belong to state cleared by Reset and should be dropped.
type ResultMsg struct {
	Op    Op
	Err   error
	Stale bool
}

// Message returns the user-facing notification text for the result.
func (r ResultMsg) Message() string {
	ok := r.Err == nil
	switch r.Op {
	case OpCreate:
		if ok {
			return "Todo berhasil ditambahkan!"
		}
		return "Gagal menambah todo."
	case OpToggle:
		if ok {
			return "Status todo berhasil diubah!"
		}
		return "Gagal mengubah status todo."
	case OpDelete:
		if ok {
			return "Todo terpilih berhasil dihapus!"
		}
		return "Gagal menghapus todo."
	default:
		if ok {
			return ""
		}
		return "Gagal memuat todo."
	}
}

// Commands capture the reset generation when they are built.

// RefreshCmd returns a tea.Cmd that re-fetches the collection.
func (c *Controller) RefreshCmd() tea.Cmd {
	return c.run(OpRefresh, c.refresh)
}

// CreateCmd returns a tea.Cmd that creates a todo and reconciles.
func (c *Controller) CreateCmd(text string) tea.Cmd {
	return c.run(OpCreate, func(ctx context.Context, gen uint64) error {
		return c.create(ctx, gen, text)
	})
}

// ToggleCmd returns a tea.Cmd that flips t and reconciles.
func (c *Controller) ToggleCmd(t model.Todo) tea.Cmd {
	return c.run(OpToggle, func(ctx context.Context, gen uint64) error {
		return c.toggle(ctx, gen, t)
	})
}

// DeleteCmd returns a tea.Cmd that deletes ids and reconciles.
func (c *Controller) DeleteCmd(ids []string) tea.Cmd {
	ids = append([]string(nil), ids...)
	return c.run(OpDelete, func(ctx context.Context, gen uint64) error {
		return c.deleteBatch(ctx, gen, ids)
	})
}

func (c *Controller) run(op Op, fn func(context.Context, uint64) error) tea.Cmd {
	gen := c.generation()
	return func() tea.Msg {
		err := fn(context.Background(), gen)
		stale := errors.Is(err, ErrStale) || c.generation() != gen
		return ResultMsg{Op: op, Err: err, Stale: stale}
	}
}
