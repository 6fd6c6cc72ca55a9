package todo

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/todo-client/internal/model"
)

func sample(n int) []model.Todo {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]model.Todo, n)
	for i := range out {
		out[i] = model.Todo{
			ID:        fmt.Sprintf("t%d", i),
			Item:      fmt.Sprintf("item %d", i),
			IsDone:    i%3 == 0,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
	}
	return out
}

func TestReplaceAllRoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 2, 7, 50} {
		s := NewStore()
		items := sample(n)
		s.ReplaceAll(items)

		assert.Equal(t, items, s.SelectFiltered(), "n=%d", n)
		assert.Equal(t, n, s.Len())
	}
}

func TestReplaceAllCopiesInput(t *testing.T) {
	s := NewStore()
	items := sample(2)
	s.ReplaceAll(items)

	items[0].Item = "mutated"
	assert.Equal(t, "item 0", s.All()[0].Item)
}

func TestReplaceAllDiscardsPreviousCache(t *testing.T) {
	s := NewStore()
	s.ReplaceAll(sample(5))
	s.ReplaceAll(sample(2))
	assert.Len(t, s.All(), 2)
}

func TestSelectFilteredSubsequences(t *testing.T) {
	s := NewStore()
	items := sample(10)
	s.ReplaceAll(items)

	require.NoError(t, s.SetFilter(FilterDone))
	done := s.SelectFiltered()

	require.NoError(t, s.SetFilter(FilterUndone))
	undone := s.SelectFiltered()

	var wantDone, wantUndone []model.Todo
	for _, it := range items {
		if it.IsDone {
			wantDone = append(wantDone, it)
		} else {
			wantUndone = append(wantUndone, it)
		}
	}
	assert.Equal(t, wantDone, done)
	assert.Equal(t, wantUndone, undone)
	assert.Len(t, items, len(done)+len(undone))

	require.NoError(t, s.SetFilter(FilterAll))
	assert.Equal(t, items, s.SelectFiltered())
}

func TestSelectFilteredEmptyResultIsNotNil(t *testing.T) {
	s := NewStore()
	s.ReplaceAll([]model.Todo{{ID: "a", Item: "x", IsDone: false}})
	require.NoError(t, s.SetFilter(FilterDone))

	got := s.SelectFiltered()
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSetFilterRejectsUnknown(t *testing.T) {
	s := NewStore()
	assert.Error(t, s.SetFilter("archived"))
	assert.Equal(t, FilterAll, s.Filter())
}

func TestParseFilterAndCycle(t *testing.T) {
	f, err := ParseFilter("undone")
	require.NoError(t, err)
	assert.Equal(t, FilterUndone, f)

	_, err = ParseFilter("")
	assert.Error(t, err)

	assert.Equal(t, FilterDone, FilterAll.Next())
	assert.Equal(t, FilterUndone, FilterDone.Next())
	assert.Equal(t, FilterAll, FilterUndone.Next())
	assert.Equal(t, "Selesai", FilterDone.Label())
}

func TestGet(t *testing.T) {
	s := NewStore()
	s.ReplaceAll(sample(3))

	got, ok := s.Get("t1")
	require.True(t, ok)
	assert.Equal(t, "item 1", got.Item)

	_, ok = s.Get("missing")
	assert.False(t, ok)
}
