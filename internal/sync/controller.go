package sync

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	gosync "sync"

	"github.com/sourcegraph/conc/pool"

	"github.com/nhle/todo-client/internal/model"
	"github.com/nhle/todo-client/internal/todo"
)

var (
	// ErrEmptyItem is returned by Create when the text is blank.
	ErrEmptyItem = errors.New("todo text must not be empty")

	// ErrStale is returned when Reset ran while an operation was in flight.
	// The fetched collection is discarded.
	ErrStale = errors.New("todo state was reset during the operation")
)

// Remote is the subset of the API client the controller drives.
type Remote interface {
	ListTodos(ctx context.Context) ([]model.Todo, error)
	CreateTodo(ctx context.Context, item string) (model.Todo, error)
	SetTodoStatus(ctx context.Context, id, action string) (model.Todo, error)
	DeleteTodo(ctx context.Context, id string) error
}

// BatchError reports the deletions that failed in a batch. Deletions that
// succeeded are already reflected in the cache when it is returned.
type BatchError struct {
	Failed []string
	Total  int
	Err    error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("deleting %d of %d todos failed: %v", len(e.Failed), e.Total, e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}

// Controller is the only writer of server-side todo state and of the
// local cache. Every successful mutation is followed by a full re-fetch
// of the collection; nothing is applied to the cache optimistically.
type Controller struct {
	remote Remote
	cache  *todo.Store

	mu  gosync.Mutex
	gen uint64
}

// New creates a controller over remote that reconciles into cache.
func New(remote Remote, cache *todo.Store) *Controller {
	return &Controller{remote: remote, cache: cache}
}

// Reset empties the cache and invalidates every operation still in
// flight, so a fetch issued before a logout cannot repopulate it.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	c.cache.ReplaceAll(nil)
}

// generation returns the current reset generation.
func (c *Controller) generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// Refresh fetches the full collection and replaces the cache with it. On
// failure the cache is left untouched.
func (c *Controller) Refresh(ctx context.Context) error {
	return c.refresh(ctx, c.generation())
}

// refresh replaces the cache only if no Reset happened since gen.
func (c *Controller) refresh(ctx context.Context, gen uint64) error {
	todos, err := c.remote.ListTodos(ctx)
	if err != nil {
		return fmt.Errorf("fetching todos: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return ErrStale
	}
	c.cache.ReplaceAll(todos)
	return nil
}

// Create adds a todo with the given text. Blank text is rejected before
// any request is issued.
func (c *Controller) Create(ctx context.Context, text string) error {
	return c.create(ctx, c.generation(), text)
}

func (c *Controller) create(ctx context.Context, gen uint64, text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyItem
	}

	if _, err := c.remote.CreateTodo(ctx, text); err != nil {
		return fmt.Errorf("creating todo: %w", err)
	}
	return c.refresh(ctx, gen)
}

// Toggle flips t's done state. The action is derived from t as passed in,
// not re-read from the server.
func (c *Controller) Toggle(ctx context.Context, t model.Todo) error {
	return c.toggle(ctx, c.generation(), t)
}

func (c *Controller) toggle(ctx context.Context, gen uint64, t model.Todo) error {
	action := t.ToggleAction()
	if _, err := c.remote.SetTodoStatus(ctx, t.ID, action); err != nil {
		return fmt.Errorf("marking todo %s %s: %w", t.ID, action, err)
	}
	return c.refresh(ctx, gen)
}

// DeleteBatch deletes every id concurrently and waits for all of them to
// settle. The cache is reconciled afterwards even when some deletions
// failed; a *BatchError lists the failures.
func (c *Controller) DeleteBatch(ctx context.Context, ids []string) error {
	return c.deleteBatch(ctx, c.generation(), ids)
}

func (c *Controller) deleteBatch(ctx context.Context, gen uint64, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	var (
		mu     gosync.Mutex
		failed = make(map[string]bool)
	)

	p := pool.New().WithErrors()
	for _, id := range ids {
		p.Go(func() error {
			if err := c.remote.DeleteTodo(ctx, id); err != nil {
				mu.Lock()
				failed[id] = true
				mu.Unlock()
				return fmt.Errorf("deleting todo %s: %w", id, err)
			}
			return nil
		})
	}
	deleteErr := p.Wait()

	refreshErr := c.refresh(ctx, gen)
	if refreshErr != nil {
		log.Printf("reconciling after batch delete: %v", refreshErr)
	}

	if deleteErr == nil {
		return refreshErr
	}

	batchErr := &BatchError{Total: len(ids), Err: deleteErr}
	for _, id := range ids {
		if failed[id] {
			batchErr.Failed = append(batchErr.Failed, id)
		}
	}
	if refreshErr != nil {
		return errors.Join(batchErr, refreshErr)
	}
	return batchErr
}
