package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/nhle/todo-client/internal/model"
)

// ListTodos fetches the full todo collection in server order.
func (c *Client) ListTodos(ctx context.Context) ([]model.Todo, error) {
	var resp envelope[todoList]
	if err := c.Get(ctx, "/todos", &resp); err != nil {
		return nil, err
	}
	todos := make([]model.Todo, len(resp.Content.Entries))
	for i, w := range resp.Content.Entries {
		todos[i] = w.toModel()
	}
	return todos, nil
}

// CreateTodo creates a todo with the given text. The returned todo is
// whatever the server echoed back; its zero value is returned when the
// response carries no todo.
func (c *Client) CreateTodo(ctx context.Context, item string) (model.Todo, error) {
	var resp envelope[json.RawMessage]
	if err := c.Post(ctx, "/todos", createTodoRequest{Item: item}, &resp); err != nil {
		return model.Todo{}, err
	}
	return decodeTodo(resp.Content), nil
}

// SetTodoStatus marks a todo DONE or UNDONE.
func (c *Client) SetTodoStatus(ctx context.Context, id, action string) (model.Todo, error) {
	if action != model.ActionDone && action != model.ActionUndone {
		return model.Todo{}, fmt.Errorf("invalid todo action %q", action)
	}

	var resp envelope[json.RawMessage]
	err := c.Post(ctx, todoPath(id), statusRequest{Action: action}, &resp)
	if err != nil {
		return model.Todo{}, err
	}
	return decodeTodo(resp.Content), nil
}

// DeleteTodo removes a todo by ID.
func (c *Client) DeleteTodo(ctx context.Context, id string) error {
	return c.Delete(ctx, todoPath(id), nil)
}

func todoPath(id string) string {
	return "/todos/" + url.PathEscape(id)
}

// decodeTodo leniently decodes a todo from response content.
func decodeTodo(raw json.RawMessage) model.Todo {
	var w wireTodo
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &w)
	}
	return w.toModel()
}
