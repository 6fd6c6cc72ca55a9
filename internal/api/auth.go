package api

import (
	"context"
	"fmt"

	"github.com/nhle/todo-client/internal/model"
)

// Login exchanges credentials for a session.
func (c *Client) Login(ctx context.Context, email, password string) (model.Session, error) {
	var resp envelope[loginContent]
	err := c.Post(ctx, "/login", LoginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return model.Session{}, err
	}
	if resp.Content.Token == "" {
		return model.Session{}, fmt.Errorf("login response carried no token")
	}

	return model.Session{
		User:  resp.Content.User.toModel(),
		Token: resp.Content.Token,
	}, nil
}

// Register creates a new account. A 2xx response is the only success
// indicator; the body is not inspected.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	return c.Post(ctx, "/register", req, nil)
}
