package api

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nhle/todo-client/internal/model"
)

// envelope is the wrapper every successful response is returned in.
type envelope[T any] struct {
	Content T `json:"content"`
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginContent is the content of a successful login response.
type loginContent struct {
	User  wireUser `json:"user"`
	Token string   `json:"token"`
}

// wireUser is the user profile as sent by the server.
type wireUser struct {
	ID       flexID `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

func (u wireUser) toModel() model.User {
	return model.User{ID: string(u.ID), FullName: u.FullName, Email: u.Email}
}

// RegisterRequest is the body of POST /register.
type RegisterRequest struct {
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phoneNumber"`
	Country     string `json:"country"`
}

// todoList is the content of GET /todos.
type todoList struct {
	Entries []wireTodo `json:"entries"`
}

// wireTodo is a todo as sent by the server.
type wireTodo struct {
	ID        flexID   `json:"id"`
	Item      string   `json:"item"`
	IsDone    bool     `json:"isDone"`
	CreatedAt flexTime `json:"createdAt"`
}

func (w wireTodo) toModel() model.Todo {
	return model.Todo{
		ID:        string(w.ID),
		Item:      w.Item,
		IsDone:    w.IsDone,
		CreatedAt: time.Time(w.CreatedAt),
	}
}

// flexID accepts an identifier sent as either a JSON string or number.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or a number, got %s", data)
	}
	*f = flexID(n.String())
	return nil
}

// timestampLayouts are tried in order when decoding a string timestamp.
// Layouts without a zone are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// flexTime decodes a timestamp from RFC 3339, a few common SQL-style
// layouts, or epoch milliseconds. Anything else decodes as the zero time
// rather than failing the surrounding document.
type flexTime time.Time

func (f *flexTime) UnmarshalJSON(data []byte) error {
	*f = flexTime(parseTimestamp(data))
	return nil
}

func parseTimestamp(data []byte) time.Time {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// Bare JSON number.
		s = string(data)
	}
	s = strings.TrimSpace(s)
	if s == "" || s == "null" {
		return time.Time{}
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC()
	}
	return time.Time{}
}

// createTodoRequest is the body of POST /todos.
type createTodoRequest struct {
	Item string `json:"item"`
}

// statusRequest is the body of POST /todos/{id}.
type statusRequest struct {
	Action string `json:"action"`
}

// errorResponse covers the error shapes the API is known to return.
type errorResponse struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
}

// serverMessage extracts a human-readable message from an error body.
func serverMessage(body []byte) string {
	var resp errorResponse
	if json.Unmarshal(body, &resp) != nil {
		return ""
	}
	if resp.Message != "" {
		return resp.Message
	}
	if len(resp.Errors) > 0 {
		return resp.Errors[0]
	}
	return ""
}
