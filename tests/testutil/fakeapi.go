package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	gosync "sync"
	"testing"
	"time"

	"github.com/nhle/todo-client/internal/model"
)

// RecordedRequest is a request as seen by the fake API.
type RecordedRequest struct {
	Method        string
	Path          string
	Authorization string
	Body          []byte
}

type account struct {
	user     model.User
	password string
	token    string
}

// FakeAPI is an in-memory stand-in for the remote todo API served over
// httptest. It records every request it receives.
type FakeAPI struct {
	Server *httptest.Server

	mu          gosync.Mutex
	todos       []model.Todo
	accounts    map[string]*account
	requests    []RecordedRequest
	failures    map[string]int
	requireAuth bool
	nextID      int
}

// NewFakeAPI starts a fake API server that is closed when the test ends.
func NewFakeAPI(t *testing.T) *FakeAPI {
	t.Helper()

	f := &FakeAPI{
		accounts: make(map[string]*account),
		failures: make(map[string]int),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /login", f.handleLogin)
	mux.HandleFunc("POST /register", f.handleRegister)
	mux.HandleFunc("GET /todos", f.handleList)
	mux.HandleFunc("POST /todos", f.handleCreate)
	mux.HandleFunc("POST /todos/{id}", f.handleStatus)
	mux.HandleFunc("DELETE /todos/{id}", f.handleDelete)

	f.Server = httptest.NewServer(f.record(mux))
	t.Cleanup(f.Server.Close)
	return f
}

// URL returns the base URL of the fake server.
func (f *FakeAPI) URL() string {
	return f.Server.URL
}

// RequireAuth makes todo endpoints reject requests without a token issued
// by POST /login.
func (f *FakeAPI) RequireAuth() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requireAuth = true
}

// AddAccount registers a user that can log in.
func (f *FakeAPI) AddAccount(id, fullName, email, password string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accounts[email] = &account{
		user:     model.User{ID: id, FullName: fullName, Email: email},
		password: password,
		token:    "token-" + id,
	}
}

// Seed replaces the server-side collection.
func (f *FakeAPI) Seed(todos ...model.Todo) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.todos = append([]model.Todo(nil), todos...)
}

// Todos returns a copy of the server-side collection.
func (f *FakeAPI) Todos() []model.Todo {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Todo(nil), f.todos...)
}

// Fail makes every request matching method and path answer with status.
func (f *FakeAPI) Fail(method, path string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[method+" "+path] = status
}

// Requests returns every request received so far.
func (f *FakeAPI) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]RecordedRequest(nil), f.requests...)
}

// RequestCount returns how many requests matched method (any method when
// empty).
func (f *FakeAPI) RequestCount(method string) int {
	n := 0
	for _, r := range f.Requests() {
		if method == "" || r.Method == method {
			n++
		}
	}
	return n
}

func (f *FakeAPI) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(strings.NewReader(string(body)))

		f.mu.Lock()
		f.requests = append(f.requests, RecordedRequest{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
			Body:          body,
		})
		status, fail := f.failures[r.Method+" "+r.URL.Path]
		f.mu.Unlock()

		if fail {
			writeJSON(w, status, map[string]string{"message": "injected failure"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (f *FakeAPI) authorized(r *http.Request) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.requireAuth {
		return true
	}
	header := r.Header.Get("Authorization")
	for _, a := range f.accounts {
		if header == "Bearer "+a.token {
			return true
		}
	}
	return false
}

func (f *FakeAPI) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "bad request"})
		return
	}

	f.mu.Lock()
	a, ok := f.accounts[req.Email]
	f.mu.Unlock()
	if !ok || a.password != req.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "invalid credentials"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"content": map[string]any{"user": a.user, "token": a.token},
	})
}

func (f *FakeAPI) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FullName    string `json:"fullName"`
		Email       string `json:"email"`
		Password    string `json:"password"`
		PhoneNumber string `json:"phoneNumber"`
		Country     string `json:"country"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "bad request"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.accounts[req.Email]; exists {
		writeJSON(w, http.StatusConflict, map[string]string{"message": "email already registered"})
		return
	}
	id := fmt.Sprintf("user-%d", len(f.accounts)+1)
	f.accounts[req.Email] = &account{
		user:     model.User{ID: id, FullName: req.FullName, Email: req.Email},
		password: req.Password,
		token:    "token-" + id,
	}
	writeJSON(w, http.StatusCreated, map[string]any{"content": map[string]bool{"success": true}})
}

func (f *FakeAPI) handleList(w http.ResponseWriter, r *http.Request) {
	if !f.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "unauthorized"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"content": map[string]any{"entries": f.Todos()},
	})
}

func (f *FakeAPI) handleCreate(w http.ResponseWriter, r *http.Request) {
	if !f.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "unauthorized"})
		return
	}
	var req struct {
		Item string `json:"item"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Item) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "item is required"})
		return
	}

	f.mu.Lock()
	f.nextID++
	todo := model.Todo{
		ID:        fmt.Sprintf("todo-%d", f.nextID),
		Item:      req.Item,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	f.todos = append(f.todos, todo)
	f.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]any{"content": todo})
}

func (f *FakeAPI) handleStatus(w http.ResponseWriter, r *http.Request) {
	if !f.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "unauthorized"})
		return
	}
	var req struct {
		Action string `json:"action"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "bad request"})
		return
	}

	id := r.PathValue("id")
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.todos {
		if f.todos[i].ID != id {
			continue
		}
		switch req.Action {
		case model.ActionDone:
			f.todos[i].IsDone = true
		case model.ActionUndone:
			f.todos[i].IsDone = false
		default:
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "unknown action"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"content": f.todos[i]})
		return
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "todo not found"})
}

func (f *FakeAPI) handleDelete(w http.ResponseWriter, r *http.Request) {
	if !f.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "unauthorized"})
		return
	}

	id := r.PathValue("id")
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.todos {
		if f.todos[i].ID == id {
			f.todos = append(f.todos[:i], f.todos[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]any{"content": map[string]string{"id": id}})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "todo not found"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
