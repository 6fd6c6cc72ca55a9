package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/todo-client/internal/api"
	"github.com/nhle/todo-client/internal/credential"
	"github.com/nhle/todo-client/internal/model"
	"github.com/nhle/todo-client/internal/session"
	"github.com/nhle/todo-client/tests/testutil"
)

func newClient(t *testing.T, fake *testutil.FakeAPI, tokens api.TokenSource) (*api.Client, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	return api.NewClient(fake.URL(), tokens, api.WithLogger(log.New(&buf, "", 0))), &buf
}

func TestEveryRequestCarriesCurrentToken(t *testing.T) {
	fake := testutil.NewFakeAPI(t)
	sess := session.New(credential.Memory(), credential.Memory())
	client, _ := newClient(t, fake, sess)
	ctx := context.Background()

	tokens := []string{"tok-a", "tok-b", "a.b.c-long-jwt-looking"}
	for _, tok := range tokens {
		require.NoError(t, sess.Set(model.Session{Token: tok}, false))

		_, err := client.ListTodos(ctx)
		require.NoError(t, err)
		_, err = client.CreateTodo(ctx, "x")
		require.NoError(t, err)

		reqs := fake.Requests()
		for _, r := range reqs[len(reqs)-2:] {
			assert.Equal(t, "Bearer "+tok, r.Authorization)
		}
	}
}

func TestNoAuthorizationHeaderAfterClear(t *testing.T) {
	fake := testutil.NewFakeAPI(t)
	sess := session.New(credential.Memory(), credential.Memory())
	client, _ := newClient(t, fake, sess)
	ctx := context.Background()

	require.NoError(t, sess.Set(model.Session{Token: "tok"}, true))
	_, err := client.ListTodos(ctx)
	require.NoError(t, err)

	require.NoError(t, sess.Clear())
	_, err = client.ListTodos(ctx)
	require.NoError(t, err)

	reqs := fake.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, "Bearer tok", reqs[0].Authorization)
	assert.Empty(t, reqs[1].Authorization)
}

func TestNilTokenSourceSendsNoHeader(t *testing.T) {
	fake := testutil.NewFakeAPI(t)
	client, _ := newClient(t, fake, nil)

	_, err := client.ListTodos(context.Background())
	require.NoError(t, err)
	assert.Empty(t, fake.Requests()[0].Authorization)
}

func TestNon2xxBecomesAPIError(t *testing.T) {
	fake := testutil.NewFakeAPI(t)
	fake.Fail(http.MethodGet, "/todos", http.StatusInternalServerError)
	client, logs := newClient(t, fake, nil)

	_, err := client.ListTodos(context.Background())
	require.Error(t, err)

	var apiErr *api.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.False(t, api.IsTransport(err))
	assert.Contains(t, string(apiErr.Body), "injected failure")
	assert.Contains(t, err.Error(), "injected failure")
	assert.Contains(t, logs.String(), "[API error] 500")
	assert.Equal(t, 1, fake.RequestCount(""), "failures must not be retried")
}

func TestTransportFailureHasZeroStatus(t *testing.T) {
	fake := testutil.NewFakeAPI(t)
	client, _ := newClient(t, fake, nil)
	fake.Server.Close()

	_, err := client.ListTodos(context.Background())
	require.Error(t, err)
	assert.Equal(t, 0, api.StatusOf(err))
	assert.True(t, api.IsTransport(err))
	assert.NotNil(t, errors.Unwrap(err))
}

func TestLogsRedactToken(t *testing.T) {
	fake := testutil.NewFakeAPI(t)
	sess := session.New(credential.Memory(), credential.Memory())
	require.NoError(t, sess.Set(model.Session{Token: "secret-token"}, false))
	client, logs := newClient(t, fake, sess)

	_, err := client.CreateTodo(context.Background(), "Buy milk")
	require.NoError(t, err)

	out := logs.String()
	assert.Contains(t, out, "[API request] POST /todos")
	assert.Contains(t, out, `{"item":"Buy milk"}`)
	assert.Contains(t, out, "[API response] 201 /todos")
	assert.NotContains(t, out, "secret-token")
}

func TestLoginAndUnauthorized(t *testing.T) {
	fake := testutil.NewFakeAPI(t)
	fake.AddAccount("u1", "Alice Smith", "alice@example.com", "hunter22")
	client, _ := newClient(t, fake, nil)
	ctx := context.Background()

	sess, err := client.Login(ctx, "alice@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "u1", sess.ID)
	assert.Equal(t, "Alice Smith", sess.FullName)
	assert.Equal(t, "token-u1", sess.Token)

	_, err = client.Login(ctx, "alice@example.com", "wrong")
	require.Error(t, err)
	assert.True(t, api.IsUnauthorized(err))
}

func TestRegisterSendsPayload(t *testing.T) {
	fake := testutil.NewFakeAPI(t)
	client, _ := newClient(t, fake, nil)

	req := api.RegisterRequest{
		FullName:    "Budi Santoso",
		Email:       "budi@example.com",
		Password:    "rahasia",
		PhoneNumber: "+628123456789",
		Country:     "Indonesia",
	}
	require.NoError(t, client.Register(context.Background(), req))

	var sent api.RegisterRequest
	require.NoError(t, json.Unmarshal(fake.Requests()[0].Body, &sent))
	assert.Equal(t, req, sent)

	err := client.Register(context.Background(), req)
	assert.Equal(t, http.StatusConflict, api.StatusOf(err))
}

func TestTodoEndpoints(t *testing.T) {
	fake := testutil.NewFakeAPI(t)
	client, _ := newClient(t, fake, nil)
	ctx := context.Background()

	created, err := client.CreateTodo(ctx, "Buy milk")
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", created.Item)
	assert.False(t, created.IsDone)

	updated, err := client.SetTodoStatus(ctx, created.ID, model.ActionDone)
	require.NoError(t, err)
	assert.True(t, updated.IsDone)

	_, err = client.SetTodoStatus(ctx, created.ID, "MAYBE")
	require.Error(t, err)

	require.NoError(t, client.DeleteTodo(ctx, created.ID))
	todos, err := client.ListTodos(ctx)
	require.NoError(t, err)
	assert.Empty(t, todos)

	err = client.DeleteTodo(ctx, created.ID)
	assert.Equal(t, http.StatusNotFound, api.StatusOf(err))
}

// rawServer answers every request with body.
func rawServer(t *testing.T, body string) *api.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return api.NewClient(srv.URL, nil, api.WithLogger(log.New(io.Discard, "", 0)))
}

func TestListTodosAcceptsTimestampVariants(t *testing.T) {
	client := rawServer(t, `{"content":{"entries":[
		{"id":"a","item":"SQL style","isDone":false,"createdAt":"2025-03-01 09:00:00"},
		{"id":"b","item":"RFC 3339","isDone":true,"createdAt":"2025-03-01T09:00:00Z"},
		{"id":"c","item":"No zone","isDone":false,"createdAt":"2025-03-01T09:00:00.123"},
		{"id":"d","item":"Epoch millis","isDone":false,"createdAt":1740819600000},
		{"id":"e","item":"Garbage","isDone":false,"createdAt":"yesterday-ish"},
		{"id":"f","item":"Missing","isDone":false}
	]}}`)

	todos, err := client.ListTodos(context.Background())
	require.NoError(t, err)
	require.Len(t, todos, 6)

	at := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	assert.True(t, at.Equal(todos[0].CreatedAt), "got %v", todos[0].CreatedAt)
	assert.True(t, at.Equal(todos[1].CreatedAt))
	assert.True(t, at.Add(123*time.Millisecond).Equal(todos[2].CreatedAt))
	assert.True(t, at.Equal(todos[3].CreatedAt))
	assert.True(t, todos[4].CreatedAt.IsZero())
	assert.True(t, todos[5].CreatedAt.IsZero())
	assert.Equal(t, "SQL style", todos[0].Item)
	assert.True(t, todos[1].IsDone)
}

func TestListTodosAcceptsNumericIDs(t *testing.T) {
	client := rawServer(t, `{"content":{"entries":[{"id":7,"item":"Numbered","isDone":false}]}}`)

	todos, err := client.ListTodos(context.Background())
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, "7", todos[0].ID)
}

func TestLoginAcceptsNumericUserID(t *testing.T) {
	client := rawServer(t, `{"content":{"user":{"id":42,"fullName":"Budi Santoso","email":"budi@example.com"},"token":"tok"}}`)

	sess, err := client.Login(context.Background(), "budi@example.com", "rahasia1")
	require.NoError(t, err)
	assert.Equal(t, "42", sess.ID)
	assert.Equal(t, "Budi Santoso", sess.FullName)
	assert.Equal(t, "tok", sess.Token)
}

func TestListTodosEmptyIsNotNil(t *testing.T) {
	client := rawServer(t, `{"content":{"entries":null}}`)

	todos, err := client.ListTodos(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, todos)
	assert.Empty(t, todos)
}
