package testutil

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/nhle/todo-sync/internal/model"
	"github.com/nhle/todo-sync/internal/remote"
	"github.com/nhle/todo-sync/internal/server"
)

// TestServer is a reference todo collection running on httptest.
type TestServer struct {
	*httptest.Server

	// BaseURL is the collection URL, e.g. http://127.0.0.1:port/todos.
	BaseURL string
}

// NewTestServer starts the reference server over an in-memory store
// seeded with seed, or with remote.SampleTodos when seed is nil.
// It is shut down when the test completes.
func NewTestServer(t *testing.T, seed ...model.Todo) *TestServer {
	t.Helper()

	if seed == nil {
		seed = remote.SampleTodos
	}

	st := NewTestStore(t)
	if _, err := st.Seed(context.Background(), seed); err != nil {
		t.Fatalf("seeding test store: %v", err)
	}

	srv := httptest.NewServer(server.New(st, nil).Handler())
	t.Cleanup(srv.Close)

	return &TestServer{Server: srv, BaseURL: srv.URL + server.DefaultPrefix}
}
