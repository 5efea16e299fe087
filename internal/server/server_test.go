package server_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/nhle/todo-sync/internal/model"
	"github.com/nhle/todo-sync/internal/server"
	"github.com/nhle/todo-sync/tests/testutil"
)

func do(t *testing.T, method, url, body string) (*http.Response, []byte) {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, r)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	return resp, data
}

func decodeTodo(t *testing.T, data []byte) model.Todo {
	t.Helper()
	var todo model.Todo
	if err := json.Unmarshal(data, &todo); err != nil {
		t.Fatalf("decoding todo %q: %v", data, err)
	}
	return todo
}

func TestServer_Routes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantBody   string
	}{
		{name: "get existing", method: http.MethodGet, path: "/2", wantStatus: 200, wantBody: `{"userId":1,"id":2,"title":"Build Todo App","completed":true}`},
		{name: "get missing", method: http.MethodGet, path: "/99", wantStatus: 404, wantBody: `{"error":"not_found"}`},
		{name: "non-numeric id", method: http.MethodGet, path: "/abc", wantStatus: 404, wantBody: `{"error":"not_found"}`},
		{name: "create", method: http.MethodPost, path: "", body: `{"title":"new","completed":false,"userId":1}`, wantStatus: 201, wantBody: `{"userId":1,"id":6,"title":"new","completed":false}`},
		{name: "create blank title", method: http.MethodPost, path: "", body: `{"title":"   "}`, wantStatus: 400},
		{name: "create malformed", method: http.MethodPost, path: "", body: `{"title":`, wantStatus: 400},
		{name: "replace", method: http.MethodPut, path: "/1", body: `{"title":"Learn more Go","completed":true,"userId":1}`, wantStatus: 200, wantBody: `{"userId":1,"id":1,"title":"Learn more Go","completed":true}`},
		{name: "replace missing", method: http.MethodPut, path: "/99", body: `{"title":"x"}`, wantStatus: 404},
		{name: "patch completed only", method: http.MethodPatch, path: "/3", body: `{"completed":true}`, wantStatus: 200, wantBody: `{"userId":1,"id":3,"title":"Master concurrency","completed":true}`},
		{name: "patch blank title", method: http.MethodPatch, path: "/3", body: `{"title":""}`, wantStatus: 400},
		{name: "delete", method: http.MethodDelete, path: "/5", wantStatus: 200, wantBody: `{}`},
		{name: "delete missing", method: http.MethodDelete, path: "/99", wantStatus: 404, wantBody: `{"error":"not_found"}`},
		{name: "method not allowed", method: http.MethodPost, path: "/1", body: `{}`, wantStatus: 405},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// Each case gets its own database so ids are predictable.
			ts := testutil.NewTestServer(t)
			resp, data := do(t, tt.method, ts.BaseURL+tt.path, tt.body)

			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", resp.StatusCode, tt.wantStatus, data)
			}
			if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q", ct)
			}
			if tt.wantBody != "" && strings.TrimSpace(string(data)) != tt.wantBody {
				t.Errorf("body = %s, want %s", data, tt.wantBody)
			}
		})
	}
}

func TestServer_List(t *testing.T) {
	t.Parallel()

	ts := testutil.NewTestServer(t)

	tests := []struct {
		query      string
		wantStatus int
		wantIDs    []int64
	}{
		{query: "", wantStatus: 200, wantIDs: []int64{1, 2, 3, 4, 5}},
		{query: "?completed=true", wantStatus: 200, wantIDs: []int64{2, 4}},
		{query: "?completed=false&_limit=2", wantStatus: 200, wantIDs: []int64{1, 3}},
		{query: "?_start=3", wantStatus: 200, wantIDs: []int64{4, 5}},
		{query: "?userId=2", wantStatus: 200, wantIDs: []int64{}},
		{query: "?completed=maybe", wantStatus: 400},
		{query: "?_limit=-1", wantStatus: 400},
	}

	for _, tt := range tests {
		resp, data := do(t, http.MethodGet, ts.BaseURL+tt.query, "")
		if resp.StatusCode != tt.wantStatus {
			t.Errorf("%q: status = %d, want %d", tt.query, resp.StatusCode, tt.wantStatus)
			continue
		}
		if tt.wantStatus != 200 {
			continue
		}
		var todos []model.Todo
		if err := json.Unmarshal(data, &todos); err != nil {
			t.Fatalf("%q: decoding: %v", tt.query, err)
		}
		if todos == nil {
			t.Errorf("%q: expected a JSON array, got %s", tt.query, data)
		}
		if len(todos) != len(tt.wantIDs) {
			t.Errorf("%q: got %d todos, want %d", tt.query, len(todos), len(tt.wantIDs))
			continue
		}
		for i, id := range tt.wantIDs {
			if todos[i].ID != id {
				t.Errorf("%q: position %d id = %d, want %d", tt.query, i, todos[i].ID, id)
			}
		}
	}
}

func TestServer_CreateThenGet(t *testing.T) {
	t.Parallel()

	ts := testutil.NewTestServer(t)

	resp, data := do(t, http.MethodPost, ts.BaseURL, `{"title":"  trimmed  ","completed":true}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	created := decodeTodo(t, data)
	if created.Title != "trimmed" || created.UserID != model.DefaultUserID {
		t.Errorf("created = %+v", created)
	}

	_, data = do(t, http.MethodGet, ts.BaseURL+"/6", "")
	if got := decodeTodo(t, data); got != created {
		t.Errorf("GET = %+v, want %+v", got, created)
	}
}

func TestServer_RequestID(t *testing.T) {
	t.Parallel()

	ts := testutil.NewTestServer(t)

	req, _ := http.NewRequest(http.MethodGet, ts.BaseURL, nil)
	req.Header.Set(server.RequestIDHeader, "abc-123")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if got := resp.Header.Get(server.RequestIDHeader); got != "abc-123" {
		t.Errorf("echoed request id = %q", got)
	}

	resp, _ = do(t, http.MethodGet, ts.BaseURL, "")
	if resp.Header.Get(server.RequestIDHeader) == "" {
		t.Error("expected a generated request id")
	}
}

func TestServer_CORSPreflight(t *testing.T) {
	t.Parallel()

	ts := testutil.NewTestServer(t)

	req, _ := http.NewRequest(http.MethodOptions, ts.BaseURL+"/1", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("OPTIONS: %v", err)
	}
	resp.Body.Close()

	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q", got)
	}
	if resp.StatusCode >= 300 {
		t.Errorf("preflight status = %d", resp.StatusCode)
	}
}

func TestServer_RequestTooLarge(t *testing.T) {
	t.Parallel()

	st := testutil.NewTestStore(t)
	srv := httptest.NewServer(server.New(st, zap.NewNop(), server.WithMaxRequestSize(16)).Handler())
	t.Cleanup(srv.Close)

	body := bytes.Repeat([]byte("a"), 64)
	resp, err := http.Post(srv.URL+server.DefaultPrefix, "application/json",
		strings.NewReader(`{"title":"`+string(body)+`"}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", resp.StatusCode)
	}
}

func TestServer_CustomPrefixAndHealth(t *testing.T) {
	t.Parallel()

	st := testutil.NewTestStore(t)
	s := server.New(st, nil, server.WithPrefix("api/items/"))
	if s.Prefix() != "/api/items" {
		t.Fatalf("Prefix = %q", s.Prefix())
	}
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)

	resp, data := do(t, http.MethodGet, srv.URL+"/api/items", "")
	if resp.StatusCode != http.StatusOK || strings.TrimSpace(string(data)) != "[]" {
		t.Errorf("list = %d %s", resp.StatusCode, data)
	}

	resp, data = do(t, http.MethodGet, srv.URL+"/healthz", "")
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(data), `"status":"ok"`) {
		t.Errorf("healthz = %d %s", resp.StatusCode, data)
	}
}
