package remote

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/nhle/todo-sync/internal/model"
)

// Todos is the remote collection as seen by the todo store. Every write
// yields a usable todo even when the collection is unreachable, so the
// store never has to branch on network availability.
//
// *API only returns an error when the caller's context was canceled.
type Todos interface {
	List(ctx context.Context) (Result[[]model.Todo], error)
	Get(ctx context.Context, id int64) (Result[model.Todo], error)
	Create(ctx context.Context, title string, completed bool) (Result[model.Todo], error)
	Update(ctx context.Context, id int64, todo model.Todo) (Result[model.Todo], error)
	Patch(ctx context.Context, id int64, patch model.TodoPatch) (Result[model.Todo], error)
	Delete(ctx context.Context, id int64) (Result[struct{}], error)
}

// createRequest is the POST body for a new todo.
type createRequest struct {
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	UserID    int64  `json:"userId"`
}

// API implements Todos over a Client with bounded waits and local
// fallbacks.
type API struct {
	client         *Client
	logger         *zap.Logger
	ids            *IDGenerator
	listTimeout    time.Duration
	requestTimeout time.Duration
}

var _ Todos = (*API)(nil)

// Option configures an API.
type Option func(*API)

// WithTimeouts overrides the list and single-item timeouts.
func WithTimeouts(list, request time.Duration) Option {
	return func(a *API) {
		if list > 0 {
			a.listTimeout = list
		}
		if request > 0 {
			a.requestTimeout = request
		}
	}
}

// WithIDGenerator replaces the process-wide fallback id generator.
func WithIDGenerator(g *IDGenerator) Option {
	return func(a *API) { a.ids = g }
}

// WithHTTPClient sets the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(a *API) { a.client.httpClient = hc }
}

// NewAPI creates an API for the collection at baseURL.
func NewAPI(baseURL string, logger *zap.Logger, opts ...Option) *API {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &API{
		client:         NewClient(baseURL, nil, logger),
		logger:         logger,
		ids:            localIDs,
		listTimeout:    time.Duration(model.DefaultListTimeoutSec) * time.Second,
		requestTimeout: time.Duration(model.DefaultRequestTimeoutSec) * time.Second,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewAPIFromConfig creates an API from the remote section of the config.
func NewAPIFromConfig(cfg model.RemoteConfig, logger *zap.Logger) *API {
	return NewAPI(cfg.BaseURL, logger, WithTimeouts(cfg.ListTimeout(), cfg.RequestTimeout()))
}

// BaseURL returns the collection URL.
func (a *API) BaseURL() string {
	return a.client.BaseURL()
}

func itemPath(id int64) string {
	return fmt.Sprintf("/%d", id)
}

// List fetches the whole collection, or the sample list when offline.
func (a *API) List(ctx context.Context) (Result[[]model.Todo], error) {
	return withFallback(ctx, a.logger, "list", a.listTimeout,
		func(ctx context.Context) ([]model.Todo, error) {
			var todos []model.Todo
			if err := a.client.Get(ctx, "", &todos); err != nil {
				return nil, err
			}
			if todos == nil {
				todos = []model.Todo{}
			}
			return todos, nil
		},
		sampleTodos,
	)
}

// Get fetches one todo, or an offline placeholder carrying the same id.
func (a *API) Get(ctx context.Context, id int64) (Result[model.Todo], error) {
	return withFallback(ctx, a.logger, "get", a.requestTimeout,
		func(ctx context.Context) (model.Todo, error) {
			var todo model.Todo
			err := a.client.Get(ctx, itemPath(id), &todo)
			return todo, err
		},
		func() model.Todo {
			return model.Todo{
				UserID:    model.DefaultUserID,
				ID:        id,
				Title:     OfflineTitle(id),
				Completed: false,
			}
		},
	)
}

// Create posts a new todo. Offline, the todo gets a locally generated id.
func (a *API) Create(ctx context.Context, title string, completed bool) (Result[model.Todo], error) {
	body := createRequest{Title: title, Completed: completed, UserID: model.DefaultUserID}
	return withFallback(ctx, a.logger, "create", a.requestTimeout,
		func(ctx context.Context) (model.Todo, error) {
			var todo model.Todo
			err := a.client.Post(ctx, "", body, &todo)
			return todo, err
		},
		func() model.Todo {
			return model.Todo{
				UserID:    model.DefaultUserID,
				ID:        a.ids.Next(),
				Title:     title,
				Completed: completed,
			}
		},
	)
}

// Update replaces every field of todo id. Offline, the submitted fields
// are echoed back.
func (a *API) Update(ctx context.Context, id int64, todo model.Todo) (Result[model.Todo], error) {
	todo.ID = id
	if todo.UserID == 0 {
		todo.UserID = model.DefaultUserID
	}
	return withFallback(ctx, a.logger, "update", a.requestTimeout,
		func(ctx context.Context) (model.Todo, error) {
			var updated model.Todo
			err := a.client.Put(ctx, itemPath(id), todo, &updated)
			return updated, err
		},
		func() model.Todo {
			if todo.Title == "" {
				todo.Title = DefaultTitle
			}
			return todo
		},
	)
}

// Patch sends only the fields set in patch. Offline, the result is built
// from those fields with defaults for the rest.
func (a *API) Patch(ctx context.Context, id int64, patch model.TodoPatch) (Result[model.Todo], error) {
	return withFallback(ctx, a.logger, "patch", a.requestTimeout,
		func(ctx context.Context) (model.Todo, error) {
			var updated model.Todo
			err := a.client.Patch(ctx, itemPath(id), patch, &updated)
			return updated, err
		},
		func() model.Todo {
			todo := model.Todo{UserID: model.DefaultUserID, ID: id}.Apply(patch)
			if todo.Title == "" {
				todo.Title = DefaultTitle
			}
			return todo
		},
	)
}

// Delete removes todo id. Failure is treated as success.
func (a *API) Delete(ctx context.Context, id int64) (Result[struct{}], error) {
	return withFallback(ctx, a.logger, "delete", a.requestTimeout,
		func(ctx context.Context) (struct{}, error) {
			return struct{}{}, a.client.Delete(ctx, itemPath(id))
		},
		func() struct{} { return struct{}{} },
	)
}
