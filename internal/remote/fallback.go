package remote

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/nhle/todo-sync/internal/model"
)

// ErrOffline marks a result that was synthesized locally because the
// remote collection could not be reached.
var ErrOffline = errors.New("remote todo service unavailable")

// DefaultTitle replaces an empty title in synthesized write results.
const DefaultTitle = "Untitled todo"

// SampleTodos is the fixed list served when the collection cannot be
// listed. Callers get a copy; see sampleTodos.
var SampleTodos = []model.Todo{
	{UserID: model.DefaultUserID, ID: 1, Title: "Learn Go", Completed: false},
	{UserID: model.DefaultUserID, ID: 2, Title: "Build Todo App", Completed: true},
	{UserID: model.DefaultUserID, ID: 3, Title: "Master concurrency", Completed: false},
	{UserID: model.DefaultUserID, ID: 4, Title: "Style the terminal UI", Completed: true},
	{UserID: model.DefaultUserID, ID: 5, Title: "Deploy to production", Completed: false},
}

func sampleTodos() []model.Todo {
	out := make([]model.Todo, len(SampleTodos))
	copy(out, SampleTodos)
	return out
}

// OfflineTitle is the placeholder title for a todo that could not be fetched.
func OfflineTitle(id int64) string {
	return fmt.Sprintf("Todo %d (offline)", id)
}

// Result is the outcome of one remote operation. Offline is true only
// when Data was synthesized by the fallback path; Cause then holds the
// error that triggered it.
type Result[T any] struct {
	Data    T
	Offline bool
	Cause   error
}

// IDGenerator hands out wall-clock derived ids that are strictly
// increasing for the life of the process, even when called many times
// within the same millisecond or from several goroutines.
type IDGenerator struct {
	last atomic.Int64
	now  func() time.Time
}

// NewIDGenerator returns a generator reading the given clock. A nil
// clock uses time.Now.
func NewIDGenerator(now func() time.Time) *IDGenerator {
	if now == nil {
		now = time.Now
	}
	return &IDGenerator{now: now}
}

// Next returns max(now in ms, previous+1).
func (g *IDGenerator) Next() int64 {
	for {
		prev := g.last.Load()
		next := g.now().UnixMilli()
		if next <= prev {
			next = prev + 1
		}
		if g.last.CompareAndSwap(prev, next) {
			return next
		}
	}
}

var localIDs = NewIDGenerator(nil)

// NextLocalID returns a process-unique id for a todo created without
// the remote collection.
func NextLocalID() int64 {
	return localIDs.Next()
}

// withFallback runs call under its own timeout and, when it fails for
// any reason other than the caller giving up, logs the failure and
// substitutes fallback(). The caller's own cancellation is returned as
// an error so a superseded call leaves no trace.
func withFallback[T any](
	ctx context.Context,
	logger *zap.Logger,
	op string,
	timeout time.Duration,
	call func(ctx context.Context) (T, error),
	fallback func() T,
) (Result[T], error) {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	data, err := call(callCtx)
	if err == nil {
		return Result[T]{Data: data}, nil
	}

	if errors.Is(ctx.Err(), context.Canceled) {
		return Result[T]{}, fmt.Errorf("%s: %w", op, ctx.Err())
	}

	logger.Warn("remote_unavailable",
		zap.String("op", op),
		zap.Duration("timeout", timeout),
		zap.Error(err),
	)

	return Result[T]{
		Data:    fallback(),
		Offline: true,
		Cause:   err,
	}, nil
}
