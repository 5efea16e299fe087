package model

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Filter selects which todos the filtered view shows.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterCompleted Filter = "completed"
	FilterPending   Filter = "pending"
)

// Filters lists the selectable filters in display order.
var Filters = []Filter{FilterAll, FilterCompleted, FilterPending}

// ErrInvalidFilter is returned by ParseFilter for unknown names.
var ErrInvalidFilter = errors.New("invalid filter")

// ParseFilter converts a user-supplied name into a Filter.
func ParseFilter(s string) (Filter, error) {
	switch Filter(strings.ToLower(strings.TrimSpace(s))) {
	case FilterAll, "":
		return FilterAll, nil
	case FilterCompleted:
		return FilterCompleted, nil
	case FilterPending:
		return FilterPending, nil
	default:
		return "", fmt.Errorf("%w: %q (must be all, completed or pending)", ErrInvalidFilter, s)
	}
}

// Next returns the filter after f, wrapping around.
func (f Filter) Next() Filter {
	for i, candidate := range Filters {
		if candidate == f {
			return Filters[(i+1)%len(Filters)]
		}
	}
	return FilterAll
}

// FilterTodos returns the subset of todos matching f, preserving order.
// FilterAll returns todos unchanged.
func FilterTodos(todos []Todo, f Filter) []Todo {
	switch f {
	case FilterCompleted, FilterPending:
		want := f == FilterCompleted
		out := make([]Todo, 0, len(todos))
		for _, t := range todos {
			if t.Completed == want {
				out = append(out, t)
			}
		}
		return out
	default:
		return todos
	}
}

// Stats is the aggregate statistics block shown alongside the list.
type Stats struct {
	Total          int `json:"total"`
	Completed      int `json:"completed"`
	Pending        int `json:"pending"`
	CompletionRate int `json:"completionRate"`
}

// ComputeStats derives Stats from the full list. CompletionRate is a
// whole percentage and is 0 for an empty list.
func ComputeStats(todos []Todo) Stats {
	s := Stats{Total: len(todos)}
	for _, t := range todos {
		if t.Completed {
			s.Completed++
		}
	}
	s.Pending = s.Total - s.Completed
	if s.Total > 0 {
		s.CompletionRate = int(math.Round(float64(s.Completed) / float64(s.Total) * 100))
	}
	return s
}
