package model

import (
	"errors"
	"testing"
)

func sample() []Todo {
	return []Todo{
		{UserID: 1, ID: 1, Title: "a", Completed: true},
		{UserID: 1, ID: 2, Title: "b", Completed: false},
		{UserID: 1, ID: 3, Title: "c", Completed: true},
		{UserID: 1, ID: 4, Title: "d", Completed: false},
		{UserID: 1, ID: 5, Title: "e", Completed: false},
	}
}

func TestFilterTodos(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		filter  Filter
		wantIDs []int64
	}{
		{name: "all keeps everything", filter: FilterAll, wantIDs: []int64{1, 2, 3, 4, 5}},
		{name: "completed keeps order", filter: FilterCompleted, wantIDs: []int64{1, 3}},
		{name: "pending is the complement", filter: FilterPending, wantIDs: []int64{2, 4, 5}},
		{name: "unknown behaves like all", filter: Filter("bogus"), wantIDs: []int64{1, 2, 3, 4, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := FilterTodos(sample(), tt.filter)
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("got %d todos, want %d", len(got), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if got[i].ID != id {
					t.Errorf("position %d: got id %d, want %d", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestFilterTodos_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	in := sample()
	_ = FilterTodos(in, FilterPending)
	for i, todo := range sample() {
		if in[i] != todo {
			t.Errorf("input %d changed: %+v", i, in[i])
		}
	}
}

func TestParseFilter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Filter
		wantErr bool
	}{
		{in: "all", want: FilterAll},
		{in: "", want: FilterAll},
		{in: "Completed", want: FilterCompleted},
		{in: " pending ", want: FilterPending},
		{in: "done", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseFilter(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidFilter) {
				t.Errorf("ParseFilter(%q) err = %v, want ErrInvalidFilter", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseFilter(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestFilter_Next(t *testing.T) {
	t.Parallel()

	f := FilterAll
	seen := []Filter{f}
	for i := 0; i < 3; i++ {
		f = f.Next()
		seen = append(seen, f)
	}
	want := []Filter{FilterAll, FilterCompleted, FilterPending, FilterAll}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("step %d = %q, want %q", i, seen[i], want[i])
		}
	}
}

func TestComputeStats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		todos []Todo
		want  Stats
	}{
		{name: "empty list", todos: nil, want: Stats{}},
		{
			name: "one of four completed",
			todos: []Todo{
				{ID: 1, Completed: true}, {ID: 2}, {ID: 3}, {ID: 4},
			},
			want: Stats{Total: 4, Completed: 1, Pending: 3, CompletionRate: 25},
		},
		{
			name:  "two of three rounds up",
			todos: []Todo{{ID: 1, Completed: true}, {ID: 2, Completed: true}, {ID: 3}},
			want:  Stats{Total: 3, Completed: 2, Pending: 1, CompletionRate: 67},
		},
		{
			name:  "one of eight rounds half up",
			todos: []Todo{{ID: 1, Completed: true}, {ID: 2}, {ID: 3}, {ID: 4}, {ID: 5}, {ID: 6}, {ID: 7}, {ID: 8}},
			want:  Stats{Total: 8, Completed: 1, Pending: 7, CompletionRate: 13},
		},
		{
			name:  "all completed",
			todos: []Todo{{ID: 1, Completed: true}},
			want:  Stats{Total: 1, Completed: 1, Pending: 0, CompletionRate: 100},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ComputeStats(tt.todos); got != tt.want {
				t.Errorf("ComputeStats = %+v, want %+v", got, tt.want)
			}
		})
	}
}
