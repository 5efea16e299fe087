package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/nhle/todo-sync/internal/model"
	"github.com/nhle/todo-sync/internal/store"
)

func (s *Server) registerTodoRoutes(r *mux.Router) {
	root, item := "", "/{id:[0-9]+}"
	if s.prefix == "/" {
		root = "/"
	}
	r.HandleFunc(root, s.listTodos).Methods(http.MethodGet)
	r.HandleFunc(root, s.createTodo).Methods(http.MethodPost)
	r.HandleFunc(item, s.getTodo).Methods(http.MethodGet)
	r.HandleFunc(item, s.replaceTodo).Methods(http.MethodPut)
	r.HandleFunc(item, s.patchTodo).Methods(http.MethodPatch)
	r.HandleFunc(item, s.deleteTodo).Methods(http.MethodDelete)
}

// listTodos supports the userId, completed, _limit and _start query
// parameters.
func (s *Server) listTodos(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var filter store.TodoFilter

	if v := q.Get("userId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid_query", "userId must be an integer")
			return
		}
		filter.UserID = &id
	}
	if v := q.Get("completed"); v != "" {
		c, err := strconv.ParseBool(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid_query", "completed must be true or false")
			return
		}
		filter.Completed = &c
	}
	if v := q.Get("_limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "invalid_query", "_limit must be a non-negative integer")
			return
		}
		filter.Limit = n
	}
	if v := q.Get("_start"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "invalid_query", "_start must be a non-negative integer")
			return
		}
		filter.Offset = n
	}

	todos, err := s.store.ListTodos(r.Context(), filter)
	if err != nil {
		s.internalError(w, r, "list_todos_failed", err)
		return
	}
	respondJSON(w, http.StatusOK, todos)
}

func (s *Server) getTodo(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	todo, err := s.store.GetTodo(r.Context(), id)
	if err != nil {
		s.storeError(w, r, "get_todo_failed", err)
		return
	}
	respondJSON(w, http.StatusOK, todo)
}

func (s *Server) createTodo(w http.ResponseWriter, r *http.Request) {
	var req todoRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	todo, err := s.store.CreateTodo(r.Context(), model.Todo{
		UserID:    req.UserID,
		Title:     req.Title,
		Completed: req.Completed,
	})
	if err != nil {
		s.storeError(w, r, "create_todo_failed", err)
		return
	}
	respondJSON(w, http.StatusCreated, todo)
}

func (s *Server) replaceTodo(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req todoRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	todo, err := s.store.ReplaceTodo(r.Context(), model.Todo{
		UserID:    req.UserID,
		ID:        id,
		Title:     req.Title,
		Completed: req.Completed,
	})
	if err != nil {
		s.storeError(w, r, "replace_todo_failed", err)
		return
	}
	respondJSON(w, http.StatusOK, todo)
}

func (s *Server) patchTodo(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req patchRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	todo, err := s.store.PatchTodo(r.Context(), id, model.TodoPatch{
		Title:     req.Title,
		Completed: req.Completed,
	})
	if err != nil {
		s.storeError(w, r, "patch_todo_failed", err)
		return
	}
	respondJSON(w, http.StatusOK, todo)
}

func (s *Server) deleteTodo(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.store.DeleteTodo(r.Context(), id); err != nil {
		s.storeError(w, r, "delete_todo_failed", err)
		return
	}
	respondJSON(w, http.StatusOK, struct{}{})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	count, err := s.store.CountTodos(r.Context())
	if err != nil {
		s.logger.Warn("health_check_failed", zap.Error(err))
		respondJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "unavailable"})
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"status": "ok", "todos": count})
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusNotFound, "not_found", "")
		return 0, false
	}
	return id, true
}

func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			respondError(w, http.StatusRequestEntityTooLarge, "request_too_large", "")
			return false
		}
		respondError(w, http.StatusBadRequest, "invalid_body", "request body must be a JSON object")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_body", validationMessage(err))
		return false
	}
	return true
}

// storeError maps store failures onto status codes.
func (s *Server) storeError(w http.ResponseWriter, r *http.Request, event string, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, "not_found", "")
	case errors.Is(err, model.ErrEmptyTitle):
		respondError(w, http.StatusBadRequest, "invalid_body", "title is required")
	default:
		s.internalError(w, r, event, err)
	}
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, event string, err error) {
	s.logger.Error(event,
		zap.Error(err),
		zap.String("request_id", RequestIDFromContext(r.Context())),
	)
	respondError(w, http.StatusInternalServerError, "internal_error", "")
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// respondError sends {"error": code} plus an optional message.
func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: code, Message: message})
}
