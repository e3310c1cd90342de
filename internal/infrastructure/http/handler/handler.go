package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rezkam/todos/internal/application/todo"
)

// Scoper resolves the store scope for a request context.
type Scoper interface {
	Scope(ctx context.Context) string
}

// TodoHandler serves the JSON API.
// It adapts HTTP requests to application service calls.
type TodoHandler struct {
	todoService *todo.Service
	scopes      Scoper
}

// NewTodoHandler creates a new HTTP API handler.
func NewTodoHandler(todoService *todo.Service, scopes Scoper) *TodoHandler {
	return &TodoHandler{
		todoService: todoService,
		scopes:      scopes,
	}
}

// Routes returns a router with every API route mounted.
// Both production code and tests should use this function to ensure identical behavior.
func (h *TodoHandler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Route("/lists", func(r chi.Router) {
		r.Get("/", h.ListLists)
		r.Post("/", h.CreateList)

		r.Route("/{listID}", func(r chi.Router) {
			r.Get("/", h.GetList)
			r.Patch("/", h.RenameList)
			r.Delete("/", h.DeleteList)
			r.Post("/complete_all", h.CompleteAll)
			r.Post("/todos", h.CreateTodo)
			r.Post("/todos/{todoID}/toggle", h.ToggleTodo)
			r.Delete("/todos/{todoID}", h.DeleteTodo)
		})
	})

	return r
}

// TitleRequest is the body of create and rename requests.
type TitleRequest struct {
	Title string `json:"title"`
}

func decodeTitle(r *http.Request) (string, error) {
	var req TitleRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return "", errors.New("request body is empty")
		}
		return "", errors.New("invalid JSON")
	}
	return req.Title, nil
}
