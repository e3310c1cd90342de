package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rezkam/todos/internal/infrastructure/http/response"
)

// CreateTodo handles POST /lists/{listID}/todos.
func (h *TodoHandler) CreateTodo(w http.ResponseWriter, r *http.Request) {
	title, err := decodeTitle(r)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	todo, err := h.todoService.AddTodo(r.Context(), h.scopes.Scope(r.Context()), chi.URLParam(r, "listID"), title)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.Created(w, TodoResponse{Todo: MapTodoToDTO(todo)})
}

// ToggleTodo handles POST /lists/{listID}/todos/{todoID}/toggle.
func (h *TodoHandler) ToggleTodo(w http.ResponseWriter, r *http.Request) {
	todo, err := h.todoService.ToggleTodo(r.Context(), h.scopes.Scope(r.Context()),
		chi.URLParam(r, "listID"), chi.URLParam(r, "todoID"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.OK(w, TodoResponse{Todo: MapTodoToDTO(todo)})
}

// DeleteTodo handles DELETE /lists/{listID}/todos/{todoID}.
func (h *TodoHandler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	_, err := h.todoService.DeleteTodo(r.Context(), h.scopes.Scope(r.Context()),
		chi.URLParam(r, "listID"), chi.URLParam(r, "todoID"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.NoContent(w)
}
