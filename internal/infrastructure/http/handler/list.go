package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rezkam/todos/internal/domain"
	"github.com/rezkam/todos/internal/infrastructure/http/response"
)

// ListLists handles GET /lists. Lists come back sorted, undone first.
func (h *TodoHandler) ListLists(w http.ResponseWriter, r *http.Request) {
	scope := h.scopes.Scope(r.Context())

	lists, err := h.todoService.Lists(r.Context(), scope)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.OK(w, ListListsResponse{Lists: MapListsToDTO(domain.SortTodoLists(lists))})
}

// CreateList handles POST /lists.
func (h *TodoHandler) CreateList(w http.ResponseWriter, r *http.Request) {
	title, err := decodeTitle(r)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	list, err := h.todoService.CreateList(r.Context(), h.scopes.Scope(r.Context()), title)
	if err != nil {
		slog.WarnContext(r.Context(), "failed to create list via HTTP",
			"error", err)
		response.FromDomainError(w, r, err)
		return
	}

	response.Created(w, ListResponse{List: MapListToDTO(list)})
}

// GetList handles GET /lists/{listID}.
func (h *TodoHandler) GetList(w http.ResponseWriter, r *http.Request) {
	list, err := h.todoService.GetList(r.Context(), h.scopes.Scope(r.Context()), chi.URLParam(r, "listID"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.OK(w, ListResponse{List: MapListToDTO(list)})
}

// RenameList handles PATCH /lists/{listID}.
func (h *TodoHandler) RenameList(w http.ResponseWriter, r *http.Request) {
	title, err := decodeTitle(r)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	list, err := h.todoService.RenameList(r.Context(), h.scopes.Scope(r.Context()), chi.URLParam(r, "listID"), title)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.OK(w, ListResponse{List: MapListToDTO(list)})
}

// DeleteList handles DELETE /lists/{listID}.
func (h *TodoHandler) DeleteList(w http.ResponseWriter, r *http.Request) {
	if _, err := h.todoService.DeleteList(r.Context(), h.scopes.Scope(r.Context()), chi.URLParam(r, "listID")); err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.NoContent(w)
}

// CompleteAll handles POST /lists/{listID}/complete_all.
func (h *TodoHandler) CompleteAll(w http.ResponseWriter, r *http.Request) {
	list, err := h.todoService.CompleteAll(r.Context(), h.scopes.Scope(r.Context()), chi.URLParam(r, "listID"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.OK(w, ListResponse{List: MapListToDTO(list)})
}
