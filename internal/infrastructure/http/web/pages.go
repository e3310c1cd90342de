package web

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rezkam/todos/internal/domain"
	"github.com/rezkam/todos/internal/infrastructure/http/session"
)

// Flash texts shown after successful actions.
const (
	msgListCreated   = "The todo list has been created."
	msgListUpdated   = "Todo list updated."
	msgListDeleted   = "Todo list deleted."
	msgTodoCreated   = "The todo has been created."
	msgTodoDeleted   = "The todo has been deleted."
	msgAllDone       = "All todos have been marked as done."
	msgTodoDoneFmt   = `"%s" marked done.`
	msgTodoUndoneFmt = `"%s" marked as NOT done!`
)

// listTitleMessage returns the form error for a rejected list title.
func listTitleMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, domain.ErrTitleRequired):
		return "A title was not provided.", true
	case errors.Is(err, domain.ErrTitleTooLong):
		return fmt.Sprintf("List title must be between 1 and %d characters.", domain.MaxTitleLength), true
	case errors.Is(err, domain.ErrTitleNotUnique):
		return "List title must be unique.", true
	}
	return "", false
}

func todoTitleMessage(err error) (string, bool) {
	if errors.Is(err, domain.ErrTitleRequired) || errors.Is(err, domain.ErrTitleTooLong) {
		return fmt.Sprintf("Todo title must be between 1 and %d characters.", domain.MaxTitleLength), true
	}
	return "", false
}

// fail handles errors that are not form validation problems.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrListNotFound):
		h.notFound(w, r, "Todo list not found.")
	case errors.Is(err, domain.ErrTodoNotFound):
		h.notFound(w, r, "Todo not found.")
	default:
		slog.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func errorFlash(message string) []session.Flash {
	return []session.Flash{{Kind: session.KindError, Message: message}}
}

func (h *Handler) showLists(w http.ResponseWriter, r *http.Request) {
	lists, err := h.todoService.Lists(r.Context(), h.scope(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	sorted := domain.SortTodoLists(lists)
	views := make([]listView, len(sorted))
	for i, l := range sorted {
		views[i] = *newListView(l)
	}
	h.render(w, r, pageLists, http.StatusOK, pageData{Lists: views})
}

func (h *Handler) newList(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, pageNewList, http.StatusOK, pageData{})
}

func (h *Handler) createList(w http.ResponseWriter, r *http.Request) {
	title := r.PostFormValue("todoListTitle")

	_, err := h.todoService.CreateList(r.Context(), h.scope(r), title)
	if msg, ok := listTitleMessage(err); ok {
		h.render(w, r, pageNewList, http.StatusUnprocessableEntity, pageData{
			Flashes:       errorFlash(msg),
			TodoListTitle: title,
		})
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.sessions.AddFlash(r.Context(), session.KindSuccess, msgListCreated)
	h.redirect(w, r, "/lists")
}

func (h *Handler) showList(w http.ResponseWriter, r *http.Request) {
	list, err := h.todoService.GetList(r.Context(), h.scope(r), chi.URLParam(r, "listID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.render(w, r, pageList, http.StatusOK, pageData{List: newListView(list)})
}

func (h *Handler) editList(w http.ResponseWriter, r *http.Request) {
	list, err := h.todoService.GetList(r.Context(), h.scope(r), chi.URLParam(r, "listID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.render(w, r, pageEditList, http.StatusOK, pageData{
		List:          newListView(list),
		TodoListTitle: list.Title(),
	})
}

func (h *Handler) renameList(w http.ResponseWriter, r *http.Request) {
	listID := chi.URLParam(r, "listID")
	title := r.PostFormValue("todoListTitle")

	list, err := h.todoService.RenameList(r.Context(), h.scope(r), listID, title)
	if msg, ok := listTitleMessage(err); ok {
		current, getErr := h.todoService.GetList(r.Context(), h.scope(r), listID)
		if getErr != nil {
			h.fail(w, r, getErr)
			return
		}
		h.render(w, r, pageEditList, http.StatusUnprocessableEntity, pageData{
			Flashes:       errorFlash(msg),
			List:          newListView(current),
			TodoListTitle: title,
		})
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.sessions.AddFlash(r.Context(), session.KindSuccess, msgListUpdated)
	h.redirect(w, r, listPath(list.ID()))
}

func (h *Handler) deleteList(w http.ResponseWriter, r *http.Request) {
	if _, err := h.todoService.DeleteList(r.Context(), h.scope(r), chi.URLParam(r, "listID")); err != nil {
		h.fail(w, r, err)
		return
	}

	h.sessions.AddFlash(r.Context(), session.KindSuccess, msgListDeleted)
	h.redirect(w, r, "/lists")
}

func (h *Handler) completeAll(w http.ResponseWriter, r *http.Request) {
	list, err := h.todoService.CompleteAll(r.Context(), h.scope(r), chi.URLParam(r, "listID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.sessions.AddFlash(r.Context(), session.KindSuccess, msgAllDone)
	h.redirect(w, r, listPath(list.ID()))
}

func (h *Handler) createTodo(w http.ResponseWriter, r *http.Request) {
	listID := chi.URLParam(r, "listID")
	title := r.PostFormValue("todoTitle")

	_, err := h.todoService.AddTodo(r.Context(), h.scope(r), listID, title)
	if msg, ok := todoTitleMessage(err); ok {
		list, getErr := h.todoService.GetList(r.Context(), h.scope(r), listID)
		if getErr != nil {
			h.fail(w, r, getErr)
			return
		}
		h.render(w, r, pageList, http.StatusUnprocessableEntity, pageData{
			Flashes:   errorFlash(msg),
			List:      newListView(list),
			TodoTitle: title,
		})
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.sessions.AddFlash(r.Context(), session.KindSuccess, msgTodoCreated)
	h.redirect(w, r, "/lists/"+listID)
}

func (h *Handler) toggleTodo(w http.ResponseWriter, r *http.Request) {
	listID := chi.URLParam(r, "listID")

	todo, err := h.todoService.ToggleTodo(r.Context(), h.scope(r), listID, chi.URLParam(r, "todoID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	format := msgTodoUndoneFmt
	if todo.IsDone() {
		format = msgTodoDoneFmt
	}
	h.sessions.AddFlash(r.Context(), session.KindSuccess, fmt.Sprintf(format, todo.Title()))
	h.redirect(w, r, "/lists/"+listID)
}

func (h *Handler) deleteTodo(w http.ResponseWriter, r *http.Request) {
	listID := chi.URLParam(r, "listID")

	if _, err := h.todoService.DeleteTodo(r.Context(), h.scope(r), listID, chi.URLParam(r, "todoID")); err != nil {
		h.fail(w, r, err)
		return
	}

	h.sessions.AddFlash(r.Context(), session.KindSuccess, msgTodoDeleted)
	h.redirect(w, r, "/lists/"+listID)
}
