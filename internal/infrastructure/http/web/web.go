// Package web serves the server-rendered HTML pages.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rezkam/todos/internal/application/todo"
	"github.com/rezkam/todos/internal/domain"
	"github.com/rezkam/todos/internal/infrastructure/http/session"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const (
	pageLists    = "lists.tmpl"
	pageNewList  = "new_list.tmpl"
	pageList     = "list.tmpl"
	pageEditList = "edit_list.tmpl"
	pageNotFound = "not_found.tmpl"
)

// Handler renders the HTML pages and handles form posts.
type Handler struct {
	todoService *todo.Service
	sessions    *session.Manager
	pages       map[string]*template.Template
}

// NewHandler parses the embedded templates.
func NewHandler(todoService *todo.Service, sessions *session.Manager) (*Handler, error) {
	pages := make(map[string]*template.Template)
	for _, name := range []string{pageLists, pageNewList, pageList, pageEditList, pageNotFound} {
		t, err := template.ParseFS(templateFS, "templates/layout.tmpl", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		pages[name] = t
	}

	return &Handler{
		todoService: todoService,
		sessions:    sessions,
		pages:       pages,
	}, nil
}

// Routes returns a router with every page mounted. It expects the session
// middleware to run first.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/lists", http.StatusFound)
	})

	r.Route("/lists", func(r chi.Router) {
		r.Get("/", h.showLists)
		r.Post("/", h.createList)
		r.Get("/new", h.newList)

		r.Route("/{listID}", func(r chi.Router) {
			r.Get("/", h.showList)
			r.Post("/", h.renameList)
			r.Get("/edit", h.editList)
			r.Post("/destroy", h.deleteList)
			r.Post("/complete_all", h.completeAll)
			r.Post("/todos", h.createTodo)
			r.Post("/todos/{todoID}/toggle", h.toggleTodo)
			r.Post("/todos/{todoID}/destroy", h.deleteTodo)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		h.notFound(w, r, "The page you requested does not exist.")
	})

	return r
}

// pageData is the value every template receives.
type pageData struct {
	Flashes       []session.Flash
	Lists         []listView
	List          *listView
	TodoListTitle string
	TodoTitle     string
	Message       string
}

type listView struct {
	ID          int
	Title       string
	Done        bool
	TotalTodos  int
	UndoneTodos int
	Todos       []todoView
}

type todoView struct {
	ID      int
	Title   string
	Done    bool
	Display string
}

func newListView(l *domain.TodoList) *listView {
	sorted := domain.SortTodos(l)
	todos := make([]todoView, len(sorted))
	for i, t := range sorted {
		todos[i] = todoView{ID: t.ID(), Title: t.Title(), Done: t.IsDone(), Display: t.String()}
	}
	return &listView{
		ID:          l.ID(),
		Title:       l.Title(),
		Done:        l.IsDone(),
		TotalTodos:  l.Len(),
		UndoneTodos: l.UndoneCount(),
		Todos:       todos,
	}
}

// render executes the page into a buffer first so template errors become a
// clean 500. Pending flashes are consumed here.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, page string, status int, data pageData) {
	data.Flashes = append(h.sessions.PopFlashes(r.Context()), data.Flashes...)

	var buf bytes.Buffer
	if err := h.pages[page].ExecuteTemplate(&buf, "layout", data); err != nil {
		slog.ErrorContext(r.Context(), "failed to render page",
			"page", page,
			"error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.ErrorContext(r.Context(), "failed to write page", "error", err)
	}
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request, message string) {
	h.render(w, r, pageNotFound, http.StatusNotFound, pageData{Message: message})
}

func (h *Handler) scope(r *http.Request) string {
	return h.sessions.Scope(r.Context())
}

func (h *Handler) redirect(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, path, http.StatusFound)
}

func listPath(id int) string {
	return "/lists/" + domain.FormatID(id)
}
