package handler

import (
	"github.com/rezkam/todos/internal/domain"
)

// TodoDTO is the API form of a todo.
type TodoDTO struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Done    bool   `json:"done"`
	Display string `json:"display"`
}

// ListDTO is the API form of a list. Todos are sorted, undone first.
type ListDTO struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Done        bool      `json:"done"`
	TotalTodos  int       `json:"total_todos"`
	UndoneTodos int       `json:"undone_todos"`
	Todos       []TodoDTO `json:"todos"`
}

type ListListsResponse struct {
	Lists []ListDTO `json:"lists"`
}

type ListResponse struct {
	List ListDTO `json:"list"`
}

type TodoResponse struct {
	Todo TodoDTO `json:"todo"`
}

// MapTodoToDTO converts domain.Todo to TodoDTO.
func MapTodoToDTO(t *domain.Todo) TodoDTO {
	return TodoDTO{
		ID:      t.ID(),
		Title:   t.Title(),
		Done:    t.IsDone(),
		Display: t.String(),
	}
}

// MapListToDTO converts domain.TodoList to ListDTO.
func MapListToDTO(l *domain.TodoList) ListDTO {
	sorted := domain.SortTodos(l)
	todos := make([]TodoDTO, len(sorted))
	for i, t := range sorted {
		todos[i] = MapTodoToDTO(t)
	}
	return ListDTO{
		ID:          l.ID(),
		Title:       l.Title(),
		Done:        l.IsDone(),
		TotalTodos:  l.Len(),
		UndoneTodos: l.UndoneCount(),
		Todos:       todos,
	}
}

// MapListsToDTO converts lists, keeping their order.
func MapListsToDTO(lists []*domain.TodoList) []ListDTO {
	out := make([]ListDTO, len(lists))
	for i, l := range lists {
		out[i] = MapListToDTO(l)
	}
	return out
}
