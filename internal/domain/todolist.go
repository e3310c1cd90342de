package domain

import (
	"iter"
	"slices"
)

// TodoCollection is an ordered run of todos that can be counted, indexed
// and iterated. TodoList satisfies it; so does any sorted view of one.
type TodoCollection interface {
	Len() int
	At(index int) (*Todo, error)
	All() iter.Seq[*Todo]
}

// TodoList is a titled, ordered collection of todos.
// Insertion order is the only order it keeps; sorted views are produced by
// SortTodos.
type TodoList struct {
	id    int
	title string
	todos []*Todo
}

var _ TodoCollection = (*TodoList)(nil)

// NewTodoList creates an empty list with a fresh id.
func NewTodoList(ids IDSource, title string) *TodoList {
	return &TodoList{
		id:    ids.NextID(),
		title: title,
	}
}

// ID returns the list id. It never changes.
func (l *TodoList) ID() int {
	return l.id
}

// Title returns the current title.
func (l *TodoList) Title() string {
	return l.title
}

// Rename overwrites the title.
func (l *TodoList) Rename(title string) {
	l.title = title
}

// Add appends todo to the end of the list.
// Ids are not checked for duplicates; callers get unique ids from the shared
// sequence.
func (l *TodoList) Add(todo *Todo) {
	l.todos = append(l.todos, todo)
}

// Len returns the number of todos.
func (l *TodoList) Len() int {
	return len(l.todos)
}

// At returns the todo at index.
func (l *TodoList) At(index int) (*Todo, error) {
	if index < 0 || index >= len(l.todos) {
		return nil, ErrTodoNotFound
	}
	return l.todos[index], nil
}

// First returns the first todo.
func (l *TodoList) First() (*Todo, error) {
	return l.At(0)
}

// Last returns the last todo.
func (l *TodoList) Last() (*Todo, error) {
	return l.At(len(l.todos) - 1)
}

// Find returns the todo with the given id.
func (l *TodoList) Find(id int) (*Todo, error) {
	for _, todo := range l.todos {
		if todo.id == id {
			return todo, nil
		}
	}
	return nil, ErrTodoNotFound
}

// IndexOf returns the position of todo, compared by reference.
func (l *TodoList) IndexOf(todo *Todo) (int, error) {
	index := slices.Index(l.todos, todo)
	if index < 0 {
		return -1, ErrTodoNotFound
	}
	return index, nil
}

// RemoveAt removes and returns the todo at index.
// The list is left untouched when index is out of range.
func (l *TodoList) RemoveAt(index int) (*Todo, error) {
	todo, err := l.At(index)
	if err != nil {
		return nil, err
	}
	l.todos = slices.Delete(l.todos, index, index+1)
	return todo, nil
}

// Remove removes todo, compared by reference.
func (l *TodoList) Remove(todo *Todo) error {
	index, err := l.IndexOf(todo)
	if err != nil {
		return err
	}
	_, err = l.RemoveAt(index)
	return err
}

// MarkAllDone marks every todo done. No-op on an empty list.
func (l *TodoList) MarkAllDone() {
	for _, todo := range l.todos {
		todo.MarkDone()
	}
}

// MarkAllUndone marks every todo undone.
func (l *TodoList) MarkAllUndone() {
	for _, todo := range l.todos {
		todo.MarkUndone()
	}
}

// IsDone reports whether the list has todos and all of them are done.
// An empty list is never done.
func (l *TodoList) IsDone() bool {
	return len(l.todos) > 0 && l.UndoneCount() == 0
}

// UndoneCount returns how many todos are still open.
func (l *TodoList) UndoneCount() int {
	n := 0
	for _, todo := range l.todos {
		if !todo.done {
			n++
		}
	}
	return n
}

// All yields the todos in insertion order. Each call starts a fresh pass
// over the current contents. Do not mutate the list while ranging.
func (l *TodoList) All() iter.Seq[*Todo] {
	return func(yield func(*Todo) bool) {
		for _, todo := range l.todos {
			if !yield(todo) {
				return
			}
		}
	}
}

// Todos returns a copy of the todo slice in insertion order.
func (l *TodoList) Todos() []*Todo {
	return slices.Clone(l.todos)
}

// String renders the list header followed by one line per todo.
func (l *TodoList) String() string {
	s := "---- " + l.title + " ----"
	for _, todo := range l.todos {
		s += "\n" + todo.String()
	}
	return s
}
