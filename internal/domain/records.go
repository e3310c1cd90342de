package domain

import (
	"fmt"
	"slices"
)

// TodoRecord is the plain, persistable form of a Todo.
type TodoRecord struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Done  bool   `json:"done"`
}

// TodoListRecord is the plain, persistable form of a TodoList.
type TodoListRecord struct {
	ID    int          `json:"id"`
	Title string       `json:"title"`
	Todos []TodoRecord `json:"todos"`
}

// Snapshot is the persisted form of a Collection, in list order.
type Snapshot []TodoListRecord

// Record returns the plain form of t.
func (t *Todo) Record() TodoRecord {
	return TodoRecord{ID: t.id, Title: t.title, Done: t.done}
}

// Record returns the plain form of l.
func (l *TodoList) Record() TodoListRecord {
	todos := make([]TodoRecord, len(l.todos))
	for i, todo := range l.todos {
		todos[i] = todo.Record()
	}
	return TodoListRecord{ID: l.id, Title: l.title, Todos: todos}
}

// Snapshot returns the plain form of c.
func (c *Collection) Snapshot() Snapshot {
	snap := make(Snapshot, len(c.lists))
	for i, list := range c.lists {
		snap[i] = list.Record()
	}
	return snap
}

// RestoreTodo rebuilds a Todo from its record. The id must be positive.
func RestoreTodo(rec TodoRecord) (*Todo, error) {
	if rec.ID < 1 {
		return nil, fmt.Errorf("%w: todo id %d", ErrInvalidRecord, rec.ID)
	}
	return &Todo{id: rec.ID, title: rec.Title, done: rec.Done}, nil
}

// RestoreTodoList rebuilds a TodoList and its todos from a record.
// Todo ids must be positive and unique within the list.
func RestoreTodoList(rec TodoListRecord) (*TodoList, error) {
	if rec.ID < 1 {
		return nil, fmt.Errorf("%w: list id %d", ErrInvalidRecord, rec.ID)
	}

	list := &TodoList{id: rec.ID, title: rec.Title, todos: make([]*Todo, 0, len(rec.Todos))}
	seen := make(map[int]struct{}, len(rec.Todos))
	for _, todoRec := range rec.Todos {
		if _, dup := seen[todoRec.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate todo id %d in list %d", ErrInvalidRecord, todoRec.ID, rec.ID)
		}
		seen[todoRec.ID] = struct{}{}

		todo, err := RestoreTodo(todoRec)
		if err != nil {
			return nil, err
		}
		list.todos = append(list.todos, todo)
	}
	return list, nil
}

// RestoreCollection rebuilds a Collection from a snapshot. List ids must be
// unique. Every restored id is reported to observe, when non-nil, so the
// caller's sequence can move past it.
func RestoreCollection(snap Snapshot, observe func(id int)) (*Collection, error) {
	c := &Collection{lists: make([]*TodoList, 0, len(snap))}
	seen := make(map[int]struct{}, len(snap))
	for _, rec := range snap {
		if _, dup := seen[rec.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate list id %d", ErrInvalidRecord, rec.ID)
		}
		seen[rec.ID] = struct{}{}

		list, err := RestoreTodoList(rec)
		if err != nil {
			return nil, err
		}
		if observe != nil {
			observe(list.id)
			for _, todo := range list.todos {
				observe(todo.id)
			}
		}
		c.lists = append(c.lists, list)
	}
	return c, nil
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	if s == nil {
		return nil
	}
	out := make(Snapshot, len(s))
	for i, rec := range s {
		out[i] = TodoListRecord{ID: rec.ID, Title: rec.Title, Todos: slices.Clone(rec.Todos)}
	}
	return out
}
