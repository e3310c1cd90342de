package todo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rezkam/todos/internal/domain"
)

// Config holds configuration for the Service.
type Config struct {
	// Seed fills a scope that has never been saved with the sample lists.
	Seed bool
}

// Service provides the todo list operations used by the HTTP layers.
// Every call loads the scope's snapshot, rebuilds the entities, applies the
// change and saves the result while holding the scope's lock. Entities
// returned to callers are private to the call.
type Service struct {
	repo    Repository
	ids     *domain.Sequence
	config  Config
	locks   scopeLocks
	metrics *metrics
}

// NewService creates a new todo service.
// The sequence is shared by every scope so ids stay unique process-wide.
func NewService(repo Repository, ids *domain.Sequence, config Config) *Service {
	if ids == nil {
		ids = domain.NewSequence()
	}
	return &Service{
		repo:    repo,
		ids:     ids,
		config:  config,
		metrics: newMetrics(),
	}
}

// Lists returns the scope's lists in insertion order.
// Callers sort with domain.SortTodoLists before display.
func (s *Service) Lists(ctx context.Context, scope string) ([]*domain.TodoList, error) {
	var lists []*domain.TodoList
	err := s.view(ctx, scope, func(c *domain.Collection) error {
		lists = c.Lists()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lists, nil
}

// GetList retrieves a list by its id.
func (s *Service) GetList(ctx context.Context, scope, listID string) (*domain.TodoList, error) {
	id, err := parseListID(listID)
	if err != nil {
		return nil, err
	}

	var list *domain.TodoList
	err = s.view(ctx, scope, func(c *domain.Collection) error {
		list, err = c.Find(id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

// GetTodo retrieves a todo together with the list that owns it.
func (s *Service) GetTodo(ctx context.Context, scope, listID, todoID string) (*domain.TodoList, *domain.Todo, error) {
	lid, tid, err := parseIDs(listID, todoID)
	if err != nil {
		return nil, nil, err
	}

	var (
		list *domain.TodoList
		todo *domain.Todo
	)
	err = s.view(ctx, scope, func(c *domain.Collection) error {
		list, todo, err = c.FindTodo(lid, tid)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return list, todo, nil
}

// CreateList creates a new, empty list.
// The title must be valid and not used by another list in the scope.
func (s *Service) CreateList(ctx context.Context, scope, titleStr string) (*domain.TodoList, error) {
	title, err := domain.NewTitle(titleStr)
	if err != nil {
		return nil, err
	}

	var list *domain.TodoList
	err = s.update(ctx, scope, func(c *domain.Collection) error {
		if c.HasTitle(title.String(), 0) {
			return domain.ErrTitleNotUnique
		}
		list = domain.NewTodoList(s.ids, title.String())
		c.Add(list)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.listsCreated.Add(ctx, 1)
	slog.InfoContext(ctx, "list created",
		"scope", scope,
		"list_id", list.ID())

	return list, nil
}

// RenameList changes a list's title.
// Renaming a list to its current title is allowed.
func (s *Service) RenameList(ctx context.Context, scope, listID, titleStr string) (*domain.TodoList, error) {
	id, err := parseListID(listID)
	if err != nil {
		return nil, err
	}

	var list *domain.TodoList
	err = s.update(ctx, scope, func(c *domain.Collection) error {
		list, err = c.Find(id)
		if err != nil {
			return err
		}
		title, err := domain.NewTitle(titleStr)
		if err != nil {
			return err
		}
		if c.HasTitle(title.String(), id) {
			return domain.ErrTitleNotUnique
		}
		list.Rename(title.String())
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "list renamed",
		"scope", scope,
		"list_id", id)

	return list, nil
}

// DeleteList removes a list and all its todos.
func (s *Service) DeleteList(ctx context.Context, scope, listID string) (*domain.TodoList, error) {
	id, err := parseListID(listID)
	if err != nil {
		return nil, err
	}

	var list *domain.TodoList
	err = s.update(ctx, scope, func(c *domain.Collection) error {
		list, err = c.Remove(id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.metrics.listsDeleted.Add(ctx, 1)
	slog.InfoContext(ctx, "list deleted",
		"scope", scope,
		"list_id", id)

	return list, nil
}

// AddTodo appends a new todo to a list.
func (s *Service) AddTodo(ctx context.Context, scope, listID, titleStr string) (*domain.Todo, error) {
	id, err := parseListID(listID)
	if err != nil {
		return nil, err
	}

	var todo *domain.Todo
	err = s.update(ctx, scope, func(c *domain.Collection) error {
		list, err := c.Find(id)
		if err != nil {
			return err
		}
		title, err := domain.NewTitle(titleStr)
		if err != nil {
			return err
		}
		todo = domain.NewTodo(s.ids, title.String())
		list.Add(todo)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.todosCreated.Add(ctx, 1)
	slog.InfoContext(ctx, "todo created",
		"scope", scope,
		"list_id", id,
		"todo_id", todo.ID())

	return todo, nil
}

// ToggleTodo flips a todo between done and undone and returns it.
func (s *Service) ToggleTodo(ctx context.Context, scope, listID, todoID string) (*domain.Todo, error) {
	lid, tid, err := parseIDs(listID, todoID)
	if err != nil {
		return nil, err
	}

	var todo *domain.Todo
	err = s.update(ctx, scope, func(c *domain.Collection) error {
		_, todo, err = c.FindTodo(lid, tid)
		if err != nil {
			return err
		}
		todo.Toggle()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.todosToggled.Add(ctx, 1)
	slog.InfoContext(ctx, "todo toggled",
		"scope", scope,
		"list_id", lid,
		"todo_id", tid,
		"done", todo.IsDone())

	return todo, nil
}

// DeleteTodo removes a todo from its list and returns it.
func (s *Service) DeleteTodo(ctx context.Context, scope, listID, todoID string) (*domain.Todo, error) {
	lid, tid, err := parseIDs(listID, todoID)
	if err != nil {
		return nil, err
	}

	var todo *domain.Todo
	err = s.update(ctx, scope, func(c *domain.Collection) error {
		var list *domain.TodoList
		list, todo, err = c.FindTodo(lid, tid)
		if err != nil {
			return err
		}
		return list.Remove(todo)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.todosDeleted.Add(ctx, 1)
	slog.InfoContext(ctx, "todo deleted",
		"scope", scope,
		"list_id", lid,
		"todo_id", tid)

	return todo, nil
}

// CompleteAll marks every todo in a list done.
func (s *Service) CompleteAll(ctx context.Context, scope, listID string) (*domain.TodoList, error) {
	id, err := parseListID(listID)
	if err != nil {
		return nil, err
	}

	var list *domain.TodoList
	err = s.update(ctx, scope, func(c *domain.Collection) error {
		list, err = c.Find(id)
		if err != nil {
			return err
		}
		list.MarkAllDone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "all todos completed",
		"scope", scope,
		"list_id", id)

	return list, nil
}

// view runs fn against the scope's collection without saving changes.
func (s *Service) view(ctx context.Context, scope string, fn func(c *domain.Collection) error) error {
	return s.run(ctx, scope, false, fn)
}

// update runs fn against the scope's collection and saves the result if fn
// succeeds.
func (s *Service) update(ctx context.Context, scope string, fn func(c *domain.Collection) error) error {
	return s.run(ctx, scope, true, fn)
}

func (s *Service) run(ctx context.Context, scope string, save bool, fn func(c *domain.Collection) error) error {
	unlock := s.locks.lock(scope)
	defer unlock()

	c, fresh, err := s.load(ctx, scope)
	if err != nil {
		return err
	}

	if err := fn(c); err != nil {
		// A freshly seeded scope is still saved so its ids stay stable.
		if fresh {
			return errors.Join(err, s.save(ctx, scope, c))
		}
		return err
	}

	if save || fresh {
		return s.save(ctx, scope, c)
	}
	return nil
}

// load rebuilds the scope's collection. fresh reports a scope that had
// never been saved and was seeded, which must be written back.
func (s *Service) load(ctx context.Context, scope string) (c *domain.Collection, fresh bool, err error) {
	snap, err := s.repo.Load(ctx, scope)
	if errors.Is(err, domain.ErrNotFound) {
		if !s.config.Seed {
			return domain.NewCollection(), false, nil
		}
		slog.DebugContext(ctx, "seeding new scope", "scope", scope)
		return seedCollection(s.ids), true, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load lists: %w", err)
	}

	c, err = domain.RestoreCollection(snap, s.ids.Observe)
	if err != nil {
		return nil, false, fmt.Errorf("failed to restore lists for scope %s: %w", scope, err)
	}
	return c, false, nil
}

func (s *Service) save(ctx context.Context, scope string, c *domain.Collection) error {
	if err := s.repo.Save(ctx, scope, c.Snapshot()); err != nil {
		return fmt.Errorf("failed to save lists: %w", err)
	}
	return nil
}

// parseListID maps malformed ids to not found; the boundary does not
// distinguish between a bad id and a missing list.
func parseListID(s string) (int, error) {
	id, err := domain.ParseID(s)
	if err != nil {
		return 0, domain.ErrListNotFound
	}
	return id, nil
}

func parseIDs(listID, todoID string) (int, int, error) {
	lid, err := parseListID(listID)
	if err != nil {
		return 0, 0, err
	}
	tid, err := domain.ParseID(todoID)
	if err != nil {
		return 0, 0, domain.ErrTodoNotFound
	}
	return lid, tid, nil
}
