package domain

import (
	"iter"
	"slices"
)

// Collection is the ordered set of todo lists owned by one store scope:
// either the whole process or a single session.
type Collection struct {
	lists []*TodoList
}

// NewCollection returns a collection holding lists in the given order.
func NewCollection(lists ...*TodoList) *Collection {
	return &Collection{lists: slices.Clone(lists)}
}

// Len returns the number of lists.
func (c *Collection) Len() int {
	return len(c.lists)
}

// Add appends list.
func (c *Collection) Add(list *TodoList) {
	c.lists = append(c.lists, list)
}

// Find returns the list with the given id.
func (c *Collection) Find(id int) (*TodoList, error) {
	for _, list := range c.lists {
		if list.id == id {
			return list, nil
		}
	}
	return nil, ErrListNotFound
}

// FindTodo resolves a todo inside a list.
func (c *Collection) FindTodo(listID, todoID int) (*TodoList, *Todo, error) {
	list, err := c.Find(listID)
	if err != nil {
		return nil, nil, err
	}
	todo, err := list.Find(todoID)
	if err != nil {
		return nil, nil, err
	}
	return list, todo, nil
}

// Remove deletes the list with the given id and returns it.
func (c *Collection) Remove(id int) (*TodoList, error) {
	index := slices.IndexFunc(c.lists, func(l *TodoList) bool { return l.id == id })
	if index < 0 {
		return nil, ErrListNotFound
	}
	list := c.lists[index]
	c.lists = slices.Delete(c.lists, index, index+1)
	return list, nil
}

// HasTitle reports whether a list other than exceptID already uses title.
// Pass 0 as exceptID to check every list.
func (c *Collection) HasTitle(title string, exceptID int) bool {
	return slices.ContainsFunc(c.lists, func(l *TodoList) bool {
		return l.id != exceptID && l.title == title
	})
}

// All yields the lists in insertion order.
func (c *Collection) All() iter.Seq[*TodoList] {
	return slices.Values(c.lists)
}

// Lists returns a copy of the lists in insertion order.
func (c *Collection) Lists() []*TodoList {
	return slices.Clone(c.lists)
}
