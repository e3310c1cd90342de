package domain

import (
	"slices"
	"strings"
)

// CompareByTitle compares two titles case-insensitively.
// Returns -1, 0 or 1.
func CompareByTitle(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

// SortTodoLists returns lists ordered for display: lists that are not done
// first, then done lists, each group by title. The input slice is not
// modified and ties keep their input order.
func SortTodoLists(lists []*TodoList) []*TodoList {
	return sortByDone(lists, (*TodoList).IsDone, (*TodoList).Title)
}

// SortTodos returns the todos of c in display order, using the same policy
// as SortTodoLists.
func SortTodos(c TodoCollection) []*Todo {
	return sortByDone(slices.Collect(c.All()), (*Todo).IsDone, (*Todo).Title)
}

func sortByDone[T any](items []T, isDone func(T) bool, title func(T) string) []T {
	undone := make([]T, 0, len(items))
	var done []T
	for _, item := range items {
		if isDone(item) {
			done = append(done, item)
		} else {
			undone = append(undone, item)
		}
	}

	byTitle := func(a, b T) int { return CompareByTitle(title(a), title(b)) }
	slices.SortStableFunc(undone, byTitle)
	slices.SortStableFunc(done, byTitle)

	return append(undone, done...)
}
