package domain

import (
	"testing"

	"pgregory.net/rapid"
)

func titleGenerator() *rapid.Generator[string] {
	return rapid.StringMatching(`[A-Za-z ]{1,12}`)
}

func TestProperty_FindReturnsTheAddedTodo(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		seq := NewSequence()
		list := NewTodoList(seq, "list")
		titles := rapid.SliceOf(titleGenerator()).Draw(t, "titles")

		created := make([]*Todo, len(titles))
		for i, title := range titles {
			created[i] = NewTodo(seq, title)
			list.Add(created[i])
		}

		for _, todo := range created {
			found, err := list.Find(todo.ID())
			if err != nil {
				t.Fatalf("todo %d not found: %v", todo.ID(), err)
			}
			if found != todo {
				t.Fatalf("find(%d) returned a different todo", todo.ID())
			}
		}
	})
}

func TestProperty_RemoveAtThenFindIsNotFound(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		seq := NewSequence()
		list := NewTodoList(seq, "list")
		n := rapid.IntRange(1, 20).Draw(t, "n")
		for range n {
			list.Add(NewTodo(seq, "todo"))
		}
		index := rapid.IntRange(0, n-1).Draw(t, "index")

		removed, err := list.RemoveAt(index)
		if err != nil {
			t.Fatalf("RemoveAt(%d): %v", index, err)
		}
		if _, err := list.Find(removed.ID()); err == nil {
			t.Fatalf("removed todo %d still found", removed.ID())
		}
		if list.Len() != n-1 {
			t.Fatalf("len = %d, want %d", list.Len(), n-1)
		}
	})
}

func TestProperty_MarkAllDone(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		seq := NewSequence()
		list := NewTodoList(seq, "list")
		n := rapid.IntRange(0, 20).Draw(t, "n")
		for range n {
			list.Add(NewTodo(seq, "todo"))
		}

		list.MarkAllDone()

		if list.IsDone() != (n > 0) {
			t.Fatalf("IsDone() = %v with %d todos", list.IsDone(), n)
		}
		for todo := range list.All() {
			if !todo.IsDone() {
				t.Fatalf("todo %d not done", todo.ID())
			}
		}
	})
}

func TestProperty_SortTodoListsIsPartitionedOrderedAndIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		seq := NewSequence()
		n := rapid.IntRange(0, 15).Draw(t, "n")
		lists := make([]*TodoList, n)
		for i := range lists {
			lists[i] = NewTodoList(seq, titleGenerator().Draw(t, "title"))
			if rapid.Bool().Draw(t, "has_todo") {
				lists[i].Add(NewTodo(seq, "todo"))
				if rapid.Bool().Draw(t, "done") {
					lists[i].MarkAllDone()
				}
			}
		}

		sorted := SortTodoLists(lists)
		if len(sorted) != n {
			t.Fatalf("len = %d, want %d", len(sorted), n)
		}

		for i := 1; i < len(sorted); i++ {
			prev, cur := sorted[i-1], sorted[i]
			if prev.IsDone() && !cur.IsDone() {
				t.Fatalf("done list %q precedes open list %q", prev.Title(), cur.Title())
			}
			if prev.IsDone() == cur.IsDone() && CompareByTitle(prev.Title(), cur.Title()) > 0 {
				t.Fatalf("%q sorted before %q", prev.Title(), cur.Title())
			}
		}

		again := SortTodoLists(sorted)
		for i := range sorted {
			if again[i] != sorted[i] {
				t.Fatalf("sorting a sorted sequence moved position %d", i)
			}
		}
	})
}

func TestProperty_SequenceIsStrictlyIncreasing(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		seq := NewSequence()
		n := rapid.IntRange(1, 200).Draw(t, "n")

		prev := 0
		for range n {
			id := seq.NextID()
			if id <= prev {
				t.Fatalf("id %d after %d", id, prev)
			}
			prev = id
		}
		if prev != n {
			t.Fatalf("last id = %d, want %d", prev, n)
		}
	})
}
