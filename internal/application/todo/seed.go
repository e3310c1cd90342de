package todo

import "github.com/rezkam/todos/internal/domain"

// seedLists is the sample data a new scope starts with when seeding is on.
var seedLists = []struct {
	title string
	todos []seedTodo
}{
	{"Work Todos", []seedTodo{{"Get coffee", true}, {"Chat with co-workers", true}, {"Duck out of meeting", false}}},
	{"Home Todos", []seedTodo{{"Feed the cats", true}, {"Go to bed", true}, {"Buy milk", true}, {"Study for Launch School", true}}},
	{"Additional Todos", nil},
	{"social todos", []seedTodo{{"Go to Libby's birthday party", false}}},
}

type seedTodo struct {
	title string
	done  bool
}

func seedCollection(ids domain.IDSource) *domain.Collection {
	c := domain.NewCollection()
	for _, seed := range seedLists {
		list := domain.NewTodoList(ids, seed.title)
		for _, st := range seed.todos {
			todo := domain.NewTodo(ids, st.title)
			if st.done {
				todo.MarkDone()
			}
			list.Add(todo)
		}
		c.Add(list)
	}
	return c
}
