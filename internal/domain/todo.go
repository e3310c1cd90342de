package domain

// Display markers used by Todo.String.
const (
	DoneMarker   = "X"
	UndoneMarker = " "
)

// Todo is a single item of a TodoList.
// The entity performs no validation; titles are checked by NewTitle before
// they reach it.
type Todo struct {
	id    int
	title string
	done  bool
}

// NewTodo creates an undone todo with a fresh id.
func NewTodo(ids IDSource, title string) *Todo {
	return &Todo{
		id:    ids.NextID(),
		title: title,
	}
}

// ID returns the todo id. It never changes.
func (t *Todo) ID() int {
	return t.id
}

// Title returns the current title.
func (t *Todo) Title() string {
	return t.title
}

// Rename overwrites the title.
func (t *Todo) Rename(title string) {
	t.title = title
}

// MarkDone sets the done flag.
func (t *Todo) MarkDone() {
	t.done = true
}

// MarkUndone clears the done flag.
func (t *Todo) MarkUndone() {
	t.done = false
}

// Toggle flips the done flag and reports the new state.
func (t *Todo) Toggle() bool {
	t.done = !t.done
	return t.done
}

// IsDone reports whether the todo is done.
func (t *Todo) IsDone() bool {
	return t.done
}

// String renders the todo as "[X] title" or "[ ] title".
func (t *Todo) String() string {
	marker := UndoneMarker
	if t.done {
		marker = DoneMarker
	}
	return "[" + marker + "] " + t.title
}
