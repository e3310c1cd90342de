package domain

import "errors"

// Domain errors returned by entities, the validation layer, and repositories.

var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrListNotFound indicates the specified list does not exist.
	ErrListNotFound = notFound("list not found")

	// ErrTodoNotFound indicates the specified todo does not exist in the list.
	ErrTodoNotFound = notFound("todo not found")

	// ErrInvalidID indicates the provided ID is not a positive decimal integer.
	ErrInvalidID = errors.New("invalid ID format")

	// ErrInvalidRecord indicates a persisted record cannot be turned back into an entity.
	ErrInvalidRecord = errors.New("invalid record")
)

// Validation errors. Entities never return these; the validation layer does.
var (
	ErrTitleRequired  = errors.New("title is required")
	ErrTitleTooLong   = errors.New("title is too long")
	ErrTitleNotUnique = errors.New("title must be unique")
)

// notFoundError keeps the specific message while matching ErrNotFound.
type notFoundError struct {
	msg string
}

func notFound(msg string) error {
	return &notFoundError{msg: msg}
}

func (e *notFoundError) Error() string {
	return e.msg
}

func (e *notFoundError) Is(target error) bool {
	return target == ErrNotFound
}
