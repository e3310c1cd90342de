package domain

import (
	"strings"
	"unicode/utf8"
)

// MaxTitleLength is the longest title, in characters, the validation layer accepts.
const MaxTitleLength = 100

// Title is a validated title value object (1-100 characters after trimming).
type Title struct {
	value string
}

// NewTitle creates a new Title, validating the input.
func NewTitle(s string) (Title, error) {
	s = strings.TrimSpace(s)

	if s == "" {
		return Title{}, ErrTitleRequired
	}

	if utf8.RuneCountInString(s) > MaxTitleLength {
		return Title{}, ErrTitleTooLong
	}

	return Title{value: s}, nil
}

// String returns the title value.
func (t Title) String() string {
	return t.value
}
