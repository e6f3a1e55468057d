package engine

import (
	"errors"
	"fmt"
)

// Kind classifies a rejected operation
type Kind string

const (
	KindNotFound      Kind = "not_found"
	KindInvalidState  Kind = "invalid_state"
	KindInvalidMove   Kind = "invalid_move"
	KindInvalidChoice Kind = "invalid_choice"
	KindInvalidInput  Kind = "invalid_input"
)

// Error is returned for every rejected action. A rejected action never
// changes game state.
type Error struct {
	Kind    Kind
	Field   string
	Message string
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is matches any *Error of the same kind when target carries only a kind,
// so errors.Is(err, ErrInvalidMove) works for every invalid move.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Field == "" && t.Message == "" {
		return t.Kind == e.Kind
	}
	return *t == *e
}

var (
	ErrNotFound      = &Error{Kind: KindNotFound}
	ErrInvalidState  = &Error{Kind: KindInvalidState}
	ErrInvalidMove   = &Error{Kind: KindInvalidMove}
	ErrInvalidChoice = &Error{Kind: KindInvalidChoice}
	ErrInvalidInput  = &Error{Kind: KindInvalidInput}
)

// Errorf builds an *Error with a formatted message
func Errorf(kind Kind, field, format string, args ...any) *Error {
	return &Error{Kind: kind, Field: field, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// FieldOf returns the offending field of the first *Error in err's chain
func FieldOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Field
	}
	return ""
}

func notActive(g GameType) *Error {
	return Errorf(KindInvalidState, "", "%s game is not active", g)
}
