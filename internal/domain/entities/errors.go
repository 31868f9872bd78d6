package entities

import "errors"

var (
	// ErrInvalidState is returned when an action does not fit the current dialog state.
	ErrInvalidState = errors.New("invalid state transition")
	// ErrOutOfRangeChoice is returned when an answer index is outside the offered options.
	ErrOutOfRangeChoice = errors.New("answer choice out of range")
	// ErrUserNotFound is returned when no active user exists for a Telegram ID.
	ErrUserNotFound = errors.New("user not found")
	// ErrSessionNotFound is returned by session stores for unknown users.
	ErrSessionNotFound = errors.New("session not found")
	// ErrNoVerbs is returned when the verb catalog cannot supply a question.
	ErrNoVerbs = errors.New("no verbs available")
)

// ErrUserExists is returned by user storage when an active row already exists.
var ErrUserExists = errors.New("active user already exists")
