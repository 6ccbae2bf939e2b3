package session

import "errors"

// Session errors.
var (
	// ErrNotFound is returned when a key is absent from the session.
	ErrNotFound = errors.New("session: not found")

	// ErrTypeMismatch is returned when a value has an unexpected type.
	ErrTypeMismatch = errors.New("session: type mismatch")

	// ErrEncode is returned when the session cannot be serialized.
	ErrEncode = errors.New("session: failed to encode values")
)
