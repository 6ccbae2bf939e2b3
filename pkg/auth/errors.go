package auth

import "errors"

var (
	ErrHashFailed     = errors.New("auth: failed to hash password")
	ErrPasswordLength = errors.New("auth: password exceeds 72 bytes")
)
