package signer

import "errors"

var (
	ErrNoSecret     = errors.New("signer: secret required")
	ErrWeakSecret   = errors.New("signer: secret must be 32+ bytes")
	ErrMalformed    = errors.New("signer: malformed token")
	ErrBadSignature = errors.New("signer: invalid signature")
)
