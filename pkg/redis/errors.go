package redis

import "errors"

var (
	ErrNoURL             = errors.New("redis: no connection URL")
	ErrInvalidURL        = errors.New("redis: invalid connection URL")
	ErrUnreachable       = errors.New("redis: server unreachable")
	ErrHealthcheckFailed = errors.New("redis: healthcheck failed")
)
