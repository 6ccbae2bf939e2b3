package config

import "errors"

var (
	ErrReadFile    = errors.New("config: failed to read config file")
	ErrParseFile   = errors.New("config: failed to parse config file")
	ErrDotenv      = errors.New("config: failed to load .env file")
	ErrInvalidBool = errors.New("config: invalid boolean")
	ErrWeakSecret  = errors.New("config: secret must be at least 32 bytes outside debug mode")
	ErrNoAddress   = errors.New("config: listen address is empty")
)
