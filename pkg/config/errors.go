package config

import "errors"

var (
	// ErrParsingConfig is returned when environment variables cannot be parsed into the config struct.
	ErrParsingConfig = errors.New("config: failed to parse environment variables")

	// ErrEnvFileNotFound is returned when an explicitly requested .env file cannot be loaded.
	ErrEnvFileNotFound = errors.New("config: env file not found")

	// ErrNilPointer is returned when a nil pointer is passed to the loader.
	ErrNilPointer = errors.New("config: nil pointer provided")
)
