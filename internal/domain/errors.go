package domain

import "errors"

// Domain-level errors
var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrMissingColumns = errors.New("missing required columns")
	ErrDatabaseError  = errors.New("database error")
	ErrParsingError   = errors.New("parsing error")
	ErrGPUNotFound    = errors.New("GPU not found")
)
