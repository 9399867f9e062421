package domain

import "errors"

var (
	// ErrInvalidInput marks a caller-side contract violation (missing or malformed fields)
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is returned by repositories when a row does not exist
	ErrNotFound = errors.New("not found")
)
