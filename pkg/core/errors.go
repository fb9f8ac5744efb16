package core

import "errors"

// Common errors.
var (
	ErrNotFound         = errors.New("note not found")
	ErrInvalidAddress   = errors.New("invalid or missing wallet address")
	ErrInvalidSignature = errors.New("invalid signature")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrMissingFields    = errors.New("missing required fields")
	ErrReadOnly         = errors.New("repository is in read-only mode")
)
