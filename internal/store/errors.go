package store

import "errors"

// Error kinds surfaced by store operations. Handlers map them to HTTP
// statuses with errors.Is; the wrapped message carries the detail.
var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidTransition = errors.New("invalid transition")
)
