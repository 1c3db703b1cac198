package investment

import "errors"

var (
	ErrNotFound          = errors.New("investment not found")
	ErrInvalidTransition = errors.New("invalid investment state transition")
	ErrVersionConflict   = errors.New("investment was modified concurrently")
)
