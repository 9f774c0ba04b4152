package workflow

import "errors"

var (
	ErrNotFound          = errors.New("item not found")
	ErrForbidden         = errors.New("actor is not allowed to perform this transition")
	ErrIllegalTransition = errors.New("transition is not permitted from the current status")
	ErrConflict          = errors.New("item status changed concurrently, re-read and retry")
)
