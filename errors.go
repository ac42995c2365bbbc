package difflog

import "errors"

var (
	// ErrInvalidAction is returned by Add when the action is outside the
	// closed Added/Edited/Removed set.
	ErrInvalidAction = errors.New("difflog: invalid change action")
)
