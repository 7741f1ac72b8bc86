package api

import "errors"

// ErrNotAuthorized is returned when the current identity lacks the role
// an operation requires.
var ErrNotAuthorized = errors.New("api: role not authorized for this operation")
