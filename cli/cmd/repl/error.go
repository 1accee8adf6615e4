package repl

import "errors"

// ErrOutOfBounds is returned when a history index is out of range.
var ErrOutOfBounds = errors.New("index out of range")
