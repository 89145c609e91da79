package netbuf

import "errors"

// Buffer package errors.
var (
	// ErrNoMark is returned by Reset when Mark has not been called since
	// the last Reset/Compact.
	ErrNoMark = errors.New("netbuf: reset without a mark")
)
