package protocol

import (
	"errors"
	"fmt"
)

// Sentinel causes wrapped by FatalError. Exactly one of these indicates
// why a connection must be dropped; callers should compare with
// errors.Is against these, not against FatalError values directly.
var (
	// ErrMalformedFrame covers a bad VarInt, a length exceeding the
	// configured cap, a zlib failure, or a decompressed-size mismatch.
	ErrMalformedFrame = errors.New("protocol: malformed frame")

	// ErrUnknownPacket means no registry entry exists for the
	// (stage, direction, id) triple observed on the wire.
	ErrUnknownPacket = errors.New("protocol: unknown packet")

	// ErrMalformedPayload means a packet-specific parser rejected its
	// bytes, or a Handshake packet carried an unrecognized next_state.
	ErrMalformedPayload = errors.New("protocol: malformed payload")
)

// FatalError is the only error type AcceptBytes ever returns. Its
// presence means the cipher and/or compression state has already
// consumed bytes that cannot be un-consumed: the caller must drop the
// connection, never retry.
type FatalError struct {
	Cause error
	Msg   string
}

// NewFatalError wraps cause (one of the Err* sentinels above) with a
// contextual message.
func NewFatalError(cause error, msg string) *FatalError {
	return &FatalError{Cause: cause, Msg: msg}
}

func (e *FatalError) Error() string {
	if e.Msg == "" {
		return e.Cause.Error()
	}
	return fmt.Sprintf("%s: %s", e.Cause, e.Msg)
}

// Unwrap makes errors.Is(fatalErr, protocol.ErrUnknownPacket) and friends
// work against FatalError values.
func (e *FatalError) Unwrap() error {
	return e.Cause
}
