// Package packet implements the handshake, status, login, and play
// packets needed to drive every stage transition and end-to-end scenario
// the framer supports. Each type registers itself into protocol.Default
// at init() time, following the teacher's RegisterProtocol pattern.
package packet

import (
	"encoding/binary"
	"errors"

	"github.com/quillmc/quill/pkg/protocol"
	"github.com/quillmc/quill/pkg/varint"
)

// ErrTruncated is returned by field decoders when a body ends before a
// fixed-width or length-prefixed field has been fully read.
var ErrTruncated = errors.New("packet: truncated field")

// fieldReader walks a packet body field by field. It has no relation to
// netbuf.Buffer: a packet body is a fixed, already-framed byte slice, not
// a stream with residual state.
type fieldReader struct {
	buf []byte
	pos int
}

func newFieldReader(buf []byte) *fieldReader {
	return &fieldReader{buf: buf}
}

func (r *fieldReader) remaining() []byte {
	return r.buf[r.pos:]
}

func (r *fieldReader) varInt() (int32, error) {
	v, n, err := varint.Read(r.remaining())
	if err != nil {
		return 0, ErrTruncated
	}
	r.pos += n
	return v, nil
}

func (r *fieldReader) uint16() (uint16, error) {
	if len(r.remaining()) < 2 {
		return 0, ErrTruncated
	}
	v := binary.BigEndian.Uint16(r.remaining())
	r.pos += 2
	return v, nil
}

func (r *fieldReader) int64() (int64, error) {
	if len(r.remaining()) < 8 {
		return 0, ErrTruncated
	}
	v := int64(binary.BigEndian.Uint64(r.remaining()))
	r.pos += 8
	return v, nil
}

// str reads a VarInt-length-prefixed UTF-8 string.
func (r *fieldReader) str() (string, error) {
	n, err := r.varInt()
	if err != nil {
		return "", err
	}
	if n < 0 || len(r.remaining()) < int(n) {
		return "", ErrTruncated
	}
	s := string(r.remaining()[:n])
	r.pos += int(n)
	return s, nil
}

func (r *fieldReader) done() bool {
	return r.pos == len(r.buf)
}

func putVarInt(dst []byte, v int32) []byte {
	return varint.Write(dst, v)
}

func putUint16(dst []byte, v uint16) []byte {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	return append(dst, b[:]...)
}

func putInt64(dst []byte, v int64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(v))
	return append(dst, b[:]...)
}

func putString(dst []byte, s string) []byte {
	dst = putVarInt(dst, int32(len(s)))
	return append(dst, s...)
}

// register is a convenience wired by every packet type's init().
func register(kind protocol.PacketKind, ctor protocol.Constructor) {
	protocol.Default.Register(kind, ctor)
}
