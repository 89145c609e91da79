// Package compress implements the zlib compression envelope layered onto
// Minecraft protocol frames once compression is enabled.
package compress

import (
	"bytes"
	"errors"
	"io"

	"github.com/klauspost/compress/zlib"
)

// ErrSizeMismatch is returned by Decompress when the inflated output does
// not have exactly the declared size — this indicates a malformed or
// malicious peer, since the declared size is itself protocol data.
var ErrSizeMismatch = errors.New("compress: decompressed size mismatch")

// Compress zlib-deflates src and returns the compressed bytes.
func Compress(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(src); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decompress zlib-inflates src, returning an error if the result is not
// exactly expectedSize bytes long.
func Decompress(src []byte, expectedSize int) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, err
	}
	defer r.Close()

	dst := make([]byte, expectedSize)
	n, err := io.ReadFull(r, dst)
	if err != nil && err != io.ErrUnexpectedEOF {
		return nil, err
	}
	if n != expectedSize {
		return nil, ErrSizeMismatch
	}
	// Any further bytes beyond expectedSize indicate the declared size lied.
	var extra [1]byte
	if m, _ := r.Read(extra[:]); m > 0 {
		return nil, ErrSizeMismatch
	}
	return dst, nil
}
