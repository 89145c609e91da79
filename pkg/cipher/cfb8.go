// Package cipher implements the AES-128/CFB8 stream cipher the Minecraft
// protocol layers over an already-established connection. CFB8 processes
// one plaintext byte at a time through a 16-byte shift register, so unlike
// Go's stdlib cipher.NewCFBEncrypter (full-block CFB) it has no library
// home anywhere in the ecosystem: it is built directly on crypto/aes's
// block primitive, the same way a CTR or CCM mode would be.
package cipher

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"
)

// KeySize is the AES-128 key size in bytes. The same 16 bytes serve as
// both the AES key and the CFB8 initialization vector, per the Minecraft
// protocol's use of the shared secret.
const KeySize = 16

// blockSize is the AES block size, and so the size of the CFB8 shift
// register.
const blockSize = aes.BlockSize

// ErrInvalidKeySize is returned when a key is not exactly KeySize bytes.
var ErrInvalidKeySize = errors.New("cipher: invalid key size, must be 16 bytes")

// CFB8 is a stateful AES-128/CFB8 stream cipher instance. It is not safe
// for concurrent use, and is not safe to share between the encrypt and
// decrypt directions of a connection: each direction must feed every byte
// of its own stream through its own instance, exactly once, in order, or
// the stream desynchronizes irrecoverably.
type CFB8 struct {
	block    cipher.Block
	register [blockSize]byte
}

// New creates a CFB8 instance keyed and seeded with key, which must be
// exactly KeySize bytes. Per the Minecraft protocol, the same bytes are
// used as both the AES-128 key and the initial shift register contents
// (the IV).
func New(key []byte) (*CFB8, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKeySize
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	c := &CFB8{block: block}
	copy(c.register[:], key)
	return c, nil
}

// Encrypt encrypts buf in place, advancing the cipher's internal state by
// len(buf) bytes.
func (c *CFB8) Encrypt(buf []byte) {
	var scratch [blockSize]byte
	for i := range buf {
		c.block.Encrypt(scratch[:], c.register[:])
		ct := buf[i] ^ scratch[0]
		copy(c.register[:blockSize-1], c.register[1:])
		c.register[blockSize-1] = ct
		buf[i] = ct
	}
}

// Decrypt decrypts buf in place, advancing the cipher's internal state by
// len(buf) bytes.
func (c *CFB8) Decrypt(buf []byte) {
	var scratch [blockSize]byte
	for i := range buf {
		c.block.Encrypt(scratch[:], c.register[:])
		ct := buf[i]
		pt := ct ^ scratch[0]
		copy(c.register[:blockSize-1], c.register[1:])
		c.register[blockSize-1] = ct
		buf[i] = pt
	}
}
