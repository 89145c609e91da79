package varint

import (
	"bytes"
	"errors"
	"testing"
)

// Test vectors from the Minecraft protocol wiki's VarInt examples.
var varintVectors = []struct {
	name  string
	value int32
	bytes []byte
}{
	{"zero", 0, []byte{0x00}},
	{"one", 1, []byte{0x01}},
	{"two", 2, []byte{0x02}},
	{"127", 127, []byte{0x7f}},
	{"128", 128, []byte{0x80, 0x01}},
	{"255", 255, []byte{0xff, 0x01}},
	{"25565", 25565, []byte{0xdd, 0xc7, 0x01}},
	{"2097151", 2097151, []byte{0xff, 0xff, 0x7f}},
	{"2147483647", 2147483647, []byte{0xff, 0xff, 0xff, 0xff, 0x07}},
	{"-1", -1, []byte{0xff, 0xff, 0xff, 0xff, 0x0f}},
	{"-2147483648", -2147483648, []byte{0x80, 0x80, 0x80, 0x80, 0x08}},
}

func TestWrite(t *testing.T) {
	for _, v := range varintVectors {
		t.Run(v.name, func(t *testing.T) {
			got := Write(nil, v.value)
			if !bytes.Equal(got, v.bytes) {
				t.Errorf("Write(%d) = %x, want %x", v.value, got, v.bytes)
			}
		})
	}
}

func TestRead(t *testing.T) {
	for _, v := range varintVectors {
		t.Run(v.name, func(t *testing.T) {
			got, n, err := Read(v.bytes)
			if err != nil {
				t.Fatalf("Read(%x) returned error: %v", v.bytes, err)
			}
			if got != v.value || n != len(v.bytes) {
				t.Errorf("Read(%x) = (%d, %d), want (%d, %d)", v.bytes, got, n, v.value, len(v.bytes))
			}
		})
	}
}

func TestSize(t *testing.T) {
	for _, v := range varintVectors {
		t.Run(v.name, func(t *testing.T) {
			if got := Size(v.value); got != len(v.bytes) {
				t.Errorf("Size(%d) = %d, want %d", v.value, got, len(v.bytes))
			}
		})
	}
}

func TestReadIncomplete(t *testing.T) {
	// A truncated multi-byte VarInt must report Incomplete, not Malformed.
	_, _, err := Read([]byte{0x80})
	if !errors.Is(err, ErrIncomplete) {
		t.Errorf("Read([0x80]) error = %v, want ErrIncomplete", err)
	}
	_, _, err = Read(nil)
	if !errors.Is(err, ErrIncomplete) {
		t.Errorf("Read(nil) error = %v, want ErrIncomplete", err)
	}
}

func TestReadTooLong(t *testing.T) {
	// Five bytes, all with the continuation bit set, never terminates.
	buf := []byte{0xff, 0xff, 0xff, 0xff, 0xff}
	_, _, err := Read(buf)
	if !errors.Is(err, ErrMalformedFrame) {
		t.Errorf("Read(%x) error = %v, want ErrMalformedFrame", buf, err)
	}
}

func TestReadIgnoresTrailingBytes(t *testing.T) {
	buf := []byte{0xdd, 0xc7, 0x01, 0xaa, 0xbb}
	v, n, err := Read(buf)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if v != 25565 || n != 3 {
		t.Errorf("Read(%x) = (%d, %d), want (25565, 3)", buf, v, n)
	}
}
