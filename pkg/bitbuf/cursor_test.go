package bitbuf

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestCursorRead(t *testing.T) {
	assert := assert.New(t)

	// 0b1011_0110, 0b0100_1101
	c := New([]byte{0xB6, 0x4D})

	v, err := c.ReadBits(2)
	assert.NoError(err)
	assert.Equal(uint8(0x2), v, "bits 0-1")

	b, err := c.ReadBool()
	assert.NoError(err)
	assert.True(b, "bit 2")

	v, err = c.ReadBits(5)
	assert.NoError(err)
	assert.Equal(uint8(0x16), v, "bits 3-7")

	// cursor lands on a fresh byte; a full-byte read is legal
	v, err = c.ReadBits(8)
	assert.NoError(err)
	assert.Equal(uint8(0x4D), v, "bits 8-15")

	assert.Equal(16, c.BitPos())
	assert.Equal(0, c.Remaining())
}

func TestCursorBoundaryRejection(t *testing.T) {
	for _, test := range []struct {
		Name  string
		Skip  int
		Width int
		Want  error
	}{
		{Name: "crosses from offset 6", Skip: 6, Width: 4, Want: ErrBitBoundary},
		{Name: "one bit at offset 6", Skip: 6, Width: 1},
		{Name: "two bits at offset 6", Skip: 6, Width: 2},
		{Name: "zero width", Width: 0, Want: ErrBitBoundary},
		{Name: "over eight", Width: 9, Want: ErrBitBoundary},
		{Name: "full byte at offset 1", Skip: 1, Width: 8, Want: ErrBitBoundary},
	} {
		c := New([]byte{0xFF, 0xFF})
		if err := c.Skip(test.Skip); err != nil {
			t.Fatalf("%q: skip: %v", test.Name, err)
		}
		_, err := c.ReadBits(test.Width)
		if got, want := errors.Cause(err), test.Want; got != want {
			t.Fatalf("ReadBits %q: err = %v, want %v", test.Name, got, want)
		}
	}
}

func TestCursorOutOfBounds(t *testing.T) {
	assert := assert.New(t)

	c := New([]byte{0x00})
	_, err := c.ReadBits(8)
	assert.NoError(err)

	_, err = c.ReadBits(1)
	assert.Equal(ErrOutOfBounds, errors.Cause(err))

	assert.Equal(ErrOutOfBounds, errors.Cause(c.WriteBits(1, 1)))
	assert.Equal(ErrOutOfBounds, errors.Cause(c.Skip(1)))
	assert.NoError(c.Skip(0))
}

func TestCursorWritePreservesNeighbors(t *testing.T) {
	assert := assert.New(t)

	buf := []byte{0xFF}
	c := New(buf)
	assert.NoError(c.Skip(2))
	assert.NoError(c.WriteBits(0, 3))
	assert.Equal(byte(0xC7), buf[0], "only bits 2-4 cleared")

	buf[0] = 0x00
	c = New(buf)
	assert.NoError(c.Skip(3))
	// value wider than the span is truncated to n bits
	assert.NoError(c.WriteBits(0xFF, 2))
	assert.Equal(byte(0x18), buf[0], "only bits 3-4 set")
}

func TestCursorRoundTrip(t *testing.T) {
	buf := make([]byte, 2)
	w := New(buf)
	for _, f := range []struct {
		v uint8
		n int
	}{{1, 1}, {2, 2}, {0x15, 5}, {0xA5, 8}} {
		if err := w.WriteBits(f.v, f.n); err != nil {
			t.Fatalf("WriteBits(%#x, %d): %v", f.v, f.n, err)
		}
	}

	r := New(buf)
	for _, f := range []struct {
		v uint8
		n int
	}{{1, 1}, {2, 2}, {0x15, 5}, {0xA5, 8}} {
		got, err := r.ReadBits(f.n)
		if err != nil {
			t.Fatalf("ReadBits(%d): %v", f.n, err)
		}
		if got != f.v {
			t.Fatalf("ReadBits(%d) = %#x, want %#x", f.n, got, f.v)
		}
	}
}
