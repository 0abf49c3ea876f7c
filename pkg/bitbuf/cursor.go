// Package bitbuf provides sub-byte field access over byte slices.
//
// Network protocol headers pack several fields into a single byte. A
// Cursor walks such a region bit by bit, reading and writing fields of
// 1 to 8 bits. A single access never spans two bytes; a field laid out
// across a byte boundary must be read in two accesses and recombined by
// the caller, keeping every access a plain shift and mask.
package bitbuf

import "github.com/pkg/errors"

var (
	// ErrBitBoundary is returned when a single read or write would cross
	// a byte boundary, or when the requested width is outside 1 to 8 bits.
	ErrBitBoundary = errors.New("bitbuf: access crosses byte boundary")

	// ErrOutOfBounds is returned when an access would pass the end of the
	// backing slice. The slice is never grown.
	ErrOutOfBounds = errors.New("bitbuf: access beyond end of buffer")
)

// Cursor reads and writes bit fields over a caller-owned byte slice.
// Its state is an absolute bit position in [0, 8*len(buf)]. The Cursor
// borrows the slice for its lifetime and never copies or resizes it.
type Cursor struct {
	buf []byte
	pos int
}

// New returns a Cursor positioned at the first bit of buf.
func New(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// BitPos returns the absolute bit position.
func (c *Cursor) BitPos() int {
	return c.pos
}

// Remaining returns the number of bits between the position and the end
// of the backing slice.
func (c *Cursor) Remaining() int {
	return 8*len(c.buf) - c.pos
}

// ReadBits returns the next n bits (1 to 8) as an unsigned value and
// advances the cursor. The access must stay within the current byte:
// starting at bit offset b within a byte, b+n must be at most 8.
func (c *Cursor) ReadBits(n int) (uint8, error) {
	if n < 1 || n > 8 {
		return 0, errors.Wrapf(ErrBitBoundary, "read of %d bits", n)
	}
	bit := c.pos % 8
	if bit+n > 8 {
		return 0, errors.Wrapf(ErrBitBoundary, "read of %d bits at bit offset %d", n, bit)
	}
	if c.pos+n > 8*len(c.buf) {
		return 0, errors.Wrapf(ErrOutOfBounds, "read of %d bits at position %d/%d", n, c.pos, 8*len(c.buf))
	}

	mask := byte(0xFF) >> (8 - n)
	v := c.buf[c.pos/8] >> (8 - bit - n) & mask
	c.pos += n
	return v, nil
}

// ReadBool reads a single bit and reports whether it is set.
func (c *Cursor) ReadBool() (bool, error) {
	v, err := c.ReadBits(1)
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

// WriteBits stores the low n bits (1 to 8) of v at the cursor and
// advances it, with the same boundary contract as ReadBits. Bits of the
// target byte outside the written span are left untouched.
func (c *Cursor) WriteBits(v uint8, n int) error {
	if n < 1 || n > 8 {
		return errors.Wrapf(ErrBitBoundary, "write of %d bits", n)
	}
	bit := c.pos % 8
	if bit+n > 8 {
		return errors.Wrapf(ErrBitBoundary, "write of %d bits at bit offset %d", n, bit)
	}
	if c.pos+n > 8*len(c.buf) {
		return errors.Wrapf(ErrOutOfBounds, "write of %d bits at position %d/%d", n, c.pos, 8*len(c.buf))
	}

	mask := byte(0xFF) >> (8 - n)
	shift := 8 - bit - n
	i := c.pos / 8
	c.buf[i] = c.buf[i]&^(mask<<shift) | (v&mask)<<shift
	c.pos += n
	return nil
}

// Skip advances the cursor by n bits without touching the buffer. Unlike
// ReadBits it may move across byte boundaries, since no field is
// accessed. The position must stay within [0, 8*len(buf)].
func (c *Cursor) Skip(n int) error {
	if n < 0 || c.pos+n > 8*len(c.buf) {
		return errors.Wrapf(ErrOutOfBounds, "skip of %d bits at position %d/%d", n, c.pos, 8*len(c.buf))
	}
	c.pos += n
	return nil
}
