// Package ioreader provides the read-only byte cursor and write-only byte
// buffer abstraction the instruction codec is built on. Everything the
// decoder consumes and everything the encoder produces flows through these
// two types; neither type knows anything about ELF or x86.
package ioreader

import "errors"

// ErrOutOfRange is returned when a read would run past the end of the
// underlying buffer.
var ErrOutOfRange = errors.New("ioreader: read past end of buffer")

// ReadCursor is a random-access, little-endian-by-default byte reader over
// an in-memory buffer. It tracks a mutable read position; callers that need
// to look at a byte without consuming it call Peek1.
type ReadCursor struct {
	data   []byte
	pos    int
	bigEnd bool
}

// NewReadCursor wraps data for reading starting at position 0.
func NewReadCursor(data []byte) *ReadCursor {
	return &ReadCursor{data: data}
}

// SetEndianness records a byte-order flag. No reader consults it:
// Read2LE/Read4LE/Read8LE always read little-endian and Read4BE always
// reads big-endian, and neither the decoder nor elfbin calls it.
func (c *ReadCursor) SetEndianness(little bool) {
	c.bigEnd = !little
}

// Position returns the current zero-based read offset.
func (c *ReadCursor) Position() int { return c.pos }

// SetPosition seeks to an absolute offset. Seeking past the end of the
// buffer is allowed; the next read will fail with ErrOutOfRange.
func (c *ReadCursor) SetPosition(n int) { c.pos = n }

// Len returns the total number of bytes in the underlying buffer.
func (c *ReadCursor) Len() int { return len(c.data) }

// Remaining reports how many bytes are left to read.
func (c *ReadCursor) Remaining() int { return len(c.data) - c.pos }

// Unread rewinds the cursor by n bytes, clamped at zero.
func (c *ReadCursor) Unread(n int) {
	c.pos -= n
	if c.pos < 0 {
		c.pos = 0
	}
}

// Read1 reads a single byte and advances the cursor by one.
func (c *ReadCursor) Read1() (byte, error) {
	if c.pos >= len(c.data) {
		return 0, ErrOutOfRange
	}
	b := c.data[c.pos]
	c.pos++
	return b, nil
}

// Peek1 returns the next byte without advancing the cursor.
func (c *ReadCursor) Peek1() (byte, error) {
	if c.pos >= len(c.data) {
		return 0, ErrOutOfRange
	}
	return c.data[c.pos], nil
}

func (c *ReadCursor) take(n int) ([]byte, error) {
	if c.pos+n > len(c.data) {
		return nil, ErrOutOfRange
	}
	b := c.data[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// Read2LE reads a little-endian 16-bit value.
func (c *ReadCursor) Read2LE() (uint16, error) {
	b, err := c.take(2)
	if err != nil {
		return 0, err
	}
	return uint16(b[0]) | uint16(b[1])<<8, nil
}

// Read4LE reads a little-endian 32-bit value.
func (c *ReadCursor) Read4LE() (uint32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24, nil
}

// Read8LE reads a little-endian 64-bit value.
func (c *ReadCursor) Read8LE() (uint64, error) {
	b, err := c.take(8)
	if err != nil {
		return 0, err
	}
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v, nil
}

// Read4BE reads a big-endian 32-bit value. Used only for probing the ELF
// magic number, which the codec itself never touches.
func (c *ReadCursor) Read4BE() (uint32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), nil
}

// Bytes returns a copy of up to n bytes starting at offset from (clamped
// at zero) without moving the cursor. Used by error paths that need to hex-dump
// the bytes leading up to a decode failure.
func (c *ReadCursor) Bytes(from, n int) []byte {
	if from < 0 {
		from = 0
	}
	end := from + n
	if end > len(c.data) {
		end = len(c.data)
	}
	if from > end {
		return nil
	}
	out := make([]byte, end-from)
	copy(out, c.data[from:end])
	return out
}
