package ioreader

// WriteBuffer is a write-only, growable little-endian byte sink. The
// encoder appends to it in the fixed field order the x86-64 wire format
// requires and finalises it with Bytes.
type WriteBuffer struct {
	data []byte
}

// NewWriteBuffer returns an empty buffer ready for writing.
func NewWriteBuffer() *WriteBuffer {
	return &WriteBuffer{data: make([]byte, 0, 16)}
}

// WriteByte appends a single byte.
func (b *WriteBuffer) WriteByte(v byte) {
	b.data = append(b.data, v)
}

// WriteBytes appends zero or more bytes in order.
func (b *WriteBuffer) WriteBytes(vs ...byte) {
	b.data = append(b.data, vs...)
}

// WriteI16 appends a little-endian 16-bit value.
func (b *WriteBuffer) WriteI16(v int16) {
	u := uint16(v)
	b.data = append(b.data, byte(u), byte(u>>8))
}

// WriteI32 appends a little-endian 32-bit value.
func (b *WriteBuffer) WriteI32(v int32) {
	u := uint32(v)
	b.data = append(b.data, byte(u), byte(u>>8), byte(u>>16), byte(u>>24))
}

// WriteI64 appends a little-endian 64-bit value.
func (b *WriteBuffer) WriteI64(v int64) {
	u := uint64(v)
	for i := 0; i < 8; i++ {
		b.data = append(b.data, byte(u>>(8*uint(i))))
	}
}

// Len reports the number of bytes written so far.
func (b *WriteBuffer) Len() int { return len(b.data) }

// Bytes finalises the buffer and returns the accumulated byte slice.
func (b *WriteBuffer) Bytes() []byte {
	return b.data
}
