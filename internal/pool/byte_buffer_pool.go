// Package pool provides reusable byte buffers for the encode paths.
//
// Container encoding and slice writing both assemble multi-megabyte outputs
// per task; pooling the staging buffers keeps a parallel run from
// re-allocating them for every region file.
package pool

import "sync"

const (
	// bufferDefaultSize is the initial capacity of a pooled buffer, sized
	// for a typical compressed record payload.
	bufferDefaultSize = 64 * 1024
	// bufferMaxThreshold is the largest buffer returned to the pool; bigger
	// ones (an oversized slice file) are left for the garbage collector.
	bufferMaxThreshold = 16 * 1024 * 1024
)

// ByteBuffer is a minimal append-only buffer backed by a pooled slice.
type ByteBuffer struct {
	B []byte
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Len returns the number of bytes written.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Reset empties the buffer while keeping its capacity.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// MustWrite appends data, growing the buffer as needed.
func (bb *ByteBuffer) MustWrite(data []byte) {
	bb.B = append(bb.B, data...)
}

// WriteByte appends a single byte.
func (bb *ByteBuffer) WriteByte(c byte) error {
	bb.B = append(bb.B, c)

	return nil
}

// WriteString appends a string.
func (bb *ByteBuffer) WriteString(s string) {
	bb.B = append(bb.B, s...)
}

// PadTo appends zero bytes until the buffer length is a multiple of n.
func (bb *ByteBuffer) PadTo(n int) {
	rem := len(bb.B) % n
	if rem == 0 {
		return
	}
	bb.B = append(bb.B, make([]byte, n-rem)...)
}

var bufferPool = sync.Pool{
	New: func() any {
		return &ByteBuffer{B: make([]byte, 0, bufferDefaultSize)}
	},
}

// GetBuffer obtains an empty buffer from the pool.
func GetBuffer() *ByteBuffer {
	buf := bufferPool.Get().(*ByteBuffer)
	buf.Reset()

	return buf
}

// PutBuffer returns a buffer to the pool, dropping oversized ones.
func PutBuffer(buf *ByteBuffer) {
	if buf == nil || cap(buf.B) > bufferMaxThreshold {
		return
	}
	bufferPool.Put(buf)
}
