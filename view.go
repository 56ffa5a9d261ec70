// Copyright 2024 Kestrelnet contributors.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file in the root of the source tree.

package httpaccept

import (
	"github.com/intuitivelabs/bytescase"
)

// Buffer is the minimal capability a growable byte container must offer to
// back a View. Hosts supply concrete implementations through Traits so the
// memory strategy (heap, pooled, arena) stays pluggable; ByteBuffer is the
// default, heap-backed implementation.
type Buffer interface {
	// AppendByte appends a single byte to the end of the buffer.
	AppendByte(b byte)
	// Append appends p to the end of the buffer.
	Append(p []byte)
	// Len returns the current number of bytes held.
	Len() int
	// At returns the byte at index i. Callers must not pass i >= Len().
	At(i int) byte
	// Slice returns the bytes in [start:end) as a slice that aliases the
	// buffer's storage. It is only valid until the next Append/AppendByte.
	Slice(start, end int) []byte
	// Reset empties the buffer, retaining any allocated capacity.
	Reset()
}

// Releasable is an optional capability a Buffer may implement to return its
// storage to a pool once the acceptor is done with it, e.g. pooled hosts
// like server.PooledBuffer (spec.md §6 "Container policy" leaves memory
// strategy to the host). The acceptor checks for it via a type assertion
// before discarding a buffer on Reset or chunk-compaction, so a plain
// ByteBuffer pays nothing extra.
type Releasable interface {
	Release()
}

// releaseBuffer returns b to its pool if it implements Releasable; it is a
// no-op for buffers that don't.
func releaseBuffer(b Buffer) {
	if r, ok := b.(Releasable); ok {
		r.Release()
	}
}

// ByteBuffer is the default Buffer implementation, a thin wrapper over a
// growable []byte.
type ByteBuffer struct {
	b []byte
}

// NewByteBuffer returns an empty ByteBuffer.
func NewByteBuffer() *ByteBuffer {
	return &ByteBuffer{}
}

func (b *ByteBuffer) AppendByte(c byte) { b.b = append(b.b, c) }
func (b *ByteBuffer) Append(p []byte)   { b.b = append(b.b, p...) }
func (b *ByteBuffer) Len() int          { return len(b.b) }
func (b *ByteBuffer) At(i int) byte     { return b.b[i] }
func (b *ByteBuffer) Slice(start, end int) []byte {
	return b.b[start:end]
}
func (b *ByteBuffer) Reset() { b.b = b.b[:0] }

// View is a non-owning (buffer, offset, length) range. It is never a raw
// pointer into the buffer's storage: it is an index range that remains
// correct across buffer growth, as long as the buffer only ever grows by
// append (see Buffer). A zero-value View is empty and unattached.
//
// Grounded on intuitivelabs/httpsp's PField (parse_types.go), generalized
// to hold a Buffer reference so it survives the head/body buffer-growth
// and head-to-body transfer operations the acceptor performs (PField only
// ever pointed into a single, already fully-received []byte).
type View struct {
	buf    Buffer
	offset int
	length int
}

// NewView returns a View over buf[offset : offset+length).
func NewView(buf Buffer, offset, length int) View {
	return View{buf: buf, offset: offset, length: length}
}

// Len returns the view's length in bytes.
func (v View) Len() int { return v.length }

// Empty returns true if the view has zero length.
func (v View) Empty() bool { return v.length == 0 }

// Offset returns the view's start offset in its buffer.
func (v View) Offset() int { return v.offset }

// Byte returns the i-th byte of the view. It panics if i is out of range,
// exactly like a slice index out of bounds.
func (v View) Byte(i int) byte {
	if i < 0 || i >= v.length {
		panic("httpaccept: View.Byte index out of range")
	}
	return v.buf.At(v.offset + i)
}

// Bytes returns the view's bytes as a slice aliasing the backing buffer.
// The slice is valid only until the buffer is next appended to.
func (v View) Bytes() []byte {
	if v.buf == nil {
		return nil
	}
	return v.buf.Slice(v.offset, v.offset+v.length)
}

// Substr returns the sub-view [start, start+length) measured from this
// view's own offset. If length is omitted the sub-view extends to the end
// of this view.
func (v View) Substr(start int, length ...int) View {
	l := v.length - start
	if len(length) > 0 && length[0] < l {
		l = length[0]
	}
	return View{buf: v.buf, offset: v.offset + start, length: l}
}

// AdvanceToEnd extends the view's length to cover every byte appended to
// the buffer since the view was created.
func (v *View) AdvanceToEnd() {
	if v.buf == nil {
		return
	}
	v.length = v.buf.Len() - v.offset
}

// Resize sets the view's length to n, clamped so it never runs past the
// buffer's current size.
func (v *View) Resize(n int) {
	max := 0
	if v.buf != nil {
		max = v.buf.Len() - v.offset
	}
	if n > max {
		n = max
	}
	v.length = n
}

// Reset collapses the view to an empty range positioned at the buffer's
// current end, ready to grow forward from there via AdvanceToEnd.
func (v *View) Reset() {
	if v.buf != nil {
		v.offset = v.buf.Len()
	} else {
		v.offset = 0
	}
	v.length = 0
}

// Equal reports whether the view's bytes are byte-wise equal to s.
func (v View) Equal(s []byte) bool {
	if v.length != len(s) {
		return false
	}
	return bytesEqual(v.Bytes(), s)
}

// EqualFold reports whether the view's bytes are equal to s under ASCII
// case-insensitive comparison, as used for header-name matching.
func (v View) EqualFold(s []byte) bool {
	if v.length != len(s) {
		return false
	}
	return bytescase.CmpEq(v.Bytes(), s)
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
