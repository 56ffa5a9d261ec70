// Copyright 2024 Kestrelnet contributors.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file in the root of the source tree.

// Package server hosts the incremental HTTP/1.x acceptor behind a plain
// net.Conn read loop, wiring it to logging, metrics, and a per-connection
// identifier so it can be run as a standalone daemon.
package server

import (
	"github.com/valyala/bytebufferpool"

	"github.com/kestrelnet/httpaccept"
)

// PooledBuffer is an httpaccept.Buffer backed by a bytebufferpool.ByteBuffer,
// so repeated accept/reset cycles on a busy listener reuse storage instead
// of allocating a new slice per message. Grounded on packetd/packetd's
// internal/labels.Labels.Hash, which borrows and returns a pool buffer
// around a single unit of work the same way Release is meant to be used
// here, around a single message's lifetime.
type PooledBuffer struct {
	bb *bytebufferpool.ByteBuffer
}

// NewPooledBuffer borrows a buffer from the shared pool.
func NewPooledBuffer() *PooledBuffer {
	return &PooledBuffer{bb: bytebufferpool.Get()}
}

func (p *PooledBuffer) AppendByte(b byte) { _ = p.bb.WriteByte(b) }
func (p *PooledBuffer) Append(b []byte)   { _, _ = p.bb.Write(b) }
func (p *PooledBuffer) Len() int          { return len(p.bb.B) }
func (p *PooledBuffer) At(i int) byte     { return p.bb.B[i] }
func (p *PooledBuffer) Slice(start, end int) []byte {
	return p.bb.B[start:end]
}
func (p *PooledBuffer) Reset() { p.bb.Reset() }

// Release returns the underlying buffer to the shared pool. Callers must
// not use p after calling Release. The acceptor calls this automatically,
// via httpaccept.Releasable, on Reset and on each chunk-compaction.
func (p *PooledBuffer) Release() { bytebufferpool.Put(p.bb) }

var (
	_ httpaccept.Buffer     = (*PooledBuffer)(nil)
	_ httpaccept.Releasable = (*PooledBuffer)(nil)
)
