// Copyright 2024 Kestrelnet contributors.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file in the root of the source tree.

package httpaccept

// Traits supplies the policy and callback surface an Acceptor needs but
// cannot itself decide: what storage backs the head/body buffers and
// headers container, and what happens once a full head (and, eventually,
// body) has been recognized. Grounded on
// original_source/http_parser/acceptor.hpp's http1_acceptor_traits, whose
// CreateDataContainer/CreateHeadersContainer/OnHead/OnRequest virtual
// surface is translated here into a Go interface instead of C++ template
// parameters + virtual dispatch (spec.md §4.6).
type Traits interface {
	// CreateDataContainer returns a new Buffer to back the acceptor's head
	// or body storage. Called twice at construction and on each Reset (head
	// and body buffer), and once per body compaction during chunked decode.
	CreateDataContainer() Buffer
	// CreateHeadersContainer returns a new Headers container. Called twice
	// at construction and on each Reset: once for the message headers, once
	// for a chunked body's trailers.
	CreateHeadersContainer() Headers
	// MaxHeadSize bounds the head buffer (request/status line + headers).
	// Zero means unbounded.
	MaxHeadSize() int
	// MaxBodySize bounds the body buffer's occupancy at any instant. Zero
	// means unbounded.
	MaxBodySize() int
	// OnHead is invoked once, after the header block is parsed, iff the
	// message has a body.
	OnHead(kind HeadKind, req RequestHead, rsp ResponseHead, hdrs Headers)
	// OnRequest is invoked either once with the complete body for
	// length-delimited and bodiless messages, or once per chunk for
	// chunked bodies. On a chunk parse error it is invoked once more with
	// a diagnostic view over the head buffer before Feed returns the error.
	OnRequest(kind HeadKind, req RequestHead, rsp ResponseHead, hdrs Headers, trailers Headers, body View)
}

// DefaultTraits is a minimal Traits implementation backed by ByteBuffer and
// HeaderList, with configurable size limits and no-op callbacks. Embed it to
// override only the methods a host cares about.
type DefaultTraits struct {
	MaxHead int
	MaxBody int
}

func (t *DefaultTraits) CreateDataContainer() Buffer     { return NewByteBuffer() }
func (t *DefaultTraits) CreateHeadersContainer() Headers { return NewHeaderList() }
func (t *DefaultTraits) MaxHeadSize() int                { return t.MaxHead }
func (t *DefaultTraits) MaxBodySize() int                { return t.MaxBody }
func (t *DefaultTraits) OnHead(HeadKind, RequestHead, ResponseHead, Headers) {}
func (t *DefaultTraits) OnRequest(HeadKind, RequestHead, ResponseHead, Headers, Headers, View) {}
