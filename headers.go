// Copyright 2024 Kestrelnet contributors.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file in the root of the source tree.

package httpaccept

import (
	"github.com/intuitivelabs/bytescase"
)

// Header is a single parsed name/value pair. Both views alias the head
// buffer the headers were parsed from.
type Header struct {
	Name  View
	Value View
}

// Headers is the capability a header container must offer a HeadersParser.
// A Traits implementation supplies one via CreateHeadersContainer, mirroring
// original_source/http_parser/acceptor.hpp's header_message<Container>
// template parameter (spec.md §3, §6 "Container policy": append, iterate,
// size, clear).
type Headers interface {
	// AddName appends a new header with name and an empty value.
	AddName(name View)
	// SetLastValue assigns value to the most recently added header.
	SetLastValue(value View)
	// Find returns the first header whose name case-insensitively matches
	// name, in insertion order.
	Find(name []byte) (Header, bool)
	// Len returns the number of headers held.
	Len() int
	// Empty reports whether no headers have been added.
	Empty() bool
	// Clear removes all headers, retaining any allocated capacity.
	Clear()
	// All returns the headers in insertion order. The returned slice must
	// not be retained across the next AddName/Clear call.
	All() []Header
}

// HeaderList is the default, slice-backed Headers implementation.
type HeaderList struct {
	items []Header
}

// NewHeaderList returns an empty HeaderList.
func NewHeaderList() *HeaderList { return &HeaderList{} }

func (hl *HeaderList) AddName(name View) {
	hl.items = append(hl.items, Header{Name: name})
}

func (hl *HeaderList) SetLastValue(value View) {
	if len(hl.items) == 0 {
		return
	}
	hl.items[len(hl.items)-1].Value = value
}

func (hl *HeaderList) Find(name []byte) (Header, bool) {
	for _, h := range hl.items {
		if h.Name.EqualFold(name) {
			return h, true
		}
	}
	return Header{}, false
}

func (hl *HeaderList) Len() int      { return len(hl.items) }
func (hl *HeaderList) Empty() bool   { return len(hl.items) == 0 }
func (hl *HeaderList) Clear()        { hl.items = hl.items[:0] }
func (hl *HeaderList) All() []Header { return hl.items }

// headerLineState drives a single header-line's resumable parse. Grounded on
// intuitivelabs/httpsp's ParseHdrLine (parse_headers.go) state names
// (hInit/hName/hVal/...), reshaped so the partial-parse state lives in the
// HeadersParser rather than in the public Header value, and with explicit
// obs-fold rejection the teacher's skipLWS never performed (spec.md §4.3).
type headerLineState uint8

const (
	hlnStInit headerLineState = iota
	hlnStName
	hlnStNameSP
	hlnStBeforeValue
	hlnStValue
	hlnStValueCRLF
)

// HeadersParser incrementally parses the header block that follows a head
// line, up to and including the terminating empty line, writing each header
// into dest as soon as it is recognized (spec.md §4.3).
type HeadersParser struct {
	dest Headers

	pos int
	st  headerLineState

	nameStart  int
	valueStart int
	valueEnd   int

	finished  bool
	finishPos int
}

// NewHeadersParser returns a parser that writes into dest.
func NewHeadersParser(dest Headers) *HeadersParser {
	return &HeadersParser{dest: dest}
}

// SkipFirstBytes repositions the parser's read cursor, used when the header
// block does not start at offset 0 of the buffer (it follows the head line).
func (p *HeadersParser) SkipFirstBytes(n int) { p.pos = n }

// IsFinished reports whether the terminating empty line has been consumed.
func (p *HeadersParser) IsFinished() bool { return p.finished }

// FinishPosition returns the buffer offset immediately after the
// terminating empty line's CRLF. Valid only once IsFinished is true.
func (p *HeadersParser) FinishPosition() int { return p.finishPos }

// Feed advances parsing as far as the bytes currently in buf allow. It
// returns nil while more bytes are needed or progress was made; it returns
// a fatal *Error on a header syntax violation.
func (p *HeadersParser) Feed(buf Buffer) *Error {
	if p.finished {
		return newError(KindUnexpectedState, "headers parser fed after completion")
	}
	b := buf.Slice(0, buf.Len())
	for {
		switch p.st {
		case hlnStInit:
			if p.pos >= len(b) {
				return nil
			}
			if b[p.pos] == '\r' {
				if p.pos+1 >= len(b) {
					return nil
				}
				if b[p.pos+1] != '\n' {
					return newError(KindMalformedHeader, "bad terminating line")
				}
				p.finished = true
				p.finishPos = p.pos + 2
				return nil
			}
			if !isTokenChar(b[p.pos]) {
				return newError(KindMalformedHeader, "invalid header name byte")
			}
			p.nameStart = p.pos
			p.st = hlnStName
			continue

		case hlnStName:
			end := skipTokenChars(b, p.pos)
			if end >= len(b) {
				p.pos = end
				return nil
			}
			switch {
			case b[end] == ':':
				p.dest.AddName(NewView(buf, p.nameStart, end-p.nameStart))
				p.pos = end + 1
				p.st = hlnStBeforeValue
			case isWS(b[end]):
				p.dest.AddName(NewView(buf, p.nameStart, end-p.nameStart))
				p.pos = end
				p.st = hlnStNameSP
			default:
				return newError(KindMalformedHeader, "invalid header name byte")
			}
			continue

		case hlnStNameSP:
			end := skipWS(b, p.pos)
			if end >= len(b) {
				p.pos = end
				return nil
			}
			if b[end] != ':' {
				return newError(KindMalformedHeader, "whitespace before ':' not followed by ':'")
			}
			p.pos = end + 1
			p.st = hlnStBeforeValue
			continue

		case hlnStBeforeValue:
			end := skipWS(b, p.pos)
			if end >= len(b) {
				p.pos = end
				return nil
			}
			if b[end] == '\r' {
				p.valueStart = end
				p.valueEnd = end
				p.pos = end
				p.st = hlnStValueCRLF
				continue
			}
			p.valueStart = end
			p.valueEnd = end
			p.pos = end
			p.st = hlnStValue
			continue

		case hlnStValue:
			i := p.pos
			for i < len(b) && b[i] != '\r' && b[i] != '\n' {
				if !isWS(b[i]) {
					p.valueEnd = i + 1
				}
				i++
			}
			if i >= len(b) {
				p.pos = i
				return nil
			}
			if b[i] == '\n' {
				return newError(KindMalformedHeader, "bare LF in header value")
			}
			p.pos = i
			p.st = hlnStValueCRLF
			continue

		case hlnStValueCRLF:
			// p.pos points at the '\r' ending the value; need to confirm the
			// LF and peek one further byte to rule out obs-fold.
			if p.pos+1 >= len(b) {
				return nil
			}
			if b[p.pos+1] != '\n' {
				return newError(KindMalformedHeader, "bare CR in header value")
			}
			if p.pos+2 >= len(b) {
				return nil
			}
			if isWS(b[p.pos+2]) {
				return newError(KindMalformedHeader, "line folding (obs-fold) is not supported")
			}
			p.dest.SetLastValue(NewView(buf, p.valueStart, p.valueEnd-p.valueStart))
			p.pos += 2
			p.st = hlnStInit
			continue

		default:
			return newError(KindUnexpectedState, "headers parser in unknown state")
		}
	}
}

var (
	hdrContentLength    = []byte("Content-Length")
	hdrTransferEncoding = []byte("Transfer-Encoding")
	hdrConnection       = []byte("Connection")
	tokenChunked        = []byte("chunked")
	tokenClose          = []byte("close")
)

// ContentSize returns the value of a Content-Length header, if present and
// well-formed (spec.md §4.3 "Derived predicates").
func ContentSize(h Headers) (int64, bool) {
	hv, ok := h.Find(hdrContentLength)
	if !ok {
		return 0, false
	}
	return parseDecimalUint(hv.Value.Bytes())
}

// IsChunked reports whether Transfer-Encoding contains the token "chunked"
// (spec.md §3: "is_chunked() → true iff Transfer-Encoding contains the
// token chunked"), e.g. "Transfer-Encoding: gzip, chunked".
func IsChunked(h Headers) bool {
	hv, ok := h.Find(hdrTransferEncoding)
	if !ok {
		return false
	}
	return hasToken(hv.Value.Bytes(), tokenChunked)
}

// hasToken reports whether raw, a comma-separated list of codings (RFC 7230
// §3.3.1), contains tok as one of its OWS-trimmed, case-insensitive members.
// Grounded on the teacher's multi-coding handling in parse_tr_enc.go's
// PTrEnc, narrowed to a single-token membership test since framing only
// cares whether "chunked" is present anywhere in the list.
func hasToken(raw, tok []byte) bool {
	start := 0
	for start <= len(raw) {
		end := start
		for end < len(raw) && raw[end] != ',' {
			end++
		}
		if bytescase.CmpEq(trimOWS(raw[start:end]), tok) {
			return true
		}
		start = end + 1
	}
	return false
}

// ConnectionClose reports whether the Connection header names "close".
func ConnectionClose(h Headers) bool {
	hv, ok := h.Find(hdrConnection)
	if !ok {
		return false
	}
	return bytescase.CmpEq(trimOWS(hv.Value.Bytes()), tokenClose)
}

// BodyExists reports whether the headers imply the message has a body,
// independent of framing length: either chunked transfer-encoding or a
// present Content-Length (spec.md §4.3). Non-goal: multipart boundaries.
func BodyExists(h Headers) bool {
	if IsChunked(h) {
		return true
	}
	_, ok := h.Find(hdrContentLength)
	return ok
}

func trimOWS(b []byte) []byte {
	i, j := 0, len(b)
	for i < j && isWS(b[i]) {
		i++
	}
	for j > i && isWS(b[j-1]) {
		j--
	}
	return b[i:j]
}
