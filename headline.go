// Copyright 2024 Kestrelnet contributors.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file in the root of the source tree.

package httpaccept

import (
	"github.com/intuitivelabs/bytescase"
)

// HeadKind distinguishes which shape of head line was parsed.
type HeadKind uint8

const (
	HeadNone HeadKind = iota
	HeadRequest
	HeadResponse
)

// RequestHead is the parsed request-line: method SP request-target SP
// HTTP-version CRLF.
type RequestHead struct {
	Method  Method
	RawMeth View
	URI     View
	Ver     Version
}

// ResponseHead is the parsed status-line: HTTP-version SP status-code SP
// reason-phrase CRLF.
type ResponseHead struct {
	Ver    Version
	Status int
	Reason View
}

// Version holds a parsed "HTTP/major.minor" token.
type Version struct {
	Major int
	Minor int
}

var httpVerPrefix = []byte("HTTP/")

// headLineState drives the resumable head-line state machine, grounded on
// intuitivelabs/httpsp's ParseFLine (parse_fline.go) state names, split here
// into the spec's two distinct result shapes instead of one PFLine struct
// discriminated by Status==0.
type headLineState uint8

const (
	hlStInit headLineState = iota
	hlStMethod
	hlStReqSP1
	hlStURI
	hlStReqSP2
	hlStReqVer
	hlStRplVer
	hlStRplSP1
	hlStStatus
	hlStRplSP2
	hlStReason
	hlStDone
)

// HeadLineParser incrementally parses the single line that opens an HTTP/1.x
// message, resolving as either a RequestHead or a ResponseHead depending on
// whether the line begins with "HTTP/" (spec.md §4.2).
type HeadLineParser struct {
	st  headLineState
	pos int

	tokStart int

	req RequestHead
	rsp ResponseHead
}

// NewHeadLineParser returns a parser ready to consume bytes starting at
// buffer offset 0.
func NewHeadLineParser() *HeadLineParser { return &HeadLineParser{} }

// SkipFirstBytes repositions the parser's read cursor, used when the head
// line does not start at the beginning of the acceptor's head buffer.
func (p *HeadLineParser) SkipFirstBytes(n int) { p.pos = n }

// Feed advances parsing as far as the bytes currently in buf allow. It
// returns the HeadKind once resolved (HeadNone while more bytes are needed),
// and a fatal *Error if the line is malformed.
func (p *HeadLineParser) Feed(buf Buffer) (HeadKind, *Error) {
	b := buf.Slice(0, buf.Len())
	for {
		switch p.st {
		case hlStInit:
			if p.pos >= len(b) {
				return HeadNone, nil
			}
			// Fewer than len("HTTP/") bytes that could still become "HTTP/":
			// wait before choosing between request and response.
			if rest := b[p.pos:]; len(rest) < len(httpVerPrefix) && bytescase.CmpEq(rest, httpVerPrefix[:len(rest)]) {
				return HeadNone, nil
			}
			if bytescase.Prefix(httpVerPrefix, b[p.pos:]) {
				p.tokStart = p.pos
				p.st = hlStRplVer
				continue
			}
			if !isTokenChar(b[p.pos]) {
				return HeadNone, newError(KindMalformedHead, "invalid method token")
			}
			p.tokStart = p.pos
			p.st = hlStMethod
			continue

		case hlStMethod:
			end := skipTokenChars(b, p.pos)
			if end >= len(b) {
				p.pos = end
				return HeadNone, nil
			}
			if b[end] != ' ' {
				return HeadNone, newError(KindMalformedHead, "malformed method token")
			}
			p.req.RawMeth = NewView(buf, p.tokStart, end-p.tokStart)
			p.req.Method = GetMethod(b[p.tokStart:end])
			p.pos = end + 1
			p.st = hlStReqSP1
			continue

		case hlStReqSP1:
			p.pos = skipWS(b, p.pos)
			if p.pos >= len(b) {
				return HeadNone, nil
			}
			p.tokStart = p.pos
			p.st = hlStURI
			continue

		case hlStURI:
			end := skipNonWS(b, p.pos)
			if end >= len(b) {
				p.pos = end
				return HeadNone, nil
			}
			if end == p.tokStart {
				return HeadNone, newError(KindMalformedHead, "empty request target")
			}
			if b[end] != ' ' {
				return HeadNone, newError(KindMalformedHead, "malformed request target")
			}
			p.req.URI = NewView(buf, p.tokStart, end-p.tokStart)
			p.pos = end + 1
			p.st = hlStReqSP2
			continue

		case hlStReqSP2:
			p.pos = skipWS(b, p.pos)
			if p.pos >= len(b) {
				return HeadNone, nil
			}
			p.tokStart = p.pos
			p.st = hlStReqVer
			continue

		case hlStReqVer:
			end, ok, more := findCRLF(b, p.pos)
			if more {
				p.pos = end
				return HeadNone, nil
			}
			if !ok {
				return HeadNone, newError(KindMalformedHead, "missing CRLF after version")
			}
			ver, perr := parseVersion(b[p.tokStart:end])
			if perr != nil {
				return HeadNone, perr
			}
			p.req.Ver = ver
			p.pos = end + 2
			p.st = hlStDone
			return HeadRequest, nil

		case hlStRplVer:
			end := p.tokStart + len(httpVerPrefix)
			verEnd := skipNonWS(b, end)
			if verEnd >= len(b) {
				p.pos = verEnd
				return HeadNone, nil
			}
			if b[verEnd] != ' ' {
				return HeadNone, newError(KindMalformedHead, "malformed version")
			}
			ver, perr := parseVersion(b[p.tokStart:verEnd])
			if perr != nil {
				return HeadNone, perr
			}
			p.rsp.Ver = ver
			p.pos = verEnd + 1
			p.st = hlStRplSP1
			continue

		case hlStRplSP1:
			p.pos = skipWS(b, p.pos)
			if p.pos >= len(b) {
				return HeadNone, nil
			}
			p.tokStart = p.pos
			p.st = hlStStatus
			continue

		case hlStStatus:
			end := p.pos
			for end < len(b) && b[end] >= '0' && b[end] <= '9' {
				end++
			}
			if end >= len(b) {
				p.pos = end
				return HeadNone, nil
			}
			if end-p.tokStart != 3 {
				return HeadNone, newError(KindMalformedHead, "status code must be 3 digits")
			}
			if b[end] != ' ' {
				return HeadNone, newError(KindMalformedHead, "malformed status code")
			}
			n, _ := parseDecimalUint(b[p.tokStart:end])
			p.rsp.Status = int(n)
			p.pos = end + 1
			p.st = hlStRplSP2
			continue

		case hlStRplSP2:
			p.pos = skipWS(b, p.pos)
			if p.pos >= len(b) {
				return HeadNone, nil
			}
			p.tokStart = p.pos
			p.st = hlStReason
			continue

		case hlStReason:
			end, ok, more := findCRLF(b, p.pos)
			if more {
				p.pos = end
				return HeadNone, nil
			}
			if !ok {
				return HeadNone, newError(KindMalformedHead, "missing CRLF after reason phrase")
			}
			p.rsp.Reason = NewView(buf, p.tokStart, end-p.tokStart)
			p.pos = end + 2
			p.st = hlStDone
			return HeadResponse, nil

		default:
			return HeadNone, newError(KindUnexpectedState, "head line parser fed after completion")
		}
	}
}

// Request returns the parsed request head. Valid only after Feed returned
// HeadRequest.
func (p *HeadLineParser) Request() RequestHead { return p.req }

// Response returns the parsed response head. Valid only after Feed returned
// HeadResponse.
func (p *HeadLineParser) Response() ResponseHead { return p.rsp }

// EndPosition returns the buffer offset immediately following the head
// line's terminating CRLF.
func (p *HeadLineParser) EndPosition() int { return p.pos }

func skipWS(buf []byte, i int) int {
	for i < len(buf) && isWS(buf[i]) {
		i++
	}
	return i
}

// findCRLF scans forward from i for the first CRLF, treating any other
// control byte as invalid. Returns (offset-of-CR, found, needMoreBytes).
func findCRLF(buf []byte, i int) (int, bool, bool) {
	for i < len(buf) {
		if buf[i] == '\r' {
			if i+1 >= len(buf) {
				return i, false, true
			}
			if buf[i+1] != '\n' {
				return i, false, false
			}
			return i, true, false
		}
		if buf[i] == '\n' {
			return i, false, false
		}
		i++
	}
	return i, false, true
}

func parseVersion(b []byte) (Version, *Error) {
	if len(b) < len(httpVerPrefix)+3 || !bytescase.Prefix(httpVerPrefix, b) {
		return Version{}, newError(KindMalformedHead, "malformed HTTP version")
	}
	rest := b[len(httpVerPrefix):]
	dot := -1
	for i, c := range rest {
		if c == '.' {
			dot = i
			break
		}
	}
	if dot <= 0 || dot >= len(rest)-1 {
		return Version{}, newError(KindMalformedHead, "malformed HTTP version")
	}
	major, ok := parseDecimalUint(rest[:dot])
	if !ok {
		return Version{}, newError(KindMalformedHead, "malformed HTTP version major")
	}
	minor, ok := parseDecimalUint(rest[dot+1:])
	if !ok {
		return Version{}, newError(KindMalformedHead, "malformed HTTP version minor")
	}
	return Version{Major: int(major), Minor: int(minor)}, nil
}
