// Copyright 2024 Kestrelnet contributors.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file in the root of the source tree.

package httpaccept

// State is the acceptor's position in a single message's lifecycle.
// Transitions are monotonic within one message: Wait -> Head -> Headers ->
// Body -> Finish, skipping Body iff the message has no body.
type State uint8

const (
	StateWait State = iota
	StateHead
	StateHeaders
	StateBody
	StateFinish
)

func (s State) String() string {
	switch s {
	case StateWait:
		return "wait"
	case StateHead:
		return "head"
	case StateHeaders:
		return "headers"
	case StateBody:
		return "body"
	case StateFinish:
		return "finish"
	default:
		return "unknown"
	}
}

// Acceptor is a push-driven HTTP/1.x message parser: it owns its head and
// body buffers and nested sub-parsers, accepts opaque byte chunks through
// Feed, and drives Traits callbacks at well-defined transitions. Grounded on
// original_source/http_parser/acceptor.hpp's http1_req_acceptor: the
// two-buffer layout, the head-to-body transfer on header completion, and
// the per-chunk compaction during chunked decode are carried over closely
// (spec.md §4.5).
type Acceptor struct {
	traits Traits
	state  State

	headBuf  Buffer
	bodyBuf  Buffer
	headers  Headers
	trailers Headers

	headLine  *HeadLineParser
	hdrParser *HeadersParser
	chunk     *ChunkedBodyParser

	kind HeadKind
	req  RequestHead
	rsp  ResponseHead

	haveContentLen bool
	contentLen     int64
	chunkedBody    bool
	bodyExists     bool

	tail []byte
}

// NewAcceptor returns an Acceptor in state Wait, with its buffers and
// headers container obtained from t.
func NewAcceptor(t Traits) *Acceptor {
	a := &Acceptor{traits: t}
	a.initContainers()
	return a
}

func (a *Acceptor) initContainers() {
	a.headBuf = a.traits.CreateDataContainer()
	a.bodyBuf = a.traits.CreateDataContainer()
	a.headers = a.traits.CreateHeadersContainer()
	a.trailers = a.traits.CreateHeadersContainer()
	a.headLine = NewHeadLineParser()
	a.hdrParser = NewHeadersParser(a.headers)
}

// State returns the acceptor's current position in the message lifecycle.
func (a *Acceptor) State() State { return a.state }

// Reset returns the acceptor to state Wait, ready to parse a new message,
// obtaining fresh buffers and a headers container from the traits. Grounded
// on the teacher's PMsg.Reset(), offered per spec.md §7's "resets it
// explicitly if the implementation offers a reset operation".
func (a *Acceptor) Reset() {
	a.state = StateWait
	a.kind = HeadNone
	a.req = RequestHead{}
	a.rsp = ResponseHead{}
	a.haveContentLen = false
	a.contentLen = 0
	a.chunkedBody = false
	a.bodyExists = false
	a.chunk = nil
	a.tail = nil
	releaseBuffer(a.headBuf)
	releaseBuffer(a.bodyBuf)
	a.initContainers()
}

// UnconsumedTail returns the bytes fed to the acceptor but not belonging to
// the message that just reached Finish: either bytes following a bodiless
// message's terminating header line, or bytes beyond a length-delimited
// body's Content-Length, or bytes following a chunked body's trailer block.
// Valid only once State() is StateFinish; nil otherwise. Callers supporting
// pipelined messages feed this back in after Reset.
func (a *Acceptor) UnconsumedTail() []byte { return a.tail }

// ErrorView returns a diagnostic view over the head buffer, passed to
// Traits.OnRequest when a chunk body fails to parse (spec.md §9's
// resolution of the source's overloaded on_request-on-error behavior).
func (a *Acceptor) ErrorView() View {
	return NewView(a.headBuf, 0, a.headBuf.Len())
}

// CloseBody signals that the transport has closed while the acceptor is
// waiting for a body with no Content-Length or chunked framing (spec.md
// §4.5 step 6, "No framing"). It delivers the body accumulated so far to
// Traits.OnRequest and transitions to Finish.
func (a *Acceptor) CloseBody() *Error {
	if a.state != StateBody || a.haveContentLen || a.chunkedBody {
		return ErrUnexpectedState
	}
	body := NewView(a.bodyBuf, 0, a.bodyBuf.Len())
	a.traits.OnRequest(a.kind, a.req, a.rsp, a.headers, a.trailers, body)
	a.state = StateFinish
	return nil
}

// Feed supplies the next chunk of bytes, in order, to the acceptor. It
// returns a fatal *Error on a parse failure or capacity violation; a nil
// return with State() still short of StateFinish means more bytes are
// needed. Feeding an empty slice is a no-op (spec.md §8, "Idempotent
// feed("")").
func (a *Acceptor) Feed(p []byte) *Error {
	if len(p) == 0 {
		return nil
	}
	if a.state == StateFinish {
		return ErrUnexpectedState
	}

	if a.state == StateBody {
		if max := a.traits.MaxBodySize(); max > 0 && a.bodyBuf.Len()+len(p) > max {
			return ErrCapacityExceeded
		}
		a.bodyBuf.Append(p)
	} else {
		if max := a.traits.MaxHeadSize(); max > 0 && a.headBuf.Len()+len(p) > max {
			return ErrCapacityExceeded
		}
		a.headBuf.Append(p)
		if a.state == StateWait {
			a.state = StateHead
		}
	}

	return a.advance()
}

// advance drives steps 3-6 of spec.md §4.5 as far as currently available
// bytes allow, falling through states within a single Feed call exactly as
// the spec's numbered steps do.
func (a *Acceptor) advance() *Error {
	if a.state == StateHead {
		kind, err := a.headLine.Feed(a.headBuf)
		if err != nil {
			return err
		}
		if kind == HeadNone {
			return nil
		}
		a.kind = kind
		if kind == HeadRequest {
			a.req = a.headLine.Request()
		} else {
			a.rsp = a.headLine.Response()
		}
		a.hdrParser.SkipFirstBytes(a.headLine.EndPosition())
		a.state = StateHeaders
	}

	if a.state == StateHeaders {
		if err := a.hdrParser.Feed(a.headBuf); err != nil {
			return err
		}
		if !a.hdrParser.IsFinished() {
			return nil
		}

		a.bodyExists = BodyExists(a.headers)
		if cl, ok := ContentSize(a.headers); ok {
			a.contentLen = cl
			a.haveContentLen = true
		}
		a.chunkedBody = IsChunked(a.headers)

		finishPos := a.hdrParser.FinishPosition()
		leftover := a.headBuf.Slice(finishPos, a.headBuf.Len())

		if a.chunkedBody {
			a.chunk = NewChunkedBodyParser(a.trailers)
		}

		if a.bodyExists {
			a.bodyBuf.Append(leftover)
			a.traits.OnHead(a.kind, a.req, a.rsp, a.headers)
			a.state = StateBody
		} else {
			a.tail = append([]byte(nil), leftover...)
			a.traits.OnRequest(a.kind, a.req, a.rsp, a.headers, a.trailers, View{})
			a.state = StateFinish
			return nil
		}
	}

	if a.state == StateBody {
		return a.advanceBody()
	}
	return nil
}

func (a *Acceptor) advanceBody() *Error {
	if a.chunkedBody {
		return a.advanceChunkedBody()
	}

	if a.haveContentLen {
		if int64(a.bodyBuf.Len()) >= a.contentLen {
			body := NewView(a.bodyBuf, 0, int(a.contentLen))
			a.tail = append([]byte(nil), a.bodyBuf.Slice(int(a.contentLen), a.bodyBuf.Len())...)
			a.traits.OnRequest(a.kind, a.req, a.rsp, a.headers, a.trailers, body)
			a.state = StateFinish
		}
		return nil
	}

	// No framing: the core does not detect end-of-body on its own (spec.md
	// §4.5 step 6); the host calls CloseBody on transport EOF.
	return nil
}

func (a *Acceptor) advanceChunkedBody() *Error {
	for a.chunk.Feed(a.bodyBuf) {
		if kind, has := a.chunk.ErrorKind(); has {
			a.traits.OnRequest(a.kind, a.req, a.rsp, a.headers, a.trailers, a.ErrorView())
			return newError(kind, "malformed chunk")
		}
		if a.chunk.Ready() {
			a.traits.OnRequest(a.kind, a.req, a.rsp, a.headers, a.trailers, a.chunk.Result())
		}
		if a.chunk.Finished() {
			break
		}
	}

	if a.chunk.Finished() {
		finishPos := a.chunk.EndPos()
		a.tail = append([]byte(nil), a.bodyBuf.Slice(finishPos, a.bodyBuf.Len())...)
		a.state = StateFinish
		return nil
	}

	if !a.chunk.InTrailer() {
		a.compactBody(a.chunk.EndPos())
	}
	return nil
}

// compactBody drops bytes [0, n) from the body buffer by copying the
// remaining suffix into a fresh container from the traits (spec.md §4.5:
// "compact the body buffer ... by copying the suffix into a fresh container
// obtained from the traits"), then rebases the chunk parser's cursor and
// returns the old container to its pool, if it is Releasable.
func (a *Acceptor) compactBody(n int) {
	if n <= 0 {
		return
	}
	remaining := a.bodyBuf.Slice(n, a.bodyBuf.Len())
	fresh := a.traits.CreateDataContainer()
	fresh.Append(remaining)
	old := a.bodyBuf
	a.bodyBuf = fresh
	releaseBuffer(old)
	a.chunk.Compact(n)
}
