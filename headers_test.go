// Copyright 2024 Kestrelnet contributors.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file in the root of the source tree.

package httpaccept

import "testing"

func parseAllHeaders(t *testing.T, raw string) (*HeaderList, *Error) {
	t.Helper()
	buf := NewByteBuffer()
	buf.Append([]byte(raw))
	hl := NewHeaderList()
	p := NewHeadersParser(hl)
	if err := p.Feed(buf); err != nil {
		return hl, err
	}
	if !p.IsFinished() {
		t.Fatalf("headers parser did not finish on complete input %q", raw)
	}
	return hl, nil
}

func TestHeadersOrderAndDuplicates(t *testing.T) {
	hl, err := parseAllHeaders(t, "A: 1\r\nB: 2\r\nA: 3\r\n\r\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	all := hl.All()
	if len(all) != 3 {
		t.Fatalf("len = %d, want 3", len(all))
	}
	if !all[0].Name.Equal([]byte("A")) || !all[0].Value.Equal([]byte("1")) {
		t.Fatalf("header 0 = %+v", all[0])
	}
	if !all[2].Name.Equal([]byte("A")) || !all[2].Value.Equal([]byte("3")) {
		t.Fatalf("header 2 = %+v", all[2])
	}
	h, ok := hl.Find([]byte("A"))
	if !ok || !h.Value.Equal([]byte("1")) {
		t.Fatalf("Find returned %+v, want first occurrence", h)
	}
}

func TestHeadersCaseInsensitiveLookup(t *testing.T) {
	hl, err := parseAllHeaders(t, "Content-Length: 5\r\n\r\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	for _, name := range []string{"Content-Length", "content-length", "CONTENT-LENGTH"} {
		h, ok := hl.Find([]byte(name))
		if !ok || !h.Value.Equal([]byte("5")) {
			t.Fatalf("Find(%q) = %+v, %v", name, h, ok)
		}
	}
}

func TestHeadersTrimsOptionalWhitespace(t *testing.T) {
	hl, err := parseAllHeaders(t, "X:   value with spaces   \r\n\r\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	h, ok := hl.Find([]byte("X"))
	if !ok || !h.Value.Equal([]byte("value with spaces")) {
		t.Fatalf("value = %q", h.Value.Bytes())
	}
}

func TestHeadersRejectsObsFold(t *testing.T) {
	_, err := parseAllHeaders(t, "X: a\r\n b\r\n\r\n")
	if err == nil || err.Kind != KindMalformedHeader {
		t.Fatalf("err = %v, want MalformedHeader", err)
	}
}

func TestHeadersRejectsMissingColon(t *testing.T) {
	_, err := parseAllHeaders(t, "BadHeaderNoColon\r\n\r\n")
	if err == nil || err.Kind != KindMalformedHeader {
		t.Fatalf("err = %v, want MalformedHeader", err)
	}
}

func TestHeadersResumeAcrossFeeds(t *testing.T) {
	buf := NewByteBuffer()
	hl := NewHeaderList()
	p := NewHeadersParser(hl)
	parts := []string{"Hos", "t: exam", "ple.com\r\n", "\r\n"}
	for _, part := range parts {
		buf.Append([]byte(part))
		if err := p.Feed(buf); err != nil {
			t.Fatalf("feed %q: %v", part, err)
		}
	}
	if !p.IsFinished() {
		t.Fatal("expected finished after all parts fed")
	}
	h, ok := hl.Find([]byte("Host"))
	if !ok || !h.Value.Equal([]byte("example.com")) {
		t.Fatalf("host = %+v", h)
	}
}

func TestIsChunkedWithMultipleCodings(t *testing.T) {
	hl, err := parseAllHeaders(t, "Transfer-Encoding: gzip, chunked\r\n\r\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !IsChunked(hl) {
		t.Fatal("IsChunked = false, want true for a coding list containing chunked")
	}
}

func TestIsChunkedWithoutChunkedCoding(t *testing.T) {
	hl, err := parseAllHeaders(t, "Transfer-Encoding: gzip\r\n\r\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if IsChunked(hl) {
		t.Fatal("IsChunked = true, want false when chunked is not in the coding list")
	}
}

func TestDerivedPredicates(t *testing.T) {
	hl, err := parseAllHeaders(t, "Transfer-Encoding: chunked\r\nConnection: close\r\n\r\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !IsChunked(hl) {
		t.Fatal("IsChunked = false, want true")
	}
	if !ConnectionClose(hl) {
		t.Fatal("ConnectionClose = false, want true")
	}
	if !BodyExists(hl) {
		t.Fatal("BodyExists = false, want true (chunked)")
	}
	if _, ok := ContentSize(hl); ok {
		t.Fatal("ContentSize should be absent")
	}
}
