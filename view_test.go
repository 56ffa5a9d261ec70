// Copyright 2024 Kestrelnet contributors.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file in the root of the source tree.

package httpaccept

import "testing"

func TestViewSurvivesBufferGrowth(t *testing.T) {
	buf := NewByteBuffer()
	buf.Append([]byte("hello"))
	v := NewView(buf, 0, 5)
	buf.Append([]byte(" world"))
	if !v.Equal([]byte("hello")) {
		t.Fatalf("v = %q, want hello", v.Bytes())
	}
	v.AdvanceToEnd()
	if !v.Equal([]byte("hello world")) {
		t.Fatalf("v after AdvanceToEnd = %q", v.Bytes())
	}
}

func TestViewSubstr(t *testing.T) {
	buf := NewByteBuffer()
	buf.Append([]byte("GET /path HTTP/1.1"))
	v := NewView(buf, 4, 5)
	if !v.Equal([]byte("/path")) {
		t.Fatalf("v = %q", v.Bytes())
	}
	sub := v.Substr(1, 4)
	if !sub.Equal([]byte("path")) {
		t.Fatalf("sub = %q", sub.Bytes())
	}
}

func TestViewEqualFold(t *testing.T) {
	buf := NewByteBuffer()
	buf.Append([]byte("Content-Length"))
	v := NewView(buf, 0, buf.Len())
	if !v.EqualFold([]byte("content-length")) {
		t.Fatal("EqualFold should ignore case")
	}
	if v.EqualFold([]byte("content-type")) {
		t.Fatal("EqualFold matched an unrelated name")
	}
}

func TestViewResize(t *testing.T) {
	buf := NewByteBuffer()
	buf.Append([]byte("0123456789"))
	v := NewView(buf, 2, 2)
	v.Resize(100)
	if v.Len() != 8 {
		t.Fatalf("Resize should clamp to buffer end, got len %d", v.Len())
	}
}

func TestViewReset(t *testing.T) {
	buf := NewByteBuffer()
	buf.Append([]byte("abc"))
	v := NewView(buf, 0, 3)
	v.Reset()
	if !v.Empty() || v.Offset() != 3 {
		t.Fatalf("Reset() = offset %d len %d, want offset 3 len 0", v.Offset(), v.Len())
	}
}
