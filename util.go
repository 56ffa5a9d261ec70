// Copyright 2024 Kestrelnet contributors.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file in the root of the source tree.

package httpaccept

// isWS reports whether b is a horizontal-whitespace byte (SP or HTAB).
func isWS(b byte) bool { return b == ' ' || b == '\t' }

// isTokenChar reports whether b belongs to RFC 7230's "token" character
// class (used for method names and header names).
func isTokenChar(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9':
		return true
	}
	switch b {
	case '!', '#', '$', '%', '&', '\'', '*', '+', '-', '.', '^', '_', '`', '|', '~':
		return true
	}
	return false
}

// skipNonWS advances i past bytes that are neither whitespace nor CR/LF.
// Grounded on intuitivelabs/httpsp's skipToken usage in ParseFLine, where
// it is used for the request-target and version tokens (which may contain
// characters outside the strict "token" class, e.g. '/', '?', '=').
func skipNonWS(buf []byte, i int) int {
	for i < len(buf) {
		c := buf[i]
		if isWS(c) || c == '\r' || c == '\n' {
			break
		}
		i++
	}
	return i
}

// skipTokenChars advances i past RFC 7230 token characters only, stopping
// at the first byte that is not in the token class (used for method and
// header names, which must not contain '/' or other non-token bytes).
func skipTokenChars(buf []byte, i int) int {
	for i < len(buf) && isTokenChar(buf[i]) {
		i++
	}
	return i
}

// parseDecimalUint parses b as an unsigned decimal integer, grounded on
// the fast-path/overflow-guarded parsing intuitivelabs/httpsp performs for
// Content-Length (ParseCLenVal) and ryanbekhen/ngebut's GetContentLength.
// It rejects empty input, non-digit bytes, and values above 1<<62 + 5 (the
// largest n*10+9 reachable with n <= (1<<62)/10).
func parseDecimalUint(b []byte) (int64, bool) {
	if len(b) == 0 {
		return 0, false
	}
	const maxBeforeMul = (int64(1) << 62) / 10
	var n int64
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, false
		}
		if n > maxBeforeMul {
			return 0, false
		}
		n = n*10 + int64(c-'0')
		if n < 0 {
			return 0, false
		}
	}
	return n, true
}

// parseHexUint parses b as a hexadecimal integer, at most 16 hex digits,
// rejecting any byte outside [0-9a-fA-F] and any value that does not fit in
// an int64. Grounded on intuitivelabs/httpsp
// ParseChunk's hex-size parsing and its overflow guard.
func parseHexUint(b []byte) (int64, bool) {
	if len(b) == 0 || len(b) > 16 {
		return 0, false
	}
	var n uint64
	for _, c := range b {
		var v uint64
		switch {
		case c >= '0' && c <= '9':
			v = uint64(c - '0')
		case c >= 'a' && c <= 'f':
			v = uint64(c-'a') + 10
		case c >= 'A' && c <= 'F':
			v = uint64(c-'A') + 10
		default:
			return 0, false
		}
		n = n<<4 | v
	}
	if int64(n) < 0 {
		return 0, false
	}
	return int64(n), true
}
