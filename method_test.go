// Copyright 2024 Kestrelnet contributors.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file in the root of the source tree.

package httpaccept

import "testing"

func TestGetMethodKnown(t *testing.T) {
	cases := map[string]Method{
		"GET":     MGet,
		"HEAD":    MHead,
		"POST":    MPost,
		"PUT":     MPut,
		"DELETE":  MDelete,
		"CONNECT": MConnect,
		"OPTIONS": MOptions,
		"TRACE":   MTrace,
		"PATCH":   MPatch,
	}
	for name, want := range cases {
		if got := GetMethod([]byte(name)); got != want {
			t.Errorf("GetMethod(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestGetMethodUnknownIsOther(t *testing.T) {
	if got := GetMethod([]byte("PROPFIND")); got != MOther {
		t.Fatalf("GetMethod(PROPFIND) = %v, want MOther (no whitelist)", got)
	}
}

func TestGetMethodEmpty(t *testing.T) {
	if got := GetMethod(nil); got != MUndef {
		t.Fatalf("GetMethod(nil) = %v, want MUndef", got)
	}
}
