// Copyright 2024 Kestrelnet contributors.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file in the root of the source tree.

package server

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testLogger is a no-op logger so tests don't spam stderr.
func testLogger(t *testing.T) *zap.Logger {
	t.Helper()
	return zap.NewNop()
}

func TestConnServeBodilessRequest(t *testing.T) {
	client, srv := net.Pipe()
	defer client.Close()

	c := NewConn(srv, DefaultConfig(), testLogger(t))
	require.NotEmpty(t, c.ID())

	done := make(chan error, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { done <- c.Serve(ctx) }()

	_, err := client.Write([]byte("GET /p HTTP/1.1\r\nHost: x\r\n\r\n"))
	require.NoError(t, err)

	client.Close()

	select {
	case err := <-done:
		require.Error(t, err) // the read loop exits with the pipe's closed-connection error
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after client closed the connection")
	}
}

func TestConnServePipelinedRequests(t *testing.T) {
	client, srv := net.Pipe()
	defer client.Close()

	c := NewConn(srv, DefaultConfig(), testLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- c.Serve(ctx) }()

	msg := "GET /a HTTP/1.1\r\n\r\nGET /b HTTP/1.1\r\n\r\n"
	_, err := client.Write([]byte(msg))
	require.NoError(t, err)

	client.Close()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after client closed the connection")
	}
}

func TestConnCloseBodyOnEOF(t *testing.T) {
	client, srv := net.Pipe()
	defer client.Close()

	c := NewConn(srv, DefaultConfig(), testLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- c.Serve(ctx) }()

	// A chunked body that never reaches its terminating zero-length chunk:
	// the connection closes mid-body, leaving the acceptor in StateBody.
	// Serve's EOF handling calls CloseBody, which refuses a chunked body with
	// ErrUnexpectedState, and Serve returns that error instead of hanging.
	_, err := client.Write([]byte("POST /u HTTP/1.1\r\nTransfer-Encoding: chunked\r\n\r\n5\r\nhel"))
	require.NoError(t, err)

	client.Close()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after client closed the connection")
	}
}
