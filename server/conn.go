// Copyright 2024 Kestrelnet contributors.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file in the root of the source tree.

package server

import (
	"context"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/kestrelnet/httpaccept"
)

// Config bounds one connection's acceptor.
type Config struct {
	MaxHeadSize int
	MaxBodySize int
	ReadTimeout time.Duration
}

// DefaultConfig mirrors spec.md §6's default size ceilings.
func DefaultConfig() Config {
	return Config{MaxHeadSize: 1024, MaxBodySize: 4096, ReadTimeout: 60 * time.Second}
}

// connTraits is the per-connection httpaccept.Traits implementation: it
// hands out pooled buffers and turns every OnHead/OnRequest callback into a
// structured log line plus a metric increment. It never dispatches or
// routes — that is explicitly out of scope (spec.md §1).
type connTraits struct {
	httpaccept.DefaultTraits
	id     string
	logger *zap.Logger
}

func (t *connTraits) CreateDataContainer() httpaccept.Buffer {
	return NewPooledBuffer()
}

func (t *connTraits) OnHead(kind httpaccept.HeadKind, req httpaccept.RequestHead, rsp httpaccept.ResponseHead, hdrs httpaccept.Headers) {
	messagesStarted.Inc()
	t.logger.Debug("head parsed",
		zap.String("conn", t.id),
		zap.Int("header_count", hdrs.Len()),
	)
}

func (t *connTraits) OnRequest(kind httpaccept.HeadKind, req httpaccept.RequestHead, rsp httpaccept.ResponseHead, hdrs httpaccept.Headers, trailers httpaccept.Headers, body httpaccept.View) {
	bodyBytesTotal.Add(float64(body.Len()))
	switch kind {
	case httpaccept.HeadRequest:
		messagesAccepted.WithLabelValues("request").Inc()
		t.logger.Info("request accepted",
			zap.String("conn", t.id),
			zap.String("method", req.Method.String()),
			zap.ByteString("uri", req.URI.Bytes()),
			zap.Int("body_len", body.Len()),
		)
	case httpaccept.HeadResponse:
		messagesAccepted.WithLabelValues("response").Inc()
		t.logger.Info("response accepted",
			zap.String("conn", t.id),
			zap.Int("status", rsp.Status),
			zap.Int("body_len", body.Len()),
		)
	}
	if httpaccept.IsChunked(hdrs) {
		chunkCount.Inc()
	}
}

// Conn drives one httpaccept.Acceptor across a single net.Conn's lifetime.
// Grounded on packetd/packetd's decoder.Decode read loop (read, feed,
// reset-and-recover) and ryanbekhen/ngebut's pooled per-connection codec
// lifecycle (httpparser.NewCodec/ReleaseCodec), adapted from a pooled
// wildcat parser to a pooled httpaccept.Acceptor.
type Conn struct {
	id       string
	nc       net.Conn
	cfg      Config
	acceptor *httpaccept.Acceptor
	logger   *zap.Logger
}

// NewConn wraps nc with a fresh Acceptor and a correlation id.
func NewConn(nc net.Conn, cfg Config, logger *zap.Logger) *Conn {
	id := uuid.NewString()
	traits := &connTraits{
		DefaultTraits: httpaccept.DefaultTraits{MaxHead: cfg.MaxHeadSize, MaxBody: cfg.MaxBodySize},
		id:            id,
		logger:        logger,
	}
	return &Conn{
		id:       id,
		nc:       nc,
		cfg:      cfg,
		acceptor: httpaccept.NewAcceptor(traits),
		logger:   logger,
	}
}

// ID returns the connection's correlation id, the same one attached to
// this connection's log lines and to the errors Serve returns.
func (c *Conn) ID() string { return c.id }

// Serve reads from the connection until it closes, the context is
// cancelled, or a fatal parse error occurs. Each time the acceptor reaches
// StateFinish it is reset so a keep-alive connection can carry several
// messages; any pipelined bytes already read past one message's end are
// replayed into the fresh acceptor via UnconsumedTail.
func (c *Conn) Serve(ctx context.Context) error {
	activeConnections.Inc()
	defer activeConnections.Dec()

	buf := make([]byte, 4096)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if c.cfg.ReadTimeout > 0 {
			_ = c.nc.SetReadDeadline(time.Now().Add(c.cfg.ReadTimeout))
		}
		n, readErr := c.nc.Read(buf)
		if n > 0 {
			if err := c.feedAndDrain(buf[:n]); err != nil {
				return err
			}
		}
		if readErr != nil {
			if c.acceptor.State() == httpaccept.StateBody {
				if cerr := c.acceptor.CloseBody(); cerr != nil {
					parseErrors.WithLabelValues(cerr.Kind.String()).Inc()
					return errors.Wrapf(cerr, "conn %s: close body on EOF", c.id)
				}
			}
			return readErr
		}
	}
}

func (c *Conn) feedAndDrain(p []byte) error {
	if ferr := c.acceptor.Feed(p); ferr != nil {
		parseErrors.WithLabelValues(ferr.Kind.String()).Inc()
		return errors.Wrapf(ferr, "conn %s: parse failed", c.id)
	}
	for c.acceptor.State() == httpaccept.StateFinish {
		tail := c.acceptor.UnconsumedTail()
		c.acceptor.Reset()
		if len(tail) == 0 {
			return nil
		}
		if ferr := c.acceptor.Feed(tail); ferr != nil {
			parseErrors.WithLabelValues(ferr.Kind.String()).Inc()
			return errors.Wrapf(ferr, "conn %s: parse failed on pipelined tail", c.id)
		}
	}
	return nil
}
