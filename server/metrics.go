// Copyright 2024 Kestrelnet contributors.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file in the root of the source tree.

package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics grounded on packetd/packetd's controller/metrics.go: a fixed set
// of package-level promauto collectors registered against the default
// registry, exported by the daemon's --metrics-addr over promhttp.Handler.
var (
	messagesStarted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "httpaccept",
		Name:      "messages_started_total",
		Help:      "Messages with a body for which a head has been fully parsed (OnHead).",
	})

	messagesAccepted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "httpaccept",
		Name:      "messages_accepted_total",
		Help:      "OnRequest deliveries, by kind (request/response): one per bodiless or length-delimited message, one per chunk of a chunked body.",
	}, []string{"kind"})

	bodyBytesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "httpaccept",
		Name:      "body_bytes_total",
		Help:      "Total body bytes delivered to OnRequest across all connections.",
	})

	parseErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "httpaccept",
		Name:      "parse_errors_total",
		Help:      "Fatal parse errors, by error kind.",
	}, []string{"kind"})

	chunkCount = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "httpaccept",
		Name:      "chunks_total",
		Help:      "Individual chunks delivered to OnRequest for chunked bodies.",
	})

	activeConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "httpaccept",
		Name:      "active_connections",
		Help:      "Connections currently being served.",
	})
)
