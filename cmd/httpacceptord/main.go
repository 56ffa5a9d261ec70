// Copyright 2024 Kestrelnet contributors.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file in the root of the source tree.

// Command httpacceptord runs the incremental HTTP/1.x acceptor behind a
// plain TCP listener, so the core parser can be exercised end-to-end
// without embedding it in a larger server. Grounded on packetd/packetd's
// cmd/ (a cobra root command plus one subcommand per run mode, flags bound
// with cmd.Flags().StringVar/IntVar in an init()).
package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kestrelnet/httpaccept/server"
)

var (
	addr        string
	metricsAddr string
	logFile     string
	maxHeadSize int
	maxBodySize int
)

var rootCmd = &cobra.Command{
	Use:   "httpacceptord",
	Short: "Accept and parse HTTP/1.x messages from TCP connections",
	RunE:  run,
	Example: "# httpacceptord --addr :8080 --metrics-addr :9090",
}

func init() {
	rootCmd.Flags().StringVar(&addr, "addr", ":8080", "address to listen on")
	rootCmd.Flags().StringVar(&metricsAddr, "metrics-addr", ":9090", "address to serve /metrics on")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "log file path (stderr JSON if empty)")
	rootCmd.Flags().IntVar(&maxHeadSize, "max-head-size", 1024, "max head (request-line + headers) size in bytes")
	rootCmd.Flags().IntVar(&maxBodySize, "max-body-size", 4096, "max body buffer occupancy in bytes")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	logger, err := server.NewLogger(logFile)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer logger.Sync()

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	logger.Info("listening", zap.String("addr", addr))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go serveMetrics(ctx, logger)
	go acceptLoop(ctx, ln, logger)

	<-ctx.Done()
	logger.Info("shutting down")
	return ln.Close()
}

func serveMetrics(ctx context.Context, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: metricsAddr, Handler: mux}

	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()

	logger.Info("serving metrics", zap.String("addr", metricsAddr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("metrics server stopped", zap.Error(err))
	}
}

func acceptLoop(ctx context.Context, ln net.Listener, logger *zap.Logger) {
	cfg := server.DefaultConfig()
	cfg.MaxHeadSize = maxHeadSize
	cfg.MaxBodySize = maxBodySize

	for {
		nc, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return
			default:
			}
			logger.Error("accept failed", zap.Error(err))
			return
		}
		conn := server.NewConn(nc, cfg, logger)
		go func() {
			defer nc.Close()
			if err := conn.Serve(ctx); err != nil {
				logger.Debug("connection ended", zap.String("conn", conn.ID()), zap.Error(err))
			}
		}()
	}
}
