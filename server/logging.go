// Copyright 2024 Kestrelnet contributors.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file in the root of the source tree.

package server

import (
	"gopkg.in/natefinch/lumberjack.v2"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds a structured zap.Logger. When path is empty it logs to
// stderr at info level; otherwise it writes JSON lines through a
// lumberjack.Logger that rotates the file, grounded on the zap+lumberjack.v2
// pairing present in the retrieval pack's dependency closure
// (ryanbekhen/ngebut's go.mod) and promoted here to the daemon's active
// logging backend.
func NewLogger(path string) (*zap.Logger, error) {
	if path == "" {
		return zap.NewProduction()
	}

	sink := zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    100, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	})
	enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	core := zapcore.NewCore(enc, sink, zap.InfoLevel)
	return zap.New(core, zap.AddCaller()), nil
}
