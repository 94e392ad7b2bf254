// Copyright (c) 2025 Shell Reserve developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"

	"github.com/btcsuite/btclog"
	"github.com/jrick/logrotate"
	"github.com/shellreserve/spvd/chain"
	"github.com/shellreserve/spvd/netsync"
	"github.com/shellreserve/spvd/peer"
)

// logRotator rotates the on-disk log file spvd writes to, in addition to
// the stdout backend. Closed on shutdown by main.
var logRotator *logrotate.Rotator

var backendLog = btclog.NewBackend(logWriter{})

func subsystemLoggers() map[string]btclog.Logger {
	return map[string]btclog.Logger{
		"CHAN": backendLog.Logger("CHAN"),
		"PEER": backendLog.Logger("PEER"),
		"SYNC": backendLog.Logger("SYNC"),
	}
}

// logWriter implements io.Writer, sending output to both the rotator (once
// initialized) and stdout, matching the split-output convention used
// throughout the btcsuite ecosystem.
type logWriter struct{}

func (logWriter) Write(p []byte) (int, error) {
	os.Stdout.Write(p)
	if logRotator != nil {
		logRotator.Write(p)
	}
	return len(p), nil
}

// initLogRotator opens a rotating log file under dataDir/logs and wires
// every package's logger to backendLog at the configured level.
func initLogRotator(dataDir, levelStr string) error {
	logDir := filepath.Join(dataDir, "logs")
	if err := os.MkdirAll(logDir, 0700); err != nil {
		return err
	}

	r, err := logrotate.NewRotator(filepath.Join(logDir, defaultLogFilename))
	if err != nil {
		return err
	}
	logRotator = r

	level, ok := btclog.LevelFromString(levelStr)
	if !ok {
		level = btclog.LevelInfo
	}

	loggers := subsystemLoggers()
	for _, l := range loggers {
		l.SetLevel(level)
	}

	chain.UseLogger(loggers["CHAN"])
	peer.UseLogger(loggers["PEER"])
	netsync.UseLogger(loggers["SYNC"])

	return nil
}
