// Copyright (c) 2025 Shell Reserve developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Command spvd is a minimal Shell Reserve SPV client bootstrap: it dials
// a single configured remote peer, completes the version handshake, and
// then drives header-download rounds against a durable chain store until
// the peer reports it has no more headers, at which point it prints the
// final height and exits. Peer discovery, pooling, and reconnect policy
// are intentionally out of scope — this is the smallest possible wiring
// of the core packages into a runnable program.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shellreserve/spvd/blockstore"
	"github.com/shellreserve/spvd/chain"
	"github.com/shellreserve/spvd/netsync"
	"github.com/shellreserve/spvd/peer"
)

const dialTimeout = 10 * time.Second

// pollInterval is how long the event loop sleeps between driver Poll calls
// that have not yet completed; it is not a protocol timeout.
const pollInterval = 200 * time.Millisecond

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "spvd:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := initLogRotator(cfg.DataDir, cfg.LogLevel); err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}
	defer func() {
		if logRotator != nil {
			logRotator.Close()
		}
	}()

	store, err := blockstore.OpenLevelDB(filepath.Join(cfg.DataDir, "chain"))
	if err != nil {
		return fmt.Errorf("opening chain store: %w", err)
	}
	defer store.Close()

	active, err := chain.New(store, cfg.params.GenesisHeader)
	if err != nil {
		return fmt.Errorf("initializing chain: %w", err)
	}

	p, err := peer.Dial(1, cfg.Remote, cfg.params.Net, dialTimeout)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", cfg.Remote, err)
	}
	defer p.Close()

	handshake := netsync.NewHandshake(p)
	for {
		ok, err := handshake.Poll()
		if err != nil {
			return fmt.Errorf("handshake with %s: %w", cfg.Remote, err)
		}
		if ok {
			break
		}
		time.Sleep(pollInterval)
	}

	sync := netsync.NewHeaderSync(p, active, cfg.MaxHeaders)
	for {
		caughtUp, err := sync.Poll()
		if err != nil {
			return fmt.Errorf("header sync with %s: %w", cfg.Remote, err)
		}
		if caughtUp {
			height, err := active.Height()
			if err != nil {
				return err
			}
			fmt.Printf("spvd: caught up to peer %s at height %d\n", cfg.Remote, height)
			return nil
		}
		time.Sleep(pollInterval)
	}
}
