// Copyright (c) 2025 Shell Reserve developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	flags "github.com/jessevdk/go-flags"
	"github.com/shellreserve/spvd/chaincfg"
)

const (
	defaultDataDirname = "data"
	defaultLogLevel    = "info"
	defaultLogFilename = "spvd.log"
)

// config defines the configuration options for spvd, parsed from the
// command line via go-flags struct tags, mirroring the upstream btcd
// config.go convention. No config file is read.
type config struct {
	DataDir    string `short:"b" long:"datadir" description:"Directory to store chain data"`
	Remote     string `short:"r" long:"remote" description:"Remote peer address (host:port) to sync headers from" required:"true"`
	Network    string `short:"n" long:"network" description:"Network to connect to (mainnet, testnet, regtest)" default:"mainnet"`
	LogLevel   string `short:"l" long:"loglevel" description:"Logging level (trace, debug, info, warn, error, critical)" default:"info"`
	MaxHeaders int    `long:"maxheaders" description:"Maximum headers accepted per headers message" default:"2000"`

	params *chaincfg.Params
}

// loadConfig parses the command line into a config, applying defaults and
// resolving the requested network to its chaincfg.Params.
func loadConfig() (*config, error) {
	cfg := config{
		DataDir:  defaultDataDir(),
		LogLevel: defaultLogLevel,
	}

	parser := flags.NewParser(&cfg, flags.Default)
	if _, err := parser.Parse(); err != nil {
		return nil, err
	}

	params, err := chaincfg.ParamsByName(cfg.Network)
	if err != nil {
		return nil, err
	}
	cfg.params = params

	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &cfg, nil
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return defaultDataDirname
	}
	return filepath.Join(home, ".spvd", defaultDataDirname)
}
