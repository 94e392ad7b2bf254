// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2025 Shell Reserve developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chaincfg defines the parameters for the networks an SPV client
// can connect to: the wire magic that identifies the network and the
// genesis header every chain store seeds itself from.
package chaincfg

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/shellreserve/spvd/genesis"
	"github.com/shellreserve/spvd/wire"
)

// Params defines the network-specific parameters an SPV client needs: which
// magic identifies frames on this network, and what its genesis header is.
type Params struct {
	// Name is the human-readable network name.
	Name string

	// Net is the magic carried in every frame header on this network.
	Net wire.BitcoinNet

	// DefaultPort is the TCP port nodes on this network listen on.
	DefaultPort string

	// GenesisHeader is the header every chain store on this network is
	// seeded with.
	GenesisHeader wire.BlockHeader

	// GenesisHash is the hash identity of GenesisHeader, computed once at
	// package initialization since it never changes.
	GenesisHash chainhash.Hash
}

// shellGenesisHeader is shared across all three Shell Reserve networks: the
// constitution commitment is network-independent, so only the magic and
// port distinguish Main from Test from Regtest.
var shellGenesisHeader = genesis.CreateShellGenesisHeader()

var shellGenesisHash = func() chainhash.Hash {
	h := shellGenesisHeader
	return h.BlockHash()
}()

// MainNetParams defines the parameters for the production Shell Reserve
// network.
var MainNetParams = Params{
	Name:          "mainnet",
	Net:           wire.ShellMainNet,
	DefaultPort:   "8433",
	GenesisHeader: shellGenesisHeader,
	GenesisHash:   shellGenesisHash,
}

// TestNetParams defines the parameters for the public Shell Reserve test
// network.
var TestNetParams = Params{
	Name:          "testnet",
	Net:           wire.ShellTestNet,
	DefaultPort:   "18433",
	GenesisHeader: shellGenesisHeader,
	GenesisHash:   shellGenesisHash,
}

// RegressionNetParams defines the parameters for local regression testing.
var RegressionNetParams = Params{
	Name:          "regtest",
	Net:           wire.ShellRegTest,
	DefaultPort:   "18444",
	GenesisHeader: shellGenesisHeader,
	GenesisHash:   shellGenesisHash,
}

var networksByName = map[string]*Params{
	MainNetParams.Name:       &MainNetParams,
	TestNetParams.Name:       &TestNetParams,
	RegressionNetParams.Name: &RegressionNetParams,
}

// ParamsByName looks up a network's Params by its Name field (e.g.
// "mainnet", "testnet", "regtest"), as used by cmd/spvd's --network flag.
func ParamsByName(name string) (*Params, error) {
	p, ok := networksByName[name]
	if !ok {
		return nil, fmt.Errorf("chaincfg: unknown network %q", name)
	}
	return p, nil
}
