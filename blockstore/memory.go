package blockstore

import (
	"errors"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/shellreserve/spvd/chain"
	"github.com/shellreserve/spvd/wire"
)

// Memory is an in-memory chain.Store: an ordered slice of block indices,
// indexed by height. It offers no durability and is intended for tests and
// for any caller that doesn't need its chain to survive a restart.
type Memory struct {
	headers []*chain.BlockIndex
}

// NewMemory returns an empty Memory store. Call Initialize before use.
func NewMemory() *Memory {
	return &Memory{}
}

// Initialize implements chain.Store.
func (m *Memory) Initialize(genesis wire.BlockHeader) error {
	if len(m.headers) > 0 {
		return nil
	}

	m.headers = []*chain.BlockIndex{{
		Header:        genesis,
		Height:        0,
		NextBlockHash: chainhash.Hash{},
	}}
	return nil
}

// Height implements chain.Store.
func (m *Memory) Height() (int32, error) {
	if len(m.headers) == 0 {
		return 0, errUninitialized
	}
	return int32(len(m.headers) - 1), nil
}

// Get implements chain.Store.
func (m *Memory) Get(height int32) (*chain.BlockIndex, bool, error) {
	if height < 0 || int(height) >= len(m.headers) {
		return nil, false, nil
	}
	idx := *m.headers[height]
	return &idx, true, nil
}

// UpdateTip implements chain.Store.
func (m *Memory) UpdateTip(next *chain.BlockIndex) error {
	if len(m.headers) == 0 {
		return errUninitialized
	}

	tip := m.headers[len(m.headers)-1]
	tip.NextBlockHash = next.Header.BlockHash()

	clone := *next
	m.headers = append(m.headers, &clone)
	return nil
}

// Tip implements chain.Store.
func (m *Memory) Tip() (*chain.BlockIndex, error) {
	if len(m.headers) == 0 {
		return nil, errUninitialized
	}
	idx := *m.headers[len(m.headers)-1]
	return &idx, nil
}

var errUninitialized = errors.New("blockstore: store not initialized")
