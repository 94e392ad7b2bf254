// Package chain implements the active header chain: an ordered, validated
// sequence of block headers atop a pluggable Store, exposing the locator
// operation the P2P header-download driver needs.
package chain

import "github.com/shellreserve/spvd/wire"

// Store is the persistence contract a Chain is built on. Two
// implementations exist — blockstore.Memory and blockstore.LevelDB — and
// must be behaviorally indistinguishable from Chain's point of view.
type Store interface {
	// Initialize is idempotent: if a tip already exists, it does nothing;
	// otherwise it writes genesis at height 0 with a zero next-blockhash.
	Initialize(genesis wire.BlockHeader) error

	// Height returns the height of the current tip.
	Height() (int32, error)

	// Get returns the BlockIndex at height, or ok=false if none exists.
	Get(height int32) (*BlockIndex, bool, error)

	// UpdateTip atomically: (a) rewrites the previous tip's
	// NextBlockHash to hash(new.Header), (b) writes new under its own
	// hash, (c) writes the height->hash mapping for new, and (d) updates
	// the tip pointer — all four, or none, on failure.
	UpdateTip(next *BlockIndex) error

	// Tip returns the current tip. Only valid after Initialize.
	Tip() (*BlockIndex, error)
}
