package chain

import (
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/shellreserve/spvd/blockstore"
	"github.com/shellreserve/spvd/chainutil/walltime"
	"github.com/shellreserve/spvd/wire"
	"pgregory.net/rapid"
)

// TestChainGrowthInvariants draws a random-length run of valid headers and
// checks invariants that must hold after connecting any number of them:
// height increases by exactly one per connect, the tip is always the
// header just connected, the parent's NextBlockHash is updated to that
// header's hash, and the locator always starts at the tip and ends at
// genesis.
func TestChainGrowthInvariants(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		walltime.SetMockTime(baseTime + 1_000_000)
		defer walltime.ResetMockTime()

		store := blockstore.NewMemory()
		c, err := New(store, testGenesis())
		if err != nil {
			t.Fatalf("New: %v", err)
		}

		n := rapid.IntRange(0, 60).Draw(t, "n")

		var lastHash chainhash.Hash
		genesis, err := c.Genesis()
		if err != nil {
			t.Fatalf("Genesis: %v", err)
		}
		lastHash = genesis.Hash()

		for i := 0; i < n; i++ {
			tip, err := c.Tip()
			if err != nil {
				t.Fatalf("Tip: %v", err)
			}
			if tip.Hash() != lastHash {
				t.Fatalf("tip hash drifted from last connected hash at step %d", i)
			}

			header := wire.BlockHeader{
				Version:    1,
				PrevBlock:  tip.Hash(),
				MerkleRoot: chainhash.Hash{byte(i), byte(i >> 8), byte(i >> 16)},
				Timestamp:  tip.Header.Timestamp + 1,
			}
			if err := c.ConnectBlockHeader(header); err != nil {
				t.Fatalf("ConnectBlockHeader at step %d: %v", i, err)
			}
			lastHash = header.BlockHash()

			height, err := c.Height()
			if err != nil {
				t.Fatalf("Height: %v", err)
			}
			if height != int32(i+1) {
				t.Fatalf("height after %d connects: got %d, want %d", i+1, height, i+1)
			}

			parent, err := c.Get(height - 1)
			if err != nil {
				t.Fatalf("Get(%d): %v", height-1, err)
			}
			if parent.NextBlockHash != lastHash {
				t.Fatalf("parent at height %d has stale NextBlockHash", height-1)
			}
		}

		locator, err := c.Locator()
		if err != nil {
			t.Fatalf("Locator: %v", err)
		}
		if len(locator) == 0 {
			t.Fatalf("locator must never be empty")
		}
		tip, err := c.Tip()
		if err != nil {
			t.Fatalf("Tip: %v", err)
		}
		if locator[0] != tip.Hash() {
			t.Fatalf("locator must start at the current tip")
		}
		if locator[len(locator)-1] != genesis.Hash() {
			t.Fatalf("locator must end at genesis")
		}
	})
}

// TestMedianTimePastNeverExceedsTip asserts a property that must hold
// regardless of chain shape: median-time-past at the tip can never be
// greater than the tip's own timestamp, since the tip's timestamp is
// itself one of the values the median is drawn from.
func TestMedianTimePastNeverExceedsTip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		walltime.SetMockTime(baseTime + 1_000_000)
		defer walltime.ResetMockTime()

		store := blockstore.NewMemory()
		c, err := New(store, testGenesis())
		if err != nil {
			t.Fatalf("New: %v", err)
		}

		n := rapid.IntRange(0, 30).Draw(t, "n")
		for i := 0; i < n; i++ {
			cur, err := c.Tip()
			if err != nil {
				t.Fatalf("Tip: %v", err)
			}
			header := wire.BlockHeader{
				Version:    1,
				PrevBlock:  cur.Hash(),
				MerkleRoot: chainhash.Hash{byte(i)},
				Timestamp:  cur.Header.Timestamp + 1,
			}
			if err := c.ConnectBlockHeader(header); err != nil {
				t.Fatalf("ConnectBlockHeader: %v", err)
			}
		}

		finalTip, err := c.Tip()
		if err != nil {
			t.Fatalf("Tip: %v", err)
		}
		mtp, err := c.MedianTimePast(finalTip)
		if err != nil {
			t.Fatalf("MedianTimePast: %v", err)
		}
		if mtp > finalTip.Header.Timestamp {
			t.Fatalf("median-time-past %d exceeds tip timestamp %d", mtp, finalTip.Header.Timestamp)
		}
	})
}
