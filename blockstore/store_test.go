package blockstore

import (
	"path/filepath"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/shellreserve/spvd/chain"
	"github.com/shellreserve/spvd/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGenesis() wire.BlockHeader {
	return wire.BlockHeader{Version: 1, Timestamp: 1700000000, MerkleRoot: chainhash.Hash{0x01}}
}

func childHeader(parent *chain.BlockIndex, n byte) wire.BlockHeader {
	return wire.BlockHeader{
		Version:    1,
		PrevBlock:  parent.Hash(),
		MerkleRoot: chainhash.Hash{n},
		Timestamp:  parent.Header.Timestamp + 1,
	}
}

// stores runs every behavioral test against both chain.Store
// implementations, since they must be indistinguishable from Chain's
// point of view.
func stores(t *testing.T) map[string]chain.Store {
	t.Helper()

	mem := NewMemory()

	ldb, err := OpenLevelDB(filepath.Join(t.TempDir(), "chain"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = ldb.Close() })

	return map[string]chain.Store{
		"memory":  mem,
		"leveldb": ldb,
	}
}

func TestStoreInitializeIsIdempotent(t *testing.T) {
	genesis := testGenesis()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Initialize(genesis))
			require.NoError(t, s.Initialize(genesis))

			height, err := s.Height()
			require.NoError(t, err)
			assert.Equal(t, int32(0), height)

			tip, err := s.Tip()
			require.NoError(t, err)
			assert.Equal(t, int32(0), tip.Height)
			assert.Equal(t, genesis.BlockHash(), tip.Hash())
			assert.Equal(t, chainhash.Hash{}, tip.NextBlockHash)
		})
	}
}

func TestStoreUpdateTipLinksPreviousTip(t *testing.T) {
	genesis := testGenesis()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Initialize(genesis))

			genesisIdx, ok, err := s.Get(0)
			require.NoError(t, err)
			require.True(t, ok)

			child := &chain.BlockIndex{
				Header:        childHeader(genesisIdx, 0x02),
				Height:        1,
				NextBlockHash: chainhash.Hash{},
			}
			require.NoError(t, s.UpdateTip(child))

			height, err := s.Height()
			require.NoError(t, err)
			assert.Equal(t, int32(1), height)

			tip, err := s.Tip()
			require.NoError(t, err)
			assert.Equal(t, child.Hash(), tip.Hash())

			updatedGenesis, ok, err := s.Get(0)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, child.Hash(), updatedGenesis.NextBlockHash)
		})
	}
}

func TestStoreGetMissingHeightReturnsNotOK(t *testing.T) {
	genesis := testGenesis()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Initialize(genesis))

			_, ok, err := s.Get(5)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestStoreMultipleUpdatesChainLinearly(t *testing.T) {
	genesis := testGenesis()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Initialize(genesis))

			for i := byte(1); i <= 5; i++ {
				tip, err := s.Tip()
				require.NoError(t, err)
				next := &chain.BlockIndex{
					Header: childHeader(tip, i),
					Height: tip.Height + 1,
				}
				require.NoError(t, s.UpdateTip(next))
			}

			height, err := s.Height()
			require.NoError(t, err)
			assert.Equal(t, int32(5), height)

			for h := int32(0); h < 5; h++ {
				idx, ok, err := s.Get(h)
				require.NoError(t, err)
				require.True(t, ok)

				next, ok, err := s.Get(h + 1)
				require.NoError(t, err)
				require.True(t, ok)

				assert.Equal(t, next.Hash(), idx.NextBlockHash)
			}
		})
	}
}
