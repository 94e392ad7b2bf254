package chain

import (
	"fmt"
	"sort"
	"sync"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btclog"
	"github.com/shellreserve/spvd/chainutil/walltime"
	"github.com/shellreserve/spvd/spverr"
	"github.com/shellreserve/spvd/wire"
)

// log is the package-level logger, disabled until a caller supplies one via
// UseLogger.
var log btclog.Logger = btclog.Disabled

// UseLogger sets the package-wide logger used by Chain.
func UseLogger(logger btclog.Logger) {
	log = logger
}

// acceptedBlockVersions are the only header versions ConnectBlockHeader
// will accept.
var acceptedBlockVersions = map[uint32]bool{
	1:          true,
	0x20000000: true,
}

// maxFutureBlockTime bounds how far beyond the network-adjusted present a
// header's timestamp may claim to be.
const maxFutureBlockTime = 2 * 60 * 60 // 7200 seconds

// medianTimeSpan is the number of trailing blocks MedianTimePast considers.
const medianTimeSpan = 11

// Chain is the active header chain atop a Store. All mutation is expected
// to be confined to a single driver (the header-download driver); the
// mutex exists so a second control path — shutdown, metrics, an RPC reader
// — can safely observe it concurrently.
type Chain struct {
	mu    sync.Mutex
	store Store
}

// New wraps store in a Chain, initializing it with genesis if the store is
// empty. Initialize is idempotent, so calling New against an
// already-populated store is safe and simply adopts its existing tip.
func New(store Store, genesis wire.BlockHeader) (*Chain, error) {
	if err := store.Initialize(genesis); err != nil {
		return nil, spverr.New(spverr.Store, err)
	}
	return &Chain{store: store}, nil
}

// Genesis returns the chain's genesis block index.
func (c *Chain) Genesis() (*BlockIndex, error) {
	return c.Get(0)
}

// Tip returns the highest-height block index on the active chain.
func (c *Chain) Tip() (*BlockIndex, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tipLocked()
}

func (c *Chain) tipLocked() (*BlockIndex, error) {
	idx, err := c.store.Tip()
	if err != nil {
		return nil, spverr.New(spverr.Store, err)
	}
	return idx, nil
}

// Height returns the height of the current tip.
func (c *Chain) Height() (int32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	h, err := c.store.Height()
	if err != nil {
		return 0, spverr.New(spverr.Store, err)
	}
	return h, nil
}

// Get returns the block index at height, or nil if height is not on the
// active chain.
func (c *Chain) Get(height int32) (*BlockIndex, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.getLocked(height)
}

func (c *Chain) getLocked(height int32) (*BlockIndex, error) {
	idx, ok, err := c.store.Get(height)
	if err != nil {
		return nil, spverr.New(spverr.Store, err)
	}
	if !ok {
		return nil, nil
	}
	return idx, nil
}

// Includes reports whether idx matches the index stored at its own height
// on the active chain.
func (c *Chain) Includes(idx *BlockIndex) (bool, error) {
	if idx == nil {
		return false, nil
	}
	onChain, err := c.Get(idx.Height)
	if err != nil {
		return false, err
	}
	return onChain.Equal(idx), nil
}

// MedianTimePast returns the median header.Time over the latest
// medianTimeSpan indices up to and including idx, walking backwards through
// parents (fewer than medianTimeSpan if idx is shallower than that).
func (c *Chain) MedianTimePast(idx *BlockIndex) (uint32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.medianTimePastLocked(idx)
}

func (c *Chain) medianTimePastLocked(idx *BlockIndex) (uint32, error) {
	times := make([]uint32, 0, medianTimeSpan)

	height := idx.Height
	for i := 0; i < medianTimeSpan && height >= 0; i++ {
		cur, err := c.getLocked(height)
		if err != nil {
			return 0, err
		}
		if cur == nil {
			break
		}
		times = append(times, cur.Header.Timestamp)
		height--
	}

	sort.Slice(times, func(i, j int) bool { return times[i] < times[j] })
	return times[len(times)/2], nil
}

// ConnectBlockHeader validates header against the current tip and, if
// valid, appends it to the active chain.
func (c *Chain) ConnectBlockHeader(header wire.BlockHeader) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	tip, err := c.tipLocked()
	if err != nil {
		return err
	}

	if !acceptedBlockVersions[header.Version] {
		return spverr.NewBlockValidation(spverr.WrongBlockVersion,
			fmt.Sprintf("got version %#x, want 0x1 or 0x20000000", header.Version))
	}

	mtp, err := c.medianTimePastLocked(tip)
	if err != nil {
		return err
	}
	if header.Timestamp <= mtp {
		return spverr.NewBlockValidation(spverr.BlockTimeTooOld, "")
	}

	if header.Timestamp > walltime.NetworkAdjustedNow()+maxFutureBlockTime {
		return spverr.NewBlockValidation(spverr.BlockTimeTooNew, "")
	}

	tipHash := tip.Hash()
	if header.PrevBlock != tipHash {
		return spverr.NewBlockValidation(spverr.CantConnectToTip, "")
	}

	next := &BlockIndex{
		Header:        header,
		Height:        tip.Height + 1,
		NextBlockHash: chainhash.Hash{},
	}

	if err := c.store.UpdateTip(next); err != nil {
		return spverr.New(spverr.Store, err)
	}

	if log.Level() <= btclog.LevelTrace {
		log.Tracef("connected block header height=%d hash=%s", next.Height, next.Hash())
	}

	return nil
}

// Locator returns the block locator for the current tip: a sparse
// tip-to-root list of hashes, dense near the tip and exponentially sparse
// toward genesis, used to negotiate header sync with a peer.
func (c *Chain) Locator() ([]chainhash.Hash, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cur, err := c.tipLocked()
	if err != nil {
		return nil, err
	}

	have := make([]chainhash.Hash, 0, 32)
	step := int32(1)

	for {
		have = append(have, cur.Hash())
		if cur.Height == 0 {
			break
		}

		nextHeight := cur.Height - step
		if nextHeight < 0 {
			nextHeight = 0
		}

		cur, err = c.getLocked(nextHeight)
		if err != nil {
			return nil, err
		}
		if cur == nil {
			return nil, spverr.New(spverr.Store, errMissingLocatorAncestor{height: nextHeight})
		}

		if len(have) > 10 {
			step *= 2
		}
	}

	return have, nil
}

type errMissingLocatorAncestor struct{ height int32 }

func (e errMissingLocatorAncestor) Error() string {
	return fmt.Sprintf("chain: locator ancestor at height %d missing from active chain", e.height)
}
