package blockstore

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/shellreserve/spvd/chain"
	"github.com/shellreserve/spvd/wire"
	"github.com/syndtr/goleveldb/leveldb"
)

// LevelDB is the durable chain.Store, backed by an embedded goleveldb
// instance. It uses three byte-prefixed key spaces (see keys.go) and
// commits UpdateTip as a single write batch so a crash mid-update can never
// leave the three key spaces disagreeing with each other.
type LevelDB struct {
	db *leveldb.DB
}

// OpenLevelDB opens (creating if necessary) a LevelDB store rooted at dir.
func OpenLevelDB(dir string) (*LevelDB, error) {
	db, err := leveldb.OpenFile(dir, nil)
	if err != nil {
		return nil, fmt.Errorf("blockstore: opening leveldb at %s: %w", dir, err)
	}
	return &LevelDB{db: db}, nil
}

// Close releases the underlying database handle.
func (s *LevelDB) Close() error {
	return s.db.Close()
}

// Initialize implements chain.Store.
func (s *LevelDB) Initialize(genesis wire.BlockHeader) error {
	_, err := s.db.Get(tipKey(), nil)
	if err == nil {
		return nil // tip already exists; idempotent no-op
	}
	if !errors.Is(err, leveldb.ErrNotFound) {
		return err
	}

	genesisIdx := &chain.BlockIndex{
		Header:        genesis,
		Height:        0,
		NextBlockHash: chainhash.Hash{},
	}
	return s.writeTip(genesisIdx, nil)
}

// Height implements chain.Store.
func (s *LevelDB) Height() (int32, error) {
	tip, err := s.Tip()
	if err != nil {
		return 0, err
	}
	return tip.Height, nil
}

// Get implements chain.Store.
func (s *LevelDB) Get(height int32) (*chain.BlockIndex, bool, error) {
	hashBytes, err := s.db.Get(heightKey(height), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var hash chainhash.Hash
	copy(hash[:], hashBytes)

	idx, ok, err := s.getByHash(hash)
	return idx, ok, err
}

func (s *LevelDB) getByHash(hash chainhash.Hash) (*chain.BlockIndex, bool, error) {
	raw, err := s.db.Get(entryKey(hash), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	idx := &chain.BlockIndex{}
	if err := idx.Decode(bytes.NewReader(raw)); err != nil {
		return nil, false, fmt.Errorf("blockstore: decoding block index for %s: %w", hash, err)
	}
	return idx, true, nil
}

// Tip implements chain.Store.
func (s *LevelDB) Tip() (*chain.BlockIndex, error) {
	hashBytes, err := s.db.Get(tipKey(), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, errors.New("blockstore: tip not set; call Initialize before use")
	}
	if err != nil {
		return nil, err
	}

	var hash chainhash.Hash
	copy(hash[:], hashBytes)

	idx, ok, err := s.getByHash(hash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("blockstore: tip hash %s has no entry", hash)
	}
	return idx, nil
}

// UpdateTip implements chain.Store. All four sub-updates described in
// chain.Store's doc comment land in a single leveldb.Batch, so a failed
// write leaves the store exactly as it was.
func (s *LevelDB) UpdateTip(next *chain.BlockIndex) error {
	prevTip, err := s.Tip()
	if err != nil {
		return err
	}
	return s.writeTip(next, prevTip)
}

// writeTip builds and commits the atomic batch for advancing the tip from
// prevTip (nil for the genesis case) to next.
func (s *LevelDB) writeTip(next *chain.BlockIndex, prevTip *chain.BlockIndex) error {
	batch := new(leveldb.Batch)
	nextHash := next.Header.BlockHash()

	if prevTip != nil {
		updatedPrev := *prevTip
		updatedPrev.NextBlockHash = nextHash

		var prevBuf bytes.Buffer
		if err := updatedPrev.Encode(&prevBuf); err != nil {
			return err
		}
		prevHash := prevTip.Header.BlockHash()
		batch.Put(entryKey(prevHash), prevBuf.Bytes())
		batch.Put(heightKey(updatedPrev.Height), prevHash[:])
	}

	var nextBuf bytes.Buffer
	if err := next.Encode(&nextBuf); err != nil {
		return err
	}
	batch.Put(entryKey(nextHash), nextBuf.Bytes())
	batch.Put(heightKey(next.Height), nextHash[:])
	batch.Put(tipKey(), nextHash[:])

	return s.db.Write(batch, nil)
}
