package chain

import (
	"encoding/binary"
	"io"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/shellreserve/spvd/wire"
)

// BlockIndex is a persistent record of one header at a known height on the
// active chain. It is emitted by Chain only after validation: Height always
// equals parent.Height+1, and the parent's NextBlockHash is updated to this
// index's hash as part of the same atomic store write.
type BlockIndex struct {
	Header wire.BlockHeader
	Height int32

	// NextBlockHash is the hash of this index's child on the active
	// chain, or the zero hash if this is the tip.
	NextBlockHash chainhash.Hash
}

// Hash returns the hash identity of Header.
func (idx *BlockIndex) Hash() chainhash.Hash {
	return idx.Header.BlockHash()
}

// Equal reports whether idx and other describe the same header at the same
// height with the same forward link — used by Chain.Includes.
func (idx *BlockIndex) Equal(other *BlockIndex) bool {
	if idx == nil || other == nil {
		return idx == other
	}
	return idx.Height == other.Height &&
		idx.NextBlockHash == other.NextBlockHash &&
		idx.Hash() == other.Hash()
}

// Encode writes the canonical encoding of idx: the header, followed by
// height (int32 LE), followed by the next-block hash. This is the shape a
// durable Store persists as a key's value, and the one a BlockIndex decodes
// back into exactly.
func (idx *BlockIndex) Encode(w io.Writer) error {
	if err := idx.Header.Encode(w); err != nil {
		return err
	}

	var heightBuf [4]byte
	binary.LittleEndian.PutUint32(heightBuf[:], uint32(idx.Height))
	if _, err := w.Write(heightBuf[:]); err != nil {
		return err
	}

	_, err := w.Write(idx.NextBlockHash[:])
	return err
}

// Decode reads a BlockIndex previously written by Encode.
func (idx *BlockIndex) Decode(r io.Reader) error {
	if err := idx.Header.Decode(r); err != nil {
		return err
	}

	var heightBuf [4]byte
	if _, err := io.ReadFull(r, heightBuf[:]); err != nil {
		return err
	}
	idx.Height = int32(binary.LittleEndian.Uint32(heightBuf[:]))

	_, err := io.ReadFull(r, idx.NextBlockHash[:])
	return err
}
