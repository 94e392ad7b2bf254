package wire

import (
	"bytes"
	"io"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// HeaderFixedSize is the length, in bytes, of the portion of a BlockHeader
// that participates in its hash identity: version, prev hash, merkle root,
// immutable merkle root, and time. The variable-length proof is excluded —
// on Shell Reserve, as on the Tapyrus chain it descends from, the aggregate
// signature proof is attached to a header whose hash is already fixed, so
// including it in the hash would make the hash depend on who has signed so
// far.
const HeaderFixedSize = 4 + chainhash.HashSize*3 + 4

// BlockHeader is the chain's native header. Everything beyond the fields
// below is opaque to this client: it never inspects or validates Proof.
type BlockHeader struct {
	// Version is the block version, used to signal soft-fork deployments.
	Version uint32

	// PrevBlock is the hash of the parent block's header.
	PrevBlock chainhash.Hash

	// MerkleRoot commits to the block's transactions.
	MerkleRoot chainhash.Hash

	// ImmutableMerkleRoot commits to the portion of the block that cannot
	// change once signed, independent of MerkleRoot.
	ImmutableMerkleRoot chainhash.Hash

	// Timestamp is the block's claimed creation time, seconds since epoch.
	Timestamp uint32

	// Proof is the aggregate-signature block proof. Opaque: this client
	// neither constructs nor verifies it.
	Proof []byte
}

// BlockHash returns the double-SHA256 hash identity of the header, computed
// over the fixed-size fields only (see HeaderFixedSize).
func (h *BlockHeader) BlockHash() chainhash.Hash {
	var buf bytes.Buffer
	buf.Grow(HeaderFixedSize)
	_ = h.encodeFixed(&buf)
	return chainhash.DoubleHashH(buf.Bytes())
}

func (h *BlockHeader) encodeFixed(w io.Writer) error {
	if err := writeElement(w, h.Version); err != nil {
		return err
	}
	if err := writeElement(w, h.PrevBlock); err != nil {
		return err
	}
	if err := writeElement(w, h.MerkleRoot); err != nil {
		return err
	}
	if err := writeElement(w, h.ImmutableMerkleRoot); err != nil {
		return err
	}
	return writeElement(w, h.Timestamp)
}

// Encode writes the canonical wire encoding of the header, including its
// variable-length proof, to w.
func (h *BlockHeader) Encode(w io.Writer) error {
	if err := h.encodeFixed(w); err != nil {
		return err
	}
	return WriteVarBytes(w, h.Proof)
}

// Decode reads a header, including its variable-length proof, from r.
func (h *BlockHeader) Decode(r io.Reader) error {
	if err := readElement(r, &h.Version); err != nil {
		return err
	}
	if err := readElement(r, &h.PrevBlock); err != nil {
		return err
	}
	if err := readElement(r, &h.MerkleRoot); err != nil {
		return err
	}
	if err := readElement(r, &h.ImmutableMerkleRoot); err != nil {
		return err
	}
	if err := readElement(r, &h.Timestamp); err != nil {
		return err
	}

	proof, err := ReadVarBytes(r)
	if err != nil {
		return err
	}
	h.Proof = proof
	return nil
}

// SerializeSize returns the number of bytes Encode would write.
func (h *BlockHeader) SerializeSize() int {
	return HeaderFixedSize + VarIntSerializeSize(uint64(len(h.Proof))) + len(h.Proof)
}
