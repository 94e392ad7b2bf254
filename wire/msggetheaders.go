package wire

import (
	"io"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// MsgGetHeaders requests headers starting after the first hash in
// BlockLocatorHashes that the remote peer has on its active chain, up to
// StopHash (the zero hash means "until you run out").
type MsgGetHeaders struct {
	ProtocolVersion    uint32
	BlockLocatorHashes []chainhash.Hash
	StopHash           chainhash.Hash
}

// Command implements Message.
func (m *MsgGetHeaders) Command() string { return CmdGetHeaders }

// Encode implements Message.
func (m *MsgGetHeaders) Encode(w io.Writer) error {
	if err := writeElement(w, m.ProtocolVersion); err != nil {
		return err
	}
	if err := WriteVarInt(w, uint64(len(m.BlockLocatorHashes))); err != nil {
		return err
	}
	for _, hash := range m.BlockLocatorHashes {
		if err := writeElement(w, hash); err != nil {
			return err
		}
	}
	return writeElement(w, m.StopHash)
}

// Decode implements Message.
func (m *MsgGetHeaders) Decode(r io.Reader) error {
	if err := readElement(r, &m.ProtocolVersion); err != nil {
		return err
	}

	count, err := ReadVarInt(r)
	if err != nil {
		return err
	}

	// Guard against an allocation large enough to be a denial-of-service
	// on its own, mirroring MsgHeaders.Decode's bound on its own count.
	if count > maxPayloadSize/chainhash.HashSize {
		return errTooManyLocatorHashes
	}

	m.BlockLocatorHashes = make([]chainhash.Hash, count)
	for i := range m.BlockLocatorHashes {
		if err := readElement(r, &m.BlockLocatorHashes[i]); err != nil {
			return err
		}
	}

	return readElement(r, &m.StopHash)
}

var errTooManyLocatorHashes = locatorCountError{}

type locatorCountError struct{}

func (locatorCountError) Error() string {
	return "wire: getheaders message claims more locator hashes than fit in the max payload"
}
