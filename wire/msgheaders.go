package wire

import "io"

// LoneBlockHeader pairs a header with the (always zero, for this protocol)
// transaction count that follows it on the wire — headers messages never
// carry transaction bodies, but the count field is part of the frame.
type LoneBlockHeader struct {
	Header  BlockHeader
	TxCount uint64
}

// MsgHeaders carries a batch of headers, the response to a getheaders
// request.
type MsgHeaders struct {
	Headers []*LoneBlockHeader
}

// Command implements Message.
func (m *MsgHeaders) Command() string { return CmdHeaders }

// Encode implements Message.
func (m *MsgHeaders) Encode(w io.Writer) error {
	if err := WriteVarInt(w, uint64(len(m.Headers))); err != nil {
		return err
	}
	for _, lh := range m.Headers {
		if err := lh.Header.Encode(w); err != nil {
			return err
		}
		if err := WriteVarInt(w, lh.TxCount); err != nil {
			return err
		}
	}
	return nil
}

// Decode implements Message.
func (m *MsgHeaders) Decode(r io.Reader) error {
	count, err := ReadVarInt(r)
	if err != nil {
		return err
	}

	// A peer claiming an absurd header count is handled by the caller
	// (netsync enforces MaxBlockHeadersPerMsg); here we only guard against
	// an allocation large enough to be a denial-of-service on its own.
	if count > maxPayloadSize/HeaderFixedSize {
		return errTooManyHeaders
	}

	m.Headers = make([]*LoneBlockHeader, count)
	for i := range m.Headers {
		lh := &LoneBlockHeader{}
		if err := lh.Header.Decode(r); err != nil {
			return err
		}
		txCount, err := ReadVarInt(r)
		if err != nil {
			return err
		}
		lh.TxCount = txCount
		m.Headers[i] = lh
	}
	return nil
}

var errTooManyHeaders = headersCountError{}

type headersCountError struct{}

func (headersCountError) Error() string {
	return "wire: headers message claims more headers than fit in the max payload"
}
