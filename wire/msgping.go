package wire

import "io"

// MsgPing carries a nonce a peer is expected to echo back in a pong.
type MsgPing struct {
	Nonce uint64
}

// Command implements Message.
func (m *MsgPing) Command() string { return CmdPing }

// Encode implements Message.
func (m *MsgPing) Encode(w io.Writer) error { return writeElement(w, m.Nonce) }

// Decode implements Message.
func (m *MsgPing) Decode(r io.Reader) error { return readElement(r, &m.Nonce) }

// MsgPong echoes the nonce from a received ping.
type MsgPong struct {
	Nonce uint64
}

// Command implements Message.
func (m *MsgPong) Command() string { return CmdPong }

// Encode implements Message.
func (m *MsgPong) Encode(w io.Writer) error { return writeElement(w, m.Nonce) }

// Decode implements Message.
func (m *MsgPong) Decode(r io.Reader) error { return readElement(r, &m.Nonce) }
