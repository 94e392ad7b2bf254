package wire

import "io"

// MsgVerAck acknowledges a received version message. It carries no payload.
type MsgVerAck struct{}

// Command implements Message.
func (m *MsgVerAck) Command() string { return CmdVerAck }

// Encode implements Message.
func (m *MsgVerAck) Encode(w io.Writer) error { return nil }

// Decode implements Message.
func (m *MsgVerAck) Decode(r io.Reader) error { return nil }
