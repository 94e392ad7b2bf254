package wire

import "io"

// MsgVersion is the first message a session sends: protocol version,
// advertised services, the two endpoint addresses, a random nonce, an agent
// string, and the sender's claimed chain height.
type MsgVersion struct {
	ProtocolVersion uint32
	Services        ServiceFlag
	Timestamp       int64
	AddrRecv        NetAddress
	AddrFrom        NetAddress
	Nonce           uint64
	UserAgent       string
	StartHeight     int32
}

// Command implements Message.
func (m *MsgVersion) Command() string { return CmdVersion }

// Encode implements Message.
func (m *MsgVersion) Encode(w io.Writer) error {
	if err := writeElement(w, m.ProtocolVersion); err != nil {
		return err
	}
	if err := writeElement(w, uint64(m.Services)); err != nil {
		return err
	}
	if err := writeElement(w, m.Timestamp); err != nil {
		return err
	}
	if err := m.AddrRecv.encode(w); err != nil {
		return err
	}
	if err := m.AddrFrom.encode(w); err != nil {
		return err
	}
	if err := writeElement(w, m.Nonce); err != nil {
		return err
	}
	if err := WriteVarString(w, m.UserAgent); err != nil {
		return err
	}
	return writeElement(w, m.StartHeight)
}

// Decode implements Message.
func (m *MsgVersion) Decode(r io.Reader) error {
	if err := readElement(r, &m.ProtocolVersion); err != nil {
		return err
	}
	var services uint64
	if err := readElement(r, &services); err != nil {
		return err
	}
	m.Services = ServiceFlag(services)

	if err := readElement(r, &m.Timestamp); err != nil {
		return err
	}
	if err := m.AddrRecv.decode(r); err != nil {
		return err
	}
	if err := m.AddrFrom.decode(r); err != nil {
		return err
	}
	if err := readElement(r, &m.Nonce); err != nil {
		return err
	}

	agent, err := ReadVarString(r)
	if err != nil {
		return err
	}
	m.UserAgent = agent

	return readElement(r, &m.StartHeight)
}
