package wire

import "io"

// NetAddress represents one network endpoint as carried inside a version
// message: no timestamp field, per the version-message address encoding of
// the base protocol (as opposed to the addr message's timestamped variant,
// which this client never sends or parses).
type NetAddress struct {
	Services ServiceFlag
	IP       [16]byte
	Port     uint16
}

func (na *NetAddress) encode(w io.Writer) error {
	if err := writeElement(w, uint64(na.Services)); err != nil {
		return err
	}
	if _, err := w.Write(na.IP[:]); err != nil {
		return err
	}

	var portBuf [2]byte
	binaryOrder.PutUint16(portBuf[:], na.Port)
	_, err := w.Write(portBuf[:])
	return err
}

func (na *NetAddress) decode(r io.Reader) error {
	var services uint64
	if err := readElement(r, &services); err != nil {
		return err
	}
	na.Services = ServiceFlag(services)

	if _, err := io.ReadFull(r, na.IP[:]); err != nil {
		return err
	}

	var portBuf [2]byte
	if _, err := io.ReadFull(r, portBuf[:]); err != nil {
		return err
	}
	na.Port = binaryOrder.Uint16(portBuf[:])
	return nil
}
