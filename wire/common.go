package wire

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// binaryOrder is the byte order used for every integer field on the wire.
var binaryOrder = binary.LittleEndian

// maxVarBytesLen bounds a single VarBytes/VarString read to guard against a
// corrupt or hostile length prefix forcing a huge allocation.
const maxVarBytesLen = 32 * 1024 * 1024

func readElement(r io.Reader, element interface{}) error {
	switch e := element.(type) {
	case *uint32:
		var buf [4]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return err
		}
		*e = binaryOrder.Uint32(buf[:])
		return nil
	case *int32:
		var buf [4]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return err
		}
		*e = int32(binaryOrder.Uint32(buf[:]))
		return nil
	case *uint64:
		var buf [8]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return err
		}
		*e = binaryOrder.Uint64(buf[:])
		return nil
	case *int64:
		var buf [8]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return err
		}
		*e = int64(binaryOrder.Uint64(buf[:]))
		return nil
	case *chainhash.Hash:
		_, err := io.ReadFull(r, e[:])
		return err
	default:
		return fmt.Errorf("wire: readElement called on unhandled type %T", element)
	}
}

func writeElement(w io.Writer, element interface{}) error {
	switch e := element.(type) {
	case uint32:
		var buf [4]byte
		binaryOrder.PutUint32(buf[:], e)
		_, err := w.Write(buf[:])
		return err
	case int32:
		var buf [4]byte
		binaryOrder.PutUint32(buf[:], uint32(e))
		_, err := w.Write(buf[:])
		return err
	case uint64:
		var buf [8]byte
		binaryOrder.PutUint64(buf[:], e)
		_, err := w.Write(buf[:])
		return err
	case int64:
		var buf [8]byte
		binaryOrder.PutUint64(buf[:], uint64(e))
		_, err := w.Write(buf[:])
		return err
	case chainhash.Hash:
		_, err := w.Write(e[:])
		return err
	default:
		return fmt.Errorf("wire: writeElement called on unhandled type %T", element)
	}
}

// VarInt prefixes, following the base protocol's compact-size encoding:
// single byte for values below 0xfd, else a marker byte plus a fixed-width
// field.
const (
	varIntMarker16 = 0xfd
	varIntMarker32 = 0xfe
	varIntMarker64 = 0xff
)

// VarIntSerializeSize returns the number of bytes it would take to encode n
// as a VarInt.
func VarIntSerializeSize(n uint64) int {
	switch {
	case n < varIntMarker16:
		return 1
	case n <= 0xffff:
		return 3
	case n <= 0xffffffff:
		return 5
	default:
		return 9
	}
}

// ReadVarInt reads a variable length integer from r.
func ReadVarInt(r io.Reader) (uint64, error) {
	var prefix [1]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return 0, err
	}

	switch prefix[0] {
	case varIntMarker64:
		var buf [8]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, err
		}
		return binaryOrder.Uint64(buf[:]), nil
	case varIntMarker32:
		var buf [4]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, err
		}
		return uint64(binaryOrder.Uint32(buf[:])), nil
	case varIntMarker16:
		var buf [2]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, err
		}
		return uint64(binaryOrder.Uint16(buf[:])), nil
	default:
		return uint64(prefix[0]), nil
	}
}

// WriteVarInt writes n to w as a variable length integer.
func WriteVarInt(w io.Writer, n uint64) error {
	switch {
	case n < varIntMarker16:
		_, err := w.Write([]byte{byte(n)})
		return err
	case n <= 0xffff:
		buf := [3]byte{varIntMarker16}
		binaryOrder.PutUint16(buf[1:], uint16(n))
		_, err := w.Write(buf[:])
		return err
	case n <= 0xffffffff:
		buf := [5]byte{varIntMarker32}
		binaryOrder.PutUint32(buf[1:], uint32(n))
		_, err := w.Write(buf[:])
		return err
	default:
		buf := [9]byte{varIntMarker64}
		binaryOrder.PutUint64(buf[1:], n)
		_, err := w.Write(buf[:])
		return err
	}
}

// ReadVarBytes reads a VarInt-length-prefixed byte slice from r.
func ReadVarBytes(r io.Reader) ([]byte, error) {
	n, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	if n > maxVarBytesLen {
		return nil, fmt.Errorf("wire: VarBytes length %d exceeds max %d", n, maxVarBytesLen)
	}

	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// WriteVarBytes writes b to w prefixed with its length as a VarInt.
func WriteVarBytes(w io.Writer, b []byte) error {
	if err := WriteVarInt(w, uint64(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

// ReadVarString reads a VarInt-length-prefixed ASCII string from r.
func ReadVarString(r io.Reader) (string, error) {
	b, err := ReadVarBytes(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// WriteVarString writes s to w prefixed with its length as a VarInt.
func WriteVarString(w io.Writer, s string) error {
	return WriteVarBytes(w, []byte(s))
}
