package wire

import (
	"bytes"
	"fmt"
	"io"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// Message is implemented by every message type this package recognizes.
type Message interface {
	// Command returns the message's wire command string.
	Command() string

	// Encode writes the message's payload (not the frame) to w.
	Encode(w io.Writer) error

	// Decode reads the message's payload (not the frame) from r.
	Decode(r io.Reader) error
}

const (
	// checksumSize is the number of leading bytes of double-SHA256(payload)
	// carried in the frame.
	checksumSize = 4

	// headerSize is the total size of a frame header: magic + command +
	// length + checksum.
	headerSize = 4 + CommandSize + 4 + checksumSize

	// maxPayloadSize bounds how large a single message payload may claim to
	// be before the frame is rejected outright as corrupt.
	maxPayloadSize = 32 * 1024 * 1024
)

func checksum(payload []byte) [checksumSize]byte {
	h := chainhash.DoubleHashB(payload)
	var sum [checksumSize]byte
	copy(sum[:], h[:checksumSize])
	return sum
}

func encodeCommand(cmd string) ([CommandSize]byte, error) {
	var buf [CommandSize]byte
	if len(cmd) > CommandSize {
		return buf, fmt.Errorf("wire: command %q exceeds %d bytes", cmd, CommandSize)
	}
	copy(buf[:], cmd)
	return buf, nil
}

func decodeCommand(buf [CommandSize]byte) string {
	end := CommandSize
	for end > 0 && buf[end-1] == 0 {
		end--
	}
	return string(buf[:end])
}

// makeEmptyMessage returns a new, zero-valued message for the given command,
// or ok=false if the command is not one this package decodes.
func makeEmptyMessage(command string) (msg Message, ok bool) {
	switch command {
	case CmdVersion:
		return &MsgVersion{}, true
	case CmdVerAck:
		return &MsgVerAck{}, true
	case CmdPing:
		return &MsgPing{}, true
	case CmdPong:
		return &MsgPong{}, true
	case CmdGetHeaders:
		return &MsgGetHeaders{}, true
	case CmdHeaders:
		return &MsgHeaders{}, true
	default:
		return nil, false
	}
}

// WriteMessage serializes msg under the given network magic and writes the
// complete frame (header + payload) to w.
func WriteMessage(w io.Writer, msg Message, net BitcoinNet) error {
	var payloadBuf bytes.Buffer
	if err := msg.Encode(&payloadBuf); err != nil {
		return err
	}
	payload := payloadBuf.Bytes()

	if len(payload) > maxPayloadSize {
		return fmt.Errorf("wire: message payload of %d bytes exceeds max %d", len(payload), maxPayloadSize)
	}

	cmdBuf, err := encodeCommand(msg.Command())
	if err != nil {
		return err
	}

	var hdr bytes.Buffer
	hdr.Grow(headerSize)
	if err := writeElement(&hdr, uint32(net)); err != nil {
		return err
	}
	if _, err := hdr.Write(cmdBuf[:]); err != nil {
		return err
	}
	if err := writeElement(&hdr, uint32(len(payload))); err != nil {
		return err
	}
	sum := checksum(payload)
	if _, err := hdr.Write(sum[:]); err != nil {
		return err
	}
	if _, err := hdr.Write(payload); err != nil {
		return err
	}

	_, err = w.Write(hdr.Bytes())
	return err
}

// EncodeMessage serializes msg's complete frame into buf and returns the
// number of bytes written. It writes as much as fits into buf and never
// panics on overflow; callers should check the returned count against
// len(buf) (or cap) to detect truncation.
func EncodeMessage(buf []byte, msg Message, net BitcoinNet) (int, error) {
	var full bytes.Buffer
	if err := WriteMessage(&full, msg, net); err != nil {
		return 0, err
	}
	return copy(buf, full.Bytes()), nil
}

// frameHeader is the parsed, not-yet-validated fixed portion of a frame.
type frameHeader struct {
	magic    BitcoinNet
	command  string
	length   uint32
	checksum [checksumSize]byte
}

// DecodeResult describes the outcome of attempting to decode one frame from
// a buffer.
type DecodeResult struct {
	// Msg is the decoded message, or nil if NeedMoreData is true or the
	// frame carried an unrecognized command (which is skipped, not
	// surfaced).
	Msg Message

	// Consumed is the number of leading bytes of the input buffer this
	// frame occupied. It is always accurate, even when Msg is nil because
	// the command was unrecognized — callers must still advance by this
	// many bytes.
	Consumed int

	// NeedMoreData indicates the buffer holds less than one complete
	// frame; Consumed is 0 and Msg is nil in this case.
	NeedMoreData bool
}

// DecodeMessage consumes the longest prefix of buf that forms one complete
// frame. If buf holds a partial frame, it reports NeedMoreData without
// consuming anything. If the frame names a command this package does not
// recognize, the whole frame is skipped (Consumed advances past it) and Msg
// is nil — this is not an error, since a newer peer sending a message this
// client doesn't understand must not terminate the session. A length above
// maxPayloadSize, a bad checksum, or a payload that fails to parse returns
// an error.
func DecodeMessage(buf []byte, net BitcoinNet) (DecodeResult, error) {
	if len(buf) < headerSize {
		return DecodeResult{NeedMoreData: true}, nil
	}

	r := bytes.NewReader(buf)
	hdr, err := readFrameHeader(r)
	if err != nil {
		return DecodeResult{}, err
	}
	if hdr.length > maxPayloadSize {
		return DecodeResult{}, fmt.Errorf("wire: frame for command %q claims %d-byte payload, max %d", hdr.command, hdr.length, maxPayloadSize)
	}

	total := headerSize + int(hdr.length)
	if len(buf) < total {
		return DecodeResult{NeedMoreData: true}, nil
	}

	payload := buf[headerSize:total]

	if hdr.magic != net {
		return DecodeResult{}, &MagicMismatchError{Got: hdr.magic, Want: net}
	}

	gotSum := checksum(payload)
	if gotSum != hdr.checksum {
		return DecodeResult{}, fmt.Errorf("wire: checksum mismatch for command %q", hdr.command)
	}

	msg, ok := makeEmptyMessage(hdr.command)
	if !ok {
		// Unrecognized command: skip the frame, but do not fail the
		// stream — a newer peer may legitimately send messages we don't
		// know about.
		return DecodeResult{Consumed: total}, nil
	}

	if err := msg.Decode(bytes.NewReader(payload)); err != nil {
		return DecodeResult{}, fmt.Errorf("wire: decoding %q payload: %w", hdr.command, err)
	}

	return DecodeResult{Msg: msg, Consumed: total}, nil
}

func readFrameHeader(r io.Reader) (frameHeader, error) {
	var hdr frameHeader

	var magic uint32
	if err := readElement(r, &magic); err != nil {
		return hdr, err
	}
	hdr.magic = BitcoinNet(magic)

	var cmdBuf [CommandSize]byte
	if _, err := io.ReadFull(r, cmdBuf[:]); err != nil {
		return hdr, err
	}
	hdr.command = decodeCommand(cmdBuf)

	var length uint32
	if err := readElement(r, &length); err != nil {
		return hdr, err
	}
	hdr.length = length

	if _, err := io.ReadFull(r, hdr.checksum[:]); err != nil {
		return hdr, err
	}

	return hdr, nil
}

// MagicMismatchError is returned by DecodeMessage when a frame's magic does
// not match the network the caller configured.
type MagicMismatchError struct {
	Got  BitcoinNet
	Want BitcoinNet
}

func (e *MagicMismatchError) Error() string {
	return fmt.Sprintf("wire: wrong network magic: got %s, want %s", e.Got, e.Want)
}
