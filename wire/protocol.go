// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package wire implements the Shell Reserve peer-to-peer header-sync wire
// protocol: message framing, checksums, and the handful of message types an
// SPV client needs to authenticate with a peer and download block headers.
package wire

import "fmt"

// ProtocolVersion is the protocol version this package speaks.
const ProtocolVersion uint32 = 70016

// CommandSize is the fixed length, in bytes, of a command string within a
// message header.
const CommandSize = 12

// MaxBlockHeadersPerMsg caps the number of headers that may legitimately
// appear in a single headers message before a peer is considered malicious.
const MaxBlockHeadersPerMsg = 2000

// Command strings recognized by this package. Any other command decodes as
// an unrecognized (skipped) message.
const (
	CmdVersion     = "version"
	CmdVerAck      = "verack"
	CmdPing        = "ping"
	CmdPong        = "pong"
	CmdGetHeaders  = "getheaders"
	CmdHeaders     = "headers"
)

// ServiceFlag identifies services supported by a peer, advertised in its
// version message.
type ServiceFlag uint64

// HasFlag reports whether f has every bit set in s.
func (f ServiceFlag) HasFlag(s ServiceFlag) bool {
	return f&s == s
}

// BitcoinNet identifies the network a message frame belongs to, carried as
// the wire magic.
type BitcoinNet uint32

// Network magics. Shell Reserve defines its own three; the upstream Bitcoin
// magics are kept only so error messages can name a foreign network a
// misconfigured peer might be speaking.
const (
	BitcoinMainNet BitcoinNet = 0xd9b4bef9

	// ShellMainNet is the magic for the production Shell Reserve network.
	ShellMainNet BitcoinNet = 0x58534c4d // "XSLM"

	// ShellTestNet is the magic for the public Shell Reserve test network.
	ShellTestNet BitcoinNet = 0x58534c54 // "XSLT"

	// ShellRegTest is the magic for local regression testing.
	ShellRegTest BitcoinNet = 0x58534c52 // "XSLR"
)

var netNames = map[BitcoinNet]string{
	BitcoinMainNet: "BitcoinMainNet",
	ShellMainNet:   "ShellMainNet",
	ShellTestNet:   "ShellTestNet",
	ShellRegTest:   "ShellRegTest",
}

// String returns the BitcoinNet in human-readable form.
func (n BitcoinNet) String() string {
	if s, ok := netNames[n]; ok {
		return s
	}
	return fmt.Sprintf("unknown network (0x%08x)", uint32(n))
}
