// Package netsync drives a Peer through the protocol exchanges needed to
// bring it into sync with the active chain: the version/verack handshake
// (handshake.go) followed by repeated header-download rounds
// (headersync.go). Both drivers use the same poll-based shape as
// peer.Peer.Poll: a driver's Poll method performs whatever non-blocking
// work is available and returns either a completed result or a signal
// that it has nothing more to do until the caller polls again.
package netsync

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"github.com/btcsuite/btclog"
	"github.com/shellreserve/spvd/chainutil/walltime"
	"github.com/shellreserve/spvd/peer"
	"github.com/shellreserve/spvd/spverr"
	"github.com/shellreserve/spvd/wire"
)

// log is the package-level logger, disabled until a caller supplies one.
var log btclog.Logger = btclog.Disabled

// UseLogger sets the package-wide logger used by the netsync drivers.
func UseLogger(logger btclog.Logger) {
	log = logger
}

// userAgent identifies this client in outgoing version messages.
const userAgent = "/spvd:0.1.0/"

// Handshake drives one Peer through the version/verack exchange. It holds
// no reference to the chain: the version message's reported start height
// is always zero, since an SPV client's local height is not meaningful to
// a full node's peer selection.
type Handshake struct {
	p *peer.Peer

	sentVersion     bool
	receivedVersion bool
	receivedVerAck  bool

	done bool
}

// NewHandshake returns a driver that will bring p through the handshake
// once polled.
func NewHandshake(p *peer.Peer) *Handshake {
	return &Handshake{p: p}
}

// Poll advances the handshake as far as currently possible. ok is true
// once the handshake has completed and p is ready for header sync.
func (h *Handshake) Poll() (ok bool, err error) {
	if h.done {
		return true, nil
	}

	if !h.sentVersion {
		h.p.Send(versionMessage())
		h.sentVersion = true
	}

	for {
		result, err := h.p.Poll()
		if err != nil {
			return false, err
		}
		if result.EndOfStream {
			return false, spverr.New(spverr.IO, fmt.Errorf("peer %d: connection closed mid-handshake", h.p.ID))
		}
		if result.NotReady || result.Msg == nil {
			break
		}

		switch m := result.Msg.(type) {
		case *wire.MsgVersion:
			h.p.Version = m
			h.p.Send(&wire.MsgVerAck{})
			h.receivedVersion = true
		case *wire.MsgVerAck:
			h.receivedVerAck = true
		default:
			// Ignore anything else during the handshake.
		}
	}

	if err := h.p.Flush(); err != nil {
		return false, err
	}

	h.done = h.sentVersion && h.receivedVersion && h.receivedVerAck
	if h.done && log.Level() <= btclog.LevelTrace {
		log.Tracef("peer %d: handshake complete", h.p.ID)
	}
	return h.done, nil
}

func versionMessage() *wire.MsgVersion {
	blank := wire.NetAddress{}
	return &wire.MsgVersion{
		ProtocolVersion: wire.ProtocolVersion,
		Services:        0,
		Timestamp:       int64(walltime.Now()),
		AddrRecv:        blank,
		AddrFrom:        blank,
		Nonce:           randomNonce(),
		UserAgent:       userAgent,
		StartHeight:     0,
	}
}

// randomNonce returns a cryptographically random 64-bit nonce for the
// version message, used by the remote peer to detect self-connections.
func randomNonce() uint64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		panic(fmt.Sprintf("netsync: reading random nonce: %v", err))
	}
	return binary.LittleEndian.Uint64(buf[:])
}
