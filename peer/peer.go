// Package peer wraps one framed TCP connection to a Shell Reserve node:
// the wire magic it speaks, a decode buffer, an outbound queue, and the
// bit of per-connection identity (id, remote address, negotiated version)
// the netsync drivers need to build protocol messages.
//
// Peer exposes poll semantics rather than open-ended blocking reads: Poll
// reads whatever bytes arrive on the socket within pollReadTimeout, decodes
// zero or more complete frames from them, and reports NotReady once that
// short wait passes with nothing to decode. It does not return at once on
// an idle socket; each such call waits out pollReadTimeout. This mirrors a
// single-threaded cooperative event loop (see package netsync), adapted
// to Go without an async runtime: the caller's event loop is expected to
// call Poll repeatedly and in between do whatever else it has to do.
package peer

import (
	"bytes"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/btcsuite/btclog"
	"github.com/shellreserve/spvd/chain"
	"github.com/shellreserve/spvd/spverr"
	"github.com/shellreserve/spvd/wire"
)

// log is the package-level logger, disabled until a caller supplies one.
var log btclog.Logger = btclog.Disabled

// UseLogger sets the package-wide logger used by Peer.
func UseLogger(logger btclog.Logger) {
	log = logger
}

// readChunkSize is how much is read from the socket per non-blocking Poll
// call. A header-sync peer's largest frame, a 2000-header headers message,
// is at least 2000*106 bytes and so spans several chunks; partial frames
// stay in readBuf until the rest arrives.
const readChunkSize = 64 * 1024

// Peer is one framed connection to a remote node.
type Peer struct {
	ID      uint64
	Addr    net.Addr
	Network wire.BitcoinNet

	conn net.Conn

	readBuf  bytes.Buffer
	scratch  [readChunkSize]byte
	outbound []wire.Message

	Version *wire.MsgVersion
}

// Dial connects to addr and returns a Peer ready to begin its handshake.
// There is no discovery or connection pooling here: Dial connects to
// exactly the address it is given.
func Dial(id uint64, addr string, network wire.BitcoinNet, timeout time.Duration) (*Peer, error) {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, spverr.New(spverr.IO, fmt.Errorf("peer: dial %s: %w", addr, err))
	}
	return New(id, conn, network), nil
}

// New wraps an already-established connection as a Peer.
func New(id uint64, conn net.Conn, network wire.BitcoinNet) *Peer {
	return &Peer{
		ID:      id,
		Addr:    conn.RemoteAddr(),
		Network: network,
		conn:    conn,
	}
}

// Send queues message for delivery on the next Flush. It never blocks.
func (p *Peer) Send(msg wire.Message) {
	p.outbound = append(p.outbound, msg)
}

// Flush writes every queued outbound message to the socket.
func (p *Peer) Flush() error {
	for len(p.outbound) > 0 {
		msg := p.outbound[0]
		if log.Level() <= btclog.LevelTrace {
			log.Tracef("peer %d: sending %s", p.ID, msg.Command())
		}
		if err := wire.WriteMessage(p.conn, msg, p.Network); err != nil {
			return spverr.New(spverr.IO, fmt.Errorf("peer %d: write %s: %w", p.ID, msg.Command(), err))
		}
		p.outbound = p.outbound[1:]
	}
	return nil
}

// SendGetHeaders queues a getheaders message built from the chain's
// current locator, stopping at the zero hash (request as many headers as
// the peer is willing to send in one batch).
func (p *Peer) SendGetHeaders(active *chain.Chain) error {
	locator, err := active.Locator()
	if err != nil {
		return err
	}
	p.Send(&wire.MsgGetHeaders{
		ProtocolVersion:    wire.ProtocolVersion,
		BlockLocatorHashes: locator,
	})
	return nil
}

// PollResult is one decoded message, a signal that the peer's stream has
// nothing more ready right now, or a signal that the stream has ended.
// NotReady and EndOfStream are mutually exclusive and both imply Msg is
// nil: NotReady means "call Poll again later", EndOfStream means "this
// peer will never produce another message."
type PollResult struct {
	Msg         wire.Message
	NotReady    bool
	EndOfStream bool
}

// pollReadTimeout bounds how long a single Poll call may wait on the
// socket for more data before giving up and reporting NotReady, so an
// event loop calling Poll in a cycle is never blocked indefinitely by a
// quiet peer.
const pollReadTimeout = 50 * time.Millisecond

// Poll performs one read of whatever becomes available on the socket
// within pollReadTimeout, decodes as many complete frames as it can, and
// returns them one at a time across repeated calls.
func (p *Peer) Poll() (PollResult, error) {
	if msg, ok, err := p.decodeBuffered(); err != nil || ok {
		return PollResult{Msg: msg}, err
	}

	if err := p.conn.SetReadDeadline(time.Now().Add(pollReadTimeout)); err != nil {
		return PollResult{}, spverr.New(spverr.IO, fmt.Errorf("peer %d: set read deadline: %w", p.ID, err))
	}

	n, err := p.conn.Read(p.scratch[:])
	if n > 0 {
		p.readBuf.Write(p.scratch[:n])
	}
	if err != nil {
		if isTimeout(err) {
			return PollResult{NotReady: true}, nil
		}
		if err == io.EOF {
			return PollResult{EndOfStream: true}, nil
		}
		return PollResult{}, spverr.New(spverr.IO, fmt.Errorf("peer %d: read: %w", p.ID, err))
	}

	if msg, ok, decErr := p.decodeBuffered(); decErr != nil || ok {
		return PollResult{Msg: msg}, decErr
	}
	return PollResult{NotReady: true}, nil
}

// decodeBuffered attempts to decode exactly one frame out of readBuf,
// skipping any unrecognized-command frames along the way, and treats a
// magic mismatch as a session-fatal error.
func (p *Peer) decodeBuffered() (wire.Message, bool, error) {
	for {
		if p.readBuf.Len() == 0 {
			return nil, false, nil
		}

		result, err := wire.DecodeMessage(p.readBuf.Bytes(), p.Network)
		if err != nil {
			if _, ok := err.(*wire.MagicMismatchError); ok {
				return nil, false, spverr.New(spverr.WrongMagicBytes, err)
			}
			return nil, false, spverr.New(spverr.Codec, err)
		}
		if result.NeedMoreData {
			return nil, false, nil
		}

		p.readBuf.Next(result.Consumed)

		if result.Msg == nil {
			// Unrecognized command: skipped, keep decoding.
			continue
		}
		return result.Msg, true, nil
	}
}

func isTimeout(err error) bool {
	ne, ok := err.(net.Error)
	return ok && ne.Timeout()
}

// Close tears down the underlying connection.
func (p *Peer) Close() error {
	return p.conn.Close()
}
