package netsync

import (
	"fmt"

	"github.com/btcsuite/btclog"
	"github.com/shellreserve/spvd/chain"
	"github.com/shellreserve/spvd/peer"
	"github.com/shellreserve/spvd/spverr"
	"github.com/shellreserve/spvd/wire"
)

// MaxHeadersResults is the default cap on how many headers a single
// headers message may legitimately carry, matching wire.MaxBlockHeadersPerMsg.
// HeaderSync's constructor can override it, primarily so tests can drive
// the multi-round-trip behavior with a small cap.
const MaxHeadersResults = wire.MaxBlockHeadersPerMsg

// HeaderSync drives one Peer through repeated getheaders/headers rounds
// until the peer reports a batch smaller than its cap, meaning it has
// caught the local chain up to the peer's tip (at the time of the
// request).
type HeaderSync struct {
	p      *peer.Peer
	active *chain.Chain

	cap int

	started bool
	done    bool
}

// NewHeaderSync returns a driver that downloads headers from p onto
// active, enforcing at most cap headers per batch.
func NewHeaderSync(p *peer.Peer, active *chain.Chain, cap int) *HeaderSync {
	if cap <= 0 {
		cap = MaxHeadersResults
	}
	return &HeaderSync{p: p, active: active, cap: cap}
}

// Poll advances header sync as far as currently possible. ok is true once
// the peer has returned a batch smaller than the cap, meaning sync has
// caught up to that peer's reported tip.
func (d *HeaderSync) Poll() (ok bool, err error) {
	if d.done {
		return true, nil
	}

	if !d.started {
		if err := d.p.SendGetHeaders(d.active); err != nil {
			return false, err
		}
		d.started = true
	}

	for {
		result, err := d.p.Poll()
		if err != nil {
			return false, err
		}
		if result.EndOfStream {
			return false, spverr.New(spverr.IO, fmt.Errorf("peer %d: connection closed mid-sync", d.p.ID))
		}
		if result.NotReady || result.Msg == nil {
			break
		}

		headers, ok := result.Msg.(*wire.MsgHeaders)
		if !ok {
			continue // ignore anything that isn't a headers message
		}

		caughtUp, err := d.processHeaders(headers)
		if err != nil {
			return false, err
		}
		d.done = caughtUp
	}

	if err := d.p.Flush(); err != nil {
		return false, err
	}

	return d.done, nil
}

// processHeaders validates and connects one headers batch, requesting the
// next batch if the peer might have more to offer. It returns true once
// the batch size falls below the cap, signaling the peer has no more
// headers queued for this round of sync.
//
// A header that fails chain validation fails the whole driver as a
// malicious peer rather than being silently skipped: Shell Reserve's
// header chain is strictly linear, so a bad header partway through a
// batch means either the peer is lying about its chain or the batch
// itself is out of order, and either way nothing past that point in the
// batch can be trusted.
func (d *HeaderSync) processHeaders(msg *wire.MsgHeaders) (caughtUp bool, err error) {
	if len(msg.Headers) > d.cap {
		return false, spverr.NewMaliciousPeer(d.p.ID, spverr.SendOverMaxHeadersResults)
	}

	caughtUp = len(msg.Headers) < d.cap

	for _, lh := range msg.Headers {
		if err := d.active.ConnectBlockHeader(lh.Header); err != nil {
			return false, spverr.NewMaliciousPeer(d.p.ID, spverr.SendNonContinuousHeadersSequence)
		}
	}

	if log.Level() <= btclog.LevelTrace {
		height, _ := d.active.Height()
		log.Tracef("peer %d: connected %d headers, height now %d", d.p.ID, len(msg.Headers), height)
	}

	if !caughtUp {
		if err := d.p.SendGetHeaders(d.active); err != nil {
			return false, err
		}
	}

	return caughtUp, nil
}
