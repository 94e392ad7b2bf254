// Package spverr defines the unified error taxonomy shared by the codec,
// chain store, chain, peer, and driver packages. A session-level component
// never panics on an operational failure; it returns one of these instead.
package spverr

import "fmt"

// Kind classifies an Error.
type Kind int

const (
	// IO covers transport open/read/write failures.
	IO Kind = iota

	// Codec covers unrecoverable frame corruption: bad length, bad
	// checksum, or a payload that fails to parse.
	Codec

	// WrongMagicBytes means a peer sent a frame for a different network
	// than the one this session is configured for. Fatal to the session.
	WrongMagicBytes

	// MaliciousPeer covers protocol violations attributable to the
	// remote peer's behavior rather than to the wire itself. See Cause.
	MaliciousPeer

	// BlockValidation covers a header that failed chain validation. See
	// Cause. The header is not connected. HeaderSync does not pass this
	// error on: it fails the session with a MaliciousPeer error of cause
	// SendNonContinuousHeadersSequence instead.
	BlockValidation

	// Store covers a durable chain-store failure (disk full, corruption).
	// Typically fatal.
	Store

	// Channel covers internal send/receive failures between drivers and
	// the transport.
	Channel
)

func (k Kind) String() string {
	switch k {
	case IO:
		return "io"
	case Codec:
		return "codec"
	case WrongMagicBytes:
		return "wrong-magic-bytes"
	case MaliciousPeer:
		return "malicious-peer"
	case BlockValidation:
		return "block-validation"
	case Store:
		return "store"
	case Channel:
		return "channel"
	default:
		return "unknown"
	}
}

// Cause further classifies a MaliciousPeer or BlockValidation Error.
type Cause int

const (
	// CauseNone is used when Kind doesn't carry a more specific cause.
	CauseNone Cause = iota

	// SendOverMaxHeadersResults: a headers message exceeded the
	// configured per-message cap.
	SendOverMaxHeadersResults

	// SendNonContinuousHeadersSequence: a header inside a headers batch
	// failed chain validation, breaking the expected continuous sequence.
	SendNonContinuousHeadersSequence

	// CantConnectToTip: a header's prev hash does not match the current
	// tip's hash.
	CantConnectToTip

	// WrongBlockVersion: a header's version is not one this chain
	// accepts.
	WrongBlockVersion

	// BlockTimeTooOld: a header's time does not exceed median-time-past.
	BlockTimeTooOld

	// BlockTimeTooNew: a header's time is too far beyond the
	// network-adjusted present.
	BlockTimeTooNew
)

func (c Cause) String() string {
	switch c {
	case SendOverMaxHeadersResults:
		return "send-over-max-headers-results"
	case SendNonContinuousHeadersSequence:
		return "send-non-continuous-headers-sequence"
	case CantConnectToTip:
		return "cant-connect-to-tip"
	case WrongBlockVersion:
		return "wrong-block-version"
	case BlockTimeTooOld:
		return "block-time-too-old"
	case BlockTimeTooNew:
		return "block-time-too-new"
	default:
		return "none"
	}
}

// Error is the session-level error type every component unifies into.
type Error struct {
	Kind   Kind
	Cause  Cause
	PeerID uint64

	// Detail carries kind-specific context, e.g. the wrong/correct
	// version pair for WrongBlockVersion.
	Detail string

	// Err is the underlying error, if any (e.g. the io.Error that
	// triggered an IO-kind Error).
	Err error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == MaliciousPeer:
		return fmt.Sprintf("spverr: malicious peer %d: %s", e.PeerID, e.Cause)
	case e.Kind == BlockValidation:
		if e.Detail != "" {
			return fmt.Sprintf("spverr: block validation failed: %s (%s)", e.Cause, e.Detail)
		}
		return fmt.Sprintf("spverr: block validation failed: %s", e.Cause)
	case e.Err != nil:
		return fmt.Sprintf("spverr: %s: %v", e.Kind, e.Err)
	default:
		return fmt.Sprintf("spverr: %s", e.Kind)
	}
}

// Unwrap lets errors.Is/errors.As reach the underlying error.
func (e *Error) Unwrap() error { return e.Err }

// New builds a bare Error of the given kind, wrapping err if non-nil.
func New(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// NewMaliciousPeer builds a MaliciousPeer Error for the given peer and
// cause.
func NewMaliciousPeer(peerID uint64, cause Cause) *Error {
	return &Error{Kind: MaliciousPeer, Cause: cause, PeerID: peerID}
}

// NewBlockValidation builds a BlockValidation Error for the given cause and
// optional detail string.
func NewBlockValidation(cause Cause, detail string) *Error {
	return &Error{Kind: BlockValidation, Cause: cause, Detail: detail}
}
