package netsync_test

import (
	"errors"
	"net"
	"testing"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/shellreserve/spvd/blockstore"
	"github.com/shellreserve/spvd/chain"
	"github.com/shellreserve/spvd/netsync"
	"github.com/shellreserve/spvd/peer"
	"github.com/shellreserve/spvd/spverr"
	"github.com/shellreserve/spvd/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBaseTime uint32 = 1700000000

func testGenesisHeader() wire.BlockHeader {
	return wire.BlockHeader{Version: 1, Timestamp: testBaseTime, MerkleRoot: chainhash.Hash{0xaa}}
}

// buildRemoteChain returns n headers extending genesis, one second apart,
// indexed so remoteChain[i] is the header at height i+1.
func buildRemoteChain(genesis wire.BlockHeader, n int) []wire.BlockHeader {
	headers := make([]wire.BlockHeader, n)
	prevHash := genesis.BlockHash()
	ts := genesis.Timestamp
	for i := 0; i < n; i++ {
		ts++
		h := wire.BlockHeader{
			Version:    1,
			PrevBlock:  prevHash,
			MerkleRoot: chainhash.Hash{byte(i + 1), byte((i + 1) >> 8)},
			Timestamp:  ts,
		}
		headers[i] = h
		prevHash = h.BlockHash()
	}
	return headers
}

func runUntil(t *testing.T, name string, poll func() (bool, error), timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		ok, err := poll()
		require.NoError(t, err, name)
		if ok {
			return
		}
	}
	t.Fatalf("%s: did not complete within %s", name, timeout)
}

func TestHandshakeCompletesOverPipe(t *testing.T) {
	connA, connB := net.Pipe()
	t.Cleanup(func() { connA.Close(); connB.Close() })

	peerA := peer.New(1, connA, wire.ShellMainNet)
	peerB := peer.New(2, connB, wire.ShellMainNet)

	hsA := netsync.NewHandshake(peerA)
	hsB := netsync.NewHandshake(peerB)

	doneA := make(chan error, 1)
	doneB := make(chan error, 1)

	go func() {
		runFn := func() (bool, error) { return hsA.Poll() }
		deadline := time.Now().Add(5 * time.Second)
		for time.Now().Before(deadline) {
			ok, err := runFn()
			if err != nil {
				doneA <- err
				return
			}
			if ok {
				doneA <- nil
				return
			}
		}
		doneA <- errors.New("handshake A did not complete")
	}()

	go func() {
		runFn := func() (bool, error) { return hsB.Poll() }
		deadline := time.Now().Add(5 * time.Second)
		for time.Now().Before(deadline) {
			ok, err := runFn()
			if err != nil {
				doneB <- err
				return
			}
			if ok {
				doneB <- nil
				return
			}
		}
		doneB <- errors.New("handshake B did not complete")
	}()

	require.NoError(t, <-doneA)
	require.NoError(t, <-doneB)

	assert.NotNil(t, peerA.Version)
	assert.NotNil(t, peerB.Version)
	assert.Equal(t, "/spvd:0.1.0/", peerA.Version.UserAgent)
}

// runRemoteServer answers getheaders requests from a local client with
// batches of at most cap headers, drawn from remote. It exits once stop is
// closed or the connection errors.
func runRemoteServer(p *peer.Peer, genesis wire.BlockHeader, remote []wire.BlockHeader, cap int, stop <-chan struct{}, errCh chan<- error) {
	byHash := map[chainhash.Hash]int{genesis.BlockHash(): 0}
	for i, h := range remote {
		byHash[h.BlockHash()] = i + 1
	}

	for {
		select {
		case <-stop:
			errCh <- nil
			return
		default:
		}

		result, err := p.Poll()
		if err != nil {
			errCh <- err
			return
		}
		if result.NotReady || result.Msg == nil {
			continue
		}

		req, ok := result.Msg.(*wire.MsgGetHeaders)
		if !ok || len(req.BlockLocatorHashes) == 0 {
			continue
		}

		height, known := byHash[req.BlockLocatorHashes[0]]
		if !known {
			errCh <- errors.New("remote server: unknown locator hash")
			return
		}

		end := height + cap
		if end > len(remote) {
			end = len(remote)
		}
		var batch []*wire.LoneBlockHeader
		for _, h := range remote[height:end] {
			batch = append(batch, &wire.LoneBlockHeader{Header: h, TxCount: 0})
		}

		p.Send(&wire.MsgHeaders{Headers: batch})
		if err := p.Flush(); err != nil {
			errCh <- err
			return
		}
	}
}

func TestHeaderSyncDownloadsInBatches(t *testing.T) {
	genesis := testGenesisHeader()
	remote := buildRemoteChain(genesis, 23)

	connClient, connServer := net.Pipe()
	t.Cleanup(func() { connClient.Close(); connServer.Close() })

	clientPeer := peer.New(1, connClient, wire.ShellMainNet)
	serverPeer := peer.New(2, connServer, wire.ShellMainNet)

	store := blockstore.NewMemory()
	active, err := chain.New(store, genesis)
	require.NoError(t, err)

	const capPerBatch = 10
	sync := netsync.NewHeaderSync(clientPeer, active, capPerBatch)

	stop := make(chan struct{})
	serverErr := make(chan error, 1)
	go runRemoteServer(serverPeer, genesis, remote, capPerBatch, stop, serverErr)
	t.Cleanup(func() { close(stop) })

	runUntil(t, "header sync", sync.Poll, 5*time.Second)

	height, err := active.Height()
	require.NoError(t, err)
	assert.Equal(t, int32(len(remote)), height)

	tip, err := active.Tip()
	require.NoError(t, err)
	assert.Equal(t, remote[len(remote)-1].BlockHash(), tip.Hash())
}

func TestHeaderSyncRejectsOverCapBatch(t *testing.T) {
	genesis := testGenesisHeader()
	remote := buildRemoteChain(genesis, 5)

	connClient, connServer := net.Pipe()
	t.Cleanup(func() { connClient.Close(); connServer.Close() })

	clientPeer := peer.New(1, connClient, wire.ShellMainNet)
	serverPeer := peer.New(2, connServer, wire.ShellMainNet)

	store := blockstore.NewMemory()
	active, err := chain.New(store, genesis)
	require.NoError(t, err)

	const capPerBatch = 3
	sync := netsync.NewHeaderSync(clientPeer, active, capPerBatch)

	// The server below ignores the client's cap and always answers with
	// every remaining header, which exceeds capPerBatch.
	stop := make(chan struct{})
	serverErr := make(chan error, 1)
	go runRemoteServer(serverPeer, genesis, remote, len(remote), stop, serverErr)
	t.Cleanup(func() { close(stop) })

	deadline := time.Now().Add(5 * time.Second)
	var pollErr error
	for time.Now().Before(deadline) {
		_, pollErr = sync.Poll()
		if pollErr != nil {
			break
		}
	}

	require.Error(t, pollErr)
	var sErr *spverr.Error
	require.ErrorAs(t, pollErr, &sErr)
	assert.Equal(t, spverr.MaliciousPeer, sErr.Kind)
	assert.Equal(t, spverr.SendOverMaxHeadersResults, sErr.Cause)
}

// TestHandshakeFailsOnWrongMagic drives Handshake.Poll against a remote
// that writes a well-formed frame for a different network. The mismatch
// must surface as a session-fatal spverr.WrongMagicBytes error rather than
// ever reaching the handshake's message switch.
func TestHandshakeFailsOnWrongMagic(t *testing.T) {
	connClient, connServer := net.Pipe()
	t.Cleanup(func() { connClient.Close(); connServer.Close() })

	clientPeer := peer.New(1, connClient, wire.ShellMainNet)
	hs := netsync.NewHandshake(clientPeer)

	serverErr := make(chan error, 1)
	go func() {
		// Written under ShellTestNet's magic while the client peer is
		// configured for ShellMainNet.
		serverErr <- wire.WriteMessage(connServer, &wire.MsgVerAck{}, wire.ShellTestNet)
	}()

	deadline := time.Now().Add(5 * time.Second)
	var pollErr error
	for time.Now().Before(deadline) {
		_, pollErr = hs.Poll()
		if pollErr != nil {
			break
		}
	}
	require.NoError(t, <-serverErr)

	require.Error(t, pollErr)
	var sErr *spverr.Error
	require.ErrorAs(t, pollErr, &sErr)
	assert.Equal(t, spverr.WrongMagicBytes, sErr.Kind)
}

// TestHeaderSyncFailsOnEndOfStream drives HeaderSync.Poll against a peer
// whose connection is closed mid-sync, confirming the driver reports a
// session-fatal error instead of busy-looping forever against a dead
// socket.
func TestHeaderSyncFailsOnEndOfStream(t *testing.T) {
	genesis := testGenesisHeader()

	connClient, connServer := net.Pipe()
	t.Cleanup(func() { connClient.Close() })

	clientPeer := peer.New(1, connClient, wire.ShellMainNet)

	store := blockstore.NewMemory()
	active, err := chain.New(store, genesis)
	require.NoError(t, err)

	sync := netsync.NewHeaderSync(clientPeer, active, 10)

	// Close the remote end immediately so the client's next read sees EOF
	// instead of a genuine lull.
	require.NoError(t, connServer.Close())

	deadline := time.Now().Add(5 * time.Second)
	var pollErr error
	for time.Now().Before(deadline) {
		_, pollErr = sync.Poll()
		if pollErr != nil {
			break
		}
	}

	require.Error(t, pollErr)
	var sErr *spverr.Error
	require.ErrorAs(t, pollErr, &sErr)
	assert.Equal(t, spverr.IO, sErr.Kind)
}
