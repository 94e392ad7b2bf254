// Package blockstore provides the two chain.Store implementations: an
// in-memory slice and a durable goleveldb-backed store using three
// byte-prefixed key spaces.
package blockstore

import (
	"encoding/binary"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// Key-space prefixes for the durable store. Each is one byte, chosen so the
// three spaces never collide regardless of key length.
const (
	prefixEntry  byte = 0x01 // block hash -> serialized BlockIndex
	prefixHeight byte = 0x02 // big-endian height -> block hash
	prefixTip    byte = 0x03 // (no suffix) -> tip block hash
)

func entryKey(hash chainhash.Hash) []byte {
	key := make([]byte, 1+chainhash.HashSize)
	key[0] = prefixEntry
	copy(key[1:], hash[:])
	return key
}

func heightKey(height int32) []byte {
	key := make([]byte, 1+4)
	key[0] = prefixHeight
	binary.BigEndian.PutUint32(key[1:], uint32(height))
	return key
}

func tipKey() []byte {
	return []byte{prefixTip}
}
