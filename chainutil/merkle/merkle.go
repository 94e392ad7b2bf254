// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package merkle builds merkle roots over leaf hashes. An SPV client never
// needs to build or verify a merkle tree for real traffic — it treats a
// header's merkle roots as opaque — but test code needs a way to construct
// plausible-looking roots for synthetic multi-leaf headers, and this is
// that.
package merkle

import (
	"io"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// HashMerkleBranches returns the hash of the concatenation of left and
// right, the standard merkle tree node combination.
func HashMerkleBranches(left, right chainhash.Hash) chainhash.Hash {
	var buf [chainhash.HashSize * 2]byte
	copy(buf[:chainhash.HashSize], left[:])
	copy(buf[chainhash.HashSize:], right[:])

	return chainhash.DoubleHashRaw(func(w io.Writer) error {
		_, err := w.Write(buf[:])
		return err
	})
}

// Root folds leaves pairwise up to a single root hash, duplicating the
// final leaf of any odd-sized level as Bitcoin-derived merkle trees do.
// An empty input returns the zero hash; a single leaf returns itself.
func Root(leaves []chainhash.Hash) chainhash.Hash {
	if len(leaves) == 0 {
		return chainhash.Hash{}
	}

	level := make([]chainhash.Hash, len(leaves))
	copy(level, leaves)

	for len(level) > 1 {
		if len(level)%2 != 0 {
			level = append(level, level[len(level)-1])
		}

		next := make([]chainhash.Hash, len(level)/2)
		for i := range next {
			next[i] = HashMerkleBranches(level[2*i], level[2*i+1])
		}
		level = next
	}

	return level[0]
}
