// Copyright (c) 2025 Shell Reserve developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package genesis builds the Shell Reserve genesis block header: the one
// header every chain store is seeded with, carrying a timestamp proof and
// a commitment to the network's constitution instead of a spendable
// coinbase output.
package genesis

import (
	"crypto/sha256"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/shellreserve/spvd/wire"
)

// ConstitutionText holds Shell Reserve's immutable constitutional
// principles. Its SHA-256 hash is committed into the genesis header so
// any SPV client can verify it is following the chain these principles
// describe, not a fork that has quietly changed them.
const ConstitutionText = `
Shell Reserve Constitutional Principles (Immutable)

1. Single Purpose: Store value securely for decades, nothing else
2. Political Neutrality: No privileged parties, no premine, pure fair launch
3. Institutional First: Designed for central banks and sovereign wealth funds
4. Generational Thinking: Built for 100-year operation, not quarterly profits
5. Boring by Design: Stability and predictability over innovation
6. Mathematical Security: Governed by consensus and cryptography, not committees
7. Reserve Asset Mandate: Digital gold that acts like gold - rare, boring, reliable

Launch Commitment: January 1, 2026, 00:00 UTC
No premine. No special allocations. No privileged parties.
Pure proof-of-work distribution from block zero.

"Built to last, not to impress."
`

// genesisTimestamp is 2026-01-01 00:00:00 UTC, the fair-launch moment the
// constitution commits to.
const genesisTimestamp uint32 = 1767225600

// genesisVersion is the header version genesis blocks are published at.
const genesisVersion uint32 = 1

// GetConstitutionHash returns the SHA-256 hash of ConstitutionText.
func GetConstitutionHash() [32]byte {
	return sha256.Sum256([]byte(ConstitutionText))
}

// genesisMessage reconstructs the commitment payload hashed into the
// genesis header's merkle root: an identifying phrase, the constitution
// commitment, and a newspaper-headline timestamp proof in the Satoshi
// tradition, attesting the block was not mined before the date it claims.
func genesisMessage() []byte {
	constitutionHash := GetConstitutionHash()

	msg := []byte("Shell Reserve Genesis Block - Fair Launch January 1, 2026")
	msg = append(msg, constitutionHash[:]...)
	msg = append(msg, []byte("FT 2025-12-31: Central Banks Accelerate Gold Buying as Dollar Weaponization Concerns Mount")...)
	return msg
}

// genesisSignerKey derives the deterministic, publicly-known key pair that
// signs the genesis header. There is no real signer quorum at genesis, so
// rather than leave Proof holding a bare hash, it holds a real Schnorr
// signature from a key whose private scalar is published here — a
// nothing-up-my-sleeve signer, standing in for the quorum that signs every
// later header.
func genesisSignerKey() *btcec.PrivateKey {
	seed := sha256.Sum256([]byte("Shell Reserve Genesis Signer - key burned at launch"))
	priv, _ := btcec.PrivKeyFromBytes(seed[:])
	return priv
}

// CreateShellGenesisHeader builds the Shell Reserve genesis header. There
// is no coinbase output to root a merkle tree on — genesis carries no
// premine and no transactions — so both merkle fields commit to the
// genesis message itself, and Proof carries a Schnorr signature over the
// constitution hash from the burned genesis signer key rather than a real
// aggregate signature, since genesis predates any signer quorum.
func CreateShellGenesisHeader() wire.BlockHeader {
	root := chainhash.HashH(genesisMessage())
	constitutionHash := GetConstitutionHash()

	sig, err := schnorr.Sign(genesisSignerKey(), constitutionHash[:])
	if err != nil {
		panic(fmt.Sprintf("genesis: signing constitution commitment: %v", err))
	}

	return wire.BlockHeader{
		Version:             genesisVersion,
		PrevBlock:           chainhash.Hash{},
		MerkleRoot:          root,
		ImmutableMerkleRoot: root,
		Timestamp:           genesisTimestamp,
		Proof:               sig.Serialize(),
	}
}

// ShellGenesisHash returns the hash of the Shell Reserve genesis header.
func ShellGenesisHash() chainhash.Hash {
	header := CreateShellGenesisHeader()
	return header.BlockHash()
}
