// Copyright (c) 2014-2026 The Myriadcoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

// Package chain implements the consensus-facing half of the header
// subsystem: the per-algorithm retarget engine, the chain/chunk
// verifier built on it, and the sync worker that drives both against
// untrusted peers.
package chain

import "errors"

// ErrLinkBroken signals that a header's PrevBlockHash does not match
// the hash of the header that should precede it. In tip-extend this
// triggers the reorg walk; in chunk verification it is a hard
// rejection of the chunk.
var ErrLinkBroken = errors.New("chain: prev_block_hash does not link to predecessor")

// ErrBitsMismatch signals that a header's declared Bits field does
// not match what the retarget engine computed for its height.
var ErrBitsMismatch = errors.New("chain: bits field does not match retarget computation")

// ErrPoWInsufficient signals that a header's proof-of-work hash is
// not strictly less than its height's target.
var ErrPoWInsufficient = errors.New("chain: proof-of-work hash does not meet target")

// ErrPeerProtocol signals that a peer's response carried an error
// field or was otherwise malformed. The caller should skip the
// response (and usually the peer) rather than treat it as a
// consensus failure.
var ErrPeerProtocol = errors.New("chain: peer response malformed or carried an error")

// ErrIndexUnavailable signals that the algo index could not be
// queried during retarget computation. Chunk-mode retarget falls
// back to reading the chunk buffer directly; tip-extend mode has no
// fallback and must surface the error.
var ErrIndexUnavailable = errors.New("chain: algo index query failed")

// ErrEmptyChain is returned by VerifyChain for a zero-length chain;
// an empty chain is never a valid announcement.
var ErrEmptyChain = errors.New("chain: empty chain")
