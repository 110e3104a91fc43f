// Copyright (c) 2014-2026 The Myriadcoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

package header

import (
	"encoding/binary"
	"math/bits"

	"github.com/myriadcoin/electrum-headerchain/hash32"
)

// skeinHasher implements Skein-256-256: the Threefish-256 tweakable
// block cipher driven through Skein's Unique Block Iteration (UBI)
// chaining mode. Like Groestl, no maintained Go package implements
// it; see the grounding ledger.
type skeinHasher struct{}

func (skeinHasher) Hash(serialized []byte) (hash32.T, error) {
	digest := skein256(serialized)
	return hash32.Reverse(hash32.FromSlice(digest[:])), nil
}

const (
	skeinTypeCfg = 4
	skeinTypeMsg = 48
	skeinTypeOut = 63
)

var threefishRotations = [8][2]uint{
	{14, 16}, {52, 57}, {23, 40}, {5, 37},
	{25, 33}, {46, 12}, {58, 22}, {32, 32},
}

const threefishParity = 0x1BD11BDAA9FC1A22
const threefishRounds = 72

func threefish256Encrypt(key [4]uint64, t0, t1 uint64, plaintext [4]uint64) [4]uint64 {
	ks := [5]uint64{key[0], key[1], key[2], key[3], threefishParity ^ key[0] ^ key[1] ^ key[2] ^ key[3]}
	ts := [3]uint64{t0, t1, t0 ^ t1}

	x := plaintext
	addSubkey := func(s int) {
		x[0] += ks[s%5]
		x[1] += ks[(s+1)%5] + ts[s%3]
		x[2] += ks[(s+2)%5] + ts[(s+1)%3]
		x[3] += ks[(s+3)%5] + uint64(s)
	}

	for d := 0; d < threefishRounds; d++ {
		if d%4 == 0 {
			addSubkey(d / 4)
		}
		r := threefishRotations[d%8]
		x[0] += x[1]
		x[1] = bits.RotateLeft64(x[1], int(r[0]))
		x[1] ^= x[0]
		x[2] += x[3]
		x[3] = bits.RotateLeft64(x[3], int(r[1]))
		x[3] ^= x[2]
		x[1], x[3] = x[3], x[1]
	}
	addSubkey(threefishRounds / 4)
	return x
}

func bytesToWords32(b []byte) [4]uint64 {
	var block [32]byte
	copy(block[:], b)
	var w [4]uint64
	for i := 0; i < 4; i++ {
		w[i] = binary.LittleEndian.Uint64(block[i*8:])
	}
	return w
}

func wordsToBytes32(w [4]uint64) [32]byte {
	var out [32]byte
	for i := 0; i < 4; i++ {
		binary.LittleEndian.PutUint64(out[i*8:], w[i])
	}
	return out
}

func skeinTweak(position uint64, typ uint64, first, last bool) (uint64, uint64) {
	t1 := typ << 56
	if first {
		t1 |= 1 << 62
	}
	if last {
		t1 |= 1 << 63
	}
	return position, t1
}

// ubi runs one Unique Block Iteration step: Threefish-encrypt block
// under key/tweak, then feed forward (XOR the plaintext back in).
func ubi(key [4]uint64, t0, t1 uint64, block []byte) [4]uint64 {
	pt := bytesToWords32(block)
	ct := threefish256Encrypt(key, t0, t1, pt)
	var out [4]uint64
	for i := range out {
		out[i] = ct[i] ^ pt[i]
	}
	return out
}

func skein256(msg []byte) [32]byte {
	// Configuration block: schema "SHA3", version 1, 256-bit output.
	var cfg [32]byte
	binary.LittleEndian.PutUint32(cfg[0:], 0x33414853)
	binary.LittleEndian.PutUint16(cfg[4:], 1)
	binary.LittleEndian.PutUint64(cfg[8:], 256)

	var zero [4]uint64
	t0, t1 := skeinTweak(32, skeinTypeCfg, true, true)
	state := ubi(zero, t0, t1, cfg[:])

	// Message UBI: process in 32-byte blocks, final block flagged.
	if len(msg) == 0 {
		t0, t1 = skeinTweak(0, skeinTypeMsg, true, true)
		state = ubi(state, t0, t1, nil)
	} else {
		processed := uint64(0)
		for off := 0; off < len(msg); off += 32 {
			end := off + 32
			last := end >= len(msg)
			if last {
				end = len(msg)
			}
			processed += uint64(end - off)
			t0, t1 = skeinTweak(processed, skeinTypeMsg, off == 0, last)
			state = ubi(state, t0, t1, msg[off:end])
		}
	}

	// Output UBI: one counter block (value 0), full state as digest.
	var counter [32]byte
	t0, t1 = skeinTweak(8, skeinTypeOut, true, true)
	out := ubi(state, t0, t1, counter[:])
	return wordsToBytes32(out)
}
