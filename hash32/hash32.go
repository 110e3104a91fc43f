// Copyright (c) 2014-2026 The Myriadcoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

// Package hash32 provides a fixed-size 32-byte hash type shared by the
// header codec, the PoW dispatcher and the chain verifier.
package hash32

import (
	"encoding/hex"
	"errors"
	"math/big"
)

// T holds any 32-byte hash: a block hash, a PoW digest, or a merkle
// root. Values are passed and returned by value, like an integer.
type T [32]byte

// Nil represents an unset hash. A hash of all zeros is considered
// impossible in practice, so it doubles as a sentinel.
var Nil = T{}

// FromSlice converts a slice to a hash32. If the slice is too long, the
// return is only the first 32 bytes; if too short, the remainder is
// zeros. Callers that decode fixed-width wire fields should already
// have exactly 32 bytes.
func FromSlice(arg []byte) T {
	var t T
	copy(t[:], arg)
	return t
}

// ToSlice converts a hash32 to a byte slice backed by new storage.
func ToSlice(arg T) []byte {
	out := make([]byte, 32)
	copy(out, arg[:])
	return out
}

// Reverse returns a new hash with the byte order reversed. Header
// fields are carried on the wire in little-endian order; this flips a
// hash to display/compare order, or back.
func Reverse(arg T) T {
	var r T
	for i := 0; i < 32; i++ {
		r[i] = arg[32-1-i]
	}
	return r
}

func ReverseSlice(arg []byte) []byte {
	return ToSlice(Reverse(FromSlice(arg)))
}

// Decode parses a hex string (display order) into a hash32.
func Decode(s string) (T, error) {
	r := T{}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return r, err
	}
	if len(raw) != 32 {
		return r, errors.New("hash32: decoded length is not 32 bytes")
	}
	return FromSlice(raw), nil
}

// Encode renders a hash32 as a hex string in the byte order given.
func Encode(arg T) string {
	return hex.EncodeToString(ToSlice(arg))
}

// Big interprets the hash as an unsigned 256-bit big-endian integer.
// Used to compare a PoW digest against a retarget target: both values
// are display-order (big-endian) 32-byte hashes, and the consensus
// rule is a plain unsigned integer comparison.
func (h T) Big() *big.Int {
	return new(big.Int).SetBytes(h[:])
}

// Less reports whether h, read as an unsigned big-endian integer, is
// strictly less than other. This is the PoW acceptance test: a header
// is valid iff its PoW hash is Less than the height's target.
func (h T) Less(other *big.Int) bool {
	return h.Big().Cmp(other) < 0
}

func (h T) IsZero() bool {
	return h == Nil
}
