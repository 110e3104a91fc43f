// Copyright (c) 2014-2026 The Myriadcoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

// Package header implements the 80-byte Myriadcoin block header: its
// binary codec, its double-SHA256 block hash, and the algorithm tag
// carried in the version field that the PoW dispatcher reads.
package header

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/myriadcoin/electrum-headerchain/hash32"
	"github.com/myriadcoin/electrum-headerchain/header/internal/bytestring"
)

// Size is the wire length of a serialized header, in bytes.
const Size = 80

// Algorithm identifies one of Myriadcoin's proof-of-work functions.
// Its numeric value is the header's version field itself, not an
// index: the chain fixes these five values and nothing else.
type Algorithm uint32

const (
	SHA256D Algorithm = 2
	Scrypt  Algorithm = 514
	Groestl Algorithm = 1026
	Skein   Algorithm = 1538
	Qubit   Algorithm = 2050
)

func (a Algorithm) String() string {
	switch a {
	case SHA256D:
		return "sha256d"
	case Scrypt:
		return "scrypt"
	case Groestl:
		return "groestl"
	case Skein:
		return "skein"
	case Qubit:
		return "qubit"
	default:
		return fmt.Sprintf("unknown(%d)", uint32(a))
	}
}

// Recognized reports whether a names one of the five PoW algorithms
// this subsystem knows how to hash and verify.
func (a Algorithm) Recognized() bool {
	switch a {
	case SHA256D, Scrypt, Groestl, Skein, Qubit:
		return true
	default:
		return false
	}
}

// Header is the in-memory, display-order form of a Myriadcoin block
// header. PrevBlockHash and MerkleRoot are kept in display order
// (the reverse of their wire encoding) so they compare and print the
// same way the rest of the chain tooling shows them. BlockHeight is
// not part of the 80-byte wire format: it is attached by whatever
// delivered the header, a peer announcement or a chunk's position.
type Header struct {
	Version       uint32
	PrevBlockHash hash32.T
	MerkleRoot    hash32.T
	Timestamp     uint32
	Bits          uint32
	Nonce         uint32
	BlockHeight   int

	cachedHash hash32.T
}

// Algo returns the header's declared PoW algorithm tag.
func (h *Header) Algo() Algorithm {
	return Algorithm(h.Version)
}

// MarshalBinary returns the 80-byte wire encoding of the header:
// little-endian version, prev-hash and merkle root byte-reversed back
// to wire order, little-endian timestamp/bits/nonce.
func (h *Header) MarshalBinary() ([]byte, error) {
	out := make([]byte, 0, Size)
	out = appendUint32LE(out, h.Version)
	out = append(out, hash32.ReverseSlice(h.PrevBlockHash[:])...)
	out = append(out, hash32.ReverseSlice(h.MerkleRoot[:])...)
	out = appendUint32LE(out, h.Timestamp)
	out = appendUint32LE(out, h.Bits)
	out = appendUint32LE(out, h.Nonce)
	return out, nil
}

func appendUint32LE(b []byte, v uint32) []byte {
	return append(b, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

// ErrShortHeader is returned when fewer than Size bytes are available
// to decode a header from.
var ErrShortHeader = errors.New("header: short read, fewer than 80 bytes")

// ParseFromSlice decodes a Header from the front of in, which must
// hold at least Size bytes, and returns whatever bytes follow it.
func ParseFromSlice(in []byte) (*Header, []byte, error) {
	s := bytestring.String(in)
	h := &Header{}

	if !s.ReadUint32(&h.Version) {
		return nil, in, ErrShortHeader
	}

	var b32 []byte
	if !s.ReadBytes(&b32, 32) {
		return nil, in, ErrShortHeader
	}
	h.PrevBlockHash = hash32.FromSlice(hash32.ReverseSlice(b32))

	if !s.ReadBytes(&b32, 32) {
		return nil, in, ErrShortHeader
	}
	h.MerkleRoot = hash32.FromSlice(hash32.ReverseSlice(b32))

	if !s.ReadUint32(&h.Timestamp) {
		return nil, in, ErrShortHeader
	}
	if !s.ReadUint32(&h.Bits) {
		return nil, in, ErrShortHeader
	}
	if !s.ReadUint32(&h.Nonce) {
		return nil, in, ErrShortHeader
	}

	return h, []byte(s), nil
}

// Decode is a convenience wrapper over ParseFromSlice for exactly
// Size bytes: the common case of reading one fixed-width record out
// of the header file or a chunk buffer.
func Decode(b []byte) (*Header, error) {
	if len(b) != Size {
		return nil, ErrShortHeader
	}
	h, rest, err := ParseFromSlice(b)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, errors.New("header: trailing bytes after decode")
	}
	return h, nil
}

// Hash returns the header's SHA-256d block hash in display order,
// computing it once and caching the result. The cache is never
// invalidated: a serialized field changed after the first call leaves
// Hash returning the earlier value.
func (h *Header) Hash() hash32.T {
	if h.cachedHash != hash32.Nil {
		return h.cachedHash
	}
	ser, err := h.MarshalBinary()
	if err != nil {
		return hash32.Nil
	}
	h.cachedHash = shaD(ser)
	return h.cachedHash
}

// shaD computes SHA256(SHA256(b)) and returns the digest in display
// (reversed) order, matching Bitcoin-family block hashing.
func shaD(b []byte) hash32.T {
	first := sha256.Sum256(b)
	second := sha256.Sum256(first[:])
	return hash32.Reverse(hash32.T(second))
}

func (h *Header) String() string {
	return fmt.Sprintf("%s height=%d algo=%s bits=%08x", hex.EncodeToString(hash32.ToSlice(h.Hash())), h.BlockHeight, h.Algo(), h.Bits)
}

// Equals compares two headers by their serialized form, ignoring the
// non-serialized BlockHeight attribute.
func (h *Header) Equals(other *Header) bool {
	if h == nil || other == nil {
		return h == other
	}
	a, err1 := h.MarshalBinary()
	b, err2 := other.MarshalBinary()
	if err1 != nil || err2 != nil {
		return false
	}
	return string(a) == string(b)
}
