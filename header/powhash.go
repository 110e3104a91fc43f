// Copyright (c) 2014-2026 The Myriadcoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

package header

import (
	"errors"

	"golang.org/x/crypto/scrypt"

	"github.com/myriadcoin/electrum-headerchain/hash32"
)

// PowHasher computes the proof-of-work digest of a serialized header
// for one algorithm. It is injected into the verifier as a capability
// rather than hard-coded so tests can substitute a trivial or failing
// hasher, and so a future sixth algorithm needs only a new
// implementation and a Dispatch case, not a rewrite of the verifier.
type PowHasher interface {
	Hash(serializedHeader []byte) (hash32.T, error)
}

// ErrUnknownAlgorithm is returned by Dispatch when a header's version
// field does not name one of the five recognized PoW algorithms.
var ErrUnknownAlgorithm = errors.New("header: unknown proof-of-work algorithm")

type sha256dHasher struct{}

func (sha256dHasher) Hash(serialized []byte) (hash32.T, error) {
	return shaD(serialized), nil
}

type scryptHasher struct{}

// scrypt parameters match the values mined against by the original
// Myriadcoin scrypt algorithm: N=1024, r=1, p=1, 32-byte output.
func (scryptHasher) Hash(serialized []byte) (hash32.T, error) {
	digest, err := scrypt.Key(serialized, serialized, 1024, 1, 1, 32)
	if err != nil {
		return hash32.Nil, err
	}
	return hash32.Reverse(hash32.FromSlice(digest)), nil
}

// Dispatch returns the PowHasher for the algorithm a header's version
// field names, or ErrUnknownAlgorithm if it names none of the five.
func Dispatch(a Algorithm) (PowHasher, error) {
	switch a {
	case SHA256D:
		return sha256dHasher{}, nil
	case Scrypt:
		return scryptHasher{}, nil
	case Groestl:
		return groestlHasher{}, nil
	case Skein:
		return skeinHasher{}, nil
	case Qubit:
		return qubitHasher{}, nil
	default:
		return nil, ErrUnknownAlgorithm
	}
}

// PowHash computes the header's proof-of-work digest using the
// algorithm its version field declares.
func (h *Header) PowHash() (hash32.T, error) {
	hasher, err := Dispatch(h.Algo())
	if err != nil {
		return hash32.Nil, err
	}
	ser, err := h.MarshalBinary()
	if err != nil {
		return hash32.Nil, err
	}
	return hasher.Hash(ser)
}
