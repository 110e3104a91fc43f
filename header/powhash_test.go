// Copyright (c) 2014-2026 The Myriadcoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .
package header

import "testing"

func TestDispatch_AllRecognizedAlgorithms(t *testing.T) {
	for _, a := range []Algorithm{SHA256D, Scrypt, Groestl, Skein, Qubit} {
		hasher, err := Dispatch(a)
		if err != nil {
			t.Fatalf("Dispatch(%s): %v", a, err)
		}
		if hasher == nil {
			t.Fatalf("Dispatch(%s) returned nil hasher", a)
		}
	}
}

func TestDispatch_UnknownAlgorithm(t *testing.T) {
	if _, err := Dispatch(Algorithm(9999)); err != ErrUnknownAlgorithm {
		t.Fatalf("want ErrUnknownAlgorithm, got %v", err)
	}
}

func TestHeader_PowHash_SHA256D(t *testing.T) {
	h := sampleHeader()
	h.Version = uint32(SHA256D)
	pow, err := h.PowHash()
	if err != nil {
		t.Fatal(err)
	}
	if pow != h.Hash() {
		t.Fatal("SHA256D PoW hash must equal the block hash")
	}
}

func TestHeader_PowHash_DeterministicPerAlgorithm(t *testing.T) {
	for _, a := range []Algorithm{SHA256D, Scrypt, Groestl, Skein, Qubit} {
		h := sampleHeader()
		h.Version = uint32(a)
		first, err := h.PowHash()
		if err != nil {
			t.Fatalf("%s: %v", a, err)
		}
		second, err := h.PowHash()
		if err != nil {
			t.Fatalf("%s: %v", a, err)
		}
		if first != second {
			t.Fatalf("%s: PoW hash not deterministic", a)
		}
		if first.IsZero() {
			t.Fatalf("%s: PoW hash unexpectedly zero", a)
		}
	}
}

func TestHeader_PowHash_UnknownAlgorithm(t *testing.T) {
	h := sampleHeader()
	h.Version = 9999
	if _, err := h.PowHash(); err != ErrUnknownAlgorithm {
		t.Fatalf("want ErrUnknownAlgorithm, got %v", err)
	}
}
