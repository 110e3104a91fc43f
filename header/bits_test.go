// Copyright (c) 2014-2026 The Myriadcoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .
package header

import (
	"math/big"
	"testing"
)

func TestBitsToTarget_Genesis(t *testing.T) {
	target := BitsToTarget(GenesisBits)
	if target.Cmp(MaxTarget) != 0 {
		t.Fatalf("genesis bits target = %x, want MaxTarget %x", target, MaxTarget)
	}
}

func TestBitsToTarget_MantissaShiftUp(t *testing.T) {
	// a = 0x7fff, below the 0x8000 threshold, must be multiplied by 256
	// (to 0x7fff00) before scaling by the exponent.
	bits := uint32(5)*compactSizeUnit + 0x7fff
	target := BitsToTarget(bits)
	want := new(big.Int).Lsh(big.NewInt(0x7fff00), 8*uint(5-3))
	if target.Cmp(want) != 0 {
		t.Fatalf("target = %x, want %x", target, want)
	}
}

func TestBitsToTarget_NoShiftUp(t *testing.T) {
	// a = 0x8000 sits exactly on the threshold and must not be shifted up.
	bits := uint32(5)*compactSizeUnit + 0x8000
	target := BitsToTarget(bits)
	want := new(big.Int).Lsh(big.NewInt(0x8000), 8*uint(5-3))
	if target.Cmp(want) != 0 {
		t.Fatalf("target = %x, want %x", target, want)
	}
}

func TestBitsTargetRoundTrip(t *testing.T) {
	for _, bits := range []uint32{
		GenesisBits,
		0x1b00c317,
		0x1c0ffff0,
		0x04123456,
	} {
		target := BitsToTarget(bits)
		got := TargetToBits(target)
		if got != bits {
			t.Errorf("round trip: bits=%08x -> target=%x -> bits=%08x", bits, target, got)
		}
	}
}

func TestTargetToBits_ClampedToMax(t *testing.T) {
	if got := TargetToBits(MaxTarget); got != GenesisBits {
		t.Fatalf("TargetToBits(MaxTarget) = %08x, want %08x", got, GenesisBits)
	}
}
