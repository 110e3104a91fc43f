// Copyright (c) 2014-2026 The Myriadcoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

package header

import "math/big"

// GenesisBits is the compact-encoded difficulty of the Myriadcoin
// genesis block, returned whenever the retarget engine has nothing
// else to go on.
const GenesisBits uint32 = 0x1e0fffff

// MaxTarget is the loosest target the chain will ever accept, the
// ceiling every retarget computation clamps against.
var MaxTarget, _ = new(big.Int).SetString("00000FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFF", 16)

// compactSizeUnit is the base of the compact bits encoding: the
// exponent byte scales the three-byte mantissa by a power of 256.
const compactSizeUnit uint32 = 0x1000000

// BitsToTarget expands a compact "bits" difficulty encoding into the
// full 256-bit target it represents. This mirrors the original
// Electrum-Myriad client's bit-for-bit, including its mantissa
// shift-up rule (a mantissa below 0x8000 is multiplied by 256; this is
// not the 0x00800000 sign-bit test a standard Bitcoin compact decoder
// would use) — headers produced and
// accepted by the real network were mined against this exact
// arithmetic, so a "more correct" decoder would reject valid chains.
func BitsToTarget(bits uint32) *big.Int {
	a := bits % compactSizeUnit
	if a < 0x8000 {
		a *= 256
	}
	exponent := int(bits/compactSizeUnit) - 3

	target := new(big.Int).SetUint64(uint64(a))
	switch {
	case exponent > 0:
		target.Lsh(target, uint(8*exponent))
	case exponent < 0:
		target.Rsh(target, uint(8*-exponent))
	}
	return target
}

// TargetToBits packs a 256-bit target back into its compact "bits"
// encoding, the inverse of BitsToTarget. Used by the retarget engine
// to produce the bits field of the next difficulty adjustment.
func TargetToBits(target *big.Int) uint32 {
	buf := make([]byte, 32)
	tb := target.Bytes()
	if len(tb) > 32 {
		tb = tb[len(tb)-32:]
	}
	copy(buf[32-len(tb):], tb)

	// The leading byte is always zero for any target bounded by
	// MaxTarget; drop it the way the reference packer does before
	// counting significant bytes.
	rem := buf[1:]
	size := 31
	for len(rem) > 0 && rem[0] == 0 {
		rem = rem[1:]
		size--
	}

	mantissaBytes := make([]byte, 3)
	copy(mantissaBytes, rem)
	mantissa := uint32(mantissaBytes[0])<<16 | uint32(mantissaBytes[1])<<8 | uint32(mantissaBytes[2])
	if mantissa >= 0x800000 {
		mantissa /= 256
		size++
	}
	return mantissa + uint32(size)*compactSizeUnit
}
