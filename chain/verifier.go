// Copyright (c) 2014-2026 The Myriadcoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

package chain

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/myriadcoin/electrum-headerchain/hash32"
	"github.com/myriadcoin/electrum-headerchain/header"
	"github.com/myriadcoin/electrum-headerchain/store"
)

// Verifier checks a chain or a chunk end-to-end against the header
// codec, PoW dispatch and retarget engine, persisting only on full
// success (P6: no partial persistence on failure).
type Verifier struct {
	Files  *store.HeaderFile
	Index  *store.AlgoIndex
	Retarg *Engine
	Log    *logrus.Entry

	// Dispatch resolves the PoW capability for a header's declared
	// algorithm, as an injected capability object. Defaults
	// to header.Dispatch; tests substitute a trivial hasher here to
	// exercise the chain/chunk logic without a real proof-of-work
	// search, the same way a future sixth algorithm or a
	// not-yet-verified upstream Groestl/Skein/Qubit package would be
	// substituted without touching this file.
	Dispatch func(header.Algorithm) (header.PowHasher, error)
}

// NewVerifier constructs a Verifier over the given stores, building
// its own retarget Engine from them.
func NewVerifier(files *store.HeaderFile, index *store.AlgoIndex, log *logrus.Entry) *Verifier {
	if log == nil {
		log = logrus.NewEntry(logrus.New())
	}
	return &Verifier{
		Files:    files,
		Index:    index,
		Retarg:   NewEngine(files, index, log),
		Log:      log,
		Dispatch: header.Dispatch,
	}
}

// powHash computes h's proof-of-work digest through v.Dispatch rather
// than h.PowHash() directly, so the capability is substitutable.
func (v *Verifier) powHash(h *header.Header) (hash32.T, error) {
	hasher, err := v.Dispatch(h.Algo())
	if err != nil {
		return hash32.Nil, err
	}
	ser, err := h.MarshalBinary()
	if err != nil {
		return hash32.Nil, err
	}
	return hasher.Hash(ser)
}

// VerifyChunk validates a contiguous chunk of raw header records
// covering heights [index*store.ChunkSize, index*store.ChunkSize+n-1]
// and, only if every record passes, writes the whole chunk to the
// header file. It never persists a partial chunk.
func (v *Verifier) VerifyChunk(index int, data []byte) error {
	n := len(data) / header.Size
	if n == 0 {
		return fmt.Errorf("chain: empty chunk")
	}

	prevHash := hash32.Nil
	if index > 0 {
		prevHeader, err := v.Files.Read(index*store.ChunkSize - 1)
		if err != nil {
			return err
		}
		if prevHeader == nil {
			return fmt.Errorf("%w: missing predecessor of chunk %d", ErrLinkBroken, index)
		}
		prevHash = prevHeader.Hash()
	}

	for i := 0; i < n; i++ {
		height := index*store.ChunkSize + i
		h, err := header.Decode(data[i*header.Size : (i+1)*header.Size])
		if err != nil {
			return err
		}
		h.BlockHeight = height

		bits, target, err := v.Retarg.Compute(height, nil, data)
		if err != nil {
			return err
		}
		if h.PrevBlockHash != prevHash {
			return fmt.Errorf("%w: height %d", ErrLinkBroken, height)
		}
		if h.Bits != bits {
			return fmt.Errorf("%w: height %d: header bits %#x, computed %#x", ErrBitsMismatch, height, h.Bits, bits)
		}
		pow, err := v.powHash(h)
		if err != nil {
			return err
		}
		if !pow.Less(target) {
			return fmt.Errorf("%w: height %d", ErrPoWInsufficient, height)
		}
		prevHash = h.Hash()
	}

	return v.Files.WriteChunk(index, data)
}

// VerifyChain validates an ascending, contiguous chain of decoded
// headers against the same three rules as VerifyChunk and, only on
// full success, persists each header in order (overwriting any
// conflicting tail -- the reorg walk-back).
func (v *Verifier) VerifyChain(chain []*header.Header) error {
	if len(chain) == 0 {
		return ErrEmptyChain
	}

	prevHash := hash32.Nil
	startHeight := chain[0].BlockHeight
	if startHeight > 0 {
		prevHeader, err := v.Files.Read(startHeight - 1)
		if err != nil {
			return err
		}
		if prevHeader == nil {
			return fmt.Errorf("%w: missing predecessor of height %d", ErrLinkBroken, startHeight)
		}
		prevHash = prevHeader.Hash()
	}

	for _, h := range chain {
		bits, target, err := v.Retarg.Compute(h.BlockHeight, chain, nil)
		if err != nil {
			return err
		}
		if h.PrevBlockHash != prevHash {
			return fmt.Errorf("%w: height %d", ErrLinkBroken, h.BlockHeight)
		}
		if h.Bits != bits {
			return fmt.Errorf("%w: height %d: header bits %#x, computed %#x", ErrBitsMismatch, h.BlockHeight, h.Bits, bits)
		}
		pow, err := v.powHash(h)
		if err != nil {
			return err
		}
		if !pow.Less(target) {
			return fmt.Errorf("%w: height %d", ErrPoWInsufficient, h.BlockHeight)
		}
		prevHash = h.Hash()
	}

	if startHeight <= v.Files.Tip() {
		if err := v.Files.Reorg(startHeight - 1); err != nil {
			return err
		}
	}
	for _, h := range chain {
		if err := v.Files.WriteHeader(h.BlockHeight, h); err != nil {
			return err
		}
		if err := v.Index.InsertOrReplace(h.Algo(), h.BlockHeight, h); err != nil {
			v.Log.WithError(err).Warn("chain: algo index insert failed after successful verify_chain")
		}
	}
	return nil
}
