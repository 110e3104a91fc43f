// Copyright (c) 2014-2026 The Myriadcoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

package chain

import (
	"fmt"
	"math/big"

	"github.com/sirupsen/logrus"

	"github.com/myriadcoin/electrum-headerchain/header"
	"github.com/myriadcoin/electrum-headerchain/metrics"
	"github.com/myriadcoin/electrum-headerchain/store"
)

// TargetTimespan is the intended spacing, in seconds, between
// consecutive same-algorithm blocks: 30 seconds * 5 algorithms.
const TargetTimespan = 30 * 5

// AvgInterval is the expected elapsed time across ten consecutive
// same-algorithm blocks, the window the retarget engine measures.
const AvgInterval = 10 * TargetTimespan

// ancestryBootstrapCeiling is the height above which the engine stops
// consulting the algo index's row count and simply assumes at least
// ten same-algorithm ancestors exist.
const ancestryBootstrapCeiling = 10000

// Engine computes (bits, target) for a block at a given height from
// its same-algorithm ancestry, backed by the header file (C3) and the
// algo index (C4).
type Engine struct {
	Files *store.HeaderFile
	Index *store.AlgoIndex
	Log   *logrus.Entry
}

// NewEngine constructs a retarget Engine. A nil log is replaced with
// a discard logger so callers in tests need not wire one up.
func NewEngine(files *store.HeaderFile, index *store.AlgoIndex, log *logrus.Entry) *Engine {
	if log == nil {
		log = logrus.NewEntry(logrus.New())
	}
	return &Engine{Files: files, Index: index, Log: log}
}

// Compute returns the (bits, target) pair a header at height must
// satisfy. Exactly one of chain or data should be supplied by the
// caller: chain for tip-extend verification (the header being
// verified is somewhere in chain), data for chunk verification (a
// raw, not yet split, buffer of 80-byte records covering the chunk
// that height falls in). Both nil is only valid for height 0 with no
// chunk context.
func (e *Engine) Compute(height int, chain []*header.Header, data []byte) (uint32, *big.Int, error) {
	// Mode A: genesis.
	if height == 0 {
		if len(data) >= header.Size {
			if h, err := header.Decode(data[:header.Size]); err == nil {
				// The genesis block is always recorded under algo 2
				// (SHA-256D) regardless of what its own version field
				// says; this matches the reference client exactly.
				if err := e.Index.InsertOrReplace(header.SHA256D, 0, h); err != nil {
					e.Log.WithError(err).Warn("chain: algo index insert failed for genesis header")
				}
			}
		}
		return header.GenesisBits, header.MaxTarget, nil
	}

	firstHeight := height - 10
	if height < 10 {
		firstHeight = 0
	}
	first, err := e.Files.Read(firstHeight)
	if err != nil {
		return 0, nil, err
	}
	last, err := e.Files.Read(height - 1)
	if err != nil {
		return 0, nil, err
	}

	switch {
	case data == nil && len(chain) > 0:
		first, last, err = e.modeTipExtend(height, chain, first, last)
	case data != nil:
		first, last, err = e.modeChunk(height, data, first)
	}
	if err != nil {
		return 0, nil, err
	}
	if last == nil {
		return 0, nil, fmt.Errorf("chain: retarget at height %d: missing ancestry", height)
	}

	algo := last.Algo()
	numHeaders := 10
	if height < ancestryBootstrapCeiling {
		n, err := e.Index.CountBelow(algo, height)
		if err != nil {
			return 0, nil, fmt.Errorf("%w: %v", ErrIndexUnavailable, err)
		}
		numHeaders = n
	}
	if numHeaders < 10 {
		metrics.ObserveRetargetBootstrap()
		return header.GenesisBits, header.MaxTarget, nil
	}

	actualTimespan := int64(last.Timestamp) - int64(first.Timestamp)
	if actualTimespan != AvgInterval {
		e.Log.WithFields(logrus.Fields{
			"height": height, "actual_timespan": actualTimespan, "avg_interval": AvgInterval,
		}).Debug("chain: retarget clamp is a no-op, substituting avg_interval for measured timespan")
	}
	// Bug-faithful reproduction (see DESIGN.md): both the lower and
	// upper clamp bound are AvgInterval itself, so the measured
	// timespan is discarded unconditionally rather than clamped into
	// a [min,max] range. Do not "fix" this.
	actualTimespan = AvgInterval

	oldTarget := header.BitsToTarget(last.Bits)
	newTarget := new(big.Int).Mul(oldTarget, big.NewInt(actualTimespan))
	newTarget.Div(newTarget, big.NewInt(AvgInterval))
	if newTarget.Cmp(header.MaxTarget) > 0 {
		newTarget = new(big.Int).Set(header.MaxTarget)
	}
	return header.TargetToBits(newTarget), newTarget, nil
}

// modeTipExtend handles the case where height is being appended live to
// an already-verified tip: last is looked up directly from chain rather
// than from the algo index, since it has not been persisted yet.
func (e *Engine) modeTipExtend(height int, chain []*header.Header, first, last *header.Header) (*header.Header, *header.Header, error) {
	for _, h := range chain {
		if h.BlockHeight == height {
			last = h
			break
		}
	}
	if last == nil {
		return first, last, fmt.Errorf("chain: retarget tip-extend at height %d: no header in chain", height)
	}
	if err := e.Index.InsertOrReplace(last.Algo(), height, last); err != nil {
		return first, last, fmt.Errorf("%w: %v", ErrIndexUnavailable, err)
	}
	rows, err := e.Index.LastNBelow(last.Algo(), height, 10)
	if err != nil {
		return first, last, fmt.Errorf("%w: %v", ErrIndexUnavailable, err)
	}
	if len(rows) > 0 {
		first = rows[len(rows)-1]
	}
	return first, last, nil
}

// modeChunk handles bulk chunk sync: last is decoded directly out of
// the raw chunk buffer rather than requested header-by-header.
func (e *Engine) modeChunk(height int, data []byte, first *header.Header) (*header.Header, *header.Header, error) {
	m := height % store.ChunkSize
	if (m+1)*header.Size > len(data) {
		return first, nil, fmt.Errorf("chain: retarget chunk mode at height %d: short chunk buffer", height)
	}
	last, err := header.Decode(data[m*header.Size : (m+1)*header.Size])
	if err != nil {
		return first, nil, err
	}
	last.BlockHeight = height
	if err := e.Index.InsertOrReplace(last.Algo(), height, last); err != nil {
		e.Log.WithError(err).Warn("chain: algo index insert failed during chunk retarget")
	}

	switch {
	case m >= 10:
		fallback, err := header.Decode(data[(m-10)*header.Size : (m-9)*header.Size])
		if err != nil {
			return first, last, err
		}
		first = fallback
		rows, err := e.Index.LastNBelow(last.Algo(), height, 10)
		if err != nil {
			e.Log.WithFields(logrus.Fields{"height": height, "error": err}).
				Warn("chain: algo index unavailable, falling back to chunk offset lookup")
		} else if len(rows) > 0 {
			first = rows[len(rows)-1]
		}
	case height < 10:
		f, err := header.Decode(data[0:header.Size])
		if err != nil {
			return first, last, err
		}
		first = f
	default:
		f, err := e.Files.Read(height - 10)
		if err != nil {
			return first, last, err
		}
		first = f
	}
	return first, last, nil
}
