// Copyright (c) 2014-2026 The Myriadcoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

// Package chaintest provides a scripted fake peer implementing
// chain.Peer: rather than overriding a package-level RawRequest
// function, state lives on a struct and is scripted by the test
// before the worker is ever started.
package chaintest

import (
	"context"
	"fmt"
	"sync"

	"github.com/myriadcoin/electrum-headerchain/chain"
	"github.com/myriadcoin/electrum-headerchain/hash32"
	"github.com/myriadcoin/electrum-headerchain/header"
	"github.com/myriadcoin/electrum-headerchain/store"
)

// Peer is a scripted chain.Peer: headers and chunks are staged ahead
// of time by height/index, and requests for anything not staged
// return an error, modeling peer-side protocol failures.
type Peer struct {
	mu      sync.Mutex
	name    string
	headers map[int]*header.Header
	chunks  map[int][]byte

	// FailHeader/FailChunk let a test script a specific height/index
	// to always error on, independent of whether it is also staged.
	FailHeader map[int]error
	FailChunk  map[int]error
}

// New returns an empty scripted peer named name.
func New(name string) *Peer {
	return &Peer{
		name:       name,
		headers:    make(map[int]*header.Header),
		chunks:     make(map[int][]byte),
		FailHeader: make(map[int]error),
		FailChunk:  make(map[int]error),
	}
}

// Server implements chain.Peer.
func (p *Peer) Server() string {
	return p.name
}

// StageHeader makes h available as the response to RequestHeader at
// h.BlockHeight.
func (p *Peer) StageHeader(h *header.Header) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.headers[h.BlockHeight] = h
}

// StageChunk makes data (a run of concatenated 80-byte records)
// available as the response to RequestChunk at index.
func (p *Peer) StageChunk(index int, data []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.chunks[index] = data
}

// StageChain stages every header in c by its BlockHeight, a
// convenience for scripting a whole alternate branch at once.
func (p *Peer) StageChain(c []*header.Header) {
	for _, h := range c {
		p.StageHeader(h)
	}
}

// RequestHeader implements chain.Peer.
func (p *Peer) RequestHeader(ctx context.Context, height int) (*header.Header, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err, ok := p.FailHeader[height]; ok {
		return nil, err
	}
	h, ok := p.headers[height]
	if !ok {
		return nil, fmt.Errorf("%w: peer %s has no header at height %d", chain.ErrPeerProtocol, p.name, height)
	}
	cp := *h
	return &cp, nil
}

// RequestChunk implements chain.Peer.
func (p *Peer) RequestChunk(ctx context.Context, index int) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err, ok := p.FailChunk[index]; ok {
		return nil, err
	}
	data, ok := p.chunks[index]
	if !ok {
		return nil, fmt.Errorf("%w: peer %s has no chunk %d", chain.ErrPeerProtocol, p.name, index)
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}

// mineNonce searches for the smallest nonce making h's PoW hash
// satisfy bits, mutating h in place. Used only to build fixtures: at
// GenesisBits a single try succeeds with odds of about 1 in 2^20, so
// this takes on the order of a million hash attempts per header.
func mineNonce(h *header.Header) error {
	target := header.BitsToTarget(h.Bits)
	for nonce := uint32(0); ; nonce++ {
		h.Nonce = nonce
		pow, err := h.PowHash()
		if err != nil {
			return err
		}
		if pow.Less(target) {
			return nil
		}
		if nonce == ^uint32(0) {
			return fmt.Errorf("chaintest: exhausted nonce space at height %d", h.BlockHeight)
		}
	}
}

// BuildChain synthesizes a linear, fully-mined run of n headers
// starting at startHeight, each linking to the previous, all declared
// under algoVersion with the given fixed bits. prevHash/prevTimestamp
// describe the header the first synthesized one links to
// (hash32.Nil/0 for a genesis-rooted chain). step is the per-header
// timestamp advance; passing chain.TargetTimespan*... is the caller's
// business, not this helper's -- it only wires the fields together and
// mines each one.
func BuildChain(startHeight int, n int, algoVersion uint32, bits uint32, prevHash hash32.T, prevTimestamp uint32, step uint32) ([]*header.Header, error) {
	return buildChain(startHeight, n, algoVersion, bits, prevHash, prevTimestamp, step, true)
}

// BuildChainUnmined is BuildChain without the proof-of-work search:
// every header's Nonce is left at zero. Scenario tests that install a
// stub PowHasher on the worker's Verifier (see chain.Verifier.Dispatch)
// use this to avoid paying for a real mining search their stub makes
// irrelevant.
func BuildChainUnmined(startHeight int, n int, algoVersion uint32, bits uint32, prevHash hash32.T, prevTimestamp uint32, step uint32) []*header.Header {
	out, _ := buildChain(startHeight, n, algoVersion, bits, prevHash, prevTimestamp, step, false)
	return out
}

func buildChain(startHeight int, n int, algoVersion uint32, bits uint32, prevHash hash32.T, prevTimestamp uint32, step uint32, mined bool) ([]*header.Header, error) {
	out := make([]*header.Header, 0, n)
	prev := prevHash
	ts := prevTimestamp
	for i := 0; i < n; i++ {
		ts += step
		h := &header.Header{
			Version:       algoVersion,
			PrevBlockHash: prev,
			Timestamp:     ts,
			Bits:          bits,
			BlockHeight:   startHeight + i,
		}
		if mined {
			if err := mineNonce(h); err != nil {
				return nil, err
			}
		}
		out = append(out, h)
		prev = h.Hash()
	}
	return out, nil
}

// EncodeChunk concatenates each header's 80-byte encoding into a
// single chunk buffer suitable for StageChunk/VerifyChunk.
func EncodeChunk(c []*header.Header) ([]byte, error) {
	buf := make([]byte, 0, len(c)*header.Size)
	for _, h := range c {
		b, err := h.MarshalBinary()
		if err != nil {
			return nil, err
		}
		buf = append(buf, b...)
	}
	return buf, nil
}

// ChunkSize re-exports store.ChunkSize so scenario tests don't need to
// import store directly just to compute chunk boundaries.
const ChunkSize = store.ChunkSize

type stubHasher struct{ digest hash32.T }

func (s stubHasher) Hash(serialized []byte) (hash32.T, error) { return s.digest, nil }

// AlwaysValidDispatch is a header.Dispatch substitute returning a
// PowHasher whose digest is always zero, so it satisfies any positive
// target. Install it on a chain.Verifier's Dispatch field (directly,
// or via a *chain.Worker's Verifier field) to exercise link/bits
// checking in scenario tests built on BuildChainUnmined without
// paying for a real proof-of-work search.
func AlwaysValidDispatch(a header.Algorithm) (header.PowHasher, error) {
	if !a.Recognized() {
		return nil, header.ErrUnknownAlgorithm
	}
	return stubHasher{digest: hash32.Nil}, nil
}
