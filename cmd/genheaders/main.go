// Copyright (c) 2014-2026 The Myriadcoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

// Command genheaders synthesizes a linear run of valid, proof-of-work
// satisfying Myriadcoin headers, cycling through the five algorithms
// and consulting the real retarget engine for each header's bits, for
// use as fixtures and as a scripted peer's backing chain during manual
// testing of headersyncd.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/myriadcoin/electrum-headerchain/chain"
	"github.com/myriadcoin/electrum-headerchain/hash32"
	"github.com/myriadcoin/electrum-headerchain/header"
	"github.com/myriadcoin/electrum-headerchain/store"
)

var cycle = []header.Algorithm{header.SHA256D, header.Scrypt, header.Groestl, header.Skein, header.Qubit}

type options struct {
	startHeight int
	count       int
	headersOut  string
	indexOut    string
	step        uint
}

func main() {
	opts := &options{}
	flag.IntVar(&opts.startHeight, "start-height", 0, "generated headers start at this height")
	flag.IntVar(&opts.count, "count", 20, "number of headers to generate")
	flag.StringVar(&opts.headersOut, "headers-path", "./blockchain_headers", "header file to append to (created if absent)")
	flag.StringVar(&opts.indexOut, "headers-db", "./headers.db", "per-algorithm sqlite index to append to (created if absent)")
	flag.UintVar(&opts.step, "step-seconds", 150, "timestamp advance per generated header")
	flag.Parse()

	if err := run(opts); err != nil {
		fmt.Fprintln(os.Stderr, "genheaders:", err)
		os.Exit(1)
	}
}

func run(opts *options) error {
	files, err := store.Open(opts.headersOut)
	if err != nil {
		return fmt.Errorf("opening header file: %w", err)
	}
	defer files.Close()

	index, err := store.OpenAlgoIndex(opts.indexOut)
	if err != nil {
		return fmt.Errorf("opening algo index: %w", err)
	}
	defer index.Close()

	engine := chain.NewEngine(files, index, nil)

	var prevHash hash32.T
	var prevTimestamp uint32
	if tip := files.Tip(); tip >= 0 {
		if opts.startHeight != tip+1 {
			return fmt.Errorf("start-height %d does not continue existing tip %d", opts.startHeight, tip)
		}
		last, err := files.Read(tip)
		if err != nil {
			return err
		}
		prevHash = last.Hash()
		prevTimestamp = last.Timestamp
	} else if opts.startHeight == 0 {
		prevTimestamp = uint32(time.Now().Unix()) - uint32(opts.count+1)*uint32(opts.step)
	} else {
		return fmt.Errorf("start-height %d requested but header file is empty", opts.startHeight)
	}

	for i := 0; i < opts.count; i++ {
		height := opts.startHeight + i
		algo := cycle[height%len(cycle)]

		h := &header.Header{
			Version:       uint32(algo),
			PrevBlockHash: prevHash,
			Timestamp:     prevTimestamp + uint32(opts.step),
			Bits:          header.GenesisBits,
			BlockHeight:   height,
		}

		bits, _, err := engine.Compute(height, []*header.Header{h}, nil)
		if err != nil {
			return fmt.Errorf("retarget at height %d: %w", height, err)
		}
		h.Bits = bits

		if err := mineNonce(h); err != nil {
			return fmt.Errorf("mining height %d: %w", height, err)
		}

		if err := files.WriteHeader(height, h); err != nil {
			return fmt.Errorf("writing height %d: %w", height, err)
		}
		if err := index.InsertOrReplace(algo, height, h); err != nil {
			return fmt.Errorf("indexing height %d: %w", height, err)
		}

		fmt.Printf("height=%d algo=%s bits=%#x nonce=%d hash=%x\n", height, algo, h.Bits, h.Nonce, h.Hash())

		prevHash = h.Hash()
		prevTimestamp = h.Timestamp
	}

	return nil
}

// mineNonce searches for the smallest nonce making h's PoW hash
// satisfy its own bits field, mutating h in place.
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
			return fmt.Errorf("exhausted nonce space at height %d", h.BlockHeight)
		}
	}
}
