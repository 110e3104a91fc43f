// Copyright (c) 2014-2026 The Myriadcoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

package chain_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/myriadcoin/electrum-headerchain/chain"
	"github.com/myriadcoin/electrum-headerchain/chain/chaintest"
	"github.com/myriadcoin/electrum-headerchain/hash32"
	"github.com/myriadcoin/electrum-headerchain/header"
	"github.com/myriadcoin/electrum-headerchain/store"
)

func newTestWorker(t *testing.T) *chain.Worker {
	t.Helper()
	hf, err := store.Open(filepath.Join(t.TempDir(), "blockchain_headers"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { hf.Close() })
	idx, err := store.OpenAlgoIndex(filepath.Join(t.TempDir(), "headers.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { idx.Close() })

	w := chain.NewWorker(hf, idx, nil)
	w.Verifier.Dispatch = chaintest.AlwaysValidDispatch
	w.Sleep = func(time.Duration) {}
	w.Start()
	t.Cleanup(w.Stop)
	return w
}

// processed installs the OnProcessed test hook and returns a channel
// that receives each announcement once w has finished handling it;
// waitOne blocks on that channel for one announcement or a timeout.
func processed(t *testing.T, w *chain.Worker) <-chan chain.Announcement {
	t.Helper()
	ch := make(chan chain.Announcement, 64)
	w.OnProcessed = func(a chain.Announcement) { ch <- a }
	return ch
}

func waitOne(t *testing.T, ch <-chan chain.Announcement) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for worker to process announcement")
	}
}

func TestWorker_GenesisOnly(t *testing.T) {
	w := newTestWorker(t)
	done := processed(t, w)

	genesis := chaintest.BuildChainUnmined(0, 1, uint32(header.SHA256D), header.GenesisBits, hash32.Nil, 1500000000, 150)[0]
	height1 := chaintest.BuildChainUnmined(1, 1, uint32(header.SHA256D), header.GenesisBits, genesis.Hash(), genesis.Timestamp, 150)[0]

	peer := chaintest.New("peerA")
	peer.StageHeader(genesis)
	peer.StageHeader(height1)

	w.Enqueue(chain.Announcement{Peer: peer, Header: height1})
	waitOne(t, done)

	if got := w.Height(); got != 1 {
		t.Fatalf("Height() = %d, want 1", got)
	}
	got, err := w.ReadHeader(1)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.Hash() != height1.Hash() {
		t.Fatal("height 1 not persisted as announced")
	}
}

func TestWorker_ChunkSyncIndex0(t *testing.T) {
	w := newTestWorker(t)
	done := processed(t, w)

	chunk0 := chaintest.BuildChainUnmined(0, chaintest.ChunkSize, uint32(header.SHA256D), header.GenesisBits, hash32.Nil, 1500000000, 150)
	data, err := chaintest.EncodeChunk(chunk0)
	if err != nil {
		t.Fatal(err)
	}
	announceHeader := chaintest.BuildChainUnmined(chaintest.ChunkSize, 1, uint32(header.SHA256D), header.GenesisBits, chunk0[len(chunk0)-1].Hash(), chunk0[len(chunk0)-1].Timestamp, 150)[0]

	peer := chaintest.New("peerA")
	peer.StageChunk(0, data)

	w.Enqueue(chain.Announcement{Peer: peer, Header: announceHeader})
	waitOne(t, done)

	if got := w.Height(); got != chaintest.ChunkSize-1 {
		t.Fatalf("Height() = %d, want %d", got, chaintest.ChunkSize-1)
	}
}

func TestWorker_MixedAlgoBootstrap(t *testing.T) {
	w := newTestWorker(t)
	done := processed(t, w)

	algos := []header.Algorithm{header.SHA256D, header.Scrypt}
	var prev hash32.T
	var ts uint32 = 1500000000
	peer := chaintest.New("peerA")
	for i := 0; i < 30; i++ {
		h := chaintest.BuildChainUnmined(i, 1, uint32(algos[i%2]), header.GenesisBits, prev, ts, 150)[0]
		peer.StageHeader(h)
		w.Enqueue(chain.Announcement{Peer: peer, Header: h})
		waitOne(t, done)
		prev = h.Hash()
		ts = h.Timestamp
	}

	if got := w.Height(); got != 29 {
		t.Fatalf("Height() = %d, want 29", got)
	}
}

func TestWorker_Reorg(t *testing.T) {
	w := newTestWorker(t)
	done := processed(t, w)

	chainA := chaintest.BuildChainUnmined(0, 6, uint32(header.SHA256D), header.GenesisBits, hash32.Nil, 1500000000, 150)
	peer := chaintest.New("peerA")
	peer.StageChain(chainA)
	w.Enqueue(chain.Announcement{Peer: peer, Header: chainA[5]})
	waitOne(t, done)
	if got := w.Height(); got != 5 {
		t.Fatalf("Height() after chain A = %d, want 5", got)
	}

	chainB := chaintest.BuildChainUnmined(3, 4, uint32(header.SHA256D), header.GenesisBits, chainA[2].Hash(), chainA[2].Timestamp+1, 151)
	peerB := chaintest.New("peerB")
	peerB.StageChain(chainA[:3])
	peerB.StageChain(chainB)
	w.Enqueue(chain.Announcement{Peer: peerB, Header: chainB[3]})
	waitOne(t, done)

	if got := w.Height(); got != 6 {
		t.Fatalf("Height() after reorg = %d, want 6", got)
	}
	got, err := w.ReadHeader(5)
	if err != nil {
		t.Fatal(err)
	}
	if got.Hash() != chainB[2].Hash() {
		t.Fatal("reorg did not adopt chain B's tip")
	}
	if got.Hash() == chainA[5].Hash() {
		t.Fatal("reorg left chain A's tip in place")
	}
}

func TestWorker_MaliciousPoWIgnored(t *testing.T) {
	w := newTestWorker(t)
	done := processed(t, w)
	w.Verifier.Dispatch = func(a header.Algorithm) (header.PowHasher, error) {
		if !a.Recognized() {
			return nil, header.ErrUnknownAlgorithm
		}
		var max hash32.T
		for i := range max {
			max[i] = 0xff
		}
		return rejectingHasher{max}, nil
	}

	bad := chaintest.BuildChainUnmined(0, 1, uint32(header.SHA256D), header.GenesisBits, hash32.Nil, 1500000000, 150)[0]
	peer := chaintest.New("peerA")
	peer.StageHeader(bad)
	w.Enqueue(chain.Announcement{Peer: peer, Header: bad})
	waitOne(t, done)

	if got := w.Height(); got != -1 {
		t.Fatalf("Height() = %d, want unchanged -1 after insufficient PoW", got)
	}
}

type rejectingHasher struct{ digest hash32.T }

func (r rejectingHasher) Hash(serialized []byte) (hash32.T, error) { return r.digest, nil }

func TestWorker_UnknownAlgorithmRejected(t *testing.T) {
	w := newTestWorker(t)
	done := processed(t, w)

	bad := chaintest.BuildChainUnmined(0, 1, 7, header.GenesisBits, hash32.Nil, 1500000000, 150)[0]
	peer := chaintest.New("peerA")
	peer.StageHeader(bad)
	w.Enqueue(chain.Announcement{Peer: peer, Header: bad})
	waitOne(t, done)

	if got := w.Height(); got != -1 {
		t.Fatalf("Height() = %d, want unchanged -1 after unknown algorithm", got)
	}
}

func TestWorker_MonotoneTip(t *testing.T) {
	w := newTestWorker(t)
	done := processed(t, w)

	full := chaintest.BuildChainUnmined(0, 10, uint32(header.SHA256D), header.GenesisBits, hash32.Nil, 1500000000, 150)
	peer := chaintest.New("peerA")
	peer.StageChain(full)

	prevHeight := w.Height()
	for _, h := range full {
		w.Enqueue(chain.Announcement{Peer: peer, Header: h})
		waitOne(t, done)
		got := w.Height()
		if got < prevHeight {
			t.Fatalf("P4 violated: height went from %d to %d", prevHeight, got)
		}
		prevHeight = got
	}
	if prevHeight != 9 {
		t.Fatalf("final height = %d, want 9", prevHeight)
	}
}
