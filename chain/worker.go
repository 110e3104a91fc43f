// Copyright (c) 2014-2026 The Myriadcoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

package chain

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/myriadcoin/electrum-headerchain/header"
	"github.com/myriadcoin/electrum-headerchain/metrics"
	"github.com/myriadcoin/electrum-headerchain/store"
)

// InboundQueueCapacity bounds the worker's announcement queue. Unlike
// the reference client's unbounded Python Queue.Queue, a bounded
// channel here drops the oldest pending announcement on overflow
// rather than growing without limit.
const InboundQueueCapacity = 256

// BulkSyncThreshold is how far an announced height may exceed the
// local tip before the worker switches from walking back
// header-by-header to requesting whole 2016-header chunks.
const BulkSyncThreshold = 50

const (
	chunkRequestTimeout  = 30 * time.Second
	headerRequestTimeout = 15 * time.Second
	chunkRetryBackoff    = 2 * time.Second
)

// Worker is the single long-running sync task: it receives peer
// announcements, drives bulk chunk sync or tip-extend, persists
// verified headers, and notifies listeners of new tip heights.
type Worker struct {
	Files    *store.HeaderFile
	Index    *store.AlgoIndex
	Verifier *Verifier
	Log      *logrus.Entry

	// Sleep backs off between chunk retries; overridden in tests so
	// they don't spend real wall-clock time.
	Sleep func(d time.Duration)

	// OnProcessed, if set, is called synchronously after every
	// announcement finishes processing, success or failure. It exists
	// for tests to observe completion of the otherwise-asynchronous
	// run loop without polling; production callers leave it nil.
	OnProcessed func(Announcement)

	queue chan Announcement
	stop  chan struct{}
	wg    sync.WaitGroup

	listenersMu sync.Mutex
	listeners   []TipListener
}

// NewWorker constructs a Worker over the given stores, building its
// own Verifier from them.
func NewWorker(files *store.HeaderFile, index *store.AlgoIndex, log *logrus.Entry) *Worker {
	if log == nil {
		log = logrus.NewEntry(logrus.New())
	}
	return &Worker{
		Files:    files,
		Index:    index,
		Verifier: NewVerifier(files, index, log),
		Log:      log,
	}
}

// OnTipChange registers a listener invoked after every successful tip
// advance, corresponding to the reference client's
// network.new_blockchain_height(height, peer) notification.
func (w *Worker) OnTipChange(l TipListener) {
	w.listenersMu.Lock()
	defer w.listenersMu.Unlock()
	w.listeners = append(w.listeners, l)
}

// Start launches the worker's goroutine. Nothing guards against
// calling Start twice without an intervening Stop: the second call
// swaps in fresh queue and stop channels under the running loop and
// launches a second one -- callers own the lifecycle.
func (w *Worker) Start() {
	w.queue = make(chan Announcement, InboundQueueCapacity)
	w.stop = make(chan struct{})
	w.wg.Add(1)
	go w.run()
}

// Stop signals the worker to exit after its current announcement (if
// any) finishes, and blocks until it has. Outstanding synchronous
// chunk/header requests are not interrupted by Stop; they end on the
// peer's reply, peer disconnect, or their per-request timeout.
func (w *Worker) Stop() {
	close(w.stop)
	w.wg.Wait()
}

// Height returns the local tip height, or -1 if no headers are
// stored yet.
func (w *Worker) Height() int {
	return w.Files.Tip()
}

// ReadHeader returns the header stored at height, or nil if none is
// present there.
func (w *Worker) ReadHeader(height int) (*header.Header, error) {
	return w.Files.Read(height)
}

// Enqueue submits a peer announcement for processing. The queue is
// bounded: if full, the oldest pending announcement is dropped to
// make room, rather than blocking the caller or growing unbounded.
func (w *Worker) Enqueue(a Announcement) {
	select {
	case w.queue <- a:
		return
	default:
	}
	select {
	case <-w.queue:
	default:
	}
	select {
	case w.queue <- a:
	default:
	}
}

func (w *Worker) run() {
	defer w.wg.Done()
	for {
		select {
		case <-w.stop:
			return
		case ann := <-w.queue:
			w.handle(ann)
		}
	}
}

// handle implements the per-announcement state machine: discard stale
// announcements, bulk-sync when far behind, otherwise tip-extend
// (which performs the reorg walk when needed).
func (w *Worker) handle(ann Announcement) {
	if w.OnProcessed != nil {
		defer w.OnProcessed(ann)
	}

	h := ann.Header
	log := w.Log.WithFields(logrus.Fields{"peer": ann.Peer.Server(), "height": h.BlockHeight})

	tip := w.Files.Tip()
	if h.BlockHeight <= tip {
		return
	}

	if h.BlockHeight > tip+BulkSyncThreshold {
		if !w.bulkSync(ann.Peer, tip, h.BlockHeight) {
			log.Warn("chain: bulk sync aborted peer")
			return
		}
		tip = w.Files.Tip()
	}

	if h.BlockHeight > tip {
		w.tipExtend(ann.Peer, h)
	}
}

// maxChunkFetchRetries bounds how many times bulkSync retries a chunk
// request at the same index before giving up on the peer. The source
// retries a missing/timed-out response at the same n forever; a bound
// here avoids hanging on a peer that will never have the chunk, which
// the source leaves to the human operator noticing a stuck sync.
const maxChunkFetchRetries = 5

// bulkSync requests and verifies whole chunks from minIdx through the
// chunk covering target. A request failure retries the same index (up
// to maxChunkFetchRetries); a verification failure walks the index
// back instead, since a bad chunk is more likely explained by missing
// or wrong same-algo ancestry than by a corrupt wire transfer. It
// returns false if the peer should be abandoned for this announcement.
func (w *Worker) bulkSync(peer Peer, tip, target int) bool {
	minIdx := (tip + 1) / store.ChunkSize
	maxIdx := (target + 1) / store.ChunkSize

	fetchRetries := 0
	for n := minIdx; n <= maxIdx; {
		select {
		case <-w.stop:
			return false
		default:
		}

		log := w.Log.WithFields(logrus.Fields{"peer": peer.Server(), "chunk": n})

		ctx, cancel := context.WithTimeout(context.Background(), chunkRequestTimeout)
		data, err := peer.RequestChunk(ctx, n)
		cancel()
		if err != nil {
			log.WithError(err).Warn("chain: chunk request failed")
			fetchRetries++
			if fetchRetries > maxChunkFetchRetries {
				return false
			}
			w.backoff(chunkRetryBackoff)
			continue
		}
		fetchRetries = 0

		if err := w.Verifier.VerifyChunk(n, data); err != nil {
			metrics.ObserveVerify("failure")
			log.WithError(err).Warn("chain: chunk verification failed")
			n--
			if n < 0 {
				return false
			}
			w.backoff(chunkRetryBackoff)
			continue
		}
		metrics.ObserveVerify("success")
		metrics.SetTipHeight(w.Files.Tip())
		n++
	}
	return true
}

// tipExtend walks backward from h until it reaches a height whose
// predecessor is already on the local chain, requesting missing
// headers from peer one at a time (the reorg walk), then verifies
// and persists the resulting chain as a unit.
func (w *Worker) tipExtend(peer Peer, h *header.Header) {
	log := w.Log.WithFields(logrus.Fields{"peer": peer.Server(), "height": h.BlockHeight})

	working := []*header.Header{h}
	cur := h.BlockHeight
	reorg := false
	for cur > 0 {
		local, err := w.Files.Read(cur - 1)
		if err != nil {
			log.WithError(err).Warn("chain: reorg walk: local read failed")
			return
		}
		if local != nil && local.Hash() == working[0].PrevBlockHash {
			break
		}
		if local != nil {
			reorg = true
		}

		ctx, cancel := context.WithTimeout(context.Background(), headerRequestTimeout)
		prior, err := peer.RequestHeader(ctx, cur-1)
		cancel()
		if err != nil || prior == nil {
			log.WithError(err).Warn("chain: reorg walk: peer response inconsistent or empty, dropping chain")
			return
		}
		prior.BlockHeight = cur - 1
		working = append([]*header.Header{prior}, working...)
		cur--
	}

	if err := w.Verifier.VerifyChain(working); err != nil {
		metrics.ObserveVerify("failure")
		log.WithError(err).Warn("chain: chain verification failed")
		return
	}
	metrics.ObserveVerify("success")
	metrics.SetTipHeight(w.Files.Tip())
	if reorg {
		metrics.ObserveReorg()
	}
	w.notifyTipChange(peer)
}

func (w *Worker) notifyTipChange(peer Peer) {
	w.listenersMu.Lock()
	listeners := append([]TipListener(nil), w.listeners...)
	w.listenersMu.Unlock()

	height := w.Files.Tip()
	for _, l := range listeners {
		l(height, peer)
	}
}

func (w *Worker) backoff(d time.Duration) {
	if w.Sleep != nil {
		w.Sleep(d)
		return
	}
	time.Sleep(d)
}
