// Copyright (c) 2014-2026 The Myriadcoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

// Package store holds the two on-disk stores the chain verifier is
// built on: the flat, fixed-record header file (the authoritative
// main chain) and the sqlite-backed algo index (an accelerator for
// per-algorithm retarget lookups).
package store

import (
	"io"
	"os"
	"sync"

	"github.com/myriadcoin/electrum-headerchain/header"
)

// ChunkSize is the number of headers in a full sync chunk.
const ChunkSize = 2016

// HeaderFile is a flat file of 80-byte headers, one per height, at
// offset height*header.Size. It is the authoritative record of the
// main chain: tip height is always file_size/80 - 1, and -1 when the
// file is empty. All writes are expected to come from a single
// writer (the sync worker); the mutex here only protects the
// in-memory bookkeeping against concurrent readers.
type HeaderFile struct {
	mutex sync.RWMutex
	file  *os.File
	tip   int // -1 when empty
}

// Open opens (creating if necessary) the header file at path and
// computes its current tip from its size.
func Open(path string) (*HeaderFile, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	hf := &HeaderFile{file: f}
	hf.tip = int(info.Size()/header.Size) - 1
	return hf, nil
}

// Tip returns the highest height present in the file, or -1 if empty.
func (hf *HeaderFile) Tip() int {
	hf.mutex.RLock()
	defer hf.mutex.RUnlock()
	return hf.tip
}

// Read returns the header at the given height, or nil if the height
// is beyond the current tip. A short read (file truncated out from
// under us) is reported as ErrShortRead so the caller can re-check
// the tip and retry rather than treat it as corruption.
func (hf *HeaderFile) Read(height int) (*header.Header, error) {
	hf.mutex.RLock()
	defer hf.mutex.RUnlock()
	if height < 0 || height > hf.tip {
		return nil, nil
	}
	buf := make([]byte, header.Size)
	n, err := hf.file.ReadAt(buf, int64(height)*header.Size)
	if err != nil && err != io.EOF {
		return nil, err
	}
	if n != header.Size {
		return nil, ErrShortRead
	}
	h, err := header.Decode(buf)
	if err != nil {
		return nil, err
	}
	h.BlockHeight = height
	return h, nil
}

// WriteHeader writes a single header at the given height, extending
// the tip if height is tip+1. Heights beyond tip+1 are rejected: the
// file must never contain a gap (I4).
func (hf *HeaderFile) WriteHeader(height int, h *header.Header) error {
	hf.mutex.Lock()
	defer hf.mutex.Unlock()
	if height > hf.tip+1 {
		return ErrGap
	}
	ser, err := h.MarshalBinary()
	if err != nil {
		return err
	}
	if _, err := hf.file.WriteAt(ser, int64(height)*header.Size); err != nil {
		return err
	}
	if height > hf.tip {
		hf.tip = height
	}
	return nil
}

// WriteChunk writes a contiguous run of raw header records (as
// produced by header.MarshalBinary) at the offset for chunk index,
// advancing the tip to cover however many whole records data
// contains. Chunks may be short: the final chunk of the chain need
// not be a full ChunkSize records.
func (hf *HeaderFile) WriteChunk(index int, data []byte) error {
	hf.mutex.Lock()
	defer hf.mutex.Unlock()

	n := len(data) / header.Size
	base := index * ChunkSize
	if base > hf.tip+1 {
		return ErrGap
	}
	if _, err := hf.file.WriteAt(data[:n*header.Size], int64(base)*header.Size); err != nil {
		return err
	}
	top := base + n - 1
	if top > hf.tip {
		hf.tip = top
	}
	return nil
}

// Reorg truncates the file so height becomes the new tip, discarding
// every header above it. The chain verifier calls this immediately
// before it re-persists a replacement chain starting at height+1.
func (hf *HeaderFile) Reorg(height int) error {
	hf.mutex.Lock()
	defer hf.mutex.Unlock()
	if height >= hf.tip {
		return nil
	}
	if err := hf.file.Truncate(int64(height+1) * header.Size); err != nil {
		return err
	}
	hf.tip = height
	return nil
}

// Sync flushes the underlying file to stable storage.
func (hf *HeaderFile) Sync() error {
	hf.mutex.RLock()
	defer hf.mutex.RUnlock()
	return hf.file.Sync()
}

// Close releases the underlying file handle.
func (hf *HeaderFile) Close() error {
	hf.mutex.Lock()
	defer hf.mutex.Unlock()
	return hf.file.Close()
}

// ErrShortRead signals that fewer than header.Size bytes were
// available at the requested offset, typically because the tip moved
// concurrently with the read.
var ErrShortRead = storeError("store: short read from header file")

// ErrGap is returned by WriteHeader/WriteChunk when the write would
// leave an unwritten gap before the new data, violating invariant I4.
var ErrGap = storeError("store: write would leave a gap in the header file")

type storeError string

func (e storeError) Error() string { return string(e) }
