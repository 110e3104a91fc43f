// Copyright (c) 2014-2026 The Myriadcoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/myriadcoin/electrum-headerchain/header"
)

// AlgoIndex is the accelerator keyed by (algo, height): "the Nth prior
// header of the same algo" is otherwise an O(height) scan of the flat
// header file. It is not a source of truth (the HeaderFile is
// authoritative for the main chain); it may be rebuilt from the
// header file at any time via RebuildAlgoIndex.
//
// algo and height use native INTEGER columns rather than the
// reference client's text columns (see DESIGN.md); ordering and
// uniqueness semantics are unchanged.
type AlgoIndex struct {
	db *sql.DB
}

const createHeadersTable = `
CREATE TABLE IF NOT EXISTS headers (
	header BLOB NOT NULL,
	algo   INTEGER NOT NULL,
	height INTEGER NOT NULL UNIQUE
);
`

const createAlgoHeightIndex = `
CREATE INDEX IF NOT EXISTS idx_headers_algo_height ON headers(algo, height);
`

// OpenAlgoIndex opens (creating if necessary) the sqlite-backed algo
// index at path. Access is serialized through a single connection
// (SetMaxOpenConns(1)) since sqlite only allows one writer at a time
// and the retarget engine reads and writes it during verification.
func OpenAlgoIndex(path string) (*AlgoIndex, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_busy_timeout=10000", path))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	if err := CreateTables(db); err != nil {
		db.Close()
		return nil, err
	}
	return &AlgoIndex{db: db}, nil
}

// CreateTables creates the headers table and its algo/height index if
// they do not already exist. Exported so the sync worker and ingest
// tools can share schema creation against an already-open handle.
func CreateTables(db *sql.DB) error {
	if _, err := db.Exec(createHeadersTable); err != nil {
		return err
	}
	if _, err := db.Exec(createAlgoHeightIndex); err != nil {
		return err
	}
	return nil
}

// Close releases the underlying database handle.
func (idx *AlgoIndex) Close() error {
	return idx.db.Close()
}

// InsertOrReplace records h (whose Algo() is assumed to equal algo) at
// (algo, height), overwriting any existing row for that height. This
// is called from inside the retarget engine during verification, so
// the same height may be inserted more than once across retries; that
// is benign (I3 only requires every persisted header eventually
// appear, not that transient rows from failed attempts be absent).
func (idx *AlgoIndex) InsertOrReplace(algo header.Algorithm, height int, h *header.Header) error {
	raw, err := h.MarshalBinary()
	if err != nil {
		return err
	}
	_, err = idx.db.Exec(
		`INSERT OR REPLACE INTO headers(header, algo, height) VALUES (?, ?, ?)`,
		raw, uint32(algo), height,
	)
	return err
}

// CountBelow returns the number of rows recorded for algo with height
// strictly less than belowHeight. Used by the retarget engine's
// ancestry-bootstrap check ("fewer than 10 same-algo priors").
func (idx *AlgoIndex) CountBelow(algo header.Algorithm, belowHeight int) (int, error) {
	var count int
	err := idx.db.QueryRow(
		`SELECT count(*) FROM headers WHERE algo = ? AND height < ?`,
		uint32(algo), belowHeight,
	).Scan(&count)
	return count, err
}

// LastNBelow returns up to n decoded header records for algo with
// height strictly less than belowHeight, each with BlockHeight set
// from its row, ordered by descending height (most recent first). The retarget engine uses the oldest entry of the
// returned set -- the Nth prior same-algo header.
func (idx *AlgoIndex) LastNBelow(algo header.Algorithm, belowHeight, n int) ([]*header.Header, error) {
	rows, err := idx.db.Query(
		`SELECT header, height FROM headers WHERE algo = ? AND height < ? ORDER BY height DESC LIMIT ?`,
		uint32(algo), belowHeight, n,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*header.Header
	for rows.Next() {
		var raw []byte
		var height int
		if err := rows.Scan(&raw, &height); err != nil {
			return nil, err
		}
		h, err := header.Decode(raw)
		if err != nil {
			return nil, err
		}
		h.BlockHeight = height
		out = append(out, h)
	}
	return out, rows.Err()
}

// RebuildAlgoIndex replays every header in hf through InsertOrReplace,
// from height 0 through the current tip. The index is purely an
// accelerator and can always be regenerated this way if it is missing
// or was deleted.
func RebuildAlgoIndex(hf *HeaderFile, idx *AlgoIndex) error {
	tip := hf.Tip()
	for height := 0; height <= tip; height++ {
		h, err := hf.Read(height)
		if err != nil {
			return err
		}
		if h == nil {
			return fmt.Errorf("store: rebuild algo index: missing header at height %d", height)
		}
		if err := idx.InsertOrReplace(h.Algo(), height, h); err != nil {
			return err
		}
	}
	return nil
}
