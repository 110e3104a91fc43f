// Copyright (c) 2014-2026 The Myriadcoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

package chain

import (
	"context"

	"github.com/myriadcoin/electrum-headerchain/header"
)

// Peer is the subsystem's view of a remote server: the two blocking
// request shapes of the Electrum-style header protocol
// (blockchain.block.get_header and blockchain.block.get_chunk),
// modeled as a small interface
// rather than a bare function variable so multiple peers can be in
// flight and so tests can supply a scripted double (see package
// chaintest) instead of overriding a package-level function pointer.
type Peer interface {
	// Server identifies the peer for logging and for distinguishing
	// announcements from different sources in the worker's queue.
	Server() string

	// RequestHeader fetches the header at height, blocking until the
	// peer replies or ctx is done. A malformed or error response is
	// reported as ErrPeerProtocol.
	RequestHeader(ctx context.Context, height int) (*header.Header, error)

	// RequestChunk fetches the raw (not yet decoded) bytes of the
	// chunk at index, blocking until the peer replies or ctx is
	// done. The returned slice is a whole multiple of header.Size
	// bytes, possibly short for the final chunk.
	RequestChunk(ctx context.Context, index int) ([]byte, error)
}

// Announcement is a (peer, header) pair delivered to the worker's
// inbound queue: a peer claims its chain now extends to header.
type Announcement struct {
	Peer   Peer
	Header *header.Header
}

// TipListener is notified whenever the worker successfully advances
// the local tip. It corresponds to the reference client's
// network.new_blockchain_height(height, peer) outbound notification.
type TipListener func(height int, peer Peer)
