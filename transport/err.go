// Package transport provides the process group for distributed odd-even sort:
// point-to-point int64 messages between ranks plus barrier and all-reduce.
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package transport

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrClosed      = errors.New("process group closed")
	ErrJobMismatch = errors.New("peer belongs to a different job or group")
	ErrNoLink      = errors.New("no link to destination rank")
	ErrPeerClosed  = errors.New("peer closed the link")
)

// (do not wrap %w; use Unwrap)
type ErrPeer struct {
	err  error
	op   string // "send", "recv", "dial", "read"
	rank int    // this rank
	peer int
}

func newErrPeer(op string, rank, peer int, err error) *ErrPeer {
	return &ErrPeer{err: err, op: op, rank: rank, peer: peer}
}

func (e *ErrPeer) Error() string {
	return fmt.Sprintf("rank %d: %s peer %d: %v", e.rank, e.op, e.peer, e.err)
}

func (e *ErrPeer) Unwrap() error { return e.err }

func (e *ErrPeer) Peer() int { return e.peer }

func errRank(what string, rank, world int) error {
	return errors.Errorf("invalid %s rank %d (world size %d)", what, rank, world)
}
