// Package transport provides the process group for distributed odd-even sort:
// point-to-point int64 messages between ranks plus barrier and all-reduce.
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package transport

import (
	"context"

	"github.com/pkg/errors"
)

// in-process group: one goroutine per rank, channels in place of links
type (
	hub struct {
		boxes []*mailboxes // by destination rank
	}
	localComm struct {
		hub   *hub
		stats Stats
		rank  int
	}
)

// interface guard
var _ Comm = (*localComm)(nil)

// NewLocal returns a connected group of `world` ranks living in this process;
// the i-th element is rank i.
func NewLocal(world int) []Comm {
	if world < 1 {
		world = 1
	}
	h := &hub{boxes: make([]*mailboxes, world)}
	for i := range h.boxes {
		h.boxes[i] = newMailboxes(world)
	}
	comms := make([]Comm, world)
	for i := range comms {
		comms[i] = &localComm{hub: h, rank: i}
	}
	return comms
}

func (c *localComm) Rank() int     { return c.rank }
func (c *localComm) Size() int     { return len(c.hub.boxes) }
func (c *localComm) Stats() *Stats { return &c.stats }

func (c *localComm) Send(ctx context.Context, dst int, tag Tag, val int64) error {
	if dst < 0 || dst >= c.Size() || dst == c.rank {
		return errRank("destination", dst, c.Size())
	}
	if err := c.hub.boxes[dst].put(ctx, c.rank, tag, val); err != nil {
		return newErrPeer("send", c.rank, dst, err)
	}
	c.stats.Sent.Add(1)
	return nil
}

func (c *localComm) Recv(ctx context.Context, src int, tag Tag) (int64, error) {
	if src < 0 || src >= c.Size() || src == c.rank {
		return 0, errRank("source", src, c.Size())
	}
	v, err := c.hub.boxes[c.rank].get(ctx, src, tag)
	if err != nil {
		return 0, newErrPeer("recv", c.rank, src, err)
	}
	c.stats.Recv.Add(1)
	return v, nil
}

func (c *localComm) Barrier(ctx context.Context) error { return barrier(ctx, c) }

func (c *localComm) AllReduce(ctx context.Context, op Op, val int64) (int64, error) {
	return allReduce(ctx, c, op, val)
}

// closes this rank's inbox; peers still blocked sending to it fail with ErrClosed,
// and peers waiting for it fail with ErrPeerClosed
func (c *localComm) Close() error {
	c.hub.boxes[c.rank].close(ErrClosed)
	for r, mb := range c.hub.boxes {
		if r != c.rank {
			mb.hangUp(c.rank, errors.WithStack(ErrPeerClosed))
		}
	}
	return nil
}
