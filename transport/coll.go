// Package transport provides the process group for distributed odd-even sort:
// point-to-point int64 messages between ranks plus barrier and all-reduce.
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package transport

import "context"

type p2p interface {
	Rank() int
	Size() int
	Send(ctx context.Context, dst int, tag Tag, val int64) error
	Recv(ctx context.Context, src int, tag Tag) (int64, error)
}

// Gather at rank 0, combine, and broadcast back. Rank 0 receives in rank order,
// which makes the result independent of arrival order.
func allReduce(ctx context.Context, c p2p, op Op, val int64) (int64, error) {
	world := c.Size()
	if world == 1 {
		return val, nil
	}
	if c.Rank() != 0 {
		if err := c.Send(ctx, 0, TagGather, val); err != nil {
			return 0, err
		}
		return c.Recv(ctx, 0, TagBcast)
	}
	acc := val
	for src := 1; src < world; src++ {
		v, err := c.Recv(ctx, src, TagGather)
		if err != nil {
			return 0, err
		}
		acc = op.apply(acc, v)
	}
	for dst := 1; dst < world; dst++ {
		if err := c.Send(ctx, dst, TagBcast, acc); err != nil {
			return 0, err
		}
	}
	return acc, nil
}

func barrier(ctx context.Context, c p2p) error {
	_, err := allReduce(ctx, c, OpAnd, 1)
	return err
}
