// Package oets implements distributed odd-even transposition sort: each rank sorts
// its contiguous block of the global array by alternating local compare-exchange
// passes with boundary exchanges, until a global reduction confirms no swaps.
/*
 * Copyright (c) 2026, NVIDIA CORPORATION. All rights reserved.
 */
package oets

import (
	"context"

	"github.com/oesort/oesort/cmn/debug"
	"github.com/oesort/oesort/stats"
	"github.com/oesort/oesort/transport"
)

// exchange performs this rank's part of the boundary compare-exchange for the
// given phase. The request goes out first so that a rank with both roles never
// waits on its right neighbor before serving its left one.
func (r *round) exchange(ctx context.Context, ph Phase) error {
	var (
		s    = r.s
		role = roleOf(ph, &s.plan)
		rank = s.comm.Rank()
		last = len(s.part) - 1
	)
	if role == RoleIdle {
		return nil
	}
	debug.Assertf(last > 0 || role != RoleSend|RoleRecv, "r%d: single element in both roles", rank)

	if role.Send() {
		if err := s.comm.Send(ctx, rank+1, transport.TagRequest, int64(s.part[last])); err != nil {
			return err
		}
	}
	if role.Recv() {
		if err := r.reconcile(ctx, rank-1); err != nil {
			return err
		}
		r.exchanged()
	}
	if role.Send() {
		v, err := s.comm.Recv(ctx, rank+1, transport.TagResponse)
		if err != nil {
			return err
		}
		debug.Assertf(v <= int64(s.part[last]), "r%d: response %d > candidate %d", rank, v, s.part[last])
		s.part[last] = int32(v)
		r.exchanged()
	}
	return nil
}

// receiver side: keep the smaller of (candidate, first) as the returned value
func (r *round) reconcile(ctx context.Context, left int) error {
	s := r.s
	v, err := s.comm.Recv(ctx, left, transport.TagRequest)
	if err != nil {
		return err
	}
	cand := int32(v)
	if cand > s.part[0] {
		cand, s.part[0] = s.part[0], cand
		r.swapped(1, &s.res.BoundarySwaps, stats.BoundarySwapCount)
	}
	return s.comm.Send(ctx, left, transport.TagResponse, int64(cand))
}

func (r *round) exchanged() {
	r.s.res.Exchanges++
	r.s.tracker.Inc(stats.ExchangeCount)
}
