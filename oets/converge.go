// Package oets implements distributed odd-even transposition sort: each rank sorts
// its contiguous block of the global array by alternating local compare-exchange
// passes with boundary exchanges, until a global reduction confirms no swaps.
/*
 * Copyright (c) 2026, NVIDIA CORPORATION. All rights reserved.
 */
package oets

import (
	"context"

	"github.com/oesort/oesort/cmn/mono"
	"github.com/oesort/oesort/medium"
	"github.com/oesort/oesort/stats"
	"github.com/oesort/oesort/transport"

	"github.com/pkg/errors"
)

// converged is the authoritative end-of-round check: a logical AND of every
// rank's SortedFlag. All ranks get the same answer and stop in the same round.
func (s *sorter) converged(ctx context.Context, r *round) (bool, error) {
	if s.plan.SingleProcess() {
		return r.sorted, nil
	}
	var flag int64
	if r.sorted {
		flag = 1
	}
	started := mono.NanoTime()
	v, err := s.comm.AllReduce(ctx, transport.OpAnd, flag)
	s.tracker.AddSince(stats.CommTime, started)
	if err != nil {
		return false, errors.Wrapf(err, "round %d: convergence", r.num)
	}
	return v != 0, nil
}

// reduceFingerprint sums per-rank fingerprints; the sum wraps, as does Merge.
func (s *sorter) reduceFingerprint(ctx context.Context, fp medium.Fingerprint) (medium.Fingerprint, error) {
	if s.plan.SingleProcess() {
		return fp, nil
	}
	started := mono.NanoTime()
	defer s.tracker.AddSince(stats.CommTime, started)

	cnt, err := s.comm.AllReduce(ctx, transport.OpSum, fp.Count)
	if err != nil {
		return fp, err
	}
	sum, err := s.comm.AllReduce(ctx, transport.OpSum, int64(fp.Sum))
	if err != nil {
		return fp, err
	}
	return medium.Fingerprint{Count: cnt, Sum: uint64(sum)}, nil
}

func (s *sorter) checkIntegrity(ctx context.Context) error {
	after := medium.Digest(s.part)
	before, err := s.reduceFingerprint(ctx, s.res.Before)
	if err != nil {
		return errors.Wrap(err, "integrity")
	}
	if after, err = s.reduceFingerprint(ctx, after); err != nil {
		return errors.Wrap(err, "integrity")
	}
	s.res.Before, s.res.After = before, after
	if before != after {
		return &ErrIntegrity{Before: before, After: after}
	}
	s.res.Checked = true
	return nil
}
