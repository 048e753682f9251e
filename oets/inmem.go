// Package oets implements distributed odd-even transposition sort: each rank sorts
// its contiguous block of the global array by alternating local compare-exchange
// passes with boundary exchanges, until a global reduction confirms no swaps.
/*
 * Copyright (c) 2026, NVIDIA CORPORATION. All rights reserved.
 */
package oets

import (
	"context"
	"slices"

	"github.com/oesort/oesort/plan"
	"github.com/oesort/oesort/stats"
	"github.com/oesort/oesort/transport"

	"golang.org/x/sync/errgroup"
)

// SortInMemory runs `world` ranks as goroutines over the in-process transport
// and returns the sorted copy of vals along with per-rank results (by rank).
// conf.Tracker is ignored: each rank gets its own.
func SortInMemory(ctx context.Context, vals []int32, world int, conf *Config) ([]int32, []*Result, error) {
	var (
		total   = int64(len(vals))
		comms   = transport.NewLocal(world)
		out     = make([]int32, len(vals))
		results = make([]*Result, len(comms))
	)
	if conf == nil {
		conf = &Config{}
	}
	g, gctx := errgroup.WithContext(ctx)
	for i, comm := range comms {
		g.Go(func() error {
			defer comm.Close()
			var (
				part  []int32
				p     = plan.New(total, int64(len(comms)), int64(i))
				rconf = &Config{Tracker: stats.NewTracker(i), MaxRounds: conf.MaxRounds, Integrity: conf.Integrity}
			)
			lo, hi := p.Range()
			if !p.Empty() {
				part = slices.Clone(vals[lo:hi])
			}
			res, err := SortPartition(gctx, comm, p, part, rconf)
			if err != nil {
				return err
			}
			if !p.Empty() {
				copy(out[lo:hi], part)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return out, results, nil
}
