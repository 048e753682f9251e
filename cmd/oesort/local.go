// Package main is the oesort command: distributed odd-even transposition sort
// of flat files of 4-byte integers
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package main

import (
	"github.com/oesort/oesort/cmn/cos"
	"github.com/oesort/oesort/cmn/nlog"
	"github.com/oesort/oesort/medium"
	"github.com/oesort/oesort/oets"
	"github.com/oesort/oesort/stats"
	"github.com/oesort/oesort/transport"

	"github.com/pkg/errors"
	"github.com/urfave/cli"
	"golang.org/x/sync/errgroup"
)

// localHandler runs the whole group inside this process: either each rank
// reads and writes its own range of the files (default), or the input is
// loaded once and sorted in memory.
func localHandler(c *cli.Context) error {
	job, err := parseJob(c)
	if err != nil {
		return err
	}
	world := parseIntFlag(c, worldFlag)
	if world < 1 {
		return cos.NewErrUsage("%s must be positive, got %d", flprn(worldFlag), world)
	}
	config, err := loadConfig(c)
	if err != nil {
		return err
	}
	job.MaxRounds, job.Integrity = config.MaxRounds, config.Integrity.Enabled
	setupLog(config, "")
	defer nlog.Flush()

	ctx, cancel := withTimeout(c)
	defer cancel()

	var (
		results  = make([]*oets.Result, world)
		trackers = make([]*stats.Tracker, world)
	)
	if flagIsSet(c, inMemoryFlag) {
		vals, err := medium.ReadAll(job.Input)
		if err != nil {
			return err
		}
		if int64(len(vals)) < job.Total {
			return errors.Wrapf(medium.ErrShortFile, "%q: %d elements, expecting %d", job.Input, len(vals), job.Total)
		}
		conf := &oets.Config{MaxRounds: job.MaxRounds, Integrity: job.Integrity}
		sorted, res, err := oets.SortInMemory(ctx, vals[:job.Total], world, conf)
		if err != nil {
			return err
		}
		if err := medium.WriteAll(job.Output, sorted); err != nil {
			return err
		}
		results = res
	} else {
		comms := transport.NewLocal(world)
		g, gctx := errgroup.WithContext(ctx)
		for rank, comm := range comms {
			trackers[rank] = stats.NewTracker(rank)
			g.Go(func() error {
				defer comm.Close()
				res, err := oets.Run(gctx, comm, job, trackers[rank])
				results[rank] = res
				return errors.Wrapf(err, "r%d", rank)
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}
	for rank, res := range results {
		if config.Timing.Report && res != nil {
			nlog.Infoln(res.Timing.String())
		}
		if nlog.V(4) && trackers[rank] != nil {
			nlog.Infoln(trackers[rank].String())
		}
	}
	if flagIsSet(c, jsonFlag) {
		actionDone(c, "%s", cos.MustMarshalToString(results))
	}
	return nil
}
