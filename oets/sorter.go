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
	"github.com/oesort/oesort/cmn/mono"
	"github.com/oesort/oesort/cmn/nlog"
	"github.com/oesort/oesort/medium"
	"github.com/oesort/oesort/plan"
	"github.com/oesort/oesort/stats"
	"github.com/oesort/oesort/tracing"
	"github.com/oesort/oesort/transport"

	"github.com/pkg/errors"
)

type (
	// Job is the same on every rank of the group.
	Job struct {
		Input     string
		Output    string
		Total     int64
		MaxRounds int64 // 0: unlimited
		Integrity bool  // compare global fingerprints before and after
	}

	Config struct {
		Tracker   *stats.Tracker // nil: private
		MaxRounds int64
		Integrity bool
	}

	Result struct {
		Plan          plan.Plan
		Before        medium.Fingerprint // global, once Checked
		After         medium.Fingerprint
		Timing        stats.Timing
		Rounds        int64
		LocalSwaps    int64
		BoundarySwaps int64 // as receiver
		Exchanges     int64
		Checked       bool // integrity verified
	}

	sorter struct {
		comm    transport.Comm
		tracker *stats.Tracker
		conf    *Config
		res     *Result
		part    []int32
		plan    plan.Plan
	}

	// round context
	round struct {
		s      *sorter
		num    int64 // 1-based
		swaps  int64 // local and boundary, this rank
		sorted bool  // SortedFlag: no swaps on this rank so far
	}
)

// Run sorts one rank's share of job.Input into job.Output; every rank of the
// group must call it with the same job.
func Run(ctx context.Context, comm transport.Comm, job *Job, tracker *stats.Tracker) (*Result, error) {
	if tracker == nil {
		tracker = stats.NewTracker(comm.Rank())
	}
	p := plan.New(job.Total, int64(comm.Size()), int64(comm.Rank()))
	if p.Inert() {
		nlog.Infoln(p.String(), "is inert (world clamped to", p.World, "ranks)")
	} else if nlog.V(4) {
		nlog.Infoln(p.String())
	}

	ctx, span := tracing.StartSpan(ctx, "oets.run")
	defer span.End()

	started := mono.NanoTime()
	part, err := medium.Read(job.Input, p)
	tracker.AddSince(stats.IOTime, started)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	conf := &Config{Tracker: tracker, MaxRounds: job.MaxRounds, Integrity: job.Integrity}
	res, err := SortPartition(ctx, comm, p, part, conf)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	started = mono.NanoTime()
	err = medium.Write(job.Output, p, part)
	tracker.AddSince(stats.IOTime, started)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	res.Timing = tracker.Timing()
	span.SetInt("rounds", res.Rounds)
	span.SetInt("elements", p.Count)
	nlog.Infof("%s: sorted in %d rounds (local swaps %d, boundary swaps %d)",
		p.String(), res.Rounds, res.LocalSwaps, res.BoundarySwaps)
	return res, nil
}

// SortPartition sorts part, this rank's block as described by p, in place.
// The number of rounds is the same on all ranks of a multi-rank group.
func SortPartition(ctx context.Context, comm transport.Comm, p plan.Plan, part []int32, conf *Config) (*Result, error) {
	debug.Assertf(int64(len(part)) == p.Count, "%s: %d elements", p.String(), len(part))
	if conf == nil {
		conf = &Config{}
	}
	s := &sorter{
		comm:    comm,
		tracker: conf.Tracker,
		conf:    conf,
		res:     &Result{Plan: p},
		part:    part,
		plan:    p,
	}
	if s.tracker == nil {
		s.tracker = stats.NewTracker(comm.Rank())
	}
	s.tracker.Add(stats.ElementCount, p.Count)
	var (
		cstats       = comm.Stats()
		sent0, recv0 = cstats.Sent.Load(), cstats.Recv.Load()
	)
	if conf.Integrity {
		s.res.Before = medium.Digest(part)
	}

	ctx, span := tracing.StartSpan(ctx, "oets.sort")
	defer span.End()

	if err := s.rounds(ctx); err != nil {
		span.SetError(err)
		return nil, err
	}
	if conf.Integrity {
		if err := s.checkIntegrity(ctx); err != nil {
			span.SetError(err)
			return nil, err
		}
	}
	s.tracker.Add(stats.MsgSentCount, cstats.Sent.Load()-sent0)
	s.tracker.Add(stats.MsgRecvCount, cstats.Recv.Load()-recv0)
	s.res.Timing = s.tracker.Timing()
	span.SetInt("rounds", s.res.Rounds)
	span.SetInt("swaps", s.res.LocalSwaps+s.res.BoundarySwaps)
	return s.res, nil
}

func (s *sorter) rounds(ctx context.Context) error {
	for {
		r := &round{s: s, num: s.res.Rounds + 1, sorted: true}
		if err := r.run(ctx); err != nil {
			return err
		}
		sorted, err := s.converged(ctx, r)
		if err != nil {
			return err
		}
		s.res.Rounds = r.num
		s.tracker.Inc(stats.RoundCount)
		if nlog.V(4) {
			nlog.Infof("r%d round %d: swaps %d, sorted %t (all ranks: %t)", s.comm.Rank(), r.num, r.swaps, r.sorted, sorted)
		}
		if sorted {
			return nil
		}
		if s.conf.MaxRounds > 0 && r.num >= s.conf.MaxRounds {
			return errors.Wrapf(ErrMaxRounds, "r%d: %d", s.comm.Rank(), s.conf.MaxRounds)
		}
	}
}

// even phase then odd; each is a local pass followed by the boundary exchange
// and a barrier
func (r *round) run(ctx context.Context) error {
	s := r.s
	for _, ph := range phases {
		started := mono.NanoTime()
		swaps := localPass(s.part, passOffset(ph, s.plan.Head))
		s.tracker.AddSince(stats.CompTime, started)
		r.swapped(swaps, &s.res.LocalSwaps, stats.LocalSwapCount)

		if s.plan.SingleProcess() {
			continue
		}
		started = mono.NanoTime()
		err := r.exchange(ctx, ph)
		if err == nil {
			err = s.comm.Barrier(ctx)
		}
		s.tracker.AddSince(stats.CommTime, started)
		if err != nil {
			return errors.Wrapf(err, "round %d, %s phase", r.num, ph)
		}
	}
	return nil
}

func (r *round) swapped(n int64, total *int64, name string) {
	if n == 0 {
		return
	}
	r.sorted = false
	r.swaps += n
	*total += n
	r.s.tracker.Add(name, n)
}
