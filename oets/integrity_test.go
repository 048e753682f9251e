// Package oets implements distributed odd-even transposition sort: each rank sorts
// its contiguous block of the global array by alternating local compare-exchange
// passes with boundary exchanges, until a global reduction confirms no swaps.
/*
 * Copyright (c) 2026, NVIDIA CORPORATION. All rights reserved.
 */
package oets

import (
	"context"
	"time"

	"github.com/oesort/oesort/medium"
	"github.com/oesort/oesort/plan"
	"github.com/oesort/oesort/stats"
	"github.com/oesort/oesort/transport"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// sorters over a local group, each holding its block of vals and its
// pre-sort fingerprint
func newSorters(vals []int32) []*sorter {
	var (
		world = len(vals) / 3
		comms = transport.NewLocal(world)
		ss    = make([]*sorter, world)
	)
	for r := range world {
		p := plan.New(int64(len(vals)), int64(world), int64(r))
		part := append([]int32(nil), vals[p.Head:p.Head+p.Count]...)
		ss[r] = &sorter{
			comm:    comms[r],
			tracker: stats.NewTracker(r),
			conf:    &Config{Integrity: true},
			res:     &Result{Before: medium.Digest(part)},
			part:    part,
			plan:    p,
		}
	}
	return ss
}

func checkAll(ss []*sorter) []error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	var (
		g    errgroup.Group
		errs = make([]error, len(ss))
	)
	for i, s := range ss {
		g.Go(func() error {
			errs[i] = s.checkIntegrity(ctx)
			return nil
		})
	}
	g.Wait()
	return errs
}

var _ = Describe("Integrity", func() {
	vals := []int32{9, -4, 0, 17, 3, 3, -8, 12, 5, 1, 0, 6}

	It("should pass when the multiset is unchanged", func() {
		ss := newSorters(vals)
		// reordering within and across partitions keeps the multiset
		ss[0].part[0], ss[0].part[2] = ss[0].part[2], ss[0].part[0]
		ss[1].part[0], ss[2].part[0] = ss[2].part[0], ss[1].part[0]
		for i, err := range checkAll(ss) {
			Expect(err).NotTo(HaveOccurred(), "rank %d", i)
			Expect(ss[i].res.Checked).To(BeTrue())
			Expect(ss[i].res.Before).To(Equal(ss[i].res.After))
			Expect(ss[i].res.Before.Count).To(BeEquivalentTo(len(vals)))
		}
	})

	DescribeTable("should fail on every rank when one partition is corrupted",
		func(rank, idx int, val int32) {
			ss := newSorters(vals)
			ss[rank].part[idx] = val
			for i, err := range checkAll(ss) {
				Expect(IsErrIntegrity(err)).To(BeTrue(), "rank %d: %v", i, err)
				var e *ErrIntegrity
				Expect(errors.As(err, &e)).To(BeTrue())
				Expect(e.Before).NotTo(Equal(e.After))
				Expect(e.Before.Count).To(Equal(e.After.Count))
				Expect(ss[i].res.Checked).To(BeFalse())
			}
		},
		Entry("first rank, value replaced", 0, 0, int32(100)),
		Entry("middle rank, duplicate of a neighbor", 1, 2, int32(9)),
		Entry("last rank, sign flipped", 3, 2, int32(-6)),
	)

	It("should fail in a group of one", func() {
		part := []int32{3, 1, 2}
		s := &sorter{
			comm:    transport.NewLocal(1)[0],
			tracker: stats.NewTracker(0),
			conf:    &Config{Integrity: true},
			res:     &Result{Before: medium.Digest(part)},
			part:    part,
			plan:    plan.New(3, 1, 0),
		}
		part[1] = part[0]
		err := s.checkIntegrity(context.Background())
		Expect(IsErrIntegrity(err)).To(BeTrue())
		Expect(IsErrIntegrity(errors.Wrap(err, "rank 0"))).To(BeTrue())
		Expect(IsErrIntegrity(ErrMaxRounds)).To(BeFalse())
	})
})
