// Package oets implements distributed odd-even transposition sort: each rank sorts
// its contiguous block of the global array by alternating local compare-exchange
// passes with boundary exchanges, until a global reduction confirms no swaps.
/*
 * Copyright (c) 2026, NVIDIA CORPORATION. All rights reserved.
 */
package oets_test

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/oesort/oesort/medium"
	"github.com/oesort/oesort/oets"
	"github.com/oesort/oesort/stats"
	"github.com/oesort/oesort/tools/trand"
	"github.com/oesort/oesort/transport"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// single-sequence odd-even transposition sort: the composite the ranks must reproduce
func referenceSort(vals []int32) (rounds, swaps int64) {
	for {
		rounds++
		var n int64
		for off := range 2 {
			for i := off; i+1 < len(vals); i += 2 {
				if vals[i] > vals[i+1] {
					vals[i], vals[i+1] = vals[i+1], vals[i]
					n++
				}
			}
		}
		swaps += n
		if n == 0 {
			return rounds, swaps
		}
	}
}

func sortInMemory(vals []int32, world int, conf *oets.Config) ([]int32, []*oets.Result) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	out, results, err := oets.SortInMemory(ctx, vals, world, conf)
	Expect(err).NotTo(HaveOccurred())
	Expect(results).To(HaveLen(max(world, 1)))
	return out, results
}

// checks the output and the per-rank results against the reference
func expectReference(vals []int32, world int) []*oets.Result {
	out, results := sortInMemory(vals, world, &oets.Config{Integrity: true})

	ref := slices.Clone(vals)
	refRounds, refSwaps := referenceSort(ref)
	Expect(out).To(Equal(ref))
	Expect(slices.IsSorted(out)).To(BeTrue())

	var swaps int64
	for _, res := range results {
		swaps += res.LocalSwaps + res.BoundarySwaps
		Expect(res.Checked).To(BeTrue())
		Expect(res.Before).To(Equal(res.After))
		if !res.Plan.SingleProcess() {
			Expect(res.Rounds).To(Equal(refRounds), "%s", res.Plan.String())
			Expect(res.Before.Count).To(BeEquivalentTo(len(vals)))
		}
	}
	Expect(swaps).To(Equal(refSwaps))
	Expect(results[0].Rounds).To(Equal(refRounds))
	return results
}

var _ = Describe("SortInMemory", func() {
	It("should sort the reference example across two ranks", func() {
		vals := []int32{5, 3, 8, 1, 9, 2, 7, 4}
		out, results := sortInMemory(vals, 2, nil)
		Expect(out).To(Equal([]int32{1, 2, 3, 4, 5, 7, 8, 9}))
		Expect(results[0].Plan.Count).To(BeEquivalentTo(4))
		Expect(results[1].Plan.Head).To(BeEquivalentTo(4))
		Expect(results[0].Rounds).To(Equal(results[1].Rounds))
		// input is left intact
		Expect(vals).To(Equal([]int32{5, 3, 8, 1, 9, 2, 7, 4}))
		expectReference(vals, 2)
	})

	It("should reproduce sequential odd-even transposition sort for all small groups", func() {
		sizes := []int64{0, 1, 2, 3, 4, 5, 7, 8, 9, 13, 16, 17, 31, 40}
		for world := 1; world <= 8; world++ {
			for _, n := range sizes {
				for i, kind := range medium.Kinds {
					vals, err := medium.Values(n, uint64(world*1000+int(n)*10+i), kind)
					Expect(err).NotTo(HaveOccurred())
					By(fmt.Sprintf("world %d, %d %s elements", world, n, kind), func() {
						expectReference(vals, world)
					})
				}
			}
		}
	})

	It("should sort full-range values with duplicates", func() {
		vals := append(trand.Int32s(500), trand.Small(300, 3)...)
		expectReference(vals, 6)
	})

	DescribeTable("should sort across larger groups",
		func(world int, n int64) {
			vals, err := medium.Values(n, uint64(world), medium.KindRandom)
			Expect(err).NotTo(HaveOccurred())
			expectReference(vals, world)
		},
		Entry("4 ranks", 4, int64(400)),
		Entry("7 ranks", 7, int64(333)),
		Entry("10 ranks", 10, int64(257)),
		Entry("12 ranks", 12, int64(500)),
		Entry("15 ranks", 15, int64(301)),
		Entry("18 ranks", 18, int64(180)),
		Entry("24 ranks", 24, int64(300)),
		Entry("36 ranks, fewer elements than ranks", 36, int64(29)),
	)

	It("should converge reversed input within ceil(N/2)+1 rounds", func() {
		for _, n := range []int64{10, 33, 64, 101} {
			vals, err := medium.Values(n, 1, medium.KindReversed)
			Expect(err).NotTo(HaveOccurred())
			for _, world := range []int{2, 3, 5} {
				_, results := sortInMemory(vals, world, nil)
				Expect(results[0].Rounds).To(BeNumerically("<=", (n+1)/2+1))
				Expect(results[0].Rounds).To(BeNumerically(">", 1))
			}
		}
	})

	It("should confirm already sorted input in exactly one round", func() {
		vals, err := medium.Values(50, 1, medium.KindSorted)
		Expect(err).NotTo(HaveOccurred())
		out, results := sortInMemory(vals, 4, nil)
		Expect(out).To(Equal(vals))
		for _, res := range results {
			Expect(res.Rounds).To(BeEquivalentTo(1))
			Expect(res.LocalSwaps + res.BoundarySwaps).To(BeZero())
		}
	})

	It("should clamp the world to the number of elements", func() {
		out, results := sortInMemory([]int32{3, -1, 2}, 8, &oets.Config{Integrity: true})
		Expect(out).To(Equal([]int32{-1, 2, 3}))
		for r, res := range results {
			Expect(res.Plan.World).To(BeEquivalentTo(3))
			Expect(res.Plan.Inert()).To(Equal(r >= 3))
			Expect(res.Rounds).To(Equal(results[0].Rounds))
			if r >= 3 {
				Expect(res.Plan.Count).To(BeZero())
				Expect(res.Exchanges).To(BeZero())
			}
		}
	})

	It("should sort a single element without any communication", func() {
		out, results := sortInMemory([]int32{42}, 4, nil)
		Expect(out).To(Equal([]int32{42}))
		Expect(results[0].Plan.SingleProcess()).To(BeTrue())
		Expect(results[0].Rounds).To(BeEquivalentTo(1))
		Expect(results[0].Exchanges).To(BeZero())
	})

	It("should keep an empty last partition idle", func() {
		vals := []int32{9, 8, 7, 6, 5, 4, 3, 2, 1}
		out, results := sortInMemory(vals, 4, nil)
		Expect(out).To(Equal([]int32{1, 2, 3, 4, 5, 6, 7, 8, 9}))
		last := results[3]
		Expect(last.Plan.Inert()).To(BeFalse())
		Expect(last.Plan.Empty()).To(BeTrue())
		Expect(last.Exchanges).To(BeZero())
		Expect(results[2].Plan.Count).To(BeEquivalentTo(3))
	})

	It("should give up after max rounds", func() {
		vals, err := medium.Values(64, 1, medium.KindReversed)
		Expect(err).NotTo(HaveOccurred())
		_, _, err = oets.SortInMemory(context.Background(), vals, 4, &oets.Config{MaxRounds: 2})
		Expect(errors.Is(err, oets.ErrMaxRounds)).To(BeTrue())
	})

	It("should stop on cancellation", func() {
		vals, err := medium.Values(4096, 1, medium.KindReversed)
		Expect(err).NotTo(HaveOccurred())
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, _, err = oets.SortInMemory(ctx, vals, 4, nil)
		Expect(errors.Is(err, context.Canceled)).To(BeTrue())
	})
})

var _ = Describe("Run", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	runLocal := func(job *oets.Job, world int) []*oets.Result {
		var (
			comms   = transport.NewLocal(world)
			results = make([]*oets.Result, world)
			g, ctx  = errgroup.WithContext(context.Background())
		)
		for i, comm := range comms {
			g.Go(func() error {
				defer comm.Close()
				res, err := oets.Run(ctx, comm, job, stats.NewTracker(i))
				results[i] = res
				return err
			})
		}
		Expect(g.Wait()).To(Succeed())
		return results
	}

	It("should sort the medium and trim a stale output", func() {
		var (
			input  = filepath.Join(dir, "input.bin")
			output = filepath.Join(dir, "output.bin")
			n      = int64(1001)
		)
		Expect(medium.Generate(input, n, 7, medium.KindRandom)).To(Succeed())
		Expect(os.WriteFile(output, make([]byte, 8*n), 0o644)).To(Succeed())

		job := &oets.Job{Input: input, Output: output, Total: n, Integrity: true}
		results := runLocal(job, 4)

		report, err := medium.Verify(output, input)
		Expect(err).NotTo(HaveOccurred())
		Expect(report.OK()).To(BeTrue(), report.String())
		fi, err := os.Stat(output)
		Expect(err).NotTo(HaveOccurred())
		Expect(fi.Size()).To(Equal(4 * n))

		for r, res := range results {
			Expect(res.Timing.Rank).To(Equal(r))
			Expect(res.Timing.IO).To(BeNumerically(">", 0))
			Expect(res.Timing.Total).To(BeNumerically(">=", res.Timing.IO))
		}
	})

	It("should sort a prefix of a longer input", func() {
		var (
			input  = filepath.Join(dir, "input.bin")
			output = filepath.Join(dir, "output.bin")
		)
		Expect(medium.WriteAll(input, []int32{4, 3, 2, 1, 100, 99})).To(Succeed())
		runLocal(&oets.Job{Input: input, Output: output, Total: 4}, 3)
		vals, err := medium.ReadAll(output)
		Expect(err).NotTo(HaveOccurred())
		Expect(vals).To(Equal([]int32{1, 2, 3, 4}))
	})

	It("should handle an empty input", func() {
		var (
			input  = filepath.Join(dir, "input.bin")
			output = filepath.Join(dir, "output.bin")
		)
		Expect(medium.WriteAll(input, nil)).To(Succeed())
		Expect(os.WriteFile(output, []byte("stale"), 0o644)).To(Succeed())
		runLocal(&oets.Job{Input: input, Output: output, Total: 0}, 2)
		fi, err := os.Stat(output)
		Expect(err).NotTo(HaveOccurred())
		Expect(fi.Size()).To(BeZero())
	})

	It("should fail on a short input", func() {
		input := filepath.Join(dir, "input.bin")
		Expect(medium.WriteAll(input, []int32{1, 2, 3})).To(Succeed())
		comms := transport.NewLocal(1)
		_, err := oets.Run(context.Background(), comms[0],
			&oets.Job{Input: input, Output: filepath.Join(dir, "out.bin"), Total: 10}, nil)
		Expect(errors.Is(err, medium.ErrShortFile)).To(BeTrue())
	})

	It("should sort over the websocket mesh", func() {
		const world = 3
		var (
			input     = filepath.Join(dir, "input.bin")
			output    = filepath.Join(dir, "output.bin")
			n         = int64(257)
			listeners = make([]net.Listener, world)
			peers     = make([]string, world)
		)
		Expect(medium.Generate(input, n, 3, medium.KindFewUnique)).To(Succeed())
		for i := range world {
			ln, err := net.Listen("tcp", "127.0.0.1:0")
			Expect(err).NotTo(HaveOccurred())
			listeners[i], peers[i] = ln, ln.Addr().String()
		}
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		g, gctx := errgroup.WithContext(ctx)
		for i := range world {
			g.Go(func() error {
				m, err := transport.NewMesh(transport.MeshConfig{Listener: listeners[i], Job: "sort", Peers: peers, Rank: i})
				if err != nil {
					return err
				}
				defer m.Close()
				if err := m.Connect(gctx); err != nil {
					return err
				}
				_, err = oets.Run(gctx, m, &oets.Job{Input: input, Output: output, Total: n, Integrity: true}, nil)
				return err
			})
		}
		Expect(g.Wait()).To(Succeed())

		report, err := medium.Verify(output, input)
		Expect(err).NotTo(HaveOccurred())
		Expect(report.OK()).To(BeTrue(), report.String())
	})
})
