// Package medium reads and writes per-rank ranges of the flat binary file of
// 4-byte native-endian signed integers (no header, no padding)
/*
 * Copyright (c) 2026, NVIDIA CORPORATION. All rights reserved.
 */
package medium

import (
	"bufio"
	"math"
	"math/rand/v2"
	"os"
	"slices"

	"github.com/oesort/oesort/cmn/cos"

	"github.com/pkg/errors"
)

// input kinds
const (
	KindRandom    = "random"
	KindReversed  = "reversed"
	KindSorted    = "sorted"
	KindFewUnique = "few-unique" // values drawn from a 16-element alphabet
)

var Kinds = []string{KindRandom, KindReversed, KindSorted, KindFewUnique}

// Values generates n values of the given kind; reproducible for a given seed.
func Values(n int64, seed uint64, kind string) ([]int32, error) {
	if !slices.Contains(Kinds, kind) {
		return nil, cos.NewErrUsage("invalid input kind %q (expecting one of: %v)", kind, Kinds)
	}
	var (
		rnd  = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
		vals = make([]int32, n)
	)
	for i := range vals {
		switch kind {
		case KindRandom:
			vals[i] = int32(rnd.Uint32())
		case KindReversed:
			vals[i] = int32(n - int64(i))
		case KindSorted:
			vals[i] = int32(int64(i) - n/2)
		case KindFewUnique:
			vals[i] = int32(rnd.IntN(16)) - 8
		}
	}
	if kind == KindRandom && n > 1 {
		// make sure both extremes are present
		vals[rnd.Int64N(n)] = math.MinInt32
		vals[rnd.Int64N(n)] = math.MaxInt32
	}
	return vals, nil
}

// Generate writes a test input of n elements.
func Generate(path string, n int64, seed uint64, kind string) error {
	vals, err := Values(n, seed, kind)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %q", path)
	}
	var (
		bw  = bufio.NewWriterSize(f, chunkSize)
		buf = make([]byte, cos.SizeofI32)
	)
	for _, v := range vals {
		encode(buf, []int32{v})
		if _, err := bw.Write(buf); err != nil {
			f.Close()
			return errors.Wrapf(err, "failed to write %q", path)
		}
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return errors.Wrapf(err, "failed to flush %q", path)
	}
	return errors.Wrapf(f.Close(), "failed to close %q", path)
}
