// Package trand provides random strings and int32 sequences for dev tools and tests
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package trand

import (
	"math"
	"math/rand/v2"
)

const letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

func String(n int) string {
	b := make([]byte, n)
	for i := range n {
		b[i] = letters[rand.IntN(len(letters))]
	}
	return string(b)
}

// Int32s returns n values spanning the full int32 range, including the extremes
// whenever n is large enough to hold them.
func Int32s(n int) []int32 {
	vals := make([]int32, n)
	for i := range vals {
		vals[i] = int32(rand.Uint32())
	}
	if n > 2 {
		vals[rand.IntN(n)] = math.MinInt32
		vals[rand.IntN(n)] = math.MaxInt32
	}
	return vals
}

// Small returns n values drawn from [-limit, limit], i.e. with plenty of duplicates.
func Small(n int, limit int32) []int32 {
	vals := make([]int32, n)
	for i := range vals {
		vals[i] = rand.Int32N(2*limit+1) - limit
	}
	return vals
}
