// Package oets implements distributed odd-even transposition sort: each rank sorts
// its contiguous block of the global array by alternating local compare-exchange
// passes with boundary exchanges, until a global reduction confirms no swaps.
/*
 * Copyright (c) 2026, NVIDIA CORPORATION. All rights reserved.
 */
package oets

// localPass does one compare-exchange sweep over pairs (i, i+1), i = off, off+2, ...
// and returns the number of swaps.
func localPass(part []int32, off int) (swaps int64) {
	for i := off; i+1 < len(part); i += 2 {
		if part[i] > part[i+1] {
			part[i], part[i+1] = part[i+1], part[i]
			swaps++
		}
	}
	return swaps
}

// local pairs must line up with the global ones: for an odd Head the even
// phase starts at local index 1
func passOffset(ph Phase, head int64) int {
	return int(ph) ^ int(head&1)
}
