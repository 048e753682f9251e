// Package medium reads and writes per-rank ranges of the flat binary file of
// 4-byte native-endian signed integers (no header, no padding)
/*
 * Copyright (c) 2026, NVIDIA CORPORATION. All rights reserved.
 */
package medium

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint is an order-independent digest of a multiset of values:
// equal multisets yield equal fingerprints no matter how the values are
// distributed across ranks or ordered within them.
type Fingerprint struct {
	Count int64
	Sum   uint64 // wrapping sum of per-value xxhash
}

func Digest(vals []int32) (fp Fingerprint) {
	fp.Add(vals)
	return
}

func (fp *Fingerprint) Add(vals []int32) {
	var b [4]byte
	for _, v := range vals {
		binary.LittleEndian.PutUint32(b[:], uint32(v))
		fp.Sum += xxhash.Sum64(b[:])
	}
	fp.Count += int64(len(vals))
}

func (fp *Fingerprint) Merge(other Fingerprint) {
	fp.Count += other.Count
	fp.Sum += other.Sum
}

func (fp Fingerprint) String() string { return fmt.Sprintf("fp[n=%d, %016x]", fp.Count, fp.Sum) }
