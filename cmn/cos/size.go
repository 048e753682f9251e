// Package cos provides common low-level types and utilities for all oesort packages
/*
 * Copyright (c) 2022-2026, NVIDIA CORPORATION. All rights reserved.
 */
package cos

import "strconv"

const SizeofI32 = 4

// IEC (binary) units
const (
	KiB = 1024
	MiB = 1024 * KiB
	GiB = 1024 * MiB
	TiB = 1024 * GiB
)

var iecUnits = [...]struct {
	suffix string
	size   int64
}{
	{"TiB", TiB},
	{"GiB", GiB},
	{"MiB", MiB},
	{"KiB", KiB},
}

// ToSizeIEC formats b with the largest binary unit not exceeding it, e.g. 1.5MiB
func ToSizeIEC(b int64, digits int) string {
	for _, u := range iecUnits {
		if b >= u.size {
			return strconv.FormatFloat(float64(b)/float64(u.size), 'f', digits, 64) + u.suffix
		}
	}
	return strconv.FormatInt(b, 10) + "B"
}
