// Package medium reads and writes per-rank ranges of the flat binary file of
// 4-byte native-endian signed integers (no header, no padding)
/*
 * Copyright (c) 2026, NVIDIA CORPORATION. All rights reserved.
 */
package medium

import (
	"os"

	"golang.org/x/sys/unix"
)

// advisory only; length 0 means "to the end of file"
func fadvise(f *os.File, off, length int64) {
	_ = unix.Fadvise(int(f.Fd()), off, length, unix.FADV_SEQUENTIAL)
}

// cheaper than fsync: data plus the metadata needed to read it back
func fdatasync(f *os.File) error {
	return unix.Fdatasync(int(f.Fd()))
}
