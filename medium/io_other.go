//go:build !linux

// Package medium reads and writes per-rank ranges of the flat binary file of
// 4-byte native-endian signed integers (no header, no padding)
/*
 * Copyright (c) 2026, NVIDIA CORPORATION. All rights reserved.
 */
package medium

import "os"

func fadvise(*os.File, int64, int64) {}

func fdatasync(f *os.File) error { return f.Sync() }
