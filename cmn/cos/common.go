// Package cos provides common low-level types and utilities for all oesort packages
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package cos

import (
	"fmt"
	"io"
	"os"

	"github.com/oesort/oesort/cmn/nlog"
)

// Close closes and logs (but otherwise ignores) the error, if any
func Close(closer io.Closer) {
	if err := closer.Close(); err != nil {
		nlog.ErrorDepth(1, "failed to close:", err)
	}
}

//////////////////////////
// Abnormal Termination //
//////////////////////////

// Exitf writes formatted message to STDERR and exits with non-zero status code.
func Exitf(f string, a ...any) {
	fmt.Fprintf(os.Stderr, f, a...)
	fmt.Fprintln(os.Stderr)
	os.Exit(1)
}

// ExitLogf is `Exitf` that also logs and flushes; use it once nlog is set up.
func ExitLogf(f string, a ...any) {
	nlog.ErrorDepth(1, fmt.Sprintf("FATAL ERROR: "+f, a...))
	nlog.FlushExit()
	if nlog.ToStderr() {
		os.Exit(1) // already on stderr
	}
	Exitf(f, a...)
}

func ExitLog(err error) { ExitLogf("%v", err) }
