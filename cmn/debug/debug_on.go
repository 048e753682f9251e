//go:build debug

// Package debug provides assertions and debug-only hooks compiled in with `-tags debug`
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package debug

import (
	"fmt"

	"github.com/oesort/oesort/cmn/nlog"
)

const Enabled = true

func Infof(f string, a ...any) {
	nlog.InfoDepth(1, fmt.Sprintf("[DEBUG] "+f, a...))
}

func Assert(cond bool, a ...any) {
	if !cond {
		msg := "DEBUG PANIC"
		if len(a) > 0 {
			msg += ": " + fmt.Sprint(a...)
		}
		nlog.ErrorDepth(1, msg)
		nlog.Flush()
		panic(msg)
	}
}

func Assertf(cond bool, f string, a ...any) {
	if !cond {
		Assert(false, fmt.Sprintf(f, a...))
	}
}

func AssertNoErr(err error) {
	if err != nil {
		nlog.ErrorDepth(1, err)
		nlog.Flush()
		panic(err)
	}
}
