// Package tassert provides common asserts for tests
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package tassert

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"
)

const (
	modPrefix = "oesort/"
	maxFrames = 8
)

// tests that already failed fatally; a second CheckFatal from another
// goroutine of the same test (e.g. another rank) only logs
var (
	fatalities = make(map[string]struct{}, 4)
	mu         sync.Mutex
)

func CheckFatal(tb testing.TB, err error) {
	if err == nil {
		return
	}
	mu.Lock()
	_, dup := fatalities[tb.Name()]
	fatalities[tb.Name()] = struct{}{}
	mu.Unlock()
	if dup {
		tb.Logf("--- %s: duplicate CheckFatal: %v", tb.Name(), err)
		runtime.Goexit()
	}
	report(tb, true, stamp(), err)
}

func Fatal(tb testing.TB, cond bool, msg string) {
	if !cond {
		report(tb, true, msg)
	}
}

func Fatalf(tb testing.TB, cond bool, format string, args ...any) {
	if !cond {
		report(tb, true, fmt.Sprintf(format, args...))
	}
}

func Errorf(tb testing.TB, cond bool, format string, args ...any) {
	if !cond {
		report(tb, false, fmt.Sprintf(format, args...))
	}
}

func report(tb testing.TB, fatal bool, args ...any) {
	os.Stderr.WriteString(callers())
	if fatal {
		tb.Fatal(args...)
	}
	tb.Error(args...)
}

func stamp() string { return "[" + time.Now().Format("15:04:05.000000") + "]" }

// module-relative file:line of the test code that failed (tassert frames skipped)
func callers() string {
	var (
		pcs    [maxFrames + 2]uintptr
		n      = runtime.Callers(3, pcs[:])
		frames = runtime.CallersFrames(pcs[:n])
		sb     strings.Builder
	)
	sb.WriteString("    tassert:\n")
	for {
		fr, more := frames.Next()
		i := strings.Index(fr.File, modPrefix)
		if i < 0 {
			break
		}
		if !strings.Contains(fr.File, "/tassert/") {
			fmt.Fprintf(&sb, "\t%s:%d\n", fr.File[i+len(modPrefix):], fr.Line)
		}
		if !more {
			break
		}
	}
	return sb.String()
}
