// Package nlog - leveled logger with buffering, timestamping, and size-based rotation
/*
 * Copyright (c) 2023-2026, NVIDIA CORPORATION. All rights reserved.
 */
package nlog

import (
	"path/filepath"
	"sync/atomic"
)

var (
	MaxSize int64 = 4 * 1024 * 1024

	verbosity atomic.Int32
)

// Setup must be called (if at all) before the first log line.
// Empty dir keeps logging on stderr.
func Setup(dir string, alsoStderr bool) {
	if dir == "" {
		toStderr = true
		return
	}
	logDir, toStderr, alsoToStderr = filepath.Clean(dir), false, alsoStderr
}

func SetRole(role string) { logRole = role }
func SetTitle(s string)   { title = s }
func SetVerbosity(v int)  { verbosity.Store(int32(v)) }
func V(level int) bool    { return verbosity.Load() >= int32(level) }
func ToStderr() bool      { return toStderr }
func InfoLogName() string { return sname() + ".INFO" }
func ErrLogName() string  { return sname() + ".ERROR" }
func Stopping() bool      { return stopping.Load() }

func InfoDepth(depth int, args ...any)    { log(sevInfo, depth, "", args...) }
func Infoln(args ...any)                  { log(sevInfo, 0, "", args...) }
func Infof(format string, args ...any)    { log(sevInfo, 0, format, args...) }
func Warningln(args ...any)               { log(sevWarn, 0, "", args...) }
func Warningf(format string, args ...any) { log(sevWarn, 0, format, args...) }
func ErrorDepth(depth int, args ...any)   { log(sevErr, depth, "", args...) }
func Errorln(args ...any)                 { log(sevErr, 0, "", args...) }
func Errorf(format string, args ...any)   { log(sevErr, 0, format, args...) }

func Flush() {
	for _, nlog := range nlogs {
		if nlog != nil {
			nlog.flush()
		}
	}
}

func FlushExit() {
	stopping.Store(true)
	for _, nlog := range nlogs {
		if nlog != nil {
			nlog.close()
		}
	}
}
