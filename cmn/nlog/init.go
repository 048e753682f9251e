// Package nlog - leveled logger with buffering, timestamping, and size-based rotation
/*
 * Copyright (c) 2023-2026, NVIDIA CORPORATION. All rights reserved.
 */
package nlog

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

var (
	host    = "unknown"
	sevText = []string{sevInfo: "INFO", sevWarn: "WARNING", sevErr: "ERROR"}

	// of `fixed` line bufs
	pool = sync.Pool{
		New: func() any {
			return newFixed(nlogLineSize)
		},
	}
)

var (
	nlogs [3]*nlog

	logDir       string
	logRole      string
	arg0         string
	title        string
	toStderr     = true
	alsoToStderr bool

	pid int

	onceInitFiles sync.Once

	stopping atomic.Bool
)

func init() {
	pid = os.Getpid()
	arg0 = filepath.Base(os.Args[0])
	if h, err := os.Hostname(); err == nil {
		host = _shortHost(h)
	}
}

func initFiles() {
	if toStderr {
		return
	}
	now := time.Now()
	for _, sev := range []severity{sevInfo, sevErr} {
		nlog := newNlog(sev)
		if err := nlog.rotate(now); err != nil {
			// fall back to stderr
			fmt.Fprintf(os.Stderr, "nlog: unable to create logs in %q: %v\n", logDir, err)
			toStderr = true
			return
		}
		nlogs[sev] = nlog
	}
}

func sname() string {
	if logRole != "" {
		return arg0 + "." + logRole
	}
	return arg0
}

func _shortHost(hostname string) string {
	before, _, _ := strings.Cut(hostname, ".")
	return before
}

func fcreate(tag string, t time.Time) (f *os.File, fname string, err error) {
	if err = os.MkdirAll(logDir, 0o755); err != nil {
		return
	}
	name, link := logfname(tag, t)
	fname = filepath.Join(logDir, name)
	f, err = os.OpenFile(fname, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o640)
	if err != nil {
		return
	}
	// re-symlink
	symlink := filepath.Join(logDir, link)
	os.Remove(symlink)
	os.Symlink(name, symlink)
	return
}

// <arg0>[.<role>].<host>.<tag>.<MMDD-hhmmss>.<pid>, and the symlink <arg0>[.<role>].<tag>
func logfname(tag string, t time.Time) (name, link string) {
	s := sname()
	name = s + "." + host + "." + tag + "." + t.Format("0102-150405") + "." + strconv.Itoa(pid)
	return name, s + "." + tag
}
