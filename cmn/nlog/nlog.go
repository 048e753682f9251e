// Package nlog - leveled logger with buffering, timestamping, and size-based rotation
/*
 * Copyright (c) 2023-2026, NVIDIA CORPORATION. All rights reserved.
 */
package nlog

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/oesort/oesort/cmn/mono"
)

const (
	nlogBufSize  = 64 * 1024
	nlogLineSize = 4 * 1024

	flushIval = 10 * time.Second
)

type severity int

const (
	sevInfo severity = iota
	sevWarn
	sevErr
)

type nlog struct {
	file *os.File
	pw   *fixed
	last int64
	size int64
	sev  severity
	mw   sync.Mutex
}

//
// nlog
//

func newNlog(sev severity) *nlog {
	return &nlog{
		sev: sev,
		pw:  newFixed(nlogBufSize),
	}
}

// main function
func log(sev severity, depth int, format string, args ...any) {
	onceInitFiles.Do(initFiles)

	fb := alloc()
	sprintf(sev, depth, format, fb, args...)
	switch {
	case toStderr:
		os.Stderr.Write(fb.bytes())
	default:
		if alsoToStderr || sev >= sevErr {
			os.Stderr.Write(fb.bytes())
		}
		if sev >= sevWarn {
			nlogs[sevErr].write(fb)
		}
		nlogs[sevInfo].write(fb)
	}
	free(fb)
}

func (nlog *nlog) write(line *fixed) {
	nlog.mw.Lock()
	nlog.pw.Write(line.bytes())
	if nlog.pw.avail() <= nlogLineSize || mono.Since(nlog.last) > flushIval {
		nlog.do()
	}
	nlog.mw.Unlock()
}

func (nlog *nlog) flush() {
	nlog.mw.Lock()
	nlog.do()
	nlog.mw.Unlock()
}

func (nlog *nlog) close() {
	nlog.mw.Lock()
	nlog.do()
	if nlog.file != nil {
		nlog.file.Close()
		nlog.file = nil
	}
	nlog.mw.Unlock()
}

// under mw-lock
func (nlog *nlog) do() {
	defer nlog.pw.reset()
	nlog.last = mono.NanoTime()
	if nlog.pw.length() == 0 {
		return
	}
	if nlog.file == nil {
		os.Stderr.Write(nlog.pw.bytes())
		return
	}
	n, err := nlog.file.Write(nlog.pw.bytes())
	if err != nil {
		if !Stopping() {
			os.Stderr.WriteString("nlog: " + err.Error() + "\n")
		}
		return
	}
	nlog.size += int64(n)
	if nlog.size >= MaxSize {
		nlog.file.Close()
		if err := nlog.rotate(time.Now()); err != nil {
			os.Stderr.WriteString("nlog: " + err.Error() + "\n")
			nlog.file = nil
		}
	}
}

func (nlog *nlog) rotate(now time.Time) (err error) {
	var (
		s    = fmt.Sprintf("host %s, %s for %s/%s\n", host, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		snow = now.Format("2006/01/02 15:04:05")
	)
	if nlog.file, _, err = fcreate(sevText[nlog.sev], now); err != nil {
		return
	}
	nlog.size = 0
	if nlog.last == 0 {
		_, err = nlog.file.WriteString("Started up at " + snow + ", " + s)
	} else {
		_, err = nlog.file.WriteString("Rotated at " + snow + ", " + s)
	}
	if err == nil && title != "" {
		_, err = nlog.file.WriteString(title + "\n")
	}
	return
}

//
// formatting
//

func formatHdr(s severity, depth int, fb *fixed) {
	const char = "IWE"
	_, fn, ln, ok := runtime.Caller(3 + depth)
	if !ok {
		return
	}
	if idx := strings.LastIndexByte(fn, filepath.Separator); idx > 0 {
		fn = fn[idx+1:]
	}
	fn = strings.TrimSuffix(fn, ".go")
	fb.writeByte(char[s])
	fb.writeByte(' ')
	fb.writeStamp(time.Now())
	fb.writeByte(' ')
	if logRole != "" {
		fb.writeString(logRole)
		fb.writeByte(' ')
	}
	fb.writeString(fn)
	fb.writeByte(':')
	fb.writeInt(ln)
	fb.writeByte(' ')
}

func sprintf(sev severity, depth int, format string, fb *fixed, args ...any) {
	formatHdr(sev, depth+1, fb)
	if format == "" {
		fmt.Fprintln(fb, args...)
	} else {
		fmt.Fprintf(fb, format, args...)
	}
	fb.eol()
}

func alloc() (fb *fixed) {
	fb = pool.Get().(*fixed)
	fb.reset()
	return
}

func free(fb *fixed) { pool.Put(fb) }
