// Package nlog - leveled logger with buffering, timestamping, and size-based rotation
/*
 * Copyright (c) 2023-2026, NVIDIA CORPORATION. All rights reserved.
 */
package nlog

import (
	"io"
	"strconv"
	"time"
)

// fixed-capacity buffer: len(buf) is the write offset, cap(buf) the limit;
// whatever does not fit is dropped
type fixed struct {
	buf []byte
}

// interface guard
var _ io.Writer = (*fixed)(nil)

func newFixed(size int) *fixed { return &fixed{buf: make([]byte, 0, size)} }

func (fb *fixed) Write(p []byte) (int, error) {
	fb.writeBytes(p)
	return len(p), nil
}

func (fb *fixed) writeBytes(p []byte) {
	if n := min(len(p), fb.avail()); n > 0 {
		fb.buf = append(fb.buf, p[:n]...)
	}
}

func (fb *fixed) writeString(s string) {
	if n := min(len(s), fb.avail()); n > 0 {
		fb.buf = append(fb.buf, s[:n]...)
	}
}

func (fb *fixed) writeByte(c byte) {
	if fb.avail() > 0 {
		fb.buf = append(fb.buf, c)
	}
}

func (fb *fixed) writeInt(v int) {
	var tmp [20]byte
	fb.writeBytes(strconv.AppendInt(tmp[:0], int64(v), 10))
}

const stampLen = len("15:04:05.000000")

func (fb *fixed) writeStamp(now time.Time) {
	if fb.avail() < stampLen {
		return
	}
	hour, minute, second := now.Clock()
	fb.buf = append2(fb.buf, hour)
	fb.buf = append(fb.buf, ':')
	fb.buf = append2(fb.buf, minute)
	fb.buf = append(fb.buf, ':')
	fb.buf = append2(fb.buf, second)
	fb.buf = append(fb.buf, '.')
	micros := now.Nanosecond() / int(time.Microsecond)
	for div := 100000; div > 0; div /= 10 {
		fb.buf = append(fb.buf, byte('0'+micros/div%10))
	}
}

func append2(b []byte, d int) []byte { return append(b, byte('0'+d/10), byte('0'+d%10)) }

func (fb *fixed) bytes() []byte { return fb.buf }
func (fb *fixed) length() int   { return len(fb.buf) }
func (fb *fixed) avail() int    { return cap(fb.buf) - len(fb.buf) }
func (fb *fixed) reset()        { fb.buf = fb.buf[:0] }

// terminate the line, overwriting the last byte when full
func (fb *fixed) eol() {
	n := len(fb.buf)
	switch {
	case n > 0 && fb.buf[n-1] == '\n':
	case fb.avail() > 0:
		fb.buf = append(fb.buf, '\n')
	default:
		fb.buf[n-1] = '\n'
	}
}
