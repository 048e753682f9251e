// Package medium reads and writes per-rank ranges of the flat binary file of
// 4-byte native-endian signed integers (no header, no padding)
/*
 * Copyright (c) 2026, NVIDIA CORPORATION. All rights reserved.
 */
package medium

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/oesort/oesort/cmn/cos"
	"github.com/oesort/oesort/cmn/debug"
	"github.com/oesort/oesort/plan"

	"github.com/pkg/errors"
)

const chunkSize = 256 * cos.KiB // bytes; multiple of cos.SizeofI32

// the file is shorter than the element count the run was started with
var ErrShortFile = errors.New("medium is shorter than the planned partition")

var endian = binary.NativeEndian

// Read returns exactly the elements of the rank's range [Head, Head+Count).
// Every rank opens the medium, inert ones included, so that a missing
// input fails the whole group rather than only the ranks holding data.
func Read(path string, p plan.Plan) ([]int32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open input %q", path)
	}
	defer cos.Close(f)

	vals := make([]int32, p.Count)
	if p.Count == 0 {
		return vals, nil
	}
	fadvise(f, p.Offset(), p.Count*cos.SizeofI32)
	n, err := readAt(f, vals, p.Offset())
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s from %q", p.String(), path)
	}
	if int64(n) < p.Count {
		return nil, errors.Wrapf(ErrShortFile, "%s: read %d of %d elements from %q", p.String(), n, p.Count, path)
	}
	return vals, nil
}

// Write stores vals at the rank's offset without truncating the output
// (all ranks write the same file concurrently). The rank holding the global
// tail then trims the file to exactly Total elements.
func Write(path string, p plan.Plan, vals []int32) (err error) {
	debug.Assert(int64(len(vals)) == p.Count, p.String(), " vs ", len(vals))
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		return errors.Wrapf(err, "failed to open output %q", path)
	}
	defer func() {
		if errC := f.Close(); errC != nil && err == nil {
			err = errors.Wrapf(errC, "failed to close output %q", path)
		}
	}()
	if err = writeAt(f, vals, p.Offset()); err != nil {
		return errors.Wrapf(err, "failed to write %s to %q", p.String(), path)
	}
	if p.Last() {
		if err = f.Truncate(p.Total * cos.SizeofI32); err != nil {
			return errors.Wrapf(err, "failed to truncate %q", path)
		}
	}
	if len(vals) > 0 || p.Last() {
		err = errors.Wrapf(fdatasync(f), "failed to sync %q", path)
	}
	return err
}

// ReadAll loads the entire medium (tests and small inputs only).
func ReadAll(path string) ([]int32, error) {
	var out []int32
	err := Scan(path, func(vals []int32) error {
		out = append(out, vals...)
		return nil
	})
	return out, err
}

// WriteAll replaces the medium with vals.
func WriteAll(path string, vals []int32) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %q", path)
	}
	if err := writeAt(f, vals, 0); err != nil {
		f.Close()
		return errors.Wrapf(err, "failed to write %q", path)
	}
	return errors.Wrapf(f.Close(), "failed to close %q", path)
}

// Scan streams the medium chunk by chunk; the slice is only valid during the callback.
func Scan(path string, fn func(vals []int32) error) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "failed to open %q", path)
	}
	defer cos.Close(f)
	fadvise(f, 0, 0)

	var (
		buf  = make([]byte, chunkSize)
		vals = make([]int32, chunkSize/cos.SizeofI32)
		off  int
	)
	for {
		n, err := io.ReadFull(f, buf[off:])
		n += off
		whole := n / cos.SizeofI32
		if whole > 0 {
			decode(vals[:whole], buf[:whole*cos.SizeofI32])
			if errCb := fn(vals[:whole]); errCb != nil {
				return errCb
			}
		}
		// keep a trailing partial element for the next read
		off = copy(buf, buf[whole*cos.SizeofI32:n])
		switch {
		case err == nil:
		case err == io.EOF || err == io.ErrUnexpectedEOF:
			if off != 0 {
				return errors.Errorf("%q: size is not a multiple of %d bytes", path, cos.SizeofI32)
			}
			return nil
		default:
			return errors.Wrapf(err, "failed to read %q", path)
		}
	}
}

//
// chunked encoding
//

func readAt(f *os.File, vals []int32, off int64) (int, error) {
	var (
		buf  = make([]byte, min(int64(chunkSize), int64(len(vals))*cos.SizeofI32))
		done int
	)
	for done < len(vals) {
		want := min(len(buf), (len(vals)-done)*cos.SizeofI32)
		n, err := f.ReadAt(buf[:want], off)
		whole := n / cos.SizeofI32
		decode(vals[done:done+whole], buf[:whole*cos.SizeofI32])
		done += whole
		off += int64(whole * cos.SizeofI32)
		if err == io.EOF {
			return done, nil
		}
		if err != nil {
			return done, err
		}
	}
	return done, nil
}

func writeAt(f *os.File, vals []int32, off int64) error {
	if len(vals) == 0 {
		return nil
	}
	buf := make([]byte, min(int64(chunkSize), int64(len(vals))*cos.SizeofI32))
	for done := 0; done < len(vals); {
		cnt := min(len(buf)/cos.SizeofI32, len(vals)-done)
		encode(buf[:cnt*cos.SizeofI32], vals[done:done+cnt])
		if _, err := f.WriteAt(buf[:cnt*cos.SizeofI32], off); err != nil {
			return err
		}
		done += cnt
		off += int64(cnt * cos.SizeofI32)
	}
	return nil
}

func decode(dst []int32, src []byte) {
	for i := range dst {
		dst[i] = int32(endian.Uint32(src[i*cos.SizeofI32:]))
	}
}

func encode(dst []byte, src []int32) {
	for i, v := range src {
		endian.PutUint32(dst[i*cos.SizeofI32:], uint32(v))
	}
}
