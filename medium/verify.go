// Package medium reads and writes per-rank ranges of the flat binary file of
// 4-byte native-endian signed integers (no header, no padding)
/*
 * Copyright (c) 2026, NVIDIA CORPORATION. All rights reserved.
 */
package medium

import "fmt"

type Report struct {
	Output        Fingerprint `json:"output"`
	Input         Fingerprint `json:"input"`
	FirstUnsorted int64       `json:"first_unsorted"` // index i such that out[i] > out[i+1]; -1 if none
	Sorted        bool        `json:"sorted"`
	SameMultiset  bool        `json:"same_multiset"`
}

func (r *Report) OK() bool { return r.Sorted && r.SameMultiset }

func (r *Report) String() string {
	if r.OK() {
		return fmt.Sprintf("ok: %d elements sorted, %s", r.Output.Count, r.Output.String())
	}
	s := "FAIL:"
	if !r.Sorted {
		s += fmt.Sprintf(" out of order at index %d;", r.FirstUnsorted)
	}
	if !r.SameMultiset {
		s += fmt.Sprintf(" multiset differs (input %s, output %s);", r.Input.String(), r.Output.String())
	}
	return s
}

// Verify checks that output is non-decreasing and holds the same multiset as input.
// With an empty input path only sortedness is checked.
func Verify(output, input string) (*Report, error) {
	var (
		r    = &Report{FirstUnsorted: -1, Sorted: true, SameMultiset: true}
		prev int32
		idx  int64
	)
	err := Scan(output, func(vals []int32) error {
		for _, v := range vals {
			if idx > 0 && prev > v && r.Sorted {
				r.Sorted, r.FirstUnsorted = false, idx-1
			}
			prev = v
			idx++
		}
		r.Output.Add(vals)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if input == "" {
		return r, nil
	}
	err = Scan(input, func(vals []int32) error {
		r.Input.Add(vals)
		return nil
	})
	if err != nil {
		return nil, err
	}
	r.SameMultiset = r.Input == r.Output
	return r, nil
}
