// Package cos provides common low-level types and utilities for all oesort packages
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package cos

import (
	"strconv"
	"strings"
)

// ParseBool converts string to bool (case-insensitive):
//
//	y, yes, on -> true
//	n, no, off, <empty value> -> false
//
// strconv handles the rest (1, t, 0, f, ...)
func ParseBool(s string) (bool, error) {
	if s == "" {
		return false, nil
	}
	switch strings.ToLower(s) {
	case "y", "yes", "on", "true":
		return true, nil
	case "n", "no", "off", "false":
		return false, nil
	}
	return strconv.ParseBool(s)
}

// ParseCount parses a non-negative decimal count, e.g. the number of elements
func ParseCount(s string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, NewErrUsage("expecting a decimal element count, got %q", s)
	}
	if n < 0 {
		return 0, NewErrUsage("element count must be non-negative, got %d", n)
	}
	return n, nil
}
