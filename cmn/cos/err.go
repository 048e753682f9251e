// Package cos provides common low-level types and utilities for all oesort packages
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package cos

import (
	"errors"
	"fmt"
)

// ErrUsage: malformed invocation (arguments, config, environment);
// always detected before any process-group action
type ErrUsage struct {
	msg string
}

func NewErrUsage(format string, a ...any) *ErrUsage {
	return &ErrUsage{msg: fmt.Sprintf(format, a...)}
}

func (e *ErrUsage) Error() string { return "invalid usage: " + e.msg }

func IsErrUsage(err error) bool {
	var eu *ErrUsage
	return errors.As(err, &eu)
}
