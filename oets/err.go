// Package oets implements distributed odd-even transposition sort: each rank sorts
// its contiguous block of the global array by alternating local compare-exchange
// passes with boundary exchanges, until a global reduction confirms no swaps.
/*
 * Copyright (c) 2026, NVIDIA CORPORATION. All rights reserved.
 */
package oets

import (
	"fmt"

	"github.com/oesort/oesort/medium"

	"github.com/pkg/errors"
)

var ErrMaxRounds = errors.New("not converged within max rounds")

type ErrIntegrity struct {
	Before medium.Fingerprint
	After  medium.Fingerprint
}

func (e *ErrIntegrity) Error() string {
	return fmt.Sprintf("integrity check failed: multiset changed (before %s, after %s)", e.Before, e.After)
}

func IsErrIntegrity(err error) bool {
	var e *ErrIntegrity
	return errors.As(err, &e)
}
