//go:build !debug

// Package debug provides assertions and debug-only hooks compiled in with `-tags debug`
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package debug

const Enabled = false

func Infof(string, ...any) {}

func Assert(bool, ...any)          {}
func Assertf(bool, string, ...any) {}
func AssertNoErr(error)            {}
