// Package tracing offers support for distributed tracing utilizing OpenTelemetry (OTEL).
/*
 * Copyright (c) 2024-2026, NVIDIA CORPORATION. All rights reserved.
 */
package tracing

// Span is the subset of an OTEL span used by the sort: one per phase of the run.
type Span interface {
	SetInt(key string, val int64)
	SetError(err error)
	End()
}

type nopSpan struct{}

func (nopSpan) SetInt(string, int64) {}
func (nopSpan) SetError(error)       {}
func (nopSpan) End()                 {}
