//go:build !oteltracing

// Package tracing offers support for distributed tracing utilizing OpenTelemetry (OTEL).
/*
 * Copyright (c) 2024-2026, NVIDIA CORPORATION. All rights reserved.
 */
package tracing

import (
	"context"
	"net/http"

	"github.com/oesort/oesort/cmn"
	"github.com/oesort/oesort/cmn/nlog"
)

func IsEnabled() bool { return false }

func Init(conf *cmn.TracingConf, _ string, _ int, _ string) error {
	if conf != nil && conf.Enabled {
		nlog.Warningln("tracing enabled in config but not compiled in (build with -tags oteltracing)")
	}
	return nil
}

func Shutdown() {}

func NewTraceableHandler(handler http.Handler, _ string) http.Handler { return handler }

func StartSpan(ctx context.Context, _ string) (context.Context, Span) { return ctx, nopSpan{} }
