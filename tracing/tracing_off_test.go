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

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Tracing (not compiled in)", func() {
	It("should stay disabled even when configured", func() {
		Expect(Init(&cmn.TracingConf{Enabled: true, Endpoint: "dummy"}, "job", 0, "v1")).To(Succeed())
		Expect(IsEnabled()).To(BeFalse())

		h := http.NewServeMux()
		Expect(NewTraceableHandler(h, "op")).To(BeIdenticalTo(h))

		ctx := context.Background()
		sctx, span := StartSpan(ctx, "round")
		Expect(sctx).To(Equal(ctx))
		span.SetInt("round", 1)
		span.End()
		Shutdown()
	})
})
