//go:build oteltracing

// Package tracing offers support for distributed tracing utilizing OpenTelemetry (OTEL).
/*
 * Copyright (c) 2024-2026, NVIDIA CORPORATION. All rights reserved.
 */
package tracing

import (
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/oesort/oesort/cmn"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

var _ = Describe("Tracing", func() {
	const version = "v1.0"

	var (
		exporter *tracetest.InMemoryExporter

		origExporter = newExporter

		newTestHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("-"))
		})

		enabledConf = func() *cmn.TracingConf {
			return &cmn.TracingConf{Endpoint: "dummy", Enabled: true, ServiceName: "oesort", SampleRatio: 1.0}
		}

		expectResourceAttrs = func(attrs []attribute.KeyValue) {
			expectedAttributes := map[string]string{
				"service.name": "oesort",
				"version":      version,
				"job":          "job1",
				"rank":         "3",
			}
			matched := 0
			for _, attribute := range attrs {
				value, ok := expectedAttributes[string(attribute.Key)]
				if !ok {
					continue
				}
				Expect(attribute.Value.AsString()).To(BeEquivalentTo(value))
				matched++
			}
			Expect(matched).To(BeEquivalentTo(len(expectedAttributes)))
		}
	)

	BeforeEach(func() {
		exporter = tracetest.NewInMemoryExporter()
		newExporter = func(*cmn.TracingConf) (trace.SpanExporter, error) {
			return exporter, nil
		}
	})

	AfterEach(func() {
		Shutdown()
		tp, tracer = nil, nil
		newExporter = origExporter
	})

	It("should export server trace when tracing enabled", func() {
		Expect(Init(enabledConf(), "job1", 3, version)).To(Succeed())
		Expect(IsEnabled()).To(BeTrue())

		server := httptest.NewServer(NewTraceableHandler(newTestHandler, "health"))
		defer server.Close()

		resp, err := http.Get(server.URL)
		Expect(err).NotTo(HaveOccurred())
		resp.Body.Close()

		tp.ForceFlush(context.Background())
		Expect(exporter.GetSpans()).To(HaveLen(1))
		expectResourceAttrs(exporter.GetSpans()[0].Resource.Attributes())
	})

	It("should export sort spans with attributes", func() {
		Expect(Init(enabledConf(), "job1", 3, version)).To(Succeed())

		ctx, span := StartSpan(context.Background(), "oets.sort")
		_, child := StartSpan(ctx, "oets.round")
		child.SetInt("round", 7)
		child.End()
		span.End()

		tp.ForceFlush(context.Background())
		spans := exporter.GetSpans()
		Expect(spans).To(HaveLen(2))
		Expect(spans[0].Name).To(Equal("oets.round"))
		Expect(spans[0].Parent.SpanID()).To(Equal(spans[1].SpanContext.SpanID()))
		Expect(spans[0].Attributes).To(ContainElement(attribute.Int64("round", 7)))
	})

	It("should do nothing when tracing disabled", func() {
		Expect(Init(&cmn.TracingConf{Enabled: false}, "job1", 3, version)).To(Succeed())
		Expect(IsEnabled()).To(BeFalse())

		server := httptest.NewServer(NewTraceableHandler(newTestHandler, "health"))
		defer server.Close()

		resp, err := http.Get(server.URL)
		Expect(err).NotTo(HaveOccurred())
		resp.Body.Close()
		Expect(exporter.GetSpans()).To(BeEmpty())
	})

	It("should require an exporter endpoint", func() {
		Expect(Init(&cmn.TracingConf{Enabled: true}, "job1", 3, version)).NotTo(Succeed())
		Expect(IsEnabled()).To(BeFalse())
	})
})
