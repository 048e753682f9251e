//go:build oteltracing

// Package tracing offers support for distributed tracing utilizing OpenTelemetry (OTEL).
/*
 * Copyright (c) 2024-2026, NVIDIA CORPORATION. All rights reserved.
 */
package tracing

import (
	"context"
	"net/http"
	"strconv"

	"github.com/oesort/oesort/cmn"
	"github.com/oesort/oesort/cmn/nlog"

	"github.com/pkg/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/oesort/oesort"

type span struct {
	s oteltrace.Span
}

var (
	tp     *trace.TracerProvider
	tracer oteltrace.Tracer
)

var newExporter = func(conf *cmn.TracingConf) (trace.SpanExporter, error) {
	options := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(conf.Endpoint),
		otlptracegrpc.WithRetry(otlptracegrpc.RetryConfig{Enabled: true}),
	}
	if conf.Insecure {
		options = append(options, otlptracegrpc.WithInsecure())
	}
	return otlptracegrpc.New(context.Background(), options...)
}

func newResource(conf *cmn.TracingConf, job string, rank int, version string) *resource.Resource {
	attrs := []attribute.KeyValue{
		semconv.ServiceNameKey.String(conf.ServiceName),
		attribute.String("version", version),
		attribute.String("job", job),
		attribute.String("rank", strconv.Itoa(rank)),
	}
	r, _ := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			attrs...,
		),
	)
	return r
}

func IsEnabled() bool { return tp != nil }

// Init is a no-op unless tracing is enabled in the configuration.
func Init(conf *cmn.TracingConf, job string, rank int, version string) error {
	if conf == nil || !conf.Enabled {
		return nil
	}
	if conf.Endpoint == "" {
		return errors.New("tracing: exporter endpoint can't be empty")
	}
	exp, err := newExporter(conf)
	if err != nil {
		return errors.Wrap(err, "tracing: failed to create exporter")
	}
	tp = trace.NewTracerProvider(
		trace.WithSampler(trace.ParentBased(trace.TraceIDRatioBased(conf.SampleRatio))),
		trace.WithBatcher(exp),
		trace.WithResource(newResource(conf, job, rank, version)),
	)
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
	)
	otel.SetTracerProvider(tp)
	tracer = tp.Tracer(tracerName)
	return nil
}

// Shutdown flushes pending spans.
func Shutdown() {
	if tp == nil {
		return
	}
	if err := tp.Shutdown(context.Background()); err != nil {
		nlog.Errorln("tracing shutdown:", err)
	}
}

func NewTraceableHandler(handler http.Handler, operation string) http.Handler {
	if !IsEnabled() {
		return handler
	}
	return otelhttp.NewHandler(handler, operation)
}

func StartSpan(ctx context.Context, name string) (context.Context, Span) {
	if !IsEnabled() {
		return ctx, nopSpan{}
	}
	ctx, s := tracer.Start(ctx, name)
	return ctx, span{s}
}

func (s span) SetInt(key string, val int64) { s.s.SetAttributes(attribute.Int64(key, val)) }

func (s span) SetError(err error) {
	if err != nil {
		s.s.RecordError(err)
	}
}

func (s span) End() { s.s.End() }
