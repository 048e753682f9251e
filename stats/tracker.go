// Package stats provides methods and functionality to register, track, log,
// and export per-rank statistics that include "counter" and "total time" kinds.
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package stats

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/oesort/oesort/cmn/debug"
	"github.com/oesort/oesort/cmn/mono"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const promNamespace = "oesort"

type (
	statsValue struct {
		desc *prometheus.Desc
		kind string
		prom string // Prometheus label
		help string

		Value atomic.Int64
	}

	// Tracker holds the statistics of a single rank; safe for concurrent use.
	Tracker struct {
		values   map[string]*statsValue
		registry *prometheus.Registry
		started  int64 // mono
		rank     int
	}

	// as in: "#Rank%d: total=%d nsec (io=%d, comm=%d, comp=%d)"
	Timing struct {
		Rank  int           `json:"rank"`
		Total time.Duration `json:"total_ns"`
		IO    time.Duration `json:"io_ns"`
		Comm  time.Duration `json:"comm_ns"`
		Comp  time.Duration `json:"comp_ns"`
	}

	Snapshot struct {
		Counters map[string]int64 `json:"counters"`
		Timing   Timing           `json:"timing"`
	}
)

// interface guard
var _ prometheus.Collector = (*Tracker)(nil)

// NewTracker starts the rank's wall clock.
func NewTracker(rank int) *Tracker {
	t := &Tracker{
		values:  make(map[string]*statsValue, 16),
		started: mono.NanoTime(),
		rank:    rank,
	}
	t.reg(IOTime, KindTotal, "time spent reading and writing the partition")
	t.reg(CommTime, KindTotal, "time spent communicating with other ranks")
	t.reg(CompTime, KindTotal, "time spent in local compare-and-swap passes")
	t.reg(RoundCount, KindCounter, "completed sort rounds")
	t.reg(LocalSwapCount, KindCounter, "swaps within the partition")
	t.reg(BoundarySwapCount, KindCounter, "swaps across partition boundaries")
	t.reg(ExchangeCount, KindCounter, "boundary exchanges")
	t.reg(ElementCount, KindCounter, "elements in the partition")
	t.reg(MsgSentCount, KindCounter, "messages sent")
	t.reg(MsgRecvCount, KindCounter, "messages received")

	t.registry = prometheus.NewRegistry()
	t.registry.MustRegister(t)
	return t
}

// "io.ns.total" => "io_seconds_total", "swap.local.n" => "swap_local_total"
func (t *Tracker) reg(name, kind, help string) {
	v := &statsValue{kind: kind, help: help}
	switch kind {
	case KindTotal:
		debug.Assert(strings.HasSuffix(name, ".ns.total"), name) // naming convention
		v.prom = strings.ReplaceAll(strings.TrimSuffix(name, ".ns.total"), ".", "_") + "_seconds_total"
	default:
		debug.Assert(kind == KindCounter && strings.HasSuffix(name, ".n"), name) // ditto
		v.prom = strings.ReplaceAll(strings.TrimSuffix(name, ".n"), ".", "_") + "_total"
	}
	fullqn := prometheus.BuildFQName(promNamespace, "", v.prom)
	v.desc = prometheus.NewDesc(fullqn, help, nil, prometheus.Labels{"rank": strconv.Itoa(t.rank)})
	t.values[name] = v
}

func (t *Tracker) Rank() int { return t.rank }

func (t *Tracker) Inc(name string) { t.Add(name, 1) }

func (t *Tracker) Add(name string, val int64) {
	v, ok := t.values[name]
	debug.Assert(ok, name)
	v.Value.Add(val)
}

// AddSince adds the time elapsed since `started` (mono) and returns it.
func (t *Tracker) AddSince(name string, started int64) time.Duration {
	d := mono.SinceNano(started)
	t.Add(name, d)
	return time.Duration(d)
}

func (t *Tracker) Get(name string) int64 {
	v, ok := t.values[name]
	debug.Assert(ok, name)
	return v.Value.Load()
}

func (t *Tracker) Timing() Timing {
	return Timing{
		Rank:  t.rank,
		Total: mono.Since(t.started),
		IO:    time.Duration(t.Get(IOTime)),
		Comm:  time.Duration(t.Get(CommTime)),
		Comp:  time.Duration(t.Get(CompTime)),
	}
}

func (t *Tracker) Snapshot() *Snapshot {
	s := &Snapshot{Counters: make(map[string]int64, len(t.values)), Timing: t.Timing()}
	for name, v := range t.values {
		if v.kind == KindCounter {
			s.Counters[name] = v.Value.Load()
		}
	}
	return s
}

// Registry to serve or gather; holds this tracker only.
func (t *Tracker) Registry() *prometheus.Registry { return t.registry }

func (t *Tracker) Handler() http.Handler {
	return promhttp.HandlerFor(t.registry, promhttp.HandlerOpts{})
}

func (t *Tracker) Describe(ch chan<- *prometheus.Desc) {
	for _, v := range t.values {
		ch <- v.desc
	}
}

func (t *Tracker) Collect(ch chan<- prometheus.Metric) {
	for _, v := range t.values {
		var (
			val = v.Value.Load()
			fv  = float64(val)
		)
		if v.kind == KindTotal {
			fv = time.Duration(val).Seconds()
		}
		m, err := prometheus.NewConstMetric(v.desc, prometheus.CounterValue, fv)
		debug.AssertNoErr(err)
		ch <- m
	}
}

// String formats all non-zero counters for the log, sorted by name.
func (t *Tracker) String() string {
	names := make([]string, 0, len(t.values))
	for name, v := range t.values {
		if v.kind == KindCounter && v.Value.Load() != 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	var sb strings.Builder
	sb.WriteString("rank ")
	sb.WriteString(strconv.Itoa(t.rank))
	sb.WriteByte(':')
	for _, name := range names {
		sb.WriteByte(' ')
		sb.WriteString(name)
		sb.WriteByte('=')
		sb.WriteString(strconv.FormatInt(t.Get(name), 10))
	}
	return sb.String()
}

////////////
// Timing //
////////////

func (tm *Timing) String() string {
	return fmt.Sprintf("#Rank%d: total=%d nsec (io=%d, comm=%d, comp=%d)",
		tm.Rank, tm.Total.Nanoseconds(), tm.IO.Nanoseconds(), tm.Comm.Nanoseconds(), tm.Comp.Nanoseconds())
}
