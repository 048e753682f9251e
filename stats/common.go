// Package stats provides methods and functionality to register, track, log,
// and export per-rank statistics that include "counter" and "total time" kinds.
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package stats

const (
	KindCounter = "counter"
	KindTotal   = "total" // cumulative duration, in nanoseconds
)

// NOTE naming convention: ".n" for the count and ".ns.total" for cumulative duration
const (
	// KindTotal
	IOTime   = "io.ns.total"   // reading the partition and writing it back
	CommTime = "comm.ns.total" // boundary exchanges, barriers, and reductions
	CompTime = "comp.ns.total" // local compare-and-swap passes

	// KindCounter
	RoundCount        = "round.n"         // completed rounds (even phase + odd phase)
	LocalSwapCount    = "swap.local.n"    // swaps inside the partition
	BoundarySwapCount = "swap.boundary.n" // swaps across partition boundaries (receiver side)
	ExchangeCount     = "exchange.n"      // boundary exchanges (sender or receiver side)
	ElementCount      = "elem.n"          // partition size
	MsgSentCount      = "msg.sent.n"
	MsgRecvCount      = "msg.recv.n"
)
