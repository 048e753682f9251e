// Package cmn provides common types and utilities for all oesort packages
/*
 * Copyright (c) 2026, NVIDIA CORPORATION. All rights reserved.
 */
package cmn

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/oesort/oesort/cmn/cos"
)

// process group (set by `oesort launch` or any external launcher)
const (
	EnvRank  = "OESORT_RANK"
	EnvWorld = "OESORT_WORLD_SIZE"
	EnvPeers = "OESORT_PEERS"
	EnvJob   = "OESORT_JOB"
)

// config overrides
const (
	EnvConfig    = "OESORT_CONFIG"
	EnvLogDir    = "OESORT_LOG_DIR"
	EnvLogLevel  = "OESORT_LOG_LEVEL"
	EnvTiming    = "OESORT_TIMING"
	EnvMetrics   = "OESORT_METRICS"
	EnvIntegrity = "OESORT_INTEGRITY"
	EnvTracing   = "OESORT_TRACING"
	EnvMaxRounds = "OESORT_MAX_ROUNDS"
)

// MPI launchers export these; used when OESORT_RANK/OESORT_WORLD_SIZE are absent
var mpiEnv = [][2]string{
	{"OMPI_COMM_WORLD_RANK", "OMPI_COMM_WORLD_SIZE"},
	{"PMI_RANK", "PMI_SIZE"},
}

// Group: this process's identity within the launched process group
type Group struct {
	Job   string
	Peers []string
	Rank  int
	World int
}

// GroupFromEnv discovers rank, world size, peers, and job ID.
// With nothing set, the process is a group of one.
func GroupFromEnv() (*Group, error) {
	g := &Group{Job: os.Getenv(EnvJob), World: 1}
	rank, world := os.Getenv(EnvRank), os.Getenv(EnvWorld)
	for _, pair := range mpiEnv {
		if rank != "" {
			break
		}
		rank, world = os.Getenv(pair[0]), os.Getenv(pair[1])
	}
	if rank != "" {
		var err error
		if g.Rank, err = strconv.Atoi(rank); err != nil {
			return nil, cos.NewErrUsage("invalid rank %q", rank)
		}
		if g.World, err = strconv.Atoi(world); err != nil {
			return nil, cos.NewErrUsage("invalid world size %q", world)
		}
	}
	if peers := os.Getenv(EnvPeers); peers != "" {
		g.Peers = SplitPeers(peers)
	}
	return g, nil
}

func SplitPeers(s string) (peers []string) {
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			peers = append(peers, p)
		}
	}
	return
}

func (g *Group) Validate() error {
	if g.World < 1 {
		return cos.NewErrUsage("world size must be positive, got %d", g.World)
	}
	if g.Rank < 0 || g.Rank >= g.World {
		return cos.NewErrUsage("rank %d out of range [0, %d)", g.Rank, g.World)
	}
	if g.World == 1 {
		return nil
	}
	if len(g.Peers) != g.World {
		return cos.NewErrUsage("expecting %d peer addresses (one per rank), got %d", g.World, len(g.Peers))
	}
	for i, p := range g.Peers {
		if _, _, err := net.SplitHostPort(p); err != nil {
			return cos.NewErrUsage("peer %d: invalid address %q: %v", i, p, err)
		}
	}
	return nil
}

// Env returns the variables a launcher sets for the given rank.
func (g *Group) Env(rank int) []string {
	return []string{
		EnvRank + "=" + strconv.Itoa(rank),
		EnvWorld + "=" + strconv.Itoa(g.World),
		EnvPeers + "=" + strings.Join(g.Peers, ","),
		EnvJob + "=" + g.Job,
	}
}

func (g *Group) String() string { return fmt.Sprintf("%s[r%d/%d]", g.Job, g.Rank, g.World) }
