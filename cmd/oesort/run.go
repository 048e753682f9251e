// Package main is the oesort command: distributed odd-even transposition sort
// of flat files of 4-byte integers
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/oesort/oesort/cmn"
	"github.com/oesort/oesort/cmn/nlog"
	"github.com/oesort/oesort/oets"
	"github.com/oesort/oesort/stats"
	"github.com/oesort/oesort/tracing"
	"github.com/oesort/oesort/transport"

	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

// shared by all ranks when neither the launcher nor the user names the job
const dfltJob = "oesort"

const pathMetrics = "/metrics"

func runHandler(c *cli.Context) error {
	// arguments first: malformed invocation fails before any group action
	job, err := parseJob(c)
	if err != nil {
		return err
	}
	config, err := loadConfig(c)
	if err != nil {
		return err
	}
	group, err := cmn.GroupFromEnv()
	if err != nil {
		return err
	}
	if len(config.Net.Peers) > 0 {
		group.Peers = config.Net.Peers
	}
	if flagIsSet(c, jobFlag) {
		group.Job = parseStrFlag(c, jobFlag)
	}
	if group.Job == "" {
		if group.World == 1 {
			group.Job = cmn.GenJobID()
		} else {
			group.Job = dfltJob
		}
	}
	if err := group.Validate(); err != nil {
		return err
	}
	job.MaxRounds, job.Integrity = config.MaxRounds, config.Integrity.Enabled

	setupLog(config, fmt.Sprintf("r%d", group.Rank))
	defer nlog.Flush()
	if err := tracing.Init(&config.Tracing, group.Job, group.Rank, c.App.Version); err != nil {
		return err
	}
	defer tracing.Shutdown()

	ctx, cancel := withTimeout(c)
	defer cancel()

	var (
		tracker = stats.NewTracker(group.Rank)
		started = time.Now()
	)
	comm, err := newComm(ctx, config, group, tracker)
	if err != nil {
		return err
	}
	nlog.Infof("%s: %d elements, %q => %q", group.String(), job.Total, job.Input, job.Output)

	res, err := oets.Run(ctx, comm, job, tracker)
	if errC := comm.Close(); errC != nil && err == nil {
		nlog.Warningln("close:", errC)
	}
	if err != nil {
		if oets.IsErrIntegrity(err) {
			nlog.Errorf("%s: %q not written", group.String(), job.Output)
		}
		return errors.Wrapf(err, "%s", group.String())
	}
	if nlog.V(4) {
		nlog.Infof("%s: done in %v", group.String(), time.Since(started))
	}
	report(c, config, res, tracker)
	return nil
}

// newComm returns the in-process transport for a group of one, and the
// connected websocket mesh otherwise
func newComm(ctx context.Context, config *cmn.Config, group *cmn.Group, tracker *stats.Tracker) (transport.Comm, error) {
	if group.World == 1 {
		if config.Metrics.Enabled {
			nlog.Warningf("single-process run: no endpoint to serve %s", pathMetrics)
		}
		return transport.NewLocal(1)[0], nil
	}
	mconf := transport.MeshConfig{
		Job:              group.Job,
		Peers:            group.Peers,
		Rank:             group.Rank,
		DialTimeout:      config.Net.DialTimeout.D(),
		HandshakeTimeout: config.Net.HandshakeTimeout.D(),
		Mux:              http.NewServeMux(),
	}
	if config.Net.Listen != "" {
		ln, err := net.Listen("tcp", config.Net.Listen)
		if err != nil {
			return nil, errors.Wrapf(err, "r%d: listen", group.Rank)
		}
		mconf.Listener = ln
	}
	if config.Metrics.Enabled {
		mconf.Mux.Handle(pathMetrics, tracker.Handler())
	}
	if tracing.IsEnabled() {
		mconf.Wrap = func(h http.Handler) http.Handler { return tracing.NewTraceableHandler(h, appName) }
	}
	mesh, err := transport.NewMesh(mconf)
	if err != nil {
		if mconf.Listener != nil {
			mconf.Listener.Close()
		}
		return nil, err
	}
	nlog.Infof("r%d: listening on %s (group of %d)", group.Rank, mesh.Addr(), group.World)
	if err := mesh.Connect(ctx); err != nil {
		mesh.Close()
		return nil, err
	}
	return mesh, nil
}
