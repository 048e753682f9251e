// Package main is the oesort command: distributed odd-even transposition sort
// of flat files of 4-byte integers
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package main

import (
	"context"
	"strconv"

	"github.com/oesort/oesort/cmn"
	"github.com/oesort/oesort/cmn/cos"
	"github.com/oesort/oesort/cmn/nlog"
	"github.com/oesort/oesort/oets"
	"github.com/oesort/oesort/stats"

	"github.com/urfave/cli"
)

// parseJob validates the positional TOTAL_ELEMENTS INPUT OUTPUT
func parseJob(c *cli.Context) (*oets.Job, error) {
	switch {
	case c.NArg() == 0:
		return nil, missingArgumentsError(c, "TOTAL_ELEMENTS", "INPUT", "OUTPUT")
	case c.NArg() == 1:
		return nil, missingArgumentsError(c, "INPUT", "OUTPUT")
	case c.NArg() == 2:
		return nil, missingArgumentsError(c, "OUTPUT")
	case c.NArg() > 3:
		return nil, tooManyArgumentsError(c, 3)
	}
	total, err := cos.ParseCount(c.Args().Get(0))
	if err != nil {
		return nil, err
	}
	job := &oets.Job{Total: total, Input: c.Args().Get(1), Output: c.Args().Get(2)}
	if job.Input == "" || job.Output == "" {
		return nil, cos.NewErrUsage("input and output paths must be non-empty")
	}
	if job.Input == job.Output {
		return nil, cos.NewErrUsage("input and output must differ (%q)", job.Input)
	}
	return job, nil
}

// config file, then environment, then command line
func loadConfig(c *cli.Context) (*cmn.Config, error) {
	config, err := cmn.LoadConfig(parseStrFlag(c, configFlag))
	if err != nil {
		return nil, err
	}
	if err := config.ApplyEnv(); err != nil {
		return nil, err
	}
	if flagIsSet(c, maxRoundsFlag) {
		config.MaxRounds = c.Int64(fl1n(maxRoundsFlag.Name))
	}
	if flagIsSet(c, skipIntegrityFlag) {
		config.Integrity.Enabled = false
	}
	if flagIsSet(c, logDirFlag) {
		config.Log.Dir = parseStrFlag(c, logDirFlag)
	}
	if flagIsSet(c, verbosityFlag) {
		config.Log.Level = strconv.Itoa(parseIntFlag(c, verbosityFlag))
	}
	if flagIsSet(c, listenFlag) {
		config.Net.Listen = parseStrFlag(c, listenFlag)
	}
	if flagIsSet(c, peersFlag) {
		config.Net.Peers = cmn.SplitPeers(parseStrFlag(c, peersFlag))
	}
	if flagIsSet(c, metricsFlag) {
		config.Metrics.Enabled = true
	}
	return config, config.Validate()
}

func setupLog(config *cmn.Config, role string) {
	if config.Log.MaxSize > 0 {
		nlog.MaxSize = config.Log.MaxSize
	}
	nlog.Setup(config.Log.Dir, config.Log.ToStderr)
	nlog.SetRole(role)
	nlog.SetTitle(appName + " " + version)
	v, _ := config.Log.Verbosity() // validated
	nlog.SetVerbosity(v)
}

func withTimeout(c *cli.Context) (context.Context, context.CancelFunc) {
	if d := parseDurationFlag(c, timeoutFlag); d > 0 {
		return context.WithTimeout(rootCtx, d)
	}
	return context.WithCancel(rootCtx)
}

// report logs the timing line and, with --json, prints the result
func report(c *cli.Context, config *cmn.Config, res *oets.Result, tracker *stats.Tracker) {
	if config.Timing.Report {
		timing := tracker.Timing()
		nlog.Infoln(timing.String())
	}
	if nlog.V(4) {
		nlog.Infoln(tracker.String())
	}
	if flagIsSet(c, jsonFlag) {
		actionDone(c, "%s", cos.MustMarshalToString(res))
	}
}
