// Package main is the oesort command: distributed odd-even transposition sort
// of flat files of 4-byte integers
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package main

import (
	"strings"
	"time"

	"github.com/oesort/oesort/cmn"
	"github.com/oesort/oesort/medium"

	"github.com/urfave/cli"
)

var (
	configFlag = cli.StringFlag{
		Name:   "config,c",
		Usage:  "configuration file (JSON, or YAML by extension)",
		EnvVar: cmn.EnvConfig,
	}
	timeoutFlag = cli.DurationFlag{
		Name:  "timeout",
		Usage: "abort the whole run after this long (0: no limit)",
	}
	maxRoundsFlag = cli.Int64Flag{
		Name:  "max-rounds",
		Usage: "fail with an error after this many rounds (0: unlimited)",
	}
	skipIntegrityFlag = cli.BoolFlag{
		Name:  "skip-integrity",
		Usage: "do not compare global fingerprints before and after sorting",
	}
	logDirFlag = cli.StringFlag{
		Name:  "log-dir",
		Usage: "write logs to files in this directory instead of stderr",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "v",
		Usage: "log verbosity (0-5); 4 and above logs every round",
	}
	listenFlag = cli.StringFlag{
		Name:  "listen",
		Usage: "listen on this address instead of the rank's own entry in the peer list",
	}
	peersFlag = cli.StringFlag{
		Name:  "peers",
		Usage: "comma-separated host:port list indexed by rank (overrides " + cmn.EnvPeers + ")",
	}
	jobFlag = cli.StringFlag{
		Name:  "job",
		Usage: "job ID shared by all ranks of the group (overrides " + cmn.EnvJob + ")",
	}
	metricsFlag = cli.BoolFlag{
		Name:  "metrics",
		Usage: "serve prometheus metrics on /metrics of the rank's endpoint",
	}
	jsonFlag = cli.BoolFlag{
		Name:  "json,j",
		Usage: "print the result as JSON",
	}

	// launch
	worldFlag = cli.IntFlag{
		Name:  "n",
		Usage: "number of ranks",
		Value: 2,
	}
	hostFlag = cli.StringFlag{
		Name:  "host",
		Usage: "address to bind the ranks to",
		Value: "127.0.0.1",
	}

	// local
	inMemoryFlag = cli.BoolFlag{
		Name:  "in-memory",
		Usage: "load the whole input and sort it in memory (one goroutine per rank)",
	}

	// verify
	ranksFlag = cli.IntFlag{
		Name:  "ranks",
		Usage: "number of ranks that produced the output, to name the one at fault",
	}

	// gen
	seedFlag = cli.Uint64Flag{
		Name:  "seed",
		Usage: "random seed",
		Value: 1,
	}
	kindFlag = cli.StringFlag{
		Name:  "kind",
		Usage: "input kind, one of: " + strings.Join(medium.Kinds, ", "),
		Value: medium.KindRandom,
	}

	sortFlags = []cli.Flag{
		configFlag,
		timeoutFlag,
		maxRoundsFlag,
		skipIntegrityFlag,
		logDirFlag,
		verbosityFlag,
		jsonFlag,
	}
	meshFlags = []cli.Flag{
		listenFlag,
		peersFlag,
		jobFlag,
		metricsFlag,
	}
)

// return the first name
func fl1n(flagName string) string {
	if i := strings.IndexByte(flagName, ','); i >= 0 {
		return flagName[:i]
	}
	return flagName
}

func flprn(f cli.Flag) string { return "--" + fl1n(f.GetName()) }

func flagIsSet(c *cli.Context, flag cli.Flag) (v bool) {
	name := fl1n(flag.GetName())
	switch flag.(type) {
	case cli.BoolFlag:
		v = c.Bool(name)
	default:
		v = c.GlobalIsSet(name) || c.IsSet(name)
	}
	return
}

// Returns the value of a string flag (either parent or local scope)
func parseStrFlag(c *cli.Context, flag cli.Flag) string {
	flagName := fl1n(flag.GetName())
	if c.GlobalIsSet(flagName) {
		return c.GlobalString(flagName)
	}
	return c.String(flagName)
}

func parseIntFlag(c *cli.Context, flag cli.IntFlag) int {
	flagName := fl1n(flag.GetName())
	if c.GlobalIsSet(flagName) {
		return c.GlobalInt(flagName)
	}
	return c.Int(flagName)
}

func parseDurationFlag(c *cli.Context, flag cli.Flag) time.Duration {
	flagName := fl1n(flag.GetName())
	if c.GlobalIsSet(flagName) {
		return c.GlobalDuration(flagName)
	}
	return c.Duration(flagName)
}

// forwardFlags reproduces the flags set on the command line, to pass them on to a child process.
func forwardFlags(c *cli.Context, flags []cli.Flag) (args []string) {
	for _, f := range flags {
		if !flagIsSet(c, f) {
			continue
		}
		args = append(args, flprn(f)+"="+parseStrFlag(c, f))
	}
	return
}
