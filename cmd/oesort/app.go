// Package main is the oesort command: distributed odd-even transposition sort
// of flat files of 4-byte integers
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/oesort/oesort/cmn/cos"

	"github.com/urfave/cli"
)

const (
	appName  = "oesort"
	jobArgs  = "TOTAL_ELEMENTS INPUT OUTPUT"
	appDescr = `Sorts a flat file of 4-byte native-endian signed integers with distributed
   odd-even transposition sort. Each rank reads, sorts, and writes back its own contiguous range.
   The process group comes from OESORT_RANK, OESORT_WORLD_SIZE, OESORT_PEERS and OESORT_JOB
   (or the MPI equivalents); 'launch' sets them up for local runs.`
)

var (
	outWriter io.Writer = os.Stdout
	errWriter io.Writer = os.Stderr
)

func newApp(version, buildtime string) *cli.App {
	app := cli.NewApp()
	app.Name = appName
	app.Usage = "distributed odd-even transposition sort"
	app.Version = version
	if buildtime != "" {
		app.Version += " (built " + buildtime + ")"
	}
	app.Description = appDescr
	app.Writer = outWriter
	app.ErrWriter = errWriter
	app.OnUsageError = incorrectUsageHandler
	app.Commands = []cli.Command{
		{
			Name:      "run",
			Usage:     "sort this rank's share as a member of the process group",
			ArgsUsage: jobArgs,
			Flags:     append(append([]cli.Flag{}, sortFlags...), meshFlags...),
			Action:    runHandler,
		},
		{
			Name:      "launch",
			Usage:     "spawn a group of 'run' processes on loopback ports and wait for all of them",
			ArgsUsage: jobArgs,
			Flags:     append([]cli.Flag{worldFlag, hostFlag, jobFlag, metricsFlag}, sortFlags...),
			Action:    launchHandler,
		},
		{
			Name:      "local",
			Usage:     "run all ranks as goroutines of this process",
			ArgsUsage: jobArgs,
			Flags:     append([]cli.Flag{worldFlag, inMemoryFlag}, sortFlags...),
			Action:    localHandler,
		},
		{
			Name:      "gen",
			Usage:     "generate a test input",
			ArgsUsage: "TOTAL_ELEMENTS OUTPUT",
			Flags:     []cli.Flag{seedFlag, kindFlag},
			Action:    genHandler,
		},
		{
			Name:      "verify",
			Usage:     "check that OUTPUT is sorted and (when given) is a permutation of INPUT",
			ArgsUsage: "OUTPUT [INPUT]",
			Flags:     []cli.Flag{jsonFlag, ranksFlag},
			Action:    verifyHandler,
		},
	}
	for i := range app.Commands {
		app.Commands[i].OnUsageError = incorrectUsageHandler
	}
	return app
}

func incorrectUsageHandler(c *cli.Context, err error, _ bool) error {
	if err == nil {
		return nil
	}
	return cos.NewErrUsage("%s %s: %v", c.App.Name, c.Command.Name, err)
}

func missingArgumentsError(c *cli.Context, missing ...string) error {
	return cos.NewErrUsage("%s %s: missing arguments %s (usage: %s %s %s)", c.App.Name, c.Command.Name,
		strings.Join(missing, ", "), c.App.Name, c.Command.Name, c.Command.ArgsUsage)
}

func tooManyArgumentsError(c *cli.Context, expected int) error {
	return cos.NewErrUsage("%s %s: expecting at most %d arguments, got %d (%q)", c.App.Name, c.Command.Name,
		expected, c.NArg(), c.Args())
}

func actionDone(c *cli.Context, format string, a ...any) {
	fmt.Fprintf(c.App.Writer, format+"\n", a...)
}
