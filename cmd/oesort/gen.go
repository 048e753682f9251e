// Package main is the oesort command: distributed odd-even transposition sort
// of flat files of 4-byte integers
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package main

import (
	"fmt"

	"github.com/oesort/oesort/cmn/cos"
	"github.com/oesort/oesort/medium"
	"github.com/oesort/oesort/plan"

	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

func genHandler(c *cli.Context) error {
	switch {
	case c.NArg() < 2:
		return missingArgumentsError(c, "TOTAL_ELEMENTS", "OUTPUT")
	case c.NArg() > 2:
		return tooManyArgumentsError(c, 2)
	}
	n, err := cos.ParseCount(c.Args().Get(0))
	if err != nil {
		return err
	}
	var (
		path = c.Args().Get(1)
		kind = parseStrFlag(c, kindFlag)
	)
	if err := medium.Generate(path, n, c.Uint64(fl1n(seedFlag.Name)), kind); err != nil {
		return err
	}
	actionDone(c, "%s: %d %s elements (%s)", path, n, kind, cos.ToSizeIEC(n*cos.SizeofI32, 1))
	return nil
}

func verifyHandler(c *cli.Context) error {
	switch {
	case c.NArg() < 1:
		return missingArgumentsError(c, "OUTPUT")
	case c.NArg() > 2:
		return tooManyArgumentsError(c, 2)
	}
	report, err := medium.Verify(c.Args().Get(0), c.Args().Get(1))
	if err != nil {
		return err
	}
	if flagIsSet(c, jsonFlag) {
		actionDone(c, "%s", cos.MustMarshalToString(report))
	} else {
		actionDone(c, "%s", report.String())
	}
	if report.OK() {
		return nil
	}
	err = errors.Errorf("%s: %s", c.Args().Get(0), report.String())
	if world := parseIntFlag(c, ranksFlag); world > 0 && !report.Sorted {
		err = errors.Wrap(err, unsortedAt(report.Output.Count, int64(world), report.FirstUnsorted))
	}
	return err
}

// names the rank(s) that produced the out-of-order pair (idx, idx+1)
func unsortedAt(total, world, idx int64) string {
	left, right := plan.Owner(total, world, idx), plan.Owner(total, world, idx+1)
	if left == right {
		return fmt.Sprintf("within rank %d", left)
	}
	rng := plan.Coverage(total, world)[right]
	return fmt.Sprintf("at the boundary between ranks %d and %d (rank %d starts at %d)", left, right, right, rng[0])
}
