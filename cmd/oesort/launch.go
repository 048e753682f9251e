// Package main is the oesort command: distributed odd-even transposition sort
// of flat files of 4-byte integers
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package main

import (
	"net"
	"os"
	"os/exec"

	"github.com/oesort/oesort/cmn"
	"github.com/oesort/oesort/cmn/cos"
	"github.com/oesort/oesort/cmn/nlog"

	"github.com/pkg/errors"
	"github.com/urfave/cli"
	"golang.org/x/sync/errgroup"
)

// launchHandler spawns `world` copies of this executable, each running
// `run` with the group environment, and fails if any of them fails.
func launchHandler(c *cli.Context) error {
	if _, err := parseJob(c); err != nil {
		return err
	}
	world := parseIntFlag(c, worldFlag)
	if world < 1 {
		return cos.NewErrUsage("%s must be positive, got %d", flprn(worldFlag), world)
	}
	host := parseStrFlag(c, hostFlag)
	peers, err := freeAddrs(host, world)
	if err != nil {
		return err
	}
	group := &cmn.Group{Job: parseStrFlag(c, jobFlag), Peers: peers, World: world}
	if group.Job == "" {
		group.Job = cmn.GenJobID()
	}
	self, err := os.Executable()
	if err != nil {
		return errors.Wrap(err, "failed to locate own executable")
	}
	args := append([]string{"run"}, forwardFlags(c, append([]cli.Flag{metricsFlag}, sortFlags...))...)
	args = append(args, c.Args()...)

	ctx, cancel := withTimeout(c)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	for rank := range world {
		cmd := exec.CommandContext(gctx, self, args...)
		cmd.Env = append(os.Environ(), group.Env(rank)...)
		cmd.Stdout, cmd.Stderr = c.App.Writer, c.App.ErrWriter
		if err := cmd.Start(); err != nil {
			cancel()
			g.Wait()
			return errors.Wrapf(err, "failed to start rank %d", rank)
		}
		g.Go(func() error {
			return errors.Wrapf(cmd.Wait(), "rank %d (pid %d)", rank, cmd.Process.Pid)
		})
	}
	nlog.Infof("launched %s: %d ranks on %v", group.Job, world, peers)
	return g.Wait()
}

// freeAddrs reserves n ephemeral ports on host and releases them for the children to bind
func freeAddrs(host string, n int) ([]string, error) {
	var (
		addrs = make([]string, 0, n)
		lns   = make([]net.Listener, 0, n)
	)
	defer func() {
		for _, ln := range lns {
			ln.Close()
		}
	}()
	for range n {
		ln, err := net.Listen("tcp", net.JoinHostPort(host, "0"))
		if err != nil {
			return nil, errors.Wrapf(err, "failed to reserve a port on %q", host)
		}
		lns = append(lns, ln)
		addrs = append(addrs, ln.Addr().String())
	}
	return addrs, nil
}
