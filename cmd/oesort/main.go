// Package main is the oesort command: distributed odd-even transposition sort
// of flat files of 4-byte integers
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/oesort/oesort/cmn/cos"
)

const version = "1.0"

var (
	build     string
	buildtime string
)

// canceled on the first SIGINT/SIGTERM; the second one exits right away
var rootCtx = context.Background()

func dispatchInterruptHandler() (cancel context.CancelFunc) {
	var ctx context.Context
	ctx, cancel = context.WithCancel(context.Background())
	rootCtx = ctx

	stopCh := make(chan os.Signal, 2)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-stopCh
		cancel()
		<-stopCh
		os.Exit(1)
	}()
	return cancel
}

func main() {
	cancel := dispatchInterruptHandler()
	defer cancel()

	app := newApp(version+"."+build, buildtime)
	if err := app.Run(os.Args); err != nil {
		cancel()
		cos.ExitLog(err)
	}
}
