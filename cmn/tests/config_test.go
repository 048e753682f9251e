// Package tests provides tests for common types and utilities for all oesort packages
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package tests

import (
	"os"
	"path/filepath"
	"time"

	"github.com/oesort/oesort/cmn"
	"github.com/oesort/oesort/cmn/cos"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func setenv(name, value string) {
	old, ok := os.LookupEnv(name)
	Expect(os.Setenv(name, value)).To(Succeed())
	DeferCleanup(func() {
		if ok {
			os.Setenv(name, old)
		} else {
			os.Unsetenv(name)
		}
	})
}

func writeConfig(name, content string) string {
	path := filepath.Join(GinkgoT().TempDir(), name)
	Expect(os.WriteFile(path, []byte(content), 0o644)).To(Succeed())
	return path
}

var _ = Describe("Config", func() {
	It("should return valid defaults for an empty path", func() {
		config, err := cmn.LoadConfig("")
		Expect(err).NotTo(HaveOccurred())
		Expect(config.Validate()).To(Succeed())
		Expect(config.Integrity.Enabled).To(BeTrue())
		Expect(config.Timing.Report).To(BeTrue())
		Expect(config.Net.DialTimeout.D()).To(Equal(30 * time.Second))
	})

	It("should load JSON on top of the defaults", func() {
		path := writeConfig("oesort.json", `{
			"log": {"level": "debug", "dir": "/tmp/oesort-logs"},
			"net": {"dial_timeout": "5s"},
			"metrics": {"enabled": true},
			"max_rounds": 100
		}`)
		config, err := cmn.LoadConfig(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(config.Log.Dir).To(Equal("/tmp/oesort-logs"))
		Expect(config.Net.DialTimeout.D()).To(Equal(5 * time.Second))
		Expect(config.Net.HandshakeTimeout.D()).To(Equal(10 * time.Second))
		Expect(config.Metrics.Enabled).To(BeTrue())
		Expect(config.MaxRounds).To(BeEquivalentTo(100))
		v, err := config.Log.Verbosity()
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(Equal(4))
	})

	It("should load YAML", func() {
		path := writeConfig("oesort.yaml", `
log:
  level: info
net:
  peers: ["127.0.0.1:9000", "127.0.0.1:9001"]
  handshake_timeout: 1m
integrity:
  enabled: false
`)
		config, err := cmn.LoadConfig(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(config.Net.Peers).To(HaveLen(2))
		Expect(config.Net.HandshakeTimeout.D()).To(Equal(time.Minute))
		Expect(config.Integrity.Enabled).To(BeFalse())
	})

	It("should report malformed config as usage error", func() {
		path := writeConfig("broken.json", `{"log": `)
		_, err := cmn.LoadConfig(path)
		Expect(cos.IsErrUsage(err)).To(BeTrue())
	})

	It("should apply environment overrides", func() {
		setenv(cmn.EnvLogLevel, "2")
		setenv(cmn.EnvMetrics, "yes")
		setenv(cmn.EnvIntegrity, "off")
		setenv(cmn.EnvMaxRounds, "7")
		config := cmn.DefaultConfig()
		Expect(config.ApplyEnv()).To(Succeed())
		Expect(config.Metrics.Enabled).To(BeTrue())
		Expect(config.Integrity.Enabled).To(BeFalse())
		Expect(config.MaxRounds).To(BeEquivalentTo(7))
		Expect(config.Validate()).To(Succeed())
	})

	It("should reject invalid settings", func() {
		config := cmn.DefaultConfig()
		config.Log.Level = "loud"
		Expect(cos.IsErrUsage(config.Validate())).To(BeTrue())

		config = cmn.DefaultConfig()
		config.MaxRounds = -1
		Expect(cos.IsErrUsage(config.Validate())).To(BeTrue())

		config = cmn.DefaultConfig()
		config.Tracing.Enabled = true
		Expect(cos.IsErrUsage(config.Validate())).To(BeTrue())
	})
})

var _ = Describe("Group", func() {
	BeforeEach(func() {
		for _, name := range []string{cmn.EnvRank, cmn.EnvWorld, cmn.EnvPeers, cmn.EnvJob,
			"OMPI_COMM_WORLD_RANK", "OMPI_COMM_WORLD_SIZE", "PMI_RANK", "PMI_SIZE"} {
			setenv(name, "")
			os.Unsetenv(name)
		}
	})

	It("should default to a group of one", func() {
		g, err := cmn.GroupFromEnv()
		Expect(err).NotTo(HaveOccurred())
		Expect(g.Rank).To(Equal(0))
		Expect(g.World).To(Equal(1))
		Expect(g.Validate()).To(Succeed())
	})

	It("should read the launcher's variables", func() {
		setenv(cmn.EnvRank, "1")
		setenv(cmn.EnvWorld, "2")
		setenv(cmn.EnvPeers, "127.0.0.1:9000, 127.0.0.1:9001")
		setenv(cmn.EnvJob, "job1")
		g, err := cmn.GroupFromEnv()
		Expect(err).NotTo(HaveOccurred())
		Expect(g.Rank).To(Equal(1))
		Expect(g.World).To(Equal(2))
		Expect(g.Peers).To(Equal([]string{"127.0.0.1:9000", "127.0.0.1:9001"}))
		Expect(g.Validate()).To(Succeed())
		Expect(g.Env(0)).To(ContainElement(cmn.EnvRank + "=0"))
	})

	It("should fall back to MPI variables", func() {
		setenv("PMI_RANK", "3")
		setenv("PMI_SIZE", "4")
		g, err := cmn.GroupFromEnv()
		Expect(err).NotTo(HaveOccurred())
		Expect(g.Rank).To(Equal(3))
		Expect(g.World).To(Equal(4))
		// no peers for a group of four
		Expect(cos.IsErrUsage(g.Validate())).To(BeTrue())
	})

	It("should reject out-of-range ranks", func() {
		g := &cmn.Group{Rank: 2, World: 2, Peers: []string{"a:1", "b:2"}}
		Expect(cos.IsErrUsage(g.Validate())).To(BeTrue())
	})

	It("should generate shell-friendly job IDs", func() {
		id := cmn.GenJobID()
		Expect(id).NotTo(BeEmpty())
		Expect(id[0]).NotTo(BeElementOf(byte('-'), byte('_')))
		Expect(cmn.GenJobID()).NotTo(Equal(id))
	})
})
