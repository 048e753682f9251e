// Package cos provides common low-level types and utilities for all oesort packages
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package cos

// standard
const HdrContentType = "Content-Type"

// process group handshake (see transport)
const (
	HdrJob   = "X-Oesort-Job"
	HdrRank  = "X-Oesort-Rank"
	HdrWorld = "X-Oesort-World"
)

const ContentJSON = "application/json"
