// Package cos provides common low-level types and utilities for all oesort packages
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package cos

import (
	"github.com/oesort/oesort/cmn/debug"

	jsoniter "github.com/json-iterator/go"
)

// JSON is used to Marshal/Unmarshal config, reports, and health responses.
var JSON jsoniter.API

func init() {
	jsonConf := jsoniter.Config{
		EscapeHTML:            false,
		DisallowUnknownFields: true, // config typos must not go unnoticed
		SortMapKeys:           true,
	}
	JSON = jsonConf.Froze()
}

func MustMarshalToString(v any) string {
	s, err := JSON.MarshalToString(v)
	debug.AssertNoErr(err)
	return s
}

// MustMarshal marshals v and panics if error occurs.
func MustMarshal(v any) []byte {
	b, err := JSON.Marshal(v)
	debug.AssertNoErr(err)
	return b
}
