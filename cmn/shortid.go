// Package cmn provides common types and utilities for all oesort packages
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package cmn

// NOTE: BEWARE: `shortid` uses hardcoded 01/2016 as a starting timestamp
import (
	"math/rand/v2"
	"sync"

	"github.com/teris-io/shortid"
)

const (
	// alphabet for job IDs similar to the shortid.DEFAULT_ABC
	uuidABC = "-5nZJDft6LuzsjGNpPwY7rQa39vehq4i1cV2FROo8yHSlC0BUEdWbIxMmTgKXAk_"

	letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

var (
	sids     [4]*shortid.Shortid
	sidsOnce sync.Once
)

func InitShortid(seed uint64) {
	for i := range sids {
		sids[i] = shortid.MustNew(uint8(i+1) /*worker*/, uuidABC, seed)
	}
}

// GenJobID generates a user-friendly ID shared by all ranks of one run;
// never starts or ends with '-' or '_' (shell- and filename-friendly)
func GenJobID() (id string) {
	sidsOnce.Do(func() {
		if sids[0] == nil {
			InitShortid(rand.Uint64())
		}
	})
	var err error
	for _, sid := range sids {
		id, err = sid.Generate()
		if err == nil && id[0] != '-' && id[0] != '_' && id[len(id)-1] != '-' && id[len(id)-1] != '_' {
			return
		}
	}
	b := make([]byte, 9)
	for i := range b {
		b[i] = letters[rand.IntN(len(letters))]
	}
	return string(b)
}
