// Package transport provides the process group for distributed odd-even sort:
// point-to-point int64 messages between ranks plus barrier and all-reduce.
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package transport

import (
	"context"
	"fmt"
	"sync/atomic"
)

// message tags
type Tag uint8

const (
	TagRequest  Tag = iota + 1 // boundary candidate, rank r => r+1
	TagResponse                // reconciled value, rank r+1 => r
	TagGather                  // collective: contribution, rank => 0
	TagBcast                   // collective: result, 0 => rank
	numTags
)

// reduction operators
type Op uint8

const (
	OpAnd Op = iota + 1 // logical AND over {0, 1}
	OpSum
	OpMax
	OpMin
)

type (
	// Comm is a fixed group of ranks [0, Size). Every blocking call takes a context
	// and returns ctx.Err() (wrapped) once the context is done.
	Comm interface {
		Rank() int
		Size() int
		Send(ctx context.Context, dst int, tag Tag, val int64) error
		Recv(ctx context.Context, src int, tag Tag) (int64, error)
		// Barrier returns after all ranks have entered it.
		Barrier(ctx context.Context) error
		// AllReduce combines one value per rank; all ranks receive the same result.
		AllReduce(ctx context.Context, op Op, val int64) (int64, error)
		Stats() *Stats
		Close() error
	}

	// message counters, including the ones generated by collectives
	Stats struct {
		Sent atomic.Int64
		Recv atomic.Int64
	}
)

func (t Tag) String() string {
	switch t {
	case TagRequest:
		return "request"
	case TagResponse:
		return "response"
	case TagGather:
		return "gather"
	case TagBcast:
		return "bcast"
	default:
		return fmt.Sprintf("tag(%d)", uint8(t))
	}
}

func (t Tag) valid() bool { return t >= TagRequest && t < numTags }

func (op Op) String() string {
	switch op {
	case OpAnd:
		return "and"
	case OpSum:
		return "sum"
	case OpMax:
		return "max"
	case OpMin:
		return "min"
	default:
		return fmt.Sprintf("op(%d)", uint8(op))
	}
}

func (op Op) apply(a, b int64) int64 {
	switch op {
	case OpAnd:
		if a != 0 && b != 0 {
			return 1
		}
		return 0
	case OpSum:
		return a + b
	case OpMax:
		return max(a, b)
	case OpMin:
		return min(a, b)
	default:
		panic(op.String())
	}
}
