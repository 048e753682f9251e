// Package plan derives each rank's contiguous block of the global array
/*
 * Copyright (c) 2026, NVIDIA CORPORATION. All rights reserved.
 */
package plan

import (
	"fmt"

	"github.com/oesort/oesort/cmn/cos"
)

// Plan: one rank's share of `Total` elements.
// Head and Tail are logical (pre-clamp) global indices, Count is the actual
// number of elements this rank owns after clipping to Total.
type Plan struct {
	Total      int64 // global element count
	World      int64 // effective (clamped) number of participating ranks
	Rank       int64
	SubsetSize int64 // ceil(Total / World)
	Head       int64 // SubsetSize * Rank
	Tail       int64 // Head + SubsetSize - 1
	Count      int64 // 0 for inert and empty ranks
}

// Effective clamps the launched world size down to the number of elements;
// never returns less than one.
func Effective(total, world int64) int64 {
	if total < world {
		world = total
	}
	return max(world, 1)
}

func New(total, world, rank int64) Plan {
	p := Plan{Total: total, World: Effective(total, world), Rank: rank}
	p.SubsetSize = total / p.World
	if total%p.World != 0 {
		p.SubsetSize++
	}
	p.Head = p.SubsetSize * rank
	p.Tail = p.Head + p.SubsetSize - 1
	if rank < p.World && p.Head < total {
		p.Count = min(p.SubsetSize, total-p.Head)
	}
	return p
}

// SingleProcess: degenerate case with no boundaries to exchange
func (p *Plan) SingleProcess() bool { return p.World <= 1 }

// Inert: launched rank beyond the clamped world
func (p *Plan) Inert() bool { return p.Rank >= p.World }

func (p *Plan) Empty() bool { return p.Count == 0 }

// Range returns the half-open global element range [lo, hi) this rank owns.
func (p *Plan) Range() (lo, hi int64) {
	if p.Count == 0 {
		return p.Head, p.Head
	}
	return p.Head, p.Head + p.Count
}

// byte offset in the medium
func (p *Plan) Offset() int64 { return p.Head * cos.SizeofI32 }

// HasRight: the right neighbor exists and owns at least one element,
// i.e. the global pair (Tail, Tail+1) straddles this rank's right edge.
func (p *Plan) HasRight() bool {
	return p.Count > 0 && p.Rank+1 < p.World && p.Tail+1 < p.Total
}

// HasLeft: the global pair (Head-1, Head) straddles this rank's left edge.
func (p *Plan) HasLeft() bool { return p.Count > 0 && p.Rank > 0 }

// Last: owns the final element of the global array (or Total is zero and rank is 0)
func (p *Plan) Last() bool {
	if p.Total == 0 {
		return p.Rank == 0
	}
	return p.Count > 0 && p.Head+p.Count == p.Total
}

func (p *Plan) String() string {
	lo, hi := p.Range()
	return fmt.Sprintf("plan[r%d/%d: subset=%d, range=[%d, %d)]", p.Rank, p.World, p.SubsetSize, lo, hi)
}

// Coverage returns the element range of every launched rank, in rank order.
func Coverage(total, world int64) [][2]int64 {
	out := make([][2]int64, 0, max(world, 1))
	for r := range max(world, 1) {
		p := New(total, world, r)
		lo, hi := p.Range()
		out = append(out, [2]int64{lo, hi})
	}
	return out
}

// Owner returns the rank owning global element `idx`.
func Owner(total, world, idx int64) int64 {
	p := New(total, world, 0)
	return idx / p.SubsetSize
}
