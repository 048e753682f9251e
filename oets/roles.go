// Package oets implements distributed odd-even transposition sort: each rank sorts
// its contiguous block of the global array by alternating local compare-exchange
// passes with boundary exchanges, until a global reduction confirms no swaps.
/*
 * Copyright (c) 2026, NVIDIA CORPORATION. All rights reserved.
 */
package oets

import (
	"strings"

	"github.com/oesort/oesort/plan"
)

type Phase int

const (
	PhaseEven Phase = iota // global pairs (2k, 2k+1)
	PhaseOdd               // global pairs (2k+1, 2k+2)
)

var phases = [...]Phase{PhaseEven, PhaseOdd}

func (ph Phase) String() string {
	if ph == PhaseEven {
		return "even"
	}
	return "odd"
}

// Role in a boundary exchange; a rank may both send (right edge) and receive
// (left edge) in the same phase.
type Role uint8

const (
	RoleSend Role = 1 << iota // offer own last element to rank+1
	RoleRecv                  // reconcile rank-1's candidate with own first element

	RoleIdle Role = 0
)

func (r Role) Send() bool { return r&RoleSend != 0 }
func (r Role) Recv() bool { return r&RoleRecv != 0 }

func (r Role) String() string {
	if r == RoleIdle {
		return "idle"
	}
	var parts []string
	if r.Send() {
		parts = append(parts, "send")
	}
	if r.Recv() {
		parts = append(parts, "recv")
	}
	return strings.Join(parts, "+")
}

// roleTable[phase][rank&1][head&1][tail&1]
//
// Send iff the right boundary (Tail, Tail+1) is paired in this phase, i.e. Tail
// has the phase's parity; Recv iff the left boundary (Head-1, Head) is, i.e. Head
// does not. Rank parity never changes the outcome, so both halves are the same;
// only (rank, head, tail) = 000 and 111 (odd subset size), or 001 and 101 (even
// subset size) ever occur.
var roleTable = [2][2][2][2]Role{
	PhaseEven: {
		{ // even rank
			{RoleSend, RoleIdle},            // head even: tail even, tail odd
			{RoleSend | RoleRecv, RoleRecv}, // head odd
		},
		{ // odd rank
			{RoleSend, RoleIdle},
			{RoleSend | RoleRecv, RoleRecv},
		},
	},
	PhaseOdd: {
		{
			{RoleRecv, RoleSend | RoleRecv},
			{RoleIdle, RoleSend},
		},
		{
			{RoleRecv, RoleSend | RoleRecv},
			{RoleIdle, RoleSend},
		},
	},
}

// roleOf looks up the table and then applies the neighbor guards: inert and
// empty ranks, as well as ranks whose neighbor owns nothing, stay idle.
func roleOf(ph Phase, p *plan.Plan) Role {
	role := roleTable[ph][p.Rank&1][p.Head&1][p.Tail&1]
	if !p.HasRight() {
		role &^= RoleSend
	}
	if !p.HasLeft() {
		role &^= RoleRecv
	}
	return role
}
