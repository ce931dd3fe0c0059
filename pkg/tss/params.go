// Package tss holds the session-wide parameters every round and every
// cryptographic primitive package in this module is handed, adapted from
// tss-lib's tss/params.go. Unlike tss-lib's PartyID (a protobuf-wrapped
// arbitrary key), parties here are identified purely by the 1-based party
// number the rendezvous coordinator assigns at signup.
package tss

import (
	"crypto/elliptic"
	"crypto/rand"
	"io"
)

// Parameters bundles the curve, threshold scheme shape, and this party's
// assigned index for one protocol session (one keygen or one signing run).
type Parameters struct {
	ec          elliptic.Curve
	partyCount  int
	threshold   int
	partyIndex  int // 1-based, as assigned by the coordinator at signup
	path        []uint32
	rand        io.Reader
}

func NewParameters(ec elliptic.Curve, partyCount, threshold, partyIndex int) *Parameters {
	return &Parameters{
		ec:         ec,
		partyCount: partyCount,
		threshold:  threshold,
		partyIndex: partyIndex,
		rand:       rand.Reader,
	}
}

func (p *Parameters) EC() elliptic.Curve { return p.ec }
func (p *Parameters) PartyCount() int    { return p.partyCount }
func (p *Parameters) Threshold() int     { return p.threshold }
func (p *Parameters) PartyIndex() int    { return p.partyIndex }
func (p *Parameters) Rand() io.Reader    { return p.rand }
func (p *Parameters) Path() []uint32     { return p.path }

func (p *Parameters) SetRand(r io.Reader)   { p.rand = r }
func (p *Parameters) SetPath(path []uint32) { p.path = path }

// IsLeader reports whether this party is party 1. The HD splice in
// ecdsa/signing and eddsa/signing applies the same tweak to every party and
// does not consult it.
func (p *Parameters) IsLeader() bool { return p.partyIndex == 1 }
