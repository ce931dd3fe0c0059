// Package zkp collects the sigma-protocol zero-knowledge proofs used across
// keygen and signing: a plain Schnorr dlog proof and the Phase-5
// Homomorphic-ElGamal consistency proof, adapted from tss-lib's
// crypto/schnorr/schnorr_proof.go.
package zkp

import (
	"crypto/elliptic"
	"io"
	"math/big"

	"github.com/pkg/errors"

	"github.com/HRezaei/tss-ecdsa-cli/internal/bigint"
	"github.com/HRezaei/tss-ecdsa-cli/internal/ecpoint"
)

// DlogProof is a non-interactive Schnorr proof of knowledge of x where X = x*G.
type DlogProof struct {
	Alpha *ecpoint.Point
	T     *big.Int
}

func NewDlogProof(r io.Reader, curve elliptic.Curve, x *big.Int, xPoint *ecpoint.Point) *DlogProof {
	q := curve.Params().N
	mod := bigint.Mod(q)

	a := bigint.GetRandomPositiveInt(r, q)
	alpha := ecpoint.ScalarBaseMult(curve, a)

	c := bigint.RejectionSample(q, bigint.SHA512_256i(
		alpha.X(), alpha.Y(), xPoint.X(), xPoint.Y()))

	t := mod.Add(a, mod.Mul(c, x))
	return &DlogProof{Alpha: alpha, T: t}
}

func (p *DlogProof) Verify(curve elliptic.Curve, xPoint *ecpoint.Point) bool {
	if p.Alpha == nil || p.T == nil {
		return false
	}
	q := curve.Params().N
	c := bigint.RejectionSample(q, bigint.SHA512_256i(
		p.Alpha.X(), p.Alpha.Y(), xPoint.X(), xPoint.Y()))

	lhs := ecpoint.ScalarBaseMult(curve, p.T)
	rhs, err := p.Alpha.Add(xPoint.ScalarMult(c))
	if err != nil {
		return false
	}
	return lhs.Equals(rhs)
}

// EqDlogProof is a Chaum-Pedersen proof of knowledge of a single rho such
// that U = rho*G and T = rho*R, two bases sharing one secret exponent. Used
// by Phase-5 to bind the nonce-blinding point a party reveals early (U, in
// round 6) to the one it reveals late (T, in round 8), so the two rounds'
// commit/decommit cannot be satisfied by two unrelated secrets.
type EqDlogProof struct {
	AlphaG *ecpoint.Point
	AlphaR *ecpoint.Point
	T      *big.Int
}

// NewEqDlogProof generates the full proof up front (the prover knows both U
// and T at local-compute time); the caller is responsible for revealing
// AlphaG/AlphaR/T and U in round 6, then T (the point) in round 8, per
// Phase-5's split commit/decommit schedule.
func NewEqDlogProof(r io.Reader, curve elliptic.Curve, base *ecpoint.Point, rho *big.Int, u, tPoint *ecpoint.Point) *EqDlogProof {
	q := curve.Params().N
	mod := bigint.Mod(q)

	a := bigint.GetRandomPositiveInt(r, q)
	alphaG := ecpoint.ScalarBaseMult(curve, a)
	alphaR := base.ScalarMult(a)

	c := bigint.RejectionSample(q, bigint.SHA512_256i(
		alphaG.X(), alphaG.Y(), alphaR.X(), alphaR.Y(), u.X(), u.Y(), tPoint.X(), tPoint.Y()))

	t := mod.Add(a, mod.Mul(c, rho))
	return &EqDlogProof{AlphaG: alphaG, AlphaR: alphaR, T: t}
}

// Verify checks both equations once tPoint has been revealed (round 8); base
// is R, the signing session's aggregated nonce point.
func (p *EqDlogProof) Verify(curve elliptic.Curve, base, u, tPoint *ecpoint.Point) bool {
	if p.AlphaG == nil || p.AlphaR == nil || p.T == nil {
		return false
	}
	q := curve.Params().N
	c := bigint.RejectionSample(q, bigint.SHA512_256i(
		p.AlphaG.X(), p.AlphaG.Y(), p.AlphaR.X(), p.AlphaR.Y(), u.X(), u.Y(), tPoint.X(), tPoint.Y()))

	lhsG := ecpoint.ScalarBaseMult(curve, p.T)
	rhsG, err := p.AlphaG.Add(u.ScalarMult(c))
	if err != nil || !lhsG.Equals(rhsG) {
		return false
	}

	lhsR := base.ScalarMult(p.T)
	rhsR, err := p.AlphaR.Add(tPoint.ScalarMult(c))
	if err != nil {
		return false
	}
	return lhsR.Equals(rhsR)
}

// HomoElGamalProof proves knowledge of (s, l) such that V = R^s * G^l and
// A = g^l, the Phase-5 consistency check tying a party's Gamma-share
// commitment to its revealed Gamma_i value (GG18 Fig. 17).
type HomoElGamalProof struct {
	T1 *ecpoint.Point
	T2 *ecpoint.Point
	T3 *big.Int
	T4 *big.Int
}

func NewHomoElGamalProof(r io.Reader, curve elliptic.Curve, s, l *big.Int, rPoint, basePoint *ecpoint.Point) (*HomoElGamalProof, error) {
	q := curve.Params().N
	mod := bigint.Mod(q)

	alpha := bigint.GetRandomPositiveInt(r, q)
	beta := bigint.GetRandomPositiveInt(r, q)

	t1, err := rPoint.ScalarMult(alpha).Add(ecpoint.ScalarBaseMult(curve, beta))
	if err != nil {
		return nil, err
	}
	t2 := ecpoint.ScalarBaseMult(curve, beta)

	c := bigint.RejectionSample(q, bigint.SHA512_256i(
		basePoint.X(), basePoint.Y(), t1.X(), t1.Y(), t2.X(), t2.Y()))

	t3 := mod.Add(alpha, mod.Mul(c, s))
	t4 := mod.Add(beta, mod.Mul(c, l))
	return &HomoElGamalProof{T1: t1, T2: t2, T3: t3, T4: t4}, nil
}

// Verify checks the proof against V (= R^s * G^l) and A (= g^l), as
// labelled by the caller's choice of rPoint/basePoint.
func (p *HomoElGamalProof) Verify(curve elliptic.Curve, rPoint, basePoint, v, a *ecpoint.Point) (bool, error) {
	if p.T1 == nil || p.T2 == nil || p.T3 == nil || p.T4 == nil {
		return false, errors.New("zkp: HomoElGamalProof missing fields")
	}
	q := curve.Params().N
	c := bigint.RejectionSample(q, bigint.SHA512_256i(
		basePoint.X(), basePoint.Y(), p.T1.X(), p.T1.Y(), p.T2.X(), p.T2.Y()))

	lhs1, err := rPoint.ScalarMult(p.T3).Add(ecpoint.ScalarBaseMult(curve, p.T4))
	if err != nil {
		return false, err
	}
	rhs1, err := p.T1.Add(v.ScalarMult(c))
	if err != nil {
		return false, err
	}
	if !lhs1.Equals(rhs1) {
		return false, nil
	}

	lhs2 := ecpoint.ScalarBaseMult(curve, p.T4)
	rhs2, err := p.T2.Add(a.ScalarMult(c))
	if err != nil {
		return false, err
	}
	return lhs2.Equals(rhs2), nil
}
