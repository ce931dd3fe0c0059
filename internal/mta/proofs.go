package mta

import (
	"crypto/elliptic"
	"io"
	"math/big"

	"github.com/HRezaei/tss-ecdsa-cli/internal/bigint"
	"github.com/HRezaei/tss-ecdsa-cli/internal/ecpoint"
	"github.com/HRezaei/tss-ecdsa-cli/internal/paillier"
)

// ProofBob is Bob's proof "without check" from GG18Spec Fig. 11, used by the
// plain MtA sub-protocol.
type ProofBob struct {
	Z, ZPrm, T, V, W, S, S1, S2, T1, T2 *big.Int
}

// ProofBobWC additionally ties the proof to a public point X = x*G, the
// "with check" variant from Fig. 10 used by MtAwc during Phase 2 of signing.
type ProofBobWC struct {
	*ProofBob
	U *ecpoint.Point
}

// ProveBobWC builds Bob's proof that c2 = c1^x * Enc(y, r) for the x, y Bob
// holds, optionally (when x is non-nil) also tying x to xPoint = x*G.
func ProveBobWC(r io.Reader, curve elliptic.Curve, pk *paillier.PublicKey, nTilde, h1, h2, c1, c2, x, y, rnd *big.Int, xPoint *ecpoint.Point) (*ProofBobWC, error) {
	q := curve.Params().N
	q3 := new(big.Int).Mul(q, new(big.Int).Mul(q, q))
	qnTilde := new(big.Int).Mul(q, nTilde)
	q3nTilde := new(big.Int).Mul(q3, nTilde)

	alpha := bigint.GetRandomPositiveInt(r, q3)
	rho := bigint.GetRandomPositiveInt(r, qnTilde)
	sigma := bigint.GetRandomPositiveInt(r, qnTilde)
	tau := bigint.GetRandomPositiveInt(r, qnTilde)
	rhoPrm := bigint.GetRandomPositiveInt(r, q3nTilde)
	beta := bigint.GetRandomPositiveRelativelyPrimeInt(r, pk.N)
	gamma := bigint.GetRandomPositiveRelativelyPrimeInt(r, pk.N)

	var u *ecpoint.Point
	if xPoint != nil {
		u = ecpoint.ScalarBaseMult(curve, alpha)
	}

	modNTilde := bigint.Mod(nTilde)
	z := modNTilde.Mul(modNTilde.Exp(h1, x), modNTilde.Exp(h2, rho))
	zPrm := modNTilde.Mul(modNTilde.Exp(h1, alpha), modNTilde.Exp(h2, rhoPrm))
	t := modNTilde.Mul(modNTilde.Exp(h1, y), modNTilde.Exp(h2, sigma))

	modNSquare := bigint.Mod(pk.NSquare)
	v := modNSquare.Mul(modNSquare.Exp(c1, alpha), modNSquare.Exp(pk.G, gamma))
	v = modNSquare.Mul(v, modNSquare.Exp(beta, pk.N))

	w := modNTilde.Mul(modNTilde.Exp(h1, gamma), modNTilde.Exp(h2, tau))

	var eHash *big.Int
	if xPoint == nil {
		eHash = bigint.SHA512_256i(pk.N, c1, c2, z, zPrm, t, v, w)
	} else {
		eHash = bigint.SHA512_256i(pk.N, xPoint.X(), xPoint.Y(), c1, c2, u.X(), u.Y(), z, zPrm, t, v, w)
	}
	e := bigint.RejectionSample(q, eHash)

	modN := bigint.Mod(pk.N)
	s := modN.Mul(modN.Exp(rnd, e), beta)
	s1 := new(big.Int).Add(new(big.Int).Mul(e, x), alpha)
	s2 := new(big.Int).Add(new(big.Int).Mul(e, rho), rhoPrm)
	t1 := new(big.Int).Add(new(big.Int).Mul(e, y), gamma)
	t2 := new(big.Int).Add(new(big.Int).Mul(e, sigma), tau)

	pf := &ProofBob{Z: z, ZPrm: zPrm, T: t, V: v, W: w, S: s, S1: s1, S2: s2, T1: t1, T2: t2}
	return &ProofBobWC{ProofBob: pf, U: u}, nil
}

// ProveBob builds the "without check" proof used by the plain MtA protocol.
func ProveBob(r io.Reader, curve elliptic.Curve, pk *paillier.PublicKey, nTilde, h1, h2, c1, c2, x, y, rnd *big.Int) (*ProofBob, error) {
	pf, err := ProveBobWC(r, curve, pk, nTilde, h1, h2, c1, c2, x, y, rnd, nil)
	if err != nil {
		return nil, err
	}
	return pf.ProofBob, nil
}

func (pf *ProofBobWC) Verify(curve elliptic.Curve, pk *paillier.PublicKey, nTilde, h1, h2, c1, c2 *big.Int, xPoint *ecpoint.Point) bool {
	if pf == nil || pf.ProofBob == nil || !pf.ProofBob.validateBasic() {
		return false
	}
	q := curve.Params().N
	q3 := new(big.Int).Mul(q, new(big.Int).Mul(q, q))

	gcd := new(big.Int)
	if pf.S.Sign() == 0 || gcd.GCD(nil, nil, pf.S, pk.N).Cmp(bigint.One) != 0 {
		return false
	}
	if pf.V.Sign() == 0 || gcd.GCD(nil, nil, pf.V, pk.N).Cmp(bigint.One) != 0 {
		return false
	}
	if pf.S1.Cmp(q3) > 0 {
		return false
	}

	var eHash *big.Int
	if xPoint == nil {
		eHash = bigint.SHA512_256i(pk.N, c1, c2, pf.Z, pf.ZPrm, pf.T, pf.V, pf.W)
	} else {
		eHash = bigint.SHA512_256i(pk.N, xPoint.X(), xPoint.Y(), c1, c2, pf.U.X(), pf.U.Y(), pf.Z, pf.ZPrm, pf.T, pf.V, pf.W)
	}
	e := bigint.RejectionSample(q, eHash)

	if xPoint != nil {
		s1ModQ := new(big.Int).Mod(pf.S1, q)
		gS1 := ecpoint.ScalarBaseMult(curve, s1ModQ)
		xeu, err := xPoint.ScalarMult(e).Add(pf.U)
		if err != nil || !gS1.Equals(xeu) {
			return false
		}
	}

	modNTilde := bigint.Mod(nTilde)
	{
		left := modNTilde.Mul(modNTilde.Exp(h1, pf.S1), modNTilde.Exp(h2, pf.S2))
		right := modNTilde.Mul(modNTilde.Exp(pf.Z, e), pf.ZPrm)
		if left.Cmp(right) != 0 {
			return false
		}
	}
	{
		left := modNTilde.Mul(modNTilde.Exp(h1, pf.T1), modNTilde.Exp(h2, pf.T2))
		right := modNTilde.Mul(modNTilde.Exp(pf.T, e), pf.W)
		if left.Cmp(right) != 0 {
			return false
		}
	}

	modNSquare := bigint.Mod(pk.NSquare)
	left := modNSquare.Mul(modNSquare.Exp(c1, pf.S1), modNSquare.Exp(pf.S, pk.N))
	left = modNSquare.Mul(left, modNSquare.Exp(pk.G, pf.T1))
	right := modNSquare.Mul(modNSquare.Exp(c2, e), pf.V)
	return left.Cmp(right) == 0
}

func (pf *ProofBob) Verify(curve elliptic.Curve, pk *paillier.PublicKey, nTilde, h1, h2, c1, c2 *big.Int) bool {
	if pf == nil {
		return false
	}
	wrapped := &ProofBobWC{ProofBob: pf, U: nil}
	return wrapped.Verify(curve, pk, nTilde, h1, h2, c1, c2, nil)
}

func (pf *ProofBob) validateBasic() bool {
	return pf.Z != nil && pf.ZPrm != nil && pf.T != nil && pf.V != nil && pf.W != nil &&
		pf.S != nil && pf.S1 != nil && pf.S2 != nil && pf.T1 != nil && pf.T2 != nil
}

func (pf *ProofBobWC) validateBasic() bool {
	return pf.ProofBob.validateBasic() && pf.U != nil
}
