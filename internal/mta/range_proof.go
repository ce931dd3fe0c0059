// Package mta implements the Multiplicative-to-Additive share conversion and
// its accompanying Alice/Bob range proofs, adapted from tss-lib's
// crypto/mta/{range_proof,proofs,share_protocol}.go (GG18Spec Figs. 9-11).
package mta

import (
	"crypto/elliptic"
	"io"
	"math/big"

	"github.com/HRezaei/tss-ecdsa-cli/internal/bigint"
	"github.com/HRezaei/tss-ecdsa-cli/internal/paillier"
)

// RangeProofAlice proves a Paillier ciphertext c encrypts a plaintext in
// [0, q) without revealing it (GG18Spec Fig. 9), against a verifier-owned
// NTilde/h1/h2 ring-Pedersen modulus.
type RangeProofAlice struct {
	Z, U, W, S, S1, S2 *big.Int
}

// ProveRangeAlice builds the range proof for ciphertext c = Enc(m, r) under pk.
func ProveRangeAlice(r io.Reader, curve elliptic.Curve, pk *paillier.PublicKey, c, nTilde, h1, h2, m, rnd *big.Int) (*RangeProofAlice, error) {
	q := curve.Params().N
	q3 := new(big.Int).Mul(q, new(big.Int).Mul(q, q))
	qnTilde := new(big.Int).Mul(q, nTilde)
	q3nTilde := new(big.Int).Mul(q3, nTilde)

	alpha := bigint.GetRandomPositiveInt(r, q3)
	beta := bigint.GetRandomPositiveRelativelyPrimeInt(r, pk.N)
	gamma := bigint.GetRandomPositiveInt(r, q3nTilde)
	rho := bigint.GetRandomPositiveInt(r, qnTilde)

	modNTilde := bigint.Mod(nTilde)
	z := modNTilde.Mul(modNTilde.Exp(h1, m), modNTilde.Exp(h2, rho))

	modNSquare := bigint.Mod(pk.NSquare)
	u := modNSquare.Mul(modNSquare.Exp(pk.G, alpha), modNSquare.Exp(beta, pk.N))

	w := modNTilde.Mul(modNTilde.Exp(h1, alpha), modNTilde.Exp(h2, gamma))

	e := bigint.RejectionSample(q, bigint.SHA512_256i(pk.N, c, z, u, w))

	modN := bigint.Mod(pk.N)
	s := modN.Mul(modN.Exp(rnd, e), beta)

	s1 := new(big.Int).Add(new(big.Int).Mul(e, m), alpha)
	s2 := new(big.Int).Add(new(big.Int).Mul(e, rho), gamma)

	return &RangeProofAlice{Z: z, U: u, W: w, S: s, S1: s1, S2: s2}, nil
}

func (pf *RangeProofAlice) Verify(curve elliptic.Curve, pk *paillier.PublicKey, nTilde, h1, h2, c *big.Int) bool {
	if pf == nil || !pf.validateBasic() {
		return false
	}
	q := curve.Params().N
	q3 := new(big.Int).Mul(q, new(big.Int).Mul(q, q))
	if pf.S1.Cmp(q3) > 0 {
		return false
	}

	e := bigint.RejectionSample(q, bigint.SHA512_256i(pk.N, c, pf.Z, pf.U, pf.W))
	minusE := new(big.Int).Neg(e)

	modNSquare := bigint.Mod(pk.NSquare)
	u := modNSquare.Mul(modNSquare.Exp(pk.G, pf.S1), modNSquare.Exp(pf.S, pk.N))
	u = modNSquare.Mul(u, modNSquare.Exp(c, minusE))
	if pf.U.Cmp(u) != 0 {
		return false
	}

	modNTilde := bigint.Mod(nTilde)
	w := modNTilde.Mul(modNTilde.Exp(h1, pf.S1), modNTilde.Exp(h2, pf.S2))
	w = modNTilde.Mul(w, modNTilde.Exp(pf.Z, minusE))
	return pf.W.Cmp(w) == 0
}

func (pf *RangeProofAlice) validateBasic() bool {
	return pf.Z != nil && pf.U != nil && pf.W != nil && pf.S != nil && pf.S1 != nil && pf.S2 != nil
}
