// Package dlnproof implements the Paillier-modulus DLN (discrete-log-modulo-N)
// proof used to certify the h1, h2 ring-Pedersen parameters published
// alongside a Paillier key, adapted from tss-lib's crypto/dlnproof/proof.go.
//
// It proves knowledge of an exponent x with h2 = h1^x mod N, repeated
// Iterations times so a cheating prover who doesn't know phi(N) succeeds with
// negligible probability.
package dlnproof

import (
	"io"
	"math/big"

	"github.com/HRezaei/tss-ecdsa-cli/internal/bigint"
)

const Iterations = 128

type Proof struct {
	Alpha [Iterations]*big.Int
	T     [Iterations]*big.Int
}

// New proves knowledge of x where h2 = h1^x mod N, given the factorization
// p, q of N so the prover can reduce exponents mod phi(N) = (p-1)(q-1).
func New(r io.Reader, h1, h2, x, p, q, n *big.Int) *Proof {
	pMinus1 := new(big.Int).Sub(p, bigint.One)
	qMinus1 := new(big.Int).Sub(q, bigint.One)
	phi := new(big.Int).Mul(pMinus1, qMinus1)
	phiMod := bigint.Mod(phi)
	nMod := bigint.Mod(n)

	a := [Iterations]*big.Int{}
	alpha := [Iterations]*big.Int{}
	for i := 0; i < Iterations; i++ {
		a[i] = bigint.GetRandomPositiveInt(r, phi)
		alpha[i] = nMod.Exp(h1, a[i])
	}

	msg := make([]*big.Int, 0, Iterations+2)
	msg = append(msg, h1, h2)
	msg = append(msg, alpha[:]...)
	c := bigint.SHA512_256i(msg...)

	t := [Iterations]*big.Int{}
	for i := 0; i < Iterations; i++ {
		ci := c.Bit(i)
		if ci == 1 {
			t[i] = phiMod.Add(a[i], x)
		} else {
			t[i] = a[i]
		}
	}
	return &Proof{Alpha: alpha, T: t}
}

// Verify checks the proof against the public h1, h2, n.
func (p *Proof) Verify(h1, h2, n *big.Int) bool {
	msg := make([]*big.Int, 0, Iterations+2)
	msg = append(msg, h1, h2)
	msg = append(msg, p.Alpha[:]...)
	c := bigint.SHA512_256i(msg...)
	nMod := bigint.Mod(n)

	for i := 0; i < Iterations; i++ {
		if p.Alpha[i] == nil || p.T[i] == nil {
			return false
		}
		h1ExpTi := nMod.Exp(h1, p.T[i])
		var expected *big.Int
		if c.Bit(i) == 1 {
			expected = nMod.Mul(p.Alpha[i], h2)
		} else {
			expected = p.Alpha[i]
		}
		if h1ExpTi.Cmp(expected) != 0 {
			return false
		}
	}
	return true
}
