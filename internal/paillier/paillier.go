// Package paillier implements the Paillier cryptosystem used to carry MtA
// (Multiplicative-to-Additive) share conversion during GG18 signing,
// adapted from tss-lib's crypto/paillier/paillier.go.
package paillier

import (
	"io"
	"math/big"

	"github.com/pkg/errors"

	"github.com/HRezaei/tss-ecdsa-cli/internal/bigint"
)

// ModulusBitLen is the default bit length of each prime in GenerateKeyPair;
// N is twice that.
const ModulusBitLen = 1536

type PublicKey struct {
	N       *big.Int
	NSquare *big.Int
	G       *big.Int // always N+1 in this construction
}

type PrivateKey struct {
	PublicKey
	LambdaN *big.Int // lcm(p-1, q-1)
	PhiN    *big.Int // (p-1)(q-1)
}

// GenerateKeyPair samples two ordinary random primes of bitLen bits
// (ModulusBitLen when bitLen <= 0; they are not checked to be safe primes)
// and derives the corresponding Paillier keypair. The primes are also
// returned so the caller can produce the h1,h2 DLN-proof parameters that
// travel alongside this key.
func GenerateKeyPair(r io.Reader, bitLen int) (*PrivateKey, *PublicKey, *big.Int, *big.Int, error) {
	if bitLen <= 0 {
		bitLen = ModulusBitLen
	}
	p, err := bigint.GetRandomPrimeInt(r, bitLen)
	if err != nil {
		return nil, nil, nil, nil, errors.Wrap(err, "paillier: generating p")
	}
	q, err := bigint.GetRandomPrimeInt(r, bitLen)
	if err != nil {
		return nil, nil, nil, nil, errors.Wrap(err, "paillier: generating q")
	}
	for p.Cmp(q) == 0 {
		q, err = bigint.GetRandomPrimeInt(r, bitLen)
		if err != nil {
			return nil, nil, nil, nil, errors.Wrap(err, "paillier: regenerating q")
		}
	}

	n := new(big.Int).Mul(p, q)
	nSquare := new(big.Int).Mul(n, n)
	g := new(big.Int).Add(n, bigint.One)

	pMinus1 := new(big.Int).Sub(p, bigint.One)
	qMinus1 := new(big.Int).Sub(q, bigint.One)
	phiN := new(big.Int).Mul(pMinus1, qMinus1)

	gcd := new(big.Int).GCD(nil, nil, pMinus1, qMinus1)
	lambdaN := new(big.Int).Div(phiN, gcd)

	pub := PublicKey{N: n, NSquare: nSquare, G: g}
	priv := &PrivateKey{PublicKey: pub, LambdaN: lambdaN, PhiN: phiN}
	return priv, &pub, p, q, nil
}

// Encrypt returns E(m) along with the randomness used, so callers needing a
// ZK range proof over the ciphertext can reuse it.
func (pub *PublicKey) Encrypt(r io.Reader, m *big.Int) (*big.Int, *big.Int, error) {
	if m.Cmp(bigint.Zero) < 0 || m.Cmp(pub.N) >= 0 {
		return nil, nil, errors.New("paillier: message out of range [0, N)")
	}
	x := bigint.GetRandomPositiveRelativelyPrimeInt(r, pub.N)
	c, err := pub.EncryptWithRandomness(m, x)
	return c, x, err
}

func (pub *PublicKey) EncryptWithRandomness(m, x *big.Int) (*big.Int, error) {
	nSquareMod := bigint.Mod(pub.NSquare)
	gm := nSquareMod.Exp(pub.G, m)
	xn := nSquareMod.Exp(x, pub.N)
	return nSquareMod.Mul(gm, xn), nil
}

func (priv *PrivateKey) Decrypt(c *big.Int) (*big.Int, error) {
	if c.Cmp(bigint.Zero) < 0 || c.Cmp(priv.NSquare) >= 0 {
		return nil, errors.New("paillier: ciphertext out of range [0, N^2)")
	}
	nSquareMod := bigint.Mod(priv.NSquare)
	cLambda := nSquareMod.Exp(c, priv.LambdaN)
	lOfU := lFunc(cLambda, priv.N)

	nMod := bigint.Mod(priv.N)
	mu := nMod.ModInverse(priv.LambdaN)
	m := nMod.Mul(lOfU, mu)
	return m, nil
}

func lFunc(u, n *big.Int) *big.Int {
	t := new(big.Int).Sub(u, bigint.One)
	return new(big.Int).Div(t, n)
}

// HomoAdd returns E(m1 + m2) from E(m1), E(m2).
func (pub *PublicKey) HomoAdd(c1, c2 *big.Int) *big.Int {
	return bigint.Mod(pub.NSquare).Mul(c1, c2)
}

// HomoAddPlain returns E(m1 + plain) from E(m1).
func (pub *PublicKey) HomoAddPlain(c1, plain *big.Int) *big.Int {
	encOfPlain, _ := pub.EncryptWithRandomness(plain, bigint.One)
	return pub.HomoAdd(c1, encOfPlain)
}

// HomoMult returns E(k * m1) from E(m1).
func (pub *PublicKey) HomoMult(k, c1 *big.Int) *big.Int {
	return bigint.Mod(pub.NSquare).Exp(c1, k)
}
