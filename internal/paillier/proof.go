package paillier

import (
	"math/big"

	"github.com/otiai10/primes"
	"github.com/pkg/errors"

	"github.com/HRezaei/tss-ecdsa-cli/internal/bigint"
)

// ProofIters is the number of repetitions of the modulus proof (GG18 Fig. 14),
// chosen so a false N is accepted with probability at most 2^-ProofIters.
const (
	ProofIters        = 13
	verifyPrimesUntil = 1000
)

// Proof attests that N was generated honestly as the product of two large
// primes, by exhibiting ProofIters values y_i with x_i^N = y_i mod N for an
// x_i only the key's owner (who knows phi(N)) could find.
type Proof [ProofIters]*big.Int

func init() {
	// prime the shared cache so the first ValidateN call isn't the one
	// paying for the sieve.
	_ = primes.Globally.Until(verifyPrimesUntil)
}

// ValidateN performs the cheap small-prime trial division sieve: a dishonest
// N divisible by any prime under verifyPrimesUntil is rejected immediately,
// before the expensive modular-exponentiation proof below is even attempted.
func ValidateN(n *big.Int) error {
	if n == nil || n.Sign() <= 0 {
		return errors.New("paillier: N must be positive")
	}
	if n.Bit(0) == 0 {
		return errors.New("paillier: N must be odd")
	}
	rem := new(big.Int)
	for _, p := range primes.Until(verifyPrimesUntil).List() {
		rem.Mod(n, big.NewInt(int64(p)))
		if rem.Sign() == 0 {
			return errors.Errorf("paillier: N is divisible by small prime %d", p)
		}
	}
	return nil
}

// Prove builds the modulus proof using a hash-derived challenge y_1..y_k.
func (priv *PrivateKey) Prove(ctx *big.Int) (*Proof, error) {
	nMod := bigint.Mod(priv.N)
	var proof Proof
	for i := 0; i < ProofIters; i++ {
		yi := bigint.SHA512_256i(ctx, priv.N, big.NewInt(int64(i)))
		yi.Mod(yi, priv.N)
		// x_i = y_i ^ (N^-1 mod phi(N)) mod N, the N-th root of y_i, which
		// only the holder of phi(N) can compute.
		phiMod := bigint.Mod(priv.PhiN)
		nInvModPhi := phiMod.ModInverse(priv.N)
		if nInvModPhi == nil {
			return nil, errors.New("paillier: N not invertible mod phi(N)")
		}
		proof[i] = nMod.Exp(yi, nInvModPhi)
	}
	return &proof, nil
}

// Verify checks that x_i^N == y_i mod N for every i, using the same
// hash-derived challenge the prover used.
func (proof *Proof) Verify(pub *PublicKey, ctx *big.Int) bool {
	nMod := bigint.Mod(pub.N)
	for i := 0; i < ProofIters; i++ {
		if proof[i] == nil {
			return false
		}
		yi := bigint.SHA512_256i(ctx, pub.N, big.NewInt(int64(i)))
		yi.Mod(yi, pub.N)
		xiN := nMod.Exp(proof[i], pub.N)
		if xiN.Cmp(yi) != 0 {
			return false
		}
	}
	return true
}
