package paillier

import (
	"context"
	"io"
	"math/big"

	"github.com/pkg/errors"

	"github.com/HRezaei/tss-ecdsa-cli/internal/bigint"
)

// SafePrimeBitLen is the bit length of each of the two primes behind NTilde,
// the ring-Pedersen modulus used by every range proof. The primes are
// ordinary random primes; they are not checked to be safe primes.
const SafePrimeBitLen = 1024

// PreParams bundles everything a party generates before keygen even starts:
// its own Paillier keypair plus the NTilde/h1/h2 parameters it will publish
// so other parties can verify its range proofs.
type PreParams struct {
	PaillierSK *PrivateKey
	PaillierPK *PublicKey
	NTilde     *big.Int
	H1, H2     *big.Int
	Alpha, Beta *big.Int
	P, Q       *big.Int // factors of NTilde, kept private
}

// GeneratePreParams runs Paillier keygen and the NTilde/h1/h2 ring-Pedersen
// setup concurrently, matching the out-of-band preprocessing tss-lib
// recommends for GG18 parties (ecdsa/keygen/prepare.go).
func GeneratePreParams(ctx context.Context, r io.Reader) (*PreParams, error) {
	type paiResult struct {
		sk *PrivateKey
		p, q *big.Int
		err error
	}
	type ntildeResult struct {
		p, q *big.Int
		err  error
	}

	paiCh := make(chan paiResult, 1)
	go func() {
		sk, _, p, q, err := GenerateKeyPair(r, ModulusBitLen/2)
		paiCh <- paiResult{sk, p, q, err}
	}()

	ntCh := make(chan ntildeResult, 1)
	go func() {
		p, err := bigint.GetRandomPrimeInt(r, SafePrimeBitLen)
		if err != nil {
			ntCh <- ntildeResult{err: err}
			return
		}
		q, err := bigint.GetRandomPrimeInt(r, SafePrimeBitLen)
		ntCh <- ntildeResult{p, q, err}
	}()

	var pai paiResult
	var nt ntildeResult
	var paiDone, ntDone bool
	for !paiDone || !ntDone {
		select {
		case <-ctx.Done():
			return nil, errors.New("paillier: timed out generating pre-parameters")
		case pai = <-paiCh:
			if pai.err != nil {
				return nil, errors.Wrap(pai.err, "paillier: generating keypair")
			}
			paiDone = true
		case nt = <-ntCh:
			if nt.err != nil {
				return nil, errors.Wrap(nt.err, "paillier: generating NTilde safe primes")
			}
			ntDone = true
		}
	}

	nTilde := new(big.Int).Mul(nt.p, nt.q)
	modNTilde := bigint.Mod(nTilde)

	phiNTilde := new(big.Int).Mul(new(big.Int).Sub(nt.p, bigint.One), new(big.Int).Sub(nt.q, bigint.One))
	modPhi := bigint.Mod(phiNTilde)
	f1 := bigint.GetRandomPositiveRelativelyPrimeInt(r, nTilde)
	alpha := bigint.GetRandomPositiveRelativelyPrimeInt(r, phiNTilde)
	beta := modPhi.ModInverse(alpha)
	h1 := modNTilde.Mul(f1, f1)
	h2 := modNTilde.Exp(h1, alpha)

	return &PreParams{
		PaillierSK: pai.sk,
		PaillierPK: &pai.sk.PublicKey,
		NTilde:     nTilde,
		H1:         h1,
		H2:         h2,
		Alpha:      alpha,
		Beta:       beta,
		P:          nt.p,
		Q:          nt.q,
	}, nil
}
