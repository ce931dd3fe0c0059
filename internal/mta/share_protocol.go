package mta

import (
	"crypto/elliptic"
	"io"
	"math/big"

	"github.com/pkg/errors"

	"github.com/HRezaei/tss-ecdsa-cli/internal/bigint"
	"github.com/HRezaei/tss-ecdsa-cli/internal/ecpoint"
	"github.com/HRezaei/tss-ecdsa-cli/internal/paillier"
)

// AliceInit is Alice's first message in the MtA protocol: she encrypts her
// secret a under her own Paillier key and proves it lies in range.
func AliceInit(r io.Reader, curve elliptic.Curve, pkA *paillier.PublicKey, a, nTildeB, h1B, h2B *big.Int) (cA *big.Int, pf *RangeProofAlice, err error) {
	cA, rA, err := pkA.Encrypt(r, a)
	if err != nil {
		return nil, nil, err
	}
	pf, err = ProveRangeAlice(r, curve, pkA, cA, nTildeB, h1B, h2B, a, rA)
	return cA, pf, err
}

// BobMid is Bob's response carrying his additive share beta and the
// ciphertext cB = Enc(b*a + beta', r) Alice will decrypt.
func BobMid(r io.Reader, curve elliptic.Curve, pkA *paillier.PublicKey, pf *RangeProofAlice, b, cA, nTildeA, h1A, h2A, nTildeB, h1B, h2B *big.Int) (beta, cB, betaPrm *big.Int, piB *ProofBob, err error) {
	if !pf.Verify(curve, pkA, nTildeB, h1B, h2B, cA) {
		return nil, nil, nil, nil, errors.New("mta: RangeProofAlice verification failed")
	}
	q := curve.Params().N
	q5 := new(big.Int).Mul(q, new(big.Int).Mul(q, new(big.Int).Mul(q, new(big.Int).Mul(q, q))))
	betaPrm = bigint.GetRandomPositiveInt(r, q5)

	cBetaPrm, cRand, err := pkA.Encrypt(r, betaPrm)
	if err != nil {
		return
	}
	cB = pkA.HomoMult(b, cA)
	cB = pkA.HomoAdd(cB, cBetaPrm)

	beta = bigint.Mod(q).Sub(bigint.Zero, betaPrm)
	piB, err = ProveBob(r, curve, pkA, nTildeA, h1A, h2A, cA, cB, b, betaPrm, cRand)
	return
}

// BobMidWC is BobMid's "with check" variant, additionally tying b to bPoint = b*G.
func BobMidWC(r io.Reader, curve elliptic.Curve, pkA *paillier.PublicKey, pf *RangeProofAlice, b, cA, nTildeA, h1A, h2A, nTildeB, h1B, h2B *big.Int, bPoint *ecpoint.Point) (beta, cB, betaPrm *big.Int, piB *ProofBobWC, err error) {
	if !pf.Verify(curve, pkA, nTildeB, h1B, h2B, cA) {
		return nil, nil, nil, nil, errors.New("mta: RangeProofAlice verification failed")
	}
	q := curve.Params().N
	q5 := new(big.Int).Mul(q, new(big.Int).Mul(q, new(big.Int).Mul(q, new(big.Int).Mul(q, q))))
	betaPrm = bigint.GetRandomPositiveInt(r, q5)

	cBetaPrm, cRand, err := pkA.Encrypt(r, betaPrm)
	if err != nil {
		return
	}
	cB = pkA.HomoMult(b, cA)
	cB = pkA.HomoAdd(cB, cBetaPrm)

	beta = bigint.Mod(q).Sub(bigint.Zero, betaPrm)
	piB, err = ProveBobWC(r, curve, pkA, nTildeA, h1A, h2A, cA, cB, b, betaPrm, cRand, bPoint)
	return
}

// AliceEnd decrypts cB and reduces it mod q to recover alpha, Alice's
// additive share, after checking Bob's proof.
func AliceEnd(curve elliptic.Curve, pkA *paillier.PublicKey, pf *ProofBob, h1A, h2A, cA, cB, nTildeA *big.Int, sk *paillier.PrivateKey) (*big.Int, error) {
	if !pf.Verify(curve, pkA, nTildeA, h1A, h2A, cA, cB) {
		return nil, errors.New("mta: ProofBob verification failed")
	}
	alphaPrm, err := sk.Decrypt(cB)
	if err != nil {
		return nil, err
	}
	return new(big.Int).Mod(alphaPrm, curve.Params().N), nil
}

// AliceEndWC is AliceEnd's "with check" variant.
func AliceEndWC(curve elliptic.Curve, pkA *paillier.PublicKey, pf *ProofBobWC, bPoint *ecpoint.Point, cA, cB, nTildeA, h1A, h2A *big.Int, sk *paillier.PrivateKey) (*big.Int, error) {
	if !pf.Verify(curve, pkA, nTildeA, h1A, h2A, cA, cB, bPoint) {
		return nil, errors.New("mta: ProofBobWC verification failed")
	}
	alphaPrm, err := sk.Decrypt(cB)
	if err != nil {
		return nil, err
	}
	return new(big.Int).Mod(alphaPrm, curve.Params().N), nil
}
