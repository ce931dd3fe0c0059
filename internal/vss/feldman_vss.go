// Package vss implements Feldman verifiable secret sharing over the order of
// an elliptic curve, adapted from tss-lib's crypto/vss/feldman_vss.go.
package vss

import (
	"crypto/elliptic"
	"io"
	"math/big"

	"github.com/pkg/errors"

	"github.com/HRezaei/tss-ecdsa-cli/internal/bigint"
	"github.com/HRezaei/tss-ecdsa-cli/internal/ecpoint"
)

// Commitments is the vector of coefficient*G commitments, index 0 is the
// secret's own commitment (the "big X_i" handed to every other party).
type Commitments []*ecpoint.Point

// Share is one party's evaluation of the sharing polynomial.
type Share struct {
	Threshold int
	ID        *big.Int // the receiving party's x-coordinate (its 1-based party index)
	Share     *big.Int
}

type Shares []*Share

// Create samples a degree-threshold polynomial with constant term secret,
// returning the commitments to every coefficient and one share per id in ids.
func Create(r io.Reader, curve elliptic.Curve, threshold int, secret *big.Int, ids []*big.Int) (Commitments, Shares, error) {
	if threshold < 0 {
		return nil, nil, errors.New("vss: threshold must be >= 0")
	}
	if len(ids) < threshold+1 {
		return nil, nil, errors.Errorf("vss: need at least threshold+1 ids, have %d want %d", len(ids), threshold+1)
	}
	q := curve.Params().N
	mod := bigint.Mod(q)

	poly := make([]*big.Int, threshold+1)
	poly[0] = new(big.Int).Mod(secret, q)
	for i := 1; i <= threshold; i++ {
		poly[i] = bigint.GetRandomPositiveInt(r, q)
	}

	commits := make(Commitments, threshold+1)
	for i, coeff := range poly {
		commits[i] = ecpoint.ScalarBaseMult(curve, coeff)
	}

	shares := make(Shares, len(ids))
	for i, id := range ids {
		y := evaluatePolynomial(mod, poly, id)
		shares[i] = &Share{Threshold: threshold, ID: id, Share: y}
	}
	return commits, shares, nil
}

func evaluatePolynomial(mod *bigint.ModInt, poly []*big.Int, x *big.Int) *big.Int {
	result := new(big.Int).Set(poly[len(poly)-1])
	for i := len(poly) - 2; i >= 0; i-- {
		result = mod.Add(mod.Mul(result, x), poly[i])
	}
	return result
}

// Verify checks share*G == sum_k(id^k * commits[k]).
func (s *Share) Verify(curve elliptic.Curve, threshold int, commits Commitments) (bool, error) {
	if len(commits) != threshold+1 {
		return false, errors.Errorf("vss: expected %d commitments, got %d", threshold+1, len(commits))
	}
	v := ecpoint.ScalarBaseMult(curve, s.Share)

	q := curve.Params().N
	mod := bigint.Mod(q)
	t := new(big.Int).SetInt64(1)
	var sum *ecpoint.Point = commits[0]
	for k := 1; k < len(commits); k++ {
		t = mod.Mul(t, s.ID)
		term := commits[k].ScalarMult(t)
		var err error
		sum, err = sum.Add(term)
		if err != nil {
			return false, err
		}
	}
	return v.Equals(sum), nil
}

// ReConstruct recovers the secret from at least threshold+1 shares via
// Lagrange interpolation at x=0.
func ReConstruct(curve elliptic.Curve, shares Shares) (*big.Int, error) {
	if len(shares) == 0 {
		return nil, errors.New("vss: no shares given")
	}
	threshold := shares[0].Threshold
	if len(shares) < threshold+1 {
		return nil, errors.Errorf("vss: need at least %d shares, have %d", threshold+1, len(shares))
	}
	q := curve.Params().N
	mod := bigint.Mod(q)

	secret := big.NewInt(0)
	for i, si := range shares {
		num := big.NewInt(1)
		den := big.NewInt(1)
		for j, sj := range shares {
			if i == j {
				continue
			}
			num = mod.Mul(num, sj.ID)
			diff := mod.Sub(sj.ID, si.ID)
			den = mod.Mul(den, diff)
		}
		lagrange := mod.Mul(num, mod.ModInverse(den))
		term := mod.Mul(si.Share, lagrange)
		secret = mod.Add(secret, term)
	}
	return secret, nil
}
