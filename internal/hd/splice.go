package hd

import (
	"crypto/elliptic"
	"math/big"

	"github.com/HRezaei/tss-ecdsa-cli/internal/ecpoint"
)

// SplicePrivateShare adds fl to a party's private share x_i. Every party
// (not just a distinguished leader) receives the full, unweighted +fl
// because the tweak shifts the constant term of the aggregate sharing
// polynomial, and every evaluation point sees the same constant-term shift.
// Verifying the spliced share against a peer's public commitment is done by
// shifting that peer's published x_j*G by the same f_l*G, not by rewriting
// any party's raw Feldman VSS commitment vector (see ecdsa/signing and
// eddsa/signing's HD blocks).
func SplicePrivateShare(curve elliptic.Curve, xi, fl *big.Int) *big.Int {
	q := curve.Params().N
	return new(big.Int).Mod(new(big.Int).Add(xi, fl), q)
}

// SplicePublicKey computes Y' = Y + f_l*G, the effective aggregated key
// that verification must use once a path has been applied.
func SplicePublicKey(curve elliptic.Curve, y *ecpoint.Point, fl *big.Int) (*ecpoint.Point, error) {
	return y.Add(ecpoint.ScalarBaseMult(curve, fl))
}
