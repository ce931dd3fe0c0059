// Package bigint collects the modular-arithmetic, randomness, and hashing
// helpers every primitive package needs. Adapted from tss-lib's common
// package (common/int.go, common/random.go, common/hash.go).
package bigint

import "math/big"

var (
	Zero = big.NewInt(0)
	One  = big.NewInt(1)
	Two  = big.NewInt(2)
)

// ModInt is a *big.Int that performs all of its arithmetic with modular reduction.
type ModInt big.Int

func Mod(m *big.Int) *ModInt {
	return (*ModInt)(m)
}

func (mi *ModInt) i() *big.Int { return (*big.Int)(mi) }

func (mi *ModInt) Add(x, y *big.Int) *big.Int {
	r := new(big.Int).Add(x, y)
	return r.Mod(r, mi.i())
}

func (mi *ModInt) Sub(x, y *big.Int) *big.Int {
	r := new(big.Int).Sub(x, y)
	return r.Mod(r, mi.i())
}

func (mi *ModInt) Mul(x, y *big.Int) *big.Int {
	r := new(big.Int).Mul(x, y)
	return r.Mod(r, mi.i())
}

func (mi *ModInt) Exp(x, y *big.Int) *big.Int {
	return new(big.Int).Exp(x, y, mi.i())
}

func (mi *ModInt) Neg(x *big.Int) *big.Int {
	r := new(big.Int).Neg(x)
	return r.Mod(r, mi.i())
}

func (mi *ModInt) ModInverse(g *big.Int) *big.Int {
	return new(big.Int).ModInverse(g, mi.i())
}

// IsInInterval reports whether 0 <= b < bound.
func IsInInterval(b, bound *big.Int) bool {
	return b.Cmp(bound) < 0 && b.Cmp(Zero) >= 0
}

// IsInMultiplicativeGroup reports whether v is a unit of Z/nZ.
func IsInMultiplicativeGroup(n, v *big.Int) bool {
	if n == nil || v == nil || n.Cmp(Zero) <= 0 {
		return false
	}
	gcd := new(big.Int)
	return v.Cmp(n) < 0 && v.Cmp(One) >= 0 && gcd.GCD(nil, nil, v, n).Cmp(One) == 0
}
