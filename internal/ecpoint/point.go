// Package ecpoint implements an immutable affine curve point usable with any
// curve satisfying crypto/elliptic.Curve, adapted from tss-lib's crypto.ECPoint.
package ecpoint

import (
	"crypto/elliptic"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
)

// Point is an immutable point on an elliptic curve in affine form.
type Point struct {
	curve elliptic.Curve
	x, y  *big.Int
}

// New validates that (x, y) lies on curve before returning a Point.
func New(curve elliptic.Curve, x, y *big.Int) (*Point, error) {
	if !curve.IsOnCurve(x, y) {
		return nil, fmt.Errorf("ecpoint: (%s, %s) is not on the curve", x, y)
	}
	return &Point{curve, x, y}, nil
}

// NewNoCheck skips the on-curve check; use only for points already known good
// (e.g. the curve's own generator).
func NewNoCheck(curve elliptic.Curve, x, y *big.Int) *Point {
	return &Point{curve, x, y}
}

// ScalarBaseMult returns k*G for the curve's generator G.
func ScalarBaseMult(curve elliptic.Curve, k *big.Int) *Point {
	x, y := curve.ScalarBaseMult(k.Bytes())
	p, _ := New(curve, x, y)
	return p
}

// Generator returns the curve's base point G.
func Generator(curve elliptic.Curve) *Point {
	params := curve.Params()
	return NewNoCheck(curve, params.Gx, params.Gy)
}

func (p *Point) X() *big.Int { return new(big.Int).Set(p.x) }
func (p *Point) Y() *big.Int { return new(big.Int).Set(p.y) }
func (p *Point) Curve() elliptic.Curve { return p.curve }

func (p *Point) Add(b *Point) (*Point, error) {
	x, y := p.curve.Add(p.x, p.y, b.x, b.y)
	return New(p.curve, x, y)
}

func (p *Point) Sub(b *Point) (*Point, error) {
	return p.Add(b.Neg())
}

func (p *Point) Neg() *Point {
	negY := new(big.Int).Neg(p.y)
	negY.Mod(negY, p.curve.Params().P)
	return NewNoCheck(p.curve, p.x, negY)
}

func (p *Point) ScalarMult(k *big.Int) *Point {
	x, y := p.curve.ScalarMult(p.x, p.y, k.Bytes())
	pt, _ := New(p.curve, x, y)
	return pt
}

func (p *Point) Equals(b *Point) bool {
	if p == nil || b == nil {
		return p == b
	}
	return p.x.Cmp(b.x) == 0 && p.y.Cmp(b.y) == 0
}

func (p *Point) IsOnCurve() bool {
	return p.curve.IsOnCurve(p.x, p.y)
}

// Flatten packs a slice of points into an [x0,y0,x1,y1,...] big.Int slice,
// the shape used whenever a vector of points needs hash-commitment or JSON framing.
func Flatten(in []*Point) []*big.Int {
	flat := make([]*big.Int, 0, len(in)*2)
	for _, pt := range in {
		flat = append(flat, pt.x, pt.y)
	}
	return flat
}

// Unflatten is the inverse of Flatten.
func Unflatten(curve elliptic.Curve, in []*big.Int, noCheck bool) ([]*Point, error) {
	if len(in)%2 != 0 {
		return nil, errors.New("ecpoint: Unflatten expects an even-length slice")
	}
	out := make([]*Point, len(in)/2)
	for i, j := 0, 0; i < len(in); i, j = i+2, j+1 {
		if noCheck {
			out[j] = NewNoCheck(curve, in[i], in[i+1])
			continue
		}
		pt, err := New(curve, in[i], in[i+1])
		if err != nil {
			return nil, err
		}
		out[j] = pt
	}
	return out, nil
}

// SetCurve attaches curve to p and returns p. UnmarshalJSON restores only the
// coordinates, so callers set the curve on a decoded point before using it.
func (p *Point) SetCurve(curve elliptic.Curve) *Point {
	p.curve = curve
	return p
}

type wireForm struct {
	X *big.Int
	Y *big.Int
}

func (p *Point) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireForm{X: p.x, Y: p.y})
}

func (p *Point) UnmarshalJSON(data []byte) error {
	var w wireForm
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	p.x, p.y = w.X, w.Y
	return nil
}
