// Package curve maps the two curves this engine supports to their
// elliptic.Curve implementations, the way tss-lib's tss package does.
package curve

import (
	"crypto/elliptic"
	"fmt"
	"reflect"

	s256k1 "github.com/btcsuite/btcd/btcec/v2"
	"github.com/decred/dcrd/dcrec/edwards/v2"
)

// Name identifies a supported curve by the tag carried on the wire
// (session params, signup payloads, persisted key blobs).
type Name string

const (
	Secp256k1 Name = "secp256k1"
	Ed25519   Name = "ed25519"
)

var registry = map[Name]elliptic.Curve{
	Secp256k1: s256k1.S256(),
	Ed25519:   edwards.Edwards(),
}

// ByName returns the elliptic.Curve registered under name.
func ByName(name Name) (elliptic.Curve, error) {
	ec, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("curve: unknown curve name %q", name)
	}
	return ec, nil
}

// NameOf returns the Name registered for a curve implementation, if any.
func NameOf(ec elliptic.Curve) (Name, bool) {
	for name, registered := range registry {
		if reflect.TypeOf(registered) == reflect.TypeOf(ec) {
			return name, true
		}
	}
	return "", false
}

// S256 returns the secp256k1 curve.
func S256() elliptic.Curve { return registry[Secp256k1] }

// Edwards returns the Ed25519-compatible curve used for threshold Schnorr.
func Edwards() elliptic.Curve { return registry[Ed25519] }
