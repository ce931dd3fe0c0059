// Package hd implements the non-hardened subset of BIP32 (for ECDSA/secp256k1
// keys) and SLIP-10 (for EdDSA/ed25519 keys) hierarchical-deterministic
// derivation, adapted from tss-lib's crypto/ckd/child_key_derivation.go.
//
// Only non-hardened indices are supported: a hardened child requires the
// parent's private key, which no single party in a threshold scheme holds.
package hd

import (
	"crypto/elliptic"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"math/big"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/HRezaei/tss-ecdsa-cli/internal/bigint"
	"github.com/HRezaei/tss-ecdsa-cli/internal/ecpoint"
)

// HardenedKeyStart is the first hardened index (2^31); this package rejects
// any index at or above it.
const HardenedKeyStart = 0x80000000

// ExtendedKey is a derivable public key plus its BIP32/SLIP-10 chain code.
type ExtendedKey struct {
	PublicKey *ecpoint.Point
	ChainCode []byte
	Depth     uint8
}

// ParsePath splits a slash-separated path of decimal integers ("1/2/3") into
// indices. Since only non-hardened derivation is supported here, every index
// must be below HardenedKeyStart; ParsePath rejects an apostrophe suffix
// rather than silently treating it as hardened.
func ParsePath(path string) ([]uint32, error) {
	if path == "" {
		return nil, nil
	}
	parts := strings.Split(path, "/")
	out := make([]uint32, len(parts))
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			return nil, errors.Wrapf(err, "hd: invalid path segment %q", p)
		}
		if n >= HardenedKeyStart {
			return nil, errors.Errorf("hd: path segment %d is hardened, which is unsupported", n)
		}
		out[i] = uint32(n)
	}
	return out, nil
}

// DeriveChildKey derives the non-hardened child at index from pk, returning
// the tweak IL (the scalar added to every private share) and the child key.
func DeriveChildKey(curve elliptic.Curve, index uint32, pk *ExtendedKey) (*big.Int, *ExtendedKey, error) {
	if index >= HardenedKeyStart {
		return nil, nil, errors.New("hd: index must be non-hardened")
	}

	pubBytes := serializeCompressed(pk.PublicKey)
	data := make([]byte, 37)
	copy(data, pubBytes)
	binary.BigEndian.PutUint32(data[33:], index)

	mac := hmac.New(sha512.New, pk.ChainCode)
	mac.Write(data)
	il := mac.Sum(nil)
	ilNum := new(big.Int).SetBytes(il[:32])
	childChainCode := il[32:]

	q := curve.Params().N
	if ilNum.Cmp(q) >= 0 || ilNum.Sign() == 0 {
		return nil, nil, errors.New("hd: derived tweak falls outside the valid scalar range")
	}

	deltaG := ecpoint.ScalarBaseMult(curve, ilNum)
	childPub, err := pk.PublicKey.Add(deltaG)
	if err != nil {
		return nil, nil, errors.Wrap(err, "hd: adding tweak point to parent key")
	}
	if childPub.X().Sign() == 0 && childPub.Y().Sign() == 0 {
		return nil, nil, errors.New("hd: derived child public key is the point at infinity")
	}

	return ilNum, &ExtendedKey{PublicKey: childPub, ChainCode: childChainCode, Depth: pk.Depth + 1}, nil
}

// DeriveChildKeyFromPath walks an entire derivation path, accumulating the
// total additive tweak f_l modulo the curve order.
func DeriveChildKeyFromPath(curve elliptic.Curve, path []uint32, pk *ExtendedKey) (*big.Int, *ExtendedKey, error) {
	q := curve.Params().N
	mod := bigint.Mod(q)
	tweak := big.NewInt(0)
	cur := pk
	for _, index := range path {
		il, child, err := DeriveChildKey(curve, index, cur)
		if err != nil {
			return nil, nil, err
		}
		tweak = mod.Add(tweak, il)
		cur = child
	}
	return tweak, cur, nil
}

func serializeCompressed(p *ecpoint.Point) []byte {
	out := make([]byte, 33)
	if p.Y().Bit(0) == 1 {
		out[0] = 0x03
	} else {
		out[0] = 0x02
	}
	xBytes := p.X().Bytes()
	copy(out[33-len(xBytes):], xBytes)
	return out
}
