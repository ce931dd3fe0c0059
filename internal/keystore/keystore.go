// Package keystore persists and loads the keygen output blob: the bundle a
// party must keep between keygen and every later signing session.
package keystore

import (
	"crypto/elliptic"
	"encoding/json"
	"math/big"
	"os"

	"github.com/pkg/errors"

	"github.com/HRezaei/tss-ecdsa-cli/internal/ecpoint"
	"github.com/HRezaei/tss-ecdsa-cli/internal/paillier"
	"github.com/HRezaei/tss-ecdsa-cli/internal/vss"
)

// PartyKeys is the party's own long-lived secret material: its Paillier
// keypair and ring-Pedersen parameters, generated once before keygen.
type PartyKeys struct {
	PaillierSK *paillier.PrivateKey `json:"paillier_sk"`
	NTilde     *big.Int             `json:"n_tilde"`
	H1         *big.Int             `json:"h1"`
	H2         *big.Int             `json:"h2"`
}

// SharedKeys is the output of a completed key-generation run.
type SharedKeys struct {
	PartyKeys      *PartyKeys        `json:"party_keys"`
	Xi             *big.Int          `json:"shared_keys"` // this party's Shamir share of the aggregate private key
	PartyIndex     int               `json:"party_index"` // 1-based
	VSSVector      []vss.Commitments `json:"vss_vector"` // every party's commitment vector, by index
	PaillierVector []*paillier.PublicKey `json:"paillier_vector"` // every party's Paillier public key, by index
	NTildeVector   []*big.Int        `json:"n_tilde_vector"`
	H1Vector       []*big.Int        `json:"h1_vector"`
	H2Vector       []*big.Int        `json:"h2_vector"`
	XiGVector      []*ecpoint.Point  `json:"xi_g_vector"` // every party's x_i*G, from its round-5 dlog proof
	Y              *ecpoint.Point    `json:"y"` // aggregated public key
	ChainCode      []byte            `json:"chain_code,omitempty"`
}

// SetCurve restores the curve reference on every point field, lost across
// the JSON round trip (ecpoint.Point never serializes its curve).
func (k *SharedKeys) SetCurve(curve elliptic.Curve) {
	k.Y.SetCurve(curve)
	for _, p := range k.XiGVector {
		p.SetCurve(curve)
	}
	for _, commits := range k.VSSVector {
		for _, c := range commits {
			c.SetCurve(curve)
		}
	}
}

// EdDSAKeys is the output of a completed EdDSA key-generation run. Threshold
// Schnorr needs no Paillier/ring-Pedersen material, so this blob is a strict
// subset of SharedKeys's fields.
type EdDSAKeys struct {
	Xi         *big.Int          `json:"shared_keys"`
	PartyIndex int               `json:"party_index"`
	VSSVector  []vss.Commitments `json:"vss_vector"`
	XiGVector  []*ecpoint.Point  `json:"xi_g_vector"` // every party's x_i*G, from its round-5 dlog proof
	Y          *ecpoint.Point    `json:"y"`
	ChainCode  []byte            `json:"chain_code,omitempty"`
}

// SetCurve restores the curve reference on every point field, lost across
// the JSON round trip.
func (k *EdDSAKeys) SetCurve(curve elliptic.Curve) {
	k.Y.SetCurve(curve)
	for _, p := range k.XiGVector {
		p.SetCurve(curve)
	}
	for _, commits := range k.VSSVector {
		for _, c := range commits {
			c.SetCurve(curve)
		}
	}
}

// SaveEdDSA writes the blob as indented JSON to path, truncating any prior file.
func SaveEdDSA(path string, keys *EdDSAKeys) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "keystore: creating %s", path)
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(keys); err != nil {
		return errors.Wrapf(err, "keystore: encoding blob to %s", path)
	}
	return nil
}

// LoadEdDSA reads and decodes a previously saved EdDSA blob.
func LoadEdDSA(path string) (*EdDSAKeys, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "keystore: opening %s", path)
	}
	defer f.Close()
	var keys EdDSAKeys
	if err := json.NewDecoder(f).Decode(&keys); err != nil {
		return nil, errors.Wrapf(err, "keystore: decoding %s", path)
	}
	return &keys, nil
}

// Save writes the blob as indented JSON to path, truncating any prior file.
func Save(path string, keys *SharedKeys) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "keystore: creating %s", path)
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(keys); err != nil {
		return errors.Wrapf(err, "keystore: encoding blob to %s", path)
	}
	return nil
}

// Load reads and decodes a previously saved blob.
func Load(path string) (*SharedKeys, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "keystore: opening %s", path)
	}
	defer f.Close()
	var keys SharedKeys
	if err := json.NewDecoder(f).Decode(&keys); err != nil {
		return nil, errors.Wrapf(err, "keystore: decoding %s", path)
	}
	return &keys, nil
}
