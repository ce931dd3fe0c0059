package keystore

import (
	"crypto/rand"
	"math/big"
	"path/filepath"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HRezaei/tss-ecdsa-cli/internal/bigint"
	"github.com/HRezaei/tss-ecdsa-cli/internal/ecpoint"
	"github.com/HRezaei/tss-ecdsa-cli/internal/paillier"
	"github.com/HRezaei/tss-ecdsa-cli/internal/vss"
)

// toyPaillierKey builds a structurally valid but cryptographically
// undersized keypair, fast enough for a pure JSON round-trip test.
func toyPaillierKey(t *testing.T) *paillier.PrivateKey {
	t.Helper()
	sk, _, _, _, err := paillier.GenerateKeyPair(rand.Reader, 64)
	require.NoError(t, err)
	return sk
}

func TestSharedKeysSaveLoadRoundTrip(t *testing.T) {
	curve := btcec.S256()
	sk := toyPaillierKey(t)

	xi := bigint.GetRandomPositiveInt(rand.Reader, curve.Params().N)
	y := ecpoint.ScalarBaseMult(curve, xi)
	commits, _, err := vss.Create(rand.Reader, curve, 1, xi, []*big.Int{big.NewInt(1), big.NewInt(2)})
	require.NoError(t, err)

	keys := &SharedKeys{
		PartyKeys: &PartyKeys{
			PaillierSK: sk,
			NTilde:     big.NewInt(12345),
			H1:         big.NewInt(67),
			H2:         big.NewInt(89),
		},
		Xi:             xi,
		PartyIndex:     1,
		VSSVector:      []vss.Commitments{commits},
		PaillierVector: []*paillier.PublicKey{&sk.PublicKey},
		NTildeVector:   []*big.Int{big.NewInt(12345)},
		H1Vector:       []*big.Int{big.NewInt(67)},
		H2Vector:       []*big.Int{big.NewInt(89)},
		XiGVector:      []*ecpoint.Point{y},
		Y:              y,
	}

	path := filepath.Join(t.TempDir(), "keys.json")
	require.NoError(t, Save(path, keys))

	loaded, err := Load(path)
	require.NoError(t, err)
	loaded.SetCurve(curve)

	assert.Equal(t, 0, keys.Xi.Cmp(loaded.Xi))
	assert.Equal(t, keys.PartyIndex, loaded.PartyIndex)
	assert.True(t, keys.Y.Equals(loaded.Y))
	assert.True(t, keys.XiGVector[0].Equals(loaded.XiGVector[0]))
}

func TestEdDSAKeysSaveLoadRoundTrip(t *testing.T) {
	curve := btcec.S256() // any elliptic.Curve works for this round-trip test
	xi := bigint.GetRandomPositiveInt(rand.Reader, curve.Params().N)
	y := ecpoint.ScalarBaseMult(curve, xi)

	keys := &EdDSAKeys{
		Xi:         xi,
		PartyIndex: 2,
		XiGVector:  []*ecpoint.Point{y},
		Y:          y,
		ChainCode:  []byte{1, 2, 3, 4},
	}

	path := filepath.Join(t.TempDir(), "eddsa-keys.json")
	require.NoError(t, SaveEdDSA(path, keys))

	loaded, err := LoadEdDSA(path)
	require.NoError(t, err)
	loaded.SetCurve(curve)

	assert.Equal(t, 0, keys.Xi.Cmp(loaded.Xi))
	assert.Equal(t, keys.ChainCode, loaded.ChainCode)
	assert.True(t, keys.Y.Equals(loaded.Y))
}
