package hd

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HRezaei/tss-ecdsa-cli/internal/bigint"
	"github.com/HRezaei/tss-ecdsa-cli/internal/ecpoint"
)

func TestParsePath(t *testing.T) {
	got, err := ParsePath("0/1/2")
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 1, 2}, got)

	empty, err := ParsePath("")
	require.NoError(t, err)
	assert.Nil(t, empty)
}

func TestParsePathRejectsHardened(t *testing.T) {
	_, err := ParsePath("0'/1")
	assert.Error(t, err)
}

func TestDeriveChildKeyFromPathDeterministic(t *testing.T) {
	curve := btcec.S256()
	x := bigint.GetRandomPositiveInt(rand.Reader, curve.Params().N)
	root := &ExtendedKey{PublicKey: ecpoint.ScalarBaseMult(curve, x), ChainCode: make([]byte, 32)}

	path, err := ParsePath("0/1")
	require.NoError(t, err)

	fl1, child1, err := DeriveChildKeyFromPath(curve, path, root)
	require.NoError(t, err)
	fl2, child2, err := DeriveChildKeyFromPath(curve, path, root)
	require.NoError(t, err)

	assert.Equal(t, 0, fl1.Cmp(fl2))
	assert.True(t, child1.PublicKey.Equals(child2.PublicKey))

	expected := ecpoint.ScalarBaseMult(curve, new(big.Int).Add(x, fl1))
	assert.True(t, expected.Equals(child1.PublicKey))
}

func TestDeriveChildKeyFromEmptyPathIsIdentity(t *testing.T) {
	curve := btcec.S256()
	x := bigint.GetRandomPositiveInt(rand.Reader, curve.Params().N)
	root := &ExtendedKey{PublicKey: ecpoint.ScalarBaseMult(curve, x), ChainCode: make([]byte, 32)}

	fl, child, err := DeriveChildKeyFromPath(curve, nil, root)
	require.NoError(t, err)
	assert.Equal(t, 0, fl.Sign())
	assert.True(t, root.PublicKey.Equals(child.PublicKey))
}
