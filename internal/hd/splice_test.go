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

func TestSplicePrivateShareIsAdditiveModQ(t *testing.T) {
	curve := btcec.S256()
	q := curve.Params().N
	xi := new(big.Int).Sub(q, big.NewInt(1))
	fl := big.NewInt(5)

	got := SplicePrivateShare(curve, xi, fl)
	want := new(big.Int).Mod(new(big.Int).Add(xi, fl), q)
	assert.Equal(t, 0, want.Cmp(got))
}

func TestSplicePublicKeyMatchesSplicedSecret(t *testing.T) {
	curve := btcec.S256()
	q := curve.Params().N
	x := bigint.GetRandomPositiveInt(rand.Reader, q)
	fl := bigint.GetRandomPositiveInt(rand.Reader, q)

	y := ecpoint.ScalarBaseMult(curve, x)
	splicedY, err := SplicePublicKey(curve, y, fl)
	require.NoError(t, err)

	splicedX := SplicePrivateShare(curve, x, fl)
	expected := ecpoint.ScalarBaseMult(curve, splicedX)
	assert.True(t, expected.Equals(splicedY))
}
