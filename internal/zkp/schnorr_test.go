package zkp

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

func TestDlogProofRoundTrip(t *testing.T) {
	curve := btcec.S256()
	x := bigint.GetRandomPositiveInt(rand.Reader, curve.Params().N)
	xPoint := ecpoint.ScalarBaseMult(curve, x)

	proof := NewDlogProof(rand.Reader, curve, x, xPoint)
	assert.True(t, proof.Verify(curve, xPoint))
}

func TestDlogProofRejectsWrongPoint(t *testing.T) {
	curve := btcec.S256()
	x := bigint.GetRandomPositiveInt(rand.Reader, curve.Params().N)
	xPoint := ecpoint.ScalarBaseMult(curve, x)
	other := ecpoint.ScalarBaseMult(curve, big.NewInt(999))

	proof := NewDlogProof(rand.Reader, curve, x, xPoint)
	assert.False(t, proof.Verify(curve, other))
}

func TestEqDlogProofRoundTrip(t *testing.T) {
	curve := btcec.S256()
	q := curve.Params().N
	base := ecpoint.ScalarBaseMult(curve, bigint.GetRandomPositiveInt(rand.Reader, q))
	rho := bigint.GetRandomPositiveInt(rand.Reader, q)
	u := ecpoint.ScalarBaseMult(curve, rho)
	tPoint := base.ScalarMult(rho)

	proof := NewEqDlogProof(rand.Reader, curve, base, rho, u, tPoint)
	assert.True(t, proof.Verify(curve, base, u, tPoint))
}

func TestEqDlogProofRejectsMismatchedT(t *testing.T) {
	curve := btcec.S256()
	q := curve.Params().N
	base := ecpoint.ScalarBaseMult(curve, bigint.GetRandomPositiveInt(rand.Reader, q))
	rho := bigint.GetRandomPositiveInt(rand.Reader, q)
	u := ecpoint.ScalarBaseMult(curve, rho)
	tPoint := base.ScalarMult(rho)
	wrongT := base.ScalarMult(bigint.GetRandomPositiveInt(rand.Reader, q))

	proof := NewEqDlogProof(rand.Reader, curve, base, rho, u, tPoint)
	assert.False(t, proof.Verify(curve, base, u, wrongT))
}

func TestHomoElGamalProofRoundTrip(t *testing.T) {
	curve := btcec.S256()
	q := curve.Params().N
	rPoint := ecpoint.ScalarBaseMult(curve, bigint.GetRandomPositiveInt(rand.Reader, q))
	s := bigint.GetRandomPositiveInt(rand.Reader, q)
	l := bigint.GetRandomPositiveInt(rand.Reader, q)

	v, err := rPoint.ScalarMult(s).Add(ecpoint.ScalarBaseMult(curve, l))
	require.NoError(t, err)
	a := ecpoint.ScalarBaseMult(curve, l)

	proof, err := NewHomoElGamalProof(rand.Reader, curve, s, l, rPoint, a)
	require.NoError(t, err)

	ok, err := proof.Verify(curve, rPoint, a, v, a)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHomoElGamalProofRejectsWrongV(t *testing.T) {
	curve := btcec.S256()
	q := curve.Params().N
	rPoint := ecpoint.ScalarBaseMult(curve, bigint.GetRandomPositiveInt(rand.Reader, q))
	s := bigint.GetRandomPositiveInt(rand.Reader, q)
	l := bigint.GetRandomPositiveInt(rand.Reader, q)
	a := ecpoint.ScalarBaseMult(curve, l)

	proof, err := NewHomoElGamalProof(rand.Reader, curve, s, l, rPoint, a)
	require.NoError(t, err)

	wrongV := ecpoint.ScalarBaseMult(curve, big.NewInt(42))
	ok, err := proof.Verify(curve, rPoint, a, wrongV, a)
	require.NoError(t, err)
	assert.False(t, ok)
}
