package aeschannel

import (
	"crypto/rand"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HRezaei/tss-ecdsa-cli/internal/bigint"
	"github.com/HRezaei/tss-ecdsa-cli/internal/ecpoint"
)

func TestDeriveKeyAgreesBothDirections(t *testing.T) {
	curve := btcec.S256()
	q := curve.Params().N
	a := bigint.GetRandomPositiveInt(rand.Reader, q)
	b := bigint.GetRandomPositiveInt(rand.Reader, q)
	aG := ecpoint.ScalarBaseMult(curve, a)
	bG := ecpoint.ScalarBaseMult(curve, b)

	keyA := DeriveKey(curve, a, bG)
	keyB := DeriveKey(curve, b, aG)
	assert.Equal(t, keyA, keyB)
	assert.Len(t, keyA, keySize)
}

func TestSealOpenRoundTrip(t *testing.T) {
	curve := btcec.S256()
	q := curve.Params().N
	a := bigint.GetRandomPositiveInt(rand.Reader, q)
	bG := ecpoint.ScalarBaseMult(curve, bigint.GetRandomPositiveInt(rand.Reader, q))
	key := DeriveKey(curve, a, bG)

	plaintext := []byte("feldman vss share payload")
	sealed, err := Seal(key, plaintext)
	require.NoError(t, err)

	opened, err := Open(key, sealed)
	require.NoError(t, err)
	assert.Equal(t, plaintext, opened)
}

func TestOpenRejectsWrongKey(t *testing.T) {
	curve := btcec.S256()
	q := curve.Params().N
	key1 := DeriveKey(curve, bigint.GetRandomPositiveInt(rand.Reader, q), ecpoint.ScalarBaseMult(curve, bigint.GetRandomPositiveInt(rand.Reader, q)))
	key2 := DeriveKey(curve, bigint.GetRandomPositiveInt(rand.Reader, q), ecpoint.ScalarBaseMult(curve, bigint.GetRandomPositiveInt(rand.Reader, q)))

	sealed, err := Seal(key1, []byte("secret"))
	require.NoError(t, err)

	_, err = Open(key2, sealed)
	assert.Error(t, err)
}

func TestOpenRejectsTamperedPayload(t *testing.T) {
	curve := btcec.S256()
	q := curve.Params().N
	key := DeriveKey(curve, bigint.GetRandomPositiveInt(rand.Reader, q), ecpoint.ScalarBaseMult(curve, bigint.GetRandomPositiveInt(rand.Reader, q)))

	sealed, err := Seal(key, []byte("secret"))
	require.NoError(t, err)

	tampered := sealed[:len(sealed)-2] + "00"
	_, err = Open(key, tampered)
	assert.Error(t, err)
}
