package vss

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIDs(n int) []*big.Int {
	ids := make([]*big.Int, n)
	for i := 0; i < n; i++ {
		ids[i] = big.NewInt(int64(i + 1))
	}
	return ids
}

func TestCreateAndVerify(t *testing.T) {
	curve := btcec.S256()
	secret := big.NewInt(424242)
	ids := testIDs(5)

	commits, shares, err := Create(rand.Reader, curve, 2, secret, ids)
	require.NoError(t, err)
	require.Len(t, commits, 3)
	require.Len(t, shares, 5)

	for _, s := range shares {
		ok, err := s.Verify(curve, 2, commits)
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestVerifyRejectsTamperedShare(t *testing.T) {
	curve := btcec.S256()
	secret := big.NewInt(13)
	ids := testIDs(4)

	commits, shares, err := Create(rand.Reader, curve, 1, secret, ids)
	require.NoError(t, err)

	tampered := &Share{Threshold: shares[0].Threshold, ID: shares[0].ID, Share: new(big.Int).Add(shares[0].Share, big.NewInt(1))}
	ok, err := tampered.Verify(curve, 1, commits)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReConstruct(t *testing.T) {
	curve := btcec.S256()
	secret := big.NewInt(987654321)
	ids := testIDs(5)

	_, shares, err := Create(rand.Reader, curve, 2, secret, ids)
	require.NoError(t, err)

	got, err := ReConstruct(curve, shares[:3])
	require.NoError(t, err)
	assert.Equal(t, 0, secret.Cmp(got))

	got2, err := ReConstruct(curve, []*Share{shares[0], shares[2], shares[4]})
	require.NoError(t, err)
	assert.Equal(t, 0, secret.Cmp(got2))
}

func TestReConstructTooFewSharesErrors(t *testing.T) {
	curve := btcec.S256()
	_, shares, err := Create(rand.Reader, curve, 2, big.NewInt(1), testIDs(5))
	require.NoError(t, err)

	_, err = ReConstruct(curve, shares[:2])
	assert.Error(t, err)
}
