package commitments

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommitVerifyRoundTrip(t *testing.T) {
	x := big.NewInt(11)
	y := big.NewInt(22)

	c := New(rand.Reader, x, y)
	require.NotNil(t, c.C)
	require.Len(t, c.D, 3)

	assert.True(t, Verify(c.C, c.D))
}

func TestVerifyRejectsTamperedSecret(t *testing.T) {
	c := New(rand.Reader, big.NewInt(1), big.NewInt(2))
	tampered := HashDeCommitment{c.D[0], big.NewInt(999), c.D[2]}
	assert.False(t, Verify(c.C, tampered))
}

func TestVerifyRejectsTamperedBlinding(t *testing.T) {
	c := New(rand.Reader, big.NewInt(1), big.NewInt(2))
	tampered := HashDeCommitment{new(big.Int).Add(c.D[0], big.NewInt(1)), c.D[1], c.D[2]}
	assert.False(t, Verify(c.C, tampered))
}

func TestDeCommitStripsBlinding(t *testing.T) {
	c := New(rand.Reader, big.NewInt(5), big.NewInt(6))
	secrets, err := DeCommit(c.C, c.D)
	require.NoError(t, err)
	require.Len(t, secrets, 2)
	assert.Equal(t, 0, secrets[0].Cmp(big.NewInt(5)))
	assert.Equal(t, 0, secrets[1].Cmp(big.NewInt(6)))
}

func TestDeCommitRejectsBadCommitment(t *testing.T) {
	c := New(rand.Reader, big.NewInt(5), big.NewInt(6))
	_, err := DeCommit(big.NewInt(0), c.D)
	assert.Error(t, err)
}
