package curve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByNameResolvesRegisteredCurves(t *testing.T) {
	ec, err := ByName(Secp256k1)
	require.NoError(t, err)
	assert.Same(t, S256(), ec)

	ec, err = ByName(Ed25519)
	require.NoError(t, err)
	assert.Same(t, Edwards(), ec)
}

func TestByNameRejectsUnknownCurve(t *testing.T) {
	_, err := ByName(Name("p256"))
	assert.Error(t, err)
}

func TestNameOfRoundTripsByName(t *testing.T) {
	name, ok := NameOf(S256())
	require.True(t, ok)
	assert.Equal(t, Secp256k1, name)

	name, ok = NameOf(Edwards())
	require.True(t, ok)
	assert.Equal(t, Ed25519, name)
}
