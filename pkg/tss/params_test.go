package tss

import (
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/stretchr/testify/assert"
)

func TestNewParametersDefaults(t *testing.T) {
	curve := btcec.S256()
	p := NewParameters(curve, 3, 1, 2)

	assert.Same(t, curve, p.EC())
	assert.Equal(t, 3, p.PartyCount())
	assert.Equal(t, 1, p.Threshold())
	assert.Equal(t, 2, p.PartyIndex())
	assert.NotNil(t, p.Rand())
	assert.Empty(t, p.Path())
	assert.False(t, p.IsLeader())
}

func TestIsLeaderOnlyForPartyOne(t *testing.T) {
	curve := btcec.S256()
	assert.True(t, NewParameters(curve, 3, 1, 1).IsLeader())
	assert.False(t, NewParameters(curve, 3, 1, 2).IsLeader())
}

func TestSetPathIsRetained(t *testing.T) {
	curve := btcec.S256()
	p := NewParameters(curve, 3, 1, 1)
	path := []uint32{44, 0, 0}
	p.SetPath(path)
	assert.Equal(t, path, p.Path())
}
