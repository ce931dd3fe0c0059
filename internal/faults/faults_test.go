package faults

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorIncludesPeerWhenPresent(t *testing.T) {
	f := CommitmentMismatch("round2", 3)
	assert.Contains(t, f.Error(), "peer 3")
	assert.Equal(t, KindCommitmentMismatch, f.Kind)
}

func TestErrorOmitsPeerWhenZero(t *testing.T) {
	f := ParameterMismatch("threshold too large")
	assert.NotContains(t, f.Error(), "peer")
	assert.Equal(t, KindParameterMismatch, f.Kind)
}

func TestTimeoutListsMissingPeers(t *testing.T) {
	f := Timeout("round1", []int{2, 4})
	assert.Contains(t, f.Error(), "[2 4]")
	assert.Equal(t, KindTimeout, f.Kind)
}

func TestProofFailureNamesProof(t *testing.T) {
	f := ProofFailure("round3", 1, "range")
	assert.Contains(t, f.Error(), "range proof rejected")
}
