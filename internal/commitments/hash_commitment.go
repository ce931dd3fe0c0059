// Package commitments implements the hash-based commit/decommit scheme used
// by every GG18 round-1 broadcast, adapted from tss-lib's
// crypto/commitments/hash_commitment.go.
package commitments

import (
	"io"
	"math/big"

	"github.com/pkg/errors"

	"github.com/HRezaei/tss-ecdsa-cli/internal/bigint"
)

const hashCommitmentBitLen = 256

// HashCommitment is C = H(r, x...) for a random blinding r.
type HashCommitment = big.Int

// HashDeCommitment is the opened (r, x...) pair: r followed by the committed values.
type HashDeCommitment []*big.Int

type CommitWithRandomness struct {
	C *HashCommitment
	D HashDeCommitment
}

// New commits to secrets using a freshly sampled blinding factor.
func New(r io.Reader, secrets ...*big.Int) *CommitWithRandomness {
	blinding := bigint.MustGetRandomInt(r, hashCommitmentBitLen)
	parts := make([]*big.Int, 0, len(secrets)+1)
	parts = append(parts, blinding)
	parts = append(parts, secrets...)
	hash := bigint.SHA512_256i(parts...)
	return &CommitWithRandomness{C: hash, D: parts}
}

// Verify recomputes the hash over the decommitment and compares it to c.
func Verify(c *HashCommitment, d HashDeCommitment) bool {
	if c == nil || len(d) == 0 {
		return false
	}
	return bigint.SHA512_256i(d...).Cmp(c) == 0
}

// DeCommit verifies and, on success, returns the secrets (the decommitment
// minus the leading blinding factor).
func DeCommit(c *HashCommitment, d HashDeCommitment) ([]*big.Int, error) {
	if !Verify(c, d) {
		return nil, errors.New("commitments: decommitment does not match commitment")
	}
	return d[1:], nil
}
