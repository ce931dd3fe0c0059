package keygen

import (
	"math/big"

	"github.com/HRezaei/tss-ecdsa-cli/internal/ecpoint"
	"github.com/HRezaei/tss-ecdsa-cli/internal/vss"
	"github.com/HRezaei/tss-ecdsa-cli/internal/zkp"
)

// round1Message is the broadcast commitment to this party's long-term
// public point u_i*G.
type round1Message struct {
	Commitment *big.Int `json:"commitment"`
}

// round2Message decommits u_i*G.
type round2Message struct {
	UiG        *ecpoint.Point `json:"ui_g"`
	Randomness *big.Int       `json:"randomness"`
}

// round4Message publishes this party's Feldman VSS commitment vector, so
// every peer can check the p2p share it received in round 3 against it.
type round4Message struct {
	VSSCommitments vss.Commitments `json:"vss_commitments"`
}

// round5Message publishes a dlog proof of x_i*G, the party's combined
// Shamir share of the aggregate secret.
type round5Message struct {
	XiG       *ecpoint.Point `json:"xi_g"`
	DlogProof *zkp.DlogProof `json:"dlog_proof"`
}
