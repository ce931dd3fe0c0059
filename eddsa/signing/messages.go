package signing

import (
	"math/big"

	"github.com/HRezaei/tss-ecdsa-cli/internal/ecpoint"
	"github.com/HRezaei/tss-ecdsa-cli/internal/vss"
	"github.com/HRezaei/tss-ecdsa-cli/internal/zkp"
)

// round0Message publishes this party's long-term keygen index, letting every
// other signer build the signer roster and index the long-term public-share
// vector correctly regardless of session seating order.
type round0Message struct {
	LongTermIndex int `json:"long_term_index"`
}

// round1Message is the broadcast commitment to this session's ephemeral
// nonce point r_i*G.
type round1Message struct {
	Commitment *big.Int `json:"commitment"`
}

// round2Message decommits r_i*G and proves knowledge of r_i, so a corrupted
// nonce cannot be substituted after other parties have committed.
type round2Message struct {
	RiG        *ecpoint.Point `json:"ri_g"`
	Randomness *big.Int       `json:"randomness"`
	DlogProof  *zkp.DlogProof `json:"dlog_proof"`
}

// round4Message publishes the Feldman VSS commitment vector for this
// party's ephemeral secret r_i — the ephemeral-key micro-DKG's analogue of
// keygen's round4 commitment broadcast.
type round4Message struct {
	EphVSSCommitments vss.Commitments `json:"eph_vss_commitments"`
}

// round5Message publishes this party's combined ephemeral share point
// r_hat_i*G with a proof of knowledge, the ephemeral-key micro-DKG's
// analogue of keygen's round5 publication of x_i*G.
type round5Message struct {
	RHatG     *ecpoint.Point `json:"r_hat_g"`
	DlogProof *zkp.DlogProof `json:"dlog_proof"`
}

// round6Message publishes this party's local signature share s_i.
type round6Message struct {
	Si *big.Int `json:"s_i"`
}
