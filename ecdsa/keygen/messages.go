package keygen

import (
	"math/big"

	"github.com/HRezaei/tss-ecdsa-cli/internal/dlnproof"
	"github.com/HRezaei/tss-ecdsa-cli/internal/ecpoint"
	"github.com/HRezaei/tss-ecdsa-cli/internal/paillier"
	"github.com/HRezaei/tss-ecdsa-cli/internal/vss"
	"github.com/HRezaei/tss-ecdsa-cli/internal/zkp"
)

// round1Message carries the commitment C_i = H(u_i*G || r_i); the
// decommitment itself travels in round 2.
type round1Message struct {
	Commitment *big.Int `json:"commitment"`
}

// round2Message is the decommitment of u_i*G plus this party's Paillier and
// ring-Pedersen public parameters, each backed by its validity proofs so
// every peer can reject a maliciously chosen modulus before round 3's
// shares are even sent.
type round2Message struct {
	UiG          *ecpoint.Point      `json:"ui_g"`
	Randomness   *big.Int            `json:"randomness"`
	PaillierPK   *paillier.PublicKey `json:"paillier_pk"`
	NTilde       *big.Int            `json:"n_tilde"`
	H1           *big.Int            `json:"h1"`
	H2           *big.Int            `json:"h2"`
	ModulusProof *paillier.Proof     `json:"modulus_proof"`
	DLNProof1    *dlnproof.Proof     `json:"dln_proof_1"`
	DLNProof2    *dlnproof.Proof     `json:"dln_proof_2"`
}

// round4Message publishes a party's VSS commitment vector so every peer can
// check the p2p share it received in round 3 against it.
type round4Message struct {
	VSSCommitments vss.Commitments `json:"vss_commitments"`
}

// round5Message publishes a dlog proof of x_i*G, the final check before the
// key bundle is persisted.
type round5Message struct {
	XiG       *ecpoint.Point  `json:"xi_g"`
	DlogProof *zkp.DlogProof  `json:"dlog_proof"`
}
