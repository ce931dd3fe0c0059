package signing

import (
	"math/big"

	"github.com/HRezaei/tss-ecdsa-cli/internal/ecpoint"
	"github.com/HRezaei/tss-ecdsa-cli/internal/mta"
	"github.com/HRezaei/tss-ecdsa-cli/internal/zkp"
)

// round0Message publishes this party's long-term keygen index, letting every
// other signer build signers_vec and, from it, its own Lagrange coefficient.
type round0Message struct {
	LongTermIndex int `json:"long_term_index"`
}

// round1AMessage is the broadcast half of round 1: a commitment to gamma_i*G.
type round1AMessage struct {
	Commitment *big.Int `json:"commitment"`
}

// round1BMessage is the p2p half of round 1: Alice's MtA ciphertext for k_i,
// with a range proof addressed to the recipient's ring-Pedersen parameters.
type round1BMessage struct {
	CA    *big.Int           `json:"c_a"`
	Proof *mta.RangeProofAlice `json:"proof"`
}

// round2Message is Bob's MtA response for both the gamma and w pairings.
type round2Message struct {
	CGamma  *big.Int       `json:"c_gamma"`
	PiGamma *mta.ProofBob  `json:"pi_gamma"`
	CW      *big.Int       `json:"c_w"`
	PiW     *mta.ProofBobWC `json:"pi_w"`
}

// round3Message publishes delta_i.
type round3Message struct {
	Delta *big.Int `json:"delta"`
}

// round4Message decommits gamma_i*G and proves knowledge of gamma_i.
type round4Message struct {
	GammaG     *ecpoint.Point  `json:"gamma_g"`
	Randomness *big.Int        `json:"randomness"`
	DlogProof  *zkp.DlogProof  `json:"dlog_proof"`
}

// round5Message commits to this party's Phase-5 triple (V_i, A_i, U_i).
type round5Message struct {
	Commitment *big.Int `json:"commitment"`
}

// round6Message decommits (V_i, A_i, U_i) and carries the two ZK proofs that
// bind them: the Homomorphic-ElGamal proof of (sigma_i, l_i), and the first
// half of the U_i/T_i equality-of-dlog proof (T_i itself stays hidden until
// round 8).
type round6Message struct {
	V          *ecpoint.Point        `json:"v"`
	A          *ecpoint.Point        `json:"a"`
	U          *ecpoint.Point        `json:"u"`
	Randomness *big.Int              `json:"randomness"`
	HomoProof  *zkp.HomoElGamalProof `json:"homo_proof"`
	EqProof    *zkp.EqDlogProof      `json:"eq_proof"`
}

// round7Message commits to T_i = rho_i*R.
type round7Message struct {
	Commitment *big.Int `json:"commitment"`
}

// round8Message decommits T_i, completing the equality-of-dlog proof begun
// in round 6.
type round8Message struct {
	T          *ecpoint.Point `json:"t"`
	Randomness *big.Int       `json:"randomness"`
}

// round9Message publishes this party's local signature share s_i.
type round9Message struct {
	Si *big.Int `json:"s_i"`
}
