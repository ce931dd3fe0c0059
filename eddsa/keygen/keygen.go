// Package keygen implements distributed key generation for threshold
// Schnorr over edwards25519, mirroring ecdsa/keygen's commit-decommit /
// Feldman-VSS / dlog-proof round breakdown (adapted from tss-lib's
// eddsa/keygen/round_{1,2,3}.go) but with no Paillier or ring-Pedersen
// material: threshold Schnorr signing needs neither.
package keygen

import (
	"context"
	"encoding/json"
	"math/big"

	"github.com/pkg/errors"

	"github.com/HRezaei/tss-ecdsa-cli/internal/aeschannel"
	"github.com/HRezaei/tss-ecdsa-cli/internal/bigint"
	"github.com/HRezaei/tss-ecdsa-cli/internal/commitments"
	"github.com/HRezaei/tss-ecdsa-cli/internal/ecpoint"
	"github.com/HRezaei/tss-ecdsa-cli/internal/faults"
	"github.com/HRezaei/tss-ecdsa-cli/internal/keystore"
	"github.com/HRezaei/tss-ecdsa-cli/internal/round"
	"github.com/HRezaei/tss-ecdsa-cli/internal/vss"
	"github.com/HRezaei/tss-ecdsa-cli/internal/zkp"
	"github.com/HRezaei/tss-ecdsa-cli/pkg/tss"
	"github.com/HRezaei/tss-ecdsa-cli/pkg/tsslog"
)

// Party drives one participant through keygen.
type Party struct {
	params *tss.Parameters
	seq    *round.Sequencer
}

func NewParty(params *tss.Parameters, seq *round.Sequencer) *Party {
	return &Party{params: params, seq: seq}
}

func marshalPayload(v interface{}) string {
	bz, err := json.Marshal(v)
	if err != nil {
		panic(errors.Wrap(err, "keygen: marshaling payload"))
	}
	return string(bz)
}

func unmarshalPayload(payload string, v interface{}) error {
	return json.Unmarshal([]byte(payload), v)
}

// Start runs the full protocol and returns this party's persisted key
// bundle, or a *faults.Fault describing the first verification failure.
func (p *Party) Start(ctx context.Context) (*keystore.EdDSAKeys, error) {
	curve := p.params.EC()
	r := p.params.Rand()
	n := p.params.PartyCount()
	threshold := p.params.Threshold()
	myIndex := p.params.PartyIndex()

	ui := bigint.GetRandomPositiveInt(r, curve.Params().N)
	uiG := ecpoint.ScalarBaseMult(curve, ui)
	commit := commitments.New(r, uiG.X(), uiG.Y())

	tsslog.Logger.Debugf("party %d: round1 commit to u_i*G", myIndex)
	round1Out, err := p.seq.ExchangeData(ctx, "round1", marshalPayload(round1Message{Commitment: commit.C}))
	if err != nil {
		return nil, faults.Transport("round1", err.Error())
	}
	peerCommits := make([]*big.Int, n)
	for i, payload := range round1Out {
		var m round1Message
		if err := unmarshalPayload(payload, &m); err != nil {
			return nil, faults.New(faults.KindTransport, "round1", i+1, "malformed round1 message")
		}
		peerCommits[i] = m.Commitment
	}

	tsslog.Logger.Debugf("party %d: round2 decommit", myIndex)
	round2Out, err := p.seq.ExchangeData(ctx, "round2", marshalPayload(round2Message{
		UiG:        uiG,
		Randomness: commit.D[0],
	}))
	if err != nil {
		return nil, faults.Transport("round2", err.Error())
	}

	uiGVec := make([]*ecpoint.Point, n)
	for i, payload := range round2Out {
		peer := i + 1
		var m round2Message
		if err := unmarshalPayload(payload, &m); err != nil {
			return nil, faults.New(faults.KindTransport, "round2", peer, "malformed round2 message")
		}
		m.UiG.SetCurve(curve)
		if !commitments.Verify(peerCommits[i], commitments.HashDeCommitment{m.Randomness, m.UiG.X(), m.UiG.Y()}) {
			return nil, faults.CommitmentMismatch("round2", peer)
		}
		uiGVec[i] = m.UiG
	}

	ids := make([]*big.Int, n)
	for i := 0; i < n; i++ {
		ids[i] = big.NewInt(int64(i + 1))
	}
	myVSSCommits, myShares, err := vss.Create(r, curve, threshold, ui, ids)
	if err != nil {
		return nil, err
	}

	tsslog.Logger.Debugf("party %d: round3 p2p share distribution", myIndex)
	round3Out, err := p.seq.ExchangeP2P(ctx, "round3", func(dest int) string {
		share := myShares[dest-1]
		bz, _ := json.Marshal(share)
		key := aeschannel.DeriveKey(curve, ui, uiGVec[dest-1])
		sealed, err := aeschannel.Seal(key, bz)
		if err != nil {
			panic(errors.Wrap(err, "keygen: sealing share"))
		}
		return sealed
	})
	if err != nil {
		return nil, faults.Transport("round3", err.Error())
	}

	receivedShares := make([]*vss.Share, n)
	for i, payload := range round3Out {
		peer := i + 1
		key := aeschannel.DeriveKey(curve, ui, uiGVec[i])
		plain, err := aeschannel.Open(key, payload)
		if err != nil {
			return nil, faults.New(faults.KindTransport, "round3", peer, "p2p share decryption failed")
		}
		var share vss.Share
		if err := json.Unmarshal(plain, &share); err != nil {
			return nil, faults.New(faults.KindTransport, "round3", peer, "malformed share")
		}
		receivedShares[i] = &share
	}

	tsslog.Logger.Debugf("party %d: round4 publish VSS commitments", myIndex)
	round4Out, err := p.seq.ExchangeData(ctx, "round4", marshalPayload(round4Message{VSSCommitments: myVSSCommits}))
	if err != nil {
		return nil, faults.Transport("round4", err.Error())
	}

	vssVec := make([]vss.Commitments, n)
	for i, payload := range round4Out {
		peer := i + 1
		var m round4Message
		if err := unmarshalPayload(payload, &m); err != nil {
			return nil, faults.New(faults.KindTransport, "round4", peer, "malformed round4 message")
		}
		for _, c := range m.VSSCommitments {
			c.SetCurve(curve)
		}
		ok, err := receivedShares[i].Verify(curve, threshold, m.VSSCommitments)
		if err != nil || !ok {
			return nil, faults.ShareVerification("round4", peer)
		}
		vssVec[i] = m.VSSCommitments
	}

	xi := big.NewInt(0)
	mod := bigint.Mod(curve.Params().N)
	for _, s := range receivedShares {
		xi = mod.Add(xi, s.Share)
	}
	xiG := ecpoint.ScalarBaseMult(curve, xi)
	dlogProof := zkp.NewDlogProof(r, curve, xi, xiG)

	tsslog.Logger.Debugf("party %d: round5 publish dlog proof", myIndex)
	round5Out, err := p.seq.ExchangeData(ctx, "round5", marshalPayload(round5Message{XiG: xiG, DlogProof: dlogProof}))
	if err != nil {
		return nil, faults.Transport("round5", err.Error())
	}

	// Y is the sum of long-term public points u_j*G, not a sum of the x_i*G
	// evaluations gathered just above: the latter would double-count every
	// party's contribution once per Shamir share instead of once per party.
	y := uiGVec[0]
	var yErr error
	for i := 1; i < n; i++ {
		y, yErr = y.Add(uiGVec[i])
		if yErr != nil {
			return nil, yErr
		}
	}

	xiGVec := make([]*ecpoint.Point, n)
	for i, payload := range round5Out {
		peer := i + 1
		var m round5Message
		if err := unmarshalPayload(payload, &m); err != nil {
			return nil, faults.New(faults.KindTransport, "round5", peer, "malformed round5 message")
		}
		m.XiG.SetCurve(curve)
		if !m.DlogProof.Verify(curve, m.XiG) {
			return nil, faults.ProofFailure("round5", peer, "dlog")
		}
		xiGVec[i] = m.XiG
	}

	// Every party independently derives the same chain code from the
	// now-agreed aggregate public key, since no single party contributes a
	// master seed the way a non-threshold SLIP-10 derivation would.
	chainCode := bigint.SHA512_256(y.X().Bytes(), y.Y().Bytes())

	return &keystore.EdDSAKeys{
		Xi:         xi,
		PartyIndex: myIndex,
		VSSVector:  vssVec,
		XiGVector:  xiGVec,
		Y:          y,
		ChainCode:  chainCode,
	}, nil
}
