// Package signing implements the GG18 online signing phase for ECDSA,
// sequenced as ten coordinator rounds (round0..round9) built on this
// module's round.Sequencer and mta/zkp primitives. Round 4's fresh Schnorr
// proof of gamma_i*G at decommit time follows tss-lib's
// ecdsa/signing/round_4.go.
package signing

import (
	"context"
	"crypto/elliptic"
	"encoding/json"
	"math/big"

	"github.com/pkg/errors"

	"github.com/HRezaei/tss-ecdsa-cli/internal/bigint"
	"github.com/HRezaei/tss-ecdsa-cli/internal/commitments"
	"github.com/HRezaei/tss-ecdsa-cli/internal/ecpoint"
	"github.com/HRezaei/tss-ecdsa-cli/internal/faults"
	"github.com/HRezaei/tss-ecdsa-cli/internal/hd"
	"github.com/HRezaei/tss-ecdsa-cli/internal/keystore"
	"github.com/HRezaei/tss-ecdsa-cli/internal/mta"
	"github.com/HRezaei/tss-ecdsa-cli/internal/round"
	"github.com/HRezaei/tss-ecdsa-cli/internal/zkp"
	"github.com/HRezaei/tss-ecdsa-cli/pkg/tss"
	"github.com/HRezaei/tss-ecdsa-cli/pkg/tsslog"
)

// Result is one party's view of the completed signature, matching the
// session output shape: lowercase-hex scalar encodings plus the recovery id.
type Result struct {
	R      string
	S      string
	Recid  int
	X      string
	Y      string
	MsgInt *big.Int
}

// Party drives one participant through the online signing phase.
type Party struct {
	params  *tss.Parameters
	seq     *round.Sequencer
	keys    *keystore.SharedKeys
	message *big.Int
}

func NewParty(params *tss.Parameters, seq *round.Sequencer, keys *keystore.SharedKeys, message *big.Int) *Party {
	return &Party{params: params, seq: seq, keys: keys, message: message}
}

func marshalPayload(v interface{}) string {
	bz, err := json.Marshal(v)
	if err != nil {
		panic(errors.Wrap(err, "signing: marshaling payload"))
	}
	return string(bz)
}

func unmarshalPayload(payload string, v interface{}) error {
	return json.Unmarshal([]byte(payload), v)
}

// lagrangeCoefficient returns lambda_idx(ids), the Lagrange basis polynomial
// for ids[idx] evaluated at 0.
func lagrangeCoefficient(mod *bigint.ModInt, ids []*big.Int, idx int) *big.Int {
	num := big.NewInt(1)
	den := big.NewInt(1)
	for j, idj := range ids {
		if j == idx {
			continue
		}
		num = mod.Mul(num, idj)
		den = mod.Mul(den, mod.Sub(idj, ids[idx]))
	}
	return mod.Mul(num, mod.ModInverse(den))
}

var twoPow256 = new(big.Int).Lsh(big.NewInt(1), 256)

// Start runs the full online signing phase and returns the combined
// signature, or a *faults.Fault describing the first verification failure.
func (p *Party) Start(ctx context.Context) (*Result, error) {
	curve := p.params.EC()
	r := p.params.Rand()
	q := curve.Params().N
	mod := bigint.Mod(q)
	numSigners := p.params.PartyCount()
	mySessionIdx := p.params.PartyIndex()

	tsslog.Logger.Debugf("party %d: round0 signer roster", mySessionIdx)
	round0Out, err := p.seq.ExchangeData(ctx, "round0", marshalPayload(round0Message{LongTermIndex: p.keys.PartyIndex}))
	if err != nil {
		return nil, faults.Transport("round0", err.Error())
	}
	signersVec := make([]int, numSigners)
	ids := make([]*big.Int, numSigners)
	for i, payload := range round0Out {
		var m round0Message
		if err := unmarshalPayload(payload, &m); err != nil {
			return nil, faults.New(faults.KindTransport, "round0", i+1, "malformed round0 message")
		}
		signersVec[i] = m.LongTermIndex
		ids[i] = big.NewInt(int64(m.LongTermIndex))
	}
	if len(signersVec) != p.params.Threshold()+1 {
		return nil, faults.ParameterMismatch("signers_vec length does not match threshold+1")
	}

	xi := new(big.Int).Set(p.keys.Xi)
	y := p.keys.Y
	xiGVec := p.keys.XiGVector
	if len(p.params.Path()) > 0 {
		fl, _, err := hd.DeriveChildKeyFromPath(curve, p.params.Path(), &hd.ExtendedKey{PublicKey: p.keys.Y, ChainCode: p.keys.ChainCode})
		if err != nil {
			return nil, err
		}
		xi = hd.SplicePrivateShare(curve, p.keys.Xi, fl)
		y, err = hd.SplicePublicKey(curve, p.keys.Y, fl)
		if err != nil {
			return nil, err
		}
		shiftedXiG := make([]*ecpoint.Point, len(p.keys.XiGVector))
		shift := ecpoint.ScalarBaseMult(curve, fl)
		for i, xiG := range p.keys.XiGVector {
			shiftedXiG[i], err = xiG.Add(shift)
			if err != nil {
				return nil, err
			}
		}
		xiGVec = shiftedXiG
	}

	myLambda := lagrangeCoefficient(mod, ids, mySessionIdx-1)
	wi := mod.Mul(myLambda, xi)

	bigWs := make([]*ecpoint.Point, numSigners)
	for j := 0; j < numSigners; j++ {
		lambdaJ := lagrangeCoefficient(mod, ids, j)
		bigWs[j] = xiGVec[signersVec[j]-1].ScalarMult(lambdaJ)
	}

	myPK := p.keys.PartyKeys.PaillierSK.PublicKey
	myNTilde, myH1, myH2 := p.keys.PartyKeys.NTilde, p.keys.PartyKeys.H1, p.keys.PartyKeys.H2

	kI := bigint.GetRandomPositiveInt(r, q)
	gammaI := bigint.GetRandomPositiveInt(r, q)
	gammaIG := ecpoint.ScalarBaseMult(curve, gammaI)
	commit1 := commitments.New(r, gammaIG.X(), gammaIG.Y())

	tsslog.Logger.Debugf("party %d: round1 commit gamma_i, broadcast MtA ciphertext", mySessionIdx)
	round1AOut, err := p.seq.ExchangeData(ctx, "round1a", marshalPayload(round1AMessage{Commitment: commit1.C}))
	if err != nil {
		return nil, faults.Transport("round1a", err.Error())
	}

	cAI, rAI, err := myPK.Encrypt(r, kI)
	if err != nil {
		return nil, err
	}
	round1BOut, err := p.seq.ExchangeP2P(ctx, "round1b", func(dest int) string {
		lt := signersVec[dest-1] - 1
		pf, err := mta.ProveRangeAlice(r, curve, &myPK, cAI, p.keys.NTildeVector[lt], p.keys.H1Vector[lt], p.keys.H2Vector[lt], kI, rAI)
		if err != nil {
			panic(errors.Wrap(err, "signing: proving range alice"))
		}
		return marshalPayload(round1BMessage{CA: cAI, Proof: pf})
	})
	if err != nil {
		return nil, faults.Transport("round1b", err.Error())
	}

	peerCommit1 := make([]*big.Int, numSigners)
	for i, payload := range round1AOut {
		var m round1AMessage
		if err := unmarshalPayload(payload, &m); err != nil {
			return nil, faults.New(faults.KindTransport, "round1a", i+1, "malformed round1a message")
		}
		peerCommit1[i] = m.Commitment
	}
	peerCA := make([]*big.Int, numSigners)
	peerRangeProof := make([]*mta.RangeProofAlice, numSigners)
	for i, payload := range round1BOut {
		peer := i + 1
		var m round1BMessage
		if err := unmarshalPayload(payload, &m); err != nil {
			return nil, faults.New(faults.KindTransport, "round1b", peer, "malformed round1b message")
		}
		peerCA[i], peerRangeProof[i] = m.CA, m.Proof
	}

	tsslog.Logger.Debugf("party %d: round2 MtA(gamma) and MtA(w)", mySessionIdx)
	betaGamma := make([]*big.Int, numSigners)
	betaW := make([]*big.Int, numSigners)
	round2Out, err := p.seq.ExchangeP2P(ctx, "round2", func(dest int) string {
		j := dest - 1
		ltJ := signersVec[j] - 1
		beta, cBGamma, _, piBGamma, err := mta.BobMid(r, curve, p.keys.PaillierVector[ltJ], peerRangeProof[j], gammaI, peerCA[j],
			p.keys.NTildeVector[ltJ], p.keys.H1Vector[ltJ], p.keys.H2Vector[ltJ], myNTilde, myH1, myH2)
		if err != nil {
			panic(errors.Wrap(err, "signing: BobMid"))
		}
		betaGamma[j] = beta
		nu, cBW, _, piBW, err := mta.BobMidWC(r, curve, p.keys.PaillierVector[ltJ], peerRangeProof[j], wi, peerCA[j],
			p.keys.NTildeVector[ltJ], p.keys.H1Vector[ltJ], p.keys.H2Vector[ltJ], myNTilde, myH1, myH2, bigWs[mySessionIdx-1])
		if err != nil {
			panic(errors.Wrap(err, "signing: BobMidWC"))
		}
		betaW[j] = nu
		return marshalPayload(round2Message{CGamma: cBGamma, PiGamma: piBGamma, CW: cBW, PiW: piBW})
	})
	if err != nil {
		return nil, faults.Transport("round2", err.Error())
	}

	alphaGamma := make([]*big.Int, numSigners)
	alphaW := make([]*big.Int, numSigners)
	for i, payload := range round2Out {
		peer := i + 1
		if peer == mySessionIdx {
			continue
		}
		var m round2Message
		if err := unmarshalPayload(payload, &m); err != nil {
			return nil, faults.New(faults.KindTransport, "round2", peer, "malformed round2 message")
		}
		ag, err := mta.AliceEnd(curve, &myPK, m.PiGamma, myH1, myH2, cAI, m.CGamma, myNTilde, p.keys.PartyKeys.PaillierSK)
		if err != nil {
			return nil, faults.ProofFailure("round2", peer, "mta gamma")
		}
		alphaGamma[i] = ag
		aw, err := mta.AliceEndWC(curve, &myPK, m.PiW, bigWs[i], cAI, m.CW, myNTilde, myH1, myH2, p.keys.PartyKeys.PaillierSK)
		if err != nil {
			return nil, faults.ProofFailure("round2", peer, "mta w")
		}
		alphaW[i] = aw
	}

	deltaI := mod.Mul(kI, gammaI)
	sigmaI := mod.Mul(kI, wi)
	for i := 0; i < numSigners; i++ {
		if i+1 == mySessionIdx {
			continue
		}
		deltaI = mod.Add(deltaI, mod.Add(alphaGamma[i], betaGamma[i]))
		sigmaI = mod.Add(sigmaI, mod.Add(alphaW[i], betaW[i]))
	}

	tsslog.Logger.Debugf("party %d: round3 publish delta_i", mySessionIdx)
	round3Out, err := p.seq.ExchangeData(ctx, "round3", marshalPayload(round3Message{Delta: deltaI}))
	if err != nil {
		return nil, faults.Transport("round3", err.Error())
	}
	delta := big.NewInt(0)
	for i, payload := range round3Out {
		var m round3Message
		if err := unmarshalPayload(payload, &m); err != nil {
			return nil, faults.New(faults.KindTransport, "round3", i+1, "malformed round3 message")
		}
		delta = mod.Add(delta, m.Delta)
	}
	deltaInv := mod.ModInverse(delta)

	tsslog.Logger.Debugf("party %d: round4 decommit gamma_i*G", mySessionIdx)
	round4Out, err := p.seq.ExchangeData(ctx, "round4", marshalPayload(round4Message{
		GammaG:     gammaIG,
		Randomness: commit1.D[0],
		DlogProof:  zkp.NewDlogProof(r, curve, gammaI, gammaIG),
	}))
	if err != nil {
		return nil, faults.Transport("round4", err.Error())
	}
	var bigR *ecpoint.Point
	for i, payload := range round4Out {
		peer := i + 1
		var m round4Message
		if err := unmarshalPayload(payload, &m); err != nil {
			return nil, faults.New(faults.KindTransport, "round4", peer, "malformed round4 message")
		}
		m.GammaG.SetCurve(curve)
		if !commitments.Verify(peerCommit1[i], commitments.HashDeCommitment{m.Randomness, m.GammaG.X(), m.GammaG.Y()}) {
			return nil, faults.CommitmentMismatch("round4", peer)
		}
		if !m.DlogProof.Verify(curve, m.GammaG) {
			return nil, faults.ProofFailure("round4", peer, "dlog gamma")
		}
		if bigR == nil {
			bigR = m.GammaG
		} else {
			bigR, err = bigR.Add(m.GammaG)
			if err != nil {
				return nil, err
			}
		}
	}
	bigR = bigR.ScalarMult(deltaInv)
	rVal := new(big.Int).Mod(bigR.X(), q)

	lI := bigint.GetRandomPositiveInt(r, q)
	rhoI := bigint.GetRandomPositiveInt(r, q)
	aI := ecpoint.ScalarBaseMult(curve, lI)
	vI, err := bigR.ScalarMult(sigmaI).Add(aI)
	if err != nil {
		return nil, err
	}
	uI := ecpoint.ScalarBaseMult(curve, rhoI)
	tI := bigR.ScalarMult(rhoI)
	homoProof, err := zkp.NewHomoElGamalProof(r, curve, sigmaI, lI, bigR, ecpoint.Generator(curve))
	if err != nil {
		return nil, err
	}
	eqProof := zkp.NewEqDlogProof(r, curve, bigR, rhoI, uI, tI)

	commit5 := commitments.New(r, vI.X(), vI.Y(), aI.X(), aI.Y(), uI.X(), uI.Y())
	tsslog.Logger.Debugf("party %d: round5 commit phase-5 triple", mySessionIdx)
	round5Out, err := p.seq.ExchangeData(ctx, "round5", marshalPayload(round5Message{Commitment: commit5.C}))
	if err != nil {
		return nil, faults.Transport("round5", err.Error())
	}
	peerCommit5 := make([]*big.Int, numSigners)
	for i, payload := range round5Out {
		var m round5Message
		if err := unmarshalPayload(payload, &m); err != nil {
			return nil, faults.New(faults.KindTransport, "round5", i+1, "malformed round5 message")
		}
		peerCommit5[i] = m.Commitment
	}

	round6Out, err := p.seq.ExchangeData(ctx, "round6", marshalPayload(round6Message{
		V: vI, A: aI, U: uI, Randomness: commit5.D[0], HomoProof: homoProof, EqProof: eqProof,
	}))
	if err != nil {
		return nil, faults.Transport("round6", err.Error())
	}
	peerV := make([]*ecpoint.Point, numSigners)
	peerU := make([]*ecpoint.Point, numSigners)
	peerEqProof := make([]*zkp.EqDlogProof, numSigners)
	for i, payload := range round6Out {
		peer := i + 1
		var m round6Message
		if err := unmarshalPayload(payload, &m); err != nil {
			return nil, faults.New(faults.KindTransport, "round6", peer, "malformed round6 message")
		}
		m.V.SetCurve(curve)
		m.A.SetCurve(curve)
		m.U.SetCurve(curve)
		if !commitments.Verify(peerCommit5[i], commitments.HashDeCommitment{m.Randomness, m.V.X(), m.V.Y(), m.A.X(), m.A.Y(), m.U.X(), m.U.Y()}) {
			return nil, faults.CommitmentMismatch("round6", peer)
		}
		ok, err := m.HomoProof.Verify(curve, bigR, ecpoint.Generator(curve), m.V, m.A)
		if err != nil || !ok {
			return nil, faults.ProofFailure("round6", peer, "homomorphic elgamal")
		}
		peerV[i] = m.V
		peerU[i] = m.U
		peerEqProof[i] = m.EqProof
	}

	commit7 := commitments.New(r, tI.X(), tI.Y())
	tsslog.Logger.Debugf("party %d: round7 commit T_i", mySessionIdx)
	round7Out, err := p.seq.ExchangeData(ctx, "round7", marshalPayload(round7Message{Commitment: commit7.C}))
	if err != nil {
		return nil, faults.Transport("round7", err.Error())
	}
	peerCommit7 := make([]*big.Int, numSigners)
	for i, payload := range round7Out {
		var m round7Message
		if err := unmarshalPayload(payload, &m); err != nil {
			return nil, faults.New(faults.KindTransport, "round7", i+1, "malformed round7 message")
		}
		peerCommit7[i] = m.Commitment
	}

	round8Out, err := p.seq.ExchangeData(ctx, "round8", marshalPayload(round8Message{T: tI, Randomness: commit7.D[0]}))
	if err != nil {
		return nil, faults.Transport("round8", err.Error())
	}
	for i, payload := range round8Out {
		peer := i + 1
		var m round8Message
		if err := unmarshalPayload(payload, &m); err != nil {
			return nil, faults.New(faults.KindTransport, "round8", peer, "malformed round8 message")
		}
		m.T.SetCurve(curve)
		if !commitments.Verify(peerCommit7[i], commitments.HashDeCommitment{m.Randomness, m.T.X(), m.T.Y()}) {
			return nil, faults.CommitmentMismatch("round8", peer)
		}
		if !peerEqProof[i].Verify(curve, bigR, peerU[i], m.T) {
			return nil, faults.ProofFailure("round8", peer, "equality of dlog")
		}
	}

	mInt := new(big.Int).Mod(p.message, twoPow256)
	sI := mod.Add(mod.Mul(mInt, kI), mod.Mul(rVal, sigmaI))

	tsslog.Logger.Debugf("party %d: round9 publish s_i", mySessionIdx)
	round9Out, err := p.seq.ExchangeData(ctx, "round9", marshalPayload(round9Message{Si: sI}))
	if err != nil {
		return nil, faults.Transport("round9", err.Error())
	}
	s := big.NewInt(0)
	for i, payload := range round9Out {
		var m round9Message
		if err := unmarshalPayload(payload, &m); err != nil {
			return nil, faults.New(faults.KindTransport, "round9", i+1, "malformed round9 message")
		}
		s = mod.Add(s, m.Si)
	}

	recid := 0
	if bigR.Y().Bit(0) == 1 {
		recid |= 1
	}
	if bigR.X().Cmp(q) >= 0 {
		recid |= 2
	}
	halfQ := new(big.Int).Rsh(q, 1)
	if s.Cmp(halfQ) > 0 {
		s = new(big.Int).Sub(q, s)
		recid ^= 1
	}

	if err := verifySignature(curve, y, mInt, rVal, s); err != nil {
		return nil, faults.SignatureVerification(err.Error())
	}

	return &Result{
		R:      rVal.Text(16),
		S:      s.Text(16),
		Recid:  recid,
		X:      y.X().Text(16),
		Y:      y.Y().Text(16),
		MsgInt: mInt,
	}, nil
}

// verifySignature checks (r, s) as a standard ECDSA signature over m under
// public key y, the authoritative correctness gate for the combined
// signature: the Phase-5 proofs above catch a cheating party mid-protocol,
// this catches everything else.
func verifySignature(curve elliptic.Curve, y *ecpoint.Point, m, rVal, s *big.Int) error {
	q := curve.Params().N
	mod := bigint.Mod(q)
	sInv := mod.ModInverse(s)
	u1 := mod.Mul(m, sInv)
	u2 := mod.Mul(rVal, sInv)
	sum, err := ecpoint.ScalarBaseMult(curve, u1).Add(y.ScalarMult(u2))
	if err != nil {
		return err
	}
	if new(big.Int).Mod(sum.X(), q).Cmp(rVal) != 0 {
		return errors.New("combined signature failed verification")
	}
	return nil
}
