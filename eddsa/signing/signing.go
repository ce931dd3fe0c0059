// Package signing implements threshold Schnorr online signing for EdDSA.
// Each session first aggregates a commit-revealed ephemeral nonce R = Σ R_j,
// same as a flat multi-signature, but then runs a second, per-session
// Feldman-VSS DKG over every party's nonce r_i (shares distributed pairwise
// over the AES channel keygen already uses for long-term shares) before
// combining: every local signature share s_i is itself a value of a
// degree-threshold polynomial, verified against the ephemeral and long-term
// public shares and then Lagrange-interpolated into the final scalar s —
// adapted from the original Rust signer's eph_keygen_t_n_parties /
// LocalSig::verify_local_sigs / thresholdsig::generate split rather than a
// flat commit-reveal-and-sum Schnorr aggregation.
package signing

import (
	"context"
	"crypto/elliptic"
	"encoding/json"
	"math/big"

	"github.com/pkg/errors"

	"github.com/HRezaei/tss-ecdsa-cli/internal/aeschannel"
	"github.com/HRezaei/tss-ecdsa-cli/internal/bigint"
	"github.com/HRezaei/tss-ecdsa-cli/internal/commitments"
	"github.com/HRezaei/tss-ecdsa-cli/internal/ecpoint"
	"github.com/HRezaei/tss-ecdsa-cli/internal/faults"
	"github.com/HRezaei/tss-ecdsa-cli/internal/hd"
	"github.com/HRezaei/tss-ecdsa-cli/internal/keystore"
	"github.com/HRezaei/tss-ecdsa-cli/internal/round"
	"github.com/HRezaei/tss-ecdsa-cli/internal/vss"
	"github.com/HRezaei/tss-ecdsa-cli/internal/zkp"
	"github.com/HRezaei/tss-ecdsa-cli/pkg/tss"
	"github.com/HRezaei/tss-ecdsa-cli/pkg/tsslog"
)

// Result is one party's view of the completed signature.
type Result struct {
	R      string
	S      string
	X      string
	Y      string
	MsgInt *big.Int
}

// Party drives one participant through the online signing phase.
type Party struct {
	params  *tss.Parameters
	seq     *round.Sequencer
	keys    *keystore.EdDSAKeys
	message *big.Int
}

func NewParty(params *tss.Parameters, seq *round.Sequencer, keys *keystore.EdDSAKeys, message *big.Int) *Party {
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

func (p *Party) Start(ctx context.Context) (*Result, error) {
	curve := p.params.EC()
	r := p.params.Rand()
	q := curve.Params().N
	mod := bigint.Mod(q)
	threshold := p.params.Threshold()
	signCount := p.params.PartyCount()
	mySessionIdx := p.params.PartyIndex()

	tsslog.Logger.Debugf("party %d: round0 exchange long-term indices", mySessionIdx)
	round0Out, err := p.seq.ExchangeData(ctx, "round0", marshalPayload(round0Message{LongTermIndex: p.keys.PartyIndex}))
	if err != nil {
		return nil, faults.Transport("round0", err.Error())
	}
	ids := make([]*big.Int, signCount)
	for i, payload := range round0Out {
		var m round0Message
		if err := unmarshalPayload(payload, &m); err != nil {
			return nil, faults.New(faults.KindTransport, "round0", i+1, "malformed round0 message")
		}
		ids[i] = big.NewInt(int64(m.LongTermIndex))
	}

	xi := new(big.Int).Set(p.keys.Xi)
	y := p.keys.Y
	xiGVec := p.keys.XiGVector

	if len(p.params.Path()) > 0 {
		fl, _, err := hd.DeriveChildKeyFromPath(curve, p.params.Path(), &hd.ExtendedKey{PublicKey: y, ChainCode: p.keys.ChainCode})
		if err != nil {
			return nil, errors.Wrap(err, "signing: HD derivation")
		}
		xi = hd.SplicePrivateShare(curve, xi, fl)
		y, err = hd.SplicePublicKey(curve, y, fl)
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

	// prefix ties the ephemeral nonce to this party's long-term share, the
	// message, and its seat in this session: the same share, message and seat
	// always reproduce the same nonce.
	prefix := bigint.SHA512_256(xi.Bytes(), []byte("eddsa-nonce-prefix"))
	riHash := bigint.SHA512_256i(new(big.Int).SetBytes(prefix), p.message, big.NewInt(int64(mySessionIdx)))
	ri := bigint.RejectionSample(q, riHash)
	riG := ecpoint.ScalarBaseMult(curve, ri)
	commit := commitments.New(r, riG.X(), riG.Y())

	tsslog.Logger.Debugf("party %d: round1 commit to r_i*G", mySessionIdx)
	round1Out, err := p.seq.ExchangeData(ctx, "round1", marshalPayload(round1Message{Commitment: commit.C}))
	if err != nil {
		return nil, faults.Transport("round1", err.Error())
	}
	peerCommits := make([]*big.Int, signCount)
	for i, payload := range round1Out {
		var m round1Message
		if err := unmarshalPayload(payload, &m); err != nil {
			return nil, faults.New(faults.KindTransport, "round1", i+1, "malformed round1 message")
		}
		peerCommits[i] = m.Commitment
	}

	dlogProof := zkp.NewDlogProof(r, curve, ri, riG)
	tsslog.Logger.Debugf("party %d: round2 decommit r_i*G", mySessionIdx)
	round2Out, err := p.seq.ExchangeData(ctx, "round2", marshalPayload(round2Message{
		RiG:        riG,
		Randomness: commit.D[0],
		DlogProof:  dlogProof,
	}))
	if err != nil {
		return nil, faults.Transport("round2", err.Error())
	}

	riGVec := make([]*ecpoint.Point, signCount)
	var bigR *ecpoint.Point
	for i, payload := range round2Out {
		peer := i + 1
		var m round2Message
		if err := unmarshalPayload(payload, &m); err != nil {
			return nil, faults.New(faults.KindTransport, "round2", peer, "malformed round2 message")
		}
		m.RiG.SetCurve(curve)
		if !commitments.Verify(peerCommits[i], commitments.HashDeCommitment{m.Randomness, m.RiG.X(), m.RiG.Y()}) {
			return nil, faults.CommitmentMismatch("round2", peer)
		}
		if !m.DlogProof.Verify(curve, m.RiG) {
			return nil, faults.ProofFailure("round2", peer, "dlog")
		}
		riGVec[i] = m.RiG
		if bigR == nil {
			bigR = m.RiG
		} else {
			bigR, err = bigR.Add(m.RiG)
			if err != nil {
				return nil, err
			}
		}
	}

	// Ephemeral-key micro-DKG: Feldman-VSS r_i over the same threshold as
	// the long-term key, sharing it at the same long-term ids every party's
	// xi already lives at, then distribute shares pairwise over the AES
	// channel exactly as keygen's round3 distributes long-term shares
	// (keyed on r_i/R_j here instead of u_i/u_j).
	ephCommits, ephShares, err := vss.Create(r, curve, threshold, ri, ids)
	if err != nil {
		return nil, err
	}

	tsslog.Logger.Debugf("party %d: round3 p2p ephemeral share distribution", mySessionIdx)
	round3Out, err := p.seq.ExchangeP2P(ctx, "round3", func(dest int) string {
		share := ephShares[dest-1]
		bz, _ := json.Marshal(share)
		key := aeschannel.DeriveKey(curve, ri, riGVec[dest-1])
		sealed, err := aeschannel.Seal(key, bz)
		if err != nil {
			panic(errors.Wrap(err, "signing: sealing ephemeral share"))
		}
		return sealed
	})
	if err != nil {
		return nil, faults.Transport("round3", err.Error())
	}

	receivedEphShares := make([]*vss.Share, signCount)
	for i, payload := range round3Out {
		peer := i + 1
		key := aeschannel.DeriveKey(curve, ri, riGVec[i])
		plain, err := aeschannel.Open(key, payload)
		if err != nil {
			return nil, faults.New(faults.KindTransport, "round3", peer, "p2p ephemeral share decryption failed")
		}
		var share vss.Share
		if err := json.Unmarshal(plain, &share); err != nil {
			return nil, faults.New(faults.KindTransport, "round3", peer, "malformed ephemeral share")
		}
		receivedEphShares[i] = &share
	}

	tsslog.Logger.Debugf("party %d: round4 publish ephemeral VSS commitments", mySessionIdx)
	round4Out, err := p.seq.ExchangeData(ctx, "round4", marshalPayload(round4Message{EphVSSCommitments: ephCommits}))
	if err != nil {
		return nil, faults.Transport("round4", err.Error())
	}
	for i, payload := range round4Out {
		peer := i + 1
		var m round4Message
		if err := unmarshalPayload(payload, &m); err != nil {
			return nil, faults.New(faults.KindTransport, "round4", peer, "malformed round4 message")
		}
		for _, c := range m.EphVSSCommitments {
			c.SetCurve(curve)
		}
		ok, err := receivedEphShares[i].Verify(curve, threshold, m.EphVSSCommitments)
		if err != nil || !ok {
			return nil, faults.ShareVerification("round4", peer)
		}
	}

	rHat := big.NewInt(0)
	for _, s := range receivedEphShares {
		rHat = mod.Add(rHat, s.Share)
	}
	rHatG := ecpoint.ScalarBaseMult(curve, rHat)
	rHatDlogProof := zkp.NewDlogProof(r, curve, rHat, rHatG)

	tsslog.Logger.Debugf("party %d: round5 publish combined ephemeral share point", mySessionIdx)
	round5Out, err := p.seq.ExchangeData(ctx, "round5", marshalPayload(round5Message{RHatG: rHatG, DlogProof: rHatDlogProof}))
	if err != nil {
		return nil, faults.Transport("round5", err.Error())
	}
	rHatGVec := make([]*ecpoint.Point, signCount)
	for i, payload := range round5Out {
		peer := i + 1
		var m round5Message
		if err := unmarshalPayload(payload, &m); err != nil {
			return nil, faults.New(faults.KindTransport, "round5", peer, "malformed round5 message")
		}
		m.RHatG.SetCurve(curve)
		if !m.DlogProof.Verify(curve, m.RHatG) {
			return nil, faults.ProofFailure("round5", peer, "dlog")
		}
		rHatGVec[i] = m.RHatG
	}

	c := bigint.RejectionSample(q, bigint.SHA512_256i(bigR.X(), bigR.Y(), y.X(), y.Y(), p.message))
	si := mod.Add(rHat, mod.Mul(c, xi))

	tsslog.Logger.Debugf("party %d: round6 publish local signature share s_i", mySessionIdx)
	round6Out, err := p.seq.ExchangeData(ctx, "round6", marshalPayload(round6Message{Si: si}))
	if err != nil {
		return nil, faults.Transport("round6", err.Error())
	}

	// Every s_i is a value of the degree-threshold polynomial whose constant
	// term is the target scalar s = r + c*x: verify each against the
	// ephemeral and (HD-shifted) long-term public shares gathered above,
	// mirroring verify_local_sigs's check against both VSS commitment
	// vectors, then Lagrange-interpolate the verified shares at x=0 to
	// recover s, mirroring thresholdsig::generate.
	localSigShares := make(vss.Shares, signCount)
	for i, payload := range round6Out {
		peer := i + 1
		var m round6Message
		if err := unmarshalPayload(payload, &m); err != nil {
			return nil, faults.New(faults.KindTransport, "round6", peer, "malformed round6 message")
		}
		longTermPub := xiGVec[ids[i].Int64()-1]
		lhs := ecpoint.ScalarBaseMult(curve, m.Si)
		rhs, err := rHatGVec[i].Add(longTermPub.ScalarMult(c))
		if err != nil {
			return nil, err
		}
		if !lhs.Equals(rhs) {
			return nil, faults.ProofFailure("round6", peer, "local signature")
		}
		localSigShares[i] = &vss.Share{Threshold: threshold, ID: ids[i], Share: m.Si}
	}
	s, err := vss.ReConstruct(curve, localSigShares)
	if err != nil {
		return nil, err
	}

	if err := verifySignature(curve, y, p.message, bigR, s); err != nil {
		return nil, faults.SignatureVerification(err.Error())
	}

	return &Result{
		R:      bigR.X().Text(16),
		S:      s.Text(16),
		X:      y.X().Text(16),
		Y:      y.Y().Text(16),
		MsgInt: p.message,
	}, nil
}

// verifySignature checks the Schnorr equation s*G == R + c*Y, the
// authoritative correctness gate for the combined signature: round6's
// per-signer checks catch a cheating local-sig contribution, this catches
// everything else in the interpolation.
func verifySignature(curve elliptic.Curve, y *ecpoint.Point, message *big.Int, bigR *ecpoint.Point, s *big.Int) error {
	q := curve.Params().N
	c := bigint.RejectionSample(q, bigint.SHA512_256i(bigR.X(), bigR.Y(), y.X(), y.Y(), message))

	lhs := ecpoint.ScalarBaseMult(curve, s)
	rhs, err := bigR.Add(y.ScalarMult(c))
	if err != nil {
		return err
	}
	if !lhs.Equals(rhs) {
		return errors.New("combined signature failed verification")
	}
	return nil
}
