// Package faults defines the error taxonomy every round in this engine
// raises on abort, each kind carrying the peer index responsible where one
// applies (the protocol is abort-on-fault, not identifiable-abort: it
// reports only the first offending peer the verification step catches).
package faults

import "fmt"

type Kind string

const (
	KindTransport           Kind = "transport"
	KindParameterMismatch   Kind = "parameter_mismatch"
	KindCommitmentMismatch  Kind = "commitment_mismatch"
	KindProofFailure        Kind = "proof_failure"
	KindShareVerification   Kind = "share_verification"
	KindSignatureVerification Kind = "signature_verification"
	KindTimeout             Kind = "timeout"
)

// Fault is the error type every round-level abort produces. Peer is the
// 1-based party index responsible, or 0 when no single peer is implicated
// (coordinator transport failures, parameter mismatches, final signature
// rejection).
type Fault struct {
	Kind  Kind
	Round string
	Peer  int
	Msg   string
}

func (f *Fault) Error() string {
	if f.Peer > 0 {
		return fmt.Sprintf("%s at round %s: %s (peer %d)", f.Kind, f.Round, f.Msg, f.Peer)
	}
	return fmt.Sprintf("%s at round %s: %s", f.Kind, f.Round, f.Msg)
}

func New(kind Kind, round string, peer int, msg string) *Fault {
	return &Fault{Kind: kind, Round: round, Peer: peer, Msg: msg}
}

func Transport(round, msg string) *Fault {
	return New(KindTransport, round, 0, msg)
}

func Timeout(round string, missingPeers []int) *Fault {
	return &Fault{Kind: KindTimeout, Round: round, Msg: fmt.Sprintf("missing peers %v", missingPeers)}
}

func ParameterMismatch(msg string) *Fault {
	return New(KindParameterMismatch, "signup", 0, msg)
}

func CommitmentMismatch(round string, peer int) *Fault {
	return New(KindCommitmentMismatch, round, peer, "decommitment does not match earlier commitment")
}

func ProofFailure(round string, peer int, proof string) *Fault {
	return New(KindProofFailure, round, peer, fmt.Sprintf("%s proof rejected", proof))
}

func ShareVerification(round string, peer int) *Fault {
	return New(KindShareVerification, round, peer, "Feldman share verification failed")
}

func SignatureVerification(msg string) *Fault {
	return New(KindSignatureVerification, "final", 0, msg)
}
