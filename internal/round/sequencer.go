// Package round implements the round sequencer and its two primitives,
// ExchangeData for broadcast rounds and ExchangeP2P for p2p rounds, that
// every protocol round in this engine is built from.
// Grounded on tss-lib's tss/round.go Round interface for the per-round
// lifecycle shape (local compute, then exchange, then verify).
package round

import (
	"context"

	"github.com/HRezaei/tss-ecdsa-cli/internal/coordinator"
)

// Sequencer drives one party through a fixed list of named rounds against a
// coordinator client. It is single-threaded and cooperative: a round's
// local compute phase always runs to completion before the sequencer
// suspends on network I/O.
type Sequencer struct {
	client *coordinator.Client
	n      int
}

func NewSequencer(client *coordinator.Client, n int) *Sequencer {
	return &Sequencer{client: client, n: n}
}

// ExchangeData broadcasts selfPayload tagged with round, then polls until
// every other party's broadcast for round has arrived. The returned slice
// has length n, with the caller's own payload placed at partyNumber-1 so
// every component can index the result by party number rather than by
// network arrival order — this is the sequencer's one load-bearing
// invariant; every round built on top of it depends on it holding.
func (s *Sequencer) ExchangeData(ctx context.Context, round string, selfPayload string) ([]string, error) {
	if err := s.client.Broadcast(ctx, round, selfPayload); err != nil {
		return nil, err
	}
	others, err := s.client.PollForBroadcasts(ctx, round)
	if err != nil {
		return nil, err
	}
	return s.insertSelf(others, selfPayload), nil
}

// ExchangeP2P sends a distinct payload to each other party (keyed by
// destination party number via payloadFor), then polls until every other
// party's p2p message to this party for round has arrived. The result
// follows the same self-insertion convention as ExchangeData.
func (s *Sequencer) ExchangeP2P(ctx context.Context, round string, payloadFor func(dest int) string) ([]string, error) {
	self := s.client.PartyNumber()
	for dest := 1; dest <= s.n; dest++ {
		if dest == self {
			continue
		}
		if err := s.client.SendP2P(ctx, dest, round, payloadFor(dest)); err != nil {
			return nil, err
		}
	}
	others, err := s.client.PollForP2P(ctx, round)
	if err != nil {
		return nil, err
	}
	return s.insertSelf(others, payloadFor(self)), nil
}

// insertSelf splices selfPayload into a length-(n-1) vector of peer
// payloads (ascending sender-index order, self omitted, per
// coordinator.Client.PollForBroadcasts/PollForP2P) to produce the
// length-n, party-number-indexed vector every round expects.
func (s *Sequencer) insertSelf(others []string, selfPayload string) []string {
	self := s.client.PartyNumber()
	out := make([]string, s.n)
	j := 0
	for i := 1; i <= s.n; i++ {
		if i == self {
			out[i-1] = selfPayload
			continue
		}
		out[i-1] = others[j]
		j++
	}
	return out
}
