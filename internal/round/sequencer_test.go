package round

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HRezaei/tss-ecdsa-cli/internal/coordinator"
	"github.com/HRezaei/tss-ecdsa-cli/internal/coordinatortest"
)

func newSignedUpSequencers(t *testing.T, n int) []*Sequencer {
	t.Helper()
	srv := coordinatortest.NewServer()
	t.Cleanup(srv.Close)

	seqs := make([]*Sequencer, n)
	var wg sync.WaitGroup
	var mu sync.Mutex
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			client := coordinator.New(srv.URL, nil)
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_, _, err := client.Signup(ctx, coordinator.PurposeKeygen, "secp256k1", 1, n)
			require.NoError(t, err)
			mu.Lock()
			seqs[client.PartyNumber()-1] = NewSequencer(client, n)
			mu.Unlock()
		}(i)
	}
	wg.Wait()
	for _, s := range seqs {
		require.NotNil(t, s)
	}
	return seqs
}

func TestExchangeDataInsertsSelfAtOwnIndex(t *testing.T) {
	const n = 4
	seqs := newSignedUpSequencers(t, n)

	results := make([][]string, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i, s := range seqs {
		go func(i int, s *Sequencer) {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			out, err := s.ExchangeData(ctx, "round1", fmt.Sprintf("payload-%d", i+1))
			require.NoError(t, err)
			results[i] = out
		}(i, s)
	}
	wg.Wait()

	for i, out := range results {
		require.Len(t, out, n)
		for j := 0; j < n; j++ {
			assert.Equal(t, fmt.Sprintf("payload-%d", j+1), out[j])
		}
		_ = i
	}
}

func TestExchangeP2PDeliversDistinctPayloads(t *testing.T) {
	const n = 3
	seqs := newSignedUpSequencers(t, n)

	results := make([][]string, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i, s := range seqs {
		go func(i int, s *Sequencer) {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			out, err := s.ExchangeP2P(ctx, "round3", func(dest int) string {
				return fmt.Sprintf("from-%d-to-%d", i+1, dest)
			})
			require.NoError(t, err)
			results[i] = out
		}(i, s)
	}
	wg.Wait()

	for i, out := range results {
		require.Len(t, out, n)
		for j := 0; j < n; j++ {
			assert.Equal(t, fmt.Sprintf("from-%d-to-%d", j+1, i+1), out[j])
		}
	}
}
