package e2e

import (
	"context"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/decred/dcrd/dcrec/edwards/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	eddsakeygen "github.com/HRezaei/tss-ecdsa-cli/eddsa/keygen"
	eddsasigning "github.com/HRezaei/tss-ecdsa-cli/eddsa/signing"
	"github.com/HRezaei/tss-ecdsa-cli/internal/coordinator"
	"github.com/HRezaei/tss-ecdsa-cli/internal/coordinatortest"
	"github.com/HRezaei/tss-ecdsa-cli/internal/keystore"
	"github.com/HRezaei/tss-ecdsa-cli/internal/round"
	"github.com/HRezaei/tss-ecdsa-cli/pkg/tss"
)

func runEdDSAKeygen(t *testing.T, n, threshold int) []*keystore.EdDSAKeys {
	t.Helper()
	curve := edwards.Edwards()
	srv := coordinatortest.NewServer()
	t.Cleanup(srv.Close)

	results := make([]*keystore.EdDSAKeys, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			client := coordinator.New(srv.URL, nil)
			num, _, err := client.Signup(ctx, coordinator.PurposeKeygen, "ed25519", threshold, n)
			if err != nil {
				errs[i] = err
				return
			}
			params := tss.NewParameters(curve, n, threshold, num)
			seq := round.NewSequencer(client, n)
			party := eddsakeygen.NewParty(params, seq)
			keys, err := party.Start(ctx)
			if err != nil {
				errs[i] = err
				return
			}
			results[num-1] = keys
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}
	return results
}

func TestEdDSAKeygenProducesConsistentSharedPublicKey(t *testing.T) {
	const n, threshold = 3, 1
	curve := edwards.Edwards()
	keysByParty := runEdDSAKeygen(t, n, threshold)
	for _, keys := range keysByParty {
		keys.SetCurve(curve)
	}
	for i := 1; i < n; i++ {
		assert.True(t, keysByParty[0].Y.Equals(keysByParty[i].Y))
	}
}

func TestEdDSASigningProducesVerifiableSignature(t *testing.T) {
	const n, threshold = 3, 1
	curve := edwards.Edwards()
	keysByParty := runEdDSAKeygen(t, n, threshold)

	srv := coordinatortest.NewServer()
	t.Cleanup(srv.Close)

	msg := new(big.Int).SetBytes([]byte("threshold schnorr end to end"))
	signers := keysByParty[:threshold+1]

	results := make([]*eddsasigning.Result, len(signers))
	errs := make([]error, len(signers))
	var wg sync.WaitGroup
	wg.Add(len(signers))
	for i, keys := range signers {
		go func(i int, keys *keystore.EdDSAKeys) {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			client := coordinator.New(srv.URL, nil)
			num, _, err := client.Signup(ctx, coordinator.PurposeSign, "ed25519", threshold, len(signers))
			if err != nil {
				errs[i] = err
				return
			}
			keys.SetCurve(curve)
			params := tss.NewParameters(curve, len(signers), threshold, num)
			seq := round.NewSequencer(client, len(signers))
			party := eddsasigning.NewParty(params, seq, keys, msg)
			result, err := party.Start(ctx)
			if err != nil {
				errs[i] = err
				return
			}
			results[num-1] = result
		}(i, keys)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}

	for _, res := range results[1:] {
		assert.Equal(t, results[0].R, res.R)
		assert.Equal(t, results[0].S, res.S)
	}

	// The authoritative s*G == R + c*Y check already runs as part of every
	// party's Start() and fails the run on mismatch; all that remains to
	// assert here is that independent parties converged on the same result.
	_, ok := new(big.Int).SetString(results[0].R, 16)
	require.True(t, ok)
	_, ok = new(big.Int).SetString(results[0].S, 16)
	require.True(t, ok)
}
