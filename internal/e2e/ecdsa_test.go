// Package e2e drives full multi-party protocol runs against an in-memory
// coordinator, the way tss-lib's local_party_test.go files drive full runs
// over in-process channels.
package e2e

import (
	"context"
	"crypto/ecdsa"
	"crypto/rand"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ecdsakeygen "github.com/HRezaei/tss-ecdsa-cli/ecdsa/keygen"
	ecdsasigning "github.com/HRezaei/tss-ecdsa-cli/ecdsa/signing"
	"github.com/HRezaei/tss-ecdsa-cli/internal/coordinator"
	"github.com/HRezaei/tss-ecdsa-cli/internal/coordinatortest"
	"github.com/HRezaei/tss-ecdsa-cli/internal/keystore"
	"github.com/HRezaei/tss-ecdsa-cli/internal/paillier"
	"github.com/HRezaei/tss-ecdsa-cli/internal/round"
	"github.com/HRezaei/tss-ecdsa-cli/pkg/tss"
)

func runECDSAKeygen(t *testing.T, n, threshold int) []*keystore.SharedKeys {
	t.Helper()
	curve := btcec.S256()
	srv := coordinatortest.NewServer()
	t.Cleanup(srv.Close)

	results := make([]*keystore.SharedKeys, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
			defer cancel()

			client := coordinator.New(srv.URL, nil)
			num, _, err := client.Signup(ctx, coordinator.PurposeKeygen, "secp256k1", threshold, n)
			if err != nil {
				errs[i] = err
				return
			}
			preParams, err := paillier.GeneratePreParams(ctx, rand.Reader)
			if err != nil {
				errs[i] = err
				return
			}
			params := tss.NewParameters(curve, n, threshold, num)
			seq := round.NewSequencer(client, n)
			party := ecdsakeygen.NewParty(params, seq, preParams)
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

func TestECDSAKeygenProducesConsistentSharedPublicKey(t *testing.T) {
	if testing.Short() {
		t.Skip("Paillier pre-parameter generation is slow; skip under -short")
	}
	const n, threshold = 3, 1
	keysByParty := runECDSAKeygen(t, n, threshold)

	curve := btcec.S256()
	for _, keys := range keysByParty {
		keys.SetCurve(curve)
	}
	for i := 1; i < n; i++ {
		assert.True(t, keysByParty[0].Y.Equals(keysByParty[i].Y))
	}
}

func TestECDSASigningProducesVerifiableSignature(t *testing.T) {
	if testing.Short() {
		t.Skip("Paillier pre-parameter generation is slow; skip under -short")
	}
	const n, threshold = 3, 1
	keysByParty := runECDSAKeygen(t, n, threshold)

	curve := btcec.S256()
	srv := coordinatortest.NewServer()
	t.Cleanup(srv.Close)

	msg := new(big.Int).SetBytes([]byte("threshold signing end to end"))

	// Only threshold+1 signers participate, matching the signing quorum.
	signers := keysByParty[:threshold+1]

	results := make([]*ecdsasigning.Result, len(signers))
	errs := make([]error, len(signers))
	var wg sync.WaitGroup
	wg.Add(len(signers))
	for i, keys := range signers {
		go func(i int, keys *keystore.SharedKeys) {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()

			client := coordinator.New(srv.URL, nil)
			num, _, err := client.Signup(ctx, coordinator.PurposeSign, "secp256k1", threshold, len(signers))
			if err != nil {
				errs[i] = err
				return
			}
			keys.SetCurve(curve)
			params := tss.NewParameters(curve, len(signers), threshold, num)
			seq := round.NewSequencer(client, len(signers))
			party := ecdsasigning.NewParty(params, seq, keys, msg)
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

	r, ok := new(big.Int).SetString(results[0].R, 16)
	require.True(t, ok)
	s, ok := new(big.Int).SetString(results[0].S, 16)
	require.True(t, ok)
	x, ok := new(big.Int).SetString(results[0].X, 16)
	require.True(t, ok)
	y, ok := new(big.Int).SetString(results[0].Y, 16)
	require.True(t, ok)

	for _, res := range results[1:] {
		assert.Equal(t, results[0].R, res.R)
		assert.Equal(t, results[0].S, res.S)
	}

	pub := &ecdsa.PublicKey{Curve: curve, X: x, Y: y}
	assert.True(t, ecdsa.Verify(pub, msg.Bytes(), r, s))
}
