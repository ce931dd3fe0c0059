// Command tss-sign runs one party's side of threshold signing against a
// rendezvous coordinator, loading a previously persisted key bundle and
// producing this party's view of the combined signature.
package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"os"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/HRezaei/tss-ecdsa-cli/ecdsa/signing"
	eddsasigning "github.com/HRezaei/tss-ecdsa-cli/eddsa/signing"
	"github.com/HRezaei/tss-ecdsa-cli/internal/coordinator"
	"github.com/HRezaei/tss-ecdsa-cli/internal/hd"
	"github.com/HRezaei/tss-ecdsa-cli/internal/keystore"
	"github.com/HRezaei/tss-ecdsa-cli/internal/round"
	"github.com/HRezaei/tss-ecdsa-cli/pkg/curve"
	"github.com/HRezaei/tss-ecdsa-cli/pkg/tss"
	"github.com/HRezaei/tss-ecdsa-cli/pkg/tsslog"
)

var (
	coordinatorURL string
	curveName      string
	parties        int
	threshold      int
	keyPath        string
	message        string
	derivationPath string
	logLevel       string
	roundTimeout   time.Duration
)

func validateFlags() error {
	var result *multierror.Error
	if parties < 2 {
		result = multierror.Append(result, errors.New("--parties must be at least 2"))
	}
	if threshold < 1 || threshold >= parties {
		result = multierror.Append(result, errors.New("--threshold must satisfy 1 <= threshold < parties"))
	}
	if keyPath == "" {
		result = multierror.Append(result, errors.New("--key is required"))
	}
	if message == "" {
		result = multierror.Append(result, errors.New("--message is required"))
	}
	if _, err := curve.ByName(curve.Name(curveName)); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

// messageDigest reduces the signed message to a field element: SHA-256 of
// the UTF-8 input, interpreted as a big-endian integer mod 2^256 (already
// satisfied since SHA-256 output is exactly 32 bytes).
func messageDigest() *big.Int {
	sum := sha256.Sum256([]byte(message))
	return new(big.Int).SetBytes(sum[:])
}

func run(cmd *cobra.Command, args []string) error {
	if err := validateFlags(); err != nil {
		return err
	}
	if err := tsslog.SetLevel(logLevel); err != nil {
		return err
	}

	ec, err := curve.ByName(curve.Name(curveName))
	if err != nil {
		return err
	}
	path, err := hd.ParsePath(derivationPath)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), roundTimeout)
	defer cancel()

	client := coordinator.New(coordinatorURL, nil)
	partyNum, _, err := client.Signup(ctx, coordinator.PurposeSign, curveName, threshold, parties)
	if err != nil {
		return errors.Wrap(err, "tss-sign: signup")
	}
	tsslog.Logger.Infof("assigned party number %d of %d", partyNum, parties)

	params := tss.NewParameters(ec, parties, threshold, partyNum)
	params.SetPath(path)
	seq := round.NewSequencer(client, parties)
	msgInt := messageDigest()

	switch curve.Name(curveName) {
	case curve.Secp256k1:
		keys, err := keystore.Load(keyPath)
		if err != nil {
			return errors.Wrap(err, "tss-sign: loading key bundle")
		}
		keys.SetCurve(ec)
		party := signing.NewParty(params, seq, keys, msgInt)
		result, err := party.Start(ctx)
		if err != nil {
			return errors.Wrap(err, "tss-sign: signing failed")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "r=%s s=%s recid=%d x=%s y=%s msg=%s\n",
			result.R, result.S, result.Recid, result.X, result.Y, hex.EncodeToString(msgInt.Bytes()))
	case curve.Ed25519:
		keys, err := keystore.LoadEdDSA(keyPath)
		if err != nil {
			return errors.Wrap(err, "tss-sign: loading key bundle")
		}
		keys.SetCurve(ec)
		party := eddsasigning.NewParty(params, seq, keys, msgInt)
		result, err := party.Start(ctx)
		if err != nil {
			return errors.Wrap(err, "tss-sign: signing failed")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "r=%s s=%s x=%s y=%s msg=%s\n",
			result.R, result.S, result.X, result.Y, hex.EncodeToString(msgInt.Bytes()))
	}
	return nil
}

func main() {
	root := &cobra.Command{
		Use:   "tss-sign",
		Short: "Run one party's side of threshold signing",
		RunE:  run,
	}
	root.Flags().StringVar(&coordinatorURL, "coordinator", "http://localhost:8000", "rendezvous coordinator base URL")
	root.Flags().StringVar(&curveName, "curve", "secp256k1", "curve the key bundle was generated for (secp256k1, ed25519)")
	root.Flags().IntVar(&parties, "parties", 2, "number of parties participating in this signing session")
	root.Flags().IntVar(&threshold, "threshold", 1, "signing threshold used at keygen time")
	root.Flags().StringVar(&keyPath, "key", "", "path to a previously saved key bundle")
	root.Flags().StringVar(&message, "message", "", "message to sign")
	root.Flags().StringVar(&derivationPath, "path", "", "slash-separated HD derivation path (e.g. 0/1), empty for the root key")
	root.Flags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	root.Flags().DurationVar(&roundTimeout, "timeout", 60*time.Second, "overall session timeout")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
