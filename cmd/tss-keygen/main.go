// Command tss-keygen runs one party's side of distributed key generation
// against a rendezvous coordinator, persisting the resulting key bundle to
// disk.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/HRezaei/tss-ecdsa-cli/ecdsa/keygen"
	eddsakeygen "github.com/HRezaei/tss-ecdsa-cli/eddsa/keygen"
	"github.com/HRezaei/tss-ecdsa-cli/internal/coordinator"
	"github.com/HRezaei/tss-ecdsa-cli/internal/keystore"
	"github.com/HRezaei/tss-ecdsa-cli/internal/paillier"
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
	outPath        string
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
	if outPath == "" {
		result = multierror.Append(result, errors.New("--out is required"))
	}
	if _, err := curve.ByName(curve.Name(curveName)); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
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

	ctx, cancel := context.WithTimeout(cmd.Context(), roundTimeout)
	defer cancel()

	client := coordinator.New(coordinatorURL, nil)
	partyNum, _, err := client.Signup(ctx, coordinator.PurposeKeygen, curveName, threshold, parties)
	if err != nil {
		return errors.Wrap(err, "tss-keygen: signup")
	}
	tsslog.Logger.Infof("assigned party number %d of %d", partyNum, parties)

	params := tss.NewParameters(ec, parties, threshold, partyNum)
	seq := round.NewSequencer(client, parties)

	switch curve.Name(curveName) {
	case curve.Secp256k1:
		preParams, err := paillier.GeneratePreParams(ctx, params.Rand())
		if err != nil {
			return errors.Wrap(err, "tss-keygen: generating pre-parameters")
		}
		party := keygen.NewParty(params, seq, preParams)
		keys, err := party.Start(ctx)
		if err != nil {
			return errors.Wrap(err, "tss-keygen: keygen failed")
		}
		if err := keystore.Save(outPath, keys); err != nil {
			return err
		}
	case curve.Ed25519:
		party := eddsakeygen.NewParty(params, seq)
		keys, err := party.Start(ctx)
		if err != nil {
			return errors.Wrap(err, "tss-keygen: keygen failed")
		}
		if err := keystore.SaveEdDSA(outPath, keys); err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "keygen complete, party %d, bundle written to %s\n", partyNum, outPath)
	return nil
}

func main() {
	root := &cobra.Command{
		Use:   "tss-keygen",
		Short: "Run one party's side of threshold key generation",
		RunE:  run,
	}
	root.Flags().StringVar(&coordinatorURL, "coordinator", "http://localhost:8000", "rendezvous coordinator base URL")
	root.Flags().StringVar(&curveName, "curve", "secp256k1", "curve to generate keys for (secp256k1, ed25519)")
	root.Flags().IntVar(&parties, "parties", 3, "total number of parties")
	root.Flags().IntVar(&threshold, "threshold", 1, "signing threshold (t: any t+1 parties can sign)")
	root.Flags().StringVar(&outPath, "out", "", "path to write the key bundle to")
	root.Flags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	root.Flags().DurationVar(&roundTimeout, "timeout", 60*time.Second, "overall session timeout")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
