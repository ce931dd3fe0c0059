// Package tsslog provides the engine's single structured logger, built on
// ipfs/go-log (itself backed by zap), matching tss-lib's common.Logger.
package tsslog

import (
	logging "github.com/ipfs/go-log"
)

// Logger is shared by every subsystem. Round transitions log at Debug;
// abort causes are returned to the caller as faults and are not logged here.
// Secret scalars, shares, and AES keys must never be passed to it.
var Logger = logging.Logger("tss-engine")

// SetLevel adjusts the engine's log verbosity ("debug", "info", "warn", "error").
func SetLevel(level string) error {
	return logging.SetLogLevel("tss-engine", level)
}
