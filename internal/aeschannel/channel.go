// Package aeschannel implements the pairwise authenticated-encryption
// channel parties use to exchange Feldman VSS shares outside the
// coordinator's plaintext broadcast channel. The shared key is derived with
// HKDF-SHA256 from a Diffie-Hellman shared point's X coordinate; the
// cipher is AES-256-GCM. Grounded on the pattern tss-lib itself delegates to
// its host application (tss-lib ships no p2p-channel crypto of its own), and
// on up2itnow-ReadyTrader-Crypto/mpc_signer's net/http transport idiom for
// how a coordinator-relayed byte payload is framed.
package aeschannel

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"math/big"

	"github.com/pkg/errors"
	"golang.org/x/crypto/hkdf"

	"github.com/HRezaei/tss-ecdsa-cli/internal/ecpoint"
)

const keySize = 32 // AES-256

// DeriveKey computes the shared symmetric key for a pair of parties from
// their own scalar and the counterparty's public point: both sides land on
// the same DH point, x*(y*G) == y*(x*G), so the key never crosses the wire.
// The raw DH point is run through HKDF-SHA256 rather than used directly, so
// the AES key is independent of the point encoding.
func DeriveKey(curve elliptic.Curve, mySecret *big.Int, theirPublic *ecpoint.Point) []byte {
	shared := theirPublic.ScalarMult(mySecret)
	kdf := hkdf.New(sha256.New, shared.X().Bytes(), nil, []byte("tss-ecdsa-cli/aeschannel"))
	key := make([]byte, keySize)
	if _, err := io.ReadFull(kdf, key); err != nil {
		panic(errors.Wrap(err, "aeschannel: deriving key"))
	}
	return key
}

// Seal encrypts plaintext under key, returning nonce||ciphertext||tag ready
// to hand to the coordinator's sendp2p endpoint as a hex string.
func Seal(key, plaintext []byte) (string, error) {
	if len(key) != keySize {
		return "", errors.Errorf("aeschannel: key must be %d bytes, got %d", keySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", errors.Wrap(err, "aeschannel: creating AES cipher")
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", errors.Wrap(err, "aeschannel: wrapping cipher in GCM")
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", errors.Wrap(err, "aeschannel: sampling nonce")
	}
	sealed := gcm.Seal(nonce, nonce, plaintext, nil)
	return hex.EncodeToString(sealed), nil
}

// Open decrypts a hex payload produced by Seal, rejecting it outright on any
// authentication failure (a tampered or misrouted p2p message aborts the
// signing session rather than being silently dropped).
func Open(key []byte, payload string) ([]byte, error) {
	if len(key) != keySize {
		return nil, errors.Errorf("aeschannel: key must be %d bytes, got %d", keySize, len(key))
	}
	raw, err := hex.DecodeString(payload)
	if err != nil {
		return nil, errors.Wrap(err, "aeschannel: decoding hex payload")
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(err, "aeschannel: creating AES cipher")
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.Wrap(err, "aeschannel: wrapping cipher in GCM")
	}
	if len(raw) < gcm.NonceSize() {
		return nil, errors.New("aeschannel: payload shorter than nonce")
	}
	nonce, ciphertext := raw[:gcm.NonceSize()], raw[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, errors.Wrap(err, "aeschannel: authentication failed")
	}
	return plaintext, nil
}
