// Package signer recovers the signing address of a personal-message
// signature (EIP-191 scheme) for submission verification.
package signer

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"golang.org/x/crypto/sha3"
)

// Recoverer resolves (message, signature) to the address that signed it.
// The submission service only depends on this interface.
type Recoverer interface {
	RecoverAddress(message, signature string) (string, error)
}

// SigningMessage is the text a wallet signs to authorize a submission.
func SigningMessage(nonce string) string {
	return fmt.Sprintf("I hereby agree to submit my address in order to compute my passport score.\n\nNonce: %s\n", nonce)
}

// EthRecoverer implements Recoverer for 65-byte r||s||v signatures.
type EthRecoverer struct{}

var _ Recoverer = EthRecoverer{}

// RecoverAddress recovers the lowercased 0x-prefixed signing address.
func (EthRecoverer) RecoverAddress(message, signature string) (string, error) {
	sig, err := hex.DecodeString(strings.TrimPrefix(signature, "0x"))
	if err != nil {
		return "", fmt.Errorf("signature is not valid hex: %w", err)
	}
	if len(sig) != 65 {
		return "", fmt.Errorf("signature must be 65 bytes, got %d", len(sig))
	}

	// Wallets emit r||s||v with v of 0/1 or 27/28; RecoverCompact wants the
	// 27+recid header byte first.
	v := sig[64]
	if v < 27 {
		v += 27
	}
	compact := make([]byte, 65)
	compact[0] = v
	copy(compact[1:], sig[:64])

	pubKey, _, err := ecdsa.RecoverCompact(compact, personalDigest(message))
	if err != nil {
		return "", fmt.Errorf("failed to recover public key: %w", err)
	}

	return PubKeyAddress(pubKey.SerializeUncompressed()), nil
}

// PubKeyAddress derives the lowercased address of an uncompressed public key.
func PubKeyAddress(uncompressed []byte) string {
	hash := keccak256(uncompressed[1:])
	return "0x" + hex.EncodeToString(hash[12:])
}

func personalDigest(message string) []byte {
	prefixed := "\x19Ethereum Signed Message:\n" + strconv.Itoa(len(message)) + message
	return keccak256([]byte(prefixed))
}

func keccak256(data []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	return h.Sum(nil)
}
