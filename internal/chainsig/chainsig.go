// Package chainsig verifies wallet-ownership signatures for the chains the
// tipping flow supports. Verification is pure; callers decide what a failed
// check means.
package chainsig

import (
	"crypto/ed25519"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gagliardetto/solana-go"
)

// VerifyFunc matches Verify so services can inject a fake in tests.
type VerifyFunc func(chain, message, signature, wallet string) bool

// Verify dispatches on chain ("ETH" or "SOL"). Unknown chains never verify.
func Verify(chain, message, signature, wallet string) bool {
	switch strings.ToUpper(chain) {
	case "ETH":
		return VerifyEthereum(message, signature, wallet)
	case "SOL":
		return VerifySolana(message, signature, wallet)
	default:
		return false
	}
}

// VerifyEthereum checks a personal_sign signature (hex, 65 bytes) against an
// EVM address by secp256k1 public key recovery over the prefixed message hash.
func VerifyEthereum(message, signature, address string) bool {
	sig, err := hexutil.Decode(signature)
	if err != nil || len(sig) != 65 {
		return false
	}
	// Wallets emit V as 27/28; crypto.SigToPub wants 0/1.
	recoveryID := sig[64]
	if recoveryID >= 27 {
		recoveryID -= 27
	}
	if recoveryID > 1 {
		return false
	}
	normalized := make([]byte, 65)
	copy(normalized, sig[:64])
	normalized[64] = recoveryID

	pub, err := crypto.SigToPub(accounts.TextHash([]byte(message)), normalized)
	if err != nil {
		return false
	}
	recovered := crypto.PubkeyToAddress(*pub)
	return strings.EqualFold(recovered.Hex(), address)
}

// VerifySolana checks a detached Ed25519 signature (base58) against a Solana
// wallet public key (base58).
func VerifySolana(message, signature, wallet string) bool {
	pub, err := solana.PublicKeyFromBase58(wallet)
	if err != nil {
		return false
	}
	sig, err := solana.SignatureFromBase58(signature)
	if err != nil {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(pub[:]), []byte(message), sig[:])
}
