package validation

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	MaxHandleLength      = 32
	MaxNameLength        = 100
	MaxDescriptionLength = 1000
	MaxCommentLength     = 2000

	SolanaAddressMinLen = 32
	SolanaAddressMaxLen = 44
)

// Currency keys grouped by chain family. Token sets mirror what the tipping
// UI supports.
var (
	ethereumFamily = map[string]bool{
		"ETH": true, "USDC": true, "USDT": true, "DAI": true, "WETH": true,
		"MOG": true, "CULT": true, "SPX6900": true, "PEPE": true,
	}
	solanaFamily = map[string]bool{
		"SOL": true, "RAY": true, "SRM": true, "FARTCOIN": true, "TRENCHER": true,
	}
)

var ethereumAddressRegex = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// IsEthereumFamily reports whether the currency settles on an EVM chain.
func IsEthereumFamily(currency string) bool {
	return ethereumFamily[strings.ToUpper(currency)]
}

// IsSolanaFamily reports whether the currency settles on Solana.
func IsSolanaFamily(currency string) bool {
	return solanaFamily[strings.ToUpper(currency)]
}

// CanonicalHandle normalizes a social handle to the "@name" form.
func CanonicalHandle(handle string) string {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return ""
	}
	if !strings.HasPrefix(handle, "@") {
		handle = "@" + handle
	}
	return handle
}

// BareHandle strips the leading "@" for comparisons against external APIs.
func BareHandle(handle string) string {
	return strings.TrimPrefix(strings.TrimSpace(handle), "@")
}

// ValidateHandle checks a social handle after canonicalization.
func ValidateHandle(handle string) error {
	handle = CanonicalHandle(handle)
	if handle == "" || handle == "@" {
		return fmt.Errorf("handle cannot be empty")
	}
	if len(handle) > MaxHandleLength+1 {
		return fmt.Errorf("handle must be at most %d characters long", MaxHandleLength)
	}
	return nil
}

// ValidateWalletAddress checks the address format for the currency's chain
// family. Ethereum-family addresses are 0x plus 40 hex characters; Solana
// addresses are base58 strings between 32 and 44 characters.
func ValidateWalletAddress(currency, address string) error {
	if address == "" {
		return fmt.Errorf("wallet address for %s is empty", currency)
	}
	switch {
	case IsEthereumFamily(currency):
		if !ethereumAddressRegex.MatchString(address) {
			return fmt.Errorf("invalid Ethereum address format for %s", currency)
		}
	case IsSolanaFamily(currency):
		if len(address) < SolanaAddressMinLen || len(address) > SolanaAddressMaxLen {
			return fmt.Errorf("invalid Solana address format for %s", currency)
		}
	default:
		return fmt.Errorf("unsupported currency: %s", currency)
	}
	return nil
}

// ValidateWallets checks a whole wallet map. Any single bad entry rejects
// the request.
func ValidateWallets(wallets map[string]string) error {
	if len(wallets) == 0 {
		return fmt.Errorf("at least one wallet address is required")
	}
	for currency, address := range wallets {
		if err := ValidateWalletAddress(currency, address); err != nil {
			return err
		}
	}
	return nil
}
