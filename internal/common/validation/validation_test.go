package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalHandle(t *testing.T) {
	assert.Equal(t, "@alice", CanonicalHandle("alice"))
	assert.Equal(t, "@alice", CanonicalHandle("@alice"))
	assert.Equal(t, "@alice", CanonicalHandle("  alice "))
	assert.Equal(t, "", CanonicalHandle("   "))
}

func TestBareHandle(t *testing.T) {
	assert.Equal(t, "alice", BareHandle("@alice"))
	assert.Equal(t, "alice", BareHandle("alice"))
}

func TestValidateWalletAddress(t *testing.T) {
	cases := []struct {
		name     string
		currency string
		address  string
		wantErr  bool
	}{
		{"valid eth", "ETH", "0x742d35Cc6634C0532925a3b844Bc454e4438f44e", false},
		{"valid usdc uses eth format", "USDC", "0x742d35Cc6634C0532925a3b844Bc454e4438f44e", false},
		{"valid pepe uses eth format", "PEPE", "0x742d35Cc6634C0532925a3b844Bc454e4438f44e", false},
		{"eth lowercase currency", "eth", "0x742d35Cc6634C0532925a3b844Bc454e4438f44e", false},
		{"eth too short", "ETH", "0x742d35Cc", true},
		{"eth missing prefix", "ETH", "742d35Cc6634C0532925a3b844Bc454e4438f44e", true},
		{"eth bad hex", "ETH", "0xZZZd35Cc6634C0532925a3b844Bc454e4438f44e", true},
		{"valid sol", "SOL", "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU", false},
		{"valid fartcoin uses sol format", "FARTCOIN", "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU", false},
		{"sol too short", "SOL", "abc", true},
		{"sol too long", "SOL", "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU7xKXtg2CW87d", true},
		{"empty address", "ETH", "", true},
		{"unsupported currency", "BTC", "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateWalletAddress(tc.currency, tc.address)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateWallets(t *testing.T) {
	assert.Error(t, ValidateWallets(nil))
	assert.Error(t, ValidateWallets(map[string]string{}))

	ok := map[string]string{
		"ETH": "0x742d35Cc6634C0532925a3b844Bc454e4438f44e",
		"SOL": "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU",
	}
	assert.NoError(t, ValidateWallets(ok))

	mixed := map[string]string{
		"ETH": "0x742d35Cc6634C0532925a3b844Bc454e4438f44e",
		"SOL": "bad",
	}
	assert.Error(t, ValidateWallets(mixed), "one bad entry rejects the whole map")
}

func TestValidateHandle(t *testing.T) {
	assert.NoError(t, ValidateHandle("alice"))
	assert.NoError(t, ValidateHandle("@alice"))
	assert.Error(t, ValidateHandle(""))
	assert.Error(t, ValidateHandle("@"))
	assert.Error(t, ValidateHandle("averyveryveryveryverylonghandlethatkeepsgoing"))
}
