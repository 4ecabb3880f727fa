package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tiponx-backend/internal/common/cache"
	"tiponx-backend/internal/common/clock"
)

type fakeSource struct {
	prices map[string]decimal.Decimal
	err    error
	calls  int
}

func (f *fakeSource) SimplePrice(_ context.Context, _ []string) (map[string]decimal.Decimal, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.prices, nil
}

func newPriceFixture(source *fakeSource) (*clock.Fake, PriceService) {
	clk := &clock.Fake{Current: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	svc := NewPriceService(source, cache.NewMemory(clk), time.Minute)
	return clk, svc
}

func TestPriceService_Prices(t *testing.T) {
	source := &fakeSource{prices: map[string]decimal.Decimal{
		"ethereum": decimal.NewFromInt(3000),
		"solana":   decimal.NewFromInt(150),
		"usd-coin": decimal.NewFromInt(1),
	}}
	_, svc := newPriceFixture(source)

	rates, err := svc.Prices(context.Background())
	require.NoError(t, err)
	assert.True(t, rates["ETH"].Equal(decimal.NewFromInt(3000)))
	assert.True(t, rates["SOL"].Equal(decimal.NewFromInt(150)))
	assert.True(t, rates["USDC"].Equal(decimal.NewFromInt(1)))
	// Tokens the upstream did not quote still appear.
	_, ok := rates["PEPE"]
	assert.True(t, ok)
}

func TestPriceService_CacheWithinTTL(t *testing.T) {
	source := &fakeSource{prices: map[string]decimal.Decimal{
		"ethereum": decimal.NewFromInt(3000),
	}}
	clk, svc := newPriceFixture(source)

	_, err := svc.Prices(context.Background())
	require.NoError(t, err)

	clk.Advance(30 * time.Second)
	_, err = svc.Prices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, source.calls, "second call within TTL must hit the cache")

	clk.Advance(31 * time.Second)
	_, err = svc.Prices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, source.calls, "expired cache triggers a refetch")
}

func TestPriceService_FallbackOnSourceFailure(t *testing.T) {
	source := &fakeSource{err: errors.New("upstream down")}
	_, svc := newPriceFixture(source)

	rates, err := svc.Prices(context.Background())
	require.NoError(t, err)
	assert.True(t, rates["ETH"].Equal(decimal.NewFromInt(2500)))
	assert.True(t, rates["USDT"].Equal(decimal.NewFromInt(1)))
}

func TestPriceService_USDPrice(t *testing.T) {
	source := &fakeSource{prices: map[string]decimal.Decimal{
		"ethereum": decimal.NewFromInt(3000),
	}}
	_, svc := newPriceFixture(source)

	price, err := svc.USDPrice(context.Background(), "ETH")
	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.NewFromInt(3000)))

	_, err = svc.USDPrice(context.Background(), "BTC")
	require.Error(t, err, "unsupported tokens are rejected")
}
