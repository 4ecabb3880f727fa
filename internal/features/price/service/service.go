package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"tiponx-backend/internal/common/cache"
	apperrors "tiponx-backend/internal/common/errors"
)

const priceCacheKey = "token-prices"

// coinIDs maps supported token symbols to CoinGecko coin IDs.
var coinIDs = map[string]string{
	"ETH":      "ethereum",
	"WETH":     "weth",
	"USDC":     "usd-coin",
	"USDT":     "tether",
	"DAI":      "dai",
	"MOG":      "mog-coin",
	"CULT":     "cult-dao",
	"SPX6900":  "spx6900",
	"PEPE":     "pepe",
	"SOL":      "solana",
	"RAY":      "raydium",
	"SRM":      "serum",
	"FARTCOIN": "fartcoin",
	"TRENCHER": "trencher",
}

// fallbackRates are served when the upstream API is unreachable and the cache
// is cold, so tip pricing degrades instead of failing.
var fallbackRates = map[string]decimal.Decimal{
	"ETH":  decimal.NewFromInt(2500),
	"WETH": decimal.NewFromInt(2500),
	"SOL":  decimal.NewFromInt(95),
	"USDC": decimal.NewFromInt(1),
	"USDT": decimal.NewFromInt(1),
	"DAI":  decimal.NewFromInt(1),
}

// PriceSource is the upstream spot-price API.
type PriceSource interface {
	SimplePrice(ctx context.Context, ids []string) (map[string]decimal.Decimal, error)
}

type PriceService interface {
	Prices(ctx context.Context) (map[string]decimal.Decimal, error)
	USDPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
}

type priceService struct {
	source PriceSource
	cache  cache.Cache
	ttl    time.Duration
}

func NewPriceService(source PriceSource, c cache.Cache, ttl time.Duration) PriceService {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &priceService{source: source, cache: c, ttl: ttl}
}

// Prices returns USD rates for every supported token, cached for the
// configured TTL.
func (s *priceService) Prices(ctx context.Context) (map[string]decimal.Decimal, error) {
	var rates map[string]decimal.Decimal
	err := s.cache.Get(ctx, priceCacheKey, &rates)
	if err == nil {
		return rates, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		log.Warn().Err(err).Msg("price cache read failed")
	}

	fetched, err := s.fetch(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("failed to refresh token prices, serving fallback rates")
		return copyRates(fallbackRates), nil
	}

	if err := s.cache.Set(ctx, priceCacheKey, fetched, s.ttl); err != nil {
		log.Warn().Err(err).Msg("price cache write failed")
	}
	return fetched, nil
}

func (s *priceService) USDPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	if _, ok := coinIDs[symbol]; !ok {
		return decimal.Zero, apperrors.Newf(apperrors.ErrCodeValidation, "unsupported token: %s", symbol)
	}
	rates, err := s.Prices(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return rates[symbol], nil
}

func (s *priceService) fetch(ctx context.Context) (map[string]decimal.Decimal, error) {
	ids := make([]string, 0, len(coinIDs))
	for _, id := range coinIDs {
		ids = append(ids, id)
	}
	byID, err := s.source.SimplePrice(ctx, ids)
	if err != nil {
		return nil, err
	}

	rates := make(map[string]decimal.Decimal, len(coinIDs))
	for symbol, id := range coinIDs {
		if price, ok := byID[id]; ok {
			rates[symbol] = price
		} else if fb, ok := fallbackRates[symbol]; ok {
			rates[symbol] = fb
		} else {
			rates[symbol] = decimal.Zero
		}
	}
	return rates, nil
}

func copyRates(src map[string]decimal.Decimal) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
