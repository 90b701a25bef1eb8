package hpl

import (
	"botleague/pkg/utils"
	"math"
)

// ref: https://hyperliquid.gitbook.io/hyperliquid-docs/for-developers/api/tick-and-lot-size
const MAX_PRICE_SIG_FIGURE = 5
const MAX_PRICE_DECIMALS = 6

// market orders are sent as IOC limits this far through the mid price
const MARKET_SLIPPAGE = 0.1

type assetMeta struct {
	Index      int
	SzDecimals int
}

func (m assetMeta) roundSize(size float64) float64 {
	return utils.RoundFloat(size, int64(m.SzDecimals))
}

func (m assetMeta) roundPrice(price float64) float64 {
	price = utils.RoundToSigFigs(price, MAX_PRICE_SIG_FIGURE)
	return utils.RoundFloat(price, int64(MAX_PRICE_DECIMALS-m.SzDecimals))
}

func parseMarkets(res marketInfoResponse) map[string]assetMeta {
	markets := make(map[string]assetMeta, len(res.Universe))
	for idx, u := range res.Universe {
		markets[u.Name] = assetMeta{Index: idx, SzDecimals: u.SzDecimals}
	}
	return markets
}

func aggressivePrice(mid float64, isBuy bool) float64 {
	if isBuy {
		return mid * (1 + MARKET_SLIPPAGE)
	}
	return mid * (1 - MARKET_SLIPPAGE)
}

func absFloat(f float64) float64 {
	return math.Abs(f)
}
