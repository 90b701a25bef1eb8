package market

import (
	"botleague/pkg/types"
	"botleague/pkg/utils"
	"sort"
	"strings"
)

const (
	defaultMinOrderSize = 1
	quoteSuffix         = "-USD"
)

// Market holds the static per-token metadata used by the order path and the
// confirmation surface.
type Market struct {
	Token          string          `json:"token"`
	ExchangeSymbol string          `json:"exchangeSymbol"` // trading pair on the exchange, e.g. "BTC-USD"
	MinOrderSize   float64         `json:"minOrderSize"`   // min order quantity (e.g. 0.001 means 0.0009 BTC is invalid)
	Risk           types.RiskLevel `json:"risk"`
	Supported      bool            `json:"supported"`
}

var markets = map[string]Market{
	"BTC":  {Token: "BTC", ExchangeSymbol: "BTC-USD", MinOrderSize: 0.001, Risk: types.RiskLow},
	"ETH":  {Token: "ETH", ExchangeSymbol: "ETH-USD", MinOrderSize: 0.01, Risk: types.RiskLow},
	"SOL":  {Token: "SOL", ExchangeSymbol: "SOL-USD", MinOrderSize: 0.1, Risk: types.RiskMedium},
	"PEPE": {Token: "PEPE", ExchangeSymbol: "PEPE-USD", MinOrderSize: 1000, Risk: types.RiskHigh},
	"DOGE": {Token: "DOGE", ExchangeSymbol: "DOGE-USD", MinOrderSize: 100, Risk: types.RiskHigh},
}

var symbolToToken = func() map[string]string {
	m := make(map[string]string, len(markets))
	for token, mkt := range markets {
		m[token] = mkt.ExchangeSymbol
	}
	return utils.ReverseStrMap(m)
}()

// Get returns the market for token, filling defaults for unknown tokens.
func Get(token string) Market {
	if mkt, ok := markets[token]; ok {
		mkt.Supported = true
		return mkt
	}
	return Market{
		Token:          token,
		ExchangeSymbol: token + quoteSuffix,
		MinOrderSize:   defaultMinOrderSize,
		Risk:           types.RiskHigh,
	}
}

func ExchangeSymbol(token string) string {
	return Get(token).ExchangeSymbol
}

func MinOrderSize(token string) float64 {
	return Get(token).MinOrderSize
}

func RiskLevel(token string) types.RiskLevel {
	return Get(token).Risk
}

func IsSupported(token string) bool {
	_, ok := markets[token]
	return ok
}

// TokenFromExchangeSymbol is the reverse of ExchangeSymbol.
func TokenFromExchangeSymbol(symbol string) string {
	if token, ok := symbolToToken[symbol]; ok {
		return token
	}
	return strings.TrimSuffix(symbol, quoteSuffix)
}

// Tokens lists the supported tokens in alphabetical order.
func Tokens() []string {
	tokens := make([]string, 0, len(markets))
	for token := range markets {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)
	return tokens
}
