package market

import (
	"testing"

	"botleague/pkg/types"

	"github.com/stretchr/testify/assert"
)

func TestKnownTokens(t *testing.T) {
	tests := []struct {
		token   string
		symbol  string
		minSize float64
		risk    types.RiskLevel
	}{
		{"BTC", "BTC-USD", 0.001, types.RiskLow},
		{"ETH", "ETH-USD", 0.01, types.RiskLow},
		{"SOL", "SOL-USD", 0.1, types.RiskMedium},
		{"PEPE", "PEPE-USD", 1000, types.RiskHigh},
		{"DOGE", "DOGE-USD", 100, types.RiskHigh},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			assert.True(t, IsSupported(tt.token))
			assert.Equal(t, tt.symbol, ExchangeSymbol(tt.token))
			assert.Equal(t, tt.minSize, MinOrderSize(tt.token))
			assert.Equal(t, tt.risk, RiskLevel(tt.token))
			assert.Equal(t, tt.token, TokenFromExchangeSymbol(tt.symbol))
		})
	}
}

func TestUnknownTokensUseDefaults(t *testing.T) {
	for _, token := range []string{"XRP", "WIF", "btc", "", "ARB"} {
		mkt := Get(token)
		assert.False(t, mkt.Supported, token)
		assert.Equal(t, float64(1), MinOrderSize(token), token)
		assert.Equal(t, types.RiskHigh, RiskLevel(token), token)
		assert.Equal(t, token+"-USD", ExchangeSymbol(token), token)
	}
}

func TestTokenFromUnknownSymbol(t *testing.T) {
	assert.Equal(t, "XRP", TokenFromExchangeSymbol("XRP-USD"))
	assert.Equal(t, "kPEPE", TokenFromExchangeSymbol("kPEPE"))
}

func TestTokensSorted(t *testing.T) {
	assert.Equal(t, []string{"BTC", "DOGE", "ETH", "PEPE", "SOL"}, Tokens())
}
