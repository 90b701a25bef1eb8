package hpl

import (
	"botleague/pkg/types"
	"strings"
)

const symbolSuffix = "-USD"

// convertSymbolToCoin maps "SOL-USD" to the perp coin name "SOL".
func convertSymbolToCoin(symbol string) string {
	return strings.TrimSuffix(strings.ToUpper(symbol), symbolSuffix)
}

func convertCoinToSymbol(coin string) string {
	return coin + symbolSuffix
}

// convertOrderStatus collapses the exchange status: "open" is pending, anything
// else is treated as filled.
func convertOrderStatus(status string) types.OrderStatus {
	if status == "open" {
		return types.OrderStatusPending
	}
	return types.OrderStatusFilled
}

func convertOrderSide(isBuy bool) types.OrderSide {
	if isBuy {
		return types.OrderSideBuy
	}
	return types.OrderSideSell
}

func convertOrderTif(isMarket bool) tifType {
	if isMarket {
		return tifTypeIOC
	}
	return tifTypeGTC
}
