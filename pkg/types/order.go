package types

type OrderSide string

const (
	OrderSideBuy  = OrderSide("buy")
	OrderSideSell = OrderSide("sell")
)

func (s OrderSide) IsValid() bool {
	return s == OrderSideBuy || s == OrderSideSell
}

type OrderType string

const (
	OrderLimit  = OrderType("limit")
	OrderMarket = OrderType("market")
)

func (t OrderType) IsValid() bool {
	return t == OrderLimit || t == OrderMarket
}

type OrderStatus string

const (
	OrderStatusPending   = OrderStatus("pending")
	OrderStatusFilled    = OrderStatus("filled")
	OrderStatusCancelled = OrderStatus("cancelled")
	OrderStatusRejected  = OrderStatus("rejected")
)

// IsTerminal reports whether no further transition is expected.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderStatusFilled, OrderStatusCancelled, OrderStatusRejected:
		return true
	default:
		return false
	}
}
