package types

type Position struct {
	Symbol     string    `json:"symbol"`
	EntryPrice float64   `json:"entryPrice"`
	Qty        float64   `json:"qty"`
	Side       OrderSide `json:"side"`
}

type AccountInfo struct {
	Balance float64 `json:"balance"`
	Equity  float64 `json:"equity"`
}
