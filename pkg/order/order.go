package order

import (
	"botleague/pkg/types"
	"time"
)

// Request is the caller-supplied order; Price is ignored for market orders.
type Request struct {
	Token     string          `json:"token"`
	Side      types.OrderSide `json:"side"`
	Size      float64         `json:"size"`
	Price     float64         `json:"price,omitempty"`
	OrderType types.OrderType `json:"orderType"`
}

// Order is the status record tracked through the order lifecycle.
type Order struct {
	Id         string            `json:"id"`
	Status     types.OrderStatus `json:"status"`
	Token      string            `json:"token"`
	Side       types.OrderSide   `json:"side"`
	Size       float64           `json:"size"`
	Price      float64           `json:"price"`
	FilledSize *float64          `json:"filledSize,omitempty"`
	Pnl        *float64          `json:"pnl,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
}

// New creates a pending record from a request.
func New(id string, req Request) *Order {
	return &Order{
		Id:        id,
		Status:    types.OrderStatusPending,
		Token:     req.Token,
		Side:      req.Side,
		Size:      req.Size,
		Price:     req.Price,
		Timestamp: time.Now(),
	}
}

func (o *Order) clone() *Order {
	c := *o
	if o.FilledSize != nil {
		v := *o.FilledSize
		c.FilledSize = &v
	}
	if o.Pnl != nil {
		v := *o.Pnl
		c.Pnl = &v
	}
	return &c
}
