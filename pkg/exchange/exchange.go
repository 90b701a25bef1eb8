package exchange

import (
	"botleague/pkg/exchange/hpl"
	"botleague/pkg/exchange/mock"
	"botleague/pkg/order"
	"botleague/pkg/types"
	"context"
	"errors"
	"time"
)

// Exchange is the execution strategy behind the trading service. Implementations
// own the store writes for the orders they accept.
type Exchange interface {
	Name() types.ExchangeName

	PlaceOrder(ctx context.Context, req order.Request) (*order.Order, error)
	GetOrderStatus(ctx context.Context, id string) (*order.Order, error) // nil when the order is unknown
	GetPositions(ctx context.Context) ([]types.Position, error)
	GetAccountInfo(ctx context.Context) (*types.AccountInfo, error)
}

type Options struct {
	FillDelay time.Duration // mock only
	Client    hpl.Client    // hpl only
}

var ErrUnsupportedExchange = errors.New("unsupported exchange")

// creates a new exchange instance based on the provided name
func NewExchange(name types.ExchangeName, store *order.Store, opts Options) (Exchange, error) {
	switch name {
	case types.ExchangeMock:
		return mock.New(store, opts.FillDelay), nil
	case types.ExchangeHpl:
		if opts.Client == nil {
			return nil, order.ErrUninitializedClient
		}
		return hpl.New(opts.Client, store), nil
	default:
		return nil, ErrUnsupportedExchange
	}
}
