package mock

import (
	"botleague/pkg/order"
	"botleague/pkg/types"
	"context"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const DefaultFillDelay = 2 * time.Second

const (
	placeholderBalance = 10000
	placeholderEquity  = 10000
)

// Fulfiller simulates fills locally: orders are accepted as pending and flip to
// filled once the fill delay has elapsed.
type Fulfiller struct {
	store     *order.Store
	fillDelay time.Duration
	logger    *log.Entry
}

func New(store *order.Store, fillDelay time.Duration) *Fulfiller {
	if fillDelay <= 0 {
		fillDelay = DefaultFillDelay
	}
	return &Fulfiller{
		store:     store,
		fillDelay: fillDelay,
		logger:    log.WithFields(log.Fields{"exchange": types.ExchangeMock}),
	}
}

func (*Fulfiller) Name() types.ExchangeName {
	return types.ExchangeMock
}

// PlaceOrder never fails and performs no validation.
func (f *Fulfiller) PlaceOrder(_ context.Context, req order.Request) (*order.Order, error) {
	o := order.New(newOrderId(), req)
	f.store.Put(o)
	f.logger.Debugf("mock order accepted: %v %v %v %v", o.Id, o.Side, o.Size, o.Token)

	id := o.Id
	time.AfterFunc(f.fillDelay, func() {
		if f.store.UpdateStatus(id, types.OrderStatusFilled) {
			f.logger.Debugf("mock order filled: %v", id)
		}
	})
	return o, nil
}

func (f *Fulfiller) GetOrderStatus(_ context.Context, id string) (*order.Order, error) {
	o, ok := f.store.Get(id)
	if !ok {
		return nil, nil
	}
	return o, nil
}

func (*Fulfiller) GetPositions(context.Context) ([]types.Position, error) {
	return []types.Position{}, nil
}

func (*Fulfiller) GetAccountInfo(context.Context) (*types.AccountInfo, error) {
	return &types.AccountInfo{Balance: placeholderBalance, Equity: placeholderEquity}, nil
}

func newOrderId() string {
	return "mock_" + uuid.NewString()
}
