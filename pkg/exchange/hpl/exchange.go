package hpl

import (
	"botleague/pkg/market"
	"botleague/pkg/order"
	"botleague/pkg/types"
	"context"
	"errors"

	log "github.com/sirupsen/logrus"
)

var ErrStreamUnsupported = errors.New("client does not support order streaming")

// HplExchange adapts local order requests to a Hyperliquid client and keeps the
// store in sync with what the exchange reports.
type HplExchange struct {
	client Client
	store  *order.Store
	logger *log.Entry
}

func New(client Client, store *order.Store) *HplExchange {
	return &HplExchange{
		client: client,
		store:  store,
		logger: log.WithFields(log.Fields{"exchange": types.ExchangeHpl}),
	}
}

func (*HplExchange) Name() types.ExchangeName {
	return types.ExchangeHpl
}

// PlaceOrder validates the request, submits it and records it as pending under
// the exchange order id. Nothing is stored when submission fails.
func (e *HplExchange) PlaceOrder(ctx context.Context, req order.Request) (*order.Order, error) {
	if err := order.Validate(req); err != nil {
		return nil, err
	}

	res, err := e.client.PlaceOrder(ctx, PlaceOrderParams{
		Symbol:   market.ExchangeSymbol(req.Token),
		IsBuy:    req.Side == types.OrderSideBuy,
		Size:     req.Size,
		LimitPx:  req.Price,
		IsMarket: req.OrderType == types.OrderMarket,
	})
	if err != nil {
		e.logger.Errorf("fail to place order: %v", err)
		return nil, &order.SubmissionError{Err: err}
	}

	o := order.New(res.Oid, req)
	e.store.Put(o)
	return o, nil
}

// GetOrderStatus refreshes the stored record from the exchange. Query failures
// are logged and reported as an unknown order.
func (e *HplExchange) GetOrderStatus(ctx context.Context, id string) (*order.Order, error) {
	res, err := e.client.GetOrderStatus(ctx, id)
	if err != nil {
		e.logger.Errorf("fail to get order status (id: %v): %v", id, err)
		return nil, nil
	}
	if res == nil {
		return nil, nil
	}

	filled := res.FilledSize
	o := &order.Order{
		Id:         id,
		Status:     convertOrderStatus(res.Status),
		Token:      market.TokenFromExchangeSymbol(convertCoinToSymbol(res.Coin)),
		Side:       convertOrderSide(res.IsBuy),
		Size:       res.Size,
		Price:      res.LimitPx,
		FilledSize: &filled,
		Timestamp:  res.Timestamp,
	}
	if prev, ok := e.store.Get(id); ok {
		o.Pnl = prev.Pnl
	}
	e.store.Put(o)
	return o, nil
}

func (e *HplExchange) GetPositions(ctx context.Context) ([]types.Position, error) {
	positions, err := e.client.GetPositions(ctx)
	if err != nil {
		e.logger.Errorf("fail to get positions: %v", err)
		return []types.Position{}, nil
	}
	if positions == nil {
		positions = []types.Position{}
	}
	return positions, nil
}

func (e *HplExchange) GetAccountInfo(ctx context.Context) (*types.AccountInfo, error) {
	info, err := e.client.GetAccountInfo(ctx)
	if err != nil {
		e.logger.Errorf("fail to get account info: %v", err)
		return nil, nil
	}
	return info, nil
}

// StreamOrderUpdates applies pushed status changes to orders already in the
// store. The returned channel closes when the stream ends.
func (e *HplExchange) StreamOrderUpdates(ctx context.Context) (<-chan struct{}, error) {
	streamer, ok := e.client.(OrderStreamer)
	if !ok {
		return nil, ErrStreamUnsupported
	}
	return streamer.SubscribeOrderUpdates(ctx, e.applyOrderUpdate)
}

func (e *HplExchange) applyOrderUpdate(u OrderStatusResult) {
	o, ok := e.store.Get(u.Oid)
	if !ok {
		e.logger.Debugf("ignore update for untracked order: %v", u.Oid)
		return
	}
	if o.Status.IsTerminal() {
		e.logger.Debugf("ignore update for settled order %v (%v)", o.Id, o.Status)
		return
	}
	filled := u.FilledSize
	o.Status = convertOrderStatus(u.Status)
	o.FilledSize = &filled
	e.store.Put(o)
	e.logger.Infof("order %v -> %v", o.Id, o.Status)
}
