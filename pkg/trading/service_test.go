package trading

import (
	"botleague/pkg/exchange/hpl"
	"botleague/pkg/order"
	"botleague/pkg/types"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	mu       sync.Mutex
	placed   int
	placeErr error
	nextOid  int
	statuses map[string]string
}

func (c *fakeClient) PlaceOrder(_ context.Context, params hpl.PlaceOrderParams) (*hpl.PlaceOrderResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.placed++
	if c.placeErr != nil {
		return nil, c.placeErr
	}
	c.nextOid++
	oid := string(rune('0' + c.nextOid))
	if c.statuses == nil {
		c.statuses = make(map[string]string)
	}
	c.statuses[oid] = "open"
	return &hpl.PlaceOrderResult{Oid: oid}, nil
}

func (c *fakeClient) GetOrderStatus(_ context.Context, oid string) (*hpl.OrderStatusResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	status, ok := c.statuses[oid]
	if !ok {
		return nil, nil
	}
	return &hpl.OrderStatusResult{Oid: oid, Status: status, Coin: "ETH", IsBuy: true, Size: 1, LimitPx: 3000, Timestamp: time.Now()}, nil
}

func (c *fakeClient) GetPositions(context.Context) ([]types.Position, error) {
	return []types.Position{{Symbol: "ETH-USD", EntryPrice: 3000, Qty: 1, Side: types.OrderSideBuy}}, nil
}

func (c *fakeClient) GetAccountInfo(context.Context) (*types.AccountInfo, error) {
	return &types.AccountInfo{Balance: 50, Equity: 75}, nil
}

func (c *fakeClient) setStatus(oid, status string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.statuses[oid] = status
}

func liveService(client *fakeClient) *Service {
	return New(Config{IsLiveMode: true, PrivateKey: "key", Testnet: true}, WithClientFactory(func(Config) (hpl.Client, error) {
		return client, nil
	}))
}

func ethOrder(size float64) order.Request {
	return order.Request{Token: "ETH", Side: types.OrderSideBuy, Size: size, OrderType: types.OrderMarket}
}

func TestSimulationLifecycle(t *testing.T) {
	s := New(Config{FillDelay: 50 * time.Millisecond})
	ctx := context.Background()

	o, err := s.PlaceOrder(ctx, order.Request{Token: "BTC", Side: types.OrderSideBuy, Size: 0.0000001, OrderType: types.OrderMarket})
	require.NoError(t, err)
	assert.Equal(t, types.OrderStatusPending, o.Status)

	got, err := s.GetOrderStatus(ctx, o.Id)
	require.NoError(t, err)
	assert.Equal(t, types.OrderStatusPending, got.Status)

	require.Eventually(t, func() bool {
		got, _ := s.GetOrderStatus(ctx, o.Id)
		return got.Status == types.OrderStatusFilled
	}, time.Second, 10*time.Millisecond)

	missing, err := s.GetOrderStatus(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	positions, err := s.GetPositions(ctx)
	require.NoError(t, err)
	assert.Empty(t, positions)

	info, err := s.GetAccountInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, &types.AccountInfo{Balance: 10000, Equity: 10000}, info)
}

func TestLiveWithoutClient(t *testing.T) {
	ctx := context.Background()
	for name, s := range map[string]*Service{
		"no key":      New(Config{IsLiveMode: true}),
		"invalid key": New(Config{IsLiveMode: true, PrivateKey: "not-hex"}),
		"factory error": New(Config{IsLiveMode: true, PrivateKey: "key"}, WithClientFactory(func(Config) (hpl.Client, error) {
			return nil, errors.New("boom")
		})),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := s.PlaceOrder(ctx, ethOrder(1))
			assert.ErrorIs(t, err, order.ErrUninitializedClient)
			_, err = s.GetOrderStatus(ctx, "1")
			assert.ErrorIs(t, err, order.ErrUninitializedClient)
			_, err = s.GetPositions(ctx)
			assert.ErrorIs(t, err, order.ErrUninitializedClient)
			_, err = s.GetAccountInfo(ctx)
			assert.ErrorIs(t, err, order.ErrUninitializedClient)
			_, err = s.RefreshPending(ctx)
			assert.ErrorIs(t, err, order.ErrUninitializedClient)
			assert.Empty(t, s.GetAllOrders())
			assert.Equal(t, "hyperliquid client not initialized", order.ErrUninitializedClient.Error())
		})
	}
}

func TestLivePlaceOrder(t *testing.T) {
	client := &fakeClient{}
	s := liveService(client)
	ctx := context.Background()

	_, err := s.PlaceOrder(ctx, ethOrder(0.001))
	var verr *order.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 0, client.placed)

	o, err := s.PlaceOrder(ctx, ethOrder(0.01))
	require.NoError(t, err)
	assert.Equal(t, "1", o.Id)
	assert.Equal(t, types.OrderStatusPending, o.Status)
	assert.Len(t, s.GetAllOrders(), 1)

	client.placeErr = errors.New("rejected")
	_, err = s.PlaceOrder(ctx, ethOrder(1))
	var serr *order.SubmissionError
	require.ErrorAs(t, err, &serr)
	assert.Len(t, s.GetAllOrders(), 1)
}

func TestLiveStatusAndAccount(t *testing.T) {
	client := &fakeClient{}
	s := liveService(client)
	ctx := context.Background()

	o, err := s.PlaceOrder(ctx, ethOrder(1))
	require.NoError(t, err)

	got, err := s.GetOrderStatus(ctx, o.Id)
	require.NoError(t, err)
	assert.Equal(t, types.OrderStatusPending, got.Status)

	client.setStatus(o.Id, "canceled")
	got, err = s.GetOrderStatus(ctx, o.Id)
	require.NoError(t, err)
	assert.Equal(t, types.OrderStatusFilled, got.Status)

	positions, err := s.GetPositions(ctx)
	require.NoError(t, err)
	assert.Len(t, positions, 1)

	info, err := s.GetAccountInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, 75.0, info.Equity)
}

func TestRefreshPending(t *testing.T) {
	client := &fakeClient{}
	s := liveService(client)
	ctx := context.Background()

	a, err := s.PlaceOrder(ctx, ethOrder(1))
	require.NoError(t, err)
	_, err = s.PlaceOrder(ctx, ethOrder(2))
	require.NoError(t, err)

	n, err := s.RefreshPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	client.setStatus(a.Id, "filled")
	n, err = s.RefreshPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, _ := s.store.Get(a.Id)
	assert.Equal(t, types.OrderStatusFilled, got.Status)

	n, err = New(Config{}).RefreshPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestRunRefresherStops(t *testing.T) {
	client := &fakeClient{}
	s := liveService(client)
	o, err := s.PlaceOrder(context.Background(), ethOrder(1))
	require.NoError(t, err)
	client.setStatus(o.Id, "filled")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.RunRefresher(ctx, 10*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool {
		got, _ := s.store.Get(o.Id)
		return got.Status == types.OrderStatusFilled
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("refresher did not stop")
	}
}

func TestUpdateConfigKeepsOrders(t *testing.T) {
	client := &fakeClient{}
	s := New(Config{FillDelay: time.Hour}, WithClientFactory(func(Config) (hpl.Client, error) {
		return client, nil
	}))
	ctx := context.Background()

	_, err := s.PlaceOrder(ctx, ethOrder(1))
	require.NoError(t, err)

	live, key := true, "key"
	cfg := s.UpdateConfig(ConfigUpdate{IsLiveMode: &live, PrivateKey: &key})
	assert.True(t, cfg.IsLiveMode)
	assert.Equal(t, time.Hour, cfg.FillDelay)
	assert.True(t, s.IsLiveMode())

	_, err = s.PlaceOrder(ctx, ethOrder(1))
	require.NoError(t, err)
	assert.Equal(t, 1, client.placed)
	assert.Len(t, s.GetAllOrders(), 2)
	assert.Len(t, s.GetOrdersByToken("ETH"), 2)
	assert.Empty(t, s.GetOrdersByToken("BTC"))

	empty := ""
	s.UpdateConfig(ConfigUpdate{PrivateKey: &empty})
	_, err = s.PlaceOrder(ctx, ethOrder(1))
	assert.ErrorIs(t, err, order.ErrUninitializedClient)

	got := s.GetConfig()
	got.IsLiveMode = false
	assert.True(t, s.GetConfig().IsLiveMode)
}

func TestStreamRequiresLiveMode(t *testing.T) {
	_, err := New(Config{}).StreamOrderUpdates(context.Background())
	assert.ErrorIs(t, err, ErrNotLiveMode)

	_, err = New(Config{IsLiveMode: true}).StreamOrderUpdates(context.Background())
	assert.ErrorIs(t, err, order.ErrUninitializedClient)
}

func TestConcurrentSimulatedOrders(t *testing.T) {
	s := New(Config{FillDelay: 80 * time.Millisecond})
	ctx := context.Background()

	reqs := []order.Request{
		{Token: "PEPE", Side: types.OrderSideBuy, Size: 500, OrderType: types.OrderMarket},
		{Token: "BTC", Side: types.OrderSideSell, Size: 0.0001, OrderType: types.OrderLimit, Price: 60000},
	}
	placed := make([]*order.Order, len(reqs))
	var wg sync.WaitGroup
	for i, req := range reqs {
		wg.Add(1)
		go func(i int, req order.Request) {
			defer wg.Done()
			o, err := s.PlaceOrder(ctx, req)
			assert.NoError(t, err)
			placed[i] = o
		}(i, req)
	}
	wg.Wait()

	require.NotNil(t, placed[0])
	require.NotNil(t, placed[1])
	assert.NotEqual(t, placed[0].Id, placed[1].Id)
	for _, o := range placed {
		assert.Equal(t, types.OrderStatusPending, o.Status)
	}
	assert.Len(t, s.GetAllOrders(), 2)

	require.Eventually(t, func() bool {
		for _, o := range placed {
			got, _ := s.GetOrderStatus(ctx, o.Id)
			if got == nil || got.Status != types.OrderStatusFilled {
				return false
			}
		}
		return true
	}, time.Second, 10*time.Millisecond)

	for i, o := range placed {
		got, err := s.GetOrderStatus(ctx, o.Id)
		require.NoError(t, err)
		assert.Equal(t, reqs[i].Token, got.Token)
		assert.Equal(t, reqs[i].Side, got.Side)
		assert.Equal(t, reqs[i].Size, got.Size)
		assert.Equal(t, reqs[i].Price, got.Price)
	}
}

type streamingClient struct {
	fakeClient
	mu        sync.Mutex
	subs      int
	failFirst bool
	active    []context.Context
}

func (c *streamingClient) SubscribeOrderUpdates(ctx context.Context, _ func(hpl.OrderStatusResult)) (<-chan struct{}, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs++
	if c.failFirst && c.subs == 1 {
		return nil, errors.New("dial tcp: connection refused")
	}
	c.active = append(c.active, ctx)
	doneC := make(chan struct{})
	go func() {
		<-ctx.Done()
		close(doneC)
	}()
	return doneC, nil
}

func (c *streamingClient) stats() (int, []context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.subs, append([]context.Context(nil), c.active...)
}

func runOrderStream(t *testing.T, s *Service) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.RunOrderStream(ctx, 20*time.Millisecond)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Error("order stream did not stop")
		}
	})
}

func TestRunOrderStreamFollowsModeChanges(t *testing.T) {
	client := &streamingClient{}
	s := New(Config{}, WithClientFactory(func(Config) (hpl.Client, error) {
		return client, nil
	}))
	runOrderStream(t, s)

	time.Sleep(50 * time.Millisecond)
	subs, _ := client.stats()
	assert.Equal(t, 0, subs)

	live, key := true, "key"
	s.UpdateConfig(ConfigUpdate{IsLiveMode: &live, PrivateKey: &key})
	require.Eventually(t, func() bool {
		subs, _ := client.stats()
		return subs == 1
	}, time.Second, 5*time.Millisecond)

	testnet := true
	s.UpdateConfig(ConfigUpdate{Testnet: &testnet})
	require.Eventually(t, func() bool {
		subs, active := client.stats()
		return subs == 2 && active[0].Err() != nil && active[1].Err() == nil
	}, time.Second, 5*time.Millisecond)

	off := false
	s.UpdateConfig(ConfigUpdate{IsLiveMode: &off})
	require.Eventually(t, func() bool {
		_, active := client.stats()
		return active[1].Err() != nil
	}, time.Second, 5*time.Millisecond)
}

func TestRunOrderStreamRetriesFailedSubscribe(t *testing.T) {
	client := &streamingClient{failFirst: true}
	s := New(Config{IsLiveMode: true, PrivateKey: "key"}, WithClientFactory(func(Config) (hpl.Client, error) {
		return client, nil
	}))
	runOrderStream(t, s)

	require.Eventually(t, func() bool {
		subs, active := client.stats()
		return subs == 2 && len(active) == 1 && active[0].Err() == nil
	}, time.Second, 5*time.Millisecond)
}
