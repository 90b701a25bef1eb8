package mock

import (
	"botleague/pkg/order"
	"botleague/pkg/types"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceOrderFillsAfterDelay(t *testing.T) {
	store := order.NewStore()
	f := New(store, 50*time.Millisecond)

	o, err := f.PlaceOrder(context.Background(), order.Request{
		Token:     "SOL",
		Side:      types.OrderSideBuy,
		Size:      1,
		OrderType: types.OrderMarket,
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(o.Id, "mock_"))
	assert.Equal(t, types.OrderStatusPending, o.Status)

	stored, ok := store.Get(o.Id)
	require.True(t, ok)
	assert.Equal(t, types.OrderStatusPending, stored.Status)

	require.Eventually(t, func() bool {
		got, _ := f.GetOrderStatus(context.Background(), o.Id)
		return got != nil && got.Status == types.OrderStatusFilled
	}, time.Second, 10*time.Millisecond)

	got, err := f.GetOrderStatus(context.Background(), o.Id)
	require.NoError(t, err)
	assert.Equal(t, "SOL", got.Token)
	assert.Equal(t, types.OrderSideBuy, got.Side)
	assert.Equal(t, 1.0, got.Size)
	assert.Nil(t, got.FilledSize)
}

func TestPlaceOrderSkipsValidation(t *testing.T) {
	f := New(order.NewStore(), time.Hour)

	o, err := f.PlaceOrder(context.Background(), order.Request{
		Token:     "BTC",
		Side:      types.OrderSideSell,
		Size:      0.0000001,
		OrderType: types.OrderLimit,
		Price:     50000,
	})
	require.NoError(t, err)
	assert.Equal(t, 50000.0, o.Price)
}

func TestOrderIdsAreUnique(t *testing.T) {
	f := New(order.NewStore(), time.Hour)
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		o, err := f.PlaceOrder(context.Background(), order.Request{Token: "ETH", Side: types.OrderSideBuy, Size: 1, OrderType: types.OrderMarket})
		require.NoError(t, err)
		assert.False(t, seen[o.Id])
		seen[o.Id] = true
	}
}

func TestUnknownOrder(t *testing.T) {
	f := New(order.NewStore(), 0)
	o, err := f.GetOrderStatus(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, o)
	assert.Equal(t, DefaultFillDelay, f.fillDelay)
}

func TestPlaceholderAccount(t *testing.T) {
	f := New(order.NewStore(), 0)

	positions, err := f.GetPositions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, positions)
	assert.NotNil(t, positions)

	info, err := f.GetAccountInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &types.AccountInfo{Balance: 10000, Equity: 10000}, info)
}
