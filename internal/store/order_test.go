package store

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoplinehq/commerce-manager/internal/entity"
)

func TestOrder_Create(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()
	ctx := context.Background()

	productID := seedProduct(t, db, "monitor", "video", 200)

	full, err := db.Order().CreateOrder(ctx, &entity.OrderNew{
		UserID:    "u1",
		ProductID: productID,
		Quantity:  3,
		Price:     decimal.NewFromInt(200),
	})
	require.NoError(t, err)

	assert.Equal(t, entity.OrderPending, full.Order.Status)
	assert.Equal(t, entity.PaymentPending, full.Order.PaymentStatus)
	assert.NotEmpty(t, full.Order.UUID)
	// total computed once from price and quantity
	assert.True(t, full.Order.TotalAmount.Equal(decimal.NewFromInt(600)))
	require.Len(t, full.Items, 1)
	assert.True(t, full.Items[0].Total.Equal(decimal.NewFromInt(600)))

	got, err := db.Order().GetOrderByID(ctx, full.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, full.Order.UUID, got.Order.UUID)
	require.Len(t, got.Items, 1)
}

func TestOrder_StatusTransitions(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()
	ctx := context.Background()

	productID := seedProduct(t, db, "router", "network", 90)
	full, err := db.Order().CreateOrder(ctx, &entity.OrderNew{
		UserID:    "u1",
		ProductID: productID,
		Quantity:  1,
		Price:     decimal.NewFromInt(90),
	})
	require.NoError(t, err)

	// PENDING cannot jump straight to SHIPPED
	shipped := entity.OrderShipped
	_, err = db.Order().UpdateOrder(ctx, full.Order.ID, &entity.OrderUpdate{Status: &shipped})
	var te *entity.InvalidTransitionError
	assert.ErrorAs(t, err, &te)

	confirmed := entity.OrderConfirmed
	updated, err := db.Order().UpdateOrder(ctx, full.Order.ID, &entity.OrderUpdate{Status: &confirmed})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderConfirmed, updated.Order.Status)

	// total never recomputed by updates
	assert.True(t, updated.Order.TotalAmount.Equal(full.Order.TotalAmount))

	bogus := entity.OrderStatusName("SHINY")
	_, err = db.Order().UpdateOrder(ctx, full.Order.ID, &entity.OrderUpdate{Status: &bogus})
	var ve *entity.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestOrder_CancelIdempotent(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()
	ctx := context.Background()

	productID := seedProduct(t, db, "tablet", "video", 300)
	full, err := db.Order().CreateOrder(ctx, &entity.OrderNew{
		UserID:    "u1",
		ProductID: productID,
		Quantity:  1,
		Price:     decimal.NewFromInt(300),
	})
	require.NoError(t, err)

	cancelled, err := db.Order().CancelOrder(ctx, full.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderCancelled, cancelled.Status)
	assert.True(t, cancelled.CancelledAt.Valid)

	// a second cancel succeeds and keeps the original timestamp
	again, err := db.Order().CancelOrder(ctx, full.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderCancelled, again.Status)
	assert.Equal(t, cancelled.CancelledAt.Time.Unix(), again.CancelledAt.Time.Unix())

	_, err = db.Order().CancelOrder(ctx, full.Order.ID+1000)
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestOrder_UserHistoryAndStats(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()
	ctx := context.Background()

	productID := seedProduct(t, db, "ssd", "storage", 100)
	for i := 0; i < 3; i++ {
		_, err := db.Order().CreateOrder(ctx, &entity.OrderNew{
			UserID:    "u1",
			ProductID: productID,
			Quantity:  1,
			Price:     decimal.NewFromInt(100),
		})
		require.NoError(t, err)
	}

	orders, total, err := db.Order().GetOrdersByUserPaged(ctx, "u1", 2, 0)
	require.NoError(t, err)
	assert.Len(t, orders, 2)
	assert.Equal(t, 3, total)
	for _, o := range orders {
		assert.Len(t, o.Items, 1)
	}

	spent, count, err := db.Order().GetUserOrderStats(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.True(t, spent.Equal(decimal.NewFromInt(300)))
}
