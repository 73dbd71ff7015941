package store

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoplinehq/commerce-manager/internal/entity"
)

func TestWishlist_DuplicateRejected(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()
	ctx := context.Background()

	productID := seedProduct(t, db, "headphones", "audio", 80)

	insert := &entity.LineItemInsert{
		UserID:    "u1",
		ProductID: productID,
		Quantity:  1,
		Price:     decimal.NewFromInt(80),
	}
	_, err := db.Wishlist().AddWishlistItem(ctx, insert)
	require.NoError(t, err)

	// the same identity key fails and leaves exactly one row
	_, err = db.Wishlist().AddWishlistItem(ctx, insert)
	assert.ErrorIs(t, err, entity.ErrDuplicateEntry)

	items, total, err := db.Wishlist().GetWishlistItemsPaged(ctx, "u1", 10, 0)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 1, total)

	// a different variant is a different identity
	variant := 3
	insert.VariantID = &variant
	_, err = db.Wishlist().AddWishlistItem(ctx, insert)
	require.NoError(t, err)
}

func TestWishlist_UpdateSparse(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()
	ctx := context.Background()

	productID := seedProduct(t, db, "keyboard", "peripherals", 120)
	item, err := db.Wishlist().AddWishlistItem(ctx, &entity.LineItemInsert{
		UserID:    "u1",
		ProductID: productID,
		Quantity:  1,
		Price:     decimal.NewFromInt(120),
	})
	require.NoError(t, err)

	qty := 2
	updated, err := db.Wishlist().UpdateWishlistItem(ctx, item.ID, &entity.WishlistItemUpdate{Quantity: &qty})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Quantity)
	// price untouched by the sparse patch
	assert.True(t, updated.Price.Equal(decimal.NewFromInt(120)))

	price := decimal.NewFromInt(99)
	updated, err = db.Wishlist().UpdateWishlistItem(ctx, item.ID, &entity.WishlistItemUpdate{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Quantity)
	assert.True(t, updated.Price.Equal(price))

	_, err = db.Wishlist().UpdateWishlistItem(ctx, item.ID+1000, &entity.WishlistItemUpdate{Quantity: &qty})
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestWishlist_Delete(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()
	ctx := context.Background()

	productID := seedProduct(t, db, "mouse", "peripherals", 40)
	item, err := db.Wishlist().AddWishlistItem(ctx, &entity.LineItemInsert{
		UserID:    "u1",
		ProductID: productID,
		Quantity:  1,
		Price:     decimal.NewFromInt(40),
	})
	require.NoError(t, err)

	require.NoError(t, db.Wishlist().DeleteWishlistItem(ctx, item.ID))
	assert.ErrorIs(t, db.Wishlist().DeleteWishlistItem(ctx, item.ID), entity.ErrNotFound)
}
