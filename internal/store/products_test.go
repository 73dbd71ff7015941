package store

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoplinehq/commerce-manager/internal/entity"
)

func TestProducts_SearchFilters(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()
	ctx := context.Background()

	seedProduct(t, db, "wireless headphones", "audio", 120)
	seedProduct(t, db, "wired headphones", "audio", 40)
	speakerID := seedProduct(t, db, "bluetooth speaker", "audio", 80)
	seedProduct(t, db, "usb cable", "accessories", 10)

	_, err := db.db.ExecContext(ctx, "UPDATE product SET stock = 0 WHERE id = ?", speakerID)
	require.NoError(t, err)

	// text query matches name, description and category
	_, total, err := db.Products().SearchProductsPaged(ctx, entity.ProductFilter{Query: "headphones"}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	_, total, err = db.Products().SearchProductsPaged(ctx, entity.ProductFilter{Category: "audio"}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	min := decimal.NewFromInt(50)
	max := decimal.NewFromInt(100)
	products, total, err := db.Products().SearchProductsPaged(ctx,
		entity.ProductFilter{MinPrice: &min, MaxPrice: &max}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "bluetooth speaker", products[0].Name)

	_, total, err = db.Products().SearchProductsPaged(ctx,
		entity.ProductFilter{Category: "audio", InStock: true}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

func TestProducts_SearchSort(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()
	ctx := context.Background()

	seedProduct(t, db, "banana stand", "furniture", 30)
	seedProduct(t, db, "armchair", "furniture", 200)
	seedProduct(t, db, "coffee table", "furniture", 90)

	products, _, err := db.Products().SearchProductsPaged(ctx,
		entity.ProductFilter{SortBy: entity.ProductSortPrice}, 10, 0)
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, "banana stand", products[0].Name)
	assert.Equal(t, "armchair", products[2].Name)

	products, _, err = db.Products().SearchProductsPaged(ctx,
		entity.ProductFilter{SortBy: entity.ProductSortPrice, SortDesc: true}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, "armchair", products[0].Name)

	// default sort is by name
	products, _, err = db.Products().SearchProductsPaged(ctx, entity.ProductFilter{}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, "armchair", products[0].Name)
	assert.Equal(t, "coffee table", products[2].Name)
}

func TestProducts_GetProductsByIDs(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()
	ctx := context.Background()

	firstID := seedProduct(t, db, "lamp", "lighting", 25)
	secondID := seedProduct(t, db, "bulb", "lighting", 5)

	products, err := db.Products().GetProductsByIDs(ctx, []int{secondID, firstID, 999999})
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, firstID, products[0].ID)
	assert.Equal(t, secondID, products[1].ID)

	products, err = db.Products().GetProductsByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Nil(t, products)
}

func TestProducts_GetProductCategories(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()
	ctx := context.Background()

	lampID := seedProduct(t, db, "lamp", "lighting", 25)
	deskID := seedProduct(t, db, "desk", "furniture", 140)

	categories, err := db.Products().GetProductCategories(ctx, []int{lampID, deskID, 999999})
	require.NoError(t, err)
	assert.Equal(t, map[int]string{lampID: "lighting", deskID: "furniture"}, categories)
}
