package store

import (
	"context"
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestDB connects to the database named by MYSQL_TEST_DSN and wipes every
// table. Tests are skipped when the variable is unset.
func newTestDB(t *testing.T) *MYSQLStore {
	t.Helper()
	dsn := os.Getenv("MYSQL_TEST_DSN")
	if dsn == "" {
		t.Skip("MYSQL_TEST_DSN not set")
	}

	db, err := New(context.Background(), Config{
		DSN:         dsn,
		Automigrate: true,
	})
	require.NoError(t, err)

	ctx := context.Background()
	_, err = db.db.ExecContext(ctx, "SET FOREIGN_KEY_CHECKS = 0")
	assert.NoError(t, err)
	for _, table := range []string{
		"review",
		"subscription",
		"order_item",
		"customer_order",
		"wishlist_item",
		"cart_item",
		"product_variant",
		"product",
	} {
		_, err = db.db.ExecContext(ctx, "DELETE FROM "+table)
		assert.NoError(t, err)
	}
	_, err = db.db.ExecContext(ctx, "SET FOREIGN_KEY_CHECKS = 1")
	assert.NoError(t, err)

	return db
}

// seedProduct inserts a product row and returns its id.
func seedProduct(t *testing.T, db *MYSQLStore, name, category string, price int64) int {
	t.Helper()
	res, err := ExecNamedResult(context.Background(), db.DB(), `
	INSERT INTO product (name, description, category, price, stock)
	VALUES (:name, :description, :category, :price, :stock)`,
		map[string]any{
			"name":        name,
			"description": name + " description",
			"category":    category,
			"price":       decimal.NewFromInt(price),
			"stock":       100,
		})
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return int(id)
}
