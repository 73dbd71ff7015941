package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	v "github.com/asaskevich/govalidator"
	"golang.org/x/sync/errgroup"

	"github.com/shoplinehq/commerce-manager/internal/dependency"
	"github.com/shoplinehq/commerce-manager/internal/entity"
)

type cartStore struct {
	*MYSQLStore
}

// Cart returns an object implementing Cart interface
func (ms *MYSQLStore) Cart() dependency.Cart {
	return &cartStore{
		MYSQLStore: ms,
	}
}

// AddCartItem merges the insert into the user's cart. The write is a single
// atomic upsert on the (user_id, product_id, variant_key) unique index, so
// two concurrent adds for the same key both land as one accumulated row.
// A merge accumulates quantity and leaves the stored price untouched.
func (ms *MYSQLStore) AddCartItem(ctx context.Context, insert *entity.LineItemInsert) (*entity.CartItem, error) {
	if err := validateLineItemInsert(insert); err != nil {
		return nil, err
	}

	query := `
	INSERT INTO cart_item (user_id, product_id, variant_id, variant_key, quantity, price)
	VALUES (:userId, :productId, :variantId, :variantKey, :quantity, :price)
	ON DUPLICATE KEY UPDATE
		quantity = quantity + VALUES(quantity),
		updated_at = CURRENT_TIMESTAMP`

	err := ExecNamed(ctx, ms.DB(), query, map[string]any{
		"userId":     insert.UserID,
		"productId":  insert.ProductID,
		"variantId":  variantIDParam(insert.VariantID),
		"variantKey": insert.VariantKey(),
		"quantity":   insert.Quantity,
		"price":      insert.Price,
	})
	if err != nil {
		return nil, fmt.Errorf("can't upsert cart item: %w", err)
	}

	item, err := QueryNamedOne[entity.CartItem](ctx, ms.DB(), `
	SELECT * FROM cart_item
	WHERE user_id = :userId AND product_id = :productId AND variant_key = :variantKey`,
		map[string]any{
			"userId":     insert.UserID,
			"productId":  insert.ProductID,
			"variantKey": insert.VariantKey(),
		})
	if err != nil {
		return nil, fmt.Errorf("can't get cart item after upsert: %w", err)
	}
	return &item, nil
}

// GetCartItemsPaged returns a newest-first page of the user's cart together
// with the total row count. The page and the count are fetched concurrently.
func (ms *MYSQLStore) GetCartItemsPaged(ctx context.Context, userID string, limit, offset int) ([]entity.CartItem, int, error) {
	var (
		items []entity.CartItem
		count int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = QueryListNamed[entity.CartItem](gctx, ms.DB(), `
		SELECT * FROM cart_item
		WHERE user_id = :userId
		ORDER BY created_at DESC, id DESC
		LIMIT :limit OFFSET :offset`,
			map[string]any{
				"userId": userID,
				"limit":  limit,
				"offset": offset,
			})
		if err != nil {
			return fmt.Errorf("can't get cart items: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		count, err = QueryCountNamed(gctx, ms.DB(), `
		SELECT COUNT(*) FROM cart_item WHERE user_id = :userId`,
			map[string]any{"userId": userID})
		if err != nil {
			return fmt.Errorf("can't count cart items: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	return items, count, nil
}

// UpdateCartItemQuantity replaces the quantity of a cart row, refreshing its
// update timestamp; price and the rest of the row retain previous values.
func (ms *MYSQLStore) UpdateCartItemQuantity(ctx context.Context, cartItemID, quantity int) (*entity.CartItem, error) {
	if quantity < 1 {
		return nil, &entity.ValidationError{Message: "quantity must be positive"}
	}

	_, err := QueryNamedOne[entity.CartItem](ctx, ms.DB(),
		`SELECT * FROM cart_item WHERE id = :id`, map[string]any{"id": cartItemID})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrNotFound
		}
		return nil, fmt.Errorf("can't get cart item: %w", err)
	}

	err = ExecNamed(ctx, ms.DB(), `
	UPDATE cart_item SET quantity = :quantity, updated_at = CURRENT_TIMESTAMP
	WHERE id = :id`,
		map[string]any{"id": cartItemID, "quantity": quantity})
	if err != nil {
		return nil, fmt.Errorf("can't update cart item: %w", err)
	}

	item, err := QueryNamedOne[entity.CartItem](ctx, ms.DB(),
		`SELECT * FROM cart_item WHERE id = :id`, map[string]any{"id": cartItemID})
	if err != nil {
		return nil, fmt.Errorf("can't get cart item after update: %w", err)
	}
	return &item, nil
}

// DeleteCartItem removes a single cart row.
func (ms *MYSQLStore) DeleteCartItem(ctx context.Context, cartItemID int) error {
	res, err := ExecNamedResult(ctx, ms.DB(),
		`DELETE FROM cart_item WHERE id = :id`, map[string]any{"id": cartItemID})
	if err != nil {
		return fmt.Errorf("can't delete cart item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return entity.ErrNotFound
	}
	return nil
}

// ClearCart removes all cart rows for the user in one statement and returns
// the number of deleted rows.
func (ms *MYSQLStore) ClearCart(ctx context.Context, userID string) (int, error) {
	res, err := ExecNamedResult(ctx, ms.DB(),
		`DELETE FROM cart_item WHERE user_id = :userId`, map[string]any{"userId": userID})
	if err != nil {
		return 0, fmt.Errorf("can't clear cart: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(n), nil
}

// validateLineItemInsert rejects inserts with missing identity fields before
// any store access.
func validateLineItemInsert(insert *entity.LineItemInsert) error {
	if insert == nil {
		return &entity.ValidationError{Message: "empty line item"}
	}
	if _, err := v.ValidateStruct(insert); err != nil {
		return &entity.ValidationError{Message: err.Error()}
	}
	if !insert.Price.IsPositive() {
		return &entity.ValidationError{Message: "price must be positive"}
	}
	return nil
}

func variantIDParam(variantID *int) any {
	if variantID == nil {
		return nil
	}
	return *variantID
}
