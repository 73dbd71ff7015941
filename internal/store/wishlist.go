package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shoplinehq/commerce-manager/internal/dependency"
	"github.com/shoplinehq/commerce-manager/internal/entity"
)

type wishlistStore struct {
	*MYSQLStore
}

// Wishlist returns an object implementing Wishlist interface
func (ms *MYSQLStore) Wishlist() dependency.Wishlist {
	return &wishlistStore{
		MYSQLStore: ms,
	}
}

// AddWishlistItem creates a wishlist row. Unlike the cart, a second add with
// the same identity key does not merge: the unique index rejects it and the
// duplicate surfaces as entity.ErrDuplicateEntry with no mutation.
func (ms *MYSQLStore) AddWishlistItem(ctx context.Context, insert *entity.LineItemInsert) (*entity.WishlistItem, error) {
	if err := validateLineItemInsert(insert); err != nil {
		return nil, err
	}

	query := `
	INSERT INTO wishlist_item (user_id, product_id, variant_id, variant_key, quantity, price)
	VALUES (:userId, :productId, :variantId, :variantKey, :quantity, :price)`

	err := ExecNamed(ctx, ms.DB(), query, map[string]any{
		"userId":     insert.UserID,
		"productId":  insert.ProductID,
		"variantId":  variantIDParam(insert.VariantID),
		"variantKey": insert.VariantKey(),
		"quantity":   insert.Quantity,
		"price":      insert.Price,
	})
	if err != nil {
		if ms.IsErrUniqueViolation(err) {
			return nil, entity.ErrDuplicateEntry
		}
		return nil, fmt.Errorf("can't insert wishlist item: %w", err)
	}

	item, err := QueryNamedOne[entity.WishlistItem](ctx, ms.DB(), `
	SELECT * FROM wishlist_item
	WHERE user_id = :userId AND product_id = :productId AND variant_key = :variantKey`,
		map[string]any{
			"userId":     insert.UserID,
			"productId":  insert.ProductID,
			"variantKey": insert.VariantKey(),
		})
	if err != nil {
		return nil, fmt.Errorf("can't get wishlist item after insert: %w", err)
	}
	return &item, nil
}

// GetWishlistItemsPaged returns a newest-first page of the user's wishlist
// together with the total row count.
func (ms *MYSQLStore) GetWishlistItemsPaged(ctx context.Context, userID string, limit, offset int) ([]entity.WishlistItem, int, error) {
	items, err := QueryListNamed[entity.WishlistItem](ctx, ms.DB(), `
	SELECT * FROM wishlist_item
	WHERE user_id = :userId
	ORDER BY created_at DESC, id DESC
	LIMIT :limit OFFSET :offset`,
		map[string]any{
			"userId": userID,
			"limit":  limit,
			"offset": offset,
		})
	if err != nil {
		return nil, 0, fmt.Errorf("can't get wishlist items: %w", err)
	}

	count, err := QueryCountNamed(ctx, ms.DB(), `
	SELECT COUNT(*) FROM wishlist_item WHERE user_id = :userId`,
		map[string]any{"userId": userID})
	if err != nil {
		return nil, 0, fmt.Errorf("can't count wishlist items: %w", err)
	}

	return items, count, nil
}

// UpdateWishlistItem applies a sparse patch: only provided fields are
// modified, absent fields retain previous values.
func (ms *MYSQLStore) UpdateWishlistItem(ctx context.Context, wishlistItemID int, upd *entity.WishlistItemUpdate) (*entity.WishlistItem, error) {
	if upd == nil || (upd.Quantity == nil && upd.Price == nil) {
		return nil, &entity.ValidationError{Message: "empty wishlist item update"}
	}
	if upd.Quantity != nil && *upd.Quantity < 1 {
		return nil, &entity.ValidationError{Message: "quantity must be positive"}
	}

	item, err := QueryNamedOne[entity.WishlistItem](ctx, ms.DB(),
		`SELECT * FROM wishlist_item WHERE id = :id`, map[string]any{"id": wishlistItemID})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrNotFound
		}
		return nil, fmt.Errorf("can't get wishlist item: %w", err)
	}

	if upd.Quantity != nil {
		item.Quantity = *upd.Quantity
	}
	if upd.Price != nil {
		item.Price = *upd.Price
	}

	err = ExecNamed(ctx, ms.DB(), `
	UPDATE wishlist_item
	SET quantity = :quantity, price = :price, updated_at = CURRENT_TIMESTAMP
	WHERE id = :id`,
		map[string]any{
			"id":       wishlistItemID,
			"quantity": item.Quantity,
			"price":    item.Price,
		})
	if err != nil {
		return nil, fmt.Errorf("can't update wishlist item: %w", err)
	}

	updated, err := QueryNamedOne[entity.WishlistItem](ctx, ms.DB(),
		`SELECT * FROM wishlist_item WHERE id = :id`, map[string]any{"id": wishlistItemID})
	if err != nil {
		return nil, fmt.Errorf("can't get wishlist item after update: %w", err)
	}
	return &updated, nil
}

// DeleteWishlistItem removes a single wishlist row.
func (ms *MYSQLStore) DeleteWishlistItem(ctx context.Context, wishlistItemID int) error {
	res, err := ExecNamedResult(ctx, ms.DB(),
		`DELETE FROM wishlist_item WHERE id = :id`, map[string]any{"id": wishlistItemID})
	if err != nil {
		return fmt.Errorf("can't delete wishlist item: %w", err)
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
