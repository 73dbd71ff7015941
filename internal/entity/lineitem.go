package entity

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// MergeMode selects what happens when a line-item insert hits an existing
// (user, product, variant) row.
type MergeMode int

const (
	// MergeAccumulate adds the requested quantity onto the existing row,
	// leaving its price untouched (cart behavior).
	MergeAccumulate MergeMode = iota + 1
	// MergeRejectDuplicate fails the insert with ErrDuplicateEntry and
	// performs no mutation (wishlist behavior).
	MergeRejectDuplicate
)

// LineItemInsert is the identity-keyed payload shared by cart and wishlist
// adds. An absent variant matches only rows with an absent variant.
type LineItemInsert struct {
	UserID    string          `json:"userId" valid:"required"`
	ProductID int             `json:"productId" valid:"required"`
	VariantID *int            `json:"variantId" valid:"-"`
	Quantity  int             `json:"quantity" valid:"required,range(1|1000000)"`
	Price     decimal.Decimal `json:"price" valid:"required"`
}

// VariantKey normalizes the optional variant for the unique identity index.
// NULL values never collide in a MySQL unique index, so absent variants are
// stored as 0 in the key column.
func (li *LineItemInsert) VariantKey() int {
	if li.VariantID == nil {
		return 0
	}
	return *li.VariantID
}

// CartItem represents the cart_item table.
type CartItem struct {
	ID        int             `db:"id" json:"id"`
	UserID    string          `db:"user_id" json:"userId"`
	ProductID int             `db:"product_id" json:"productId"`
	VariantID sql.NullInt32   `db:"variant_id" json:"variantId"`
	Quantity  int             `db:"quantity" json:"quantity"`
	Price     decimal.Decimal `db:"price" json:"price"`
	CreatedAt time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time       `db:"updated_at" json:"updatedAt"`
}

// CartSummary aggregates the returned cart page.
type CartSummary struct {
	TotalAmount decimal.Decimal `json:"totalAmount"`
	TotalItems  int             `json:"totalItems"`
	ItemCount   int             `json:"itemCount"`
}

// WishlistItem represents the wishlist_item table.
type WishlistItem struct {
	ID        int             `db:"id" json:"id"`
	UserID    string          `db:"user_id" json:"userId"`
	ProductID int             `db:"product_id" json:"productId"`
	VariantID sql.NullInt32   `db:"variant_id" json:"variantId"`
	Quantity  int             `db:"quantity" json:"quantity"`
	Price     decimal.Decimal `db:"price" json:"price"`
	CreatedAt time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time       `db:"updated_at" json:"updatedAt"`
}

// WishlistItemUpdate is a sparse patch for a wishlist row.
type WishlistItemUpdate struct {
	Quantity *int             `json:"quantity"`
	Price    *decimal.Decimal `json:"price"`
}
