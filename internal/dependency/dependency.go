package dependency

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/shoplinehq/commerce-manager/internal/entity"
)

type (
	Cart interface {
		// AddCartItem merges the insert into an existing (user, product,
		// variant) row, accumulating quantity, or creates a fresh row. The
		// merge is a single atomic upsert.
		AddCartItem(ctx context.Context, insert *entity.LineItemInsert) (*entity.CartItem, error)
		// GetCartItemsPaged returns a page of the user's cart, newest first,
		// together with the total row count.
		GetCartItemsPaged(ctx context.Context, userID string, limit, offset int) ([]entity.CartItem, int, error)
		// UpdateCartItemQuantity replaces the quantity of a cart row.
		UpdateCartItemQuantity(ctx context.Context, cartItemID, quantity int) (*entity.CartItem, error)
		// DeleteCartItem removes a single cart row.
		DeleteCartItem(ctx context.Context, cartItemID int) error
		// ClearCart removes all cart rows for the user and returns the count.
		ClearCart(ctx context.Context, userID string) (int, error)
	}

	Wishlist interface {
		// AddWishlistItem creates a wishlist row; a second add with the same
		// identity key fails with entity.ErrDuplicateEntry.
		AddWishlistItem(ctx context.Context, insert *entity.LineItemInsert) (*entity.WishlistItem, error)
		GetWishlistItemsPaged(ctx context.Context, userID string, limit, offset int) ([]entity.WishlistItem, int, error)
		UpdateWishlistItem(ctx context.Context, wishlistItemID int, upd *entity.WishlistItemUpdate) (*entity.WishlistItem, error)
		DeleteWishlistItem(ctx context.Context, wishlistItemID int) error
	}

	Order interface {
		// CreateOrder creates a PENDING/PENDING order with one item, the
		// total computed once from price and quantity.
		CreateOrder(ctx context.Context, orderNew *entity.OrderNew) (*entity.OrderFull, error)
		GetOrderByID(ctx context.Context, orderID int) (*entity.OrderFull, error)
		GetOrdersByUserPaged(ctx context.Context, userID string, limit, offset int) ([]entity.OrderFull, int, error)
		// UpdateOrder applies a sparse patch; status changes are validated
		// against the transition tables.
		UpdateOrder(ctx context.Context, orderID int, upd *entity.OrderUpdate) (*entity.OrderFull, error)
		// CancelOrder sets status CANCELLED and stamps cancelled_at.
		// Cancelling an already cancelled order is an idempotent no-op.
		CancelOrder(ctx context.Context, orderID int) (*entity.Order, error)
		// GetUserOrderStats returns total spent and order count for the user.
		GetUserOrderStats(ctx context.Context, userID string) (decimal.Decimal, int, error)
	}

	Subscription interface {
		// CreateSubscription always creates a fresh ACTIVE row, it never
		// merges into an existing identity key.
		CreateSubscription(ctx context.Context, subNew *entity.SubscriptionNew) (*entity.Subscription, error)
		GetSubscriptionsPaged(ctx context.Context, userID string, status entity.SubscriptionStatusName, limit, offset int) ([]entity.Subscription, int, error)
		UpdateSubscription(ctx context.Context, subscriptionID int, upd *entity.SubscriptionUpdate) (*entity.Subscription, error)
		CancelSubscription(ctx context.Context, subscriptionID int) (*entity.Subscription, error)
	}

	Review interface {
		// AddReview creates a PENDING review and synchronously recomputes
		// the product's derived rating aggregate.
		AddReview(ctx context.Context, reviewNew *entity.ReviewNew) (*entity.Review, error)
		GetReviewsPaged(ctx context.Context, filter entity.ReviewFilter, limit, offset int) ([]entity.Review, int, error)
		// UpdateReview applies a moderation patch and recomputes the product
		// rating regardless of which fields changed.
		UpdateReview(ctx context.Context, reviewID int, upd *entity.ReviewUpdate) (*entity.Review, error)
		DeleteReview(ctx context.Context, reviewID int) error
	}

	Products interface {
		GetProductByID(ctx context.Context, productID int) (*entity.Product, error)
		// SearchProductsPaged returns a filtered, sorted product page with
		// the total match count.
		SearchProductsPaged(ctx context.Context, filter entity.ProductFilter, limit, offset int) ([]entity.Product, int, error)
		// GetProductsByIDs returns the products for the given ids, missing
		// ids silently skipped.
		GetProductsByIDs(ctx context.Context, productIDs []int) ([]entity.Product, error)
		// GetProductCategories maps product ids to their category labels.
		GetProductCategories(ctx context.Context, productIDs []int) (map[int]string, error)
	}

	Analytics interface {
		// GetRevenueOrders returns the orders in the given statuses whose
		// creation time falls inside the range, with their items.
		GetRevenueOrders(ctx context.Context, rng entity.TimeRange, statuses []entity.OrderStatusName) ([]entity.RevenueOrder, error)
	}

	Repository interface {
		Cart() Cart
		Wishlist() Wishlist
		Order() Order
		Subscription() Subscription
		Review() Review
		Products() Products
		Analytics() Analytics
		Tx(ctx context.Context, f func(context.Context, Repository) error) error
		TxBegin(ctx context.Context) (Repository, error)
		TxCommit(ctx context.Context) error
		TxRollback(ctx context.Context) error
		Now() time.Time
		InTx() bool
		Close()
		IsErrUniqueViolation(err error) bool
		IsErrorRepeat(err error) bool
		DB() DB
	}

	// DB represents database interface.
	DB interface {
		BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
		ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)

		// sqlx methods
		GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
		NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
		NamedQuery(query string, arg interface{}) (*sqlx.Rows, error)
		PrepareNamedContext(ctx context.Context, query string) (*sqlx.NamedStmt, error)
		PreparexContext(ctx context.Context, query string) (*sqlx.Stmt, error)
		QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
		QueryxContext(ctx context.Context, query string, args ...interface{}) (*sqlx.Rows, error)
		SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	}
)
