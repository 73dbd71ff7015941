package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	v "github.com/asaskevich/govalidator"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shoplinehq/commerce-manager/internal/dependency"
	"github.com/shoplinehq/commerce-manager/internal/entity"
)

type orderStore struct {
	*MYSQLStore
}

// Order returns an object implementing Order interface
func (ms *MYSQLStore) Order() dependency.Order {
	return &orderStore{
		MYSQLStore: ms,
	}
}

// CreateOrder creates a PENDING/PENDING order with a single item. The order
// total is computed once, price times quantity, and is never re-derived from
// items afterwards.
func (ms *MYSQLStore) CreateOrder(ctx context.Context, orderNew *entity.OrderNew) (*entity.OrderFull, error) {
	if orderNew == nil {
		return nil, &entity.ValidationError{Message: "empty order"}
	}
	if _, err := v.ValidateStruct(orderNew); err != nil {
		return nil, &entity.ValidationError{Message: err.Error()}
	}
	if !orderNew.Price.IsPositive() {
		return nil, &entity.ValidationError{Message: "price must be positive"}
	}

	total := orderNew.Price.Mul(decimal.NewFromInt(int64(orderNew.Quantity))).Round(2)
	orderUUID := uuid.NewString()

	var orderID int
	err := ms.Tx(ctx, func(ctx context.Context, rep dependency.Repository) error {
		res, err := ExecNamedResult(ctx, rep.DB(), `
		INSERT INTO customer_order (uuid, user_id, total_amount, status, payment_status)
		VALUES (:uuid, :userId, :totalAmount, :status, :paymentStatus)`,
			map[string]any{
				"uuid":          orderUUID,
				"userId":        orderNew.UserID,
				"totalAmount":   total,
				"status":        entity.OrderPending,
				"paymentStatus": entity.PaymentPending,
			})
		if err != nil {
			return fmt.Errorf("can't insert order: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("last insert id: %w", err)
		}
		orderID = int(id)

		err = ExecNamed(ctx, rep.DB(), `
		INSERT INTO order_item (order_id, product_id, variant_id, quantity, price, total)
		VALUES (:orderId, :productId, :variantId, :quantity, :price, :total)`,
			map[string]any{
				"orderId":   orderID,
				"productId": orderNew.ProductID,
				"variantId": variantIDParam(orderNew.VariantID),
				"quantity":  orderNew.Quantity,
				"price":     orderNew.Price,
				"total":     total,
			})
		if err != nil {
			return fmt.Errorf("can't insert order item: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ms.GetOrderByID(ctx, orderID)
}

// GetOrderByID returns an order together with its items.
func (ms *MYSQLStore) GetOrderByID(ctx context.Context, orderID int) (*entity.OrderFull, error) {
	order, err := QueryNamedOne[entity.Order](ctx, ms.DB(),
		`SELECT * FROM customer_order WHERE id = :id`, map[string]any{"id": orderID})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrNotFound
		}
		return nil, fmt.Errorf("can't get order: %w", err)
	}

	items, err := QueryListNamed[entity.OrderItem](ctx, ms.DB(),
		`SELECT * FROM order_item WHERE order_id = :orderId ORDER BY id`,
		map[string]any{"orderId": orderID})
	if err != nil {
		return nil, fmt.Errorf("can't get order items: %w", err)
	}

	return &entity.OrderFull{Order: order, Items: items}, nil
}

// GetOrdersByUserPaged returns a newest-first page of the user's order
// history with items, plus the total order count.
func (ms *MYSQLStore) GetOrdersByUserPaged(ctx context.Context, userID string, limit, offset int) ([]entity.OrderFull, int, error) {
	orders, err := QueryListNamed[entity.Order](ctx, ms.DB(), `
	SELECT * FROM customer_order
	WHERE user_id = :userId
	ORDER BY created_at DESC, id DESC
	LIMIT :limit OFFSET :offset`,
		map[string]any{
			"userId": userID,
			"limit":  limit,
			"offset": offset,
		})
	if err != nil {
		return nil, 0, fmt.Errorf("can't get orders: %w", err)
	}

	count, err := QueryCountNamed(ctx, ms.DB(),
		`SELECT COUNT(*) FROM customer_order WHERE user_id = :userId`,
		map[string]any{"userId": userID})
	if err != nil {
		return nil, 0, fmt.Errorf("can't count orders: %w", err)
	}

	full, err := attachOrderItems(ctx, ms.DB(), orders)
	if err != nil {
		return nil, 0, err
	}
	return full, count, nil
}

// attachOrderItems fetches items for a page of orders in one query.
func attachOrderItems(ctx context.Context, conn dependency.DB, orders []entity.Order) ([]entity.OrderFull, error) {
	full := make([]entity.OrderFull, 0, len(orders))
	if len(orders) == 0 {
		return full, nil
	}

	ids := make([]int, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}

	items, err := QueryListNamed[entity.OrderItem](ctx, conn,
		`SELECT * FROM order_item WHERE order_id IN (:orderIds) ORDER BY id`,
		map[string]any{"orderIds": ids})
	if err != nil {
		return nil, fmt.Errorf("can't get order items: %w", err)
	}

	byOrder := make(map[int][]entity.OrderItem, len(orders))
	for _, it := range items {
		byOrder[it.OrderID] = append(byOrder[it.OrderID], it)
	}
	for _, o := range orders {
		full = append(full, entity.OrderFull{Order: o, Items: byOrder[o.ID]})
	}
	return full, nil
}

// UpdateOrder applies a sparse patch to an order: only provided fields are
// modified. Status changes are checked against the transition tables and
// rejected with a typed error when the graph does not allow them.
func (ms *MYSQLStore) UpdateOrder(ctx context.Context, orderID int, upd *entity.OrderUpdate) (*entity.OrderFull, error) {
	if upd == nil || (upd.Status == nil && upd.PaymentStatus == nil) {
		return nil, &entity.ValidationError{Message: "empty order update"}
	}

	err := ms.Tx(ctx, func(ctx context.Context, rep dependency.Repository) error {
		order, err := getOrderByIDForUpdate(ctx, rep, orderID)
		if err != nil {
			return err
		}

		status := order.Status
		if upd.Status != nil {
			if !entity.ValidOrderStatusNames[*upd.Status] {
				return &entity.ValidationError{Message: fmt.Sprintf("unknown order status %s", *upd.Status)}
			}
			if !order.Status.CanTransition(*upd.Status) {
				return &entity.InvalidTransitionError{
					Entity: "order",
					From:   order.Status.String(),
					To:     upd.Status.String(),
				}
			}
			status = *upd.Status
		}

		paymentStatus := order.PaymentStatus
		if upd.PaymentStatus != nil {
			if !order.PaymentStatus.CanTransition(*upd.PaymentStatus) {
				return &entity.InvalidTransitionError{
					Entity: "payment",
					From:   order.PaymentStatus.String(),
					To:     upd.PaymentStatus.String(),
				}
			}
			paymentStatus = *upd.PaymentStatus
		}

		params := map[string]any{
			"id":            orderID,
			"status":        status,
			"paymentStatus": paymentStatus,
		}
		query := `
		UPDATE customer_order
		SET status = :status, payment_status = :paymentStatus, updated_at = CURRENT_TIMESTAMP
		WHERE id = :id`
		if status == entity.OrderCancelled && order.Status != entity.OrderCancelled {
			query = `
			UPDATE customer_order
			SET status = :status, payment_status = :paymentStatus,
				cancelled_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
			WHERE id = :id`
		}
		if err := ExecNamed(ctx, rep.DB(), query, params); err != nil {
			return fmt.Errorf("can't update order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ms.GetOrderByID(ctx, orderID)
}

// CancelOrder is the dedicated cancel transition: it sets status CANCELLED
// and stamps cancelled_at from any prior status. Cancelling an order that is
// already CANCELLED succeeds without touching the row.
func (ms *MYSQLStore) CancelOrder(ctx context.Context, orderID int) (*entity.Order, error) {
	var cancelled entity.Order
	err := ms.Tx(ctx, func(ctx context.Context, rep dependency.Repository) error {
		order, err := getOrderByIDForUpdate(ctx, rep, orderID)
		if err != nil {
			return err
		}

		if order.Status == entity.OrderCancelled {
			cancelled = *order
			return nil
		}

		err = ExecNamed(ctx, rep.DB(), `
		UPDATE customer_order
		SET status = :status, cancelled_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
		WHERE id = :id`,
			map[string]any{
				"id":     orderID,
				"status": entity.OrderCancelled,
			})
		if err != nil {
			return fmt.Errorf("can't cancel order: %w", err)
		}

		updated, err := QueryNamedOne[entity.Order](ctx, rep.DB(),
			`SELECT * FROM customer_order WHERE id = :id`, map[string]any{"id": orderID})
		if err != nil {
			return fmt.Errorf("can't get order after cancel: %w", err)
		}
		cancelled = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &cancelled, nil
}

// GetUserOrderStats returns the total amount spent and the order count for
// the user across all statuses.
func (ms *MYSQLStore) GetUserOrderStats(ctx context.Context, userID string) (decimal.Decimal, int, error) {
	type orderStats struct {
		TotalSpent  decimal.Decimal `db:"total_spent"`
		TotalOrders int             `db:"total_orders"`
	}
	stats, err := QueryNamedOne[orderStats](ctx, ms.DB(), `
	SELECT COALESCE(SUM(total_amount), 0) AS total_spent, COUNT(*) AS total_orders
	FROM customer_order WHERE user_id = :userId`,
		map[string]any{"userId": userID})
	if err != nil {
		return decimal.Zero, 0, fmt.Errorf("can't get order stats: %w", err)
	}
	return stats.TotalSpent, stats.TotalOrders, nil
}

// getOrderByIDForUpdate locks the order row to serialize concurrent status
// updates for the same order.
func getOrderByIDForUpdate(ctx context.Context, rep dependency.Repository, orderID int) (*entity.Order, error) {
	order, err := QueryNamedOne[entity.Order](ctx, rep.DB(),
		`SELECT * FROM customer_order WHERE id = :id FOR UPDATE`, map[string]any{"id": orderID})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrNotFound
		}
		return nil, fmt.Errorf("can't get order for update: %w", err)
	}
	return &order, nil
}
