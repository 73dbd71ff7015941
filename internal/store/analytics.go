package store

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shoplinehq/commerce-manager/internal/dependency"
	"github.com/shoplinehq/commerce-manager/internal/entity"
)

type analyticsStore struct {
	*MYSQLStore
}

// Analytics returns an object implementing Analytics interface
func (ms *MYSQLStore) Analytics() dependency.Analytics {
	return &analyticsStore{
		MYSQLStore: ms,
	}
}

// GetRevenueOrders returns the revenue source set: orders in the given
// statuses whose creation time falls inside the range, newest first, with
// their items and the item's product category attached. An empty status set
// yields an empty result.
func (ms *MYSQLStore) GetRevenueOrders(ctx context.Context, rng entity.TimeRange, statuses []entity.OrderStatusName) ([]entity.RevenueOrder, error) {
	if len(statuses) == 0 {
		return nil, nil
	}

	statusStrings := make([]string, 0, len(statuses))
	for _, s := range statuses {
		statusStrings = append(statusStrings, s.String())
	}

	where := `WHERE status IN (:statuses)`
	params := map[string]any{"statuses": statusStrings}
	if !rng.From.IsZero() {
		where += ` AND created_at >= :from`
		params["from"] = rng.From
	}
	if !rng.To.IsZero() {
		if rng.ToExclusive {
			where += ` AND created_at < :to`
		} else {
			where += ` AND created_at <= :to`
		}
		params["to"] = rng.To
	}

	type orderRow struct {
		ID          int             `db:"id"`
		TotalAmount decimal.Decimal `db:"total_amount"`
		CreatedAt   time.Time       `db:"created_at"`
	}
	orders, err := QueryListNamed[orderRow](ctx, ms.DB(), `
	SELECT id, total_amount, created_at FROM customer_order `+where+`
	ORDER BY created_at DESC, id DESC`, params)
	if err != nil {
		return nil, fmt.Errorf("can't get revenue orders: %w", err)
	}
	if len(orders) == 0 {
		return nil, nil
	}

	ids := make([]int, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}

	type itemRow struct {
		OrderID   int             `db:"order_id"`
		ProductID int             `db:"product_id"`
		Quantity  int             `db:"quantity"`
		Total     decimal.Decimal `db:"total"`
	}
	items, err := QueryListNamed[itemRow](ctx, ms.DB(), `
	SELECT order_id, product_id, quantity, total
	FROM order_item
	WHERE order_id IN (:orderIds)
	ORDER BY id`,
		map[string]any{"orderIds": ids})
	if err != nil {
		return nil, fmt.Errorf("can't get revenue order items: %w", err)
	}

	itemsByOrder := make(map[int][]entity.RevenueItem, len(orders))
	for _, it := range items {
		itemsByOrder[it.OrderID] = append(itemsByOrder[it.OrderID], entity.RevenueItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Total:     it.Total,
		})
	}

	result := make([]entity.RevenueOrder, 0, len(orders))
	for _, o := range orders {
		result = append(result, entity.RevenueOrder{
			OrderID:     o.ID,
			TotalAmount: o.TotalAmount,
			CreatedAt:   o.CreatedAt,
			Items:       itemsByOrder[o.ID],
		})
	}
	return result, nil
}
