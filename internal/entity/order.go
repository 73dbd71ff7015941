package entity

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatusName is the custom type to enforce enum-like behavior
type OrderStatusName string

func (osn OrderStatusName) String() string {
	return string(osn)
}

const (
	OrderPending    OrderStatusName = "PENDING"
	OrderConfirmed  OrderStatusName = "CONFIRMED"
	OrderProcessing OrderStatusName = "PROCESSING"
	OrderShipped    OrderStatusName = "SHIPPED"
	OrderDelivered  OrderStatusName = "DELIVERED"
	OrderCancelled  OrderStatusName = "CANCELLED"
	OrderRefunded   OrderStatusName = "REFUNDED"
)

// ValidOrderStatusNames is a set of valid order status names
var ValidOrderStatusNames = map[OrderStatusName]bool{
	OrderPending:    true,
	OrderConfirmed:  true,
	OrderProcessing: true,
	OrderShipped:    true,
	OrderDelivered:  true,
	OrderCancelled:  true,
	OrderRefunded:   true,
}

// validOrderTransitions is the allowed transition table for order status.
// CANCELLED -> CANCELLED is allowed so that cancel is idempotent.
var validOrderTransitions = map[OrderStatusName][]OrderStatusName{
	OrderPending:    {OrderConfirmed, OrderCancelled},
	OrderConfirmed:  {OrderProcessing, OrderCancelled},
	OrderProcessing: {OrderShipped, OrderCancelled},
	OrderShipped:    {OrderDelivered},
	OrderDelivered:  {OrderRefunded},
	OrderCancelled:  {OrderCancelled},
	OrderRefunded:   {},
}

// CanTransition reports whether the order status may change from osn to next.
func (osn OrderStatusName) CanTransition(next OrderStatusName) bool {
	for _, allowed := range validOrderTransitions[osn] {
		if allowed == next {
			return true
		}
	}
	return false
}

// CountsTowardRevenue reports whether orders in this status contribute to
// revenue analytics. The classification is explicit rather than a hard-coded
// literal in the analytics query.
func (osn OrderStatusName) CountsTowardRevenue() bool {
	return osn == OrderDelivered
}

// RevenueStatuses returns the default set of revenue-bearing order statuses.
func RevenueStatuses() []OrderStatusName {
	statuses := make([]OrderStatusName, 0, 1)
	for name := range ValidOrderStatusNames {
		if name.CountsTowardRevenue() {
			statuses = append(statuses, name)
		}
	}
	return statuses
}

// PaymentStatusName is the payment axis of an order, independent from the
// fulfillment status.
type PaymentStatusName string

func (psn PaymentStatusName) String() string {
	return string(psn)
}

const (
	PaymentPending    PaymentStatusName = "PENDING"
	PaymentProcessing PaymentStatusName = "PROCESSING"
	PaymentCompleted  PaymentStatusName = "COMPLETED"
	PaymentFailed     PaymentStatusName = "FAILED"
	PaymentCancelled  PaymentStatusName = "CANCELLED"
	PaymentRefunded   PaymentStatusName = "REFUNDED"
)

var validPaymentTransitions = map[PaymentStatusName][]PaymentStatusName{
	PaymentPending:    {PaymentProcessing, PaymentFailed, PaymentCancelled},
	PaymentProcessing: {PaymentCompleted, PaymentFailed},
	PaymentCompleted:  {PaymentRefunded},
	PaymentFailed:     {PaymentPending, PaymentProcessing},
	PaymentCancelled:  {},
	PaymentRefunded:   {},
}

// CanTransition reports whether the payment status may change from psn to next.
func (psn PaymentStatusName) CanTransition(next PaymentStatusName) bool {
	for _, allowed := range validPaymentTransitions[psn] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Order represents the customer_order table.
type Order struct {
	ID            int               `db:"id" json:"id"`
	UUID          string            `db:"uuid" json:"uuid"`
	UserID        string            `db:"user_id" json:"userId"`
	TotalAmount   decimal.Decimal   `db:"total_amount" json:"totalAmount"`
	Status        OrderStatusName   `db:"status" json:"status"`
	PaymentStatus PaymentStatusName `db:"payment_status" json:"paymentStatus"`
	CreatedAt     time.Time         `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time         `db:"updated_at" json:"updatedAt"`
	CancelledAt   sql.NullTime      `db:"cancelled_at" json:"cancelledAt"`
}

func (o *Order) TotalAmountDecimal() decimal.Decimal {
	return o.TotalAmount.Round(2)
}

// OrderItem represents the order_item table. Total is computed once at
// creation and never re-derived.
type OrderItem struct {
	ID        int             `db:"id" json:"id"`
	OrderID   int             `db:"order_id" json:"orderId"`
	ProductID int             `db:"product_id" json:"productId"`
	VariantID sql.NullInt32   `db:"variant_id" json:"variantId"`
	Quantity  int             `db:"quantity" json:"quantity"`
	Price     decimal.Decimal `db:"price" json:"price"`
	Total     decimal.Decimal `db:"total" json:"total"`
}

// OrderNew is the payload to create an order with a single line item.
type OrderNew struct {
	UserID    string          `json:"userId" valid:"required"`
	ProductID int             `json:"productId" valid:"required"`
	VariantID *int            `json:"variantId" valid:"-"`
	Quantity  int             `json:"quantity" valid:"required,range(1|1000000)"`
	Price     decimal.Decimal `json:"price" valid:"required"`
}

// OrderUpdate is a sparse patch: nil fields are left unchanged.
type OrderUpdate struct {
	Status        *OrderStatusName   `json:"status"`
	PaymentStatus *PaymentStatusName `json:"paymentStatus"`
}

// OrderFull is an order together with its items.
type OrderFull struct {
	Order Order       `json:"order"`
	Items []OrderItem `json:"items"`
}
