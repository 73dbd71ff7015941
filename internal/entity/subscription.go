package entity

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// SubscriptionStatusName is the custom type for subscription status.
type SubscriptionStatusName string

func (ssn SubscriptionStatusName) String() string {
	return string(ssn)
}

const (
	SubscriptionActive    SubscriptionStatusName = "ACTIVE"
	SubscriptionPaused    SubscriptionStatusName = "PAUSED"
	SubscriptionCancelled SubscriptionStatusName = "CANCELLED"
	SubscriptionExpired   SubscriptionStatusName = "EXPIRED"
)

var ValidSubscriptionStatusNames = map[SubscriptionStatusName]bool{
	SubscriptionActive:    true,
	SubscriptionPaused:    true,
	SubscriptionCancelled: true,
	SubscriptionExpired:   true,
}

// CANCELLED -> CANCELLED keeps subscription cancel idempotent.
var validSubscriptionTransitions = map[SubscriptionStatusName][]SubscriptionStatusName{
	SubscriptionActive:    {SubscriptionPaused, SubscriptionCancelled, SubscriptionExpired},
	SubscriptionPaused:    {SubscriptionActive, SubscriptionCancelled, SubscriptionExpired},
	SubscriptionCancelled: {SubscriptionCancelled},
	SubscriptionExpired:   {},
}

// CanTransition reports whether the subscription may change from ssn to next.
func (ssn SubscriptionStatusName) CanTransition(next SubscriptionStatusName) bool {
	for _, allowed := range validSubscriptionTransitions[ssn] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Subscription represents the subscription table. Subscriptions are always
// created fresh, never merged into an existing row.
type Subscription struct {
	ID              int                    `db:"id" json:"id"`
	UserID          string                 `db:"user_id" json:"userId"`
	ProductID       int                    `db:"product_id" json:"productId"`
	VariantID       sql.NullInt32          `db:"variant_id" json:"variantId"`
	Quantity        int                    `db:"quantity" json:"quantity"`
	Price           decimal.Decimal        `db:"price" json:"price"`
	Status          SubscriptionStatusName `db:"status" json:"status"`
	AutoRenew       bool                   `db:"auto_renew" json:"autoRenew"`
	NextBillingDate time.Time              `db:"next_billing_date" json:"nextBillingDate"`
	CreatedAt       time.Time              `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time              `db:"updated_at" json:"updatedAt"`
	CancelledAt     sql.NullTime           `db:"cancelled_at" json:"cancelledAt"`
}

// SubscriptionNew is the payload to create a subscription.
type SubscriptionNew struct {
	UserID          string          `json:"userId" valid:"required"`
	ProductID       int             `json:"productId" valid:"required"`
	VariantID       *int            `json:"variantId" valid:"-"`
	Quantity        int             `json:"quantity" valid:"required,range(1|1000000)"`
	Price           decimal.Decimal `json:"price" valid:"required"`
	AutoRenew       bool            `json:"autoRenew" valid:"-"`
	NextBillingDate *time.Time      `json:"nextBillingDate" valid:"-"`
}

// SubscriptionUpdate is a sparse patch: nil fields retain previous values.
type SubscriptionUpdate struct {
	Status          *SubscriptionStatusName `json:"status"`
	Quantity        *int                    `json:"quantity"`
	AutoRenew       *bool                   `json:"autoRenew"`
	NextBillingDate *time.Time              `json:"nextBillingDate"`
}
