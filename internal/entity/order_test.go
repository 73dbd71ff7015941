package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderTransitions(t *testing.T) {
	cases := []struct {
		from OrderStatusName
		to   OrderStatusName
		ok   bool
	}{
		{OrderPending, OrderConfirmed, true},
		{OrderPending, OrderCancelled, true},
		{OrderPending, OrderShipped, false},
		{OrderConfirmed, OrderProcessing, true},
		{OrderProcessing, OrderShipped, true},
		{OrderShipped, OrderDelivered, true},
		{OrderShipped, OrderCancelled, false},
		{OrderDelivered, OrderRefunded, true},
		{OrderDelivered, OrderPending, false},
		// cancel is idempotent
		{OrderCancelled, OrderCancelled, true},
		{OrderCancelled, OrderPending, false},
		{OrderRefunded, OrderPending, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.ok, c.from.CanTransition(c.to), "%s -> %s", c.from, c.to)
	}
}

func TestPaymentTransitions(t *testing.T) {
	assert.True(t, PaymentPending.CanTransition(PaymentProcessing))
	assert.True(t, PaymentProcessing.CanTransition(PaymentCompleted))
	assert.True(t, PaymentCompleted.CanTransition(PaymentRefunded))
	assert.True(t, PaymentFailed.CanTransition(PaymentPending))
	assert.False(t, PaymentPending.CanTransition(PaymentCompleted))
	assert.False(t, PaymentRefunded.CanTransition(PaymentPending))
}

func TestRevenueStatuses(t *testing.T) {
	assert.True(t, OrderDelivered.CountsTowardRevenue())
	assert.False(t, OrderPending.CountsTowardRevenue())
	assert.False(t, OrderCancelled.CountsTowardRevenue())

	statuses := RevenueStatuses()
	assert.Equal(t, []OrderStatusName{OrderDelivered}, statuses)
}

func TestSubscriptionTransitions(t *testing.T) {
	assert.True(t, SubscriptionActive.CanTransition(SubscriptionPaused))
	assert.True(t, SubscriptionPaused.CanTransition(SubscriptionActive))
	assert.True(t, SubscriptionActive.CanTransition(SubscriptionCancelled))
	// cancel is idempotent
	assert.True(t, SubscriptionCancelled.CanTransition(SubscriptionCancelled))
	assert.False(t, SubscriptionCancelled.CanTransition(SubscriptionActive))
	assert.False(t, SubscriptionExpired.CanTransition(SubscriptionActive))
}

func TestReviewTransitions(t *testing.T) {
	assert.True(t, ReviewPending.CanTransition(ReviewApproved))
	assert.True(t, ReviewPending.CanTransition(ReviewRejected))
	// moderation may flip a decided review either way
	assert.True(t, ReviewApproved.CanTransition(ReviewRejected))
	assert.True(t, ReviewRejected.CanTransition(ReviewApproved))
	assert.False(t, ReviewApproved.CanTransition(ReviewPending))
}
