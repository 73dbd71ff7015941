package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	v "github.com/asaskevich/govalidator"

	"github.com/shoplinehq/commerce-manager/internal/dependency"
	"github.com/shoplinehq/commerce-manager/internal/entity"
)

type subscriptionStore struct {
	*MYSQLStore
}

// Subscription returns an object implementing Subscription interface
func (ms *MYSQLStore) Subscription() dependency.Subscription {
	return &subscriptionStore{
		MYSQLStore: ms,
	}
}

// defaultBillingInterval is applied when a new subscription carries no
// explicit next billing date.
const defaultBillingInterval = 30 * 24 * time.Hour

// CreateSubscription always creates a fresh ACTIVE row; subscriptions are
// exempt from identity merging.
func (ms *MYSQLStore) CreateSubscription(ctx context.Context, subNew *entity.SubscriptionNew) (*entity.Subscription, error) {
	if subNew == nil {
		return nil, &entity.ValidationError{Message: "empty subscription"}
	}
	if _, err := v.ValidateStruct(subNew); err != nil {
		return nil, &entity.ValidationError{Message: err.Error()}
	}
	if !subNew.Price.IsPositive() {
		return nil, &entity.ValidationError{Message: "price must be positive"}
	}

	nextBilling := ms.Now().Add(defaultBillingInterval)
	if subNew.NextBillingDate != nil {
		nextBilling = *subNew.NextBillingDate
	}

	res, err := ExecNamedResult(ctx, ms.DB(), `
	INSERT INTO subscription (user_id, product_id, variant_id, quantity, price, status, auto_renew, next_billing_date)
	VALUES (:userId, :productId, :variantId, :quantity, :price, :status, :autoRenew, :nextBillingDate)`,
		map[string]any{
			"userId":          subNew.UserID,
			"productId":       subNew.ProductID,
			"variantId":       variantIDParam(subNew.VariantID),
			"quantity":        subNew.Quantity,
			"price":           subNew.Price,
			"status":          entity.SubscriptionActive,
			"autoRenew":       subNew.AutoRenew,
			"nextBillingDate": nextBilling,
		})
	if err != nil {
		return nil, fmt.Errorf("can't insert subscription: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	sub, err := getSubscriptionByID(ctx, ms.DB(), int(id))
	if err != nil {
		return nil, fmt.Errorf("can't get subscription after insert: %w", err)
	}
	return sub, nil
}

// GetSubscriptionsPaged returns a newest-first page of the user's
// subscriptions, optionally filtered by status, with the total count.
func (ms *MYSQLStore) GetSubscriptionsPaged(ctx context.Context, userID string, status entity.SubscriptionStatusName, limit, offset int) ([]entity.Subscription, int, error) {
	where := `WHERE user_id = :userId`
	countParams := map[string]any{"userId": userID}
	if status != "" {
		where += ` AND status = :status`
		countParams["status"] = status
	}

	pageParams := map[string]any{
		"userId": userID,
		"limit":  limit,
		"offset": offset,
	}
	if status != "" {
		pageParams["status"] = status
	}

	subs, err := QueryListNamed[entity.Subscription](ctx, ms.DB(), `
	SELECT * FROM subscription `+where+`
	ORDER BY created_at DESC, id DESC
	LIMIT :limit OFFSET :offset`, pageParams)
	if err != nil {
		return nil, 0, fmt.Errorf("can't get subscriptions: %w", err)
	}

	count, err := QueryCountNamed(ctx, ms.DB(),
		`SELECT COUNT(*) FROM subscription `+where, countParams)
	if err != nil {
		return nil, 0, fmt.Errorf("can't count subscriptions: %w", err)
	}

	return subs, count, nil
}

// UpdateSubscription applies a sparse patch; a provided status is checked
// against the subscription transition table.
func (ms *MYSQLStore) UpdateSubscription(ctx context.Context, subscriptionID int, upd *entity.SubscriptionUpdate) (*entity.Subscription, error) {
	if upd == nil || (upd.Status == nil && upd.Quantity == nil && upd.AutoRenew == nil && upd.NextBillingDate == nil) {
		return nil, &entity.ValidationError{Message: "empty subscription update"}
	}
	if upd.Quantity != nil && *upd.Quantity < 1 {
		return nil, &entity.ValidationError{Message: "quantity must be positive"}
	}

	err := ms.Tx(ctx, func(ctx context.Context, rep dependency.Repository) error {
		sub, err := getSubscriptionByIDForUpdate(ctx, rep, subscriptionID)
		if err != nil {
			return err
		}

		if upd.Status != nil {
			if !entity.ValidSubscriptionStatusNames[*upd.Status] {
				return &entity.ValidationError{Message: fmt.Sprintf("unknown subscription status %s", *upd.Status)}
			}
			if !sub.Status.CanTransition(*upd.Status) {
				return &entity.InvalidTransitionError{
					Entity: "subscription",
					From:   sub.Status.String(),
					To:     upd.Status.String(),
				}
			}
			sub.Status = *upd.Status
		}
		if upd.Quantity != nil {
			sub.Quantity = *upd.Quantity
		}
		if upd.AutoRenew != nil {
			sub.AutoRenew = *upd.AutoRenew
		}
		if upd.NextBillingDate != nil {
			sub.NextBillingDate = *upd.NextBillingDate
		}

		return ExecNamed(ctx, rep.DB(), `
		UPDATE subscription
		SET status = :status, quantity = :quantity, auto_renew = :autoRenew,
			next_billing_date = :nextBillingDate, updated_at = CURRENT_TIMESTAMP
		WHERE id = :id`,
			map[string]any{
				"id":              subscriptionID,
				"status":          sub.Status,
				"quantity":        sub.Quantity,
				"autoRenew":       sub.AutoRenew,
				"nextBillingDate": sub.NextBillingDate,
			})
	})
	if err != nil {
		return nil, err
	}

	return getSubscriptionByID(ctx, ms.DB(), subscriptionID)
}

// CancelSubscription sets status CANCELLED and stamps cancelled_at.
// Cancelling an already cancelled subscription is an idempotent no-op.
func (ms *MYSQLStore) CancelSubscription(ctx context.Context, subscriptionID int) (*entity.Subscription, error) {
	var cancelled entity.Subscription
	err := ms.Tx(ctx, func(ctx context.Context, rep dependency.Repository) error {
		sub, err := getSubscriptionByIDForUpdate(ctx, rep, subscriptionID)
		if err != nil {
			return err
		}

		if sub.Status == entity.SubscriptionCancelled {
			cancelled = *sub
			return nil
		}

		err = ExecNamed(ctx, rep.DB(), `
		UPDATE subscription
		SET status = :status, cancelled_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
		WHERE id = :id`,
			map[string]any{
				"id":     subscriptionID,
				"status": entity.SubscriptionCancelled,
			})
		if err != nil {
			return fmt.Errorf("can't cancel subscription: %w", err)
		}

		updated, err := getSubscriptionByID(ctx, rep.DB(), subscriptionID)
		if err != nil {
			return fmt.Errorf("can't get subscription after cancel: %w", err)
		}
		cancelled = *updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &cancelled, nil
}

func getSubscriptionByID(ctx context.Context, conn dependency.DB, id int) (*entity.Subscription, error) {
	sub, err := QueryNamedOne[entity.Subscription](ctx, conn,
		`SELECT * FROM subscription WHERE id = :id`, map[string]any{"id": id})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrNotFound
		}
		return nil, err
	}
	return &sub, nil
}

func getSubscriptionByIDForUpdate(ctx context.Context, rep dependency.Repository, id int) (*entity.Subscription, error) {
	sub, err := QueryNamedOne[entity.Subscription](ctx, rep.DB(),
		`SELECT * FROM subscription WHERE id = :id FOR UPDATE`, map[string]any{"id": id})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrNotFound
		}
		return nil, fmt.Errorf("can't get subscription for update: %w", err)
	}
	return &sub, nil
}
