package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	v "github.com/asaskevich/govalidator"
	"github.com/shopspring/decimal"

	"github.com/shoplinehq/commerce-manager/internal/dependency"
	"github.com/shoplinehq/commerce-manager/internal/entity"
)

type reviewStore struct {
	*MYSQLStore
}

// Review returns an object implementing Review interface
func (ms *MYSQLStore) Review() dependency.Review {
	return &reviewStore{
		MYSQLStore: ms,
	}
}

// AddReview creates a PENDING review and recomputes the product's derived
// rating aggregate inside the same transaction. The recompute runs on every
// submission regardless of the review's own status, so the stored aggregate
// never goes stale.
func (ms *MYSQLStore) AddReview(ctx context.Context, reviewNew *entity.ReviewNew) (*entity.Review, error) {
	if reviewNew == nil {
		return nil, &entity.ValidationError{Message: "empty review"}
	}
	if _, err := v.ValidateStruct(reviewNew); err != nil {
		return nil, &entity.ValidationError{Message: err.Error()}
	}

	var reviewID int
	err := ms.Tx(ctx, func(ctx context.Context, rep dependency.Repository) error {
		res, err := ExecNamedResult(ctx, rep.DB(), `
		INSERT INTO review (user_id, product_id, rating, content, status, verified)
		VALUES (:userId, :productId, :rating, :content, :status, false)`,
			map[string]any{
				"userId":    reviewNew.UserID,
				"productId": reviewNew.ProductID,
				"rating":    reviewNew.Rating,
				"content":   reviewNew.Content,
				"status":    entity.ReviewPending,
			})
		if err != nil {
			return fmt.Errorf("can't insert review: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("last insert id: %w", err)
		}
		reviewID = int(id)

		return recomputeProductRating(ctx, rep, reviewNew.ProductID)
	})
	if err != nil {
		return nil, err
	}

	return getReviewByID(ctx, ms.DB(), reviewID)
}

// GetReviewsPaged returns a newest-first review page narrowed by the filter,
// with the total match count.
func (ms *MYSQLStore) GetReviewsPaged(ctx context.Context, filter entity.ReviewFilter, limit, offset int) ([]entity.Review, int, error) {
	where := `WHERE 1 = 1`
	countParams := map[string]any{}
	if filter.ProductID != 0 {
		where += ` AND product_id = :productId`
		countParams["productId"] = filter.ProductID
	}
	if filter.UserID != "" {
		where += ` AND user_id = :userId`
		countParams["userId"] = filter.UserID
	}
	if filter.Status != "" {
		where += ` AND status = :status`
		countParams["status"] = filter.Status
	}

	pageParams := map[string]any{"limit": limit, "offset": offset}
	for k, val := range countParams {
		pageParams[k] = val
	}

	reviews, err := QueryListNamed[entity.Review](ctx, ms.DB(), `
	SELECT * FROM review `+where+`
	ORDER BY created_at DESC, id DESC
	LIMIT :limit OFFSET :offset`, pageParams)
	if err != nil {
		return nil, 0, fmt.Errorf("can't get reviews: %w", err)
	}

	count, err := QueryCountNamed(ctx, ms.DB(),
		`SELECT COUNT(*) FROM review `+where, countParams)
	if err != nil {
		return nil, 0, fmt.Errorf("can't count reviews: %w", err)
	}

	return reviews, count, nil
}

// UpdateReview applies a sparse moderation patch and recomputes the product
// rating regardless of which fields changed.
func (ms *MYSQLStore) UpdateReview(ctx context.Context, reviewID int, upd *entity.ReviewUpdate) (*entity.Review, error) {
	if upd == nil || (upd.Status == nil && upd.Verified == nil) {
		return nil, &entity.ValidationError{Message: "empty review update"}
	}

	err := ms.Tx(ctx, func(ctx context.Context, rep dependency.Repository) error {
		review, err := getReviewByIDForUpdate(ctx, rep, reviewID)
		if err != nil {
			return err
		}

		if upd.Status != nil {
			if !entity.ValidReviewStatusNames[*upd.Status] {
				return &entity.ValidationError{Message: fmt.Sprintf("unknown review status %s", *upd.Status)}
			}
			if *upd.Status != review.Status && !review.Status.CanTransition(*upd.Status) {
				return &entity.InvalidTransitionError{
					Entity: "review",
					From:   review.Status.String(),
					To:     upd.Status.String(),
				}
			}
			review.Status = *upd.Status
		}
		if upd.Verified != nil {
			review.Verified = *upd.Verified
		}

		err = ExecNamed(ctx, rep.DB(), `
		UPDATE review
		SET status = :status, verified = :verified, updated_at = CURRENT_TIMESTAMP
		WHERE id = :id`,
			map[string]any{
				"id":       reviewID,
				"status":   review.Status,
				"verified": review.Verified,
			})
		if err != nil {
			return fmt.Errorf("can't update review: %w", err)
		}

		return recomputeProductRating(ctx, rep, review.ProductID)
	})
	if err != nil {
		return nil, err
	}

	return getReviewByID(ctx, ms.DB(), reviewID)
}

// DeleteReview physically removes the review and recomputes the product
// rating from the remaining APPROVED set.
func (ms *MYSQLStore) DeleteReview(ctx context.Context, reviewID int) error {
	return ms.Tx(ctx, func(ctx context.Context, rep dependency.Repository) error {
		review, err := getReviewByIDForUpdate(ctx, rep, reviewID)
		if err != nil {
			return err
		}

		err = ExecNamed(ctx, rep.DB(),
			`DELETE FROM review WHERE id = :id`, map[string]any{"id": reviewID})
		if err != nil {
			return fmt.Errorf("can't delete review: %w", err)
		}

		return recomputeProductRating(ctx, rep, review.ProductID)
	})
}

// recomputeProductRating rewrites the product's derived (average_rating,
// review_count) pair from the full APPROVED review set. The product row is
// locked first so concurrent recomputations for the same product serialize;
// an empty APPROVED set stores 0/0 rather than a NULL average.
func recomputeProductRating(ctx context.Context, rep dependency.Repository, productID int) error {
	_, err := QueryNamedOne[struct {
		ID int `db:"id"`
	}](ctx, rep.DB(),
		`SELECT id FROM product WHERE id = :id FOR UPDATE`, map[string]any{"id": productID})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Review references a product that no longer exists; nothing to
			// re-derive.
			return nil
		}
		return fmt.Errorf("can't lock product: %w", err)
	}

	type ratingAggregate struct {
		AverageRating decimal.Decimal `db:"average_rating"`
		ReviewCount   int             `db:"review_count"`
	}
	agg, err := QueryNamedOne[ratingAggregate](ctx, rep.DB(), `
	SELECT COALESCE(AVG(rating), 0) AS average_rating, COUNT(*) AS review_count
	FROM review
	WHERE product_id = :productId AND status = :status`,
		map[string]any{
			"productId": productID,
			"status":    entity.ReviewApproved,
		})
	if err != nil {
		return fmt.Errorf("can't aggregate reviews: %w", err)
	}

	err = ExecNamed(ctx, rep.DB(), `
	UPDATE product
	SET average_rating = :averageRating, review_count = :reviewCount, updated_at = CURRENT_TIMESTAMP
	WHERE id = :id`,
		map[string]any{
			"id":            productID,
			"averageRating": agg.AverageRating.Round(2),
			"reviewCount":   agg.ReviewCount,
		})
	if err != nil {
		return fmt.Errorf("can't write product rating: %w", err)
	}
	return nil
}

func getReviewByID(ctx context.Context, conn dependency.DB, id int) (*entity.Review, error) {
	review, err := QueryNamedOne[entity.Review](ctx, conn,
		`SELECT * FROM review WHERE id = :id`, map[string]any{"id": id})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrNotFound
		}
		return nil, err
	}
	return &review, nil
}

func getReviewByIDForUpdate(ctx context.Context, rep dependency.Repository, id int) (*entity.Review, error) {
	review, err := QueryNamedOne[entity.Review](ctx, rep.DB(),
		`SELECT * FROM review WHERE id = :id FOR UPDATE`, map[string]any{"id": id})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrNotFound
		}
		return nil, fmt.Errorf("can't get review for update: %w", err)
	}
	return &review, nil
}
