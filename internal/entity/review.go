package entity

import "time"

// ReviewStatusName is the moderation status of a review.
type ReviewStatusName string

func (rsn ReviewStatusName) String() string {
	return string(rsn)
}

const (
	ReviewPending  ReviewStatusName = "PENDING"
	ReviewApproved ReviewStatusName = "APPROVED"
	ReviewRejected ReviewStatusName = "REJECTED"
)

var ValidReviewStatusNames = map[ReviewStatusName]bool{
	ReviewPending:  true,
	ReviewApproved: true,
	ReviewRejected: true,
}

// Moderation may flip an already decided review either way.
var validReviewTransitions = map[ReviewStatusName][]ReviewStatusName{
	ReviewPending:  {ReviewApproved, ReviewRejected},
	ReviewApproved: {ReviewRejected},
	ReviewRejected: {ReviewApproved},
}

// CanTransition reports whether the review may change from rsn to next.
func (rsn ReviewStatusName) CanTransition(next ReviewStatusName) bool {
	for _, allowed := range validReviewTransitions[rsn] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Review represents the review table.
type Review struct {
	ID        int              `db:"id" json:"id"`
	UserID    string           `db:"user_id" json:"userId"`
	ProductID int              `db:"product_id" json:"productId"`
	Rating    int              `db:"rating" json:"rating"`
	Content   string           `db:"content" json:"content"`
	Status    ReviewStatusName `db:"status" json:"status"`
	Verified  bool             `db:"verified" json:"verified"`
	CreatedAt time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time        `db:"updated_at" json:"updatedAt"`
}

// ReviewNew is the payload to submit a review. Ratings outside 1..5 are
// rejected at validation time.
type ReviewNew struct {
	UserID    string `json:"userId" valid:"required"`
	ProductID int    `json:"productId" valid:"required"`
	Rating    int    `json:"rating" valid:"required,range(1|5)"`
	Content   string `json:"content" valid:"required"`
}

// ReviewUpdate is a sparse moderation patch.
type ReviewUpdate struct {
	Status   *ReviewStatusName `json:"status"`
	Verified *bool             `json:"verified"`
}

// ReviewFilter narrows review list queries. Zero values mean no filter.
type ReviewFilter struct {
	ProductID int
	UserID    string
	Status    ReviewStatusName
}
