package httpapi

import (
	"net/http"

	"github.com/shoplinehq/commerce-manager/internal/entity"
)

const reviewPageLimit = 10

type reviewResponse struct {
	Review  *entity.Review `json:"review"`
	Message string         `json:"message"`
}

type reviewListResponse struct {
	Reviews    []entity.Review   `json:"reviews"`
	Pagination entity.Pagination `json:"pagination"`
}

func (s *Server) addReview(w http.ResponseWriter, r *http.Request) {
	var reviewNew entity.ReviewNew
	if err := decodeBody(r, &reviewNew); err != nil {
		respondError(w, r, "review.add", err)
		return
	}

	review, err := s.rep.Review().AddReview(r.Context(), &reviewNew)
	if err != nil {
		respondError(w, r, "review.add", err)
		return
	}
	respond(w, http.StatusCreated, reviewResponse{
		Review:  review,
		Message: "review submitted",
	})
}

func (s *Server) getReviews(w http.ResponseWriter, r *http.Request) {
	pr := pageRequest(r, reviewPageLimit)

	filter := entity.ReviewFilter{
		ProductID: intQuery(r, "productId"),
		UserID:    r.URL.Query().Get("userId"),
		Status:    entity.ReviewStatusName(r.URL.Query().Get("status")),
	}
	if filter.Status != "" && !entity.ValidReviewStatusNames[filter.Status] {
		respondError(w, r, "review.list",
			&entity.ValidationError{Message: "unknown review status"})
		return
	}

	reviews, total, err := s.rep.Review().GetReviewsPaged(r.Context(), filter, pr.Limit, pr.Offset())
	if err != nil {
		respondError(w, r, "review.list", err)
		return
	}
	respond(w, http.StatusOK, reviewListResponse{
		Reviews:    reviews,
		Pagination: entity.NewPagination(pr, total),
	})
}

func (s *Server) updateReview(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ReviewID int `json:"reviewId"`
		entity.ReviewUpdate
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, "review.update", err)
		return
	}
	if req.ReviewID < 1 {
		respondError(w, r, "review.update", &entity.ValidationError{Message: "reviewId is required"})
		return
	}

	review, err := s.rep.Review().UpdateReview(r.Context(), req.ReviewID, &req.ReviewUpdate)
	if err != nil {
		respondError(w, r, "review.update", err)
		return
	}
	respond(w, http.StatusOK, reviewResponse{
		Review:  review,
		Message: "review updated",
	})
}

func (s *Server) deleteReview(w http.ResponseWriter, r *http.Request) {
	reviewID, err := requireIntQuery(r, "reviewId")
	if err != nil {
		respondError(w, r, "review.delete", err)
		return
	}

	if err := s.rep.Review().DeleteReview(r.Context(), reviewID); err != nil {
		respondError(w, r, "review.delete", err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"message": "review deleted"})
}
