package httpapi

import (
	"net/http"

	"github.com/shoplinehq/commerce-manager/internal/entity"
)

const subscriptionPageLimit = 10

type subscriptionResponse struct {
	Subscription *entity.Subscription `json:"subscription"`
	Message      string               `json:"message"`
}

type subscriptionListResponse struct {
	Subscriptions []entity.Subscription `json:"subscriptions"`
	Pagination    entity.Pagination     `json:"pagination"`
}

func (s *Server) createSubscription(w http.ResponseWriter, r *http.Request) {
	var subNew entity.SubscriptionNew
	if err := decodeBody(r, &subNew); err != nil {
		respondError(w, r, "subscription.create", err)
		return
	}

	sub, err := s.rep.Subscription().CreateSubscription(r.Context(), &subNew)
	if err != nil {
		respondError(w, r, "subscription.create", err)
		return
	}
	respond(w, http.StatusCreated, subscriptionResponse{
		Subscription: sub,
		Message:      "subscription created",
	})
}

func (s *Server) getSubscriptions(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUserID(r)
	if err != nil {
		respondError(w, r, "subscription.list", err)
		return
	}
	pr := pageRequest(r, subscriptionPageLimit)

	status := entity.SubscriptionStatusName(r.URL.Query().Get("status"))
	if status != "" && !entity.ValidSubscriptionStatusNames[status] {
		respondError(w, r, "subscription.list",
			&entity.ValidationError{Message: "unknown subscription status"})
		return
	}

	subs, total, err := s.rep.Subscription().GetSubscriptionsPaged(r.Context(), userID, status, pr.Limit, pr.Offset())
	if err != nil {
		respondError(w, r, "subscription.list", err)
		return
	}
	respond(w, http.StatusOK, subscriptionListResponse{
		Subscriptions: subs,
		Pagination:    entity.NewPagination(pr, total),
	})
}

func (s *Server) updateSubscription(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SubscriptionID int `json:"subscriptionId"`
		entity.SubscriptionUpdate
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, "subscription.update", err)
		return
	}
	if req.SubscriptionID < 1 {
		respondError(w, r, "subscription.update", &entity.ValidationError{Message: "subscriptionId is required"})
		return
	}

	sub, err := s.rep.Subscription().UpdateSubscription(r.Context(), req.SubscriptionID, &req.SubscriptionUpdate)
	if err != nil {
		respondError(w, r, "subscription.update", err)
		return
	}
	respond(w, http.StatusOK, subscriptionResponse{
		Subscription: sub,
		Message:      "subscription updated",
	})
}

func (s *Server) cancelSubscription(w http.ResponseWriter, r *http.Request) {
	subscriptionID, err := requireIntQuery(r, "subscriptionId")
	if err != nil {
		respondError(w, r, "subscription.cancel", err)
		return
	}

	sub, err := s.rep.Subscription().CancelSubscription(r.Context(), subscriptionID)
	if err != nil {
		respondError(w, r, "subscription.cancel", err)
		return
	}
	respond(w, http.StatusOK, subscriptionResponse{
		Subscription: sub,
		Message:      "subscription cancelled",
	})
}
