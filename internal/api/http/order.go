package httpapi

import (
	"net/http"

	"github.com/shoplinehq/commerce-manager/internal/entity"
)

const orderPageLimit = 10

type orderResponse struct {
	Order   *entity.OrderFull `json:"order"`
	Message string            `json:"message"`
}

type orderListResponse struct {
	Orders     []entity.OrderFull `json:"orders"`
	Pagination entity.Pagination  `json:"pagination"`
}

func (s *Server) createOrder(w http.ResponseWriter, r *http.Request) {
	var orderNew entity.OrderNew
	if err := decodeBody(r, &orderNew); err != nil {
		respondError(w, r, "order.create", err)
		return
	}

	order, err := s.rep.Order().CreateOrder(r.Context(), &orderNew)
	if err != nil {
		respondError(w, r, "order.create", err)
		return
	}
	respond(w, http.StatusCreated, orderResponse{
		Order:   order,
		Message: "order created",
	})
}

func (s *Server) getOrders(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUserID(r)
	if err != nil {
		respondError(w, r, "order.list", err)
		return
	}
	pr := pageRequest(r, orderPageLimit)

	orders, total, err := s.rep.Order().GetOrdersByUserPaged(r.Context(), userID, pr.Limit, pr.Offset())
	if err != nil {
		respondError(w, r, "order.list", err)
		return
	}
	respond(w, http.StatusOK, orderListResponse{
		Orders:     orders,
		Pagination: entity.NewPagination(pr, total),
	})
}

func (s *Server) updateOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrderID int `json:"orderId"`
		entity.OrderUpdate
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, "order.update", err)
		return
	}
	if req.OrderID < 1 {
		respondError(w, r, "order.update", &entity.ValidationError{Message: "orderId is required"})
		return
	}

	order, err := s.rep.Order().UpdateOrder(r.Context(), req.OrderID, &req.OrderUpdate)
	if err != nil {
		respondError(w, r, "order.update", err)
		return
	}
	respond(w, http.StatusOK, orderResponse{
		Order:   order,
		Message: "order updated",
	})
}

// cancelOrder handles DELETE as an idempotent cancel: the order row stays,
// its status becomes CANCELLED.
func (s *Server) cancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := requireIntQuery(r, "orderId")
	if err != nil {
		respondError(w, r, "order.cancel", err)
		return
	}

	order, err := s.rep.Order().CancelOrder(r.Context(), orderID)
	if err != nil {
		respondError(w, r, "order.cancel", err)
		return
	}
	respond(w, http.StatusOK, map[string]any{
		"order":   order,
		"message": "order cancelled",
	})
}
