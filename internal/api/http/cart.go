package httpapi

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/shoplinehq/commerce-manager/internal/entity"
)

const cartPageLimit = 20

type cartItemResponse struct {
	CartItem *entity.CartItem `json:"cartItem"`
	Message  string           `json:"message"`
}

type cartListResponse struct {
	CartItems  []entity.CartItem  `json:"cartItems"`
	Summary    entity.CartSummary `json:"summary"`
	Pagination entity.Pagination  `json:"pagination"`
}

func (s *Server) addCartItem(w http.ResponseWriter, r *http.Request) {
	var insert entity.LineItemInsert
	if err := decodeBody(r, &insert); err != nil {
		respondError(w, r, "cart.add", err)
		return
	}

	item, err := s.rep.Cart().AddCartItem(r.Context(), &insert)
	if err != nil {
		respondError(w, r, "cart.add", err)
		return
	}
	respond(w, http.StatusOK, cartItemResponse{
		CartItem: item,
		Message:  "item added to cart",
	})
}

func (s *Server) getCartItems(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUserID(r)
	if err != nil {
		respondError(w, r, "cart.list", err)
		return
	}
	pr := pageRequest(r, cartPageLimit)

	items, total, err := s.rep.Cart().GetCartItemsPaged(r.Context(), userID, pr.Limit, pr.Offset())
	if err != nil {
		respondError(w, r, "cart.list", err)
		return
	}

	summary := entity.CartSummary{ItemCount: len(items)}
	for _, it := range items {
		summary.TotalAmount = summary.TotalAmount.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
		summary.TotalItems += it.Quantity
	}

	respond(w, http.StatusOK, cartListResponse{
		CartItems:  items,
		Summary:    summary,
		Pagination: entity.NewPagination(pr, total),
	})
}

func (s *Server) updateCartItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CartItemID int `json:"cartItemId"`
		Quantity   int `json:"quantity"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, "cart.update", err)
		return
	}
	if req.CartItemID < 1 {
		respondError(w, r, "cart.update", &entity.ValidationError{Message: "cartItemId is required"})
		return
	}

	item, err := s.rep.Cart().UpdateCartItemQuantity(r.Context(), req.CartItemID, req.Quantity)
	if err != nil {
		respondError(w, r, "cart.update", err)
		return
	}
	respond(w, http.StatusOK, cartItemResponse{
		CartItem: item,
		Message:  "cart item updated",
	})
}

func (s *Server) deleteCartItem(w http.ResponseWriter, r *http.Request) {
	cartItemID, err := requireIntQuery(r, "cartItemId")
	if err != nil {
		respondError(w, r, "cart.delete", err)
		return
	}

	if err := s.rep.Cart().DeleteCartItem(r.Context(), cartItemID); err != nil {
		respondError(w, r, "cart.delete", err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"message": "item removed from cart"})
}

func (s *Server) clearCart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"userId"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, "cart.clear", err)
		return
	}
	if req.UserID == "" {
		respondError(w, r, "cart.clear", &entity.ValidationError{Message: "userId is required"})
		return
	}

	deleted, err := s.rep.Cart().ClearCart(r.Context(), req.UserID)
	if err != nil {
		respondError(w, r, "cart.clear", err)
		return
	}
	respond(w, http.StatusOK, map[string]any{
		"deletedCount": deleted,
		"message":      "cart cleared",
	})
}
