package httpapi

import (
	"net/http"

	"github.com/shoplinehq/commerce-manager/internal/entity"
)

const wishlistPageLimit = 20

type wishlistItemResponse struct {
	WishlistItem *entity.WishlistItem `json:"wishlistItem"`
	Message      string               `json:"message"`
}

type wishlistListResponse struct {
	WishlistItems []entity.WishlistItem `json:"wishlistItems"`
	Pagination    entity.Pagination     `json:"pagination"`
}

func (s *Server) addWishlistItem(w http.ResponseWriter, r *http.Request) {
	var insert entity.LineItemInsert
	if err := decodeBody(r, &insert); err != nil {
		respondError(w, r, "wishlist.add", err)
		return
	}

	item, err := s.rep.Wishlist().AddWishlistItem(r.Context(), &insert)
	if err != nil {
		respondError(w, r, "wishlist.add", err)
		return
	}
	respond(w, http.StatusCreated, wishlistItemResponse{
		WishlistItem: item,
		Message:      "item added to wishlist",
	})
}

func (s *Server) getWishlistItems(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUserID(r)
	if err != nil {
		respondError(w, r, "wishlist.list", err)
		return
	}
	pr := pageRequest(r, wishlistPageLimit)

	items, total, err := s.rep.Wishlist().GetWishlistItemsPaged(r.Context(), userID, pr.Limit, pr.Offset())
	if err != nil {
		respondError(w, r, "wishlist.list", err)
		return
	}
	respond(w, http.StatusOK, wishlistListResponse{
		WishlistItems: items,
		Pagination:    entity.NewPagination(pr, total),
	})
}

func (s *Server) updateWishlistItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WishlistItemID int `json:"wishlistItemId"`
		entity.WishlistItemUpdate
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, "wishlist.update", err)
		return
	}
	if req.WishlistItemID < 1 {
		respondError(w, r, "wishlist.update", &entity.ValidationError{Message: "wishlistItemId is required"})
		return
	}

	item, err := s.rep.Wishlist().UpdateWishlistItem(r.Context(), req.WishlistItemID, &req.WishlistItemUpdate)
	if err != nil {
		respondError(w, r, "wishlist.update", err)
		return
	}
	respond(w, http.StatusOK, wishlistItemResponse{
		WishlistItem: item,
		Message:      "wishlist item updated",
	})
}

func (s *Server) deleteWishlistItem(w http.ResponseWriter, r *http.Request) {
	wishlistItemID, err := requireIntQuery(r, "wishlistItemId")
	if err != nil {
		respondError(w, r, "wishlist.delete", err)
		return
	}

	if err := s.rep.Wishlist().DeleteWishlistItem(r.Context(), wishlistItemID); err != nil {
		respondError(w, r, "wishlist.delete", err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"message": "item removed from wishlist"})
}
