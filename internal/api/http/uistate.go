package httpapi

import (
	"net/http"

	"github.com/shoplinehq/commerce-manager/internal/entity"
)

// The recently-viewed and comparison endpoints are backed by the in-process
// bounded caches, not by the store; their contents do not survive a restart.

type uiStateResponse struct {
	ProductIDs []int            `json:"productIds"`
	Products   []entity.Product `json:"products"`
}

func (s *Server) getRecentlyViewed(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUserID(r)
	if err != nil {
		respondError(w, r, "recentlyViewed.list", err)
		return
	}

	ids := s.recentlyViewed.List(userID)
	products, err := s.productsInCacheOrder(r, ids)
	if err != nil {
		respondError(w, r, "recentlyViewed.list", err)
		return
	}
	respond(w, http.StatusOK, uiStateResponse{ProductIDs: ids, Products: products})
}

func (s *Server) touchRecentlyViewed(w http.ResponseWriter, r *http.Request) {
	userID, productID, err := decodeUIState(r)
	if err != nil {
		respondError(w, r, "recentlyViewed.touch", err)
		return
	}

	ids := s.recentlyViewed.Touch(userID, productID)
	respond(w, http.StatusOK, map[string]any{"productIds": ids})
}

func (s *Server) clearRecentlyViewed(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUserID(r)
	if err != nil {
		respondError(w, r, "recentlyViewed.clear", err)
		return
	}

	s.recentlyViewed.Clear(userID)
	respond(w, http.StatusOK, map[string]string{"message": "recently viewed cleared"})
}

func (s *Server) getComparison(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUserID(r)
	if err != nil {
		respondError(w, r, "comparison.list", err)
		return
	}

	ids := s.comparison.List(userID)
	products, err := s.productsInCacheOrder(r, ids)
	if err != nil {
		respondError(w, r, "comparison.list", err)
		return
	}
	respond(w, http.StatusOK, uiStateResponse{ProductIDs: ids, Products: products})
}

func (s *Server) addComparison(w http.ResponseWriter, r *http.Request) {
	userID, productID, err := decodeUIState(r)
	if err != nil {
		respondError(w, r, "comparison.add", err)
		return
	}

	ids, err := s.comparison.Add(userID, productID)
	if err != nil {
		respondError(w, r, "comparison.add", err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"productIds": ids})
}

// removeComparison drops one product when productId is given, otherwise the
// whole list.
func (s *Server) removeComparison(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUserID(r)
	if err != nil {
		respondError(w, r, "comparison.remove", err)
		return
	}

	if r.URL.Query().Get("productId") == "" {
		s.comparison.Clear(userID)
		respond(w, http.StatusOK, map[string]string{"message": "comparison cleared"})
		return
	}

	productID, err := requireIntQuery(r, "productId")
	if err != nil {
		respondError(w, r, "comparison.remove", err)
		return
	}
	ids, err := s.comparison.Remove(userID, productID)
	if err != nil {
		respondError(w, r, "comparison.remove", err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"productIds": ids})
}

// productsInCacheOrder resolves cached ids into products, keeping the cache
// order and skipping products that no longer exist.
func (s *Server) productsInCacheOrder(r *http.Request, ids []int) ([]entity.Product, error) {
	products := []entity.Product{}
	if len(ids) == 0 {
		return products, nil
	}

	fetched, err := s.rep.Products().GetProductsByIDs(r.Context(), ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int]entity.Product, len(fetched))
	for _, p := range fetched {
		byID[p.ID] = p
	}
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			products = append(products, p)
		}
	}
	return products, nil
}

func decodeUIState(r *http.Request) (string, int, error) {
	var req struct {
		UserID    string `json:"userId"`
		ProductID int    `json:"productId"`
	}
	if err := decodeBody(r, &req); err != nil {
		return "", 0, err
	}
	if req.UserID == "" {
		return "", 0, &entity.ValidationError{Message: "userId is required"}
	}
	if req.ProductID < 1 {
		return "", 0, &entity.ValidationError{Message: "productId is required"}
	}
	return req.UserID, req.ProductID, nil
}
