package httpapi

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/shoplinehq/commerce-manager/internal/entity"
)

const productPageLimit = 20

type productSearchResponse struct {
	Products   []entity.Product  `json:"products"`
	Pagination entity.Pagination `json:"pagination"`
	Filters    searchFilters     `json:"filters"`
}

// searchFilters echoes the applied filters back to the caller.
type searchFilters struct {
	Query     string `json:"query,omitempty"`
	Category  string `json:"category,omitempty"`
	MinPrice  string `json:"minPrice,omitempty"`
	MaxPrice  string `json:"maxPrice,omitempty"`
	Rating    int    `json:"rating,omitempty"`
	InStock   bool   `json:"inStock,omitempty"`
	SortBy    string `json:"sortBy"`
	SortOrder string `json:"sortOrder"`
}

func (s *Server) searchProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	pr := pageRequest(r, productPageLimit)

	filter := entity.ProductFilter{
		Query:     q.Get("query"),
		Category:  q.Get("category"),
		MinRating: intQuery(r, "rating"),
		InStock:   q.Get("inStock") == "true",
		SortBy:    entity.ProductSortField(q.Get("sortBy")),
		SortDesc:  q.Get("sortOrder") == "desc",
	}
	if filter.SortBy == "" {
		filter.SortBy = entity.ProductSortName
	}

	var err error
	if filter.MinPrice, err = decimalQuery(r, "minPrice"); err != nil {
		respondError(w, r, "product.search", err)
		return
	}
	if filter.MaxPrice, err = decimalQuery(r, "maxPrice"); err != nil {
		respondError(w, r, "product.search", err)
		return
	}

	products, total, err := s.rep.Products().SearchProductsPaged(r.Context(), filter, pr.Limit, pr.Offset())
	if err != nil {
		respondError(w, r, "product.search", err)
		return
	}

	sortOrder := "asc"
	if filter.SortDesc {
		sortOrder = "desc"
	}
	respond(w, http.StatusOK, productSearchResponse{
		Products:   products,
		Pagination: entity.NewPagination(pr, total),
		Filters: searchFilters{
			Query:     filter.Query,
			Category:  filter.Category,
			MinPrice:  q.Get("minPrice"),
			MaxPrice:  q.Get("maxPrice"),
			Rating:    filter.MinRating,
			InStock:   filter.InStock,
			SortBy:    string(filter.SortBy),
			SortOrder: sortOrder,
		},
	})
}

// compareProducts resolves a batch of product ids into full products.
func (s *Server) compareProducts(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductIDs []int `json:"productIds"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, "product.compare", err)
		return
	}
	if len(req.ProductIDs) == 0 {
		respondError(w, r, "product.compare", &entity.ValidationError{Message: "productIds are required"})
		return
	}

	products, err := s.rep.Products().GetProductsByIDs(r.Context(), req.ProductIDs)
	if err != nil {
		respondError(w, r, "product.compare", err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"products": products})
}

func decimalQuery(r *http.Request, name string) (*decimal.Decimal, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, &entity.ValidationError{Message: name + " must be a number"}
	}
	return &d, nil
}
