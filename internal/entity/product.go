package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents the product table. AverageRating and ReviewCount are
// derived from the set of APPROVED reviews; their sole writer is the rating
// aggregator.
type Product struct {
	ID            int             `db:"id" json:"id"`
	Name          string          `db:"name" json:"name"`
	Description   string          `db:"description" json:"description"`
	Category      string          `db:"category" json:"category"`
	Price         decimal.Decimal `db:"price" json:"price"`
	Stock         int             `db:"stock" json:"stock"`
	AverageRating decimal.Decimal `db:"average_rating" json:"averageRating"`
	ReviewCount   int             `db:"review_count" json:"reviewCount"`
	CreatedAt     time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updatedAt"`
}

// ProductSortField selects search result ordering.
type ProductSortField string

const (
	ProductSortName   ProductSortField = "name"
	ProductSortPrice  ProductSortField = "price"
	ProductSortRating ProductSortField = "rating"
	ProductSortNewest ProductSortField = "newest"
)

// ProductFilter narrows product search queries. Zero values mean no filter.
type ProductFilter struct {
	Query     string
	Category  string
	MinPrice  *decimal.Decimal
	MaxPrice  *decimal.Decimal
	MinRating int
	InStock   bool
	SortBy    ProductSortField
	SortDesc  bool
}
