package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shoplinehq/commerce-manager/internal/dependency"
	"github.com/shoplinehq/commerce-manager/internal/entity"
)

type productStore struct {
	*MYSQLStore
}

// Products returns an object implementing Products interface
func (ms *MYSQLStore) Products() dependency.Products {
	return &productStore{
		MYSQLStore: ms,
	}
}

func (ms *MYSQLStore) GetProductByID(ctx context.Context, productID int) (*entity.Product, error) {
	prd, err := QueryNamedOne[entity.Product](ctx, ms.DB(),
		`SELECT * FROM product WHERE id = :id`, map[string]any{"id": productID})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrNotFound
		}
		return nil, fmt.Errorf("can't get product: %w", err)
	}
	return &prd, nil
}

// SearchProductsPaged returns a filtered, sorted product page with the total
// match count. The text query matches name, description or category.
func (ms *MYSQLStore) SearchProductsPaged(ctx context.Context, filter entity.ProductFilter, limit, offset int) ([]entity.Product, int, error) {
	where, countParams := buildProductFilter(filter)

	pageParams := map[string]any{"limit": limit, "offset": offset}
	for k, val := range countParams {
		pageParams[k] = val
	}

	products, err := QueryListNamed[entity.Product](ctx, ms.DB(), `
	SELECT * FROM product `+where+`
	ORDER BY `+productOrderClause(filter)+`
	LIMIT :limit OFFSET :offset`, pageParams)
	if err != nil {
		return nil, 0, fmt.Errorf("can't search products: %w", err)
	}

	count, err := QueryCountNamed(ctx, ms.DB(),
		`SELECT COUNT(*) FROM product `+where, countParams)
	if err != nil {
		return nil, 0, fmt.Errorf("can't count products: %w", err)
	}

	return products, count, nil
}

// GetProductsByIDs returns the products for the given ids in id order,
// missing ids silently skipped.
func (ms *MYSQLStore) GetProductsByIDs(ctx context.Context, productIDs []int) ([]entity.Product, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}

	products, err := QueryListNamed[entity.Product](ctx, ms.DB(),
		`SELECT * FROM product WHERE id IN (:productIds) ORDER BY id`,
		map[string]any{"productIds": productIDs})
	if err != nil {
		return nil, fmt.Errorf("can't get products: %w", err)
	}
	return products, nil
}

// GetProductCategories maps product ids to their category labels. Missing
// products are simply absent from the result.
func (ms *MYSQLStore) GetProductCategories(ctx context.Context, productIDs []int) (map[int]string, error) {
	categories := make(map[int]string, len(productIDs))
	if len(productIDs) == 0 {
		return categories, nil
	}

	type productCategory struct {
		ID       int    `db:"id"`
		Category string `db:"category"`
	}
	rows, err := QueryListNamed[productCategory](ctx, ms.DB(),
		`SELECT id, category FROM product WHERE id IN (:productIds)`,
		map[string]any{"productIds": productIDs})
	if err != nil {
		return nil, fmt.Errorf("can't get product categories: %w", err)
	}

	for _, row := range rows {
		categories[row.ID] = row.Category
	}
	return categories, nil
}

func buildProductFilter(filter entity.ProductFilter) (string, map[string]any) {
	where := `WHERE 1 = 1`
	params := map[string]any{}

	if filter.Query != "" {
		where += ` AND (name LIKE :query OR description LIKE :query OR category LIKE :query)`
		params["query"] = "%" + filter.Query + "%"
	}
	if filter.Category != "" {
		where += ` AND category = :category`
		params["category"] = filter.Category
	}
	if filter.MinPrice != nil {
		where += ` AND price >= :minPrice`
		params["minPrice"] = *filter.MinPrice
	}
	if filter.MaxPrice != nil {
		where += ` AND price <= :maxPrice`
		params["maxPrice"] = *filter.MaxPrice
	}
	if filter.MinRating > 0 {
		where += ` AND average_rating >= :minRating`
		params["minRating"] = filter.MinRating
	}
	if filter.InStock {
		where += ` AND stock > 0`
	}

	return where, params
}

// productOrderClause maps the sort selector to a fixed clause; the sort
// column is never taken from user input directly.
func productOrderClause(filter entity.ProductFilter) string {
	dir := "ASC"
	if filter.SortDesc {
		dir = "DESC"
	}
	switch filter.SortBy {
	case entity.ProductSortPrice:
		return "price " + dir
	case entity.ProductSortRating:
		return "average_rating " + dir
	case entity.ProductSortNewest:
		return "created_at DESC"
	default:
		return "name " + dir
	}
}
