package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoplinehq/commerce-manager/internal/analytics"
	"github.com/shoplinehq/commerce-manager/internal/cache"
	"github.com/shoplinehq/commerce-manager/internal/dependency"
	"github.com/shoplinehq/commerce-manager/internal/entity"
)

// stubRepository implements dependency.Repository for handler tests; only
// the aggregates a test wires up are usable.
type stubRepository struct {
	dependency.Repository
	cart         *stubCart
	wishlist     *stubWishlist
	order        *stubOrder
	subscription *stubSubscription
	review       *stubReview
	products     *stubProducts
	analytics    *stubAnalytics
}

func (s *stubRepository) Cart() dependency.Cart                 { return s.cart }
func (s *stubRepository) Wishlist() dependency.Wishlist         { return s.wishlist }
func (s *stubRepository) Order() dependency.Order               { return s.order }
func (s *stubRepository) Subscription() dependency.Subscription { return s.subscription }
func (s *stubRepository) Review() dependency.Review             { return s.review }
func (s *stubRepository) Products() dependency.Products         { return s.products }
func (s *stubRepository) Analytics() dependency.Analytics       { return s.analytics }

type stubCart struct {
	addFn    func(*entity.LineItemInsert) (*entity.CartItem, error)
	items    []entity.CartItem
	total    int
	updateFn func(int, int) (*entity.CartItem, error)
	deleteFn func(int) error
	clearFn  func(string) (int, error)
}

func (s *stubCart) AddCartItem(_ context.Context, insert *entity.LineItemInsert) (*entity.CartItem, error) {
	return s.addFn(insert)
}

func (s *stubCart) GetCartItemsPaged(_ context.Context, _ string, _, _ int) ([]entity.CartItem, int, error) {
	return s.items, s.total, nil
}

func (s *stubCart) UpdateCartItemQuantity(_ context.Context, id, qty int) (*entity.CartItem, error) {
	return s.updateFn(id, qty)
}

func (s *stubCart) DeleteCartItem(_ context.Context, id int) error {
	return s.deleteFn(id)
}

func (s *stubCart) ClearCart(_ context.Context, userID string) (int, error) {
	return s.clearFn(userID)
}

type stubWishlist struct {
	addFn func(*entity.LineItemInsert) (*entity.WishlistItem, error)
}

func (s *stubWishlist) AddWishlistItem(_ context.Context, insert *entity.LineItemInsert) (*entity.WishlistItem, error) {
	return s.addFn(insert)
}

func (s *stubWishlist) GetWishlistItemsPaged(context.Context, string, int, int) ([]entity.WishlistItem, int, error) {
	return nil, 0, nil
}

func (s *stubWishlist) UpdateWishlistItem(context.Context, int, *entity.WishlistItemUpdate) (*entity.WishlistItem, error) {
	return nil, entity.ErrNotFound
}

func (s *stubWishlist) DeleteWishlistItem(context.Context, int) error {
	return entity.ErrNotFound
}

type stubOrder struct {
	updateFn   func(int, *entity.OrderUpdate) (*entity.OrderFull, error)
	cancelFn   func(int) (*entity.Order, error)
	pagedFn    func(limit, offset int) ([]entity.OrderFull, int, error)
	totalSpent decimal.Decimal
	orderCount int
}

func (s *stubOrder) CreateOrder(context.Context, *entity.OrderNew) (*entity.OrderFull, error) {
	return nil, &entity.ValidationError{Message: "empty order"}
}

func (s *stubOrder) GetOrderByID(context.Context, int) (*entity.OrderFull, error) {
	return nil, entity.ErrNotFound
}

func (s *stubOrder) GetOrdersByUserPaged(_ context.Context, _ string, limit, offset int) ([]entity.OrderFull, int, error) {
	return s.pagedFn(limit, offset)
}

func (s *stubOrder) UpdateOrder(_ context.Context, id int, upd *entity.OrderUpdate) (*entity.OrderFull, error) {
	return s.updateFn(id, upd)
}

func (s *stubOrder) CancelOrder(_ context.Context, id int) (*entity.Order, error) {
	return s.cancelFn(id)
}

func (s *stubOrder) GetUserOrderStats(context.Context, string) (decimal.Decimal, int, error) {
	return s.totalSpent, s.orderCount, nil
}

type stubSubscription struct{}

func (s *stubSubscription) CreateSubscription(context.Context, *entity.SubscriptionNew) (*entity.Subscription, error) {
	return &entity.Subscription{ID: 1, Status: entity.SubscriptionActive}, nil
}

func (s *stubSubscription) GetSubscriptionsPaged(context.Context, string, entity.SubscriptionStatusName, int, int) ([]entity.Subscription, int, error) {
	return nil, 0, nil
}

func (s *stubSubscription) UpdateSubscription(context.Context, int, *entity.SubscriptionUpdate) (*entity.Subscription, error) {
	return nil, entity.ErrNotFound
}

func (s *stubSubscription) CancelSubscription(context.Context, int) (*entity.Subscription, error) {
	return &entity.Subscription{ID: 1, Status: entity.SubscriptionCancelled}, nil
}

type stubReview struct{}

func (s *stubReview) AddReview(context.Context, *entity.ReviewNew) (*entity.Review, error) {
	return &entity.Review{ID: 1, Status: entity.ReviewPending}, nil
}

func (s *stubReview) GetReviewsPaged(context.Context, entity.ReviewFilter, int, int) ([]entity.Review, int, error) {
	return nil, 0, nil
}

func (s *stubReview) UpdateReview(context.Context, int, *entity.ReviewUpdate) (*entity.Review, error) {
	return nil, entity.ErrNotFound
}

func (s *stubReview) DeleteReview(context.Context, int) error {
	return nil
}

type stubProducts struct {
	products []entity.Product
}

func (s *stubProducts) GetProductByID(context.Context, int) (*entity.Product, error) {
	return nil, entity.ErrNotFound
}

func (s *stubProducts) SearchProductsPaged(context.Context, entity.ProductFilter, int, int) ([]entity.Product, int, error) {
	return s.products, len(s.products), nil
}

func (s *stubProducts) GetProductsByIDs(_ context.Context, ids []int) ([]entity.Product, error) {
	var out []entity.Product
	for _, p := range s.products {
		for _, id := range ids {
			if p.ID == id {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

func (s *stubProducts) GetProductCategories(_ context.Context, ids []int) (map[int]string, error) {
	out := map[int]string{}
	for _, p := range s.products {
		out[p.ID] = p.Category
	}
	return out, nil
}

type stubAnalytics struct {
	orders []entity.RevenueOrder
}

func (s *stubAnalytics) GetRevenueOrders(context.Context, entity.TimeRange, []entity.OrderStatusName) ([]entity.RevenueOrder, error) {
	return s.orders, nil
}

func newTestServer(t *testing.T, rep *stubRepository) *httptest.Server {
	t.Helper()
	an, err := analytics.New(&analytics.Config{}, rep)
	require.NoError(t, err)
	s := New(&Config{}, rep, an, cache.NewRecentlyViewed(3), cache.NewComparison(2))
	srv := httptest.NewServer(s.Router())
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	var req *http.Request
	var err error
	if body == "" {
		req, err = http.NewRequest(method, url, nil)
	} else {
		req, err = http.NewRequest(method, url, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var payload map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	return resp, payload
}

func TestCartListSummary(t *testing.T) {
	now := time.Now()
	rep := &stubRepository{cart: &stubCart{
		items: []entity.CartItem{
			{ID: 1, UserID: "u1", ProductID: 1, Quantity: 2, Price: decimal.NewFromInt(10), CreatedAt: now},
			{ID: 2, UserID: "u1", ProductID: 2, Quantity: 1, Price: decimal.NewFromInt(5), CreatedAt: now},
		},
		total: 25,
	}}
	srv := newTestServer(t, rep)

	resp, payload := doJSON(t, http.MethodGet, srv.URL+"/api/cart?userId=u1&page=1&limit=10", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	summary := payload["summary"].(map[string]any)
	assert.Equal(t, "25", summary["totalAmount"])
	assert.Equal(t, float64(3), summary["totalItems"])
	assert.Equal(t, float64(2), summary["itemCount"])

	pagination := payload["pagination"].(map[string]any)
	assert.Equal(t, float64(25), pagination["total"])
	assert.Equal(t, float64(3), pagination["pages"])
}

func TestCartListRequiresUserID(t *testing.T) {
	srv := newTestServer(t, &stubRepository{cart: &stubCart{}})

	resp, payload := doJSON(t, http.MethodGet, srv.URL+"/api/cart", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "userId is required", payload["error"])
}

func TestWishlistDuplicateConflict(t *testing.T) {
	rep := &stubRepository{wishlist: &stubWishlist{
		addFn: func(*entity.LineItemInsert) (*entity.WishlistItem, error) {
			return nil, entity.ErrDuplicateEntry
		},
	}}
	srv := newTestServer(t, rep)

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/wishlist",
		`{"userId":"u1","productId":1,"quantity":1,"price":"10.00"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestOrderUpdateInvalidTransition(t *testing.T) {
	rep := &stubRepository{order: &stubOrder{
		updateFn: func(int, *entity.OrderUpdate) (*entity.OrderFull, error) {
			return nil, &entity.InvalidTransitionError{Entity: "order", From: "PENDING", To: "DELIVERED"}
		},
	}}
	srv := newTestServer(t, rep)

	resp, payload := doJSON(t, http.MethodPut, srv.URL+"/api/orders",
		`{"orderId":1,"status":"DELIVERED"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, payload["error"], "PENDING -> DELIVERED")
}

func TestOrderCancelNotFound(t *testing.T) {
	rep := &stubRepository{order: &stubOrder{
		cancelFn: func(int) (*entity.Order, error) {
			return nil, entity.ErrNotFound
		},
	}}
	srv := newTestServer(t, rep)

	resp, _ := doJSON(t, http.MethodDelete, srv.URL+"/api/orders?orderId=42", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestOpaqueInternalError(t *testing.T) {
	rep := &stubRepository{cart: &stubCart{
		clearFn: func(string) (int, error) {
			return 0, assert.AnError
		},
	}}
	srv := newTestServer(t, rep)

	resp, payload := doJSON(t, http.MethodPost, srv.URL+"/api/cart/clear", `{"userId":"u1"}`)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	// no internal detail leaks
	assert.Equal(t, "internal error", payload["error"])
}

func TestAnalyticsEndpoint(t *testing.T) {
	rep := &stubRepository{
		analytics: &stubAnalytics{orders: []entity.RevenueOrder{
			{
				OrderID:     1,
				TotalAmount: decimal.NewFromInt(120),
				CreatedAt:   time.Now(),
				Items: []entity.RevenueItem{
					{ProductID: 1, Quantity: 2, Total: decimal.NewFromInt(120)},
				},
			},
		}},
		products: &stubProducts{products: []entity.Product{
			{ID: 1, Category: "audio"},
		}},
	}
	srv := newTestServer(t, rep)

	resp, payload := doJSON(t, http.MethodGet, srv.URL+"/api/analytics", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	summary := payload["summary"].(map[string]any)
	assert.Equal(t, float64(120), summary["totalRevenue"])
	assert.Equal(t, float64(1), summary["totalOrders"])
	assert.Equal(t, "all-time", summary["period"])
}

func TestAnalyticsRejectsMalformedDate(t *testing.T) {
	srv := newTestServer(t, &stubRepository{analytics: &stubAnalytics{}, products: &stubProducts{}})

	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/api/analytics?startDate=March+1", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUserStats(t *testing.T) {
	rep := &stubRepository{order: &stubOrder{
		pagedFn: func(limit, offset int) ([]entity.OrderFull, int, error) {
			assert.Equal(t, 20, limit)
			return nil, 3, nil
		},
		totalSpent: decimal.NewFromInt(300),
		orderCount: 3,
	}}
	srv := newTestServer(t, rep)

	resp, payload := doJSON(t, http.MethodGet, srv.URL+"/api/user/stats?userId=u1", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	stats := payload["statistics"].(map[string]any)
	assert.Equal(t, float64(300), stats["totalSpent"])
	assert.Equal(t, float64(3), stats["totalOrders"])
	assert.Equal(t, float64(100), stats["averageOrderValue"])
}

func TestRecentlyViewedEviction(t *testing.T) {
	rep := &stubRepository{products: &stubProducts{}}
	srv := newTestServer(t, rep)

	// capacity 3 in the test server
	for id := 1; id <= 4; id++ {
		resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/recently-viewed",
			`{"userId":"u1","productId":`+strconv.Itoa(id)+`}`)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, payload := doJSON(t, http.MethodGet, srv.URL+"/api/recently-viewed?userId=u1", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []any{float64(4), float64(3), float64(2)}, payload["productIds"])
}

func TestComparisonCapacityAndDuplicate(t *testing.T) {
	rep := &stubRepository{products: &stubProducts{}}
	srv := newTestServer(t, rep)

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/comparison", `{"userId":"u1","productId":1}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/comparison", `{"userId":"u1","productId":1}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/comparison", `{"userId":"u1","productId":2}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// capacity 2 in the test server
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/comparison", `{"userId":"u1","productId":3}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProductCompare(t *testing.T) {
	rep := &stubRepository{products: &stubProducts{products: []entity.Product{
		{ID: 1, Name: "a"},
		{ID: 2, Name: "b"},
	}}}
	srv := newTestServer(t, rep)

	resp, payload := doJSON(t, http.MethodPost, srv.URL+"/api/products/search", `{"productIds":[1,2]}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, payload["products"], 2)
}
