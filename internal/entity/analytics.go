package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TimeRange is a half-open or inclusive date window resolved from a period
// selector. A zero From or To means unbounded on that side.
type TimeRange struct {
	From time.Time
	To   time.Time
	// ToExclusive marks To as an exclusive bound (the "today" period uses
	// [midnight, midnight+24h)).
	ToExclusive bool
}

// RevenueOrder is one order of the analytics source set together with the
// item facts the engine aggregates over.
type RevenueOrder struct {
	OrderID     int
	TotalAmount decimal.Decimal
	CreatedAt   time.Time
	Items       []RevenueItem
}

// RevenueItem carries the per-item facts: quantity, the item total computed
// at order creation, and the product category (empty when the product
// reference is gone).
type RevenueItem struct {
	ProductID int
	Quantity  int
	Total     decimal.Decimal
	Category  string
}

// AnalyticsSummary is the headline block of the report.
type AnalyticsSummary struct {
	TotalRevenue      float64         `json:"totalRevenue"`
	TotalOrders       int             `json:"totalOrders"`
	AverageOrderValue float64         `json:"averageOrderValue"`
	Period            string          `json:"period"`
	DateRange         ReportDateRange `json:"dateRange"`
}

// ReportDateRange echoes the explicit range parameters of the request, null
// when a named period was used.
type ReportDateRange struct {
	StartDate *string `json:"startDate"`
	EndDate   *string `json:"endDate"`
}

// ProductSales is one row of the top-products ranking.
type ProductSales struct {
	ProductID int     `json:"productId"`
	Quantity  int     `json:"quantity"`
	Revenue   float64 `json:"revenue"`
}

// CategoryRevenue is one row of the per-category breakdown.
type CategoryRevenue struct {
	Category string  `json:"category"`
	Revenue  float64 `json:"revenue"`
}

// DailyRevenue is one point of the daily time series, Date is YYYY-MM-DD.
type DailyRevenue struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
}

// AnalyticsReport is the externally observed analytics payload.
type AnalyticsReport struct {
	Summary         AnalyticsSummary  `json:"summary"`
	TopProducts     []ProductSales    `json:"topProducts"`
	CategoryRevenue []CategoryRevenue `json:"categoryRevenue"`
	DailyRevenue    []DailyRevenue    `json:"dailyRevenue"`
}
