package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/shoplinehq/commerce-manager/internal/entity"
)

const topProductsLimit = 10

// ReportMeta carries the request facts echoed back in the report summary.
type ReportMeta struct {
	Period    string
	StartDate *string
	EndDate   *string
}

// ComputeReport aggregates the revenue source set into the report payload.
// All money math runs on decimals and is converted to floats only at the
// payload boundary.
func ComputeReport(orders []entity.RevenueOrder, meta ReportMeta) *entity.AnalyticsReport {
	totalRevenue := decimal.Zero
	for _, o := range orders {
		totalRevenue = totalRevenue.Add(o.TotalAmount)
	}

	totalOrders := len(orders)
	avg := decimal.Zero
	if totalOrders > 0 {
		avg = totalRevenue.Div(decimal.NewFromInt(int64(totalOrders)))
	}

	return &entity.AnalyticsReport{
		Summary: entity.AnalyticsSummary{
			TotalRevenue:      totalRevenue.InexactFloat64(),
			TotalOrders:       totalOrders,
			AverageOrderValue: avg.Round(2).InexactFloat64(),
			Period:            meta.Period,
			DateRange: entity.ReportDateRange{
				StartDate: meta.StartDate,
				EndDate:   meta.EndDate,
			},
		},
		TopProducts:     topProducts(orders),
		CategoryRevenue: categoryRevenue(orders),
		DailyRevenue:    dailyRevenue(orders),
	}
}

type productAgg struct {
	productID int
	quantity  int
	revenue   decimal.Decimal
}

// topProducts groups item facts by product and ranks by revenue. The sort is
// stable over first-encounter order, so equal revenues keep a deterministic
// ranking, and the list is cut to the top ten.
func topProducts(orders []entity.RevenueOrder) []entity.ProductSales {
	byProduct := map[int]*productAgg{}
	var encounter []*productAgg
	for _, o := range orders {
		for _, it := range o.Items {
			agg, ok := byProduct[it.ProductID]
			if !ok {
				agg = &productAgg{productID: it.ProductID}
				byProduct[it.ProductID] = agg
				encounter = append(encounter, agg)
			}
			agg.quantity += it.Quantity
			agg.revenue = agg.revenue.Add(it.Total)
		}
	}

	sort.SliceStable(encounter, func(i, j int) bool {
		return encounter[i].revenue.GreaterThan(encounter[j].revenue)
	})
	if len(encounter) > topProductsLimit {
		encounter = encounter[:topProductsLimit]
	}

	out := make([]entity.ProductSales, 0, len(encounter))
	for _, agg := range encounter {
		out = append(out, entity.ProductSales{
			ProductID: agg.productID,
			Quantity:  agg.quantity,
			Revenue:   agg.revenue.InexactFloat64(),
		})
	}
	return out
}

// categoryRevenue sums item totals per product category. Items whose product
// reference is gone land in the "unknown" bucket. Rows come out in
// first-encounter order.
func categoryRevenue(orders []entity.RevenueOrder) []entity.CategoryRevenue {
	byCategory := map[string]decimal.Decimal{}
	var encounter []string
	for _, o := range orders {
		for _, it := range o.Items {
			category := it.Category
			if category == "" {
				category = "unknown"
			}
			if _, ok := byCategory[category]; !ok {
				encounter = append(encounter, category)
			}
			byCategory[category] = byCategory[category].Add(it.Total)
		}
	}

	out := make([]entity.CategoryRevenue, 0, len(encounter))
	for _, category := range encounter {
		out = append(out, entity.CategoryRevenue{
			Category: category,
			Revenue:  byCategory[category].InexactFloat64(),
		})
	}
	return out
}

// dailyRevenue buckets order totals by the order's calendar day and returns
// the series ascending by date.
func dailyRevenue(orders []entity.RevenueOrder) []entity.DailyRevenue {
	byDay := map[string]decimal.Decimal{}
	for _, o := range orders {
		day := o.CreatedAt.Format("2006-01-02")
		byDay[day] = byDay[day].Add(o.TotalAmount)
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	out := make([]entity.DailyRevenue, 0, len(days))
	for _, day := range days {
		out = append(out, entity.DailyRevenue{
			Date:    day,
			Revenue: byDay[day].InexactFloat64(),
		})
	}
	return out
}
