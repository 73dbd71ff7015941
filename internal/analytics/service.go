package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shoplinehq/commerce-manager/internal/dependency"
	"github.com/shoplinehq/commerce-manager/internal/entity"
)

// Config holds the analytics engine settings.
type Config struct {
	// RevenueStatuses overrides the order statuses counted as revenue.
	// Empty means the default set.
	RevenueStatuses []string `mapstructure:"revenue_statuses"`
}

// Service resolves report periods, fetches the revenue source set and
// aggregates it into the report payload.
type Service struct {
	rep      dependency.Repository
	statuses []entity.OrderStatusName
}

// New creates the analytics service backed by the given repository.
func New(cfg *Config, rep dependency.Repository) (*Service, error) {
	statuses := entity.RevenueStatuses()
	if len(cfg.RevenueStatuses) > 0 {
		statuses = statuses[:0]
		for _, s := range cfg.RevenueStatuses {
			name := entity.OrderStatusName(s)
			if !entity.ValidOrderStatusNames[name] {
				return nil, fmt.Errorf("unknown revenue status %q", s)
			}
			statuses = append(statuses, name)
		}
	}
	return &Service{rep: rep, statuses: statuses}, nil
}

// Report builds the revenue report for the requested period. A named period
// wins over an explicit startDate/endDate pair; with neither the report spans
// all time.
func (s *Service) Report(ctx context.Context, period string, startDate, endDate *time.Time) (*entity.AnalyticsReport, error) {
	rng := ResolvePeriod(period, startDate, endDate, time.Now())

	orders, err := s.rep.Analytics().GetRevenueOrders(ctx, rng, s.statuses)
	if err != nil {
		return nil, fmt.Errorf("can't get revenue orders: %w", err)
	}

	if err := s.attachCategories(ctx, orders); err != nil {
		return nil, err
	}

	meta := ReportMeta{Period: reportPeriodLabel(period, startDate, endDate)}
	if period == "" && startDate != nil && endDate != nil {
		meta.StartDate = ptrDate(*startDate)
		meta.EndDate = ptrDate(*endDate)
	}

	return ComputeReport(orders, meta), nil
}

// attachCategories fills the category facts of every item from the product
// catalog. Items whose product no longer exists keep an empty category and
// are bucketed as unknown by the aggregation.
func (s *Service) attachCategories(ctx context.Context, orders []entity.RevenueOrder) error {
	seen := map[int]bool{}
	var ids []int
	for _, o := range orders {
		for _, it := range o.Items {
			if !seen[it.ProductID] {
				seen[it.ProductID] = true
				ids = append(ids, it.ProductID)
			}
		}
	}
	if len(ids) == 0 {
		return nil
	}

	categories, err := s.rep.Products().GetProductCategories(ctx, ids)
	if err != nil {
		return fmt.Errorf("can't get product categories: %w", err)
	}

	for oi := range orders {
		for ii := range orders[oi].Items {
			orders[oi].Items[ii].Category = categories[orders[oi].Items[ii].ProductID]
		}
	}
	return nil
}

// reportPeriodLabel is what the summary echoes as the period: the named
// period when one was given, "custom" for an explicit range, otherwise
// "all-time".
func reportPeriodLabel(period string, startDate, endDate *time.Time) string {
	switch period {
	case PeriodToday, PeriodWeek, PeriodMonth, PeriodYear:
		return period
	}
	if startDate != nil && endDate != nil {
		return "custom"
	}
	return "all-time"
}

func ptrDate(t time.Time) *string {
	s := t.Format("2006-01-02")
	return &s
}
