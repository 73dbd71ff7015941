package analytics

import (
	"time"

	"github.com/shoplinehq/commerce-manager/internal/entity"
)

// Period names accepted by the report endpoint. Anything else falls back to
// an explicit date range if one is given, or to all time.
const (
	PeriodToday = "today"
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodYear  = "year"
)

// ResolvePeriod turns a period name or an explicit date pair into a concrete
// time range relative to now. A named period always wins over explicit dates.
//
// "today" is the calendar day in now's location, half-open at the next
// midnight, so an order placed at 23:59:59 counts and one at the following
// midnight does not. The rolling periods are inclusive on both ends.
func ResolvePeriod(period string, startDate, endDate *time.Time, now time.Time) entity.TimeRange {
	switch period {
	case PeriodToday:
		midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return entity.TimeRange{
			From:        midnight,
			To:          midnight.Add(24 * time.Hour),
			ToExclusive: true,
		}
	case PeriodWeek:
		return entity.TimeRange{From: now.AddDate(0, 0, -7), To: now}
	case PeriodMonth:
		return entity.TimeRange{From: now.AddDate(0, -1, 0), To: now}
	case PeriodYear:
		return entity.TimeRange{From: now.AddDate(-1, 0, 0), To: now}
	}

	if startDate != nil && endDate != nil {
		return entity.TimeRange{From: *startDate, To: *endDate}
	}

	// All time.
	return entity.TimeRange{}
}
