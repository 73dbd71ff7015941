package httpapi

import (
	"net/http"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/shoplinehq/commerce-manager/internal/entity"
)

const userStatsPageLimit = 20

type userStatistics struct {
	TotalSpent        float64 `json:"totalSpent"`
	TotalOrders       int     `json:"totalOrders"`
	AverageOrderValue float64 `json:"averageOrderValue"`
}

type userStatsResponse struct {
	Orders     []entity.OrderFull `json:"orders"`
	Statistics userStatistics     `json:"statistics"`
	Pagination entity.Pagination  `json:"pagination"`
}

// getUserStats returns the user's order history page together with whole
// history statistics. The statistics cover every order of the user, not just
// the returned page.
func (s *Server) getUserStats(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUserID(r)
	if err != nil {
		respondError(w, r, "user.stats", err)
		return
	}
	pr := pageRequest(r, userStatsPageLimit)

	var (
		orders     []entity.OrderFull
		total      int
		totalSpent decimal.Decimal
		orderCount int
	)
	g, gctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		orders, total, err = s.rep.Order().GetOrdersByUserPaged(gctx, userID, pr.Limit, pr.Offset())
		return err
	})
	g.Go(func() error {
		var err error
		totalSpent, orderCount, err = s.rep.Order().GetUserOrderStats(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		respondError(w, r, "user.stats", err)
		return
	}

	avg := decimal.Zero
	if orderCount > 0 {
		avg = totalSpent.Div(decimal.NewFromInt(int64(orderCount))).Round(2)
	}

	respond(w, http.StatusOK, userStatsResponse{
		Orders: orders,
		Statistics: userStatistics{
			TotalSpent:        totalSpent.InexactFloat64(),
			TotalOrders:       orderCount,
			AverageOrderValue: avg.InexactFloat64(),
		},
		Pagination: entity.NewPagination(pr, total),
	})
}
