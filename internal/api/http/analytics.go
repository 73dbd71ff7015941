package httpapi

import (
	"net/http"
	"time"

	"github.com/shoplinehq/commerce-manager/internal/entity"
)

const dateLayout = "2006-01-02"

// getAnalytics serves the revenue report. A named period wins over an
// explicit startDate/endDate pair.
func (s *Server) getAnalytics(w http.ResponseWriter, r *http.Request) {
	period := r.URL.Query().Get("period")

	startDate, err := dateQuery(r, "startDate")
	if err != nil {
		respondError(w, r, "analytics.report", err)
		return
	}
	endDate, err := dateQuery(r, "endDate")
	if err != nil {
		respondError(w, r, "analytics.report", err)
		return
	}

	report, err := s.analytics.Report(r.Context(), period, startDate, endDate)
	if err != nil {
		respondError(w, r, "analytics.report", err)
		return
	}
	respond(w, http.StatusOK, report)
}

func dateQuery(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, &entity.ValidationError{Message: name + " must be YYYY-MM-DD"}
	}
	return &t, nil
}
