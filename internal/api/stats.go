package api

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/skicoach/coach-schedule/internal/stats"
)

type statsResponse struct {
	*stats.Result
	Summary string `json:"summary"`
}

// handleStats aggregates over the same range grammar as the event listing;
// without a query it covers the full history.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	events, ok := s.listForQuery(w, r)
	if !ok {
		return
	}

	result := stats.Compute(events)
	render.JSON(w, r, statsResponse{Result: result, Summary: stats.FormatSummary(result)})
}
