package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/render"

	"github.com/skicoach/coach-schedule/internal/availability"
)

const defaultGridDays = 7

type availabilityResponse struct {
	Days []availability.Day `json:"days"`
}

type shareResponse struct {
	Text string `json:"text"`
}

// gridParams reads ?days= (1..31, default 7). Reports ok=false after writing
// the error response.
func (s *Server) gridParams(w http.ResponseWriter, r *http.Request) (start time.Time, days int, ok bool) {
	days = defaultGridDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 31 {
			writeError(w, r, http.StatusBadRequest, codeBadRequest, "days must be between 1 and 31")
			return time.Time{}, 0, false
		}
		days = n
	}
	return s.today(), days, true
}

func (s *Server) buildGrid(w http.ResponseWriter, r *http.Request) (grid []availability.Day, start time.Time, ok bool) {
	start, days, ok := s.gridParams(w, r)
	if !ok {
		return nil, time.Time{}, false
	}
	events, err := s.events.RangeDays(r.Context(), start, days)
	if err != nil {
		s.internalError(w, r, "failed to load events", err)
		return nil, time.Time{}, false
	}
	return availability.Build(events, start, days), start, true
}

func (s *Server) handleAvailability(w http.ResponseWriter, r *http.Request) {
	grid, _, ok := s.buildGrid(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, availabilityResponse{Days: grid})
}

func (s *Server) handleAvailabilityShare(w http.ResponseWriter, r *http.Request) {
	grid, start, ok := s.buildGrid(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, shareResponse{Text: availability.ShareText(grid, start)})
}
