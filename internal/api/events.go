package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/skicoach/coach-schedule/internal/dateutil"
	"github.com/skicoach/coach-schedule/internal/model"
	"github.com/skicoach/coach-schedule/internal/service"
)

type createEventRequest struct {
	Type     model.EventType `json:"type"`
	Date     string          `json:"date"`
	TimeSlot model.TimeSlot  `json:"timeSlot"`
	Title    string          `json:"title"`
	Venue    *string         `json:"venue"`
	Fee      *float64        `json:"fee"`
	Notes    *string         `json:"notes"`
}

type updateEventRequest struct {
	Type     *model.EventType `json:"type"`
	Date     *string          `json:"date"`
	TimeSlot *model.TimeSlot  `json:"timeSlot"`
	Title    *string          `json:"title"`
	Venue    *string          `json:"venue"`
	Fee      *float64         `json:"fee"`
	Notes    *string          `json:"notes"`
}

type eventListResponse struct {
	Events []*model.Event `json:"events"`
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, codeBadRequest, "failed to decode request body")
		return
	}

	if req.Type == model.EventTypeTrial {
		writeError(w, r, http.StatusBadRequest, codeBadRequest, "trial classes can no longer be created")
		return
	}
	if !req.Type.Valid() {
		writeError(w, r, http.StatusBadRequest, codeBadRequest, "unknown event type")
		return
	}
	if !req.TimeSlot.Valid() {
		writeError(w, r, http.StatusBadRequest, codeBadRequest, "unknown time slot")
		return
	}
	if _, err := dateutil.ParseDate(req.Date); err != nil {
		writeError(w, r, http.StatusBadRequest, codeBadRequest, "date must be YYYY-MM-DD")
		return
	}

	event, err := s.events.Create(r.Context(), req.Type, service.CreateInput{
		Date:     req.Date,
		TimeSlot: req.TimeSlot,
		Title:    req.Title,
		Venue:    req.Venue,
		Fee:      req.Fee,
		Notes:    req.Notes,
	})
	if err != nil {
		s.internalError(w, r, "failed to create event", err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, event)
}

func (s *Server) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	event, err := s.events.GetByID(r.Context(), id)
	if err != nil {
		s.internalError(w, r, "failed to load event", err)
		return
	}
	if event == nil {
		writeError(w, r, http.StatusNotFound, codeNotFound, "event not found")
		return
	}

	render.JSON(w, r, event)
}

func (s *Server) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateEventRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, codeBadRequest, "failed to decode request body")
		return
	}

	if req.Type != nil && !req.Type.Valid() {
		writeError(w, r, http.StatusBadRequest, codeBadRequest, "unknown event type")
		return
	}
	if req.TimeSlot != nil && !req.TimeSlot.Valid() {
		writeError(w, r, http.StatusBadRequest, codeBadRequest, "unknown time slot")
		return
	}
	if req.Date != nil {
		if _, err := dateutil.ParseDate(*req.Date); err != nil {
			writeError(w, r, http.StatusBadRequest, codeBadRequest, "date must be YYYY-MM-DD")
			return
		}
	}

	event, err := s.events.Update(r.Context(), id, service.UpdateInput{
		Type:     req.Type,
		Date:     req.Date,
		TimeSlot: req.TimeSlot,
		Title:    req.Title,
		Venue:    req.Venue,
		Fee:      req.Fee,
		Notes:    req.Notes,
	})
	if err != nil {
		s.internalError(w, r, "failed to update event", err)
		return
	}
	if event == nil {
		writeError(w, r, http.StatusNotFound, codeNotFound, "event not found")
		return
	}

	render.JSON(w, r, event)
}

func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.events.Delete(r.Context(), id); err != nil {
		s.internalError(w, r, "failed to delete event", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	events, ok := s.listForQuery(w, r)
	if !ok {
		return
	}
	if events == nil {
		events = []*model.Event{}
	}
	render.JSON(w, r, eventListResponse{Events: events})
}

// listForQuery resolves the range grammar shared by the listing, stats and
// export endpoints: ?range=today|week|month|season, ?date=, ?from=&to=, or
// nothing for the full history. On a bad query it writes the error response
// itself and reports ok=false.
func (s *Server) listForQuery(w http.ResponseWriter, r *http.Request) (events []*model.Event, ok bool) {
	ctx := r.Context()
	q := r.URL.Query()

	var err error
	switch {
	case q.Get("range") != "":
		ref := s.today()
		switch q.Get("range") {
		case "today":
			events, err = s.events.ByDate(ctx, dateutil.DateString(ref))
		case "week":
			events, err = s.events.Week(ctx, ref)
		case "month":
			events, err = s.events.Month(ctx, ref)
		case "season":
			events, err = s.events.Season(ctx, ref)
		default:
			writeError(w, r, http.StatusBadRequest, codeBadRequest, "range must be today, week, month or season")
			return nil, false
		}
	case q.Get("date") != "":
		date := q.Get("date")
		if _, perr := dateutil.ParseDate(date); perr != nil {
			writeError(w, r, http.StatusBadRequest, codeBadRequest, "date must be YYYY-MM-DD")
			return nil, false
		}
		events, err = s.events.ByDate(ctx, date)
	case q.Get("from") != "" || q.Get("to") != "":
		from, to := q.Get("from"), q.Get("to")
		if _, perr := dateutil.ParseDate(from); perr != nil {
			writeError(w, r, http.StatusBadRequest, codeBadRequest, "from must be YYYY-MM-DD")
			return nil, false
		}
		if _, perr := dateutil.ParseDate(to); perr != nil {
			writeError(w, r, http.StatusBadRequest, codeBadRequest, "to must be YYYY-MM-DD")
			return nil, false
		}
		events, err = s.events.Range(ctx, from, to)
	default:
		events, err = s.events.ListAll(ctx)
	}
	if err != nil {
		s.logger.Error("failed to list events", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, codeInternal, "failed to list events")
		return nil, false
	}
	return events, true
}
