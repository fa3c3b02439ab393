package api

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/skicoach/coach-schedule/internal/model"
)

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.configs.Get(r.Context())
	if err != nil {
		s.internalError(w, r, "failed to load config", err)
		return
	}
	render.JSON(w, r, cfg)
}

func (s *Server) handleSaveConfig(w http.ResponseWriter, r *http.Request) {
	var cfg model.Config
	if err := render.DecodeJSON(r.Body, &cfg); err != nil {
		writeError(w, r, http.StatusBadRequest, codeBadRequest, "failed to decode request body")
		return
	}
	for _, slot := range model.AllSlots {
		if _, ok := cfg.TimeSlots[slot]; !ok {
			writeError(w, r, http.StatusBadRequest, codeBadRequest, "missing time slot "+string(slot))
			return
		}
	}

	if err := s.configs.Save(r.Context(), &cfg); err != nil {
		s.internalError(w, r, "failed to save config", err)
		return
	}

	render.JSON(w, r, cfg)
}
