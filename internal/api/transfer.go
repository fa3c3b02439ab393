package api

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/render"

	"github.com/skicoach/coach-schedule/internal/csvcodec"
	"github.com/skicoach/coach-schedule/internal/dateutil"
	"github.com/skicoach/coach-schedule/internal/ical"
	"github.com/skicoach/coach-schedule/internal/service"
)

const maxUploadBytes = 10 << 20

type importResponse struct {
	service.ImportResult
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	events, ok := s.listForQuery(w, r)
	if !ok {
		return
	}

	filename := "教学数据_" + dateutil.DateString(s.today()) + ".csv"
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(filename))
	io.WriteString(w, csvcodec.Encode(events))
}

func (s *Server) handleImportCSV(w http.ResponseWriter, r *http.Request) {
	seasonYear := dateutil.SeasonStartYear(s.today())
	if raw := r.URL.Query().Get("season_year"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, codeBadRequest, "season_year must be a year number")
			return
		}
		seasonYear = n
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, codeBadRequest, "failed to read request body")
		return
	}

	res, parseErrs, err := s.events.ImportCSV(r.Context(), string(body), seasonYear)
	if err != nil {
		s.internalError(w, r, "failed to import events", err)
		return
	}
	if len(parseErrs) > 0 {
		writeError(w, r, http.StatusUnprocessableEntity, codeInvalidCSV, "CSV contains invalid rows", parseErrs...)
		return
	}

	render.JSON(w, r, importResponse{ImportResult: res})
}

func (s *Server) handleExportICS(w http.ResponseWriter, r *http.Request) {
	events, ok := s.listForQuery(w, r)
	if !ok {
		return
	}

	feed, err := ical.Feed(events, s.loc)
	if err != nil {
		s.internalError(w, r, "failed to render calendar feed", err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	io.WriteString(w, feed)
}

func (s *Server) handleBackup(w http.ResponseWriter, r *http.Request) {
	doc, err := s.backup.Export(r.Context())
	if err != nil {
		s.internalError(w, r, "failed to export backup", err)
		return
	}
	render.JSON(w, r, doc)
}

func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, codeBadRequest, "failed to read request body")
		return
	}

	restored, err := s.backup.Restore(r.Context(), body)
	if errors.Is(err, service.ErrInvalidBackup) {
		writeError(w, r, http.StatusBadRequest, codeInvalidFile, "not a valid backup file")
		return
	}
	if err != nil {
		s.internalError(w, r, "failed to restore backup", err)
		return
	}

	render.JSON(w, r, map[string]int{"restored": restored})
}

func (s *Server) handleMigrate(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserID(r.Context())
	if !ok {
		writeError(w, r, http.StatusBadRequest, codeNoIdentity, UserIDHeader+" header is required")
		return
	}
	if !s.migration.RemoteConfigured() {
		writeError(w, r, http.StatusServiceUnavailable, codeNoRemote, "no remote backend configured")
		return
	}

	res, err := s.migration.Migrate(r.Context(), userID)
	if err != nil {
		s.internalError(w, r, "failed to migrate events", err)
		return
	}

	render.JSON(w, r, res)
}
