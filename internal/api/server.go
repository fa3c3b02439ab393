// Package api exposes the schedule over HTTP. Handlers are thin: decode,
// validate, call a service, encode. The X-User-ID header switches a request
// from the local store to the caller's remote data.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/skicoach/coach-schedule/internal/service"
)

type Server struct {
	events    *service.EventService
	configs   *service.ConfigService
	migration *service.MigrationService
	backup    *service.BackupService
	logger    *zap.Logger

	loc *time.Location
	now func() time.Time
}

func NewServer(
	events *service.EventService,
	configs *service.ConfigService,
	migration *service.MigrationService,
	backup *service.BackupService,
	loc *time.Location,
	logger *zap.Logger,
) *Server {
	if loc == nil {
		loc = time.Local
	}
	return &Server{
		events:    events,
		configs:   configs,
		migration: migration,
		backup:    backup,
		logger:    logger,
		loc:       loc,
		now:       time.Now,
	}
}

func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(Identity)

	r.Route("/events", func(r chi.Router) {
		r.Post("/", s.handleCreateEvent)
		r.Get("/", s.handleListEvents)
		r.Get("/{id}", s.handleGetEvent)
		r.Patch("/{id}", s.handleUpdateEvent)
		r.Delete("/{id}", s.handleDeleteEvent)
	})

	r.Get("/config", s.handleGetConfig)
	r.Put("/config", s.handleSaveConfig)

	r.Get("/stats", s.handleStats)

	r.Get("/availability", s.handleAvailability)
	r.Get("/availability/share", s.handleAvailabilityShare)

	r.Get("/export/csv", s.handleExportCSV)
	r.Post("/import/csv", s.handleImportCSV)
	r.Get("/export/ics", s.handleExportICS)

	r.Get("/backup", s.handleBackup)
	r.Post("/restore", s.handleRestore)
	r.Post("/migrate", s.handleMigrate)

	return r
}

// today returns the current date in the server timezone.
func (s *Server) today() time.Time {
	return s.now().In(s.loc)
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	s.logger.Error(msg, zap.Error(err))
	writeError(w, r, http.StatusInternalServerError, codeInternal, msg)
}
