package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/skicoach/coach-schedule/internal/model"
	"github.com/skicoach/coach-schedule/internal/store"
)

// ErrInvalidBackup marks a payload that is not a backup file at all, as
// opposed to a backend failure during restore.
var ErrInvalidBackup = errors.New("invalid backup format")

// Backup is the JSON document the operator downloads and restores from.
type Backup struct {
	Events     []*model.Event `json:"events"`
	Config     *model.Config  `json:"config"`
	ExportedAt time.Time      `json:"exportedAt"`
}

// LocalStore is the slice of the local backend backup needs: full event
// access plus the ability to clear everything before a bulk insert.
type LocalStore interface {
	store.EventStore
	DeleteAll(ctx context.Context) error
}

// BackupService exports and restores the full local dataset. Backups are a
// local-store concern only; remote data is owned by the remote service.
type BackupService struct {
	local   LocalStore
	configs store.ConfigStore
	logger  *zap.Logger

	now func() time.Time
}

func NewBackupService(local LocalStore, configs store.ConfigStore, logger *zap.Logger) *BackupService {
	return &BackupService{local: local, configs: configs, logger: logger, now: time.Now}
}

// Export snapshots all local events and the configuration.
func (s *BackupService) Export(ctx context.Context) (*Backup, error) {
	events, err := s.local.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	cfg, err := s.configs.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if events == nil {
		events = []*model.Event{}
	}
	return &Backup{Events: events, Config: cfg, ExportedAt: s.now()}, nil
}

// Restore replaces the entire local event set and configuration from a
// backup document: clear, bulk insert, save config. A payload missing the
// events array or the config record is rejected as ErrInvalidBackup before
// anything is touched. Returns the number of restored events.
func (s *BackupService) Restore(ctx context.Context, raw []byte) (int, error) {
	var probe struct {
		Events *[]*model.Event `json:"events"`
		Config *model.Config   `json:"config"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	if probe.Events == nil || probe.Config == nil {
		return 0, ErrInvalidBackup
	}

	if err := s.local.DeleteAll(ctx); err != nil {
		return 0, fmt.Errorf("clear events: %w", err)
	}
	restored := 0
	for _, e := range *probe.Events {
		if err := s.local.Insert(ctx, e); err != nil {
			return restored, fmt.Errorf("restore event %s: %w", e.ID, err)
		}
		restored++
	}
	if err := s.configs.Save(ctx, probe.Config); err != nil {
		return restored, fmt.Errorf("restore config: %w", err)
	}

	s.logger.Info("Backup restored", zap.Int("events", restored))

	return restored, nil
}
