package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/skicoach/coach-schedule/internal/store"
)

// migrationFlagKey marks that the one-time local-to-remote copy has been
// attempted. The key is versioned; a future re-migration would use a new key.
const migrationFlagKey = "events-remote-migrated-v1"

// MigrationResult counts per-row outcomes of the migration pass.
type MigrationResult struct {
	Migrated int `json:"migrated"`
	Failed   int `json:"failed"`
}

// MigrationService copies all local events into the remote backend exactly
// once per installation. The flag is set even when rows fail: this is an
// attempt-once policy, not retry-until-success.
type MigrationService struct {
	stores *store.Selector
	flags  store.FlagStore
	logger *zap.Logger
}

func NewMigrationService(stores *store.Selector, flags store.FlagStore, logger *zap.Logger) *MigrationService {
	return &MigrationService{stores: stores, flags: flags, logger: logger}
}

// RemoteConfigured reports whether a remote backend exists to migrate into.
func (s *MigrationService) RemoteConfigured() bool {
	return s.stores.HasRemote()
}

// Migrate runs the pass for the given remote identity. It is a no-op when
// no remote backend is configured, no identity is given, or the flag is
// already set. Each event is inserted with id and timestamps stripped so
// the remote assigns its own; one row's failure does not stop the rest.
func (s *MigrationService) Migrate(ctx context.Context, userID string) (MigrationResult, error) {
	if userID == "" {
		return MigrationResult{}, nil
	}
	remote, ok := s.stores.RemoteFor(userID)
	if !ok {
		return MigrationResult{}, nil
	}

	done, err := s.flags.GetFlag(ctx, migrationFlagKey)
	if err != nil {
		return MigrationResult{}, fmt.Errorf("read migration flag: %w", err)
	}
	if done {
		return MigrationResult{}, nil
	}

	events, err := s.stores.Local().ListAll(ctx)
	if err != nil {
		return MigrationResult{}, fmt.Errorf("list local events: %w", err)
	}

	var res MigrationResult
	for _, e := range events {
		clone := e.Clone()
		clone.ID = ""
		clone.CreatedAt = time.Time{}
		clone.UpdatedAt = time.Time{}
		if err := remote.Insert(ctx, clone); err != nil {
			s.logger.Warn("Migration row failed",
				zap.String("local_id", e.ID),
				zap.Error(err),
			)
			res.Failed++
			continue
		}
		res.Migrated++
	}

	if err := s.flags.SetFlag(ctx, migrationFlagKey); err != nil {
		return res, fmt.Errorf("set migration flag: %w", err)
	}

	s.logger.Info("Local events migrated to remote",
		zap.Int("migrated", res.Migrated),
		zap.Int("failed", res.Failed),
	)

	return res, nil
}
