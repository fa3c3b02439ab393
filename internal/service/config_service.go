package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/skicoach/coach-schedule/internal/model"
	"github.com/skicoach/coach-schedule/internal/store"
)

// ConfigService exposes the configuration singleton. The store creates it
// with defaults on first read; saving always replaces the whole record, so
// callers read-modify-write.
type ConfigService struct {
	configs store.ConfigStore
	logger  *zap.Logger
}

func NewConfigService(configs store.ConfigStore, logger *zap.Logger) *ConfigService {
	return &ConfigService{configs: configs, logger: logger}
}

func (s *ConfigService) Get(ctx context.Context) (*model.Config, error) {
	cfg, err := s.configs.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// Save fully replaces the singleton. Existing events keep their snapshotted
// slot fields; only future writes see the new values.
func (s *ConfigService) Save(ctx context.Context, cfg *model.Config) error {
	for _, slot := range model.AllSlots {
		if _, ok := cfg.TimeSlots[slot]; !ok {
			return fmt.Errorf("save config: missing time slot %q", slot)
		}
	}
	if err := s.configs.Save(ctx, cfg); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	s.logger.Info("Configuration saved")
	return nil
}
