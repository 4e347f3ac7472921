package service

import (
	"context"

	"flagdeck/internal/apperr"
	"flagdeck/internal/metrics"
	"flagdeck/internal/model"
	"flagdeck/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BotConfigProvider is the bot-config service contract consumed by the
// HTTP boundary.
type BotConfigProvider interface {
	CreateConfig(ctx context.Context, name string, status, version *string, isActive bool) (*model.BotConfig, error)
	ListConfigs(ctx context.Context, skip, limit int) ([]model.BotConfig, error)
	GetConfig(ctx context.Context, id uuid.UUID) (*model.BotConfig, error)
	GetConfigByName(ctx context.Context, name string) (*model.BotConfig, error)
	UpdateConfig(ctx context.Context, id uuid.UUID, upd model.BotConfigUpdate) (*model.BotConfig, error)
	DeleteConfig(ctx context.Context, id uuid.UUID) error
	GetActiveConfigs(ctx context.Context) ([]model.BotConfig, error)
	GetConfigsByStatus(ctx context.Context, status string) ([]model.BotConfig, error)
	ActivateConfig(ctx context.Context, id uuid.UUID) (bool, error)
	DeactivateConfig(ctx context.Context, id uuid.UUID) (bool, error)
}

// BotConfigService is the simpler sibling of ConfigService: same
// repository/unit-of-work discipline, one version row on creation only.
type BotConfigService struct {
	uow      *repository.UnitOfWork
	repo     repository.BotConfigInterface
	observer metrics.Observer
}

func NewBotConfigService(uow *repository.UnitOfWork, repo repository.BotConfigInterface, observer metrics.Observer) *BotConfigService {
	return &BotConfigService{
		uow:      uow,
		repo:     repo,
		observer: observer,
	}
}

func (s *BotConfigService) CreateConfig(ctx context.Context, name string, status, version *string, isActive bool) (*model.BotConfig, error) {
	cfg := &model.BotConfig{
		Name:     name,
		Status:   model.BotStatusDraft,
		Version:  "1.0",
		IsActive: isActive,
	}
	if status != nil {
		cfg.Status = *status
	}
	if version != nil {
		cfg.Version = *version
	}

	var created *model.BotConfig
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		var err error
		created, err = repo.Add(ctx, cfg)
		if err != nil {
			return err
		}
		changelog := "Initial version"
		_, err = repo.CreateVersion(ctx, created.ID, &changelog)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.observer.RecordMutation("bot_config", "create")
	return created, nil
}

func (s *BotConfigService) ListConfigs(ctx context.Context, skip, limit int) ([]model.BotConfig, error) {
	var cfgs []model.BotConfig
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		var err error
		cfgs, err = s.repo.WithTx(tx).GetAll(ctx, skip, limit)
		return err
	})
	return cfgs, err
}

func (s *BotConfigService) GetConfig(ctx context.Context, id uuid.UUID) (*model.BotConfig, error) {
	var cfg *model.BotConfig
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		var err error
		cfg, err = s.repo.WithTx(tx).GetByID(ctx, id)
		if err != nil {
			return err
		}
		if cfg == nil {
			return apperr.NotFound("bot config %s", id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func (s *BotConfigService) GetConfigByName(ctx context.Context, name string) (*model.BotConfig, error) {
	var cfg *model.BotConfig
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		var err error
		cfg, err = s.repo.WithTx(tx).GetByName(ctx, name)
		if err != nil {
			return err
		}
		if cfg == nil {
			return apperr.NotFound("bot config %q", name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func (s *BotConfigService) UpdateConfig(ctx context.Context, id uuid.UUID, upd model.BotConfigUpdate) (*model.BotConfig, error) {
	var updated *model.BotConfig
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		existing, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return apperr.NotFound("bot config %s", id)
		}
		existing.Versions = nil

		if upd.Name != nil {
			existing.Name = *upd.Name
		}
		if upd.Status != nil {
			existing.Status = *upd.Status
		}
		if upd.Version != nil {
			existing.Version = *upd.Version
		}
		if upd.IsActive != nil {
			existing.IsActive = *upd.IsActive
		}

		updated, err = repo.Update(ctx, existing)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.observer.RecordMutation("bot_config", "update")
	return updated, nil
}

func (s *BotConfigService) DeleteConfig(ctx context.Context, id uuid.UUID) error {
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		removed, err := s.repo.WithTx(tx).Delete(ctx, id)
		if err != nil {
			return err
		}
		if !removed {
			return apperr.NotFound("bot config %s", id)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.observer.RecordMutation("bot_config", "delete")
	return nil
}

func (s *BotConfigService) GetActiveConfigs(ctx context.Context) ([]model.BotConfig, error) {
	var cfgs []model.BotConfig
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		var err error
		cfgs, err = s.repo.WithTx(tx).GetActiveConfigs(ctx)
		return err
	})
	return cfgs, err
}

func (s *BotConfigService) GetConfigsByStatus(ctx context.Context, status string) ([]model.BotConfig, error) {
	var cfgs []model.BotConfig
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		var err error
		cfgs, err = s.repo.WithTx(tx).GetByStatus(ctx, status)
		return err
	})
	return cfgs, err
}

func (s *BotConfigService) ActivateConfig(ctx context.Context, id uuid.UUID) (bool, error) {
	var flipped bool
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		var err error
		flipped, err = s.repo.WithTx(tx).ActivateConfig(ctx, id)
		return err
	})
	if err != nil {
		return false, err
	}
	if flipped {
		s.observer.RecordMutation("bot_config", "activate")
	}
	return flipped, nil
}

func (s *BotConfigService) DeactivateConfig(ctx context.Context, id uuid.UUID) (bool, error) {
	var flipped bool
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		var err error
		flipped, err = s.repo.WithTx(tx).DeactivateConfig(ctx, id)
		return err
	})
	if err != nil {
		return false, err
	}
	if flipped {
		s.observer.RecordMutation("bot_config", "deactivate")
	}
	return flipped, nil
}
