package service

import (
	"context"
	"fmt"

	"flagdeck/internal/apperr"
	"flagdeck/internal/metrics"
	"flagdeck/internal/model"
	"flagdeck/internal/repository"
	"flagdeck/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Changelog lines written for automatic versions.
const (
	changelogInitial     = "Initial version"
	changelogUpdated     = "Configuration updated"
	changelogActivated   = "Configuration activated"
	changelogDeactivated = "Configuration deactivated"
)

// ConfigFlagParams carries the association fields for AddFeatureToConfig.
type ConfigFlagParams struct {
	FeatureID       uuid.UUID
	IsEnabled       bool
	IsFree          bool
	DisabledMessage *string
}

// ConfigProvider is the feature-config service contract consumed by the
// HTTP boundary.
type ConfigProvider interface {
	CreateConfig(ctx context.Context, name, environment string, description *string, isActive bool) (*model.FeatureConfig, error)
	ListConfigs(ctx context.Context, skip, limit int) ([]model.FeatureConfig, error)
	GetConfig(ctx context.Context, id uuid.UUID) (*model.FeatureConfig, error)
	UpdateConfig(ctx context.Context, id uuid.UUID, upd model.FeatureConfigUpdate) (*model.FeatureConfig, error)
	DeleteConfig(ctx context.Context, id uuid.UUID) error
	GetConfigsByEnvironment(ctx context.Context, env string) ([]model.FeatureConfig, error)
	GetActiveConfigs(ctx context.Context) ([]model.FeatureConfig, error)
	ActivateConfig(ctx context.Context, id uuid.UUID) (bool, error)
	DeactivateConfig(ctx context.Context, id uuid.UUID) (bool, error)
	AddFeatureToConfig(ctx context.Context, configID uuid.UUID, params ConfigFlagParams) (*model.FeatureConfig, error)
	RemoveFeatureFromConfig(ctx context.Context, configID, featureID uuid.UUID) (bool, error)
	UpdateConfigFeature(ctx context.Context, configID, featureID uuid.UUID, upd model.ConfigFlagUpdate) (*model.FeatureConfigFlag, error)
	GetConfigFeatures(ctx context.Context, configID uuid.UUID) ([]model.FeatureConfigFlag, error)
	CreateConfigVersion(ctx context.Context, configID uuid.UUID, changelog, createdBy *string) (*model.FeatureConfigVersion, error)
	GetConfigVersions(ctx context.Context, configID uuid.UUID) ([]model.FeatureConfigVersion, error)
}

// ConfigService orchestrates the config, association and version
// repositories. Every state-changing operation runs in one unit of work and,
// on success, appends exactly one version row documenting the change;
// no-op flips and absent targets append nothing.
type ConfigService struct {
	uow         *repository.UnitOfWork
	configRepo  repository.ConfigInterface
	flagRepo    repository.ConfigFlagInterface
	versionRepo repository.VersionInterface
	observer    metrics.Observer
}

func NewConfigService(
	uow *repository.UnitOfWork,
	configRepo repository.ConfigInterface,
	flagRepo repository.ConfigFlagInterface,
	versionRepo repository.VersionInterface,
	observer metrics.Observer,
) *ConfigService {
	return &ConfigService{
		uow:         uow,
		configRepo:  configRepo,
		flagRepo:    flagRepo,
		versionRepo: versionRepo,
		observer:    observer,
	}
}

func (s *ConfigService) appendVersion(ctx context.Context, tx *gorm.DB, configID uuid.UUID, changelog string) error {
	operator := GetOperator(ctx)
	_, err := s.versionRepo.WithTx(tx).CreateVersion(ctx, configID, &changelog, &operator)
	if err != nil {
		return err
	}
	s.observer.RecordVersion()
	return nil
}

func (s *ConfigService) CreateConfig(ctx context.Context, name, environment string, description *string, isActive bool) (*model.FeatureConfig, error) {
	var created *model.FeatureConfig
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		cfg := &model.FeatureConfig{
			Name:        name,
			Environment: environment,
			Description: description,
			IsActive:    isActive,
		}
		var err error
		created, err = s.configRepo.WithTx(tx).Add(ctx, cfg)
		if err != nil {
			return err
		}
		return s.appendVersion(ctx, tx, created.ID, changelogInitial)
	})
	if err != nil {
		return nil, err
	}
	s.observer.RecordMutation("feature_config", "create")
	return created, nil
}

func (s *ConfigService) ListConfigs(ctx context.Context, skip, limit int) ([]model.FeatureConfig, error) {
	var cfgs []model.FeatureConfig
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		var err error
		cfgs, err = s.configRepo.WithTx(tx).GetAll(ctx, skip, limit)
		return err
	})
	return cfgs, err
}

// GetConfig returns the full aggregate: associations with flag metadata and
// the version history, in one read.
func (s *ConfigService) GetConfig(ctx context.Context, id uuid.UUID) (*model.FeatureConfig, error) {
	var cfg *model.FeatureConfig
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		var err error
		cfg, err = s.configRepo.WithTx(tx).GetByID(ctx, id)
		if err != nil {
			return err
		}
		if cfg == nil {
			return apperr.NotFound("feature config %s", id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func (s *ConfigService) UpdateConfig(ctx context.Context, id uuid.UUID, upd model.FeatureConfigUpdate) (*model.FeatureConfig, error) {
	var updated *model.FeatureConfig
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		repo := s.configRepo.WithTx(tx)

		cfg, err := repo.GetPlain(ctx, id)
		if err != nil {
			return err
		}
		if cfg == nil {
			return apperr.NotFound("feature config %s", id)
		}

		if upd.Name != nil {
			cfg.Name = *upd.Name
		}
		if upd.Description != nil {
			cfg.Description = upd.Description
		}
		if upd.IsActive != nil {
			cfg.IsActive = *upd.IsActive
		}

		updated, err = repo.Update(ctx, cfg)
		if err != nil {
			return err
		}
		return s.appendVersion(ctx, tx, id, changelogUpdated)
	})
	if err != nil {
		return nil, err
	}
	s.observer.RecordMutation("feature_config", "update")
	return updated, nil
}

func (s *ConfigService) DeleteConfig(ctx context.Context, id uuid.UUID) error {
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		removed, err := s.configRepo.WithTx(tx).Delete(ctx, id)
		if err != nil {
			return err
		}
		if !removed {
			return apperr.NotFound("feature config %s", id)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.observer.RecordMutation("feature_config", "delete")
	return nil
}

func (s *ConfigService) GetConfigsByEnvironment(ctx context.Context, env string) ([]model.FeatureConfig, error) {
	var cfgs []model.FeatureConfig
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		var err error
		cfgs, err = s.configRepo.WithTx(tx).GetByEnvironment(ctx, env)
		return err
	})
	return cfgs, err
}

func (s *ConfigService) GetActiveConfigs(ctx context.Context) ([]model.FeatureConfig, error) {
	var cfgs []model.FeatureConfig
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		var err error
		cfgs, err = s.configRepo.WithTx(tx).GetActiveConfigs(ctx)
		return err
	})
	return cfgs, err
}

// ActivateConfig flips is_active on and appends a version only when the
// flip actually changed state. The false return covers both missing and
// already-active configs.
func (s *ConfigService) ActivateConfig(ctx context.Context, id uuid.UUID) (bool, error) {
	var flipped bool
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		var err error
		flipped, err = s.configRepo.WithTx(tx).ActivateConfig(ctx, id)
		if err != nil {
			return err
		}
		if !flipped {
			return nil
		}
		return s.appendVersion(ctx, tx, id, changelogActivated)
	})
	if err != nil {
		return false, err
	}
	if flipped {
		s.observer.RecordMutation("feature_config", "activate")
	}
	return flipped, nil
}

func (s *ConfigService) DeactivateConfig(ctx context.Context, id uuid.UUID) (bool, error) {
	var flipped bool
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		var err error
		flipped, err = s.configRepo.WithTx(tx).DeactivateConfig(ctx, id)
		if err != nil {
			return err
		}
		if !flipped {
			return nil
		}
		return s.appendVersion(ctx, tx, id, changelogDeactivated)
	})
	if err != nil {
		return false, err
	}
	if flipped {
		s.observer.RecordMutation("feature_config", "deactivate")
	}
	return flipped, nil
}

// AddFeatureToConfig attaches a flag to the config and returns the full
// reloaded aggregate so callers observe the post-mutation state.
func (s *ConfigService) AddFeatureToConfig(ctx context.Context, configID uuid.UUID, params ConfigFlagParams) (*model.FeatureConfig, error) {
	var cfg *model.FeatureConfig
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		configRepo := s.configRepo.WithTx(tx)

		exists, err := configRepo.Exists(ctx, configID)
		if err != nil {
			return err
		}
		if !exists {
			return apperr.NotFound("feature config %s", configID)
		}

		assoc := &model.FeatureConfigFlag{
			ConfigID:        configID,
			FeatureID:       params.FeatureID,
			IsEnabled:       params.IsEnabled,
			IsFree:          params.IsFree,
			DisabledMessage: params.DisabledMessage,
		}
		if _, err := s.flagRepo.WithTx(tx).AddFeature(ctx, assoc); err != nil {
			return err
		}

		changelog := fmt.Sprintf("Feature %s added to configuration", params.FeatureID)
		if err := s.appendVersion(ctx, tx, configID, changelog); err != nil {
			return err
		}

		cfg, err = configRepo.GetByID(ctx, configID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.observer.RecordMutation("feature_config", "add_feature")
	return cfg, nil
}

func (s *ConfigService) RemoveFeatureFromConfig(ctx context.Context, configID, featureID uuid.UUID) (bool, error) {
	var removed bool
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		var err error
		removed, err = s.flagRepo.WithTx(tx).RemoveFeature(ctx, configID, featureID)
		if err != nil {
			return err
		}
		if !removed {
			return nil
		}
		changelog := fmt.Sprintf("Feature %s removed from configuration", featureID)
		return s.appendVersion(ctx, tx, configID, changelog)
	})
	if err != nil {
		return false, err
	}
	if removed {
		s.observer.RecordMutation("feature_config", "remove_feature")
	}
	return removed, nil
}

func (s *ConfigService) UpdateConfigFeature(ctx context.Context, configID, featureID uuid.UUID, upd model.ConfigFlagUpdate) (*model.FeatureConfigFlag, error) {
	var updated *model.FeatureConfigFlag
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		var err error
		updated, err = s.flagRepo.WithTx(tx).UpdateFeature(ctx, configID, featureID, upd)
		if err != nil {
			return err
		}
		if updated == nil {
			return apperr.NotFound("feature %s in config %s", featureID, configID)
		}
		changelog := fmt.Sprintf("Feature %s updated in configuration", featureID)
		return s.appendVersion(ctx, tx, configID, changelog)
	})
	if err != nil {
		return nil, err
	}
	s.observer.RecordMutation("feature_config", "update_feature")
	return updated, nil
}

func (s *ConfigService) GetConfigFeatures(ctx context.Context, configID uuid.UUID) ([]model.FeatureConfigFlag, error) {
	var assocs []model.FeatureConfigFlag
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		var err error
		assocs, err = s.flagRepo.WithTx(tx).GetFeatures(ctx, configID)
		return err
	})
	return assocs, err
}

// CreateConfigVersion appends an explicitly requested version row. When
// createdBy is nil the operator from the context is recorded.
func (s *ConfigService) CreateConfigVersion(ctx context.Context, configID uuid.UUID, changelog, createdBy *string) (*model.FeatureConfigVersion, error) {
	if createdBy == nil {
		operator := GetOperator(ctx)
		createdBy = &operator
	}
	var version *model.FeatureConfigVersion
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		var err error
		version, err = s.versionRepo.WithTx(tx).CreateVersion(ctx, configID, changelog, createdBy)
		return err
	})
	if err != nil {
		if apperr.IsConflict(err) {
			logger.Warn("version number conflict", zap.String("config_id", configID.String()), zap.Error(err))
		}
		return nil, err
	}
	s.observer.RecordVersion()
	return version, nil
}

func (s *ConfigService) GetConfigVersions(ctx context.Context, configID uuid.UUID) ([]model.FeatureConfigVersion, error) {
	var versions []model.FeatureConfigVersion
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		var err error
		versions, err = s.versionRepo.WithTx(tx).GetVersions(ctx, configID)
		return err
	})
	return versions, err
}
