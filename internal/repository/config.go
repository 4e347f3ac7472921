package repository

import (
	"context"
	"errors"

	"flagdeck/internal/apperr"
	"flagdeck/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ConfigInterface defines persistence for feature configurations.
type ConfigInterface interface {
	Add(ctx context.Context, cfg *model.FeatureConfig) (*model.FeatureConfig, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.FeatureConfig, error)
	GetPlain(ctx context.Context, id uuid.UUID) (*model.FeatureConfig, error)
	GetAll(ctx context.Context, skip, limit int) ([]model.FeatureConfig, error)
	Update(ctx context.Context, cfg *model.FeatureConfig) (*model.FeatureConfig, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	GetByNameAndEnv(ctx context.Context, name, env string) (*model.FeatureConfig, error)
	GetByEnvironment(ctx context.Context, env string) ([]model.FeatureConfig, error)
	GetActiveConfigs(ctx context.Context) ([]model.FeatureConfig, error)
	ActivateConfig(ctx context.Context, id uuid.UUID) (bool, error)
	DeactivateConfig(ctx context.Context, id uuid.UUID) (bool, error)
	WithTx(tx *gorm.DB) ConfigInterface
}

// ConfigRepository is the gorm implementation of ConfigInterface.
type ConfigRepository struct {
	db *gorm.DB
}

func NewConfigRepository(db *gorm.DB) *ConfigRepository {
	return &ConfigRepository{db: db}
}

func (r *ConfigRepository) WithTx(tx *gorm.DB) ConfigInterface {
	return &ConfigRepository{db: tx}
}

func (r *ConfigRepository) Add(ctx context.Context, cfg *model.FeatureConfig) (*model.FeatureConfig, error) {
	existing, err := r.GetByNameAndEnv(ctx, cfg.Name, cfg.Environment)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.AlreadyExists("feature config %q in environment %q", cfg.Name, cfg.Environment)
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(cfg).Error; err != nil {
		return nil, apperr.FromDB(err)
	}
	return cfg, nil
}

// GetByID loads the full aggregate: flag associations with their flag
// metadata, and the version history newest first.
func (r *ConfigRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.FeatureConfig, error) {
	var cfg model.FeatureConfig
	err := r.db.WithContext(ctx).
		Preload("Features.Feature").
		Preload("Versions", func(db *gorm.DB) *gorm.DB {
			return db.Order("version_number DESC")
		}).
		Where("id = ?", id).
		First(&cfg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cfg, nil
}

// GetPlain loads the config row only, without associations. Used on update
// paths where the aggregate would be written back by Save.
func (r *ConfigRepository) GetPlain(ctx context.Context, id uuid.UUID) (*model.FeatureConfig, error) {
	var cfg model.FeatureConfig
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&cfg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cfg, nil
}

func (r *ConfigRepository) GetAll(ctx context.Context, skip, limit int) ([]model.FeatureConfig, error) {
	var cfgs []model.FeatureConfig
	err := r.db.WithContext(ctx).
		Preload("Versions", func(db *gorm.DB) *gorm.DB {
			return db.Order("version_number DESC")
		}).
		Offset(skip).Limit(limit).
		Order("updated_at DESC").
		Find(&cfgs).Error
	return cfgs, err
}

func (r *ConfigRepository) Update(ctx context.Context, cfg *model.FeatureConfig) (*model.FeatureConfig, error) {
	existing, err := r.GetPlain(ctx, cfg.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperr.NotFound("feature config %s", cfg.ID)
	}

	var conflict int64
	if err := r.db.WithContext(ctx).Model(&model.FeatureConfig{}).
		Where("name = ? AND environment = ? AND id <> ?", cfg.Name, cfg.Environment, cfg.ID).
		Count(&conflict).Error; err != nil {
		return nil, err
	}
	if conflict > 0 {
		return nil, apperr.AlreadyExists("feature config %q in environment %q", cfg.Name, cfg.Environment)
	}

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(cfg).Error; err != nil {
		return nil, apperr.FromDB(err)
	}
	return cfg, nil
}

func (r *ConfigRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.FeatureConfig{})
	if res.Error != nil {
		return false, apperr.FromDB(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *ConfigRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.FeatureConfig{}).
		Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *ConfigRepository) GetByNameAndEnv(ctx context.Context, name, env string) (*model.FeatureConfig, error) {
	var cfg model.FeatureConfig
	err := r.db.WithContext(ctx).
		Where("name = ? AND environment = ?", name, env).
		First(&cfg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cfg, nil
}

func (r *ConfigRepository) GetByEnvironment(ctx context.Context, env string) ([]model.FeatureConfig, error) {
	var cfgs []model.FeatureConfig
	err := r.db.WithContext(ctx).
		Where("environment = ?", env).
		Order("updated_at DESC").
		Find(&cfgs).Error
	return cfgs, err
}

func (r *ConfigRepository) GetActiveConfigs(ctx context.Context) ([]model.FeatureConfig, error) {
	var cfgs []model.FeatureConfig
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("updated_at DESC").
		Find(&cfgs).Error
	return cfgs, err
}

// ActivateConfig flips is_active to true. Idempotent: returns false when the
// config is missing or already active, so the caller can skip versioning.
func (r *ConfigRepository) ActivateConfig(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.FeatureConfig{}).
		Where("id = ? AND is_active = ?", id, false).
		Update("is_active", true)
	if res.Error != nil {
		return false, apperr.FromDB(res.Error)
	}
	return res.RowsAffected > 0, nil
}

// DeactivateConfig is the inverse flip of ActivateConfig.
func (r *ConfigRepository) DeactivateConfig(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.FeatureConfig{}).
		Where("id = ? AND is_active = ?", id, true).
		Update("is_active", false)
	if res.Error != nil {
		return false, apperr.FromDB(res.Error)
	}
	return res.RowsAffected > 0, nil
}
