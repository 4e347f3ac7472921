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

// BotConfigInterface defines persistence for bot configurations.
type BotConfigInterface interface {
	Add(ctx context.Context, cfg *model.BotConfig) (*model.BotConfig, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.BotConfig, error)
	GetByName(ctx context.Context, name string) (*model.BotConfig, error)
	GetAll(ctx context.Context, skip, limit int) ([]model.BotConfig, error)
	Update(ctx context.Context, cfg *model.BotConfig) (*model.BotConfig, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	GetActiveConfigs(ctx context.Context) ([]model.BotConfig, error)
	GetByStatus(ctx context.Context, status string) ([]model.BotConfig, error)
	ActivateConfig(ctx context.Context, id uuid.UUID) (bool, error)
	DeactivateConfig(ctx context.Context, id uuid.UUID) (bool, error)
	CreateVersion(ctx context.Context, configID uuid.UUID, changelog *string) (*model.BotConfigVersion, error)
	WithTx(tx *gorm.DB) BotConfigInterface
}

// BotConfigRepository is the gorm implementation of BotConfigInterface.
type BotConfigRepository struct {
	db *gorm.DB
}

func NewBotConfigRepository(db *gorm.DB) *BotConfigRepository {
	return &BotConfigRepository{db: db}
}

func (r *BotConfigRepository) WithTx(tx *gorm.DB) BotConfigInterface {
	return &BotConfigRepository{db: tx}
}

func (r *BotConfigRepository) Add(ctx context.Context, cfg *model.BotConfig) (*model.BotConfig, error) {
	existing, err := r.GetByName(ctx, cfg.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.AlreadyExists("bot config with name %q", cfg.Name)
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(cfg).Error; err != nil {
		return nil, apperr.FromDB(err)
	}
	return cfg, nil
}

func (r *BotConfigRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.BotConfig, error) {
	var cfg model.BotConfig
	err := r.db.WithContext(ctx).
		Preload("Versions", func(db *gorm.DB) *gorm.DB {
			return db.Order("id DESC")
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

func (r *BotConfigRepository) GetByName(ctx context.Context, name string) (*model.BotConfig, error) {
	var cfg model.BotConfig
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&cfg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cfg, nil
}

func (r *BotConfigRepository) GetAll(ctx context.Context, skip, limit int) ([]model.BotConfig, error) {
	var cfgs []model.BotConfig
	err := r.db.WithContext(ctx).
		Offset(skip).Limit(limit).
		Order("updated_at DESC").
		Find(&cfgs).Error
	return cfgs, err
}

func (r *BotConfigRepository) Update(ctx context.Context, cfg *model.BotConfig) (*model.BotConfig, error) {
	existing, err := r.GetByName(ctx, cfg.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.ID != cfg.ID {
		return nil, apperr.AlreadyExists("bot config with name %q", cfg.Name)
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&model.BotConfig{}).
		Where("id = ?", cfg.ID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, apperr.NotFound("bot config %s", cfg.ID)
	}

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(cfg).Error; err != nil {
		return nil, apperr.FromDB(err)
	}
	return cfg, nil
}

func (r *BotConfigRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.BotConfig{})
	if res.Error != nil {
		return false, apperr.FromDB(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *BotConfigRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.BotConfig{}).
		Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *BotConfigRepository) GetActiveConfigs(ctx context.Context) ([]model.BotConfig, error) {
	var cfgs []model.BotConfig
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("updated_at DESC").
		Find(&cfgs).Error
	return cfgs, err
}

func (r *BotConfigRepository) GetByStatus(ctx context.Context, status string) ([]model.BotConfig, error) {
	var cfgs []model.BotConfig
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("updated_at DESC").
		Find(&cfgs).Error
	return cfgs, err
}

func (r *BotConfigRepository) ActivateConfig(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.BotConfig{}).
		Where("id = ? AND is_active = ?", id, false).
		Update("is_active", true)
	if res.Error != nil {
		return false, apperr.FromDB(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *BotConfigRepository) DeactivateConfig(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.BotConfig{}).
		Where("id = ? AND is_active = ?", id, true).
		Update("is_active", false)
	if res.Error != nil {
		return false, apperr.FromDB(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *BotConfigRepository) CreateVersion(ctx context.Context, configID uuid.UUID, changelog *string) (*model.BotConfigVersion, error) {
	version := &model.BotConfigVersion{
		ConfigID:  configID,
		Changelog: changelog,
	}
	if err := r.db.WithContext(ctx).Create(version).Error; err != nil {
		return nil, apperr.FromDB(err)
	}
	return version, nil
}
