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

// FlagInterface defines persistence for feature flags.
type FlagInterface interface {
	Add(ctx context.Context, flag *model.FeatureFlag) (*model.FeatureFlag, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.FeatureFlag, error)
	GetByName(ctx context.Context, name string) (*model.FeatureFlag, error)
	GetAll(ctx context.Context, skip, limit int) ([]model.FeatureFlag, error)
	Update(ctx context.Context, flag *model.FeatureFlag) (*model.FeatureFlag, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	PingContext(ctx context.Context) error
	WithTx(tx *gorm.DB) FlagInterface
}

// FlagRepository is the gorm implementation of FlagInterface.
type FlagRepository struct {
	db *gorm.DB
}

func NewFlagRepository(db *gorm.DB) *FlagRepository {
	return &FlagRepository{db: db}
}

func (r *FlagRepository) WithTx(tx *gorm.DB) FlagInterface {
	return &FlagRepository{db: tx}
}

func (r *FlagRepository) PingContext(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *FlagRepository) Add(ctx context.Context, flag *model.FeatureFlag) (*model.FeatureFlag, error) {
	existing, err := r.GetByName(ctx, flag.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.AlreadyExists("feature flag with name %q", flag.Name)
	}
	if err := r.db.WithContext(ctx).Create(flag).Error; err != nil {
		return nil, apperr.FromDB(err)
	}
	return flag, nil
}

func (r *FlagRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.FeatureFlag, error) {
	var flag model.FeatureFlag
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&flag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &flag, nil
}

func (r *FlagRepository) GetByName(ctx context.Context, name string) (*model.FeatureFlag, error) {
	var flag model.FeatureFlag
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&flag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &flag, nil
}

func (r *FlagRepository) GetAll(ctx context.Context, skip, limit int) ([]model.FeatureFlag, error) {
	var flags []model.FeatureFlag
	err := r.db.WithContext(ctx).
		Offset(skip).Limit(limit).
		Order("updated_at DESC").
		Find(&flags).Error
	return flags, err
}

func (r *FlagRepository) Update(ctx context.Context, flag *model.FeatureFlag) (*model.FeatureFlag, error) {
	existing, err := r.GetByID(ctx, flag.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperr.NotFound("feature flag %s", flag.ID)
	}

	var conflict int64
	if err := r.db.WithContext(ctx).Model(&model.FeatureFlag{}).
		Where("name = ? AND id <> ?", flag.Name, flag.ID).
		Count(&conflict).Error; err != nil {
		return nil, err
	}
	if conflict > 0 {
		return nil, apperr.AlreadyExists("feature flag with name %q", flag.Name)
	}

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(flag).Error; err != nil {
		return nil, apperr.FromDB(err)
	}
	return flag, nil
}

func (r *FlagRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.FeatureFlag{})
	if res.Error != nil {
		return false, apperr.FromDB(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *FlagRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.FeatureFlag{}).
		Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
