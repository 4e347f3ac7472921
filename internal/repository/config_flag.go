package repository

import (
	"context"
	"errors"

	"flagdeck/internal/apperr"
	"flagdeck/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ConfigFlagInterface defines persistence for the config-to-flag
// association rows. Reads always carry the flag's identity and metadata.
type ConfigFlagInterface interface {
	AddFeature(ctx context.Context, assoc *model.FeatureConfigFlag) (*model.FeatureConfigFlag, error)
	RemoveFeature(ctx context.Context, configID, featureID uuid.UUID) (bool, error)
	UpdateFeature(ctx context.Context, configID, featureID uuid.UUID, upd model.ConfigFlagUpdate) (*model.FeatureConfigFlag, error)
	GetFeatures(ctx context.Context, configID uuid.UUID) ([]model.FeatureConfigFlag, error)
	GetFeature(ctx context.Context, configID, featureID uuid.UUID) (*model.FeatureConfigFlag, error)
	WithTx(tx *gorm.DB) ConfigFlagInterface
}

// ConfigFlagRepository is the gorm implementation of ConfigFlagInterface.
type ConfigFlagRepository struct {
	db *gorm.DB
}

func NewConfigFlagRepository(db *gorm.DB) *ConfigFlagRepository {
	return &ConfigFlagRepository{db: db}
}

func (r *ConfigFlagRepository) WithTx(tx *gorm.DB) ConfigFlagInterface {
	return &ConfigFlagRepository{db: tx}
}

func (r *ConfigFlagRepository) AddFeature(ctx context.Context, assoc *model.FeatureConfigFlag) (*model.FeatureConfigFlag, error) {
	existing, err := r.GetFeature(ctx, assoc.ConfigID, assoc.FeatureID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.AlreadyExists("feature %s in config %s", assoc.FeatureID, assoc.ConfigID)
	}
	if err := r.db.WithContext(ctx).Omit("Feature").Create(assoc).Error; err != nil {
		return nil, apperr.FromDB(err)
	}
	return r.GetFeature(ctx, assoc.ConfigID, assoc.FeatureID)
}

func (r *ConfigFlagRepository) RemoveFeature(ctx context.Context, configID, featureID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("config_id = ? AND feature_id = ?", configID, featureID).
		Delete(&model.FeatureConfigFlag{})
	if res.Error != nil {
		return false, apperr.FromDB(res.Error)
	}
	return res.RowsAffected > 0, nil
}

// UpdateFeature applies only the fields set in upd. Returns nil when the
// pair does not exist.
func (r *ConfigFlagRepository) UpdateFeature(ctx context.Context, configID, featureID uuid.UUID, upd model.ConfigFlagUpdate) (*model.FeatureConfigFlag, error) {
	updates := map[string]any{}
	if upd.IsEnabled != nil {
		updates["is_enabled"] = *upd.IsEnabled
	}
	if upd.IsFree != nil {
		updates["is_free"] = *upd.IsFree
	}
	if upd.DisabledMessage != nil {
		updates["disabled_message"] = *upd.DisabledMessage
	}

	if len(updates) > 0 {
		res := r.db.WithContext(ctx).Model(&model.FeatureConfigFlag{}).
			Where("config_id = ? AND feature_id = ?", configID, featureID).
			Updates(updates)
		if res.Error != nil {
			return nil, apperr.FromDB(res.Error)
		}
		if res.RowsAffected == 0 {
			// distinguish missing pair from no-op value match
			existing, err := r.GetFeature(ctx, configID, featureID)
			if err != nil || existing == nil {
				return nil, err
			}
		}
	}
	return r.GetFeature(ctx, configID, featureID)
}

func (r *ConfigFlagRepository) GetFeatures(ctx context.Context, configID uuid.UUID) ([]model.FeatureConfigFlag, error) {
	var assocs []model.FeatureConfigFlag
	err := r.db.WithContext(ctx).
		Preload("Feature").
		Where("config_id = ?", configID).
		Order("created_at ASC").
		Find(&assocs).Error
	return assocs, err
}

func (r *ConfigFlagRepository) GetFeature(ctx context.Context, configID, featureID uuid.UUID) (*model.FeatureConfigFlag, error) {
	var assoc model.FeatureConfigFlag
	err := r.db.WithContext(ctx).
		Preload("Feature").
		Where("config_id = ? AND feature_id = ?", configID, featureID).
		First(&assoc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &assoc, nil
}
