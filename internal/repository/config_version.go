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

// VersionInterface defines persistence for the append-only config version
// history. Rows are never updated or deleted here.
type VersionInterface interface {
	CreateVersion(ctx context.Context, configID uuid.UUID, changelog, createdBy *string) (*model.FeatureConfigVersion, error)
	GetVersions(ctx context.Context, configID uuid.UUID) ([]model.FeatureConfigVersion, error)
	GetLatest(ctx context.Context, configID uuid.UUID) (*model.FeatureConfigVersion, error)
	WithTx(tx *gorm.DB) VersionInterface
}

// VersionRepository is the gorm implementation of VersionInterface.
type VersionRepository struct {
	db *gorm.DB
}

func NewVersionRepository(db *gorm.DB) *VersionRepository {
	return &VersionRepository{db: db}
}

func (r *VersionRepository) WithTx(tx *gorm.DB) VersionInterface {
	return &VersionRepository{db: tx}
}

// CreateVersion computes version_number as 1 + the current max for this
// config and inserts the row. The parent config row is locked FOR UPDATE
// first so concurrent writers within the same config serialize on the
// read-then-insert; the unique (config_id, version_number) index is the
// backstop and surfaces as a conflict if it ever fires.
func (r *VersionRepository) CreateVersion(ctx context.Context, configID uuid.UUID, changelog, createdBy *string) (*model.FeatureConfigVersion, error) {
	q := r.db.WithContext(ctx).Model(&model.FeatureConfig{}).Where("id = ?", configID)
	if r.db.Dialector.Name() == "mysql" {
		// sqlite has no row locks; the unique index alone serializes there
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var parent model.FeatureConfig
	if err := q.First(&parent).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("feature config %s", configID)
		}
		return nil, err
	}

	latest, err := r.GetLatest(ctx, configID)
	if err != nil {
		return nil, err
	}
	number := 1
	if latest != nil {
		number = latest.VersionNumber + 1
	}

	version := &model.FeatureConfigVersion{
		ConfigID:      configID,
		VersionNumber: number,
		Changelog:     changelog,
		CreatedBy:     createdBy,
	}
	if err := r.db.WithContext(ctx).Create(version).Error; err != nil {
		return nil, apperr.FromDB(err)
	}
	return version, nil
}

func (r *VersionRepository) GetVersions(ctx context.Context, configID uuid.UUID) ([]model.FeatureConfigVersion, error) {
	var versions []model.FeatureConfigVersion
	err := r.db.WithContext(ctx).
		Where("config_id = ?", configID).
		Order("version_number DESC").
		Find(&versions).Error
	return versions, err
}

func (r *VersionRepository) GetLatest(ctx context.Context, configID uuid.UUID) (*model.FeatureConfigVersion, error) {
	var version model.FeatureConfigVersion
	err := r.db.WithContext(ctx).
		Where("config_id = ?", configID).
		Order("version_number DESC").
		First(&version).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &version, nil
}
