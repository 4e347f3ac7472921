package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Environments a feature configuration can target.
const (
	EnvDevelopment = "development"
	EnvTesting     = "testing"
	EnvProduction  = "production"
)

// ValidEnvironment reports whether env is one of the known environments.
func ValidEnvironment(env string) bool {
	switch env {
	case EnvDevelopment, EnvTesting, EnvProduction:
		return true
	}
	return false
}

// FeatureFlag is a named toggle-able capability, independent of environment.
type FeatureFlag struct {
	ID          uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	Name        string    `gorm:"size:64;uniqueIndex;not null" json:"name"`
	Description *string   `gorm:"size:256" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (f *FeatureFlag) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// FeatureConfig holds the flag settings for one environment. The (name,
// environment) pair is unique; a config owns its flag associations and its
// append-only version history.
type FeatureConfig struct {
	ID          uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	Name        string    `gorm:"size:64;not null;uniqueIndex:uix_config_name_env" json:"name"`
	Environment string    `gorm:"size:32;not null;uniqueIndex:uix_config_name_env" json:"environment"`
	Description *string   `gorm:"size:256" json:"description"`
	IsActive    bool      `gorm:"default:false" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Features []FeatureConfigFlag    `gorm:"foreignKey:ConfigID;constraint:OnDelete:CASCADE" json:"features,omitempty"`
	Versions []FeatureConfigVersion `gorm:"foreignKey:ConfigID;constraint:OnDelete:CASCADE" json:"versions,omitempty"`
}

func (c *FeatureConfig) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// FeatureConfigFlag links a flag into a config with per-environment
// overrides. One row per (config, feature) pair.
type FeatureConfigFlag struct {
	ConfigID        uuid.UUID `gorm:"type:char(36);primaryKey" json:"config_id"`
	FeatureID       uuid.UUID `gorm:"type:char(36);primaryKey" json:"feature_id"`
	IsEnabled       bool      `gorm:"default:false" json:"is_enabled"`
	IsFree          bool      `gorm:"default:false" json:"is_free"`
	DisabledMessage *string   `gorm:"size:256" json:"disabled_message"`
	CreatedAt       time.Time `json:"created_at"`

	Feature *FeatureFlag `gorm:"foreignKey:FeatureID;constraint:OnDelete:CASCADE" json:"feature,omitempty"`
}

// FeatureConfigVersion is an immutable audit marker for one config change.
// version_number starts at 1 and is strictly increasing per config; rows are
// never updated or deleted except by cascade from their config.
type FeatureConfigVersion struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ConfigID      uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:uix_config_version" json:"config_id"`
	VersionNumber int       `gorm:"not null;uniqueIndex:uix_config_version" json:"version_number"`
	Changelog     *string   `gorm:"type:text" json:"changelog"`
	CreatedBy     *string   `gorm:"size:64" json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
}
