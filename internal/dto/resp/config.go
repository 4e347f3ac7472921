package resp

import (
	"time"

	"flagdeck/internal/model"

	"github.com/google/uuid"
)

type ConfigItem struct {
	ID          uuid.UUID           `json:"id"`
	Name        string              `json:"name"`
	Environment string              `json:"environment"`
	Description *string             `json:"description"`
	IsActive    bool                `json:"is_active"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	Features    []ConfigFeatureItem `json:"features,omitempty"`
	Versions    []VersionItem       `json:"versions,omitempty"`
}

type ConfigFeatureItem struct {
	ConfigID        uuid.UUID    `json:"config_id"`
	FeatureID       uuid.UUID    `json:"feature_id"`
	IsEnabled       bool         `json:"is_enabled"`
	IsFree          bool         `json:"is_free"`
	DisabledMessage *string      `json:"disabled_message"`
	CreatedAt       time.Time    `json:"created_at"`
	Feature         *FeatureItem `json:"feature,omitempty"`
}

type VersionItem struct {
	ID            int64     `json:"id"`
	ConfigID      uuid.UUID `json:"config_id"`
	VersionNumber int       `json:"version_number"`
	Changelog     *string   `json:"changelog"`
	CreatedBy     *string   `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
}

func NewConfigItem(c *model.FeatureConfig) ConfigItem {
	item := ConfigItem{
		ID:          c.ID,
		Name:        c.Name,
		Environment: c.Environment,
		Description: c.Description,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
	if len(c.Features) > 0 {
		item.Features = NewConfigFeatureItems(c.Features)
	}
	if len(c.Versions) > 0 {
		item.Versions = NewVersionItems(c.Versions)
	}
	return item
}

func NewConfigItems(cfgs []model.FeatureConfig) []ConfigItem {
	items := make([]ConfigItem, 0, len(cfgs))
	for i := range cfgs {
		items = append(items, NewConfigItem(&cfgs[i]))
	}
	return items
}

func NewConfigFeatureItem(a *model.FeatureConfigFlag) ConfigFeatureItem {
	item := ConfigFeatureItem{
		ConfigID:        a.ConfigID,
		FeatureID:       a.FeatureID,
		IsEnabled:       a.IsEnabled,
		IsFree:          a.IsFree,
		DisabledMessage: a.DisabledMessage,
		CreatedAt:       a.CreatedAt,
	}
	if a.Feature != nil {
		f := NewFeatureItem(a.Feature)
		item.Feature = &f
	}
	return item
}

func NewConfigFeatureItems(assocs []model.FeatureConfigFlag) []ConfigFeatureItem {
	items := make([]ConfigFeatureItem, 0, len(assocs))
	for i := range assocs {
		items = append(items, NewConfigFeatureItem(&assocs[i]))
	}
	return items
}

func NewVersionItem(v *model.FeatureConfigVersion) VersionItem {
	return VersionItem{
		ID:            v.ID,
		ConfigID:      v.ConfigID,
		VersionNumber: v.VersionNumber,
		Changelog:     v.Changelog,
		CreatedBy:     v.CreatedBy,
		CreatedAt:     v.CreatedAt,
	}
}

func NewVersionItems(versions []model.FeatureConfigVersion) []VersionItem {
	items := make([]VersionItem, 0, len(versions))
	for i := range versions {
		items = append(items, NewVersionItem(&versions[i]))
	}
	return items
}
