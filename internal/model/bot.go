package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Bot config lifecycle statuses.
const (
	BotStatusDraft    = "draft"
	BotStatusReady    = "ready"
	BotStatusArchived = "archived"
)

// BotConfig is the simpler sibling of FeatureConfig: one named bot
// deployment configuration with an append-only version history.
type BotConfig struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	Name      string    `gorm:"size:64;uniqueIndex;not null" json:"name"`
	Status    string    `gorm:"size:32" json:"status"`
	Version   string    `gorm:"size:32" json:"version"`
	IsActive  bool      `gorm:"default:false" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Versions []BotConfigVersion `gorm:"foreignKey:ConfigID;constraint:OnDelete:CASCADE" json:"versions,omitempty"`
}

func (c *BotConfig) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// BotConfigVersion is an immutable snapshot marker for a bot config.
type BotConfigVersion struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ConfigID  uuid.UUID `gorm:"type:char(36);not null;index" json:"config_id"`
	Changelog *string   `gorm:"type:text" json:"changelog"`
	CreatedAt time.Time `json:"created_at"`
}
