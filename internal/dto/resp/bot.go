package resp

import (
	"time"

	"flagdeck/internal/model"

	"github.com/google/uuid"
)

type BotConfigItem struct {
	ID        uuid.UUID              `json:"id"`
	Name      string                 `json:"name"`
	Status    string                 `json:"status"`
	Version   string                 `json:"version"`
	IsActive  bool                   `json:"is_active"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
	Versions  []BotConfigVersionItem `json:"versions,omitempty"`
}

type BotConfigVersionItem struct {
	ID        int64     `json:"id"`
	ConfigID  uuid.UUID `json:"config_id"`
	Changelog *string   `json:"changelog"`
	CreatedAt time.Time `json:"created_at"`
}

func NewBotConfigItem(c *model.BotConfig) BotConfigItem {
	item := BotConfigItem{
		ID:        c.ID,
		Name:      c.Name,
		Status:    c.Status,
		Version:   c.Version,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	for i := range c.Versions {
		v := &c.Versions[i]
		item.Versions = append(item.Versions, BotConfigVersionItem{
			ID:        v.ID,
			ConfigID:  v.ConfigID,
			Changelog: v.Changelog,
			CreatedAt: v.CreatedAt,
		})
	}
	return item
}

func NewBotConfigItems(cfgs []model.BotConfig) []BotConfigItem {
	items := make([]BotConfigItem, 0, len(cfgs))
	for i := range cfgs {
		items = append(items, NewBotConfigItem(&cfgs[i]))
	}
	return items
}
