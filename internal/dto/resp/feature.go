package resp

import (
	"time"

	"flagdeck/internal/model"

	"github.com/google/uuid"
)

type FeatureItem struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewFeatureItem(f *model.FeatureFlag) FeatureItem {
	return FeatureItem{
		ID:          f.ID,
		Name:        f.Name,
		Description: f.Description,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

func NewFeatureItems(flags []model.FeatureFlag) []FeatureItem {
	items := make([]FeatureItem, 0, len(flags))
	for i := range flags {
		items = append(items, NewFeatureItem(&flags[i]))
	}
	return items
}
