package req

type CreateConfigRequest struct {
	Name        string  `json:"name" binding:"required,min=1,max=64"`
	Environment string  `json:"environment" binding:"required,oneof=development testing production"`
	Description *string `json:"description" binding:"omitempty,max=256"`
	IsActive    bool    `json:"is_active"`
}

type UpdateConfigRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=64"`
	Description *string `json:"description" binding:"omitempty,max=256"`
	IsActive    *bool   `json:"is_active"`
}

type AddConfigFeatureRequest struct {
	FeatureID       string  `json:"feature_id" binding:"required,uuid"`
	IsEnabled       bool    `json:"is_enabled"`
	IsFree          bool    `json:"is_free"`
	DisabledMessage *string `json:"disabled_message" binding:"omitempty,max=256"`
}

type UpdateConfigFeatureRequest struct {
	IsEnabled       *bool   `json:"is_enabled"`
	IsFree          *bool   `json:"is_free"`
	DisabledMessage *string `json:"disabled_message" binding:"omitempty,max=256"`
}

type CreateConfigVersionRequest struct {
	Changelog *string `json:"changelog"`
	CreatedBy *string `json:"created_by" binding:"omitempty,max=64"`
}
