package req

type CreateBotConfigRequest struct {
	Name     string  `json:"name" binding:"required,min=1,max=64"`
	Status   *string `json:"status" binding:"omitempty,max=32"`
	Version  *string `json:"version" binding:"omitempty,max=32"`
	IsActive bool    `json:"is_active"`
}

type UpdateBotConfigRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1,max=64"`
	Status   *string `json:"status" binding:"omitempty,max=32"`
	Version  *string `json:"version" binding:"omitempty,max=32"`
	IsActive *bool   `json:"is_active"`
}
