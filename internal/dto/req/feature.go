package req

type CreateFeatureRequest struct {
	Name        string  `json:"name" binding:"required,min=1,max=64"`
	Description *string `json:"description" binding:"omitempty,max=256"`
}

type UpdateFeatureRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=64"`
	Description *string `json:"description" binding:"omitempty,max=256"`
}

type ListRequest struct {
	Skip  int `form:"skip,default=0" binding:"min=0"`
	Limit int `form:"limit,default=100" binding:"min=1,max=500"`
}
