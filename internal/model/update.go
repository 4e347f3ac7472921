package model

// Partial-update value objects. Only non-nil fields are applied.

type FeatureFlagUpdate struct {
	Name        *string
	Description *string
}

type FeatureConfigUpdate struct {
	Name        *string
	Description *string
	IsActive    *bool
}

type ConfigFlagUpdate struct {
	IsEnabled       *bool
	IsFree          *bool
	DisabledMessage *string
}

type BotConfigUpdate struct {
	Name     *string
	Status   *string
	Version  *string
	IsActive *bool
}
