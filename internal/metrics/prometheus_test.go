package metrics

import (
	"testing"
)

func TestPrometheusObserver(t *testing.T) {
	obs := NewPrometheusObserver()

	// Just call methods to ensure no panic
	obs.RecordMutation("feature_flag", "create")
	obs.RecordMutation("feature_config", "update")
	obs.RecordVersion()
}

func TestNoopObserver(t *testing.T) {
	obs := NewNoopObserver()
	obs.RecordMutation("feature_flag", "delete")
	obs.RecordVersion()
}
