package app

import (
	"context"
	"fmt"
	"time"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"

	"depwarden/internal/policies"
	"depwarden/internal/types"
)

// EngineConfig is the configuration surface consumed by the decision
// engine. Every knob is optional with a documented default; invalid
// values fail the whole invocation fast instead of silently falling back.
type EngineConfig struct {
	EnableLabel bool   `mapstructure:"enable_label"`
	LabelName   string `mapstructure:"label_name"`

	FreshPublishWindowHours float64                                      `mapstructure:"fresh_publish_window_hours"`
	HealthScoreFloor        float64                                      `mapstructure:"health_score_floor"`
	PopularityFloors        map[types.Ecosystem]policies.PopularityFloor `mapstructure:"popularity_floors"`

	SignalTimeoutMs int `mapstructure:"signal_timeout_ms"`
	LookupWorkers   int `mapstructure:"lookup_workers"`

	// SignalRetries is a pointer so an explicit zero (no retries) is
	// distinguishable from unset.
	SignalRetries *int `mapstructure:"signal_retries"`

	// PolicyFile optionally points at a YAML risk policy; its values
	// override the threshold fields above.
	PolicyFile string `mapstructure:"policy_file"`
}

const (
	DefaultLabelName       = "dependency-risk"
	DefaultSignalTimeoutMs = 10000
	DefaultSignalRetries   = 1
	DefaultLookupWorkers   = 4
)

// ApplyDefaults fills zero values with the documented defaults. It never
// touches explicitly-set invalid values; those are Validate's job.
func (c *EngineConfig) ApplyDefaults() {
	if c.LabelName == "" {
		c.LabelName = DefaultLabelName
	}
	if c.FreshPublishWindowHours == 0 {
		c.FreshPublishWindowHours = policies.DefaultFreshPublishWindowHours
	}
	if c.HealthScoreFloor == 0 {
		c.HealthScoreFloor = policies.DefaultHealthScoreFloor
	}
	if c.SignalTimeoutMs == 0 {
		c.SignalTimeoutMs = DefaultSignalTimeoutMs
	}
	if c.SignalRetries == nil {
		retries := DefaultSignalRetries
		c.SignalRetries = &retries
	}
	if c.LookupWorkers == 0 {
		c.LookupWorkers = DefaultLookupWorkers
	}
}

func (c EngineConfig) Validate(ctx context.Context) error {
	assert.NotEmpty(ctx, c.LabelName, "label name must be set")
	if c.FreshPublishWindowHours < 0 {
		return configError("fresh_publish_window_hours must not be negative")
	}
	if c.HealthScoreFloor < 0 || c.HealthScoreFloor > 10 {
		return configError("health_score_floor must be within [0, 10]")
	}
	if c.SignalTimeoutMs < 0 {
		return configError("signal_timeout_ms must not be negative")
	}
	if c.SignalRetries != nil && (*c.SignalRetries < 0 || *c.SignalRetries > 3) {
		return configError("signal_retries must be within [0, 3]")
	}
	if c.LookupWorkers < 1 || c.LookupWorkers > 64 {
		return configError("lookup_workers must be within [1, 64]")
	}
	for ecosystem, floor := range c.PopularityFloors {
		if floor.Stars < 0 || floor.Forks < 0 || floor.Dependents < 0 {
			return configError(fmt.Sprintf("popularity floors for %s must not be negative", ecosystem))
		}
	}
	return nil
}

func (c EngineConfig) SignalTimeout() time.Duration {
	return time.Duration(c.SignalTimeoutMs) * time.Millisecond
}

func configError(message string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg("invalid configuration: " + message)
}
