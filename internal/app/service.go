package app

import (
	"context"
	"time"

	"depwarden/internal/adapters"
	"depwarden/internal/policies"
	"depwarden/internal/ports"
)

// Service wires the decision engine's collaborators. The suppression
// store is the only stateful member; everything else is rebuilt per
// invocation.
type Service struct {
	Config      EngineConfig
	Policy      ports.RiskPolicyPort
	Signals     ports.SignalSourcePort
	Suppression ports.SuppressionStorePort
	Clock       func() time.Time
}

// NewService validates the configuration, compiles the risk policy and
// builds the default adapters. A configuration error aborts the whole
// invocation before any evaluation work happens.
func NewService(ctx context.Context, config EngineConfig, suppression ports.SuppressionStorePort) (Service, error) {
	config.ApplyDefaults()
	if err := config.Validate(ctx); err != nil {
		return Service{}, err
	}

	policy := policies.NewRiskPolicy(config.FreshPublishWindowHours, config.HealthScoreFloor, config.PopularityFloors)
	if config.PolicyFile != "" {
		loaded, err := adapters.NewPolicyFileAdapter().LoadPolicy(config.PolicyFile)
		if err != nil {
			return Service{}, err
		}
		policy = loaded
	}

	return Service{
		Config:      config,
		Policy:      policy,
		Signals:     adapters.NewDepsDevAdapter("", "", config.SignalTimeout(), *config.SignalRetries),
		Suppression: suppression,
		Clock:       time.Now,
	}, nil
}
