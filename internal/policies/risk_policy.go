package policies

import (
	"depwarden/internal/types"
)

// PopularityFloor holds per-ecosystem lower bounds. A package below every
// configured floor is considered low-popularity; a floor of zero disables
// that dimension.
type PopularityFloor struct {
	Stars      int `yaml:"stars" mapstructure:"stars"`
	Forks      int `yaml:"forks" mapstructure:"forks"`
	Dependents int `yaml:"dependents" mapstructure:"dependents"`
}

// RiskPolicy is the compiled set of scoring thresholds. Exact cutoffs are
// policy knobs sourced from configuration, not structure.
type RiskPolicy struct {
	FreshWindowHours float64
	ScoreFloor       float64
	Floors           map[types.Ecosystem]PopularityFloor
	DefaultFloor     PopularityFloor
}

const (
	DefaultFreshPublishWindowHours = 24.0
	DefaultHealthScoreFloor        = 4.0
)

// DefaultPopularityFloors mirrors how registries differ in scale: npm and
// pypi projects are expected to have a larger footprint than go modules.
func DefaultPopularityFloors() map[types.Ecosystem]PopularityFloor {
	return map[types.Ecosystem]PopularityFloor{
		types.EcosystemNpm:  {Stars: 25, Forks: 5, Dependents: 10},
		types.EcosystemPyPI: {Stars: 25, Forks: 5, Dependents: 10},
		types.EcosystemGo:   {Stars: 10, Forks: 2, Dependents: 5},
	}
}

func NewRiskPolicy(freshWindowHours float64, scoreFloor float64, floors map[types.Ecosystem]PopularityFloor) RiskPolicy {
	policy := RiskPolicy{
		FreshWindowHours: freshWindowHours,
		ScoreFloor:       scoreFloor,
		Floors:           map[types.Ecosystem]PopularityFloor{},
		DefaultFloor:     PopularityFloor{Stars: 10, Forks: 2, Dependents: 5},
	}
	if policy.FreshWindowHours <= 0 {
		policy.FreshWindowHours = DefaultFreshPublishWindowHours
	}
	if policy.ScoreFloor <= 0 {
		policy.ScoreFloor = DefaultHealthScoreFloor
	}
	if len(floors) == 0 {
		floors = DefaultPopularityFloors()
	}
	for ecosystem, floor := range floors {
		policy.Floors[ecosystem] = floor
	}
	return policy
}

func (p RiskPolicy) PopularityFloors(ecosystem types.Ecosystem) (int, int, int) {
	floor, ok := p.Floors[ecosystem]
	if !ok {
		floor = p.DefaultFloor
	}
	return floor.Stars, floor.Forks, floor.Dependents
}

func (p RiskPolicy) HealthScoreFloor() float64 {
	return p.ScoreFloor
}

func (p RiskPolicy) FreshPublishWindowHours() float64 {
	return p.FreshWindowHours
}
