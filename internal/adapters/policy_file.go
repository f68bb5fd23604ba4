package adapters

import (
	"os"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"depwarden/internal/policies"
	"depwarden/internal/types"
)

// PolicyFile is the optional YAML risk-policy document. Every field is
// optional; missing values fall back to the documented defaults.
type PolicyFile struct {
	FreshPublishWindowHours float64                                      `yaml:"fresh_publish_window_hours"`
	HealthScoreFloor        float64                                      `yaml:"health_score_floor"`
	PopularityFloors        map[types.Ecosystem]policies.PopularityFloor `yaml:"popularity_floors"`
}

type PolicyFileAdapter struct{}

func NewPolicyFileAdapter() PolicyFileAdapter {
	return PolicyFileAdapter{}
}

// LoadPolicy reads a risk policy from a YAML file and compiles it. An
// empty path yields the default policy.
func (a PolicyFileAdapter) LoadPolicy(path string) (policies.RiskPolicy, error) {
	if path == "" {
		return policies.NewRiskPolicy(0, 0, nil), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return policies.RiskPolicy{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("policy file not found").
			WithCause(err)
	}
	var file PolicyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return policies.RiskPolicy{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse policy yaml").
			WithCause(err)
	}
	if file.FreshPublishWindowHours < 0 || file.HealthScoreFloor < 0 {
		return policies.RiskPolicy{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("policy thresholds must not be negative")
	}
	return policies.NewRiskPolicy(file.FreshPublishWindowHours, file.HealthScoreFloor, file.PopularityFloors), nil
}
