package ports

import "depwarden/internal/types"

// RiskPolicyPort resolves the thresholds that turn raw health signals into
// triggered reasons. Thresholds are policy knobs, not structure.
type RiskPolicyPort interface {
	PopularityFloors(ecosystem types.Ecosystem) (stars int, forks int, dependents int)
	HealthScoreFloor() float64
	FreshPublishWindowHours() float64
}
