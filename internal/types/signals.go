package types

import "time"

// Coordinate is the canonical (registry, name) identity used for signal
// lookups and suppression keys.
type Coordinate struct {
	Registry Ecosystem `json:"registry"`
	Name     string    `json:"name"`
}

func (c Coordinate) String() string {
	return string(c.Registry) + "/" + c.Name
}

// HealthSignals holds registry health data for one package version. Any
// field may be absent; absence is data, not an error. Nil pointers mean
// the registry did not report that field.
type HealthSignals struct {
	HealthScore       *float64          `json:"health_score,omitempty"`
	AdvisoryCount     *int              `json:"advisory_count,omitempty"`
	AdvisoryIDs       []string          `json:"advisory_ids,omitempty"`
	Stars             *int              `json:"stars,omitempty"`
	Forks             *int              `json:"forks,omitempty"`
	DependentsCount   *int              `json:"dependents_count,omitempty"`
	MaintenanceStatus MaintenanceStatus `json:"maintenance_status,omitempty"`
	FirstPublishedAt  *time.Time        `json:"first_published_at,omitempty"`

	// HasPostInstallScript is only ever populated for npm packages.
	HasPostInstallScript *bool `json:"has_post_install_script,omitempty"`
}
