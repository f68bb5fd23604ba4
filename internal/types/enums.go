package types

type Ecosystem string

const (
	EcosystemPyPI Ecosystem = "pypi"
	EcosystemNpm  Ecosystem = "npm"
	EcosystemGo   Ecosystem = "go"
)

type ManifestKind string

const (
	ManifestKindPoetryLock   ManifestKind = "poetry.lock"
	ManifestKindUvLock       ManifestKind = "uv.lock"
	ManifestKindRequirements ManifestKind = "requirements.txt"
	ManifestKindNpmLock      ManifestKind = "package-lock.json"
	ManifestKindYarnLock     ManifestKind = "yarn.lock"
	ManifestKindGoMod        ManifestKind = "go.mod"
)

type Classification string

const (
	ClassificationClear   Classification = "clear"
	ClassificationFlagged Classification = "flagged"
)

// ReasonCode identifies a single triggered risk heuristic. All triggered
// reasons are collected on a verdict; there is no priority among them.
type ReasonCode string

const (
	ReasonFreshPublish          ReasonCode = "fresh-publish"
	ReasonLowHealthScore        ReasonCode = "low-health-score"
	ReasonHasAdvisories         ReasonCode = "has-advisories"
	ReasonLowPopularity         ReasonCode = "low-popularity"
	ReasonMaintenanceRisk       ReasonCode = "maintenance-risk"
	ReasonSuspiciousInstallHook ReasonCode = "suspicious-install-hook"
	ReasonSignalsUnavailable    ReasonCode = "signals-unavailable"
	ReasonIdentityUnresolved    ReasonCode = "identity-unresolved"
)

type MaintenanceStatus string

const (
	MaintenanceStatusUnknown    MaintenanceStatus = ""
	MaintenanceStatusActive     MaintenanceStatus = "active"
	MaintenanceStatusInactive   MaintenanceStatus = "inactive"
	MaintenanceStatusDeprecated MaintenanceStatus = "deprecated"
)
