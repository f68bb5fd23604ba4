package core

import (
	"time"

	"depwarden/internal/ports"
	"depwarden/internal/types"
)

// ScoreInput carries everything the scorer needs for one dependency. The
// scorer itself is a pure function of its inputs; it never looks anything
// up and never consults the clock on its own.
type ScoreInput struct {
	Coordinate types.Coordinate
	Record     types.DependencyRecord
	SourcePath string
	Signals    types.HealthSignals

	// SignalsUnavailable marks a failed or timed-out registry lookup.
	// Unknown risk is treated as risk, never as clear.
	SignalsUnavailable bool

	// IdentityUnresolved marks a record whose name could not be mapped to
	// a canonical coordinate. Reported, never silently dropped.
	IdentityUnresolved bool
}

// Score applies every heuristic independently and collects all triggered
// reasons. Classification is flagged iff at least one reason triggered;
// there is no weighted blending.
func Score(policy ports.RiskPolicyPort, input ScoreInput, now time.Time) types.RiskVerdict {
	verdict := types.RiskVerdict{
		Coordinate:     input.Coordinate,
		Record:         input.Record,
		SourcePath:     input.SourcePath,
		Signals:        input.Signals,
		Classification: types.ClassificationClear,
	}

	if input.IdentityUnresolved {
		verdict.Reasons = append(verdict.Reasons, types.ReasonIdentityUnresolved)
	}
	if input.SignalsUnavailable {
		verdict.Reasons = append(verdict.Reasons, types.ReasonSignalsUnavailable)
		// Lockfile-sourced install-hook evidence needs no registry data.
		if suspiciousInstallHook(input.Record, types.HealthSignals{}) {
			verdict.Reasons = append(verdict.Reasons, types.ReasonSuspiciousInstallHook)
		}
		verdict.Classification = types.ClassificationFlagged
		return verdict
	}

	signals := input.Signals

	if signals.FirstPublishedAt != nil {
		age := now.Sub(*signals.FirstPublishedAt).Hours()
		if age < policy.FreshPublishWindowHours() {
			verdict.Reasons = append(verdict.Reasons, types.ReasonFreshPublish)
		}
	}
	if signals.HealthScore != nil && *signals.HealthScore < policy.HealthScoreFloor() {
		verdict.Reasons = append(verdict.Reasons, types.ReasonLowHealthScore)
	}
	if signals.AdvisoryCount != nil && *signals.AdvisoryCount > 0 {
		verdict.Reasons = append(verdict.Reasons, types.ReasonHasAdvisories)
	}
	if lowPopularity(policy, input.Record.Ecosystem, signals) {
		verdict.Reasons = append(verdict.Reasons, types.ReasonLowPopularity)
	}
	if signals.MaintenanceStatus == types.MaintenanceStatusInactive ||
		signals.MaintenanceStatus == types.MaintenanceStatusDeprecated {
		verdict.Reasons = append(verdict.Reasons, types.ReasonMaintenanceRisk)
	}
	if suspiciousInstallHook(input.Record, signals) {
		verdict.Reasons = append(verdict.Reasons, types.ReasonSuspiciousInstallHook)
	}

	if len(verdict.Reasons) > 0 {
		verdict.Classification = types.ClassificationFlagged
	}
	return verdict
}

// lowPopularity triggers when every reported popularity dimension sits
// below its floor. Dimensions the registry did not report are skipped; a
// package with no popularity data at all does not trigger on absence.
func lowPopularity(policy ports.RiskPolicyPort, ecosystem types.Ecosystem, signals types.HealthSignals) bool {
	starsFloor, forksFloor, dependentsFloor := policy.PopularityFloors(ecosystem)
	reported := 0
	if signals.Stars != nil {
		if *signals.Stars >= starsFloor {
			return false
		}
		reported++
	}
	if signals.Forks != nil {
		if *signals.Forks >= forksFloor {
			return false
		}
		reported++
	}
	if signals.DependentsCount != nil {
		if *signals.DependentsCount >= dependentsFloor {
			return false
		}
		reported++
	}
	return reported > 0
}

// suspiciousInstallHook is npm-only. The registry signal and the lockfile's
// own hasInstallScript marker are both accepted as evidence.
func suspiciousInstallHook(record types.DependencyRecord, signals types.HealthSignals) bool {
	if record.Ecosystem != types.EcosystemNpm {
		return false
	}
	if signals.HasPostInstallScript != nil && *signals.HasPostInstallScript {
		return true
	}
	return record.RawMetadata["hasInstallScript"] == "true"
}
