package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"depwarden/internal/policies"
	"depwarden/internal/types"
)

func intPtr(v int) *int { return &v }
func floatPtr(v float64) *float64 { return &v }
func boolPtr(v bool) *bool { return &v }
func timePtr(v time.Time) *time.Time { return &v }

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func defaultPolicy() policies.RiskPolicy {
	return policies.NewRiskPolicy(0, 0, nil)
}

func npmInput(name string, version string) ScoreInput {
	return ScoreInput{
		Coordinate: types.Coordinate{Registry: types.EcosystemNpm, Name: name},
		Record: types.DependencyRecord{
			Ecosystem:       types.EcosystemNpm,
			Name:            name,
			ResolvedVersion: version,
		},
		SourcePath: "package-lock.json",
	}
}

// Fresh publish plus low popularity: the left-pad scenario.
func TestScoreFreshAndUnpopular(t *testing.T) {
	input := npmInput("left-pad", "1.0.0")
	input.Signals = types.HealthSignals{
		AdvisoryCount:    intPtr(0),
		Stars:            intPtr(2),
		Forks:            intPtr(0),
		DependentsCount:  intPtr(1),
		FirstPublishedAt: timePtr(testNow.Add(-1 * time.Hour)),
	}

	verdict := Score(defaultPolicy(), input, testNow)
	require.Equal(t, types.ClassificationFlagged, verdict.Classification)
	require.Equal(t, []types.ReasonCode{types.ReasonFreshPublish, types.ReasonLowPopularity}, verdict.Reasons)
}

// A mature, healthy upgrade stays clear.
func TestScoreHealthyUpgradeClear(t *testing.T) {
	input := ScoreInput{
		Coordinate: types.Coordinate{Registry: types.EcosystemPyPI, Name: "requests"},
		Record: types.DependencyRecord{
			Ecosystem:       types.EcosystemPyPI,
			Name:            "requests",
			ResolvedVersion: "2.31.0",
		},
		Signals: types.HealthSignals{
			HealthScore:       floatPtr(9.1),
			AdvisoryCount:     intPtr(0),
			Stars:             intPtr(50000),
			Forks:             intPtr(9000),
			DependentsCount:   intPtr(100000),
			MaintenanceStatus: types.MaintenanceStatusActive,
			FirstPublishedAt:  timePtr(testNow.Add(-2 * 365 * 24 * time.Hour)),
		},
	}

	verdict := Score(defaultPolicy(), input, testNow)
	require.Equal(t, types.ClassificationClear, verdict.Classification)
	require.Empty(t, verdict.Reasons)
}

func TestScoreInstallHookOnly(t *testing.T) {
	input := npmInput("sneaky", "1.0.0")
	input.Signals = types.HealthSignals{
		HealthScore:          floatPtr(8.0),
		AdvisoryCount:        intPtr(0),
		Stars:                intPtr(5000),
		Forks:                intPtr(400),
		DependentsCount:      intPtr(900),
		FirstPublishedAt:     timePtr(testNow.Add(-400 * 24 * time.Hour)),
		HasPostInstallScript: boolPtr(true),
	}

	verdict := Score(defaultPolicy(), input, testNow)
	require.Equal(t, types.ClassificationFlagged, verdict.Classification)
	require.Equal(t, []types.ReasonCode{types.ReasonSuspiciousInstallHook}, verdict.Reasons)
}

// The lockfile's own hasInstallScript marker is accepted as evidence even
// when the registry probe reported nothing.
func TestScoreInstallHookFromLockMetadata(t *testing.T) {
	input := npmInput("esbuild-ish", "0.20.1")
	input.Record.RawMetadata = map[string]string{"hasInstallScript": "true"}
	input.Signals = types.HealthSignals{
		AdvisoryCount:    intPtr(0),
		Stars:            intPtr(30000),
		FirstPublishedAt: timePtr(testNow.Add(-100 * 24 * time.Hour)),
	}

	verdict := Score(defaultPolicy(), input, testNow)
	require.Contains(t, verdict.Reasons, types.ReasonSuspiciousInstallHook)
}

// Unknown risk is risk: an unavailable lookup never yields clear.
func TestScoreSignalsUnavailableNeverClear(t *testing.T) {
	input := npmInput("whatever", "1.0.0")
	input.SignalsUnavailable = true

	verdict := Score(defaultPolicy(), input, testNow)
	require.Equal(t, types.ClassificationFlagged, verdict.Classification)
	require.Equal(t, []types.ReasonCode{types.ReasonSignalsUnavailable}, verdict.Reasons)
}

func TestScoreSignalsUnavailableKeepsLockEvidence(t *testing.T) {
	input := npmInput("sneaky", "1.0.0")
	input.Record.RawMetadata = map[string]string{"hasInstallScript": "true"}
	input.SignalsUnavailable = true

	verdict := Score(defaultPolicy(), input, testNow)
	require.Equal(t, types.ClassificationFlagged, verdict.Classification)
	require.Equal(t, []types.ReasonCode{types.ReasonSignalsUnavailable, types.ReasonSuspiciousInstallHook}, verdict.Reasons)
}

func TestScoreIdentityUnresolved(t *testing.T) {
	input := npmInput("???", "1.0.0")
	input.IdentityUnresolved = true
	input.SignalsUnavailable = true

	verdict := Score(defaultPolicy(), input, testNow)
	require.Equal(t, types.ClassificationFlagged, verdict.Classification)
	require.Equal(t, []types.ReasonCode{types.ReasonIdentityUnresolved, types.ReasonSignalsUnavailable}, verdict.Reasons)
}

func TestScoreCollectsAllReasons(t *testing.T) {
	input := npmInput("dumpster-fire", "0.0.1")
	input.Signals = types.HealthSignals{
		HealthScore:          floatPtr(1.2),
		AdvisoryCount:        intPtr(3),
		Stars:                intPtr(0),
		Forks:                intPtr(0),
		DependentsCount:      intPtr(0),
		MaintenanceStatus:    types.MaintenanceStatusDeprecated,
		FirstPublishedAt:     timePtr(testNow.Add(-30 * time.Minute)),
		HasPostInstallScript: boolPtr(true),
	}

	verdict := Score(defaultPolicy(), input, testNow)
	require.Equal(t, []types.ReasonCode{
		types.ReasonFreshPublish,
		types.ReasonLowHealthScore,
		types.ReasonHasAdvisories,
		types.ReasonLowPopularity,
		types.ReasonMaintenanceRisk,
		types.ReasonSuspiciousInstallHook,
	}, verdict.Reasons)
}

// One healthy popularity dimension vetoes the low-popularity reason; a
// package with no popularity data at all does not trigger on absence.
func TestScoreLowPopularityEdges(t *testing.T) {
	input := npmInput("niche-but-known", "1.0.0")
	input.Signals = types.HealthSignals{
		AdvisoryCount:    intPtr(0),
		Stars:            intPtr(3),
		DependentsCount:  intPtr(50000),
		FirstPublishedAt: timePtr(testNow.Add(-90 * 24 * time.Hour)),
	}
	verdict := Score(defaultPolicy(), input, testNow)
	require.NotContains(t, verdict.Reasons, types.ReasonLowPopularity)

	noData := npmInput("opaque", "1.0.0")
	noData.Signals = types.HealthSignals{
		AdvisoryCount:    intPtr(0),
		FirstPublishedAt: timePtr(testNow.Add(-90 * 24 * time.Hour)),
	}
	verdict = Score(defaultPolicy(), noData, testNow)
	require.NotContains(t, verdict.Reasons, types.ReasonLowPopularity)
}
