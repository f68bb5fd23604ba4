package core

import (
	"fmt"
	"strings"

	"depwarden/internal/types"
)

// CommentMarker is embedded in every report comment so the orchestrator
// can find and replace the previous one instead of appending.
const CommentMarker = "<!-- depwarden-report -->"

var reasonText = map[types.ReasonCode]string{
	types.ReasonFreshPublish:          "published less than the freshness window ago",
	types.ReasonLowHealthScore:        "health score below floor",
	types.ReasonHasAdvisories:         "known security advisories",
	types.ReasonLowPopularity:         "low popularity (stars/forks/dependents)",
	types.ReasonMaintenanceRisk:       "inactive or deprecated",
	types.ReasonSuspiciousInstallHook: "declares an install/postinstall script",
	types.ReasonSignalsUnavailable:    "registry signals unavailable, treating as risk",
	types.ReasonIdentityUnresolved:    "package identity could not be resolved",
}

// RenderComment produces the markdown body for the review comment. Output
// is a pure function of the report so repeated evaluations render
// byte-identical comments.
func RenderComment(report types.Report) string {
	var b strings.Builder
	b.WriteString(CommentMarker)
	b.WriteString("\n## Dependency risk report\n\n")

	var flagged, suppressed, clear []types.RiskVerdict
	for _, verdict := range report.Verdicts {
		switch {
		case verdict.Flagged() && verdict.Suppressed:
			suppressed = append(suppressed, verdict)
		case verdict.Flagged():
			flagged = append(flagged, verdict)
		default:
			clear = append(clear, verdict)
		}
	}

	if len(flagged) == 0 && len(suppressed) == 0 {
		b.WriteString("No risk findings for the dependency changes in this request.\n")
	}

	if len(flagged) > 0 {
		b.WriteString("### Flagged\n\n")
		b.WriteString("| Package | Version | Registry | Reasons |\n")
		b.WriteString("|---|---|---|---|\n")
		for _, verdict := range flagged {
			b.WriteString(verdictRow(verdict))
		}
		b.WriteString("\nTo accept these findings for the current manifest state, comment `")
		b.WriteString(AckCommandToken)
		b.WriteString("`. Acknowledgment lasts until the manifest changes again.\n")
	}

	if len(suppressed) > 0 {
		b.WriteString("\n### Acknowledged (for audit)\n\n")
		b.WriteString("| Package | Version | Registry | Reasons |\n")
		b.WriteString("|---|---|---|---|\n")
		for _, verdict := range suppressed {
			b.WriteString(verdictRow(verdict))
		}
	}

	if len(clear) > 0 {
		b.WriteString(fmt.Sprintf("\n%d changed dependencies had no findings.\n", len(clear)))
	}

	if len(report.Diagnostics) > 0 {
		b.WriteString("\n### Diagnostics\n\n")
		for _, diagnostic := range report.Diagnostics {
			b.WriteString(fmt.Sprintf("- `%s`: %s\n", diagnostic.SourcePath, diagnostic.Message))
		}
	}

	return b.String()
}

func verdictRow(verdict types.RiskVerdict) string {
	reasons := make([]string, 0, len(verdict.Reasons))
	for _, reason := range verdict.Reasons {
		text, ok := reasonText[reason]
		if !ok {
			text = string(reason)
		}
		reasons = append(reasons, text)
	}
	return fmt.Sprintf("| `%s` | %s | %s | %s |\n",
		verdict.Coordinate.Name,
		verdict.Record.ResolvedVersion,
		verdict.Coordinate.Registry,
		strings.Join(reasons, "; "))
}

// AckCommandToken is the literal command a human posts on the review
// request to acknowledge all currently flagged, unsuppressed dependencies
// at their current fingerprints.
const AckCommandToken = "/depwarden ack"

// IsAckCommand reports whether inbound command text is the acknowledgment
// command. Surrounding whitespace is tolerated; anything else is not a
// command and is ignored.
func IsAckCommand(commandText string) bool {
	return strings.TrimSpace(commandText) == AckCommandToken
}
