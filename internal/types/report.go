package types

// RiskVerdict is the deterministic classification of one added or changed
// dependency. Reasons preserves rule evaluation order.
type RiskVerdict struct {
	Coordinate     Coordinate       `json:"coordinate"`
	Record         DependencyRecord `json:"record"`
	SourcePath     string           `json:"source_path"`
	Classification Classification   `json:"classification"`
	Reasons        []ReasonCode     `json:"reasons,omitempty"`
	Signals        HealthSignals    `json:"signals"`

	// Suppressed verdicts stay in the report for audit but are excluded
	// from HasUnsuppressedFlags and from side-effect requests.
	Suppressed bool `json:"suppressed,omitempty"`
}

func (v RiskVerdict) Flagged() bool {
	return v.Classification == ClassificationFlagged
}

// Diagnostic surfaces a whole-path failure (e.g. a malformed manifest) that
// aborted evaluation for that path without aborting the invocation.
type Diagnostic struct {
	SourcePath string `json:"source_path"`
	Message    string `json:"message"`
}

// CommentRequest is the side-effect data for the review platform: an
// idempotent comment body that replaces any prior report comment.
type CommentRequest struct {
	Marker string `json:"marker"`
	Body   string `json:"body"`
}

// LabelRequest asks the review platform to add or remove a label.
type LabelRequest struct {
	Name    string `json:"name"`
	Present bool   `json:"present"`
}

// Report is the single output of one evaluation. The engine performs no
// review-platform I/O; Comment and Labels are handed to the orchestrator.
type Report struct {
	RequestID            string          `json:"request_id"`
	Verdicts             []RiskVerdict   `json:"verdicts"`
	Diagnostics          []Diagnostic    `json:"diagnostics,omitempty"`
	HasUnsuppressedFlags bool            `json:"has_unsuppressed_flags"`
	Comment              *CommentRequest `json:"comment,omitempty"`
	Labels               []LabelRequest  `json:"labels,omitempty"`
}
