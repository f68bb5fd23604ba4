package ports

import "depwarden/internal/types"

// ReportWriterPort persists the evaluation report for the orchestrator.
type ReportWriterPort interface {
	WriteReport(report types.Report) error
	WriteComment(report types.Report) error
}
