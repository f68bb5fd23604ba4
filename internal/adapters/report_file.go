package adapters

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"depwarden/internal/ports"
	"depwarden/internal/types"
)

// ReportFileAdapter writes the evaluation outputs for the orchestrator:
// the full report as JSON and the comment body as markdown. The engine
// itself never talks to the review platform.
type ReportFileAdapter struct {
	Dir string
}

func NewReportFileAdapter(dir string) ReportFileAdapter {
	return ReportFileAdapter{Dir: dir}
}

func (a ReportFileAdapter) WriteReport(report types.Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode report").
			WithCause(err)
	}
	return a.writeFile("report.json", append(data, '\n'))
}

func (a ReportFileAdapter) WriteComment(report types.Report) error {
	if report.Comment == nil {
		return nil
	}
	return a.writeFile("comment.md", []byte(report.Comment.Body))
}

func (a ReportFileAdapter) writeFile(name string, data []byte) error {
	if err := os.MkdirAll(a.Dir, 0o755); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create output directory").
			WithCause(err)
	}
	path := filepath.Join(a.Dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write output file").
			WithCause(err)
	}
	return nil
}

var _ ports.ReportWriterPort = ReportFileAdapter{}
