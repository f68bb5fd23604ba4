package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"depwarden/internal/core"
	"depwarden/internal/types"
)

type AcknowledgeRequest struct {
	RequestID   string
	CommandText string
	Pairs       []ManifestPair
}

type AcknowledgeResult struct {
	// Recognized is false when the command text is not the acknowledgment
	// token; the event is ignored without error.
	Recognized   bool
	Acknowledged []types.Coordinate
}

// Acknowledge handles an inbound human command event. The single literal
// token acknowledges every currently flagged, unsuppressed dependency at
// the fingerprint in effect right now. If the manifest changed between
// the report and the command, the acknowledgment lands on the new
// fingerprints, which is exactly the last-writer-by-event-order rule.
func (s Service) Acknowledge(ctx context.Context, request AcknowledgeRequest) (AcknowledgeResult, error) {
	if !core.IsAckCommand(request.CommandText) {
		return AcknowledgeResult{}, nil
	}

	report, err := s.Evaluate(ctx, EvaluateRequest{
		RequestID: request.RequestID,
		Pairs:     request.Pairs,
	})
	if err != nil {
		return AcknowledgeResult{}, err
	}

	fingerprints := map[string]string{}
	for _, pair := range request.Pairs {
		fingerprints[pair.Path] = core.Fingerprint(pair.HeadText)
	}

	result := AcknowledgeResult{Recognized: true}
	at := s.Clock().UTC()
	for _, verdict := range report.Verdicts {
		if !verdict.Flagged() || verdict.Suppressed {
			continue
		}
		fingerprint, ok := fingerprints[verdict.SourcePath]
		if !ok {
			continue
		}
		if err := s.Suppression.Acknowledge(ctx, request.RequestID, verdict.Coordinate, fingerprint, at); err != nil {
			return result, err
		}
		log.Ctx(ctx).Info().
			Str("package", verdict.Coordinate.Name).
			Str("fingerprint", fingerprint).
			Msg("acknowledged flagged dependency")
		result.Acknowledged = append(result.Acknowledged, verdict.Coordinate)
	}
	return result, nil
}
