package app

import (
	"context"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"depwarden/internal/adapters"
	"depwarden/internal/core"
	"depwarden/internal/types"
)

// ManifestPair carries the two text blobs for one manifest path. The
// engine never performs source-control operations; the orchestrator hands
// it the base and head revisions directly. HasBase false means the file
// is new in this request and every head record counts as added.
type ManifestPair struct {
	Path     string
	BaseText []byte
	HasBase  bool
	HeadText []byte
}

type EvaluateRequest struct {
	RequestID string
	Pairs     []ManifestPair
}

// scoreItem is one added/changed record awaiting signals and scoring.
type scoreItem struct {
	record      types.DependencyRecord
	sourcePath  string
	fingerprint string
	coordinate  types.Coordinate
	unresolved  bool
	lookupIndex int
}

type lookupResult struct {
	signals types.HealthSignals
	err     error
}

// Evaluate runs the full decision pipeline for one review-request event:
// diff each manifest pair, resolve identities, fetch signals with bounded
// fan-out, score, filter through suppression and assemble the report. It
// performs no review-platform I/O; side effects come back as data.
func (s Service) Evaluate(ctx context.Context, request EvaluateRequest) (types.Report, error) {
	if request.RequestID == "" {
		return types.Report{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("request id is required")
	}

	report := types.Report{RequestID: request.RequestID}
	items := s.collectChanges(ctx, request.Pairs, &report)

	lookups, lookupIndexes := dedupeLookups(items)
	results := s.fetchSignals(ctx, lookups)

	now := s.Clock().UTC()
	for i := range items {
		item := &items[i]
		input := core.ScoreInput{
			Coordinate:         item.coordinate,
			Record:             item.record,
			SourcePath:         item.sourcePath,
			IdentityUnresolved: item.unresolved,
		}
		if !item.unresolved {
			result := results[lookupIndexes[i]]
			if result.err != nil {
				log.Ctx(ctx).Warn().Err(result.err).
					Str("package", item.coordinate.Name).
					Msg("signals unavailable")
				input.SignalsUnavailable = true
			} else {
				input.Signals = result.signals
			}
		}
		verdict := core.Score(s.Policy, input, now)
		if verdict.Flagged() {
			verdict.Suppressed = s.isSuppressed(ctx, request.RequestID, item.coordinate, item.fingerprint)
		}
		report.Verdicts = append(report.Verdicts, verdict)
	}

	for _, verdict := range report.Verdicts {
		if verdict.Flagged() && !verdict.Suppressed {
			report.HasUnsuppressedFlags = true
			break
		}
	}

	// Always emitted, even with nothing to report: the orchestrator
	// replaces the previous comment by marker, so a reverted manifest
	// clears stale findings.
	report.Comment = &types.CommentRequest{
		Marker: core.CommentMarker,
		Body:   core.RenderComment(report),
	}
	if s.Config.EnableLabel {
		report.Labels = append(report.Labels, types.LabelRequest{
			Name:    s.Config.LabelName,
			Present: report.HasUnsuppressedFlags,
		})
	}
	return report, nil
}

// collectChanges diffs every manifest pair. A malformed manifest aborts
// that path only and surfaces as a diagnostic; the other paths continue.
func (s Service) collectChanges(ctx context.Context, pairs []ManifestPair, report *types.Report) []scoreItem {
	var items []scoreItem
	for _, pair := range pairs {
		kind, err := adapters.DetectKind(pair.Path)
		if err != nil {
			report.Diagnostics = append(report.Diagnostics, diagnostic(pair.Path, err))
			continue
		}
		parser, err := adapters.ParserFor(kind)
		if err != nil {
			report.Diagnostics = append(report.Diagnostics, diagnostic(pair.Path, err))
			continue
		}
		head, err := parser.Parse(pair.Path, pair.HeadText)
		if err != nil {
			report.Diagnostics = append(report.Diagnostics, diagnostic(pair.Path, err))
			continue
		}
		var base *types.ManifestSnapshot
		if pair.HasBase {
			parsed, err := parser.Parse(pair.Path, pair.BaseText)
			if err != nil {
				report.Diagnostics = append(report.Diagnostics, diagnostic(pair.Path, err))
				continue
			}
			base = &parsed
		}
		changes, err := core.Diff(base, head)
		if err != nil {
			report.Diagnostics = append(report.Diagnostics, diagnostic(pair.Path, err))
			continue
		}
		log.Ctx(ctx).Debug().
			Str("path", pair.Path).
			Int("added", len(changes.Added)).
			Int("changed", len(changes.Changed)).
			Msg("manifest diffed")

		for _, record := range changes.Added {
			items = append(items, newScoreItem(record, head))
		}
		for _, change := range changes.Changed {
			items = append(items, newScoreItem(change.To, head))
		}
	}
	return items
}

func newScoreItem(record types.DependencyRecord, head types.ManifestSnapshot) scoreItem {
	item := scoreItem{
		record:      record,
		sourcePath:  head.SourcePath,
		fingerprint: head.Fingerprint,
	}
	coordinate, err := core.ResolveIdentity(record)
	if err != nil {
		item.unresolved = true
		item.coordinate = types.Coordinate{Registry: record.Ecosystem, Name: record.Name}
		return item
	}
	item.coordinate = coordinate
	return item
}

// dedupeLookups batches signal lookups per (coordinate, version) so the
// same package appearing in several manifests is fetched once.
func dedupeLookups(items []scoreItem) ([]scoreItem, []int) {
	var lookups []scoreItem
	indexes := make([]int, len(items))
	seen := map[string]int{}
	for i, item := range items {
		if item.unresolved {
			indexes[i] = -1
			continue
		}
		key := item.coordinate.String() + "@" + item.record.ResolvedVersion
		idx, ok := seen[key]
		if !ok {
			idx = len(lookups)
			seen[key] = idx
			lookups = append(lookups, item)
		}
		indexes[i] = idx
	}
	return lookups, indexes
}

// fetchSignals issues the deduplicated lookups concurrently with bounded
// fan-out. Each lookup carries its own timeout inside the adapter, and a
// failed lookup degrades to signals-unavailable for that dependency only.
func (s Service) fetchSignals(ctx context.Context, lookups []scoreItem) []lookupResult {
	results := make([]lookupResult, len(lookups))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.Config.LookupWorkers)
	for i, lookup := range lookups {
		group.Go(func() error {
			signals, err := s.Signals.FetchSignals(groupCtx, lookup.coordinate, lookup.record.ResolvedVersion)
			results[i] = lookupResult{signals: signals, err: err}
			return nil
		})
	}
	// Workers never return errors; partial failure must not abort the rest.
	_ = group.Wait()
	return results
}

// isSuppressed treats a store failure as not-suppressed: losing an
// acknowledgment re-alerts, which is the fail-safe direction.
func (s Service) isSuppressed(ctx context.Context, requestID string, coordinate types.Coordinate, fingerprint string) bool {
	if s.Suppression == nil {
		return false
	}
	suppressed, err := s.Suppression.IsSuppressed(ctx, requestID, coordinate, fingerprint)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("package", coordinate.Name).Msg("suppression lookup failed")
		return false
	}
	return suppressed
}

func diagnostic(sourcePath string, err error) types.Diagnostic {
	return types.Diagnostic{SourcePath: sourcePath, Message: err.Error()}
}
