package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"depwarden/internal/adapters"
	"depwarden/internal/types"
)

// Inspect parses a single manifest and returns the snapshot. Debugging
// aid for checking what a parser extracts from a given file.
func (s Service) Inspect(ctx context.Context, sourcePath string, text []byte) (types.ManifestSnapshot, error) {
	kind, err := adapters.DetectKind(sourcePath)
	if err != nil {
		return types.ManifestSnapshot{}, err
	}
	parser, err := adapters.ParserFor(kind)
	if err != nil {
		return types.ManifestSnapshot{}, err
	}
	snapshot, err := parser.Parse(sourcePath, text)
	if err != nil {
		return types.ManifestSnapshot{}, err
	}
	log.Ctx(ctx).Debug().
		Str("path", sourcePath).
		Str("kind", string(kind)).
		Int("records", len(snapshot.Records)).
		Msg("manifest inspected")
	return snapshot, nil
}
