package ports

import "depwarden/internal/types"

// ManifestParserPort turns raw manifest text into an ordered snapshot.
// One implementation exists per manifest kind; selection happens by
// detected file identity, not by inspecting the content.
type ManifestParserPort interface {
	Kind() types.ManifestKind
	Parse(sourcePath string, text []byte) (types.ManifestSnapshot, error)
}
