package adapters

import (
	"golang.org/x/mod/modfile"

	"depwarden/internal/core"
	"depwarden/internal/ports"
	"depwarden/internal/types"
)

// GoModParser reads a go.mod module graph file. Only require directives
// yield records; replace and exclude directives alter resolution locally
// but name no new upstream dependency to assess. The `// indirect` marker
// gives an exact transitive flag.
type GoModParser struct{}

func NewGoModParser() GoModParser {
	return GoModParser{}
}

func (p GoModParser) Kind() types.ManifestKind {
	return types.ManifestKindGoMod
}

func (p GoModParser) Parse(sourcePath string, text []byte) (types.ManifestSnapshot, error) {
	file, err := modfile.ParseLax(sourcePath, text, nil)
	if err != nil {
		return types.ManifestSnapshot{}, malformedManifest(sourcePath, err)
	}

	snapshot := types.ManifestSnapshot{
		SourcePath:  sourcePath,
		Kind:        types.ManifestKindGoMod,
		Fingerprint: core.Fingerprint(text),
	}
	for _, require := range file.Require {
		if require.Mod.Path == "" || require.Mod.Version == "" {
			continue
		}
		snapshot.Records = append(snapshot.Records, types.DependencyRecord{
			Ecosystem:          types.EcosystemGo,
			Name:               require.Mod.Path,
			RequestedSpecifier: require.Mod.Version,
			ResolvedVersion:    require.Mod.Version,
			Transitive:         require.Indirect,
		})
	}
	return snapshot, nil
}

var _ ports.ManifestParserPort = GoModParser{}
