package adapters

import (
	"errors"
	"strconv"

	pep440 "github.com/aquasecurity/go-pep440-version"
	"github.com/pelletier/go-toml/v2"

	"depwarden/internal/core"
	"depwarden/internal/ports"
	"depwarden/internal/types"
)

// TomlLockParser handles the shared `[[package]]` shape of poetry.lock and
// uv.lock. Both record pinned name/version pairs; everything else the
// formats carry is preserved in raw metadata and otherwise ignored.
type TomlLockParser struct {
	kind types.ManifestKind
}

func NewPoetryLockParser() TomlLockParser {
	return TomlLockParser{kind: types.ManifestKindPoetryLock}
}

func NewUvLockParser() TomlLockParser {
	return TomlLockParser{kind: types.ManifestKindUvLock}
}

func (p TomlLockParser) Kind() types.ManifestKind {
	return p.kind
}

type tomlLockPackage struct {
	Name        string         `toml:"name"`
	Version     string         `toml:"version"`
	Description string         `toml:"description"`
	Optional    bool           `toml:"optional"`
	Source      map[string]any `toml:"source"`
}

type tomlLockFile struct {
	Package []tomlLockPackage `toml:"package"`
}

func (p TomlLockParser) Parse(sourcePath string, text []byte) (types.ManifestSnapshot, error) {
	if looksBinary(text) {
		return types.ManifestSnapshot{}, malformedManifest(sourcePath, errors.New("binary content"))
	}
	var lock tomlLockFile
	if err := toml.Unmarshal(text, &lock); err != nil {
		return types.ManifestSnapshot{}, malformedManifest(sourcePath, err)
	}

	snapshot := types.ManifestSnapshot{
		SourcePath:  sourcePath,
		Kind:        p.kind,
		Fingerprint: core.Fingerprint(text),
	}
	for _, pkg := range lock.Package {
		if pkg.Name == "" || pkg.Version == "" {
			continue
		}
		record := types.DependencyRecord{
			Ecosystem:       types.EcosystemPyPI,
			Name:            pkg.Name,
			ResolvedVersion: normalizePinnedPyVersion(pkg.Version),
		}
		metadata := map[string]string{}
		if pkg.Description != "" {
			metadata["description"] = pkg.Description
		}
		if pkg.Optional {
			metadata["optional"] = strconv.FormatBool(pkg.Optional)
		}
		if registry, ok := pkg.Source["registry"].(string); ok && registry != "" {
			metadata["source_registry"] = registry
		}
		if len(metadata) > 0 {
			record.RawMetadata = metadata
		}
		snapshot.Records = append(snapshot.Records, record)
	}
	return snapshot, nil
}

// normalizePinnedPyVersion canonicalizes a locked version through PEP 440
// when it parses (e.g. "1.0" and "1.0.0" stay distinct but "1.0.post0"
// renders canonically). Unparsable versions pass through untouched rather
// than failing the whole manifest.
func normalizePinnedPyVersion(value string) string {
	parsed, err := pep440.Parse(value)
	if err != nil {
		return value
	}
	return parsed.String()
}

var _ ports.ManifestParserPort = TomlLockParser{}
