package adapters

import (
	"bufio"
	"bytes"
	"errors"
	"strings"

	"depwarden/internal/core"
	"depwarden/internal/ports"
	"depwarden/internal/shared"
	"depwarden/internal/types"
)

// RequirementsParser reads a flat requirements file. Only `name==version`
// pins yield records: risk signals are version-specific, so range
// specifiers carry nothing to look up. The format cannot distinguish
// direct from transitive entries, so every record is treated as direct.
type RequirementsParser struct{}

func NewRequirementsParser() RequirementsParser {
	return RequirementsParser{}
}

func (p RequirementsParser) Kind() types.ManifestKind {
	return types.ManifestKindRequirements
}

func (p RequirementsParser) Parse(sourcePath string, text []byte) (types.ManifestSnapshot, error) {
	if looksBinary(text) {
		return types.ManifestSnapshot{}, malformedManifest(sourcePath, errors.New("binary content"))
	}

	snapshot := types.ManifestSnapshot{
		SourcePath:  sourcePath,
		Kind:        types.ManifestKindRequirements,
		Fingerprint: core.Fingerprint(text),
	}

	scanner := bufio.NewScanner(bytes.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// pip options such as -r, -e, --index-url are not dependencies.
		if strings.HasPrefix(line, "-") {
			continue
		}
		if idx := strings.Index(line, " #"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}
		// Environment markers do not affect the pinned version.
		if idx := strings.Index(line, ";"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}
		name, version, pinned := strings.Cut(line, "==")
		if !pinned {
			continue
		}
		name = strings.TrimSpace(name)
		version = strings.TrimSpace(version)
		if name == "" || version == "" {
			continue
		}
		snapshot.Records = append(snapshot.Records, types.DependencyRecord{
			Ecosystem:          types.EcosystemPyPI,
			Name:               shared.StripExtras(name),
			RequestedSpecifier: line,
			ResolvedVersion:    normalizePinnedPyVersion(version),
		})
	}
	if err := scanner.Err(); err != nil {
		return types.ManifestSnapshot{}, malformedManifest(sourcePath, err)
	}
	return snapshot, nil
}

var _ ports.ManifestParserPort = RequirementsParser{}
