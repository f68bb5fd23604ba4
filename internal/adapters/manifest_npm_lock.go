package adapters

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"depwarden/internal/core"
	"depwarden/internal/ports"
	"depwarden/internal/types"
)

// NpmLockParser reads package-lock.json v2/v3, which carry the flat
// `packages` map keyed by install path. The same name may appear at
// several resolved versions through node_modules nesting; each occurrence
// becomes a distinct record. Records are emitted in lexicographic path
// order so the snapshot is stable regardless of JSON map ordering.
type NpmLockParser struct{}

func NewNpmLockParser() NpmLockParser {
	return NpmLockParser{}
}

func (p NpmLockParser) Kind() types.ManifestKind {
	return types.ManifestKindNpmLock
}

type npmLockEntry struct {
	Version          string            `json:"version"`
	Resolved         string            `json:"resolved"`
	Dev              bool              `json:"dev"`
	Link             bool              `json:"link"`
	HasInstallScript bool              `json:"hasInstallScript"`
	Dependencies     map[string]string `json:"dependencies"`
	DevDependencies  map[string]string `json:"devDependencies"`
}

type npmLockFile struct {
	LockfileVersion int                     `json:"lockfileVersion"`
	Packages        map[string]npmLockEntry `json:"packages"`
}

func (p NpmLockParser) Parse(sourcePath string, text []byte) (types.ManifestSnapshot, error) {
	var lock npmLockFile
	if err := json.Unmarshal(text, &lock); err != nil {
		return types.ManifestSnapshot{}, malformedManifest(sourcePath, err)
	}
	if lock.Packages == nil {
		if lock.LockfileVersion > 0 && lock.LockfileVersion < 2 {
			return types.ManifestSnapshot{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("unsupported package-lock version %d: %s", lock.LockfileVersion, sourcePath))
		}
		return types.ManifestSnapshot{}, malformedManifest(sourcePath, errors.New("missing packages map"))
	}

	direct := map[string]string{}
	if root, ok := lock.Packages[""]; ok {
		for name, specifier := range root.Dependencies {
			direct[name] = specifier
		}
		for name, specifier := range root.DevDependencies {
			direct[name] = specifier
		}
	}

	paths := make([]string, 0, len(lock.Packages))
	for pkgPath := range lock.Packages {
		if pkgPath == "" {
			continue
		}
		paths = append(paths, pkgPath)
	}
	sort.Strings(paths)

	snapshot := types.ManifestSnapshot{
		SourcePath:  sourcePath,
		Kind:        types.ManifestKindNpmLock,
		Fingerprint: core.Fingerprint(text),
	}
	for _, pkgPath := range paths {
		entry := lock.Packages[pkgPath]
		if entry.Version == "" || entry.Link {
			continue
		}
		name, depth := npmNameFromPath(pkgPath)
		if name == "" {
			continue
		}
		specifier, isDirect := direct[name]
		record := types.DependencyRecord{
			Ecosystem:          types.EcosystemNpm,
			Name:               name,
			RequestedSpecifier: specifier,
			ResolvedVersion:    entry.Version,
			Transitive:         depth > 1 || !isDirect,
		}
		metadata := map[string]string{}
		if entry.HasInstallScript {
			metadata["hasInstallScript"] = "true"
		}
		if entry.Dev {
			metadata["dev"] = strconv.FormatBool(entry.Dev)
		}
		if entry.Resolved != "" {
			metadata["resolved"] = entry.Resolved
		}
		if len(metadata) > 0 {
			record.RawMetadata = metadata
		}
		snapshot.Records = append(snapshot.Records, record)
	}
	return snapshot, nil
}

// npmNameFromPath extracts the package name from an install path like
// "node_modules/@scope/pkg" or "node_modules/a/node_modules/b". The depth
// is the nesting level; anything deeper than one is transitive by
// construction.
func npmNameFromPath(pkgPath string) (string, int) {
	const marker = "node_modules/"
	depth := strings.Count(pkgPath, marker)
	idx := strings.LastIndex(pkgPath, marker)
	if idx < 0 {
		// Workspace entries live outside node_modules; their path is the
		// workspace directory, which is not a registry package name.
		return "", 0
	}
	return pkgPath[idx+len(marker):], depth
}

var _ ports.ManifestParserPort = NpmLockParser{}
