package adapters

import (
	"bufio"
	"bytes"
	"errors"
	"strings"

	"depwarden/internal/core"
	"depwarden/internal/ports"
	"depwarden/internal/types"
)

// YarnLockParser reads both yarn classic (v1) and berry lockfiles. Both
// are line-oriented: an unindented line ending in ':' opens a block whose
// selectors name the package, and an indented `version` line inside the
// block carries the resolved version. The format does not expose a
// direct/transitive distinction, so records default to direct.
type YarnLockParser struct{}

func NewYarnLockParser() YarnLockParser {
	return YarnLockParser{}
}

func (p YarnLockParser) Kind() types.ManifestKind {
	return types.ManifestKindYarnLock
}

func (p YarnLockParser) Parse(sourcePath string, text []byte) (types.ManifestSnapshot, error) {
	if looksBinary(text) {
		return types.ManifestSnapshot{}, malformedManifest(sourcePath, errors.New("binary content"))
	}

	snapshot := types.ManifestSnapshot{
		SourcePath:  sourcePath,
		Kind:        types.ManifestKindYarnLock,
		Fingerprint: core.Fingerprint(text),
	}

	var blockName, blockSpecifier string
	inBlock := false

	flushIncomplete := func() {
		blockName = ""
		blockSpecifier = ""
		inBlock = false
	}

	scanner := bufio.NewScanner(bytes.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		indented := line[0] == ' ' || line[0] == '\t'
		if !indented {
			flushIncomplete()
			if !strings.HasSuffix(trimmed, ":") {
				continue
			}
			selector := firstSelector(strings.TrimSuffix(trimmed, ":"))
			name, specifier, ok := splitSelector(selector)
			if !ok {
				continue
			}
			// Berry metadata blocks (__metadata) and workspace/patch
			// protocol entries are not registry packages.
			if name == "__metadata" || strings.HasPrefix(specifier, "workspace:") || strings.HasPrefix(specifier, "patch:") {
				continue
			}
			blockName = name
			blockSpecifier = specifier
			inBlock = true
			continue
		}

		if !inBlock {
			continue
		}
		version, ok := yarnVersionLine(trimmed)
		if !ok {
			continue
		}
		snapshot.Records = append(snapshot.Records, types.DependencyRecord{
			Ecosystem:          types.EcosystemNpm,
			Name:               blockName,
			RequestedSpecifier: blockSpecifier,
			ResolvedVersion:    version,
		})
		flushIncomplete()
	}
	if err := scanner.Err(); err != nil {
		return types.ManifestSnapshot{}, malformedManifest(sourcePath, err)
	}
	return snapshot, nil
}

// firstSelector picks the first of a comma-separated selector list; all
// selectors in one block resolve to the same version.
func firstSelector(value string) string {
	first := value
	if idx := strings.Index(value, ","); idx >= 0 {
		first = value[:idx]
	}
	return strings.Trim(strings.TrimSpace(first), `"`)
}

// splitSelector separates "name@range" into its parts. Berry selectors
// embed the protocol ("left-pad@npm:^1.3.0"); scoped names keep their
// leading '@' so the split happens on the last '@'.
func splitSelector(selector string) (string, string, bool) {
	if idx := strings.Index(selector, "@npm:"); idx > 0 {
		return selector[:idx], selector[idx+len("@npm:"):], true
	}
	at := strings.LastIndex(selector, "@")
	if at <= 0 {
		return "", "", false
	}
	return selector[:at], selector[at+1:], true
}

// yarnVersionLine matches both classic (`version "1.2.3"`) and berry
// (`version: 1.2.3`) version lines.
func yarnVersionLine(trimmed string) (string, bool) {
	rest, found := strings.CutPrefix(trimmed, "version")
	if !found {
		return "", false
	}
	rest = strings.TrimSpace(strings.TrimPrefix(rest, ":"))
	rest = strings.Trim(rest, `"`)
	if rest == "" || strings.Contains(rest, " ") {
		return "", false
	}
	return rest, true
}

var _ ports.ManifestParserPort = YarnLockParser{}
