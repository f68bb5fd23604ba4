package adapters

import (
	"bytes"
	"fmt"
	"path"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"depwarden/internal/ports"
	"depwarden/internal/types"
)

// DetectKind maps a manifest path onto its format by file identity. The
// content is never sniffed; a review request tells us exactly which file
// changed.
func DetectKind(sourcePath string) (types.ManifestKind, error) {
	base := strings.ToLower(path.Base(strings.ReplaceAll(sourcePath, "\\", "/")))
	switch base {
	case "poetry.lock":
		return types.ManifestKindPoetryLock, nil
	case "uv.lock":
		return types.ManifestKindUvLock, nil
	case "package-lock.json":
		return types.ManifestKindNpmLock, nil
	case "yarn.lock":
		return types.ManifestKindYarnLock, nil
	case "go.mod":
		return types.ManifestKindGoMod, nil
	}
	// requirements.txt and conventional variants like requirements-dev.txt.
	if strings.HasPrefix(base, "requirements") && strings.HasSuffix(base, ".txt") {
		return types.ManifestKindRequirements, nil
	}
	return "", errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("unsupported manifest file: %s", sourcePath))
}

// ParserFor returns the parser adapter for one manifest kind.
func ParserFor(kind types.ManifestKind) (ports.ManifestParserPort, error) {
	switch kind {
	case types.ManifestKindPoetryLock:
		return NewPoetryLockParser(), nil
	case types.ManifestKindUvLock:
		return NewUvLockParser(), nil
	case types.ManifestKindRequirements:
		return NewRequirementsParser(), nil
	case types.ManifestKindNpmLock:
		return NewNpmLockParser(), nil
	case types.ManifestKindYarnLock:
		return NewYarnLockParser(), nil
	case types.ManifestKindGoMod:
		return NewGoModParser(), nil
	default:
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("no parser for manifest kind %q", kind))
	}
}

func malformedManifest(sourcePath string, cause error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("malformed manifest: %s", sourcePath)).
		WithCause(cause)
}

// looksBinary rejects inputs that cannot be a text manifest, e.g. a file
// delivered with the wrong encoding or truncated mid-byte.
func looksBinary(text []byte) bool {
	return bytes.ContainsRune(text, 0x00)
}
