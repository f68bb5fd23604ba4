package core

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"golang.org/x/mod/module"

	"depwarden/internal/shared"
	"depwarden/internal/types"
)

// ResolveIdentity maps a dependency record onto the canonical coordinate
// used for signal lookups and suppression keys. It is total except for
// genuinely malformed names, which surface as identity-unresolved on the
// verdict rather than being dropped.
func ResolveIdentity(record types.DependencyRecord) (types.Coordinate, error) {
	name := strings.TrimSpace(record.Name)
	if name == "" {
		return types.Coordinate{}, unresolvable(record, "empty package name")
	}

	switch record.Ecosystem {
	case types.EcosystemPyPI:
		normalized := shared.NormalizePipName(shared.StripExtras(name))
		if normalized == "" || strings.ContainsAny(normalized, " /\\") {
			return types.Coordinate{}, unresolvable(record, "invalid pypi name")
		}
		return types.Coordinate{Registry: types.EcosystemPyPI, Name: normalized}, nil
	case types.EcosystemNpm:
		lowered := strings.ToLower(name)
		if !validNpmName(lowered) {
			return types.Coordinate{}, unresolvable(record, "invalid npm name")
		}
		return types.Coordinate{Registry: types.EcosystemNpm, Name: lowered}, nil
	case types.EcosystemGo:
		if err := module.CheckPath(name); err != nil {
			return types.Coordinate{}, unresolvable(record, err.Error())
		}
		return types.Coordinate{Registry: types.EcosystemGo, Name: name}, nil
	default:
		return types.Coordinate{}, unresolvable(record, "unknown ecosystem")
	}
}

// validNpmName accepts plain and scoped names: "left-pad", "@scope/pkg".
func validNpmName(name string) bool {
	if name == "" || strings.ContainsAny(name, " \t") {
		return false
	}
	if strings.HasPrefix(name, "@") {
		parts := strings.SplitN(name[1:], "/", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return false
		}
		return !strings.Contains(parts[1], "/")
	}
	return !strings.Contains(name, "/")
}

func unresolvable(record types.DependencyRecord, reason string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("unresolvable identity for %s:%s: %s", record.Ecosystem, record.Name, reason))
}
