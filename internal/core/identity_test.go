package core

import (
	"testing"

	"github.com/stretchr/testify/require"

	"depwarden/internal/types"
)

func TestResolveIdentityPyPI(t *testing.T) {
	record := types.DependencyRecord{Ecosystem: types.EcosystemPyPI, Name: "Markdown_It.py"}
	coordinate, err := ResolveIdentity(record)
	require.NoError(t, err)
	require.Equal(t, types.EcosystemPyPI, coordinate.Registry)
	require.Equal(t, "markdown-it-py", coordinate.Name)
}

func TestResolveIdentityPyPIExtras(t *testing.T) {
	record := types.DependencyRecord{Ecosystem: types.EcosystemPyPI, Name: "celery[redis]"}
	coordinate, err := ResolveIdentity(record)
	require.NoError(t, err)
	require.Equal(t, "celery", coordinate.Name)
}

func TestResolveIdentityNpm(t *testing.T) {
	plain, err := ResolveIdentity(types.DependencyRecord{Ecosystem: types.EcosystemNpm, Name: "Left-Pad"})
	require.NoError(t, err)
	require.Equal(t, "left-pad", plain.Name)

	scoped, err := ResolveIdentity(types.DependencyRecord{Ecosystem: types.EcosystemNpm, Name: "@Scope/Widget"})
	require.NoError(t, err)
	require.Equal(t, "@scope/widget", scoped.Name)

	_, err = ResolveIdentity(types.DependencyRecord{Ecosystem: types.EcosystemNpm, Name: "@scope"})
	require.Error(t, err)
	_, err = ResolveIdentity(types.DependencyRecord{Ecosystem: types.EcosystemNpm, Name: "a/b/c"})
	require.Error(t, err)
}

func TestResolveIdentityGo(t *testing.T) {
	coordinate, err := ResolveIdentity(types.DependencyRecord{Ecosystem: types.EcosystemGo, Name: "github.com/rs/zerolog"})
	require.NoError(t, err)
	require.Equal(t, "github.com/rs/zerolog", coordinate.Name)

	_, err = ResolveIdentity(types.DependencyRecord{Ecosystem: types.EcosystemGo, Name: "not a module path"})
	require.Error(t, err)
}

func TestResolveIdentityEmptyName(t *testing.T) {
	_, err := ResolveIdentity(types.DependencyRecord{Ecosystem: types.EcosystemPyPI, Name: "   "})
	require.Error(t, err)
}

func TestResolveIdentityUnknownEcosystem(t *testing.T) {
	_, err := ResolveIdentity(types.DependencyRecord{Ecosystem: "cargo", Name: "serde"})
	require.Error(t, err)
}
